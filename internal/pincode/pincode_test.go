package pincode

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/suraja9/ocl-services/internal/booking/model"
)

func testService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&Pincode{}, &AddressBookEntry{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return NewService(db), db
}

func TestLookup(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	assert.NoError(t, db.Create(&Pincode{
		Pincode:     "781001",
		City:        "Guwahati",
		District:    "Kamrup Metropolitan",
		State:       "Assam",
		Serviceable: true,
	}).Error)

	entry, err := svc.Lookup(ctx, "781001")
	assert.NoError(t, err)
	assert.Equal(t, "Guwahati", entry.City)
	assert.Equal(t, "Assam", entry.State)
	assert.True(t, entry.Serviceable)

	_, err = svc.Lookup(ctx, "110001")
	assert.ErrorIs(t, err, model.ErrRecordNotFound)

	_, err = svc.Lookup(ctx, "")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrRecordNotFound)
}

func TestRememberAndSearchByPhone(t *testing.T) {
	svc, db := testService(t)
	ctx := context.Background()

	older := model.Party{Name: "Suraj Traders", Phone: "9876543210", City: "Guwahati", State: "Assam"}
	newer := model.Party{Name: "Suraj Traders Warehouse", Phone: "9876543210", City: "Jorhat", State: "Assam"}

	assert.NoError(t, svc.Remember(ctx, older))

	// Backdate the first entry so recency ordering is deterministic.
	assert.NoError(t, db.Model(&AddressBookEntry{}).
		Where("phone = ?", "9876543210").
		Update("updated_at", time.Now().UTC().Add(-time.Hour)).Error)

	assert.NoError(t, svc.Remember(ctx, newer))

	entries, err := svc.SearchByPhone(ctx, "9876543210")
	assert.NoError(t, err)
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "Suraj Traders Warehouse", entries[0].Party.Name)
		assert.Equal(t, "Suraj Traders", entries[1].Party.Name)
	}

	entries, err = svc.SearchByPhone(ctx, "1112223334")
	assert.NoError(t, err)
	assert.Empty(t, entries)

	err = svc.Remember(ctx, model.Party{Name: "No Phone"})
	assert.Error(t, err)
}
