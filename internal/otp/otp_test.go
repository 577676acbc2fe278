package otp

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

type captureSender struct {
	phone string
	code  string
}

func (c *captureSender) Send(_ context.Context, phone, code string) error {
	c.phone = phone
	c.code = code
	return nil
}

func testService(t *testing.T, ttl time.Duration) (*Service, *captureSender, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&Code{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	sender := &captureSender{}
	return NewService(db, sender, ttl), sender, db
}

func TestIssueAndVerify(t *testing.T) {
	svc, sender, _ := testService(t, 5*time.Minute)
	ctx := context.Background()

	issued, err := svc.Issue(ctx, "9876543210")
	assert.NoError(t, err)
	assert.Len(t, issued.Code, 6)
	assert.Equal(t, "9876543210", sender.phone)
	assert.Equal(t, issued.Code, sender.code)

	assert.NoError(t, svc.Verify(ctx, "9876543210", sender.code))

	// Verification consumes the code.
	err = svc.Verify(ctx, "9876543210", sender.code)
	assert.ErrorIs(t, err, model.ErrRecordNotFound)
}

func TestIssue_EmptyPhone(t *testing.T) {
	svc, _, _ := testService(t, 5*time.Minute)
	_, err := svc.Issue(context.Background(), "")
	assert.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	svc, sender, _ := testService(t, -time.Minute)
	ctx := context.Background()

	_, err := svc.Issue(ctx, "9876543210")
	assert.NoError(t, err)

	err = svc.Verify(ctx, "9876543210", sender.code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestVerify_MismatchCountsAttempts(t *testing.T) {
	svc, sender, db := testService(t, 5*time.Minute)
	ctx := context.Background()

	issued, err := svc.Issue(ctx, "9876543210")
	assert.NoError(t, err)

	err = svc.Verify(ctx, "9876543210", "000000")
	if sender.code == "000000" {
		t.Skip("generated code collided with the mismatch probe")
	}
	assert.ErrorIs(t, err, ErrCodeMismatch)

	var stored Code
	assert.NoError(t, db.First(&stored, "id = ?", issued.ID).Error)
	assert.Equal(t, 1, stored.Attempts)

	// The right code still verifies after a mismatch.
	assert.NoError(t, svc.Verify(ctx, "9876543210", sender.code))
}

func TestVerify_TooManyAttempts(t *testing.T) {
	svc, sender, _ := testService(t, 5*time.Minute)
	ctx := context.Background()

	_, err := svc.Issue(ctx, "9876543210")
	assert.NoError(t, err)
	if sender.code == "000000" {
		t.Skip("generated code collided with the mismatch probe")
	}

	for i := 0; i < 5; i++ {
		err = svc.Verify(ctx, "9876543210", "000000")
		assert.ErrorIs(t, err, ErrCodeMismatch)
	}

	// The cap locks out even the correct code.
	err = svc.Verify(ctx, "9876543210", sender.code)
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestVerify_NewestCodeWins(t *testing.T) {
	svc, sender, db := testService(t, 5*time.Minute)
	ctx := context.Background()

	first, err := svc.Issue(ctx, "9876543210")
	assert.NoError(t, err)

	// Backdate the first issue so created_at ordering is deterministic.
	assert.NoError(t, db.Model(first).Update("created_at", time.Now().UTC().Add(-time.Minute)).Error)

	_, err = svc.Issue(ctx, "9876543210")
	assert.NoError(t, err)

	if first.Code != sender.code {
		err = svc.Verify(ctx, "9876543210", first.Code)
		assert.ErrorIs(t, err, ErrCodeMismatch)
	}
	assert.NoError(t, svc.Verify(ctx, "9876543210", sender.code))
}
