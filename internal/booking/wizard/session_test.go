package wizard

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/suraja9/ocl-services/internal/booking/model"
)

func sessionTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&Session{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func TestSessionService_CreateApplyGet(t *testing.T) {
	svc := NewSessionService(sessionTestDB(t), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx)
	assert.NoError(t, err)
	assert.Equal(t, StepServiceability, created.Snapshot.Current)
	assert.False(t, created.Submitted)

	_, err = svc.Apply(ctx, created.ID, SubmitServiceability{
		Form: ServiceabilityForm{OriginPincode: "781001", DestinationPincode: "781005", OriginServiceable: true, DestinationServiceable: true},
	})
	assert.NoError(t, err)

	// The applied snapshot survives a reload.
	loaded, err := svc.Get(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "781001", loaded.Snapshot.Serviceability.OriginPincode)
	assert.True(t, loaded.Snapshot.Completed[int(StepServiceability)])

	advanced, err := svc.Next(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, StepOrigin, advanced.Snapshot.Current)
}

func TestSessionService_GetUnknownID(t *testing.T) {
	svc := NewSessionService(sessionTestDB(t), nil)

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrRecordNotFound)
}

func TestSessionService_FailedMutationNotPersisted(t *testing.T) {
	svc := NewSessionService(sessionTestDB(t), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx)
	assert.NoError(t, err)

	// Next on an incomplete step must not advance the stored session.
	_, err = svc.Next(ctx, created.ID)
	assert.ErrorIs(t, err, ErrStepIncomplete)

	loaded, err := svc.Get(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, StepServiceability, loaded.Snapshot.Current)
}

func TestSessionService_Reset(t *testing.T) {
	svc := NewSessionService(sessionTestDB(t), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx)
	assert.NoError(t, err)

	_, err = svc.Apply(ctx, created.ID, SubmitServiceability{
		Form: ServiceabilityForm{OriginPincode: "781001", DestinationPincode: "781005", OriginServiceable: true, DestinationServiceable: true},
	})
	assert.NoError(t, err)

	reset, err := svc.Reset(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, StepServiceability, reset.Snapshot.Current)
	assert.Empty(t, reset.Snapshot.Serviceability.OriginPincode)
	assert.False(t, reset.Submitted)
}

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		actionType string
		payload    string
		want       Action
	}{
		{
			actionType: "submitServiceability",
			payload:    `{"form":{"originPincode":"781001"}}`,
			want:       SubmitServiceability{Form: ServiceabilityForm{OriginPincode: "781001"}},
		},
		{
			actionType: "submitOrigin",
			payload:    `{"party":{"name":"Suraj Traders","phone":"9876543210"}}`,
			want:       SubmitOrigin{Party: model.Party{Name: "Suraj Traders", Phone: "9876543210"}},
		},
		{
			actionType: "submitDestination",
			payload:    `{"party":{"name":"Borah Distributors"}}`,
			want:       SubmitDestination{Party: model.Party{Name: "Borah Distributors"}},
		},
		{
			actionType: "submitShipment",
			payload:    `{"form":{"serviceType":"express"}}`,
			want:       SubmitShipment{Form: ShipmentForm{ServiceType: "express"}},
		},
		{
			actionType: "submitMaterial",
			payload:    `{"form":{"actualWeight":8}}`,
			want:       SubmitMaterial{Form: MaterialForm{ActualWeight: 8}},
		},
		{
			actionType: "submitUpload",
			payload:    `{"form":{"termsAccepted":true}}`,
			want:       SubmitUpload{Form: UploadForm{TermsAccepted: true}},
		},
		{
			actionType: "submitBill",
			payload:    `{"form":{"partyType":"consignor","billType":"normal"}}`,
			want:       SubmitBill{Form: BillForm{PartyType: "consignor", BillType: "normal"}},
		},
		{
			actionType: "submitDetails",
			payload:    `{"form":{"freightPerKg":20}}`,
			want:       SubmitDetails{Form: DetailsForm{FreightPerKg: 20}},
		},
		{
			actionType: "submitPayment",
			payload:    `{"form":{"paymentMode":"cash"}}`,
			want:       SubmitPayment{Form: PaymentForm{PaymentMode: "cash"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.actionType, func(t *testing.T) {
			got, err := DecodeAction(tc.actionType, json.RawMessage(tc.payload))
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("empty payload yields zero value", func(t *testing.T) {
		got, err := DecodeAction("submitPayment", nil)
		assert.NoError(t, err)
		assert.Equal(t, SubmitPayment{}, got)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := DecodeAction("submitNothing", json.RawMessage(`{}`))
		assert.Error(t, err)
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, err := DecodeAction("submitOrigin", json.RawMessage(`{`))
		assert.Error(t, err)
	})
}
