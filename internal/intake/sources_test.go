package intake

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/suraja9/ocl-services/internal/booking/model"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&model.TrackingRecord{},
		&model.AddressFormBooking{},
		&model.CustomerBooking{},
		&ReceivedEntry{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedTracking(t *testing.T, db *gorm.DB, cn string, status model.Status) *model.TrackingRecord {
	t.Helper()
	rec := &model.TrackingRecord{
		ConsignmentNumber: cn,
		CurrentStatus:     status,
		BookedEvents:      []model.TrackingEvent{{Status: model.StatusBooked}},
		PickupEvents:      []model.TrackingEvent{},
		ReceivedEvents:    []model.TrackingEvent{},
	}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("failed to seed tracking record: %v", err)
	}
	return rec
}

func TestStoreChain_ReceivesFromTracking(t *testing.T) {
	db := testDB(t)
	store := NewStore(db)
	seedTracking(t, db, "123456789012", model.StatusPickup)

	r := NewResolver(store.Sources(model.StatusReceived), nil, nil)

	outcome, err := r.ResolveAndReceive(context.Background(), "123456789012")
	assert.NoError(t, err)
	assert.Equal(t, OutcomeReceived, outcome.Kind)
	assert.Equal(t, SourceTracking, outcome.Source)

	var rec model.TrackingRecord
	assert.NoError(t, db.First(&rec, "consignment_number = ?", "123456789012").Error)
	assert.Equal(t, model.StatusReceived, rec.CurrentStatus)
	if assert.Len(t, rec.ReceivedEvents, 1) {
		assert.Equal(t, model.StatusReceived, rec.ReceivedEvents[0].Status)
	}
}

func TestStoreChain_MedicineVariantArrivesAtHub(t *testing.T) {
	db := testDB(t)
	store := NewStore(db)
	seedTracking(t, db, "123456789012", model.StatusPickup)

	r := NewResolver(store.Sources(model.StatusArrivedAtHub), nil, nil)

	outcome, err := r.ResolveAndReceive(context.Background(), "123456789012")
	assert.NoError(t, err)
	assert.Equal(t, OutcomeReceived, outcome.Kind)
	assert.Equal(t, model.StatusArrivedAtHub, outcome.Record.NewStatus)

	// A second scan finds the terminal record and mutates nothing.
	outcome, err = r.ResolveAndReceive(context.Background(), "123456789012")
	assert.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyReceived, outcome.Kind)
}

func TestStoreChain_FallsThroughToAddressForm(t *testing.T) {
	db := testDB(t)
	store := NewStore(db)

	booking := &model.AddressFormBooking{
		ConsignmentNumber: "223456789012",
		OriginData:        model.Party{Name: "Suraj Traders"},
		DestinationData:   model.Party{Name: "Borah Distributors"},
		ShipmentData:      model.Shipment{},
		AssignmentData:    model.Assignment{Status: model.StatusBooked},
	}
	assert.NoError(t, db.Create(booking).Error)

	r := NewResolver(store.Sources(model.StatusReceived), nil, nil)

	outcome, err := r.ResolveAndReceive(context.Background(), "223456789012")
	assert.NoError(t, err)
	assert.Equal(t, OutcomeReceived, outcome.Kind)
	assert.Equal(t, SourceAddressForm, outcome.Source)
	assert.Equal(t, "Suraj Traders", outcome.Record.OriginName)

	var stored model.AddressFormBooking
	assert.NoError(t, db.First(&stored, "consignment_number = ?", "223456789012").Error)
	assert.Equal(t, model.StatusReceived, stored.AssignmentData.Status)
}

func TestStoreChain_CustomerBookingGate(t *testing.T) {
	db := testDB(t)
	store := NewStore(db)

	booking := &model.CustomerBooking{
		ConsignmentNumber: "323456789012",
		CurrentStatus:     model.StatusBooked,
		Origin:            model.Party{Name: "Customer A"},
		Destination:       model.Party{Name: "Customer B"},
		PackageImages:     []string{},
	}
	assert.NoError(t, db.Create(booking).Error)

	r := NewResolver(store.Sources(model.StatusReceived), nil, nil)

	// Booked customer bookings are not yet receivable.
	outcome, err := r.ResolveAndReceive(context.Background(), "323456789012")
	assert.NoError(t, err)
	assert.Equal(t, OutcomeInvalidState, outcome.Kind)
	assert.Equal(t, model.StatusPicked, outcome.RequiredStatus)

	assert.NoError(t, db.Model(booking).Update("current_status", model.StatusPicked).Error)

	outcome, err = r.ResolveAndReceive(context.Background(), "323456789012")
	assert.NoError(t, err)
	assert.Equal(t, OutcomeReceived, outcome.Kind)
	assert.Equal(t, SourceCustomerBooking, outcome.Source)
}

func TestStoreChain_NotFoundAnywhere(t *testing.T) {
	store := NewStore(testDB(t))
	r := NewResolver(store.Sources(model.StatusReceived), nil, nil)

	outcome, err := r.ResolveAndReceive(context.Background(), "999999999999")
	assert.NoError(t, err)
	assert.Equal(t, OutcomeNotFoundAnywhere, outcome.Kind)
}

func TestUpdateTrackingWeight(t *testing.T) {
	db := testDB(t)
	store := NewStore(db)
	seedTracking(t, db, "123456789012", model.StatusPickup)

	rec, err := store.UpdateTrackingWeight(context.Background(), "123456789012", 9.5, 12)
	assert.NoError(t, err)
	assert.Equal(t, 9.5, rec.ActualWeight)
	assert.Equal(t, 12.0, rec.ChargeableWeight)

	_, err = store.UpdateTrackingWeight(context.Background(), "000000000000", 1, 1)
	assert.ErrorIs(t, err, model.ErrRecordNotFound)
}

func TestReceivedLog(t *testing.T) {
	db := testDB(t)
	log := NewReceivedLog(db, ChannelMedicine)
	ctx := context.Background()

	for _, cn := range []string{"111111111111", "222222222222"} {
		err := log.Record(ctx, &ReceivedRecord{
			ConsignmentNumber: cn,
			Source:            SourceTracking,
			NewStatus:         model.StatusArrivedAtHub,
		})
		assert.NoError(t, err)
	}

	recent := log.Recent()
	if assert.Len(t, recent, 2) {
		// Newest first.
		assert.Equal(t, "222222222222", recent[0].ConsignmentNumber)
	}

	entries, err := log.List(ctx, nil, nil)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)

	assert.NoError(t, log.ClearAll(ctx))
	assert.Empty(t, log.Recent())
	entries, err = log.List(ctx, nil, nil)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}
