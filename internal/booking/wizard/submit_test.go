package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/suraja9/ocl-services/internal/booking/model"
	"github.com/suraja9/ocl-services/internal/events"
)

// MockBookingStore is a mock implementation of BookingStore
type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) CreateOfficeBooking(ctx context.Context, booking *model.OfficeBooking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

// MockFinalizer is a mock implementation of AttachmentFinalizer
type MockFinalizer struct {
	mock.Mock
}

func (m *MockFinalizer) Finalize(ctx context.Context, bookingReference string, keys []string) error {
	args := m.Called(ctx, bookingReference, keys)
	return args.Error(0)
}

type fixedNumbers struct{}

func (fixedNumbers) Next(ctx context.Context) (string, string, error) {
	return "123456789012", "OCL-TEST0001", nil
}

func TestSubmit_Success(t *testing.T) {
	store := new(MockBookingStore)
	finalizer := new(MockFinalizer)
	bus := events.NewBus(nil)

	usageCh, cancel := bus.Subscribe(events.TopicConsignmentUsageUpdated, 1)
	defer cancel()

	store.On("CreateOfficeBooking", mock.Anything, mock.AnythingOfType("*model.OfficeBooking")).Return(nil)
	finalizer.On("Finalize", mock.Anything, "OCL-TEST0001", []string{"package_image/a.jpg"}).Return(nil)

	w := completeWizard(t)
	submitter := NewSubmitter(store, finalizer, fixedNumbers{}, bus)

	result, err := submitter.Submit(context.Background(), w)
	assert.NoError(t, err)
	assert.Equal(t, "123456789012", result.ConsignmentNumber)
	assert.Equal(t, "OCL-TEST0001", result.BookingReference)

	// Session is terminal after a successful submit.
	assert.Equal(t, StepSuccess, w.Snapshot().Current)

	store.AssertExpectations(t)
	finalizer.AssertExpectations(t)

	select {
	case e := <-usageCh:
		usage, ok := e.(events.ConsignmentUsageUpdated)
		assert.True(t, ok)
		assert.Equal(t, "123456789012", usage.ConsignmentNumber)
	default:
		t.Fatal("expected a consignment usage event")
	}
}

func TestSubmit_AssemblesBooking(t *testing.T) {
	store := new(MockBookingStore)
	finalizer := new(MockFinalizer)

	var captured *model.OfficeBooking
	store.On("CreateOfficeBooking", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*model.OfficeBooking)
	}).Return(nil)
	finalizer.On("Finalize", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	w := completeWizard(t)
	submitter := NewSubmitter(store, finalizer, fixedNumbers{}, events.NewBus(nil))

	_, err := submitter.Submit(context.Background(), w)
	assert.NoError(t, err)
	if assert.NotNil(t, captured) {
		assert.Equal(t, "123456789012", captured.ConsignmentNumber)
		assert.Equal(t, model.StatusBooked, captured.CurrentStatus)
		assert.Equal(t, "Suraj Traders", captured.Origin.Name)
		assert.Equal(t, 12.0, captured.ChargeableWeight)
		assert.Equal(t, 240.0, captured.Charges.FreightCharge)
		// normal bill, Assam billed party: CGST + SGST on the fuel-inclusive total
		assert.Equal(t, 0.0, captured.Charges.IGSTAmount)
		assert.Greater(t, captured.Charges.CGSTAmount, 0.0)
	}
}

func TestSubmit_IncompleteSessionDoesNothing(t *testing.T) {
	store := new(MockBookingStore)
	finalizer := new(MockFinalizer)

	w := New()
	submitter := NewSubmitter(store, finalizer, fixedNumbers{}, events.NewBus(nil))

	_, err := submitter.Submit(context.Background(), w)
	assert.Error(t, err)

	store.AssertNotCalled(t, "CreateOfficeBooking", mock.Anything, mock.Anything)
	finalizer.AssertNotCalled(t, "Finalize", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_StoreFailureKeepsSessionOnStep(t *testing.T) {
	store := new(MockBookingStore)
	finalizer := new(MockFinalizer)

	finalizer.On("Finalize", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	store.On("CreateOfficeBooking", mock.Anything, mock.Anything).Return(errors.New("db down"))

	w := completeWizard(t)
	submitter := NewSubmitter(store, finalizer, fixedNumbers{}, events.NewBus(nil))

	_, err := submitter.Submit(context.Background(), w)
	assert.Error(t, err)

	// The wizard stays where it was so the operator can retry.
	assert.Equal(t, StepPayment, w.Snapshot().Current)
}

func TestSubmit_FinalizeFailureStopsPipeline(t *testing.T) {
	store := new(MockBookingStore)
	finalizer := new(MockFinalizer)

	finalizer.On("Finalize", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("missing key"))

	w := completeWizard(t)
	submitter := NewSubmitter(store, finalizer, fixedNumbers{}, events.NewBus(nil))

	_, err := submitter.Submit(context.Background(), w)
	assert.Error(t, err)
	store.AssertNotCalled(t, "CreateOfficeBooking", mock.Anything, mock.Anything)
}
