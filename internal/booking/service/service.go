// Package service persists office bookings and the records that accompany
// them.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suraja9/ocl-services/internal/booking/model"
)

type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// CreateOfficeBooking stores the booking and opens its tracking record in one
// transaction, so a booked consignment is immediately scannable.
func (s *BookingService) CreateOfficeBooking(ctx context.Context, booking *model.OfficeBooking) error {
	if booking == nil {
		return fmt.Errorf("booking cannot be nil")
	}
	if booking.ConsignmentNumber == "" {
		return fmt.Errorf("booking consignment number cannot be empty")
	}

	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create office booking: %w", err)
		}

		tracking := &model.TrackingRecord{
			ConsignmentNumber: booking.ConsignmentNumber,
			CurrentStatus:     booking.CurrentStatus,
			BookedEvents: []model.TrackingEvent{
				{Status: model.StatusBooked, Timestamp: now},
			},
			PickupEvents:     []model.TrackingEvent{},
			ReceivedEvents:   []model.TrackingEvent{},
			ActualWeight:     booking.Shipment.ActualWeight,
			ChargeableWeight: booking.ChargeableWeight,
		}
		if booking.CurrentStatus == model.StatusPicked || booking.CurrentStatus == model.StatusPickup {
			tracking.PickupEvents = append(tracking.PickupEvents, model.TrackingEvent{
				Status:    booking.CurrentStatus,
				Timestamp: now,
			})
		}
		if err := tx.Create(tracking).Error; err != nil {
			return fmt.Errorf("failed to create tracking record: %w", err)
		}
		return nil
	})
}

// GetOfficeBookingByID retrieves one booking.
func (s *BookingService) GetOfficeBookingByID(ctx context.Context, id uuid.UUID) (*model.OfficeBooking, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("booking ID cannot be nil")
	}
	var booking model.OfficeBooking
	result := s.db.WithContext(ctx).First(&booking, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("office booking %s: %w", id, model.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to retrieve office booking: %w", result.Error)
	}
	return &booking, nil
}

// ListAssignees returns the couriers that can be assigned pickups.
func (s *BookingService) ListAssignees(ctx context.Context, activeOnly bool) ([]model.Assignee, error) {
	var assignees []model.Assignee
	q := s.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("active = true")
	}
	if err := q.Order("name").Find(&assignees).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignees: %w", err)
	}
	return assignees, nil
}

// Numbers allocates consignment numbers and booking references.
type Numbers struct{}

// Next returns a fresh twelve digit consignment number and an OCL booking
// reference.
func (Numbers) Next(ctx context.Context) (string, string, error) {
	digits := make([]byte, 12)
	for i := range digits {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", "", fmt.Errorf("failed to generate consignment number: %w", err)
		}
		digits[i] = byte('0' + d.Int64())
	}
	// Leading zero would shorten the number on numeric displays.
	if digits[0] == '0' {
		digits[0] = '9'
	}

	ref := "OCL-" + strings.ToUpper(uuid.NewString()[:8])
	return string(digits), ref, nil
}
