package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/suraja9/ocl-services/internal/booking/model"
)

// Source names, in chain order.
const (
	SourceTracking        = "tracking"
	SourceAddressForm     = "addressForm"
	SourceCustomerBooking = "customerBooking"
)

// Store gives the sources access to the three record tables.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Sources builds the ordered chain. receiveStatus is the status a successful
// scan transitions to: StatusReceived for the generic screens,
// StatusArrivedAtHub for the medicine-logistics variant.
func (s *Store) Sources(receiveStatus model.Status) []Source {
	pickup := model.StatusPickup
	picked := model.StatusPicked
	return []Source{
		{
			Name:           SourceTracking,
			Lookup:         s.lookupTracking,
			RequiredStatus: &pickup,
			Receive: func(ctx context.Context, c *Candidate) (*ReceivedRecord, error) {
				return s.receiveTracking(ctx, c, receiveStatus)
			},
		},
		{
			Name:   SourceAddressForm,
			Lookup: s.lookupAddressForm,
			// The address-form source has no intermediate pickup gate.
			Receive: func(ctx context.Context, c *Candidate) (*ReceivedRecord, error) {
				return s.receiveAddressForm(ctx, c, receiveStatus)
			},
		},
		{
			Name:           SourceCustomerBooking,
			Lookup:         s.lookupCustomerBooking,
			RequiredStatus: &picked,
			Receive: func(ctx context.Context, c *Candidate) (*ReceivedRecord, error) {
				return s.receiveCustomerBooking(ctx, c, receiveStatus)
			},
		},
	}
}

func (s *Store) lookupTracking(ctx context.Context, consignmentNumber string) (*Candidate, error) {
	var rec model.TrackingRecord
	if err := s.first(ctx, &rec, consignmentNumber); err != nil {
		return nil, err
	}
	return &Candidate{
		OrderID:           rec.ID,
		ConsignmentNumber: rec.ConsignmentNumber,
		Status:            rec.CurrentStatus,
	}, nil
}

func (s *Store) lookupAddressForm(ctx context.Context, consignmentNumber string) (*Candidate, error) {
	var rec model.AddressFormBooking
	if err := s.first(ctx, &rec, consignmentNumber); err != nil {
		return nil, err
	}
	return &Candidate{
		OrderID:           rec.ID,
		ConsignmentNumber: rec.ConsignmentNumber,
		Status:            rec.AssignmentData.Status,
		OriginName:        rec.OriginData.Name,
		DestinationName:   rec.DestinationData.Name,
	}, nil
}

func (s *Store) lookupCustomerBooking(ctx context.Context, consignmentNumber string) (*Candidate, error) {
	var rec model.CustomerBooking
	if err := s.first(ctx, &rec, consignmentNumber); err != nil {
		return nil, err
	}
	return &Candidate{
		OrderID:           rec.ID,
		ConsignmentNumber: rec.ConsignmentNumber,
		Status:            rec.CurrentStatus,
		OriginName:        rec.Origin.Name,
		DestinationName:   rec.Destination.Name,
	}, nil
}

// first maps gorm's not-found onto the sentinel the chain falls through on.
func (s *Store) first(ctx context.Context, dest any, consignmentNumber string) error {
	result := s.db.WithContext(ctx).First(dest, "consignment_number = ?", consignmentNumber)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("consignment %s: %w", consignmentNumber, model.ErrRecordNotFound)
		}
		return fmt.Errorf("lookup failed for consignment %s: %w", consignmentNumber, result.Error)
	}
	return nil
}

func (s *Store) receiveTracking(ctx context.Context, c *Candidate, to model.Status) (*ReceivedRecord, error) {
	now := time.Now().UTC()
	var rec model.TrackingRecord

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, "id = ?", c.OrderID).Error; err != nil {
			return fmt.Errorf("failed to reload tracking record: %w", err)
		}
		rec.CurrentStatus = to
		rec.ReceivedEvents = append(rec.ReceivedEvents, model.TrackingEvent{
			Status:    to,
			Timestamp: now,
		})
		if err := tx.Save(&rec).Error; err != nil {
			return fmt.Errorf("failed to update tracking record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ReceivedRecord{
		OrderID:           rec.ID,
		ConsignmentNumber: rec.ConsignmentNumber,
		Source:            SourceTracking,
		NewStatus:         to,
		ScannedAt:         now,
	}, nil
}

func (s *Store) receiveAddressForm(ctx context.Context, c *Candidate, to model.Status) (*ReceivedRecord, error) {
	now := time.Now().UTC()
	var rec model.AddressFormBooking

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, "id = ?", c.OrderID).Error; err != nil {
			return fmt.Errorf("failed to reload address-form booking: %w", err)
		}
		rec.AssignmentData.Status = to
		if err := tx.Save(&rec).Error; err != nil {
			return fmt.Errorf("failed to update address-form booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ReceivedRecord{
		OrderID:           rec.ID,
		ConsignmentNumber: rec.ConsignmentNumber,
		Source:            SourceAddressForm,
		NewStatus:         to,
		OriginName:        rec.OriginData.Name,
		DestinationName:   rec.DestinationData.Name,
		ScannedAt:         now,
	}, nil
}

func (s *Store) receiveCustomerBooking(ctx context.Context, c *Candidate, to model.Status) (*ReceivedRecord, error) {
	now := time.Now().UTC()
	var rec model.CustomerBooking

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, "id = ?", c.OrderID).Error; err != nil {
			return fmt.Errorf("failed to reload customer booking: %w", err)
		}
		rec.CurrentStatus = to
		if err := tx.Save(&rec).Error; err != nil {
			return fmt.Errorf("failed to update customer booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ReceivedRecord{
		OrderID:           rec.ID,
		ConsignmentNumber: rec.ConsignmentNumber,
		Source:            SourceCustomerBooking,
		NewStatus:         to,
		OriginName:        rec.Origin.Name,
		DestinationName:   rec.Destination.Name,
		ScannedAt:         now,
	}, nil
}

// UpdateTrackingWeight revises the weights on a tracking record and returns
// the updated record for the weight-updated notification.
func (s *Store) UpdateTrackingWeight(ctx context.Context, consignmentNumber string, actual, chargeable float64) (*model.TrackingRecord, error) {
	var rec model.TrackingRecord
	if err := s.first(ctx, &rec, consignmentNumber); err != nil {
		return nil, err
	}
	rec.ActualWeight = actual
	rec.ChargeableWeight = chargeable
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return nil, fmt.Errorf("failed to update tracking weights: %w", err)
	}
	return &rec, nil
}
