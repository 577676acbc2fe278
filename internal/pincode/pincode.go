// Package pincode answers the serviceability and address lookups that feed
// the wizard's first three steps.
package pincode

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/suraja9/ocl-services/internal/booking/model"
)

// Pincode is one serviceable area entry.
type Pincode struct {
	model.BaseModel
	Pincode     string `gorm:"type:varchar(10);column:pincode;not null;uniqueIndex" json:"pincode"`
	City        string `gorm:"type:varchar(100);column:city;not null" json:"city"`
	District    string `gorm:"type:varchar(100);column:district" json:"district"`
	State       string `gorm:"type:varchar(100);column:state;not null" json:"state"`
	Serviceable bool   `gorm:"column:serviceable;not null;default:true" json:"serviceable"`
}

func (p *Pincode) TableName() string {
	return "pincodes"
}

// AddressBookEntry is a previously used address, searchable by phone so the
// wizard can prefill the origin or destination form.
type AddressBookEntry struct {
	model.BaseModel
	Phone string      `gorm:"type:varchar(20);column:phone;not null;index" json:"phone"`
	Party model.Party `gorm:"type:jsonb;column:party;serializer:json;not null" json:"party"`
}

func (a *AddressBookEntry) TableName() string {
	return "address_book_entries"
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Lookup resolves one pincode. Unknown pincodes are reported not found so the
// serviceability step treats them as unserviceable.
func (s *Service) Lookup(ctx context.Context, pin string) (*Pincode, error) {
	if pin == "" {
		return nil, fmt.Errorf("pincode cannot be empty")
	}
	var entry Pincode
	result := s.db.WithContext(ctx).First(&entry, "pincode = ?", pin)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("pincode %s: %w", pin, model.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("pincode lookup failed: %w", result.Error)
	}
	return &entry, nil
}

// SearchByPhone returns the saved addresses for a phone number, most recently
// used first.
func (s *Service) SearchByPhone(ctx context.Context, phone string) ([]AddressBookEntry, error) {
	if phone == "" {
		return nil, fmt.Errorf("phone cannot be empty")
	}
	var entries []AddressBookEntry
	result := s.db.WithContext(ctx).
		Where("phone = ?", phone).
		Order("updated_at DESC").
		Find(&entries)
	if result.Error != nil {
		return nil, fmt.Errorf("address search failed: %w", result.Error)
	}
	return entries, nil
}

// Remember upserts the party into the address book under its phone number.
func (s *Service) Remember(ctx context.Context, party model.Party) error {
	if party.Phone == "" {
		return fmt.Errorf("party phone cannot be empty")
	}
	entry := AddressBookEntry{Phone: party.Phone, Party: party}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to save address book entry: %w", err)
	}
	return nil
}
