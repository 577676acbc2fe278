package model

import (
	"github.com/google/uuid"
)

// ChargeBreakdown holds the eleven charge lines of an office booking together
// with the amounts derived from them. All values are in rupees.
type ChargeBreakdown struct {
	FreightCharge    float64 `json:"freightCharge"`
	AWBCharge        float64 `json:"awbCharge"`
	PickupCharge     float64 `json:"pickupCharge"`
	LocalCollection  float64 `json:"localCollection"`
	DoorDelivery     float64 `json:"doorDelivery"`
	LoadingUnloading float64 `json:"loadingUnloading"`
	Demurrage        float64 `json:"demurrage"`
	ODADDACharge     float64 `json:"odaDdaCharge"`
	Hamali           float64 `json:"hamali"`
	Packing          float64 `json:"packing"`
	OtherCharge      float64 `json:"otherCharge"`

	Subtotal      float64 `json:"subtotal"`
	FuelPercent   float64 `json:"fuelPercent"`
	FuelAmount    float64 `json:"fuelAmount"`
	TotalWithFuel float64 `json:"totalWithFuel"`
	CGSTAmount    float64 `json:"cgstAmount"`
	SGSTAmount    float64 `json:"sgstAmount"`
	IGSTAmount    float64 `json:"igstAmount"`
	GrandTotal    float64 `json:"grandTotal"`
}

// OfficeBooking is the persisted result of a completed booking wizard session.
type OfficeBooking struct {
	BaseModel
	ConsignmentNumber string          `gorm:"type:varchar(50);column:consignment_number;not null;uniqueIndex" json:"consignmentNumber"`
	BookingReference  string          `gorm:"type:varchar(50);column:booking_reference;not null" json:"bookingReference"`
	CurrentStatus     Status          `gorm:"type:varchar(30);column:current_status;not null" json:"currentStatus"`
	Origin            Party           `gorm:"type:jsonb;column:origin;serializer:json;not null" json:"origin"`
	Destination       Party           `gorm:"type:jsonb;column:destination;serializer:json;not null" json:"destination"`
	Shipment          Shipment        `gorm:"type:jsonb;column:shipment;serializer:json;not null" json:"shipment"`
	Insurance         *InsurancePolicy `gorm:"type:jsonb;column:insurance;serializer:json" json:"insurance,omitempty"`
	PackageImageKeys  []string        `gorm:"type:jsonb;column:package_image_keys;serializer:json;not null" json:"packageImageKeys"`
	DocumentKeys      []string        `gorm:"type:jsonb;column:document_keys;serializer:json;not null" json:"documentKeys"`
	VolumetricWeight  float64         `gorm:"column:volumetric_weight" json:"volumetricWeight"`
	ChargeableWeight  float64         `gorm:"column:chargeable_weight" json:"chargeableWeight"`
	BillType          string          `gorm:"type:varchar(20);column:bill_type;not null" json:"billType"`
	BilledPartyType   string          `gorm:"type:varchar(20);column:billed_party_type;not null" json:"billedPartyType"`
	BilledParty       *Party          `gorm:"type:jsonb;column:billed_party;serializer:json" json:"billedParty,omitempty"`
	Charges           ChargeBreakdown `gorm:"type:jsonb;column:charges;serializer:json;not null" json:"charges"`
	PaymentMode       string          `gorm:"type:varchar(30);column:payment_mode;not null" json:"paymentMode"`
	DeliveryType      string          `gorm:"type:varchar(30);column:delivery_type;not null" json:"deliveryType"`
	AssigneeID        *uuid.UUID      `gorm:"type:uuid;column:assignee_id" json:"assigneeId,omitempty"`
}

func (o *OfficeBooking) TableName() string {
	return "office_bookings"
}

// BookingResult is returned to the caller once a wizard submission succeeds.
type BookingResult struct {
	BookingID         uuid.UUID `json:"bookingId"`
	ConsignmentNumber string    `json:"consignmentNumber"`
	BookingReference  string    `json:"bookingReference"`
}
