package model

import (
	"time"

	"github.com/google/uuid"
)

// Party holds one side of a consignment: the consignor or the consignee.
type Party struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	AddressLine string `json:"addressLine"`
	Locality    string `json:"locality"`
	Area        string `json:"area"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
	GSTIN       string `json:"gstin,omitempty"`
}

// Shipment describes the physical consignment being moved.
type Shipment struct {
	NatureOfConsignment string  `json:"natureOfConsignment"`
	InsuranceType       string  `json:"insuranceType"` // "with insurance" or "without insurance"
	RiskCoverage        string  `json:"riskCoverage"`
	ServiceType         string  `json:"serviceType"`
	PackageCount        int     `json:"packageCount"`
	MaterialType        string  `json:"materialType"`
	MaterialOther       string  `json:"materialOther,omitempty"` // free text when MaterialType is "Others"
	Length              float64 `json:"length"`
	Width               float64 `json:"width"`
	Height              float64 `json:"height"`
	ActualWeight        float64 `json:"actualWeight"`
	DeclaredValue       float64 `json:"declaredValue"`
	EWayBillNumber      string  `json:"eWayBillNumber,omitempty"`
}

// InsurancePolicy is required when the shipment is booked with insurance.
type InsurancePolicy struct {
	CompanyName  string `json:"companyName"`
	PolicyNumber string `json:"policyNumber"`
	PolicyDate   string `json:"policyDate"`
	ValidUpto    string `json:"validUpto"`
	DocumentKey  string `json:"documentKey"` // uploaded policy document
}

// TrackingEvent is one entry of a tracking record's append-only phase history.
// The latest element of each phase list is authoritative for that phase.
type TrackingEvent struct {
	Status    Status    `json:"status"`
	Location  string    `json:"location,omitempty"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TrackingRecord is the first intake source: the operational tracking entry
// keyed by consignment number with per-phase event histories.
type TrackingRecord struct {
	BaseModel
	ConsignmentNumber string          `gorm:"type:varchar(50);column:consignment_number;not null;uniqueIndex" json:"consignmentNumber"`
	CurrentStatus     Status          `gorm:"type:varchar(30);column:current_status;not null" json:"currentStatus"`
	BookedEvents      []TrackingEvent `gorm:"type:jsonb;column:booked_events;serializer:json;not null" json:"bookedEvents"`
	PickupEvents      []TrackingEvent `gorm:"type:jsonb;column:pickup_events;serializer:json;not null" json:"pickupEvents"`
	ReceivedEvents    []TrackingEvent `gorm:"type:jsonb;column:received_events;serializer:json;not null" json:"receivedEvents"`
	ActualWeight      float64         `gorm:"column:actual_weight" json:"actualWeight"`
	ChargeableWeight  float64         `gorm:"column:chargeable_weight" json:"chargeableWeight"`
}

func (t *TrackingRecord) TableName() string {
	return "tracking_records"
}

// Assignment carries the courier assignment of an address-form booking.
// Its Status is the lifecycle gate for this source.
type Assignment struct {
	Status     Status     `json:"status"`
	AssigneeID *uuid.UUID `json:"assigneeId,omitempty"`
	AssignedAt *time.Time `json:"assignedAt,omitempty"`
}

// AddressFormBooking is the second intake source: a booking captured from the
// quick address form. It has no intermediate pickup gate.
type AddressFormBooking struct {
	BaseModel
	ConsignmentNumber string     `gorm:"type:varchar(50);column:consignment_number;not null;uniqueIndex" json:"consignmentNumber"`
	OriginData        Party      `gorm:"type:jsonb;column:origin_data;serializer:json;not null" json:"originData"`
	DestinationData   Party      `gorm:"type:jsonb;column:destination_data;serializer:json;not null" json:"destinationData"`
	ShipmentData      Shipment   `gorm:"type:jsonb;column:shipment_data;serializer:json;not null" json:"shipmentData"`
	AssignmentData    Assignment `gorm:"type:jsonb;column:assignment_data;serializer:json;not null" json:"assignmentData"`
}

func (a *AddressFormBooking) TableName() string {
	return "address_form_bookings"
}

/// CustomerBooking is the third intake source: a booking placed by a customer
// through the public flow, with package images attached.
type CustomerBooking struct {
	BaseModel
	ConsignmentNumber string   `gorm:"type:varchar(50);column:consignment_number;not null;uniqueIndex" json:"consignmentNumber"`
	CurrentStatus     Status   `gorm:"type:varchar(30);column:current_status;not null" json:"currentStatus"`
	Origin            Party    `gorm:"type:jsonb;column:origin;serializer:json;not null" json:"origin"`
	Destination       Party    `gorm:"type:jsonb;column:destination;serializer:json;not null" json:"destination"`
	Shipment          Shipment `gorm:"type:jsonb;column:shipment;serializer:json;not null" json:"shipment"`
	PackageImages     []string `gorm:"type:jsonb;column:package_images;serializer:json;not null" json:"packageImages"`
}

func (c *CustomerBooking) TableName() string {
	return "customer_bookings"
}

// Assignee is a courier who can be assigned pickups.
type Assignee struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Phone   string `gorm:"type:varchar(20);column:phone;not null" json:"phone"`
	Station string `gorm:"type:varchar(100);column:station" json:"station"`
	Active  bool   `gorm:"column:active;not null;default:true" json:"active"`
}

func (a *Assignee) TableName() string {
	return "assignees"
}
