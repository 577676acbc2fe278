// Package events is the typed publish/subscribe channel that replaces ad hoc
// cross-component notification. Subscribers receive every event published on
// their topic while they remain subscribed; delivery to an external broker is
// handled by an optional sink.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/suraja9/ocl-services/internal/booking/model"
)

// Topic names.
const (
	TopicOrderStatusChanged      = "orderStatusChanged"
	TopicOrderWeightUpdated      = "orderWeightUpdated"
	TopicConsignmentUsageUpdated = "consignmentUsageUpdated"
)

// Event is implemented by every message carried on the bus.
type Event interface {
	Topic() string
	Key() string
}

// OrderStatusChanged announces a lifecycle transition performed by intake.
type OrderStatusChanged struct {
	OrderID           uuid.UUID    `json:"orderId"`
	ConsignmentNumber string       `json:"consignmentNumber"`
	NewStatus         model.Status `json:"newStatus"`
	Source            string       `json:"source"`
	Timestamp         time.Time    `json:"timestamp"`
}

func (OrderStatusChanged) Topic() string { return TopicOrderStatusChanged }
func (e OrderStatusChanged) Key() string { return e.ConsignmentNumber }

// OrderWeightUpdated announces a weight or detail revision on a record.
type OrderWeightUpdated struct {
	OrderID           uuid.UUID `json:"orderId"`
	ConsignmentNumber string    `json:"consignmentNumber"`
	ActualWeight      float64   `json:"actualWeight"`
	ChargeableWeight  float64   `json:"chargeableWeight"`
	Timestamp         time.Time `json:"timestamp"`
}

func (OrderWeightUpdated) Topic() string { return TopicOrderWeightUpdated }
func (e OrderWeightUpdated) Key() string { return e.ConsignmentNumber }

// ConsignmentUsageUpdated announces that a consignment number has been
// consumed by a new booking.
type ConsignmentUsageUpdated struct {
	ConsignmentNumber string    `json:"consignmentNumber"`
	BookingReference  string    `json:"bookingReference"`
	Timestamp         time.Time `json:"timestamp"`
}

func (ConsignmentUsageUpdated) Topic() string { return TopicConsignmentUsageUpdated }
func (e ConsignmentUsageUpdated) Key() string { return e.ConsignmentNumber }
