package model

import "errors"

// Status represents the lifecycle status of a consignment record.
// The forward order is booked -> pickup/picked -> received/delivered.
// Transitions are monotonic; received and delivered are terminal for intake.
type Status string

const (
	StatusBooked    Status = "booked"
	StatusPickup    Status = "pickup" // tracking records use "pickup"
	StatusPicked    Status = "picked" // customer bookings use "picked"
	StatusReceived  Status = "received"
	StatusDelivered Status = "delivered"

	// StatusArrivedAtHub is the intermediate receive status used only by the
	// medicine-logistics intake channel.
	StatusArrivedAtHub Status = "Arrived at Hub"
)

// ErrRecordNotFound is the clean not-found that lets the intake chain fall
// through to the next source. Any other error stops the chain.
var ErrRecordNotFound = errors.New("record not found")

// IsTerminal reports whether a record in this status must not be received again.
func (s Status) IsTerminal() bool {
	return s == StatusReceived || s == StatusDelivered || s == StatusArrivedAtHub
}
