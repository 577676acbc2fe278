package intake

import (
	"time"

	"github.com/google/uuid"

	"github.com/suraja9/ocl-services/internal/booking/model"
)

// OutcomeKind classifies the result of one scan.
type OutcomeKind string

const (
	// OutcomeReceived: a source owned the number and the receive transition
	// was performed.
	OutcomeReceived OutcomeKind = "RECEIVED"
	// OutcomeAlreadyReceived: the owning record is already terminal; the scan
	// mutates nothing.
	OutcomeAlreadyReceived OutcomeKind = "ALREADY_RECEIVED"
	// OutcomeInvalidState: the owning record is not in the status the source
	// requires for receiving.
	OutcomeInvalidState OutcomeKind = "INVALID_STATE"
	// OutcomeTransitionError: the lookup or the transition itself failed.
	OutcomeTransitionError OutcomeKind = "TRANSITION_ERROR"
	// OutcomeNotFoundAnywhere: no source owns the number.
	OutcomeNotFoundAnywhere OutcomeKind = "NOT_FOUND_ANYWHERE"
)

// ReceivedRecord is the normalized view of a successfully received scan,
// independent of which source owned it.
type ReceivedRecord struct {
	OrderID           uuid.UUID    `json:"orderId"`
	ConsignmentNumber string       `json:"consignmentNumber"`
	Source            string       `json:"source"`
	NewStatus         model.Status `json:"newStatus"`
	OriginName        string       `json:"originName,omitempty"`
	DestinationName   string       `json:"destinationName,omitempty"`
	ScannedAt         time.Time    `json:"scannedAt"`
}

// Outcome is the full result of resolveAndReceive for one scan.
type Outcome struct {
	Kind           OutcomeKind     `json:"kind"`
	Source         string          `json:"source,omitempty"`
	Record         *ReceivedRecord `json:"record,omitempty"`
	RequiredStatus model.Status    `json:"requiredStatus,omitempty"`
	ActualStatus   model.Status    `json:"actualStatus,omitempty"`
	Message        string          `json:"message,omitempty"`
}
