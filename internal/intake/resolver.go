// Package intake resolves scanned consignment numbers against the three
// record sources and performs the receive transition exactly once.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/suraja9/ocl-services/internal/booking/model"
	"github.com/suraja9/ocl-services/internal/events"
)

// MinScanLength is the shortest identifier a scanner emits before the scan
// auto-triggers.
const MinScanLength = 6

// ErrScanInFlight guards against a fast duplicate scan of the same number
// racing two resolutions.
var ErrScanInFlight = errors.New("a scan for this consignment number is already in flight")

// Candidate is a record found in one source, reduced to what the chain needs.
type Candidate struct {
	OrderID           uuid.UUID
	ConsignmentNumber string
	Status            model.Status
	OriginName        string
	DestinationName   string
}

// Source is one entry of the ordered fallback chain. The precedence rule is
// explicit: any non-not-found response from Lookup claims ownership of the
// number and stops the chain, whether or not the scan then succeeds.
type Source struct {
	Name string

	// Lookup returns model.ErrRecordNotFound (possibly wrapped) when the
	// source does not own the number; only that error lets the chain fall
	// through. Any other error stops the chain as a transition error.
	Lookup func(ctx context.Context, consignmentNumber string) (*Candidate, error)

	// RequiredStatus gates the transition. nil means the source has no
	// intermediate gate and any non-terminal record can be received.
	RequiredStatus *model.Status

	// Receive performs the status transition on the owning record.
	Receive func(ctx context.Context, c *Candidate) (*ReceivedRecord, error)
}

// Resolver drives the fallback chain and applies the scan side effects.
type Resolver struct {
	sources []Source
	log     *ReceivedLog
	bus     *events.Bus

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewResolver builds a resolver over an ordered source chain. log and bus may
// be nil in tests.
func NewResolver(sources []Source, log *ReceivedLog, bus *events.Bus) *Resolver {
	return &Resolver{
		sources:  sources,
		log:      log,
		bus:      bus,
		inflight: make(map[string]struct{}),
	}
}

// ResolveAndReceive walks the source chain for one scanned number.
func (r *Resolver) ResolveAndReceive(ctx context.Context, consignmentNumber string) (Outcome, error) {
	if len(consignmentNumber) < MinScanLength {
		return Outcome{}, fmt.Errorf("consignment number %q is shorter than %d characters", consignmentNumber, MinScanLength)
	}

	if !r.acquire(consignmentNumber) {
		return Outcome{}, ErrScanInFlight
	}
	defer r.release(consignmentNumber)

	for _, src := range r.sources {
		candidate, err := src.Lookup(ctx, consignmentNumber)
		if err != nil {
			if errors.Is(err, model.ErrRecordNotFound) {
				continue
			}
			// A failed lookup is not a clean not-found; the chain must not
			// try later sources.
			slog.ErrorContext(ctx, "scan lookup failed",
				"source", src.Name, "consignment_number", consignmentNumber, "error", err)
			return Outcome{
				Kind:    OutcomeTransitionError,
				Source:  src.Name,
				Message: err.Error(),
			}, nil
		}

		return r.receiveFrom(ctx, src, candidate), nil
	}

	return Outcome{Kind: OutcomeNotFoundAnywhere}, nil
}

// receiveFrom applies the source's status gate and transition to the record
// that claimed the number.
func (r *Resolver) receiveFrom(ctx context.Context, src Source, c *Candidate) Outcome {
	if c.Status.IsTerminal() {
		return Outcome{
			Kind:         OutcomeAlreadyReceived,
			Source:       src.Name,
			ActualStatus: c.Status,
		}
	}

	if src.RequiredStatus != nil && c.Status != *src.RequiredStatus {
		return Outcome{
			Kind:           OutcomeInvalidState,
			Source:         src.Name,
			RequiredStatus: *src.RequiredStatus,
			ActualStatus:   c.Status,
			Message: fmt.Sprintf("consignment %s is %q, must be %q to receive",
				c.ConsignmentNumber, c.Status, *src.RequiredStatus),
		}
	}

	record, err := src.Receive(ctx, c)
	if err != nil {
		slog.ErrorContext(ctx, "receive transition failed",
			"source", src.Name, "consignment_number", c.ConsignmentNumber, "error", err)
		return Outcome{
			Kind:    OutcomeTransitionError,
			Source:  src.Name,
			Message: err.Error(),
		}
	}

	if r.log != nil {
		if err := r.log.Record(ctx, record); err != nil {
			slog.WarnContext(ctx, "failed to append received log entry",
				"consignment_number", record.ConsignmentNumber, "error", err)
		}
	}
	if r.bus != nil {
		_ = r.bus.Publish(ctx, events.OrderStatusChanged{
			OrderID:           record.OrderID,
			ConsignmentNumber: record.ConsignmentNumber,
			NewStatus:         record.NewStatus,
			Source:            record.Source,
			Timestamp:         time.Now().UTC(),
		})
	}

	return Outcome{Kind: OutcomeReceived, Source: src.Name, Record: record}
}

func (r *Resolver) acquire(consignmentNumber string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.inflight[consignmentNumber]; busy {
		return false
	}
	r.inflight[consignmentNumber] = struct{}{}
	return true
}

func (r *Resolver) release(consignmentNumber string) {
	r.mu.Lock()
	delete(r.inflight, consignmentNumber)
	r.mu.Unlock()
}
