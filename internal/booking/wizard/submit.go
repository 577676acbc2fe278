package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/suraja9/ocl-services/internal/booking/model"
	"github.com/suraja9/ocl-services/internal/events"
)

// BookingStore persists the completed booking.
type BookingStore interface {
	CreateOfficeBooking(ctx context.Context, booking *model.OfficeBooking) error
}

// AttachmentFinalizer confirms that uploaded files exist and binds them to a
// booking reference. Submission calls it once for the package images and once
// for the insurance document before the booking-create call.
type AttachmentFinalizer interface {
	Finalize(ctx context.Context, bookingReference string, keys []string) error
}

// NumberSource hands out the consignment number and booking reference pair.
type NumberSource interface {
	Next(ctx context.Context) (consignmentNumber, bookingReference string, err error)
}

// Submitter assembles the payload from all step states and performs the
// submission pipeline.
type Submitter struct {
	store   BookingStore
	attach  AttachmentFinalizer
	numbers NumberSource
	bus     *events.Bus
}

func NewSubmitter(store BookingStore, attach AttachmentFinalizer, numbers NumberSource, bus *events.Bus) *Submitter {
	return &Submitter{store: store, attach: attach, numbers: numbers, bus: bus}
}

// Submit runs the submission pipeline: finalize the package images, finalize
// the optional insurance document, then create the booking. A failure at any
// stage leaves the wizard on its current step; already-finalized files are
// not rolled back.
func (s *Submitter) Submit(ctx context.Context, w *Wizard) (*model.BookingResult, error) {
	if err := w.ReadyToSubmit(); err != nil {
		return nil, err
	}

	snap := w.Snapshot()
	consignmentNumber, bookingReference, err := s.numbers.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate booking numbers: %w", err)
	}

	if len(snap.Upload.PackageImageKeys) > 0 {
		if err := s.attach.Finalize(ctx, bookingReference, snap.Upload.PackageImageKeys); err != nil {
			return nil, fmt.Errorf("failed to finalize package images: %w", err)
		}
	}
	if snap.Shipment.WithInsurance() && snap.Shipment.Insurance.DocumentKey != "" {
		if err := s.attach.Finalize(ctx, bookingReference, []string{snap.Shipment.Insurance.DocumentKey}); err != nil {
			return nil, fmt.Errorf("failed to finalize insurance document: %w", err)
		}
	}

	booking := s.assemble(snap, consignmentNumber, bookingReference)
	if err := s.store.CreateOfficeBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	w.markSubmitted()

	if s.bus != nil {
		_ = s.bus.Publish(ctx, events.ConsignmentUsageUpdated{
			ConsignmentNumber: consignmentNumber,
			BookingReference:  bookingReference,
			Timestamp:         time.Now().UTC(),
		})
	}

	slog.InfoContext(ctx, "office booking created",
		"consignment_number", consignmentNumber,
		"booking_reference", bookingReference,
		"grand_total", snap.Derived.GrandTotal,
	)

	return &model.BookingResult{
		BookingID:         booking.ID,
		ConsignmentNumber: consignmentNumber,
		BookingReference:  bookingReference,
	}, nil
}

// assemble flattens the step states into the persisted booking.
func (s *Submitter) assemble(snap Snapshot, consignmentNumber, bookingReference string) *model.OfficeBooking {
	d := snap.Derived

	shipment := model.Shipment{
		NatureOfConsignment: snap.Shipment.NatureOfConsignment,
		InsuranceType:       snap.Shipment.InsuranceType,
		RiskCoverage:        snap.Shipment.RiskCoverage,
		ServiceType:         snap.Shipment.ServiceType,
		PackageCount:        snap.Material.PackageCount,
		MaterialType:        snap.Material.MaterialType,
		MaterialOther:       snap.Material.MaterialOther,
		Length:              snap.Material.Length,
		Width:               snap.Material.Width,
		Height:              snap.Material.Height,
		ActualWeight:        snap.Material.ActualWeight,
		DeclaredValue:       snap.Material.DeclaredValue,
		EWayBillNumber:      snap.Upload.EWayBillNumber,
	}

	var insurance *model.InsurancePolicy
	if snap.Shipment.WithInsurance() {
		ins := snap.Shipment.Insurance
		insurance = &ins
	}

	var billedParty *model.Party
	if snap.Bill.PartyType == "other" {
		p := snap.Bill.OtherParty
		billedParty = &p
	}

	status := snap.Payment.InitialStatus
	if status == "" {
		status = model.StatusBooked
	}

	documentKeys := append([]string{}, snap.Upload.DeclarationDocKeys...)
	documentKeys = append(documentKeys, snap.Upload.OtherDocKeys...)

	return &model.OfficeBooking{
		ConsignmentNumber: consignmentNumber,
		BookingReference:  bookingReference,
		CurrentStatus:     status,
		Origin:            snap.Origin,
		Destination:       snap.Destination,
		Shipment:          shipment,
		Insurance:         insurance,
		PackageImageKeys:  append([]string{}, snap.Upload.PackageImageKeys...),
		DocumentKeys:      documentKeys,
		VolumetricWeight:  d.VolumetricWeight,
		ChargeableWeight:  d.ChargeableWeight,
		BillType:          snap.Bill.BillType,
		BilledPartyType:   snap.Bill.PartyType,
		BilledParty:       billedParty,
		Charges: model.ChargeBreakdown{
			FreightCharge:    d.FreightCharge,
			AWBCharge:        snap.Details.AWBCharge,
			PickupCharge:     snap.Details.PickupCharge,
			LocalCollection:  snap.Details.LocalCollection,
			DoorDelivery:     snap.Details.DoorDelivery,
			LoadingUnloading: snap.Details.LoadingUnloading,
			Demurrage:        snap.Details.Demurrage,
			ODADDACharge:     snap.Details.ODADDACharge,
			Hamali:           snap.Details.Hamali,
			Packing:          snap.Details.Packing,
			OtherCharge:      snap.Details.OtherCharge,
			Subtotal:         d.Subtotal,
			FuelPercent:      snap.Details.FuelPercent,
			FuelAmount:       d.FuelAmount,
			TotalWithFuel:    d.TotalWithFuel,
			CGSTAmount:       d.CGSTAmount,
			SGSTAmount:       d.SGSTAmount,
			IGSTAmount:       d.IGSTAmount,
			GrandTotal:       d.GrandTotal,
		},
		PaymentMode:  snap.Payment.PaymentMode,
		DeliveryType: snap.Payment.DeliveryType,
		AssigneeID:   snap.Payment.AssigneeID,
	}
}
