package wizard

import (
	"fmt"

	"github.com/suraja9/ocl-services/internal/booking/calc"
	"github.com/suraja9/ocl-services/internal/booking/gstin"
	"github.com/suraja9/ocl-services/internal/booking/model"
)

// Action is the tagged update type reduced over a snapshot. Each variant
// carries the data of one step submission.
type Action interface {
	step() Step
}

type SubmitServiceability struct {
	Form ServiceabilityForm `json:"form"`
}

type SubmitOrigin struct {
	Party model.Party `json:"party"`
}

type SubmitDestination struct {
	Party model.Party `json:"party"`
}

type SubmitShipment struct {
	Form ShipmentForm `json:"form"`
}

type SubmitMaterial struct {
	Form MaterialForm `json:"form"`
}

type SubmitUpload struct {
	Form UploadForm `json:"form"`
}

type SubmitBill struct {
	Form BillForm `json:"form"`
}

type SubmitDetails struct {
	Form DetailsForm `json:"form"`
}

type SubmitPayment struct {
	Form PaymentForm `json:"form"`
}

func (SubmitServiceability) step() Step { return StepServiceability }
func (SubmitOrigin) step() Step         { return StepOrigin }
func (SubmitDestination) step() Step    { return StepDestination }
func (SubmitShipment) step() Step       { return StepShipment }
func (SubmitMaterial) step() Step       { return StepMaterial }
func (SubmitUpload) step() Step         { return StepUpload }
func (SubmitBill) step() Step           { return StepBill }
func (SubmitDetails) step() Step        { return StepDetails }
func (SubmitPayment) step() Step        { return StepPayment }

// Reduce applies one action to a snapshot and returns the next snapshot.
// Derived values are recomputed on every reduction so they can never go stale.
// Completion flags are monotonic: a step that has once satisfied its gate
// stays complete until the session is reset.
func Reduce(s Snapshot, a Action) (Snapshot, error) {
	if s.Current == StepSuccess {
		return s, fmt.Errorf("wizard session already submitted")
	}

	switch act := a.(type) {
	case SubmitServiceability:
		s.Serviceability = act.Form
	case SubmitOrigin:
		act.Party.GSTIN = gstin.Format(act.Party.GSTIN)
		s.Origin = act.Party
	case SubmitDestination:
		act.Party.GSTIN = gstin.Format(act.Party.GSTIN)
		s.Destination = act.Party
	case SubmitShipment:
		s.Shipment = act.Form
	case SubmitMaterial:
		s.Material = act.Form
	case SubmitUpload:
		s.Upload = act.Form
	case SubmitBill:
		act.Form.OtherParty.GSTIN = gstin.Format(act.Form.OtherParty.GSTIN)
		s.Bill = act.Form
	case SubmitDetails:
		s.Details = act.Form
	case SubmitPayment:
		s.Payment = act.Form
	default:
		return s, fmt.Errorf("unknown wizard action %T", a)
	}

	s.Derived = calc.Derive(s.derivationInputs())

	if step := a.step(); StepComplete(s, step) {
		s.Completed[int(step)] = true
	}
	return s, nil
}
