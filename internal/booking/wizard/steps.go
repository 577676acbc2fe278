package wizard

// Step identifies one step of the office booking wizard. Steps are strictly
// linear; StepSuccess is a terminal pseudo-step reached only by submission.
type Step int

const (
	StepServiceability Step = iota
	StepOrigin
	StepDestination
	StepShipment
	StepMaterial
	StepUpload
	StepBill
	StepDetails
	StepPayment
	StepSuccess
)

// stepCount counts the data-entry steps; StepSuccess is not one of them.
const stepCount = int(StepSuccess)

var stepNames = map[Step]string{
	StepServiceability: "serviceability",
	StepOrigin:         "origin",
	StepDestination:    "destination",
	StepShipment:       "shipment",
	StepMaterial:       "material",
	StepUpload:         "upload",
	StepBill:           "bill",
	StepDetails:        "details",
	StepPayment:        "payment",
	StepSuccess:        "success",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}
