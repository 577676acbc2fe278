package wizard

import (
	"github.com/google/uuid"

	"github.com/suraja9/ocl-services/internal/booking/calc"
	"github.com/suraja9/ocl-services/internal/booking/model"
)

// ServiceabilityForm holds the resolved pincode pair for the first step.
type ServiceabilityForm struct {
	OriginPincode          string `json:"originPincode"`
	DestinationPincode     string `json:"destinationPincode"`
	OriginServiceable      bool   `json:"originServiceable"`
	DestinationServiceable bool   `json:"destinationServiceable"`
	OriginCity             string `json:"originCity,omitempty"`
	OriginState            string `json:"originState,omitempty"`
	DestinationCity        string `json:"destinationCity,omitempty"`
	DestinationState       string `json:"destinationState,omitempty"`
}

// ShipmentForm holds the shipment-details step.
type ShipmentForm struct {
	NatureOfConsignment string                `json:"natureOfConsignment"`
	InsuranceType       string                `json:"insuranceType"`
	RiskCoverage        string                `json:"riskCoverage"`
	ServiceType         string                `json:"serviceType"`
	Insurance           model.InsurancePolicy `json:"insurance"`
}

// WithInsurance reports whether the insured variant was selected, which makes
// the policy fields and policy document mandatory.
func (f ShipmentForm) WithInsurance() bool {
	return f.InsuranceType == "with insurance"
}

// MaterialForm holds the material-details step.
type MaterialForm struct {
	PackageCount  int     `json:"packageCount"`
	MaterialType  string  `json:"materialType"`
	MaterialOther string  `json:"materialOther,omitempty"`
	Length        float64 `json:"length"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	ActualWeight  float64 `json:"actualWeight"`
	DeclaredValue float64 `json:"declaredValue"`
}

// UploadForm holds the document upload step. Keys reference files already
// stored through the uploads service.
type UploadForm struct {
	PackageImageKeys   []string `json:"packageImageKeys"`
	DeclarationDocKeys []string `json:"declarationDocKeys"`
	OtherDocKeys       []string `json:"otherDocKeys"`
	TermsAccepted      bool     `json:"termsAccepted"`
	EWayBillNumber     string   `json:"eWayBillNumber,omitempty"`
}

// BillForm holds the billed-party step.
type BillForm struct {
	PartyType  string      `json:"partyType"` // consignor, consignee or other
	BillType   string      `json:"billType"`  // normal or rcm
	OtherParty model.Party `json:"otherParty"`
}

/// DetailsForm holds the pricing step: the per-kg rate, the manual freight
// override and the ten non-freight charge lines.
type DetailsForm struct {
	FreightPerKg   float64 `json:"freightPerKg"`
	OverrideActive bool    `json:"overrideActive"`
	FreightManual  float64 `json:"freightManual"`

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

	FuelPercent float64 `json:"fuelPercent"`
}

// PaymentForm holds the final data-entry step.
type PaymentForm struct {
	PaymentMode   string       `json:"paymentMode"`
	DeliveryType  string       `json:"deliveryType"`
	InitialStatus model.Status `json:"initialStatus"`
	AssigneeID    *uuid.UUID   `json:"assigneeId,omitempty"`
}

// Snapshot is the immutable state of one wizard session. Every mutation goes
// through Reduce, which returns a fresh snapshot with derived values already
// recomputed.
type Snapshot struct {
	Current   Step            `json:"current"`
	Completed [stepCount]bool `json:"completed"`

	Serviceability ServiceabilityForm `json:"serviceability"`
	Origin         model.Party        `json:"origin"`
	Destination    model.Party        `json:"destination"`
	Shipment       ShipmentForm       `json:"shipment"`
	Material       MaterialForm       `json:"material"`
	Upload         UploadForm         `json:"upload"`
	Bill           BillForm           `json:"bill"`
	Details        DetailsForm        `json:"details"`
	Payment        PaymentForm        `json:"payment"`

	Derived calc.Derived `json:"derived"`
}

// NewSnapshot returns the default state of a freshly mounted wizard.
func NewSnapshot() Snapshot {
	return Snapshot{Current: StepServiceability}
}

// BilledParty resolves the party whose state drives the GST split.
func (s Snapshot) BilledParty() model.Party {
	switch s.Bill.PartyType {
	case "consignee":
		return s.Destination
	case "other":
		return s.Bill.OtherParty
	default:
		return s.Origin
	}
}

// derivationInputs gathers the calculator inputs out of the snapshot.
func (s Snapshot) derivationInputs() calc.Inputs {
	return calc.Inputs{
		Length:       s.Material.Length,
		Width:        s.Material.Width,
		Height:       s.Material.Height,
		ActualWeight: s.Material.ActualWeight,

		FreightPerKg:   s.Details.FreightPerKg,
		FreightManual:  s.Details.FreightManual,
		OverrideActive: s.Details.OverrideActive,

		AWBCharge:        s.Details.AWBCharge,
		PickupCharge:     s.Details.PickupCharge,
		LocalCollection:  s.Details.LocalCollection,
		DoorDelivery:     s.Details.DoorDelivery,
		LoadingUnloading: s.Details.LoadingUnloading,
		Demurrage:        s.Details.Demurrage,
		ODADDACharge:     s.Details.ODADDACharge,
		Hamali:           s.Details.Hamali,
		Packing:          s.Details.Packing,
		OtherCharge:      s.Details.OtherCharge,

		FuelPercent:      s.Details.FuelPercent,
		BillType:         s.Bill.BillType,
		BilledPartyState: s.BilledParty().State,
	}
}
