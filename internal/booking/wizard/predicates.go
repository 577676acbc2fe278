package wizard

import (
	"strings"

	"github.com/suraja9/ocl-services/internal/booking/model"
)

// eWayBillThreshold is the declared value at or above which a 12 digit e-way
// bill number becomes mandatory.
const eWayBillThreshold = 50000.0

// StepComplete reports whether the necessary conditions of one step are met.
// The predicates are pure functions over the snapshot so they can be tested
// without a session.
func StepComplete(s Snapshot, step Step) bool {
	switch step {
	case StepServiceability:
		return serviceabilityComplete(s.Serviceability)
	case StepOrigin:
		return partyComplete(s.Origin)
	case StepDestination:
		return partyComplete(s.Destination)
	case StepShipment:
		return shipmentComplete(s.Shipment)
	case StepMaterial:
		return materialComplete(s.Material)
	case StepUpload:
		return uploadComplete(s.Upload, s.Material.DeclaredValue)
	case StepBill:
		return billComplete(s.Bill)
	case StepDetails:
		return true // pricing has no mandatory fields; derivation handles zeroes
	case StepPayment:
		return paymentComplete(s.Payment)
	default:
		return false
	}
}

func serviceabilityComplete(f ServiceabilityForm) bool {
	return f.OriginPincode != "" && f.DestinationPincode != "" &&
		f.OriginServiceable && f.DestinationServiceable
}

// partyComplete requires the full phone number plus every address component.
func partyComplete(p model.Party) bool {
	if len(digitsOf(p.Phone)) != 10 {
		return false
	}
	for _, field := range []string{p.Name, p.AddressLine, p.Locality, p.Area, p.City, p.State} {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}

func shipmentComplete(f ShipmentForm) bool {
	if f.NatureOfConsignment == "" || f.InsuranceType == "" || f.RiskCoverage == "" || f.ServiceType == "" {
		return false
	}
	if !f.WithInsurance() {
		return true
	}
	ins := f.Insurance
	return ins.CompanyName != "" && ins.PolicyNumber != "" &&
		ins.PolicyDate != "" && ins.ValidUpto != "" && ins.DocumentKey != ""
}

func materialComplete(f MaterialForm) bool {
	if f.PackageCount <= 0 || f.MaterialType == "" {
		return false
	}
	if f.MaterialType == "Others" && strings.TrimSpace(f.MaterialOther) == "" {
		return false
	}
	fullDimensions := f.Length > 0 && f.Width > 0 && f.Height > 0
	return fullDimensions || f.ActualWeight > 0
}

func uploadComplete(f UploadForm, declaredValue float64) bool {
	if !f.TermsAccepted {
		return false
	}
	if len(f.PackageImageKeys) == 0 && len(f.DeclarationDocKeys) == 0 && len(f.OtherDocKeys) == 0 {
		return false
	}
	if declaredValue >= eWayBillThreshold && len(digitsOf(f.EWayBillNumber)) != 12 {
		return false
	}
	return true
}

func billComplete(f BillForm) bool {
	if f.PartyType == "" || f.BillType == "" {
		return false
	}
	if f.PartyType == "other" {
		return partyComplete(f.OtherParty)
	}
	return true
}

func paymentComplete(f PaymentForm) bool {
	if f.PaymentMode == "" || f.DeliveryType == "" {
		return false
	}
	if f.InitialStatus == model.StatusPicked && f.AssigneeID == nil {
		return false
	}
	return true
}

// digitsOf strips everything but digits, matching how phone and e-way bill
// inputs arrive with grouping characters.
func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
