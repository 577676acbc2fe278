// Package calc holds the pure derivation functions for booking charges.
// Derivation is invoked explicitly after each wizard state transition so the
// recomputation order is deterministic; nothing here tracks dependencies.
package calc

import (
	"math"
	"strings"
)

const volumetricDivisor = 5000.0

// GST rates applied on the fuel-inclusive total.
const (
	cgstRate = 0.09
	sgstRate = 0.09
	igstRate = 0.18
)

// BillTypeNormal and BillTypeRCM are the two supported bill types.
// RCM (reverse charge) bookings carry no forward GST.
const (
	BillTypeNormal = "normal"
	BillTypeRCM    = "rcm"
)

// Inputs collects every field the derivation reads. Zero values mean "unset".
type Inputs struct {
	Length       float64
	Width        float64
	Height       float64
	ActualWeight float64

	// FreightPerKg drives the auto-computed freight charge. When the operator
	// has fixed the chargeable weight (OverrideActive), auto-calculation is
	// suspended and FreightManual is used as entered.
	FreightPerKg   float64
	FreightManual  float64
	OverrideActive bool

	AWBCharge        float64
	PickupCharge     float64
	LocalCollection  float64
	DoorDelivery     float64
	LoadingUnloading float64
	Demurrage        float64
	ODADDACharge     float64
	Hamali           float64
	Packing          float64
	OtherCharge      float64

	FuelPercent      float64
	BillType         string
	BilledPartyState string
}

// Derived is the full set of computed values for one set of inputs.
type Derived struct {
	VolumetricWeight float64
	ChargeableWeight float64
	FreightCharge    float64
	Subtotal         float64
	FuelAmount       float64
	TotalWithFuel    float64
	CGSTAmount       float64
	SGSTAmount       float64
	IGSTAmount       float64
	GrandTotal       float64
}

// VolumetricWeight returns (L x W x H) / 5000 rounded to two decimals.
// Any missing dimension yields zero.
func VolumetricWeight(length, width, height float64) float64 {
	if length <= 0 || width <= 0 || height <= 0 {
		return 0
	}
	return round2(length * width * height / volumetricDivisor)
}

// ChargeableWeight is the billing weight: max(actual, volumetric).
func ChargeableWeight(actual, volumetric float64) float64 {
	return round2(math.Max(actual, volumetric))
}

// Derive computes every derived value from the inputs.
func Derive(in Inputs) Derived {
	d := Derived{}
	d.VolumetricWeight = VolumetricWeight(in.Length, in.Width, in.Height)
	d.ChargeableWeight = ChargeableWeight(in.ActualWeight, d.VolumetricWeight)

	if in.OverrideActive {
		d.FreightCharge = round2(in.FreightManual)
	} else if in.FreightPerKg > 0 {
		d.FreightCharge = round2(in.FreightPerKg * d.ChargeableWeight)
	}

	d.Subtotal = round2(d.FreightCharge +
		in.AWBCharge +
		in.PickupCharge +
		in.LocalCollection +
		in.DoorDelivery +
		in.LoadingUnloading +
		in.Demurrage +
		in.ODADDACharge +
		in.Hamali +
		in.Packing +
		in.OtherCharge)

	d.FuelAmount = round2(d.Subtotal * in.FuelPercent / 100)
	d.TotalWithFuel = round2(d.Subtotal + d.FuelAmount)

	d.CGSTAmount, d.SGSTAmount, d.IGSTAmount = SplitGST(in.BillType, in.BilledPartyState, d.TotalWithFuel)
	d.GrandTotal = round2(d.TotalWithFuel + d.CGSTAmount + d.SGSTAmount + d.IGSTAmount)
	return d
}

// SplitGST applies the GST rules for the given bill type and billed-party
// state. Intra-state (Assam, any casing) bookings split into CGST + SGST;
// every other state takes IGST. RCM bookings carry no forward GST.
func SplitGST(billType, billedPartyState string, totalWithFuel float64) (cgst, sgst, igst float64) {
	if !strings.EqualFold(billType, BillTypeNormal) {
		return 0, 0, 0
	}
	if strings.EqualFold(strings.TrimSpace(billedPartyState), "assam") {
		return round2(totalWithFuel * cgstRate), round2(totalWithFuel * sgstRate), 0
	}
	return 0, 0, round2(totalWithFuel * igstRate)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
