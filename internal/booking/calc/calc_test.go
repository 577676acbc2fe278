package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVolumetricWeight(t *testing.T) {
	t.Run("computes LxWxH over 5000", func(t *testing.T) {
		assert.Equal(t, 2.0, VolumetricWeight(100, 10, 10))
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		// 33*33*33/5000 = 7.1874
		assert.Equal(t, 7.19, VolumetricWeight(33, 33, 33))
	})

	t.Run("missing dimension yields zero", func(t *testing.T) {
		assert.Equal(t, 0.0, VolumetricWeight(0, 10, 10))
		assert.Equal(t, 0.0, VolumetricWeight(10, -1, 10))
		assert.Equal(t, 0.0, VolumetricWeight(10, 10, 0))
	})
}

func TestChargeableWeight(t *testing.T) {
	t.Run("takes the heavier of actual and volumetric", func(t *testing.T) {
		assert.Equal(t, 12.0, ChargeableWeight(12, 7.19))
		assert.Equal(t, 7.19, ChargeableWeight(3, 7.19))
	})

	t.Run("equal weights", func(t *testing.T) {
		assert.Equal(t, 5.0, ChargeableWeight(5, 5))
	})
}

func TestDerive_Freight(t *testing.T) {
	t.Run("auto freight from per-kg rate and chargeable weight", func(t *testing.T) {
		d := Derive(Inputs{
			Length: 100, Width: 10, Height: 10, // volumetric 2.0
			ActualWeight: 5,
			FreightPerKg: 20,
		})
		assert.Equal(t, 5.0, d.ChargeableWeight)
		assert.Equal(t, 100.0, d.FreightCharge)
	})

	t.Run("manual override suspends auto calculation", func(t *testing.T) {
		d := Derive(Inputs{
			ActualWeight:   5,
			FreightPerKg:   20,
			FreightManual:  350,
			OverrideActive: true,
		})
		assert.Equal(t, 350.0, d.FreightCharge)
	})

	t.Run("no rate and no override yields zero freight", func(t *testing.T) {
		d := Derive(Inputs{ActualWeight: 5})
		assert.Equal(t, 0.0, d.FreightCharge)
	})
}

func TestDerive_SubtotalAndFuel(t *testing.T) {
	in := Inputs{
		ActualWeight: 10,
		FreightPerKg: 10, // freight 100
		AWBCharge:    50,
		PickupCharge: 30,
		Hamali:       20,
		FuelPercent:  10,
		BillType:     BillTypeRCM, // keep GST out of this test
	}
	d := Derive(in)

	assert.Equal(t, 200.0, d.Subtotal)
	assert.Equal(t, 20.0, d.FuelAmount)
	assert.Equal(t, 220.0, d.TotalWithFuel)
	assert.Equal(t, 220.0, d.GrandTotal)
}

func TestSplitGST(t *testing.T) {
	t.Run("intra-state splits into CGST and SGST", func(t *testing.T) {
		cgst, sgst, igst := SplitGST(BillTypeNormal, "Assam", 1000)
		assert.Equal(t, 90.0, cgst)
		assert.Equal(t, 90.0, sgst)
		assert.Equal(t, 0.0, igst)
	})

	t.Run("state comparison ignores case and spacing", func(t *testing.T) {
		cgst, sgst, igst := SplitGST(BillTypeNormal, "  ASSAM ", 1000)
		assert.Equal(t, 90.0, cgst)
		assert.Equal(t, 90.0, sgst)
		assert.Equal(t, 0.0, igst)
	})

	t.Run("inter-state takes IGST", func(t *testing.T) {
		cgst, sgst, igst := SplitGST(BillTypeNormal, "Meghalaya", 1000)
		assert.Equal(t, 0.0, cgst)
		assert.Equal(t, 0.0, sgst)
		assert.Equal(t, 180.0, igst)
	})

	t.Run("reverse charge carries no forward GST", func(t *testing.T) {
		cgst, sgst, igst := SplitGST(BillTypeRCM, "Assam", 1000)
		assert.Equal(t, 0.0, cgst)
		assert.Equal(t, 0.0, sgst)
		assert.Equal(t, 0.0, igst)
	})
}

func TestDerive_GrandTotal(t *testing.T) {
	d := Derive(Inputs{
		ActualWeight:     10,
		FreightPerKg:     10,
		FuelPercent:      0,
		BillType:         BillTypeNormal,
		BilledPartyState: "Assam",
	})

	// 100 subtotal, 9 + 9 GST
	assert.Equal(t, 9.0, d.CGSTAmount)
	assert.Equal(t, 9.0, d.SGSTAmount)
	assert.Equal(t, 0.0, d.IGSTAmount)
	assert.Equal(t, 118.0, d.GrandTotal)
}

func TestFormatINR(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{999, "999.00"},
		{1000, "1,000.00"},
		{100000, "1,00,000.00"},
		{1234567.89, "12,34,567.89"},
		{-54321, "-54,321.00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatINR(tc.in), "FormatINR(%v)", tc.in)
	}
}
