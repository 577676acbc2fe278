package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/suraja9/ocl-services/internal/booking/model"
)

func sampleBooking() *model.OfficeBooking {
	return &model.OfficeBooking{
		ConsignmentNumber: "123456789012",
		BookingReference:  "OCL-ABCD1234",
		CurrentStatus:     model.StatusBooked,
		Origin: model.Party{
			Name: "Suraj Traders", Phone: "9864012345",
			AddressLine: "12 GS Road", Locality: "Ulubari",
			City: "Guwahati", State: "Assam", Pincode: "781007",
			GSTIN: "18AABCU9603R1ZM",
		},
		Destination: model.Party{
			Name: "Borah Distributors", Phone: "8822011222",
			AddressLine: "4 Main Road", Locality: "Khanapara",
			City: "Guwahati", State: "Assam", Pincode: "781022",
		},
		Shipment: model.Shipment{
			NatureOfConsignment: "Non-Documents",
			ServiceType:         "surface",
			PackageCount:        2,
			MaterialType:        "Electronics",
			ActualWeight:        8,
			DeclaredValue:       60000,
			EWayBillNumber:      "123456789012",
		},
		VolumetricWeight: 12,
		ChargeableWeight: 12,
		BillType:         "normal",
		Charges: model.ChargeBreakdown{
			FreightCharge: 240,
			AWBCharge:     50,
			Subtotal:      290,
			FuelPercent:   10,
			FuelAmount:    29,
			TotalWithFuel: 319,
			CGSTAmount:    28.71,
			SGSTAmount:    28.71,
			GrandTotal:    376.42,
		},
	}
}

func TestRender(t *testing.T) {
	pdfBytes, err := Render(sampleBooking(), time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.NotEmpty(t, pdfBytes)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}

func TestRender_RequiresBooking(t *testing.T) {
	_, err := Render(nil, time.Now())
	assert.Error(t, err)
}

func TestRender_RequiresConsignmentNumber(t *testing.T) {
	booking := sampleBooking()
	booking.ConsignmentNumber = ""
	_, err := Render(booking, time.Now())
	assert.Error(t, err)
}
