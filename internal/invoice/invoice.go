// Package invoice renders booking invoices as PDF documents with a code 128
// consignment barcode.
package invoice

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"

	"github.com/suraja9/ocl-services/internal/booking/calc"
	"github.com/suraja9/ocl-services/internal/booking/model"
)

// Render produces the invoice PDF for a booked consignment.
func Render(booking *model.OfficeBooking, issuedAt time.Time) ([]byte, error) {
	if booking == nil {
		return nil, fmt.Errorf("booking cannot be nil")
	}
	if booking.ConsignmentNumber == "" {
		return nil, fmt.Errorf("booking has no consignment number")
	}

	barcodePNG, err := renderCode128PNG(booking.ConsignmentNumber, 1200, 220)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Consignment Invoice", false)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	margin := 14.0
	contentW := pageW - 2*margin

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, "OCL SERVICES", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Consignment Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW/2, 7, "CN: "+booking.ConsignmentNumber, "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 7, "Ref: "+booking.BookingReference, "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "Issued: "+issuedAt.Format("02/01/2006"), "", 1, "R", false, 0, "")
	pdf.Ln(2)

	renderParty(pdf, "From", &booking.Origin, margin, contentW/2-2)
	pdf.SetXY(margin+contentW/2+2, pdf.GetY()-partyBlockHeight)
	renderParty(pdf, "To", &booking.Destination, margin+contentW/2+2, contentW/2-2)
	pdf.Ln(3)

	pdf.SetX(margin)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Shipment", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	shipmentLine := fmt.Sprintf("%s / %s / %d pkg / %s",
		orDash(booking.Shipment.NatureOfConsignment),
		orDash(booking.Shipment.ServiceType),
		booking.Shipment.PackageCount,
		orDash(materialLabel(booking.Shipment)))
	pdf.CellFormat(0, 5, shipmentLine, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Actual: %.2f kg   Volumetric: %.2f kg   Chargeable: %.2f kg",
		booking.Shipment.ActualWeight, booking.VolumetricWeight, booking.ChargeableWeight), "", 1, "L", false, 0, "")
	if booking.Shipment.DeclaredValue > 0 {
		line := "Declared Value: Rs. " + calc.FormatINR(booking.Shipment.DeclaredValue)
		if booking.Shipment.EWayBillNumber != "" {
			line += "   E-Way Bill: " + booking.Shipment.EWayBillNumber
		}
		pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	renderCharges(pdf, booking, contentW)

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	imageName := "cn-barcode-" + booking.ConsignmentNumber
	pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
	imgW := 110.0
	imgH := 22.0
	x := (pageW - imgW) / 2
	y := pdf.GetY() + 4
	pdf.ImageOptions(imageName, x, y, imgW, imgH, false, opt, 0, "")
	pdf.SetY(y + imgH + 2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, booking.ConsignmentNumber, "", 1, "C", false, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

const partyBlockHeight = 29.0

func renderParty(pdf *gofpdf.Fpdf, heading string, party *model.Party, x, w float64) {
	pdf.SetX(x)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(w, 6, heading, "B", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetX(x)
	pdf.CellFormat(w, 5, orDash(party.Name), "", 2, "L", false, 0, "")
	pdf.SetX(x)
	pdf.CellFormat(w, 4, strings.TrimSpace(party.AddressLine+", "+party.Locality), "", 2, "L", false, 0, "")
	pdf.SetX(x)
	pdf.CellFormat(w, 4, fmt.Sprintf("%s, %s - %s", party.City, party.State, party.Pincode), "", 2, "L", false, 0, "")
	pdf.SetX(x)
	gstin := party.GSTIN
	if gstin == "" {
		gstin = "-"
	}
	pdf.CellFormat(w, 4, "Ph: "+orDash(party.Phone)+"   GSTIN: "+gstin, "", 2, "L", false, 0, "")
	pdf.Ln(2)
}

func renderCharges(pdf *gofpdf.Fpdf, booking *model.OfficeBooking, contentW float64) {
	c := booking.Charges

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Charges", "B", 1, "L", false, 0, "")

	labelW := contentW * 0.7
	amountW := contentW - labelW
	row := func(label string, amount float64, bold bool) {
		if amount == 0 && !bold {
			return
		}
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(labelW, 5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(amountW, 5, calc.FormatINR(amount), "", 1, "R", false, 0, "")
	}

	row("Freight", c.FreightCharge, false)
	row("AWB Charge", c.AWBCharge, false)
	row("Pickup Charge", c.PickupCharge, false)
	row("Local Collection", c.LocalCollection, false)
	row("Door Delivery", c.DoorDelivery, false)
	row("Loading / Unloading", c.LoadingUnloading, false)
	row("Demurrage", c.Demurrage, false)
	row("ODA / DDA Charge", c.ODADDACharge, false)
	row("Hamali", c.Hamali, false)
	row("Packing", c.Packing, false)
	row("Other Charge", c.OtherCharge, false)
	row("Subtotal", c.Subtotal, true)
	if c.FuelAmount > 0 {
		row(fmt.Sprintf("Fuel Surcharge (%.1f%%)", c.FuelPercent), c.FuelAmount, false)
	}
	if c.CGSTAmount > 0 || c.SGSTAmount > 0 {
		row("CGST @ 9%", c.CGSTAmount, false)
		row("SGST @ 9%", c.SGSTAmount, false)
	}
	if c.IGSTAmount > 0 {
		row("IGST @ 18%", c.IGSTAmount, false)
	}
	if booking.BillType == calc.BillTypeRCM {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 4, "Tax payable under reverse charge", "", 1, "L", false, 0, "")
	}
	row("Grand Total", c.GrandTotal, true)
}

func materialLabel(s model.Shipment) string {
	if s.MaterialType == "Others" && s.MaterialOther != "" {
		return s.MaterialOther
	}
	return s.MaterialType
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	normalized := toNRGBA(scaled)
	var out bytes.Buffer
	if err := png.Encode(&out, normalized); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
