package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"retailpos-backend/internal/domain"
)

// ReportPDF is the generic printable report: business title line,
// generation timestamp, free-text summary lines, then a bordered table.
type ReportPDF struct {
	BusinessName string
	ReportTitle  string
	GeneratedAt  time.Time
	SummaryLines []string
	Headers      []string
	Rows         [][]string
}

func (r ReportPDF) Render() ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 20

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s - %s", r.BusinessName, r.ReportTitle), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, "Generated: "+r.GeneratedAt.Format("02 Jan 2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetTextColor(40, 40, 40)
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range r.SummaryLines {
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
	if len(r.SummaryLines) > 0 {
		pdf.Ln(4)
	}

	if len(r.Headers) > 0 {
		colWidth := usable / float64(len(r.Headers))
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(136, 14, 79)
		pdf.SetTextColor(255, 255, 255)
		for _, h := range r.Headers {
			pdf.CellFormat(colWidth, 8, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(40, 40, 40)
		for _, row := range r.Rows {
			for i := 0; i < len(r.Headers); i++ {
				cell := ""
				if i < len(row) {
					cell = row[i]
				}
				pdf.CellFormat(colWidth, 7, cell, "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// InvoicePDF renders a single invoice document: business header,
// bill-to block, item table and totals.
func InvoicePDF(profile domain.Profile, inv domain.Invoice) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(136, 14, 79)
	pdf.CellFormat(0, 10, profile.BusinessName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(40, 40, 40)
	pdf.CellFormat(0, 5, profile.Address, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Phone: %s | GSTIN: %s", profile.Phone, profile.GSTIN), "", 1, "C", false, 0, "")

	pdf.SetDrawColor(136, 14, 79)
	pdf.SetLineWidth(0.8)
	pdf.Line(20, 38, 190, 38)
	pdf.SetY(44)

	customer := inv.Customer
	if customer == "" {
		customer = "Walk-in Customer"
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(95, 6, "BILL TO:", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "INVOICE DETAILS:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(95, 6, customer, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Invoice #: "+inv.ID, "", 1, "L", false, 0, "")
	pdf.CellFormat(95, 6, "Phone: "+inv.Phone, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+inv.Date.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.CellFormat(95, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Payment: "+inv.PaymentMethod, "", 1, "L", false, 0, "")
	pdf.Ln(6)

	widths := []float64{70, 35, 15, 25, 25}
	headers := []string{"Item", "Category", "Qty", "Price", "Amount"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(136, 14, 79)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(40, 40, 40)
	for _, it := range inv.Items {
		amount := it.Price.Mul(decimalFromInt(it.Quantity))
		pdf.CellFormat(widths[0], 7, it.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, it.Category, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 7, FormatMoney(it.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, FormatMoney(amount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	totalRow := func(label, value string, bold bool) {
		if bold {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.SetTextColor(136, 14, 79)
		} else {
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(40, 40, 40)
		}
		pdf.CellFormat(120, 7, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, value, "", 1, "R", false, 0, "")
	}
	totalRow("Subtotal:", FormatMoney(inv.Subtotal), false)
	if inv.Discount.IsPositive() {
		totalRow(fmt.Sprintf("Discount (%s%%):", inv.DiscountRate.String()), "-"+FormatMoney(inv.Discount), false)
	}
	totalRow(fmt.Sprintf("GST (%s%%):", inv.TaxRate.String()), FormatMoney(inv.Tax), false)
	totalRow("Total:", FormatMoney(inv.Total), true)

	pdf.SetY(-30)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 5, fmt.Sprintf("Thank you for shopping with %s!", profile.BusinessName), "", 1, "C", false, 0, "")

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
