package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpos-backend/internal/domain"
)

func TestCSVRoundTripQuoting(t *testing.T) {
	tricky := `Saree, "Premium" edition`
	data, err := CSV(
		[]string{"name", "category"},
		[][]string{{tricky, "Sarees"}, {"plain", "line\nbreak"}},
	)
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}), "missing UTF-8 BOM")

	r := csv.NewReader(bytes.NewReader(data[3:]))
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, tricky, records[1][0])
	assert.Equal(t, "line\nbreak", records[2][1])
}

func TestCSVFilename(t *testing.T) {
	at := time.UnixMilli(1735689600000)
	assert.Equal(t, "inventory_1735689600000.csv", CSVFilename("inventory", at))
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":          "Rs. 0.00",
		"999":        "Rs. 999.00",
		"1000":       "Rs. 1,000.00",
		"123456.7":   "Rs. 1,23,456.70",
		"1234567.89": "Rs. 12,34,567.89",
		"-45000":     "Rs. -45,000.00",
	}
	for in, want := range cases {
		d, err := decimal.NewFromString(in)
		require.NoError(t, err)
		assert.Equal(t, want, FormatMoney(d), "input %s", in)
	}
}

func TestReportPDFRenders(t *testing.T) {
	data, err := ReportPDF{
		BusinessName: "Aleen Clothing",
		ReportTitle:  "Sales Report",
		GeneratedAt:  time.Now(),
		SummaryLines: []string{"Total Revenue: Rs. 1,200.00", "Total Invoices: 2"},
		Headers:      []string{"Invoice", "Date", "Total"},
		Rows:         [][]string{{"INV25010001", "2025-01-02", "Rs. 700.00"}, {"INV25010002", "2025-01-03", "Rs. 500.00"}},
	}.Render()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestInvoicePDFRenders(t *testing.T) {
	price, _ := decimal.NewFromString("2499")
	inv := domain.Invoice{
		ID:            "INV25010001",
		Date:          time.Now(),
		Customer:      "Priya",
		Phone:         "+91 98765 43210",
		PaymentMethod: "Cash",
		Items:         []domain.InvoiceLine{{ItemID: "1", Quantity: 2, Name: "Silk Saree", Price: price, Category: "Sarees"}},
		Subtotal:      price.Mul(decimal.NewFromInt(2)),
		TaxRate:       decimal.NewFromInt(18),
	}
	inv.Tax = inv.Subtotal.Mul(decimal.NewFromFloat(0.18))
	inv.Total = inv.Subtotal.Add(inv.Tax)

	data, err := InvoicePDF(domain.Profile{BusinessName: "Aleen Clothing", Address: "Pune", GSTIN: "27X"}, inv)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Greater(t, len(data), 1000)
}

func TestXLSXRenders(t *testing.T) {
	data, err := XLSX("Inventory", []string{"Name", "Qty"}, [][]string{{"Silk Saree", "8"}})
	require.NoError(t, err)
	// XLSX is a zip container.
	assert.True(t, strings.HasPrefix(string(data), "PK"))
}
