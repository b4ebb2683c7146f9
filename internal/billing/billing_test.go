package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpos-backend/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestCalculateTotalsEmpty(t *testing.T) {
	totals := CalculateTotals(nil, dec("18"), dec("50"))
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Discount.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestCalculateTotalsPostDiscountTax(t *testing.T) {
	lines := []Line{{UnitPrice: dec("100"), Quantity: 2}}
	totals := CalculateTotals(lines, dec("18"), dec("10"))

	assert.True(t, totals.Subtotal.Equal(dec("200")), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.Discount.Equal(dec("20")), "discount %s", totals.Discount)
	assert.True(t, totals.Tax.Equal(dec("32.4")), "tax %s", totals.Tax)
	assert.True(t, totals.Total.Equal(dec("212.4")), "total %s", totals.Total)
}

func TestCalculateTotalsIdentity(t *testing.T) {
	cases := [][]Line{
		{{UnitPrice: dec("19.99"), Quantity: 3}},
		{{UnitPrice: dec("0.01"), Quantity: 1}, {UnitPrice: dec("250"), Quantity: 7}},
		{{UnitPrice: dec("1234.56"), Quantity: 2}, {UnitPrice: dec("8.5"), Quantity: 11}, {UnitPrice: dec("42"), Quantity: 1}},
	}
	for _, lines := range cases {
		totals := CalculateTotals(lines, dec("18"), dec("7.5"))
		want := totals.Subtotal.Sub(totals.Discount).Add(totals.Tax)
		diff := totals.Total.Sub(want).Abs()
		assert.True(t, diff.LessThan(dec("0.000001")), "total %s != %s", totals.Total, want)
	}
}

func TestNextInvoiceNumber(t *testing.T) {
	at := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "INV25010001", NextInvoiceNumber(0, at))
	assert.Equal(t, "INV25010002", NextInvoiceNumber(1, at))
	assert.Equal(t, "INV25010003", NextInvoiceNumber(2, at))
	assert.Equal(t, "INV25121000", NextInvoiceNumber(999, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)))

	prev := ""
	for count := 0; count < 50; count++ {
		n := NextInvoiceNumber(count, at)
		require.Len(t, n, 11)
		assert.Greater(t, n, prev)
		prev = n
	}
}

func snapshot() map[string]domain.InventoryItem {
	return map[string]domain.InventoryItem{
		"1700000000001": {ID: "1700000000001", Name: "Silk Saree", Category: "Sarees", Price: dec("2499"), Quantity: 8},
		"1700000000002": {ID: "1700000000002", Name: "Cotton Kurti", Category: "Kurtis", Price: dec("799"), Quantity: 2},
	}
}

func TestComposeInvoiceSnapshotsItems(t *testing.T) {
	draft := Draft{
		Customer:      "Priya",
		PaymentMethod: "Cash",
		Lines: []DraftLine{
			{ItemID: "1700000000001", Quantity: 2},
			{ItemID: "1700000000002", Quantity: 1},
		},
		TaxRate:      dec("18"),
		DiscountRate: dec("0"),
	}
	now := time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC)

	inv, err := ComposeInvoice(draft, snapshot(), 41, now, true)
	require.NoError(t, err)

	assert.Equal(t, "INV25030042", inv.ID)
	require.Len(t, inv.Items, 2)
	assert.Equal(t, "Silk Saree", inv.Items[0].Name)
	assert.Equal(t, "Sarees", inv.Items[0].Category)
	assert.True(t, inv.Items[0].Price.Equal(dec("2499")))
	assert.True(t, inv.Subtotal.Equal(dec("5797")))
	assert.True(t, inv.Total.Equal(inv.Subtotal.Sub(inv.Discount).Add(inv.Tax)))
}

func TestComposeInvoiceUnknownItemAborts(t *testing.T) {
	draft := Draft{
		Lines:   []DraftLine{{ItemID: "1700000000001", Quantity: 1}, {ItemID: "nope", Quantity: 1}},
		TaxRate: dec("18"),
	}
	inv, err := ComposeInvoice(draft, snapshot(), 0, time.Now(), true)
	assert.Nil(t, inv)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestComposeInvoiceEmpty(t *testing.T) {
	_, err := ComposeInvoice(Draft{}, snapshot(), 0, time.Now(), true)
	assert.ErrorIs(t, err, ErrEmptyInvoice)
}

func TestComposeInvoiceOversellPolicy(t *testing.T) {
	draft := Draft{
		Lines:   []DraftLine{{ItemID: "1700000000002", Quantity: 5}},
		TaxRate: dec("18"),
	}

	// Rejected when overselling is disabled: only 2 in stock.
	_, err := ComposeInvoice(draft, snapshot(), 0, time.Now(), false)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Permitted when enabled; quantity may go negative on apply.
	inv, err := ComposeInvoice(draft, snapshot(), 0, time.Now(), true)
	require.NoError(t, err)
	assert.True(t, inv.Subtotal.Equal(dec("3995")))
}

func TestComposeInvoiceOversellChecksCombinedLines(t *testing.T) {
	// Two lines of the same item must be judged against their combined
	// quantity: 2 + 2 > 3 in stock.
	snap := map[string]domain.InventoryItem{
		"1700000000003": {ID: "1700000000003", Name: "Lehenga", Category: "Lehengas", Price: dec("4999"), Quantity: 3},
	}
	draft := Draft{
		Lines: []DraftLine{
			{ItemID: "1700000000003", Quantity: 2},
			{ItemID: "1700000000003", Quantity: 2},
		},
		TaxRate: dec("18"),
	}

	_, err := ComposeInvoice(draft, snap, 0, time.Now(), false)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Combined quantity within stock passes.
	draft.Lines[1].Quantity = 1
	inv, err := ComposeInvoice(draft, snap, 0, time.Now(), false)
	require.NoError(t, err)
	assert.True(t, inv.Subtotal.Equal(dec("14997")))

	// With overselling enabled the combined quantity may exceed stock.
	draft.Lines[1].Quantity = 2
	inv, err = ComposeInvoice(draft, snap, 0, time.Now(), true)
	require.NoError(t, err)
	require.Len(t, inv.Items, 2)
	assert.Equal(t, 4, inv.Items[0].Quantity+inv.Items[1].Quantity)
}

func TestComposeInvoiceRejectsZeroQuantity(t *testing.T) {
	draft := Draft{
		Lines:   []DraftLine{{ItemID: "1700000000001", Quantity: 0}},
		TaxRate: dec("18"),
	}
	_, err := ComposeInvoice(draft, snapshot(), 0, time.Now(), true)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestClassifyStockBoundary(t *testing.T) {
	assert.Equal(t, domain.StockLow, domain.ClassifyStock(9, 10, 50))
	assert.Equal(t, domain.StockMedium, domain.ClassifyStock(10, 10, 50), "quantity == threshold is not low stock")
	assert.Equal(t, domain.StockMedium, domain.ClassifyStock(49, 10, 50))
	assert.Equal(t, domain.StockHigh, domain.ClassifyStock(50, 10, 50))
	assert.Equal(t, domain.StockLow, domain.ClassifyStock(-3, 10, 50))
}
