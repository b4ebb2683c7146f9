package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailpos-backend/internal/domain"
)

type recordedExec struct {
	sql  string
	args []any
}

type fakeExecQuerier struct {
	execs []recordedExec
}

func (f *fakeExecQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, recordedExec{sql: sql, args: args})
	return pgconn.CommandTag{}, nil
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestApplyInvoiceLinesDecrementsExactQuantity(t *testing.T) {
	inv := &domain.Invoice{
		ID: "INV25030042",
		Items: []domain.InvoiceLine{
			{ItemID: "1700000000001", Quantity: 2, Name: "Silk Saree", Price: dec(t, "2499"), Category: "Sarees"},
			{ItemID: "1700000000002", Quantity: 3, Name: "Cotton Kurti", Price: dec(t, "799"), Category: "Kurtis"},
		},
	}
	fake := &fakeExecQuerier{}

	require.NoError(t, applyInvoiceLines(context.Background(), fake, inv))

	// One insert plus one decrement per line, in order.
	require.Len(t, fake.execs, 4)

	insert := fake.execs[0]
	assert.Contains(t, insert.sql, "INSERT INTO invoice_items")
	assert.Equal(t, "INV25030042", insert.args[0])
	assert.Equal(t, "1700000000001", insert.args[1])
	assert.Equal(t, 2, insert.args[5])

	decrement := fake.execs[1]
	assert.Contains(t, decrement.sql, "quantity = quantity - $1")
	assert.Equal(t, 2, decrement.args[0], "decrement must equal the purchased amount")
	assert.Equal(t, "1700000000001", decrement.args[1])

	decrement = fake.execs[3]
	assert.Contains(t, decrement.sql, "quantity = quantity - $1")
	assert.Equal(t, 3, decrement.args[0])
	assert.Equal(t, "1700000000002", decrement.args[1])
}

func TestApplyCustomerAggregatesBumpsTotals(t *testing.T) {
	customerID := "1700000000099"
	inv := &domain.Invoice{
		ID:         "INV25030042",
		CustomerID: &customerID,
		Total:      dec(t, "212.40"),
	}
	fake := &fakeExecQuerier{}

	require.NoError(t, applyCustomerAggregates(context.Background(), fake, inv))

	require.Len(t, fake.execs, 1)
	update := fake.execs[0]
	assert.Contains(t, update.sql, "total_spent = total_spent + $1")
	assert.Contains(t, update.sql, "visit_count = visit_count + 1")
	require.Len(t, update.args, 2)

	spent, ok := update.args[0].(decimal.Decimal)
	require.True(t, ok)
	assert.True(t, spent.Equal(inv.Total), "total_spent bump %s != invoice total %s", spent, inv.Total)
	assert.Equal(t, customerID, update.args[1])
}

func TestApplyCustomerAggregatesWithoutCustomer(t *testing.T) {
	fake := &fakeExecQuerier{}
	inv := &domain.Invoice{ID: "INV25030042", Total: dec(t, "100")}

	require.NoError(t, applyCustomerAggregates(context.Background(), fake, inv))
	assert.Empty(t, fake.execs)
}

func TestApplyInvoiceLinesSQLTargetsInventory(t *testing.T) {
	inv := &domain.Invoice{
		ID:    "INV25030001",
		Items: []domain.InvoiceLine{{ItemID: "1", Quantity: 1, Price: dec(t, "10")}},
	}
	fake := &fakeExecQuerier{}
	require.NoError(t, applyInvoiceLines(context.Background(), fake, inv))

	require.Len(t, fake.execs, 2)
	assert.True(t, strings.Contains(fake.execs[1].sql, "UPDATE inventory_items"))
}
