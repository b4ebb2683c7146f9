package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"retailpos-backend/internal/billing"
	"retailpos-backend/internal/db"
	"retailpos-backend/internal/domain"
)

// ErrDuplicateNumber means another writer generated the same invoice
// number from the same count. Nothing was written; the caller retries
// the whole operation so a fresh number is generated.
var ErrDuplicateNumber = errors.New("invoice number already used")

type InvoiceRepository struct {
	DB            *db.Postgres
	Logger        *slog.Logger
	AllowOversell bool
}

const invoiceColumns = `id, invoice_date, customer_name, customer_phone, customer_id, payment_method,
	subtotal, tax, tax_rate, discount, discount_rate, total`

// Create runs the invoice creation transaction as one atomic unit:
// lock the referenced inventory rows, compose the invoice against that
// snapshot, persist it with denormalized item lines, decrement each
// item's quantity by the purchased amount, and bump the referenced
// customer's running aggregates. Everything commits or nothing does.
func (r InvoiceRepository) Create(ctx context.Context, draft billing.Draft) (*domain.Invoice, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]string, 0, len(draft.Lines))
	for _, l := range draft.Lines {
		ids = append(ids, l.ItemID)
	}

	snapshot, err := lockInventory(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&count); err != nil {
		return nil, err
	}

	inv, err := billing.ComposeInvoice(draft, snapshot, count, time.Now(), r.AllowOversell)
	if err != nil {
		// Compose-stage reject: nothing has been written.
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, inv.ID, inv.Date, inv.Customer, inv.Phone, inv.CustomerID, inv.PaymentMethod,
		inv.Subtotal, inv.Tax, inv.TaxRate, inv.Discount, inv.DiscountRate, inv.Total)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNumber, inv.ID)
		}
		return nil, err
	}

	if err := applyInvoiceLines(ctx, tx, inv); err != nil {
		return nil, err
	}
	if err := applyCustomerAggregates(ctx, tx, inv); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		r.Logger.Error("invoice transaction commit failed",
			"invoice", inv.ID,
			"stage", "commit",
			"err", err)
		return nil, fmt.Errorf("commit invoice %s: %w", inv.ID, err)
	}
	return inv, nil
}

// execQuerier is the slice of pgx.Tx the dependent invoice writes
// need; tests substitute a recording fake.
type execQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// applyInvoiceLines persists the denormalized item lines and decrements
// each referenced item's stock by exactly the purchased quantity.
func applyInvoiceLines(ctx context.Context, tx execQuerier, inv *domain.Invoice) error {
	for _, it := range inv.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO invoice_items (invoice_id, item_id, name, category, price, quantity)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, inv.ID, it.ItemID, it.Name, it.Category, it.Price, it.Quantity)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE inventory_items SET quantity = quantity - $1 WHERE id=$2
		`, it.Quantity, it.ItemID)
		if err != nil {
			return err
		}
	}
	return nil
}

// applyCustomerAggregates bumps the referenced customer's running
// totals: total_spent by the invoice total, visit_count by one. A
// vanished customer is tolerated; the invoice keeps the reference and
// the denormalized name/phone.
func applyCustomerAggregates(ctx context.Context, tx execQuerier, inv *domain.Invoice) error {
	if inv.CustomerID == nil {
		return nil
	}
	_, err := tx.Exec(ctx, `
		UPDATE customers
		SET total_spent = total_spent + $1, visit_count = visit_count + 1
		WHERE id=$2
	`, inv.Total, *inv.CustomerID)
	return err
}

// lockInventory reads the referenced items FOR UPDATE so competing
// invoice transactions serialize on the same rows.
func lockInventory(ctx context.Context, tx pgx.Tx, ids []string) (map[string]domain.InventoryItem, error) {
	rows, err := tx.Query(ctx, `
		SELECT `+inventoryColumns+`
		FROM inventory_items
		WHERE id = ANY($1)
		FOR UPDATE
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshot := make(map[string]domain.InventoryItem, len(ids))
	for rows.Next() {
		it, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		snapshot[it.ID] = *it
	}
	return snapshot, rows.Err()
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(&inv.ID, &inv.Date, &inv.Customer, &inv.Phone, &inv.CustomerID, &inv.PaymentMethod,
		&inv.Subtotal, &inv.Tax, &inv.TaxRate, &inv.Discount, &inv.DiscountRate, &inv.Total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r InvoiceRepository) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	inv, err := scanInvoice(r.DB.Pool.QueryRow(ctx, `
		SELECT `+invoiceColumns+` FROM invoices WHERE id=$1
	`, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, []*domain.Invoice{inv}); err != nil {
		return nil, err
	}
	return inv, nil
}

// List returns invoices newest first, optionally bounded to a date
// window (inclusive).
func (r InvoiceRepository) List(ctx context.Context, from, to *time.Time, limit int) ([]domain.Invoice, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE ($1::timestamptz IS NULL OR invoice_date >= $1)
		  AND ($2::timestamptz IS NULL OR invoice_date < $2 + interval '1 day')
		ORDER BY invoice_date DESC, id DESC
		LIMIT $3
	`, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []domain.Invoice
	var refs []*domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range invoices {
		refs = append(refs, &invoices[i])
	}
	if err := r.attachItems(ctx, refs); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r InvoiceRepository) attachItems(ctx context.Context, invoices []*domain.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	ids := make([]string, 0, len(invoices))
	byID := make(map[string]*domain.Invoice, len(invoices))
	for _, inv := range invoices {
		ids = append(ids, inv.ID)
		byID[inv.ID] = inv
	}

	rows, err := r.DB.Pool.Query(ctx, `
		SELECT invoice_id, item_id, name, category, price, quantity
		FROM invoice_items
		WHERE invoice_id = ANY($1)
		ORDER BY id ASC
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var invoiceID string
		var line domain.InvoiceLine
		if err := rows.Scan(&invoiceID, &line.ItemID, &line.Name, &line.Category, &line.Price, &line.Quantity); err != nil {
			return err
		}
		if inv := byID[invoiceID]; inv != nil {
			inv.Items = append(inv.Items, line)
		}
	}
	return rows.Err()
}

// Update is the administrative edit: customer, phone and payment
// method only. Totals and items are immutable after creation.
func (r InvoiceRepository) Update(ctx context.Context, id string, p domain.InvoicePatch) (*domain.Invoice, error) {
	_, err := scanInvoice(r.DB.Pool.QueryRow(ctx, `
		UPDATE invoices SET
			customer_name  = COALESCE($1, customer_name),
			customer_phone = COALESCE($2, customer_phone),
			payment_method = COALESCE($3, payment_method)
		WHERE id=$4
		RETURNING `+invoiceColumns+`
	`, p.Customer, p.Phone, p.PaymentMethod, id))
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Delete removes the invoice and its lines. Inventory quantities and
// customer aggregates are not rolled back; deletion is an
// administrative correction, not a refund.
func (r InvoiceRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Pool.Exec(ctx, `DELETE FROM invoices WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
