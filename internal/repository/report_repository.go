package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"retailpos-backend/internal/db"
)

// ReportRepository computes the derived read-side aggregates. Nothing
// here is cached or incrementally maintained; every call recomputes
// from the full collections.
type ReportRepository struct {
	DB *db.Postgres
}

type DashboardSummary struct {
	TodaySales      decimal.Decimal
	TodayInvoices   int64
	TotalRevenue    decimal.Decimal
	TotalInvoices   int64
	WeekRevenue     decimal.Decimal
	PrevWeekRevenue decimal.Decimal
	InventoryValue  decimal.Decimal
	TotalStockUnits int64
	LowStockCount   int64
}

type SalesPoint struct {
	Date   string
	Amount decimal.Decimal
}

type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

type PaymentCount struct {
	Method string
	Count  int64
}

type StockBuckets struct {
	Low    int64
	Medium int64
	High   int64
}

type TopProduct struct {
	Name    string
	Units   int64
	Revenue decimal.Decimal
}

type ProfitRow struct {
	InvoiceID string
	Date      time.Time
	ItemName  string
	Category  string
	Quantity  int
	Cost      decimal.Decimal
	Revenue   decimal.Decimal
	Profit    decimal.Decimal
}

type SalesOverview struct {
	TotalRevenue decimal.Decimal
	InvoiceCount int64
	AverageValue decimal.Decimal
}

func (r ReportRepository) Summary(ctx context.Context, lowThreshold int) (*DashboardSummary, error) {
	var s DashboardSummary
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total) FILTER (WHERE invoice_date::date = CURRENT_DATE), 0),
			COUNT(*) FILTER (WHERE invoice_date::date = CURRENT_DATE),
			COALESCE(SUM(total), 0),
			COUNT(*),
			COALESCE(SUM(total) FILTER (WHERE invoice_date >= CURRENT_DATE - interval '6 days'), 0),
			COALESCE(SUM(total) FILTER (WHERE invoice_date >= CURRENT_DATE - interval '13 days'
			                              AND invoice_date <  CURRENT_DATE - interval '6 days'), 0)
		FROM invoices
	`).Scan(&s.TodaySales, &s.TodayInvoices, &s.TotalRevenue, &s.TotalInvoices, &s.WeekRevenue, &s.PrevWeekRevenue)
	if err != nil {
		return nil, err
	}

	err = r.DB.Pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(price * quantity), 0),
			COALESCE(SUM(quantity), 0),
			COUNT(*) FILTER (WHERE quantity < $1)
		FROM inventory_items
	`, lowThreshold).Scan(&s.InventoryValue, &s.TotalStockUnits, &s.LowStockCount)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SalesSeries returns per-day revenue for the trailing window,
// including today.
func (r ReportRepository) SalesSeries(ctx context.Context, days int) ([]SalesPoint, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT invoice_date::date::text, COALESCE(SUM(total), 0)
		FROM invoices
		WHERE invoice_date >= CURRENT_DATE - ($1 - 1) * interval '1 day'
		GROUP BY invoice_date::date
		ORDER BY invoice_date::date ASC
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []SalesPoint
	for rows.Next() {
		var p SalesPoint
		if err := rows.Scan(&p.Date, &p.Amount); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r ReportRepository) Overview(ctx context.Context, from, to *time.Time) (*SalesOverview, error) {
	var o SalesOverview
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM invoices
		WHERE ($1::timestamptz IS NULL OR invoice_date >= $1)
		  AND ($2::timestamptz IS NULL OR invoice_date < $2 + interval '1 day')
	`, from, to).Scan(&o.TotalRevenue, &o.InvoiceCount)
	if err != nil {
		return nil, err
	}
	if o.InvoiceCount > 0 {
		o.AverageValue = o.TotalRevenue.Div(decimal.NewFromInt(o.InvoiceCount)).Round(2)
	}
	return &o, nil
}

// CategoryRevenue sums sold-line revenue per denormalized category.
func (r ReportRepository) CategoryRevenue(ctx context.Context, from, to *time.Time) ([]CategoryAmount, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT ii.category, COALESCE(SUM(ii.price * ii.quantity), 0) AS amount
		FROM invoice_items ii
		JOIN invoices i ON i.id = ii.invoice_id
		WHERE ($1::timestamptz IS NULL OR i.invoice_date >= $1)
		  AND ($2::timestamptz IS NULL OR i.invoice_date < $2 + interval '1 day')
		GROUP BY ii.category
		ORDER BY amount DESC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CategoryAmount
	for rows.Next() {
		var c CategoryAmount
		if err := rows.Scan(&c.Category, &c.Amount); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r ReportRepository) PaymentBreakdown(ctx context.Context, from, to *time.Time) ([]PaymentCount, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT payment_method, COUNT(*)
		FROM invoices
		WHERE ($1::timestamptz IS NULL OR invoice_date >= $1)
		  AND ($2::timestamptz IS NULL OR invoice_date < $2 + interval '1 day')
		GROUP BY payment_method
		ORDER BY COUNT(*) DESC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []PaymentCount
	for rows.Next() {
		var p PaymentCount
		if err := rows.Scan(&p.Method, &p.Count); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// Buckets classifies stock levels. quantity == low threshold counts as
// medium, not low.
func (r ReportRepository) Buckets(ctx context.Context, low, high int) (*StockBuckets, error) {
	var b StockBuckets
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE quantity < $1),
			COUNT(*) FILTER (WHERE quantity >= $1 AND quantity < $2),
			COUNT(*) FILTER (WHERE quantity >= $2)
		FROM inventory_items
	`, low, high).Scan(&b.Low, &b.Medium, &b.High)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r ReportRepository) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT name, COALESCE(SUM(quantity), 0) AS units, COALESCE(SUM(price * quantity), 0) AS revenue
		FROM invoice_items
		GROUP BY name
		ORDER BY units DESC, revenue DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []TopProduct
	for rows.Next() {
		var t TopProduct
		if err := rows.Scan(&t.Name, &t.Units, &t.Revenue); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// ProfitRows joins sold lines back to current inventory for cost.
// Lines whose source item was deleted keep zero cost.
func (r ReportRepository) ProfitRows(ctx context.Context, from, to *time.Time) ([]ProfitRow, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT i.id, i.invoice_date, ii.name, ii.category, ii.quantity,
		       COALESCE(inv.cost, 0) * ii.quantity AS cost,
		       ii.price * ii.quantity AS revenue
		FROM invoice_items ii
		JOIN invoices i ON i.id = ii.invoice_id
		LEFT JOIN inventory_items inv ON inv.id = ii.item_id
		WHERE ($1::timestamptz IS NULL OR i.invoice_date >= $1)
		  AND ($2::timestamptz IS NULL OR i.invoice_date < $2 + interval '1 day')
		ORDER BY i.invoice_date DESC, i.id DESC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ProfitRow
	for rows.Next() {
		var p ProfitRow
		if err := rows.Scan(&p.InvoiceID, &p.Date, &p.ItemName, &p.Category, &p.Quantity, &p.Cost, &p.Revenue); err != nil {
			return nil, err
		}
		p.Profit = p.Revenue.Sub(p.Cost)
		items = append(items, p)
	}
	return items, rows.Err()
}
