package db

import "context"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS inventory_items (
		id          text PRIMARY KEY,
		name        text NOT NULL,
		category    text NOT NULL DEFAULT '',
		size        text NOT NULL DEFAULT '',
		color       text NOT NULL DEFAULT '',
		price       numeric(14,2) NOT NULL DEFAULT 0,
		cost        numeric(14,2) NOT NULL DEFAULT 0,
		quantity    integer NOT NULL DEFAULT 0,
		supplier    text NOT NULL DEFAULT '',
		date_added  timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id          text PRIMARY KEY,
		name        text NOT NULL,
		phone       text NOT NULL DEFAULT '',
		email       text NOT NULL DEFAULT '',
		address     text NOT NULL DEFAULT '',
		notes       text NOT NULL DEFAULT '',
		date_added  timestamptz NOT NULL DEFAULT now(),
		total_spent numeric(14,2) NOT NULL DEFAULT 0,
		visit_count integer NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id             text PRIMARY KEY,
		invoice_date   timestamptz NOT NULL DEFAULT now(),
		customer_name  text NOT NULL DEFAULT '',
		customer_phone text NOT NULL DEFAULT '',
		customer_id    text,
		payment_method text NOT NULL DEFAULT 'Cash',
		subtotal       numeric(14,2) NOT NULL DEFAULT 0,
		tax            numeric(14,2) NOT NULL DEFAULT 0,
		tax_rate       numeric(6,2) NOT NULL DEFAULT 0,
		discount       numeric(14,2) NOT NULL DEFAULT 0,
		discount_rate  numeric(6,2) NOT NULL DEFAULT 0,
		total          numeric(14,2) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS invoice_items (
		id         bigserial PRIMARY KEY,
		invoice_id text NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
		item_id    text NOT NULL,
		name       text NOT NULL,
		category   text NOT NULL DEFAULT '',
		price      numeric(14,2) NOT NULL DEFAULT 0,
		quantity   integer NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS profile (
		id                  integer PRIMARY KEY,
		business_name       text NOT NULL DEFAULT '',
		owner_name          text NOT NULL DEFAULT '',
		email               text NOT NULL DEFAULT '',
		phone               text NOT NULL DEFAULT '',
		address             text NOT NULL DEFAULT '',
		gstin               text NOT NULL DEFAULT '',
		description         text NOT NULL DEFAULT '',
		established         text NOT NULL DEFAULT '',
		specialization      text NOT NULL DEFAULT '',
		admin_password_hash text,
		updated_at          timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id         bigserial PRIMARY KEY,
		name       text NOT NULL UNIQUE,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_date ON invoices (invoice_date)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_customer ON invoices (customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_invoice_items_invoice ON invoice_items (invoice_id)`,
}

// EnsureSchema creates tables and indexes if they do not exist yet.
// Statements are idempotent so startup can run them every time.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := p.Pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
