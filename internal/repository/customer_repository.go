package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"retailpos-backend/internal/db"
	"retailpos-backend/internal/domain"
)

type CustomerRepository struct {
	DB *db.Postgres
}

const customerColumns = `id, name, phone, email, address, notes, date_added, total_spent, visit_count`

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.Notes, &c.DateAdded, &c.TotalSpent, &c.VisitCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r CustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

func (r CustomerRepository) Get(ctx context.Context, id string) (*domain.Customer, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE id=$1
	`, id)
	return scanCustomer(row)
}

func (r CustomerRepository) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	now := time.Now()
	c.ID = timestampID(now)
	c.DateAdded = now
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO customers (id, name, phone, email, address, notes, date_added, total_spent, visit_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7,0,0)
		RETURNING `+customerColumns+`
	`, c.ID, c.Name, c.Phone, c.Email, c.Address, c.Notes, c.DateAdded)
	return scanCustomer(row)
}

// Update applies a partial-field patch. The running aggregates
// (total_spent, visit_count) are owned by the invoice transaction and
// never patched directly.
func (r CustomerRepository) Update(ctx context.Context, id string, p domain.CustomerPatch) (*domain.Customer, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE customers SET
			name    = COALESCE($1, name),
			phone   = COALESCE($2, phone),
			email   = COALESCE($3, email),
			address = COALESCE($4, address),
			notes   = COALESCE($5, notes)
		WHERE id=$6
		RETURNING `+customerColumns+`
	`, p.Name, p.Phone, p.Email, p.Address, p.Notes, id)
	return scanCustomer(row)
}

func (r CustomerRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Pool.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
