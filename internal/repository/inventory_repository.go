package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"retailpos-backend/internal/db"
	"retailpos-backend/internal/domain"
)

type InventoryRepository struct {
	DB *db.Postgres
}

const inventoryColumns = `id, name, category, size, color, price, cost, quantity, supplier, date_added`

func scanInventoryItem(row pgx.Row) (*domain.InventoryItem, error) {
	var it domain.InventoryItem
	err := row.Scan(&it.ID, &it.Name, &it.Category, &it.Size, &it.Color, &it.Price, &it.Cost, &it.Quantity, &it.Supplier, &it.DateAdded)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r InventoryRepository) List(ctx context.Context) ([]domain.InventoryItem, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT `+inventoryColumns+`
		FROM inventory_items
		ORDER BY date_added ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		it, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (r InventoryRepository) Get(ctx context.Context, id string) (*domain.InventoryItem, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+inventoryColumns+`
		FROM inventory_items
		WHERE id=$1
	`, id)
	return scanInventoryItem(row)
}

func (r InventoryRepository) Create(ctx context.Context, it domain.InventoryItem) (*domain.InventoryItem, error) {
	now := time.Now()
	it.ID = timestampID(now)
	it.DateAdded = now
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO inventory_items (id, name, category, size, color, price, cost, quantity, supplier, date_added)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING `+inventoryColumns+`
	`, it.ID, it.Name, it.Category, it.Size, it.Color, it.Price, it.Cost, it.Quantity, it.Supplier, it.DateAdded)
	return scanInventoryItem(row)
}

// Update applies a partial-field patch; nil fields keep stored values.
func (r InventoryRepository) Update(ctx context.Context, id string, p domain.InventoryPatch) (*domain.InventoryItem, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE inventory_items SET
			name     = COALESCE($1, name),
			category = COALESCE($2, category),
			size     = COALESCE($3, size),
			color    = COALESCE($4, color),
			price    = COALESCE($5, price),
			cost     = COALESCE($6, cost),
			quantity = COALESCE($7, quantity),
			supplier = COALESCE($8, supplier)
		WHERE id=$9
		RETURNING `+inventoryColumns+`
	`, p.Name, p.Category, p.Size, p.Color, p.Price, p.Cost, p.Quantity, p.Supplier, id)
	return scanInventoryItem(row)
}

// Delete removes the item permanently. Past invoices keep their
// denormalized snapshots, so dangling references are tolerated.
func (r InventoryRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Pool.Exec(ctx, `DELETE FROM inventory_items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
