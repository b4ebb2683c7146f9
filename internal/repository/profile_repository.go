package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"retailpos-backend/internal/db"
	"retailpos-backend/internal/domain"
)

type ProfileRepository struct {
	DB *db.Postgres
}

const profileColumns = `business_name, owner_name, email, phone, address, gstin, description, established, specialization, updated_at`

func (r ProfileRepository) Get(ctx context.Context) (*domain.Profile, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profile
		WHERE id=1
	`)
	var p domain.Profile
	err := row.Scan(&p.BusinessName, &p.OwnerName, &p.Email, &p.Phone, &p.Address, &p.GSTIN, &p.Description, &p.Established, &p.Specialization, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r ProfileRepository) Update(ctx context.Context, patch domain.ProfilePatch) (*domain.Profile, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE profile SET
			business_name  = COALESCE($1, business_name),
			owner_name     = COALESCE($2, owner_name),
			email          = COALESCE($3, email),
			phone          = COALESCE($4, phone),
			address        = COALESCE($5, address),
			gstin          = COALESCE($6, gstin),
			description    = COALESCE($7, description),
			established    = COALESCE($8, established),
			specialization = COALESCE($9, specialization),
			updated_at     = now()
		WHERE id=1
		RETURNING `+profileColumns+`
	`, patch.BusinessName, patch.OwnerName, patch.Email, patch.Phone, patch.Address,
		patch.GSTIN, patch.Description, patch.Established, patch.Specialization)

	var p domain.Profile
	err := row.Scan(&p.BusinessName, &p.OwnerName, &p.Email, &p.Phone, &p.Address, &p.GSTIN, &p.Description, &p.Established, &p.Specialization, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// AdminPasswordHash returns the stored password override, or nil when
// the configured default applies.
func (r ProfileRepository) AdminPasswordHash(ctx context.Context) (*string, error) {
	var hash *string
	err := r.DB.Pool.QueryRow(ctx, `SELECT admin_password_hash FROM profile WHERE id=1`).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return hash, nil
}

func (r ProfileRepository) SetAdminPasswordHash(ctx context.Context, hash string) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE profile SET admin_password_hash=$1, updated_at=now() WHERE id=1`, hash)
	return err
}

func (r ProfileRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.DB.Pool.Query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r ProfileRepository) AddCategory(ctx context.Context, name string) (*domain.Category, error) {
	var c domain.Category
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO categories (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name=EXCLUDED.name
		RETURNING id, name, created_at
	`, name).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r ProfileRepository) DeleteCategory(ctx context.Context, id int64) error {
	ct, err := r.DB.Pool.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
