package repository

import "context"

// SeedDefaults inserts the initial business profile and the default
// category list. Idempotent: existing rows win.
func (r ProfileRepository) SeedDefaults(ctx context.Context) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO profile (id, business_name, owner_name, email, phone, address, gstin, description, established, specialization)
		VALUES (1, 'Aleen Clothing', 'Admin', 'admin@aleen.com', '+91 98765 43210',
		        'Baba Jaan Chawk, Pune, Maharashtra 411001', '27XXXXX1234X1ZX',
		        'Premium women''s clothing store offering the latest fashion trends and timeless classics.',
		        '2020', 'Women''s Fashion & Accessories')
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return err
	}

	defaults := []string{"Sarees", "Kurtis", "Lehengas", "Dresses", "Dupattas", "Accessories"}
	for _, name := range defaults {
		_, err := r.DB.Pool.Exec(ctx, `
			INSERT INTO categories (name) VALUES ($1)
			ON CONFLICT (name) DO NOTHING
		`, name)
		if err != nil {
			return err
		}
	}
	return nil
}
