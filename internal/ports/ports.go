package ports

import (
	"context"

	"retailpos-backend/internal/domain"
)

// HealthChecker is used to probe dependencies.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// CredentialVerifier decides whether a submitted email/password pair is
// valid. The default implementation is a single-admin placeholder; a
// real user store can be substituted without touching call sites.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) error
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
}

// ProfileReader supplies the business profile to document renderers.
type ProfileReader interface {
	Get(ctx context.Context) (*domain.Profile, error)
}
