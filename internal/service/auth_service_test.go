package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"retailpos-backend/internal/config"
)

type memOverrideStore struct {
	hash *string
}

func (m *memOverrideStore) AdminPasswordHash(ctx context.Context) (*string, error) {
	return m.hash, nil
}

func (m *memOverrideStore) SetAdminPasswordHash(ctx context.Context, hash string) error {
	m.hash = &hash
	return nil
}

func newVerifier(store *memOverrideStore) AdminVerifier {
	return AdminVerifier{Email: "admin@aleen.com", DefaultPassword: "admin123", Store: store}
}

func TestAdminVerifierDefaultPassword(t *testing.T) {
	v := newVerifier(&memOverrideStore{})
	ctx := context.Background()

	assert.NoError(t, v.Verify(ctx, "admin@aleen.com", "admin123"))
	assert.NoError(t, v.Verify(ctx, "ADMIN@aleen.com", "admin123"))
	assert.ErrorIs(t, v.Verify(ctx, "admin@aleen.com", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, v.Verify(ctx, "someone@else.com", "admin123"), ErrInvalidCredentials)
}

func TestAdminVerifierStoredOverride(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	s := string(hash)
	v := newVerifier(&memOverrideStore{hash: &s})
	ctx := context.Background()

	assert.NoError(t, v.Verify(ctx, "admin@aleen.com", "s3cret"))
	// Default no longer works once an override is stored.
	assert.ErrorIs(t, v.Verify(ctx, "admin@aleen.com", "admin123"), ErrInvalidCredentials)
}

func TestAdminVerifierChangePassword(t *testing.T) {
	store := &memOverrideStore{}
	v := newVerifier(store)
	ctx := context.Background()

	assert.ErrorIs(t, v.ChangePassword(ctx, "wrong", "newpass"), ErrInvalidCredentials)
	require.NoError(t, v.ChangePassword(ctx, "admin123", "newpass"))
	require.NotNil(t, store.hash)

	assert.NoError(t, v.Verify(ctx, "admin@aleen.com", "newpass"))
	assert.ErrorIs(t, v.Verify(ctx, "admin@aleen.com", "admin123"), ErrInvalidCredentials)
}

func testAuthService() AuthService {
	return AuthService{
		Config: config.Config{
			JWTSecret:       "test-secret",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
		},
		Verifier: newVerifier(&memOverrideStore{}),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestLoginIssuesTokenPair(t *testing.T) {
	s := testAuthService()
	res, err := s.Login(context.Background(), LoginInput{Email: "admin@aleen.com", Password: "admin123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.NotEqual(t, res.AccessToken, res.RefreshToken)
	assert.Equal(t, "admin@aleen.com", res.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, time.Minute)
}

func TestLoginGenericFailure(t *testing.T) {
	s := testAuthService()
	_, err := s.Login(context.Background(), LoginInput{Email: "admin@aleen.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthFailuresAreLogged(t *testing.T) {
	var buf bytes.Buffer
	s := testAuthService()
	s.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	_, err := s.Login(context.Background(), LoginInput{Email: "admin@aleen.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, buf.String(), "login rejected")

	buf.Reset()
	_, err = s.Refresh(context.Background(), RefreshInput{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Contains(t, buf.String(), "refresh rejected")
}

func TestRefreshRoundTrip(t *testing.T) {
	s := testAuthService()
	first, err := s.Login(context.Background(), LoginInput{Email: "admin@aleen.com", Password: "admin123"})
	require.NoError(t, err)

	second, err := s.Refresh(context.Background(), RefreshInput{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, "admin@aleen.com", second.Email)

	// An access token is not a refresh token.
	_, err = s.Refresh(context.Background(), RefreshInput{RefreshToken: first.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.Refresh(context.Background(), RefreshInput{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}
