package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"retailpos-backend/internal/config"
	"retailpos-backend/internal/ports"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// PasswordOverrideStore persists the admin password override set via
// change-password, alongside the rest of the business profile.
type PasswordOverrideStore interface {
	AdminPasswordHash(ctx context.Context) (*string, error)
	SetAdminPasswordHash(ctx context.Context, hash string) error
}

// AdminVerifier is the placeholder credential check: one admin account,
// password from config unless an override hash is stored. Not a real
// security boundary; it exists so a hashed multi-user store can slot in
// behind ports.CredentialVerifier later.
type AdminVerifier struct {
	Email           string
	DefaultPassword string
	Store           PasswordOverrideStore
}

var _ ports.CredentialVerifier = AdminVerifier{}

func (v AdminVerifier) Verify(ctx context.Context, email, password string) error {
	if !strings.EqualFold(email, v.Email) {
		return ErrInvalidCredentials
	}
	return v.checkPassword(ctx, password)
}

func (v AdminVerifier) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if newPassword == "" {
		return errors.New("new password must not be empty")
	}
	if err := v.checkPassword(ctx, currentPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return v.Store.SetAdminPasswordHash(ctx, string(hash))
}

func (v AdminVerifier) checkPassword(ctx context.Context, password string) error {
	hash, err := v.Store.AdminPasswordHash(ctx)
	if err != nil {
		return err
	}
	if hash != nil {
		if bcrypt.CompareHashAndPassword([]byte(*hash), []byte(password)) != nil {
			return ErrInvalidCredentials
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(v.DefaultPassword)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

type AuthService struct {
	Config   config.Config
	Verifier ports.CredentialVerifier
	Logger   *slog.Logger
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	Email        string
	ExpiresAt    time.Time
}

type LoginInput struct {
	Email    string
	Password string
}

type RefreshInput struct {
	RefreshToken string
}

func (s AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := s.Verifier.Verify(ctx, in.Email, in.Password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.Logger.Warn("login rejected", "email", in.Email)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return s.issueTokens(strings.ToLower(in.Email))
}

func (s AuthService) Refresh(ctx context.Context, in RefreshInput) (*AuthResult, error) {
	token, err := jwt.Parse(in.RefreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.Config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		s.Logger.Warn("refresh rejected", "reason", "invalid token", "err", err)
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["token_type"] != "refresh" {
		s.Logger.Warn("refresh rejected", "reason", "wrong token type")
		return nil, ErrInvalidToken
	}
	email, ok := claims["sub"].(string)
	if !ok || email == "" {
		s.Logger.Warn("refresh rejected", "reason", "missing subject")
		return nil, ErrInvalidToken
	}
	return s.issueTokens(email)
}

func (s AuthService) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return s.Verifier.ChangePassword(ctx, currentPassword, newPassword)
}

func (s AuthService) issueTokens(email string) (*AuthResult, error) {
	now := time.Now()
	accessExp := now.Add(s.Config.AccessTokenTTL)
	refreshExp := now.Add(s.Config.RefreshTokenTTL)

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        email,
		"token_type": "access",
		"jti":        uuid.NewString(),
		"exp":        accessExp.Unix(),
		"iat":        now.Unix(),
	}).SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return nil, err
	}

	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        email,
		"token_type": "refresh",
		"jti":        uuid.NewString(),
		"exp":        refreshExp.Unix(),
		"iat":        now.Unix(),
	}).SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		Email:        email,
		ExpiresAt:    accessExp,
	}, nil
}
