package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"hourglass/internal/config"
	"hourglass/internal/ids"
	"hourglass/internal/models"
	"hourglass/internal/repository"
	"hourglass/internal/security"
)

type AuthService struct {
	base
}

func NewAuthService(store repository.Store, cfg *config.AppConfig, log zerolog.Logger, opts ...Option) *AuthService {
	return &AuthService{base: newBase(store, cfg, log, opts...)}
}

type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login verifies the password before looking at the account status.
func (s *AuthService) Login(ctx context.Context, email string, password string) (AuthResult, error) {
	user, err := s.store.Users().FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResult{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return AuthResult{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash, s.cfg.Security.AllowLegacyBcrypt)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("password verification failed")
	}
	if !ok {
		return AuthResult{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	if user.Status == models.UserStatusInactive {
		return AuthResult{}, fmt.Errorf("%w: account is inactive, contact an administrator", ErrForbidden)
	}

	if security.IsLegacyHash(user.PasswordHash) {
		s.upgradeHash(ctx, user.ID, password)
	}

	token, err := security.GenerateAccessToken(s.cfg.Security.JWTSecret, user.ID, string(user.Role), s.cfg.Security.JWTTTL)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, User: user}, nil
}

// upgradeHash rewrites a legacy bcrypt digest as argon2id after a successful login.
func (s *AuthService) upgradeHash(ctx context.Context, userID string, password string) {
	digest, err := security.HashPassword(password)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("rehash legacy password failed")
		return
	}
	if _, err := s.store.Users().Update(ctx, userID, models.UserPatch{PasswordHash: digest}); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("store upgraded password hash failed")
	}
}

// Authenticate resolves a bearer token to an active user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.User, error) {
	if token == "" {
		return models.User{}, fmt.Errorf("%w: missing token", ErrUnauthorized)
	}

	claims, err := security.ParseAccessToken(token, s.cfg.Security.JWTSecret)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}

	user, err := s.store.Users().GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.User{}, fmt.Errorf("%w: user not found", ErrUnauthorized)
		}
		return models.User{}, err
	}
	if user.Status == models.UserStatusInactive {
		return models.User{}, fmt.Errorf("%w: account is inactive", ErrForbidden)
	}
	return user, nil
}

// Bootstrap creates the configured administrator when no admin exists yet.
// It reports whether an account was created.
func (s *AuthService) Bootstrap(ctx context.Context) (bool, error) {
	cfg := s.cfg.Bootstrap
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return false, nil
	}

	role := models.UserRoleAdmin
	admins, err := s.store.Users().Count(ctx, repository.UserFilter{Role: &role})
	if err != nil {
		return false, err
	}
	if admins > 0 {
		return false, nil
	}

	digest, err := security.HashPassword(cfg.AdminPassword)
	if err != nil {
		return false, err
	}

	name := cfg.AdminName
	if name == "" {
		name = "Administrator"
	}
	user, err := s.store.Users().Create(ctx, models.User{
		ID:           ids.New(),
		Email:        normalizeEmail(cfg.AdminEmail),
		Name:         name,
		PasswordHash: digest,
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return false, fmt.Errorf("%w: bootstrap email %s belongs to a non-admin user", ErrConflict, cfg.AdminEmail)
		}
		return false, err
	}

	s.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("bootstrap admin created")
	return true, nil
}
