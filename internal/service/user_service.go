package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"hourglass/internal/access"
	"hourglass/internal/config"
	"hourglass/internal/ids"
	"hourglass/internal/models"
	"hourglass/internal/repository"
	"hourglass/internal/security"
)

type UserService struct {
	base
}

func NewUserService(store repository.Store, cfg *config.AppConfig, log zerolog.Logger, opts ...Option) *UserService {
	return &UserService{base: newBase(store, cfg, log, opts...)}
}

type CreateUserInput struct {
	Email          string
	Name           string
	Password       string
	Role           models.UserRole
	Status         models.UserStatus
	DefaultProject *string
	DefaultTask    *string
}

type UpdateUserInput struct {
	Name           *string
	Email          *string
	Password       *string
	Role           *models.UserRole
	Status         *models.UserStatus
	DefaultProject *string
	DefaultTask    *string
}

// ListEmployees returns every account, admins included, newest first.
func (s *UserService) ListEmployees(ctx context.Context, caller models.User) ([]models.User, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return nil, fmt.Errorf("%w: admin access required", err)
	}
	return s.store.Users().List(ctx, repository.UserFilter{})
}

func (s *UserService) CreateEmployee(ctx context.Context, caller models.User, input CreateUserInput) (models.User, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return models.User{}, fmt.Errorf("%w: admin access required", err)
	}

	if input.Role == "" {
		input.Role = models.UserRoleEmployee
	}
	if input.Status == "" {
		input.Status = models.UserStatusActive
	}
	if !input.Role.Valid() {
		return models.User{}, invalidf("unknown role %q", input.Role)
	}
	if !input.Status.Valid() {
		return models.User{}, invalidf("unknown status %q", input.Status)
	}
	if input.Password == "" {
		return models.User{}, invalidf("password is required")
	}

	digest, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.store.Users().Create(ctx, models.User{
		ID:             ids.New(),
		Email:          normalizeEmail(input.Email),
		Name:           input.Name,
		PasswordHash:   digest,
		Role:           input.Role,
		Status:         input.Status,
		DefaultProject: input.DefaultProject,
		DefaultTask:    input.DefaultTask,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return models.User{}, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return models.User{}, err
	}

	s.log.Info().Str("user_id", user.ID).Str("created_by", caller.ID).Msg("employee created")
	return user, nil
}

func (s *UserService) UpdateEmployee(ctx context.Context, caller models.User, id string, input UpdateUserInput) (models.User, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return models.User{}, fmt.Errorf("%w: admin access required", err)
	}

	patch := models.UserPatch{
		Name:           input.Name,
		Role:           input.Role,
		Status:         input.Status,
		DefaultProject: input.DefaultProject,
		DefaultTask:    input.DefaultTask,
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		patch.Email = &email
	}
	if input.Role != nil && !input.Role.Valid() {
		return models.User{}, invalidf("unknown role %q", *input.Role)
	}
	if input.Status != nil && !input.Status.Valid() {
		return models.User{}, invalidf("unknown status %q", *input.Status)
	}
	if input.Password != nil {
		if *input.Password == "" {
			return models.User{}, invalidf("password must not be empty")
		}
		digest, err := security.HashPassword(*input.Password)
		if err != nil {
			return models.User{}, err
		}
		patch.PasswordHash = digest
	}

	user, err := s.store.Users().Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return models.User{}, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return models.User{}, notFound(err, "user")
	}
	return user, nil
}
