package memory

import (
	"context"
	"strings"
	"time"

	"hourglass/internal/models"
	"hourglass/internal/repository"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user models.User) (models.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, user.Email) {
			return models.User{}, repository.ErrDuplicateEmail
		}
	}
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.data.users = append(r.s.data.users, user)
	return user, nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (models.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.data.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (models.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.data.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func matchUser(u models.User, filter repository.UserFilter) bool {
	if filter.Role != nil && u.Role != *filter.Role {
		return false
	}
	if filter.Status != nil && u.Status != *filter.Status {
		return false
	}
	return true
}

func (r *userRepo) List(_ context.Context, filter repository.UserFilter) ([]models.User, error) {
	defer r.s.lock()()
	var users []models.User
	for _, u := range r.s.data.users {
		if matchUser(u, filter) {
			users = append(users, u)
		}
	}
	return newestFirst(users, func(u models.User) time.Time { return u.CreatedAt }), nil
}

func (r *userRepo) Count(_ context.Context, filter repository.UserFilter) (int, error) {
	defer r.s.lock()()
	count := 0
	for _, u := range r.s.data.users {
		if matchUser(u, filter) {
			count++
		}
	}
	return count, nil
}

func (r *userRepo) Update(_ context.Context, id string, patch models.UserPatch) (models.User, error) {
	defer r.s.lock()()
	idx := -1
	for i, u := range r.s.data.users {
		if u.ID == id {
			idx = i
			continue
		}
		if patch.Email != nil && strings.EqualFold(u.Email, *patch.Email) {
			return models.User{}, repository.ErrDuplicateEmail
		}
	}
	if idx < 0 {
		return models.User{}, repository.ErrNotFound
	}

	u := r.s.data.users[idx]
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = patch.PasswordHash
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.Status != nil {
		u.Status = *patch.Status
	}
	if patch.DefaultProject != nil {
		u.DefaultProject = patch.DefaultProject
	}
	if patch.DefaultTask != nil {
		u.DefaultTask = patch.DefaultTask
	}
	u.UpdatedAt = r.s.now()
	r.s.data.users[idx] = u
	return u, nil
}
