package repository

import (
	"context"

	"hourglass/internal/models"
)

const userColumns = `id, email, name, password_hash, role, status, default_project, default_task, created_at, updated_at`

type UserRepo struct {
	db querier
}

func scanUser(row scanner) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
		&user.DefaultProject,
		&user.DefaultTask,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (r *UserRepo) Create(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (
			id, email, name, password_hash, role, status, default_project, default_task, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.DefaultProject,
		user.DefaultTask,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return created, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return models.User{}, notFound(err)
	}
	return user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return models.User{}, notFound(err)
	}
	return user, nil
}

func userWhere(filter UserFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.Role != nil {
		w.add("role = $%d", *filter.Role)
	}
	if filter.Status != nil {
		w.add("status = $%d", *filter.Status)
	}
	return w
}

func (r *UserRepo) List(ctx context.Context, filter UserFilter) ([]models.User, error) {
	w := userWhere(filter)
	query := `SELECT ` + userColumns + ` FROM users` + w.String() + ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepo) Count(ctx context.Context, filter UserFilter) (int, error) {
	w := userWhere(filter)
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`+w.String(), w.args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepo) Update(ctx context.Context, id string, patch models.UserPatch) (models.User, error) {
	const query = `
		UPDATE users
		SET name = COALESCE($2, name),
		    email = COALESCE($3, email),
		    password_hash = COALESCE($4, password_hash),
		    role = COALESCE($5, role),
		    status = COALESCE($6, status),
		    default_project = COALESCE($7, default_project),
		    default_task = COALESCE($8, default_task),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query,
		id,
		patch.Name,
		patch.Email,
		patch.PasswordHash,
		patch.Role,
		patch.Status,
		patch.DefaultProject,
		patch.DefaultTask,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, notFound(err)
	}
	return user, nil
}
