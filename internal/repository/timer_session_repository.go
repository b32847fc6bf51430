package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"hourglass/internal/models"
)

const timerSessionColumns = `id, user_id, project_id, task_id, start_time, last_heartbeat, is_active, date::text`

type TimerSessionRepo struct {
	db querier
}

func scanTimerSession(row scanner) (models.TimerSession, error) {
	var s models.TimerSession
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.ProjectID,
		&s.TaskID,
		&s.StartTime,
		&s.LastHeartbeat,
		&s.IsActive,
		&s.Date,
	)
	return s, err
}

func (r *TimerSessionRepo) CreateActive(ctx context.Context, session models.TimerSession) (models.TimerSession, error) {
	const query = `
		INSERT INTO timer_sessions (
			id, user_id, project_id, task_id, start_time, last_heartbeat, is_active, date
		) VALUES (
			$1, $2, $3, $4, $5, $5, TRUE, $6::date
		)
		ON CONFLICT (user_id) WHERE is_active DO NOTHING
		RETURNING ` + timerSessionColumns

	created, err := scanTimerSession(r.db.QueryRow(ctx, query,
		session.ID,
		session.UserID,
		session.ProjectID,
		session.TaskID,
		session.StartTime,
		session.Date,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.TimerSession{}, ErrActiveTimerExists
		}
		return models.TimerSession{}, err
	}
	return created, nil
}

func (r *TimerSessionRepo) GetActive(ctx context.Context, userID string) (models.TimerSession, error) {
	const query = `SELECT ` + timerSessionColumns + ` FROM timer_sessions WHERE user_id = $1 AND is_active`

	s, err := scanTimerSession(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		return models.TimerSession{}, notFound(err)
	}
	return s, nil
}

func (r *TimerSessionRepo) Touch(ctx context.Context, id string, at time.Time) (models.TimerSession, error) {
	const query = `
		UPDATE timer_sessions
		SET last_heartbeat = $2
		WHERE id = $1 AND is_active
		RETURNING ` + timerSessionColumns

	s, err := scanTimerSession(r.db.QueryRow(ctx, query, id, at))
	if err != nil {
		return models.TimerSession{}, notFound(err)
	}
	return s, nil
}

func (r *TimerSessionRepo) Deactivate(ctx context.Context, id string) (models.TimerSession, error) {
	const query = `
		UPDATE timer_sessions
		SET is_active = FALSE
		WHERE id = $1 AND is_active
		RETURNING ` + timerSessionColumns

	s, err := scanTimerSession(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return models.TimerSession{}, notFound(err)
	}
	return s, nil
}

func (r *TimerSessionRepo) CountActive(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM timer_sessions WHERE is_active`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
