package repository

import (
	"context"
	"time"

	"hourglass/internal/models"
)

const outboxColumns = `id, recipient_id, type, title, message, related_timesheet_id, attempts, last_error, delivered_at, created_at`

type OutboxRepo struct {
	db querier
}

func scanOutbox(row scanner) (models.OutboxMessage, error) {
	var m models.OutboxMessage
	err := row.Scan(
		&m.ID,
		&m.RecipientID,
		&m.Type,
		&m.Title,
		&m.Message,
		&m.RelatedTimesheetID,
		&m.Attempts,
		&m.LastError,
		&m.DeliveredAt,
		&m.CreatedAt,
	)
	return m, err
}

func (r *OutboxRepo) Enqueue(ctx context.Context, msg models.OutboxMessage) error {
	const query = `
		INSERT INTO notification_outbox (id, recipient_id, type, title, message, related_timesheet_id, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7)
	`
	_, err := r.db.Exec(ctx, query,
		msg.ID,
		msg.RecipientID,
		msg.Type,
		msg.Title,
		msg.Message,
		msg.RelatedTimesheetID,
		msg.CreatedAt,
	)
	return err
}

func (r *OutboxRepo) Claim(ctx context.Context, id string) (models.OutboxMessage, error) {
	const query = `SELECT ` + outboxColumns + ` FROM notification_outbox WHERE id = $1 FOR UPDATE`

	m, err := scanOutbox(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return models.OutboxMessage{}, notFound(err)
	}
	return m, nil
}

func (r *OutboxRepo) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.db.Exec(ctx, `UPDATE notification_outbox SET delivered_at = $2, last_error = NULL WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error {
	const query = `
		UPDATE notification_outbox
		SET attempts = attempts + 1,
		    last_error = $2
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id, reason)
	return err
}

func (r *OutboxRepo) ListPending(ctx context.Context, limit int) ([]models.OutboxMessage, error) {
	w := &whereBuilder{clauses: []string{"delivered_at IS NULL"}}
	query := `SELECT ` + outboxColumns + ` FROM notification_outbox` + w.String() + ` ORDER BY created_at ASC`
	query += w.limit(limit)

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.OutboxMessage
	for rows.Next() {
		m, err := scanOutbox(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
