package repository

import (
	"context"

	"hourglass/internal/models"
)

const notificationColumns = `id, user_id, type, title, message, read, related_timesheet_id, created_at`

type NotificationRepo struct {
	db querier
}

func scanNotification(row scanner) (models.Notification, error) {
	var n models.Notification
	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Type,
		&n.Title,
		&n.Message,
		&n.Read,
		&n.RelatedTimesheetID,
		&n.CreatedAt,
	)
	return n, err
}

func (r *NotificationRepo) Insert(ctx context.Context, notification models.Notification) (bool, error) {
	const query = `
		INSERT INTO notifications (id, user_id, type, title, message, read, related_timesheet_id, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	cmd, err := r.db.Exec(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Type,
		notification.Title,
		notification.Message,
		notification.RelatedTimesheetID,
		notification.CreatedAt,
	)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func notificationWhere(filter NotificationFilter) *whereBuilder {
	w := &whereBuilder{}
	w.add("user_id = $%d", filter.UserID)
	if filter.UnreadOnly {
		w.add("read = $%d", false)
	}
	return w
}

func (r *NotificationRepo) List(ctx context.Context, filter NotificationFilter) ([]models.Notification, error) {
	w := notificationWhere(filter)
	query := `SELECT ` + notificationColumns + ` FROM notifications` + w.String() + ` ORDER BY created_at DESC`
	query += w.limit(filter.Limit)

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepo) Count(ctx context.Context, filter NotificationFilter) (int, error) {
	w := notificationWhere(filter)
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications`+w.String(), w.args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, userID string, id string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) (int, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND NOT read`, userID)
	if err != nil {
		return 0, err
	}
	return int(cmd.RowsAffected()), nil
}
