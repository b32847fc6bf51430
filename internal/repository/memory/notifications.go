package memory

import (
	"context"
	"sort"
	"time"

	"hourglass/internal/models"
	"hourglass/internal/repository"
)

type notificationRepo struct{ s *Store }

func (r *notificationRepo) Insert(_ context.Context, notification models.Notification) (bool, error) {
	defer r.s.lock()()
	for _, n := range r.s.data.notifications {
		if n.ID == notification.ID {
			return false, nil
		}
	}
	notification.Read = false
	r.s.data.notifications = append(r.s.data.notifications, notification)
	return true, nil
}

func matchNotification(n models.Notification, filter repository.NotificationFilter) bool {
	return n.UserID == filter.UserID && (!filter.UnreadOnly || !n.Read)
}

func (r *notificationRepo) List(_ context.Context, filter repository.NotificationFilter) ([]models.Notification, error) {
	defer r.s.lock()()
	var notifications []models.Notification
	for _, n := range r.s.data.notifications {
		if matchNotification(n, filter) {
			notifications = append(notifications, n)
		}
	}
	notifications = newestFirst(notifications, func(n models.Notification) time.Time { return n.CreatedAt })
	return limit(notifications, filter.Limit), nil
}

func (r *notificationRepo) Count(_ context.Context, filter repository.NotificationFilter) (int, error) {
	defer r.s.lock()()
	count := 0
	for _, n := range r.s.data.notifications {
		if matchNotification(n, filter) {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepo) MarkRead(_ context.Context, userID string, id string) error {
	defer r.s.lock()()
	for i, n := range r.s.data.notifications {
		if n.ID == id && n.UserID == userID {
			r.s.data.notifications[i].Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *notificationRepo) MarkAllRead(_ context.Context, userID string) (int, error) {
	defer r.s.lock()()
	updated := 0
	for i, n := range r.s.data.notifications {
		if n.UserID == userID && !n.Read {
			r.s.data.notifications[i].Read = true
			updated++
		}
	}
	return updated, nil
}

type outboxRepo struct{ s *Store }

func (r *outboxRepo) Enqueue(_ context.Context, msg models.OutboxMessage) error {
	defer r.s.lock()()
	msg.Attempts = 0
	msg.DeliveredAt = nil
	r.s.data.outbox = append(r.s.data.outbox, msg)
	return nil
}

func (r *outboxRepo) Claim(_ context.Context, id string) (models.OutboxMessage, error) {
	defer r.s.lock()()
	for _, m := range r.s.data.outbox {
		if m.ID == id {
			return m, nil
		}
	}
	return models.OutboxMessage{}, repository.ErrNotFound
}

func (r *outboxRepo) MarkDelivered(_ context.Context, id string, at time.Time) error {
	defer r.s.lock()()
	for i, m := range r.s.data.outbox {
		if m.ID == id {
			m.DeliveredAt = &at
			m.LastError = nil
			r.s.data.outbox[i] = m
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *outboxRepo) MarkFailed(_ context.Context, id string, reason string) error {
	defer r.s.lock()()
	for i, m := range r.s.data.outbox {
		if m.ID == id {
			m.Attempts++
			m.LastError = &reason
			r.s.data.outbox[i] = m
			return nil
		}
	}
	return nil
}

func (r *outboxRepo) ListPending(_ context.Context, n int) ([]models.OutboxMessage, error) {
	defer r.s.lock()()
	var pending []models.OutboxMessage
	for _, m := range r.s.data.outbox {
		if m.DeliveredAt == nil {
			pending = append(pending, m)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	return limit(pending, n), nil
}
