package service

import (
	"context"

	"github.com/rs/zerolog"

	"hourglass/internal/config"
	"hourglass/internal/models"
	"hourglass/internal/repository"
)

// NotificationService is the read side of notifications. Every call is scoped
// to the caller's own inbox.
type NotificationService struct {
	base
}

func NewNotificationService(store repository.Store, cfg *config.AppConfig, log zerolog.Logger, opts ...Option) *NotificationService {
	return &NotificationService{base: newBase(store, cfg, log, opts...)}
}

func (s *NotificationService) List(ctx context.Context, caller models.User, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = s.cfg.App.NotificationDefaultLimit
	}
	if limit <= 0 || limit > s.listLimit() {
		limit = s.listLimit()
	}
	return s.store.Notifications().List(ctx, repository.NotificationFilter{
		UserID:     caller.ID,
		UnreadOnly: unreadOnly,
		Limit:      limit,
	})
}

func (s *NotificationService) UnreadCount(ctx context.Context, caller models.User) (int, error) {
	return s.store.Notifications().Count(ctx, repository.NotificationFilter{UserID: caller.ID, UnreadOnly: true})
}

func (s *NotificationService) MarkRead(ctx context.Context, caller models.User, id string) error {
	return notFound(s.store.Notifications().MarkRead(ctx, caller.ID, id), "notification")
}

func (s *NotificationService) MarkAllRead(ctx context.Context, caller models.User) (int, error) {
	return s.store.Notifications().MarkAllRead(ctx, caller.ID)
}
