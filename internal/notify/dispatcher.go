// Package notify turns outbox messages written alongside timesheet transitions
// into notification rows. Writing the intent is transactional with the
// transition; delivery is a separate step that may be retried.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"hourglass/internal/ids"
	"hourglass/internal/models"
	"hourglass/internal/repository"
)

// Task types carried on the outbox stream.
const (
	TaskDeliver = "notification.deliver"
	TaskSweep   = "outbox.sweep"
)

type Intent struct {
	RecipientID        string
	Type               models.NotificationType
	Title              string
	Message            string
	RelatedTimesheetID *string
}

// Enqueue writes one outbox message per intent using tx. It must run inside
// the transaction that performs the state change.
func Enqueue(ctx context.Context, tx repository.Store, at time.Time, intents ...Intent) ([]string, error) {
	queued := make([]string, 0, len(intents))
	for _, intent := range intents {
		msg := models.OutboxMessage{
			ID:                 ids.New(),
			RecipientID:        intent.RecipientID,
			Type:               intent.Type,
			Title:              intent.Title,
			Message:            intent.Message,
			RelatedTimesheetID: intent.RelatedTimesheetID,
			CreatedAt:          at,
		}
		if err := tx.Outbox().Enqueue(ctx, msg); err != nil {
			return nil, fmt.Errorf("enqueue notification for %s: %w", intent.RecipientID, err)
		}
		queued = append(queued, msg.ID)
	}
	return queued, nil
}

// Publisher hands outbox ids to an out-of-process deliverer.
type Publisher interface {
	Publish(ctx context.Context, outboxIDs []string) error
}

type Dispatcher struct {
	store     repository.Store
	publisher Publisher
	now       func() time.Time
	log       zerolog.Logger
}

// NewDispatcher builds a dispatcher. With a nil publisher, Kick delivers inline.
func NewDispatcher(store repository.Store, publisher Publisher, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		store:     store,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
		log:       log,
	}
}

// Deliver creates the notification for one outbox message. Delivering an
// already delivered message is a no-op, and the notification shares the
// outbox id so a duplicate insert changes nothing.
func (d *Dispatcher) Deliver(ctx context.Context, outboxID string) error {
	err := d.store.WithinTx(ctx, func(tx repository.Store) error {
		msg, err := tx.Outbox().Claim(ctx, outboxID)
		if err != nil {
			return err
		}
		if msg.DeliveredAt != nil {
			return nil
		}

		if _, err := tx.Notifications().Insert(ctx, models.Notification{
			ID:                 msg.ID,
			UserID:             msg.RecipientID,
			Type:               msg.Type,
			Title:              msg.Title,
			Message:            msg.Message,
			RelatedTimesheetID: msg.RelatedTimesheetID,
			CreatedAt:          msg.CreatedAt,
		}); err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}
		return tx.Outbox().MarkDelivered(ctx, msg.ID, d.now())
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("outbox message %s: %w", outboxID, err)
	}

	if markErr := d.store.Outbox().MarkFailed(ctx, outboxID, err.Error()); markErr != nil {
		d.log.Error().Err(markErr).Str("outbox_id", outboxID).Msg("record delivery failure")
	}
	return err
}

// DeliverPending retries up to limit undelivered messages, oldest first, and
// reports how many were delivered.
func (d *Dispatcher) DeliverPending(ctx context.Context, limit int) (int, error) {
	pending, err := d.store.Outbox().ListPending(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("list pending outbox: %w", err)
	}

	delivered := 0
	var errs []error
	for _, msg := range pending {
		if err := d.Deliver(ctx, msg.ID); err != nil {
			errs = append(errs, err)
			continue
		}
		delivered++
	}
	return delivered, errors.Join(errs...)
}

// Kick is called after the enqueuing transaction commits. Failures are only
// logged; the periodic sweep picks up whatever is left.
func (d *Dispatcher) Kick(ctx context.Context, outboxIDs []string) {
	if len(outboxIDs) == 0 {
		return
	}

	if d.publisher != nil {
		if err := d.publisher.Publish(ctx, outboxIDs); err != nil {
			d.log.Warn().Err(err).Strs("outbox_ids", outboxIDs).Msg("publish outbox ids failed")
		}
		return
	}

	for _, id := range outboxIDs {
		if err := d.Deliver(ctx, id); err != nil {
			d.log.Warn().Err(err).Str("outbox_id", id).Msg("inline notification delivery failed")
		}
	}
}
