package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hourglass/internal/models"
	"hourglass/internal/repository"
	"hourglass/internal/repository/memory"
)

var errInsert = errors.New("notifications table unavailable")

// flakyStore fails notification inserts while failing is set.
type flakyStore struct {
	repository.Store
	failing *bool
}

func (s flakyStore) Notifications() repository.NotificationRepository {
	return flakyNotifications{NotificationRepository: s.Store.Notifications(), failing: s.failing}
}

func (s flakyStore) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.WithinTx(ctx, func(tx repository.Store) error {
		return fn(flakyStore{Store: tx, failing: s.failing})
	})
}

type flakyNotifications struct {
	repository.NotificationRepository
	failing *bool
}

func (n flakyNotifications) Insert(ctx context.Context, notification models.Notification) (bool, error) {
	if *n.failing {
		return false, errInsert
	}
	return n.NotificationRepository.Insert(ctx, notification)
}

func enqueue(t *testing.T, store repository.Store, intents ...Intent) []string {
	t.Helper()
	var queued []string
	err := store.WithinTx(context.Background(), func(tx repository.Store) error {
		var err error
		queued, err = Enqueue(context.Background(), tx, time.Now().UTC(), intents...)
		return err
	})
	require.NoError(t, err)
	return queued
}

func approved(recipient string) Intent {
	return Intent{
		RecipientID: recipient,
		Type:        models.NotificationTimesheetApproved,
		Title:       "Timesheet Approved",
		Message:     "Your timesheet for 2024-01-01 has been approved",
	}
}

func TestKickDeliversInlineOnce(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	d := NewDispatcher(store, nil, zerolog.Nop())

	queued := enqueue(t, store, approved("emp-1"))
	d.Kick(ctx, queued)
	d.Kick(ctx, queued)

	list, err := store.Notifications().List(ctx, repository.NotificationFilter{UserID: "emp-1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, queued[0], list[0].ID)
	assert.Equal(t, "Timesheet Approved", list[0].Title)
	assert.False(t, list[0].Read)

	pending, err := store.Outbox().ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestFailedDeliveryStaysPendingUntilSweep(t *testing.T) {
	ctx := context.Background()
	failing := true
	store := flakyStore{Store: memory.NewStore(), failing: &failing}
	d := NewDispatcher(store, nil, zerolog.Nop())

	queued := enqueue(t, store, approved("emp-1"), approved("emp-2"))
	d.Kick(ctx, queued)

	pending, err := store.Outbox().ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, 1, pending[0].Attempts)
	require.NotNil(t, pending[0].LastError)
	assert.Contains(t, *pending[0].LastError, errInsert.Error())

	failing = false
	delivered, err := d.DeliverPending(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)

	count, err := store.Notifications().Count(ctx, repository.NotificationFilter{UserID: "emp-2", UnreadOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeliverUnknownOutboxID(t *testing.T) {
	d := NewDispatcher(memory.NewStore(), nil, zerolog.Nop())
	err := d.Deliver(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestKickPublishesToStream(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := memory.NewStore()
	publisher := NewStreamPublisher(client, "notifications:outbox")
	d := NewDispatcher(store, publisher, zerolog.Nop())

	queued := enqueue(t, store, approved("emp-1"))
	d.Kick(ctx, queued)

	msgs, err := client.XRange(ctx, "notifications:outbox", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, TaskDeliver, msgs[0].Values["type"])
	assert.Equal(t, queued[0], msgs[0].Values["outboxId"])

	// publishing does not deliver; the worker does
	count, err := store.Notifications().Count(ctx, repository.NotificationFilter{UserID: "emp-1"})
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, publisher.EnqueueSweep(ctx))
	msgs, err = client.XRange(ctx, "notifications:outbox", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, TaskSweep, msgs[1].Values["type"])
}
