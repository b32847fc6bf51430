package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hourglass/internal/database"
	"hourglass/internal/ids"
	"hourglass/internal/models"
	"hourglass/internal/repository"
)

// postgresStore connects to HOURGLASS_TEST_DSN and applies the migrations.
// Each test works on a fresh user id so runs never collide.
func postgresStore(t *testing.T) *repository.PostgresStore {
	t.Helper()
	dsn := os.Getenv("HOURGLASS_TEST_DSN")
	if dsn == "" {
		t.Skip("HOURGLASS_TEST_DSN not set")
	}
	require.NoError(t, database.Migrate(dsn))

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return repository.NewPostgresStore(pool)
}

func newSession(userID string) models.TimerSession {
	return models.TimerSession{
		ID:        ids.New(),
		UserID:    userID,
		ProjectID: "p1",
		TaskID:    "t1",
		StartTime: time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC),
		Date:      "2024-03-13",
	}
}

func TestPostgresOneActiveTimerPerUser(t *testing.T) {
	store := postgresStore(t)
	ctx := context.Background()
	userID := ids.New()

	first, err := store.TimerSessions().CreateActive(ctx, newSession(userID))
	require.NoError(t, err)
	assert.True(t, first.IsActive)

	_, err = store.TimerSessions().CreateActive(ctx, newSession(userID))
	assert.ErrorIs(t, err, repository.ErrActiveTimerExists)

	_, err = store.TimerSessions().Deactivate(ctx, first.ID)
	require.NoError(t, err)
	_, err = store.TimerSessions().Deactivate(ctx, first.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	second, err := store.TimerSessions().CreateActive(ctx, newSession(userID))
	require.NoError(t, err)
	_, err = store.TimerSessions().Deactivate(ctx, second.ID)
	require.NoError(t, err)
}

func TestPostgresStopRollsBackTogether(t *testing.T) {
	store := postgresStore(t)
	ctx := context.Background()
	userID := ids.New()
	boom := errors.New("boom")

	session, err := store.TimerSessions().CreateActive(ctx, newSession(userID))
	require.NoError(t, err)

	err = store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.TimerSessions().Deactivate(ctx, session.ID); err != nil {
			return err
		}
		end := session.StartTime.Add(time.Hour)
		if _, err := tx.TimeEntries().Create(ctx, models.TimeEntry{
			ID:        ids.New(),
			UserID:    userID,
			ProjectID: session.ProjectID,
			TaskID:    session.TaskID,
			StartTime: session.StartTime,
			EndTime:   &end,
			Duration:  3600,
			EntryType: models.EntryTypeTimer,
			Date:      session.Date,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	active, err := store.TimerSessions().GetActive(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, active.ID)

	entries, err := store.TimeEntries().List(ctx, repository.TimeEntryFilter{UserID: userID})
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = store.TimerSessions().Deactivate(ctx, session.ID)
	require.NoError(t, err)
}

func TestPostgresTimesheetSubmitLocks(t *testing.T) {
	store := postgresStore(t)
	ctx := context.Background()
	userID := ids.New()
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

	sheet := func(hours float64) models.Timesheet {
		return models.Timesheet{
			ID:          ids.New(),
			UserID:      userID,
			WeekStart:   "2024-03-11",
			WeekEnd:     "2024-03-17",
			TotalHours:  hours,
			Status:      models.TimesheetStatusSubmitted,
			SubmittedAt: &now,
		}
	}

	first, err := store.Timesheets().Submit(ctx, sheet(1))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", first.WeekStart)

	_, err = store.Timesheets().Submit(ctx, sheet(2))
	assert.ErrorIs(t, err, repository.ErrTimesheetLocked)

	comment := "missing Friday"
	_, err = store.Timesheets().Review(ctx, first.ID, models.TimesheetStatusDenied, now, "admin", &comment)
	require.NoError(t, err)

	again, err := store.Timesheets().Submit(ctx, sheet(2.5))
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, models.TimesheetStatusSubmitted, again.Status)
	assert.Equal(t, 2.5, again.TotalHours)
	require.NotNil(t, again.AdminComment)
	assert.Equal(t, comment, *again.AdminComment)

	_, err = store.Timesheets().Review(ctx, first.ID, models.TimesheetStatusApproved, now, "admin", nil)
	require.NoError(t, err)
	_, err = store.Timesheets().Submit(ctx, sheet(3))
	assert.ErrorIs(t, err, repository.ErrTimesheetLocked)
}
