package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hourglass/internal/ids"
	"hourglass/internal/models"
	"hourglass/internal/repository"
)

func TestTimerStopRecordsWholeSeconds(t *testing.T) {
	f := newFixture(t)
	svc := f.timers()
	ctx := context.Background()

	f.now = f.at("2024-03-13T09:00:00Z")
	session, err := svc.Start(ctx, f.employee, f.project.ID, f.task.ID)
	require.NoError(t, err)
	assert.True(t, session.IsActive)
	assert.Equal(t, "2024-03-13", session.Date)

	f.now = f.at("2024-03-13T10:01:01.700Z")
	entry, err := svc.Stop(ctx, f.employee, ptr("standup"))
	require.NoError(t, err)
	assert.Equal(t, int64(3661), entry.Duration)
	assert.Equal(t, models.EntryTypeTimer, entry.EntryType)
	assert.Equal(t, "2024-03-13", entry.Date)
	assert.Equal(t, session.StartTime, entry.StartTime)
	require.NotNil(t, entry.Notes)
	assert.Equal(t, "standup", *entry.Notes)

	active, err := svc.Active(ctx, f.employee)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestTimerSecondStartConflicts(t *testing.T) {
	f := newFixture(t)
	svc := f.timers()
	ctx := context.Background()

	_, err := svc.Start(ctx, f.employee, f.project.ID, f.task.ID)
	require.NoError(t, err)
	_, err = svc.Start(ctx, f.employee, f.project.ID, f.task.ID)
	assert.ErrorIs(t, err, ErrConflict)

	// other users are independent
	_, err = svc.Start(ctx, f.other, f.project.ID, f.task.ID)
	assert.NoError(t, err)

	count, err := f.store.TimerSessions().CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestTimerStopWithoutActiveSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.timers().Stop(context.Background(), f.employee, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.timers().Heartbeat(context.Background(), f.employee)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTimerStopTwiceCreatesOneEntry(t *testing.T) {
	f := newFixture(t)
	svc := f.timers()
	ctx := context.Background()

	_, err := svc.Start(ctx, f.employee, f.project.ID, f.task.ID)
	require.NoError(t, err)
	f.now = f.now.Add(time.Minute)
	_, err = svc.Stop(ctx, f.employee, nil)
	require.NoError(t, err)
	_, err = svc.Stop(ctx, f.employee, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	entries, err := f.store.TimeEntries().List(ctx, repository.TimeEntryFilter{UserID: f.employee.ID})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestTimerHeartbeatMovesLastHeartbeat(t *testing.T) {
	f := newFixture(t)
	svc := f.timers()
	ctx := context.Background()

	started, err := svc.Start(ctx, f.employee, f.project.ID, f.task.ID)
	require.NoError(t, err)

	f.now = f.now.Add(30 * time.Second)
	session, err := svc.Heartbeat(ctx, f.employee)
	require.NoError(t, err)
	assert.Equal(t, started.ID, session.ID)
	assert.Equal(t, f.now, session.LastHeartbeat)
	assert.Equal(t, started.StartTime, session.StartTime)
}

func TestTimerStartValidatesProjectAndTask(t *testing.T) {
	f := newFixture(t)
	svc := f.timers()
	ctx := context.Background()

	_, err := svc.Start(ctx, f.employee, "", f.task.ID)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Start(ctx, f.employee, "missing", f.task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	otherProject, err := f.store.Projects().Create(ctx, models.Project{ID: ids.New(), Name: "Gemini", Status: models.CatalogStatusActive})
	require.NoError(t, err)
	_, err = svc.Start(ctx, f.employee, otherProject.ID, f.task.ID)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
