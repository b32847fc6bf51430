package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"hourglass/internal/config"
	"hourglass/internal/ids"
	"hourglass/internal/models"
	"hourglass/internal/repository"
)

// TimerService runs the per-user timer: at most one active session, and
// stopping a session turns it into a timer entry in the same transaction.
type TimerService struct {
	base
}

func NewTimerService(store repository.Store, cfg *config.AppConfig, log zerolog.Logger, opts ...Option) *TimerService {
	return &TimerService{base: newBase(store, cfg, log, opts...)}
}

func (s *TimerService) Start(ctx context.Context, caller models.User, projectID string, taskID string) (models.TimerSession, error) {
	if err := checkProjectTask(ctx, s.store, projectID, taskID); err != nil {
		return models.TimerSession{}, err
	}

	now := s.clock()
	session, err := s.store.TimerSessions().CreateActive(ctx, models.TimerSession{
		ID:        ids.New(),
		UserID:    caller.ID,
		ProjectID: projectID,
		TaskID:    taskID,
		StartTime: now,
		Date:      s.day(now),
	})
	if err != nil {
		if errors.Is(err, repository.ErrActiveTimerExists) {
			return models.TimerSession{}, fmt.Errorf("%w: timer already running, stop the current timer first", ErrConflict)
		}
		return models.TimerSession{}, err
	}

	s.log.Debug().Str("user_id", caller.ID).Str("session_id", session.ID).Msg("timer started")
	return session, nil
}

func (s *TimerService) Heartbeat(ctx context.Context, caller models.User) (models.TimerSession, error) {
	session, err := s.store.TimerSessions().GetActive(ctx, caller.ID)
	if err != nil {
		return models.TimerSession{}, notFound(err, "active timer")
	}
	session, err = s.store.TimerSessions().Touch(ctx, session.ID, s.clock())
	if err != nil {
		return models.TimerSession{}, notFound(err, "active timer")
	}
	return session, nil
}

// Stop closes the active session. Duration is whole seconds since start, and
// the entry is dated with the session's start day.
func (s *TimerService) Stop(ctx context.Context, caller models.User, notes *string) (models.TimeEntry, error) {
	var entry models.TimeEntry
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		session, err := tx.TimerSessions().GetActive(ctx, caller.ID)
		if err != nil {
			return err
		}
		// a concurrent stop that got here first leaves nothing to deactivate
		if _, err := tx.TimerSessions().Deactivate(ctx, session.ID); err != nil {
			return err
		}

		end := s.clock()
		if end.Before(session.StartTime) {
			end = session.StartTime
		}
		duration := int64(end.Sub(session.StartTime).Seconds())

		entry, err = tx.TimeEntries().Create(ctx, models.TimeEntry{
			ID:        ids.New(),
			UserID:    caller.ID,
			ProjectID: session.ProjectID,
			TaskID:    session.TaskID,
			StartTime: session.StartTime,
			EndTime:   &end,
			Duration:  duration,
			EntryType: models.EntryTypeTimer,
			Date:      session.Date,
			Notes:     notes,
		})
		return err
	})
	if err != nil {
		return models.TimeEntry{}, notFound(err, "active timer")
	}

	s.log.Debug().Str("user_id", caller.ID).Str("entry_id", entry.ID).Int64("duration", entry.Duration).Msg("timer stopped")
	return entry, nil
}

// Active returns the caller's running session, or nil when there is none.
func (s *TimerService) Active(ctx context.Context, caller models.User) (*models.TimerSession, error) {
	session, err := s.store.TimerSessions().GetActive(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// checkProjectTask rejects a project/task pair where the task belongs elsewhere.
func checkProjectTask(ctx context.Context, store repository.Store, projectID string, taskID string) error {
	if projectID == "" || taskID == "" {
		return invalidf("project_id and task_id are required")
	}
	if _, err := store.Projects().GetByID(ctx, projectID); err != nil {
		return notFound(err, "project")
	}
	task, err := store.Tasks().GetByID(ctx, taskID)
	if err != nil {
		return notFound(err, "task")
	}
	if task.ProjectID != projectID {
		return invalidf("task %s does not belong to project %s", taskID, projectID)
	}
	return nil
}
