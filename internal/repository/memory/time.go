package memory

import (
	"context"
	"time"

	"hourglass/internal/models"
	"hourglass/internal/repository"
)

type timeEntryRepo struct{ s *Store }

func (r *timeEntryRepo) Create(_ context.Context, entry models.TimeEntry) (models.TimeEntry, error) {
	defer r.s.lock()()
	entry.CreatedAt = r.s.now()
	r.s.data.entries = append(r.s.data.entries, entry)
	return entry, nil
}

func (r *timeEntryRepo) GetByID(_ context.Context, id string) (models.TimeEntry, error) {
	defer r.s.lock()()
	for _, e := range r.s.data.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return models.TimeEntry{}, repository.ErrNotFound
}

func matchEntry(e models.TimeEntry, filter repository.TimeEntryFilter) bool {
	if filter.UserID != "" && e.UserID != filter.UserID {
		return false
	}
	if filter.ProjectID != "" && e.ProjectID != filter.ProjectID {
		return false
	}
	// YYYY-MM-DD strings order the same way as the days they name.
	if filter.From != "" && e.Date < filter.From {
		return false
	}
	if filter.To != "" && e.Date > filter.To {
		return false
	}
	return true
}

func (r *timeEntryRepo) List(_ context.Context, filter repository.TimeEntryFilter) ([]models.TimeEntry, error) {
	defer r.s.lock()()
	var entries []models.TimeEntry
	for _, e := range r.s.data.entries {
		if matchEntry(e, filter) {
			entries = append(entries, e)
		}
	}
	entries = newestFirst(entries, func(e models.TimeEntry) time.Time { return e.StartTime })
	return limit(entries, filter.Limit), nil
}

func (r *timeEntryRepo) SumDuration(_ context.Context, filter repository.TimeEntryFilter) (int64, error) {
	defer r.s.lock()()
	var total int64
	for _, e := range r.s.data.entries {
		if matchEntry(e, filter) {
			total += e.Duration
		}
	}
	return total, nil
}

func (r *timeEntryRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock()()
	for i, e := range r.s.data.entries {
		if e.ID == id {
			r.s.data.entries = append(r.s.data.entries[:i:i], r.s.data.entries[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type timerSessionRepo struct{ s *Store }

func (r *timerSessionRepo) CreateActive(_ context.Context, session models.TimerSession) (models.TimerSession, error) {
	defer r.s.lock()()
	for _, existing := range r.s.data.sessions {
		if existing.UserID == session.UserID && existing.IsActive {
			return models.TimerSession{}, repository.ErrActiveTimerExists
		}
	}
	session.LastHeartbeat = session.StartTime
	session.IsActive = true
	r.s.data.sessions = append(r.s.data.sessions, session)
	return session, nil
}

func (r *timerSessionRepo) GetActive(_ context.Context, userID string) (models.TimerSession, error) {
	defer r.s.lock()()
	for _, session := range r.s.data.sessions {
		if session.UserID == userID && session.IsActive {
			return session, nil
		}
	}
	return models.TimerSession{}, repository.ErrNotFound
}

func (r *timerSessionRepo) Touch(_ context.Context, id string, at time.Time) (models.TimerSession, error) {
	defer r.s.lock()()
	for i, session := range r.s.data.sessions {
		if session.ID == id && session.IsActive {
			session.LastHeartbeat = at
			r.s.data.sessions[i] = session
			return session, nil
		}
	}
	return models.TimerSession{}, repository.ErrNotFound
}

func (r *timerSessionRepo) Deactivate(_ context.Context, id string) (models.TimerSession, error) {
	defer r.s.lock()()
	for i, session := range r.s.data.sessions {
		if session.ID == id && session.IsActive {
			session.IsActive = false
			r.s.data.sessions[i] = session
			return session, nil
		}
	}
	return models.TimerSession{}, repository.ErrNotFound
}

func (r *timerSessionRepo) CountActive(context.Context) (int, error) {
	defer r.s.lock()()
	count := 0
	for _, session := range r.s.data.sessions {
		if session.IsActive {
			count++
		}
	}
	return count, nil
}
