// Package memory is an in-process implementation of repository.Store used by
// tests and by the "memory" database driver.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"hourglass/internal/models"
	"hourglass/internal/repository"
)

type state struct {
	users         []models.User
	projects      []models.Project
	tasks         []models.Task
	entries       []models.TimeEntry
	sessions      []models.TimerSession
	timesheets    []models.Timesheet
	notifications []models.Notification
	outbox        []models.OutboxMessage
}

func (s *state) clone() state {
	return state{
		users:         append([]models.User(nil), s.users...),
		projects:      append([]models.Project(nil), s.projects...),
		tasks:         append([]models.Task(nil), s.tasks...),
		entries:       append([]models.TimeEntry(nil), s.entries...),
		sessions:      append([]models.TimerSession(nil), s.sessions...),
		timesheets:    append([]models.Timesheet(nil), s.timesheets...),
		notifications: append([]models.Notification(nil), s.notifications...),
		outbox:        append([]models.OutboxMessage(nil), s.outbox...),
	}
}

// Store keeps every table in slices guarded by one mutex. A transaction holds
// the mutex for its whole duration and restores a snapshot when fn fails.
type Store struct {
	mu   *sync.Mutex
	data *state
	inTx bool
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		mu:   &sync.Mutex{},
		data: &state{},
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Users() repository.UserRepository                 { return &userRepo{s} }
func (s *Store) Projects() repository.ProjectRepository           { return &projectRepo{s} }
func (s *Store) Tasks() repository.TaskRepository                 { return &taskRepo{s} }
func (s *Store) TimeEntries() repository.TimeEntryRepository      { return &timeEntryRepo{s} }
func (s *Store) TimerSessions() repository.TimerSessionRepository { return &timerSessionRepo{s} }
func (s *Store) Timesheets() repository.TimesheetRepository       { return &timesheetRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository { return &notificationRepo{s} }
func (s *Store) Outbox() repository.OutboxRepository              { return &outboxRepo{s} }

func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	tx := &Store{mu: s.mu, data: s.data, inTx: true, now: s.now}
	err := fn(tx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		*s.data = snapshot
	}
	return err
}

func (s *Store) Ping(context.Context) error {
	return nil
}

// newestFirst sorts a copy of items by the key returned from at, newest first,
// with later insertions winning ties.
func newestFirst[T any](items []T, at func(T) time.Time) []T {
	out := make([]T, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		out = append(out, items[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return at(out[i]).After(at(out[j]))
	})
	return out
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
