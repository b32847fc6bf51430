package repository

import (
	"context"
	"errors"
	"time"

	"hourglass/internal/models"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrActiveTimerExists = errors.New("active timer already exists")
	ErrTimesheetLocked   = errors.New("timesheet already submitted or approved")
)

// Store groups the entity repositories. WithinTx runs fn against a Store whose
// repositories share one transaction; fn's error rolls everything back.
type Store interface {
	Users() UserRepository
	Projects() ProjectRepository
	Tasks() TaskRepository
	TimeEntries() TimeEntryRepository
	TimerSessions() TimerSessionRepository
	Timesheets() TimesheetRepository
	Notifications() NotificationRepository
	Outbox() OutboxRepository

	WithinTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}

type UserFilter struct {
	Role   *models.UserRole
	Status *models.UserStatus
}

type UserRepository interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context, filter UserFilter) ([]models.User, error)
	Count(ctx context.Context, filter UserFilter) (int, error)
	Update(ctx context.Context, id string, patch models.UserPatch) (models.User, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, project models.Project) (models.Project, error)
	GetByID(ctx context.Context, id string) (models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, id string, name string, description *string) (models.Project, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task models.Task) (models.Task, error)
	GetByID(ctx context.Context, id string) (models.Task, error)
	// List returns every task, or only those of projectID when it is non-empty.
	List(ctx context.Context, projectID string) ([]models.Task, error)
	Update(ctx context.Context, id string, name string, description *string, projectID string) (models.Task, error)
}

// TimeEntryFilter selects entries by owner, project and an inclusive date range.
// Empty fields do not constrain; Limit <= 0 means no limit.
type TimeEntryFilter struct {
	UserID    string
	ProjectID string
	From      string
	To        string
	Limit     int
}

type TimeEntryRepository interface {
	Create(ctx context.Context, entry models.TimeEntry) (models.TimeEntry, error)
	GetByID(ctx context.Context, id string) (models.TimeEntry, error)
	// List orders entries by start time, newest first.
	List(ctx context.Context, filter TimeEntryFilter) ([]models.TimeEntry, error)
	SumDuration(ctx context.Context, filter TimeEntryFilter) (int64, error)
	Delete(ctx context.Context, id string) error
}

type TimerSessionRepository interface {
	// CreateActive inserts an active session unless the user already has one,
	// in which case it returns ErrActiveTimerExists.
	CreateActive(ctx context.Context, session models.TimerSession) (models.TimerSession, error)
	GetActive(ctx context.Context, userID string) (models.TimerSession, error)
	Touch(ctx context.Context, id string, at time.Time) (models.TimerSession, error)
	// Deactivate flips an active session to inactive. A session that is already
	// inactive yields ErrNotFound so two concurrent stops cannot both succeed.
	Deactivate(ctx context.Context, id string) (models.TimerSession, error)
	CountActive(ctx context.Context) (int, error)
}

type TimesheetFilter struct {
	UserID string
	Status *models.TimesheetStatus
	Limit  int
}

type TimesheetRepository interface {
	// Submit inserts or overwrites the row for (user, week_start, week_end). An
	// existing row that is submitted or approved is left alone and
	// ErrTimesheetLocked is returned.
	Submit(ctx context.Context, timesheet models.Timesheet) (models.Timesheet, error)
	GetByID(ctx context.Context, id string) (models.Timesheet, error)
	List(ctx context.Context, filter TimesheetFilter) ([]models.Timesheet, error)
	Count(ctx context.Context, filter TimesheetFilter) (int, error)
	Review(ctx context.Context, id string, status models.TimesheetStatus, reviewedAt time.Time, reviewedBy string, comment *string) (models.Timesheet, error)
}

type NotificationFilter struct {
	UserID     string
	UnreadOnly bool
	Limit      int
}

type NotificationRepository interface {
	// Insert is idempotent on the notification ID; created is false when the
	// row already existed.
	Insert(ctx context.Context, notification models.Notification) (created bool, err error)
	List(ctx context.Context, filter NotificationFilter) ([]models.Notification, error)
	Count(ctx context.Context, filter NotificationFilter) (int, error)
	MarkRead(ctx context.Context, userID string, id string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, msg models.OutboxMessage) error
	// Claim loads a message and locks it for the rest of the transaction.
	Claim(ctx context.Context, id string) (models.OutboxMessage, error)
	MarkDelivered(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id string, reason string) error
	ListPending(ctx context.Context, limit int) ([]models.OutboxMessage, error)
}
