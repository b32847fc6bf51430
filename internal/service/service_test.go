package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"hourglass/internal/config"
	"hourglass/internal/ids"
	"hourglass/internal/models"
	"hourglass/internal/notify"
	"hourglass/internal/repository/memory"
	"hourglass/internal/security"
)

var fastArgon = security.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

type fixture struct {
	store    *memory.Store
	cfg      *config.AppConfig
	now      time.Time
	admin    models.User
	employee models.User
	other    models.User
	project  models.Project
	task     models.Task
}

// newFixture seeds one admin, two employees and a project with one task.
// The clock starts on Wednesday 2024-03-13 at noon UTC.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: memory.NewStore(),
		cfg: &config.AppConfig{
			Security: config.SecurityConfig{JWTSecret: "test-secret", JWTTTL: time.Hour, AllowLegacyBcrypt: true},
			App:      config.AppSettings{Timezone: "UTC", ListLimit: 1000, NotificationDefaultLimit: 50},
		},
		now: time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC),
	}
	f.admin = f.addUser(t, "admin@example.com", "Ada Admin", models.UserRoleAdmin, models.UserStatusActive)
	f.employee = f.addUser(t, "eve@example.com", "Eve Employee", models.UserRoleEmployee, models.UserStatusActive)
	f.other = f.addUser(t, "oscar@example.com", "Oscar Other", models.UserRoleEmployee, models.UserStatusActive)

	ctx := context.Background()
	var err error
	f.project, err = f.store.Projects().Create(ctx, models.Project{ID: ids.New(), Name: "Apollo", CreatedBy: f.admin.ID, Status: models.CatalogStatusActive})
	require.NoError(t, err)
	f.task, err = f.store.Tasks().Create(ctx, models.Task{ID: ids.New(), Name: "Design", ProjectID: f.project.ID, Status: models.CatalogStatusActive})
	require.NoError(t, err)
	return f
}

func (f *fixture) addUser(t *testing.T, email, name string, role models.UserRole, status models.UserStatus) models.User {
	t.Helper()
	digest, err := security.HashPasswordWithParams("secret-pass", fastArgon)
	require.NoError(t, err)
	user, err := f.store.Users().Create(context.Background(), models.User{
		ID:           ids.New(),
		Email:        email,
		Name:         name,
		PasswordHash: digest,
		Role:         role,
		Status:       status,
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) clock() Option {
	return WithClock(func() time.Time { return f.now })
}

func (f *fixture) at(value string) time.Time {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return ts
}

func (f *fixture) timers() *TimerService {
	return NewTimerService(f.store, f.cfg, zerolog.Nop(), f.clock())
}

func (f *fixture) entries() *EntryService {
	return NewEntryService(f.store, f.cfg, zerolog.Nop(), f.clock())
}

func (f *fixture) timesheets() *TimesheetService {
	dispatcher := notify.NewDispatcher(f.store, nil, zerolog.Nop())
	return NewTimesheetService(f.store, dispatcher, f.cfg, zerolog.Nop(), f.clock())
}

func (f *fixture) notifications() *NotificationService {
	return NewNotificationService(f.store, f.cfg, zerolog.Nop(), f.clock())
}

// manual records a closed entry for user between two RFC3339 instants.
func (f *fixture) manual(t *testing.T, user models.User, start, end string) models.TimeEntry {
	t.Helper()
	endTime := f.at(end)
	entry, err := f.entries().CreateManual(context.Background(), user, ManualEntryInput{
		ProjectID: f.project.ID,
		TaskID:    f.task.ID,
		StartTime: f.at(start),
		EndTime:   &endTime,
	})
	require.NoError(t, err)
	return entry
}

func ptr[T any](v T) *T { return &v }
