package service

import (
	"context"

	"github.com/rs/zerolog"

	"hourglass/internal/config"
	"hourglass/internal/models"
	"hourglass/internal/report"
	"hourglass/internal/repository"
)

type DashboardService struct {
	base
}

func NewDashboardService(store repository.Store, cfg *config.AppConfig, log zerolog.Logger, opts ...Option) *DashboardService {
	return &DashboardService{base: newBase(store, cfg, log, opts...)}
}

type AdminStats struct {
	TotalEmployees    int `json:"total_employees"`
	ActiveEmployees   int `json:"active_employees"`
	PendingTimesheets int `json:"pending_timesheets"`
	TotalProjects     int `json:"total_projects"`
	ActiveTimers      int `json:"active_timers"`
}

type EmployeeStats struct {
	TodayHours   float64 `json:"today_hours"`
	WeekHours    float64 `json:"week_hours"`
	TotalEntries int     `json:"total_entries"`
}

// Stats returns AdminStats for admins and EmployeeStats for everyone else.
func (s *DashboardService) Stats(ctx context.Context, caller models.User) (any, error) {
	if caller.IsAdmin() {
		return s.adminStats(ctx)
	}
	return s.employeeStats(ctx, caller)
}

func (s *DashboardService) adminStats(ctx context.Context) (AdminStats, error) {
	var (
		stats     AdminStats
		err       error
		employee  = models.UserRoleEmployee
		active    = models.UserStatusActive
		submitted = models.TimesheetStatusSubmitted
	)

	if stats.TotalEmployees, err = s.store.Users().Count(ctx, repository.UserFilter{Role: &employee}); err != nil {
		return AdminStats{}, err
	}
	if stats.ActiveEmployees, err = s.store.Users().Count(ctx, repository.UserFilter{Role: &employee, Status: &active}); err != nil {
		return AdminStats{}, err
	}
	if stats.PendingTimesheets, err = s.store.Timesheets().Count(ctx, repository.TimesheetFilter{Status: &submitted}); err != nil {
		return AdminStats{}, err
	}
	if stats.TotalProjects, err = s.store.Projects().Count(ctx); err != nil {
		return AdminStats{}, err
	}
	if stats.ActiveTimers, err = s.store.TimerSessions().CountActive(ctx); err != nil {
		return AdminStats{}, err
	}
	return stats, nil
}

// employeeStats counts the week from Monday with no upper bound.
func (s *DashboardService) employeeStats(ctx context.Context, caller models.User) (EmployeeStats, error) {
	now := s.clock().In(s.loc)
	today := now.Format(models.DateLayout)
	offset := (int(now.Weekday()) + 6) % 7
	monday := now.AddDate(0, 0, -offset).Format(models.DateLayout)

	todaySeconds, err := s.store.TimeEntries().SumDuration(ctx, repository.TimeEntryFilter{UserID: caller.ID, From: today, To: today})
	if err != nil {
		return EmployeeStats{}, err
	}

	week, err := s.store.TimeEntries().List(ctx, repository.TimeEntryFilter{UserID: caller.ID, From: monday})
	if err != nil {
		return EmployeeStats{}, err
	}
	var weekSeconds int64
	for _, e := range week {
		weekSeconds += e.Duration
	}

	return EmployeeStats{
		TodayHours:   report.Hours(todaySeconds),
		WeekHours:    report.Hours(weekSeconds),
		TotalEntries: len(week),
	}, nil
}

