package memory

import (
	"context"
	"time"

	"hourglass/internal/models"
	"hourglass/internal/repository"
)

type timesheetRepo struct{ s *Store }

func (r *timesheetRepo) Submit(_ context.Context, timesheet models.Timesheet) (models.Timesheet, error) {
	defer r.s.lock()()
	for i, existing := range r.s.data.timesheets {
		if existing.UserID != timesheet.UserID || existing.WeekStart != timesheet.WeekStart || existing.WeekEnd != timesheet.WeekEnd {
			continue
		}
		if existing.Status.Locked() {
			return models.Timesheet{}, repository.ErrTimesheetLocked
		}
		existing.TotalHours = timesheet.TotalHours
		existing.Status = timesheet.Status
		existing.SubmittedAt = timesheet.SubmittedAt
		r.s.data.timesheets[i] = existing
		return existing, nil
	}

	timesheet.CreatedAt = r.s.now()
	r.s.data.timesheets = append(r.s.data.timesheets, timesheet)
	return timesheet, nil
}

func (r *timesheetRepo) GetByID(_ context.Context, id string) (models.Timesheet, error) {
	defer r.s.lock()()
	for _, t := range r.s.data.timesheets {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Timesheet{}, repository.ErrNotFound
}

func matchTimesheet(t models.Timesheet, filter repository.TimesheetFilter) bool {
	if filter.UserID != "" && t.UserID != filter.UserID {
		return false
	}
	if filter.Status != nil && t.Status != *filter.Status {
		return false
	}
	return true
}

func (r *timesheetRepo) List(_ context.Context, filter repository.TimesheetFilter) ([]models.Timesheet, error) {
	defer r.s.lock()()
	var timesheets []models.Timesheet
	for _, t := range r.s.data.timesheets {
		if matchTimesheet(t, filter) {
			timesheets = append(timesheets, t)
		}
	}
	timesheets = newestFirst(timesheets, func(t models.Timesheet) time.Time { return t.CreatedAt })
	return limit(timesheets, filter.Limit), nil
}

func (r *timesheetRepo) Count(_ context.Context, filter repository.TimesheetFilter) (int, error) {
	defer r.s.lock()()
	count := 0
	for _, t := range r.s.data.timesheets {
		if matchTimesheet(t, filter) {
			count++
		}
	}
	return count, nil
}

func (r *timesheetRepo) Review(_ context.Context, id string, status models.TimesheetStatus, reviewedAt time.Time, reviewedBy string, comment *string) (models.Timesheet, error) {
	defer r.s.lock()()
	for i, t := range r.s.data.timesheets {
		if t.ID != id {
			continue
		}
		t.Status = status
		t.ReviewedAt = &reviewedAt
		t.ReviewedBy = &reviewedBy
		t.AdminComment = comment
		r.s.data.timesheets[i] = t
		return t, nil
	}
	return models.Timesheet{}, repository.ErrNotFound
}
