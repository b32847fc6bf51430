package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"hourglass/internal/access"
	"hourglass/internal/config"
	"hourglass/internal/ids"
	"hourglass/internal/models"
	"hourglass/internal/repository"
)

type EntryService struct {
	base
}

func NewEntryService(store repository.Store, cfg *config.AppConfig, log zerolog.Logger, opts ...Option) *EntryService {
	return &EntryService{base: newBase(store, cfg, log, opts...)}
}

type EntryQuery struct {
	UserID    string
	StartDate string
	EndDate   string
}

type ManualEntryInput struct {
	ProjectID string
	TaskID    string
	StartTime time.Time
	EndTime   *time.Time
	Duration  *int64
	Notes     *string
}

func (s *EntryService) List(ctx context.Context, caller models.User, query EntryQuery) ([]models.TimeEntry, error) {
	filter := repository.TimeEntryFilter{
		UserID: access.Narrow(caller, query.UserID).UserID,
		Limit:  s.listLimit(),
	}
	if query.StartDate != "" {
		day, err := parseDay(query.StartDate, "start_date")
		if err != nil {
			return nil, err
		}
		filter.From = day
	}
	if query.EndDate != "" {
		day, err := parseDay(query.EndDate, "end_date")
		if err != nil {
			return nil, err
		}
		filter.To = day
	}
	return s.store.TimeEntries().List(ctx, filter)
}

// CreateManual records a closed entry for the caller. Duration defaults to
// end minus start; the entry is dated with the start day.
func (s *EntryService) CreateManual(ctx context.Context, caller models.User, input ManualEntryInput) (models.TimeEntry, error) {
	if input.EndTime == nil {
		return models.TimeEntry{}, invalidf("end time required for manual entry")
	}
	if input.EndTime.Before(input.StartTime) {
		return models.TimeEntry{}, invalidf("end time must not be before start time")
	}
	if err := checkProjectTask(ctx, s.store, input.ProjectID, input.TaskID); err != nil {
		return models.TimeEntry{}, err
	}

	duration := int64(input.EndTime.Sub(input.StartTime).Seconds())
	if input.Duration != nil {
		if *input.Duration < 0 {
			return models.TimeEntry{}, invalidf("duration must not be negative")
		}
		duration = *input.Duration
	}

	start := input.StartTime.UTC()
	end := input.EndTime.UTC()
	return s.store.TimeEntries().Create(ctx, models.TimeEntry{
		ID:        ids.New(),
		UserID:    caller.ID,
		ProjectID: input.ProjectID,
		TaskID:    input.TaskID,
		StartTime: start,
		EndTime:   &end,
		Duration:  duration,
		EntryType: models.EntryTypeManual,
		Date:      s.day(start),
		Notes:     input.Notes,
	})
}

func (s *EntryService) Delete(ctx context.Context, caller models.User, id string) error {
	entry, err := s.store.TimeEntries().GetByID(ctx, id)
	if err != nil {
		return notFound(err, "entry")
	}
	if !access.CanDeleteEntry(caller, entry) {
		return fmt.Errorf("%w: not authorized to delete this entry", ErrForbidden)
	}
	if err := s.store.TimeEntries().Delete(ctx, id); err != nil {
		return notFound(err, "entry")
	}
	return nil
}
