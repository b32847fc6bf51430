package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"hourglass/internal/access"
	"hourglass/internal/config"
	"hourglass/internal/ids"
	"hourglass/internal/models"
	"hourglass/internal/notify"
	"hourglass/internal/report"
	"hourglass/internal/repository"
)

// TimesheetService aggregates a user's entries into a weekly claim and moves
// it through draft -> submitted -> approved | denied. Each transition writes
// its notifications to the outbox in the same transaction.
type TimesheetService struct {
	base
	dispatcher *notify.Dispatcher
}

func NewTimesheetService(store repository.Store, dispatcher *notify.Dispatcher, cfg *config.AppConfig, log zerolog.Logger, opts ...Option) *TimesheetService {
	return &TimesheetService{base: newBase(store, cfg, log, opts...), dispatcher: dispatcher}
}

type TimesheetQuery struct {
	UserID string
	Status string
}

// Submit recomputes total hours for [weekStart, weekEnd] and stores the
// timesheet as submitted. A week that is already submitted or approved is a
// conflict; a denied week may be submitted again.
func (s *TimesheetService) Submit(ctx context.Context, caller models.User, weekStart string, weekEnd string) (models.Timesheet, error) {
	if _, err := parseDay(weekStart, "week_start"); err != nil {
		return models.Timesheet{}, err
	}
	if _, err := parseDay(weekEnd, "week_end"); err != nil {
		return models.Timesheet{}, err
	}
	if weekEnd < weekStart {
		return models.Timesheet{}, invalidf("week_end must not be before week_start")
	}

	var (
		sheet  models.Timesheet
		queued []string
	)
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		seconds, err := tx.TimeEntries().SumDuration(ctx, repository.TimeEntryFilter{
			UserID: caller.ID,
			From:   weekStart,
			To:     weekEnd,
		})
		if err != nil {
			return err
		}

		now := s.clock()
		sheet, err = tx.Timesheets().Submit(ctx, models.Timesheet{
			ID:          ids.New(),
			UserID:      caller.ID,
			WeekStart:   weekStart,
			WeekEnd:     weekEnd,
			TotalHours:  report.Hours(seconds),
			Status:      models.TimesheetStatusSubmitted,
			SubmittedAt: &now,
		})
		if err != nil {
			return err
		}

		role := models.UserRoleAdmin
		admins, err := tx.Users().List(ctx, repository.UserFilter{Role: &role})
		if err != nil {
			return err
		}

		intents := make([]notify.Intent, 0, len(admins))
		for _, admin := range admins {
			intents = append(intents, notify.Intent{
				RecipientID:        admin.ID,
				Type:               models.NotificationTimesheetSubmitted,
				Title:              "New Timesheet Submission",
				Message:            fmt.Sprintf("%s submitted a timesheet for %s", caller.Name, weekStart),
				RelatedTimesheetID: &sheet.ID,
			})
		}
		queued, err = notify.Enqueue(ctx, tx, now, intents...)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrTimesheetLocked) {
			return models.Timesheet{}, fmt.Errorf("%w: timesheet already submitted for this period", ErrConflict)
		}
		return models.Timesheet{}, err
	}

	s.dispatcher.Kick(ctx, queued)
	s.log.Info().Str("user_id", caller.ID).Str("timesheet_id", sheet.ID).Float64("total_hours", sheet.TotalHours).Msg("timesheet submitted")
	return sheet, nil
}

// Review records an admin decision on the snapshot taken at submission and
// notifies the owner. Denials must carry a comment.
func (s *TimesheetService) Review(ctx context.Context, caller models.User, id string, decision models.TimesheetStatus, comment *string) (models.Timesheet, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return models.Timesheet{}, fmt.Errorf("%w: admin access required", err)
	}
	if comment != nil && strings.TrimSpace(*comment) == "" {
		comment = nil
	}

	var (
		sheet  models.Timesheet
		queued []string
	)
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		current, err := tx.Timesheets().GetByID(ctx, id)
		if err != nil {
			return notFound(err, "timesheet")
		}
		if decision != models.TimesheetStatusApproved && decision != models.TimesheetStatusDenied {
			return invalidf("status must be approved or denied")
		}
		if decision == models.TimesheetStatusDenied && comment == nil {
			return invalidf("comment required when denying timesheet")
		}

		now := s.clock()
		sheet, err = tx.Timesheets().Review(ctx, current.ID, decision, now, caller.ID, comment)
		if err != nil {
			return notFound(err, "timesheet")
		}

		intent := notify.Intent{
			RecipientID:        sheet.UserID,
			Type:               models.NotificationTimesheetApproved,
			Title:              "Timesheet Approved",
			Message:            fmt.Sprintf("Your timesheet for %s has been approved", sheet.WeekStart),
			RelatedTimesheetID: &sheet.ID,
		}
		if decision == models.TimesheetStatusDenied {
			intent.Type = models.NotificationTimesheetDenied
			intent.Title = "Timesheet Denied"
			intent.Message = fmt.Sprintf("Your timesheet for %s has been denied: %s", sheet.WeekStart, *comment)
		}
		queued, err = notify.Enqueue(ctx, tx, now, intent)
		return err
	})
	if err != nil {
		return models.Timesheet{}, err
	}

	s.dispatcher.Kick(ctx, queued)
	s.log.Info().Str("timesheet_id", sheet.ID).Str("status", string(sheet.Status)).Str("reviewed_by", caller.ID).Msg("timesheet reviewed")
	return sheet, nil
}

func (s *TimesheetService) List(ctx context.Context, caller models.User, query TimesheetQuery) ([]models.Timesheet, error) {
	filter := repository.TimesheetFilter{
		UserID: access.Narrow(caller, query.UserID).UserID,
		Limit:  s.listLimit(),
	}
	if query.Status != "" {
		status := models.TimesheetStatus(query.Status)
		if !status.Valid() {
			return nil, invalidf("unknown status %q", query.Status)
		}
		filter.Status = &status
	}
	return s.store.Timesheets().List(ctx, filter)
}
