package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"hourglass/internal/access"
	"hourglass/internal/config"
	"hourglass/internal/models"
	"hourglass/internal/report"
	"hourglass/internal/repository"
	"hourglass/internal/storage"
)

// ExportArchive stores a copy of every rendered export.
type ExportArchive interface {
	PutExport(ctx context.Context, key string, contentType string, body []byte) (string, error)
}

type ReportService struct {
	base
	archive ExportArchive
}

// NewReportService builds the report service. archive may be nil.
func NewReportService(store repository.Store, archive ExportArchive, cfg *config.AppConfig, log zerolog.Logger, opts ...Option) *ReportService {
	return &ReportService{base: newBase(store, cfg, log, opts...), archive: archive}
}

type ReportQuery struct {
	StartDate string
	EndDate   string
	UserID    string
	ProjectID string
	GroupBy   string
}

// TimeReport groups the visible entries of the range; one row per group key.
func (s *ReportService) TimeReport(ctx context.Context, caller models.User, query ReportQuery) (report.Report, error) {
	entries, lookup, err := s.load(ctx, caller, query)
	if err != nil {
		return report.Report{}, err
	}
	groupBy := query.GroupBy
	if groupBy == "" {
		groupBy = report.GroupByUser
	}
	return report.Build(entries, groupBy, lookup), nil
}

// Export renders one row per visible entry of the range, oldest first.
func (s *ReportService) Export(ctx context.Context, caller models.User, query ReportQuery, format report.Format) (report.File, error) {
	entries, lookup, err := s.load(ctx, caller, query)
	if err != nil {
		return report.File{}, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].StartTime.Before(entries[j].StartTime)
	})

	file, err := report.Render(report.NewExport(query.StartDate, query.EndDate, entries, lookup), format)
	if err != nil {
		return report.File{}, err
	}

	if s.archive != nil {
		key := storage.ExportKey(caller.ID, s.clock(), file.Name)
		if _, err := s.archive.PutExport(ctx, key, file.ContentType, file.Body); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("archive export failed")
		}
	}
	return file, nil
}

func (s *ReportService) load(ctx context.Context, caller models.User, query ReportQuery) ([]models.TimeEntry, report.Lookup, error) {
	if query.StartDate == "" || query.EndDate == "" {
		return nil, report.Lookup{}, invalidf("start_date and end_date are required")
	}
	if _, err := parseDay(query.StartDate, "start_date"); err != nil {
		return nil, report.Lookup{}, err
	}
	if _, err := parseDay(query.EndDate, "end_date"); err != nil {
		return nil, report.Lookup{}, err
	}

	entries, err := s.store.TimeEntries().List(ctx, repository.TimeEntryFilter{
		UserID:    access.Narrow(caller, query.UserID).UserID,
		ProjectID: query.ProjectID,
		From:      query.StartDate,
		To:        query.EndDate,
	})
	if err != nil {
		return nil, report.Lookup{}, err
	}

	users, err := s.store.Users().List(ctx, repository.UserFilter{})
	if err != nil {
		return nil, report.Lookup{}, err
	}
	projects, err := s.store.Projects().List(ctx)
	if err != nil {
		return nil, report.Lookup{}, err
	}
	tasks, err := s.store.Tasks().List(ctx, "")
	if err != nil {
		return nil, report.Lookup{}, err
	}
	return entries, report.NewLookup(users, projects, tasks), nil
}
