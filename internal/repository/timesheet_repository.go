package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"hourglass/internal/models"
)

const timesheetColumns = `id, user_id, week_start::text, week_end::text, total_hours, status, submitted_at, reviewed_at, reviewed_by, admin_comment, created_at`

type TimesheetRepo struct {
	db querier
}

func scanTimesheet(row scanner) (models.Timesheet, error) {
	var t models.Timesheet
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.WeekStart,
		&t.WeekEnd,
		&t.TotalHours,
		&t.Status,
		&t.SubmittedAt,
		&t.ReviewedAt,
		&t.ReviewedBy,
		&t.AdminComment,
		&t.CreatedAt,
	)
	return t, err
}

func (r *TimesheetRepo) Submit(ctx context.Context, timesheet models.Timesheet) (models.Timesheet, error) {
	// The existing row keeps its id; review fields survive a resubmission.
	const query = `
		INSERT INTO timesheets (
			id, user_id, week_start, week_end, total_hours, status, submitted_at, created_at
		) VALUES (
			$1, $2, $3::date, $4::date, $5, $6, $7, NOW()
		)
		ON CONFLICT (user_id, week_start, week_end)
		DO UPDATE SET
			total_hours = EXCLUDED.total_hours,
			status = EXCLUDED.status,
			submitted_at = EXCLUDED.submitted_at
		WHERE timesheets.status NOT IN ('submitted', 'approved')
		RETURNING ` + timesheetColumns

	saved, err := scanTimesheet(r.db.QueryRow(ctx, query,
		timesheet.ID,
		timesheet.UserID,
		timesheet.WeekStart,
		timesheet.WeekEnd,
		timesheet.TotalHours,
		timesheet.Status,
		timesheet.SubmittedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Timesheet{}, ErrTimesheetLocked
		}
		return models.Timesheet{}, err
	}
	return saved, nil
}

func (r *TimesheetRepo) GetByID(ctx context.Context, id string) (models.Timesheet, error) {
	t, err := scanTimesheet(r.db.QueryRow(ctx, `SELECT `+timesheetColumns+` FROM timesheets WHERE id = $1`, id))
	if err != nil {
		return models.Timesheet{}, notFound(err)
	}
	return t, nil
}

func timesheetWhere(filter TimesheetFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.UserID != "" {
		w.add("user_id = $%d", filter.UserID)
	}
	if filter.Status != nil {
		w.add("status = $%d", *filter.Status)
	}
	return w
}

func (r *TimesheetRepo) List(ctx context.Context, filter TimesheetFilter) ([]models.Timesheet, error) {
	w := timesheetWhere(filter)
	query := `SELECT ` + timesheetColumns + ` FROM timesheets` + w.String() + ` ORDER BY created_at DESC`
	query += w.limit(filter.Limit)

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var timesheets []models.Timesheet
	for rows.Next() {
		t, err := scanTimesheet(rows)
		if err != nil {
			return nil, err
		}
		timesheets = append(timesheets, t)
	}
	return timesheets, rows.Err()
}

func (r *TimesheetRepo) Count(ctx context.Context, filter TimesheetFilter) (int, error) {
	w := timesheetWhere(filter)
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM timesheets`+w.String(), w.args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TimesheetRepo) Review(ctx context.Context, id string, status models.TimesheetStatus, reviewedAt time.Time, reviewedBy string, comment *string) (models.Timesheet, error) {
	const query = `
		UPDATE timesheets
		SET status = $2,
		    reviewed_at = $3,
		    reviewed_by = $4,
		    admin_comment = $5
		WHERE id = $1
		RETURNING ` + timesheetColumns

	t, err := scanTimesheet(r.db.QueryRow(ctx, query, id, status, reviewedAt, reviewedBy, comment))
	if err != nil {
		return models.Timesheet{}, notFound(err)
	}
	return t, nil
}
