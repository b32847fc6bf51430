package repository

import (
	"context"

	"hourglass/internal/models"
)

const timeEntryColumns = `id, user_id, project_id, task_id, start_time, end_time, duration, entry_type, date::text, notes, created_at`

type TimeEntryRepo struct {
	db querier
}

func scanTimeEntry(row scanner) (models.TimeEntry, error) {
	var e models.TimeEntry
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.ProjectID,
		&e.TaskID,
		&e.StartTime,
		&e.EndTime,
		&e.Duration,
		&e.EntryType,
		&e.Date,
		&e.Notes,
		&e.CreatedAt,
	)
	return e, err
}

func (r *TimeEntryRepo) Create(ctx context.Context, entry models.TimeEntry) (models.TimeEntry, error) {
	const query = `
		INSERT INTO time_entries (
			id, user_id, project_id, task_id, start_time, end_time, duration, entry_type, date, notes, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9::date, $10, NOW()
		)
		RETURNING ` + timeEntryColumns

	return scanTimeEntry(r.db.QueryRow(ctx, query,
		entry.ID,
		entry.UserID,
		entry.ProjectID,
		entry.TaskID,
		entry.StartTime,
		entry.EndTime,
		entry.Duration,
		entry.EntryType,
		entry.Date,
		entry.Notes,
	))
}

func (r *TimeEntryRepo) GetByID(ctx context.Context, id string) (models.TimeEntry, error) {
	e, err := scanTimeEntry(r.db.QueryRow(ctx, `SELECT `+timeEntryColumns+` FROM time_entries WHERE id = $1`, id))
	if err != nil {
		return models.TimeEntry{}, notFound(err)
	}
	return e, nil
}

func timeEntryWhere(filter TimeEntryFilter) *whereBuilder {
	w := &whereBuilder{}
	if filter.UserID != "" {
		w.add("user_id = $%d", filter.UserID)
	}
	if filter.ProjectID != "" {
		w.add("project_id = $%d", filter.ProjectID)
	}
	if filter.From != "" {
		w.add("date >= $%d::date", filter.From)
	}
	if filter.To != "" {
		w.add("date <= $%d::date", filter.To)
	}
	return w
}

func (r *TimeEntryRepo) List(ctx context.Context, filter TimeEntryFilter) ([]models.TimeEntry, error) {
	w := timeEntryWhere(filter)
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries` + w.String() + ` ORDER BY start_time DESC`
	query += w.limit(filter.Limit)

	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.TimeEntry
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *TimeEntryRepo) SumDuration(ctx context.Context, filter TimeEntryFilter) (int64, error) {
	w := timeEntryWhere(filter)
	var total int64
	query := `SELECT COALESCE(SUM(duration), 0)::bigint FROM time_entries` + w.String()
	if err := r.db.QueryRow(ctx, query, w.args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *TimeEntryRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
