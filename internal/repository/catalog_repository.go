package repository

import (
	"context"

	"hourglass/internal/models"
)

const (
	projectColumns = `id, name, description, created_by, status, created_at`
	taskColumns    = `id, name, description, project_id, status, created_at`
)

type ProjectRepo struct {
	db querier
}

func scanProject(row scanner) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedBy, &p.Status, &p.CreatedAt)
	return p, err
}

func (r *ProjectRepo) Create(ctx context.Context, project models.Project) (models.Project, error) {
	const query = `
		INSERT INTO projects (id, name, description, created_by, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING ` + projectColumns

	return scanProject(r.db.QueryRow(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.CreatedBy,
		project.Status,
	))
}

func (r *ProjectRepo) GetByID(ctx context.Context, id string) (models.Project, error) {
	p, err := scanProject(r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		return models.Project{}, notFound(err)
	}
	return p, nil
}

func (r *ProjectRepo) List(ctx context.Context) ([]models.Project, error) {
	rows, err := r.db.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ProjectRepo) Update(ctx context.Context, id string, name string, description *string) (models.Project, error) {
	const query = `
		UPDATE projects
		SET name = $2,
		    description = COALESCE($3, description)
		WHERE id = $1
		RETURNING ` + projectColumns

	p, err := scanProject(r.db.QueryRow(ctx, query, id, name, description))
	if err != nil {
		return models.Project{}, notFound(err)
	}
	return p, nil
}

type TaskRepo struct {
	db querier
}

func scanTask(row scanner) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.ProjectID, &t.Status, &t.CreatedAt)
	return t, err
}

func (r *TaskRepo) Create(ctx context.Context, task models.Task) (models.Task, error) {
	const query = `
		INSERT INTO tasks (id, name, description, project_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING ` + taskColumns

	return scanTask(r.db.QueryRow(ctx, query,
		task.ID,
		task.Name,
		task.Description,
		task.ProjectID,
		task.Status,
	))
}

func (r *TaskRepo) GetByID(ctx context.Context, id string) (models.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		return models.Task{}, notFound(err)
	}
	return t, nil
}

func (r *TaskRepo) List(ctx context.Context, projectID string) ([]models.Task, error) {
	w := &whereBuilder{}
	if projectID != "" {
		w.add("project_id = $%d", projectID)
	}

	rows, err := r.db.Query(ctx, `SELECT `+taskColumns+` FROM tasks`+w.String()+` ORDER BY created_at DESC`, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepo) Update(ctx context.Context, id string, name string, description *string, projectID string) (models.Task, error) {
	const query = `
		UPDATE tasks
		SET name = $2,
		    description = COALESCE($3, description),
		    project_id = $4
		WHERE id = $1
		RETURNING ` + taskColumns

	t, err := scanTask(r.db.QueryRow(ctx, query, id, name, description, projectID))
	if err != nil {
		return models.Task{}, notFound(err)
	}
	return t, nil
}
