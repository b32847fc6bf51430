package memory

import (
	"context"
	"time"

	"hourglass/internal/models"
	"hourglass/internal/repository"
)

type projectRepo struct{ s *Store }

func (r *projectRepo) Create(_ context.Context, project models.Project) (models.Project, error) {
	defer r.s.lock()()
	project.CreatedAt = r.s.now()
	r.s.data.projects = append(r.s.data.projects, project)
	return project, nil
}

func (r *projectRepo) GetByID(_ context.Context, id string) (models.Project, error) {
	defer r.s.lock()()
	for _, p := range r.s.data.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Project{}, repository.ErrNotFound
}

func (r *projectRepo) List(context.Context) ([]models.Project, error) {
	defer r.s.lock()()
	return newestFirst(r.s.data.projects, func(p models.Project) time.Time { return p.CreatedAt }), nil
}

func (r *projectRepo) Count(context.Context) (int, error) {
	defer r.s.lock()()
	return len(r.s.data.projects), nil
}

func (r *projectRepo) Update(_ context.Context, id string, name string, description *string) (models.Project, error) {
	defer r.s.lock()()
	for i, p := range r.s.data.projects {
		if p.ID != id {
			continue
		}
		p.Name = name
		if description != nil {
			p.Description = description
		}
		r.s.data.projects[i] = p
		return p, nil
	}
	return models.Project{}, repository.ErrNotFound
}

type taskRepo struct{ s *Store }

func (r *taskRepo) Create(_ context.Context, task models.Task) (models.Task, error) {
	defer r.s.lock()()
	task.CreatedAt = r.s.now()
	r.s.data.tasks = append(r.s.data.tasks, task)
	return task, nil
}

func (r *taskRepo) GetByID(_ context.Context, id string) (models.Task, error) {
	defer r.s.lock()()
	for _, t := range r.s.data.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Task{}, repository.ErrNotFound
}

func (r *taskRepo) List(_ context.Context, projectID string) ([]models.Task, error) {
	defer r.s.lock()()
	var tasks []models.Task
	for _, t := range r.s.data.tasks {
		if projectID == "" || t.ProjectID == projectID {
			tasks = append(tasks, t)
		}
	}
	return newestFirst(tasks, func(t models.Task) time.Time { return t.CreatedAt }), nil
}

func (r *taskRepo) Update(_ context.Context, id string, name string, description *string, projectID string) (models.Task, error) {
	defer r.s.lock()()
	for i, t := range r.s.data.tasks {
		if t.ID != id {
			continue
		}
		t.Name = name
		if description != nil {
			t.Description = description
		}
		t.ProjectID = projectID
		r.s.data.tasks[i] = t
		return t, nil
	}
	return models.Task{}, repository.ErrNotFound
}
