package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"hourglass/internal/access"
	"hourglass/internal/config"
	"hourglass/internal/ids"
	"hourglass/internal/models"
	"hourglass/internal/repository"
)

type CatalogService struct {
	base
}

func NewCatalogService(store repository.Store, cfg *config.AppConfig, log zerolog.Logger, opts ...Option) *CatalogService {
	return &CatalogService{base: newBase(store, cfg, log, opts...)}
}

type ProjectInput struct {
	Name        string
	Description *string
}

type TaskInput struct {
	Name        string
	Description *string
	ProjectID   string
}

func (s *CatalogService) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.store.Projects().List(ctx)
}

func (s *CatalogService) CreateProject(ctx context.Context, caller models.User, input ProjectInput) (models.Project, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return models.Project{}, fmt.Errorf("%w: admin access required", err)
	}
	if strings.TrimSpace(input.Name) == "" {
		return models.Project{}, invalidf("name is required")
	}
	return s.store.Projects().Create(ctx, models.Project{
		ID:          ids.New(),
		Name:        input.Name,
		Description: input.Description,
		CreatedBy:   caller.ID,
		Status:      models.CatalogStatusActive,
	})
}

func (s *CatalogService) UpdateProject(ctx context.Context, caller models.User, id string, input ProjectInput) (models.Project, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return models.Project{}, fmt.Errorf("%w: admin access required", err)
	}
	if strings.TrimSpace(input.Name) == "" {
		return models.Project{}, invalidf("name is required")
	}
	project, err := s.store.Projects().Update(ctx, id, input.Name, input.Description)
	if err != nil {
		return models.Project{}, notFound(err, "project")
	}
	return project, nil
}

func (s *CatalogService) ListTasks(ctx context.Context, projectID string) ([]models.Task, error) {
	return s.store.Tasks().List(ctx, projectID)
}

func (s *CatalogService) CreateTask(ctx context.Context, caller models.User, input TaskInput) (models.Task, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return models.Task{}, fmt.Errorf("%w: admin access required", err)
	}
	if err := s.validateTask(ctx, input); err != nil {
		return models.Task{}, err
	}
	return s.store.Tasks().Create(ctx, models.Task{
		ID:          ids.New(),
		Name:        input.Name,
		Description: input.Description,
		ProjectID:   input.ProjectID,
		Status:      models.CatalogStatusActive,
	})
}

func (s *CatalogService) UpdateTask(ctx context.Context, caller models.User, id string, input TaskInput) (models.Task, error) {
	if err := access.RequireAdmin(caller); err != nil {
		return models.Task{}, fmt.Errorf("%w: admin access required", err)
	}
	if _, err := s.store.Tasks().GetByID(ctx, id); err != nil {
		return models.Task{}, notFound(err, "task")
	}
	if err := s.validateTask(ctx, input); err != nil {
		return models.Task{}, err
	}
	task, err := s.store.Tasks().Update(ctx, id, input.Name, input.Description, input.ProjectID)
	if err != nil {
		return models.Task{}, notFound(err, "task")
	}
	return task, nil
}

func (s *CatalogService) validateTask(ctx context.Context, input TaskInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return invalidf("name is required")
	}
	if _, err := s.store.Projects().GetByID(ctx, input.ProjectID); err != nil {
		return notFound(err, "project")
	}
	return nil
}
