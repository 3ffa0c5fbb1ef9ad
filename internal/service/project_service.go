package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"tempus/internal/cache"
	apperrors "tempus/internal/errors"
	"tempus/internal/model"
	"tempus/internal/repository"
)

// ProjectSummary is a project annotated with its session count, the
// shape returned by the project listing.
type ProjectSummary struct {
	model.Project
	SessionCount int64 `json:"sessionCount"`
}

// ProjectService handles owner-scoped project operations.
type ProjectService interface {
	List(ctx context.Context, userID uint) ([]ProjectSummary, error)
	Create(ctx context.Context, userID uint, name, description string) (*model.Project, error)
	Update(ctx context.Context, userID, projectID uint, name, description *string) (*model.Project, error)
	Delete(ctx context.Context, userID, projectID uint) error
}

type projectService struct {
	projectRepo repository.ProjectRepository
	cache       *cache.Client
}

// NewProjectService creates a new project service.
func NewProjectService(projectRepo repository.ProjectRepository, cache *cache.Client) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		cache:       cache,
	}
}

// List returns the user's projects, newest first, each with its total
// session count.
func (s *projectService) List(ctx context.Context, userID uint) ([]ProjectSummary, error) {
	projects, err := s.projectRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	counts, err := s.projectRepo.SessionCountsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	summaries := make([]ProjectSummary, 0, len(projects))
	for _, project := range projects {
		summaries = append(summaries, ProjectSummary{
			Project:      project,
			SessionCount: counts[project.ID],
		})
	}
	return summaries, nil
}

func (s *projectService) Create(ctx context.Context, userID uint, name, description string) (*model.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.ErrNameRequired
	}

	project := &model.Project{
		UserID:      userID,
		Name:        name,
		Description: description,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

// Update re-verifies ownership before mutating; a foreign project id
// reads as not found. Nil fields were omitted from the request and
// keep their stored value.
func (s *projectService) Update(ctx context.Context, userID, projectID uint, name, description *string) (*model.Project, error) {
	project, err := s.projectRepo.FindByIDAndUser(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}

	if name != nil {
		project.Name = *name
	}
	if description != nil {
		project.Description = *description
	}
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return project, nil
}

// Delete removes the project and its sessions, then drops any cached
// stats for it.
func (s *projectService) Delete(ctx context.Context, userID, projectID uint) error {
	if err := s.projectRepo.DeleteWithSessions(ctx, projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProjectNotFound
		}
		return fmt.Errorf("delete project: %w", err)
	}
	_ = s.cache.Delete(ctx, statsCacheKey(projectID))
	return nil
}
