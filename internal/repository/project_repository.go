package repository

import (
	"context"

	"gorm.io/gorm"

	"tempus/internal/model"
)

// ProjectRepository defines owner-scoped project persistence. Lookups
// always filter by the owning user, so an absent and a foreign project
// are the same ErrRecordNotFound.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	FindByIDAndUser(ctx context.Context, id, userID uint) (*model.Project, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Project, error)
	SessionCountsByUser(ctx context.Context, userID uint) (map[uint]int64, error)
	Update(ctx context.Context, project *model.Project) error
	DeleteWithSessions(ctx context.Context, id, userID uint) error
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) FindByIDAndUser(ctx context.Context, id, userID uint) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) ListByUser(ctx context.Context, userID uint) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// SessionCountsByUser returns the number of sessions per project for
// all of the user's projects, keyed by project id.
func (r *projectRepository) SessionCountsByUser(ctx context.Context, userID uint) (map[uint]int64, error) {
	var rows []struct {
		ProjectID uint
		Count     int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.TimeSession{}).
		Select("project_id, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("project_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.ProjectID] = row.Count
	}
	return counts, nil
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// DeleteWithSessions removes a project and all of its sessions in one
// transaction. Ownership is re-verified inside the transaction so a
// foreign id deletes nothing.
func (r *projectRepository) DeleteWithSessions(ctx context.Context, id, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&project).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.TimeSession{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
}
