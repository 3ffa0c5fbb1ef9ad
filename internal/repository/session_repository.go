package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "tempus/internal/errors"
	"tempus/internal/model"
)

// SessionRepository defines persistence for timed work sessions.
type SessionRepository interface {
	// Start opens a new session for the project, refusing atomically if
	// one is already open.
	Start(ctx context.Context, projectID, userID uint, startTime time.Time, comment string) (*model.TimeSession, error)
	// Stop closes the session matching {id, project, user, open} exactly.
	Stop(ctx context.Context, sessionID, projectID, userID uint, endTime time.Time, comment *string) (*model.TimeSession, error)
	ListByProject(ctx context.Context, projectID uint, offset, limit int) ([]model.TimeSession, error)
	CountByProject(ctx context.Context, projectID uint) (int64, error)
	ClosedByProject(ctx context.Context, projectID uint) ([]model.TimeSession, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Start inserts the new session with a single conditional
// INSERT ... SELECT guarded by NOT EXISTS, so the database itself
// rejects a second open session for the project. A concurrent start
// loses cleanly with ErrSessionActive instead of creating a duplicate.
func (r *sessionRepository) Start(ctx context.Context, projectID, userID uint, startTime time.Time, comment string) (*model.TimeSession, error) {
	var session model.TimeSession
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			`INSERT INTO time_sessions (project_id, user_id, start_time, comment, created_at, updated_at)
			 SELECT p.id, ?, ?, ?, ?, ?
			 FROM projects p
			 WHERE p.id = ? AND p.user_id = ?
			   AND NOT EXISTS (
			     SELECT 1 FROM time_sessions s
			     WHERE s.project_id = p.id AND s.end_time IS NULL
			   )`,
			userID, startTime, comment, startTime, startTime, projectID, userID,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Either the project is gone or a session is already open.
			var project model.Project
			if err := tx.Where("id = ? AND user_id = ?", projectID, userID).First(&project).Error; err != nil {
				return err
			}
			return apperrors.ErrSessionActive
		}
		return tx.
			Where("project_id = ? AND end_time IS NULL", projectID).
			Order("id DESC").
			First(&session).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Stop closes an open session with one conditional UPDATE. Zero rows
// affected means no open session matched, which uniformly covers
// "already stopped", "wrong session id" and "not your project".
func (r *sessionRepository) Stop(ctx context.Context, sessionID, projectID, userID uint, endTime time.Time, comment *string) (*model.TimeSession, error) {
	updates := map[string]interface{}{
		"end_time":   endTime,
		"updated_at": time.Now(),
	}
	// An absent or empty comment keeps whatever was stored at start.
	if comment != nil && *comment != "" {
		updates["comment"] = *comment
	}

	res := r.db.WithContext(ctx).
		Model(&model.TimeSession{}).
		Where("id = ? AND project_id = ? AND user_id = ? AND end_time IS NULL",
			sessionID, projectID, userID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var session model.TimeSession
	if err := r.db.WithContext(ctx).First(&session, sessionID).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) ListByProject(ctx context.Context, projectID uint, offset, limit int) ([]model.TimeSession, error) {
	sessions := []model.TimeSession{}
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("start_time DESC").
		Offset(offset).
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) CountByProject(ctx context.Context, projectID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TimeSession{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

// ClosedByProject returns every finished session of the project, used
// for duration and active-day aggregation.
func (r *sessionRepository) ClosedByProject(ctx context.Context, projectID uint) ([]model.TimeSession, error) {
	var sessions []model.TimeSession
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND end_time IS NOT NULL", projectID).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
