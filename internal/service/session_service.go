package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tempus/internal/cache"
	apperrors "tempus/internal/errors"
	"tempus/internal/model"
	"tempus/internal/repository"
)

const (
	// DefaultPageSize is the session page size when the client sends none.
	DefaultPageSize = 30

	statsCacheTTL = 5 * time.Minute
)

// Pagination carries page metadata alongside a session listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// SessionPage is one page of a project's sessions.
type SessionPage struct {
	Sessions   []model.TimeSession `json:"sessions"`
	Pagination Pagination          `json:"pagination"`
}

// ProjectStats aggregates a project's closed sessions. TotalSessions
// counts every session, open or closed; CompletedSessions counts only
// the closed ones that TotalHours and UniqueDays are computed over.
type ProjectStats struct {
	TotalHours        float64 `json:"totalHours"`
	TotalSessions     int64   `json:"totalSessions"`
	CompletedSessions int64   `json:"completedSessions"`
	UniqueDays        int     `json:"uniqueDays"`
}

// SessionService manages the per-project timer lifecycle: Idle and
// Running, with at most one open session per project at any time.
type SessionService interface {
	Start(ctx context.Context, userID, projectID uint, comment string) (*model.TimeSession, error)
	Stop(ctx context.Context, userID, projectID, sessionID uint, endTime time.Time, comment *string) (*model.TimeSession, error)
	List(ctx context.Context, userID, projectID uint, page, limit int) (*SessionPage, error)
	Stats(ctx context.Context, userID, projectID uint) (*ProjectStats, error)
}

type sessionService struct {
	projectRepo repository.ProjectRepository
	sessionRepo repository.SessionRepository
	cache       *cache.Client
	now         func() time.Time
}

// NewSessionService creates a new session service.
func NewSessionService(projectRepo repository.ProjectRepository, sessionRepo repository.SessionRepository, cache *cache.Client) SessionService {
	return &sessionService{
		projectRepo: projectRepo,
		sessionRepo: sessionRepo,
		cache:       cache,
		now:         time.Now,
	}
}

func statsCacheKey(projectID uint) string {
	return fmt.Sprintf("stats:project:%d", projectID)
}

// requireProject resolves the project for the owner, collapsing
// "absent" and "not yours" into the same not-found error.
func (s *sessionService) requireProject(ctx context.Context, userID, projectID uint) error {
	if _, err := s.projectRepo.FindByIDAndUser(ctx, projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProjectNotFound
		}
		return fmt.Errorf("find project: %w", err)
	}
	return nil
}

// Start opens a timer on an idle project. A project with a running
// session refuses with ErrSessionActive; the check and the insert are
// one atomic statement, so concurrent starts cannot both win.
func (s *sessionService) Start(ctx context.Context, userID, projectID uint, comment string) (*model.TimeSession, error) {
	if err := s.requireProject(ctx, userID, projectID); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.Start(ctx, projectID, userID, s.now(), comment)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		if errors.Is(err, apperrors.ErrSessionActive) {
			return nil, apperrors.ErrSessionActive
		}
		return nil, fmt.Errorf("start session: %w", err)
	}

	_ = s.cache.Delete(ctx, statsCacheKey(projectID))
	return session, nil
}

// Stop closes the running session. The session must match the given
// id, project and owner and still be open; anything else is not found
// and nothing is mutated. A provided comment overwrites the existing
// one, a nil comment leaves it alone.
func (s *sessionService) Stop(ctx context.Context, userID, projectID, sessionID uint, endTime time.Time, comment *string) (*model.TimeSession, error) {
	if err := s.requireProject(ctx, userID, projectID); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.Stop(ctx, sessionID, projectID, userID, endTime, comment)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("stop session: %w", err)
	}

	_ = s.cache.Delete(ctx, statsCacheKey(projectID))
	return session, nil
}

// List returns a page of the project's sessions, newest start first.
// Pages beyond the range come back empty with consistent metadata.
func (s *sessionService) List(ctx context.Context, userID, projectID uint, page, limit int) (*SessionPage, error) {
	if err := s.requireProject(ctx, userID, projectID); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}

	sessions, err := s.sessionRepo.ListByProject(ctx, projectID, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	total, err := s.sessionRepo.CountByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &SessionPage{
		Sessions: sessions,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

// Stats aggregates closed sessions: summed duration in hours and the
// number of distinct UTC calendar dates worked. Results are cached
// briefly and invalidated on start, stop and project delete.
func (s *sessionService) Stats(ctx context.Context, userID, projectID uint) (*ProjectStats, error) {
	if err := s.requireProject(ctx, userID, projectID); err != nil {
		return nil, err
	}

	if data, _ := s.cache.Get(ctx, statsCacheKey(projectID)); data != nil {
		var cached ProjectStats
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	closed, err := s.sessionRepo.ClosedByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load closed sessions: %w", err)
	}
	total, err := s.sessionRepo.CountByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	var totalMillis int64
	days := make(map[string]struct{}, len(closed))
	for _, session := range closed {
		totalMillis += session.Duration().Milliseconds()
		days[session.StartTime.UTC().Format("2006-01-02")] = struct{}{}
	}

	stats := &ProjectStats{
		TotalHours:        float64(totalMillis) / float64(time.Hour/time.Millisecond),
		TotalSessions:     total,
		CompletedSessions: int64(len(closed)),
		UniqueDays:        len(days),
	}

	if payload, err := json.Marshal(stats); err == nil {
		_ = s.cache.Set(ctx, statsCacheKey(projectID), payload, statsCacheTTL)
	}

	return stats, nil
}
