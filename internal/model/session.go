package model

import "time"

// TimeSession is a single timed work interval on a project. A nil
// EndTime means the timer is still running; at most one session per
// project may be open at any time.
//
// UserID duplicates the owning project's user so ownership checks can
// match on the session row alone.
type TimeSession struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	ProjectID uint       `json:"projectId" gorm:"not null;index"`
	UserID    uint       `json:"userId" gorm:"not null;index"`
	StartTime time.Time  `json:"startTime" gorm:"not null;index"`
	EndTime   *time.Time `json:"endTime" gorm:"index"`
	Comment   string     `json:"comment,omitempty" gorm:"type:text"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Open reports whether the session is still running.
func (s *TimeSession) Open() bool {
	return s.EndTime == nil
}

// Duration returns the elapsed time of a closed session, zero while open.
func (s *TimeSession) Duration() time.Duration {
	if s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}
