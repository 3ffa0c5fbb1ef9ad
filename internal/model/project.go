package model

import "time"

// Project is a unit of work owned by exactly one user. Deleting a
// project removes its sessions as well (handled in the repository).
type Project struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"userId" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relations
	Sessions []TimeSession `json:"-" gorm:"foreignKey:ProjectID"`
}
