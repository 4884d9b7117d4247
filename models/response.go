package models

import (
	"time"

	"gorm.io/gorm"
)

// TaskResponse stores one submitted answer. The table is append-only:
// a user may hold several rows for the same task.
type TaskResponse struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TaskID      uint      `gorm:"index;not null" json:"task_id"`
	UserID      string    `gorm:"size:36;index;not null" json:"user_id"`
	Response    string    `gorm:"type:text" json:"response"`
	CompletedAt time.Time `json:"completed_at"`
}

// BeforeCreate hook ensures the completion timestamp is set even when not provided.
func (r *TaskResponse) BeforeCreate(tx *gorm.DB) error {
	if r.CompletedAt.IsZero() {
		r.CompletedAt = time.Now()
	}
	return nil
}
