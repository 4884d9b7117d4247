package models

import "time"

// Task is a unit of work with a fixed point reward. Rows are seeded
// out-of-band; no mutation path exists in the API.
type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Reward      int       `gorm:"not null" json:"reward"`
	CreatedAt   time.Time `json:"created_at"`
}
