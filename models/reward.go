package models

import "time"

// RewardAccount tracks the running point total for one user. UserID carries
// a unique index so a user can never own more than one row; credits go
// through an atomic upsert only.
type RewardAccount struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"size:36;uniqueIndex;not null" json:"user_id"`
	TotalRewards int       `gorm:"not null;default:0" json:"total_rewards"`
	UpdatedAt    time.Time `json:"updated_at"`
}
