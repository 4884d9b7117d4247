package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zaptlab/taskrewards/models"
)

// GormStore implements Store on top of a shared *gorm.DB connection pool.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an initialized gorm handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// GetTask performs a primary-key point lookup.
func (s *GormStore) GetTask(ctx context.Context, taskID uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.WithContext(ctx).First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// ListTasks returns all tasks ordered by id.
func (s *GormStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// HasResponse reports whether a response row exists for (user, task).
func (s *GormStore) HasResponse(ctx context.Context, userID string, taskID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.TaskResponse{}).
		Where("user_id = ? AND task_id = ?", userID, taskID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RecordSubmission inserts the response and credits the reward account in a
// single transaction. The credit uses an upsert with a server-side increment
// so concurrent submissions never lose an update; the unique index on
// reward_accounts.user_id is what the conflict clause keys on.
func (s *GormStore) RecordSubmission(ctx context.Context, resp *models.TaskResponse, reward int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(resp).Error; err != nil {
			return err
		}

		account := models.RewardAccount{
			UserID:       resp.UserID,
			TotalRewards: reward,
			UpdatedAt:    time.Now(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_rewards": gorm.Expr("total_rewards + ?", reward),
				"updated_at":    time.Now(),
			}),
		}).Create(&account).Error
	})
}

// GetTotalRewards reads the stored total; a missing row reads as zero.
func (s *GormStore) GetTotalRewards(ctx context.Context, userID string) (int, error) {
	var account models.RewardAccount
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return account.TotalRewards, nil
}
