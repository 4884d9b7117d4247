package store

import (
	"context"
	"errors"

	"github.com/zaptlab/taskrewards/models"
)

// ErrNotFound is returned for point lookups that resolve to no row.
var ErrNotFound = errors.New("record not found")

// Store is the persistence handle injected into services. The gorm
// implementation lives in this package; tests substitute mocks.
type Store interface {
	// GetTask looks a task up by primary key. Absence is ErrNotFound.
	GetTask(ctx context.Context, taskID uint) (*models.Task, error)
	// ListTasks returns the full task catalog ordered by id.
	ListTasks(ctx context.Context) ([]models.Task, error)
	// HasResponse reports whether the user already submitted for the task.
	HasResponse(ctx context.Context, userID string, taskID uint) (bool, error)
	// RecordSubmission appends the response row and credits the reward
	// account in one transaction. The credit is an atomic server-side
	// increment; either both writes land or neither does.
	RecordSubmission(ctx context.Context, resp *models.TaskResponse, reward int) error
	// GetTotalRewards returns the stored total, or 0 when the user has
	// no reward account yet.
	GetTotalRewards(ctx context.Context, userID string) (int, error)
}
