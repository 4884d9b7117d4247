package services

import (
	"context"
	"errors"
	"strings"

	"github.com/zaptlab/taskrewards/models"
	"github.com/zaptlab/taskrewards/store"
	"github.com/zaptlab/taskrewards/utils"
)

var (
	// ErrValidation means taskID or response text is missing.
	ErrValidation = errors.New("task id and response are required")
	// ErrTaskNotFound means the task id resolves to no task.
	ErrTaskNotFound = errors.New("task not found")
	// ErrAlreadyCompleted means the user already submitted for this task
	// and resubmission is disabled.
	ErrAlreadyCompleted = errors.New("task already completed")
)

// SubmissionService orchestrates the submit flow: task lookup, response
// append, reward credit. Both writes happen inside one store transaction.
type SubmissionService struct {
	store             store.Store
	allowResubmission bool
}

// NewSubmissionService creates a service bound to the given store.
// When allowResubmission is false, a second submission for the same task
// by the same user is rejected instead of re-credited.
func NewSubmissionService(st store.Store, allowResubmission bool) *SubmissionService {
	return &SubmissionService{store: st, allowResubmission: allowResubmission}
}

// SubmitResponse records one submission and returns the reward credited by
// this call (the task's reward value, not the running total).
func (s *SubmissionService) SubmitResponse(ctx context.Context, userID string, taskID uint, responseText string) (int, error) {
	responseText = strings.TrimSpace(responseText)
	if taskID == 0 || responseText == "" {
		return 0, ErrValidation
	}

	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, ErrTaskNotFound
		}
		return 0, err
	}

	if !s.allowResubmission {
		done, err := s.store.HasResponse(ctx, userID, taskID)
		if err != nil {
			return 0, err
		}
		if done {
			return 0, ErrAlreadyCompleted
		}
	}

	resp := models.TaskResponse{
		TaskID:   taskID,
		UserID:   userID,
		Response: utils.Sanitize(responseText),
	}
	if err := s.store.RecordSubmission(ctx, &resp, task.Reward); err != nil {
		return 0, err
	}

	return task.Reward, nil
}

// TotalRewards returns the user's stored point total, 0 when no account exists.
func (s *SubmissionService) TotalRewards(ctx context.Context, userID string) (int, error) {
	return s.store.GetTotalRewards(ctx, userID)
}
