package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaptlab/taskrewards/services"
	"github.com/zaptlab/taskrewards/utils"
)

// SubmitController handles task submissions.
type SubmitController struct {
	svc *services.SubmissionService
}

// NewSubmitController creates a new controller instance.
func NewSubmitController(svc *services.SubmissionService) *SubmitController {
	return &SubmitController{svc: svc}
}

type submitTaskRequest struct {
	TaskID   uint   `json:"taskId"`
	Response string `json:"response"`
}

// SubmitTask records a response for a task and credits the task's reward to
// the caller. The body's reward field is the amount credited by this call.
func (s *SubmitController) SubmitTask(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "Authentication failed")
		return
	}

	var req submitTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "Task ID and response are required")
		return
	}

	reward, err := s.svc.SubmitResponse(ctx.Request.Context(), userID, req.TaskID, req.Response)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			utils.Error(ctx, http.StatusBadRequest, "Task ID and response are required")
		case errors.Is(err, services.ErrTaskNotFound):
			utils.Error(ctx, http.StatusNotFound, "Task not found")
		case errors.Is(err, services.ErrAlreadyCompleted):
			utils.Error(ctx, http.StatusConflict, "Task already completed")
		default:
			utils.Sugar.Errorf("submit task failed user=%s task=%d: %v", userID, req.TaskID, err)
			utils.Error(ctx, http.StatusInternalServerError, "Error submitting task")
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "reward": reward})
}
