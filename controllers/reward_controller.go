package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaptlab/taskrewards/services"
	"github.com/zaptlab/taskrewards/utils"
)

// RewardController exposes the read path of the reward ledger.
type RewardController struct {
	svc *services.SubmissionService
}

// NewRewardController creates a new controller instance.
func NewRewardController(svc *services.SubmissionService) *RewardController {
	return &RewardController{svc: svc}
}

// GetUserRewards returns the caller's running point total; users without a
// reward account read as zero.
func (r *RewardController) GetUserRewards(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "Authentication failed")
		return
	}

	total, err := r.svc.TotalRewards(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "Error fetching rewards")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"totalRewards": total})
}
