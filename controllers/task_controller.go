package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zaptlab/taskrewards/config"
	"github.com/zaptlab/taskrewards/middleware"
	"github.com/zaptlab/taskrewards/store"
	"github.com/zaptlab/taskrewards/utils"
)

const taskListCacheKey = "cache:tasks:list"

// TaskController serves the read-only task catalog.
type TaskController struct {
	store store.Store
}

// NewTaskController creates a new controller instance.
func NewTaskController(st store.Store) *TaskController {
	return &TaskController{store: st}
}

// ListTasks returns every task ordered by id. The catalog is immutable in
// scope, so the serialized list is cached in Redis.
func (t *TaskController) ListTasks(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(taskListCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	tasks, err := t.store.ListTasks(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "Error fetching tasks")
		return
	}

	cfg := config.Get()
	utils.CacheSetJSON(taskListCacheKey, tasks, time.Duration(cfg.TaskCacheTTLSeconds)*time.Second)

	ctx.JSON(http.StatusOK, tasks)
}

// getUserID reads the authenticated user's external identifier from context.
func getUserID(ctx *gin.Context) (string, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return "", false
	}
	id, ok := value.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
