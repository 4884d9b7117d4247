package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/zaptlab/taskrewards/config"
	"github.com/zaptlab/taskrewards/controllers"
	"github.com/zaptlab/taskrewards/middleware"
	"github.com/zaptlab/taskrewards/services"
	"github.com/zaptlab/taskrewards/store"
	"github.com/zaptlab/taskrewards/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(st store.Store) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// A known path hit with the wrong verb must answer 405, not 404.
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	submissionSvc := services.NewSubmissionService(st, !cfg.RejectResubmission)
	taskController := controllers.NewTaskController(st)
	submitController := controllers.NewSubmitController(submissionSvc)
	rewardController := controllers.NewRewardController(submissionSvc)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(), middleware.AuthRequired())
	api.GET("/getTasks", taskController.ListTasks)
	api.GET("/getUserRewards", rewardController.GetUserRewards)
	api.POST("/submitTask", submitController.SubmitTask)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, "Route not found")
	})

	return r
}
