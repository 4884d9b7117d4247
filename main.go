package main

import (
	"github.com/zaptlab/taskrewards/config"
	"github.com/zaptlab/taskrewards/models"
	"github.com/zaptlab/taskrewards/routes"
	"github.com/zaptlab/taskrewards/store"
	"github.com/zaptlab/taskrewards/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.Task{}, &models.TaskResponse{}, &models.RewardAccount{})

	r := routes.SetupRouter(store.NewGormStore(db))

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
