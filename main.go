// @title Home Schooling Exam System API
// @version 1.0
// @description Backend for a home-schooling platform: study modules with
// @description Duolingo-style lesson progression, exams, assignments and XP.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"log"
	"path/filepath"

	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/app"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/config"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/pkg/configwatcher"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig(filepath.Join("configs", "config.yaml"), cfg, func(newCfg interface{}) {
		if c, ok := newCfg.(*config.Config); ok {
			application.OnConfigReload(c)
		}
	})

	application.Run()
}
