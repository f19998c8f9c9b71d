package main

import (
	"context"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"goccram/adapters/api"
	"goccram/adapters/postgres"
	"goccram/adapters/rng"
	"goccram/app"
	"goccram/internal"
	"goccram/internal/config"
	"goccram/internal/resampling"
	"goccram/ports"
	"goccram/ui"
)

func main() {
	// .env is optional; environment variables win
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}
	logger := internal.DefaultLogger

	var repo ports.AnalysisRepository
	if cfg.Database.Enabled {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		if err := postgres.Migrate(context.Background(), db); err != nil {
			log.Fatalf("migration: %v", err)
		}
		repo = postgres.NewAnalysisRepository(db)
		logger.Info("result persistence enabled")
	} else {
		logger.Warn("DATABASE_URL unset, results are not persisted")
	}

	driver := resampling.NewDriver(rng.NewCounterSource())
	service := app.NewAnalysisService(driver, repo, logger)

	uiApp := ui.NewApp(service)
	go func() {
		logger.Info("dashboard listening on :%s", cfg.Server.UIPort)
		if err := http.ListenAndServe(":"+cfg.Server.UIPort, uiApp.Router()); err != nil {
			log.Fatalf("dashboard: %v", err)
		}
	}()

	defaults := resampling.DefaultOptions()
	defaults.Resamples = cfg.Analysis.Resamples
	defaults.ConfidenceLevel = cfg.Analysis.ConfidenceLevel
	defaults.Workers = cfg.Analysis.Workers
	defaults.Seed = cfg.Analysis.Seed
	defaults.Parallel = cfg.Analysis.Parallel

	apiServer := api.NewServer(service, cfg.Server.GinMode, defaults)
	logger.Info("API listening on :%s", cfg.Server.APIPort)
	if err := apiServer.Run(":" + cfg.Server.APIPort); err != nil {
		log.Fatalf("api: %v", err)
	}
}
