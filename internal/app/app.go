package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/retvol/config"
	"github.com/guttosm/retvol/internal/api"
	"github.com/guttosm/retvol/internal/ingestion"
	"github.com/guttosm/retvol/internal/service"
	"github.com/guttosm/retvol/internal/storage"
)

// InitializeApp sets up the HTTP application and returns a configured Gin
// router, a cleanup function for graceful shutdown, and any initialization error.
//
// Responsibilities:
//   - Connects to PostgreSQL using InitPostgres().
//   - Wires repository → MonthlyService → Handler → router.
//   - Registers health and readiness probes.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	repo := storage.NewPricesRepository(db)
	svc := service.NewMonthlyService(repo)
	handler := api.NewHandler(svc)
	router := api.NewRouter(handler)

	api.NewHealthHandler(db.PingContext).Register(router)

	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}

// InitializeAnalysis wires the batch pipeline. A database connection is only
// opened when persist is true; cleanup is always safe to call.
func InitializeAnalysis(persist bool) (service.AnalysisService, func(), error) {
	cfg := config.AppConfig
	merger := ingestion.NewMerger(ingestion.NewResolver(cfg.Data.Dir), cfg.Data.Parallel)

	if !persist {
		return service.NewAnalysisService(merger, nil), func() {}, nil
	}

	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}
	svc := service.NewAnalysisService(merger, storage.NewPricesRepository(db))
	return svc, func() { _ = db.Close() }, nil
}
