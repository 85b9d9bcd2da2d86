package app

import (
	"folio-backend/internal/benchmarks"
	"folio-backend/internal/config"
	"folio-backend/internal/database"
	"folio-backend/internal/health"
	"folio-backend/internal/holdings"
	"folio-backend/internal/middleware"
	"folio-backend/internal/snapshot"
	"folio-backend/internal/snapshots"
	"folio-backend/internal/uploads"
	"folio-backend/internal/wallets"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options carries external collaborators injected at startup.
type Options struct {
	// PositionSource scans wallets for DeFi positions. Nil leaves the scan
	// endpoint returning 503.
	PositionSource wallets.PositionSource
}

// CreateApp builds the Fiber app with all global middleware and route
// registration, opening the store and optional Redis connection.
func CreateApp(cfg *config.Config, opts Options) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.CORS(cfg.AllowedOrigin))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	db, err := database.Open(cfg.DatabaseURL, cfg.DatabasePath)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(redisOpts)
	}

	var bench uploads.BenchmarkSource
	if cfg.BenchmarkBaseURL != "" {
		bench = benchmarks.New(cfg.BenchmarkBaseURL, rdb, cfg.BenchmarkTTL)
	}

	engine := &snapshot.Engine{DB: db}
	uploadsSvc := &uploads.Service{DB: db, Engine: engine, Benchmarks: bench}

	// Health
	var pinger health.DBPinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}
	healthHandlers := &health.Handlers{Rdb: rdb, DB: pinger}
	app.Get("/health", healthHandlers.JSON)

	// Uploads (merge + summarize-and-save pipeline)
	uploadHandlers := &uploads.Handlers{Service: uploadsSvc}
	uploadGroup := app.Group("/api/v1/uploads")
	uploadGroup.Post("/holdings", uploadHandlers.CommitBatch)
	uploadGroup.Get("/history", uploadHandlers.History)

	// Holdings (read side)
	holdingHandlers := &holdings.Handlers{Service: &holdings.Service{DB: db}}
	holdingGroup := app.Group("/api/v1/holdings")
	holdingGroup.Get("/latest", holdingHandlers.Latest)
	holdingGroup.Get("/performers", holdingHandlers.Performers)
	holdingGroup.Get("/allocation", holdingHandlers.Allocation)
	holdingGroup.Get("/", holdingHandlers.At)

	// Snapshots (history, trends, data management)
	snapshotHandlers := &snapshots.Handlers{Service: &snapshots.Service{DB: db}}
	snapshotGroup := app.Group("/api/v1/snapshots")
	snapshotGroup.Get("/trends", snapshotHandlers.Trends)
	snapshotGroup.Get("/", snapshotHandlers.List)
	snapshotGroup.Delete("/:date", snapshotHandlers.Delete)
	snapshotGroup.Delete("/", snapshotHandlers.ClearAll)

	// Wallets (crypto DeFi scanning)
	walletHandlers := &wallets.Handlers{Service: &wallets.Service{
		DB:      db,
		Source:  opts.PositionSource,
		Uploads: uploadsSvc,
	}}
	walletGroup := app.Group("/api/v1/wallets")
	walletGroup.Post("/", walletHandlers.Add)
	walletGroup.Get("/", walletHandlers.List)
	walletGroup.Post("/:id/scan", walletHandlers.Scan)
	walletGroup.Delete("/:id", walletHandlers.Delete)

	return app, db, rdb, nil
}
