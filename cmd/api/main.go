package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/contentpulse/backend/internal/api/handlers"
	"github.com/contentpulse/backend/internal/insight"
	"github.com/contentpulse/backend/internal/metrics"
	"github.com/contentpulse/backend/internal/middleware/ratelimit"
	"github.com/contentpulse/backend/internal/middleware/security"
	"github.com/contentpulse/backend/internal/middleware/validation"
	"github.com/contentpulse/backend/internal/report"
	"github.com/contentpulse/backend/internal/storage/sqlite"
	"github.com/contentpulse/backend/internal/store/archive"
	"github.com/contentpulse/backend/internal/store/hot"
	"github.com/contentpulse/backend/pkg/config"
	appLogger "github.com/contentpulse/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting ContentPulse Analytics API Server")

	metrics.Init()

	historyStore, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer historyStore.Close()

	if err := historyStore.InitSchema(); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	hotStore, err := hot.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err != nil {
		appLogger.Fatal("Failed to create hot store client", zap.Error(err))
	}
	defer hotStore.Close()

	archiveStore := archive.NewClient(
		cfg.Archive.Endpoint,
		cfg.Archive.APIKey,
		cfg.Archive.TimeoutSec,
	)

	var synthesizer insight.Synthesizer
	if cfg.Insight.APIKey != "" {
		synthesizer = insight.NewClient(
			cfg.Insight.APIKey,
			cfg.Insight.Model,
			cfg.Insight.Temperature,
			cfg.Insight.MaxTokens,
			cfg.Insight.TimeoutSec,
		)
	} else {
		appLogger.Warn("No insight API key configured, reports will use template insights")
	}
	insightAdapter := insight.NewAdapter(synthesizer, insight.NewFallback())

	engine := report.NewEngine(hotStore, archiveStore, insightAdapter, historyStore, nil, cfg.Analytics)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Operator-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{}))

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()
	app.Use(limiter.Middleware())
	app.Use(validation.Middleware(validation.Config{
		MaxBodySize: cfg.Server.BodyLimit,
	}))

	reportHandler := handlers.NewReportHandler(engine, historyStore)
	wsHandler := handlers.NewWebSocketHandler(engine)

	api := app.Group("/api/v1")

	api.Post("/reports", reportHandler.GenerateReport)
	api.Get("/reports/history", reportHandler.GetReportHistory)

	api.Use("/reports/stream", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	api.Get("/reports/stream", websocket.New(wsHandler.HandleConnection))

	api.Get("/reports/:id", reportHandler.GetReport)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
