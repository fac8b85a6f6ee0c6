package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dashboardapp "github.com/programmatrix/backend/internal/application/dashboard"
	insightapp "github.com/programmatrix/backend/internal/application/insight"
	programapp "github.com/programmatrix/backend/internal/application/program"
	"github.com/programmatrix/backend/internal/domain/insight"
	"github.com/programmatrix/backend/internal/infrastructure/cache"
	"github.com/programmatrix/backend/internal/infrastructure/config"
	"github.com/programmatrix/backend/internal/infrastructure/event"
	"github.com/programmatrix/backend/internal/infrastructure/export"
	"github.com/programmatrix/backend/internal/infrastructure/logger"
	"github.com/programmatrix/backend/internal/infrastructure/persistence"
	"github.com/programmatrix/backend/internal/infrastructure/scheduler"
	"github.com/programmatrix/backend/internal/infrastructure/storage"
	"github.com/programmatrix/backend/internal/infrastructure/telemetry"
	"github.com/programmatrix/backend/internal/interfaces/http/handler"
	"github.com/programmatrix/backend/internal/interfaces/http/middleware"
	"github.com/programmatrix/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ProgramMatrix Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize OpenTelemetry tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	// Trace database queries when telemetry is enabled
	if cfg.Telemetry.Enabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DefaultDBTracingConfig(), log)
		if err := dbTracing.Register(db.DB); err != nil {
			log.Warn("Failed to register database tracing plugin", zap.Error(err))
		}
	}

	// Initialize repositories
	widgetRepo := persistence.NewGormWidgetRepository(db.DB)
	programRepo := persistence.NewGormProgramRepository(db.DB)
	riskRepo := persistence.NewGormRiskRepository(db.DB)
	financialRecordRepo := persistence.NewGormFinancialRecordRepository(db.DB)
	batchReportRepo := persistence.NewGormBatchReportRepository(db.DB)

	// Initialize report result cache (memory or redis per config)
	resultCache, err := cache.NewResultCacheFactory(cfg.Cache, cfg.Redis, cache.WithLogger(log)).CreateCache()
	if err != nil {
		log.Fatal("Failed to create result cache", zap.Error(err))
	}
	log.Info("Result cache initialized",
		zap.String("backend", cfg.Cache.Backend),
		zap.Duration("ttl", cfg.Cache.TTL),
	)

	// Initialize event bus with an audit trail subscriber
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Select the report backend: real metric aggregation against the
	// database, or the seeded sample backend for demos and local work
	var reportBackend insight.ReportBackend
	if cfg.Report.SampleBackend {
		reportBackend = persistence.NewSampleReportBackend(time.Now().UnixNano(), cfg.Report.SampleLatency, log)
		log.Info("Using sample report backend", zap.Duration("latency", cfg.Report.SampleLatency))
	} else {
		reportBackend = persistence.NewGormMetricBackend(db.DB, log)
	}

	// Initialize application services
	reportService := insightapp.NewReportService(reportBackend, resultCache, eventBus, log)
	widgetService := dashboardapp.NewWidgetService(widgetRepo, eventBus, log)
	programService := programapp.NewProgramService(programRepo, riskRepo, financialRecordRepo, eventBus, log)

	// Debouncer coalesces rapid report config changes into one generation
	debouncer := insightapp.NewDebouncer(reportService, cfg.Report.DebounceWindow)
	go drainDebouncerResults(debouncer, log)
	defer debouncer.Flush()

	// Export service: PNG rendering and artifact storage are optional
	exportOpts := make([]insightapp.ExportServiceOption, 0, 2)
	if cfg.Export.RendererEnabled {
		renderer, err := export.NewChromedpRenderer(&export.ChromedpConfig{
			DefaultTimeout: cfg.Export.RenderTimeout,
			NoSandbox:      true,
			Logger:         log,
		})
		if err != nil {
			log.Fatal("Failed to initialize chart renderer", zap.Error(err))
		}
		defer func() {
			if err := renderer.Close(); err != nil {
				log.Error("Error closing chart renderer", zap.Error(err))
			}
		}()
		exportOpts = append(exportOpts, insightapp.WithChartRenderer(renderer))
		log.Info("Chart renderer enabled", zap.Duration("render_timeout", cfg.Export.RenderTimeout))
	}
	switch {
	case cfg.Export.S3Enabled:
		objectStorage, err := storage.NewS3ObjectStorage(&cfg.Export, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize S3 object storage", zap.Error(err))
		}
		if err := objectStorage.EnsureBucket(context.Background()); err != nil {
			log.Fatal("Failed to ensure export bucket", zap.Error(err))
		}
		exportOpts = append(exportOpts, insightapp.WithObjectStorage(objectStorage))
		log.Info("S3 artifact storage enabled", zap.String("bucket", cfg.Export.S3Bucket))
	case cfg.App.Env != "production":
		// In-memory stub keeps artifact URLs working in local setups
		exportOpts = append(exportOpts, insightapp.WithObjectStorage(storage.NewStubObjectStorage()))
	}
	exportService := insightapp.NewExportService(log, exportOpts...)

	// Start the batch report runner (if enabled)
	if cfg.Scheduler.Enabled {
		runner := scheduler.NewBatchRunner(scheduler.BatchRunnerConfig{
			Enabled:       cfg.Scheduler.Enabled,
			PollInterval:  cfg.Scheduler.PollInterval,
			BatchSize:     cfg.Scheduler.BatchSize,
			JobTimeout:    cfg.Scheduler.JobTimeout,
			RetryAttempts: cfg.Scheduler.RetryAttempts,
			RetryDelay:    cfg.Scheduler.RetryDelay,
		}, reportService, batchReportRepo, log)
		if err := runner.Start(context.Background()); err != nil {
			log.Fatal("Failed to start batch report runner", zap.Error(err))
		}
		defer func() {
			if err := runner.Stop(context.Background()); err != nil {
				log.Error("Error stopping batch report runner", zap.Error(err))
			}
		}()
		log.Info("Batch report runner started",
			zap.Duration("poll_interval", cfg.Scheduler.PollInterval),
			zap.Int("batch_size", cfg.Scheduler.BatchSize),
		)
	}

	// Queue writes go through the batch service; the runner drains them
	batchService := insightapp.NewBatchService(batchReportRepo, reportService, log)

	// Initialize HTTP handlers
	insightHandler := handler.NewInsightHandler(reportService, exportService)
	insightHandler.SetDebouncer(debouncer)
	insightHandler.SetBatchService(batchService)
	dashboardHandler := handler.NewDashboardHandler(widgetService)
	programHandler := handler.NewProgramHandler(programService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Record request spans (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}

	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health and readiness endpoints (outside API versioning)
	systemHandler := handler.NewSystemHandler()
	systemHandler.AddReadinessChecker("database", databasePinger{db})
	systemHandler.RegisterRoutes(engine)

	// Setup API routes
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(insightHandler).
		Register(dashboardHandler).
		Register(programHandler).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// drainDebouncerResults logs the outcome of every debounced generation.
// Handlers that wait synchronously receive the same result through the
// request path; this channel exists so fire-and-forget config changes
// still surface failures.
func drainDebouncerResults(d *insightapp.Debouncer, log *zap.Logger) {
	for result := range d.Results() {
		if result.Err != nil {
			log.Warn("Debounced report generation failed",
				zap.String("org_id", result.OrgID.String()),
				zap.Error(result.Err),
			)
			continue
		}
		datasets := 0
		if result.Data != nil {
			datasets = len(result.Data.Datasets)
		}
		log.Debug("Debounced report generation completed",
			zap.String("org_id", result.OrgID.String()),
			zap.Int("datasets", datasets),
		)
	}
}

// databasePinger adapts persistence.Database to the readiness checker
// interface; the underlying pool ping takes no context.
type databasePinger struct {
	db *persistence.Database
}

func (p databasePinger) Ping(_ context.Context) error {
	return p.db.Ping()
}
