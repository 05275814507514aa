package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.opentelemetry.io/otel/trace"

	"insiderdash/internal/config"
	apierrors "insiderdash/internal/errors"
	"insiderdash/internal/exporter"
	"insiderdash/internal/infrastructure"
	customMiddleware "insiderdash/internal/middleware"
	"insiderdash/internal/services"
	handlers "insiderdash/internal/transport/http"
	"insiderdash/pkg/contracts"
)

// Application represents the main application container
type Application struct {
	Config         *config.Config
	Logger         *slog.Logger
	Router         *chi.Mux
	Server         *http.Server
	OTelProviders  *infrastructure.OTelProviders
	Metrics        *infrastructure.PipelineMetrics
	ErrorHandler   *apierrors.ErrorHandler
	DatasetService *services.DatasetService
	HealthService  *services.HealthService
}

// New wires every component of the dashboard from cfg
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("config_file", cfg.Source()),
		slog.String("data_file", cfg.Pipeline.DataFile))

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFromTelemetry(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	datasetService, err := BuildDatasetService(cfg, services.NewSource(cfg.Pipeline.DataFile, cfg.Pipeline.DataPattern), metrics, providers.Tracer, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dataset service: %w", err)
	}

	a := &Application{
		Config:         cfg,
		Logger:         logger,
		OTelProviders:  providers,
		Metrics:        metrics,
		ErrorHandler:   apierrors.NewErrorHandler(logger, cfg.Logging.Development),
		DatasetService: datasetService,
		HealthService:  services.NewHealthService(config.AppVersion, contracts.BuildTime, datasetService, logger),
	}

	a.setupRouter()
	a.createServer()

	return a, nil
}

// BuildDatasetService creates the dataset service described by cfg reading
// from source. The CLI commands share it with the server.
func BuildDatasetService(cfg *config.Config, source services.Source, metrics *infrastructure.PipelineMetrics, tracer trace.Tracer, logger *slog.Logger) (*services.DatasetService, error) {
	loadOpts, normOpts, err := services.PipelineOptions(cfg.Pipeline)
	if err != nil {
		return nil, apierrors.NewConfigError("invalid pipeline configuration", err)
	}

	excel := exporter.NewExcelExporter(exporter.ExcelOptions{
		Filename:       cfg.Export.Filename,
		SheetName:      cfg.Export.SheetName,
		WidthPadding:   cfg.Export.WidthPadding,
		MaxColumnWidth: cfg.Export.MaxColumnWidth,
	}, logger)

	return services.NewDatasetService(services.DatasetServiceConfig{
		Source:       source,
		Load:         loadOpts,
		Normalize:    normOpts,
		TTL:          cfg.Pipeline.CacheTTL,
		DefaultScope: cfg.Export.DefaultScope,
		Excel:        excel,
		CSV:          exporter.NewCSVWriter(cfg.Export.CSVFilename, logger),
		Metrics:      metrics,
		Tracer:       tracer,
	}, logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// RequestID → RealIP → Logger → Recoverer → SecurityHeaders → RateLimit → OTel → Compress
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(apierrors.RecoveryMiddleware(a.ErrorHandler))
	if a.Config.Security.SecurityHeaders {
		r.Use(customMiddleware.SecurityHeaders)
	}
	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders, a.Metrics).Handler)
	r.Use(customMiddleware.Compress(5))

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	validator := customMiddleware.NewQueryValidator(a.Logger, a.ErrorHandler)

	dashboardHandler := handlers.NewDashboardHandler(a.DatasetService, validator, a.Config.Dashboard, a.Logger, a.ErrorHandler)
	r.With(middleware.Timeout(config.DefaultRequestTimeout)).Get("/", dashboardHandler.ServeHTTP)

	a.setupAPIRoutes(r, validator)

	r.Method(http.MethodGet, a.Config.Telemetry.MetricsPath,
		handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.ErrorHandler))

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, validator *customMiddleware.QueryValidator) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(middleware.Timeout(config.DefaultRequestTimeout))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		datasetHandler := handlers.NewDatasetHandler(a.DatasetService, validator, a.Logger, a.ErrorHandler)
		r.Mount("/dataset", datasetHandler.Routes())

		exportHandler := handlers.NewExportHandler(a.DatasetService, validator, a.Logger, a.ErrorHandler)
		r.Get("/export", exportHandler.GetPayload)
		r.Get("/export.xlsx", exportHandler.DownloadExcel)
		r.Get("/export.csv", exportHandler.DownloadCSV)

		clientLogHandler := handlers.NewClientLogHandler(a.Logger, a.ErrorHandler)
		r.Post("/client-log", clientLogHandler.Handle)
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts serving in the background. A listener failure cancels ctx
// through cancel.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("address", a.Server.Addr),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", a.Server.Addr))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}
	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("telemetry shutdown error: %w", err))
	}

	a.Logger.InfoContext(ctx, "Application stopped")
	return errors.Join(errs...)
}

// Run serves until ctx is cancelled or the process receives SIGINT/SIGTERM
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.InfoContext(ctx, "Received shutdown signal")

	return a.Stop(ctx)
}

// performStartupHealthCheck reports problems that would make the first
// dashboard request fail. None of them stop the server.
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	start := time.Now()

	if err := a.DatasetService.Ready(); err != nil {
		return fmt.Errorf("data source not ready: %w", err)
	}

	a.Logger.DebugContext(ctx, "Startup health check passed",
		slog.String("source", a.DatasetService.Source()),
		slog.Duration("duration", time.Since(start)))
	return nil
}
