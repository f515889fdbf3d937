// Package main serves the random quote widget over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/quote-widget/internal/adapters/clients"
	"github.com/jsamuelsen/quote-widget/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-widget/internal/adapters/http"
	"github.com/jsamuelsen/quote-widget/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-widget/internal/adapters/render"
	"github.com/jsamuelsen/quote-widget/internal/app"
	"github.com/jsamuelsen/quote-widget/internal/platform/config"
	"github.com/jsamuelsen/quote-widget/internal/platform/logging"
	"github.com/jsamuelsen/quote-widget/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-widget/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting quote widget",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("quote_service", cfg.Services.Quote.BaseURL),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	metrics, err := telemetry.NewWidgetMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("registering widget metrics: %w", err)
	}

	// 5. Quote service client (ACL over the instrumented HTTP client)
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Quote.BaseURL,
		ServiceName: cfg.Services.Quote.Name,
		Timeout:     cfg.Client.Timeout,
		UserAgent:   cfg.App.Name + "/" + Version,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	quoteClient := acl.NewQuoteClient(acl.QuoteClientConfig{
		Client: httpClient,
		Logger: logger,
	})

	// 6. Controllers and the widget lifecycle
	refresh := app.NewRefreshController(app.RefreshControllerConfig{
		QuoteClient:  quoteClient,
		Logger:       logger,
		Metrics:      metrics,
		FetchTimeout: cfg.Widget.FetchTimeout,
	})
	submission := app.NewSubmissionController(app.SubmissionControllerConfig{
		QuoteClient:   quoteClient,
		Executor:      app.NewExecutor(logger),
		Logger:        logger,
		Metrics:       metrics,
		SubmitTimeout: cfg.Client.Timeout,
	})
	widget := app.NewWidget(app.WidgetConfig{
		Refresh:    refresh,
		Submission: submission,
		Interval:   cfg.Widget.RefreshInterval,
		Logger:     logger,
	})

	renderer, err := render.NewPNGRenderer(render.Config{
		Scale:             cfg.Export.Scale,
		Width:             cfg.Export.Width,
		WatermarkFontSize: cfg.Export.FontSize,
	})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	export := app.NewExportService(app.ExportServiceConfig{
		Display:   refresh,
		Renderer:  renderer,
		Filename:  cfg.Export.Filename,
		Watermark: cfg.Export.Watermark,
		Metrics:   metrics,
		Logger:    logger,
	})

	// 7. Health checks
	healthRegistry := ports.NewHealthRegistry()
	for _, checker := range []ports.HealthChecker{quoteClient, widget} {
		if err := healthRegistry.Register(checker); err != nil {
			return fmt.Errorf("registering health check: %w", err)
		}
	}

	// 8. Handlers, router and server
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime).WithQuoteService(cfg.Services.Quote.BaseURL)
	widgetHandler := handlers.NewWidgetHandler(widget, export)

	pageHandler, err := handlers.NewPageHandler(widgetHandler, "Random Quote")
	if err != nil {
		return fmt.Errorf("loading page template: %w", err)
	}

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:        logger,
		AppConfig:     &cfg.App,
		HealthHandler: handlers.NewHealthHandler(healthRegistry, buildInfo, widget.Name()),
		WidgetHandler: widgetHandler,
		QuoteHandler:  handlers.NewQuoteHandler(submission),
		PageHandler:   pageHandler,
		Timeout:       cfg.Server.RequestTimeout,
	})

	// 9. Run the widget timer and the server together; either one ending
	// (signal or listener failure) unwinds the other.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		widget.Mount(gctx)
		<-gctx.Done()
		widget.Unmount()

		return nil
	})

	g.Go(func() error {
		return server.Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}
