// Package main runs the random quote widget in the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jsamuelsen/quote-widget/internal/adapters/clients"
	"github.com/jsamuelsen/quote-widget/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-widget/internal/adapters/render"
	"github.com/jsamuelsen/quote-widget/internal/adapters/tui"
	"github.com/jsamuelsen/quote-widget/internal/app"
	"github.com/jsamuelsen/quote-widget/internal/platform/config"
	"github.com/jsamuelsen/quote-widget/internal/platform/logging"
)

// Version is injected via ldflags.
var Version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// The program owns the terminal, so logs only go to the rolling file.
	logger := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
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
	}, nil)
	logging.SetDefault(logger)

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Quote.BaseURL,
		ServiceName: cfg.Services.Quote.Name,
		Timeout:     cfg.Client.Timeout,
		UserAgent:   cfg.App.Name + "-tui/" + Version,
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

	refresh := app.NewRefreshController(app.RefreshControllerConfig{
		QuoteClient:  quoteClient,
		Logger:       logger,
		FetchTimeout: cfg.Widget.FetchTimeout,
	})
	widget := app.NewWidget(app.WidgetConfig{
		Refresh: refresh,
		Submission: app.NewSubmissionController(app.SubmissionControllerConfig{
			QuoteClient:   quoteClient,
			Executor:      app.NewExecutor(logger),
			Logger:        logger,
			SubmitTimeout: cfg.Client.Timeout,
		}),
		Interval: cfg.Widget.RefreshInterval,
		Logger:   logger,
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
		Logger:    logger,
	})

	model := tui.New(ctx, tui.Config{
		Widget:    widget,
		Export:    export,
		ExportDir: cfg.Export.Dir,
		Logger:    logger,
	})
	defer model.Close()

	widget.Mount(ctx)
	defer widget.Unmount()

	logger.Info("terminal widget started", slog.String("version", Version))

	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && !(errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
		return fmt.Errorf("running terminal UI: %w", err)
	}

	return nil
}
