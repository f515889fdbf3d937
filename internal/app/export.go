package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/quote-widget/internal/domain"
	"github.com/jsamuelsen/quote-widget/internal/ports"
)

// DefaultExportFilename is the name offered for downloaded images.
const DefaultExportFilename = "quote.png"

// DefaultWatermark is burned into every exported image.
const DefaultWatermark = "From weirdrichapi.com"

// DisplaySource exposes the state being displayed.
type DisplaySource interface {
	Snapshot() domain.DisplayState
}

// Artifact is an exported image ready to hand to the user.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportServiceConfig contains configuration for the export service.
type ExportServiceConfig struct {
	Display   DisplaySource
	Renderer  ports.QuoteRenderer
	Filename  string
	Watermark string
	Metrics   Metrics
	Logger    *slog.Logger
}

// ExportService rasterizes the displayed quote block.
type ExportService struct {
	display   DisplaySource
	renderer  ports.QuoteRenderer
	filename  string
	watermark string
	metrics   Metrics
	logger    *slog.Logger
}

// NewExportService creates an export service.
// Panics if Display or Renderer is nil.
func NewExportService(cfg ExportServiceConfig) *ExportService {
	if cfg.Display == nil || cfg.Renderer == nil {
		panic("ExportService: Display and Renderer are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	filename := cfg.Filename
	if filename == "" {
		filename = DefaultExportFilename
	}

	watermark := cfg.Watermark
	if watermark == "" {
		watermark = DefaultWatermark
	}

	return &ExportService{
		display:   cfg.Display,
		renderer:  cfg.Renderer,
		filename:  filename,
		watermark: watermark,
		metrics:   metricsOrNoop(cfg.Metrics),
		logger:    logger.With(slog.String("component", "export")),
	}
}

// Export renders the quote currently on display. It returns a
// domain.NotFoundError when no quote block is showing (loading, errored or
// never fetched). Render failures are returned and change no state.
func (s *ExportService) Export(ctx context.Context) (Artifact, error) {
	state := s.display.Snapshot()
	if state.Phase != domain.PhaseLoaded || state.Quote.IsZero() {
		s.metrics.ExportCompleted(ResultEmpty)

		return Artifact{}, domain.NewNotFoundError("displayed quote", "")
	}

	data, err := s.renderer.Render(ctx, ports.RenderRequest{
		Quote:           state.Quote,
		BackgroundColor: state.BackgroundColor,
		Watermark:       s.watermark,
	})
	if err != nil {
		s.metrics.ExportCompleted(ResultFailure)
		s.logger.ErrorContext(ctx, "quote export failed", slog.Any("error", err))

		return Artifact{}, fmt.Errorf("rendering quote image: %w", err)
	}

	s.metrics.ExportCompleted(ResultSuccess)
	s.logger.InfoContext(ctx, "quote exported",
		slog.String("filename", s.filename),
		slog.Int("bytes", len(data)),
		slog.Uint64("generation", state.Generation),
	)

	return Artifact{
		Filename:    s.filename,
		ContentType: s.renderer.ContentType(),
		Data:        data,
	}, nil
}
