package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-widget/internal/app"
	"github.com/jsamuelsen/quote-widget/internal/mocks"
)

// fixedSource always yields the same value so background colors are stable.
type fixedSource uint32

func (s fixedSource) Uint32() uint32 { return uint32(s) }

type widgetFixture struct {
	client   *mocks.MockQuoteClient
	renderer *mocks.MockQuoteRenderer
	widget   *app.Widget
	handler  *WidgetHandler
	quotes   *QuoteHandler
	router   *gin.Engine
}

func newWidgetFixture(t *testing.T) *widgetFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := mocks.NewMockQuoteClient(t)
	renderer := mocks.NewMockQuoteRenderer(t)

	refresh := app.NewRefreshController(app.RefreshControllerConfig{
		QuoteClient: client,
		Logger:      logger,
		Random:      fixedSource(0xA1B2C3),
	})
	submission := app.NewSubmissionController(app.SubmissionControllerConfig{
		QuoteClient: client,
		Logger:      logger,
	})
	widget := app.NewWidget(app.WidgetConfig{
		Refresh:    refresh,
		Submission: submission,
		Logger:     logger,
	})
	export := app.NewExportService(app.ExportServiceConfig{
		Display:  refresh,
		Renderer: renderer,
		Logger:   logger,
	})

	f := &widgetFixture{
		client:   client,
		renderer: renderer,
		widget:   widget,
		handler:  NewWidgetHandler(widget, export),
		quotes:   NewQuoteHandler(submission),
		router:   gin.New(),
	}

	api := f.router.Group("/api/v1")
	f.handler.RegisterWidgetRoutes(api)
	f.quotes.RegisterQuoteRoutes(api)

	return f
}

func (f *widgetFixture) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	return w
}

func (f *widgetFixture) get(path string) *httptest.ResponseRecorder {
	return f.do(http.MethodGet, path, "")
}
