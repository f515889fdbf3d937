//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-widget/internal/adapters/clients"
	"github.com/jsamuelsen/quote-widget/internal/adapters/clients/acl"
	transport "github.com/jsamuelsen/quote-widget/internal/adapters/http"
	"github.com/jsamuelsen/quote-widget/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-widget/internal/adapters/render"
	"github.com/jsamuelsen/quote-widget/internal/app"
	"github.com/jsamuelsen/quote-widget/internal/platform/config"
	"github.com/jsamuelsen/quote-widget/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// apiQuote is the quote service's wire shape.
type apiQuote struct {
	QuoteText string `json:"quoteText"`
	Author    string `json:"author"`
}

// fakeQuoteAPI stands in for the public quote service.
type fakeQuoteAPI struct {
	server *httptest.Server

	mu           sync.Mutex
	quotes       []apiQuote
	next         int
	randomStatus int
	randomBody   string
	submitStatus int
	submitGate   chan struct{}
	delay        time.Duration
	submitted    []apiQuote

	randomCalls atomic.Int32
	submitCalls atomic.Int32
}

func newFakeQuoteAPI(t *testing.T) *fakeQuoteAPI {
	t.Helper()

	api := &fakeQuoteAPI{
		quotes: []apiQuote{
			{QuoteText: "Simplicity is the ultimate sophistication.", Author: "Leonardo da Vinci"},
			{QuoteText: "Well begun is half done.", Author: "Aristotle"},
			{QuoteText: "Fortune favors the bold.", Author: "Virgil"},
		},
		submitStatus: http.StatusCreated,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+acl.RandomQuotePath, api.random)
	mux.HandleFunc("POST "+acl.SubmitQuotePath, api.submit)

	api.server = httptest.NewServer(mux)
	t.Cleanup(api.server.Close)

	return api
}

func (a *fakeQuoteAPI) random(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	delay, status, body := a.delay, a.randomStatus, a.randomBody
	q := a.quotes[a.next%len(a.quotes)]
	a.next++
	a.mu.Unlock()

	a.randomCalls.Add(1)

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"upstream trouble"}`))

		return
	}

	if body != "" {
		_, _ = w.Write([]byte(body))

		return
	}

	_ = json.NewEncoder(w).Encode(q)
}

func (a *fakeQuoteAPI) submit(w http.ResponseWriter, r *http.Request) {
	a.submitCalls.Add(1)

	a.mu.Lock()
	gate := a.submitGate
	a.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	var q apiQuote
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		w.WriteHeader(http.StatusBadRequest)

		return
	}

	a.mu.Lock()
	status := a.submitStatus
	if status < http.StatusMultipleChoices {
		a.submitted = append(a.submitted, q)
	}
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(q)
}

func (a *fakeQuoteAPI) setRandomStatus(status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.randomStatus = status
}

func (a *fakeQuoteAPI) setRandomBody(body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.randomBody = body
}

func (a *fakeQuoteAPI) setSubmitStatus(status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.submitStatus = status
}

// holdSubmits parks every POST until the returned func is called.
func (a *fakeQuoteAPI) holdSubmits() func() {
	gate := make(chan struct{})

	a.mu.Lock()
	a.submitGate = gate
	a.mu.Unlock()

	var once sync.Once

	return func() { once.Do(func() { close(gate) }) }
}

func (a *fakeQuoteAPI) setDelay(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.delay = d
}

func (a *fakeQuoteAPI) submissions() []apiQuote {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]apiQuote(nil), a.submitted...)
}

// testClientConfig returns a client config aimed at baseURL with fast
// backoff and a low circuit threshold.
func testClientConfig(baseURL string) *clients.Config {
	return &clients.Config{
		ServiceName: "quote-service",
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   3,
			Timeout:       100 * time.Millisecond,
			HalfOpenLimit: 1,
		},
		Logger: discardLogger(),
	}
}

func newQuoteClient(t *testing.T, cfg *clients.Config) *acl.QuoteClient {
	t.Helper()

	client, err := clients.New(cfg)
	require.NoError(t, err)

	return acl.NewQuoteClient(acl.QuoteClientConfig{Client: client, Logger: discardLogger()})
}

// widgetStack is the HTTP surface wired to a fake quote service exactly the
// way the binary wires it.
type widgetStack struct {
	api        *fakeQuoteAPI
	client     *acl.QuoteClient
	refresh    *app.RefreshController
	submission *app.SubmissionController
	widget     *app.Widget
	export     *app.ExportService
	server     *httptest.Server
}

func newWidgetStack(t *testing.T, api *fakeQuoteAPI) *widgetStack {
	t.Helper()

	logger := discardLogger()
	s := &widgetStack{
		api:    api,
		client: newQuoteClient(t, testClientConfig(api.server.URL)),
	}

	s.refresh = app.NewRefreshController(app.RefreshControllerConfig{
		QuoteClient:  s.client,
		Logger:       logger,
		FetchTimeout: 5 * time.Second,
	})
	s.submission = app.NewSubmissionController(app.SubmissionControllerConfig{
		QuoteClient:   s.client,
		Executor:      app.NewExecutor(logger),
		Logger:        logger,
		SubmitTimeout: 5 * time.Second,
	})
	s.widget = app.NewWidget(app.WidgetConfig{
		Refresh:    s.refresh,
		Submission: s.submission,
		Interval:   time.Hour,
		Logger:     logger,
	})
	t.Cleanup(s.widget.Unmount)

	renderer, err := render.NewPNGRenderer(render.Config{})
	require.NoError(t, err)

	s.export = app.NewExportService(app.ExportServiceConfig{
		Display:   s.refresh,
		Renderer:  renderer,
		Watermark: "From weirdrichapi.com",
		Logger:    logger,
	})

	registry := ports.NewHealthRegistry()
	require.NoError(t, registry.Register(s.client))
	require.NoError(t, registry.Register(s.widget))

	widgetHandler := handlers.NewWidgetHandler(s.widget, s.export)
	page, err := handlers.NewPageHandler(widgetHandler, "Random Quote")
	require.NoError(t, err)

	engine := gin.New()
	transport.SetupRouter(engine, transport.RouterConfig{
		Logger:        logger,
		AppConfig:     &config.AppConfig{Name: "quote-widget", Version: "test", Environment: "test"},
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "abc123", "now"), s.widget.Name()),
		WidgetHandler: widgetHandler,
		QuoteHandler:  handlers.NewQuoteHandler(s.submission),
		PageHandler:   page,
		Timeout:       10 * time.Second,
	})

	s.server = httptest.NewServer(engine)
	t.Cleanup(s.server.Close)

	return s
}

// do sends a request to the widget server and returns status, headers and body.
func (s *widgetStack) do(ctx context.Context, method, path, body string) (int, http.Header, []byte, error) {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.server.URL+path, reader)
	if err != nil {
		return 0, nil, nil, err
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.server.Client().Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)

	return resp.StatusCode, resp.Header, data, err
}
