// Package handlers holds the gin handlers for the widget page, its API and
// the /-/ operational endpoints.
package handlers

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/quote-widget/internal/ports"
)

// statusDegraded is reported when only non-critical checks fail: the widget
// still serves its page and shows the fetch error in place of a quote.
const statusDegraded = "degraded"

// BuildInfo is served at /-/build. Version, Commit and BuildTime come from
// ldflags.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`

	// QuoteService is the upstream base URL the widget talks to.
	QuoteService string `json:"quoteService,omitempty"`
}

// NewBuildInfo fills in the Go version.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// WithQuoteService records the upstream the binary was configured with.
func (b BuildInfo) WithQuoteService(baseURL string) BuildInfo {
	b.QuoteService = baseURL

	return b
}

// HealthHandler serves liveness, readiness, build info and metrics.
type HealthHandler struct {
	registry  ports.HealthRegistry
	buildInfo BuildInfo
	critical  map[string]struct{}
}

// NewHealthHandler creates the handler. Checks named in critical make
// /-/ready fail with 503; any other failing check only degrades it. With no
// names given every check is critical.
func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo, critical ...string) *HealthHandler {
	h := &HealthHandler{registry: registry, buildInfo: buildInfo}

	if len(critical) > 0 {
		h.critical = make(map[string]struct{}, len(critical))
		for _, name := range critical {
			h.critical[name] = struct{}{}
		}
	}

	return h
}

type livenessResponse struct {
	Status string `json:"status"`
}

// Liveness answers 200 while the process runs. It checks nothing else.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, livenessResponse{Status: "ok"})
}

type readinessResponse struct {
	Status string                        `json:"status"`
	Checks map[string]*ports.CheckResult `json:"checks,omitempty"`
}

// Readiness runs every registered check. A failing critical check answers
// 503; a failing non-critical one (the quote service, typically) answers 200
// with status "degraded".
func (h *HealthHandler) Readiness(c *gin.Context) {
	result := h.registry.CheckAll(c.Request.Context())

	resp := readinessResponse{Status: string(ports.HealthStatusHealthy), Checks: result.Checks}
	status := http.StatusOK

	for name, check := range result.Checks {
		if check.Status != ports.HealthStatusUnhealthy {
			continue
		}

		if h.isCritical(name) {
			resp.Status = string(ports.HealthStatusUnhealthy)
			status = http.StatusServiceUnavailable

			break
		}

		resp.Status = statusDegraded
	}

	c.JSON(status, resp)
}

func (h *HealthHandler) isCritical(name string) bool {
	if h.critical == nil {
		return true
	}

	_, ok := h.critical[name]

	return ok
}

// BuildInfoHandler serves /-/build.
func (h *HealthHandler) BuildInfoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}

// MetricsHandler exposes the default prometheus registry, which carries the
// widget's refresh, submission and export metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RegisterHealthRoutes mounts /-/live, /-/ready, /-/build and /-/metrics.
func (h *HealthHandler) RegisterHealthRoutes(engine *gin.Engine) {
	ops := engine.Group("/-")
	ops.GET("/live", h.Liveness)
	ops.GET("/ready", h.Readiness)
	ops.GET("/build", h.BuildInfoHandler)
	ops.GET("/metrics", gin.WrapH(MetricsHandler()))
}
