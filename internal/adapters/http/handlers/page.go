package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-widget/internal/adapters/http/dto"
)

//go:embed templates/index.html
var templates embed.FS

// DefaultPollInterval is how often the page re-reads widget state.
const DefaultPollInterval = 2 * time.Second

const (
	apiBase   = "/api/v1"
	imagePath = apiBase + "/widget/image"
)

type pageData struct {
	Title      string
	APIBase    string
	ImagePath  string
	PollMillis int64
	Widget     dto.WidgetResponse
}

// PageHandler serves the browser rendition of the widget.
type PageHandler struct {
	widget *WidgetHandler
	tmpl   *template.Template
	title  string
	poll   time.Duration
}

// NewPageHandler parses the embedded page template. The page reads and
// drives state through the same endpoints as any other client.
func NewPageHandler(widget *WidgetHandler, title string) (*PageHandler, error) {
	tmpl, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		widget: widget,
		tmpl:   tmpl,
		title:  title,
		poll:   DefaultPollInterval,
	}, nil
}

// Index handles GET /.
func (h *PageHandler) Index(c *gin.Context) {
	data := pageData{
		Title:      h.title,
		APIBase:    apiBase,
		ImagePath:  imagePath,
		PollMillis: h.poll.Milliseconds(),
		Widget: dto.NewWidgetResponse(
			h.widget.widget.Refresh().Snapshot(),
			h.widget.widget.Submission().Snapshot(),
		),
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// RegisterPageRoutes registers the page on the engine root.
func (h *PageHandler) RegisterPageRoutes(engine *gin.Engine) {
	engine.GET("/", h.Index)
}
