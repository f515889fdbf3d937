package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-widget/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-widget/internal/app"
)

// WidgetHandler exposes the widget's display and form state over HTTP.
type WidgetHandler struct {
	widget *app.Widget
	export *app.ExportService
}

// NewWidgetHandler creates a widget handler.
// Panics if widget or export is nil.
func NewWidgetHandler(widget *app.Widget, export *app.ExportService) *WidgetHandler {
	if widget == nil || export == nil {
		panic("WidgetHandler: widget and export are required")
	}

	return &WidgetHandler{
		widget: widget,
		export: export,
	}
}

func (h *WidgetHandler) respond(c *gin.Context, status int) {
	c.JSON(status, dto.NewWidgetResponse(
		h.widget.Refresh().Snapshot(),
		h.widget.Submission().Snapshot(),
	))
}

// GetWidget handles GET /api/v1/widget.
//
// @Summary Current widget state
// @Tags widget
// @Produce json
// @Success 200 {object} dto.WidgetResponse
// @Router /api/v1/widget [get]
func (h *WidgetHandler) GetWidget(c *gin.Context) {
	h.respond(c, http.StatusOK)
}

// Refresh handles POST /api/v1/widget/refresh. It blocks until this
// refresh settles; a fetch failure is reported in the display state with
// a 200, just as the widget would show it.
//
// @Summary Fetch a new random quote
// @Tags widget
// @Produce json
// @Success 200 {object} dto.WidgetResponse
// @Router /api/v1/widget/refresh [post]
func (h *WidgetHandler) Refresh(c *gin.Context) {
	// The display is shared; a client hanging up must not turn it into an error.
	h.widget.Refresh().Refresh(context.WithoutCancel(c.Request.Context()))
	h.respond(c, http.StatusOK)
}

// ToggleForm handles POST /api/v1/widget/form/toggle.
//
// @Summary Open or close the add-quote form
// @Tags widget
// @Produce json
// @Success 200 {object} dto.WidgetResponse
// @Router /api/v1/widget/form/toggle [post]
func (h *WidgetHandler) ToggleForm(c *gin.Context) {
	h.widget.Submission().ToggleForm()
	h.respond(c, http.StatusOK)
}

// UpdateDraft handles PUT /api/v1/widget/draft.
//
// @Summary Replace the unsent draft
// @Tags widget
// @Accept json
// @Produce json
// @Param draft body dto.DraftRequest true "Draft"
// @Success 200 {object} dto.WidgetResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/widget/draft [put]
func (h *WidgetHandler) UpdateDraft(c *gin.Context) {
	var req dto.DraftRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	h.widget.Submission().UpdateDraft(req.ToDraft())
	h.respond(c, http.StatusOK)
}

// DismissNotice handles POST /api/v1/widget/notice/dismiss.
//
// @Summary Clear the success notice
// @Tags widget
// @Produce json
// @Success 200 {object} dto.WidgetResponse
// @Router /api/v1/widget/notice/dismiss [post]
func (h *WidgetHandler) DismissNotice(c *gin.Context) {
	h.widget.Submission().DismissNotice()
	h.respond(c, http.StatusOK)
}

// ExportImage handles GET /api/v1/widget/image and downloads the quote
// block as a PNG.
//
// @Summary Download the displayed quote as an image
// @Tags widget
// @Produce png
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/widget/image [get]
func (h *WidgetHandler) ExportImage(c *gin.Context) {
	artifact, err := h.export.Export(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

// WidgetStatePath is the full route of the state endpoint the page polls,
// as registered under /api/v1.
const WidgetStatePath = "/api/v1/widget"

// RegisterWidgetRoutes registers widget routes on the given router group.
func (h *WidgetHandler) RegisterWidgetRoutes(rg *gin.RouterGroup) {
	widget := rg.Group("/widget")
	widget.GET("", h.GetWidget)
	widget.POST("/refresh", h.Refresh)
	widget.POST("/form/toggle", h.ToggleForm)
	widget.PUT("/draft", h.UpdateDraft)
	widget.POST("/notice/dismiss", h.DismissNotice)
	widget.GET("/image", h.ExportImage)
}
