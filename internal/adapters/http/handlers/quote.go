package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-widget/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-widget/internal/app"
)

// QuoteHandler handles quote submission.
type QuoteHandler struct {
	submission *app.SubmissionController
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(submission *app.SubmissionController) *QuoteHandler {
	if submission == nil {
		panic("QuoteHandler: submission controller is required")
	}

	return &QuoteHandler{
		submission: submission,
	}
}

// SubmitQuote handles POST /api/v1/quotes.
// It adds a user-written quote to the quote service and returns the
// resulting form state.
//
// @Summary Add a quote
// @Description Sends a quote and author to the quote service
// @Tags quotes
// @Accept json
// @Produce json
// @Param quote body dto.SubmitQuoteRequest true "Quote"
// @Success 201 {object} dto.FormStateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) SubmitQuote(c *gin.Context) {
	var req dto.SubmitQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	form, err := h.submission.Submit(c.Request.Context(), req.ToDraft())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewFormStateResponse(form))
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	rg.POST("/quotes", h.SubmitQuote)
}
