package dto

import (
	"time"

	"github.com/jsamuelsen/quote-widget/internal/domain"
)

// Toggle button labels.
const (
	ToggleLabelClosed = "Add Quote"
	ToggleLabelOpen   = "Cancel"
)

// SubmitQuoteRequest is the body of POST /api/v1/quotes. Blank fields are
// left to the submission controller so the form records why it was refused.
type SubmitQuoteRequest struct {
	QuoteText string `json:"quoteText" validate:"max=1000"`
	Author    string `json:"author"    validate:"max=200"`
}

// ToDraft converts the request into a domain draft. Text is passed through
// untouched; the service stores what the user typed.
func (r SubmitQuoteRequest) ToDraft() domain.Draft {
	return domain.Draft{Text: r.QuoteText, Author: r.Author}
}

// DraftRequest is the body of PUT /api/v1/widget/draft. Partial input is
// allowed, so neither field is required.
type DraftRequest struct {
	QuoteText string `json:"quoteText" validate:"max=1000"`
	Author    string `json:"author"    validate:"max=200"`
}

// ToDraft converts the request into a domain draft.
func (r DraftRequest) ToDraft() domain.Draft {
	return domain.Draft{Text: r.QuoteText, Author: r.Author}
}

// QuoteResponse is a quote as shown to clients.
type QuoteResponse struct {
	QuoteText string `json:"quoteText"`
	Author    string `json:"author"`
}

// DisplayStateResponse mirrors domain.DisplayState.
type DisplayStateResponse struct {
	Quote           *QuoteResponse `json:"quote,omitempty"`
	Phase           string         `json:"phase"`
	Loading         bool           `json:"loading"`
	Error           string         `json:"error,omitempty"`
	BackgroundColor string         `json:"backgroundColor"`
	Generation      uint64         `json:"generation"`
	UpdatedAt       *time.Time     `json:"updatedAt,omitempty"`
}

// NewDisplayStateResponse converts a display snapshot.
func NewDisplayStateResponse(s domain.DisplayState) DisplayStateResponse {
	resp := DisplayStateResponse{
		Phase:           string(s.Phase),
		Loading:         s.Loading,
		Error:           s.Error,
		BackgroundColor: s.BackgroundColor,
		Generation:      s.Generation,
	}

	if !s.Quote.IsZero() {
		resp.Quote = &QuoteResponse{QuoteText: s.Quote.Text, Author: s.Quote.Author}
	}

	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt
		resp.UpdatedAt = &updated
	}

	return resp
}

// FormStateResponse mirrors domain.FormState plus the label the toggle
// button should carry.
type FormStateResponse struct {
	Open        bool   `json:"open"`
	ToggleLabel string `json:"toggleLabel"`
	QuoteText   string `json:"quoteText"`
	Author      string `json:"author"`
	Error       string `json:"error,omitempty"`
	Notice      string `json:"notice,omitempty"`
	Submitting  bool   `json:"submitting"`
}

// NewFormStateResponse converts a form snapshot.
func NewFormStateResponse(f domain.FormState) FormStateResponse {
	label := ToggleLabelClosed
	if f.Open {
		label = ToggleLabelOpen
	}

	return FormStateResponse{
		Open:        f.Open,
		ToggleLabel: label,
		QuoteText:   f.Draft.Text,
		Author:      f.Draft.Author,
		Error:       f.Error,
		Notice:      f.Notice,
		Submitting:  f.Submitting,
	}
}

// WidgetResponse is the full widget as one document.
type WidgetResponse struct {
	Display DisplayStateResponse `json:"display"`
	Form    FormStateResponse    `json:"form"`
}

// NewWidgetResponse combines both snapshots.
func NewWidgetResponse(display domain.DisplayState, form domain.FormState) WidgetResponse {
	return WidgetResponse{
		Display: NewDisplayStateResponse(display),
		Form:    NewFormStateResponse(form),
	}
}
