// Package domain contains core business entities and rules.
package domain

import (
	"strings"
	"time"
)

// Quote is a quotation and its author as returned by the quote service.
// It is replaced wholesale on every successful fetch.
type Quote struct {
	Text   string
	Author string
}

// IsZero reports whether no quote is present.
func (q Quote) IsZero() bool {
	return q.Text == "" && q.Author == ""
}

// Phase is the lifecycle position of the displayed quote.
type Phase string

// Display phases.
const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseErrored Phase = "errored"
)

// DefaultBackgroundColor is shown until the first quote arrives.
const DefaultBackgroundColor = "#FFFFFF"

// DisplayState is everything a surface needs to render the quote block.
// Only the refresh controller mutates it; everyone else sees copies.
type DisplayState struct {
	Quote           Quote
	Phase           Phase
	Loading         bool
	Error           string
	BackgroundColor string

	// Generation is the token of the refresh whose result is displayed.
	Generation uint64
	UpdatedAt  time.Time
}

// NewDisplayState returns the state shown before any refresh has run.
func NewDisplayState() DisplayState {
	return DisplayState{
		Phase:           PhaseIdle,
		BackgroundColor: DefaultBackgroundColor,
	}
}

// Draft is a user-entered quote that has not been submitted yet.
type Draft struct {
	Text   string
	Author string
}

// Validate rejects drafts whose text or author is blank after trimming.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Text) == "" {
		return NewValidationError("quoteText", "must not be blank")
	}

	if strings.TrimSpace(d.Author) == "" {
		return NewValidationError("author", "must not be blank")
	}

	return nil
}

// IsEmpty reports whether both fields are empty.
func (d Draft) IsEmpty() bool {
	return d.Text == "" && d.Author == ""
}

// FormState is the add-quote form as seen by a surface.
type FormState struct {
	Open       bool
	Draft      Draft
	Error      string
	Notice     string
	Submitting bool
}
