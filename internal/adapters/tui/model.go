// Package tui is the terminal rendition of the quote widget. It is a
// bubbletea program driven by the same controllers as the HTTP surface:
// state arrives over the controllers' subscriptions and key presses call
// straight into them.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jsamuelsen/quote-widget/internal/app"
	"github.com/jsamuelsen/quote-widget/internal/domain"
)

const (
	fieldText = iota
	fieldAuthor
	fieldCount
)

const exportFileMode = 0o644

// Config wires the model to the application layer.
type Config struct {
	Widget    *app.Widget
	Export    *app.ExportService
	ExportDir string
	Logger    *slog.Logger
}

type (
	displayMsg struct{ state domain.DisplayState }
	formMsg    struct{ state domain.FormState }

	// subscriptionClosedMsg arrives once the widget has been unmounted.
	subscriptionClosedMsg struct{}

	exportedMsg struct {
		path string
		err  error
	}

	submittedMsg struct{ err error }
)

// Model is the bubbletea model for the widget.
type Model struct {
	ctx       context.Context
	widget    *app.Widget
	export    *app.ExportService
	exportDir string
	logger    *slog.Logger

	displayCh <-chan domain.DisplayState
	formCh    <-chan domain.FormState
	unsub     []func()

	display domain.DisplayState
	form    domain.FormState
	inputs  [fieldCount]textinput.Model
	focus   int
	status  string
	width   int
}

// New creates a model subscribed to the widget's controllers. Call Close
// when the program exits.
func New(ctx context.Context, cfg Config) Model {
	if cfg.Widget == nil || cfg.Export == nil {
		panic("tui: Widget and Export are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	displayCh, unsubDisplay := cfg.Widget.Refresh().Subscribe()
	formCh, unsubForm := cfg.Widget.Submission().Subscribe()

	text := textinput.New()
	text.Placeholder = "Quote"
	text.CharLimit = 1000

	author := textinput.New()
	author.Placeholder = "Author"
	author.CharLimit = 200

	return Model{
		ctx:       ctx,
		widget:    cfg.Widget,
		export:    cfg.Export,
		exportDir: cfg.ExportDir,
		logger:    logger.With(slog.String("component", "tui")),
		displayCh: displayCh,
		formCh:    formCh,
		unsub:     []func(){unsubDisplay, unsubForm},
		display:   cfg.Widget.Refresh().Snapshot(),
		form:      cfg.Widget.Submission().Snapshot(),
		inputs:    [fieldCount]textinput.Model{text, author},
	}
}

// Close drops the model's subscriptions.
func (m Model) Close() {
	for _, fn := range m.unsub {
		fn()
	}
}

// Init starts listening for state changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForDisplay(m.displayCh), waitForForm(m.formCh))
}

func waitForDisplay(ch <-chan domain.DisplayState) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return subscriptionClosedMsg{}
		}

		return displayMsg{state: state}
	}
}

func waitForForm(ch <-chan domain.FormState) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return subscriptionClosedMsg{}
		}

		return formMsg{state: state}
	}
}

// Update handles messages and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

		return m, nil

	case displayMsg:
		m.display = msg.state

		return m, waitForDisplay(m.displayCh)

	case formMsg:
		cmd := m.applyForm(msg.state)

		return m, tea.Batch(cmd, waitForForm(m.formCh))

	case subscriptionClosedMsg:
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.status = exportFailureText(msg.err)
		} else {
			m.status = "Saved " + msg.path
		}

		return m, nil

	case submittedMsg:
		// The outcome is already in the form state; only log here.
		if msg.err != nil {
			m.logger.Debug("submit finished with error", slog.Any("error", msg.err))
		}

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// The success notice is modal: any key dismisses it and nothing else.
	if m.form.Notice != "" {
		m.form = m.widget.Submission().DismissNotice()

		return m, nil
	}

	if m.form.Open {
		return m.handleFormKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "n":
		m.status = ""

		return m, m.refreshCmd()
	case "d":
		return m, m.exportCmd()
	case "a":
		return m.toggleForm()
	}

	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.toggleForm()
	case tea.KeyTab, tea.KeyShiftTab:
		return m, m.setFocus((m.focus + 1) % fieldCount)
	case tea.KeyEnter:
		if m.form.Submitting {
			return m, nil
		}

		return m, m.submitCmd(m.draft())
	}

	var cmd tea.Cmd

	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.form = m.widget.Submission().UpdateDraft(m.draft())

	return m, cmd
}

func (m Model) toggleForm() (tea.Model, tea.Cmd) {
	m.form = m.widget.Submission().ToggleForm()
	if !m.form.Open {
		for i := range m.inputs {
			m.inputs[i].Blur()
		}

		return m, nil
	}

	return m, m.setFocus(fieldText)
}

// setFocus must be called on the Model that is returned, since inputs are values.
func (m *Model) setFocus(field int) tea.Cmd {
	m.focus = field

	var cmd tea.Cmd

	for i := range m.inputs {
		if i == field {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}

	return cmd
}

// applyForm takes a published form state and brings the inputs in line when
// the controller changed the draft (cleared after a successful submit).
func (m *Model) applyForm(state domain.FormState) tea.Cmd {
	m.form = state

	if m.inputs[fieldText].Value() != state.Draft.Text {
		m.inputs[fieldText].SetValue(state.Draft.Text)
	}

	if m.inputs[fieldAuthor].Value() != state.Draft.Author {
		m.inputs[fieldAuthor].SetValue(state.Draft.Author)
	}

	if state.Open && !m.inputs[fieldText].Focused() && !m.inputs[fieldAuthor].Focused() {
		return m.setFocus(fieldText)
	}

	return nil
}

func (m Model) draft() domain.Draft {
	return domain.Draft{
		Text:   m.inputs[fieldText].Value(),
		Author: m.inputs[fieldAuthor].Value(),
	}
}

func (m Model) refreshCmd() tea.Cmd {
	ctx, refresh := m.ctx, m.widget.Refresh()

	return func() tea.Msg {
		refresh.Refresh(ctx)

		return nil
	}
}

func (m Model) submitCmd(draft domain.Draft) tea.Cmd {
	ctx, submission := m.ctx, m.widget.Submission()

	return func() tea.Msg {
		_, err := submission.Submit(ctx, draft)

		return submittedMsg{err: err}
	}
}

func (m Model) exportCmd() tea.Cmd {
	ctx, export, dir := m.ctx, m.export, m.exportDir

	return func() tea.Msg {
		artifact, err := export.Export(ctx)
		if err != nil {
			return exportedMsg{err: err}
		}

		path := filepath.Join(dir, artifact.Filename)
		if err := os.WriteFile(path, artifact.Data, exportFileMode); err != nil {
			return exportedMsg{err: fmt.Errorf("writing %s: %w", path, err)}
		}

		return exportedMsg{path: path}
	}
}

func exportFailureText(err error) string {
	if domain.IsNotFound(err) {
		return "Nothing to download yet."
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return "Could not save image: " + pathErr.Err.Error()
	}

	return "Could not create image."
}
