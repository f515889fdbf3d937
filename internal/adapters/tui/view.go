package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/jsamuelsen/quote-widget/internal/domain"
)

const (
	minCardWidth     = 40
	defaultCardWidth = 64
	darkInk          = "#1A1A1A"
	lightInk         = "#F5F5F5"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	authorStyle = lipgloss.NewStyle().Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D7263D")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
	helpStyle   = mutedStyle.MarginTop(1)
	labelStyle  = lipgloss.NewStyle().Bold(true).Width(8)
	formStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			MarginTop(1)
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#2E8B57")).
			Padding(1, 3).
			MarginTop(1)
)

// View renders the widget.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Random Quote"))
	b.WriteString("\n")
	b.WriteString(m.cardView())

	if m.display.Error != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.display.Error))
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(m.status))
	}

	if m.form.Notice != "" {
		b.WriteString("\n")
		b.WriteString(modalStyle.Render(m.form.Notice + "\n\n" + mutedStyle.Render("press any key")))

		return b.String()
	}

	if m.form.Open {
		b.WriteString("\n")
		b.WriteString(m.formView())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) cardWidth() int {
	if m.width <= 0 {
		return defaultCardWidth
	}

	return max(minCardWidth, min(defaultCardWidth, m.width-2))
}

func (m Model) cardView() string {
	bg := m.display.BackgroundColor
	if bg == "" {
		bg = domain.DefaultBackgroundColor
	}

	card := lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color(inkFor(bg))).
		Width(m.cardWidth()).
		Padding(1, 2)

	var body string

	switch {
	case m.display.Loading && m.display.Quote.IsZero():
		body = "Loading..."
	case m.display.Quote.IsZero():
		body = "Press n for a quote."
	default:
		body = "“" + m.display.Quote.Text + "”\n\n" +
			authorStyle.Render("- "+m.display.Quote.Author)
		if m.display.Loading {
			body += "\n" + "Loading..."
		}
	}

	return card.Render(body)
}

func (m Model) formView() string {
	rows := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Quote"), m.inputs[fieldText].View()),
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Author"), m.inputs[fieldAuthor].View()),
	}

	if m.form.Submitting {
		rows = append(rows, mutedStyle.Render("Submitting..."))
	}

	if m.form.Error != "" {
		rows = append(rows, errorStyle.Render(m.form.Error))
	}

	return formStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) helpText() string {
	if m.form.Open {
		return "tab switch field • enter submit • esc cancel • ctrl+c quit"
	}

	return "n new quote • d download image • a add quote • q quit"
}

// inkFor picks dark text on light backgrounds and light text on dark ones.
func inkFor(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return darkInk
	}

	if l, _, _ := c.Lab(); l > 0.6 {
		return darkInk
	}

	return lightInk
}
