package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Status symbols.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "!"
	SymbolSkipped = "-"
)

// Styles is the lipgloss style set for text mode.
type Styles struct {
	Header   lipgloss.Style
	Header2  lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Entity   lipgloss.Style
	Score    lipgloss.Style
	CodeText lipgloss.Style
}

// NewStyles builds the style set on a lipgloss renderer.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:  r.NewStyle().Bold(true),
		Success:  r.NewStyle().Foreground(lipgloss.Color("10")),
		Error:    r.NewStyle().Foreground(lipgloss.Color("9")),
		Warning:  r.NewStyle().Foreground(lipgloss.Color("11")),
		Info:     r.NewStyle().Foreground(lipgloss.Color("14")),
		Muted:    r.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:     r.NewStyle().Bold(true),
		Entity:   r.NewStyle().Foreground(lipgloss.Color("13")),
		Score:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		CodeText: r.NewStyle().Foreground(lipgloss.Color("7")),
	}
}

// ScoreStyle picks a style by percentage band.
func (s *Styles) ScoreStyle(percentage float64) lipgloss.Style {
	switch {
	case percentage >= 80:
		return s.Success
	case percentage >= 60:
		return s.Warning
	default:
		return s.Error
	}
}

// FormatHeader returns a Markdown header.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue returns a "**key:** value" line.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("**%s:** %s", key, value)
}

// FormatCodeBlock wraps code in a fenced block.
func FormatCodeBlock(lang, code string) string {
	return "```" + lang + "\n" + strings.TrimRight(code, "\n") + "\n```"
}
