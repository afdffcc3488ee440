package cli

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette used for terminal output.
var (
	colourPrimary = lipgloss.Color("#7C3AED") // Purple
	colourAccent  = lipgloss.Color("#06B6D4") // Cyan
	colourMuted   = lipgloss.Color("#6C7086") // Medium gray
	colourSuccess = lipgloss.Color("#A6E3A1") // Green
	colourWarning = lipgloss.Color("#F9E2AF") // Yellow
	colourError   = lipgloss.Color("#F38BA8") // Red
)

// textStyle renders only when stdout is a colour-capable terminal, so
// piped output and tests see plain text.
type textStyle struct {
	style lipgloss.Style
}

// Render applies the style when colour is enabled.
func (t textStyle) Render(text string) string {
	if !colourEnabled() {
		return text
	}
	return t.style.Render(text)
}

var (
	titleStyle   = textStyle{lipgloss.NewStyle().Bold(true).Foreground(colourPrimary)}
	labelStyle   = textStyle{lipgloss.NewStyle().Foreground(colourAccent)}
	mutedStyle   = textStyle{lipgloss.NewStyle().Foreground(colourMuted)}
	successStyle = textStyle{lipgloss.NewStyle().Foreground(colourSuccess)}
	warnStyle    = textStyle{lipgloss.NewStyle().Foreground(colourWarning)}
	errorStyle   = textStyle{lipgloss.NewStyle().Bold(true).Foreground(colourError)}
)

var (
	colourOnce sync.Once
	colourOn   bool
)

func colourEnabled() bool {
	colourOnce.Do(func() {
		_, noColour := os.LookupEnv("NO_COLOR")
		colourOn = !noColour && term.IsTerminal(int(os.Stdout.Fd()))
	})
	return colourOn
}
