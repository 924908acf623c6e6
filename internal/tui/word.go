package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

const ellipsis = "…"

var (
	wordStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8C1A")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// fitWord shortens text to at most width cells, marking the cut with an ellipsis.
// Anything that fits is returned unchanged.
func fitWord(text string, width int) string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return text
	}
	if width <= runewidth.StringWidth(ellipsis) {
		return truncate.String(text, uint(width))
	}
	return truncate.StringWithTail(text, uint(width), ellipsis)
}

func renderWord(text string, width int) string {
	// Keep a one-cell margin on either side.
	return wordStyle.Render(fitWord(text, width-2))
}
