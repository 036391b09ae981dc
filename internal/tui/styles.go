package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ------- styling helpers (Lip Gloss) -------

type styles struct {
	title, success, pending, accent, muted, err lipgloss.Style
	cursor, done, help, panel, dialog          lipgloss.Style

	boxChecked, boxUnchecked string
	statusPending, statusDone string
	barFull, barEmpty         string
}

func newStyles(theme string) styles {
	s := styles{
		title:   lipgloss.NewStyle().Bold(true),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		pending: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		muted:   lipgloss.NewStyle().Faint(true),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		cursor: lipgloss.NewStyle().Bold(true).Reverse(true),
		done:   lipgloss.NewStyle().Faint(true).Strikethrough(true),
		help:   lipgloss.NewStyle().Faint(true),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
		dialog: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 3),

		boxChecked:    "☑",
		boxUnchecked:  "☐",
		statusPending: "⏳ Pending",
		statusDone:    "✅ Done",
		barFull:       "█",
		barEmpty:      "░",
	}

	switch strings.ToLower(theme) {
	case "neon":
		s.title = s.title.Foreground(lipgloss.Color("13"))
		s.accent = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		s.pending = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
		s.boxChecked, s.boxUnchecked = "◼", "◻"
	case "mono":
		plain := lipgloss.NewStyle()
		s.success, s.pending, s.accent, s.err = plain, plain, plain, plain.Bold(true)
		s.panel = s.panel.BorderStyle(lipgloss.NormalBorder()).UnsetBorderForeground()
		s.dialog = s.dialog.BorderStyle(lipgloss.NormalBorder()).UnsetBorderForeground()
		s.boxChecked, s.boxUnchecked = "[x]", "[ ]"
		s.statusPending, s.statusDone = "pending", "done"
		s.barFull, s.barEmpty = "#", "."
	}
	return s
}

func (s styles) progressBar(done, total, width int) string {
	if total == 0 {
		total = 1
	}
	if width <= 0 {
		width = 28
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat(s.barFull, filled) + strings.Repeat(s.barEmpty, width-filled) + "]"
}
