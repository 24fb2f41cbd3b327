package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Width(22)
)

const barWidth = 20

func Header(s string) string  { return headerStyle.Render(s) }
func Success(s string) string { return successStyle.Render(s) }
func Danger(s string) string  { return dangerStyle.Render(s) }
func Warning(s string) string { return warningStyle.Render(s) }
func Muted(s string) string   { return mutedStyle.Render(s) }

// Label pads s to a fixed column so rows line up
func Label(s string) string {
	return labelStyle.Render(truncate(s, 20))
}

// Swatch renders a block in the habit's own color
func Swatch(hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
}

// RateBar draws a percentage as a fixed-width bar followed by the number
func RateBar(rate int, hex string) string {
	if rate < 0 {
		rate = 0
	}
	if rate > 100 {
		rate = 100
	}
	filled := rate * barWidth / 100
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s %3d%%", bar, rate)
}

// Heatline renders a 0/1 series as filled and empty cells
func Heatline(series []int) string {
	var b strings.Builder
	for _, v := range series {
		if v > 0 {
			b.WriteString(successStyle.Render("●"))
		} else {
			b.WriteString(mutedStyle.Render("·"))
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
