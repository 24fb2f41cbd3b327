package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAddHabit:
		content = m.form.View()
		if m.formError != "" {
			content = lipgloss.JoinVertical(lipgloss.Left, content, dangerStyle.Render(m.formError))
		}
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		content = m.habitsModel.View()
	}

	var status string
	if m.status != "" {
		status = statusStyle.Render(m.status)
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render("Habits · "+m.engine.Today().String()),
		m.viewTally(),
		content,
		status,
		m.help.View(m),
	))
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		"",
		dangerStyle.Render(fmt.Sprintf("Delete %q?", m.pending.Title)),
		hintStyle.Render("Its history is kept and it can be restored with 'r'."),
		"",
		"y = delete, n = cancel",
	)
}

func (m Model) viewTally() string {
	if m.active == 0 {
		return tallyStyle.Render("No active habits.")
	}
	line := fmt.Sprintf("%d of %d done today", m.doneToday, m.active)
	if m.doneToday == m.active {
		return doneStyle.Render(line + " ✓")
	}
	return tallyStyle.Render(line)
}
