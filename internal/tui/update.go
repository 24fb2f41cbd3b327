package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/progress"
	"github.com/julianstephens/habitlit/internal/tui/components/habits"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := docStyle.GetFrameSize()
		m.habitsModel.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
	}

	switch m.state {
	case StateAddHabit:
		return m.updateAddHabit(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if handled, cmd := m.handleHabitMessages(msg); handled {
		return m, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keys.Help) && !m.habitsModel.Filtering() {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.habitsModel, cmd = m.habitsModel.Update(msg)
	return m, cmd
}

// handleHabitMessages applies the actions the habit list asks for
func (m *Model) handleHabitMessages(msg tea.Msg) (bool, tea.Cmd) {
	ctx := context.Background()

	switch msg := msg.(type) {
	case habits.AddHabitMsg:
		m.habitForm = newHabitFormModel()
		m.form = NewHabitForm(m.habitForm)
		m.formError = ""
		m.state = StateAddHabit
		return true, m.form.Init()

	case habits.MarkHabitMsg:
		entry, err := m.engine.LogEntry(ctx, progress.LogEntryInput{
			HabitID: msg.ID,
			OwnerID: m.owner,
			Count:   1,
		})
		if err != nil {
			m.status = "Failed to log: " + err.Error()
			return true, nil
		}
		m.status = fmt.Sprintf("Logged for %s", entry.Date)
		m.refresh()
		return true, nil

	case habits.DeleteHabitMsg:
		m.pending = msg
		m.state = StateConfirmDelete
		return true, nil

	case habits.RestoreHabitMsg:
		if err := m.habits.Restore(ctx, msg.ID, m.owner); err != nil {
			m.status = "Failed to restore: " + err.Error()
			return true, nil
		}
		m.status = "Habit restored"
		m.refresh()
		return true, nil
	}
	return false, nil
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.state = StateHabits
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.submitHabitForm(); err != nil {
			// Stay in the form so the user can fix the input or cancel with esc
			m.formError = err.Error()
			m.form.State = huh.StateNormal
		}
	case huh.StateAborted:
		m.state = StateHabits
	}
	return m, tea.Batch(cmds...)
}

// submitHabitForm creates the habit described by the form and returns to the list
func (m *Model) submitHabitForm() error {
	in, err := m.habitForm.Input()
	if err != nil {
		return err
	}
	habit, err := m.habits.Create(context.Background(), m.owner, in)
	if err != nil {
		logger.Debug("Habit form rejected", "error", err)
		return err
	}
	m.status = fmt.Sprintf("Added %q", habit.Title)
	m.formError = ""
	m.state = StateHabits
	m.refresh()
	return nil
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "y", "Y":
		if err := m.habits.Deactivate(context.Background(), m.pending.ID, m.owner); err != nil {
			m.status = "Failed to delete: " + err.Error()
		} else {
			m.status = fmt.Sprintf("Deleted %q", m.pending.Title)
			m.refresh()
		}
		m.pending = habits.DeleteHabitMsg{}
		m.state = StateHabits
	case "n", "N", "esc":
		m.pending = habits.DeleteHabitMsg{}
		m.state = StateHabits
	}
	return m, nil
}
