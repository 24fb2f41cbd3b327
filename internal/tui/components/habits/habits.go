package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlit/internal/models"
)

type AddHabitMsg struct{}

type MarkHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID    string
	Title string
}

type RestoreHabitMsg struct {
	ID string
}

// Item is one row of the habit list
type Item struct {
	Habit       models.HabitSummary
	Streak      models.Streak
	LoggedToday bool
}

func (i Item) Title() string {
	switch {
	case !i.Habit.Active:
		return "[DELETED] " + i.Habit.Title
	case i.LoggedToday:
		return "✓ " + i.Habit.Title
	default:
		return "○ " + i.Habit.Title
	}
}

func (i Item) Description() string {
	if !i.Habit.Active {
		return "can restore with 'r'"
	}
	desc := fmt.Sprintf("streak %s · best %s", days(i.Streak.CurrentStreak), days(i.Streak.LongestStreak))
	if i.LoggedToday {
		return desc + " · done today"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Title }

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

type KeyMap struct {
	Add     key.Binding
	Mark    key.Binding
	Delete  key.Binding
	Restore key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Mark: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark done today"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Restore: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restore"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Mark, keys.Delete, keys.Restore}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Mark, keys.Delete, keys.Restore}
	}

	return Model{list: l, keys: keys}
}

func toListItems(items []Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

func (m *Model) SetItems(items []Item) {
	m.list.SetItems(toListItems(items))
}

// Items returns the rows currently shown
func (m Model) Items() []Item {
	raw := m.list.Items()
	out := make([]Item, 0, len(raw))
	for _, it := range raw {
		if i, ok := it.(Item); ok {
			out = append(out, i)
		}
	}
	return out
}

// Filtering reports whether the user is typing a filter, so global keys should pass through
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) Select(index int) {
	m.list.Select(index)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Mark):
			if i, ok := m.list.SelectedItem().(Item); ok && i.Habit.Active && !i.LoggedToday {
				return m, func() tea.Msg { return MarkHabitMsg{ID: i.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok && i.Habit.Active {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: i.Habit.ID, Title: i.Habit.Title} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Restore):
			if i, ok := m.list.SelectedItem().(Item); ok && !i.Habit.Active {
				return m, func() tea.Msg { return RestoreHabitMsg{ID: i.Habit.ID} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
