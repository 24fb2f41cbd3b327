// Package tui is the interactive habit list: mark today, add, delete and restore.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	habitsvc "github.com/julianstephens/habitlit/internal/habits"
	"github.com/julianstephens/habitlit/internal/progress"
	"github.com/julianstephens/habitlit/internal/tui/components/habits"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateAddHabit
	StateConfirmDelete
)

type KeyMap struct {
	Quit key.Binding
	Help key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

type Model struct {
	engine      *progress.Engine
	habits      *habitsvc.Service
	owner       string
	state       SessionState
	keys        KeyMap
	habitKeys   habits.KeyMap
	help        help.Model
	habitsModel habits.Model
	form        *huh.Form
	habitForm   *HabitFormModel
	pending     habits.DeleteHabitMsg
	status      string
	formError   string
	active      int
	doneToday   int
	quitting    bool
	width       int
	height      int
}

func NewModel(engine *progress.Engine, svc *habitsvc.Service, owner string) Model {
	m := Model{
		engine:      engine,
		habits:      svc,
		owner:       owner,
		state:       StateHabits,
		keys:        DefaultKeyMap(),
		habitKeys:   habits.DefaultKeyMap(),
		help:        help.New(),
		habitsModel: habits.New(nil, 0, 0),
	}
	m.refresh()
	return m
}

// loadItems builds one row per habit, deleted ones included so they can be restored
func (m *Model) loadItems(ctx context.Context) ([]habits.Item, error) {
	list, err := m.habits.List(ctx, m.owner, true)
	if err != nil {
		return nil, err
	}
	today := m.engine.Today().String()

	items := make([]habits.Item, 0, len(list))
	for _, h := range list {
		streak, err := m.engine.GetStreak(ctx, h.ID, m.owner)
		if err != nil {
			return nil, err
		}
		todays, err := m.habits.History(ctx, h.ID, m.owner, today, today)
		if err != nil {
			return nil, err
		}
		items = append(items, habits.Item{Habit: h, Streak: streak, LoggedToday: len(todays) > 0})
	}
	return items, nil
}

func (m *Model) refresh() {
	items, err := m.loadItems(context.Background())
	if err != nil {
		m.status = "Failed to load habits: " + err.Error()
		return
	}
	m.active, m.doneToday = 0, 0
	for _, it := range items {
		if !it.Habit.Active {
			continue
		}
		m.active++
		if it.LoggedToday {
			m.doneToday++
		}
	}
	m.habitsModel.SetItems(items)
}

func (m Model) ShortHelp() []key.Binding {
	if m.state != StateHabits {
		return []key.Binding{m.keys.Quit}
	}
	return []key.Binding{m.habitKeys.Add, m.habitKeys.Mark, m.habitKeys.Delete, m.habitKeys.Restore, m.keys.Help, m.keys.Quit}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.habitKeys.Add, m.habitKeys.Mark, m.habitKeys.Delete, m.habitKeys.Restore},
		{m.keys.Help, m.keys.Quit},
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}
