package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitcontrol/internal/constants"
	"github.com/julianstephens/habitcontrol/internal/habits"
	"github.com/julianstephens/habitcontrol/internal/stats"
	"github.com/julianstephens/habitcontrol/internal/tui/components/day"
	"github.com/julianstephens/habitcontrol/internal/tui/components/habitlist"
	"github.com/julianstephens/habitcontrol/internal/tui/forms"
	"github.com/julianstephens/habitcontrol/internal/utils"
	"github.com/julianstephens/habitcontrol/internal/validation"
)

type SessionState int

const (
	StateDay SessionState = iota
	StateHabits
	StateHistory
	StateEditing
	StateConfirmDelete
)

var tabTitles = []string{"Day", "Habits", "History"}

// historyDays is the number of dates shown on the History tab.
const historyDays = 14

// mutationMsg reports the outcome of a store call run as a command.
type mutationMsg struct {
	status string
	err    error
}

type Model struct {
	store             *habits.Store
	state             SessionState
	previousState     SessionState
	keys              KeyMap
	help              help.Model
	dayModel          day.Model
	habitList         habitlist.Model
	selectedDate      time.Time
	form              *huh.Form
	habitForm         *forms.HabitFormModel
	editingID         string
	habitToDeleteID   string
	status            string
	statusIsError     bool
	validationWarning string
	timeout           time.Duration
	quitting          bool
	width             int
	height            int
}

func NewModel(store *habits.Store) Model {
	m := Model{
		store:        store,
		state:        StateDay,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		dayModel:     day.New(0, 0),
		habitList:    habitlist.New(0, 0),
		selectedDate: utils.StartOfDay(store.Now()),
		timeout:      constants.PersistTimeout,
	}
	m.refresh()
	return m
}

// refresh reloads the components from the store.
func (m *Model) refresh() {
	m.dayModel.SetDay(m.selectedDate, m.store.GetHabitsForDate(m.selectedDate))

	all := m.store.Habits()
	summaries := make(map[string]stats.Summary, len(all))
	for _, h := range all {
		summaries[h.ID] = m.store.GetSummary(h.ID)
	}
	m.habitList.SetHabits(all, summaries)

	m.updateValidationStatus()
}

// updateValidationStatus runs validation and updates the warning message
func (m *Model) updateValidationStatus() {
	result := validation.New().ValidateHabits(m.store.Habits())
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}

// persist runs fn against the store off the UI loop and reports the outcome.
// The call gives up after m.timeout.
func (m Model) persist(status string, fn func(ctx context.Context) error) tea.Cmd {
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return mutationMsg{status: status, err: fn(ctx)}
	}
}

func (m *Model) setStatus(status string, err error) {
	if err != nil {
		m.status = err.Error()
		m.statusIsError = true
		return
	}
	m.status = status
	m.statusIsError = false
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateDay:
		keys = append(keys, m.keys.Toggle, m.keys.PrevDay, m.keys.NextDay)
	case StateHabits:
		keys = append(keys, m.keys.Add, m.keys.Edit, m.keys.Delete)
	case StateHistory:
		keys = append(keys, m.keys.PrevDay, m.keys.NextDay)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.PrevDay, m.keys.NextDay, m.keys.Today}

	var actions []key.Binding
	switch m.state {
	case StateDay:
		actions = []key.Binding{m.keys.Toggle, m.keys.Add}
	case StateHabits:
		actions = []key.Binding{m.keys.Add, m.keys.Edit, m.keys.Delete}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}
