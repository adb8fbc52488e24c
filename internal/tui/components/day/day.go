package day

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitcontrol/internal/models"
	"github.com/julianstephens/habitcontrol/internal/utils"
)

// ToggleMsg asks for the completion of a habit on the shown date to be set.
type ToggleMsg struct {
	ID        string
	Completed bool
}

type Item struct {
	Habit models.HabitWithStatus
}

func (i Item) Title() string {
	if i.Habit.IsCompleted {
		return "✓ " + i.Habit.Name
	}
	return "○ " + i.Habit.Name
}

func (i Item) Description() string {
	return fmt.Sprintf("%s | %s", i.Habit.Time, utils.FormatRecurrence(i.Habit.Recurrence))
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Toggle key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle done"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
	date time.Time
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("habit", "habits")

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle}
	}

	return Model{list: l, keys: keys}
}

// SetDay replaces the shown habits with the projection of date.
func (m *Model) SetDay(date time.Time, habits []models.HabitWithStatus) {
	m.date = date
	m.list.Title = fmt.Sprintf("%s %s", date.Weekday(), utils.FormatDate(date))

	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = Item{Habit: h}
	}
	m.list.SetItems(items)
}

func (m Model) Date() time.Time {
	return m.date
}

// Selected returns the highlighted habit.
func (m Model) Selected() (models.HabitWithStatus, bool) {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Habit, true
	}
	return models.HabitWithStatus{}, false
}

// Counts returns how many of the shown habits are done.
func (m Model) Counts() (done, total int) {
	for _, item := range m.list.Items() {
		if i, ok := item.(Item); ok {
			total++
			if i.Habit.IsCompleted {
				done++
			}
		}
	}
	return done, total
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && !m.Filtering() {
		if key.Matches(msg, m.keys.Toggle) {
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleMsg{ID: h.ID, Completed: !h.IsCompleted} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}
