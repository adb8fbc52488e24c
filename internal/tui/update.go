package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitcontrol/internal/models"
	"github.com/julianstephens/habitcontrol/internal/tui/components/day"
	"github.com/julianstephens/habitcontrol/internal/tui/components/habitlist"
	"github.com/julianstephens/habitcontrol/internal/tui/forms"
	"github.com/julianstephens/habitcontrol/internal/utils"
)

const tabCount = 3

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case mutationMsg:
		m.setStatus(msg.status, msg.err)
		m.refresh()
		return m, nil

	case day.ToggleMsg:
		date := m.selectedDate
		status := "Marked done"
		if !msg.Completed {
			status = "Marked not done"
		}
		return m, m.persist(status, func(ctx context.Context) error {
			_, err := m.store.ToggleCompletion(ctx, msg.ID, date, msg.Completed)
			return err
		})

	case habitlist.AddHabitMsg:
		return m.openForm(nil)

	case habitlist.EditHabitMsg:
		return m.openForm(&msg.Habit)

	case habitlist.DeleteHabitMsg:
		m.habitToDeleteID = msg.ID
		m.previousState = m.state
		m.state = StateConfirmDelete
		return m, nil
	}

	switch m.state {
	case StateEditing:
		return m.updateForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.filtering() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		if m.state == StateDay || m.state == StateHistory {
			switch {
			case key.Matches(msg, m.keys.PrevDay):
				m.moveDate(-1)
				return m, nil
			case key.Matches(msg, m.keys.NextDay):
				m.moveDate(1)
				return m, nil
			case key.Matches(msg, m.keys.Today):
				m.selectedDate = utils.StartOfDay(m.store.Now())
				m.refresh()
				return m, nil
			}
		}

		if m.state == StateDay && key.Matches(msg, m.keys.Add) {
			return m.openForm(nil)
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateDay:
		m.dayModel, cmd = m.dayModel.Update(msg)
	case StateHabits:
		m.habitList, cmd = m.habitList.Update(msg)
	}
	return m, cmd
}

func (m Model) filtering() bool {
	switch m.state {
	case StateDay:
		return m.dayModel.Filtering()
	case StateHabits:
		return m.habitList.Filtering()
	}
	return false
}

func (m *Model) moveDate(days int) {
	m.selectedDate = m.selectedDate.AddDate(0, 0, days)
	m.refresh()
}

func (m *Model) resize() {
	// tabs, status line and help
	h := m.height - 6
	if h < 0 {
		h = 0
	}
	m.dayModel.SetSize(m.width*3/5, h)
	m.habitList.SetSize(m.width-4, h)
}

func (m Model) openForm(h *models.Habit) (tea.Model, tea.Cmd) {
	m.habitForm = forms.NewHabitFormModel(h)
	m.form = forms.NewHabitForm(m.habitForm)
	m.editingID = ""
	if h != nil {
		m.editingID = h.ID
	}
	m.previousState = m.state
	m.state = StateEditing
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.state = m.previousState
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.state = m.previousState
		m.form = nil
		return m, nil
	case huh.StateCompleted:
		m.state = m.previousState
		m.form = nil
		return m, m.saveForm()
	}
	return m, cmd
}

// saveForm persists the submitted form as a new or updated habit.
func (m *Model) saveForm() tea.Cmd {
	in, err := m.habitForm.Input()
	if err != nil {
		m.setStatus("", err)
		return nil
	}

	if m.editingID == "" {
		return m.persist(fmt.Sprintf("Added habit: %s", in.Name), func(ctx context.Context) error {
			_, err := m.store.CreateHabit(ctx, in)
			return err
		})
	}

	habit, ok := m.store.Habit(m.editingID)
	if !ok {
		m.setStatus("", fmt.Errorf("habit %s no longer exists", m.editingID))
		return nil
	}
	habit.Name = in.Name
	habit.Time = in.Time
	habit.Recurrence = in.Recurrence
	habit.RepeatValue = in.RepeatValue
	return m.persist(fmt.Sprintf("Updated habit: %s", in.Name), func(ctx context.Context) error {
		_, err := m.store.UpdateHabit(ctx, habit)
		return err
	})
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		id := m.habitToDeleteID
		name := id
		if h, ok := m.store.Habit(id); ok {
			name = h.Name
		}
		m.habitToDeleteID = ""
		m.state = m.previousState
		return m, m.persist(fmt.Sprintf("Deleted habit: %s", name), func(ctx context.Context) error {
			return m.store.DeleteHabit(ctx, id)
		})
	case key.Matches(keyMsg, m.keys.Cancel):
		m.habitToDeleteID = ""
		m.state = m.previousState
	}
	return m, nil
}
