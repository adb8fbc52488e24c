package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitcontrol/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateDay:
		content = m.viewDay()
	case StateHabits:
		content = docStyle.Render(m.habitList.View())
	case StateHistory:
		content = docStyle.Render(m.viewHistory())
	case StateEditing:
		content = m.form.View()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewDay() string {
	return docStyle.Render(lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.dayModel.View(),
		m.viewDetails(),
	))
}

// viewDetails shows the highlighted habit and the progress of the day.
func (m Model) viewDetails() string {
	done, total := m.dayModel.Counts()
	if total == 0 {
		return detailsStyle.Render(mutedStyle.Render("No habits scheduled."))
	}

	lines := []string{fmt.Sprintf("Done today: %d/%d", done, total)}

	if h, ok := m.dayModel.Selected(); ok {
		summary := m.store.GetSummary(h.ID)
		rate := levelStyle(summary.Level).Render(
			fmt.Sprintf("%.0f%% (%s)", summary.Rate, summary.Level))
		lines = append(lines,
			"",
			titleStyle.Render(h.Name),
			fmt.Sprintf("Time:     %s", h.Time),
			fmt.Sprintf("Repeat:   %s", utils.FormatRecurrence(h.Recurrence)),
			fmt.Sprintf("Progress: %s", rate),
			mutedStyle.Render(fmt.Sprintf("%d of %d logged days", summary.Completed, summary.Total)),
		)
	}

	return detailsStyle.Render(strings.Join(lines, "\n"))
}

// viewHistory renders a grid of the dates up to the selected one.
func (m Model) viewHistory() string {
	start := m.selectedDate.AddDate(0, 0, -(historyDays - 1))
	history := m.store.GetHistory(start, historyDays)

	const nameWidth = 16
	var b strings.Builder

	fmt.Fprintf(&b, "%-*s", nameWidth, "")
	for _, d := range history {
		fmt.Fprintf(&b, " %s", d.Date.Format("02"))
	}
	b.WriteString("\n")

	for _, h := range m.store.Habits() {
		name := h.Name
		if r := []rune(name); len(r) > nameWidth {
			name = string(r[:nameWidth-1]) + "…"
		}
		fmt.Fprintf(&b, "%-*s", nameWidth, name)
		for _, d := range history {
			cell := mutedStyle.Render("  ")
			for _, s := range d.Habits {
				if s.ID != h.ID {
					continue
				}
				if s.IsCompleted {
					cell = goodStyle.Render(" ✓")
				} else {
					cell = poorStyle.Render(" ·")
				}
			}
			b.WriteString(" " + cell)
		}
		b.WriteString("\n")
	}

	if len(m.store.Habits()) == 0 {
		b.WriteString(mutedStyle.Render("No habits yet."))
	}
	return b.String()
}

func (m Model) viewStatus() string {
	var parts []string
	if m.status != "" {
		if m.statusIsError {
			parts = append(parts, errorStyle.Render(m.status))
		} else {
			parts = append(parts, statusStyle.Render(m.status))
		}
	}
	if m.validationWarning != "" {
		parts = append(parts, warningStyle.Render(m.validationWarning))
	}
	return strings.Join(parts, "  ")
}

func (m Model) viewConfirmDelete() string {
	name := m.habitToDeleteID
	if h, ok := m.store.Habit(m.habitToDeleteID); ok {
		name = h.Name
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q and its history?", name)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
