package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/lifeops/internal/constants"
	"github.com/julianstephens/lifeops/internal/tui/components/week"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	state := m.state
	if state == constants.StateEditing {
		state = m.previousState
	}
	switch state {
	case constants.StateDay:
		content = m.dayModel.View()
	case constants.StateHabits:
		content = m.habitsModel.View()
	case constants.StateWeek:
		content = week.Render(m.week)
	}

	if m.state == constants.StateEditing {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", m.viewEditing())
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		docStyle.Render(content),
		m.viewStatus(),
		m.help.View(m),
	)
	return ui
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Today", "Habits", "Week"} {
		active := m.state == constants.SessionState(i) ||
			(m.state == constants.StateEditing && m.previousState == constants.SessionState(i))
		switch {
		case active:
			tabs = append(tabs, activeTabStyle.Render(title))
		case m.dayModel.Night:
			tabs = append(tabs, nightTabStyle.Render(title))
		default:
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewEditing() string {
	var label string
	switch m.editing {
	case editTop3:
		label = "Top 3 item"
	case editOneAction:
		label = "One action"
	case editNote:
		label = "New note"
	case editNewHabit:
		label = "New habit"
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, m.input.View())
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return dangerStyle.Render("  " + m.err.Error())
	}
	if m.status != "" {
		return statusStyle.Render("  " + m.status)
	}
	return ""
}
