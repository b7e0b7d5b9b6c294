package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lifeops/internal/constants"
	"github.com/julianstephens/lifeops/internal/tui/components/daycard"
)

// tabs is the number of top-level views.
const tabs = 3

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.dayModel.SetSize(msg.Width)
		m.habitsModel.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case clockMsg:
		if settings, err := m.controller.Settings(); err == nil {
			m.dayModel.Night = settings.IsNightMode(m.controller.Clock().Now())
		}
		return m, tickClock()

	case dayMsg:
		rolled := msg.record.Date != m.date()
		m.dayModel.SetRecord(msg.record)
		if rolled {
			m.status = "New day: " + msg.record.Date
		}
		m.refresh()
		return m, waitForDay(m.live)

	case tea.KeyMsg:
		if m.state == constants.StateEditing {
			return m.updateEditing(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabs
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabs) % tabs
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		switch m.state {
		case constants.StateDay:
			return m.updateDay(msg)
		case constants.StateHabits:
			return m.updateHabits(msg)
		}
	}

	return m, nil
}

func (m Model) updateDay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	date := m.date()
	rec := m.dayModel.Record
	sel := m.dayModel.Selected
	var err error

	switch {
	case key.Matches(msg, m.keys.Up):
		m.dayModel.Move(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.dayModel.Move(1)
		return m, nil

	case key.Matches(msg, m.keys.Study):
		err = m.controller.AddStudyMinutes(date, constants.PomodoroMinutes)
		m.status = fmt.Sprintf("+%d min study", constants.PomodoroMinutes)
	case key.Matches(msg, m.keys.RunPlan):
		err = m.controller.UpdateRunPlan(date, rec.RunPlan.Next())
	case key.Matches(msg, m.keys.Yesterday):
		err = m.controller.CopyFromYesterday(date)
		m.status = "Copied from yesterday"

	case key.Matches(msg, m.keys.Toggle):
		switch {
		case sel < daycard.RowOneAction:
			err = m.controller.ToggleTop3Done(date, sel)
		case sel == daycard.RowOneAction:
			err = m.controller.ToggleOneActionDone(date)
		case sel == daycard.RowRun:
			err = m.controller.ToggleRunDone(date)
		}

	case key.Matches(msg, m.keys.Enter):
		switch {
		case sel < daycard.RowOneAction:
			return m.startEditing(editTop3, sel, rec.Top3[sel]), nil
		case sel == daycard.RowOneAction:
			return m.startEditing(editOneAction, 0, rec.OneAction), nil
		case sel == daycard.RowRun:
			err = m.controller.UpdateRunPlan(date, rec.RunPlan.Next())
		case sel == daycard.RowNote:
			return m.startEditing(editNote, 0, ""), nil
		}

	default:
		return m, nil
	}

	m.afterWrite(err)
	return m, nil
}

func (m Model) updateHabits(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		return m.startEditing(editNewHabit, 0, ""), nil
	case key.Matches(msg, m.keys.Toggle):
		habit, ok := m.habitsModel.Selected()
		if !ok {
			return m, nil
		}
		done, err := m.habits.Toggle(habit.ID, m.date())
		if err == nil {
			if done {
				m.status = habit.Name + " done"
			} else {
				m.status = habit.Name + " undone"
			}
		}
		m.afterWrite(err)
		return m, nil
	}

	var cmd tea.Cmd
	m.habitsModel, cmd = m.habitsModel.Update(msg)
	return m, cmd
}

func (m Model) startEditing(target editTarget, index int, value string) Model {
	m.previousState = m.state
	m.state = constants.StateEditing
	m.editing = target
	m.editIndex = index
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	return m
}

func (m Model) stopEditing() Model {
	m.state = m.previousState
	m.editing = editNone
	m.input.Blur()
	m.input.Reset()
	return m
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m.stopEditing(), nil
	case msg.Type == tea.KeyEnter:
		err := m.commitEdit(m.input.Value())
		m = m.stopEditing()
		m.afterWrite(err)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) commitEdit(value string) error {
	date := m.date()
	switch m.editing {
	case editTop3:
		return m.controller.UpdateTop3(date, m.editIndex, value)
	case editOneAction:
		return m.controller.UpdateOneAction(date, value)
	case editNote:
		value = strings.TrimSpace(value)
		if value == "" {
			return nil
		}
		notes := append(append([]string{}, m.dayModel.Record.Notes...), value)
		return m.controller.UpdateNotes(date, notes)
	case editNewHabit:
		if strings.TrimSpace(value) == "" {
			return nil
		}
		_, err := m.habits.AddHabit(value, "")
		return err
	}
	return nil
}

// afterWrite records the outcome of a write and rereads what it touched.
func (m *Model) afterWrite(err error) {
	m.err = err
	if err != nil {
		m.status = ""
		return
	}
	m.reloadDay()
	m.refresh()
}
