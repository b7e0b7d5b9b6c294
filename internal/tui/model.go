package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lifeops/internal/constants"
	"github.com/julianstephens/lifeops/internal/dayengine"
	"github.com/julianstephens/lifeops/internal/logger"
	"github.com/julianstephens/lifeops/internal/models"
	"github.com/julianstephens/lifeops/internal/tui/components/daycard"
	"github.com/julianstephens/lifeops/internal/tui/components/habits"
)

// Deps are the engine services the panel drives.
type Deps struct {
	Controller *dayengine.Controller
	Habits     *dayengine.Habits
	Aggregator *dayengine.Aggregator
	// Live streams the current day; nil disables live updates.
	Live <-chan models.DayRecord
	// Today is the day key the rollover watcher holds. When empty the
	// panel resolves today itself.
	Today string
}

// editTarget is what the text input is editing.
type editTarget int

const (
	editNone editTarget = iota
	editTop3
	editOneAction
	editNote
	editNewHabit
)

type Model struct {
	controller *dayengine.Controller
	habits     *dayengine.Habits
	aggregator *dayengine.Aggregator
	live       <-chan models.DayRecord

	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	input         textinput.Model
	editing       editTarget
	editIndex     int

	dayModel    daycard.Model
	habitsModel habits.Model
	week        dayengine.WeekSummary

	status   string
	err      error
	quitting bool
	width    int
	height   int
}

func NewModel(deps Deps) Model {
	input := textinput.New()
	input.CharLimit = 200
	input.Prompt = "› "

	m := Model{
		controller:  deps.Controller,
		habits:      deps.Habits,
		aggregator:  deps.Aggregator,
		live:        deps.Live,
		state:       constants.StateDay,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		input:       input,
		dayModel:    daycard.New(),
		habitsModel: habits.New(nil, 0, 0),
	}

	var (
		rec models.DayRecord
		err error
	)
	if deps.Today != "" {
		rec, err = m.controller.GetOrCreate(deps.Today)
	} else {
		rec, err = m.controller.GetOrCreateToday()
	}
	if err != nil {
		logger.Error("Failed to load today", "err", err)
		m.err = err
	} else {
		m.dayModel.SetRecord(rec)
	}
	m.refresh()
	return m
}

// date is the day the panel shows.
func (m Model) date() string {
	return m.dayModel.Record.Date
}

// reloadDay rereads the shown day after a write.
func (m *Model) reloadDay() {
	if m.date() == "" {
		return
	}
	rec, err := m.controller.Get(m.date())
	if err != nil {
		m.err = err
		return
	}
	m.dayModel.SetRecord(rec)
}

// refresh reloads habits, the weekly summary and night mode for the shown day.
func (m *Model) refresh() {
	date := m.date()
	if date == "" {
		return
	}

	if statuses, err := m.habits.WithStatus(date); err != nil {
		m.err = err
	} else {
		m.habitsModel.SetHabits(statuses)
	}

	if week, err := m.aggregator.ComputeWeek(date); err != nil {
		m.err = err
	} else {
		m.week = week
	}

	if settings, err := m.controller.Settings(); err == nil {
		m.dayModel.Night = settings.IsNightMode(m.controller.Clock().Now())
	}
}

func (m Model) ShortHelp() []key.Binding {
	if m.state == constants.StateEditing {
		return []key.Binding{m.keys.Enter, m.keys.Cancel}
	}
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateDay:
		keys = append(keys, m.keys.Toggle, m.keys.Study, m.keys.RunPlan)
	case constants.StateHabits:
		keys = append(keys, m.keys.Toggle, m.keys.Add)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter, m.keys.Cancel}

	var actions []key.Binding
	switch m.state {
	case constants.StateDay:
		actions = []key.Binding{m.keys.Toggle, m.keys.Study, m.keys.RunPlan, m.keys.Yesterday}
	case constants.StateHabits:
		actions = []key.Binding{m.keys.Toggle, m.keys.Add}
	}

	return [][]key.Binding{global, navigation, actions}
}

// dayMsg carries a record from the live stream.
type dayMsg struct {
	record models.DayRecord
}

// waitForDay blocks on the live stream for the next record.
func waitForDay(live <-chan models.DayRecord) tea.Cmd {
	if live == nil {
		return nil
	}
	return func() tea.Msg {
		rec, ok := <-live
		if !ok {
			return nil
		}
		return dayMsg{record: rec}
	}
}

// clockMsg rechecks time-dependent display such as night mode.
type clockMsg time.Time

func tickClock() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForDay(m.live), tickClock())
}
