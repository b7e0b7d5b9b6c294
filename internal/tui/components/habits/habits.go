package habits

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lifeops/internal/dayengine"
)

type Item struct {
	Status dayengine.HabitStatus
}

func (i Item) Title() string {
	mark := "○ "
	if i.Status.Completed {
		mark = "✓ "
	}
	if i.Status.Emoji != "" {
		return mark + i.Status.Emoji + " " + i.Status.Name
	}
	return mark + i.Status.Name
}

func (i Item) Description() string {
	if i.Status.Completed {
		return "completed today"
	}
	return "not completed today"
}

func (i Item) FilterValue() string { return i.Status.Name }

type KeyMap struct {
	Add    key.Binding
	Toggle key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(statuses []dayengine.HabitStatus, width, height int) Model {
	l := list.New(items(statuses), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle}
	}

	return Model{list: l, keys: keys}
}

func items(statuses []dayengine.HabitStatus) []list.Item {
	out := make([]list.Item, len(statuses))
	for i, s := range statuses {
		out[i] = Item{Status: s}
	}
	return out
}

func (m *Model) SetHabits(statuses []dayengine.HabitStatus) {
	m.list.SetItems(items(statuses))
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Selected returns the habit under the cursor.
func (m Model) Selected() (dayengine.HabitStatus, bool) {
	item, ok := m.list.SelectedItem().(Item)
	if !ok {
		return dayengine.HabitStatus{}, false
	}
	return item.Status, true
}

// Len returns the number of habits shown.
func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "No habits yet. Press 'a' to add one."
	}
	return m.list.View()
}
