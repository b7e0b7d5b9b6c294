package daycard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/lifeops/internal/constants"
	"github.com/julianstephens/lifeops/internal/models"
)

// Rows of the card, in cursor order.
const (
	RowTop3First = 0
	RowOneAction = constants.Top3Slots
	RowRun       = RowOneAction + 1
	RowNote      = RowRun + 1
	RowCount     = RowNote + 1
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")).
			Strikethrough(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Italic(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("248"))
)

type Model struct {
	Record   models.DayRecord
	Selected int
	Night    bool
	width    int
}

func New() Model {
	return Model{}
}

func (m *Model) SetSize(width int) {
	m.width = width
}

func (m *Model) SetRecord(rec models.DayRecord) {
	m.Record = rec
}

// Move shifts the cursor by delta, wrapping around.
func (m *Model) Move(delta int) {
	m.Selected = ((m.Selected+delta)%RowCount + RowCount) % RowCount
}

func (m Model) View() string {
	rec := m.Record
	var b strings.Builder

	b.WriteString(titleStyle.Render(rec.Date))
	if m.Night {
		b.WriteString(emptyStyle.Render("  night mode"))
	}
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render(fmt.Sprintf("Top 3 %d/%d", rec.Top3Completed(), rec.Top3Total())))
	b.WriteString("\n")
	for i, item := range rec.Top3 {
		b.WriteString(m.row(RowTop3First+i, fmt.Sprintf("%d.", i+1), item, rec.Top3Done[i]))
	}
	b.WriteString("\n")

	b.WriteString(m.row(RowOneAction, "One action", rec.OneAction, rec.OneActionDone))
	b.WriteString(m.row(RowRun, "Run", string(rec.RunPlan), rec.RunDone))
	b.WriteString(fmt.Sprintf("  %s%d min\n", labelStyle.Render("Study"), rec.StudyMinutesDone))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Notes"))
	b.WriteString("\n")
	shown := rec.Notes
	if len(shown) > constants.MaxDisplayedNotes {
		shown = shown[len(shown)-constants.MaxDisplayedNotes:]
	}
	for _, note := range shown {
		b.WriteString("    " + noteStyle.Render("- "+note) + "\n")
	}
	b.WriteString(m.row(RowNote, "", emptyStyle.Render("add a note…"), false))

	return b.String()
}

func (m Model) row(index int, label, text string, done bool) string {
	cursor := "  "
	if m.Selected == index {
		cursor = cursorStyle.Render("> ")
	}

	var body string
	switch {
	case strings.TrimSpace(text) == "":
		body = emptyStyle.Render("—")
	case done:
		body = doneStyle.Render("✓ " + text)
	default:
		body = text
	}
	return cursor + labelStyle.Render(label) + body + "\n"
}
