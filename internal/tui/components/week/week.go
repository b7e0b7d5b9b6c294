package week

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/lifeops/internal/dayengine"
	"github.com/julianstephens/lifeops/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Bold(true)

	todayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	hitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	missStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	cell = lipgloss.NewStyle().Width(6).Align(lipgloss.Center)
)

// Render draws the seven-day strip with study and run markers and the
// current streaks.
func Render(summary dayengine.WeekSummary) string {
	if len(summary.Days) == 0 {
		return "No data yet."
	}

	var days, study, run, top3 []string
	for _, d := range summary.Days {
		label := d.Weekday
		if d.IsToday {
			label = todayStyle.Render(label)
		} else {
			label = headerStyle.Render(label)
		}
		days = append(days, cell.Render(label))

		if d.HasStudy {
			study = append(study, cell.Render(hitStyle.Render(fmt.Sprintf("%dm", d.StudyMinutes))))
		} else {
			study = append(study, cell.Render(missStyle.Render("·")))
		}

		switch {
		case d.HasRun:
			run = append(run, cell.Render(hitStyle.Render("✓")))
		case d.RunPlan == models.RunRest:
			run = append(run, cell.Render(missStyle.Render("rest")))
		default:
			run = append(run, cell.Render(missStyle.Render("·")))
		}

		top3 = append(top3, cell.Render(fmt.Sprintf("%d/%d", d.Top3Completed, d.Top3Total)))
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("        ") + lipgloss.JoinHorizontal(lipgloss.Top, days...) + "\n")
	b.WriteString(headerStyle.Render("Study   ") + lipgloss.JoinHorizontal(lipgloss.Top, study...) + "\n")
	b.WriteString(headerStyle.Render("Run     ") + lipgloss.JoinHorizontal(lipgloss.Top, run...) + "\n")
	b.WriteString(headerStyle.Render("Top 3   ") + lipgloss.JoinHorizontal(lipgloss.Top, top3...) + "\n\n")
	b.WriteString(fmt.Sprintf("Study streak %s   Run streak %s\n",
		todayStyle.Render(fmt.Sprint(summary.StudyStreak)),
		todayStyle.Render(fmt.Sprint(summary.RunStreak))))
	b.WriteString(fmt.Sprintf("%d min studied, %d runs this week\n", summary.TotalStudyMinutes, summary.TotalRunDays))
	return b.String()
}
