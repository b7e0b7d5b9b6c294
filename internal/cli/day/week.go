package day

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/julianstephens/lifeops/internal/cli"
	"github.com/julianstephens/lifeops/internal/dayengine"
	"github.com/julianstephens/lifeops/internal/models"
)

type WeekCmd struct {
	DateFlag
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	week, err := ctx.Aggregator().ComputeWeek(date)
	if err != nil {
		return fmt.Errorf("failed to compute week: %w", err)
	}
	PrintWeek(week)
	return nil
}

// PrintWeek renders the seven-day table and streaks.
func PrintWeek(week dayengine.WeekSummary) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	green := color.New(color.FgGreen)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Date"), bold.Sprint("Day"), bold.Sprint("Top 3"),
		bold.Sprint("Study"), bold.Sprint("Run"), bold.Sprint("Habits"))
	for _, d := range week.Days {
		day := d.Weekday
		if d.IsToday {
			day = bold.Sprint(day + "*")
		}

		study := faint.Sprint("-")
		if d.HasStudy {
			study = fmt.Sprintf("%d min", d.StudyMinutes)
		}

		run := faint.Sprint(string(d.RunPlan))
		switch {
		case d.HasRun:
			run = green.Sprintf("%s ✓", d.RunPlan)
		case d.RunPlan != models.RunRest:
			run = string(d.RunPlan)
		}

		tbl.AddRow(d.Date, day, fmt.Sprintf("%d/%d", d.Top3Completed, d.Top3Total), study, run, d.HabitsCompleted)
	}
	tbl.RightAlign(2)
	tbl.RightAlign(3)

	_, _ = fmt.Fprintln(color.Output, tbl)
	fmt.Println()
	_, _ = fmt.Fprintf(color.Output, "Study streak: %s days   Run streak: %s days\n",
		bold.Sprint(week.StudyStreak), bold.Sprint(week.RunStreak))
	fmt.Printf("Total study: %d min   Runs: %d\n", week.TotalStudyMinutes, week.TotalRunDays)
}
