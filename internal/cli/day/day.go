package day

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/julianstephens/lifeops/internal/cli"
	"github.com/julianstephens/lifeops/internal/constants"
	"github.com/julianstephens/lifeops/internal/models"
)

type DayCmd struct {
	Show          DayShowCmd          `cmd:"" help:"Show a day." default:"1"`
	Top3          DayTop3Cmd          `cmd:"" help:"Set one of the top-3 items."`
	Done          DayDoneCmd          `cmd:"" help:"Toggle a top-3 item done."`
	Action        DayActionCmd        `cmd:"" help:"Set the one action."`
	ActionDone    DayActionDoneCmd    `cmd:"" help:"Toggle the one action done."`
	Study         DayStudyCmd         `cmd:"" help:"Add study minutes."`
	RunPlan       DayRunPlanCmd       `cmd:"" help:"Set the run plan (cycles when no plan is given)."`
	RunDone       DayRunDoneCmd       `cmd:"" help:"Toggle the run done."`
	Notes         DayNotesCmd         `cmd:"" help:"Show or replace the notes."`
	CopyYesterday DayCopyYesterdayCmd `cmd:"" help:"Copy yesterday's top-3 and one action."`
}

// DateFlag selects the day a command works on.
type DateFlag struct {
	Date string `help:"Day to use: YYYY-MM-DD or a phrase like 'yesterday' (default: the current day)." short:"d"`
}

type DayShowCmd struct {
	DateFlag
}

func (c *DayShowCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	rec, err := ctx.Controller().GetOrCreate(date)
	if err != nil {
		return fmt.Errorf("failed to load day: %w", err)
	}
	PrintDay(rec)
	return nil
}

type DayTop3Cmd struct {
	DateFlag
	Slot int    `arg:"" help:"Slot number (1-3)."`
	Text string `arg:"" optional:"" help:"Item text; empty clears the slot."`
}

func (c *DayTop3Cmd) Run(ctx *cli.Context) error {
	date, err := openDay(ctx, c.Date)
	if err != nil {
		return err
	}
	if err := ctx.Controller().UpdateTop3(date, c.Slot-1, c.Text); err != nil {
		return fmt.Errorf("failed to set top-3 item: %w", err)
	}
	return printUpdated(ctx, date)
}

type DayDoneCmd struct {
	DateFlag
	Slot int `arg:"" help:"Slot number (1-3)."`
}

func (c *DayDoneCmd) Run(ctx *cli.Context) error {
	date, err := openDay(ctx, c.Date)
	if err != nil {
		return err
	}
	if err := ctx.Controller().ToggleTop3Done(date, c.Slot-1); err != nil {
		return fmt.Errorf("failed to toggle top-3 item: %w", err)
	}
	return printUpdated(ctx, date)
}

type DayActionCmd struct {
	DateFlag
	Text string `arg:"" optional:"" help:"One action text; empty clears it."`
}

func (c *DayActionCmd) Run(ctx *cli.Context) error {
	date, err := openDay(ctx, c.Date)
	if err != nil {
		return err
	}
	if err := ctx.Controller().UpdateOneAction(date, c.Text); err != nil {
		return fmt.Errorf("failed to set one action: %w", err)
	}
	return printUpdated(ctx, date)
}

type DayActionDoneCmd struct {
	DateFlag
}

func (c *DayActionDoneCmd) Run(ctx *cli.Context) error {
	date, err := openDay(ctx, c.Date)
	if err != nil {
		return err
	}
	if err := ctx.Controller().ToggleOneActionDone(date); err != nil {
		return fmt.Errorf("failed to toggle one action: %w", err)
	}
	return printUpdated(ctx, date)
}

type DayStudyCmd struct {
	DateFlag
	Minutes int `arg:"" optional:"" help:"Minutes studied (default: one pomodoro)."`
}

func (c *DayStudyCmd) Run(ctx *cli.Context) error {
	date, err := openDay(ctx, c.Date)
	if err != nil {
		return err
	}
	minutes := c.Minutes
	if minutes == 0 {
		minutes = constants.PomodoroMinutes
	}
	if err := ctx.Controller().AddStudyMinutes(date, minutes); err != nil {
		return fmt.Errorf("failed to add study minutes: %w", err)
	}
	return printUpdated(ctx, date)
}

type DayRunPlanCmd struct {
	DateFlag
	Plan string `arg:"" optional:"" help:"REST, EASY, LSD or INTERVAL."`
}

func (c *DayRunPlanCmd) Run(ctx *cli.Context) error {
	date, err := openDay(ctx, c.Date)
	if err != nil {
		return err
	}

	var plan models.RunPlan
	if c.Plan == "" {
		rec, err := ctx.Controller().GetOrCreate(date)
		if err != nil {
			return fmt.Errorf("failed to load day: %w", err)
		}
		plan = rec.RunPlan.Next()
	} else if plan, err = models.ParseRunPlan(c.Plan); err != nil {
		return err
	}

	if err := ctx.Controller().UpdateRunPlan(date, plan); err != nil {
		return fmt.Errorf("failed to set run plan: %w", err)
	}
	return printUpdated(ctx, date)
}

type DayRunDoneCmd struct {
	DateFlag
}

func (c *DayRunDoneCmd) Run(ctx *cli.Context) error {
	date, err := openDay(ctx, c.Date)
	if err != nil {
		return err
	}
	if err := ctx.Controller().ToggleRunDone(date); err != nil {
		return fmt.Errorf("failed to toggle run: %w", err)
	}
	return printUpdated(ctx, date)
}

type DayNotesCmd struct {
	DateFlag
	Notes  []string `arg:"" optional:"" help:"Notes to store, one per argument."`
	Append bool     `help:"Append to the existing notes instead of replacing them."`
	Clear  bool     `help:"Remove all notes."`
}

func (c *DayNotesCmd) Run(ctx *cli.Context) error {
	date, err := openDay(ctx, c.Date)
	if err != nil {
		return err
	}
	rec, err := ctx.Controller().GetOrCreate(date)
	if err != nil {
		return fmt.Errorf("failed to load day: %w", err)
	}

	if !c.Clear && len(c.Notes) == 0 {
		printNotes(rec.Notes, len(rec.Notes))
		return nil
	}

	notes := []string{}
	if c.Append {
		notes = append(notes, rec.Notes...)
	}
	if !c.Clear {
		for _, note := range c.Notes {
			if note = strings.TrimSpace(note); note != "" {
				notes = append(notes, note)
			}
		}
	}

	if err := ctx.Controller().UpdateNotes(date, notes); err != nil {
		return fmt.Errorf("failed to save notes: %w", err)
	}
	return printUpdated(ctx, date)
}

type DayCopyYesterdayCmd struct {
	DateFlag
}

func (c *DayCopyYesterdayCmd) Run(ctx *cli.Context) error {
	date, err := openDay(ctx, c.Date)
	if err != nil {
		return err
	}
	if err := ctx.Controller().CopyFromYesterday(date); err != nil {
		return fmt.Errorf("failed to copy from yesterday: %w", err)
	}
	return printUpdated(ctx, date)
}

// openDay resolves a --date value and creates the day's record if needed.
func openDay(ctx *cli.Context, input string) (string, error) {
	date, err := ctx.ResolveDate(input)
	if err != nil {
		return "", err
	}
	if _, err := ctx.Controller().GetOrCreate(date); err != nil {
		return "", fmt.Errorf("failed to load day: %w", err)
	}
	return date, nil
}

func printUpdated(ctx *cli.Context, date string) error {
	rec, err := ctx.Controller().Get(date)
	if err != nil {
		return fmt.Errorf("failed to reload day: %w", err)
	}
	PrintDay(rec)
	return nil
}

// PrintDay renders a day record for the terminal.
func PrintDay(rec models.DayRecord) {
	title := color.New(color.Bold, color.Underline)
	faint := color.New(color.Faint)
	done := color.New(color.FgGreen)

	_, _ = title.Println(rec.Date)

	_, _ = fmt.Fprintf(color.Output, "Top 3 (%d/%d)\n", rec.Top3Completed(), rec.Top3Total())
	for i, item := range rec.Top3 {
		if strings.TrimSpace(item) == "" {
			_, _ = faint.Printf("  %d. —\n", i+1)
			continue
		}
		if rec.Top3Done[i] {
			_, _ = done.Printf("  %d. [x] %s\n", i+1, item)
		} else {
			fmt.Printf("  %d. [ ] %s\n", i+1, item)
		}
	}

	switch {
	case strings.TrimSpace(rec.OneAction) == "":
		_, _ = faint.Println("One action: —")
	case rec.OneActionDone:
		_, _ = done.Printf("One action: [x] %s\n", rec.OneAction)
	default:
		fmt.Printf("One action: [ ] %s\n", rec.OneAction)
	}

	fmt.Printf("Study:      %d min\n", rec.StudyMinutesDone)
	if rec.RunDone {
		_, _ = done.Printf("Run:        %s [x]\n", rec.RunPlan)
	} else {
		fmt.Printf("Run:        %s [ ]\n", rec.RunPlan)
	}

	printNotes(rec.Notes, constants.MaxDisplayedNotes)
}

func printNotes(notes []string, limit int) {
	if len(notes) == 0 {
		_, _ = color.New(color.Faint).Println("Notes:      none")
		return
	}
	fmt.Println("Notes:")
	for i, note := range notes {
		if i == limit {
			_, _ = color.New(color.Faint).Printf("  … %d more\n", len(notes)-limit)
			break
		}
		fmt.Printf("  - %s\n", note)
	}
}
