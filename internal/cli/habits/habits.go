package habits

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/julianstephens/lifeops/internal/cli"
	"github.com/julianstephens/lifeops/internal/cli/day"
	"github.com/julianstephens/lifeops/internal/models"
)

type HabitCmd struct {
	List   HabitListCmd   `cmd:"" help:"List habits." default:"1"`
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	Remove HabitRemoveCmd `cmd:"" help:"Remove a habit and its history."`
	Toggle HabitToggleCmd `cmd:"" help:"Toggle a habit for a day."`
	Today  HabitTodayCmd  `cmd:"" help:"Show habit status for a day."`
	Seed   HabitSeedCmd   `cmd:"" help:"Add the default habits when none exist."`
}

// findHabit matches an id, an id prefix of at least 4 characters, or a
// case-insensitive name.
func findHabit(ctx *cli.Context, ref string) (models.Habit, error) {
	habits, err := ctx.Habits().ListHabits()
	if err != nil {
		return models.Habit{}, err
	}

	ref = strings.TrimSpace(ref)
	var matches []models.Habit
	for _, h := range habits {
		if h.ID == ref {
			return h, nil
		}
		if strings.EqualFold(h.Name, ref) || (len(ref) >= 4 && strings.HasPrefix(h.ID, ref)) {
			matches = append(matches, h)
		}
	}

	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("habit %q not found", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("%q matches %d habits, use the id", ref, len(matches))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Habits().ListHabits()
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), "", bold.Sprint("Name"), bold.Sprint("Created"))
	for _, h := range habits {
		tbl.AddRow(faint.Sprint(shortID(h.ID)), h.Emoji, h.Name, h.CreatedAt.Local().Format("2006-01-02"))
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	return nil
}

type HabitAddCmd struct {
	Name  string `arg:"" help:"Habit name."`
	Emoji string `help:"Emoji shown next to the habit."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Habits().ListHabits()
	if err != nil {
		return err
	}
	for _, h := range habits {
		if strings.EqualFold(h.Name, strings.TrimSpace(c.Name)) {
			return fmt.Errorf("habit with name %q already exists", h.Name)
		}
	}

	habit, err := ctx.Habits().AddHabit(c.Name, c.Emoji)
	if err != nil {
		return err
	}

	fmt.Printf("Added habit: %s %s (%s)\n", habit.Emoji, habit.Name, shortID(habit.ID))
	return nil
}

type HabitRemoveCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
	Yes   bool   `help:"Do not ask for confirmation." short:"y"`
}

func (c *HabitRemoveCmd) Run(ctx *cli.Context) error {
	habit, err := findHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	ok, err := cli.Confirm(
		fmt.Sprintf("Remove habit %q?", habit.Name),
		"Its completion history is deleted too.",
		c.Yes,
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := ctx.Habits().RemoveHabit(habit.ID); err != nil {
		return fmt.Errorf("failed to remove habit: %w", err)
	}
	fmt.Printf("Removed habit: %s\n", habit.Name)
	return nil
}

type HabitToggleCmd struct {
	day.DateFlag
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	habit, err := findHabit(ctx, c.Habit)
	if err != nil {
		return err
	}

	completed, err := ctx.Habits().Toggle(habit.ID, date)
	if err != nil {
		return fmt.Errorf("failed to toggle habit: %w", err)
	}

	if completed {
		_, _ = color.New(color.FgGreen).Printf("✓ %s %s done for %s\n", habit.Emoji, habit.Name, date)
	} else {
		fmt.Printf("○ %s %s not done for %s\n", habit.Emoji, habit.Name, date)
	}
	return nil
}

type HabitTodayCmd struct {
	day.DateFlag
}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	statuses, err := ctx.Habits().WithStatus(date)
	if err != nil {
		return err
	}

	if len(statuses) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	done := 0
	green := color.New(color.FgGreen)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, s := range statuses {
		mark := "[ ]"
		if s.Completed {
			mark = green.Sprint("[x]")
			done++
		}
		tbl.AddRow(mark, s.Emoji, s.Name)
	}

	_, _ = color.New(color.Bold, color.Underline).Printf("Habits %s (%d/%d)\n", date, done, len(statuses))
	_, _ = fmt.Fprintln(color.Output, tbl)
	return nil
}

type HabitSeedCmd struct{}

func (c *HabitSeedCmd) Run(ctx *cli.Context) error {
	n, err := ctx.Habits().SeedDefaults()
	if err != nil {
		return fmt.Errorf("failed to add default habits: %w", err)
	}
	if n == 0 {
		fmt.Println("Habits already exist; nothing added.")
		return nil
	}
	fmt.Printf("Added %d default habits.\n", n)
	return nil
}
