package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/lifeops/internal/cli"
	apperrors "github.com/julianstephens/lifeops/internal/errors"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpDay      *DebugDumpDayCmd      `cmd:"" help:"Dump a day record as JSON."`
	DumpHabit    *DebugDumpHabitCmd    `cmd:"" help:"Dump a habit and its logs as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings as JSON."`
}

func printJSON(v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	// Output in machine-readable format
	output := map[string]string{
		"path":  ctx.Store.GetConfigPath(),
		"store": ctx.Config.Store,
	}
	if ctx.Config.File != "" {
		output["config"] = ctx.Config.File
	}
	return printJSON(output)
}

type DebugDumpDayCmd struct {
	Date string `arg:"" optional:"" help:"Date of the record to dump (YYYY-MM-DD, 'today', 'yesterday', ...)."`
}

func (cmd *DebugDumpDayCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(cmd.Date)
	if err != nil {
		return err
	}

	rec, err := ctx.Store.GetDayRecord(date)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return fmt.Errorf("no record found for date: %s", date)
		}
		return fmt.Errorf("failed to get day record: %w", err)
	}
	return printJSON(rec)
}

type DebugDumpHabitCmd struct {
	ID string `arg:"" help:"ID of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Store.GetHabit(cmd.ID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return fmt.Errorf("habit not found: %s", cmd.ID)
		}
		return fmt.Errorf("failed to get habit: %w", err)
	}

	all, err := ctx.Store.GetAllHabitLogs()
	if err != nil {
		return fmt.Errorf("failed to get habit logs: %w", err)
	}
	logs := all[:0]
	for _, l := range all {
		if l.HabitID == habit.ID {
			logs = append(logs, l)
		}
	}

	return printJSON(map[string]interface{}{
		"habit": habit,
		"logs":  logs,
	})
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(settings)
}
