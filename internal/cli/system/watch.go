package system

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/julianstephens/lifeops/internal/cli"
	"github.com/julianstephens/lifeops/internal/dayengine"
	"github.com/julianstephens/lifeops/internal/models"
)

type WatchCmd struct {
	Interval time.Duration `help:"How often to check for a new day. Defaults to the configured poll interval."`
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.watch(sigCtx, ctx, color.Output)
}

// watch prints the current day whenever it changes until runCtx ends.
func (c *WatchCmd) watch(runCtx context.Context, ctx *cli.Context, out io.Writer) error {
	interval := c.Interval
	if interval <= 0 {
		interval = ctx.Config.PollInterval
	}

	controller := ctx.Controller()
	watcher := dayengine.NewWatcher(controller, interval)
	if err := watcher.Start(runCtx); err != nil {
		return err
	}
	defer watcher.Stop()

	fmt.Fprintf(out, "Watching for day changes (every %s, Ctrl+C to stop)\n", interval)

	last := ""
	for rec := range dayengine.LiveDay(runCtx, watcher, controller) {
		stamp := controller.Clock().Now().Format("15:04:05")
		if last != "" && rec.Date != last {
			fmt.Fprintf(out, "%s %s\n", stamp, color.New(color.FgCyan, color.Bold).Sprintf("New day: %s", rec.Date))
		}
		last = rec.Date
		fmt.Fprintf(out, "%s %s\n", stamp, summaryLine(rec))
	}
	return nil
}

func summaryLine(rec models.DayRecord) string {
	run := string(rec.RunPlan)
	if rec.RunDone {
		run += " ✓"
	}
	action := "—"
	if rec.OneAction != "" {
		action = rec.OneAction
		if rec.OneActionDone {
			action += " ✓"
		}
	}
	return fmt.Sprintf("%s  top3 %d/%d  action %s  study %dm  run %s",
		rec.Date, rec.Top3Completed(), rec.Top3Total(), action, rec.StudyMinutesDone, run)
}
