package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lifeops/internal/cli"
	"github.com/julianstephens/lifeops/internal/dayengine"
	"github.com/julianstephens/lifeops/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	controller := ctx.Controller()
	watcher := dayengine.NewWatcher(controller, ctx.Config.PollInterval)
	if err := watcher.Start(runCtx); err != nil {
		return err
	}
	defer watcher.Stop()

	model := tui.NewModel(tui.Deps{
		Controller: controller,
		Habits:     ctx.Habits(),
		Aggregator: ctx.Aggregator(),
		Live:       dayengine.LiveDay(runCtx, watcher, controller),
		Today:      watcher.Current(),
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
