package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/lifeops/internal/cli"
	"github.com/julianstephens/lifeops/internal/cli/backups"
	"github.com/julianstephens/lifeops/internal/cli/day"
	"github.com/julianstephens/lifeops/internal/cli/habits"
	"github.com/julianstephens/lifeops/internal/cli/settings"
	"github.com/julianstephens/lifeops/internal/cli/system"
	"github.com/julianstephens/lifeops/internal/config"
	"github.com/julianstephens/lifeops/internal/constants"
	apperrors "github.com/julianstephens/lifeops/internal/errors"
	"github.com/julianstephens/lifeops/internal/logger"
	"github.com/julianstephens/lifeops/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path (defaults to lifeops.yaml in $LIFEOPS_CONFIG_PATH, the XDG config dir or ./)." type:"path"`
	Store   string `help:"Storage backend: sqlite or badger."`
	DB      string `name:"db" help:"Database path (a file for sqlite, a directory for badger)."`
	Debug   bool   `help:"Enable debug logging."`

	Init     system.InitCmd       `cmd:"" help:"Initialize lifeops storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Debugger system.DebugCmd      `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive panel." default:"1"`
	Watch    system.WatchCmd      `cmd:"" help:"Follow the current day and report rollovers."`
	Day      day.DayCmd           `cmd:"" help:"Show and edit a day's plan."`
	Week     day.WeekCmd          `cmd:"" help:"Show the rolling seven-day summary."`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits and habit tracking."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage day settings."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage backups, export and import."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal daily operations panel"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	cfg, err := config.Load(config.Overrides{
		ConfigFile: CLI.Config,
		Store:      CLI.Store,
		Path:       CLI.DB,
		Debug:      CLI.Debug,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, DataDir: cfg.StoreDir()}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	logger.Debug("Loaded config", "store", cfg.Store, "path", cfg.Path, "file", cfg.File)

	store, err := storage.New(cfg.Store, cfg.Path)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:  store,
		Config: cfg,
	}

	// Init handles its own loading
	if !strings.HasPrefix(ctx.Command(), "init") {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}
