package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/lifeops/internal/backup"
	"github.com/julianstephens/lifeops/internal/cli"
	"github.com/julianstephens/lifeops/internal/constants"
	"github.com/julianstephens/lifeops/internal/storage"
)

type InitCmd struct {
	Force       bool   `help:"Force reset by deleting existing data before initialization."`
	Yes         bool   `short:"y" help:"Skip the confirmation prompt for --force."`
	NoSeed      bool   `help:"Do not add the default habits."`
	Source      string `help:"Path of another lifeops store to copy data from." type:"path"`
	SourceStore string `help:"Backend of the source store (sqlite or badger). Guessed from the path when empty."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	dataPath := ctx.Store.GetConfigPath()

	if c.Force {
		// Don't delete if it's the source
		if c.Source != "" && samePath(c.Source, dataPath) {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dataPath)
		}
		if err := c.reset(ctx, dataPath); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized %s storage at: %s\n", constants.AppName, dataPath)

	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
		return nil
	}

	if !c.NoSeed {
		n, err := ctx.Habits().SeedDefaults()
		if err != nil {
			return fmt.Errorf("failed to seed default habits: %w", err)
		}
		if n > 0 {
			fmt.Printf("Added %d default habits\n", n)
		}
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context, dataPath string) error {
	if _, err := os.Stat(dataPath); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	ok, err := cli.Confirm("Delete existing data?", dataPath, c.Yes)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("init cancelled")
	}

	// Close first to release file locks
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	// A badger store is a directory; sqlite may leave journal files.
	for _, p := range []string{dataPath, dataPath + "-wal", dataPath + "-shm"} {
		if err := os.RemoveAll(p); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
	}
	fmt.Printf("Deleted existing database at: %s\n", dataPath)
	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context) error {
	kind := c.SourceStore
	if kind == "" {
		kind = guessStore(c.Source)
	}
	source, err := storage.New(kind, c.Source)
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	doc, err := backup.Export(source, ctx.Controller().Clock().Now())
	if err != nil {
		return err
	}
	if err := ctx.Store.ImportSnapshot(doc.Data); err != nil {
		return err
	}

	fmt.Printf("  Migrated %d day records\n", len(doc.Data.DayRecords))
	fmt.Printf("  Migrated %d habits\n", len(doc.Data.Habits))
	fmt.Printf("  Migrated %d habit logs\n", len(doc.Data.HabitLogs))
	return nil
}

// guessStore treats directories as badger stores and files as sqlite.
func guessStore(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return constants.StoreBadger
	}
	return constants.StoreSQLite
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
