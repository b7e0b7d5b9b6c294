package backups

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/julianstephens/lifeops/internal/backup"
	"github.com/julianstephens/lifeops/internal/cli"
	"github.com/julianstephens/lifeops/internal/constants"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a backup snapshot." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore from a backup snapshot."`
	Export  BackupExportCmd  `cmd:"" help:"Write all data as a JSON document."`
	Import  BackupImportCmd  `cmd:"" help:"Load a JSON document into the store."`
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	backupPath, err := ctx.Backups().CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	fmt.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr := ctx.Backups()
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	bold := color.New(color.Bold)
	fmt.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Created"), bold.Sprint("File"), bold.Sprint("Size"))
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		tbl.AddRow(b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), fmt.Sprintf("%.1f KB", sizeKB))
	}
	tbl.RightAlign(2)
	_, _ = fmt.Fprintln(color.Output, tbl)
	fmt.Printf("\nBackup directory: %s\n", mgr.GetBackupDir())

	return nil
}

// resolveBackupPath accepts an absolute path, a path relative to the
// working directory, or a file name inside the backup directory.
func resolveBackupPath(mgr *backup.Manager, name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			return "", fmt.Errorf("backup file not found: %s", name)
		}
		return name, nil
	}

	if _, err := os.Stat(name); err == nil {
		absPath, err := filepath.Abs(name)
		if err != nil {
			return "", fmt.Errorf("failed to resolve backup path: %w", err)
		}
		return absPath, nil
	}

	possiblePath := filepath.Join(mgr.GetBackupDir(), name)
	if _, err := os.Stat(possiblePath); err == nil {
		return possiblePath, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", mgr.GetBackupDir())
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `help:"Do not ask for confirmation." short:"y"`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr := ctx.Backups()

	backupPath, err := resolveBackupPath(mgr, c.BackupFile)
	if err != nil {
		return err
	}

	ok, err := cli.Confirm(
		"Restore from "+filepath.Base(backupPath)+"?",
		"Rows in the backup overwrite current ones. A snapshot of the current state is taken first.",
		c.Yes,
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Restore cancelled.")
		return nil
	}

	previous, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Println("✓ Backup restored successfully!")
	fmt.Printf("  Previous state saved as: %s\n", filepath.Base(previous))
	return nil
}

type BackupExportCmd struct {
	Output string `help:"File to write (default: stdout)." short:"o" type:"path"`
}

func (c *BackupExportCmd) Run(ctx *cli.Context) error {
	doc, err := backup.Export(ctx.Store, ctx.Controller().Clock().Now())
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	var w io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := backup.Write(w, doc); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if c.Output != "" {
		fmt.Fprintf(os.Stderr, "✓ Exported %d days, %d habits, %d habit logs to %s\n",
			len(doc.Data.DayRecords), len(doc.Data.Habits), len(doc.Data.HabitLogs), c.Output)
	}
	return nil
}

type BackupImportCmd struct {
	File string `arg:"" help:"JSON document to import." type:"existingfile"`
	Yes  bool   `help:"Do not ask for confirmation." short:"y"`
}

func (c *BackupImportCmd) Run(ctx *cli.Context) error {
	ok, err := cli.Confirm(
		"Import "+filepath.Base(c.File)+"?",
		"Rows in the document overwrite current ones. A snapshot of the current state is taken first.",
		c.Yes,
	)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Import cancelled.")
		return nil
	}

	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	ctx.PerformAutomaticBackup()

	doc, err := backup.Import(ctx.Store, f)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("✓ Imported %d days, %d habits, %d habit logs\n",
		len(doc.Data.DayRecords), len(doc.Data.Habits), len(doc.Data.HabitLogs))
	return nil
}
