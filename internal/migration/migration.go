package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/pressly/goose/v3"
)

// Runner manages database schema migrations
type Runner struct {
	db *sql.DB
	fs fs.FS
}

// NewRunner creates a new migration runner over a directory of goose
// migration files (NNN_name.sql with -- +goose Up/Down sections).
func NewRunner(db *sql.DB, migrationFS fs.FS) *Runner {
	return &Runner{
		db: db,
		fs: migrationFS,
	}
}

func (r *Runner) provider() (*goose.Provider, error) {
	return goose.NewProvider(goose.DialectSQLite3, r.db, r.fs)
}

// GetCurrentVersion returns the current schema version from the database
// Returns 0 if no migration has been applied (fresh database)
func (r *Runner) GetCurrentVersion() (int, error) {
	p, err := r.provider()
	if err != nil {
		if errors.Is(err, goose.ErrNoMigrations) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}
	version, err := p.GetDBVersion(context.Background())
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return int(version), nil
}

// GetLatestVersion returns the highest migration version available
func (r *Runner) GetLatestVersion() (int, error) {
	p, err := r.provider()
	if err != nil {
		if errors.Is(err, goose.ErrNoMigrations) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}
	sources := p.ListSources()
	if len(sources) == 0 {
		return 0, nil
	}
	return int(sources[len(sources)-1].Version), nil
}

// ApplyMigrations applies all pending migrations up to the latest version
// Returns the number of migrations applied
func (r *Runner) ApplyMigrations(logFn func(string)) (int, error) {
	if logFn == nil {
		logFn = func(s string) {} // no-op logger
	}

	p, err := r.provider()
	if err != nil {
		if errors.Is(err, goose.ErrNoMigrations) {
			logFn("No migration files found")
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read migrations: %w", err)
	}

	if err := r.ValidateVersion(); err != nil {
		return 0, err
	}

	ctx := context.Background()
	currentVersion, err := p.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}

	pending, err := p.HasPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to check pending migrations: %w", err)
	}
	if !pending {
		logFn(fmt.Sprintf("Database schema is up to date (version %d)", currentVersion))
		return 0, nil
	}

	logFn(fmt.Sprintf("Current schema version: %d", currentVersion))

	startTime := time.Now()
	results, err := p.Up(ctx)
	for _, res := range results {
		if res.Error != nil {
			continue
		}
		logFn(fmt.Sprintf("  ✓ Migration %d applied successfully", res.Source.Version))
	}
	applied := 0
	for _, res := range results {
		if res.Error == nil {
			applied++
		}
	}
	if err != nil {
		return applied, fmt.Errorf("failed to apply migrations: %w", err)
	}

	logFn(fmt.Sprintf("Applied %d migration(s) in %v", applied, time.Since(startTime)))
	return applied, nil
}

// ValidateVersion checks if the database version is compatible with the application
func (r *Runner) ValidateVersion() error {
	currentVersion, err := r.GetCurrentVersion()
	if err != nil {
		return err
	}

	latestVersion, err := r.GetLatestVersion()
	if err != nil {
		return err
	}

	if currentVersion > latestVersion {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d) - please upgrade the application", currentVersion, latestVersion)
	}

	return nil
}
