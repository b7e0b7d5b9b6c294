package system

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/lifeops/internal/cli"
	"github.com/julianstephens/lifeops/internal/config"
	"github.com/julianstephens/lifeops/internal/constants"
	"github.com/julianstephens/lifeops/internal/models"
	"github.com/julianstephens/lifeops/internal/storage/sqlite"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) (*cli.Context, *sqlite.Store, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	settings := models.DefaultSettings()
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	ctx := &cli.Context{
		Store: store,
		Config: config.Config{
			Store:        constants.StoreSQLite,
			Path:         dbPath,
			PollInterval: time.Second,
		},
		Clock: fixedClock(testNow),
	}

	cleanup := func() {
		store.Close()
	}

	return ctx, store, cleanup
}
