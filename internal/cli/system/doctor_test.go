package system

import (
	"testing"

	"github.com/julianstephens/lifeops/internal/models"
)

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	// Missing backups is a warning, not a failure
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v", err)
	}
}

func TestDoctorCmd_WithBackups(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := ctx.Backups().CreateBackup(); err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}
	if err := checkBackupsPresent(ctx); err != nil {
		t.Errorf("expected backups to be found: %v", err)
	}
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed with backups present: %v", err)
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	ctx, store, cleanup := setupTestDB(t)
	defer cleanup()

	// Record an impossible future schema version
	if _, err := store.GetDB().Exec("INSERT INTO goose_db_version (version_id, is_applied) VALUES (999, 1)"); err != nil {
		t.Fatalf("failed to insert future schema version: %v", err)
	}

	if err := checkSchemaVersion(ctx); err == nil {
		t.Error("expected schema version check to fail")
	}
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor command should fail with a newer schema")
	}
}

func TestCheckMigrationsComplete(t *testing.T) {
	ctx, store, cleanup := setupTestDB(t)
	defer cleanup()

	if err := checkMigrationsComplete(ctx); err != nil {
		t.Fatalf("fresh database should be fully migrated: %v", err)
	}

	if _, err := store.GetDB().Exec("DELETE FROM goose_db_version WHERE version_id > 0"); err != nil {
		t.Fatalf("failed to roll back schema version: %v", err)
	}
	if err := checkMigrationsComplete(ctx); err == nil {
		t.Error("expected incomplete migrations to be reported")
	}
}

func TestCheckValidation_OrphanHabitLog(t *testing.T) {
	ctx, store, cleanup := setupTestDB(t)
	defer cleanup()

	if err := checkValidation(ctx); err != nil {
		t.Fatalf("empty store should validate: %v", err)
	}

	habit, err := ctx.Habits().AddHabit("water", "")
	if err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	if _, err := ctx.Habits().Toggle(habit.ID, "2025-03-10"); err != nil {
		t.Fatalf("failed to toggle habit: %v", err)
	}
	if err := checkValidation(ctx); err != nil {
		t.Fatalf("valid data should pass: %v", err)
	}

	// Remove the habit row alone, leaving its log behind
	if _, err := store.GetDB().Exec("PRAGMA foreign_keys = OFF"); err != nil {
		t.Fatalf("failed to disable foreign keys: %v", err)
	}
	if _, err := store.GetDB().Exec("DELETE FROM habits WHERE id = ?", habit.ID); err != nil {
		t.Fatalf("failed to delete habit row: %v", err)
	}
	if err := checkValidation(ctx); err == nil {
		t.Error("expected orphaned habit log to fail validation")
	}
}

func TestCheckValidation_BadSettings(t *testing.T) {
	ctx, store, cleanup := setupTestDB(t)
	defer cleanup()

	settings := models.DefaultSettings()
	settings.ResetTime = "not-a-time"
	if _, err := store.GetDB().Exec("UPDATE settings SET reset_time = ?", settings.ResetTime); err != nil {
		t.Fatalf("failed to corrupt settings: %v", err)
	}

	if err := checkValidation(ctx); err == nil {
		t.Error("expected invalid settings to fail validation")
	}
}
