package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/lifeops/internal/models"
)

// TestIntegrationBackupRestoreWorkflow tests the complete backup and restore workflow
func TestIntegrationBackupRestoreWorkflow(t *testing.T) {
	store, dbPath := setupTestStore(t)
	mgr := newTestManager(store, dbPath)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	// Modify the data after the backup
	rec, err := store.GetDayRecord("2025-03-09")
	if err != nil {
		t.Fatalf("GetDayRecord failed: %v", err)
	}
	rec.StudyMinutesDone = 200
	rec.Notes = []string{"changed"}
	if err := store.SaveDayRecord(rec); err != nil {
		t.Fatalf("SaveDayRecord failed: %v", err)
	}

	later := testNow.Add(time.Hour)
	mgr.now = func() time.Time { return later }

	preRestore, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	rec, err = store.GetDayRecord("2025-03-09")
	if err != nil {
		t.Fatalf("GetDayRecord failed: %v", err)
	}
	if rec.StudyMinutesDone != 50 {
		t.Errorf("expected restored study minutes 50, got %d", rec.StudyMinutesDone)
	}
	if len(rec.Notes) != 1 || rec.Notes[0] != "good day" {
		t.Errorf("expected restored notes, got %v", rec.Notes)
	}

	// The pre-restore snapshot holds the modified state.
	f, err := os.Open(preRestore)
	if err != nil {
		t.Fatalf("failed to open pre-restore backup: %v", err)
	}
	defer f.Close()
	doc, err := Parse(f)
	if err != nil {
		t.Fatalf("pre-restore backup does not parse: %v", err)
	}
	found := false
	for _, r := range doc.Data.DayRecords {
		if r.Date == "2025-03-09" {
			found = true
			if r.StudyMinutesDone != 200 {
				t.Errorf("expected pre-restore minutes 200, got %d", r.StudyMinutesDone)
			}
		}
	}
	if !found {
		t.Error("pre-restore backup is missing the modified day")
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("expected 2 backups, got %d", len(backups))
	}
}

// TestMultipleDayBackups checks that restoring an older snapshot keeps rows
// created after it.
func TestMultipleDayBackups(t *testing.T) {
	store, dbPath := setupTestStore(t)
	mgr := newTestManager(store, dbPath)

	first, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	next := models.NewDayRecord("2025-03-11", testNow)
	next.OneAction = "stretch"
	if err := store.SaveDayRecord(next); err != nil {
		t.Fatalf("SaveDayRecord failed: %v", err)
	}

	day2 := testNow.Add(24 * time.Hour)
	mgr.now = func() time.Time { return day2 }
	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if _, err := mgr.RestoreBackup(first); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	got, err := store.GetDayRecord("2025-03-11")
	if err != nil {
		t.Fatalf("record created after the snapshot was lost: %v", err)
	}
	if got.OneAction != "stretch" {
		t.Errorf("unexpected one action %q", got.OneAction)
	}
}

func TestBackupWithEmptyStore(t *testing.T) {
	dir := t.TempDir()
	store := newStore(t, dir)
	mgr := newTestManager(store, filepath.Join(dir, "lifeops.db"))

	path, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	doc, err := Parse(f)
	if err != nil {
		t.Fatalf("empty backup does not parse: %v", err)
	}
	if len(doc.Data.DayRecords) != 0 || len(doc.Data.Habits) != 0 {
		t.Errorf("expected empty snapshot, got %+v", doc.Data)
	}
	if len(doc.Data.Settings) != 1 {
		t.Errorf("expected the default settings row, got %d", len(doc.Data.Settings))
	}
}

func TestRestoreWithCorruptedBackup(t *testing.T) {
	store, dbPath := setupTestStore(t)
	mgr := newTestManager(store, dbPath)

	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	corrupted := filepath.Join(mgr.GetBackupDir(), "lifeops-20250101-0000.json")
	if err := os.WriteFile(corrupted, []byte("this is not a backup"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.RestoreBackup(corrupted); err == nil {
		t.Fatal("expected restore of corrupted backup to fail")
	}

	// Nothing changed and no pre-restore snapshot was written.
	rec, err := store.GetDayRecord("2025-03-09")
	if err != nil || rec.StudyMinutesDone != 50 {
		t.Errorf("store was modified: %+v, %v", rec, err)
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("expected only the corrupted file, got %d backups", len(backups))
	}

	if _, err := mgr.RestoreBackup(filepath.Join(mgr.GetBackupDir(), "missing.json")); err == nil {
		t.Error("expected restore of missing file to fail")
	}
}

func TestBackupDirectoryCreation(t *testing.T) {
	store, dbPath := setupTestStore(t)
	mgr := newTestManager(store, dbPath)

	if _, err := os.Stat(mgr.GetBackupDir()); !os.IsNotExist(err) {
		t.Fatalf("backup dir should not exist yet")
	}

	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	info, err := os.Stat(mgr.GetBackupDir())
	if err != nil {
		t.Fatalf("backup dir was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("backup path is not a directory")
	}
	if info.Mode().Perm() != 0700 {
		t.Errorf("expected backup dir permissions 0700, got %v", info.Mode().Perm())
	}
}
