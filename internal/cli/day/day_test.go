package day

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/lifeops/internal/cli"
	apperrors "github.com/julianstephens/lifeops/internal/errors"
	"github.com/julianstephens/lifeops/internal/models"
	"github.com/julianstephens/lifeops/internal/storage/sqlite"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

const today = "2025-03-10"

func setupTestDB(t *testing.T) (*cli.Context, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	settings := models.DefaultSettings()
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	ctx := &cli.Context{
		Store: store,
		Clock: fixedClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)),
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, cleanup
}

func getDay(t *testing.T, ctx *cli.Context, date string) models.DayRecord {
	t.Helper()
	rec, err := ctx.Controller().Get(date)
	if err != nil {
		t.Fatalf("failed to get %s: %v", date, err)
	}
	return rec
}

func TestDayShowCreatesRecord(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&DayShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("day show failed: %v", err)
	}
	rec := getDay(t, ctx, today)
	if rec.RunPlan != models.RunRest {
		t.Errorf("expected default run plan, got %s", rec.RunPlan)
	}
}

func TestDayTop3AndDone(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&DayTop3Cmd{Slot: 2, Text: "write report"}).Run(ctx); err != nil {
		t.Fatalf("top3 failed: %v", err)
	}
	if err := (&DayDoneCmd{Slot: 2}).Run(ctx); err != nil {
		t.Fatalf("done failed: %v", err)
	}

	rec := getDay(t, ctx, today)
	if rec.Top3[1] != "write report" || !rec.Top3Done[1] {
		t.Errorf("unexpected slot 2: %q done=%v", rec.Top3[1], rec.Top3Done[1])
	}
	if rec.Top3[0] != "" || rec.Top3[2] != "" {
		t.Errorf("other slots changed: %v", rec.Top3)
	}

	err := (&DayDoneCmd{Slot: 1}).Run(ctx)
	if !errors.Is(err, apperrors.ErrEmptySlot) {
		t.Errorf("expected empty slot error, got %v", err)
	}
	err = (&DayTop3Cmd{Slot: 4, Text: "x"}).Run(ctx)
	if !errors.Is(err, apperrors.ErrInvalidIndex) {
		t.Errorf("expected invalid index error, got %v", err)
	}

	// Clearing the text clears the flag.
	if err := (&DayTop3Cmd{Slot: 2}).Run(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if rec := getDay(t, ctx, today); rec.Top3Done[1] {
		t.Error("expected cleared slot to be undone")
	}
}

func TestDayOneAction(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&DayActionCmd{Text: "call mom"}).Run(ctx); err != nil {
		t.Fatalf("action failed: %v", err)
	}
	if err := (&DayActionDoneCmd{}).Run(ctx); err != nil {
		t.Fatalf("action-done failed: %v", err)
	}

	rec := getDay(t, ctx, today)
	if rec.OneAction != "call mom" || !rec.OneActionDone {
		t.Errorf("unexpected one action %q done=%v", rec.OneAction, rec.OneActionDone)
	}
}

func TestDayStudyDefaultsToPomodoro(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	for i := 0; i < 2; i++ {
		if err := (&DayStudyCmd{}).Run(ctx); err != nil {
			t.Fatalf("study failed: %v", err)
		}
	}
	if err := (&DayStudyCmd{Minutes: 10}).Run(ctx); err != nil {
		t.Fatalf("study failed: %v", err)
	}

	if rec := getDay(t, ctx, today); rec.StudyMinutesDone != 60 {
		t.Errorf("expected 60 study minutes, got %d", rec.StudyMinutesDone)
	}

	if err := (&DayStudyCmd{Minutes: -5}).Run(ctx); !errors.Is(err, apperrors.ErrNegativeMinutes) {
		t.Errorf("expected negative minutes error, got %v", err)
	}
}

func TestDayRunPlan(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	// No argument cycles from the default REST.
	if err := (&DayRunPlanCmd{}).Run(ctx); err != nil {
		t.Fatalf("run-plan failed: %v", err)
	}
	if rec := getDay(t, ctx, today); rec.RunPlan != models.RunEasy {
		t.Errorf("expected EASY, got %s", rec.RunPlan)
	}

	if err := (&DayRunPlanCmd{Plan: "lsd"}).Run(ctx); err != nil {
		t.Fatalf("run-plan failed: %v", err)
	}
	if err := (&DayRunDoneCmd{}).Run(ctx); err != nil {
		t.Fatalf("run-done failed: %v", err)
	}
	rec := getDay(t, ctx, today)
	if rec.RunPlan != models.RunLSD || !rec.RunDone {
		t.Errorf("unexpected run state %s done=%v", rec.RunPlan, rec.RunDone)
	}

	if err := (&DayRunPlanCmd{Plan: "sprint"}).Run(ctx); !errors.Is(err, apperrors.ErrInvalidRunPlan) {
		t.Errorf("expected invalid run plan error, got %v", err)
	}
}

func TestDayNotes(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&DayNotesCmd{Notes: []string{"one", "  ", "two"}}).Run(ctx); err != nil {
		t.Fatalf("notes failed: %v", err)
	}
	if err := (&DayNotesCmd{Notes: []string{"three"}, Append: true}).Run(ctx); err != nil {
		t.Fatalf("notes append failed: %v", err)
	}
	rec := getDay(t, ctx, today)
	if len(rec.Notes) != 3 || rec.Notes[0] != "one" || rec.Notes[2] != "three" {
		t.Errorf("unexpected notes %v", rec.Notes)
	}

	// Listing leaves the notes alone.
	if err := (&DayNotesCmd{}).Run(ctx); err != nil {
		t.Fatalf("notes list failed: %v", err)
	}
	if err := (&DayNotesCmd{Clear: true}).Run(ctx); err != nil {
		t.Fatalf("notes clear failed: %v", err)
	}
	if rec := getDay(t, ctx, today); len(rec.Notes) != 0 {
		t.Errorf("expected no notes, got %v", rec.Notes)
	}
}

func TestDayDateFlag(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &DayStudyCmd{DateFlag: DateFlag{Date: "2025-03-01"}, Minutes: 15}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("study failed: %v", err)
	}

	if rec := getDay(t, ctx, "2025-03-01"); rec.StudyMinutesDone != 15 {
		t.Errorf("expected minutes on the given date, got %d", rec.StudyMinutesDone)
	}
	if _, err := ctx.Store.GetDayRecord(today); !apperrors.IsNotFound(err) {
		t.Errorf("today should not have been touched, got %v", err)
	}
}

func TestDayCopyYesterday(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	yesterday := DateFlag{Date: "2025-03-09"}
	if err := (&DayTop3Cmd{DateFlag: yesterday, Slot: 1, Text: "carry over"}).Run(ctx); err != nil {
		t.Fatalf("top3 failed: %v", err)
	}
	if err := (&DayActionCmd{DateFlag: yesterday, Text: "stretch"}).Run(ctx); err != nil {
		t.Fatalf("action failed: %v", err)
	}

	if err := (&DayCopyYesterdayCmd{}).Run(ctx); err != nil {
		t.Fatalf("copy-yesterday failed: %v", err)
	}

	rec := getDay(t, ctx, today)
	if rec.Top3[0] != "carry over" || rec.OneAction != "stretch" {
		t.Errorf("unexpected copy result %v / %q", rec.Top3, rec.OneAction)
	}
}

func TestWeekCmd(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	for _, date := range []string{"2025-03-08", "2025-03-09"} {
		cmd := &DayStudyCmd{DateFlag: DateFlag{Date: date}, Minutes: 30}
		if err := cmd.Run(ctx); err != nil {
			t.Fatalf("study failed: %v", err)
		}
	}

	if err := (&WeekCmd{}).Run(ctx); err != nil {
		t.Fatalf("week failed: %v", err)
	}

	week, err := ctx.Aggregator().ComputeWeek(today)
	if err != nil {
		t.Fatalf("ComputeWeek failed: %v", err)
	}
	if week.StudyStreak != 2 || week.TotalStudyMinutes != 60 {
		t.Errorf("unexpected week %+v", week)
	}
}
