package dayengine

import (
	"fmt"
	"strings"

	"github.com/julianstephens/lifeops/internal/constants"
	apperrors "github.com/julianstephens/lifeops/internal/errors"
	"github.com/julianstephens/lifeops/internal/models"
)

// Command is one mutation of a day record. The set of commands is closed;
// they are applied with Apply or folded with Replay.
type Command interface {
	apply(rec *models.DayRecord) error
	String() string
}

type (
	SetTop3 struct {
		Index int
		Value string
	}
	ToggleTop3Done struct {
		Index int
	}
	SetOneAction struct {
		Value string
	}
	ToggleOneActionDone struct{}
	AddStudyMinutes     struct {
		Minutes int
	}
	SetRunPlan struct {
		Plan models.RunPlan
	}
	ToggleRunDone struct{}
	SetNotes      struct {
		Notes []string
	}
)

func checkIndex(i int) error {
	if i < 0 || i >= constants.Top3Slots {
		return fmt.Errorf("%w: %d", apperrors.ErrInvalidIndex, i)
	}
	return nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func (c SetTop3) apply(rec *models.DayRecord) error {
	if err := checkIndex(c.Index); err != nil {
		return err
	}
	rec.Top3[c.Index] = c.Value
	if blank(c.Value) {
		rec.Top3Done[c.Index] = false
	}
	return nil
}

func (c ToggleTop3Done) apply(rec *models.DayRecord) error {
	if err := checkIndex(c.Index); err != nil {
		return err
	}
	if blank(rec.Top3[c.Index]) {
		return fmt.Errorf("top3[%d]: %w", c.Index, apperrors.ErrEmptySlot)
	}
	rec.Top3Done[c.Index] = !rec.Top3Done[c.Index]
	return nil
}

func (c SetOneAction) apply(rec *models.DayRecord) error {
	rec.OneAction = c.Value
	if blank(c.Value) {
		rec.OneActionDone = false
	}
	return nil
}

func (ToggleOneActionDone) apply(rec *models.DayRecord) error {
	if blank(rec.OneAction) {
		return fmt.Errorf("one action: %w", apperrors.ErrEmptySlot)
	}
	rec.OneActionDone = !rec.OneActionDone
	return nil
}

func (c AddStudyMinutes) apply(rec *models.DayRecord) error {
	if c.Minutes < 0 {
		return apperrors.ErrNegativeMinutes
	}
	rec.StudyMinutesDone += c.Minutes
	return nil
}

func (c SetRunPlan) apply(rec *models.DayRecord) error {
	if !c.Plan.Valid() {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidRunPlan, c.Plan)
	}
	rec.RunPlan = c.Plan
	return nil
}

func (ToggleRunDone) apply(rec *models.DayRecord) error {
	rec.RunDone = !rec.RunDone
	return nil
}

func (c SetNotes) apply(rec *models.DayRecord) error {
	rec.Notes = append([]string{}, c.Notes...)
	return nil
}

func (c SetTop3) String() string             { return fmt.Sprintf("set top3[%d]", c.Index) }
func (c ToggleTop3Done) String() string      { return fmt.Sprintf("toggle top3[%d]", c.Index) }
func (SetOneAction) String() string          { return "set one action" }
func (ToggleOneActionDone) String() string   { return "toggle one action" }
func (c AddStudyMinutes) String() string     { return fmt.Sprintf("add %d study minutes", c.Minutes) }
func (c SetRunPlan) String() string          { return fmt.Sprintf("set run plan %s", c.Plan) }
func (ToggleRunDone) String() string         { return "toggle run" }
func (c SetNotes) String() string            { return fmt.Sprintf("set %d notes", len(c.Notes)) }

// Apply returns rec with cmd applied. rec is never modified; on error it is
// returned unchanged.
func Apply(rec models.DayRecord, cmd Command) (models.DayRecord, error) {
	out := rec.Clone()
	if err := cmd.apply(&out); err != nil {
		return rec, err
	}
	return out, nil
}

// Replay folds cmds over rec in order, stopping at the first error.
func Replay(rec models.DayRecord, cmds []Command) (models.DayRecord, error) {
	out := rec
	for _, cmd := range cmds {
		next, err := Apply(out, cmd)
		if err != nil {
			return rec, fmt.Errorf("failed to %s: %w", cmd, err)
		}
		out = next
	}
	return out, nil
}
