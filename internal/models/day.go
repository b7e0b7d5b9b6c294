package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/lifeops/internal/constants"
	apperrors "github.com/julianstephens/lifeops/internal/errors"
)

// RunPlan is the kind of run scheduled for a day
type RunPlan string

const (
	RunRest     RunPlan = "REST"
	RunEasy     RunPlan = "EASY"
	RunLSD      RunPlan = "LSD"
	RunInterval RunPlan = "INTERVAL"
)

// RunPlans lists every valid plan in display order.
var RunPlans = []RunPlan{RunRest, RunEasy, RunLSD, RunInterval}

// Valid reports whether p is one of the known plans.
func (p RunPlan) Valid() bool {
	for _, known := range RunPlans {
		if p == known {
			return true
		}
	}
	return false
}

// Next returns the plan after p in display order, wrapping around.
func (p RunPlan) Next() RunPlan {
	for i, known := range RunPlans {
		if p == known {
			return RunPlans[(i+1)%len(RunPlans)]
		}
	}
	return RunRest
}

// ParseRunPlan parses a plan name case-insensitively.
func ParseRunPlan(s string) (RunPlan, error) {
	p := RunPlan(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidRunPlan, s)
	}
	return p, nil
}

// DayRecord holds all planning fields for one effective date key
type DayRecord struct {
	Date             string    `json:"date"` // YYYY-MM-DD effective date key
	Top3             [3]string `json:"top3"`
	Top3Done         [3]bool   `json:"top3_done"`
	OneAction        string    `json:"one_action"`
	OneActionDone    bool      `json:"one_action_done"`
	StudyMinutesDone int       `json:"study_minutes_done"`
	RunPlan          RunPlan   `json:"run_plan"`
	RunDone          bool      `json:"run_done"`
	Notes            []string  `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewDayRecord returns the zero-valued record for date.
func NewDayRecord(date string, now time.Time) DayRecord {
	return DayRecord{
		Date:      date,
		RunPlan:   RunRest,
		Notes:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a copy that shares no slices with r.
func (r DayRecord) Clone() DayRecord {
	out := r
	out.Notes = append([]string{}, r.Notes...)
	return out
}

// Top3Total counts the non-blank top3 slots.
func (r DayRecord) Top3Total() int {
	n := 0
	for _, item := range r.Top3 {
		if strings.TrimSpace(item) != "" {
			n++
		}
	}
	return n
}

// Top3Completed counts the completed non-blank top3 slots.
func (r DayRecord) Top3Completed() int {
	n := 0
	for i, item := range r.Top3 {
		if r.Top3Done[i] && strings.TrimSpace(item) != "" {
			n++
		}
	}
	return n
}

// Validate checks field ranges and the completion invariant: a completion
// flag may only be set when its text is non-blank.
func (r DayRecord) Validate() error {
	if _, err := time.Parse(constants.DateFormat, r.Date); err != nil {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidDate, r.Date)
	}
	if r.StudyMinutesDone < 0 {
		return apperrors.ErrNegativeMinutes
	}
	if !r.RunPlan.Valid() {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidRunPlan, r.RunPlan)
	}
	for i, item := range r.Top3 {
		if r.Top3Done[i] && strings.TrimSpace(item) == "" {
			return &apperrors.InvariantError{Date: r.Date, Detail: fmt.Sprintf("top3[%d] is done but empty", i)}
		}
	}
	if r.OneActionDone && strings.TrimSpace(r.OneAction) == "" {
		return &apperrors.InvariantError{Date: r.Date, Detail: "one action is done but empty"}
	}
	return nil
}

// Normalize clears completion flags whose text is blank and fills defaults
// for fields older data may lack.
func (r DayRecord) Normalize() DayRecord {
	out := r.Clone()
	for i, item := range out.Top3 {
		if strings.TrimSpace(item) == "" {
			out.Top3Done[i] = false
		}
	}
	if strings.TrimSpace(out.OneAction) == "" {
		out.OneActionDone = false
	}
	if out.RunPlan == "" {
		out.RunPlan = RunRest
	}
	if out.Notes == nil {
		out.Notes = []string{}
	}
	return out
}
