package dayengine

import (
	"github.com/julianstephens/lifeops/internal/models"
	"github.com/julianstephens/lifeops/internal/utils"
)

// WeekDays is the length of the rolling window.
const WeekDays = 7

// DaySummary is one day of the rolling window. Days without a record are
// reported as empty days.
type DaySummary struct {
	Date            string
	Weekday         string
	IsToday         bool
	HasStudy        bool
	HasRun          bool
	StudyMinutes    int
	RunPlan         models.RunPlan
	Top3Completed   int
	Top3Total       int
	HabitsCompleted int
}

// WeekSummary covers the seven calendar days ending today, oldest first.
type WeekSummary struct {
	Days              []DaySummary
	StudyStreak       int
	RunStreak         int
	TotalStudyMinutes int
	TotalRunDays      int
}

// WeekStore is the part of the storage provider the aggregator reads.
type WeekStore interface {
	GetDayRecords(dates []string) ([]models.DayRecord, error)
	GetHabitLogsInRange(start, end string) ([]models.HabitLog, error)
}

// Aggregator computes weekly summaries from stored records.
type Aggregator struct {
	store WeekStore
}

func NewAggregator(store WeekStore) *Aggregator {
	return &Aggregator{store: store}
}

// ComputeWeek loads the window ending at today and summarizes it.
func (a *Aggregator) ComputeWeek(today string) (WeekSummary, error) {
	dates, err := utils.DateRange(today, WeekDays)
	if err != nil {
		return WeekSummary{}, err
	}
	records, err := a.store.GetDayRecords(dates)
	if err != nil {
		return WeekSummary{}, err
	}
	logs, err := a.store.GetHabitLogsInRange(dates[0], dates[len(dates)-1])
	if err != nil {
		return WeekSummary{}, err
	}
	return Summarize(today, records, logs)
}

// Summarize builds the summary of the seven days ending at today from
// whatever records and logs are given; entries outside the window are
// ignored.
//
// Streaks count back from today. A day with study minutes extends the
// study streak and any other day ends it, except today, which may still be
// in progress. A completed run extends the run streak; a REST day neither
// extends nor ends it; any other day ends it, again except today.
func Summarize(today string, records []models.DayRecord, logs []models.HabitLog) (WeekSummary, error) {
	dates, err := utils.DateRange(today, WeekDays)
	if err != nil {
		return WeekSummary{}, err
	}

	byDate := make(map[string]models.DayRecord, len(records))
	for _, rec := range records {
		byDate[rec.Date] = rec
	}
	habitsDone := make(map[string]int)
	for _, log := range logs {
		if log.Completed {
			habitsDone[log.Date]++
		}
	}

	summary := WeekSummary{Days: make([]DaySummary, 0, len(dates))}
	for _, date := range dates {
		rec, ok := byDate[date]
		if !ok {
			rec = models.NewDayRecord(date, utils.MustParseDateKey(date))
		}
		day := DaySummary{
			Date:            date,
			Weekday:         utils.MustParseDateKey(date).Weekday().String()[:3],
			IsToday:         date == today,
			HasStudy:        rec.StudyMinutesDone > 0,
			HasRun:          rec.RunDone,
			StudyMinutes:    rec.StudyMinutesDone,
			RunPlan:         rec.RunPlan,
			Top3Completed:   rec.Top3Completed(),
			Top3Total:       rec.Top3Total(),
			HabitsCompleted: habitsDone[date],
		}
		if day.RunPlan == "" {
			day.RunPlan = models.RunRest
		}
		summary.Days = append(summary.Days, day)
		summary.TotalStudyMinutes += day.StudyMinutes
		if day.HasRun {
			summary.TotalRunDays++
		}
	}

	summary.StudyStreak = studyStreak(summary.Days)
	summary.RunStreak = runStreak(summary.Days)
	return summary, nil
}

func studyStreak(days []DaySummary) int {
	streak := 0
	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		if d.HasStudy {
			streak++
		} else if !d.IsToday {
			break
		}
	}
	return streak
}

func runStreak(days []DaySummary) int {
	streak := 0
	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		if d.HasRun || d.RunPlan == models.RunRest {
			if d.HasRun {
				streak++
			}
		} else if !d.IsToday {
			break
		}
	}
	return streak
}
