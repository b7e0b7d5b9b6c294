package models

// Snapshot is the full content of the four engine tables. It is what backups
// export and what imports bulk-replace.
type Snapshot struct {
	Settings   []Settings  `json:"settings"`
	DayRecords []DayRecord `json:"day_records"`
	Habits     []Habit     `json:"habits"`
	HabitLogs  []HabitLog  `json:"habit_logs"`
}
