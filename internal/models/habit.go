package models

import "time"

// Habit represents a recurring practice to track
type Habit struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
}

// HabitLog records whether a habit was completed on one effective date.
// There is at most one log per (HabitID, Date).
type HabitLog struct {
	ID        string `json:"id"`
	HabitID   string `json:"habit_id"`
	Date      string `json:"date"` // YYYY-MM-DD effective date key
	Completed bool   `json:"completed"`
}
