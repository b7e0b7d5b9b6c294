package dayengine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/lifeops/internal/logger"
	"github.com/julianstephens/lifeops/internal/models"
)

// HabitStore is the part of the storage provider the habit service needs.
type HabitStore interface {
	AddHabit(habit models.Habit) (models.Habit, error)
	GetHabit(id string) (models.Habit, error)
	GetAllHabits() ([]models.Habit, error)
	DeleteHabit(id string) error
	GetHabitLog(habitID, date string) (models.HabitLog, error)
	InsertHabitLogIfAbsent(log models.HabitLog) (bool, error)
	SaveHabitLog(log models.HabitLog) error
	GetHabitLogsForDate(date string) ([]models.HabitLog, error)
}

// DefaultHabits are created on first use when no habit exists.
var DefaultHabits = []models.Habit{
	{Name: "Drink 8 cups of water", Emoji: "💧"},
	{Name: "Meditate", Emoji: "🧘"},
	{Name: "Read", Emoji: "📚"},
}

// HabitStatus pairs a habit with its completion for one date.
type HabitStatus struct {
	models.Habit
	Completed bool
}

// Habits manages habits and their per-day logs.
type Habits struct {
	store HabitStore
	clock Clock
}

func NewHabits(store HabitStore, clock Clock) *Habits {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Habits{store: store, clock: clock}
}

// ListHabits returns all habits in creation order.
func (h *Habits) ListHabits() ([]models.Habit, error) {
	return h.store.GetAllHabits()
}

func (h *Habits) AddHabit(name, emoji string) (models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Habit{}, fmt.Errorf("habit name is required")
	}
	habit, err := h.store.AddHabit(models.Habit{
		ID:        uuid.New().String(),
		Name:      name,
		Emoji:     strings.TrimSpace(emoji),
		CreatedAt: h.clock.Now(),
	})
	if err != nil {
		return models.Habit{}, err
	}
	logger.Info("Added habit", "id", habit.ID, "name", habit.Name)
	return habit, nil
}

// RemoveHabit deletes the habit and all of its logs.
func (h *Habits) RemoveHabit(id string) error {
	if _, err := h.store.GetHabit(id); err != nil {
		return err
	}
	if err := h.store.DeleteHabit(id); err != nil {
		return err
	}
	logger.Info("Removed habit", "id", id)
	return nil
}

// Toggle flips the habit's completion for date. A habit with no log for
// date becomes completed. It returns the new completion state.
func (h *Habits) Toggle(habitID, date string) (bool, error) {
	if _, err := h.store.GetHabit(habitID); err != nil {
		return false, err
	}

	created, err := h.store.InsertHabitLogIfAbsent(models.HabitLog{
		ID:        uuid.New().String(),
		HabitID:   habitID,
		Date:      date,
		Completed: true,
	})
	if err != nil {
		return false, err
	}
	if created {
		return true, nil
	}

	log, err := h.store.GetHabitLog(habitID, date)
	if err != nil {
		return false, err
	}
	log.Completed = !log.Completed
	if err := h.store.SaveHabitLog(log); err != nil {
		return false, err
	}
	return log.Completed, nil
}

// StatusForDate maps habit ids to completion for exactly date. Habits
// without a completed log for date are absent.
func (h *Habits) StatusForDate(date string) (map[string]bool, error) {
	logs, err := h.store.GetHabitLogsForDate(date)
	if err != nil {
		return nil, err
	}
	status := make(map[string]bool, len(logs))
	for _, log := range logs {
		if log.Completed {
			status[log.HabitID] = true
		}
	}
	return status, nil
}

// WithStatus returns every habit with its completion for date.
func (h *Habits) WithStatus(date string) ([]HabitStatus, error) {
	habits, err := h.store.GetAllHabits()
	if err != nil {
		return nil, err
	}
	status, err := h.StatusForDate(date)
	if err != nil {
		return nil, err
	}

	out := make([]HabitStatus, 0, len(habits))
	for _, habit := range habits {
		out = append(out, HabitStatus{Habit: habit, Completed: status[habit.ID]})
	}
	return out, nil
}

// SeedDefaults adds DefaultHabits when the store has no habits. It returns
// the number of habits added.
func (h *Habits) SeedDefaults() (int, error) {
	existing, err := h.store.GetAllHabits()
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	now := h.clock.Now()
	for i, d := range DefaultHabits {
		_, err := h.store.AddHabit(models.Habit{
			ID:    uuid.New().String(),
			Name:  d.Name,
			Emoji: d.Emoji,
			// Distinct timestamps keep the seeded order stable.
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
		})
		if err != nil {
			return i, err
		}
	}
	logger.Info("Seeded default habits", "count", len(DefaultHabits))
	return len(DefaultHabits), nil
}

