package sqlite

import (
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	apperrors "github.com/julianstephens/lifeops/internal/errors"
	"github.com/julianstephens/lifeops/internal/logger"
	"github.com/julianstephens/lifeops/internal/models"
)

type habitRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Emoji     string `db:"emoji"`
	CreatedAt string `db:"created_at"`
}

func (r habitRow) model() (models.Habit, error) {
	createdAt, err := parseTime("created_at", r.CreatedAt)
	if err != nil {
		return models.Habit{}, err
	}
	return models.Habit{ID: r.ID, Name: r.Name, Emoji: r.Emoji, CreatedAt: createdAt}, nil
}

type habitLogRow struct {
	ID        string `db:"id"`
	HabitID   string `db:"habit_id"`
	Date      string `db:"date"`
	Completed bool   `db:"completed"`
}

func (r habitLogRow) model() models.HabitLog {
	return models.HabitLog{ID: r.ID, HabitID: r.HabitID, Date: r.Date, Completed: r.Completed}
}

func (s *Store) AddHabit(habit models.Habit) (models.Habit, error) {
	if habit.ID == "" {
		habit.ID = uuid.New().String()
	}
	if err := s.upsertHabit(s.db, habit); err != nil {
		return models.Habit{}, apperrors.Storage("add habit", err)
	}
	return habit, nil
}

func (s *Store) upsertHabit(ex sqlx.Execer, habit models.Habit) error {
	query, args, err := s.psql.Insert("habits").
		Columns("id", "name", "emoji", "created_at").
		Values(habit.ID, habit.Name, habit.Emoji, formatTime(habit.CreatedAt)).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			emoji = excluded.emoji,
			created_at = excluded.created_at`).
		ToSql()
	if err != nil {
		return err
	}
	_, err = ex.Exec(query, args...)
	return err
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	var row habitRow
	err := s.db.Get(&row, "SELECT id, name, emoji, created_at FROM habits WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, apperrors.ErrNotFound
		}
		return models.Habit{}, apperrors.Storage("get habit", err)
	}
	habit, err := row.model()
	return habit, apperrors.Storage("get habit", err)
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	var rows []habitRow
	if err := s.db.Select(&rows, "SELECT id, name, emoji, created_at FROM habits ORDER BY created_at, id"); err != nil {
		return nil, apperrors.Storage("get habits", err)
	}

	habits := make([]models.Habit, 0, len(rows))
	for _, row := range rows {
		h, err := row.model()
		if err != nil {
			return nil, apperrors.Storage("get habits", err)
		}
		habits = append(habits, h)
	}
	return habits, nil
}

func (s *Store) DeleteHabit(id string) error {
	var removedLogs int64
	err := s.inTx(func(tx *sqlx.Tx) error {
		res, err := tx.Exec("DELETE FROM habit_logs WHERE habit_id = ?", id)
		if err != nil {
			return err
		}
		if removedLogs, err = res.RowsAffected(); err != nil {
			return err
		}
		_, err = tx.Exec("DELETE FROM habits WHERE id = ?", id)
		return err
	})
	if err != nil {
		return apperrors.Storage("delete habit", err)
	}
	logger.Debug("Deleted habit", "id", id, "logs", removedLogs)
	return nil
}

func (s *Store) GetHabitLog(habitID, date string) (models.HabitLog, error) {
	var row habitLogRow
	err := s.db.Get(&row, "SELECT id, habit_id, date, completed FROM habit_logs WHERE habit_id = ? AND date = ?", habitID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.HabitLog{}, apperrors.ErrNotFound
		}
		return models.HabitLog{}, apperrors.Storage("get habit log", err)
	}
	return row.model(), nil
}

func (s *Store) InsertHabitLogIfAbsent(log models.HabitLog) (bool, error) {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	query, args, err := s.psql.Insert("habit_logs").
		Columns("id", "habit_id", "date", "completed").
		Values(log.ID, log.HabitID, log.Date, log.Completed).
		Suffix("ON CONFLICT(habit_id, date) DO NOTHING").
		ToSql()
	if err != nil {
		return false, apperrors.Storage("insert habit log", err)
	}

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return false, apperrors.Storage("insert habit log", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.Storage("insert habit log", err)
	}
	return n == 1, nil
}

func (s *Store) SaveHabitLog(log models.HabitLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	return apperrors.Storage("save habit log", s.upsertHabitLog(s.db, log))
}

// upsertHabitLog keys on (habit_id, date); the stored id wins over log.ID.
func (s *Store) upsertHabitLog(ex sqlx.Execer, log models.HabitLog) error {
	query, args, err := s.psql.Insert("habit_logs").
		Columns("id", "habit_id", "date", "completed").
		Values(log.ID, log.HabitID, log.Date, log.Completed).
		Suffix("ON CONFLICT(habit_id, date) DO UPDATE SET completed = excluded.completed").
		ToSql()
	if err != nil {
		return err
	}
	_, err = ex.Exec(query, args...)
	return err
}

func (s *Store) GetHabitLogsForDate(date string) ([]models.HabitLog, error) {
	return s.selectLogs("get habit logs", s.psql.Select("id", "habit_id", "date", "completed").
		From("habit_logs").
		Where(sq.Eq{"date": date}).
		OrderBy("habit_id"))
}

// GetHabitLogsInRange returns logs with start <= date <= end.
func (s *Store) GetHabitLogsInRange(start, end string) ([]models.HabitLog, error) {
	return s.selectLogs("get habit logs in range", s.psql.Select("id", "habit_id", "date", "completed").
		From("habit_logs").
		Where(sq.And{sq.GtOrEq{"date": start}, sq.LtOrEq{"date": end}}).
		OrderBy("date", "habit_id"))
}

func (s *Store) GetAllHabitLogs() ([]models.HabitLog, error) {
	return s.selectLogs("get all habit logs", s.psql.Select("id", "habit_id", "date", "completed").
		From("habit_logs").
		OrderBy("date", "habit_id"))
}

func (s *Store) selectLogs(op string, b sq.SelectBuilder) ([]models.HabitLog, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, apperrors.Storage(op, err)
	}

	var rows []habitLogRow
	if err := s.db.Select(&rows, query, args...); err != nil {
		return nil, apperrors.Storage(op, err)
	}

	logs := make([]models.HabitLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, row.model())
	}
	return logs, nil
}
