package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	apperrors "github.com/julianstephens/lifeops/internal/errors"
	"github.com/julianstephens/lifeops/internal/models"
)

var dayColumns = []string{
	"date", "top3", "top3_done", "one_action", "one_action_done",
	"study_minutes_done", "run_plan", "run_done", "notes", "created_at", "updated_at",
}

type dayRow struct {
	Date             string `db:"date"`
	Top3             string `db:"top3"`
	Top3Done         string `db:"top3_done"`
	OneAction        string `db:"one_action"`
	OneActionDone    bool   `db:"one_action_done"`
	StudyMinutesDone int    `db:"study_minutes_done"`
	RunPlan          string `db:"run_plan"`
	RunDone          bool   `db:"run_done"`
	Notes            string `db:"notes"`
	CreatedAt        string `db:"created_at"`
	UpdatedAt        string `db:"updated_at"`
}

func (r dayRow) model() (models.DayRecord, error) {
	rec := models.DayRecord{
		Date:             r.Date,
		OneAction:        r.OneAction,
		OneActionDone:    r.OneActionDone,
		StudyMinutesDone: r.StudyMinutesDone,
		RunPlan:          models.RunPlan(r.RunPlan),
		RunDone:          r.RunDone,
	}
	if err := json.Unmarshal([]byte(r.Top3), &rec.Top3); err != nil {
		return rec, fmt.Errorf("failed to decode top3 for %s: %w", r.Date, err)
	}
	if err := json.Unmarshal([]byte(r.Top3Done), &rec.Top3Done); err != nil {
		return rec, fmt.Errorf("failed to decode top3_done for %s: %w", r.Date, err)
	}
	if err := json.Unmarshal([]byte(r.Notes), &rec.Notes); err != nil {
		return rec, fmt.Errorf("failed to decode notes for %s: %w", r.Date, err)
	}
	if rec.Notes == nil {
		rec.Notes = []string{}
	}

	var err error
	if rec.CreatedAt, err = parseTime("created_at", r.CreatedAt); err != nil {
		return rec, err
	}
	if rec.UpdatedAt, err = parseTime("updated_at", r.UpdatedAt); err != nil {
		return rec, err
	}
	return rec, nil
}

func dayValues(rec models.DayRecord) ([]interface{}, error) {
	top3, err := json.Marshal(rec.Top3)
	if err != nil {
		return nil, err
	}
	top3Done, err := json.Marshal(rec.Top3Done)
	if err != nil {
		return nil, err
	}
	notes := rec.Notes
	if notes == nil {
		notes = []string{}
	}
	notesJSON, err := json.Marshal(notes)
	if err != nil {
		return nil, err
	}
	return []interface{}{
		rec.Date, string(top3), string(top3Done), rec.OneAction, rec.OneActionDone,
		rec.StudyMinutesDone, string(rec.RunPlan), rec.RunDone, string(notesJSON),
		formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt),
	}, nil
}

func (s *Store) GetDayRecord(date string) (models.DayRecord, error) {
	query, args, err := s.psql.Select(dayColumns...).From("day_records").Where(sq.Eq{"date": date}).ToSql()
	if err != nil {
		return models.DayRecord{}, err
	}

	var row dayRow
	if err := s.db.Get(&row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DayRecord{}, apperrors.ErrNotFound
		}
		return models.DayRecord{}, apperrors.Storage("get day record", err)
	}
	rec, err := row.model()
	return rec, apperrors.Storage("get day record", err)
}

func (s *Store) InsertDayRecordIfAbsent(rec models.DayRecord) (bool, error) {
	if err := rec.Validate(); err != nil {
		return false, err
	}
	values, err := dayValues(rec)
	if err != nil {
		return false, apperrors.Storage("insert day record", err)
	}

	query, args, err := s.psql.Insert("day_records").
		Columns(dayColumns...).
		Values(values...).
		Suffix("ON CONFLICT(date) DO NOTHING").
		ToSql()
	if err != nil {
		return false, apperrors.Storage("insert day record", err)
	}

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return false, apperrors.Storage("insert day record", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.Storage("insert day record", err)
	}
	return n == 1, nil
}

func (s *Store) SaveDayRecord(rec models.DayRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	return apperrors.Storage("save day record", s.upsertDayRecord(s.db, rec))
}

func (s *Store) upsertDayRecord(ex sqlx.Execer, rec models.DayRecord) error {
	values, err := dayValues(rec)
	if err != nil {
		return err
	}

	query, args, err := s.psql.Insert("day_records").
		Columns(dayColumns...).
		Values(values...).
		Suffix(`ON CONFLICT(date) DO UPDATE SET
			top3 = excluded.top3,
			top3_done = excluded.top3_done,
			one_action = excluded.one_action,
			one_action_done = excluded.one_action_done,
			study_minutes_done = excluded.study_minutes_done,
			run_plan = excluded.run_plan,
			run_done = excluded.run_done,
			notes = excluded.notes,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return err
	}
	_, err = ex.Exec(query, args...)
	return err
}

// GetDayRecords returns the stored records among dates, ordered by date.
// Dates without a record are skipped.
func (s *Store) GetDayRecords(dates []string) ([]models.DayRecord, error) {
	if len(dates) == 0 {
		return []models.DayRecord{}, nil
	}
	query, args, err := s.psql.Select(dayColumns...).
		From("day_records").
		Where(sq.Eq{"date": dates}).
		OrderBy("date").
		ToSql()
	if err != nil {
		return nil, apperrors.Storage("get day records", err)
	}
	return s.selectDays(query, args...)
}

func (s *Store) GetAllDayRecords() ([]models.DayRecord, error) {
	query, args, err := s.psql.Select(dayColumns...).From("day_records").OrderBy("date").ToSql()
	if err != nil {
		return nil, apperrors.Storage("get all day records", err)
	}
	return s.selectDays(query, args...)
}

func (s *Store) selectDays(query string, args ...interface{}) ([]models.DayRecord, error) {
	var rows []dayRow
	if err := s.db.Select(&rows, query, args...); err != nil {
		return nil, apperrors.Storage("select day records", err)
	}

	records := make([]models.DayRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.model()
		if err != nil {
			return nil, apperrors.Storage("select day records", err)
		}
		records = append(records, rec)
	}
	return records, nil
}
