package sqlite

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/lifeops/internal/constants"
	apperrors "github.com/julianstephens/lifeops/internal/errors"
	"github.com/julianstephens/lifeops/internal/models"
)

type settingsRow struct {
	ID             int    `db:"id"`
	ResetTime      string `db:"reset_time"`
	NightModeStart string `db:"night_mode_start"`
	NightModeEnd   string `db:"night_mode_end"`
	Timezone       string `db:"timezone"`
}

func (r settingsRow) model() models.Settings {
	return models.Settings{
		ID:             r.ID,
		ResetTime:      r.ResetTime,
		NightModeStart: r.NightModeStart,
		NightModeEnd:   r.NightModeEnd,
		Timezone:       r.Timezone,
	}
}

func (s *Store) GetSettings() (models.Settings, error) {
	var row settingsRow
	err := s.db.Get(&row, `
		SELECT id, reset_time, night_mode_start, night_mode_end, timezone
		FROM settings WHERE id = ?`, constants.SettingsID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Settings{}, apperrors.ErrNotFound
		}
		return models.Settings{}, apperrors.Storage("get settings", err)
	}
	return row.model(), nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	return apperrors.Storage("save settings", s.upsertSettings(s.db, settings))
}

func (s *Store) upsertSettings(ex sqlx.Execer, settings models.Settings) error {
	query, args, err := s.psql.Insert("settings").
		Columns("id", "reset_time", "night_mode_start", "night_mode_end", "timezone").
		Values(constants.SettingsID, settings.ResetTime, settings.NightModeStart, settings.NightModeEnd, settings.Timezone).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			reset_time = excluded.reset_time,
			night_mode_start = excluded.night_mode_start,
			night_mode_end = excluded.night_mode_end,
			timezone = excluded.timezone`).
		ToSql()
	if err != nil {
		return err
	}
	_, err = ex.Exec(query, args...)
	return err
}
