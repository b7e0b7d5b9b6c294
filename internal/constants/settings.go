package constants

const (
	// Settings keys, as stored in config files and backups
	SettingResetTime      = "reset_time"
	SettingNightModeStart = "night_mode_start"
	SettingNightModeEnd   = "night_mode_end"
	SettingTimezone       = "timezone"

	// Default Settings Values
	DefaultResetTime      = "06:00"
	DefaultNightModeStart = "23:00"
	DefaultNightModeEnd   = "06:00"
	DefaultTimezone       = "Local" // Use system local timezone by default

	// SettingsID is the fixed identity of the settings singleton
	SettingsID = 1
)
