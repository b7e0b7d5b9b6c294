package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/julianstephens/lifeops/internal/constants"
)

const (
	configName = "lifeops" // .yaml is implicit
	envPrefix  = "LIFEOPS"

	keyStore        = "store"
	keyPath         = "path"
	keyDebug        = "debug"
	keyPollInterval = "poll_interval"
)

// Config holds process-level options. User-facing day settings live in
// the store.
type Config struct {
	Store        string
	Path         string
	Debug        bool
	PollInterval time.Duration
	// File is the config file that was read, if any.
	File string
}

// Overrides are command-line values that win over file and environment.
// Zero values are ignored.
type Overrides struct {
	ConfigFile string
	Store      string
	Path       string
	Debug      bool
}

// DataDir is the directory holding lifeops data and logs.
func DataDir() string {
	return filepath.Join(xdg.DataHome, constants.AppName)
}

// DefaultPath returns the default store location for a backend.
func DefaultPath(store string) string {
	if store == constants.StoreBadger {
		return filepath.Join(DataDir(), constants.DefaultBadgerDir)
	}
	return filepath.Join(DataDir(), constants.DefaultSQLiteFile)
}

// Load reads lifeops.yaml from $LIFEOPS_CONFIG_PATH, the XDG config
// directory and ./, then applies LIFEOPS_* environment variables (a .env
// file in the working directory is loaded first) and finally o.
func Load(o Overrides) (Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault(keyStore, constants.StoreSQLite)
	v.SetDefault(keyPath, "")
	v.SetDefault(keyDebug, false)
	v.SetDefault(keyPollInterval, constants.DefaultPollInterval)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if o.ConfigFile != "" {
		file, err := homedir.Expand(o.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("failed to expand config path: %w", err)
		}
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		if override := os.Getenv(envPrefix + "_CONFIG_PATH"); override != "" {
			v.AddConfigPath(override)
		}
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, constants.AppName))
		v.AddConfigPath("./")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := Config{
		Store:        v.GetString(keyStore),
		Path:         v.GetString(keyPath),
		Debug:        v.GetBool(keyDebug),
		PollInterval: v.GetDuration(keyPollInterval),
		File:         v.ConfigFileUsed(),
	}
	if o.Store != "" {
		cfg.Store = o.Store
	}
	if o.Path != "" {
		cfg.Path = o.Path
	}
	if o.Debug {
		cfg.Debug = true
	}

	return cfg.finish()
}

func (c Config) finish() (Config, error) {
	switch c.Store {
	case constants.StoreSQLite, constants.StoreBadger:
	default:
		return Config{}, fmt.Errorf("invalid store %q (expected %s or %s)", c.Store, constants.StoreSQLite, constants.StoreBadger)
	}

	if c.Path == "" {
		c.Path = DefaultPath(c.Store)
	}
	path, err := homedir.Expand(c.Path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to expand data path: %w", err)
	}
	c.Path = path

	if c.PollInterval <= 0 {
		c.PollInterval = constants.DefaultPollInterval
	}
	return c, nil
}

// StoreDir is the directory that holds the store; logs and backups go
// next to it.
func (c Config) StoreDir() string {
	return filepath.Dir(filepath.Clean(c.Path))
}
