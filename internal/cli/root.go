package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/markusmobius/go-dateparser"

	"github.com/julianstephens/lifeops/internal/backup"
	"github.com/julianstephens/lifeops/internal/config"
	"github.com/julianstephens/lifeops/internal/dayengine"
	"github.com/julianstephens/lifeops/internal/logger"
	"github.com/julianstephens/lifeops/internal/storage"
	"github.com/julianstephens/lifeops/internal/utils"
)

type Context struct {
	Store  storage.Provider
	Config config.Config
	// Clock defaults to the system clock.
	Clock dayengine.Clock

	controller *dayengine.Controller
	habits     *dayengine.Habits
}

func (c *Context) clock() dayengine.Clock {
	if c.Clock == nil {
		c.Clock = dayengine.SystemClock{}
	}
	return c.Clock
}

// Controller returns the day-state controller over the context's store.
func (c *Context) Controller() *dayengine.Controller {
	if c.controller == nil {
		c.controller = dayengine.NewController(c.Store, c.clock())
	}
	return c.controller
}

// Habits returns the habit service over the context's store.
func (c *Context) Habits() *dayengine.Habits {
	if c.habits == nil {
		c.habits = dayengine.NewHabits(c.Store, c.clock())
	}
	return c.habits
}

// Aggregator returns a weekly aggregator over the context's store.
func (c *Context) Aggregator() *dayengine.Aggregator {
	return dayengine.NewAggregator(c.Store)
}

// Backups returns the snapshot manager for the context's store.
func (c *Context) Backups() *backup.Manager {
	return backup.NewManager(c.Store, c.Store.GetConfigPath())
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	_, err := c.Backups().CreateBackup()
	if err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveDate turns a --date value into a date key. An empty value or
// "today" is the current effective day; YYYY-MM-DD is taken as is; anything
// else ("yesterday", "last friday", "3 days ago") is parsed relative to the
// current effective day.
func (c *Context) ResolveDate(input string) (string, error) {
	input = strings.TrimSpace(input)
	if utils.ValidateDateKey(input) {
		return input, nil
	}

	today, err := c.Controller().TodayKey()
	if err != nil {
		return "", err
	}
	if input == "" || strings.EqualFold(input, "today") {
		return today, nil
	}

	settings, err := c.Controller().Settings()
	if err != nil {
		return "", err
	}
	// Noon keeps small zone differences from moving the date.
	day := utils.MustParseDateKey(today)
	ref := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, settings.Location())

	cfg := &dateparser.Configuration{
		CurrentTime:     ref,
		DefaultTimezone: settings.Location(),
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", input, err)
	}
	return utils.DateKey(result.Time.In(settings.Location())), nil
}

// Confirm asks a yes/no question. assumeYes skips the prompt.
func Confirm(title, description string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}

	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}
