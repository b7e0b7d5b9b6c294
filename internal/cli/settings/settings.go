package settings

import (
	"fmt"
	"time"

	"github.com/julianstephens/lifeops/internal/cli"
	"github.com/julianstephens/lifeops/internal/models"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	ResetTime      *string `help:"Time a new day begins (HH:MM)."`
	NightModeStart *string `help:"Start of the night-mode window (HH:MM)."`
	NightModeEnd   *string `help:"End of the night-mode window (HH:MM)."`
	Timezone       *string `help:"IANA timezone name, or Local for the system zone."`
}

func (c *SettingsCmd) patch() models.SettingsPatch {
	return models.SettingsPatch{
		ResetTime:      c.ResetTime,
		NightModeStart: c.NightModeStart,
		NightModeEnd:   c.NightModeEnd,
		Timezone:       c.Timezone,
	}
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Controller().Settings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	patch := c.patch()
	if c.List || patch.Empty() {
		printSettings(ctx, settings)
		if !c.List {
			fmt.Println("\nUse flags to change a setting, e.g. --reset-time 05:00.")
		}
		return nil
	}

	updated, err := settings.Apply(patch)
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := ctx.Store.SaveSettings(updated); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	printSettings(ctx, updated)
	return nil
}

func printSettings(ctx *cli.Context, s models.Settings) {
	now := ctx.Controller().Clock().Now().In(s.Location())
	night := "off"
	if s.IsNightMode(now) {
		night = "on"
	}

	fmt.Println("Current Settings:")
	fmt.Printf("  Reset Time:       %s\n", s.ResetTime)
	fmt.Printf("  Night Mode:       %s - %s (now %s)\n", s.NightModeStart, s.NightModeEnd, night)
	fmt.Printf("  Timezone:         %s\n", s.Timezone)
	fmt.Printf("  Local Time:       %s\n", now.Format(time.DateTime))
	if today, err := ctx.Controller().TodayKey(); err == nil {
		fmt.Printf("  Current Day:      %s\n", today)
	}
}
