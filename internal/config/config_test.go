package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/howler/internal/reminder"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, BackendJSON, cfg.Store.Backend)
	assert.Equal(t, filepath.Join(home, ".howler", "reminders.json"), cfg.Store.Path)
	assert.Equal(t, 170, cfg.Speech.Rate)
	assert.Equal(t, 1.0, cfg.Speech.Volume)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 60*time.Second, cfg.SchedulerInterval())
	assert.False(t, cfg.Telegram.Enabled)
	assert.Equal(t, filepath.Join(home, ".howler", "history"), cfg.UI.HistoryFile)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 170, cfg.Speech.Rate)
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
store:
  backend: sqlite
  sqlite_path: /tmp/howler-test.db
speech:
  rate: 140
policy:
  today:
    start_hour: 9
    end_hour: 18
    cooldown_minutes: 5
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/tmp/howler-test.db", cfg.Store.SQLitePath)
	assert.Equal(t, 140, cfg.Speech.Rate)
	assert.Equal(t, "espeak-ng", cfg.Speech.Command)
	assert.Equal(t, WindowConfig{StartHour: 9, EndHour: 18, CooldownMinutes: 5}, cfg.Policy.Today)
	assert.Equal(t, WindowConfig{StartHour: 8, EndHour: 22, CooldownMinutes: 30}, cfg.Policy.Tomorrow)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HOWLER_SPEECH__RATE", "200")
	t.Setenv("HOWLER_SCHEDULER__ENABLED", "false")
	t.Setenv("HOWLER_LOCATION", "UTC")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.Speech.Rate)
	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "UTC", cfg.Location)

	loc, err := cfg.TimeLocation()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }},
		{"empty json path", func(c *Config) { c.Store.Path = "" }},
		{"empty sqlite path", func(c *Config) { c.Store.Backend = BackendSQLite; c.Store.SQLitePath = "" }},
		{"no speech command", func(c *Config) { c.Speech.Command = "" }},
		{"zero rate", func(c *Config) { c.Speech.Rate = 0 }},
		{"loud volume", func(c *Config) { c.Speech.Volume = 3 }},
		{"zero interval", func(c *Config) { c.Scheduler.Interval = 0 }},
		{"inverted hours", func(c *Config) { c.Policy.Overdue.StartHour = 21 }},
		{"hour past midnight", func(c *Config) { c.Policy.Today.EndHour = 24 }},
		{"negative cooldown", func(c *Config) { c.Policy.Tomorrow.CooldownMinutes = -1 }},
		{"telegram without token", func(c *Config) { c.Telegram.Enabled = true; c.Telegram.ChatID = 1 }},
		{"bad location", func(c *Config) { c.Location = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)

			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPolicies(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Policy.Overdue = WindowConfig{StartHour: 10, EndHour: 12, CooldownMinutes: 90}

	p := cfg.Policies()

	assert.Equal(t, 10, p[reminder.Overdue].StartHour)
	assert.Equal(t, 12, p[reminder.Overdue].EndHour)
	assert.Equal(t, 90*time.Minute, p[reminder.Overdue].Cooldown)
	assert.Equal(t, 7, p[reminder.Today].StartHour)
	assert.Equal(t, "OVERDUE! Rent was due 2 days ago!",
		p[reminder.Overdue].Message("Rent", reminder.Classification{Category: reminder.Overdue, DaysLate: 2}))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x", "y.json"), expandPath("~/x/y.json"))
	assert.Equal(t, "/abs/y.json", expandPath("/abs/y.json"))
	assert.Equal(t, "", expandPath(""))
}
