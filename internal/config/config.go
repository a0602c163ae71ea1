package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/notexe/howler/internal/reminder"
)

// Store backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// EnvPrefix marks environment overrides, e.g. HOWLER_SPEECH__RATE=150.
const EnvPrefix = "HOWLER_"

type Config struct {
	Location  string          `koanf:"location"`
	Store     StoreConfig     `koanf:"store"`
	Speech    SpeechConfig    `koanf:"speech"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Policy    PolicyConfig    `koanf:"policy"`
	Telegram  TelegramConfig  `koanf:"telegram"`
	Log       LogConfig       `koanf:"log"`
	UI        UIConfig        `koanf:"ui"`
}

type StoreConfig struct {
	Backend    string `koanf:"backend"`
	Path       string `koanf:"path"`
	SQLitePath string `koanf:"sqlite_path"`
}

type SpeechConfig struct {
	Command string  `koanf:"command"`
	Rate    int     `koanf:"rate"`
	Volume  float64 `koanf:"volume"`
	Voice   string  `koanf:"voice"`
}

type SchedulerConfig struct {
	Enabled  bool `koanf:"enabled"`
	Interval int  `koanf:"interval"` // seconds
}

// WindowConfig is the active-hours window and cooldown of one category.
type WindowConfig struct {
	StartHour       int `koanf:"start_hour"`
	EndHour         int `koanf:"end_hour"`
	CooldownMinutes int `koanf:"cooldown_minutes"`
}

type PolicyConfig struct {
	Tomorrow WindowConfig `koanf:"tomorrow"`
	Today    WindowConfig `koanf:"today"`
	Overdue  WindowConfig `koanf:"overdue"`
}

type TelegramConfig struct {
	Enabled  bool   `koanf:"enabled"`
	BotToken string `koanf:"bot_token"`
	ChatID   int64  `koanf:"chat_id"`
}

type LogConfig struct {
	Level       string `koanf:"level"`
	Development bool   `koanf:"development"`
	File        string `koanf:"file"`
}

type UIConfig struct {
	ColoredOutput bool   `koanf:"colored_output"`
	HistoryFile   string `koanf:"history_file"`
}

// Load layers defaults, the optional YAML file at configPath and HOWLER_*
// environment variables, in that order.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Store.Path = expandPath(cfg.Store.Path)
	cfg.Store.SQLitePath = expandPath(cfg.Store.SQLitePath)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.UI.HistoryFile = expandPath(cfg.UI.HistoryFile)

	return &cfg, nil
}

// envKey maps HOWLER_SPEECH__RATE to speech.rate.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendJSON:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the json backend")
		}
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown store backend: %s (supported: %s, %s)",
			c.Store.Backend, BackendJSON, BackendSQLite)
	}

	if c.Speech.Command == "" {
		return fmt.Errorf("speech.command is required")
	}
	if c.Speech.Rate <= 0 {
		return fmt.Errorf("speech.rate must be positive")
	}
	if c.Speech.Volume < 0 || c.Speech.Volume > 2 {
		return fmt.Errorf("speech.volume must be between 0 and 2")
	}

	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be positive, got %d", c.Scheduler.Interval)
	}

	for name, w := range map[string]WindowConfig{
		"tomorrow": c.Policy.Tomorrow,
		"today":    c.Policy.Today,
		"overdue":  c.Policy.Overdue,
	} {
		if w.StartHour < 0 || w.EndHour > 23 || w.StartHour > w.EndHour {
			return fmt.Errorf("policy.%s: invalid active hours %d-%d", name, w.StartHour, w.EndHour)
		}
		if w.CooldownMinutes < 0 {
			return fmt.Errorf("policy.%s: cooldown_minutes must not be negative", name)
		}
	}

	if c.Telegram.Enabled && (c.Telegram.BotToken == "" || c.Telegram.ChatID == 0) {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id are required when telegram is enabled")
	}

	if _, err := c.TimeLocation(); err != nil {
		return err
	}

	return nil
}

// TimeLocation resolves Location. "Local" and "" mean the system zone.
func (c *Config) TimeLocation() (*time.Location, error) {
	if c.Location == "" || c.Location == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", c.Location, err)
	}
	return loc, nil
}

// Policies builds the evaluator's notification table from the configured windows.
func (c *Config) Policies() reminder.Policies {
	return reminder.DefaultPolicies().
		WithWindow(reminder.Tomorrow, c.Policy.Tomorrow.window()).
		WithWindow(reminder.Today, c.Policy.Today.window()).
		WithWindow(reminder.Overdue, c.Policy.Overdue.window())
}

func (w WindowConfig) window() reminder.Window {
	return reminder.Window{
		StartHour:       w.StartHour,
		EndHour:         w.EndHour,
		CooldownMinutes: w.CooldownMinutes,
	}
}

// SchedulerInterval returns the scheduler cadence.
func (c *Config) SchedulerInterval() time.Duration {
	return time.Duration(c.Scheduler.Interval) * time.Second
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
