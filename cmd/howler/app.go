package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmhodges/clock"
	"go.uber.org/zap"

	"github.com/notexe/howler/internal/config"
	"github.com/notexe/howler/internal/facade"
	"github.com/notexe/howler/internal/logging"
	"github.com/notexe/howler/internal/reminder"
	"github.com/notexe/howler/internal/scheduler"
	"github.com/notexe/howler/internal/speech"
	"github.com/notexe/howler/internal/ui"
)

// app holds the wired components shared by every subcommand.
type app struct {
	cfg       *config.Config
	logger    *zap.SugaredLogger
	loc       *time.Location
	clock     clock.Clock
	store     reminder.Store
	storePath string
	notifier  *speech.Notifier
	evaluator *reminder.Evaluator
	facade    *facade.Facade
	formatter *ui.Formatter
	closers   []func() error
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, syncLogs, err := logging.New(logging.Options{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		File:        cfg.Log.File,
	})
	if err != nil {
		return nil, err
	}

	loc, err := cfg.TimeLocation()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		loc:       loc,
		clock:     clock.New(),
		formatter: ui.NewFormatter(cfg.UI.ColoredOutput, loc),
		closers:   []func() error{syncLogs},
	}

	if err := a.openStore(); err != nil {
		a.close()
		return nil, err
	}

	defaults := speech.Params{Rate: cfg.Speech.Rate, Volume: cfg.Speech.Volume, Voice: cfg.Speech.Voice}
	a.notifier = speech.NewNotifier(speech.NewCommandEngine(cfg.Speech.Command), defaults, logger.Named("speech"))

	announcers := reminder.Fanout{a.notifier}
	if cfg.Telegram.Enabled {
		tg, err := scheduler.NewTelegramAnnouncer(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			// Speech still works without the mirror.
			logger.Warnw("telegram mirror disabled", "err", err)
		} else {
			announcers = append(announcers, tg)
		}
	}

	a.evaluator = reminder.NewEvaluator(a.store, announcers, logger.Named("evaluator"),
		reminder.WithClock(a.clock),
		reminder.WithLocation(loc),
		reminder.WithPolicies(cfg.Policies()))

	a.facade = facade.New(a.store, a.notifier, a.evaluator, a.clock, logger.Named("facade"))
	return a, nil
}

func (a *app) openStore() error {
	storeLogger := a.logger.Named("store")
	switch a.cfg.Store.Backend {
	case config.BackendSQLite:
		if err := ensureDir(a.cfg.Store.SQLitePath); err != nil {
			return err
		}
		s, err := reminder.NewSQLiteStore(a.cfg.Store.SQLitePath, storeLogger)
		if err != nil {
			return err
		}
		a.store = s
		a.storePath = a.cfg.Store.SQLitePath
		a.closers = append(a.closers, s.Close)
	default:
		s := reminder.NewJSONStore(a.cfg.Store.Path, storeLogger)
		a.store = s
		a.storePath = s.Path()
	}
	return nil
}

func (a *app) scheduler() *scheduler.Scheduler {
	return scheduler.New(a.evaluator, a.cfg.SchedulerInterval(), a.logger.Named("scheduler"))
}

func (a *app) speechDefaults() facade.SpeechDefaults {
	d := a.notifier.Defaults()
	return facade.SpeechDefaults{Rate: d.Rate, Volume: d.Volume}
}

// close runs closers in reverse order. Close errors are ignored on exit.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}
