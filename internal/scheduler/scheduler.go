package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/notexe/howler/internal/reminder"
)

// DefaultInterval is the pause between evaluation passes.
const DefaultInterval = 60 * time.Second

// Evaluator is the pass the scheduler drives.
type Evaluator interface {
	Evaluate(ctx context.Context) reminder.Report
}

// Scheduler runs reminder evaluation periodically in the background.
type Scheduler struct {
	evaluator Evaluator
	interval  time.Duration
	logger    *zap.SugaredLogger
}

// New creates a Scheduler that waits interval after each pass. A zero
// interval means DefaultInterval.
func New(evaluator Evaluator, interval time.Duration, logger *zap.SugaredLogger) *Scheduler {
	if interval == 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		evaluator: evaluator,
		interval:  interval,
		logger:    logger,
	}
}

// Run blocks, running one pass immediately and then one pass each time
// interval has elapsed since the previous pass finished. A slow pass
// delays the next one. It exits when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %s", s.interval)
	}

	s.logger.Infow("started", "interval", s.interval)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		s.tick(ctx)
		timer.Reset(s.interval)

		select {
		case <-ctx.Done():
			s.logger.Info("shutting down")
			return nil
		case <-timer.C:
		}
	}
}

// tick runs one pass. A panicking pass is logged and the loop carries on.
func (s *Scheduler) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorw("evaluation pass panicked", "panic", r)
		}
	}()

	report := s.evaluator.Evaluate(ctx)
	if report.SaveErr != nil {
		s.logger.Errorw("evaluation pass could not persist cooldowns", "err", report.SaveErr)
		return
	}
	s.logger.Debugw("pass finished",
		"checked", report.Checked,
		"notified", report.Notified,
		"errors", report.Errors)
}
