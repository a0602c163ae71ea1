// Package facade exposes the synchronous reminder operations used by the
// foreground surfaces (interactive shell, MCP server, one-shot commands).
package facade

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmhodges/clock"
	"go.uber.org/zap"

	"github.com/notexe/howler/internal/reminder"
	"github.com/notexe/howler/internal/speech"
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the response shape of every mutating operation.
type Result struct {
	Status   string             `json:"status"`
	Message  string             `json:"message,omitempty"`
	Reminder *reminder.Reminder `json:"reminder,omitempty"`
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

func success(msg string) Result {
	return Result{Status: StatusSuccess, Message: msg}
}

func failure(format string, args ...interface{}) Result {
	return Result{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

// Speaker is the speech capability the facade needs.
type Speaker interface {
	Speak(ctx context.Context, message string, rate int, volume float64, voiceIndex int) error
	ListVoices(ctx context.Context) []speech.Voice
}

// Facade performs one load, at most one mutation and at most one save per call.
type Facade struct {
	store   reminder.Store
	speaker Speaker
	checker Checker
	clock   clock.Clock
	logger  *zap.SugaredLogger
}

// Checker runs an on-demand evaluation pass.
type Checker interface {
	Evaluate(ctx context.Context) reminder.Report
}

// New creates a Facade. checker may be nil, in which case CheckReminders
// reports an error.
func New(store reminder.Store, speaker Speaker, checker Checker, clk clock.Clock, logger *zap.SugaredLogger) *Facade {
	if clk == nil {
		clk = clock.New()
	}
	return &Facade{
		store:   store,
		speaker: speaker,
		checker: checker,
		clock:   clk,
		logger:  logger,
	}
}

// AddReminder appends a new open reminder due on date (YYYY-MM-DD).
func (f *Facade) AddReminder(title, date string) Result {
	title = strings.TrimSpace(title)
	date = strings.TrimSpace(date)
	if title == "" {
		return failure("title is required")
	}
	if _, err := time.Parse(reminder.DateLayout, date); err != nil {
		return failure("invalid date %q (use YYYY-MM-DD)", date)
	}

	reminders := f.store.Load()

	id := f.clock.Now().UnixMilli()
	for reminder.Find(reminders, id) >= 0 {
		id++
	}

	r := reminder.Reminder{ID: id, Title: title, Date: date}
	reminders = append(reminders, r)

	if err := f.store.Save(reminders); err != nil {
		f.logger.Errorw("failed to add reminder", "err", err)
		return failure("%v", err)
	}
	return Result{Status: StatusSuccess, Reminder: &r}
}

// GetReminders returns the stored reminders.
func (f *Facade) GetReminders() []reminder.Reminder {
	return f.store.Load()
}

// CompleteReminder marks the reminder done and records when.
func (f *Facade) CompleteReminder(id int64) Result {
	now := f.clock.Now()
	return f.update(id, func(r *reminder.Reminder) {
		r.Complete(now)
	})
}

// UncompleteReminder reopens the reminder.
func (f *Facade) UncompleteReminder(id int64) Result {
	return f.update(id, (*reminder.Reminder).Reopen)
}

func (f *Facade) update(id int64, mutate func(r *reminder.Reminder)) Result {
	reminders := f.store.Load()
	i := reminder.Find(reminders, id)
	if i < 0 {
		return failure("Reminder not found")
	}
	if reminders[i].IsMalformed() {
		return failure("Reminder %d is malformed in storage and cannot be changed", id)
	}
	mutate(&reminders[i])

	if err := f.store.Save(reminders); err != nil {
		f.logger.Errorw("failed to update reminder", "id", id, "err", err)
		return failure("%v", err)
	}
	return Result{Status: StatusSuccess, Reminder: &reminders[i]}
}

// DeleteReminder removes the reminder with id. Nothing is written when no
// reminder matches.
func (f *Facade) DeleteReminder(id int64) Result {
	reminders := f.store.Load()
	i := reminder.Find(reminders, id)
	if i < 0 {
		return failure("Reminder not found")
	}
	reminders = append(reminders[:i], reminders[i+1:]...)

	if err := f.store.Save(reminders); err != nil {
		f.logger.Errorw("failed to delete reminder", "id", id, "err", err)
		return failure("%v", err)
	}
	return success("Reminder deleted")
}

// ClearCompletedReminders drops every completed reminder.
func (f *Facade) ClearCompletedReminders() Result {
	reminders := f.store.Load()
	active := make([]reminder.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if !r.Completed {
			active = append(active, r)
		}
	}

	if err := f.store.Save(active); err != nil {
		f.logger.Errorw("failed to clear completed reminders", "err", err)
		return failure("%v", err)
	}
	return success(fmt.Sprintf("Cleared %d completed reminders", len(reminders)-len(active)))
}

// SendHowler speaks message with explicit settings. It blocks until
// playback finishes.
func (f *Facade) SendHowler(ctx context.Context, message string, speed int, volume float64, voiceIndex int) Result {
	if strings.TrimSpace(message) == "" {
		return failure("message is required")
	}
	if err := f.speaker.Speak(ctx, message, speed, volume, voiceIndex); err != nil {
		f.logger.Errorw("failed to send howler", "err", err)
		return failure("%v", err)
	}
	return success("Howler sent!")
}

// GetAvailableVoices lists the speech voices.
func (f *Facade) GetAvailableVoices(ctx context.Context) []speech.Voice {
	return f.speaker.ListVoices(ctx)
}

// CheckReminders runs one evaluation pass now.
func (f *Facade) CheckReminders(ctx context.Context) (reminder.Report, error) {
	if f.checker == nil {
		return reminder.Report{}, fmt.Errorf("reminder checks are not available")
	}
	return f.checker.Evaluate(ctx), nil
}
