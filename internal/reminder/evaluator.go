package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmhodges/clock"
	"go.uber.org/zap"
)

// Announcer delivers a notification message. Implementations may block
// until delivery completes.
type Announcer interface {
	Announce(ctx context.Context, message string) error
}

// Fanout announces through every announcer and joins their errors.
type Fanout []Announcer

func (f Fanout) Announce(ctx context.Context, message string) error {
	var errs []error
	for _, a := range f {
		if err := a.Announce(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Decision records what the evaluator did with one reminder.
type Decision struct {
	ID       int64
	Title    string
	Category Category
	Notified bool
	Message  string
	Reason   string
}

// Report summarises one evaluation pass.
type Report struct {
	At        time.Time
	Checked   int
	Notified  int
	Errors    int
	Saved     bool
	SaveErr   error
	Decisions []Decision
}

// Evaluator runs the due-reminder pass: classify every open reminder,
// announce the ones whose category is active and off cooldown, and persist
// the updated cooldown stamps.
type Evaluator struct {
	store     Store
	announcer Announcer
	policies  Policies
	clock     clock.Clock
	loc       *time.Location
	logger    *zap.SugaredLogger
}

// EvaluatorOption customises an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithClock sets the time source.
func WithClock(c clock.Clock) EvaluatorOption {
	return func(e *Evaluator) { e.clock = c }
}

// WithLocation sets the location used for "today" and active hours.
func WithLocation(loc *time.Location) EvaluatorOption {
	return func(e *Evaluator) { e.loc = loc }
}

// WithPolicies replaces the default notification table.
func WithPolicies(p Policies) EvaluatorOption {
	return func(e *Evaluator) { e.policies = p }
}

// NewEvaluator creates an Evaluator over store that notifies through announcer.
func NewEvaluator(store Store, announcer Announcer, logger *zap.SugaredLogger, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		store:     store,
		announcer: announcer,
		policies:  DefaultPolicies(),
		clock:     clock.New(),
		loc:       time.Local,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs one pass over the full reminder set.
func (e *Evaluator) Evaluate(ctx context.Context) Report {
	now := e.clock.Now().In(e.loc)
	reminders := e.store.Load()

	report := Report{At: now}
	changed := false

	e.logger.Debugw("checking reminders", "at", now.Format(time.DateTime), "total", len(reminders))

	for i := range reminders {
		r := &reminders[i]
		if r.IsMalformed() {
			report.Checked++
			report.Errors++
			e.logger.Warnw("skipping malformed reminder", "id", r.ID)
			continue
		}
		if r.Completed {
			continue
		}
		report.Checked++

		d, err := e.evaluateOne(ctx, r, now)
		if err != nil {
			report.Errors++
			e.logger.Warnw("skipping reminder", "id", r.ID, "title", r.Title, "err", err)
			continue
		}
		report.Decisions = append(report.Decisions, d)
		if d.Notified {
			report.Notified++
			changed = true
		}
	}

	if !changed {
		e.logger.Debug("no reminders announced this pass")
		return report
	}

	if err := e.store.Save(reminders); err != nil {
		report.SaveErr = err
		e.logger.Errorw("failed to save cooldowns", "err", err)
		return report
	}
	report.Saved = true
	return report
}

func (e *Evaluator) evaluateOne(ctx context.Context, r *Reminder, now time.Time) (Decision, error) {
	d := Decision{ID: r.ID, Title: r.Title}

	due, err := r.DueDate(e.loc)
	if err != nil {
		return d, fmt.Errorf("invalid due date %q: %w", r.Date, err)
	}

	c := Classify(due, now)
	d.Category = c.Category

	policy, ok := e.policies[c.Category]
	if !ok {
		d.Reason = "not due"
		return d, nil
	}

	if !policy.Active(now.Hour()) {
		d.Reason = fmt.Sprintf("outside active hours %d-%d", policy.StartHour, policy.EndHour)
		e.logger.Debugw("quiet hours", "id", r.ID, "category", c.Category, "hour", now.Hour())
		return d, nil
	}

	field := policy.Field(r)
	if last, ok := field.Time(e.loc); ok {
		elapsed := now.Sub(last)
		if elapsed < policy.Cooldown {
			d.Reason = fmt.Sprintf("cooldown, %s remaining", (policy.Cooldown - elapsed).Round(time.Second))
			return d, nil
		}
	} else if field.IsSet() {
		e.logger.Warnw("unparseable cooldown stamp, treating as unset", "id", r.ID, "stamp", string(*field))
	}

	d.Message = policy.Message(r.Title, c)
	if err := e.announcer.Announce(ctx, d.Message); err != nil {
		// A failed announcement still starts the cooldown.
		e.logger.Errorw("announcement failed", "id", r.ID, "err", err)
	} else {
		e.logger.Infow("announced", "id", r.ID, "category", c.Category, "message", d.Message)
	}

	*field = NewStamp(now)
	d.Notified = true
	return d, nil
}
