package reminder

import (
	"fmt"
	"time"
)

// Category is the relation of a reminder's due date to today.
type Category int

const (
	Future Category = iota
	Tomorrow
	Today
	Overdue
)

func (c Category) String() string {
	switch c {
	case Tomorrow:
		return "tomorrow"
	case Today:
		return "today"
	case Overdue:
		return "overdue"
	default:
		return "future"
	}
}

// Classification is the category of a reminder plus, for Overdue, how many
// days late it is.
type Classification struct {
	Category Category
	DaysLate int
}

// Classify compares the calendar dates of due and today. Clock time and
// location offsets are ignored.
func Classify(due, today time.Time) Classification {
	days := civilDays(today) - civilDays(due)
	switch {
	case days == -1:
		return Classification{Category: Tomorrow}
	case days == 0:
		return Classification{Category: Today}
	case days > 0:
		return Classification{Category: Overdue, DaysLate: days}
	default:
		return Classification{Category: Future}
	}
}

// civilDays counts days since the Unix epoch for t's calendar date.
func civilDays(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// Policy decides when a category may be announced and what is said.
type Policy struct {
	StartHour int
	EndHour   int
	Cooldown  time.Duration
	Message   func(title string, c Classification) string
	// Field selects the cooldown stamp this category owns.
	Field func(r *Reminder) *Stamp
}

// Active reports whether hour lies in the inclusive [StartHour, EndHour] window.
func (p Policy) Active(hour int) bool {
	return hour >= p.StartHour && hour <= p.EndHour
}

// Window is the configurable part of a Policy.
type Window struct {
	StartHour       int
	EndHour         int
	CooldownMinutes int
}

// Policies maps each notifiable category to its policy.
type Policies map[Category]Policy

// DefaultPolicies returns the built-in notification table.
func DefaultPolicies() Policies {
	return Policies{
		Tomorrow: {
			StartHour: 8, EndHour: 22, Cooldown: 30 * time.Minute,
			Message: func(title string, _ Classification) string {
				return fmt.Sprintf("REMINDER! %s is due TOMORROW!", title)
			},
			Field: func(r *Reminder) *Stamp { return &r.LastHowlTime },
		},
		Today: {
			StartHour: 7, EndHour: 23, Cooldown: 15 * time.Minute,
			Message: func(title string, _ Classification) string {
				return fmt.Sprintf("URGENT! %s is due TODAY!", title)
			},
			Field: func(r *Reminder) *Stamp { return &r.LastTodayHowl },
		},
		Overdue: {
			StartHour: 8, EndHour: 20, Cooldown: 60 * time.Minute,
			Message: func(title string, c Classification) string {
				unit := "day"
				if c.DaysLate > 1 {
					unit = "days"
				}
				return fmt.Sprintf("OVERDUE! %s was due %d %s ago!", title, c.DaysLate, unit)
			},
			Field: func(r *Reminder) *Stamp { return &r.LastOverdueHowl },
		},
	}
}

// WithWindow returns a copy of p with the window of category c replaced.
func (p Policies) WithWindow(c Category, w Window) Policies {
	out := make(Policies, len(p))
	for k, v := range p {
		out[k] = v
	}
	pol, ok := out[c]
	if !ok {
		return out
	}
	pol.StartHour = w.StartHour
	pol.EndHour = w.EndHour
	pol.Cooldown = time.Duration(w.CooldownMinutes) * time.Minute
	out[c] = pol
	return out
}
