package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/notexe/howler/internal/reminder"
	"github.com/notexe/howler/internal/speech"
)

var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // Coral red
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // Warm yellow

	SystemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("183")). // Soft purple
			Italic(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Medium gray
			Italic(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")). // Soft blue border
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")). // Green
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")). // Yellow
			Bold(true)

	AccentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("147")) // Light purple
)

// categoryStyles colour a reminder by urgency.
var categoryStyles = map[reminder.Category]lipgloss.Style{
	reminder.Overdue:  ErrorStyle,
	reminder.Today:    WarningStyle,
	reminder.Tomorrow: AccentStyle,
	reminder.Future:   DimStyle,
}

type Formatter struct {
	colored bool
	loc     *time.Location
}

func NewFormatter(colored bool, loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{colored: colored, loc: loc}
}

func (f *Formatter) render(style lipgloss.Style, s string) string {
	if f.colored {
		return style.Render(s)
	}
	return s
}

func (f *Formatter) FormatError(err error) string {
	return f.render(ErrorStyle, "Error: ") + err.Error()
}

func (f *Formatter) FormatInfo(info string) string {
	return f.render(InfoStyle, info)
}

func (f *Formatter) FormatSystem(msg string) string {
	return f.render(SystemStyle, msg)
}

func (f *Formatter) FormatStatus(msg string) string {
	return f.render(StatusStyle, msg)
}

func (f *Formatter) FormatSuccess(msg string) string {
	return f.render(SuccessStyle, "✓ ") + msg
}

// FormatWelcome renders the shell banner.
func (f *Formatter) FormatWelcome(storePath string, schedulerOn bool) string {
	sched := "off"
	if schedulerOn {
		sched = "on"
	}
	body := fmt.Sprintf("%s\n%s\n%s",
		f.render(HeaderStyle, "🔥 Howler Reminders 🔥"),
		f.render(DimStyle, "store: "+storePath),
		f.render(DimStyle, "background checks: "+sched+" · /help for commands"))
	if f.colored {
		return BoxStyle.Render(body) + "\n\n"
	}
	return body + "\n\n"
}

// FormatReminders renders reminders one per line, coloured by how due they are at now.
func (f *Formatter) FormatReminders(reminders []reminder.Reminder, now time.Time) string {
	if len(reminders) == 0 {
		return f.FormatInfo("No reminders found.")
	}

	var b strings.Builder
	today := now.In(f.loc)
	for _, r := range reminders {
		check := "[ ]"
		if r.Completed {
			check = "[x]"
		}

		label := "invalid date"
		style := ErrorStyle
		if r.IsMalformed() {
			label = "malformed record"
		} else if due, err := r.DueDate(f.loc); err == nil {
			c := reminder.Classify(due, today)
			label = describe(c)
			style = categoryStyles[c.Category]
		}
		if r.Completed {
			style = DimStyle
			label = "done"
		}

		fmt.Fprintf(&b, "%s %s  %s  %s %s\n",
			check,
			f.render(DimStyle, fmt.Sprintf("%d", r.ID)),
			r.Date,
			r.Title,
			f.render(style, "("+label+")"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func describe(c reminder.Classification) string {
	switch c.Category {
	case reminder.Overdue:
		if c.DaysLate == 1 {
			return "overdue 1 day"
		}
		return fmt.Sprintf("overdue %d days", c.DaysLate)
	case reminder.Today:
		return "due today"
	case reminder.Tomorrow:
		return "due tomorrow"
	default:
		return "upcoming"
	}
}

// FormatVoices renders the voice list.
func (f *Formatter) FormatVoices(voices []speech.Voice) string {
	var b strings.Builder
	for _, v := range voices {
		fmt.Fprintf(&b, "%s %s %s\n",
			f.render(AccentStyle, fmt.Sprintf("%3d", v.Index)),
			v.Name,
			f.render(DimStyle, "("+v.ID+")"))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatReport summarises an evaluation pass.
func (f *Formatter) FormatReport(report reminder.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s checked %d, announced %d, errors %d\n",
		f.render(HeaderStyle, report.At.Format(time.DateTime)),
		report.Checked, report.Notified, report.Errors)
	for _, d := range report.Decisions {
		if d.Notified {
			fmt.Fprintf(&b, "  %s %s\n", f.render(SuccessStyle, "🔊"), d.Message)
			continue
		}
		if d.Reason != "" && d.Category != reminder.Future {
			fmt.Fprintf(&b, "  %s %s: %s\n", f.render(DimStyle, "·"), d.Title, f.render(DimStyle, d.Reason))
		}
	}
	if report.SaveErr != nil {
		b.WriteString(f.FormatError(report.SaveErr))
	}
	return strings.TrimRight(b.String(), "\n")
}
