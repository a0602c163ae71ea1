package repl

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/notexe/howler/internal/reminder"
)

const helpMarkdown = `# Howler commands

| Command | What it does |
|---|---|
| ` + "`/add <YYYY-MM-DD> <title>`" + ` | add a reminder |
| ` + "`/list`" + ` | show every reminder |
| ` + "`/done <id>`" + ` | mark a reminder completed |
| ` + "`/undo <id>`" + ` | reopen a completed reminder |
| ` + "`/rm <id>`" + ` | delete a reminder |
| ` + "`/clear`" + ` | delete all completed reminders |
| ` + "`/say <message>`" + ` | speak a message now |
| ` + "`/voices`" + ` | list speech voices |
| ` + "`/check`" + ` | run the due-reminder check now |
| ` + "`/quit`" + ` | leave the shell |

Any line that does not start with ` + "`/`" + ` is spoken aloud.

## Announcements

`

// helpText appends the announcement schedule of policies to the command
// table.
func helpText(policies reminder.Policies) string {
	var b strings.Builder
	b.WriteString(helpMarkdown)
	for _, c := range []reminder.Category{reminder.Tomorrow, reminder.Today, reminder.Overdue} {
		p, ok := policies[c]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- **%s**: %s, %d:00 to %d:59\n", c, every(p.Cooldown), p.StartHour, p.EndHour)
	}
	return b.String()
}

func every(d time.Duration) string {
	switch {
	case d <= 0:
		return "every check"
	case d == time.Hour:
		return "every hour"
	case d%time.Hour == 0:
		return fmt.Sprintf("every %d hours", int(d/time.Hour))
	case d == time.Minute:
		return "every minute"
	default:
		return fmt.Sprintf("every %d minutes", int(d/time.Minute))
	}
}

// renderHelp renders the help page, falling back to the raw markdown when
// the terminal renderer is unavailable.
func renderHelp(policies reminder.Policies) string {
	md := helpText(policies)
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return out
}
