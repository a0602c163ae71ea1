package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/jmhodges/clock"

	"github.com/notexe/howler/internal/facade"
	"github.com/notexe/howler/internal/reminder"
	"github.com/notexe/howler/internal/speech"
	"github.com/notexe/howler/internal/ui"
)

// Options configure the shell.
type Options struct {
	StorePath   string
	SchedulerOn bool
	Speech      speech.Params
	Policies    reminder.Policies
	// HistoryFile keeps shell history between sessions; empty disables it.
	HistoryFile string
	Clock       clock.Clock
}

// REPL is the interactive foreground surface over the facade.
type REPL struct {
	facade    *facade.Facade
	formatter *ui.Formatter
	opts      Options
	rl        *readline.Instance
	status    *ui.StatusDisplay
	out       io.Writer
}

func NewREPL(f *facade.Facade, formatter *ui.Formatter, opts Options) (*REPL, error) {
	rl, err := setupReadline(opts.HistoryFile)
	if err != nil {
		return nil, fmt.Errorf("failed to setup readline: %w", err)
	}

	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Policies == nil {
		opts.Policies = reminder.DefaultPolicies()
	}

	return &REPL{
		facade:    f,
		formatter: formatter,
		opts:      opts,
		rl:        rl,
		status:    ui.NewStatusDisplay(formatter, os.Stdout, true),
		out:       os.Stdout,
	}, nil
}

func (r *REPL) Start(ctx context.Context) error {
	defer r.rl.Close()

	r.displayWelcome()

	for {
		if ctx.Err() != nil {
			return nil
		}

		input, err := r.readInput()
		if err != nil {
			if isEOF(err) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if input == "" {
			continue
		}

		isCommand, command, args := r.parseCommand(input)
		if !isCommand {
			// Plain text is howled straight away.
			command, args = "/say", input
		}

		if command == "/quit" || command == "/exit" || command == "/q" {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return nil
		}

		if err := r.handleCommand(ctx, command, args); err != nil {
			r.displayError(err)
		}
	}
}

func (r *REPL) Stop() {
	r.rl.Close()
}

func (r *REPL) handleCommand(ctx context.Context, command, args string) error {
	switch command {
	case "/help", "/h":
		r.displayHelp()
		return nil

	case "/add", "/a":
		date, title, ok := strings.Cut(args, " ")
		if !ok || strings.TrimSpace(title) == "" {
			return fmt.Errorf("usage: /add <YYYY-MM-DD> <title>")
		}
		res := r.facade.AddReminder(title, date)
		if !res.OK() {
			return fmt.Errorf("%s", res.Message)
		}
		r.displaySuccess(fmt.Sprintf("Added %q due %s (id %d)", res.Reminder.Title, res.Reminder.Date, res.Reminder.ID))
		return nil

	case "/list", "/ls", "/l":
		fmt.Fprintln(r.out, r.formatter.FormatReminders(r.facade.GetReminders(), r.opts.Clock.Now()))
		fmt.Fprintln(r.out)
		return nil

	case "/done", "/d":
		return r.withID(args, "/done <id>", r.facade.CompleteReminder, "Marked as done.")

	case "/undo", "/u":
		return r.withID(args, "/undo <id>", r.facade.UncompleteReminder, "Reopened.")

	case "/rm", "/delete":
		return r.withID(args, "/rm <id>", r.facade.DeleteReminder, "Reminder deleted.")

	case "/clear", "/c":
		res := r.facade.ClearCompletedReminders()
		if !res.OK() {
			return fmt.Errorf("%s", res.Message)
		}
		r.displaySuccess(res.Message)
		return nil

	case "/say", "/s":
		if args == "" {
			return fmt.Errorf("usage: /say <message>")
		}
		r.displayStatus("Howling...")
		p := r.opts.Speech
		res := r.facade.SendHowler(ctx, args, p.Rate, p.Volume, -1)
		if !res.OK() {
			return fmt.Errorf("%s", res.Message)
		}
		r.displaySuccess(res.Message)
		return nil

	case "/voices", "/v":
		fmt.Fprintln(r.out, r.formatter.FormatVoices(r.facade.GetAvailableVoices(ctx)))
		fmt.Fprintln(r.out)
		return nil

	case "/check":
		r.displayStatus("Checking reminders...")
		report, err := r.facade.CheckReminders(ctx)
		r.status.Hide()
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, r.formatter.FormatReport(report))
		fmt.Fprintln(r.out)
		return nil

	default:
		return fmt.Errorf("unknown command: %s (type /help for available commands)", command)
	}
}

func (r *REPL) withID(args, usage string, op func(int64) facade.Result, done string) error {
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		return fmt.Errorf("usage: %s", usage)
	}
	res := op(id)
	if !res.OK() {
		return fmt.Errorf("%s", res.Message)
	}
	r.displaySuccess(done)
	return nil
}
