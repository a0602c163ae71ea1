package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notexe/howler/internal/facade"
)

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <YYYY-MM-DD> <title...>",
		Short: "Add a reminder",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			res := a.facade.AddReminder(strings.Join(args[1:], " "), args[0])
			if !res.OK() {
				return fmt.Errorf("%s", res.Message)
			}
			fmt.Println(a.formatter.FormatSuccess(fmt.Sprintf("Added %q due %s (id %d)",
				res.Reminder.Title, res.Reminder.Date, res.Reminder.ID)))
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			fmt.Println(a.formatter.FormatReminders(a.facade.GetReminders(), a.clock.Now()))
			return nil
		},
	}
}

// idCmd builds a command that applies op to a single reminder ID.
func idCmd(use, short, done string, op func(*facade.Facade, int64) facade.Result) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			res := op(a.facade, id)
			if !res.OK() {
				return fmt.Errorf("%s", res.Message)
			}
			fmt.Println(a.formatter.FormatSuccess(done))
			return nil
		},
	}
}

func doneCmd() *cobra.Command {
	return idCmd("done", "Mark a reminder as completed", "Marked as done.", (*facade.Facade).CompleteReminder)
}

func undoCmd() *cobra.Command {
	return idCmd("undo", "Reopen a completed reminder", "Reopened.", (*facade.Facade).UncompleteReminder)
}

func rmCmd() *cobra.Command {
	return idCmd("rm", "Delete a reminder", "Reminder deleted.", (*facade.Facade).DeleteReminder)
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all completed reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			res := a.facade.ClearCompletedReminders()
			if !res.OK() {
				return fmt.Errorf("%s", res.Message)
			}
			fmt.Println(a.formatter.FormatSuccess(res.Message))
			return nil
		},
	}
}

func sayCmd() *cobra.Command {
	var (
		rate   int
		volume float64
		voice  int
	)

	cmd := &cobra.Command{
		Use:   "say <message...>",
		Short: "Speak a message now",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			d := a.notifier.Defaults()
			if !cmd.Flags().Changed("rate") {
				rate = d.Rate
			}
			if !cmd.Flags().Changed("volume") {
				volume = d.Volume
			}

			res := a.facade.SendHowler(cmd.Context(), strings.Join(args, " "), rate, volume, voice)
			if !res.OK() {
				return fmt.Errorf("%s", res.Message)
			}
			fmt.Println(a.formatter.FormatSuccess(res.Message))
			return nil
		},
	}

	cmd.Flags().IntVar(&rate, "rate", 170, "speech rate in words per minute")
	cmd.Flags().Float64Var(&volume, "volume", 1.0, "volume from 0.0 to 1.0")
	cmd.Flags().IntVar(&voice, "voice", -1, "voice index from 'howler voices' (default: configured voice)")
	return cmd
}

func voicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List speech voices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			fmt.Println(a.formatter.FormatVoices(a.facade.GetAvailableVoices(cmd.Context())))
			return nil
		},
	}
}
