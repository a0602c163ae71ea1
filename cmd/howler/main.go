// Command howler speaks due and overdue reminders aloud.
//
// A background scheduler checks the reminder file once a minute and
// announces reminders due tomorrow, due today or overdue through a
// text-to-speech engine. Reminders are managed from an interactive shell
// (howler run), an MCP stdio server (howler serve) or one-shot commands.
//
// Configuration is read from ~/.howler/config.yaml and HOWLER_* environment
// variables (HOWLER_SPEECH__RATE=150 sets speech.rate).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/notexe/howler/internal/config"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "howler",
		Short:         "Spoken reminders for due and overdue tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runShell,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.GetDefaultConfigPath(), "path to configuration file")
	rootCmd.Flags().Bool("no-shell", false, "run the background scheduler only")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(doneCmd())
	rootCmd.AddCommand(undoCmd())
	rootCmd.AddCommand(rmCmd())
	rootCmd.AddCommand(clearCmd())
	rootCmd.AddCommand(sayCmd())
	rootCmd.AddCommand(voicesCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
