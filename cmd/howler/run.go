package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/notexe/howler/internal/facade"
	"github.com/notexe/howler/internal/repl"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start background checks and the interactive shell",
		Args:  cobra.NoArgs,
		RunE:  runShell,
	}
	cmd.Flags().Bool("no-shell", false, "run the background scheduler only")
	return cmd
}

func runShell(cmd *cobra.Command, _ []string) error {
	noShell, _ := cmd.Flags().GetBool("no-shell")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(cmd.Context())
	wait := a.startScheduler(ctx)
	defer func() {
		cancel()
		wait()
	}()

	if noShell {
		if !a.cfg.Scheduler.Enabled {
			return fmt.Errorf("scheduler is disabled and --no-shell leaves nothing to run")
		}
		<-ctx.Done()
		return nil
	}

	shell, err := repl.NewREPL(a.facade, a.formatter, repl.Options{
		StorePath:   a.storePath,
		SchedulerOn: a.cfg.Scheduler.Enabled,
		Speech:      a.notifier.Defaults(),
		Policies:    a.cfg.Policies(),
		HistoryFile: a.cfg.UI.HistoryFile,
		Clock:       a.clock,
	})
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		shell.Stop()
	}()

	return shell.Start(ctx)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start background checks and serve the reminder tools over MCP (stdio)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithCancel(cmd.Context())
			wait := a.startScheduler(ctx)
			defer func() {
				cancel()
				wait()
			}()

			s := facade.NewServer(a.facade, a.speechDefaults())

			// Serve via stdio
			if err := server.ServeStdio(s.MCPServer()); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run one due-reminder check and print what happened",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			report, err := a.facade.CheckReminders(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(a.formatter.FormatReport(report))
			return report.SaveErr
		},
	}
}

// startScheduler launches the background loop when enabled and returns a
// function that blocks until it has stopped.
func (a *app) startScheduler(ctx context.Context) func() {
	if !a.cfg.Scheduler.Enabled {
		return func() {}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := a.scheduler().Run(ctx); err != nil {
			a.logger.Errorw("scheduler stopped", "err", err)
		}
	}()
	return wg.Wait
}
