/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/bufferbell/cmd"
	"github.com/cristianoliveira/bufferbell/internal/config"
	"github.com/cristianoliveira/bufferbell/internal/presentation"
	"github.com/cristianoliveira/bufferbell/internal/tui"
	"github.com/cristianoliveira/bufferbell/internal/watch"
	"github.com/spf13/cobra"
)

// watchRunner is the watcher as driven by the command and the TUI.
type watchRunner interface {
	Poll(ctx context.Context) watch.Result
	Run(ctx context.Context, interval time.Duration, onPoll func(watch.Result)) error
	Close()
}

type watchClient interface {
	NewWatcher(ctx context.Context) (watchRunner, error)
}

// runProgram runs the TUI; replaced in tests.
var runProgram = func(ctx context.Context, m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// NewWatchCmd creates the watch command with explicit dependencies.
func NewWatchCmd(client watchClient) *cobra.Command {
	if client == nil {
		panic("NewWatchCmd: client dependency cannot be nil")
	}

	var interval time.Duration
	var noTUI bool

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Raise alerts as buffers receive highlights",
		Long: `Poll the buffer store and raise an alert whenever a buffer's highlight
counter grows. The badge and title are refreshed after every poll.

USAGE:
    bufferbell watch [OPTIONS]

OPTIONS:
    --interval <duration>   Poll interval (default: watch_interval seconds)
    --no-tui                Log highlights to stdout instead of the interactive view

KEYS:
    c    Cancel all open alerts
    r    Poll now
    q    Quit

Every open alert is cancelled when the command exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flag("interval").Changed {
				interval = time.Duration(config.GetInt("watch_interval", 2)) * time.Second
			}
			if interval <= 0 {
				return fmt.Errorf("watch: interval must be positive, got %s", interval)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w, err := client.NewWatcher(ctx)
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			if noTUI {
				return w.Run(ctx, interval, printPoll(cmd.OutOrStdout()))
			}
			defer w.Close()
			return runProgram(ctx, tui.New(ctx, w, interval))
		},
	}

	watchCmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Poll interval")
	watchCmd.Flags().BoolVar(&noTUI, "no-tui", false, "Print highlights instead of running the interactive view")
	return watchCmd
}

// printPoll writes one line per raised highlight and reports poll failures.
func printPoll(w io.Writer) func(watch.Result) {
	var last string
	return func(res watch.Result) {
		if res.Err != nil {
			_, _ = fmt.Fprintf(w, "error: %v\n", res.Err)
		}
		for _, ev := range res.Events {
			_, _ = fmt.Fprintf(w, "%s %s: %s\n", ev.At.Format(time.TimeOnly), ev.Buffer.ShortName, ev.Message.Text)
		}
		if title := res.State.Title(); title != last {
			last = title
			_, _ = fmt.Fprintf(w, "title: %s %s\n", presentation.TmuxBadge(res.State.Badge), title)
		}
	}
}

var watchCmd = NewWatchCmd(client)

func init() {
	cmd.RootCmd.AddCommand(watchCmd)
}
