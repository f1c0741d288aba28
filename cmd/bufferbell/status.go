/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cristianoliveira/bufferbell/cmd"
	"github.com/cristianoliveira/bufferbell/internal/domain"
	"github.com/cristianoliveira/bufferbell/internal/presentation"
	"github.com/spf13/cobra"
)

type statusClient interface {
	Refresh() (presentation.State, error)
	UnreadCount(key domain.CounterKey) (int, error)
	Publish(s presentation.State) error
}

// NewStatusCmd creates the status command with explicit dependencies.
func NewStatusCmd(client statusClient) *cobra.Command {
	if client == nil {
		panic("NewStatusCmd: client dependency cannot be nil")
	}

	var formatFlag string
	var publishFlag bool

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show unread and highlight totals",
		Long: `Show the badge and title computed from every buffer.

USAGE:
    bufferbell status [OPTIONS]

OPTIONS:
    --format=<format>    Output format: text, tmux, count, unread (default: text)
    --publish            Also write the state into tmux user options

FORMATS:
    text      Coloured badge followed by "(N) <short name> | <title>"
    tmux      Badge with tmux style directives, for status-right
    count     Pending highlight count
    unread    Unread line count

EXAMPLES:
    bufferbell status
    bufferbell status --format=tmux
    set -g status-right '#(bufferbell status --format=tmux)'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := formatFlag
			if !cmd.Flag("format").Changed {
				if envFormat := os.Getenv("BUFFERBELL_STATUS_FORMAT"); envFormat != "" {
					format = envFormat
				}
			}
			return runStatus(client, format, publishFlag, cmd.OutOrStdout())
		},
	}

	statusCmd.Flags().StringVar(&formatFlag, "format", "text", "Output format: text, tmux, count, unread")
	statusCmd.Flags().BoolVar(&publishFlag, "publish", false, "Write the state into tmux user options")
	return statusCmd
}

func runStatus(client statusClient, format string, publish bool, w io.Writer) error {
	state, err := client.Refresh()
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	if publish {
		if err := client.Publish(state); err != nil {
			return fmt.Errorf("status: publish: %w", err)
		}
	}

	switch format {
	case "", "text":
		_, err = fmt.Fprintln(w, presentation.Render(state))
	case "tmux":
		_, err = fmt.Fprintln(w, presentation.TmuxBadge(state.Badge))
	case "count":
		var n int
		if n, err = client.UnreadCount(domain.CounterNotification); err == nil {
			_, err = fmt.Fprintln(w, n)
		}
	case "unread":
		var n int
		if n, err = client.UnreadCount(domain.CounterUnread); err == nil {
			_, err = fmt.Fprintln(w, n)
		}
	default:
		return fmt.Errorf("status: unknown format %q", format)
	}
	return err
}

var statusCmd = NewStatusCmd(client)

func init() {
	cmd.RootCmd.AddCommand(statusCmd)
}
