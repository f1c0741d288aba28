/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cristianoliveira/bufferbell/cmd"
	"github.com/cristianoliveira/bufferbell/internal/domain"
	"github.com/spf13/cobra"
)

// waitPollInterval is how often --wait checks for outstanding alerts.
const waitPollInterval = 200 * time.Millisecond

type highlightClient interface {
	BumpCounters(id string, unread, notification int, msg domain.Message) error
	GetBuffer(id string) (domain.Buffer, bool, error)
	Highlight(ctx context.Context, b domain.Buffer, msg domain.Message) error
	Active() int
	CancelAll()
}

// NewHighlightCmd creates the highlight command with explicit dependencies.
func NewHighlightCmd(client highlightClient) *cobra.Command {
	if client == nil {
		panic("NewHighlightCmd: client dependency cannot be nil")
	}

	var text, prefix string
	var wait bool

	highlightCmd := &cobra.Command{
		Use:   "highlight <buffer-id>",
		Short: "Record a highlight and alert immediately",
		Long: `Record a highlighted line in a buffer and raise the alert right away.

USAGE:
    bufferbell highlight <buffer-id> [OPTIONS]

OPTIONS:
    --text <text>       Text of the highlighted line
    --prefix <nick>     Prefix of the line, usually the sender's nick
    --wait              Stay until the alert expires, is clicked or is closed

Without --wait a desktop alert outlives the command and is closed by the
notification server. With --wait, Ctrl-C cancels the alert.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runHighlight(ctx, client, args[0], messageFromFlags(text, prefix), wait)
		},
	}

	highlightCmd.Flags().StringVar(&text, "text", "", "Text of the highlighted line")
	highlightCmd.Flags().StringVar(&prefix, "prefix", "", "Prefix of the highlighted line")
	highlightCmd.Flags().BoolVar(&wait, "wait", false, "Wait for the alert to finish")
	return highlightCmd
}

func runHighlight(ctx context.Context, client highlightClient, id string, msg domain.Message, wait bool) error {
	if err := client.BumpCounters(id, 1, 1, msg); err != nil {
		return fmt.Errorf("highlight: %w", err)
	}
	b, ok, err := client.GetBuffer(id)
	if err != nil {
		return fmt.Errorf("highlight: %w", err)
	}
	if !ok {
		return fmt.Errorf("highlight: buffer %s not found", id)
	}
	if err := client.Highlight(ctx, b, msg); err != nil {
		return fmt.Errorf("highlight: %w", err)
	}
	if !wait {
		return nil
	}
	return waitForAlerts(ctx, client, waitPollInterval)
}

// waitForAlerts blocks until no alert is tracked or ctx is done; in the latter
// case the remaining alerts are cancelled.
func waitForAlerts(ctx context.Context, client highlightClient, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for client.Active() > 0 {
		select {
		case <-ctx.Done():
			client.CancelAll()
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

var highlightCmd = NewHighlightCmd(client)

func init() {
	cmd.RootCmd.AddCommand(highlightCmd)
}
