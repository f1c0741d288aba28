/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cristianoliveira/bufferbell/cmd"
	"github.com/cristianoliveira/bufferbell/internal/colors"
	"github.com/cristianoliveira/bufferbell/internal/domain"
	"github.com/spf13/cobra"
)

type bufferClient interface {
	AddBuffer(b domain.Buffer) error
	ListBuffers() ([]domain.Buffer, error)
	ActiveBuffer() (domain.Buffer, bool, error)
	FocusBuffer(id string) error
	RemoveBuffer(id string) error
	BumpCounters(id string, unread, notification int, msg domain.Message) error
	ResetCounters(id string) error
}

// NewBufferCmd creates the buffer command group with explicit dependencies.
func NewBufferCmd(client bufferClient) *cobra.Command {
	if client == nil {
		panic("NewBufferCmd: client dependency cannot be nil")
	}

	bufferCmd := &cobra.Command{
		Use:   "buffer",
		Short: "Manage chat buffers and their counters",
		Long: `Manage the buffers the chat client reports.

USAGE:
    bufferbell buffer <COMMAND> [OPTIONS]

COMMANDS:
    add <id>       Register or update a buffer
    list           List buffers with their counters
    focus <id>     Make a buffer the active one and mark it read
    remove <id>    Forget a buffer
    bump <id>      Increase a buffer's counters
    read <id>      Reset a buffer's counters`,
	}

	bufferCmd.AddCommand(
		newBufferAddCmd(client),
		newBufferListCmd(client),
		newBufferFocusCmd(client),
		newBufferRemoveCmd(client),
		newBufferBumpCmd(client),
		newBufferReadCmd(client),
	)
	return bufferCmd
}

func newBufferAddCmd(client bufferClient) *cobra.Command {
	var shortName, fullName, server, kind, title string

	addCmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Register or update a buffer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			b := domain.Buffer{
				ID:        id,
				ShortName: shortName,
				FullName:  fullName,
				Server:    server,
				Kind:      domain.ParseBufferKind(kind),
				Title:     title,
			}
			if b.ShortName == "" {
				b.ShortName = id
			}
			if b.FullName == "" {
				b.FullName = id
			}
			if err := client.AddBuffer(b); err != nil {
				return fmt.Errorf("buffer add: %w", err)
			}
			colors.Success(fmt.Sprintf("buffer %s registered", id))
			return nil
		},
	}

	addCmd.Flags().StringVar(&shortName, "short-name", "", "Name shown in titles (default: id)")
	addCmd.Flags().StringVar(&fullName, "full-name", "", "Fully qualified name (default: id)")
	addCmd.Flags().StringVar(&server, "server", "", "Network the buffer belongs to")
	addCmd.Flags().StringVar(&kind, "kind", string(domain.KindRegular), "Buffer kind: channel or private")
	addCmd.Flags().StringVar(&title, "title", "", "Topic shown after the short name")
	return addCmd
}

func newBufferListCmd(client bufferClient) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List buffers with their counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			buffers, err := client.ListBuffers()
			if err != nil {
				return fmt.Errorf("buffer list: %w", err)
			}
			active, _, err := client.ActiveBuffer()
			if err != nil {
				return fmt.Errorf("buffer list: %w", err)
			}
			return writeBufferTable(cmd.OutOrStdout(), buffers, active.ID)
		},
	}
}

// writeBufferTable prints one row per buffer; the active buffer is marked with '*'.
func writeBufferTable(w io.Writer, buffers []domain.Buffer, activeID string) error {
	if len(buffers) == 0 {
		_, err := fmt.Fprintln(w, "No buffers")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, " \tID\tNAME\tKIND\tUNREAD\tHIGHLIGHTS")
	for _, b := range buffers {
		mark := " "
		if activeID != "" && b.ID == activeID {
			mark = "*"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n", mark, b.ID, b.ShortName, b.Kind, b.Unread, b.Notification)
	}
	return tw.Flush()
}

func newBufferFocusCmd(client bufferClient) *cobra.Command {
	return &cobra.Command{
		Use:   "focus <id>",
		Short: "Make a buffer the active one and mark it read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.FocusBuffer(args[0]); err != nil {
				return fmt.Errorf("buffer focus: %w", err)
			}
			return nil
		},
	}
}

func newBufferRemoveCmd(client bufferClient) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Forget a buffer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.RemoveBuffer(args[0]); err != nil {
				return fmt.Errorf("buffer remove: %w", err)
			}
			colors.Success(fmt.Sprintf("buffer %s removed", args[0]))
			return nil
		},
	}
}

func newBufferBumpCmd(client bufferClient) *cobra.Command {
	var unread, notification int
	var text, prefix string

	bumpCmd := &cobra.Command{
		Use:   "bump <id>",
		Short: "Increase a buffer's counters",
		Long: `Increase a buffer's counters the way the chat client does for incoming lines.

A positive --notification records --text and --prefix as the buffer's last
highlighted line; a running "bufferbell watch" raises the alert.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if unread < 0 || notification < 0 {
				return fmt.Errorf("buffer bump: counters must not be negative")
			}
			if err := client.BumpCounters(args[0], unread, notification, messageFromFlags(text, prefix)); err != nil {
				return fmt.Errorf("buffer bump: %w", err)
			}
			return nil
		},
	}

	bumpCmd.Flags().IntVar(&unread, "unread", 1, "Unread lines to add")
	bumpCmd.Flags().IntVar(&notification, "notification", 0, "Highlights to add")
	bumpCmd.Flags().StringVar(&text, "text", "", "Text of the highlighted line")
	bumpCmd.Flags().StringVar(&prefix, "prefix", "", "Prefix of the highlighted line, usually the nick")
	return bumpCmd
}

func newBufferReadCmd(client bufferClient) *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>",
		Short: "Reset a buffer's counters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.ResetCounters(args[0]); err != nil {
				return fmt.Errorf("buffer read: %w", err)
			}
			return nil
		},
	}
}

// messageFromFlags builds a message with a single prefix segment.
func messageFromFlags(text, prefix string) domain.Message {
	msg := domain.Message{Text: text}
	if prefix != "" {
		msg.Prefix = []domain.PrefixSegment{{Text: prefix}}
	}
	return msg
}

var bufferCmd = NewBufferCmd(client)

func init() {
	cmd.RootCmd.AddCommand(bufferCmd)
}
