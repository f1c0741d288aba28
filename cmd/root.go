/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/bufferbell/internal/version"
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:           "bufferbell",
	Short:         "Highlight alerts for terminal chat buffers.",
	Long:          `Highlight alerts for terminal chat buffers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// outputWriter overrides the help destination in tests.
var outputWriter io.Writer

// Execute runs the root command. Subcommands register themselves in init.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.Version = version.String()

	// Hide the completion command
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != cmd.Root() {
			if cmd.Long == "" {
				fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), cmd.Long)
			return
		}
		PrintHelp(cmd)
	})
}

// commandOrder is the order commands appear in help.
var commandOrder = []string{
	"status",
	"buffer",
	"highlight",
	"watch",
	"version",
}

// PrintHelp prints the top level help for root.
func PrintHelp(root *cobra.Command) {
	w := outputWriter
	if w == nil {
		w = root.OutOrStdout()
	}

	var cmdLines []string
	for _, name := range commandOrder {
		for _, c := range root.Commands() {
			if c.Name() == name {
				cmdLines = append(cmdLines, fmt.Sprintf("    %-16s %s", c.Use, c.Short))
				break
			}
		}
	}

	fmt.Fprintf(w, `bufferbell v%s

Highlight alerts for terminal chat buffers.

USAGE:
    bufferbell [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    -h, --help      Show help message
`, root.Version, strings.Join(cmdLines, "\n"))
}
