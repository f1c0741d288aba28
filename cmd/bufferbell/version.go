/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"

	"github.com/cristianoliveira/bufferbell/cmd"
	"github.com/spf13/cobra"
)

type versionClient interface {
	Version() string
	LongVersion() string
}

// NewVersionCmd creates the version command with explicit dependencies.
func NewVersionCmd(client versionClient) *cobra.Command {
	if client == nil {
		panic("NewVersionCmd: client dependency cannot be nil")
	}

	var verbose bool

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show the current version of bufferbell.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := client.Version()
			if verbose {
				v = client.LongVersion()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bufferbell version %s\n", v)
			return nil
		},
	}

	versionCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Include Go version and platform")
	return versionCmd
}

// versionCmd represents the version command
var versionCmd = NewVersionCmd(client)

func init() {
	cmd.RootCmd.AddCommand(versionCmd)
}
