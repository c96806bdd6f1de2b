package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/reoring/castkit/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of pokeview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pokeview: %s\n", version.Version)
			fmt.Fprintf(out, "Go: %s\n", runtime.Version())
			if version.BuildDate != "" {
				fmt.Fprintf(out, "Build Date: %s\n", version.BuildDate)
			}
			return nil
		},
	}
}
