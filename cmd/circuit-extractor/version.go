package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the version subcommand.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputJSON {
				return printJSON(map[string]string{
					"version": version,
					"go":      runtime.Version(),
				})
			}
			fmt.Printf("circuit-extractor %s (%s)\n", version, runtime.Version())
			return nil
		},
	}
}
