// Package main provides the circuit-extractor CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/spherical/circuit-extractor/cmd/circuit-extractor/ui"
	"github.com/spherical/circuit-extractor/internal/config"
	"github.com/spherical/circuit-extractor/internal/observability"
)

var version = "0.1.0"

var (
	// Global flags
	cfgFile    string
	outputJSON bool
	verbose    bool
	noColor    bool

	// Configuration and logger
	cfg    *config.Config
	logger *observability.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "circuit-extractor",
	Short: "Extract, filter and group circuit rows from interface description sheets",
	Long: `circuit-extractor reads a spreadsheet with a "Description" column of
device configuration lines, extracts unit numbers, instance names and
routing instances, and writes the matching rows back out grouped by unit
and by routing instance, with a blank row after each group.

Input may be .xlsx or .csv. All commands support --json for automation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load() // Ignore error if .env doesn't exist

		if cfgFile == "" {
			cfgFile = os.Getenv("CONFIG_PATH")
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := cfg.Observability.LogLevel
		if verbose {
			level = "debug"
		} else if !outputJSON && os.Getenv("LOG_LEVEL") == "" {
			// Keep the terminal for the progress display unless asked.
			level = "warn"
		}

		logFormat := "console"
		if outputJSON {
			logFormat = "json"
		}

		logger = observability.NewLogger(observability.LogConfig{
			Level:       level,
			Format:      logFormat,
			ServiceName: "circuit-extractor-cli",
		})

		ui.Init(noColor, outputJSON)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: $CONFIG_PATH, then env vars)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newProcessCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
}
