// Package cmd implements the CLI commands for notionpipe using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/notionpipe/core/logging"
)

// Global flag variables.
var (
	flagLogLevel  string
	flagLogFormat string
	flagEnvFile   string
	flagConfig    string
)

var rootCmd = &cobra.Command{
	Use:   "notionpipe",
	Short: "notionpipe: materialize content databases as Markdown files",
	Long: `notionpipe reads every page of the configured content databases and writes
each one as a Markdown document with YAML front matter. Embedded images are
downloaded once and re-hosted under a permanent URL.

Usage:
  notionpipe sync [flags]
  notionpipe status [flags]`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error (default from LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: console, json, pretty (default from LOG_FORMAT)")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Environment file to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Optional YAML or TOML config file listing the databases to sync")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogging builds the logger provider from config values, letting the
// global flags win.
func newLogging(level, format string) (*logging.Provider, error) {
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	if flagLogFormat != "" {
		format = flagLogFormat
	}
	return logging.NewProvider(logging.Config{Level: level, Format: format})
}
