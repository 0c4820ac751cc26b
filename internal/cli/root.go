// Package cli provides the command-line interface for autodoc.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

// Execute creates and runs the root command.
func Execute() error {
	rootCmd := &cobra.Command{
		Use:   "autodoc",
		Short: "API documentation generator",
		Long:  "Generates API documentation from Go source code and keeps it fresh with usage data polled from running services.",
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newMonitorCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd.Execute()
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}
		return log, nil
	}
	log, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log, nil
}
