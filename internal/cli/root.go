// Package cli implements the leafplan command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "unknown"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	Catalog    string // YAML catalog snapshot
	DSN        string // snapshot store
	Snapshot   string // snapshot name within the store
	Format     string // "json" | "text"
	Verbose    bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the leafplan CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "leafplan",
		Short:   "Leaf access planning for graph patterns",
		Long:    "Chooses the cheapest access method for each pattern variable from catalog indexes, statistics and hints.",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "path to YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.Catalog, "catalog", "", "path to YAML catalog snapshot")
	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", "", "snapshot store (sqlite3://path or postgres://...)")
	cmd.PersistentFlags().StringVar(&opts.Snapshot, "snapshot", "default", "snapshot name in the store")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewCandidatesCommand(opts))
	cmd.AddCommand(NewSnapshotCommand(opts))
	cmd.AddCommand(NewFeaturesCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
