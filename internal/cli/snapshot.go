package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/quantagraph/internal/catalog"
	"github.com/dshills/quantagraph/internal/errors"
)

// SnapshotInfo is the output of snapshot import.
type SnapshotInfo struct {
	Name          string `json:"name"`
	Indexes       int    `json:"indexes"`
	UniqueIndexes int    `json:"unique_indexes"`
}

func (i *SnapshotInfo) RenderText(w io.Writer) {
	fmt.Fprintf(w, "imported snapshot %q (%d indexes, %d unique)\n", i.Name, i.Indexes, i.UniqueIndexes)
}

// SnapshotList is the output of snapshot list.
type SnapshotList struct {
	Snapshots []string `json:"snapshots"`
}

func (l *SnapshotList) RenderText(w io.Writer) {
	for _, name := range l.Snapshots {
		fmt.Fprintln(w, name)
	}
}

// NewSnapshotCommand creates the snapshot command group.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage catalog snapshots in a snapshot store",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "import <file>",
		Short:         "Store a YAML catalog snapshot under --snapshot",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotImport(rootOpts, args[0], cmd)
		},
	})

	var output string
	export := &cobra.Command{
		Use:           "export",
		Short:         "Write the snapshot stored under --snapshot as YAML",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotExport(rootOpts, output, cmd)
		},
	}
	export.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.AddCommand(export)

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List stored snapshots",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshotList(rootOpts, cmd)
		},
	})

	return cmd
}

func runSnapshotImport(opts *RootOptions, path string, cmd *cobra.Command) error {
	s, err := newSession(opts, cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	snap, err := catalog.LoadSnapshot(path)
	if err != nil {
		return s.formatter.commandError("failed to read snapshot", err)
	}
	// Refuse snapshots the planner could not use.
	cat, _, err := snap.Build()
	if err != nil {
		return s.formatter.commandError("invalid snapshot", err)
	}
	s.logger.Debug("snapshot tokens", "labels", cat.Labels(), "property_keys", cat.PropertyKeys())

	store, err := s.openStore(ctx)
	if err != nil {
		return s.formatter.commandError("failed to open snapshot store", err)
	}
	defer store.Close()

	if err := store.Save(ctx, opts.Snapshot, snap); err != nil {
		return s.formatter.commandError("failed to save snapshot", err)
	}
	s.logger.Info("snapshot imported", "name", opts.Snapshot, "driver", store.Driver())

	return s.formatter.Success(&SnapshotInfo{
		Name:          opts.Snapshot,
		Indexes:       len(snap.Indexes),
		UniqueIndexes: len(snap.UniqueIndexes),
	})
}

func runSnapshotExport(opts *RootOptions, output string, cmd *cobra.Command) error {
	s, err := newSession(opts, cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	store, err := s.openStore(ctx)
	if err != nil {
		return s.formatter.commandError("failed to open snapshot store", err)
	}
	defer store.Close()

	snap, err := store.Load(ctx, opts.Snapshot)
	if err != nil {
		return s.formatter.commandError("failed to load snapshot", err)
	}

	if s.formatter.Format == "json" && output == "" {
		return s.formatter.Success(snap)
	}

	data, err := snap.Marshal()
	if err != nil {
		return s.formatter.commandError("failed to encode snapshot", errors.SnapshotCorruptedError(err.Error()))
	}
	if output == "" {
		_, err = s.formatter.Writer.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return s.formatter.commandError("failed to write snapshot", errors.FileIOError("write", output, err))
	}
	s.formatter.VerboseLog("Wrote snapshot %q to %s", opts.Snapshot, output)
	return nil
}

func runSnapshotList(opts *RootOptions, cmd *cobra.Command) error {
	s, err := newSession(opts, cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	store, err := s.openStore(ctx)
	if err != nil {
		return s.formatter.commandError("failed to open snapshot store", err)
	}
	defer store.Close()

	names, err := store.List(ctx)
	if err != nil {
		return s.formatter.commandError("failed to list snapshots", err)
	}
	if names == nil {
		names = []string{}
	}
	return s.formatter.Success(&SnapshotList{Snapshots: names})
}
