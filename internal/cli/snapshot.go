package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nhle/zenith/internal/store"
	"github.com/nhle/zenith/internal/theme"
)

func newSnapshotCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export or import all records as JSON",
	}
	cmd.AddCommand(newSnapshotExportCmd(rt), newSnapshotImportCmd(rt))
	return cmd
}

func newSnapshotExportCmd(rt *runtime) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot to stdout or --out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := rt.app.Store.Export(cmd.Context())
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding snapshot: %w", err)
			}
			data = append(data, '\n')

			if outPath == "" {
				_, err = out(cmd).Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o600); err != nil {
				return fmt.Errorf("writing snapshot: %w", err)
			}
			fmt.Fprintln(out(cmd), theme.SuccessStyle.Render("Snapshot written to "+outPath))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file")
	return cmd
}

func newSnapshotImportCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace stored collections with those in a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading snapshot: %w", err)
			}
			var snap store.Snapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				return fmt.Errorf("decoding snapshot: %w", err)
			}

			report, err := rt.app.Store.Import(cmd.Context(), snap)
			if err != nil {
				return err
			}

			w := out(cmd)
			keys := make([]string, 0, len(report.Counts))
			for k := range report.Counts {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "  %-24s %d\n", k, report.Counts[k])
			}
			for _, warning := range report.Warnings {
				fmt.Fprintln(w, theme.WarningStyle.Render("  ! "+warning))
			}
			fmt.Fprintln(w, theme.SuccessStyle.Render("Import complete."))
			return nil
		},
	}
}
