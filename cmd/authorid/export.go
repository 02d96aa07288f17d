// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/authorid/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the clusters of a stored run",
	Long: `Export writes the clusters of a run, joined with their record fields, to
index/<run>-clusters.yaml or .json under the data directory. Without --run
the most recent run is exported.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	runID, _ := cmd.Flags().GetString("run")
	format, _ := cmd.Flags().GetString("format")

	s, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if runID == "" {
		latest, err := s.LatestRun(ctx)
		if err != nil {
			return err
		}
		runID = latest.ID
	}

	var path string
	switch format {
	case "yaml", "yml":
		path, err = s.ExportYAML(ctx, runID)
	case "json":
		path, err = s.ExportJSON(ctx, runID)
	default:
		return fmt.Errorf("unsupported export format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported run %s to %s\n", runID, path)
	return nil
}

func init() {
	exportCmd.Flags().String("run", "", "run id (default: latest run)")
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	rootCmd.AddCommand(exportCmd)
}
