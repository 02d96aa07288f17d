// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/authorid/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored disambiguation runs, newest first",
	RunE:  runRuns,
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	s, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.Runs(cmd.Context())
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	if len(runs) == 0 {
		fmt.Println("No runs stored.")
		return nil
	}

	t := newTextTable("", "Run", "Created", "Source", "Blocking", "Merge", "Records", "Blocks", "Clusters", "Comparisons").
		alignRight(5, 6, 7, 8)
	for _, r := range runs {
		t.add(
			r.ID,
			r.CreatedAt.Local().Format(time.DateTime),
			r.Source,
			string(r.BlockMode)+" @"+strconv.Itoa(r.Threshold),
			string(r.MergeMode),
			strconv.Itoa(r.Stats.Records),
			strconv.Itoa(r.Stats.Blocks),
			strconv.Itoa(r.Stats.Clusters),
			itoa(r.Stats.Comparisons),
		)
	}
	return t.write(os.Stdout)
}

func init() {
	runsCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(runsCmd)
}
