// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/authorid/internal/classify"
	"github.com/pdiddy/authorid/internal/corpus"
	"github.com/pdiddy/authorid/internal/disambiguate"
	"github.com/pdiddy/authorid/internal/store"
	"github.com/pdiddy/authorid/pkg/types"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Disambiguate the authors of a corpus into identity clusters",
	Long: `Cluster runs the full pipeline: records, blocking, pairwise scoring and
classification, and merging. The resulting clusters are printed and the run
is stored under the data directory unless --no-store is given.

Without --model the built-in linear baseline classifier is used.`,
	RunE: runCluster,
}

var clusterKeys = map[string]string{
	"threshold":  "blocking.threshold",
	"block-mode": "blocking.mode",
	"merge-mode": "merge.mode",
	"workers":    "merge.workers",
	"model":      "classifier.model",
}

// clusterOutput is the JSON shape of a cluster run.
type clusterOutput struct {
	RunID    string             `json:"run_id,omitempty"`
	Stats    disambiguate.Stats `json:"stats"`
	Clusters []types.Cluster    `json:"clusters"`
}

func runCluster(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd, clusterKeys)
	if err != nil {
		return err
	}
	corpusPath, _ := cmd.Flags().GetString("corpus")
	noStore, _ := cmd.Flags().GetBool("no-store")
	asJSON, _ := cmd.Flags().GetBool("json")

	if corpusPath == "" {
		return fmt.Errorf("--corpus is required")
	}
	c, err := corpus.Load(corpusPath)
	if err != nil {
		return err
	}
	clf, err := classify.Load(cfg.Classifier.Model)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	res, err := disambiguate.Run(ctx, c, clf, cfg, disambiguate.WithLogger(logger))
	if err != nil {
		return err
	}

	var runID string
	if !noStore {
		s, err := store.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()
		runID, err = s.SaveRun(ctx, c.Source, cfg, res)
		if err != nil {
			return err
		}
		logger.Info("run stored", "run", runID, "data_dir", cfg.Store.DataDir)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(clusterOutput{RunID: runID, Stats: res.Stats, Clusters: res.Clusters.Clusters})
	}

	t := newTextTable(fmt.Sprintf("%d clusters from %d records", res.Stats.Clusters, res.Stats.Records),
		"Block", "Cluster", "Size", "Members").alignRight(2)
	for _, cl := range res.Clusters.Clusters {
		t.add(cl.Block, cl.Label, itoa(int64(len(cl.Members))), strings.Join(cl.Members, ", "))
	}
	t.footer = []string{"", "comparisons", itoa(res.Stats.Comparisons), ""}
	if err := t.write(os.Stdout); err != nil {
		return err
	}
	if runID != "" {
		fmt.Printf("Run: %s\n", runID)
	}
	return nil
}

func init() {
	clusterCmd.Flags().String("corpus", "", "corpus file or directory (YAML, JSON or Web of Science .txt)")
	clusterCmd.Flags().String("model", "", "classifier model file (YAML or JSON); empty selects the baseline")
	clusterCmd.Flags().String("merge-mode", "", "merge strategy: connected or legacy")
	clusterCmd.Flags().String("block-mode", "", "block assignment: first-match or best-match")
	clusterCmd.Flags().Int("threshold", 0, "minimum fuzzy ratio (0-100) for a literal to join a block")
	clusterCmd.Flags().Int("workers", 0, "concurrent pair classifications (0 selects NumCPU/2)")
	clusterCmd.Flags().Bool("no-store", false, "do not persist the run")
	clusterCmd.Flags().Bool("json", false, "output clusters as JSON")

	rootCmd.AddCommand(clusterCmd)
}
