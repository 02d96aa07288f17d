// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/authorid/internal/block"
	"github.com/pdiddy/authorid/internal/corpus"
	"github.com/pdiddy/authorid/internal/records"
)

var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "Partition the author literals of a corpus into blocks",
	Long: `Block loads a corpus, builds one record per author occurrence and groups
the distinct author literals into blocks of similar names. Blocking only
limits the pairs the classifier compares; it does not decide identity.`,
	RunE: runBlock,
}

var blockKeys = map[string]string{
	"threshold":  "blocking.threshold",
	"block-mode": "blocking.mode",
}

func runBlock(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd, blockKeys)
	if err != nil {
		return err
	}
	corpusPath, _ := cmd.Flags().GetString("corpus")
	asJSON, _ := cmd.Flags().GetBool("json")

	_, rs, err := loadRecords(corpusPath)
	if err != nil {
		return err
	}
	p := block.Build(rs.Literals(),
		block.WithThreshold(cfg.Blocking.Threshold),
		block.WithMode(cfg.Blocking.Mode))
	logger.Info("blocks built", "literals", len(rs.Literals()), "blocks", p.Len())

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	t := newTextTable(fmt.Sprintf("%d blocks", p.Len()), "Label", "Size", "Members").alignRight(1)
	for _, b := range p.Blocks {
		t.add(b.Label, itoa(int64(b.Size())), strings.Join(b.Members, ", "))
	}
	return t.write(os.Stdout)
}

// loadRecords reads the corpus at path and builds its record set.
func loadRecords(path string) (*corpus.Corpus, *records.Set, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("--corpus is required")
	}
	c, err := corpus.Load(path)
	if err != nil {
		return nil, nil, err
	}
	rs, err := records.Build(c)
	if err != nil {
		return nil, nil, err
	}
	return c, rs, nil
}

func init() {
	blockCmd.Flags().String("corpus", "", "corpus file or directory (YAML, JSON or Web of Science .txt)")
	blockCmd.Flags().Int("threshold", 0, "minimum fuzzy ratio (0-100) for a literal to join a block")
	blockCmd.Flags().String("block-mode", "", "block assignment: first-match or best-match")
	blockCmd.Flags().Bool("json", false, "output the partition as JSON")

	rootCmd.AddCommand(blockCmd)
}
