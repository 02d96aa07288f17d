// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/authorid/internal/classify"
	"github.com/pdiddy/authorid/internal/features"
	"github.com/pdiddy/authorid/pkg/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score KEY1 KEY2",
	Short: "Score and classify one pair of records",
	Long: `Score builds the records of a corpus, computes the feature vector for the
two records named by their keys and prints it with the classifier label.
Record keys are LASTNAME + FIRSTNAME + paper id, for example
ALBERTINIDFWOS:000076265300004.`,
	Args: cobra.ExactArgs(2),
	RunE: runScore,
}

var scoreKeys = map[string]string{
	"model": "classifier.model",
}

// scoreOutput is the JSON shape of a scored pair.
type scoreOutput struct {
	A           string             `json:"a"`
	B           string             `json:"b"`
	Features    map[string]float64 `json:"features"`
	Label       string             `json:"label"`
	Probability *float64           `json:"probability,omitempty"`
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup(cmd, scoreKeys)
	if err != nil {
		return err
	}
	corpusPath, _ := cmd.Flags().GetString("corpus")
	asJSON, _ := cmd.Flags().GetBool("json")

	_, rs, err := loadRecords(corpusPath)
	if err != nil {
		return err
	}
	a, ok := rs.Get(args[0])
	if !ok {
		return fmt.Errorf("record %s not found", args[0])
	}
	b, ok := rs.Get(args[1])
	if !ok {
		return fmt.Errorf("record %s not found", args[1])
	}

	clf, err := classify.Load(cfg.Classifier.Model)
	if err != nil {
		return err
	}
	v := features.Score(a, b)
	label, err := clf.Predict(v)
	if err != nil {
		return err
	}

	out := scoreOutput{A: a.Key, B: b.Key, Features: v.Map(), Label: label.String()}
	if p, ok := clf.(classify.Prober); ok {
		prob, err := p.Probability(v)
		if err != nil {
			return err
		}
		out.Probability = &prob
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	t := newTextTable(a.Key+" / "+b.Key, "Feature", "Value").alignRight(1)
	for i, name := range types.FeatureNames {
		t.add(name, strconv.FormatFloat(v[i], 'f', 4, 64))
	}
	t.footer = []string{"label", label.String()}
	if out.Probability != nil {
		t.footer[1] = fmt.Sprintf("%s (p=%.4f)", label, *out.Probability)
	}
	return t.write(os.Stdout)
}

func init() {
	scoreCmd.Flags().String("corpus", "", "corpus file or directory (YAML, JSON or Web of Science .txt)")
	scoreCmd.Flags().String("model", "", "classifier model file (YAML or JSON); empty selects the baseline")
	scoreCmd.Flags().Bool("json", false, "output the score as JSON")

	rootCmd.AddCommand(scoreCmd)
}
