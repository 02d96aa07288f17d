// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/authorid/pkg/types"
)

// Model kinds accepted in a model file.
const (
	KindLinear = "linear"
	KindForest = "forest"
)

// modelFile is the on-disk form of a trained model. JSON files decode
// through the same YAML parser.
type modelFile struct {
	Kind     string       `yaml:"kind"`
	Features []string     `yaml:"features"`
	Linear   *linearModel `yaml:"linear"`
	Forest   *forestModel `yaml:"forest"`
}

type linearModel struct {
	Weights   []float64 `yaml:"weights"`
	Bias      float64   `yaml:"bias"`
	Threshold float64   `yaml:"threshold"`
}

type forestModel struct {
	Threshold float64 `yaml:"threshold"`
	Trees     []Tree  `yaml:"trees"`
}

// Load reads a model file. An empty path returns the baseline.
func Load(path string) (Classifier, error) {
	if path == "" {
		return Baseline(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model: %w", err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", path, err)
	}
	return c, nil
}

// Decode parses a YAML or JSON model. The features list must name the
// columns of types.FeatureNames in order.
func Decode(r io.Reader) (Classifier, error) {
	var m modelFile
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("parsing model: %w", err)
	}
	if err := checkColumns(m.Features); err != nil {
		return nil, err
	}

	switch strings.ToLower(m.Kind) {
	case KindLinear:
		if m.Linear == nil {
			return nil, fmt.Errorf("linear model has no linear section")
		}
		w, err := types.FeatureVectorFromSlice(m.Linear.Weights)
		if err != nil {
			return nil, err
		}
		return &Linear{Weights: w, Bias: m.Linear.Bias, Threshold: m.Linear.Threshold}, nil
	case KindForest:
		if m.Forest == nil {
			return nil, fmt.Errorf("forest model has no forest section")
		}
		return NewForest(m.Forest.Trees, m.Forest.Threshold)
	}
	return nil, fmt.Errorf("unknown model kind %q (valid: %s, %s)", m.Kind, KindLinear, KindForest)
}

func checkColumns(names []string) error {
	if len(names) != types.FeatureCount {
		return &types.FeatureVectorError{Reason: fmt.Sprintf("model lists %d features, want %d", len(names), types.FeatureCount)}
	}
	for i, n := range names {
		if n != types.FeatureNames[i] {
			return &types.FeatureVectorError{
				Feature: types.FeatureNames[i],
				Reason:  fmt.Sprintf("model column %d is %q", i, n),
			}
		}
	}
	return nil
}
