// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"runtime"
)

// BlockMode selects how the blocker picks among existing blocks.
type BlockMode string

const (
	// BlockFirstMatch assigns a literal to the first block, in creation
	// order, whose label is similar enough.
	BlockFirstMatch BlockMode = "first-match"

	// BlockBestMatch assigns a literal to the most similar block label at or
	// above the threshold.
	BlockBestMatch BlockMode = "best-match"
)

// MergeMode selects how classifier decisions become identity clusters.
type MergeMode string

const (
	// MergeConnected takes connected components of the MATCH graph.
	MergeConnected MergeMode = "connected"

	// MergeLegacy admits a record into the block label's cluster on its first
	// MATCH against any other candidate and stops scanning.
	MergeLegacy MergeMode = "legacy"
)

// DefaultBlockThreshold is the fuzzy ratio (0-100) a literal needs against a
// block label to join the block.
const DefaultBlockThreshold = 70

// BlockingConfig holds settings for the blocking stage.
type BlockingConfig struct {
	// Threshold is the minimum symmetric fuzzy ratio (default 70).
	Threshold int `json:"threshold" yaml:"threshold"`

	// Mode is first-match (default) or best-match.
	Mode BlockMode `json:"mode" yaml:"mode"`
}

// MergeConfig holds settings for the cluster merge stage.
type MergeConfig struct {
	// Mode is connected (default) or legacy.
	Mode MergeMode `json:"mode" yaml:"mode"`

	// Workers bounds concurrent pair classification (default NumCPU/2, min 1).
	Workers int `json:"workers" yaml:"workers"`
}

// ClassifierConfig locates the serialized pair classifier.
type ClassifierConfig struct {
	// Model is the path of a YAML or JSON model file. Empty selects the
	// built-in baseline.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`
}

// StoreConfig holds settings for the run store.
type StoreConfig struct {
	// DataDir is the base directory (contains index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	// Level is debug, info, warn or error (default info).
	Level string `json:"level" yaml:"level"`

	// Format is text (default) or json.
	Format string `json:"format" yaml:"format"`
}

// DisambiguationConfig groups all stage configurations for the pipeline.
type DisambiguationConfig struct {
	Blocking   BlockingConfig   `json:"blocking" yaml:"blocking"`
	Merge      MergeConfig      `json:"merge" yaml:"merge"`
	Classifier ClassifierConfig `json:"classifier" yaml:"classifier"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Log        LogConfig        `json:"log" yaml:"log"`
}

// DefaultWorkers returns half the CPUs, at least one.
func DefaultWorkers() int {
	n := runtime.NumCPU() / 2
	if n < 1 {
		n = 1
	}
	return n
}

// DefaultDisambiguationConfig returns the configuration used when no file,
// environment or flag overrides a value.
func DefaultDisambiguationConfig() DisambiguationConfig {
	return DisambiguationConfig{
		Blocking: BlockingConfig{Threshold: DefaultBlockThreshold, Mode: BlockFirstMatch},
		Merge:    MergeConfig{Mode: MergeConnected, Workers: DefaultWorkers()},
		Store:    StoreConfig{DataDir: "data"},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Validate rejects unknown modes and out-of-range settings.
func (c DisambiguationConfig) Validate() error {
	if c.Blocking.Threshold < 0 || c.Blocking.Threshold > 100 {
		return fmt.Errorf("blocking threshold %d outside [0,100]", c.Blocking.Threshold)
	}
	switch c.Blocking.Mode {
	case BlockFirstMatch, BlockBestMatch:
	default:
		return fmt.Errorf("unsupported blocking mode %q: use %s or %s", c.Blocking.Mode, BlockFirstMatch, BlockBestMatch)
	}
	switch c.Merge.Mode {
	case MergeConnected, MergeLegacy:
	default:
		return fmt.Errorf("unsupported merge mode %q: use %s or %s", c.Merge.Mode, MergeConnected, MergeLegacy)
	}
	if c.Merge.Workers < 0 {
		return fmt.Errorf("merge workers %d must not be negative", c.Merge.Workers)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q: use text or json", c.Log.Format)
	}
	return nil
}
