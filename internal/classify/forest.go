// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"fmt"

	"github.com/pdiddy/authorid/pkg/types"
)

// Node is one decision-tree node. Internal nodes send x to Left when
// x[Feature] <= Threshold and to Right otherwise. Leaves carry the MATCH
// probability in Value.
type Node struct {
	Feature   int     `yaml:"feature,omitempty"`
	Threshold float64 `yaml:"threshold,omitempty"`
	Left      int     `yaml:"left,omitempty"`
	Right     int     `yaml:"right,omitempty"`
	Leaf      bool    `yaml:"leaf,omitempty"`
	Value     float64 `yaml:"value,omitempty"`
}

// Tree is a flattened decision tree rooted at Nodes[0]. Children always
// follow their parent, so evaluation terminates.
type Tree struct {
	Nodes []Node `yaml:"nodes"`
}

// Forest averages the leaf probabilities of its trees.
type Forest struct {
	Trees     []Tree
	Threshold float64
}

// NewForest checks the structure of every tree and returns the forest.
func NewForest(trees []Tree, threshold float64) (*Forest, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("forest has no trees")
	}
	for i, t := range trees {
		if err := t.validate(); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Forest{Trees: trees, Threshold: threshold}, nil
}

// Probability returns the mean leaf value reached by v across all trees.
func (f *Forest) Probability(v types.FeatureVector) (float64, error) {
	if err := v.Validate(); err != nil {
		return 0, err
	}
	var sum float64
	for _, t := range f.Trees {
		sum += t.eval(v)
	}
	return sum / float64(len(f.Trees)), nil
}

// Predict returns Match when the mean probability reaches the threshold.
func (f *Forest) Predict(v types.FeatureVector) (Label, error) {
	p, err := f.Probability(v)
	if err != nil {
		return NoMatch, err
	}
	return labelFor(p, f.Threshold), nil
}

func (t Tree) eval(v types.FeatureVector) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf {
			return n.Value
		}
		if v[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func (t Tree) validate() error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	for i, n := range t.Nodes {
		if n.Leaf {
			if n.Value < 0 || n.Value > 1 {
				return fmt.Errorf("node %d: leaf value %v outside [0,1]", i, n.Value)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= types.FeatureCount {
			return &types.FeatureVectorError{Reason: fmt.Sprintf("node %d references feature index %d", i, n.Feature)}
		}
		for _, c := range []int{n.Left, n.Right} {
			if c <= i || c >= len(t.Nodes) {
				return fmt.Errorf("node %d: child %d out of range", i, c)
			}
		}
	}
	return nil
}
