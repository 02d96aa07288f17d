// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify defines the pairwise match classifier contract and the
// built-in models: a logistic baseline and a serialized decision-tree
// forest. Models receive a validated types.FeatureVector in the fixed column
// order of types.FeatureNames.
package classify

import (
	"fmt"

	"github.com/pdiddy/authorid/pkg/types"
)

// Label is the outcome of comparing two records.
type Label int

const (
	NoMatch Label = iota
	Match
)

func (l Label) String() string {
	switch l {
	case NoMatch:
		return "NO_MATCH"
	case Match:
		return "MATCH"
	}
	return fmt.Sprintf("Label(%d)", int(l))
}

// Classifier decides whether two records belong to the same author.
// Implementations must be safe for concurrent use. A *types.FeatureVectorError
// signals a contract violation and is fatal to the caller.
type Classifier interface {
	Predict(v types.FeatureVector) (Label, error)
}

// Prober is implemented by classifiers that expose a MATCH probability.
type Prober interface {
	Probability(v types.FeatureVector) (float64, error)
}

// Func adapts a plain function to Classifier. The vector is validated before
// f is called.
type Func func(v types.FeatureVector) (Label, error)

// Predict validates v and calls f.
func (f Func) Predict(v types.FeatureVector) (Label, error) {
	if err := v.Validate(); err != nil {
		return NoMatch, err
	}
	return f(v)
}

func labelFor(p, threshold float64) Label {
	if p >= threshold {
		return Match
	}
	return NoMatch
}
