// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"math"

	"github.com/pdiddy/authorid/pkg/types"
)

// DefaultThreshold is the MATCH probability cut-off when a model sets none.
const DefaultThreshold = 0.5

// Linear is a logistic regression over the feature vector.
type Linear struct {
	Weights   types.FeatureVector
	Bias      float64
	Threshold float64
}

// Baseline returns the built-in model used when no model file is
// configured. Name agreement alone is not enough for a MATCH; it needs
// supporting evidence from institute, email, keyword or co-author overlap.
func Baseline() *Linear {
	return &Linear{
		Weights: types.FeatureVector{
			types.InstitScore:       2.0,
			types.BothNameScore:     1.5,
			types.FNameScore:        0.5,
			types.FNamePartialScore: 0.5,
			types.LNameScore:        2.0,
			types.LNamePartialScore: 1.0,
			types.EmailAddrScore:    3.0,
			types.AuthKWScore:       1.5,
			types.CoAuthorScore:     3.0,
		},
		Bias:      -6.0,
		Threshold: DefaultThreshold,
	}
}

// Probability returns the logistic MATCH probability of v.
func (m *Linear) Probability(v types.FeatureVector) (float64, error) {
	if err := v.Validate(); err != nil {
		return 0, err
	}
	z := m.Bias
	for i, x := range v {
		z += m.Weights[i] * x
	}
	return 1 / (1 + math.Exp(-z)), nil
}

// Predict returns Match when the probability reaches the threshold.
func (m *Linear) Predict(v types.FeatureVector) (Label, error) {
	p, err := m.Probability(v)
	if err != nil {
		return NoMatch, err
	}
	return labelFor(p, m.threshold()), nil
}

func (m *Linear) threshold() float64 {
	if m.Threshold <= 0 {
		return DefaultThreshold
	}
	return m.Threshold
}
