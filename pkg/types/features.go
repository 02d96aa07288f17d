// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"math"
)

// Feature indexes into a FeatureVector. The order is fixed: serialized
// classifiers are trained against it.
type Feature int

const (
	InstitScore Feature = iota
	BothNameScore
	FNameScore
	FNamePartialScore
	LNameScore
	LNamePartialScore
	EmailAddrScore
	AuthKWScore
	CoAuthorScore

	// FeatureCount is the dimension of every FeatureVector.
	FeatureCount int = iota
)

// FeatureNames lists the feature columns in vector order.
var FeatureNames = [FeatureCount]string{
	"INSTIT_SCORE",
	"BOTH_NAME_SCORE",
	"FNAME_SCORE",
	"FNAME_PARTIAL_SCORE",
	"LNAME_SCORE",
	"LNAME_PARTIAL_SCORE",
	"EMAIL_ADDR_SCORE",
	"AUTH_KW_SCORE",
	"COAUTHOR_SCORE",
}

// String returns the column name of the feature.
func (f Feature) String() string {
	if f < 0 || int(f) >= FeatureCount {
		return fmt.Sprintf("Feature(%d)", int(f))
	}
	return FeatureNames[f]
}

// FeatureVector is the similarity description of two records.
type FeatureVector [FeatureCount]float64

// Get returns the score for f.
func (v FeatureVector) Get(f Feature) float64 {
	return v[f]
}

// Validate checks the classifier contract: every score is a finite number
// in [0,1] and the name-match flag is 0 or 1. EMAIL_ADDR_SCORE is not checked
// as binary since two address lists score by Jaccard overlap.
func (v FeatureVector) Validate() error {
	for i, x := range v {
		f := Feature(i)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return &FeatureVectorError{Feature: f.String(), Reason: fmt.Sprintf("non-finite value %v", x)}
		}
		if x < 0 || x > 1 {
			return &FeatureVectorError{Feature: f.String(), Reason: fmt.Sprintf("value %v outside [0,1]", x)}
		}
		if f == BothNameScore && x != 0 && x != 1 {
			return &FeatureVectorError{Feature: f.String(), Reason: fmt.Sprintf("binary feature has value %v", x)}
		}
	}
	return nil
}

// Map returns the vector keyed by column name.
func (v FeatureVector) Map() map[string]float64 {
	m := make(map[string]float64, FeatureCount)
	for i, x := range v {
		m[FeatureNames[i]] = x
	}
	return m
}

// FeatureVectorFromSlice converts a slice, failing unless it has exactly
// FeatureCount entries.
func FeatureVectorFromSlice(xs []float64) (FeatureVector, error) {
	var v FeatureVector
	if len(xs) != FeatureCount {
		return v, &FeatureVectorError{Reason: fmt.Sprintf("got %d features, want %d", len(xs), FeatureCount)}
	}
	copy(v[:], xs)
	return v, nil
}

// FeatureVectorError reports a violation of the classifier contract: wrong
// dimensionality, column order, or value range. It indicates a defect in the
// pipeline and is never recovered.
type FeatureVectorError struct {
	Feature string
	Reason  string
}

func (e *FeatureVectorError) Error() string {
	if e.Feature == "" {
		return "invalid feature vector: " + e.Reason
	}
	return fmt.Sprintf("invalid feature vector: %s: %s", e.Feature, e.Reason)
}
