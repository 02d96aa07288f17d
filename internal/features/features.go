// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package features computes the similarity feature vector for two
// author-paper records. Every sub-score has a defined fallback for missing
// data, so scoring never fails.
package features

import (
	"github.com/pdiddy/authorid/internal/fuzzy"
	"github.com/pdiddy/authorid/pkg/types"
)

// instituteSegments is the number of leading comma-separated address parts
// compared; later parts are street, city and postcode detail.
const instituteSegments = 3

// Score returns the feature vector for records a and b. Every sub-score is
// symmetric in its arguments.
func Score(a, b *types.Record) types.FeatureVector {
	var v types.FeatureVector
	v[types.InstitScore] = InstituteScore(a.Institute, b.Institute)
	v[types.BothNameScore] = NameScore(a, b)
	v[types.FNameScore] = ratio(a.FirstName, b.FirstName)
	v[types.FNamePartialScore] = partialRatio(a.FirstName, b.FirstName)
	v[types.LNameScore] = ratio(a.LastName, b.LastName)
	v[types.LNamePartialScore] = partialRatio(a.LastName, b.LastName)
	v[types.EmailAddrScore] = EmailScore(a.Emails, b.Emails)
	v[types.AuthKWScore] = Jaccard(a.Keywords, b.Keywords)
	v[types.CoAuthorScore] = Jaccard(a.CoAuthors, b.CoAuthors)
	return v
}

// NameScore is 1 when both first and last names are equal, else 0.
func NameScore(a, b *types.Record) float64 {
	if a.FirstName == b.FirstName && a.LastName == b.LastName {
		return 1
	}
	return 0
}

// InstituteScore is the cosine similarity of the word vectors of the first
// three comma-separated segments of each institute. It is 0 when either side
// is unresolved.
func InstituteScore(a, b types.ResolvedInstitute) float64 {
	if !a.OK || !b.OK {
		return 0
	}
	return CosineSimilarity(
		NewWordVector(leadingSegments(a.Name, instituteSegments)),
		NewWordVector(leadingSegments(b.Name, instituteSegments)),
	)
}

// EmailScore compares email fields. Two lists score by Jaccard overlap; a
// scalar scores 1 when it appears in the other side's list or equals the
// other scalar. An empty side scores 0.
func EmailScore(a, b types.Emails) float64 {
	if a.IsEmpty() || b.IsEmpty() {
		return 0
	}
	switch {
	case a.IsMulti() && b.IsMulti():
		return Jaccard(a.Values(), b.Values())
	case b.IsMulti():
		return contains(b.Values(), a.Scalar())
	case a.IsMulti():
		return contains(a.Values(), b.Scalar())
	}
	if a.Scalar() == b.Scalar() {
		return 1
	}
	return 0
}

// Jaccard returns |a ∩ b| / |a ∪ b| over the distinct elements of a and b.
// If either operand is empty the score is 0, not 1: the trained classifier
// encodes that convention.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := toSet(a)
	setB := toSet(b)

	inter := 0
	for x := range setA {
		if setB[x] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func ratio(a, b string) float64 {
	return float64(fuzzy.SymmetricRatio(a, b)) / 100
}

func partialRatio(a, b string) float64 {
	return float64(fuzzy.SymmetricPartialRatio(a, b)) / 100
}

func contains(list []string, x string) float64 {
	for _, v := range list {
		if v == x {
			return 1
		}
	}
	return 0
}

func toSet(xs []string) map[string]bool {
	set := make(map[string]bool, len(xs))
	for _, x := range xs {
		set[x] = true
	}
	return set
}
