// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fuzzy scores string similarity on a 0-100 scale with the same
// arithmetic as the fuzzywuzzy ratio and partial_ratio functions, built on a
// difflib SequenceMatcher. Scores feed both the blocker threshold and the
// name features, so they must match the values the classifier was trained on.
package fuzzy

import (
	"math"

	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns round(100 * 2M / T) where M is the number of matched
// characters and T the total length of both strings. Equal strings score 100;
// otherwise an empty side scores 0.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	return percent(matcher(chars(a), chars(b)).Ratio())
}

// PartialRatio aligns the shorter string against every window of the longer
// string suggested by the matching blocks and returns the best window ratio.
func PartialRatio(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	shorter, longer := chars(a), chars(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	best := 0.0
	for _, block := range matcher(shorter, longer).GetMatchingBlocks() {
		start := block.B - block.A
		if start < 0 {
			start = 0
		}
		end := start + len(shorter)
		if end > len(longer) {
			end = len(longer)
		}
		r := matcher(shorter, longer[start:end]).Ratio()
		if r > 0.995 {
			return 100
		}
		if r > best {
			best = r
		}
	}
	return percent(best)
}

// SymmetricRatio returns the larger of Ratio(a, b) and Ratio(b, a). The
// matcher's longest-block search is order sensitive, so the two can differ.
func SymmetricRatio(a, b string) int {
	return max(Ratio(a, b), Ratio(b, a))
}

// SymmetricPartialRatio returns the larger of PartialRatio in both orders.
func SymmetricPartialRatio(a, b string) int {
	return max(PartialRatio(a, b), PartialRatio(b, a))
}

func matcher(a, b []string) *difflib.SequenceMatcher {
	return difflib.NewMatcher(a, b)
}

// chars splits s into one element per rune so the line-oriented matcher
// compares characters.
func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// percent rounds half away from zero.
func percent(r float64) int {
	return int(math.Round(100 * r))
}
