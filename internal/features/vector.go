// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import (
	"math"
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`\w+`)

// WordVector is a bag-of-words term-frequency vector.
type WordVector struct {
	counts map[string]float64
	norm   float64
}

// NewWordVector counts the \w+ tokens of text. Returns nil if text has none.
func NewWordVector(text string) *WordVector {
	words := wordPattern.FindAllString(text, -1)
	if len(words) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(words))
	for _, w := range words {
		counts[w]++
	}
	var norm float64
	for _, c := range counts {
		norm += c * c
	}
	return &WordVector{counts: counts, norm: math.Sqrt(norm)}
}

// Len returns the number of distinct words.
func (v *WordVector) Len() int {
	if v == nil {
		return 0
	}
	return len(v.counts)
}

// CosineSimilarity returns the cosine of the angle between a and b, clamped
// to [0,1]. Returns 0 if either vector is nil or has zero norm.
func CosineSimilarity(a, b *WordVector) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	for w, c := range a.counts {
		if other, ok := b.counts[w]; ok {
			dot += c * other
		}
	}
	if dot == 0 {
		return 0
	}
	// Identical vectors can land a rounding step above 1.
	return math.Min(1, dot/(a.norm*b.norm))
}

// leadingSegments joins the first n comma-separated parts of s with spaces.
func leadingSegments(s string, n int) string {
	parts := strings.Split(s, ",")
	if len(parts) > n {
		parts = parts[:n]
	}
	return strings.Join(parts, " ")
}
