// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package block partitions distinct author literals into blocks of similar
// names so that pairwise classification only runs within a block.
//
// The blocker is greedy and single pass. Literals are processed in sorted
// order; each one joins an existing block whose label is equal or similar
// enough, or founds a new block labeled by itself. Membership chains through
// these decisions: two members of a block need not be similar to each other,
// only each to the label.
package block

import (
	"sort"

	"github.com/pdiddy/authorid/internal/fuzzy"
	"github.com/pdiddy/authorid/pkg/types"
)

type options struct {
	threshold int
	mode      types.BlockMode
}

// Option configures Build.
type Option func(*options)

// WithThreshold sets the minimum symmetric fuzzy ratio (0-100) for a literal
// to join a block. The default is types.DefaultBlockThreshold.
func WithThreshold(t int) Option {
	return func(o *options) {
		o.threshold = t
	}
}

// WithMode selects first-match (default) or best-match assignment. An empty
// mode keeps the default.
func WithMode(m types.BlockMode) Option {
	return func(o *options) {
		if m != "" {
			o.mode = m
		}
	}
}

// Build partitions literals into blocks. Duplicates in the input are
// ignored. The result depends only on the set of literals, so repeated calls
// on the same input produce identical partitions.
func Build(literals []string, opts ...Option) types.Partition {
	o := options{threshold: types.DefaultBlockThreshold, mode: types.BlockFirstMatch}
	for _, opt := range opts {
		opt(&o)
	}

	sorted := distinctSorted(literals)

	var (
		labels  []string
		members = make(map[string][]string)
	)

	for _, x := range sorted {
		var idx int
		switch o.mode {
		case types.BlockBestMatch:
			idx = bestMatch(x, labels, o.threshold)
		default:
			idx = firstMatch(x, labels, o.threshold)
		}

		if idx < 0 {
			labels = append(labels, x)
			members[x] = []string{x}
			continue
		}
		k := labels[idx]
		members[k] = append(members[k], x)
	}

	p := types.Partition{Blocks: make([]types.Block, len(labels))}
	for i, k := range labels {
		// Literals arrive sorted, so members are already in order.
		p.Blocks[i] = types.Block{Label: k, Members: members[k]}
	}
	return p
}

// firstMatch returns the index of the first label, in creation order, that
// equals x or scores at or above threshold.
func firstMatch(x string, labels []string, threshold int) int {
	for i, k := range labels {
		if x == k || fuzzy.SymmetricRatio(x, k) >= threshold {
			return i
		}
	}
	return -1
}

// bestMatch returns the index of the highest scoring label at or above
// threshold. An equal label wins outright; ties go to the older block.
func bestMatch(x string, labels []string, threshold int) int {
	best, bestScore := -1, -1
	for i, k := range labels {
		if x == k {
			return i
		}
		score := fuzzy.SymmetricRatio(x, k)
		if score >= threshold && score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func distinctSorted(literals []string) []string {
	seen := make(map[string]bool, len(literals))
	out := make([]string, 0, len(literals))
	for _, l := range literals {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
