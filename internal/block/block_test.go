// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package block

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/authorid/internal/fuzzy"
	"github.com/pdiddy/authorid/pkg/types"
)

func TestBuildAlbertiniVariantsShareOneBlock(t *testing.T) {
	members := []string{
		"ALBERTINIDAVID F",
		"ALBERTINID",
		"ALBERTINDF",
		"ALBERTINIDF",
		"ALBERTINID F",
		"ALBERTINIDAVID",
	}

	p := Build(members)
	require.Equal(t, 1, p.Len())

	got := p.Blocks[0]
	assert.Equal(t, "ALBERTINDF", got.Label)
	assert.Equal(t, []string{
		"ALBERTINDF",
		"ALBERTINID",
		"ALBERTINID F",
		"ALBERTINIDAVID",
		"ALBERTINIDAVID F",
		"ALBERTINIDF",
	}, got.Members)
}

func TestBuildMixedCorpus(t *testing.T) {
	literals := []string{
		"ANDERSONR", "AALBERGJ", "ANDERSENCY", "VALBERGPA",
		"ANDERSONE", "ALLWORTHAE", "ALBERTINDF", "ALBERTINIDF",
	}

	p := Build(literals)
	m := p.Map()

	assert.Equal(t, []string{"AALBERGJ", "VALBERGPA"}, m["AALBERGJ"])
	assert.Equal(t, []string{"ANDERSENCY", "ANDERSONE", "ANDERSONR"}, m["ANDERSENCY"])
	assert.Equal(t, []string{"ALBERTINDF", "ALBERTINIDF"}, m["ALBERTINDF"])
	assert.Equal(t, []string{"ALLWORTHAE"}, m["ALLWORTHAE"])

	// Block members other than the label never become labels themselves.
	for _, b := range p.Blocks {
		for _, member := range b.Members {
			if member != b.Label {
				_, isLabel := m[member]
				assert.False(t, isLabel, "member %s is also a label", member)
			}
		}
	}
}

func TestBuildPartitionProperty(t *testing.T) {
	literals := []string{
		"BOYERB", "BOYERBC", "HENRYJJ", "HENRYJQ", "HILLSD", "KAPLANIM",
		"LANDOLFAM", "LANDOLFAMA", "MAIRG", "MARTINDALEMQ", "REITERD",
		"RIEGERR", "ROONEYLM", "SALVENMOSERW", "SANTOSKA", "SMITHGW",
	}

	p := Build(literals)

	seen := make(map[string]int)
	for _, b := range p.Blocks {
		assert.True(t, b.Contains(b.Label), "label %s missing from its block", b.Label)
		assert.True(t, sort.StringsAreSorted(b.Members))
		for _, member := range b.Members {
			seen[member]++
		}
	}

	for _, l := range literals {
		assert.Equal(t, 1, seen[l], "literal %s", l)
	}
	assert.Len(t, seen, len(literals))

	sorted := append([]string(nil), literals...)
	sort.Strings(sorted)
	assert.Equal(t, sorted, p.Literals())
}

func TestBuildIsDeterministic(t *testing.T) {
	literals := []string{"HENRYJQ", "BOYERB", "HENRYJJ", "BOYERBC", "HILLSD", "MAIRG", "MARTINDALEMQ"}

	first := Build(literals)
	second := Build(literals)
	assert.Equal(t, first, second)

	reversed := make([]string, len(literals))
	for i, l := range literals {
		reversed[len(literals)-1-i] = l
	}
	assert.Equal(t, first, Build(reversed))
}

func TestBuildExactMatchPrecedence(t *testing.T) {
	// A threshold above 100 disables fuzzy matching entirely.
	p := Build([]string{"SMITHJ", "SMITHJ", "SMITHJA", "SMITHJ"}, WithThreshold(101))

	require.Equal(t, 2, p.Len())
	assert.Equal(t, []string{"SMITHJ"}, p.Map()["SMITHJ"])
	assert.Equal(t, []string{"SMITHJA"}, p.Map()["SMITHJA"])
}

func TestBuildEmpty(t *testing.T) {
	p := Build(nil)
	assert.Zero(t, p.Len())
	assert.Empty(t, p.Literals())
}

func TestBuildMembersNeedNotBePairwiseSimilar(t *testing.T) {
	p := Build([]string{"ABCD", "ABXY", "CDZW"}, WithThreshold(50))

	require.Equal(t, 1, p.Len())
	assert.Equal(t, []string{"ABCD", "ABXY", "CDZW"}, p.Blocks[0].Members)
	assert.Less(t, fuzzy.SymmetricRatio("ABXY", "CDZW"), 50)
}

func TestBuildModes(t *testing.T) {
	literals := []string{"SMITHJ", "SMYTHEJA", "SMYTHJ"}

	tests := []struct {
		name string
		mode types.BlockMode
		want map[string][]string
	}{
		{
			name: "first match takes the oldest block over threshold",
			mode: types.BlockFirstMatch,
			want: map[string][]string{
				"SMITHJ":   {"SMITHJ", "SMYTHJ"},
				"SMYTHEJA": {"SMYTHEJA"},
			},
		},
		{
			name: "best match takes the most similar block",
			mode: types.BlockBestMatch,
			want: map[string][]string{
				"SMITHJ":   {"SMITHJ"},
				"SMYTHEJA": {"SMYTHEJA", "SMYTHJ"},
			},
		},
		{
			name: "empty mode keeps first match",
			mode: "",
			want: map[string][]string{
				"SMITHJ":   {"SMITHJ", "SMYTHJ"},
				"SMYTHEJA": {"SMYTHEJA"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Build(literals, WithThreshold(80), WithMode(tt.mode))
			assert.Equal(t, tt.want, p.Map())
		})
	}
}
