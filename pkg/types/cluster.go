// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "sort"

// Block groups author literals judged similar to the block label. The label
// is itself a member.
type Block struct {
	Label   string   `json:"label" yaml:"label"`
	Members []string `json:"members" yaml:"members"`
}

// Size returns the number of member literals.
func (b Block) Size() int {
	return len(b.Members)
}

// Contains reports whether literal is a member of the block.
func (b Block) Contains(literal string) bool {
	i := sort.SearchStrings(b.Members, literal)
	return i < len(b.Members) && b.Members[i] == literal
}

// Partition is the blocker output: blocks in creation order, each with sorted
// members. Every distinct literal belongs to exactly one block. Members of a
// block are not guaranteed to be pairwise similar.
type Partition struct {
	Blocks []Block `json:"blocks" yaml:"blocks"`
}

// Len returns the number of blocks.
func (p Partition) Len() int {
	return len(p.Blocks)
}

// Map returns label to member literals.
func (p Partition) Map() map[string][]string {
	m := make(map[string][]string, len(p.Blocks))
	for _, b := range p.Blocks {
		m[b.Label] = b.Members
	}
	return m
}

// BlockOf returns the block containing literal.
func (p Partition) BlockOf(literal string) (Block, bool) {
	for _, b := range p.Blocks {
		if b.Contains(literal) {
			return b, true
		}
	}
	return Block{}, false
}

// Literals returns the sorted union of all block members.
func (p Partition) Literals() []string {
	var out []string
	for _, b := range p.Blocks {
		out = append(out, b.Members...)
	}
	sort.Strings(out)
	return out
}

// Cluster is one identity: the record keys believed to belong to a single
// real author. Block names the block the cluster was derived from.
type Cluster struct {
	Label   string   `json:"label" yaml:"label"`
	Block   string   `json:"block" yaml:"block"`
	Members []string `json:"members" yaml:"members"`
}

// Clusters is the terminal artifact of the pipeline. Every record key of the
// corpus appears in exactly one cluster.
type Clusters struct {
	Clusters []Cluster `json:"clusters" yaml:"clusters"`
}

// Len returns the number of clusters.
func (c Clusters) Len() int {
	return len(c.Clusters)
}

// Map returns label to member record keys.
func (c Clusters) Map() map[string][]string {
	m := make(map[string][]string, len(c.Clusters))
	for _, cl := range c.Clusters {
		m[cl.Label] = cl.Members
	}
	return m
}

// Get returns the cluster with the given label.
func (c Clusters) Get(label string) (Cluster, bool) {
	for _, cl := range c.Clusters {
		if cl.Label == label {
			return cl, true
		}
	}
	return Cluster{}, false
}

// ClusterOf returns the cluster holding the given record key.
func (c Clusters) ClusterOf(key string) (Cluster, bool) {
	for _, cl := range c.Clusters {
		for _, m := range cl.Members {
			if m == key {
				return cl, true
			}
		}
	}
	return Cluster{}, false
}
