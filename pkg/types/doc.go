// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the authorid pipeline:
// corpus papers, author-paper records, feature vectors, blocks, clusters,
// and the per-stage configuration.
package types
