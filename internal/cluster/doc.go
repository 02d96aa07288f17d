// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cluster merges blocks into identity clusters.
//
// A block with one member literal becomes one cluster without any
// classification. Larger blocks compare their records pairwise through a
// classify.Classifier:
//   - connected mode (default) unions every MATCH pair and returns the
//     connected components, so the result does not depend on scan order;
//   - legacy mode adds a record to the label's cluster at its first MATCH
//     partner in corpus order.
//
// Records that do not reach the label's cluster form clusters of their own,
// labeled by their smallest record key. Comparisons run on an ants worker
// pool across records; results are collected by index so output does not
// depend on the number of workers.
package cluster
