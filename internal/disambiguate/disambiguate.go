// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package disambiguate runs the full author disambiguation pipeline over one
// corpus snapshot: record construction, blocking, pairwise classification
// and cluster merging.
package disambiguate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/authorid/internal/block"
	"github.com/pdiddy/authorid/internal/classify"
	"github.com/pdiddy/authorid/internal/cluster"
	"github.com/pdiddy/authorid/internal/records"
	"github.com/pdiddy/authorid/pkg/types"
)

// Stats counts what a run produced.
type Stats struct {
	Papers      int   `json:"papers" yaml:"papers"`
	Records     int   `json:"records" yaml:"records"`
	Literals    int   `json:"literals" yaml:"literals"`
	Blocks      int   `json:"blocks" yaml:"blocks"`
	Clusters    int   `json:"clusters" yaml:"clusters"`
	Comparisons int64 `json:"comparisons" yaml:"comparisons"`
}

// Result holds every artifact of a run.
type Result struct {
	Records   *records.Set
	Partition types.Partition
	Clusters  types.Clusters
	Stats     Stats
}

type options struct {
	logger *slog.Logger
}

// Option configures Run.
type Option func(*options)

// WithLogger sets the logger for stage progress. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Run disambiguates the authors of c with clf under cfg.
func Run(ctx context.Context, c records.Corpus, clf classify.Classifier, cfg types.DisambiguationConfig, opts ...Option) (*Result, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	start := time.Now()
	rs, err := records.Build(c)
	if err != nil {
		return nil, fmt.Errorf("building records: %w", err)
	}
	log.Info("records built", "papers", rs.Papers(), "records", rs.Len(), "literals", len(rs.Literals()))

	p := block.Build(rs.Literals(),
		block.WithThreshold(cfg.Blocking.Threshold),
		block.WithMode(cfg.Blocking.Mode))
	log.Info("blocks built", "blocks", p.Len(), "threshold", cfg.Blocking.Threshold, "mode", cfg.Blocking.Mode)

	workers := cfg.Merge.Workers
	if workers == 0 {
		workers = types.DefaultWorkers()
	}
	m, err := cluster.NewMerger(clf,
		cluster.WithMode(cfg.Merge.Mode),
		cluster.WithWorkers(workers),
		cluster.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("creating merger: %w", err)
	}
	defer m.Release()

	clusters, err := m.Merge(ctx, p, rs)
	if err != nil {
		return nil, fmt.Errorf("merging clusters: %w", err)
	}

	res := &Result{
		Records:   rs,
		Partition: p,
		Clusters:  clusters,
		Stats: Stats{
			Papers:      rs.Papers(),
			Records:     rs.Len(),
			Literals:    len(rs.Literals()),
			Blocks:      p.Len(),
			Clusters:    clusters.Len(),
			Comparisons: m.Comparisons(),
		},
	}
	log.Info("clusters merged",
		"clusters", res.Stats.Clusters,
		"comparisons", res.Stats.Comparisons,
		"mode", m.Mode(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return res, nil
}
