// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cluster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"github.com/pdiddy/authorid/internal/classify"
	"github.com/pdiddy/authorid/internal/features"
	"github.com/pdiddy/authorid/internal/records"
	"github.com/pdiddy/authorid/pkg/types"
)

// ErrClassifierRequired is returned when NewMerger gets a nil classifier.
var ErrClassifierRequired = errors.New("classifier required")

// Merger turns blocks into identity clusters using pairwise classifier
// decisions. A Merger may run several merges in sequence but not
// concurrently.
type Merger struct {
	clf         classify.Classifier
	pool        *ants.Pool
	mode        types.MergeMode
	logger      *slog.Logger
	comparisons atomic.Int64
}

// Option configures a Merger.
type Option func(*Merger) error

// WithMode selects connected-component (default) or legacy first-match
// merging. An empty mode keeps the default.
func WithMode(mode types.MergeMode) Option {
	return func(m *Merger) error {
		switch mode {
		case "":
			return nil
		case types.MergeConnected, types.MergeLegacy:
			m.mode = mode
			return nil
		}
		return fmt.Errorf("unknown merge mode %q", mode)
	}
}

// WithWorkers sets the worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithWorkers(n int) Option {
	return func(m *Merger) error {
		if n < 1 {
			n = 1
		}
		pool, err := ants.NewPool(n)
		if err != nil {
			return err
		}
		if m.pool != nil {
			m.pool.Release()
		}
		m.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Merger) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewMerger creates a merger backed by its own worker pool. Call Release when
// done.
func NewMerger(clf classify.Classifier, opts ...Option) (*Merger, error) {
	if clf == nil {
		return nil, ErrClassifierRequired
	}

	pool, err := ants.NewPool(types.DefaultWorkers())
	if err != nil {
		return nil, err
	}

	m := &Merger{
		clf:    clf,
		pool:   pool,
		mode:   types.MergeConnected,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(m); optErr != nil {
			m.Release()
			return nil, optErr
		}
	}
	return m, nil
}

// Release frees the worker pool. The merger must not be used afterwards.
func (m *Merger) Release() {
	if m.pool != nil {
		m.pool.Release()
	}
}

// Mode returns the merge mode in effect.
func (m *Merger) Mode() types.MergeMode {
	return m.mode
}

// Comparisons returns the number of classifier calls made so far.
func (m *Merger) Comparisons() int64 {
	return m.comparisons.Load()
}

// Merge produces the identity clusters for every block of p. Every record of
// rs whose literal is in p lands in exactly one cluster. Clusters are ordered
// by block, the label's cluster first; members are sorted record keys.
func (m *Merger) Merge(ctx context.Context, p types.Partition, rs *records.Set) (types.Clusters, error) {
	order := make(map[*types.Record]int, rs.Len())
	for i, r := range rs.All() {
		order[r] = i
	}

	var out types.Clusters
	for _, b := range p.Blocks {
		if err := ctx.Err(); err != nil {
			return types.Clusters{}, err
		}

		candidates := blockRecords(b, rs, order)
		var (
			clusters []types.Cluster
			err      error
		)
		switch {
		case b.Size() == 1:
			clusters = singleton(b, candidates)
		case m.mode == types.MergeLegacy:
			clusters, err = m.mergeLegacy(ctx, b, candidates)
		default:
			clusters, err = m.mergeConnected(ctx, b, candidates)
		}
		if err != nil {
			return types.Clusters{}, fmt.Errorf("merging block %s: %w", b.Label, err)
		}

		m.logger.Debug("merged block",
			"label", b.Label,
			"literals", b.Size(),
			"records", len(candidates),
			"clusters", len(clusters))
		out.Clusters = append(out.Clusters, clusters...)
	}
	return out, nil
}

// blockRecords returns the records of b in corpus order.
func blockRecords(b types.Block, rs *records.Set, order map[*types.Record]int) []*types.Record {
	var out []*types.Record
	for _, lit := range b.Members {
		out = append(out, rs.ByLiteral(lit)...)
	}
	sort.Slice(out, func(i, j int) bool { return order[out[i]] < order[out[j]] })
	return out
}

func singleton(b types.Block, candidates []*types.Record) []types.Cluster {
	if len(candidates) == 0 {
		return nil
	}
	return []types.Cluster{{Label: b.Label, Block: b.Label, Members: keys(candidates)}}
}

// mergeLegacy adds a record to the label's cluster as soon as one partner in
// scan order matches it. Records of the label literal join without a scan.
// Unmatched records each form their own cluster.
func (m *Merger) mergeLegacy(ctx context.Context, b types.Block, candidates []*types.Record) ([]types.Cluster, error) {
	matched := make([]bool, len(candidates))
	err := m.forEach(ctx, candidates, func(i int) error {
		r := candidates[i]
		if r.Literal == b.Label {
			matched[i] = true
			return nil
		}
		for j, other := range candidates {
			if j == i {
				continue
			}
			label, err := m.predict(r, other)
			if err != nil {
				return err
			}
			if label == classify.Match {
				matched[i] = true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var in, rest []*types.Record
	for i, r := range candidates {
		if matched[i] {
			in = append(in, r)
		} else {
			rest = append(rest, r)
		}
	}
	groups := make([][]*types.Record, len(rest))
	for i, r := range rest {
		groups[i] = []*types.Record{r}
	}
	return assemble(b, in, groups), nil
}

// mergeConnected classifies every unordered pair once and returns the
// connected components of the MATCH graph. Records of the label literal are
// joined unconditionally.
func (m *Merger) mergeConnected(ctx context.Context, b types.Block, candidates []*types.Record) ([]types.Cluster, error) {
	edges := make([][]int, len(candidates))
	err := m.forEach(ctx, candidates, func(i int) error {
		for j := i + 1; j < len(candidates); j++ {
			label, err := m.predict(candidates[i], candidates[j])
			if err != nil {
				return err
			}
			if label == classify.Match {
				edges[i] = append(edges[i], j)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uf := newUnionFind(len(candidates))
	anchor := -1
	for i, r := range candidates {
		if r.Literal != b.Label {
			continue
		}
		if anchor < 0 {
			anchor = i
		} else {
			uf.union(anchor, i)
		}
	}
	for i, js := range edges {
		for _, j := range js {
			uf.union(i, j)
		}
	}

	var in []*types.Record
	components := make(map[int][]*types.Record)
	var roots []int
	for i, r := range candidates {
		root := uf.find(i)
		if anchor >= 0 && root == uf.find(anchor) {
			in = append(in, r)
			continue
		}
		if _, ok := components[root]; !ok {
			roots = append(roots, root)
		}
		components[root] = append(components[root], r)
	}
	groups := make([][]*types.Record, len(roots))
	for i, root := range roots {
		groups[i] = components[root]
	}
	return assemble(b, in, groups), nil
}

func (m *Merger) predict(a, b *types.Record) (classify.Label, error) {
	m.comparisons.Add(1)
	return m.clf.Predict(features.Score(a, b))
}

// forEach runs fn for every candidate index on the pool and waits. The first
// failure stops tasks that have not started yet. A panic in fn is a failure.
func (m *Merger) forEach(ctx context.Context, candidates []*types.Record, fn func(i int) error) error {
	inner, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make([]error, len(candidates))
	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("classifier panicked: %v", r)
					cancel()
				}
			}()
			if inner.Err() != nil {
				return
			}
			if err := fn(i); err != nil {
				errs[i] = err
				cancel()
			}
		}
		if err := m.pool.Submit(task); err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submitting comparison: %w", err)
			break
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return ctx.Err()
}

// assemble builds the label's cluster from in and one cluster per group
// labeled by its smallest record key. Groups are ordered by label.
func assemble(b types.Block, in []*types.Record, groups [][]*types.Record) []types.Cluster {
	var out []types.Cluster
	if len(in) > 0 {
		out = append(out, types.Cluster{Label: b.Label, Block: b.Label, Members: keys(in)})
	}
	rest := make([]types.Cluster, 0, len(groups))
	for _, g := range groups {
		members := keys(g)
		rest = append(rest, types.Cluster{Label: members[0], Block: b.Label, Members: members})
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Label < rest[j].Label })
	return append(out, rest...)
}

func keys(rs []*types.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Key
	}
	sort.Strings(out)
	return out
}
