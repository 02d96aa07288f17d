// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/authorid/internal/classify"
	"github.com/pdiddy/authorid/internal/disambiguate"
	"github.com/pdiddy/authorid/pkg/types"
)

// --- test helpers ---

type sliceCorpus []types.Paper

func (c sliceCorpus) Papers() []types.Paper { return c }

func testSetup(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()

	store, err := NewStore(types.StoreConfig{DataDir: tmpDir})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return store, tmpDir
}

func sampleCorpus() sliceCorpus {
	union := types.InstituteFromText("Union Coll, Dept Biol, Schenectady, NY 12308 USA.")
	return sliceCorpus{
		{
			WOSID: "WOS:1", Title: "Evolution of the spiral cleavage program", AuthorAddress: union,
			AuthorsFull: []types.AuthorName{{Last: "BOYER", First: "BC"}, {Last: "HENRY", First: "JQ"}},
		},
		{
			WOSID: "WOS:2", Title: "Cell lineage of a polyclad turbellarian", AuthorAddress: union,
			AuthorsFull: []types.AuthorName{{Last: "BOYER", First: "B"}, {Last: "HENRY", First: "JQ"}},
		},
		{
			WOSID:       "WOS:3",
			AuthorsFull: []types.AuthorName{{Last: "MAIR", First: "G"}},
		},
	}
}

func runPipeline(t *testing.T) (types.DisambiguationConfig, *disambiguate.Result) {
	t.Helper()
	cfg := types.DefaultDisambiguationConfig()
	cfg.Merge.Workers = 1
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	res, err := disambiguate.Run(context.Background(), sampleCorpus(), classify.Baseline(), cfg, disambiguate.WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	return cfg, res
}

func saveHelper(t *testing.T, store *Store) (string, *disambiguate.Result) {
	t.Helper()
	cfg, res := runPipeline(t)
	id, err := store.SaveRun(context.Background(), "corpus.yaml", cfg, res)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	return id, res
}

// --- schema tests ---

func TestNewStoreCreatesSchema(t *testing.T) {
	store, _ := testSetup(t)

	for _, table := range []string{"runs", "records", "blocks", "clusters"} {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestNewStoreCreatesDBFile(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, indexDir, dbFile)

	store, err := NewStore(types.StoreConfig{DataDir: tmpDir})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file not created at %s", dbPath)
	}
}

func TestNewStoreReopens(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewStore(types.StoreConfig{DataDir: tmpDir})
	if err != nil {
		t.Fatal(err)
	}
	id, _ := saveHelper(t, store)
	store.Close()

	reopened, err := NewStore(types.StoreConfig{DataDir: tmpDir})
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	if _, err := reopened.Run(context.Background(), id); err != nil {
		t.Errorf("run %s lost after reopen: %v", id, err)
	}
}

// --- run tests ---

func TestSaveRunRoundTrip(t *testing.T) {
	store, _ := testSetup(t)
	id, res := saveHelper(t, store)
	ctx := context.Background()

	run, err := store.Run(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if run.Source != "corpus.yaml" {
		t.Errorf("Source = %q, want corpus.yaml", run.Source)
	}
	if run.BlockMode != types.BlockFirstMatch || run.MergeMode != types.MergeConnected {
		t.Errorf("modes = %s/%s", run.BlockMode, run.MergeMode)
	}
	if run.Threshold != types.DefaultBlockThreshold {
		t.Errorf("Threshold = %d, want %d", run.Threshold, types.DefaultBlockThreshold)
	}
	if run.Stats != res.Stats {
		t.Errorf("Stats = %+v, want %+v", run.Stats, res.Stats)
	}

	clusters, err := store.Clusters(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(clusters, res.Clusters) {
		t.Errorf("Clusters = %+v, want %+v", clusters, res.Clusters)
	}

	partition, err := store.Partition(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(partition, res.Partition) {
		t.Errorf("Partition = %+v, want %+v", partition, res.Partition)
	}

	var records int
	if err := store.db.QueryRow(`SELECT count(*) FROM records WHERE run_id = ?`, id).Scan(&records); err != nil {
		t.Fatal(err)
	}
	if records != res.Records.Len() {
		t.Errorf("stored %d records, want %d", records, res.Records.Len())
	}
}

func TestRunsNewestFirst(t *testing.T) {
	store, _ := testSetup(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		store.now = func() time.Time { return at }
		id, _ := saveHelper(t, store)
		ids = append(ids, id)
	}

	runs, err := store.Runs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	for i, r := range runs {
		if want := ids[len(ids)-1-i]; r.ID != want {
			t.Errorf("runs[%d] = %s, want %s", i, r.ID, want)
		}
	}
	if !runs[0].CreatedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("CreatedAt = %v", runs[0].CreatedAt)
	}

	latest, err := store.LatestRun(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if latest.ID != ids[2] {
		t.Errorf("LatestRun = %s, want %s", latest.ID, ids[2])
	}
}

func TestLatestRunEmpty(t *testing.T) {
	store, _ := testSetup(t)
	if _, err := store.LatestRun(context.Background()); !errors.Is(err, ErrNoRuns) {
		t.Errorf("err = %v, want ErrNoRuns", err)
	}
}

func TestUnknownRun(t *testing.T) {
	store, _ := testSetup(t)
	ctx := context.Background()

	if _, err := store.Run(ctx, "nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Run: err = %v, want ErrRunNotFound", err)
	}
	if _, err := store.Clusters(ctx, "nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Clusters: err = %v, want ErrRunNotFound", err)
	}
	if _, err := store.Partition(ctx, "nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Partition: err = %v, want ErrRunNotFound", err)
	}
	if _, err := store.ExportYAML(ctx, "nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("ExportYAML: err = %v, want ErrRunNotFound", err)
	}
}

// --- export tests ---

func TestExportYAML(t *testing.T) {
	store, tmpDir := testSetup(t)
	id, res := saveHelper(t, store)

	path, err := store.ExportYAML(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(tmpDir, indexDir, id+"-clusters.yaml"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []ExportCluster
	if err := yaml.Unmarshal(data, &entries); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if len(entries) != res.Clusters.Len() {
		t.Errorf("got %d entries, want %d", len(entries), res.Clusters.Len())
	}

	members := 0
	for _, e := range entries {
		for _, m := range e.Members {
			members++
			if m.PaperID == "" || m.LastName == "" {
				t.Errorf("member %s missing record fields", m.Key)
			}
		}
	}
	if members != res.Records.Len() {
		t.Errorf("exported %d members, want %d", members, res.Records.Len())
	}
}

func TestExportJSON(t *testing.T) {
	store, tmpDir := testSetup(t)
	id, res := saveHelper(t, store)

	path, err := store.ExportJSON(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(tmpDir, indexDir, id+"-clusters.json"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []ExportCluster
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(entries) != res.Clusters.Len() {
		t.Errorf("got %d entries, want %d", len(entries), res.Clusters.Len())
	}

	for _, e := range entries {
		if e.Label != "MAIRG" {
			continue
		}
		if len(e.Members) != 1 || e.Members[0].Key != "MAIRGWOS:3" {
			t.Errorf("MAIRG members = %+v", e.Members)
		}
		if e.Members[0].Institute != "" {
			t.Errorf("unresolved institute exported as %q", e.Members[0].Institute)
		}
	}
}
