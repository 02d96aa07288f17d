// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists disambiguation runs in SQLite and exports their
// clusters. Each run keeps its configuration, counts, records, block
// partition and identity clusters so results can be listed and re-exported
// without recomputing them.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/authorid/internal/disambiguate"
	"github.com/pdiddy/authorid/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "authorid.db"
)

// ErrNoRuns is returned by LatestRun when the store is empty.
var ErrNoRuns = errors.New("no runs stored")

// ErrRunNotFound is returned when a run id has no row.
var ErrRunNotFound = errors.New("run not found")

// Run is the summary row of a stored run.
type Run struct {
	ID        string             `json:"id" yaml:"id"`
	CreatedAt time.Time          `json:"created_at" yaml:"created_at"`
	Source    string             `json:"source" yaml:"source"`
	BlockMode types.BlockMode    `json:"block_mode" yaml:"block_mode"`
	MergeMode types.MergeMode    `json:"merge_mode" yaml:"merge_mode"`
	Threshold int                `json:"threshold" yaml:"threshold"`
	Stats     disambiguate.Stats `json:"stats" yaml:"stats"`
}

// Store manages the run database.
type Store struct {
	db      *sql.DB
	dataDir string
	now     func() time.Time
}

// NewStore opens or creates the run database at dataDir/index/authorid.db
// and creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: cfg.DataDir, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			source TEXT,
			block_mode TEXT NOT NULL,
			merge_mode TEXT NOT NULL,
			threshold INTEGER NOT NULL,
			papers INTEGER NOT NULL,
			records INTEGER NOT NULL,
			literals INTEGER NOT NULL,
			blocks INTEGER NOT NULL,
			clusters INTEGER NOT NULL,
			comparisons INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			key TEXT NOT NULL,
			paper_id TEXT NOT NULL,
			last_name TEXT,
			first_name TEXT,
			literal TEXT NOT NULL,
			title TEXT,
			date TEXT,
			journal TEXT,
			institute TEXT,
			PRIMARY KEY (run_id, key)
		)`,
		`CREATE TABLE IF NOT EXISTS blocks (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			label TEXT NOT NULL,
			literal TEXT NOT NULL,
			block_pos INTEGER NOT NULL,
			member_pos INTEGER NOT NULL,
			PRIMARY KEY (run_id, literal)
		)`,
		`CREATE TABLE IF NOT EXISTS clusters (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			label TEXT NOT NULL,
			block TEXT NOT NULL,
			record_key TEXT NOT NULL,
			cluster_pos INTEGER NOT NULL,
			member_pos INTEGER NOT NULL,
			PRIMARY KEY (run_id, record_key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_clusters_label ON clusters(run_id, label)`,
		`CREATE INDEX IF NOT EXISTS idx_records_literal ON records(run_id, literal)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun stores res under a new run id in one transaction and returns the
// id.
func (s *Store) SaveRun(ctx context.Context, source string, cfg types.DisambiguationConfig, res *disambiguate.Result) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	st := res.Stats
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, source, block_mode, merge_mode, threshold,
			papers, records, literals, blocks, clusters, comparisons)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, s.now().UTC().Format(time.RFC3339Nano), source,
		string(cfg.Blocking.Mode), string(cfg.Merge.Mode), cfg.Blocking.Threshold,
		st.Papers, st.Records, st.Literals, st.Blocks, st.Clusters, st.Comparisons,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	if err := insertRecords(ctx, tx, id, res); err != nil {
		return "", err
	}
	if err := insertBlocks(ctx, tx, id, res.Partition); err != nil {
		return "", err
	}
	if err := insertClusters(ctx, tx, id, res.Clusters); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

func insertRecords(ctx context.Context, tx *sql.Tx, runID string, res *disambiguate.Result) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (run_id, key, paper_id, last_name, first_name, literal, title, date, journal, institute)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing record insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range res.Records.All() {
		var institute sql.NullString
		if r.Institute.OK {
			institute = sql.NullString{String: r.Institute.Name, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			runID, r.Key, r.PaperID, r.LastName, r.FirstName, r.Literal,
			r.Title, r.Date, r.Journal, institute,
		); err != nil {
			return fmt.Errorf("inserting record %s: %w", r.Key, err)
		}
	}
	return nil
}

func insertBlocks(ctx context.Context, tx *sql.Tx, runID string, p types.Partition) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO blocks (run_id, label, literal, block_pos, member_pos) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing block insert: %w", err)
	}
	defer stmt.Close()

	for i, b := range p.Blocks {
		for j, lit := range b.Members {
			if _, err := stmt.ExecContext(ctx, runID, b.Label, lit, i, j); err != nil {
				return fmt.Errorf("inserting block %s: %w", b.Label, err)
			}
		}
	}
	return nil
}

func insertClusters(ctx context.Context, tx *sql.Tx, runID string, c types.Clusters) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO clusters (run_id, label, block, record_key, cluster_pos, member_pos) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing cluster insert: %w", err)
	}
	defer stmt.Close()

	for i, cl := range c.Clusters {
		for j, key := range cl.Members {
			if _, err := stmt.ExecContext(ctx, runID, cl.Label, cl.Block, key, i, j); err != nil {
				return fmt.Errorf("inserting cluster %s: %w", cl.Label, err)
			}
		}
	}
	return nil
}

const runColumns = `id, created_at, source, block_mode, merge_mode, threshold,
	papers, records, literals, blocks, clusters, comparisons`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		r         Run
		createdAt string
		source    sql.NullString
		blockMode string
		mergeMode string
	)
	if err := row.Scan(&r.ID, &createdAt, &source, &blockMode, &mergeMode, &r.Threshold,
		&r.Stats.Papers, &r.Stats.Records, &r.Stats.Literals, &r.Stats.Blocks,
		&r.Stats.Clusters, &r.Stats.Comparisons); err != nil {
		return Run{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parsing created_at of run %s: %w", r.ID, err)
	}
	r.CreatedAt = t
	r.Source = source.String
	r.BlockMode = types.BlockMode(blockMode)
	r.MergeMode = types.MergeMode(mergeMode)
	return r, nil
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Run returns the run with the given id.
func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("querying run %s: %w", id, err)
	}
	return r, nil
}

// LatestRun returns the most recent run.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRuns
	}
	if err != nil {
		return Run{}, fmt.Errorf("querying latest run: %w", err)
	}
	return r, nil
}

// Clusters returns the identity clusters of a run in their original order.
func (s *Store) Clusters(ctx context.Context, runID string) (types.Clusters, error) {
	if _, err := s.Run(ctx, runID); err != nil {
		return types.Clusters{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT label, block, record_key, cluster_pos FROM clusters
		 WHERE run_id = ? ORDER BY cluster_pos, member_pos`, runID)
	if err != nil {
		return types.Clusters{}, fmt.Errorf("querying clusters: %w", err)
	}
	defer rows.Close()

	var (
		out  types.Clusters
		last = -1
	)
	for rows.Next() {
		var (
			label, blk, key string
			pos             int
		)
		if err := rows.Scan(&label, &blk, &key, &pos); err != nil {
			return types.Clusters{}, fmt.Errorf("scanning cluster row: %w", err)
		}
		if pos != last {
			out.Clusters = append(out.Clusters, types.Cluster{Label: label, Block: blk})
			last = pos
		}
		cur := &out.Clusters[len(out.Clusters)-1]
		cur.Members = append(cur.Members, key)
	}
	return out, rows.Err()
}

// Partition returns the block partition of a run in creation order.
func (s *Store) Partition(ctx context.Context, runID string) (types.Partition, error) {
	if _, err := s.Run(ctx, runID); err != nil {
		return types.Partition{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT label, literal, block_pos FROM blocks
		 WHERE run_id = ? ORDER BY block_pos, member_pos`, runID)
	if err != nil {
		return types.Partition{}, fmt.Errorf("querying blocks: %w", err)
	}
	defer rows.Close()

	var (
		out  types.Partition
		last = -1
	)
	for rows.Next() {
		var (
			label, lit string
			pos        int
		)
		if err := rows.Scan(&label, &lit, &pos); err != nil {
			return types.Partition{}, fmt.Errorf("scanning block row: %w", err)
		}
		if pos != last {
			out.Blocks = append(out.Blocks, types.Block{Label: label})
			last = pos
		}
		cur := &out.Blocks[len(out.Blocks)-1]
		cur.Members = append(cur.Members, lit)
	}
	return out, rows.Err()
}
