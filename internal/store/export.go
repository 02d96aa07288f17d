// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportCluster is one identity cluster with its member records.
type ExportCluster struct {
	Label   string         `json:"label" yaml:"label"`
	Block   string         `json:"block" yaml:"block"`
	Members []ExportMember `json:"members" yaml:"members"`
}

// ExportMember holds the record fields included in each export entry.
type ExportMember struct {
	Key       string `json:"key" yaml:"key"`
	PaperID   string `json:"paper_id" yaml:"paper_id"`
	LastName  string `json:"last_name" yaml:"last_name"`
	FirstName string `json:"first_name" yaml:"first_name"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Institute string `json:"institute,omitempty" yaml:"institute,omitempty"`
}

// ExportYAML writes the clusters of a run to index/<run>-clusters.yaml and
// returns the path.
func (s *Store) ExportYAML(ctx context.Context, runID string) (string, error) {
	entries, err := s.ExportEntries(ctx, runID)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport(runID, "yaml", data)
}

// ExportJSON writes the clusters of a run to index/<run>-clusters.json and
// returns the path.
func (s *Store) ExportJSON(ctx context.Context, runID string) (string, error) {
	entries, err := s.ExportEntries(ctx, runID)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport(runID, "json", data)
}

func (s *Store) writeExport(runID, ext string, data []byte) (string, error) {
	path := filepath.Join(s.dataDir, indexDir, runID+"-clusters."+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

// ExportEntries returns the clusters of a run joined with their records.
func (s *Store) ExportEntries(ctx context.Context, runID string) ([]ExportCluster, error) {
	if _, err := s.Run(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT c.label, c.block, c.cluster_pos, c.record_key,
			r.paper_id, r.last_name, r.first_name, r.title, r.institute
		 FROM clusters c
		 JOIN records r ON r.run_id = c.run_id AND r.key = c.record_key
		 WHERE c.run_id = ?
		 ORDER BY c.cluster_pos, c.member_pos`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	defer rows.Close()

	var (
		entries []ExportCluster
		prev    = -1
	)
	for rows.Next() {
		var (
			label, blk      string
			pos             int
			m               ExportMember
			lastName, first sql.NullString
			title, inst     sql.NullString
		)
		if err := rows.Scan(&label, &blk, &pos, &m.Key, &m.PaperID, &lastName, &first, &title, &inst); err != nil {
			return nil, fmt.Errorf("scanning export row: %w", err)
		}
		m.LastName, m.FirstName = lastName.String, first.String
		m.Title, m.Institute = title.String, inst.String

		if pos != prev {
			entries = append(entries, ExportCluster{Label: label, Block: blk})
			prev = pos
		}
		cur := &entries[len(entries)-1]
		cur.Members = append(cur.Members, m)
	}
	return entries, rows.Err()
}
