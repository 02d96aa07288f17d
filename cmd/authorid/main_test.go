// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/authorid/internal/store"
	"github.com/pdiddy/authorid/pkg/types"
)

const testCorpus = `- wosid: WOS:1
  title: Evolution of the spiral cleavage program
  author_address: Union Coll, Dept Biol, Schenectady, NY 12308 USA.
  authors_full: [[BOYER, BC], [HENRY, JQ]]
- wosid: WOS:2
  title: Cell lineage of a polyclad turbellarian
  author_address: Union Coll, Dept Biol, Schenectady, NY 12308 USA.
  authors_full: [[BOYER, B], [HENRY, JQ]]
- wosid: WOS:3
  authors_full: [[MAIR, G]]
`

func resetConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	initConfig()
}

func TestLoadConfigDefaults(t *testing.T) {
	resetConfig(t)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, types.DefaultDisambiguationConfig(), cfg)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("AUTHORID_MERGE_MODE", "legacy")
	t.Setenv("AUTHORID_BLOCKING_THRESHOLD", "85")
	resetConfig(t)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, types.MergeLegacy, cfg.Merge.Mode)
	assert.Equal(t, 85, cfg.Blocking.Threshold)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("AUTHORID_BLOCKING_MODE", "closest")
	resetConfig(t)

	_, err := loadConfig()
	assert.ErrorContains(t, err, "unsupported blocking mode")
}

func TestNewLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger, err := newLogger(types.LogConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))

	logger, err = newLogger(types.LogConfig{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))

	_, err = newLogger(types.LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestTextTableRender(t *testing.T) {
	tbl := newTextTable("2 blocks", "Label", "Size").alignRight(1)
	tbl.add("SMITHJ", "3")
	tbl.add("MAIRG")

	out := tbl.render()
	assert.True(t, strings.HasPrefix(out, "╭"), out)
	for _, want := range []string{"2 blocks", "LABEL", "SIZE", "SMITHJ", "MAIRG"} {
		assert.Contains(t, out, want)
	}
	assert.Empty(t, newTextTable("none").render())
}

func TestClusterAndExportCommands(t *testing.T) {
	resetConfig(t)
	dir := t.TempDir()
	corpusPath := filepath.Join(dir, "corpus.yaml")
	require.NoError(t, os.WriteFile(corpusPath, []byte(testCorpus), 0o644))
	dataDir := filepath.Join(dir, "data")

	rootCmd.SetArgs([]string{"cluster", "--corpus", corpusPath, "--data-dir", dataDir, "--workers", "1", "--json"})
	require.NoError(t, rootCmd.Execute())

	s, err := store.NewStore(types.StoreConfig{DataDir: dataDir})
	require.NoError(t, err)
	runs, err := s.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, corpusPath, runs[0].Source)
	assert.Equal(t, 5, runs[0].Stats.Records)
	require.NoError(t, s.Close())

	rootCmd.SetArgs([]string{"export", "--data-dir", dataDir, "--format", "json"})
	require.NoError(t, rootCmd.Execute())
	assert.FileExists(t, filepath.Join(dataDir, "index", runs[0].ID+"-clusters.json"))

	rootCmd.SetArgs([]string{"export", "--data-dir", dataDir, "--format", "csv"})
	assert.ErrorContains(t, rootCmd.Execute(), "unsupported export format")
}

func TestScoreCommandUnknownKey(t *testing.T) {
	resetConfig(t)
	corpusPath := filepath.Join(t.TempDir(), "corpus.yaml")
	require.NoError(t, os.WriteFile(corpusPath, []byte(testCorpus), 0o644))

	rootCmd.SetArgs([]string{"score", "--corpus", corpusPath, "BOYERBCWOS:1", "NOBODYWOS:9"})
	assert.ErrorContains(t, rootCmd.Execute(), "record NOBODYWOS:9 not found")
}
