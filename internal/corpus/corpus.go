// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus loads paper corpora from disk. A corpus is a YAML or JSON
// file of papers, a Web of Science field-tagged export, or a directory of
// such files.
package corpus

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/authorid/pkg/types"
)

// Corpus is a loaded snapshot of papers. It satisfies records.Corpus.
type Corpus struct {
	// Source is the path the corpus was loaded from.
	Source string
	Items  []types.Paper
}

// Papers returns the loaded papers in file order. A nil corpus has none.
func (c *Corpus) Papers() []types.Paper {
	if c == nil {
		return nil
	}
	return c.Items
}

// Len returns the number of papers.
func (c *Corpus) Len() int {
	return len(c.Papers())
}

// Load reads a corpus file or every corpus file in a directory. Directory
// entries are read in name order; files with other extensions are skipped.
func Load(path string) (*Corpus, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}

	c := &Corpus{Source: path}
	if !info.IsDir() {
		papers, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		c.Items = papers
		return c, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !Supported(e.Name()) {
			continue
		}
		papers, err := loadFile(filepath.Join(path, e.Name()))
		if err != nil {
			return nil, err
		}
		c.Items = append(c.Items, papers...)
	}
	return c, nil
}

// Supported reports whether name has a corpus file extension.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json", ".txt":
		return true
	}
	return false
}

func loadFile(path string) ([]types.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus file: %w", err)
	}

	var papers []types.Paper
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		papers, err = ParseWOS(bytes.NewReader(data))
	} else {
		papers, err = Decode(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return papers, nil
}

// Decode parses YAML or JSON holding either a list of papers or a mapping
// with a papers key.
func Decode(data []byte) ([]types.Paper, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var papers []types.Paper
		if err := root.Decode(&papers); err != nil {
			return nil, err
		}
		return papers, nil
	case yaml.MappingNode:
		var wrapped struct {
			Papers []types.Paper `yaml:"papers"`
		}
		if err := root.Decode(&wrapped); err != nil {
			return nil, err
		}
		return wrapped.Papers, nil
	}
	return nil, fmt.Errorf("line %d: corpus must be a list of papers or a mapping with papers", root.Line)
}
