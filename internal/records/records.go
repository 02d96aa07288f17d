// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package records expands corpus papers into author-paper records: one
// immutable record per distinct author on each paper, keyed by
// LASTNAME + FIRSTNAME + PAPERID.
package records

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pdiddy/authorid/internal/institute"
	"github.com/pdiddy/authorid/pkg/types"
)

// ErrInvalidCorpus matches every InvalidCorpusError via errors.Is.
var ErrInvalidCorpus = errors.New("invalid corpus")

// InvalidCorpusError reports input that is not a usable corpus. Paper is the
// zero-based index of the offending paper, or -1 when the corpus as a whole is
// rejected.
type InvalidCorpusError struct {
	Paper  int
	Reason string
}

func (e *InvalidCorpusError) Error() string {
	if e.Paper < 0 {
		return "invalid corpus: " + e.Reason
	}
	return fmt.Sprintf("invalid corpus: paper %d: %s", e.Paper, e.Reason)
}

// Is reports ErrInvalidCorpus as a match.
func (e *InvalidCorpusError) Is(target error) bool {
	return target == ErrInvalidCorpus
}

// Corpus is a snapshot of papers to disambiguate.
type Corpus interface {
	Papers() []types.Paper
}

// Set holds the records of one corpus snapshot in ingestion order.
type Set struct {
	records   []*types.Record
	byKey     map[string]*types.Record
	byLiteral map[string][]*types.Record
	literals  []string
	papers    int
}

// Build expands every paper of c into records. Authors are de-duplicated per
// paper with set semantics, keeping first-seen order. Each record's co-authors
// are the literals of the other distinct authors on the paper.
func Build(c Corpus) (*Set, error) {
	if c == nil {
		return nil, &InvalidCorpusError{Paper: -1, Reason: "corpus is nil"}
	}

	papers := c.Papers()
	s := &Set{
		byKey:     make(map[string]*types.Record),
		byLiteral: make(map[string][]*types.Record),
		papers:    len(papers),
	}

	for i, paper := range papers {
		if paper.WOSID == "" {
			return nil, &InvalidCorpusError{Paper: i, Reason: "missing wosid"}
		}

		authors := distinctAuthors(paper.AuthorsFull)
		for j, author := range authors {
			if author.Literal() == "" {
				return nil, &InvalidCorpusError{Paper: i, Reason: fmt.Sprintf("author %d has no name", j)}
			}

			coAuthors := make([]string, 0, len(authors)-1)
			for k, other := range authors {
				if k != j {
					coAuthors = append(coAuthors, other.Literal())
				}
			}

			rec := newRecord(paper, author, coAuthors)
			if _, dup := s.byKey[rec.Key]; dup {
				return nil, &InvalidCorpusError{Paper: i, Reason: fmt.Sprintf("duplicate record key %q", rec.Key)}
			}
			s.add(rec)
		}
	}

	s.literals = make([]string, 0, len(s.byLiteral))
	for lit := range s.byLiteral {
		s.literals = append(s.literals, lit)
	}
	sort.Strings(s.literals)

	// Clusters are labeled by literals and record keys alike, so the two
	// namespaces must not overlap.
	for _, lit := range s.literals {
		if _, clash := s.byKey[lit]; clash {
			return nil, &InvalidCorpusError{Paper: -1, Reason: fmt.Sprintf("record key %q is also an author literal", lit)}
		}
	}
	return s, nil
}

func newRecord(paper types.Paper, author types.AuthorName, coAuthors []string) *types.Record {
	return &types.Record{
		Key:             types.RecordKey(author.Last, author.First, paper.WOSID),
		PaperID:         paper.WOSID,
		Date:            paper.Date,
		Title:           paper.Title,
		Journal:         paper.Journal,
		Publisher:       paper.Publisher,
		Subjects:        paper.Subject,
		Classifications: paper.WC,
		LastName:        author.Last,
		FirstName:       author.First,
		Emails:          paper.EmailAddress,
		Keywords:        paper.AuthorKeywords,
		InstituteRaw:    paper.AuthorAddress,
		Institute:       institute.Resolve(paper.AuthorAddress, author.Last, author.First),
		Literal:         author.Literal(),
		CoAuthors:       coAuthors,
	}
}

func distinctAuthors(authors []types.AuthorName) []types.AuthorName {
	seen := make(map[types.AuthorName]bool, len(authors))
	out := make([]types.AuthorName, 0, len(authors))
	for _, a := range authors {
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

func (s *Set) add(rec *types.Record) {
	s.records = append(s.records, rec)
	s.byKey[rec.Key] = rec
	s.byLiteral[rec.Literal] = append(s.byLiteral[rec.Literal], rec)
}

// Len returns the number of records.
func (s *Set) Len() int {
	return len(s.records)
}

// Papers returns the number of papers the set was built from.
func (s *Set) Papers() int {
	return s.papers
}

// All returns the records in ingestion order. Callers must not modify them.
func (s *Set) All() []*types.Record {
	return s.records
}

// Get returns the record with the given key.
func (s *Set) Get(key string) (*types.Record, bool) {
	r, ok := s.byKey[key]
	return r, ok
}

// ByLiteral returns the records whose author literal equals literal, in
// ingestion order.
func (s *Set) ByLiteral(literal string) []*types.Record {
	return s.byLiteral[literal]
}

// Literals returns the sorted distinct author literals.
func (s *Set) Literals() []string {
	return append([]string(nil), s.literals...)
}

// Keys returns every record key in ingestion order.
func (s *Set) Keys() []string {
	keys := make([]string, len(s.records))
	for i, r := range s.records {
		keys[i] = r.Key
	}
	return keys
}
