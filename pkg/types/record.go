// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ResolvedInstitute is the institute attributed to one author on one paper.
// OK is false when the raw field cannot be attributed to the author.
type ResolvedInstitute struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	OK   bool   `json:"ok" yaml:"ok"`
}

// Unresolved is the sentinel for an institute that could not be attributed.
var Unresolved = ResolvedInstitute{}

// Record is one (paper, author) pairing. Records are built once from the
// corpus and treated as read-only by every later stage.
type Record struct {
	// Key is LastName + FirstName + PaperID, unique within a corpus snapshot.
	Key string `json:"key" yaml:"key"`

	PaperID   string `json:"paper_id" yaml:"paper_id"`
	Date      string `json:"date,omitempty" yaml:"date,omitempty"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Journal   string `json:"journal,omitempty" yaml:"journal,omitempty"`
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	Subjects        []string `json:"subjects,omitempty" yaml:"subjects,omitempty"`
	Classifications []string `json:"classifications,omitempty" yaml:"classifications,omitempty"`

	LastName  string `json:"last_name" yaml:"last_name"`
	FirstName string `json:"first_name" yaml:"first_name"`

	Emails   Emails   `json:"-" yaml:"emails,omitempty"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// InstituteRaw is the paper's author-address field as ingested.
	InstituteRaw InstituteField `json:"-" yaml:"institute_raw,omitempty"`

	// Institute is InstituteRaw resolved for this record's author.
	Institute ResolvedInstitute `json:"institute" yaml:"institute"`

	// Literal is LastName + FirstName.
	Literal string `json:"literal" yaml:"literal"`

	// CoAuthors holds the literals of the other authors on the paper.
	CoAuthors []string `json:"co_authors,omitempty" yaml:"co_authors,omitempty"`
}

// RecordKey builds the composite record key.
func RecordKey(last, first, paperID string) string {
	return last + first + paperID
}
