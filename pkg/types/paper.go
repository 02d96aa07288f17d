// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

// AuthorName is one (last, first) entry of a paper's full author list.
type AuthorName struct {
	Last  string `json:"last" yaml:"last"`
	First string `json:"first" yaml:"first"`
}

// Literal returns the author literal used as the blocking and grouping key.
func (a AuthorName) Literal() string {
	return a.Last + a.First
}

// UnmarshalYAML accepts either a [last, first] pair or a {last, first} mapping.
func (a *AuthorName) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var pair []string
		if err := value.Decode(&pair); err != nil {
			return fmt.Errorf("decoding author pair: %w", err)
		}
		if len(pair) == 0 || len(pair) > 2 {
			return fmt.Errorf("line %d: author pair must have 1 or 2 elements, got %d", value.Line, len(pair))
		}
		a.Last = pair[0]
		a.First = ""
		if len(pair) == 2 {
			a.First = pair[1]
		}
		return nil
	case yaml.MappingNode:
		type plain AuthorName
		var p plain
		if err := value.Decode(&p); err != nil {
			return fmt.Errorf("decoding author mapping: %w", err)
		}
		*a = AuthorName(p)
		return nil
	default:
		return fmt.Errorf("line %d: author must be a sequence or mapping", value.Line)
	}
}

// MarshalYAML writes the author as a flow-style [last, first] pair.
func (a AuthorName) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	n.Content = []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: a.Last},
		{Kind: yaml.ScalarNode, Value: a.First},
	}
	return n, nil
}

// Emails holds a paper's email field. Web of Science records carry either a
// single address or a list of addresses; the two forms score differently, so
// the shape is kept.
type Emails struct {
	values []string
	multi  bool
}

// SingleEmail returns a scalar email field. An empty address yields an empty field.
func SingleEmail(addr string) Emails {
	if addr == "" {
		return Emails{}
	}
	return Emails{values: []string{addr}}
}

// EmailList returns a multi-valued email field.
func EmailList(addrs ...string) Emails {
	return Emails{values: append([]string(nil), addrs...), multi: true}
}

// IsEmpty reports whether no address is present.
func (e Emails) IsEmpty() bool {
	return len(e.values) == 0
}

// IsMulti reports whether the field came in list form.
func (e Emails) IsMulti() bool {
	return e.multi
}

// Values returns a copy of the addresses.
func (e Emails) Values() []string {
	return append([]string(nil), e.values...)
}

// IsZero lets the YAML encoder omit an empty field.
func (e Emails) IsZero() bool {
	return e.IsEmpty()
}

// Scalar returns the single address of a scalar field, or "" for a list.
func (e Emails) Scalar() string {
	if e.multi || len(e.values) == 0 {
		return ""
	}
	return e.values[0]
}

// UnmarshalYAML decodes a scalar or a sequence of addresses.
func (e *Emails) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*e = Emails{}
			return nil
		}
		*e = SingleEmail(strings.TrimSpace(value.Value))
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return fmt.Errorf("decoding email list: %w", err)
		}
		addrs := list[:0]
		for _, a := range list {
			if a = strings.TrimSpace(a); a != "" {
				addrs = append(addrs, a)
			}
		}
		*e = EmailList(addrs...)
		return nil
	default:
		return fmt.Errorf("line %d: email address must be a string or a list", value.Line)
	}
}

// MarshalYAML writes the field back in its original shape.
func (e Emails) MarshalYAML() (any, error) {
	if e.multi {
		return e.values, nil
	}
	return e.Scalar(), nil
}

// InstituteShape tags the raw shape of an author-address field.
type InstituteShape int

const (
	InstituteNone InstituteShape = iota
	InstituteText
	InstituteList
)

// InstituteField is the raw author-address field of a paper: absent, a
// plain string, or a list of address entries which may carry "[Last, First]"
// author markers.
type InstituteField struct {
	Shape   InstituteShape
	Text    string
	Entries []string
}

// InstituteFromText returns a plain-string institute field.
func InstituteFromText(s string) InstituteField {
	if s == "" {
		return InstituteField{}
	}
	return InstituteField{Shape: InstituteText, Text: s}
}

// InstituteFromList returns a list-shaped institute field.
func InstituteFromList(entries ...string) InstituteField {
	return InstituteField{Shape: InstituteList, Entries: append([]string(nil), entries...)}
}

// IsZero reports whether the field is absent.
func (f InstituteField) IsZero() bool {
	return f.Shape == InstituteNone
}

// UnmarshalYAML decodes a scalar or a sequence of address entries.
func (f *InstituteField) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*f = InstituteField{}
			return nil
		}
		*f = InstituteFromText(value.Value)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return fmt.Errorf("decoding address list: %w", err)
		}
		*f = InstituteFromList(list...)
		return nil
	default:
		return fmt.Errorf("line %d: author address must be a string or a list", value.Line)
	}
}

// MarshalYAML writes the field back in its original shape.
func (f InstituteField) MarshalYAML() (any, error) {
	switch f.Shape {
	case InstituteText:
		return f.Text, nil
	case InstituteList:
		return f.Entries, nil
	default:
		return nil, nil
	}
}

// Paper is one bibliographic record of the source corpus. Field names follow
// the Web of Science accessors; everything except WOSID and AuthorsFull is
// optional.
type Paper struct {
	// WOSID is the Web of Science accession number (e.g. "WOS:000076265300004").
	WOSID string `json:"wosid" yaml:"wosid"`

	Date    string `json:"date,omitempty" yaml:"date,omitempty"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// EmailAddress is a single address or a list.
	EmailAddress Emails `json:"-" yaml:"email_address,omitempty"`

	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	// Subject lists subject categories.
	Subject []string `json:"subject,omitempty" yaml:"subject,omitempty"`

	// WC lists Web of Science classification codes.
	WC []string `json:"wc,omitempty" yaml:"wc,omitempty"`

	AuthorKeywords []string `json:"author_keywords,omitempty" yaml:"author_keywords,omitempty"`

	// AuthorAddress is the raw institute field (string or list).
	AuthorAddress InstituteField `json:"-" yaml:"author_address,omitempty"`

	// AuthorsFull lists (last, first) author names in source order.
	AuthorsFull []AuthorName `json:"authors_full" yaml:"authors_full"`
}
