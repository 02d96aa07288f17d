// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package institute attributes a paper's raw author-address field to one of
// its authors.
//
// Web of Science address fields come in three shapes:
//
//	"Univ Kansas, Med Ctr, Kansas City, KS 66160 USA."
//	["MARINE BIOL LAB,WOODS HOLE,MA.", "UNIV MASSACHUSETTS,AMHERST,MA."]
//	["[Telfer, Evelyn E.] Univ Edinburgh, ...", "[Albertini, David F.] Univ Kansas, ..."]
//
// A plain string is taken as the author's institute. A list without author
// markers cannot be attributed. A marked list resolves to the first entry
// whose bracketed name shares a token with the author's name.
package institute

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/pdiddy/authorid/pkg/types"
)

var (
	wordPattern   = regexp.MustCompile(`\w+`)
	markerPattern = regexp.MustCompile(`^\s*\[(.*?)\](.*)$`)
)

// Resolve returns the institute of the author (last, first) on a paper whose
// address field is f, or types.Unresolved.
func Resolve(f types.InstituteField, last, first string) types.ResolvedInstitute {
	switch f.Shape {
	case types.InstituteText:
		text := strings.TrimSpace(f.Text)
		if text == "" {
			return types.Unresolved
		}
		if markerPattern.MatchString(text) {
			return resolveMarked([]string{text}, last, first)
		}
		return types.ResolvedInstitute{Name: text, OK: true}
	case types.InstituteList:
		return resolveMarked(f.Entries, last, first)
	default:
		return types.Unresolved
	}
}

// resolveMarked scans entries of the form "[Last, First] institute". Entries
// without a marker are skipped, so an unmarked list never resolves.
func resolveMarked(entries []string, last, first string) types.ResolvedInstitute {
	author := tokenSet(last + " " + first)
	if len(author) == 0 {
		return types.Unresolved
	}
	for _, entry := range entries {
		m := markerPattern.FindStringSubmatch(entry)
		if m == nil {
			continue
		}
		if !intersects(tokenSet(m[1]), author) {
			continue
		}
		name := strings.TrimSpace(m[2])
		if name == "" {
			continue
		}
		return types.ResolvedInstitute{Name: name, OK: true}
	}
	return types.Unresolved
}

// tokenSet returns the case-folded word tokens of s.
func tokenSet(s string) map[string]bool {
	fold := cases.Fold()
	words := wordPattern.FindAllString(s, -1)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[fold.String(w)] = true
	}
	return set
}

func intersects(a, b map[string]bool) bool {
	for t := range a {
		if b[t] {
			return true
		}
	}
	return false
}
