// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/authorid/pkg/types"
)

// ParseWOS reads a Web of Science field-tagged plain-text export. Each
// record runs from PT to ER; a line starting with three spaces continues the
// previous tag. Full author names (AF) are preferred over abbreviated ones
// (AU).
func ParseWOS(r io.Reader) ([]types.Paper, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		papers []types.Paper
		fields map[string][]string
		tag    string
		line   int
	)
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if line == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		if strings.HasPrefix(text, "   ") {
			if fields == nil || tag == "" {
				return nil, fmt.Errorf("line %d: continuation outside a record", line)
			}
			fields[tag] = append(fields[tag], strings.TrimSpace(text))
			continue
		}

		tag = text
		value := ""
		if len(text) > 2 {
			tag, value = text[:2], strings.TrimSpace(text[2:])
		}

		switch tag {
		case "FN", "VR", "EF":
			tag = ""
		case "PT":
			fields = map[string][]string{}
		case "ER":
			if fields == nil {
				return nil, fmt.Errorf("line %d: ER without PT", line)
			}
			papers = append(papers, wosPaper(fields))
			fields, tag = nil, ""
		default:
			if fields == nil {
				return nil, fmt.Errorf("line %d: tag %s outside a record", line, tag)
			}
			fields[tag] = append(fields[tag], value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	if fields != nil {
		return nil, fmt.Errorf("line %d: record not terminated by ER", line)
	}
	return papers, nil
}

func wosPaper(f map[string][]string) types.Paper {
	p := types.Paper{
		WOSID:          first(f["UT"]),
		Date:           first(f["PY"]),
		Title:          strings.Join(f["TI"], " "),
		Journal:        strings.Join(f["SO"], " "),
		Publisher:      strings.Join(f["PU"], " "),
		Subject:        splitList(f["SC"]),
		WC:             splitList(f["WC"]),
		AuthorKeywords: splitList(f["DE"]),
	}

	switch emails := splitList(f["EM"]); len(emails) {
	case 0:
	case 1:
		p.EmailAddress = types.SingleEmail(emails[0])
	default:
		p.EmailAddress = types.EmailList(emails...)
	}

	switch addrs := f["C1"]; len(addrs) {
	case 0:
	case 1:
		p.AuthorAddress = types.InstituteFromText(addrs[0])
	default:
		p.AuthorAddress = types.InstituteFromList(addrs...)
	}

	names := f["AF"]
	if len(names) == 0 {
		names = f["AU"]
	}
	for _, n := range names {
		p.AuthorsFull = append(p.AuthorsFull, parseName(n))
	}
	return p
}

// parseName turns "Albertini, David F." into (ALBERTINI, DAVID F).
func parseName(s string) types.AuthorName {
	clean := func(x string) string {
		return strings.Join(strings.Fields(strings.ToUpper(strings.ReplaceAll(x, ".", " "))), " ")
	}
	last, rest, _ := strings.Cut(s, ",")
	return types.AuthorName{Last: clean(last), First: clean(rest)}
}

// splitList joins continuation lines and splits on semicolons.
func splitList(lines []string) []string {
	var out []string
	for _, part := range strings.Split(strings.Join(lines, " "), ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func first(xs []string) string {
	if len(xs) == 0 {
		return ""
	}
	return xs[0]
}
