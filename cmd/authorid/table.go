// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// textTable collects rows for rounded-style terminal output. Columns listed
// in numeric are right aligned.
type textTable struct {
	title   string
	headers []string
	numeric map[int]bool
	rows    [][]string
	footer  []string
}

func newTextTable(title string, headers ...string) *textTable {
	return &textTable{title: title, headers: headers, numeric: map[int]bool{}}
}

// alignRight marks columns (zero-based) as numeric.
func (t *textTable) alignRight(cols ...int) *textTable {
	for _, c := range cols {
		t.numeric[c] = true
	}
	return t
}

func (t *textTable) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *textTable) render() string {
	columns := len(t.headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if t.title != "" {
		tw.SetTitle(t.title)
	}
	tw.AppendHeader(rowOf(t.headers, columns))
	for _, r := range t.rows {
		tw.AppendRow(rowOf(r, columns))
	}
	if len(t.footer) > 0 {
		tw.AppendFooter(rowOf(t.footer, columns))
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if t.numeric[i] {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			AlignFooter: align,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func (t *textTable) write(w io.Writer) error {
	_, err := fmt.Fprintln(w, t.render())
	return err
}

func rowOf(cells []string, columns int) table.Row {
	r := make(table.Row, columns)
	for i := range r {
		if i < len(cells) {
			r[i] = cells[i]
		} else {
			r[i] = ""
		}
	}
	return r
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
