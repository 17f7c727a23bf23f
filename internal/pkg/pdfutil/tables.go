package pdfutil

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// cellSeparator matches a tab or a run of two or more spaces between cells.
var cellSeparator = regexp.MustCompile(`\t|\s{2,}`)

// minTableRows is the minimum number of consecutive multi-cell lines
// treated as a table rather than oddly spaced prose.
const minTableRows = 2

// splitTables separates page text into prose and table segments.
// Consecutive lines that split into two or more cells are collected into
// one table segment and re-rendered with aligned columns.
func splitTables(text string, page int) []Segment {
	lines := strings.Split(text, "\n")

	var segments []Segment
	var prose []string
	var rows [][]string

	flushProse := func() {
		if len(prose) == 0 {
			return
		}
		segments = append(segments, Segment{
			Content: strings.Join(prose, "\n"),
			Page:    page,
		})
		prose = nil
	}

	flushRows := func() {
		if len(rows) == 0 {
			return
		}
		if len(rows) < minTableRows {
			// Too few rows to be a table, treat as prose
			for _, row := range rows {
				prose = append(prose, strings.Join(row, " "))
			}
			rows = nil
			return
		}
		flushProse()
		segments = append(segments, Segment{
			Content: renderTable(rows),
			Table:   true,
			Page:    page,
		})
		rows = nil
	}

	for _, line := range lines {
		cells := splitCells(line)
		if len(cells) >= 2 {
			rows = append(rows, cells)
			continue
		}
		flushRows()
		prose = append(prose, line)
	}
	flushRows()
	flushProse()

	return segments
}

// splitCells splits a line into cells. Single-cell lines are returned as-is.
func splitCells(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	parts := cellSeparator.Split(trimmed, -1)
	cells := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			cells = append(cells, p)
		}
	}
	return cells
}

// renderTable renders rows with space-padded columns, one row per line.
// A dash separator follows the first row when the table has more rows.
func renderTable(rows [][]string) string {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	widths := make([]int, cols)
	for _, row := range rows {
		for i, cell := range row {
			if l := utf8.RuneCountInString(cell); l > widths[i] {
				widths[i] = l
			}
		}
	}

	var b strings.Builder
	for r, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)))
			}
		}
		b.WriteString("\n")

		if r == 0 && len(rows) > 1 {
			total := 0
			for i, w := range widths {
				if i > 0 {
					total += 2
				}
				total += w
			}
			b.WriteString(strings.Repeat("-", total))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
