package htmldoc

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/net/html"

	"github.com/dolphindoc/docgrid/model"
)

// placement is one <td>/<th> laid out on the slot grid.
type placement struct {
	node *html.Node
	rect model.Rect
}

// slotGrid tracks which row/column slots are taken while laying out a table.
type slotGrid struct {
	rows  int
	taken []map[int]bool
}

func newSlotGrid(rows int) *slotGrid {
	g := &slotGrid{rows: rows, taken: make([]map[int]bool, rows)}
	for i := range g.taken {
		g.taken[i] = make(map[int]bool)
	}
	return g
}

func (g *slotGrid) isTaken(row, col int) bool {
	return row < g.rows && g.taken[row][col]
}

func (g *slotGrid) mark(r model.Rect) {
	for y := r.Top; y <= r.Bottom(); y++ {
		for x := r.Left; x <= r.Right(); x++ {
			g.taken[y][x] = true
		}
	}
}

// free shrinks r to the largest free rectangle anchored at its top-left
// slot. The anchor itself is always free because the column cursor skips
// taken slots.
func (g *slotGrid) free(r model.Rect) model.Rect {
	width := 0
	for width < r.Width && !g.isTaken(r.Top, r.Left+width) {
		width++
	}

	height := 1
	for height < r.Height {
		row := r.Top + height
		clear := true
		for x := r.Left; x < r.Left+width; x++ {
			if g.isTaken(row, x) {
				clear = false
				break
			}
		}
		if !clear {
			break
		}
		height++
	}
	return model.NewRect(r.Left, r.Top, width, height)
}

// layoutTable assigns every cell of a <table> a rectangle on the slot grid.
// Lenient layouts clip overlapping spans and describe each clip in the
// returned warnings; strict layouts keep the requested spans so that
// model.Table.AddCell reports the overlap.
func layoutTable(tableNode *html.Node, strict bool) (placements []placement, rows, cols int, warnings []string) {
	trs := collectRows(tableNode)
	rows = len(trs)
	grid := newSlotGrid(rows)

	for y, tr := range trs {
		x := 0
		for c := tr.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
				continue
			}
			for grid.isTaken(y, x) {
				x++
			}

			colSpan := spanAttr(c, "colspan", 1, maxColSpan)
			rowSpan := spanAttr(c, "rowspan", 0, maxRowSpan)
			if rowSpan == 0 || y+rowSpan > rows {
				rowSpan = rows - y
			}

			rect := model.NewRect(x, y, colSpan, rowSpan)
			if fitted := grid.free(rect); fitted != rect {
				if !strict {
					warnings = append(warnings, fmt.Sprintf(
						"cell at row %d, col %d spans %dx%d over occupied slots; clipped to %dx%d",
						y, x, rowSpan, colSpan, fitted.Height, fitted.Width))
					rect = fitted
				}
				grid.mark(fitted)
			} else {
				grid.mark(rect)
			}

			placements = append(placements, placement{node: c, rect: rect})
			cols = max(cols, rect.Left+rect.Width)
			x += rect.Width
		}
	}
	return placements, rows, cols, warnings
}

// collectRows returns the <tr> elements of a table in document order,
// looking through thead, tbody and tfoot but not into nested tables.
func collectRows(tableNode *html.Node) []*html.Node {
	var rows []*html.Node
	for c := tableNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "thead", "tbody", "tfoot":
			for tr := c.FirstChild; tr != nil; tr = tr.NextSibling {
				if tr.Type == html.ElementNode && tr.Data == "tr" {
					rows = append(rows, tr)
				}
			}
		case "tr":
			rows = append(rows, c)
		}
	}
	return rows
}

// spanAttr parses a colspan/rowspan attribute. Missing, malformed or
// negative values give 1; the result is clamped to [lo, hi].
func spanAttr(n *html.Node, key string, lo, hi int) int {
	raw := strings.TrimSpace(getAttr(n, key))
	if raw == "" {
		return 1
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 1
	}
	v = min(max(v, int64(lo)), int64(hi))
	span, err := safecast.Conv[int](v)
	if err != nil {
		return 1
	}
	return span
}

// caption returns the text of the table's <caption>, if any.
func caption(tableNode *html.Node) string {
	for c := tableNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "caption" {
			return getTextContent(c)
		}
	}
	return ""
}

// tableBuilder converts <table> elements into model tables. Nested tables
// are queued and built after the table that contains them.
type tableBuilder struct {
	opts     Options
	filter   *boilerplateFilter
	count    int
	warnings []string
}

// build returns the table for n followed by the tables nested inside it.
// Tables without rows or columns are dropped, but their nested tables are
// still returned.
func (b *tableBuilder) build(n *html.Node) ([]*model.Table, error) {
	b.count++
	index := b.count

	placements, rows, cols, warnings := layoutTable(n, b.opts.Strict)
	for _, w := range warnings {
		b.warnings = append(b.warnings, fmt.Sprintf("table %d: %s", index, w))
	}

	var nested []*html.Node
	var table *model.Table
	if rows > 0 && cols > 0 {
		var err error
		table, err = model.NewTable(rows, cols)
		if err != nil {
			return nil, fmt.Errorf("htmldoc: table %d: %w", index, err)
		}
	}

	for _, pl := range placements {
		cell := model.NewCell(pl.rect)
		collector := &textCollector{
			filter: b.filter,
			emit:   cell.AppendParagraph,
			onTable: func(child *html.Node) error {
				nested = append(nested, child)
				return nil
			},
		}
		if err := collector.walkChildren(pl.node, textStyle{}); err != nil {
			return nil, fmt.Errorf("htmldoc: table %d: %w", index, err)
		}
		if err := collector.flush(); err != nil {
			return nil, fmt.Errorf("htmldoc: table %d: %w", index, err)
		}
		if table == nil {
			continue
		}
		if err := table.AddCell(cell); err != nil {
			return nil, fmt.Errorf("htmldoc: table %d: %w", index, err)
		}
	}

	var out []*model.Table
	if table != nil {
		if b.opts.FillGaps {
			table.FillGaps()
		}
		out = append(out, table)
	}

	for _, child := range nested {
		tables, err := b.build(child)
		if err != nil {
			return nil, err
		}
		out = append(out, tables...)
	}
	return out, nil
}
