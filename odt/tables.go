package odt

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/dolphindoc/docgrid/model"
)

const (
	// maxSpan bounds number-columns-spanned and number-rows-spanned.
	maxSpan = 1000
	// maxRepeat bounds number-*-repeated. Writers use large repeat counts
	// for trailing empty cells and rows.
	maxRepeat = 1024
)

// pendingCell is a table-cell placed on the grid.
type pendingCell struct {
	rect model.Rect
	src  *tableCellXML
}

// tableParser converts table:table elements into model tables. Nested
// tables are built after the table that contains them.
type tableParser struct {
	styles   *styleResolver
	fillGaps bool
	count    int
}

// parse returns the table for tbl followed by the tables nested in its cells.
func (tp *tableParser) parse(tbl tableXML) ([]*model.Table, error) {
	tp.count++
	index := tp.count

	cells, rows, cols, err := layoutTable(tbl)
	if err != nil {
		return nil, fmt.Errorf("odt: table %d: %w", index, err)
	}

	var out []*model.Table
	var nested []tableXML
	if rows > 0 && cols > 0 {
		table, err := model.NewTable(rows, cols)
		if err != nil {
			return nil, fmt.Errorf("odt: table %d: %w", index, err)
		}
		for _, pc := range cells {
			cell := model.NewCell(pc.rect)
			for _, p := range pc.src.Paragraphs {
				for _, para := range convertParagraph(p, tp.styles) {
					if err := cell.AppendParagraph(para); err != nil {
						return nil, fmt.Errorf("odt: table %d: %w", index, err)
					}
				}
			}
			if err := table.AddCell(cell); err != nil {
				return nil, fmt.Errorf("odt: table %d: %w", index, err)
			}
			nested = append(nested, pc.src.Tables...)
		}
		if tp.fillGaps {
			table.FillGaps()
		}
		out = append(out, table)
	}

	for _, child := range nested {
		tables, err := tp.parse(child)
		if err != nil {
			return nil, err
		}
		out = append(out, tables...)
	}
	return out, nil
}

// layoutTable places every table-cell on the grid. Each table-cell and
// covered-table-cell takes one column slot per repetition; covered slots
// produce no cell since the spanning cell already covers them. Spans that
// run past the last row are clipped. Tables whose repetitions expand to
// more than model.MaxBoardArea slots fail with model.ErrTableTooLarge
// before any cell is placed.
func layoutTable(tbl tableXML) (cells []*pendingCell, rows, cols int, err error) {
	if n := slotCount(tbl); n > model.MaxBoardArea {
		return nil, 0, 0, fmt.Errorf("%w: %d cell slots", model.ErrTableTooLarge, n)
	}

	cols = tbl.Columns
	y := 0
	for ri := range tbl.Rows {
		row := &tbl.Rows[ri]
		for rr := 0; rr < row.Repeated; rr++ {
			x := 0
			for ci := range row.Cells {
				tc := &row.Cells[ci]
				for cr := 0; cr < tc.Repeated; cr++ {
					if !tc.Covered {
						rect := model.NewRect(x, y, spanValue(tc.ColSpan), spanValue(tc.RowSpan))
						cells = append(cells, &pendingCell{rect: rect, src: tc})
						cols = max(cols, rect.Right()+1)
					}
					x++
				}
			}
			cols = max(cols, x)
			y++
		}
	}
	rows = y

	for _, pc := range cells {
		if pc.rect.Bottom() >= rows {
			pc.rect.Height = rows - pc.rect.Top
		}
	}
	return cells, rows, cols, nil
}

// slotCount returns the number of column slots the rows of tbl expand to,
// stopping early once the count passes model.MaxBoardArea.
func slotCount(tbl tableXML) int {
	total := 0
	for _, row := range tbl.Rows {
		perRow := 0
		for _, tc := range row.Cells {
			perRow += tc.Repeated
		}
		total += row.Repeated * perRow
		if total > model.MaxBoardArea {
			break
		}
	}
	return total
}

// spanValue parses a span attribute, returning 1 when it is missing or
// malformed. Results are clamped to maxSpan.
func spanValue(s string) int {
	return boundedValue(s, maxSpan)
}

// repeatValue parses a repeat attribute, returning 1 when it is missing or
// malformed. Results are clamped to maxRepeat.
func repeatValue(s string) int {
	return boundedValue(s, maxRepeat)
}

func boundedValue(s string, limit int64) int {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v < 1 {
		return 1
	}
	n, err := safecast.Conv[int](min(v, limit))
	if err != nil {
		return 1
	}
	return n
}

// convertParagraph turns a text:p or text:h into paragraphs, splitting at
// line breaks. Paragraphs without text are dropped.
func convertParagraph(p paragraphXML, styles *styleResolver) []*model.TextParagraph {
	base := styles.resolve(p.StyleName)

	var out []*model.TextParagraph
	var segs []model.TextSegment

	flush := func() {
		segs = trimSegments(segs)
		if len(segs) > 0 {
			para := model.NewTextParagraph("")
			for _, seg := range segs {
				para.AppendSegment(seg)
			}
			out = append(out, para)
		}
		segs = nil
	}

	for _, run := range p.Runs {
		if run.Break {
			flush()
			continue
		}
		if run.Text == "" {
			continue
		}
		e := styles.resolve(run.StyleName).over(base)
		seg := model.TextSegment{Text: run.Text, Bold: e.bold, Italic: e.italic, Link: run.Link}
		if n := len(segs); n > 0 && sameStyle(segs[n-1], seg) {
			segs[n-1].Text += seg.Text
			continue
		}
		segs = append(segs, seg)
	}
	flush()
	return out
}

func sameStyle(a, b model.TextSegment) bool {
	return a.Bold == b.Bold && a.Italic == b.Italic && a.Link == b.Link
}

// trimSegments strips leading and trailing white space of the line and
// drops segments left empty.
func trimSegments(segs []model.TextSegment) []model.TextSegment {
	for len(segs) > 0 {
		segs[0].Text = strings.TrimLeft(segs[0].Text, " ")
		if segs[0].Text != "" {
			break
		}
		segs = segs[1:]
	}
	for len(segs) > 0 {
		last := len(segs) - 1
		segs[last].Text = strings.TrimRight(segs[last].Text, " ")
		if segs[last].Text != "" {
			break
		}
		segs = segs[:last]
	}
	return segs
}
