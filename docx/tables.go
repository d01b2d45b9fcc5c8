package docx

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/dolphindoc/docgrid/model"
)

// maxGridSpan bounds w:gridSpan and w:gridBefore values from untrusted files.
const maxGridSpan = 1000

// pendingCell is a cell being laid out; vertical merges grow its height.
type pendingCell struct {
	rect model.Rect
	src  tableCellXML
}

// tableParser converts w:tbl elements into model tables. Nested tables are
// built after the table that contains them.
type tableParser struct {
	links    map[string]string
	fillGaps bool
	count    int
}

// parse returns the table for tbl followed by the tables nested in its cells.
func (tp *tableParser) parse(tbl tableXML) ([]*model.Table, error) {
	tp.count++
	index := tp.count

	cells, rows, cols := layoutTable(tbl)

	var out []*model.Table
	var nested []tableXML
	if rows > 0 && cols > 0 {
		table, err := model.NewTable(rows, cols)
		if err != nil {
			return nil, fmt.Errorf("docx: table %d: %w", index, err)
		}
		for _, pc := range cells {
			cell := model.NewCell(pc.rect)
			for _, p := range pc.src.Paragraphs {
				for _, para := range convertParagraph(p, tp.links) {
					if err := cell.AppendParagraph(para); err != nil {
						return nil, fmt.Errorf("docx: table %d: %w", index, err)
					}
				}
			}
			if err := table.AddCell(cell); err != nil {
				return nil, fmt.Errorf("docx: table %d: %w", index, err)
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

// layoutTable places every w:tc on the table grid. w:gridBefore shifts the
// first cell of a row, w:gridSpan widens a cell and a continuing w:vMerge
// extends the cell directly above when it starts at the same grid column
// with the same width.
func layoutTable(tbl tableXML) (cells []*pendingCell, rows, cols int) {
	rows = len(tbl.Rows)
	cols = len(tbl.Grid.Cols)

	// Cells that may still be extended downwards, by grid column.
	open := make(map[int]*pendingCell)

	for y, row := range tbl.Rows {
		x := gridValue(row.Properties.GridBefore.Val, 0)
		for _, tc := range row.Cells {
			span := gridValue(tc.Properties.GridSpan.Val, 1)
			vm := tc.Properties.VMerge

			if above, ok := open[x]; ok && vm.continues() &&
				above.rect.Bottom() == y-1 && above.rect.Width == span {
				above.rect.Height++
			} else {
				pc := &pendingCell{rect: model.NewRect(x, y, span, 1), src: tc}
				cells = append(cells, pc)
				if vm != nil {
					open[x] = pc
				} else {
					delete(open, x)
				}
			}

			x += span
		}
		cols = max(cols, x)
	}
	return cells, rows, cols
}

// gridValue parses a w:gridSpan or w:gridBefore value, returning def when
// the value is missing or malformed. Results are clamped to maxGridSpan.
func gridValue(s string, def int) int {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v < int64(def) {
		return def
	}
	n, err := safecast.Conv[int](min(v, maxGridSpan))
	if err != nil {
		return def
	}
	return n
}
