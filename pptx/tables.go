package pptx

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/dolphindoc/docgrid/model"
)

// maxSpan bounds gridSpan and rowSpan.
const maxSpan = 1000

// tableParser converts a:tbl elements into model tables.
type tableParser struct {
	fillGaps bool
	count    int
}

// parse returns the table for tbl, or nil when it has no rows or columns.
// links resolves hyperlink relationship IDs of the table's slide.
func (tp *tableParser) parse(tbl *tblXML, links map[string]string) (*model.Table, error) {
	tp.count++
	index := tp.count

	rects, cells, rows, cols := layoutTable(tbl)
	if rows == 0 || cols == 0 {
		return nil, nil
	}

	table, err := model.NewTable(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("pptx: table %d: %w", index, err)
	}
	for i, rect := range rects {
		cell := model.NewCell(rect)
		if body := cells[i].TxBody; body != nil {
			for _, p := range body.P {
				for _, para := range convertParagraph(p, links) {
					if err := cell.AppendParagraph(para); err != nil {
						return nil, fmt.Errorf("pptx: table %d: %w", index, err)
					}
				}
			}
		}
		if err := table.AddCell(cell); err != nil {
			return nil, fmt.Errorf("pptx: table %d: %w", index, err)
		}
	}
	if tp.fillGaps {
		table.FillGaps()
	}
	return table, nil
}

// layoutTable places every anchoring a:tc on the grid. Each a:tc takes one
// column slot; merged continuation slots produce no cell. Row spans that
// run past the last row are clipped.
func layoutTable(tbl *tblXML) (rects []model.Rect, cells []*tcXML, rows, cols int) {
	cols = len(tbl.TblGrid.GridCol)
	for y := range tbl.Tr {
		tr := &tbl.Tr[y]
		for x := range tr.Tc {
			tc := &tr.Tc[x]
			if isTrue(tc.HMerge) || isTrue(tc.VMerge) {
				continue
			}
			rect := model.NewRect(x, y, spanValue(tc.GridSpan), spanValue(tc.RowSpan))
			rects = append(rects, rect)
			cells = append(cells, tc)
			cols = max(cols, rect.Right()+1)
		}
		cols = max(cols, len(tr.Tc))
	}
	rows = len(tbl.Tr)

	for i := range rects {
		if rects[i].Bottom() >= rows {
			rects[i].Height = rows - rects[i].Top
		}
	}
	return rects, cells, rows, cols
}

// isTrue parses an xsd:boolean attribute; missing or malformed values are
// false.
func isTrue(s string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && v
}

// spanValue parses a span attribute, returning 1 when it is missing or
// malformed. Results are clamped to maxSpan.
func spanValue(s string) int {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v < 1 {
		return 1
	}
	n, err := safecast.Conv[int](min(v, maxSpan))
	if err != nil {
		return 1
	}
	return n
}

// convertParagraph turns an a:p into paragraphs, splitting at line breaks.
// Paragraphs without text are dropped.
func convertParagraph(p pXML, links map[string]string) []*model.TextParagraph {
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
		if run.T == "" {
			continue
		}
		seg := model.TextSegment{Text: run.T}
		if rp := run.RPr; rp != nil {
			seg.Bold = isTrue(rp.B)
			seg.Italic = isTrue(rp.I)
			if rp.HlinkClick != nil {
				seg.Link = links[rp.HlinkClick.RID]
			}
		}
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
		segs[0].Text = strings.TrimLeft(segs[0].Text, " \t")
		if segs[0].Text != "" {
			break
		}
		segs = segs[1:]
	}
	for len(segs) > 0 {
		last := len(segs) - 1
		segs[last].Text = strings.TrimRight(segs[last].Text, " \t")
		if segs[last].Text != "" {
			break
		}
		segs = segs[:last]
	}
	return segs
}
