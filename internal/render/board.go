// Package render draws tables as box-drawn boards for the terminal.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dolphindoc/docgrid/model"
)

// DefaultMaxCellWidth is the label width used when Options.MaxCellWidth is
// not positive.
const DefaultMaxCellWidth = 16

// HighlightStyle is the default style for Options.Highlight.
var HighlightStyle = lipgloss.NewStyle().Reverse(true).Bold(true)

// Options controls board rendering.
type Options struct {
	// MaxCellWidth caps the width of a grid column in display columns.
	MaxCellWidth int
	// Highlight, when set, is drawn with HighlightStyle.
	Highlight *model.Cell
	// HighlightStyle overrides the package HighlightStyle when non-nil.
	HighlightStyle *lipgloss.Style
}

// Board draws t with one box per cell. Borders inside merged cells are
// left out and unoccupied coordinates render as blank boxes. Each cell
// shows its first paragraph, truncated to fit.
func Board(t *model.Table, opts Options) string {
	if t.Rows() == 0 || t.Cols() == 0 {
		return ""
	}

	b := &board{table: t, opts: opts, widths: columnWidths(t, opts.MaxCellWidth)}
	style := HighlightStyle
	if opts.HighlightStyle != nil {
		style = *opts.HighlightStyle
	}
	b.style = style

	var sb strings.Builder
	for r := 0; r <= t.Rows(); r++ {
		b.borderLine(&sb, r)
		if r < t.Rows() {
			b.contentLine(&sb, r)
		}
	}
	return sb.String()
}

type board struct {
	table  *model.Table
	opts   Options
	widths []int
	style  lipgloss.Style
}

// Label returns the single-line label shown for c: its first paragraph
// with whitespace collapsed.
func Label(c *model.Cell) string {
	if c == nil {
		return ""
	}
	paras := c.Paragraphs()
	if len(paras) == 0 {
		return ""
	}
	return strings.Join(strings.Fields(paras[0].Text()), " ")
}

// columnWidths sizes each grid column to the widest label of the
// single-column cells anchored in it, between 1 and max.
func columnWidths(t *model.Table, maxWidth int) []int {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxCellWidth
	}
	widths := make([]int, t.Cols())
	for i := range widths {
		widths[i] = 1
	}
	for _, c := range t.Cells() {
		r := c.Bounds()
		if r.Width != 1 {
			continue
		}
		widths[r.Left] = max(widths[r.Left], min(runewidth.StringWidth(Label(c)), maxWidth))
	}
	return widths
}

// spanWidth is the inner width of a box covering columns [left, left+n).
func (b *board) spanWidth(left, n int) int {
	w := n - 1
	for c := left; c < left+n; c++ {
		w += b.widths[c]
	}
	return w
}

func sameCell(a, c *model.Cell) bool {
	return a != nil && a == c
}

// vertical reports whether content row r has a border at boundary col.
func (b *board) vertical(r, col int) bool {
	if col == 0 || col == b.table.Cols() {
		return true
	}
	return !sameCell(b.table.CellAt(r, col-1), b.table.CellAt(r, col))
}

// horizontal reports whether border row r has a border above column col.
func (b *board) horizontal(r, col int) bool {
	if r == 0 || r == b.table.Rows() {
		return true
	}
	return !sameCell(b.table.CellAt(r-1, col), b.table.CellAt(r, col))
}

func (b *board) borderLine(sb *strings.Builder, r int) {
	rows, cols := b.table.Rows(), b.table.Cols()
	for col := 0; col <= cols; col++ {
		up := r > 0 && b.vertical(r-1, col)
		down := r < rows && b.vertical(r, col)
		left := col > 0 && b.horizontal(r, col-1)
		right := col < cols && b.horizontal(r, col)
		sb.WriteRune(junction(up, down, left, right))

		if col == cols {
			break
		}
		fill := " "
		if right {
			fill = "─"
		}
		sb.WriteString(strings.Repeat(fill, b.widths[col]))
	}
	sb.WriteString("\n")
}

func (b *board) contentLine(sb *strings.Builder, r int) {
	cols := b.table.Cols()
	for col := 0; col < cols; {
		if b.vertical(r, col) {
			sb.WriteString("│")
		} else {
			sb.WriteString(" ")
		}

		c := b.table.CellAt(r, col)
		if c == nil {
			sb.WriteString(strings.Repeat(" ", b.widths[col]))
			col++
			continue
		}

		bounds := c.Bounds()
		span := bounds.Right() - col + 1
		width := b.spanWidth(col, span)
		text := ""
		if bounds.Top == r {
			text = runewidth.Truncate(Label(c), width, "…")
		}
		text = runewidth.FillRight(text, width)
		if b.opts.Highlight != nil && c == b.opts.Highlight {
			text = b.style.Render(text)
		}
		sb.WriteString(text)
		col += span
	}
	sb.WriteString("│\n")
}

// junction picks the box-drawing rune joining the given arms.
func junction(up, down, left, right bool) rune {
	switch {
	case up && down && left && right:
		return '┼'
	case up && down && right:
		return '├'
	case up && down && left:
		return '┤'
	case down && left && right:
		return '┬'
	case up && left && right:
		return '┴'
	case down && right:
		return '┌'
	case down && left:
		return '┐'
	case up && right:
		return '└'
	case up && left:
		return '┘'
	case up || down:
		return '│'
	case left || right:
		return '─'
	}
	return ' '
}
