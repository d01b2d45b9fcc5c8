package model

import (
	"bytes"
	"cmp"
	"encoding/csv"
	"fmt"
	"slices"
	"strings"
)

// Direction selects the neighbour requested from Table.Move.
type Direction int

const (
	DirUp Direction = iota + 1
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection parses "up", "down", "left" and "right" (any case) as
// well as the vi keys "k", "j", "h" and "l".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "k":
		return DirUp, nil
	case "down", "j":
		return DirDown, nil
	case "left", "h":
		return DirLeft, nil
	case "right", "l":
		return DirRight, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// neighbor returns the coordinate just outside r in direction d. UP and DOWN
// step from the left edge, LEFT and RIGHT from the top edge, so a merged
// cell always navigates from its top-left side.
func (d Direction) neighbor(r Rect) (x, y int, ok bool) {
	switch d {
	case DirUp:
		return r.Left, r.Top - 1, true
	case DirDown:
		return r.Left, r.Bottom() + 1, true
	case DirLeft:
		return r.Left - 1, r.Top, true
	case DirRight:
		return r.Right() + 1, r.Top, true
	}
	return 0, 0, false
}

const unoccupied = -1

// Cell is a rectangular region of a table, possibly spanning several rows
// and columns, holding ordered text paragraphs.
type Cell struct {
	bounds     Rect
	parent     *Table
	paragraphs []*TextParagraph
}

// NewCell creates a detached cell covering rect.
func NewCell(rect Rect) *Cell {
	return &Cell{bounds: rect}
}

// Bounds returns the grid rectangle covered by the cell
func (c *Cell) Bounds() Rect {
	return c.bounds
}

// Parent returns the table owning the cell, or nil before insertion.
func (c *Cell) Parent() *Table {
	return c.parent
}

// Paragraphs returns a copy of the cell's paragraphs in attachment order
func (c *Cell) Paragraphs() []*TextParagraph {
	return append([]*TextParagraph(nil), c.paragraphs...)
}

// AppendParagraph attaches p to the cell. A paragraph can belong to one
// cell only; attaching it a second time returns ErrParagraphOwned.
func (c *Cell) AppendParagraph(p *TextParagraph) error {
	if p.parent != nil {
		return ErrParagraphOwned
	}
	p.parent = c
	c.paragraphs = append(c.paragraphs, p)
	return nil
}

// Text returns the cell's paragraphs joined by newlines
func (c *Cell) Text() string {
	parts := make([]string, 0, len(c.paragraphs))
	for _, p := range c.paragraphs {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}

// Move returns the neighbouring cell in direction d, or nil when the
// table boundary is reached. The cell must belong to a table.
func (c *Cell) Move(d Direction) (*Cell, error) {
	if c.parent == nil {
		return nil, ErrDetached
	}
	return c.parent.Move(c, d)
}

// Record returns the serialisable form of the cell
func (c *Cell) Record() CellRecord {
	rec := CellRecord{
		Type:       RecordTypeCell,
		Rect:       c.bounds.Record(),
		Paragraphs: make([]ParagraphRecord, 0, len(c.paragraphs)),
	}
	for _, p := range c.paragraphs {
		rec.Paragraphs = append(rec.Paragraphs, p.Record())
	}
	return rec
}

// Table is a fixed-size grid of non-overlapping cells.
//
// Cells are kept sorted by (top, left) and the occupancy board stores, for
// every coordinate, the index of the covering cell in that order. Each
// AddCell re-sorts the cells and rebuilds the board, costing
// O(cells x area); tables are built once at extraction time so this is
// acceptable. Indices are not stable across insertions and must not be
// cached by callers.
//
// A Table is not safe for concurrent use. Callers mutating one table from
// several goroutines must serialise AddCell/FillGaps calls themselves,
// for example by holding a mutex for the duration of each call.
type Table struct {
	bounds       Rect
	cells        []*Cell
	board        [][]int
	occupiedArea int
}

// MaxBoardArea bounds rows x cols of a table. The board is dense, so a
// table built from untrusted extents must not exceed it.
const MaxBoardArea = 1 << 22

// NewTable creates an empty table with the given dimensions. A table with
// zero rows or columns is valid and is immediately ready to move. Tables
// larger than MaxBoardArea coordinates fail with ErrTableTooLarge.
func NewTable(rows, cols int) (*Table, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%w: %d rows, %d cols", ErrInvalidDimensions, rows, cols)
	}
	if cols > 0 && rows > MaxBoardArea/cols {
		return nil, fmt.Errorf("%w: %d rows, %d cols", ErrTableTooLarge, rows, cols)
	}
	t := &Table{
		bounds: NewRect(0, 0, cols, rows),
		cells:  make([]*Cell, 0),
		board:  make([][]int, rows),
	}
	for i := range t.board {
		t.board[i] = make([]int, cols)
		for j := range t.board[i] {
			t.board[i][j] = unoccupied
		}
	}
	return t, nil
}

// Bounds returns the table rectangle, always anchored at (0, 0)
func (t *Table) Bounds() Rect {
	return t.bounds
}

// Rows returns the number of rows
func (t *Table) Rows() int {
	return t.bounds.Height
}

// Cols returns the number of columns
func (t *Table) Cols() int {
	return t.bounds.Width
}

// Len returns the number of cells added so far
func (t *Table) Len() int {
	return len(t.cells)
}

// Cells returns a copy of the cells in (top, left) order
func (t *Table) Cells() []*Cell {
	return append([]*Cell(nil), t.cells...)
}

// OccupiedArea returns the number of coordinates covered by cells
func (t *Table) OccupiedArea() int {
	return t.occupiedArea
}

// AddCell inserts c into the table. The cell must fit inside the table and
// must not cover an occupied coordinate; on failure the table and the cell
// are left unchanged.
//
// A Rect may have zero width or height, but AddCell does not accept such a
// cell as a no-op that covers nothing: it fails with ErrEmptyCell, since
// the cell could never be reached by Move.
func (t *Table) AddCell(c *Cell) error {
	if c == nil {
		return ErrNilCell
	}
	if c.parent != nil {
		return ErrCellOwned
	}
	if c.bounds.IsEmpty() {
		return fmt.Errorf("%w: %s", ErrEmptyCell, c.bounds)
	}
	if !t.bounds.Contains(c.bounds) {
		return &BoundsError{Cell: c.bounds, Table: t.bounds}
	}

	for row := c.bounds.Top; row <= c.bounds.Bottom(); row++ {
		for col := c.bounds.Left; col <= c.bounds.Right(); col++ {
			if t.board[row][col] != unoccupied {
				return &OccupiedError{Row: row, Col: col, Cell: c.bounds}
			}
		}
	}

	c.parent = t
	t.cells = append(t.cells, c)
	t.sortAndRebuild()
	return nil
}

// AddCells adds cells in order and stops at the first failure.
func (t *Table) AddCells(cells ...*Cell) error {
	for i, c := range cells {
		if err := t.AddCell(c); err != nil {
			return fmt.Errorf("cell %d: %w", i, err)
		}
	}
	return nil
}

// sortAndRebuild orders cells by (top, left) and re-marks the board with
// each cell's position in that order.
func (t *Table) sortAndRebuild() {
	slices.SortFunc(t.cells, func(a, b *Cell) int {
		if c := cmp.Compare(a.bounds.Top, b.bounds.Top); c != 0 {
			return c
		}
		return cmp.Compare(a.bounds.Left, b.bounds.Left)
	})

	t.occupiedArea = 0
	for idx, c := range t.cells {
		t.fillBoard(c, idx)
	}
}

func (t *Table) fillBoard(c *Cell, idx int) {
	for row := c.bounds.Top; row <= c.bounds.Bottom(); row++ {
		for col := c.bounds.Left; col <= c.bounds.Right(); col++ {
			t.board[row][col] = idx
		}
	}
	t.occupiedArea += c.bounds.Area()
}

// ReadyToMove returns true once every coordinate is covered by a cell.
func (t *Table) ReadyToMove() bool {
	return t.occupiedArea == t.bounds.Area()
}

// Move returns the cell next to c in direction d, or nil when the step
// leaves the table. The step starts from c's left edge for DirUp/DirDown
// and from its top edge for DirLeft/DirRight.
//
// Move returns ErrNotReady until the table is fully occupied and
// ErrForeignCell if c belongs to another table.
func (t *Table) Move(c *Cell, d Direction) (*Cell, error) {
	if !t.ReadyToMove() {
		return nil, ErrNotReady
	}
	if c == nil || c.parent != t {
		return nil, ErrForeignCell
	}
	x, y, ok := d.neighbor(c.bounds)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, int(d))
	}
	if !t.bounds.ContainsPoint(x, y) {
		return nil, nil
	}
	return t.cells[t.board[y][x]], nil
}

// CellAt returns the cell covering (row, col), or nil if the coordinate is
// unoccupied or outside the table.
func (t *Table) CellAt(row, col int) *Cell {
	if !t.bounds.ContainsPoint(col, row) {
		return nil
	}
	idx := t.board[row][col]
	if idx == unoccupied {
		return nil
	}
	return t.cells[idx]
}

// Index returns the current board index of c, or -1 if c is not in the table.
func (t *Table) Index(c *Cell) int {
	if c == nil || c.parent != t {
		return -1
	}
	return t.board[c.bounds.Top][c.bounds.Left]
}

// Gaps returns the unoccupied coordinates in row-major order.
func (t *Table) Gaps() []Point {
	var gaps []Point
	for row := range t.board {
		for col, idx := range t.board[row] {
			if idx == unoccupied {
				gaps = append(gaps, Point{X: col, Y: row})
			}
		}
	}
	return gaps
}

// FillGaps covers every unoccupied coordinate with an empty 1x1 cell and
// returns the number of cells added. Afterwards the table is ready to move.
func (t *Table) FillGaps() int {
	gaps := t.Gaps()
	if len(gaps) == 0 {
		return 0
	}
	for _, p := range gaps {
		c := NewCell(NewRect(p.X, p.Y, 1, 1))
		c.parent = t
		t.cells = append(t.cells, c)
	}
	t.sortAndRebuild()
	return len(gaps)
}

// Kind reports BlockTable
func (t *Table) Kind() BlockKind { return BlockTable }

// anchorText returns the text of the cell anchored at (row, col), that is
// the cell whose top-left corner is there, flattened to one line.
func (t *Table) anchorText(row, col int) string {
	c := t.CellAt(row, col)
	if c == nil || c.bounds.Top != row || c.bounds.Left != col {
		return ""
	}
	return strings.Join(strings.Fields(c.Text()), " ")
}

// Text returns the table as tab-separated rows. A merged cell's text is
// written once, at its top-left coordinate.
func (t *Table) Text() string {
	var sb strings.Builder
	for row := 0; row < t.Rows(); row++ {
		for col := 0; col < t.Cols(); col++ {
			if col > 0 {
				sb.WriteString("\t")
			}
			sb.WriteString(t.anchorText(row, col))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToMarkdown converts the table to markdown, using the first row as header
func (t *Table) ToMarkdown() string {
	if t.Rows() == 0 || t.Cols() == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(row int) {
		sb.WriteString("|")
		for col := 0; col < t.Cols(); col++ {
			sb.WriteString(" ")
			sb.WriteString(strings.ReplaceAll(t.anchorText(row, col), "|", "\\|"))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	writeRow(0)
	sb.WriteString("|")
	for col := 0; col < t.Cols(); col++ {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")
	for row := 1; row < t.Rows(); row++ {
		writeRow(row)
	}
	return sb.String()
}

// ToCSV converts the table to CSV with merged text at anchor positions
func (t *Table) ToCSV() string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for row := 0; row < t.Rows(); row++ {
		record := make([]string, t.Cols())
		for col := range record {
			record[col] = t.anchorText(row, col)
		}
		// Writes to a bytes.Buffer cannot fail.
		_ = w.Write(record)
	}
	w.Flush()
	return buf.String()
}

// Record returns the serialisable form of the table
func (t *Table) Record() TableRecord {
	rec := TableRecord{
		Type:  RecordTypeTable,
		Cells: make([]CellRecord, 0, len(t.cells)),
	}
	for _, c := range t.cells {
		rec.Cells = append(rec.Cells, c.Record())
	}
	return rec
}
