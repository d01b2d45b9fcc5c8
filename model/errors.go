package model

import (
	"errors"
	"fmt"
)

var (
	// ErrParagraphOwned is returned when a paragraph that already belongs
	// to a cell is appended to a cell.
	ErrParagraphOwned = errors.New("model: paragraph already belongs to a cell")
	// ErrCellOwned is returned when a cell that already belongs to a table
	// is added to a table.
	ErrCellOwned = errors.New("model: cell already belongs to a table")
	// ErrOutOfBounds is returned when a cell does not fit inside the table.
	ErrOutOfBounds = errors.New("model: cell outside table")
	// ErrOccupied is returned when a cell overlaps an occupied coordinate.
	ErrOccupied = errors.New("model: coordinate already occupied")
	// ErrForeignCell is returned when navigating from a cell of another table.
	ErrForeignCell = errors.New("model: cell does not belong to this table")
	// ErrNotReady is returned when navigating before every coordinate of
	// the table is covered by a cell.
	ErrNotReady = errors.New("model: table is not fully occupied")
	// ErrDetached is returned when navigating from a cell with no table.
	ErrDetached = errors.New("model: cell has no parent table")
	// ErrEmptyCell is returned when adding a cell with zero or negative area.
	ErrEmptyCell = errors.New("model: cell has no area")
	// ErrNilCell is returned when a nil cell is passed to a table.
	ErrNilCell = errors.New("model: nil cell")
	// ErrInvalidDimensions is returned for negative table dimensions.
	ErrInvalidDimensions = errors.New("model: invalid table dimensions")
	// ErrTableTooLarge is returned when a table would exceed MaxBoardArea
	// coordinates.
	ErrTableTooLarge = errors.New("model: table too large")
	// ErrInvalidDirection is returned for an unknown Direction value.
	ErrInvalidDirection = errors.New("model: invalid direction")
)

// OccupiedError reports the first coordinate, in row-major order from the
// cell's top-left, that is already covered by another cell.
type OccupiedError struct {
	Row int
	Col int
	// Cell is the rectangle that failed to insert.
	Cell Rect
}

func (e *OccupiedError) Error() string {
	return fmt.Sprintf("model: point (row = %d, col = %d) already occupied", e.Row, e.Col)
}

func (e *OccupiedError) Unwrap() error {
	return ErrOccupied
}

// BoundsError reports a cell that does not fit inside its table.
type BoundsError struct {
	Cell  Rect
	Table Rect
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("model: cell %s outside table %s", e.Cell, e.Table)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}
