package model

import "fmt"

// Point represents a grid coordinate. X is the column, Y is the row.
type Point struct {
	X, Y int
}

// Rect represents an axis-aligned rectangle on the integer grid.
// Right and Bottom are inclusive, so a 1x1 rect at (2, 3) has
// Right() == 2 and Bottom() == 3.
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// NewRect creates a rectangle from its top-left corner and size
func NewRect(left, top, width, height int) Rect {
	return Rect{Left: left, Top: top, Width: width, Height: height}
}

// NewRectFromPoints creates the smallest rectangle covering both points
func NewRectFromPoints(p1, p2 Point) Rect {
	left, right := p1.X, p2.X
	if right < left {
		left, right = right, left
	}
	top, bottom := p1.Y, p2.Y
	if bottom < top {
		top, bottom = bottom, top
	}
	return Rect{Left: left, Top: top, Width: right - left + 1, Height: bottom - top + 1}
}

// Right returns the rightmost column covered by the rectangle
func (r Rect) Right() int {
	return r.Left + r.Width - 1
}

// Bottom returns the bottom row covered by the rectangle
func (r Rect) Bottom() int {
	return r.Top + r.Height - 1
}

// Area returns the number of grid coordinates covered
func (r Rect) Area() int {
	return r.Width * r.Height
}

// IsEmpty returns true if the rectangle covers no coordinates
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains checks if other lies entirely within r, boundary included.
func (r Rect) Contains(other Rect) bool {
	return other.Left >= r.Left && other.Top >= r.Top &&
		other.Right() <= r.Right() && other.Bottom() <= r.Bottom()
}

// ContainsPoint checks if the coordinate (x, y) is covered by r
func (r Rect) ContainsPoint(x, y int) bool {
	return x >= r.Left && x <= r.Right() && y >= r.Top && y <= r.Bottom()
}

// Intersects checks if two rectangles share at least one coordinate
func (r Rect) Intersects(other Rect) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return !(r.Right() < other.Left ||
		r.Left > other.Right() ||
		r.Bottom() < other.Top ||
		r.Top > other.Bottom())
}

// Union returns the smallest rectangle covering both rectangles
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return NewRectFromPoints(
		Point{X: min(r.Left, other.Left), Y: min(r.Top, other.Top)},
		Point{X: max(r.Right(), other.Right()), Y: max(r.Bottom(), other.Bottom())},
	)
}

// String returns the rectangle as "(left,top) widthxheight"
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d) %dx%d", r.Left, r.Top, r.Width, r.Height)
}

// Record returns the serialisable form of the rectangle
func (r Rect) Record() RectRecord {
	return RectRecord{Left: r.Left, Top: r.Top, Width: r.Width, Height: r.Height}
}
