// Package runtime provides the drawing primitives the UI loop hands to
// views and modals: rectangles, a cell buffer acting as the frame, and the
// LoopAction output flag.
package runtime

// Rect is a positioned rectangle.
type Rect struct {
	X, Y, Width, Height int
}

// ZeroRect is the zero value rect.
var ZeroRect = Rect{}

// NewRect creates a rect from position and size.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains returns true if the point is inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersection returns the overlapping area of two rects.
func (r Rect) Intersection(other Rect) Rect {
	x := max(r.X, other.X)
	y := max(r.Y, other.Y)
	x2 := min(r.X+r.Width, other.X+other.Width)
	y2 := min(r.Y+r.Height, other.Y+other.Height)
	if x2 <= x || y2 <= y {
		return ZeroRect
	}
	return Rect{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// Inset returns a rect shrunk by the given amounts.
func (r Rect) Inset(top, right, bottom, left int) Rect {
	return Rect{
		X:      r.X + left,
		Y:      r.Y + top,
		Width:  max(0, r.Width-left-right),
		Height: max(0, r.Height-top-bottom),
	}
}

// Margin shrinks the rect by h cells on the left and right and v cells on
// the top and bottom.
func (r Rect) Margin(h, v int) Rect {
	return r.Inset(v, h, v, h)
}

// Centered returns a rect of size w×h centered inside bounds. The size is
// clamped to bounds so the result never extends past it.
func Centered(bounds Rect, w, h int) Rect {
	w = clamp(w, 0, bounds.Width)
	h = clamp(h, 0, bounds.Height)
	return Rect{
		X:      bounds.X + (bounds.Width-w)/2,
		Y:      bounds.Y + (bounds.Height-h)/2,
		Width:  w,
		Height: h,
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
