package runtime

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/interpose/pkg/ui/backend"
)

// Frame is the drawable surface handed to a view or modal for one render
// call. Callers must not retain it past the call.
type Frame interface {
	// Size returns the total frame dimensions.
	Size() (w, h int)
	Fill(r Rect, ch rune, s backend.Style)
	ClearRect(r Rect)
	DrawBox(r Rect, s backend.Style)
	SetString(x, y int, str string, s backend.Style) int
}

// Cell represents a single character cell in the buffer.
type Cell struct {
	Rune  rune
	Style backend.Style
}

var blankCell = Cell{Rune: ' ', Style: backend.DefaultStyle()}

// Buffer is a 2D grid of cells. The loop renders into a Buffer and then
// flushes the changed cells to the backend.
type Buffer struct {
	cells  []Cell
	width  int
	height int

	dirty      []bool // parallel to cells
	dirtyCount int
}

// NewBuffer creates a blank buffer with the given dimensions.
func NewBuffer(w, h int) *Buffer {
	w, h = max(0, w), max(0, h)
	b := &Buffer{
		cells:  make([]Cell, w*h),
		dirty:  make([]bool, w*h),
		width:  w,
		height: h,
	}
	for i := range b.cells {
		b.cells[i] = blankCell
	}
	return b
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (w, h int) {
	return b.width, b.height
}

// Bounds returns the buffer area as a rect at the origin.
func (b *Buffer) Bounds() Rect {
	return Rect{Width: b.width, Height: b.height}
}

// Resize changes the buffer dimensions, preserving content where possible.
// The whole buffer is marked dirty.
func (b *Buffer) Resize(w, h int) {
	w, h = max(0, w), max(0, h)
	if w == b.width && h == b.height {
		return
	}
	cells := make([]Cell, w*h)
	for i := range cells {
		cells[i] = blankCell
	}
	for y := 0; y < min(h, b.height); y++ {
		copy(cells[y*w:y*w+min(w, b.width)], b.cells[y*b.width:])
	}
	b.cells = cells
	b.dirty = make([]bool, w*h)
	b.width = w
	b.height = h
	b.MarkAllDirty()
}

// Clear blanks the whole buffer.
func (b *Buffer) Clear() {
	b.ClearRect(b.Bounds())
}

// ClearRect blanks a rectangular region.
func (b *Buffer) ClearRect(r Rect) {
	b.Fill(r, ' ', backend.DefaultStyle())
}

// Get returns the cell at position (x, y), or a blank cell if out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return blankCell
	}
	return b.cells[y*b.width+x]
}

// Set writes a rune with style at position (x, y).
// No-op if out of bounds.
func (b *Buffer) Set(x, y int, r rune, s backend.Style) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	idx := y*b.width + x
	cell := Cell{Rune: r, Style: s}
	if b.cells[idx] != cell {
		b.cells[idx] = cell
		b.markDirty(idx)
	}
}

// SetString writes str starting at (x, y) and returns the number of columns
// advanced. Wide runes take two columns; the second is filled with a blank.
// Output is clipped to the buffer.
func (b *Buffer) SetString(x, y int, str string, s backend.Style) int {
	col := x
	for _, r := range str {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col >= b.width {
			break
		}
		b.Set(col, y, r, s)
		if w == 2 {
			b.Set(col+1, y, ' ', s)
		}
		col += w
	}
	return col - x
}

// Fill fills a rectangular region with a rune and style.
func (b *Buffer) Fill(r Rect, ch rune, s backend.Style) {
	area := r.Intersection(b.Bounds())
	for y := area.Y; y < area.Y+area.Height; y++ {
		for x := area.X; x < area.X+area.Width; x++ {
			b.Set(x, y, ch, s)
		}
	}
}

// DrawBox draws a rounded border around r.
func (b *Buffer) DrawBox(r Rect, s backend.Style) {
	if r.Width < 2 || r.Height < 2 {
		return
	}
	right, bottom := r.X+r.Width-1, r.Y+r.Height-1

	b.Set(r.X, r.Y, '╭', s)
	b.Set(right, r.Y, '╮', s)
	b.Set(r.X, bottom, '╰', s)
	b.Set(right, bottom, '╯', s)
	for x := r.X + 1; x < right; x++ {
		b.Set(x, r.Y, '─', s)
		b.Set(x, bottom, '─', s)
	}
	for y := r.Y + 1; y < bottom; y++ {
		b.Set(r.X, y, '│', s)
		b.Set(right, y, '│', s)
	}
}

// Row returns the runes of row y as a string, for tests and captures.
func (b *Buffer) Row(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	out := make([]rune, b.width)
	for x := 0; x < b.width; x++ {
		out[x] = b.cells[y*b.width+x].Rune
	}
	return string(out)
}

func (b *Buffer) markDirty(idx int) {
	if !b.dirty[idx] {
		b.dirty[idx] = true
		b.dirtyCount++
	}
}

// MarkAllDirty marks the entire buffer as dirty.
func (b *Buffer) MarkAllDirty() {
	for i := range b.dirty {
		b.dirty[i] = true
	}
	b.dirtyCount = len(b.dirty)
}

// ClearDirty resets all dirty flags.
func (b *Buffer) ClearDirty() {
	clear(b.dirty)
	b.dirtyCount = 0
}

// IsDirty returns true if any cells have changed.
func (b *Buffer) IsDirty() bool {
	return b.dirtyCount > 0
}

// DirtyCount returns the number of dirty cells.
func (b *Buffer) DirtyCount() int {
	return b.dirtyCount
}

// Flush writes dirty cells to target and clears the dirty flags.
func (b *Buffer) Flush(target backend.RenderTarget) {
	if b.dirtyCount == 0 {
		return
	}
	for idx, d := range b.dirty {
		if !d {
			continue
		}
		cell := b.cells[idx]
		target.SetContent(idx%b.width, idx/b.width, cell.Rune, nil, cell.Style)
	}
	b.ClearDirty()
}

var _ Frame = (*Buffer)(nil)
