package runtime

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/interpose/pkg/ui/backend"
)

type recordingTarget struct {
	cells map[[2]int]rune
}

func (r *recordingTarget) Size() (int, int) { return 0, 0 }

func (r *recordingTarget) SetContent(x, y int, mainc rune, _ []rune, _ backend.Style) {
	if r.cells == nil {
		r.cells = make(map[[2]int]rune)
	}
	r.cells[[2]int{x, y}] = mainc
}

func TestBuffer_NewIsBlank(t *testing.T) {
	b := NewBuffer(4, 2)
	w, h := b.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)
	assert.Equal(t, "    ", b.Row(0))
	assert.False(t, b.IsDirty())
}

func TestBuffer_SetOutOfBounds(t *testing.T) {
	b := NewBuffer(10, 10)

	b.Set(-1, 5, 'X', backend.DefaultStyle())
	b.Set(100, 5, 'X', backend.DefaultStyle())
	b.Set(5, -1, 'X', backend.DefaultStyle())
	b.Set(5, 100, 'X', backend.DefaultStyle())

	assert.False(t, b.IsDirty())
	assert.Equal(t, ' ', b.Get(-1, -1).Rune)
}

func TestBuffer_SetStringClips(t *testing.T) {
	b := NewBuffer(10, 1)

	n := b.SetString(7, 0, "Hello", backend.DefaultStyle())

	assert.Equal(t, 3, n)
	assert.Equal(t, "       Hel", b.Row(0))
}

func TestBuffer_SetStringWideRunes(t *testing.T) {
	b := NewBuffer(6, 1)

	n := b.SetString(0, 0, "日本x", backend.DefaultStyle())

	assert.Equal(t, 5, n)
	assert.Equal(t, '日', b.Get(0, 0).Rune)
	assert.Equal(t, '本', b.Get(2, 0).Rune)
	assert.Equal(t, 'x', b.Get(4, 0).Rune)
}

func TestBuffer_FillClipsAndTracksDirty(t *testing.T) {
	b := NewBuffer(5, 5)

	b.Fill(NewRect(3, 3, 10, 10), '#', backend.DefaultStyle())

	assert.Equal(t, 4, b.DirtyCount())
	assert.Equal(t, "   ##", b.Row(4))

	// Rewriting identical content leaves the dirty count unchanged.
	b.ClearDirty()
	b.Fill(NewRect(3, 3, 2, 2), '#', backend.DefaultStyle())
	assert.False(t, b.IsDirty())
}

func TestBuffer_DrawBox(t *testing.T) {
	b := NewBuffer(4, 3)

	b.DrawBox(b.Bounds(), backend.DefaultStyle())

	assert.Equal(t, "╭──╮", b.Row(0))
	assert.Equal(t, "│  │", b.Row(1))
	assert.Equal(t, "╰──╯", b.Row(2))
}

func TestBuffer_DrawBoxTooSmall(t *testing.T) {
	b := NewBuffer(4, 3)
	b.DrawBox(NewRect(0, 0, 1, 3), backend.DefaultStyle())
	assert.False(t, b.IsDirty())
}

func TestBuffer_ResizePreservesContent(t *testing.T) {
	b := NewBuffer(4, 2)
	b.SetString(0, 0, "abcd", backend.DefaultStyle())

	b.Resize(2, 3)

	assert.Equal(t, "ab", b.Row(0))
	assert.Equal(t, "  ", b.Row(2))
	assert.Equal(t, 6, b.DirtyCount())
}

func TestBuffer_Flush(t *testing.T) {
	b := NewBuffer(3, 2)
	b.Set(1, 1, 'z', backend.DefaultStyle())

	target := &recordingTarget{}
	b.Flush(target)

	require.Len(t, target.cells, 1)
	assert.Equal(t, 'z', target.cells[[2]int{1, 1}])
	assert.False(t, b.IsDirty())
}

func TestBuffer_ClearRect(t *testing.T) {
	b := NewBuffer(5, 1)
	b.SetString(0, 0, "xxxxx", backend.DefaultStyle())

	b.ClearRect(NewRect(1, 0, 3, 1))

	assert.Equal(t, "x   x", b.Row(0))
	assert.Equal(t, strings.Repeat(" ", 5), NewBuffer(5, 1).Row(0))
}
