// Package backend defines the terminal backend interface for the TUI.
// The loop talks to a real terminal through the tcell implementation and to
// an in-memory screen through the sim implementation in tests.
package backend

import "github.com/odvcencio/interpose/pkg/ui/terminal"

// Backend is the terminal abstraction layer.
// Implementations handle terminal I/O, input events, and screen output.
type Backend interface {
	RenderTarget

	// Init enters raw mode and the alternate screen.
	Init() error

	// Fini restores terminal state. PollEvent returns nil afterwards.
	Fini()

	// Show flushes pending SetContent calls to the terminal.
	Show()

	// Clear clears the screen.
	Clear()

	// HideCursor hides the terminal cursor.
	HideCursor()

	// PollEvent blocks until an event is available and returns it.
	// Returns nil once the backend has been shut down.
	PollEvent() terminal.Event

	// PostEvent injects an event into the event queue.
	PostEvent(ev terminal.Event) error

	// Sync forces a full redraw on next Show().
	Sync()
}

// RenderTarget is the drawing subset of Backend.
// The loop flushes its cell buffer into a RenderTarget once per frame.
type RenderTarget interface {
	Size() (width, height int)
	SetContent(x, y int, mainc rune, comb []rune, style Style)
}

// Options selects which optional input streams the backend enables.
type Options struct {
	Mouse bool
	Paste bool
	Focus bool
}

// DefaultOptions enables every optional input stream.
func DefaultOptions() Options {
	return Options{Mouse: true, Paste: true, Focus: true}
}
