// Package modal implements transient input-blocking overlays.
//
// A modal is drawn centered above the main view and receives every input
// event before anything else does. It never removes itself: it asks the
// owning loop to close it by sending event.CloseCurrentModal, and the loop
// clears the Slot when that event arrives.
package modal

import (
	"github.com/odvcencio/interpose/pkg/errors"
	"github.com/odvcencio/interpose/pkg/state"
	"github.com/odvcencio/interpose/pkg/ui/runtime"
	"github.com/odvcencio/interpose/pkg/ui/terminal"
)

// Modal is the capability set every overlay variant provides.
type Modal interface {
	// Size returns the preferred width and height of the overlay.
	Size() (width, height int)

	// HandleInput processes one terminal event and reports whether it was
	// consumed. st and action are borrowed for the call only.
	HandleInput(st *state.State, action *runtime.LoopAction, ev terminal.Event) bool

	// Render draws the overlay centered in frame.
	Render(frame runtime.Frame)

	// Boxed returns the variant as a Modal so callers can store it without
	// knowing its concrete type.
	Boxed() Modal
}

// Area returns where m is drawn inside a w×h frame.
func Area(m Modal, w, h int) runtime.Rect {
	mw, mh := m.Size()
	return runtime.Centered(runtime.NewRect(0, 0, w, h), mw, mh)
}

// ErrModalActive is returned by Slot.Open when a modal is already showing.
var ErrModalActive = errors.New(errors.ErrCodeModalActive, "a modal is already active")

// Slot holds the single active modal. The zero value is empty.
type Slot struct {
	active Modal
}

// Open makes m the active modal.
func (s *Slot) Open(m Modal) error {
	if m == nil {
		return errors.New(errors.ErrCodeInvalidInput, "cannot open a nil modal")
	}
	if s.active != nil {
		return ErrModalActive
	}
	s.active = m.Boxed()
	return nil
}

// Close drops the active modal and reports whether there was one.
func (s *Slot) Close() bool {
	had := s.active != nil
	s.active = nil
	return had
}

// Active returns the active modal, if any.
func (s *Slot) Active() (Modal, bool) {
	return s.active, s.active != nil
}

// HandleInput routes ev to the active modal. With no modal it reports false.
func (s *Slot) HandleInput(st *state.State, action *runtime.LoopAction, ev terminal.Event) bool {
	if s.active == nil {
		return false
	}
	return s.active.HandleInput(st, action, ev)
}

// Render draws the active modal, if any.
func (s *Slot) Render(frame runtime.Frame) {
	if s.active != nil {
		s.active.Render(frame)
	}
}
