// Package terminal provides terminal event types used throughout the UI.
//
// Event is a closed union: every input the backend can deliver is one of
// KeyEvent, MouseEvent, PasteEvent, ResizeEvent or FocusEvent.
package terminal

import "fmt"

// Event represents a terminal input event.
type Event interface {
	eventMarker()
}

// KeyEvent represents a key press.
type KeyEvent struct {
	Key   Key
	Rune  rune
	Alt   bool
	Ctrl  bool
	Shift bool
	Meta  bool
}

func (KeyEvent) eventMarker() {}

// HasModifiers reports whether any modifier key was held.
func (k KeyEvent) HasModifiers() bool {
	return k.Alt || k.Ctrl || k.Shift || k.Meta
}

// IsRune reports whether the event is the unmodified character r.
func (k KeyEvent) IsRune(r rune) bool {
	return k.Key == KeyRune && k.Rune == r && !k.HasModifiers()
}

// Is reports whether the event is the unmodified special key key.
func (k KeyEvent) Is(key Key) bool {
	return k.Key == key && !k.HasModifiers()
}

func (k KeyEvent) String() string {
	var prefix string
	if k.Ctrl {
		prefix += "ctrl+"
	}
	if k.Alt {
		prefix += "alt+"
	}
	if k.Meta {
		prefix += "meta+"
	}
	if k.Shift {
		prefix += "shift+"
	}
	if k.Key == KeyRune {
		return prefix + string(k.Rune)
	}
	return prefix + k.Key.String()
}

// ResizeEvent indicates terminal size changed.
type ResizeEvent struct {
	Width  int
	Height int
}

func (ResizeEvent) eventMarker() {}

// MouseEvent represents a mouse input event.
type MouseEvent struct {
	X, Y   int
	Button MouseButton
	Action MouseAction
	Alt    bool
	Ctrl   bool
	Shift  bool
}

func (MouseEvent) eventMarker() {}

// PasteEvent represents bracketed paste content.
type PasteEvent struct {
	Text string
}

func (PasteEvent) eventMarker() {}

// FocusEvent reports the terminal window gaining or losing focus.
type FocusEvent struct {
	Focused bool
}

func (FocusEvent) eventMarker() {}

// Kind returns a short, stable name for the event's variant.
// Used as a metrics label and in log details.
func Kind(ev Event) string {
	switch e := ev.(type) {
	case KeyEvent:
		return "key"
	case MouseEvent:
		return "mouse"
	case PasteEvent:
		return "paste"
	case ResizeEvent:
		return "resize"
	case FocusEvent:
		if e.Focused {
			return "focus_gained"
		}
		return "focus_lost"
	case nil:
		return "none"
	default:
		return fmt.Sprintf("%T", ev)
	}
}

// MouseButton identifies which mouse button was involved.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// MouseAction identifies what happened with the mouse.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseMove
)

// Key represents special keys.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // Regular character
	KeyEnter
	KeyBackspace
	KeyTab
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyDelete
	KeyInsert
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyCtrlC
	KeyCtrlD
	KeyCtrlZ
)

var keyNames = map[Key]string{
	KeyNone:      "none",
	KeyRune:      "rune",
	KeyEnter:     "enter",
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyEscape:    "esc",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdn",
	KeyDelete:    "delete",
	KeyInsert:    "insert",
	KeyCtrlC:     "ctrl+c",
	KeyCtrlD:     "ctrl+d",
	KeyCtrlZ:     "ctrl+z",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k >= KeyF1 && k <= KeyF12 {
		return fmt.Sprintf("f%d", int(k-KeyF1)+1)
	}
	return fmt.Sprintf("key(%d)", int(k))
}
