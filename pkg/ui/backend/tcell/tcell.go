// Package tcell provides a Backend implementation using tcell.
package tcell

import (
	"errors"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/interpose/pkg/ui/backend"
	"github.com/odvcencio/interpose/pkg/ui/terminal"
)

// ErrUnsupportedEvent is returned by PostEvent for events tcell cannot carry.
var ErrUnsupportedEvent = errors.New("event cannot be posted to tcell")

// Backend implements backend.Backend using tcell.
type Backend struct {
	screen tcell.Screen
	opts   backend.Options

	// Bracketed paste state
	inPaste     bool
	pasteBuffer strings.Builder
}

// New creates a new tcell backend for the controlling terminal.
func New(opts backend.Options) (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Backend{screen: screen, opts: opts}, nil
}

// NewWithScreen creates a backend over an existing tcell screen.
func NewWithScreen(screen tcell.Screen, opts backend.Options) *Backend {
	return &Backend{screen: screen, opts: opts}
}

// Init initializes the screen and enables the configured input streams.
func (b *Backend) Init() error {
	if err := b.screen.Init(); err != nil {
		return err
	}
	if b.opts.Mouse {
		b.screen.EnableMouse()
	}
	if b.opts.Paste {
		b.screen.EnablePaste()
	}
	if b.opts.Focus {
		b.screen.EnableFocus()
	}
	return nil
}

// Fini cleans up the backend.
func (b *Backend) Fini() {
	b.screen.Fini()
}

// Size returns the terminal dimensions.
func (b *Backend) Size() (width, height int) {
	return b.screen.Size()
}

// SetContent sets a cell at position (x, y).
func (b *Backend) SetContent(x, y int, mainc rune, comb []rune, style backend.Style) {
	b.screen.SetContent(x, y, mainc, comb, convertStyle(style))
}

// Show synchronizes the buffer to the terminal.
func (b *Backend) Show() {
	b.screen.Show()
}

// Clear clears the screen.
func (b *Backend) Clear() {
	b.screen.Clear()
}

// HideCursor hides the cursor.
func (b *Backend) HideCursor() {
	b.screen.HideCursor()
}

// Sync forces a full redraw.
func (b *Backend) Sync() {
	b.screen.Sync()
}

// PollEvent blocks until an event is available.
// Events tcell reports that have no terminal.Event counterpart are skipped.
func (b *Backend) PollEvent() terminal.Event {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch e := ev.(type) {
		case *tcell.EventPaste:
			if e.Start() {
				b.inPaste = true
				b.pasteBuffer.Reset()
				continue
			}
			if e.End() {
				b.inPaste = false
				text := b.pasteBuffer.String()
				b.pasteBuffer.Reset()
				if text != "" {
					return terminal.PasteEvent{Text: text}
				}
				continue
			}

		case *tcell.EventKey:
			if b.inPaste {
				switch e.Key() {
				case tcell.KeyRune:
					b.pasteBuffer.WriteRune(e.Rune())
				case tcell.KeyEnter:
					b.pasteBuffer.WriteRune('\n')
				case tcell.KeyTab:
					b.pasteBuffer.WriteRune('\t')
				}
				continue
			}
		}

		if out := convertEvent(ev); out != nil {
			return out
		}
	}
}

// PostEvent injects an event into the queue.
// Paste events are posted as a bracketed start/keys/end sequence so PollEvent
// reassembles them the same way it does for a real terminal.
func (b *Backend) PostEvent(ev terminal.Event) error {
	if p, ok := ev.(terminal.PasteEvent); ok {
		return b.postPaste(p.Text)
	}
	tev := reverseConvertEvent(ev)
	if tev == nil {
		return ErrUnsupportedEvent
	}
	return b.screen.PostEvent(tev)
}

func (b *Backend) postPaste(text string) error {
	if err := b.screen.PostEvent(tcell.NewEventPaste(true)); err != nil {
		return err
	}
	for _, r := range text {
		var tev *tcell.EventKey
		switch r {
		case '\n':
			tev = tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)
		case '\t':
			tev = tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)
		default:
			tev = tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
		}
		if err := b.screen.PostEvent(tev); err != nil {
			return err
		}
	}
	return b.screen.PostEvent(tcell.NewEventPaste(false))
}

func convertStyle(s backend.Style) tcell.Style {
	fg, bg, attrs := s.Decompose()
	style := tcell.StyleDefault.
		Foreground(convertColor(fg)).
		Background(convertColor(bg))

	if attrs&backend.AttrBold != 0 {
		style = style.Bold(true)
	}
	if attrs&backend.AttrUnderline != 0 {
		style = style.Underline(true)
	}
	if attrs&backend.AttrDim != 0 {
		style = style.Dim(true)
	}
	if attrs&backend.AttrReverse != 0 {
		style = style.Reverse(true)
	}
	return style
}

func convertColor(c backend.Color) tcell.Color {
	if c == backend.ColorDefault {
		return tcell.ColorDefault
	}
	if c.IsRGB() {
		r, g, b := c.RGB()
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	return tcell.PaletteColor(int(c))
}

func convertEvent(ev tcell.Event) terminal.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		mods := e.Modifiers()
		key := convertKey(e.Key())
		out := terminal.KeyEvent{
			Key:   key,
			Alt:   mods&tcell.ModAlt != 0,
			Ctrl:  mods&tcell.ModCtrl != 0,
			Shift: mods&tcell.ModShift != 0,
			Meta:  mods&tcell.ModMeta != 0,
		}
		if key == terminal.KeyRune {
			out.Rune = e.Rune()
		}
		return out
	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.ResizeEvent{Width: w, Height: h}
	case *tcell.EventMouse:
		x, y := e.Position()
		mods := e.Modifiers()
		return terminal.MouseEvent{
			X:      x,
			Y:      y,
			Button: convertMouseButton(e.Buttons()),
			Action: convertMouseAction(e.Buttons()),
			Alt:    mods&tcell.ModAlt != 0,
			Ctrl:   mods&tcell.ModCtrl != 0,
			Shift:  mods&tcell.ModShift != 0,
		}
	case *tcell.EventFocus:
		return terminal.FocusEvent{Focused: e.Focused}
	default:
		return nil
	}
}

var keyMap = map[tcell.Key]terminal.Key{
	tcell.KeyRune:       terminal.KeyRune,
	tcell.KeyUp:         terminal.KeyUp,
	tcell.KeyDown:       terminal.KeyDown,
	tcell.KeyRight:      terminal.KeyRight,
	tcell.KeyLeft:       terminal.KeyLeft,
	tcell.KeyPgUp:       terminal.KeyPageUp,
	tcell.KeyPgDn:       terminal.KeyPageDown,
	tcell.KeyHome:       terminal.KeyHome,
	tcell.KeyEnd:        terminal.KeyEnd,
	tcell.KeyInsert:     terminal.KeyInsert,
	tcell.KeyDelete:     terminal.KeyDelete,
	tcell.KeyBackspace:  terminal.KeyBackspace,
	tcell.KeyBackspace2: terminal.KeyBackspace,
	tcell.KeyTab:        terminal.KeyTab,
	tcell.KeyEnter:      terminal.KeyEnter,
	tcell.KeyEscape:     terminal.KeyEscape,
	tcell.KeyCtrlC:      terminal.KeyCtrlC,
	tcell.KeyCtrlD:      terminal.KeyCtrlD,
	tcell.KeyCtrlZ:      terminal.KeyCtrlZ,
	tcell.KeyF1:         terminal.KeyF1,
	tcell.KeyF2:         terminal.KeyF2,
	tcell.KeyF3:         terminal.KeyF3,
	tcell.KeyF4:         terminal.KeyF4,
	tcell.KeyF5:         terminal.KeyF5,
	tcell.KeyF6:         terminal.KeyF6,
	tcell.KeyF7:         terminal.KeyF7,
	tcell.KeyF8:         terminal.KeyF8,
	tcell.KeyF9:         terminal.KeyF9,
	tcell.KeyF10:        terminal.KeyF10,
	tcell.KeyF11:        terminal.KeyF11,
	tcell.KeyF12:        terminal.KeyF12,
}

// reverseKeyMap is keyMap inverted; Backspace maps back to Backspace2 (DEL),
// which is what most terminals send.
var reverseKeyMap = func() map[terminal.Key]tcell.Key {
	m := make(map[terminal.Key]tcell.Key, len(keyMap))
	for tk, k := range keyMap {
		if tk == tcell.KeyBackspace {
			continue
		}
		m[k] = tk
	}
	return m
}()

func convertKey(k tcell.Key) terminal.Key {
	if key, ok := keyMap[k]; ok {
		return key
	}
	return terminal.KeyNone
}

func convertMouseButton(buttons tcell.ButtonMask) terminal.MouseButton {
	switch {
	case buttons&tcell.WheelUp != 0:
		return terminal.MouseWheelUp
	case buttons&tcell.WheelDown != 0:
		return terminal.MouseWheelDown
	case buttons&tcell.Button1 != 0:
		return terminal.MouseLeft
	case buttons&tcell.Button2 != 0:
		return terminal.MouseMiddle
	case buttons&tcell.Button3 != 0:
		return terminal.MouseRight
	default:
		return terminal.MouseNone
	}
}

func convertMouseAction(buttons tcell.ButtonMask) terminal.MouseAction {
	if buttons == tcell.ButtonNone {
		return terminal.MouseRelease
	}
	return terminal.MousePress
}

func reverseModifiers(alt, ctrl, shift, meta bool) tcell.ModMask {
	var mods tcell.ModMask
	if alt {
		mods |= tcell.ModAlt
	}
	if ctrl {
		mods |= tcell.ModCtrl
	}
	if shift {
		mods |= tcell.ModShift
	}
	if meta {
		mods |= tcell.ModMeta
	}
	return mods
}

func reverseMouseButton(b terminal.MouseButton, action terminal.MouseAction) tcell.ButtonMask {
	if action == terminal.MouseRelease {
		return tcell.ButtonNone
	}
	switch b {
	case terminal.MouseLeft:
		return tcell.Button1
	case terminal.MouseMiddle:
		return tcell.Button2
	case terminal.MouseRight:
		return tcell.Button3
	case terminal.MouseWheelUp:
		return tcell.WheelUp
	case terminal.MouseWheelDown:
		return tcell.WheelDown
	default:
		return tcell.ButtonNone
	}
}

func reverseConvertEvent(ev terminal.Event) tcell.Event {
	switch e := ev.(type) {
	case terminal.KeyEvent:
		tk, ok := reverseKeyMap[e.Key]
		if !ok {
			return nil
		}
		return tcell.NewEventKey(tk, e.Rune, reverseModifiers(e.Alt, e.Ctrl, e.Shift, e.Meta))
	case terminal.ResizeEvent:
		return tcell.NewEventResize(e.Width, e.Height)
	case terminal.MouseEvent:
		return tcell.NewEventMouse(e.X, e.Y, reverseMouseButton(e.Button, e.Action),
			reverseModifiers(e.Alt, e.Ctrl, e.Shift, false))
	case terminal.FocusEvent:
		return tcell.NewEventFocus(e.Focused)
	default:
		return nil
	}
}

var _ backend.Backend = (*Backend)(nil)
