// Package sim provides a simulation backend for testing.
// It runs the real tcell backend against tcell's in-memory screen, so
// golden-frame tests exercise the same conversion code as a live terminal.
package sim

import (
	"strings"
	"sync"

	tcellv2 "github.com/gdamore/tcell/v2"

	"github.com/odvcencio/interpose/pkg/ui/backend"
	"github.com/odvcencio/interpose/pkg/ui/backend/tcell"
	"github.com/odvcencio/interpose/pkg/ui/terminal"
)

// Backend is a testable backend using tcell's simulation screen.
type Backend struct {
	*tcell.Backend
	screen tcellv2.SimulationScreen
	mu     sync.Mutex
	width  int
	height int
}

// New creates a new simulation backend with the given dimensions.
func New(width, height int) *Backend {
	screen := tcellv2.NewSimulationScreen("UTF-8")
	screen.SetSize(width, height)

	return &Backend{
		Backend: tcell.NewWithScreen(screen, backend.DefaultOptions()),
		screen:  screen,
		width:   width,
		height:  height,
	}
}

// Init initializes the screen and re-applies the requested size, which
// tcell resets during Init.
func (s *Backend) Init() error {
	if err := s.Backend.Init(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen.SetSize(s.width, s.height)
	return nil
}

// Resize changes the simulation screen size without posting an event.
func (s *Backend) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
	s.screen.SetSize(width, height)
}

// InjectKeyRune injects an unmodified character keypress.
func (s *Backend) InjectKeyRune(r rune) {
	_ = s.PostEvent(terminal.KeyEvent{Key: terminal.KeyRune, Rune: r})
}

// InjectKey injects a special key.
func (s *Backend) InjectKey(key terminal.Key) {
	_ = s.PostEvent(terminal.KeyEvent{Key: key})
}

// InjectResize resizes the screen and posts the matching resize event.
func (s *Backend) InjectResize(width, height int) {
	s.Resize(width, height)
	_ = s.PostEvent(terminal.ResizeEvent{Width: width, Height: height})
}

// Capture returns the screen content, one line per row.
func (s *Backend) Capture() string {
	s.mu.Lock()
	w, h := s.screen.Size()
	s.mu.Unlock()
	return s.CaptureRegion(0, 0, w, h)
}

// CaptureCell returns the content and style of a single cell.
func (s *Backend) CaptureCell(x, y int) (mainc rune, style backend.Style) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, _, tcStyle, _ := s.screen.GetContent(x, y)
	return m, convertTcellStyle(tcStyle)
}

// CaptureRegion captures a rectangular region of the screen.
func (s *Backend) CaptureRegion(x, y, w, h int) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]string, 0, h)
	for row := y; row < y+h; row++ {
		var line strings.Builder
		for col := x; col < x+w; col++ {
			mainc, _, _, _ := s.screen.GetContent(col, row)
			if mainc == 0 {
				mainc = ' '
			}
			line.WriteRune(mainc)
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// FindText returns the cell position of the first occurrence of text,
// or -1, -1 when it is not on screen.
func (s *Backend) FindText(text string) (x, y int) {
	for row, line := range strings.Split(s.Capture(), "\n") {
		if idx := strings.Index(line, text); idx >= 0 {
			return len([]rune(line[:idx])), row
		}
	}
	return -1, -1
}

// ContainsText returns true if the text appears anywhere on screen.
func (s *Backend) ContainsText(text string) bool {
	x, _ := s.FindText(text)
	return x >= 0
}

func convertTcellStyle(ts tcellv2.Style) backend.Style {
	fg, bg, attrs := ts.Decompose()
	style := backend.DefaultStyle().
		Foreground(convertTcellColor(fg)).
		Background(convertTcellColor(bg))

	if attrs&tcellv2.AttrBold != 0 {
		style = style.Bold(true)
	}
	if attrs&tcellv2.AttrUnderline != 0 {
		style = style.Underline(true)
	}
	if attrs&tcellv2.AttrDim != 0 {
		style = style.Dim(true)
	}
	if attrs&tcellv2.AttrReverse != 0 {
		style = style.Reverse(true)
	}
	return style
}

func convertTcellColor(tc tcellv2.Color) backend.Color {
	if tc == tcellv2.ColorDefault {
		return backend.ColorDefault
	}
	if tc&tcellv2.ColorIsRGB != 0 {
		r, g, b := tc.RGB()
		return backend.ColorRGB(uint8(r), uint8(g), uint8(b))
	}
	return backend.Color(tc & 0xFF)
}

var _ backend.Backend = (*Backend)(nil)
