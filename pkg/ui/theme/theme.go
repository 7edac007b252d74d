// Package theme provides the visual styles for the proxy session UI.
package theme

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/odvcencio/interpose/pkg/ui/backend"
)

// Names accepted by Resolve.
const (
	NameAuto = "auto"
	NameDark = "dark"
	NameMono = "mono"
)

// Theme defines the styles views and modals draw with.
type Theme struct {
	Name string

	// Text hierarchy
	TextPrimary backend.Style
	TextMuted   backend.Style
	Title       backend.Style

	// Status
	Success backend.Style
	Warning backend.Style

	// Panes
	Border      backend.Style
	BorderFocus backend.Style
}

// Pane returns the border style for a pane. Focused panes (the active modal)
// use the accent border.
func (t *Theme) Pane(focused bool) backend.Style {
	if focused {
		return t.BorderFocus
	}
	return t.Border
}

// Dark returns the true-color theme: warm text on the terminal background,
// amber accent for focused borders.
func Dark() *Theme {
	return &Theme{
		Name:        NameDark,
		TextPrimary: backend.DefaultStyle().Foreground(backend.ColorRGB(240, 238, 232)),
		TextMuted:   backend.DefaultStyle().Foreground(backend.ColorRGB(100, 98, 92)),
		Title:       backend.DefaultStyle().Foreground(backend.ColorRGB(255, 183, 77)).Bold(true),
		Success:     backend.DefaultStyle().Foreground(backend.ColorRGB(134, 239, 172)),
		Warning:     backend.DefaultStyle().Foreground(backend.ColorRGB(255, 138, 101)),
		Border:      backend.DefaultStyle().Foreground(backend.ColorRGB(50, 50, 60)),
		BorderFocus: backend.DefaultStyle().Foreground(backend.ColorRGB(255, 183, 77)),
	}
}

// Palette returns the 16-color variant of Dark for terminals without true color.
func Palette() *Theme {
	return &Theme{
		Name:        NameDark,
		TextPrimary: backend.DefaultStyle().Foreground(backend.ColorWhite),
		TextMuted:   backend.DefaultStyle().Foreground(backend.ColorBrightBlack),
		Title:       backend.DefaultStyle().Foreground(backend.ColorYellow).Bold(true),
		Success:     backend.DefaultStyle().Foreground(backend.ColorGreen),
		Warning:     backend.DefaultStyle().Foreground(backend.ColorRed),
		Border:      backend.DefaultStyle().Foreground(backend.ColorBrightBlack),
		BorderFocus: backend.DefaultStyle().Foreground(backend.ColorYellow),
	}
}

// Mono returns a colorless theme that relies on attributes only.
func Mono() *Theme {
	plain := backend.DefaultStyle()
	return &Theme{
		Name:        NameMono,
		TextPrimary: plain,
		TextMuted:   plain.Dim(true),
		Title:       plain.Bold(true),
		Success:     plain.Bold(true),
		Warning:     plain.Reverse(true),
		Border:      plain.Dim(true),
		BorderFocus: plain.Bold(true),
	}
}

// ForProfile picks the theme that fits a terminal color profile.
func ForProfile(p termenv.Profile) *Theme {
	switch p {
	case termenv.TrueColor:
		return Dark()
	case termenv.ANSI256, termenv.ANSI:
		return Palette()
	default:
		return Mono()
	}
}

// Detect picks a theme from the color profile advertised by the environment
// (TERM, COLORTERM, NO_COLOR). It does not query the terminal.
func Detect() *Theme {
	return ForProfile(termenv.EnvColorProfile())
}

// Resolve maps a configured theme name to a theme.
func Resolve(name string) (*Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameAuto:
		return Detect(), nil
	case NameDark:
		return Dark(), nil
	case NameMono:
		return Mono(), nil
	default:
		return nil, fmt.Errorf("unknown theme %q", name)
	}
}

// Valid reports whether name is accepted by Resolve.
func Valid(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameAuto, NameDark, NameMono:
		return true
	}
	return false
}
