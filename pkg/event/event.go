// Package event carries application lifecycle signals from UI components
// (modals included) and background producers to the main loop.
package event

import "fmt"

// AppEvent is a lifecycle signal for the main loop. The set is closed and
// carries no payload; emission order is significant.
type AppEvent int

const (
	// CloseCurrentModal asks the loop to remove the active modal.
	CloseCurrentModal AppEvent = iota + 1
	// Quit ends the session and exits.
	Quit
	// Detach leaves the proxy session running and exits the UI.
	Detach
)

var names = map[AppEvent]string{
	CloseCurrentModal: "close_current_modal",
	Quit:              "quit",
	Detach:            "detach",
}

func (e AppEvent) String() string {
	if name, ok := names[e]; ok {
		return name
	}
	return fmt.Sprintf("app_event(%d)", int(e))
}

// Valid reports whether e is a member of the closed set.
func (e AppEvent) Valid() bool {
	_, ok := names[e]
	return ok
}

// Terminal reports whether the event ends the UI loop.
func (e AppEvent) Terminal() bool {
	return e == Quit || e == Detach
}
