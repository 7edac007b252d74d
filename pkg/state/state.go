// Package state holds the global UI state owned by the main loop.
package state

// State is owned by the main loop. Components receive it by pointer for the
// duration of a single call and must not retain it.
type State struct {
	SessionID   string
	SessionName string
	Upstream    string
	Status      string

	Width  int
	Height int
}

// New returns a state for the named session.
func New(sessionID, name, upstream, status string) *State {
	return &State{
		SessionID:   sessionID,
		SessionName: name,
		Upstream:    upstream,
		Status:      status,
	}
}

// Resize records the terminal size. Negative sizes clamp to zero.
func (s *State) Resize(width, height int) {
	s.Width = max(width, 0)
	s.Height = max(height, 0)
}
