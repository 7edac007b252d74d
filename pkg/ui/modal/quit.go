package modal

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/interpose/pkg/errors"
	"github.com/odvcencio/interpose/pkg/event"
	"github.com/odvcencio/interpose/pkg/logging"
	"github.com/odvcencio/interpose/pkg/state"
	"github.com/odvcencio/interpose/pkg/ui/runtime"
	"github.com/odvcencio/interpose/pkg/ui/terminal"
	"github.com/odvcencio/interpose/pkg/ui/theme"
)

//go:generate mockgen -package=modal -destination=mock_sender_test.go github.com/odvcencio/interpose/pkg/event Sender

const (
	quitWidth  = 36
	quitHeight = 5
	legendRows = 3
)

var quitLegend = [legendRows]string{
	"<y> - quit",
	"<d> - detach",
	"<Escape> - cancel",
}

// QuitModal asks whether to quit the session, detach from it, or cancel.
type QuitModal struct {
	sender event.Sender
	logger *logging.Logger
	theme  *theme.Theme
}

// QuitOption configures a QuitModal.
type QuitOption func(*QuitModal)

// WithTheme sets the styles the modal draws with.
func WithTheme(th *theme.Theme) QuitOption {
	return func(m *QuitModal) {
		if th != nil {
			m.theme = th
		}
	}
}

// NewQuitModal creates the confirmation dialog. logger may be nil.
func NewQuitModal(sender event.Sender, logger *logging.Logger, opts ...QuitOption) *QuitModal {
	m := &QuitModal{
		sender: sender,
		logger: logger,
		theme:  theme.Dark(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Size is fixed.
func (m *QuitModal) Size() (int, int) {
	return quitWidth, quitHeight
}

// HandleInput maps y to quit, d to detach and Escape or n to cancel. Every
// other key, mouse event or paste is swallowed; resize and focus changes
// pass through to the main view.
func (m *QuitModal) HandleInput(_ *state.State, action *runtime.LoopAction, ev terminal.Event) bool {
	switch e := ev.(type) {
	case terminal.KeyEvent:
		switch {
		case e.IsRune('y'):
			m.closeSelf()
			m.emit(event.Quit)
		case e.IsRune('d'):
			m.closeSelf()
			m.emit(event.Detach)
		case e.Is(terminal.KeyEscape), e.IsRune('n'):
			m.closeSelf()
			action.Render()
		}
		return true
	case terminal.MouseEvent, terminal.PasteEvent:
		return true
	default:
		return false
	}
}

// closeSelf asks the loop to drop this modal. Send failures are logged and
// otherwise ignored; emit treats the same failure as fatal. The two paths
// disagree and are kept that way until the intended behavior is settled.
func (m *QuitModal) closeSelf() {
	if err := m.sender.Send(event.CloseCurrentModal); err != nil {
		_ = m.logger.Warn(logging.CategoryModal, "close_send_failed",
			"failed to request modal close", map[string]any{
				"error": err.Error(),
			})
	}
}

// emit sends a lifecycle decision and panics if the send fails.
func (m *QuitModal) emit(ev event.AppEvent) {
	if err := m.sender.Send(ev); err != nil {
		panic(errors.Wrap(err, errors.ErrCodeInternal, "failed to send "+ev.String()).
			WithContext("event", ev.String()))
	}
}

// Render draws a focused pane over the modal area and the key legend inside
// it. The text area is cleared first so nothing beneath shows through.
func (m *QuitModal) Render(frame runtime.Frame) {
	w, h := frame.Size()
	area := Area(m, w, h)
	if area.Empty() {
		return
	}

	frame.DrawBox(area, m.theme.Pane(true))

	inner := area.Margin(1, 1)
	text := runtime.NewRect(inner.X, inner.Y, inner.Width, min(legendRows, inner.Height))
	frame.ClearRect(text)
	if text.Empty() {
		return
	}

	for i := 0; i < text.Height; i++ {
		line := runewidth.Truncate(quitLegend[i], text.Width, "")
		frame.SetString(text.X, text.Y+i, line, m.theme.TextPrimary)
	}
}

// Boxed returns m as a Modal.
func (m *QuitModal) Boxed() Modal {
	return m
}

var _ Modal = (*QuitModal)(nil)
