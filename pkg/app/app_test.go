package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierrors "github.com/odvcencio/interpose/pkg/errors"
	"github.com/odvcencio/interpose/pkg/event"
	"github.com/odvcencio/interpose/pkg/state"
	"github.com/odvcencio/interpose/pkg/telemetry"
	"github.com/odvcencio/interpose/pkg/ui/backend"
	"github.com/odvcencio/interpose/pkg/ui/backend/sim"
	"github.com/odvcencio/interpose/pkg/ui/terminal"
	"github.com/odvcencio/interpose/pkg/ui/theme"
)

func newTestApp(t *testing.T, b backend.Backend) (*App, *event.Receiver) {
	t.Helper()
	tx, rx := event.New()
	a, err := New(Config{
		Backend:  b,
		Sender:   tx,
		Receiver: rx,
		Metrics:  telemetry.New(),
		Theme:    theme.Mono(),
		State:    state.New("01test", "staging", "10.0.0.5:9000", "connected"),
	})
	require.NoError(t, err)
	return a, rx
}

func keyRune(r rune) terminal.KeyEvent {
	return terminal.KeyEvent{Key: terminal.KeyRune, Rune: r}
}

func TestNew_Validation(t *testing.T) {
	tx, rx := event.New()

	_, err := New(Config{Sender: tx, Receiver: rx})
	assert.True(t, ierrors.IsCode(err, ierrors.ErrCodeInvalidInput))

	_, err = New(Config{Backend: sim.New(10, 5), Receiver: rx})
	assert.True(t, ierrors.IsCode(err, ierrors.ErrCodeInvalidInput))

	a, err := New(Config{Backend: sim.New(10, 5), Sender: tx, Receiver: rx})
	require.NoError(t, err)
	assert.NotNil(t, a.State())
}

func TestExitReason_String(t *testing.T) {
	assert.Equal(t, "none", ExitNone.String())
	assert.Equal(t, "quit", ExitQuit.String())
	assert.Equal(t, "detach", ExitDetach.String())
	assert.Equal(t, "canceled", ExitCanceled.String())
}

func TestHandleTerminalEvent_OpensQuitModal(t *testing.T) {
	tests := []struct {
		name string
		ev   terminal.KeyEvent
		open bool
	}{
		{"q", keyRune('q'), true},
		{"ctrl-c key", terminal.KeyEvent{Key: terminal.KeyCtrlC}, true},
		{"ctrl-c with flag", terminal.KeyEvent{Key: terminal.KeyCtrlC, Ctrl: true}, true},
		{"ctrl+c rune", terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'c', Ctrl: true}, true},
		{"alt+q", terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'q', Alt: true}, false},
		{"alt+ctrl-c", terminal.KeyEvent{Key: terminal.KeyCtrlC, Alt: true}, false},
		{"y without modal", keyRune('y'), false},
		{"escape", terminal.KeyEvent{Key: terminal.KeyEscape}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, rx := newTestApp(t, sim.New(80, 24))

			a.HandleTerminalEvent(tt.ev)

			_, open := a.ActiveModal()
			assert.Equal(t, tt.open, open)
			assert.Equal(t, tt.open, a.action.RenderRequested())
			assert.Empty(t, rx.Drain())
		})
	}
}

func TestHandleTerminalEvent_SecondOpenIsRejected(t *testing.T) {
	a, _ := newTestApp(t, sim.New(80, 24))

	a.HandleTerminalEvent(keyRune('q'))
	first, ok := a.ActiveModal()
	require.True(t, ok)

	// With a modal active, q goes to the modal and is swallowed.
	a.HandleTerminalEvent(keyRune('q'))
	second, ok := a.ActiveModal()
	require.True(t, ok)
	assert.Same(t, first, second)
}

func TestHandleTerminalEvent_ResizePassesThroughModal(t *testing.T) {
	a, rx := newTestApp(t, sim.New(80, 24))
	a.HandleTerminalEvent(keyRune('q'))
	a.action.Reset()

	a.HandleTerminalEvent(terminal.ResizeEvent{Width: 100, Height: 40})

	assert.Equal(t, 100, a.State().Width)
	assert.Equal(t, 40, a.State().Height)
	w, h := a.Buffer().Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 40, h)
	assert.True(t, a.action.RenderRequested())
	_, open := a.ActiveModal()
	assert.True(t, open)
	assert.Empty(t, rx.Drain())
}

func TestModalDecisions(t *testing.T) {
	tests := []struct {
		name   string
		key    terminal.KeyEvent
		events []event.AppEvent
		exit   ExitReason
		open   bool
	}{
		{"y quits", keyRune('y'), []event.AppEvent{event.CloseCurrentModal, event.Quit}, ExitQuit, false},
		{"d detaches", keyRune('d'), []event.AppEvent{event.CloseCurrentModal, event.Detach}, ExitDetach, false},
		{"n cancels", keyRune('n'), []event.AppEvent{event.CloseCurrentModal}, ExitNone, false},
		{"escape cancels", terminal.KeyEvent{Key: terminal.KeyEscape}, []event.AppEvent{event.CloseCurrentModal}, ExitNone, false},
		{"other key keeps modal", keyRune('x'), nil, ExitNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, rx := newTestApp(t, sim.New(80, 24))
			a.HandleTerminalEvent(keyRune('q'))

			a.HandleTerminalEvent(tt.key)

			events := rx.Drain()
			assert.Equal(t, tt.events, events)
			for _, ev := range events {
				a.HandleAppEvent(ev)
			}
			assert.Equal(t, tt.exit, a.Exit())
			_, open := a.ActiveModal()
			assert.Equal(t, tt.open, open)
		})
	}
}

func TestHandleAppEvent_CloseWithoutModal(t *testing.T) {
	a, _ := newTestApp(t, sim.New(80, 24))

	a.HandleAppEvent(event.CloseCurrentModal)

	assert.Equal(t, ExitNone, a.Exit())
	assert.True(t, a.action.RenderRequested())
}

func TestHandleAppEvent_Unknown(t *testing.T) {
	a, _ := newTestApp(t, sim.New(80, 24))
	a.HandleAppEvent(event.AppEvent(99))
	assert.Equal(t, ExitNone, a.Exit())
}

func TestDrainStopsAtExit(t *testing.T) {
	tx, rx := event.New()
	a, err := New(Config{Backend: sim.New(80, 24), Sender: tx, Receiver: rx, Theme: theme.Mono()})
	require.NoError(t, err)

	require.NoError(t, tx.Send(event.Detach))
	require.NoError(t, tx.Send(event.Quit))

	a.drainAppEvents()

	assert.Equal(t, ExitDetach, a.Exit())
	assert.Equal(t, 1, rx.Len())
}

func TestRender_StatusAndModal(t *testing.T) {
	a, _ := newTestApp(t, sim.New(80, 24))
	a.resize(80, 24)

	drawStatus(a.Buffer(), a.State(), a.theme)
	screen := rows(a)
	assert.Contains(t, screen, " staging ")
	assert.Contains(t, screen, "upstream  10.0.0.5:9000")
	assert.Contains(t, screen, "status    connected")
	assert.Contains(t, screen, "session   01test")
	assert.Contains(t, screen, statusHint)

	a.HandleTerminalEvent(keyRune('q'))
	a.slot.Render(a.Buffer())
	screen = rows(a)
	assert.Contains(t, screen, "<y> - quit")
	assert.Contains(t, screen, "<d> - detach")
	assert.Contains(t, screen, "<Escape> - cancel")
}

func TestDrawStatus_TinyFrames(t *testing.T) {
	a, _ := newTestApp(t, sim.New(80, 24))
	for _, size := range [][2]int{{0, 0}, {3, 2}, {4, 3}, {12, 4}} {
		a.resize(size[0], size[1])
		assert.NotPanics(t, func() {
			drawStatus(a.Buffer(), a.State(), a.theme)
		})
	}
}

func rows(a *App) string {
	_, h := a.Buffer().Size()
	var sb strings.Builder
	for y := 0; y < h; y++ {
		sb.WriteString(a.Buffer().Row(y))
		sb.WriteByte('\n')
	}
	return sb.String()
}

type runResult struct {
	reason ExitReason
	err    error
}

func startRun(t *testing.T, a *App) (<-chan runResult, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan runResult, 1)
	go func() {
		reason, err := a.Run(ctx)
		done <- runResult{reason, err}
	}()
	t.Cleanup(cancel)
	return done, cancel
}

func waitRun(t *testing.T, done <-chan runResult) runResult {
	t.Helper()
	select {
	case res := <-done:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return runResult{}
	}
}

func waitForText(t *testing.T, b *sim.Backend, text string, present bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		return b.ContainsText(text) == present
	}, 5*time.Second, 10*time.Millisecond, "waiting for %q present=%v", text, present)
}

func TestRun_QuitFlow(t *testing.T) {
	b := sim.New(80, 25)
	a, rx := newTestApp(t, b)
	done, _ := startRun(t, a)

	waitForText(t, b, statusHint, true)
	b.InjectKeyRune('q')
	waitForText(t, b, "<y> - quit", true)
	b.InjectKeyRune('y')

	res := waitRun(t, done)
	require.NoError(t, res.err)
	assert.Equal(t, ExitQuit, res.reason)
	assert.True(t, rx.Closed())
}

func TestRun_DetachFlow(t *testing.T) {
	b := sim.New(80, 25)
	a, _ := newTestApp(t, b)
	done, _ := startRun(t, a)

	waitForText(t, b, statusHint, true)
	b.InjectKeyRune('q')
	waitForText(t, b, "<d> - detach", true)
	b.InjectKeyRune('d')

	res := waitRun(t, done)
	require.NoError(t, res.err)
	assert.Equal(t, ExitDetach, res.reason)
}

func TestRun_EscapeClosesModal(t *testing.T) {
	b := sim.New(80, 25)
	a, _ := newTestApp(t, b)
	done, cancel := startRun(t, a)

	waitForText(t, b, statusHint, true)
	b.InjectKeyRune('q')
	waitForText(t, b, "<Escape> - cancel", true)
	b.InjectKey(terminal.KeyEscape)
	waitForText(t, b, "<Escape> - cancel", false)
	assert.True(t, b.ContainsText(statusHint))

	cancel()
	res := waitRun(t, done)
	require.NoError(t, res.err)
	assert.Equal(t, ExitCanceled, res.reason)
}

func TestRun_ExternalProducer(t *testing.T) {
	b := sim.New(80, 25)
	tx, rx := event.New()
	a, err := New(Config{Backend: b, Sender: tx, Receiver: rx, Theme: theme.Mono()})
	require.NoError(t, err)
	done, _ := startRun(t, a)

	waitForText(t, b, statusHint, true)
	require.NoError(t, tx.Send(event.Detach))

	res := waitRun(t, done)
	assert.Equal(t, ExitDetach, res.reason)
	assert.ErrorIs(t, tx.Send(event.Quit), event.ErrReceiverClosed)
}

type failingBackend struct {
	backend.Backend
}

func (failingBackend) Init() error { return errors.New("no tty") }

func TestRun_InitFailure(t *testing.T) {
	a, rx := newTestApp(t, failingBackend{Backend: sim.New(10, 5)})

	reason, err := a.Run(context.Background())

	assert.Equal(t, ExitNone, reason)
	assert.True(t, ierrors.IsCode(err, ierrors.ErrCodeTerminalInit))
	assert.Equal(t, "interpose could not initialize the terminal", ierrors.UserMessage(err))
	assert.True(t, rx.Closed())
}
