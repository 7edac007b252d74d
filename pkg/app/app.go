// Package app runs the interpose UI loop: it owns the global state, the
// modal slot and the event receiver, routes terminal input and renders.
package app

import (
	"context"

	"github.com/odvcencio/interpose/pkg/errors"
	"github.com/odvcencio/interpose/pkg/event"
	"github.com/odvcencio/interpose/pkg/logging"
	"github.com/odvcencio/interpose/pkg/state"
	"github.com/odvcencio/interpose/pkg/telemetry"
	"github.com/odvcencio/interpose/pkg/ui/backend"
	"github.com/odvcencio/interpose/pkg/ui/modal"
	"github.com/odvcencio/interpose/pkg/ui/runtime"
	"github.com/odvcencio/interpose/pkg/ui/terminal"
	"github.com/odvcencio/interpose/pkg/ui/theme"
)

// ExitReason says why Run returned.
type ExitReason int

const (
	ExitNone ExitReason = iota
	ExitQuit
	ExitDetach
	ExitCanceled
)

func (r ExitReason) String() string {
	switch r {
	case ExitQuit:
		return "quit"
	case ExitDetach:
		return "detach"
	case ExitCanceled:
		return "canceled"
	default:
		return "none"
	}
}

// Config configures an App.
type Config struct {
	Backend  backend.Backend
	Sender   event.Sender
	Receiver *event.Receiver
	Logger   *logging.Logger
	Metrics  *telemetry.Metrics
	Theme    *theme.Theme
	State    *state.State
}

// App is the main loop. All methods run on the loop goroutine.
type App struct {
	backend  backend.Backend
	sender   event.Sender
	receiver *event.Receiver
	logger   *logging.Logger
	metrics  *telemetry.Metrics
	theme    *theme.Theme
	state    *state.State

	slot   modal.Slot
	action runtime.LoopAction
	buffer *runtime.Buffer
	exit   ExitReason
}

// New validates cfg and builds an App. Sends made through the app (and the
// modals it opens) are counted when Metrics is set.
func New(cfg Config) (*App, error) {
	if cfg.Backend == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "backend is required")
	}
	if cfg.Sender == nil || cfg.Receiver == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "event sender and receiver are required")
	}
	th := cfg.Theme
	if th == nil {
		th = theme.Detect()
	}
	st := cfg.State
	if st == nil {
		st = &state.State{}
	}
	return &App{
		backend:  cfg.Backend,
		sender:   telemetry.InstrumentSender(cfg.Sender, cfg.Metrics),
		receiver: cfg.Receiver,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		theme:    th,
		state:    st,
		buffer:   runtime.NewBuffer(st.Width, st.Height),
	}, nil
}

// State returns the loop-owned state.
func (a *App) State() *state.State {
	return a.state
}

// Buffer returns the frame the loop renders into.
func (a *App) Buffer() *runtime.Buffer {
	return a.buffer
}

// ActiveModal returns the modal currently holding input focus.
func (a *App) ActiveModal() (modal.Modal, bool) {
	return a.slot.Active()
}

// Exit returns the exit decision made so far.
func (a *App) Exit() ExitReason {
	return a.exit
}

// Run drives the loop until the user quits or detaches, ctx is canceled, or
// the terminal goes away. The event receiver is closed on return.
func (a *App) Run(ctx context.Context) (ExitReason, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	defer a.receiver.Close()

	if err := a.backend.Init(); err != nil {
		_ = a.logger.Error(logging.CategoryTerminal, "init_failed", "terminal init failed", map[string]any{
			"error": err.Error(),
		})
		return ExitNone, errors.Wrap(err, errors.ErrCodeTerminalInit, "init terminal").
			WithUserMessage("interpose could not initialize the terminal")
	}
	defer a.backend.Fini()

	a.backend.HideCursor()
	w, h := a.backend.Size()
	a.resize(w, h)

	_ = a.logger.Info(logging.CategorySession, "started", "ui loop started", map[string]any{
		"session": a.state.SessionName,
		"width":   w,
		"height":  h,
	})

	inputs := make(chan terminal.Event, 64)
	stop := make(chan struct{})
	defer close(stop)
	go a.pollEvents(inputs, stop)

	a.exit = ExitNone
	a.action.Render()
	for a.exit == ExitNone {
		if a.action.RenderRequested() {
			a.render()
			a.action.Reset()
		}

		select {
		case <-ctx.Done():
			a.exit = ExitCanceled
		case ev, ok := <-inputs:
			if !ok {
				a.exit = ExitCanceled
				break
			}
			a.HandleTerminalEvent(ev)
		case <-a.receiver.Ready():
			a.drainAppEvents()
		}
	}

	_ = a.logger.Info(logging.CategorySession, "stopped", "ui loop stopped", map[string]any{
		"reason": a.exit.String(),
	})
	return a.exit, nil
}

// pollEvents forwards terminal input to the loop until the backend is
// finalized or the loop stops.
func (a *App) pollEvents(out chan<- terminal.Event, stop <-chan struct{}) {
	defer close(out)
	for {
		ev := a.backend.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-stop:
			return
		}
	}
}

func (a *App) drainAppEvents() {
	for a.exit == ExitNone {
		ev, ok := a.receiver.TryRecv()
		if !ok {
			return
		}
		a.HandleAppEvent(ev)
	}
}

// HandleTerminalEvent routes one terminal event. The active modal sees it
// first; only events it does not consume reach the main view.
func (a *App) HandleTerminalEvent(ev terminal.Event) {
	consumed := a.slot.HandleInput(a.state, &a.action, ev)
	a.metrics.ObserveInput(ev, consumed)
	if consumed {
		return
	}

	switch e := ev.(type) {
	case terminal.ResizeEvent:
		a.resize(e.Width, e.Height)
		a.action.Render()
	case terminal.KeyEvent:
		if e.IsRune('q') || isInterrupt(e) {
			a.openQuitModal()
		}
	case terminal.FocusEvent:
		_ = a.logger.Debug(logging.CategoryTerminal, terminal.Kind(e), "", nil)
	}
}

// HandleAppEvent applies one lifecycle event from the channel.
func (a *App) HandleAppEvent(ev event.AppEvent) {
	a.metrics.ObserveHandled(ev)
	_ = a.logger.Debug(logging.CategoryEvent, "received", ev.String(), nil)

	switch ev {
	case event.CloseCurrentModal:
		if a.slot.Close() {
			_ = a.logger.Info(logging.CategoryModal, "closed", "modal closed", nil)
		}
		a.action.Render()
	case event.Quit:
		a.exit = ExitQuit
	case event.Detach:
		a.exit = ExitDetach
	default:
		_ = a.logger.Warn(logging.CategoryEvent, "unknown", "ignoring unknown app event", map[string]any{
			"event": int(ev),
		})
	}
}

func (a *App) openQuitModal() {
	m := modal.NewQuitModal(a.sender, a.logger, modal.WithTheme(a.theme))
	if err := a.slot.Open(m); err != nil {
		_ = a.logger.Debug(logging.CategoryModal, "open_rejected", err.Error(), nil)
		return
	}
	a.metrics.ObserveModalOpened()
	_ = a.logger.Info(logging.CategoryModal, "opened", "quit confirmation opened", nil)
	a.action.Render()
}

func (a *App) resize(w, h int) {
	a.state.Resize(w, h)
	a.buffer.Resize(a.state.Width, a.state.Height)
}

func (a *App) render() {
	a.buffer.Clear()
	drawStatus(a.buffer, a.state, a.theme)
	a.slot.Render(a.buffer)
	a.buffer.Flush(a.backend)
	a.backend.Show()
	a.metrics.ObserveRender()
}

// isInterrupt matches Ctrl-C however the terminal reports it. Alt, Shift
// and Meta still disqualify it.
func isInterrupt(e terminal.KeyEvent) bool {
	if e.Alt || e.Shift || e.Meta {
		return false
	}
	if e.Key == terminal.KeyCtrlC {
		return true
	}
	return e.Key == terminal.KeyRune && e.Ctrl && (e.Rune == 'c' || e.Rune == 'C')
}
