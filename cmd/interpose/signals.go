package main

import (
	"context"
	stderrors "errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/odvcencio/interpose/pkg/event"
	"github.com/odvcencio/interpose/pkg/logging"
)

func notifySignals() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 4)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	return ch, func() { signal.Stop(ch) }
}

// eventForSignal maps a process signal to the lifecycle event it requests.
// A hangup means the terminal went away, so the session is kept running.
func eventForSignal(sig os.Signal) (event.AppEvent, bool) {
	switch sig {
	case os.Interrupt, syscall.SIGTERM:
		return event.Quit, true
	case syscall.SIGHUP:
		return event.Detach, true
	default:
		return 0, false
	}
}

// watchSignals forwards signals to the loop as app events until ctx is done
// or the loop has stopped receiving.
func watchSignals(ctx context.Context, sender event.Sender, sigs <-chan os.Signal, logger *logging.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigs:
			ev, ok := eventForSignal(sig)
			if !ok {
				continue
			}
			_ = logger.Info(logging.CategorySession, "signal", sig.String(), map[string]any{
				"event": ev.String(),
			})
			if err := sender.Send(ev); err != nil {
				if stderrors.Is(err, event.ErrReceiverClosed) {
					return nil
				}
				return err
			}
		}
	}
}
