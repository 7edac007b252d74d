package event

import (
	"context"
	"sync"

	"github.com/odvcencio/interpose/pkg/errors"
)

// ErrReceiverClosed is returned by Send once the consumer has gone away.
var ErrReceiverClosed = errors.New(errors.ErrCodeChannelClosed, "event receiver closed")

// Sender is the producer side of the event channel. Send never blocks.
type Sender interface {
	Send(ev AppEvent) error
}

// queue is an unbounded FIFO shared by any number of senders and exactly one
// receiver. ready holds at most one token and is signalled whenever the
// queue goes from empty to non-empty.
type queue struct {
	mu     sync.Mutex
	items  []AppEvent
	closed bool
	ready  chan struct{}
}

// New creates an unbounded channel and returns its two ends. The Sender may
// be shared across goroutines; the Receiver must have a single consumer.
func New() (*ChannelSender, *Receiver) {
	q := &queue{ready: make(chan struct{}, 1)}
	return &ChannelSender{q: q}, &Receiver{q: q}
}

// ChannelSender is the Sender backed by an unbounded queue.
type ChannelSender struct {
	q *queue
}

// Send appends ev to the queue. It fails only when the receiver is closed.
func (s *ChannelSender) Send(ev AppEvent) error {
	q := s.q
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrReceiverClosed
	}
	q.items = append(q.items, ev)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return nil
}

// Receiver is the single-consumer end of the channel.
type Receiver struct {
	q *queue
}

// Ready is signalled when events may be available. After a signal, drain
// with TryRecv until it reports false.
func (r *Receiver) Ready() <-chan struct{} {
	return r.q.ready
}

// TryRecv pops the oldest event without blocking.
func (r *Receiver) TryRecv() (AppEvent, bool) {
	q := r.q
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return 0, false
	}
	ev := q.items[0]
	q.items[0] = 0
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return ev, true
}

// Recv blocks until an event is available or ctx is done.
func (r *Receiver) Recv(ctx context.Context) (AppEvent, error) {
	for {
		if ev, ok := r.TryRecv(); ok {
			return ev, nil
		}
		if r.Closed() {
			return 0, ErrReceiverClosed
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-r.q.ready:
		}
	}
}

// Drain pops every queued event in FIFO order.
func (r *Receiver) Drain() []AppEvent {
	var out []AppEvent
	for {
		ev, ok := r.TryRecv()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

// Len returns the number of queued events.
func (r *Receiver) Len() int {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	return len(r.q.items)
}

// Close tears down the consumer. Queued events are discarded and every later
// Send fails with ErrReceiverClosed. Close is idempotent.
func (r *Receiver) Close() {
	q := r.q
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.items = nil
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Closed reports whether Close has been called.
func (r *Receiver) Closed() bool {
	r.q.mu.Lock()
	defer r.q.mu.Unlock()
	return r.q.closed
}

var _ Sender = (*ChannelSender)(nil)
