package telemetry

import "github.com/odvcencio/interpose/pkg/event"

type instrumentedSender struct {
	next    event.Sender
	metrics *Metrics
}

// InstrumentSender wraps next so every send is counted. The error from next
// is returned unchanged.
func InstrumentSender(next event.Sender, m *Metrics) event.Sender {
	if m == nil {
		return next
	}
	return &instrumentedSender{next: next, metrics: m}
}

func (s *instrumentedSender) Send(ev event.AppEvent) error {
	err := s.next.Send(ev)
	s.metrics.ObserveSend(ev, err)
	return err
}
