// Package telemetry counts UI activity with Prometheus collectors.
package telemetry

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/odvcencio/interpose/pkg/event"
	"github.com/odvcencio/interpose/pkg/ui/terminal"
)

const namespace = "interpose"

// Metrics groups the UI counters. Each instance owns its registry so tests
// and multiple loops never collide. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	inputs        *prometheus.CounterVec
	eventsSent    *prometheus.CounterVec
	sendFailures  *prometheus.CounterVec
	eventsHandled *prometheus.CounterVec
	renders       prometheus.Counter
	modalsOpened  prometheus.Counter
}

// New registers the UI collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		inputs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "terminal_inputs_total",
			Help:      "Terminal input events by kind and whether the active modal consumed them.",
		}, []string{"kind", "consumed"}),
		eventsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "app_events_sent_total",
			Help:      "Application events enqueued on the event channel.",
		}, []string{"event"}),
		sendFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "app_event_send_failures_total",
			Help:      "Application events rejected because the receiver was gone.",
		}, []string{"event"}),
		eventsHandled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "app_events_handled_total",
			Help:      "Application events processed by the main loop.",
		}, []string{"event"}),
		renders: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Render passes flushed to the terminal.",
		}),
		modalsOpened: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "modals_opened_total",
			Help:      "Modals placed into the active slot.",
		}),
	}
}

// Registry exposes the underlying registry as a gatherer.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveInput counts a terminal event routed through the loop.
func (m *Metrics) ObserveInput(ev terminal.Event, consumed bool) {
	if m == nil {
		return
	}
	m.inputs.WithLabelValues(terminal.Kind(ev), strconv.FormatBool(consumed)).Inc()
}

// ObserveSend counts a send attempt.
func (m *Metrics) ObserveSend(ev event.AppEvent, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.sendFailures.WithLabelValues(ev.String()).Inc()
		return
	}
	m.eventsSent.WithLabelValues(ev.String()).Inc()
}

// ObserveHandled counts an application event taken off the channel.
func (m *Metrics) ObserveHandled(ev event.AppEvent) {
	if m == nil {
		return
	}
	m.eventsHandled.WithLabelValues(ev.String()).Inc()
}

// ObserveRender counts a render pass.
func (m *Metrics) ObserveRender() {
	if m == nil {
		return
	}
	m.renders.Inc()
}

// ObserveModalOpened counts a modal entering the slot.
func (m *Metrics) ObserveModalOpened() {
	if m == nil {
		return
	}
	m.modalsOpened.Inc()
}

// WriteTextfile writes the current values in the Prometheus text format,
// for node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
