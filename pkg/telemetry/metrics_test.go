package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/interpose/pkg/event"
	"github.com/odvcencio/interpose/pkg/ui/terminal"
)

func TestObserveInput(t *testing.T) {
	m := New()

	m.ObserveInput(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'y'}, true)
	m.ObserveInput(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'q'}, true)
	m.ObserveInput(terminal.ResizeEvent{Width: 80, Height: 30}, false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.inputs.WithLabelValues("key", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inputs.WithLabelValues("resize", "false")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inputs.WithLabelValues("mouse", "true")))
}

func TestInstrumentSender(t *testing.T) {
	m := New()
	tx, rx := event.New()
	sender := InstrumentSender(tx, m)

	require.NoError(t, sender.Send(event.CloseCurrentModal))
	require.NoError(t, sender.Send(event.Quit))
	assert.Equal(t, []event.AppEvent{event.CloseCurrentModal, event.Quit}, rx.Drain())

	rx.Close()
	assert.ErrorIs(t, sender.Send(event.Detach), event.ErrReceiverClosed)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsSent.WithLabelValues("close_current_modal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsSent.WithLabelValues("quit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sendFailures.WithLabelValues("detach")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.eventsSent.WithLabelValues("detach")))
}

func TestInstrumentSender_NilMetrics(t *testing.T) {
	tx, _ := event.New()
	assert.Same(t, tx, InstrumentSender(tx, nil))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveInput(terminal.PasteEvent{}, true)
		m.ObserveSend(event.Quit, nil)
		m.ObserveHandled(event.Quit)
		m.ObserveRender()
		m.ObserveModalOpened()
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile("/nonexistent/x.prom"))
}

func TestCounters(t *testing.T) {
	m := New()
	m.ObserveRender()
	m.ObserveRender()
	m.ObserveModalOpened()
	m.ObserveHandled(event.CloseCurrentModal)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.renders))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.modalsOpened))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsHandled.WithLabelValues("close_current_modal")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveRender()
	m.ObserveModalOpened()

	path := filepath.Join(t.TempDir(), "interpose.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.Contains(out, "interpose_renders_total 1"), out)
	assert.True(t, strings.Contains(out, "interpose_modals_opened_total 1"), out)
}

func TestRegistryGather(t *testing.T) {
	m := New()
	m.ObserveRender()

	count, err := testutil.GatherAndCount(m.Registry(), "interpose_renders_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
