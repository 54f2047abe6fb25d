package simhost

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-ocre/ocre-sdk-go/core/event"
	"github.com/project-ocre/ocre-sdk-go/core/oerr"
	"github.com/project-ocre/ocre-sdk-go/host"
	"github.com/project-ocre/ocre-sdk-go/pkg/config"
)

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// waitEvent polls NextEvent until an event arrives or the deadline passes.
func waitEvent(t *testing.T, h *Host, timeout time.Duration) event.Raw {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		ev, err := h.NextEvent()
		if err == nil {
			return ev
		}
		require.ErrorIs(t, err, oerr.ErrNotAvailable)
		time.Sleep(time.Millisecond)
	}
	t.Fatal("no event before deadline")
	return event.Raw{}
}

func TestNextEventEmpty(t *testing.T) {
	h := New(quiet())
	_, err := h.NextEvent()
	assert.ErrorIs(t, err, oerr.ErrNotAvailable)
}

func TestTimerFires(t *testing.T) {
	h := New(quiet())

	require.NoError(t, h.TimerCreate(3))
	assert.ErrorIs(t, h.TimerCreate(3), oerr.ErrBusy)
	require.NoError(t, h.TimerStart(3, 5*time.Millisecond, false))

	ev := waitEvent(t, h, time.Second)
	assert.Equal(t, event.TypeTimer, ev.Type)
	assert.Equal(t, uint32(3), ev.ID)

	// One-shot: nothing further.
	time.Sleep(20 * time.Millisecond)
	_, err := h.NextEvent()
	assert.ErrorIs(t, err, oerr.ErrNotAvailable)
}

func TestPeriodicTimer(t *testing.T) {
	h := New(quiet())

	require.NoError(t, h.TimerCreate(1))
	require.NoError(t, h.TimerStart(1, 5*time.Millisecond, true))

	waitEvent(t, h, time.Second)
	waitEvent(t, h, time.Second)

	require.NoError(t, h.TimerStop(1))
	require.NoError(t, h.TimerDelete(1))
	assert.ErrorIs(t, h.TimerStop(1), oerr.ErrNotFound)
}

func TestWatchedPinDeliversEdges(t *testing.T) {
	h := New(quiet())

	require.NoError(t, h.GPIOWatch(2, 13))
	h.TriggerPin(2, 13, host.PinSet)

	ev := waitEvent(t, h, time.Second)
	assert.Equal(t, event.TypeGPIO, ev.Type)
	assert.Equal(t, uint32(13), ev.ID)
	assert.Equal(t, uint32(2), ev.Port)
	assert.Equal(t, uint32(host.PinSet), ev.State)

	// Same state again is not an edge.
	h.TriggerPin(2, 13, host.PinSet)
	_, err := h.NextEvent()
	assert.ErrorIs(t, err, oerr.ErrNotAvailable)

	// Unwatched pins stay silent.
	require.NoError(t, h.GPIOUnwatch(2, 13))
	h.TriggerPin(2, 13, host.PinReset)
	_, err = h.NextEvent()
	assert.ErrorIs(t, err, oerr.ErrNotAvailable)
}

func TestGPIOStateRoundTrip(t *testing.T) {
	h := New(quiet())

	require.NoError(t, h.GPIOSet(7, 7, host.PinSet))
	state, err := h.GPIOGet(7, 7)
	require.NoError(t, err)
	assert.Equal(t, host.PinSet, state)

	require.NoError(t, h.GPIOToggle(7, 7))
	state, err = h.GPIOGet(7, 7)
	require.NoError(t, err)
	assert.Equal(t, host.PinReset, state)
}

func TestLoopbackMessaging(t *testing.T) {
	bus := NewBus()
	pub := New(quiet(), WithBus(bus))
	sub := New(quiet(), WithBus(bus))

	require.NoError(t, sub.Subscribe("temperature/"))
	require.NoError(t, pub.Publish("temperature/outside", "text/plain", []byte("21")))

	ev := waitEvent(t, sub, time.Second)
	require.Equal(t, event.TypeMessage, ev.Type)
	assert.Equal(t, []byte("temperature/outside\x00"), ev.Topic)
	assert.Equal(t, []byte("text/plain\x00"), ev.ContentType)
	assert.Equal(t, []byte("21"), ev.Payload)

	// The publisher has no subscription, so nothing loops back to it.
	_, err := pub.NextEvent()
	assert.ErrorIs(t, err, oerr.ErrNotAvailable)

	// Releasing hands the buffers back; a second release is an error.
	require.NoError(t, sub.ReleaseMessageData(ev))
	assert.ErrorIs(t, sub.ReleaseMessageData(ev), oerr.ErrNotFound)
}

func TestNonMatchingTopicNotDelivered(t *testing.T) {
	h := New(quiet())
	require.NoError(t, h.Subscribe("a/b"))
	require.NoError(t, h.Publish("a/x", "text/plain", nil))

	_, err := h.NextEvent()
	assert.ErrorIs(t, err, oerr.ErrNotAvailable)
}

func TestScenarioSensors(t *testing.T) {
	sc, err := config.ParseScenario([]byte(`
pins:
  - {port: 7, pin: 7, state: 1}
sensors:
  - id: 0
    name: sim-temp
    channels:
      - {type: 13, value: 21.5}
`))
	require.NoError(t, err)

	h := New(quiet(), WithScenario(sc))

	state, err := h.GPIOGet(7, 7)
	require.NoError(t, err)
	assert.Equal(t, host.PinSet, state)

	n, err := h.SensorsDiscover()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, h.SensorOpen(0))
	count, err := h.SensorChannelCount(0)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	typ, err := h.SensorChannelType(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 13, typ)

	v, err := h.SensorRead(0, 13)
	require.NoError(t, err)
	assert.Equal(t, 21.5, v)

	_, err = h.SensorRead(0, 99)
	assert.ErrorIs(t, err, oerr.ErrNotFound)
	_, err = h.SensorRead(5, 13)
	assert.ErrorIs(t, err, oerr.ErrNotFound)
}

func TestButtonScript(t *testing.T) {
	h := New(quiet())
	require.NoError(t, h.GPIOWatch(2, 13))
	h.TriggerPin(2, 13, host.PinSet) // idle high
	waitEvent(t, h, time.Second)     // consume the initial edge

	stop := h.RunButtonScript([]config.Button{
		{Port: 2, Pin: 13, PressAfterMS: 5, HoldMS: 5},
	})
	defer stop()

	press := waitEvent(t, h, time.Second)
	assert.Equal(t, uint32(host.PinReset), press.State)

	release := waitEvent(t, h, time.Second)
	assert.Equal(t, uint32(host.PinSet), release.State)
}
