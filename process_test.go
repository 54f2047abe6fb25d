package ocre

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-ocre/ocre-sdk-go/core/event"
	"github.com/project-ocre/ocre-sdk-go/core/oerr"
	"github.com/project-ocre/ocre-sdk-go/host"
)

func TestIdlePollSleepsOnce(t *testing.T) {
	s, m := newTestSDK(t)

	s.ProcessEvents()

	assert.Equal(t, 1, m.SleepCount(), "an empty poll costs one idle delay, not the batch limit's worth")
	assert.Equal(t, s.Limits().IdleDelay, m.Sleeps[0])
}

func TestBatchLimit(t *testing.T) {
	s, m := newTestSDK(t)

	calls := 0
	require.NoError(t, s.RegisterTimerCallback(1, func() { calls++ }))
	for i := 0; i < 7; i++ {
		m.EnqueueTimer(1)
	}

	s.ProcessEvents()
	assert.Equal(t, 5, calls, "one call drains at most the batch limit")
	assert.Equal(t, 2, m.Pending())
	assert.Equal(t, 5, m.SleepCount(), "one poll delay per processed event, no idle delay")

	s.ProcessEvents()
	assert.Equal(t, 7, calls)
	assert.Equal(t, 0, m.Pending())
}

func TestHostOrderPreserved(t *testing.T) {
	s, m := newTestSDK(t)

	var order []string
	require.NoError(t, s.RegisterTimerCallback(1, func() { order = append(order, "timer") }))
	require.NoError(t, s.RegisterGPIOCallback(2, 0, func() { order = append(order, "gpio") }))
	require.NoError(t, s.RegisterMessageCallback("t", func(string, string, []byte) { order = append(order, "message") }))

	m.EnqueueGPIO(2, 0, host.PinSet)
	m.EnqueueTimer(1)
	m.EnqueueMessage(1, "t", "text/plain", []byte("x"))

	s.ProcessEvents()
	assert.Equal(t, []string{"gpio", "timer", "message"}, order)
}

func TestUnknownEventTypeIgnored(t *testing.T) {
	s, m := newTestSDK(t)

	fired := false
	require.NoError(t, s.RegisterTimerCallback(1, func() { fired = true }))

	m.EnqueueRaw(event.Raw{Type: event.Type(42), ID: 1})
	m.EnqueueTimer(1)

	s.ProcessEvents()
	assert.True(t, fired, "events after an unknown type still dispatch")
}

func TestSensorEventIgnored(t *testing.T) {
	s, m := newTestSDK(t)

	m.EnqueueRaw(event.Raw{Type: event.TypeSensor, ID: 3})
	s.ProcessEvents()
	assert.Equal(t, 0, m.Pending())
}

func TestPullFailureEndsBatch(t *testing.T) {
	s, m := newTestSDK(t)
	m.NextErr = oerr.ErrBusy

	s.ProcessEvents()
	// Treated as "no more events now": idle delay applies, nothing fatal.
	assert.Equal(t, 1, m.SleepCount())
}

func TestMessageCopiedBeforeRelease(t *testing.T) {
	s, m := newTestSDK(t)

	var gotTopic, gotContent string
	var gotPayload []byte
	require.NoError(t, s.RegisterMessageCallback("sensor", func(topic, contentType string, payload []byte) {
		m.Record("callback")
		gotTopic = topic
		gotContent = contentType
		gotPayload = append([]byte(nil), payload...)
	}))

	topicRef, contentRef, payloadRef := m.EnqueueMessage(9, "sensor/temp", "application/json", []byte(`{"c":21}`))
	s.ProcessEvents()

	// The mock zeroes its buffers on release. Intact values in the callback
	// prove the decoder copied before releasing.
	assert.Equal(t, "sensor/temp", gotTopic)
	assert.Equal(t, "application/json", gotContent)
	assert.Equal(t, []byte(`{"c":21}`), gotPayload)
	assert.True(t, m.Released(topicRef))
	assert.True(t, m.Released(contentRef))
	assert.True(t, m.Released(payloadRef))

	releaseIdx, callbackIdx := -1, -1
	for i, c := range m.Calls {
		if strings.HasPrefix(c, "release:") {
			releaseIdx = i
		}
		if c == "callback" {
			callbackIdx = i
		}
	}
	require.NotEqual(t, -1, releaseIdx)
	require.NotEqual(t, -1, callbackIdx)
	assert.Less(t, releaseIdx, callbackIdx, "release happens before the callback runs, on copies")
}

func TestMessageReleaseFailureStillDispatches(t *testing.T) {
	s, m := newTestSDK(t)
	m.ReleaseErr = oerr.ErrInvalid

	fired := false
	require.NoError(t, s.RegisterMessageCallback("a", func(string, string, []byte) { fired = true }))

	m.EnqueueMessage(1, "a/b", "text/plain", []byte("p"))
	s.ProcessEvents()
	assert.True(t, fired)
}

func TestMessagePrefixDispatch(t *testing.T) {
	s, m := newTestSDK(t)

	var got []string
	require.NoError(t, s.RegisterMessageCallback("a/b", func(topic, _ string, _ []byte) {
		got = append(got, topic)
	}))

	m.EnqueueMessage(1, "a/b/c", "text/plain", nil)
	m.EnqueueMessage(2, "a/x", "text/plain", nil)
	m.EnqueueMessage(3, "a/b", "text/plain", nil)

	s.ProcessEvents()
	assert.Equal(t, []string{"a/b/c", "a/b"}, got)
}

func TestPayloadTruncatedAtBound(t *testing.T) {
	s, m := newTestSDK(t, WithLimits(Limits{MaxPayloadLen: 8}))

	var got []byte
	require.NoError(t, s.RegisterMessageCallback("big", func(_, _ string, payload []byte) {
		got = append([]byte(nil), payload...)
	}))

	m.EnqueueMessage(1, "big", "application/octet-stream", []byte("0123456789abcdef"))
	s.ProcessEvents()
	assert.Equal(t, []byte("01234567"), got)
}

func TestButtonScenario(t *testing.T) {
	// The demo debounce pattern: the callback takes no arguments, reads the
	// pin back, and treats only the RESET edge as a press. Decode/dispatch
	// itself stays stateless.
	s, m := newTestSDK(t)

	const (
		buttonPin  = 13
		buttonPort = 2
	)

	presses := 0
	pressed := false
	require.NoError(t, s.RegisterGPIOCallback(buttonPin, buttonPort, func() {
		state, err := s.GPIOGet(buttonPort, buttonPin)
		require.NoError(t, err)
		if state == host.PinReset && !pressed {
			pressed = true
			presses++
		} else if state == host.PinSet {
			pressed = false
		}
	}))

	// Press: host reports the pin low.
	m.PinStates[[2]int{buttonPort, buttonPin}] = host.PinReset
	m.EnqueueGPIO(buttonPin, buttonPort, host.PinReset)
	s.ProcessEvents()
	assert.Equal(t, 1, presses)

	// Release edge is not a press.
	m.PinStates[[2]int{buttonPort, buttonPin}] = host.PinSet
	m.EnqueueGPIO(buttonPin, buttonPort, host.PinSet)
	s.ProcessEvents()
	assert.Equal(t, 1, presses)
}

func TestPassThroughCalls(t *testing.T) {
	s, m := newTestSDK(t)

	require.NoError(t, s.TimerCreate(1))
	require.NoError(t, s.TimerStart(1, time.Second, true))
	require.NoError(t, s.TimerStop(1))
	require.NoError(t, s.TimerDelete(1))
	require.NoError(t, s.GPIOInit())
	require.NoError(t, s.GPIOConfigure(7, 7, host.DirOutput))
	require.NoError(t, s.GPIOSet(7, 7, host.PinSet))
	require.NoError(t, s.GPIOToggle(7, 7))
	require.NoError(t, s.Publish("t", "text/plain", []byte("hi")))
	require.NoError(t, s.Subscribe("t"))
	require.NoError(t, s.SensorsInit())

	for _, want := range []string{
		"timer_create:1", "timer_start:1,1s,true", "timer_stop:1", "timer_delete:1",
		"gpio_init", "gpio_configure:7,7,1", "gpio_set:7,7,1", "gpio_toggle:7,7",
		"publish:t,text/plain,2", "subscribe:t", "sensors_init",
	} {
		assert.Contains(t, m.Calls, want)
	}
}
