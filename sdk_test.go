package ocre

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-ocre/ocre-sdk-go/core/oerr"
	"github.com/project-ocre/ocre-sdk-go/host"
	"github.com/project-ocre/ocre-sdk-go/host/hostmock"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSDK(t *testing.T, opts ...Option) (*SDK, *hostmock.Mock) {
	t.Helper()
	m := hostmock.New()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return New(m, opts...), m
}

func TestNewNilHostPanics(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}

func TestRegisterTimerCallbackValidation(t *testing.T) {
	s, _ := newTestSDK(t)

	assert.ErrorIs(t, s.RegisterTimerCallback(-1, func() {}), oerr.ErrInvalid)
	assert.ErrorIs(t, s.RegisterTimerCallback(s.Limits().MaxCallbacks, func() {}), oerr.ErrInvalid)
	assert.ErrorIs(t, s.RegisterTimerCallback(3, nil), oerr.ErrInvalid)
}

func TestTimerDispatch(t *testing.T) {
	s, m := newTestSDK(t)

	calls := 0
	other := 0
	require.NoError(t, s.RegisterTimerCallback(7, func() { calls++ }))
	require.NoError(t, s.RegisterTimerCallback(8, func() { other++ }))

	m.EnqueueTimer(7)
	s.ProcessEvents()

	assert.Equal(t, 1, calls, "registered callback fires exactly once")
	assert.Equal(t, 0, other, "unrelated callbacks stay quiet")
}

func TestTimerOverwriteSemantics(t *testing.T) {
	s, m := newTestSDK(t)

	first, second := 0, 0
	require.NoError(t, s.RegisterTimerCallback(4, func() { first++ }))
	require.NoError(t, s.RegisterTimerCallback(4, func() { second++ }))

	m.EnqueueTimer(4)
	s.ProcessEvents()

	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestUnregisterAbsentEntries(t *testing.T) {
	s, m := newTestSDK(t)

	assert.ErrorIs(t, s.UnregisterTimerCallback(5), oerr.ErrNotFound)
	assert.ErrorIs(t, s.UnregisterGPIOCallback(1, 1), oerr.ErrNotFound)
	assert.ErrorIs(t, s.UnregisterMessageCallback("nope"), oerr.ErrNotFound)

	// Registry state is untouched: a registered entry still dispatches.
	fired := false
	require.NoError(t, s.RegisterTimerCallback(1, func() { fired = true }))
	assert.ErrorIs(t, s.UnregisterTimerCallback(5), oerr.ErrNotFound)
	m.EnqueueTimer(1)
	s.ProcessEvents()
	assert.True(t, fired)
}

func TestUnregisteredTimerEventDropped(t *testing.T) {
	s, m := newTestSDK(t)

	fired := false
	require.NoError(t, s.RegisterTimerCallback(1, func() { fired = true }))
	require.NoError(t, s.UnregisterTimerCallback(1))

	m.EnqueueTimer(1)
	s.ProcessEvents()
	assert.False(t, fired)
}

func TestGPIOCapacityExhaustion(t *testing.T) {
	s, _ := newTestSDK(t, WithLimits(Limits{MaxCallbacks: 3}))

	require.NoError(t, s.RegisterGPIOCallback(0, 0, func() {}))
	require.NoError(t, s.RegisterGPIOCallback(1, 0, func() {}))
	require.NoError(t, s.RegisterGPIOCallback(2, 0, func() {}))

	err := s.RegisterGPIOCallback(3, 0, func() {})
	assert.ErrorIs(t, err, oerr.ErrNoCapacity)

	// Re-registering a present pair reuses its slot.
	assert.NoError(t, s.RegisterGPIOCallback(1, 0, func() {}))
}

func TestGPIORegistrationValidation(t *testing.T) {
	s, _ := newTestSDK(t)

	assert.ErrorIs(t, s.RegisterGPIOCallback(2, 1, nil), oerr.ErrInvalid)
	assert.ErrorIs(t, s.RegisterGPIOCallback(-1, 0, func() {}), oerr.ErrInvalid)
	assert.ErrorIs(t, s.RegisterGPIOCallback(s.Limits().PinsPerPort, 0, func() {}), oerr.ErrInvalid)
	assert.ErrorIs(t, s.RegisterGPIOCallback(0, s.Limits().MaxPorts, func() {}), oerr.ErrInvalid)
}

func TestGPIOWatchWiring(t *testing.T) {
	s, m := newTestSDK(t)

	require.NoError(t, s.RegisterGPIOCallback(13, 2, func() {}))
	assert.Contains(t, m.Calls, "gpio_watch:2,13")

	require.NoError(t, s.UnregisterGPIOCallback(13, 2))
	assert.Contains(t, m.Calls, "gpio_unwatch:2,13")
}

func TestGPIOWatchFailureRollsBack(t *testing.T) {
	s, m := newTestSDK(t)
	m.WatchErr = oerr.ErrBusy

	err := s.RegisterGPIOCallback(3, 1, func() {})
	assert.ErrorIs(t, err, oerr.ErrBusy)

	// The dead entry was not kept.
	fired := false
	m.WatchErr = nil
	require.NoError(t, s.RegisterGPIOCallback(0, 0, func() { fired = true }))
	m.EnqueueGPIO(3, 1, host.PinSet)
	s.ProcessEvents()
	assert.False(t, fired)
}

func TestMessageRegistrationValidation(t *testing.T) {
	s, _ := newTestSDK(t)

	assert.ErrorIs(t, s.RegisterMessageCallback("", func(string, string, []byte) {}), oerr.ErrInvalid)
	assert.ErrorIs(t, s.RegisterMessageCallback("topic", nil), oerr.ErrInvalid)
	assert.ErrorIs(t, s.UnregisterMessageCallback(""), oerr.ErrInvalid)
}

func TestDispatcherWiringOncePerType(t *testing.T) {
	s, m := newTestSDK(t)

	require.NoError(t, s.RegisterTimerCallback(0, func() {}))
	require.NoError(t, s.RegisterTimerCallback(1, func() {}))
	require.NoError(t, s.RegisterMessageCallback("a", func(string, string, []byte) {}))
	require.NoError(t, s.RegisterMessageCallback("b", func(string, string, []byte) {}))

	timerWirings := 0
	messageWirings := 0
	for _, c := range m.Calls {
		switch c {
		case "register_dispatcher:timer,timer_callback":
			timerWirings++
		case "register_dispatcher:message,message_callback":
			messageWirings++
		}
	}
	assert.Equal(t, 1, timerWirings)
	assert.Equal(t, 1, messageWirings)
}

func TestDispatcherWiringFailureSurfaces(t *testing.T) {
	s, m := newTestSDK(t)
	m.DispatcherErr = oerr.ErrInvalid

	assert.Error(t, s.RegisterTimerCallback(0, func() {}))

	// A later attempt retries the wiring.
	m.DispatcherErr = nil
	assert.NoError(t, s.RegisterTimerCallback(0, func() {}))
}

func TestTopicTruncationAtRegistration(t *testing.T) {
	s, m := newTestSDK(t, WithLimits(Limits{MaxTopicLen: 4}))

	got := ""
	require.NoError(t, s.RegisterMessageCallback("abcdef", func(topic, _ string, _ []byte) {
		got = topic
	}))

	// The stored prefix is "abcd", so a topic diverging beyond the
	// truncation point still matches. This is the documented collision.
	// The decoded topic is bounded by the same limit.
	m.EnqueueMessage(1, "abcdxy", "text/plain", nil)
	s.ProcessEvents()
	assert.Equal(t, "abcd", got)

	// Unregistering with the original long topic applies the same
	// truncation and finds the entry.
	assert.NoError(t, s.UnregisterMessageCallback("abcdef"))
}
