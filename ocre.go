// Package ocre is the device-side SDK for the Ocre WASM-hosted embedded
// runtime.
//
// An application constructs an SDK over a host boundary, registers callbacks
// for the resources it cares about, then drives the cooperative event loop:
//
//	sdk := ocre.New(h)
//	sdk.RegisterTimerCallback(1, blink)
//	sdk.TimerCreate(1)
//	sdk.TimerStart(1, time.Second, true)
//	for {
//		sdk.ProcessEvents()
//	}
//
// Everything is single-threaded: callbacks run synchronously inside
// ProcessEvents, and a callback that blocks starves every other pending
// event until it returns.
package ocre

import (
	"log/slog"
	"time"

	"github.com/project-ocre/ocre-sdk-go/core/event"
	"github.com/project-ocre/ocre-sdk-go/core/olog"
	"github.com/project-ocre/ocre-sdk-go/core/registry"
	"github.com/project-ocre/ocre-sdk-go/host"
)

// Version is the SDK version.
const Version = "1.0.0"

// Limits are the fixed capacities and poll pacing of an SDK instance. They
// are set at construction and never change afterwards.
type Limits struct {
	// MaxCallbacks is the slot count of each callback table.
	MaxCallbacks int
	// PinsPerPort bounds valid GPIO pin numbers, exclusive.
	PinsPerPort int
	// MaxPorts bounds valid GPIO port numbers, exclusive.
	MaxPorts int
	// MaxTopicLen bounds stored and decoded topic strings, in bytes.
	MaxTopicLen int
	// MaxContentTypeLen bounds decoded content-type strings, in bytes.
	MaxContentTypeLen int
	// MaxPayloadLen bounds decoded message payloads, in bytes.
	MaxPayloadLen int
	// BatchSize is the most events one ProcessEvents call drains.
	BatchSize int
	// PollDelay is slept after each processed event.
	PollDelay time.Duration
	// IdleDelay is slept once when a ProcessEvents call finds no events.
	IdleDelay time.Duration
}

// DefaultLimits returns the limits of the reference runtime.
func DefaultLimits() Limits {
	return Limits{
		MaxCallbacks:      64,
		PinsPerPort:       16,
		MaxPorts:          8,
		MaxTopicLen:       128,
		MaxContentTypeLen: 128,
		MaxPayloadLen:     1024,
		BatchSize:         5,
		PollDelay:         10 * time.Millisecond,
		IdleDelay:         10 * time.Millisecond,
	}
}

// SDK is the dispatch context. It owns the callback tables and the decode
// buffers, and routes host events to registered callbacks.
//
// An SDK is not safe for concurrent use. Construct it at startup, use it
// from one goroutine.
type SDK struct {
	host   host.Host
	logger *slog.Logger
	limits Limits

	timers   *registry.Timers
	gpio     *registry.GPIO
	messages *registry.Messages

	// wired tracks the one-time per-type dispatcher registration with the
	// host. Never reset.
	wired [event.TypeCount]bool

	// Decode buffers, reused across poll cycles. Message callbacks must not
	// retain the payload slice beyond the callback.
	topicBuf   []byte
	contentBuf []byte
	payloadBuf []byte
}

// New constructs an SDK over h. It panics if h is nil; everything else is
// reported through error returns.
func New(h host.Host, opts ...Option) *SDK {
	if h == nil {
		panic("ocre: nil host")
	}
	s := &SDK{
		host:   h,
		logger: olog.Default(),
		limits: DefaultLimits(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.timers = registry.NewTimers(s.limits.MaxCallbacks)
	s.gpio = registry.NewGPIO(s.limits.MaxCallbacks)
	s.messages = registry.NewMessages(s.limits.MaxCallbacks)
	s.topicBuf = make([]byte, s.limits.MaxTopicLen)
	s.contentBuf = make([]byte, s.limits.MaxContentTypeLen)
	s.payloadBuf = make([]byte, s.limits.MaxPayloadLen)
	return s
}

// Limits returns the limits the SDK was built with.
func (s *SDK) Limits() Limits { return s.limits }

// Sleep yields to the host scheduler for the given duration.
func (s *SDK) Sleep(d time.Duration) { s.host.Sleep(d) }
