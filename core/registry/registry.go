// Package registry implements the fixed-capacity callback tables of the SDK.
//
// The tables never allocate after construction and never grow: capacity
// exhaustion is an observable contract, reported as oerr.ErrNoCapacity. All
// lookups are linear scans over a small constant number of slots, which on
// the embedded target beats hashing both in code size and in worst-case
// predictability.
//
// None of the tables is safe for concurrent use. The SDK is strictly
// single-threaded and cooperative, so no locking is applied here.
package registry

import (
	"github.com/project-ocre/ocre-sdk-go/core/oerr"
)

// MessageFunc is the stored shape of a message callback.
type MessageFunc func(topic, contentType string, payload []byte)

// Timers maps timer ids to callbacks by direct index. A given id holds at
// most one callback; re-registering replaces in place.
type Timers struct {
	slots []func()
}

// NewTimers returns a timer table with the given number of id slots.
func NewTimers(capacity int) *Timers {
	return &Timers{slots: make([]func(), capacity)}
}

// Cap returns the number of id slots.
func (t *Timers) Cap() int { return len(t.slots) }

// Put stores fn for id, replacing any previous callback.
func (t *Timers) Put(id int, fn func()) {
	t.slots[id] = fn
}

// Remove clears the callback for id.
func (t *Timers) Remove(id int) error {
	if t.slots[id] == nil {
		return oerr.ErrNotFound
	}
	t.slots[id] = nil
	return nil
}

// Get returns the callback for id, or nil if none is registered.
func (t *Timers) Get(id int) func() {
	if id < 0 || id >= len(t.slots) {
		return nil
	}
	return t.slots[id]
}

const unusedPin = -1

type gpioSlot struct {
	pin  int
	port int
	fn   func()
}

// GPIO maps (pin, port) pairs to callbacks. The pin/port space is sparse
// relative to the slot count, so slots carry their key and lookup is a scan.
type GPIO struct {
	slots []gpioSlot
}

// NewGPIO returns a GPIO table with the given slot count.
func NewGPIO(capacity int) *GPIO {
	g := &GPIO{slots: make([]gpioSlot, capacity)}
	for i := range g.slots {
		g.slots[i].pin = unusedPin
		g.slots[i].port = unusedPin
	}
	return g
}

// Cap returns the slot count.
func (g *GPIO) Cap() int { return len(g.slots) }

// Put stores fn for (pin, port). An existing entry for the same pair is
// updated in place; otherwise the first free slot is taken.
func (g *GPIO) Put(pin, port int, fn func()) error {
	slot := -1
	for i := range g.slots {
		if g.slots[i].pin == pin && g.slots[i].port == port {
			slot = i
			break
		}
		if slot == -1 && g.slots[i].pin == unusedPin {
			slot = i
		}
	}
	if slot == -1 {
		return oerr.ErrNoCapacity
	}
	g.slots[slot] = gpioSlot{pin: pin, port: port, fn: fn}
	return nil
}

// Remove clears the entry for (pin, port) and resets its key sentinel.
func (g *GPIO) Remove(pin, port int) error {
	for i := range g.slots {
		if g.slots[i].pin == pin && g.slots[i].port == port && g.slots[i].fn != nil {
			g.slots[i] = gpioSlot{pin: unusedPin, port: unusedPin}
			return nil
		}
	}
	return oerr.ErrNotFound
}

// Get returns the callback for (pin, port), or nil on miss.
func (g *GPIO) Get(pin, port int) func() {
	for i := range g.slots {
		if g.slots[i].pin == pin && g.slots[i].port == port {
			return g.slots[i].fn
		}
	}
	return nil
}

type messageSlot struct {
	topic string
	fn    MessageFunc
}

// Messages maps subscription topics to callbacks. Dispatch-time matching is
// by topic prefix: a stored topic matches any incoming topic it is a leading
// substring of, so "sensor" receives both "sensor" and "sensor/temp".
type Messages struct {
	slots []messageSlot
}

// NewMessages returns a message table with the given slot count.
func NewMessages(capacity int) *Messages {
	return &Messages{slots: make([]messageSlot, capacity)}
}

// Cap returns the slot count.
func (m *Messages) Cap() int { return len(m.slots) }

// Put stores fn for topic. An existing entry for the exact same topic is
// updated in place; otherwise the first slot with an empty topic is taken.
func (m *Messages) Put(topic string, fn MessageFunc) error {
	slot := -1
	for i := range m.slots {
		if m.slots[i].fn != nil && m.slots[i].topic == topic {
			slot = i
			break
		}
		if slot == -1 && m.slots[i].topic == "" {
			slot = i
		}
	}
	if slot == -1 {
		return oerr.ErrNoCapacity
	}
	m.slots[slot] = messageSlot{topic: topic, fn: fn}
	return nil
}

// Remove clears the entry whose stored topic equals topic exactly.
func (m *Messages) Remove(topic string) error {
	for i := range m.slots {
		if m.slots[i].fn != nil && m.slots[i].topic == topic {
			m.slots[i] = messageSlot{}
			return nil
		}
	}
	return oerr.ErrNotFound
}

// Match returns the callback of the first slot whose stored topic is a
// prefix of the incoming topic, or nil if no slot matches. Scanning stops at
// the first hit: overlapping subscriptions do not both fire.
func (m *Messages) Match(topic string) MessageFunc {
	for i := range m.slots {
		if m.slots[i].fn == nil {
			continue
		}
		stored := m.slots[i].topic
		if len(stored) <= len(topic) && topic[:len(stored)] == stored {
			return m.slots[i].fn
		}
	}
	return nil
}
