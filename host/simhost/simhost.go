// Package simhost simulates the Ocre runtime in-process, so guest
// applications can be developed and demonstrated without a device.
//
// The simulator sits behind the same host.Host interface the real runtime
// bindings implement: wall-clock timers, virtual GPIO pins with scriptable
// edges, simulated sensors, and a loopback pub/sub bus that can connect
// several hosts in one process. Timer expirations and pin edges are produced
// by background goroutines, but they only append to the event queue; the
// application still consumes everything single-threaded through NextEvent.
package simhost

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/project-ocre/ocre-sdk-go/core/event"
	"github.com/project-ocre/ocre-sdk-go/core/oerr"
	"github.com/project-ocre/ocre-sdk-go/core/olog"
	"github.com/project-ocre/ocre-sdk-go/host"
	"github.com/project-ocre/ocre-sdk-go/pkg/config"
	"github.com/project-ocre/ocre-sdk-go/pkg/id"
)

var _ host.Host = (*Host)(nil)

type pinKey struct {
	port int
	pin  int
}

type simTimer struct {
	interval time.Duration
	periodic bool
	deadline time.Time
	handle   *time.Timer
}

// Host is one simulated runtime instance.
type Host struct {
	id     string
	logger *slog.Logger
	bus    *Bus

	mu      sync.Mutex
	queue   []event.Raw
	buffers map[uint32][]byte
	nextRef uint32
	msgID   uint32

	timers  map[int]*simTimer
	pins    map[pinKey]host.PinState
	watched map[pinKey]bool
	subs    []string
	sensors map[int]config.Sensor
	entries map[event.Type]string
}

// Option configures a simulated host.
type Option func(*Host)

// WithBus attaches the host to a shared loopback bus. Hosts without a bus
// get a private one, so self-publish still loops back.
func WithBus(b *Bus) Option {
	return func(h *Host) { h.bus = b }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithScenario preloads pin states and sensors from a scenario.
func WithScenario(sc config.Scenario) Option {
	return func(h *Host) {
		for _, p := range sc.Pins {
			h.pins[pinKey{port: p.Port, pin: p.Pin}] = host.PinState(p.State)
		}
		for _, s := range sc.Sensors {
			h.sensors[s.ID] = s
		}
	}
}

// New returns a simulated host.
func New(opts ...Option) *Host {
	h := &Host{
		id:      id.New(),
		logger:  olog.Default(),
		buffers: make(map[uint32][]byte),
		nextRef: 1,
		timers:  make(map[int]*simTimer),
		pins:    make(map[pinKey]host.PinState),
		watched: make(map[pinKey]bool),
		sensors: make(map[int]config.Sensor),
		entries: make(map[event.Type]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.bus == nil {
		h.bus = NewBus()
	}
	h.bus.attach(h)
	h.logger = h.logger.With("sim", h.id)
	return h
}

// ID returns the host's bus client id.
func (h *Host) ID() string { return h.id }

func (h *Host) enqueue(ev event.Raw) {
	h.mu.Lock()
	h.queue = append(h.queue, ev)
	h.mu.Unlock()
}

// NextEvent pops the oldest pending event.
func (h *Host) NextEvent() (event.Raw, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.queue) == 0 {
		return event.Raw{}, oerr.ErrNotAvailable
	}
	ev := h.queue[0]
	h.queue = h.queue[1:]
	return ev, nil
}

// ReleaseMessageData zeroes and frees the buffers behind a message event.
func (h *Host) ReleaseMessageData(ev event.Raw) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ref := range []uint32{ev.TopicRef, ev.ContentRef, ev.PayloadRef} {
		buf, ok := h.buffers[ref]
		if !ok {
			return fmt.Errorf("unknown buffer ref %d: %w", ref, oerr.ErrNotFound)
		}
		for i := range buf {
			buf[i] = 0
		}
		delete(h.buffers, ref)
	}
	return nil
}

// RegisterDispatcher records the entry point for a resource type.
func (h *Host) RegisterDispatcher(t event.Type, entry string) error {
	if t >= event.TypeCount {
		return fmt.Errorf("unknown resource type %d: %w", t, oerr.ErrInvalid)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[t] = entry
	return nil
}

// Sleep blocks for d. The simulator has no scheduler of its own, so this is
// a plain sleep.
func (h *Host) Sleep(d time.Duration) { time.Sleep(d) }

// TimerCreate allocates the timer with the given id.
func (h *Host) TimerCreate(timerID int) error {
	if timerID < 0 {
		return fmt.Errorf("timer id %d: %w", timerID, oerr.ErrInvalid)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.timers[timerID]; exists {
		return fmt.Errorf("timer %d already exists: %w", timerID, oerr.ErrBusy)
	}
	h.timers[timerID] = &simTimer{}
	return nil
}

// TimerDelete stops and removes a timer.
func (h *Host) TimerDelete(timerID int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.timers[timerID]
	if !ok {
		return fmt.Errorf("timer %d: %w", timerID, oerr.ErrNotFound)
	}
	if t.handle != nil {
		t.handle.Stop()
	}
	delete(h.timers, timerID)
	return nil
}

// TimerStart arms a timer. Expirations are queued as TypeTimer events.
func (h *Host) TimerStart(timerID int, interval time.Duration, periodic bool) error {
	if interval <= 0 {
		return fmt.Errorf("timer interval %s: %w", interval, oerr.ErrInvalid)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.timers[timerID]
	if !ok {
		return fmt.Errorf("timer %d: %w", timerID, oerr.ErrNotFound)
	}
	if t.handle != nil {
		t.handle.Stop()
	}
	t.interval = interval
	t.periodic = periodic
	t.deadline = time.Now().Add(interval)
	t.handle = time.AfterFunc(interval, func() { h.fireTimer(timerID) })
	return nil
}

func (h *Host) fireTimer(timerID int) {
	h.mu.Lock()
	t, ok := h.timers[timerID]
	if ok {
		if t.periodic {
			t.deadline = time.Now().Add(t.interval)
			t.handle = time.AfterFunc(t.interval, func() { h.fireTimer(timerID) })
		} else {
			t.handle = nil
		}
		h.queue = append(h.queue, event.Raw{Type: event.TypeTimer, ID: uint32(timerID)})
	}
	h.mu.Unlock()
}

// TimerStop disarms a timer without removing it.
func (h *Host) TimerStop(timerID int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.timers[timerID]
	if !ok {
		return fmt.Errorf("timer %d: %w", timerID, oerr.ErrNotFound)
	}
	if t.handle != nil {
		t.handle.Stop()
		t.handle = nil
	}
	return nil
}

// TimerRemaining returns the time left until the next expiration.
func (h *Host) TimerRemaining(timerID int) (time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.timers[timerID]
	if !ok {
		return 0, fmt.Errorf("timer %d: %w", timerID, oerr.ErrNotFound)
	}
	if t.handle == nil {
		return 0, nil
	}
	remaining := time.Until(t.deadline)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// GPIOInit is a no-op for the simulator.
func (h *Host) GPIOInit() error { return nil }

// GPIOConfigure accepts any direction; virtual pins are bidirectional.
func (h *Host) GPIOConfigure(port, pin int, dir host.Direction) error {
	if port < 0 || pin < 0 {
		return fmt.Errorf("pin %d port %d: %w", pin, port, oerr.ErrInvalid)
	}
	return nil
}

func (h *Host) setPin(port, pin int, state host.PinState) {
	key := pinKey{port: port, pin: pin}
	h.mu.Lock()
	prev, had := h.pins[key]
	h.pins[key] = state
	notify := h.watched[key] && (!had || prev != state)
	if notify {
		h.queue = append(h.queue, event.Raw{
			Type:  event.TypeGPIO,
			ID:    uint32(pin),
			Port:  uint32(port),
			State: uint32(state),
		})
	}
	h.mu.Unlock()
}

// GPIOSet drives a pin. A change on a watched pin queues a TypeGPIO event.
func (h *Host) GPIOSet(port, pin int, state host.PinState) error {
	if port < 0 || pin < 0 {
		return fmt.Errorf("pin %d port %d: %w", pin, port, oerr.ErrInvalid)
	}
	h.setPin(port, pin, state)
	return nil
}

// GPIOGet reads the state of a virtual pin. Unset pins read low.
func (h *Host) GPIOGet(port, pin int) (host.PinState, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pins[pinKey{port: port, pin: pin}], nil
}

// GPIOToggle inverts a virtual pin.
func (h *Host) GPIOToggle(port, pin int) error {
	state, err := h.GPIOGet(port, pin)
	if err != nil {
		return err
	}
	if state == host.PinSet {
		return h.GPIOSet(port, pin, host.PinReset)
	}
	return h.GPIOSet(port, pin, host.PinSet)
}

// GPIOWatch enables edge delivery for a pin.
func (h *Host) GPIOWatch(port, pin int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.watched[pinKey{port: port, pin: pin}] = true
	return nil
}

// GPIOUnwatch disables edge delivery for a pin.
func (h *Host) GPIOUnwatch(port, pin int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	key := pinKey{port: port, pin: pin}
	if !h.watched[key] {
		return fmt.Errorf("pin %d port %d not watched: %w", pin, port, oerr.ErrNotFound)
	}
	delete(h.watched, key)
	return nil
}

// TriggerPin drives a pin from "outside" the application, e.g. a scripted
// button press. Same delivery rules as GPIOSet.
func (h *Host) TriggerPin(port, pin int, state host.PinState) {
	h.setPin(port, pin, state)
}

// RunButtonScript schedules the press/release cycles of a scenario. The
// returned stop function cancels cycles that have not happened yet.
func (h *Host) RunButtonScript(buttons []config.Button) (stop func()) {
	var timers []*time.Timer
	for _, b := range buttons {
		b := b
		press := time.AfterFunc(time.Duration(b.PressAfterMS)*time.Millisecond, func() {
			h.logger.Debug("button press", "pin", b.Pin, "port", b.Port)
			h.TriggerPin(b.Port, b.Pin, host.PinReset)
		})
		release := time.AfterFunc(time.Duration(b.PressAfterMS+b.HoldMS)*time.Millisecond, func() {
			h.logger.Debug("button release", "pin", b.Pin, "port", b.Port)
			h.TriggerPin(b.Port, b.Pin, host.PinSet)
		})
		timers = append(timers, press, release)
	}
	return func() {
		for _, t := range timers {
			t.Stop()
		}
	}
}

// SensorsInit is a no-op for the simulator.
func (h *Host) SensorsInit() error { return nil }

// SensorsDiscover returns the number of configured sensors.
func (h *Host) SensorsDiscover() (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sensors), nil
}

// SensorOpen checks the sensor exists.
func (h *Host) SensorOpen(handle int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sensors[handle]; !ok {
		return fmt.Errorf("sensor %d: %w", handle, oerr.ErrNotFound)
	}
	return nil
}

// SensorHandle resolves a sensor id. Simulated handles equal the id.
func (h *Host) SensorHandle(sensorID int) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sensors[sensorID]; !ok {
		return 0, fmt.Errorf("sensor %d: %w", sensorID, oerr.ErrNotFound)
	}
	return sensorID, nil
}

// SensorChannelCount returns the channel count of a sensor.
func (h *Host) SensorChannelCount(sensorID int) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sensors[sensorID]
	if !ok {
		return 0, fmt.Errorf("sensor %d: %w", sensorID, oerr.ErrNotFound)
	}
	return len(s.Channels), nil
}

// SensorChannelType returns the type code of the channel at channelIndex.
func (h *Host) SensorChannelType(sensorID, channelIndex int) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sensors[sensorID]
	if !ok {
		return 0, fmt.Errorf("sensor %d: %w", sensorID, oerr.ErrNotFound)
	}
	if channelIndex < 0 || channelIndex >= len(s.Channels) {
		return 0, fmt.Errorf("sensor %d channel %d: %w", sensorID, channelIndex, oerr.ErrInvalid)
	}
	return s.Channels[channelIndex].Type, nil
}

// SensorRead returns the configured value of the channel with channelType.
func (h *Host) SensorRead(sensorID, channelType int) (float64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sensors[sensorID]
	if !ok {
		return 0, fmt.Errorf("sensor %d: %w", sensorID, oerr.ErrNotFound)
	}
	for _, c := range s.Channels {
		if c.Type == channelType {
			return c.Value, nil
		}
	}
	return 0, fmt.Errorf("sensor %d has no channel of type %d: %w", sensorID, channelType, oerr.ErrNotFound)
}

// Publish sends a message to every bus client with a matching subscription.
func (h *Host) Publish(topic, contentType string, payload []byte) error {
	if topic == "" {
		return fmt.Errorf("empty topic: %w", oerr.ErrInvalid)
	}
	h.bus.publish(topic, contentType, payload)
	return nil
}

// Subscribe opts this host into delivery for topic. Matching is by prefix,
// like the runtime's.
func (h *Host) Subscribe(topic string) error {
	if topic == "" {
		return fmt.Errorf("empty topic: %w", oerr.ErrInvalid)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.subs {
		if s == topic {
			return nil
		}
	}
	h.subs = append(h.subs, topic)
	return nil
}

// deliver queues a message event if any subscription prefix matches topic.
// The topic, content-type and payload live in host-owned buffers until the
// event is released, mirroring the real runtime's memory hand-off.
func (h *Host) deliver(topic, contentType string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	matched := false
	for _, s := range h.subs {
		if len(s) <= len(topic) && topic[:len(s)] == s {
			matched = true
			break
		}
	}
	if !matched {
		return
	}

	topicRef := h.alloc(append([]byte(topic), 0))
	contentRef := h.alloc(append([]byte(contentType), 0))
	payloadRef := h.alloc(append([]byte(nil), payload...))
	h.msgID++

	h.queue = append(h.queue, event.Raw{
		Type:        event.TypeMessage,
		ID:          h.msgID,
		Topic:       h.buffers[topicRef],
		ContentType: h.buffers[contentRef],
		Payload:     h.buffers[payloadRef],
		TopicRef:    topicRef,
		ContentRef:  contentRef,
		PayloadRef:  payloadRef,
	})
}

func (h *Host) alloc(b []byte) uint32 {
	ref := h.nextRef
	h.nextRef++
	h.buffers[ref] = b
	return ref
}
