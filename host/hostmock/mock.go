// Package hostmock provides a scripted host.Host for tests.
//
// Events are queued ahead of time and handed out one per NextEvent call.
// Every host call is appended to Calls, so tests can assert ordering
// contracts such as copy-before-release. Releasing a message event zeroes
// the host-owned buffers, the same way a real host is free to reuse its
// memory after release.
package hostmock

import (
	"fmt"
	"time"

	"github.com/project-ocre/ocre-sdk-go/core/event"
	"github.com/project-ocre/ocre-sdk-go/core/oerr"
	"github.com/project-ocre/ocre-sdk-go/host"
)

var _ host.Host = (*Mock)(nil)

// Mock is a scripted in-memory host.
type Mock struct {
	// Calls records every host call in order, plus anything tests append
	// through Record.
	Calls []string

	// Sleeps records each Sleep duration. The mock never actually sleeps.
	Sleeps []time.Duration

	// PinStates backs GPIOGet, keyed by (port, pin).
	PinStates map[[2]int]host.PinState

	// Error overrides. Zero values mean "succeed".
	NextErr       error
	ReleaseErr    error
	DispatcherErr error
	WatchErr      error

	queue   []event.Raw
	buffers map[uint32][]byte
	nextRef uint32
}

// New returns an empty mock host.
func New() *Mock {
	return &Mock{
		PinStates: make(map[[2]int]host.PinState),
		buffers:   make(map[uint32][]byte),
		nextRef:   1,
	}
}

// Record appends a marker to the call log. Tests use it inside callbacks to
// interleave application-side observations with host calls.
func (m *Mock) Record(s string) {
	m.Calls = append(m.Calls, s)
}

// EnqueueTimer queues a timer-fired event.
func (m *Mock) EnqueueTimer(id int) {
	m.queue = append(m.queue, event.Raw{Type: event.TypeTimer, ID: uint32(id)})
}

// EnqueueGPIO queues a pin change event.
func (m *Mock) EnqueueGPIO(pin, port int, state host.PinState) {
	m.queue = append(m.queue, event.Raw{
		Type:  event.TypeGPIO,
		ID:    uint32(pin),
		Port:  uint32(port),
		State: uint32(state),
	})
}

// EnqueueRaw queues an arbitrary descriptor, e.g. an unknown type.
func (m *Mock) EnqueueRaw(ev event.Raw) {
	m.queue = append(m.queue, ev)
}

// EnqueueMessage queues a message event, allocating host-owned buffers for
// topic, content type and payload. It returns the refs of the three regions
// so tests can check them against the release call.
func (m *Mock) EnqueueMessage(id uint32, topic, contentType string, payload []byte) (topicRef, contentRef, payloadRef uint32) {
	topicBuf := m.alloc(append([]byte(topic), 0))
	contentBuf := m.alloc(append([]byte(contentType), 0))
	payloadBuf := m.alloc(append([]byte(nil), payload...))

	m.queue = append(m.queue, event.Raw{
		Type:        event.TypeMessage,
		ID:          id,
		Topic:       m.buffers[topicBuf],
		ContentType: m.buffers[contentBuf],
		Payload:     m.buffers[payloadBuf],
		TopicRef:    topicBuf,
		ContentRef:  contentBuf,
		PayloadRef:  payloadBuf,
	})
	return topicBuf, contentBuf, payloadBuf
}

func (m *Mock) alloc(b []byte) uint32 {
	ref := m.nextRef
	m.nextRef++
	m.buffers[ref] = b
	return ref
}

// Released reports whether the buffer behind ref has been handed back.
func (m *Mock) Released(ref uint32) bool {
	_, live := m.buffers[ref]
	return !live
}

// Pending returns the number of queued events.
func (m *Mock) Pending() int { return len(m.queue) }

// NextEvent pops the next queued event.
func (m *Mock) NextEvent() (event.Raw, error) {
	if m.NextErr != nil {
		m.Record("next_event:err")
		return event.Raw{}, m.NextErr
	}
	if len(m.queue) == 0 {
		m.Record("next_event:empty")
		return event.Raw{}, oerr.ErrNotAvailable
	}
	ev := m.queue[0]
	m.queue = m.queue[1:]
	m.Record("next_event:" + ev.Type.String())
	return ev, nil
}

// ReleaseMessageData zeroes and frees the buffers of ev. Reading a released
// view yields zeroes, never the original content.
func (m *Mock) ReleaseMessageData(ev event.Raw) error {
	m.Record(fmt.Sprintf("release:%d,%d,%d", ev.TopicRef, ev.ContentRef, ev.PayloadRef))
	for _, ref := range []uint32{ev.TopicRef, ev.ContentRef, ev.PayloadRef} {
		if buf, ok := m.buffers[ref]; ok {
			for i := range buf {
				buf[i] = 0
			}
			delete(m.buffers, ref)
		}
	}
	return m.ReleaseErr
}

// RegisterDispatcher records the per-type wiring.
func (m *Mock) RegisterDispatcher(t event.Type, entry string) error {
	m.Record(fmt.Sprintf("register_dispatcher:%s,%s", t, entry))
	return m.DispatcherErr
}

// Sleep records the requested delay without blocking.
func (m *Mock) Sleep(d time.Duration) {
	m.Record("sleep:" + d.String())
	m.Sleeps = append(m.Sleeps, d)
}

// SleepCount returns the number of Sleep calls so far.
func (m *Mock) SleepCount() int { return len(m.Sleeps) }

func (m *Mock) TimerCreate(id int) error {
	m.Record(fmt.Sprintf("timer_create:%d", id))
	return nil
}

func (m *Mock) TimerDelete(id int) error {
	m.Record(fmt.Sprintf("timer_delete:%d", id))
	return nil
}

func (m *Mock) TimerStart(id int, interval time.Duration, periodic bool) error {
	m.Record(fmt.Sprintf("timer_start:%d,%s,%t", id, interval, periodic))
	return nil
}

func (m *Mock) TimerStop(id int) error {
	m.Record(fmt.Sprintf("timer_stop:%d", id))
	return nil
}

func (m *Mock) TimerRemaining(id int) (time.Duration, error) {
	m.Record(fmt.Sprintf("timer_remaining:%d", id))
	return 0, nil
}

func (m *Mock) GPIOInit() error {
	m.Record("gpio_init")
	return nil
}

func (m *Mock) GPIOConfigure(port, pin int, dir host.Direction) error {
	m.Record(fmt.Sprintf("gpio_configure:%d,%d,%d", port, pin, dir))
	return nil
}

func (m *Mock) GPIOSet(port, pin int, state host.PinState) error {
	m.Record(fmt.Sprintf("gpio_set:%d,%d,%d", port, pin, state))
	m.PinStates[[2]int{port, pin}] = state
	return nil
}

func (m *Mock) GPIOGet(port, pin int) (host.PinState, error) {
	m.Record(fmt.Sprintf("gpio_get:%d,%d", port, pin))
	return m.PinStates[[2]int{port, pin}], nil
}

func (m *Mock) GPIOToggle(port, pin int) error {
	m.Record(fmt.Sprintf("gpio_toggle:%d,%d", port, pin))
	if m.PinStates[[2]int{port, pin}] == host.PinSet {
		m.PinStates[[2]int{port, pin}] = host.PinReset
	} else {
		m.PinStates[[2]int{port, pin}] = host.PinSet
	}
	return nil
}

func (m *Mock) GPIOWatch(port, pin int) error {
	m.Record(fmt.Sprintf("gpio_watch:%d,%d", port, pin))
	return m.WatchErr
}

func (m *Mock) GPIOUnwatch(port, pin int) error {
	m.Record(fmt.Sprintf("gpio_unwatch:%d,%d", port, pin))
	return nil
}

func (m *Mock) SensorsInit() error {
	m.Record("sensors_init")
	return nil
}

func (m *Mock) SensorsDiscover() (int, error) {
	m.Record("sensors_discover")
	return 0, nil
}

func (m *Mock) SensorOpen(handle int) error {
	m.Record(fmt.Sprintf("sensor_open:%d", handle))
	return nil
}

func (m *Mock) SensorHandle(sensorID int) (int, error) {
	m.Record(fmt.Sprintf("sensor_handle:%d", sensorID))
	return sensorID, nil
}

func (m *Mock) SensorChannelCount(sensorID int) (int, error) {
	m.Record(fmt.Sprintf("sensor_channel_count:%d", sensorID))
	return 0, nil
}

func (m *Mock) SensorChannelType(sensorID, channelIndex int) (int, error) {
	m.Record(fmt.Sprintf("sensor_channel_type:%d,%d", sensorID, channelIndex))
	return 0, nil
}

func (m *Mock) SensorRead(sensorID, channelType int) (float64, error) {
	m.Record(fmt.Sprintf("sensor_read:%d,%d", sensorID, channelType))
	return 0, nil
}

func (m *Mock) Publish(topic, contentType string, payload []byte) error {
	m.Record(fmt.Sprintf("publish:%s,%s,%d", topic, contentType, len(payload)))
	return nil
}

func (m *Mock) Subscribe(topic string) error {
	m.Record("subscribe:" + topic)
	return nil
}
