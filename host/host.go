// Package host defines the contract between the SDK and the runtime that
// delivers events and performs resource I/O on its behalf.
//
// The SDK itself implements none of these primitives. On a device the host
// is the embedded WASM runtime, reached through imported functions (see
// host/wasmhost). In development and in tests any in-process implementation
// will do (see host/hostmock and host/simhost).
package host

import (
	"time"

	"github.com/project-ocre/ocre-sdk-go/core/event"
)

// Entry point names the host resolves when a dispatcher is registered for a
// resource type. They are part of the wire contract with the runtime.
const (
	EntryTimer   = "timer_callback"
	EntryGPIO    = "gpio_callback"
	EntryMessage = "message_callback"
)

// Boundary is the event side of the host contract.
type Boundary interface {
	// NextEvent pulls the next pending event descriptor. It returns
	// oerr.ErrNotAvailable when no event is pending; that is the normal
	// "no work" signal, not a failure.
	NextEvent() (event.Raw, error)

	// ReleaseMessageData hands the topic, content-type and payload regions
	// of a message event back to the host. The views inside ev must not be
	// read after this call returns.
	ReleaseMessageData(ev event.Raw) error

	// RegisterDispatcher tells the host which entry point receives future
	// events of the given resource type. The wiring is per type, not per
	// callback, and is performed once.
	RegisterDispatcher(t event.Type, entry string) error

	// Sleep blocks for the given duration, yielding to the host scheduler.
	Sleep(d time.Duration)
}

// Direction is a GPIO pin direction.
type Direction int

const (
	// DirInput configures a pin as input.
	DirInput Direction = iota
	// DirOutput configures a pin as output.
	DirOutput
)

// PinState is a GPIO pin level.
type PinState int

const (
	// PinReset is the low pin state.
	PinReset PinState = 0
	// PinSet is the high pin state.
	PinSet PinState = 1
)

// Timers is the host timer facility. Timer callbacks are delivered through
// the Boundary as TypeTimer events, not through these calls.
type Timers interface {
	TimerCreate(id int) error
	TimerDelete(id int) error
	TimerStart(id int, interval time.Duration, periodic bool) error
	TimerStop(id int) error
	TimerRemaining(id int) (time.Duration, error)
}

// GPIO is the host pin facility. GPIOWatch and GPIOUnwatch control whether
// edge notifications for a pin are delivered as TypeGPIO events.
type GPIO interface {
	GPIOInit() error
	GPIOConfigure(port, pin int, dir Direction) error
	GPIOSet(port, pin int, state PinState) error
	GPIOGet(port, pin int) (PinState, error)
	GPIOToggle(port, pin int) error
	GPIOWatch(port, pin int) error
	GPIOUnwatch(port, pin int) error
}

// Sensors is the host sensor facility.
type Sensors interface {
	SensorsInit() error
	SensorsDiscover() (int, error)
	SensorOpen(handle int) error
	SensorHandle(sensorID int) (int, error)
	SensorChannelCount(sensorID int) (int, error)
	SensorChannelType(sensorID, channelIndex int) (int, error)
	SensorRead(sensorID, channelType int) (float64, error)
}

// Messaging is the host pub/sub facility. Inbound messages for subscribed
// topics arrive as TypeMessage events through the Boundary.
type Messaging interface {
	Publish(topic, contentType string, payload []byte) error
	Subscribe(topic string) error
}

// Host is the complete host surface an SDK instance is constructed over.
type Host interface {
	Boundary
	Timers
	GPIO
	Sensors
	Messaging
}
