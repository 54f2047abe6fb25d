package ocre

import "github.com/project-ocre/ocre-sdk-go/host"

// GPIO calls are routed to the host unchanged. State change notifications
// for watched pins arrive through ProcessEvents once a callback is
// registered with RegisterGPIOCallback.

// GPIOInit initializes the host GPIO subsystem.
func (s *SDK) GPIOInit() error { return s.host.GPIOInit() }

// GPIOConfigure configures a pin as input or output.
func (s *SDK) GPIOConfigure(port, pin int, dir host.Direction) error {
	return s.host.GPIOConfigure(port, pin, dir)
}

// GPIOSet drives a pin to the given state.
func (s *SDK) GPIOSet(port, pin int, state host.PinState) error {
	return s.host.GPIOSet(port, pin, state)
}

// GPIOGet reads the current state of a pin.
func (s *SDK) GPIOGet(port, pin int) (host.PinState, error) {
	return s.host.GPIOGet(port, pin)
}

// GPIOToggle inverts the state of a pin.
func (s *SDK) GPIOToggle(port, pin int) error { return s.host.GPIOToggle(port, pin) }
