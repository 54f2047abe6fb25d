package ocre

import (
	"fmt"

	"github.com/project-ocre/ocre-sdk-go/core/event"
	"github.com/project-ocre/ocre-sdk-go/core/oerr"
	"github.com/project-ocre/ocre-sdk-go/core/registry"
	"github.com/project-ocre/ocre-sdk-go/host"
)

// wireDispatcher performs the one-time per-type registration of the generic
// decode entry point with the host. Once a type is wired it stays wired, so
// repeated registrations are idempotent from the application's point of view.
func (s *SDK) wireDispatcher(t event.Type, entry string) error {
	if s.wired[t] {
		return nil
	}
	if err := s.host.RegisterDispatcher(t, entry); err != nil {
		return fmt.Errorf("register %s dispatcher: %w", t, err)
	}
	s.wired[t] = true
	return nil
}

// RegisterTimerCallback installs fn for timer id. A previous callback for
// the same id is replaced.
func (s *SDK) RegisterTimerCallback(id int, fn TimerCallback) error {
	if id < 0 || id >= s.timers.Cap() {
		return fmt.Errorf("timer id %d out of range [0,%d): %w", id, s.timers.Cap(), oerr.ErrInvalid)
	}
	if fn == nil {
		return fmt.Errorf("nil timer callback for id %d: %w", id, oerr.ErrInvalid)
	}
	if err := s.wireDispatcher(event.TypeTimer, host.EntryTimer); err != nil {
		return err
	}
	s.timers.Put(id, fn)
	s.logger.Debug("timer callback registered", "id", id)
	return nil
}

// UnregisterTimerCallback removes the callback for timer id.
func (s *SDK) UnregisterTimerCallback(id int) error {
	if id < 0 || id >= s.timers.Cap() {
		return fmt.Errorf("timer id %d out of range [0,%d): %w", id, s.timers.Cap(), oerr.ErrInvalid)
	}
	if err := s.timers.Remove(id); err != nil {
		return fmt.Errorf("no timer callback for id %d: %w", id, err)
	}
	s.logger.Debug("timer callback unregistered", "id", id)
	return nil
}

// RegisterGPIOCallback installs fn for (pin, port) and asks the host to
// start delivering state change notifications for that pin.
func (s *SDK) RegisterGPIOCallback(pin, port int, fn GPIOCallback) error {
	if fn == nil {
		return fmt.Errorf("nil gpio callback for pin %d port %d: %w", pin, port, oerr.ErrInvalid)
	}
	if pin < 0 || pin >= s.limits.PinsPerPort || port < 0 || port >= s.limits.MaxPorts {
		return fmt.Errorf("pin %d or port %d out of range: %w", pin, port, oerr.ErrInvalid)
	}
	if err := s.wireDispatcher(event.TypeGPIO, host.EntryGPIO); err != nil {
		return err
	}
	if err := s.gpio.Put(pin, port, fn); err != nil {
		return fmt.Errorf("gpio callback table full: %w", err)
	}
	if err := s.host.GPIOWatch(port, pin); err != nil {
		// No notifications will come, so do not keep a dead entry.
		_ = s.gpio.Remove(pin, port)
		return fmt.Errorf("watch pin %d port %d: %w", pin, port, err)
	}
	s.logger.Debug("gpio callback registered", "pin", pin, "port", port)
	return nil
}

// UnregisterGPIOCallback removes the callback for (pin, port) and asks the
// host to stop delivering notifications for that pin.
func (s *SDK) UnregisterGPIOCallback(pin, port int) error {
	if err := s.gpio.Remove(pin, port); err != nil {
		return fmt.Errorf("no gpio callback for pin %d port %d: %w", pin, port, err)
	}
	s.logger.Debug("gpio callback unregistered", "pin", pin, "port", port)
	if err := s.host.GPIOUnwatch(port, pin); err != nil {
		return fmt.Errorf("unwatch pin %d port %d: %w", pin, port, err)
	}
	return nil
}

// RegisterMessageCallback installs fn for the given topic prefix. A topic
// longer than Limits.MaxTopicLen is stored truncated; see the package
// documentation for the collision this implies between long topics sharing a
// common prefix.
func (s *SDK) RegisterMessageCallback(topic string, fn MessageCallback) error {
	if topic == "" {
		return fmt.Errorf("empty topic: %w", oerr.ErrInvalid)
	}
	if fn == nil {
		return fmt.Errorf("nil message callback for topic %q: %w", topic, oerr.ErrInvalid)
	}
	if len(topic) > s.limits.MaxTopicLen {
		s.logger.Warn("topic truncated at registration, subscriptions sharing this prefix are indistinguishable",
			"topic", topic, "max", s.limits.MaxTopicLen)
		topic = topic[:s.limits.MaxTopicLen]
	}
	if err := s.wireDispatcher(event.TypeMessage, host.EntryMessage); err != nil {
		return err
	}
	if err := s.messages.Put(topic, registry.MessageFunc(fn)); err != nil {
		return fmt.Errorf("message callback table full: %w", err)
	}
	s.logger.Debug("message callback registered", "topic", topic)
	return nil
}

// UnregisterMessageCallback removes the callback stored for topic. The topic
// is compared exactly, after the same truncation applied at registration.
func (s *SDK) UnregisterMessageCallback(topic string) error {
	if topic == "" {
		return fmt.Errorf("empty topic: %w", oerr.ErrInvalid)
	}
	if len(topic) > s.limits.MaxTopicLen {
		topic = topic[:s.limits.MaxTopicLen]
	}
	if err := s.messages.Remove(topic); err != nil {
		return fmt.Errorf("no message callback for topic %q: %w", topic, err)
	}
	s.logger.Debug("message callback unregistered", "topic", topic)
	return nil
}
