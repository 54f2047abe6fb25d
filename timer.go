package ocre

import "time"

// Timer calls are routed to the host unchanged. Expirations of started
// timers arrive through ProcessEvents once a callback is registered with
// RegisterTimerCallback.

// TimerCreate creates a host timer with the given id.
func (s *SDK) TimerCreate(id int) error { return s.host.TimerCreate(id) }

// TimerDelete deletes the host timer with the given id.
func (s *SDK) TimerDelete(id int) error { return s.host.TimerDelete(id) }

// TimerStart starts a timer. A periodic timer fires every interval until
// stopped; a one-shot timer fires once.
func (s *SDK) TimerStart(id int, interval time.Duration, periodic bool) error {
	return s.host.TimerStart(id, interval, periodic)
}

// TimerStop stops a running timer.
func (s *SDK) TimerStop(id int) error { return s.host.TimerStop(id) }

// TimerRemaining returns the time left until the timer fires.
func (s *SDK) TimerRemaining(id int) (time.Duration, error) {
	return s.host.TimerRemaining(id)
}
