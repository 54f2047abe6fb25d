package ocre

// TimerCallback is invoked when a registered timer fires. The timer id is
// implicit in the registration; the demo pattern queries any further state
// back through the SDK accessors.
type TimerCallback func()

// GPIOCallback is invoked on a state change of a registered pin. The new
// level is not passed in: callbacks read it back with GPIOGet, which keeps
// debounce and edge logic in the application.
type GPIOCallback func()

// MessageCallback is invoked for an inbound message whose topic matches the
// registered subscription prefix. The payload slice is owned by the SDK and
// only valid for the duration of the call; copy it to retain it.
type MessageCallback func(topic, contentType string, payload []byte)
