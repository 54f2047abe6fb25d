// Package event defines the host event descriptor and the resource type tags
// used to classify it.
package event

// Type is the coarse classification of an event source.
type Type uint32

const (
	// TypeTimer is a timer-fired event. ID carries the timer id.
	TypeTimer Type = iota
	// TypeGPIO is a pin state change. ID carries the pin, Port the port and
	// State the new pin level.
	TypeGPIO
	// TypeSensor is reserved for sensor-originated events.
	TypeSensor
	// TypeMessage is an inbound pub/sub message. The host-owned Topic,
	// ContentType and Payload views are only valid until the event is
	// released back to the host.
	TypeMessage

	// TypeCount is the number of known resource types.
	TypeCount
)

// String returns the lower-case name of the resource type.
func (t Type) String() string {
	switch t {
	case TypeTimer:
		return "timer"
	case TypeGPIO:
		return "gpio"
	case TypeSensor:
		return "sensor"
	case TypeMessage:
		return "message"
	default:
		return "unknown"
	}
}

// Raw is one event descriptor as pulled from the host boundary. It is a
// tagged union: which fields are meaningful depends on Type.
//
// For TypeMessage the Topic, ContentType and Payload slices are views into
// host-owned memory. The host is free to reuse or unmap that memory once
// Boundary.ReleaseMessageData has been called for the event, so consumers
// must copy the bytes out first. TopicRef, ContentRef and PayloadRef are the
// opaque host handles of those regions, passed back verbatim on release.
type Raw struct {
	Type  Type
	ID    uint32
	Port  uint32
	State uint32

	Topic       []byte
	ContentType []byte
	Payload     []byte

	TopicRef   uint32
	ContentRef uint32
	PayloadRef uint32
}

// CopyBounded copies src into dst[:cap(dst)] and reports the number of bytes
// copied. Bytes beyond the destination capacity are silently dropped, which
// is the truncation contract for oversized host buffers.
func CopyBounded(dst, src []byte) int {
	n := copy(dst[:cap(dst)], src)
	return n
}

// CString trims b at the first NUL byte. Host-delivered topic and
// content-type strings are NUL-terminated; the terminator and anything after
// it are not part of the value.
func CString(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}
