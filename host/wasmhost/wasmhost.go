//go:build tinygo || wasip1

// Package wasmhost binds the host contract to the imported functions of the
// Ocre runtime. It is only meaningful inside a WASM module; build it with
// TinyGo or GOOS=wasip1.
//
// The runtime reports message buffers as offsets into the module's own
// linear memory, so the views handed out by NextEvent are constructed with
// unsafe and stay valid exactly until ReleaseMessageData hands the regions
// back.
package wasmhost

import (
	"time"
	"unsafe"

	"github.com/project-ocre/ocre-sdk-go/core/event"
	"github.com/project-ocre/ocre-sdk-go/core/oerr"
	"github.com/project-ocre/ocre-sdk-go/host"
)

//go:wasmimport env ocre_get_event
func ocreGetEvent(typeOff, idOff, portOff, stateOff, extraOff, payloadLenOff uint32) int32

//go:wasmimport env ocre_messaging_free_module_event_data
func ocreFreeEventData(topicOff, contentOff, payloadOff uint32) int32

//go:wasmimport env ocre_register_dispatcher
func ocreRegisterDispatcher(resourceType uint32, namePtr uint32) int32

//go:wasmimport env ocre_sleep
func ocreSleep(milliseconds int32) int32

//go:wasmimport env ocre_timer_create
func ocreTimerCreate(id int32) int32

//go:wasmimport env ocre_timer_delete
func ocreTimerDelete(id int32) int32

//go:wasmimport env ocre_timer_start
func ocreTimerStart(id, interval, isPeriodic int32) int32

//go:wasmimport env ocre_timer_stop
func ocreTimerStop(id int32) int32

//go:wasmimport env ocre_timer_get_remaining
func ocreTimerGetRemaining(id int32) int32

//go:wasmimport env ocre_gpio_init
func ocreGPIOInit() int32

//go:wasmimport env ocre_gpio_configure
func ocreGPIOConfigure(port, pin, direction int32) int32

//go:wasmimport env ocre_gpio_pin_set
func ocreGPIOPinSet(port, pin, state int32) int32

//go:wasmimport env ocre_gpio_pin_get
func ocreGPIOPinGet(port, pin int32) int32

//go:wasmimport env ocre_gpio_pin_toggle
func ocreGPIOPinToggle(port, pin int32) int32

//go:wasmimport env ocre_gpio_register_callback
func ocreGPIORegisterCallback(port, pin int32) int32

//go:wasmimport env ocre_gpio_unregister_callback
func ocreGPIOUnregisterCallback(port, pin int32) int32

//go:wasmimport env ocre_sensors_init
func ocreSensorsInit() int32

//go:wasmimport env ocre_sensors_discover
func ocreSensorsDiscover() int32

//go:wasmimport env ocre_sensors_open
func ocreSensorsOpen(handle int32) int32

//go:wasmimport env ocre_sensors_get_handle
func ocreSensorsGetHandle(sensorID int32) int32

//go:wasmimport env ocre_sensors_get_channel_count
func ocreSensorsGetChannelCount(sensorID int32) int32

//go:wasmimport env ocre_sensors_get_channel_type
func ocreSensorsGetChannelType(sensorID, channelIndex int32) int32

//go:wasmimport env ocre_sensors_read
func ocreSensorsRead(sensorID, channelType int32) float64

//go:wasmimport env ocre_publish_message
func ocrePublishMessage(topicPtr, contentTypePtr, payloadPtr, payloadLen uint32) int32

//go:wasmimport env ocre_subscribe_message
func ocreSubscribeMessage(topicPtr uint32) int32

// maxCStrLen bounds the NUL scan over host-written strings, in case the
// terminator is missing.
const maxCStrLen = 4096

var _ host.Host = (*Host)(nil)

// Host is the runtime-backed host boundary of this WASM module.
type Host struct {
	// eventData is the fixed descriptor the runtime fills on every pull,
	// the module-side half of the get-event contract.
	eventData struct {
		typ        uint32
		id         uint32
		port       uint32
		state      uint32
		extra      uint32
		payloadLen uint32
	}
}

// New returns the host boundary of this module.
func New() *Host { return &Host{} }

func off(p unsafe.Pointer) uint32 { return uint32(uintptr(p)) }

// cstr returns the pointer to a NUL-terminated copy of s.
func cstr(s string) uint32 {
	b := append([]byte(s), 0)
	return off(unsafe.Pointer(&b[0]))
}

// cstringAt returns a view of module memory at offset, up to the first NUL.
func cstringAt(offset uint32) []byte {
	if offset == 0 {
		return nil
	}
	p := unsafe.Pointer(uintptr(offset))
	n := 0
	for n < maxCStrLen && *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return unsafe.Slice((*byte)(p), n)
}

func bytesAt(offset, length uint32) []byte {
	if offset == 0 || length == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(offset))), length)
}

// NextEvent pulls the next event descriptor from the runtime.
func (h *Host) NextEvent() (event.Raw, error) {
	d := &h.eventData
	ret := ocreGetEvent(
		off(unsafe.Pointer(&d.typ)),
		off(unsafe.Pointer(&d.id)),
		off(unsafe.Pointer(&d.port)),
		off(unsafe.Pointer(&d.state)),
		off(unsafe.Pointer(&d.extra)),
		off(unsafe.Pointer(&d.payloadLen)),
	)
	if ret != int32(oerr.CodeSuccess) {
		// Any failure here means "no more events now"; the next poll
		// retries.
		return event.Raw{}, oerr.ErrNotAvailable
	}

	ev := event.Raw{
		Type:  event.Type(d.typ),
		ID:    d.id,
		Port:  d.port,
		State: d.state,
	}
	if ev.Type == event.TypeMessage {
		// For messages the generic fields are memory offsets: port is the
		// topic, state the content type, extra the payload.
		ev.Topic = cstringAt(d.port)
		ev.ContentType = cstringAt(d.state)
		ev.Payload = bytesAt(d.extra, d.payloadLen)
		ev.TopicRef = d.port
		ev.ContentRef = d.state
		ev.PayloadRef = d.extra
	}
	return ev, nil
}

// ReleaseMessageData hands the topic, content-type and payload regions back
// to the runtime.
func (h *Host) ReleaseMessageData(ev event.Raw) error {
	ret := ocreFreeEventData(ev.TopicRef, ev.ContentRef, ev.PayloadRef)
	return oerr.FromCode(oerr.Code(ret))
}

// RegisterDispatcher names the exported entry point for a resource type.
func (h *Host) RegisterDispatcher(t event.Type, entry string) error {
	ret := ocreRegisterDispatcher(uint32(t), cstr(entry))
	return oerr.FromCode(oerr.Code(ret))
}

// Sleep yields to the runtime scheduler.
func (h *Host) Sleep(d time.Duration) {
	ocreSleep(int32(d.Milliseconds()))
}

func (h *Host) TimerCreate(id int) error {
	return oerr.FromCode(oerr.Code(ocreTimerCreate(int32(id))))
}

func (h *Host) TimerDelete(id int) error {
	return oerr.FromCode(oerr.Code(ocreTimerDelete(int32(id))))
}

func (h *Host) TimerStart(id int, interval time.Duration, periodic bool) error {
	p := int32(0)
	if periodic {
		p = 1
	}
	return oerr.FromCode(oerr.Code(ocreTimerStart(int32(id), int32(interval.Milliseconds()), p)))
}

func (h *Host) TimerStop(id int) error {
	return oerr.FromCode(oerr.Code(ocreTimerStop(int32(id))))
}

func (h *Host) TimerRemaining(id int) (time.Duration, error) {
	ret := ocreTimerGetRemaining(int32(id))
	if ret < 0 {
		return 0, oerr.FromCode(oerr.Code(ret))
	}
	return time.Duration(ret) * time.Millisecond, nil
}

func (h *Host) GPIOInit() error {
	return oerr.FromCode(oerr.Code(ocreGPIOInit()))
}

func (h *Host) GPIOConfigure(port, pin int, dir host.Direction) error {
	return oerr.FromCode(oerr.Code(ocreGPIOConfigure(int32(port), int32(pin), int32(dir))))
}

func (h *Host) GPIOSet(port, pin int, state host.PinState) error {
	return oerr.FromCode(oerr.Code(ocreGPIOPinSet(int32(port), int32(pin), int32(state))))
}

func (h *Host) GPIOGet(port, pin int) (host.PinState, error) {
	ret := ocreGPIOPinGet(int32(port), int32(pin))
	if ret < 0 {
		return host.PinReset, oerr.FromCode(oerr.Code(ret))
	}
	return host.PinState(ret), nil
}

func (h *Host) GPIOToggle(port, pin int) error {
	return oerr.FromCode(oerr.Code(ocreGPIOPinToggle(int32(port), int32(pin))))
}

func (h *Host) GPIOWatch(port, pin int) error {
	return oerr.FromCode(oerr.Code(ocreGPIORegisterCallback(int32(port), int32(pin))))
}

func (h *Host) GPIOUnwatch(port, pin int) error {
	return oerr.FromCode(oerr.Code(ocreGPIOUnregisterCallback(int32(port), int32(pin))))
}

func (h *Host) SensorsInit() error {
	return oerr.FromCode(oerr.Code(ocreSensorsInit()))
}

func (h *Host) SensorsDiscover() (int, error) {
	ret := ocreSensorsDiscover()
	if ret < 0 {
		return 0, oerr.FromCode(oerr.Code(ret))
	}
	return int(ret), nil
}

func (h *Host) SensorOpen(handle int) error {
	return oerr.FromCode(oerr.Code(ocreSensorsOpen(int32(handle))))
}

func (h *Host) SensorHandle(sensorID int) (int, error) {
	ret := ocreSensorsGetHandle(int32(sensorID))
	if ret < 0 {
		return 0, oerr.FromCode(oerr.Code(ret))
	}
	return int(ret), nil
}

func (h *Host) SensorChannelCount(sensorID int) (int, error) {
	ret := ocreSensorsGetChannelCount(int32(sensorID))
	if ret < 0 {
		return 0, oerr.FromCode(oerr.Code(ret))
	}
	return int(ret), nil
}

func (h *Host) SensorChannelType(sensorID, channelIndex int) (int, error) {
	ret := ocreSensorsGetChannelType(int32(sensorID), int32(channelIndex))
	if ret < 0 {
		return 0, oerr.FromCode(oerr.Code(ret))
	}
	return int(ret), nil
}

func (h *Host) SensorRead(sensorID, channelType int) (float64, error) {
	return ocreSensorsRead(int32(sensorID), int32(channelType)), nil
}

func (h *Host) Publish(topic, contentType string, payload []byte) error {
	var payloadPtr uint32
	if len(payload) > 0 {
		payloadPtr = off(unsafe.Pointer(&payload[0]))
	}
	ret := ocrePublishMessage(cstr(topic), cstr(contentType), payloadPtr, uint32(len(payload)))
	return oerr.FromCode(oerr.Code(ret))
}

func (h *Host) Subscribe(topic string) error {
	return oerr.FromCode(oerr.Code(ocreSubscribeMessage(cstr(topic))))
}
