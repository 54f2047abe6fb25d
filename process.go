package ocre

import (
	"errors"

	"github.com/project-ocre/ocre-sdk-go/core/event"
	"github.com/project-ocre/ocre-sdk-go/core/oerr"
)

// ProcessEvents drains up to Limits.BatchSize pending events from the host
// and dispatches each to its registered callback, synchronously, in host
// order. Applications call it from their main loop.
//
// After each processed event the poller sleeps Limits.PollDelay; a call that
// found nothing sleeps Limits.IdleDelay once before returning, so a tight
// application loop does not spin at full host cost.
func (s *SDK) ProcessEvents() {
	processed := 0
	for processed < s.limits.BatchSize {
		ev, err := s.host.NextEvent()
		if err != nil {
			// Anything other than "nothing pending" still just ends this
			// batch; the next poll call retries.
			if !errors.Is(err, oerr.ErrNotAvailable) {
				s.logger.Debug("event pull failed", "err", err)
			}
			break
		}
		s.dispatch(ev)
		processed++
		s.host.Sleep(s.limits.PollDelay)
	}
	if processed == 0 {
		s.host.Sleep(s.limits.IdleDelay)
	}
}

// dispatch classifies one raw descriptor and routes it. Message events are
// decoded into SDK-owned buffers and released back to the host before the
// callback runs.
func (s *SDK) dispatch(ev event.Raw) {
	switch ev.Type {
	case event.TypeTimer:
		s.dispatchTimer(int(ev.ID))
	case event.TypeGPIO:
		s.dispatchGPIO(int(ev.ID), int(ev.Port))
	case event.TypeMessage:
		s.dispatchMessage(ev)
	default:
		s.logger.Debug("ignoring event of unknown type",
			"type", uint32(ev.Type), "id", ev.ID)
	}
}

func (s *SDK) dispatchTimer(id int) {
	fn := s.timers.Get(id)
	if fn == nil {
		s.logger.Debug("no timer callback registered", "id", id)
		return
	}
	fn()
}

func (s *SDK) dispatchGPIO(pin, port int) {
	fn := s.gpio.Get(pin, port)
	if fn == nil {
		s.logger.Debug("no gpio callback registered", "pin", pin, "port", port)
		return
	}
	fn()
}

func (s *SDK) dispatchMessage(ev event.Raw) {
	// Copy out of the host-owned views first. The host may reuse those
	// regions the moment they are released, so the order here is the whole
	// use-after-free story: copy, release, then dispatch the copies.
	topicLen := event.CopyBounded(s.topicBuf, event.CString(ev.Topic))
	contentLen := event.CopyBounded(s.contentBuf, event.CString(ev.ContentType))
	payloadLen := event.CopyBounded(s.payloadBuf, ev.Payload)

	if err := s.host.ReleaseMessageData(ev); err != nil {
		// The copies are already ours, so dispatch proceeds regardless.
		s.logger.Warn("host did not release message event data", "err", err)
	}

	topic := string(s.topicBuf[:topicLen])
	fn := s.messages.Match(topic)
	if fn == nil {
		s.logger.Debug("no message callback registered", "topic", topic)
		return
	}
	fn(topic, string(s.contentBuf[:contentLen]), s.payloadBuf[:payloadLen])
}
