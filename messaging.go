package ocre

// Messaging calls are routed to the host unchanged. Messages published on
// subscribed topics arrive through ProcessEvents once a callback is
// registered with RegisterMessageCallback. Subscribing and registering a
// callback are separate steps, matching the host contract: Subscribe opts
// the module into delivery, the callback decides what happens on arrival.

// Publish sends payload on topic. contentType is advisory; a MIME type is
// recommended.
func (s *SDK) Publish(topic, contentType string, payload []byte) error {
	return s.host.Publish(topic, contentType, payload)
}

// Subscribe asks the host to deliver messages published on topic.
func (s *SDK) Subscribe(topic string) error {
	return s.host.Subscribe(topic)
}
