package simhost

import "sync"

// Bus is the loopback pub/sub fabric connecting simulated hosts. Messages
// published by any attached host are delivered to every attached host with a
// matching subscription, including the publisher itself.
type Bus struct {
	mu      sync.Mutex
	clients map[string]*Host
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{clients: make(map[string]*Host)}
}

func (b *Bus) attach(h *Host) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[h.id] = h
}

func (b *Bus) publish(topic, contentType string, payload []byte) {
	b.mu.Lock()
	clients := make([]*Host, 0, len(b.clients))
	for _, h := range b.clients {
		clients = append(clients, h)
	}
	b.mu.Unlock()

	for _, h := range clients {
		h.deliver(topic, contentType, payload)
	}
}
