// Package devicebus is the process-wide gamepad event source. Producers
// (HTTP handlers, the browser WebSocket, the MQTT bridge) publish attach and
// detach notifications; subscribers receive them one at a time, in order.
package devicebus

import (
	"errors"
	"sync"

	"teleop_console/internal/models"
)

// Handler receives device notifications.
type Handler interface {
	HandleAttach(ev models.AttachEvent)
	HandleDetach(ev models.DetachEvent)
}

// Source is the capability a consumer needs: subscribe now, release later by
// calling the returned function.
type Source interface {
	Subscribe(h Handler) (unsubscribe func(), err error)
}

var ErrNilHandler = errors.New("devicebus: nil handler")

// Bus fans device notifications out to subscribers.
type Bus struct {
	mu       sync.Mutex // serialises dispatch
	nextID   uint64
	handlers map[uint64]Handler
	order    []uint64
}

var _ Source = (*Bus)(nil)

func New() *Bus {
	return &Bus{handlers: make(map[uint64]Handler)}
}

// Subscribe registers h. The returned function removes it; calling it more
// than once is a no-op.
func (b *Bus) Subscribe(h Handler) (func(), error) {
	if h == nil {
		return nil, ErrNilHandler
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[id] = h
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}, nil
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i:i], b.order[i+1:]...)
			break
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}

// PublishAttach delivers ev to every subscriber before returning. Handlers
// must not call back into the bus.
func (b *Bus) PublishAttach(ev models.AttachEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range b.order {
		b.handlers[id].HandleAttach(ev)
	}
}

// PublishDetach delivers ev to every subscriber before returning.
func (b *Bus) PublishDetach(ev models.DetachEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range b.order {
		b.handlers[id].HandleDetach(ev)
	}
}
