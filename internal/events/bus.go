package events

import (
	"sync"

	"github.com/google/uuid"
)

// Entity names the domain collection an event concerns.
type Entity string

const (
	EntityProduct   Entity = "product"
	EntityVendor    Entity = "vendor"
	EntityReceiving Entity = "receiving"
	EntityPayment   Entity = "payment"
	EntityMovement  Entity = "movement"
)

// Kind is the mutation that occurred.
type Kind string

const (
	KindCreated Kind = "created"
	KindUpdated Kind = "updated"
	KindDeleted Kind = "deleted"
)

// Event is published after a mutation has been persisted, never before.
type Event struct {
	Entity   Entity
	Kind     Kind
	TenantID uuid.UUID
	ID       uuid.UUID
}

// Handler receives events synchronously on the publisher's goroutine.
// Handlers that do slow work should hand off internally.
type Handler func(Event)

// Bus is a typed in-process publish/subscribe hub. Subscriptions are keyed
// by entity so a list session for receivings never sees product churn.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs map[Entity]map[int]Handler
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Entity]map[int]Handler)}
}

// Subscribe registers a handler for one entity's events and returns an
// unsubscribe func. Unsubscribing twice is harmless.
func (b *Bus) Subscribe(entity Entity, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[entity] == nil {
		b.subs[entity] = make(map[int]Handler)
	}
	b.next++
	id := b.next
	b.subs[entity][id] = h

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[entity], id)
	}
}

// Publish delivers the event to every handler subscribed to its entity.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[ev.Entity]))
	for _, h := range b.subs[ev.Entity] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ev)
	}
}
