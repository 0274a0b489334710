package events

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBus_DeliversToMatchingEntityOnly(t *testing.T) {
	bus := NewBus()

	var receivings, products []Event
	bus.Subscribe(EntityReceiving, func(ev Event) { receivings = append(receivings, ev) })
	bus.Subscribe(EntityProduct, func(ev Event) { products = append(products, ev) })

	tenant := uuid.New()
	bus.Publish(Event{Entity: EntityReceiving, Kind: KindCreated, TenantID: tenant, ID: uuid.New()})
	bus.Publish(Event{Entity: EntityReceiving, Kind: KindDeleted, TenantID: tenant, ID: uuid.New()})
	bus.Publish(Event{Entity: EntityProduct, Kind: KindUpdated, TenantID: tenant, ID: uuid.New()})

	assert.Len(t, receivings, 2)
	assert.Len(t, products, 1)
	assert.Equal(t, KindCreated, receivings[0].Kind)
	assert.Equal(t, KindDeleted, receivings[1].Kind)
	assert.Equal(t, KindUpdated, products[0].Kind)
}

func TestBus_MultipleSubscribersSameEntity(t *testing.T) {
	bus := NewBus()

	var a, b int
	bus.Subscribe(EntityVendor, func(Event) { a++ })
	bus.Subscribe(EntityVendor, func(Event) { b++ })

	bus.Publish(Event{Entity: EntityVendor, Kind: KindCreated})
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	var calls int
	unsub := bus.Subscribe(EntityPayment, func(Event) { calls++ })

	bus.Publish(Event{Entity: EntityPayment, Kind: KindCreated})
	unsub()
	bus.Publish(Event{Entity: EntityPayment, Kind: KindCreated})
	unsub() // second call is a no-op

	assert.Equal(t, 1, calls)
}

func TestBus_PublishWithNoSubscribers(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(Event{Entity: EntityMovement, Kind: KindCreated})
	})
}
