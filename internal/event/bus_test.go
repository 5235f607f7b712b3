package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBusFansOutToSubscribers(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	first, unsubFirst := bus.Subscribe()
	defer unsubFirst()
	second, unsubSecond := bus.Subscribe()
	defer unsubSecond()

	bus.Publish(Event{Type: TypeUserRegistered, ActorID: "u1"})

	for _, ch := range []<-chan Event{first, second} {
		e := <-ch
		require.Equal(t, TypeUserRegistered, e.Type)
		require.Equal(t, "u1", e.ActorID)
		require.NotEmpty(t, e.ID)
		require.NotEmpty(t, e.Timestamp)
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	ch, unsubscribe := bus.Subscribe()
	unsubscribe()
	unsubscribe()

	_, open := <-ch
	require.False(t, open)

	bus.Publish(Event{Type: TypeTokenRevoked})
}

func TestBusDropsWhenSubscriberIsFull(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for i := 0; i < subscriberBuffer+10; i++ {
		bus.Publish(Event{Type: TypeLoginFailed})
	}

	require.Len(t, ch, subscriberBuffer)
}
