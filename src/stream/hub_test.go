package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversOnlyToSessionSubscribers(t *testing.T) {
	hub := NewHub(4)
	s1 := hub.Subscribe("s1")
	s2 := hub.Subscribe("s2")

	hub.Publish(Event{Type: EventTrade, SessionID: "s1", ID: 7})

	select {
	case ev := <-s1.Events():
		assert.Equal(t, uint(7), ev.ID)
		assert.Equal(t, EventTrade, ev.Type)
	default:
		t.Fatal("expected event for s1 subscriber")
	}

	select {
	case ev := <-s2.Events():
		t.Fatalf("unexpected event for s2: %+v", ev)
	default:
	}
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	hub := NewHub(1)
	sub := hub.Subscribe("s1")

	hub.Publish(Event{SessionID: "s1", ID: 1})
	hub.Publish(Event{SessionID: "s1", ID: 2})

	assert.Equal(t, 0, hub.Subscribers("s1"))

	ev, ok := <-sub.Events()
	require.True(t, ok)
	assert.Equal(t, uint(1), ev.ID)

	_, ok = <-sub.Events()
	assert.False(t, ok, "channel should be closed after drop")
}

func TestSubscriberCloseIsIdempotent(t *testing.T) {
	hub := NewHub(2)
	sub := hub.Subscribe("s1")
	require.Equal(t, 1, hub.Subscribers("s1"))

	sub.Close()
	sub.Close()

	assert.Equal(t, 0, hub.Subscribers("s1"))
	hub.Publish(Event{SessionID: "s1"})
}

func TestHubClose(t *testing.T) {
	hub := NewHub(2)
	sub := hub.Subscribe("s1")

	hub.Close()
	hub.Close()

	_, ok := <-sub.Events()
	assert.False(t, ok)

	late := hub.Subscribe("s1")
	_, ok = <-late.Events()
	assert.False(t, ok)

	sub.Close()
	hub.Publish(Event{SessionID: "s1"})
}
