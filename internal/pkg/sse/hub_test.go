package sse

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishDeliversToUserOnly(t *testing.T) {
	hub := NewHub()
	mine, cleanupMine := hub.Subscribe("u1")
	defer cleanupMine()
	other, cleanupOther := hub.Subscribe("u2")
	defer cleanupOther()

	hub.Publish("u1", "leave.status_changed", map[string]string{"status": "APPROVED"})

	select {
	case ev := <-mine:
		assert.Equal(t, "leave.status_changed", ev.Name)
		assert.Equal(t, "u1", ev.UserID)
		assert.Equal(t, uint64(1), ev.ID)
	default:
		t.Fatal("expected event for u1")
	}

	select {
	case <-other:
		t.Fatal("u2 must not receive u1 events")
	default:
	}
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe("u1")
	assert.Equal(t, 1, hub.SubscriberCount("u1"))

	cleanup()
	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount("u1"))

	hub.Publish("u1", "noop", nil)
}

func TestHub_PublishDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("u1")
	defer cleanup()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish("u1", "tick", i)
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestEvent_WriteTo(t *testing.T) {
	var buf bytes.Buffer
	_, err := Event{ID: 7, Name: "leave.status_changed", Data: map[string]string{"id": "l1"}}.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "id: 7\nevent: leave.status_changed\ndata: {\"id\":\"l1\"}\n\n", buf.String())
}

func TestHub_CloseEndsStreams(t *testing.T) {
	hub := NewHub()
	events, cleanup := hub.Subscribe("u1")

	hub.Close()

	_, ok := <-events
	assert.False(t, ok)
	assert.Equal(t, 0, hub.SubscriberCount("u1"))
	assert.NotPanics(t, cleanup)

	late, lateCleanup := hub.Subscribe("u1")
	_, ok = <-late
	assert.False(t, ok)
	lateCleanup()
}
