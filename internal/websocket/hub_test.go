package websocket

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-hub/internal/registry"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHub_AttachDetach(t *testing.T) {
	hub := NewHub(discardLogger())
	client := NewClient("conn-1", nil, hub, discardLogger())

	hub.Attach(client)
	assert.Equal(t, 1, hub.Count())
	assert.ElementsMatch(t, []registry.ConnID{"conn-1"}, hub.IDs())

	hub.Detach("conn-1")
	assert.Equal(t, 0, hub.Count())
	assert.Empty(t, hub.IDs())
}

func TestHub_DeliverQueuesOnSendChannel(t *testing.T) {
	hub := NewHub(discardLogger())
	client := NewClient("conn-1", nil, hub, discardLogger())
	hub.Attach(client)

	hub.Deliver("conn-1", []byte("one"))
	hub.Deliver("conn-1", []byte("two"))

	require.Len(t, client.send, 2)
	assert.Equal(t, []byte("one"), <-client.send)
	assert.Equal(t, []byte("two"), <-client.send)
}

func TestHub_DeliverToUnknownConnectionIsNoop(t *testing.T) {
	hub := NewHub(discardLogger())

	hub.Deliver("ghost", []byte("lost"))

	assert.Equal(t, 0, hub.Count())
}

func TestHub_DeliverDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(discardLogger())
	client := NewClient("conn-1", nil, hub, discardLogger())
	hub.Attach(client)

	for i := 0; i < sendBufferSize; i++ {
		hub.Deliver("conn-1", []byte("fill"))
	}
	// One more must not block the caller.
	hub.Deliver("conn-1", []byte("overflow"))

	assert.Len(t, client.send, sendBufferSize)
}

func TestHub_DeliverAfterDetachIsSafe(t *testing.T) {
	hub := NewHub(discardLogger())
	client := NewClient("conn-1", nil, hub, discardLogger())
	hub.Attach(client)
	hub.Detach("conn-1")

	hub.Deliver("conn-1", []byte("late"))

	assert.Empty(t, client.send)
}
