package network

import (
	"testing"
	"time"

	"github.com/sospetto-game/server/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientManagerMembership(t *testing.T) {
	cm := NewClientManager()

	id := cm.AddClient(nil)
	require.True(t, cm.Exists(id))

	cm.AddToRoom(id, "ROOM")
	cm.AddToRoom("never-connected", "ROOM")
	assert.Len(t, cm.rooms["ROOM"], 1)

	cm.RemoveFromRoom(id, "ROOM")
	assert.NotContains(t, cm.rooms, "ROOM", "empty rooms are pruned")

	cm.RemoveClient(id)
	assert.False(t, cm.Exists(id))
}

func TestRemoveClientPrunesRoomMembership(t *testing.T) {
	cm := NewClientManager()

	a := cm.AddClient(nil)
	b := cm.AddClient(nil)
	cm.AddToRoom(a, "ROOM")
	cm.AddToRoom(b, "ROOM")

	cm.RemoveClient(a)
	assert.Len(t, cm.rooms["ROOM"], 1)
	assert.Contains(t, cm.rooms["ROOM"], b)
}

func TestEnqueueNeverBlocksOnFullBuffer(t *testing.T) {
	// No writer goroutine draining, so the buffer stays full.
	c := newClient("stalled", nil)

	finished := make(chan struct{})
	go func() {
		for i := 0; i < sendBufferSize*2; i++ {
			c.enqueue(&messages.Message{Type: "tick"})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a stalled client")
	}
	assert.Len(t, c.send, sendBufferSize, "overflow is dropped, not queued")
}

func TestEnqueueAfterCloseIsDiscarded(t *testing.T) {
	c := newClient("gone", nil)
	c.close()
	c.close()

	c.enqueue(&messages.Message{Type: "tick"})
	assert.Empty(t, c.send)
}

func TestBroadcastDoesNotWaitOnStalledClients(t *testing.T) {
	cm := NewClientManager()
	a := cm.AddClient(nil)
	cm.AddToRoom(a, "ROOM")

	// Stop the writer so nothing drains the buffer, then flood it.
	cm.clientsLock.RLock()
	client := cm.clients[a]
	cm.clientsLock.RUnlock()
	client.close()

	finished := make(chan struct{})
	go func() {
		for i := 0; i < sendBufferSize*2; i++ {
			cm.Broadcast("ROOM", &messages.Message{Type: "tick"})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a stalled client")
	}
}
