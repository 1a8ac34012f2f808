package network

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sospetto-game/server/pkg/log"
	"github.com/sospetto-game/server/pkg/messages"
	"nhooyr.io/websocket"
)

// writeTimeout bounds a single frame write to one client.
const writeTimeout = 5 * time.Second

// sendBufferSize is how many outbound messages a client may fall behind
// before further ones are dropped.
const sendBufferSize = 64

// Client represents a connected client. Outbound messages go through a
// buffered channel drained by a dedicated writer goroutine, so a slow
// connection never stalls the sender.
type Client struct {
	ID     string
	wsConn *websocket.Conn

	send      chan *messages.Message
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(id string, wsConn *websocket.Conn) *Client {
	return &Client{
		ID:     id,
		wsConn: wsConn,
		send:   make(chan *messages.Message, sendBufferSize),
		done:   make(chan struct{}),
	}
}

// close stops the writer goroutine. Idempotent.
func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// enqueue hands a message to the writer without ever blocking. A full buffer
// means the connection is not keeping up, so the message is dropped; the
// next room broadcast carries fresh state anyway.
func (c *Client) enqueue(msg *messages.Message) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- msg:
	default:
		log.Warn("client %s send buffer full, dropping %s message", c.ID, msg.Type)
	}
}

func (c *Client) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := WriteMessageToWS(ctx, c.wsConn, msg)
			cancel()
			if err != nil {
				// The read loop surfaces the failing connection; here we
				// only report it.
				log.Error("failed to write %s message to client %s: %v", msg.Type, c.ID, err)
			}
		}
	}
}

// ClientManager tracks connected clients and their room membership, and
// delivers messages to them. It satisfies the game engine's Messenger.
type ClientManager struct {
	clientsLock sync.RWMutex
	clients     map[string]*Client
	rooms       map[string]map[string]*Client
}

// NewClientManager creates a new ClientManager.
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

// AddClient registers a new connection, starts its writer and returns its
// client id.
func (cm *ClientManager) AddClient(wsConn *websocket.Conn) string {
	client := newClient(uuid.NewString(), wsConn)
	cm.clientsLock.Lock()
	cm.clients[client.ID] = client
	cm.clientsLock.Unlock()
	go client.writeLoop()
	return client.ID
}

// RemoveClient drops a client, stops its writer and clears any room
// membership it still holds.
func (cm *ClientManager) RemoveClient(clientID string) {
	cm.clientsLock.Lock()
	client := cm.clients[clientID]
	delete(cm.clients, clientID)
	for roomID, members := range cm.rooms {
		delete(members, clientID)
		if len(members) == 0 {
			delete(cm.rooms, roomID)
		}
	}
	cm.clientsLock.Unlock()
	if client != nil {
		client.close()
	}
}

// Exists reports whether a client is connected.
func (cm *ClientManager) Exists(clientID string) bool {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	_, ok := cm.clients[clientID]
	return ok
}

// AddToRoom adds a connected client to a room's delivery group.
func (cm *ClientManager) AddToRoom(clientID string, roomID string) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()
	client, ok := cm.clients[clientID]
	if !ok {
		return
	}
	members, ok := cm.rooms[roomID]
	if !ok {
		members = make(map[string]*Client)
		cm.rooms[roomID] = members
	}
	members[clientID] = client
}

// RemoveFromRoom removes a client from a room's delivery group.
func (cm *ClientManager) RemoveFromRoom(clientID string, roomID string) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()
	members, ok := cm.rooms[roomID]
	if !ok {
		return
	}
	delete(members, clientID)
	if len(members) == 0 {
		delete(cm.rooms, roomID)
	}
}

// Unicast queues a message for one client. Delivery is asynchronous; the
// caller never waits on the socket.
func (cm *ClientManager) Unicast(clientID string, msg *messages.Message) {
	cm.clientsLock.RLock()
	client, ok := cm.clients[clientID]
	cm.clientsLock.RUnlock()
	if !ok {
		return
	}
	client.enqueue(msg)
}

// Broadcast queues a message for every client in a room.
func (cm *ClientManager) Broadcast(roomID string, msg *messages.Message) {
	cm.clientsLock.RLock()
	members := make([]*Client, 0, len(cm.rooms[roomID]))
	for _, client := range cm.rooms[roomID] {
		members = append(members, client)
	}
	cm.clientsLock.RUnlock()

	for _, client := range members {
		client.enqueue(msg)
	}
}
