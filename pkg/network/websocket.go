package network

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sospetto-game/server/pkg/log"
	"github.com/sospetto-game/server/pkg/messages"
	"nhooyr.io/websocket"
)

// MessageHandler handles one decoded message from a connected client.
type MessageHandler func(clientID string, msg *messages.Message)

// DisconnectHandler handles a client connection going away.
type DisconnectHandler func(clientID string)

// WSHandler upgrades HTTP requests to WebSocket connections and pumps their
// messages into the handler. Messages from one connection are handled in
// order, one at a time.
type WSHandler struct {
	clients      *ClientManager
	onMessage    MessageHandler
	onDisconnect DisconnectHandler
}

type NewWSHandlerOptions struct {
	ClientManager *ClientManager
	OnMessage     MessageHandler
	OnDisconnect  DisconnectHandler
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(opts NewWSHandlerOptions) *WSHandler {
	return &WSHandler{
		clients:      opts.ClientManager,
		onMessage:    opts.OnMessage,
		onDisconnect: opts.OnDisconnect,
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Error("failed to accept WebSocket connection: %v", err)
		return
	}

	clientID := h.clients.AddClient(conn)
	log.Debug("client %s connected from %s", clientID, r.RemoteAddr)

	defer func() {
		h.onDisconnect(clientID)
		h.clients.RemoveClient(clientID)
		conn.Close(websocket.StatusNormalClosure, "")
		log.Debug("client %s disconnected", clientID)
	}()

	ctx := r.Context()
	for {
		msg, err := ReadMessageFromWS(ctx, conn)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				log.Trace("connection closed for client %s", clientID)
			default:
				log.Debug("error reading from client %s: %v", clientID, err)
			}
			return
		}
		h.onMessage(clientID, msg)
	}
}

// WriteMessageToWS writes a Message to a WebSocket connection.
func WriteMessageToWS(ctx context.Context, conn *websocket.Conn, msg *messages.Message) error {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}
	if err := conn.Write(ctx, websocket.MessageBinary, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %w", err)
	}
	return nil
}

// ReadMessageFromWS reads a Message from a WebSocket connection.
func ReadMessageFromWS(ctx context.Context, conn *websocket.Conn) (*messages.Message, error) {
	_, b, err := conn.Read(ctx)
	if err != nil {
		return nil, err
	}
	msg, err := messages.DeserializeMessage(b)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %w", err)
	}
	return msg, nil
}
