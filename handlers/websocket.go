package handlers

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/sirupsen/logrus"
)

const (
	writeWait = 5 * time.Second
	// Messages queued per client before it is considered too slow and dropped
	sendQueueSize = 16
)

// ConnectedClient is written to by its own goroutine, so Broadcast never waits on the network
type ConnectedClient struct {
	send chan []byte
	done chan struct{}
}

func newConnectedClient() *ConnectedClient {
	return &ConnectedClient{
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}
}

// queue returns false if the client is gone or its queue is full
func (c *ConnectedClient) queue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Hub keeps the connected /events clients
type Hub struct {
	clients cmap.ConcurrentMap[string, *ConnectedClient]
	log     logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		clients: cmap.New[*ConnectedClient](),
		log:     log,
	}
}

// Broadcast queues msg for all clients, dropping the ones that cannot keep up
func (hub *Hub) Broadcast(msg WSMessage) {
	data, err := jsoniter.Marshal(msg)
	if err != nil {
		hub.log.WithError(err).Error("Encoding websocket message")
		return
	}
	for item := range hub.clients.IterBuffered() {
		if !item.Val.queue(data) {
			hub.clients.Remove(item.Key)
		}
	}
}

func (hub *Hub) Count() int {
	return hub.clients.Count()
}

func newUpgrader(origins []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(origins, "*") || slices.Contains(origins, origin)
		},
	}
}

// Events streams WSMessage notifications about saved known faces and processed photos.
// Clients may send "ping" and get "pong" back.
func (h *Handler) Events(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("Websocket upgrade")
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	client := newConnectedClient()
	h.hub.clients.Set(id, client)
	defer h.hub.clients.Remove(id)
	defer close(client.done)
	go h.writeEvents(conn, client)

	// Main read cycle
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if string(message) == "ping" {
			client.queue([]byte("pong"))
		}
	}
}

// writeEvents is the only writer of conn. A failed write closes the connection,
// which ends the read cycle in Events.
func (h *Handler) writeEvents(conn *websocket.Conn, client *ConnectedClient) {
	for {
		select {
		case <-client.done:
			return
		case data := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.log.WithError(err).Debug("Websocket write")
				conn.Close()
				return
			}
		}
	}
}
