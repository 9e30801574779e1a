package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"stockflow-backend/internal/timeutil"
)

// Hub fans transfer and stock events out to connected dashboard clients.
type Hub struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	mutex      sync.Mutex
}

// Event is the wire format pushed to clients.
type Event struct {
	Kind      string      `json:"kind"`
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the frontend origin; auth happens via
	// the JWT middleware before the upgrade.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mutex.Lock()
			h.clients[conn] = true
			h.mutex.Unlock()
			log.Printf("[WS] client connected (%d active)", len(h.clients))

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Publish sends an event to every connected client. Drops the event when
// the broadcast buffer is full rather than blocking a request handler.
func (h *Hub) Publish(kind string, payload interface{}) {
	event := Event{
		Kind:      kind,
		Payload:   payload,
		Timestamp: timeutil.Now().Format(timeutil.DateTimeLayout),
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[WS] failed to marshal %s event: %v", kind, err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Printf("[WS] broadcast buffer full, dropping %s event", kind)
	}
}

// ServeHTTP upgrades the connection and registers the client. The client
// is read-only; incoming messages are discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
		return
	}
	h.register <- conn

	go func() {
		defer func() { h.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
