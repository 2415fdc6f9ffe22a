package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/obs"
	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/snapshot"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub pushes the latest snapshot to every connected WebSocket client
// whenever the updater signals a change. Deliberately has no per-IP or
// global connection-limiting middleware: a referee console's snapshot
// stream has no public attacker-facing surface to defend.
type Hub struct {
	clients    map[*websocket.Conn]struct{}
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.RWMutex
}

// NewHub creates an unstarted Hub; call Run in a goroutine before serving.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]struct{}),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

// Run drives the hub's register/unregister/broadcast loop until stop fires.
func (h *Hub) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			obs.SetWSConnections(n)
		case conn := <-h.unregister:
			h.mu.Lock()
			delete(h.clients, conn)
			n := len(h.clients)
			h.mu.Unlock()
			conn.Close()
			obs.SetWSConnections(n)
		case msg := <-h.broadcast:
			h.mu.RLock()
			var dead []*websocket.Conn
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					dead = append(dead, conn)
				}
			}
			h.mu.RUnlock()
			if len(dead) > 0 {
				h.mu.Lock()
				for _, conn := range dead {
					delete(h.clients, conn)
				}
				n := len(h.clients)
				h.mu.Unlock()
				for _, conn := range dead {
					conn.Close()
				}
				obs.SetWSConnections(n)
			}
		}
	}
}

// BroadcastSnapshot marshals s and queues it for every connected client,
// dropping the push (not blocking) if the broadcast channel is saturated.
func (h *Hub) BroadcastSnapshot(s snapshot.GameSnapshot) {
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

// HandleWebSocket upgrades the request and registers the connection with
// the hub. The server does not read client messages — this is a read-only
// stream.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("httpapi: websocket upgrade error: %v", err)
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
