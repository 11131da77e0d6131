// websocket/hub.go

// Package websocket pushes live updates to signed-in clients, grouped by
// department and addressable per user.
package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type BroadcastMessage struct {
	DeptID  string
	UserID  string
	Message []byte
}

type Hub struct {
	clients    map[string]map[*Client]bool // keyed by department id
	broadcast  chan BroadcastMessage
	register   chan *Client
	unregister chan *Client
	mutex      sync.Mutex
}

type Client struct {
	deptID string
	userID string
	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
}

var hub = &Hub{
	clients:    make(map[string]map[*Client]bool),
	broadcast:  make(chan BroadcastMessage),
	register:   make(chan *Client),
	unregister: make(chan *Client),
}

func GetHub() *Hub {
	return hub
}

// NewClient wraps an upgraded connection; Register starts its pumps.
func NewClient(conn *websocket.Conn, deptID, userID string) *Client {
	return &Client{
		deptID: deptID,
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 64),
		hub:    hub,
	}
}

func (h *Hub) Register(c *Client) {
	h.register <- c
	go c.writePump()
	go c.readPump()
}

func (h *Hub) Run() {
	log.Println("WebSocket hub started")
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			if _, ok := h.clients[client.deptID]; !ok {
				h.clients[client.deptID] = make(map[*Client]bool)
			}
			h.clients[client.deptID][client] = true
			h.mutex.Unlock()

		case client := <-h.unregister:
			h.mutex.Lock()
			if clients, ok := h.clients[client.deptID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.deptID)
					}
				}
			}
			h.mutex.Unlock()

		case bm := <-h.broadcast:
			h.mutex.Lock()
			h.deliver(bm)
			h.mutex.Unlock()
		}
	}
}

// deliver fans a message out to the department's clients, or to one user's
// connections anywhere when UserID is set. Caller holds the lock.
func (h *Hub) deliver(bm BroadcastMessage) {
	send := func(clients map[*Client]bool) {
		for client := range clients {
			if bm.UserID != "" && client.userID != bm.UserID {
				continue
			}
			select {
			case client.send <- bm.Message:
			default:
				close(client.send)
				delete(clients, client)
			}
		}
	}

	if bm.UserID != "" {
		for _, clients := range h.clients {
			send(clients)
		}
		return
	}
	if clients, ok := h.clients[bm.DeptID]; ok {
		send(clients)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	for {
		// Clients only listen; drain and discard anything they send.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
