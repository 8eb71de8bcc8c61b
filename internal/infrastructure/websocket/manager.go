package websocket

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"chatstage/pkg/logger"
)

// Client is one connected editor session.
type Client struct {
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte
}

// Manager tracks connected editor sessions and fans state-change events out
// to all of them. Incoming frames (the cancel-key event among them) are
// handed to the event callback; the manager itself stays transport-only.
type Manager struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	broadcast  chan []byte
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan []byte, 16),
	}
}

// Start runs the manager's main loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				m.clients[client.SessionID] = client
				m.mutex.Unlock()
				logger.Debug("editor session connected: %s", client.SessionID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if _, ok := m.clients[client.SessionID]; ok {
					delete(m.clients, client.SessionID)
					close(client.Send)
				}
				m.mutex.Unlock()
				logger.Debug("editor session disconnected: %s", client.SessionID)

			case message := <-m.broadcast:
				m.mutex.Lock()
				for id, client := range m.clients {
					select {
					case client.Send <- message:
					default:
						close(client.Send)
						delete(m.clients, id)
					}
				}
				m.mutex.Unlock()

			case <-ctx.Done():
				return
			}
		}
	}()
}

// Broadcast sends a message to every connected session.
func (m *Manager) Broadcast(message []byte) {
	select {
	case m.broadcast <- message:
	default:
		logger.Warn("broadcast queue full, dropping event")
	}
}

// ReadPump reads frames from the connection and forwards them to onEvent.
func (c *Client) ReadPump(m *Manager, onEvent func(sessionID string, payload []byte)) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("websocket read error: %v", err)
			}
			break
		}
		if onEvent != nil {
			onEvent(c.SessionID, message)
		}
	}
}

// WritePump sends queued messages to the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Error("websocket write error: %v", err)
			return
		}
	}
}
