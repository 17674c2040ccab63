package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"slawn/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Client is one live stream connection.
type Client struct {
	UserID string
	Stream string
	Conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
}

func NewClient(userID, stream string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Stream: stream,
		Conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

// Deliver queues a frame. It reports false once the client has been closed.
func (c *Client) Deliver(frame []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case <-c.done:
		return false
	case c.send <- frame:
		return true
	}
}

func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close ends the stream. WritePump sends a close frame on the way out.
func (c *Client) Close() {
	c.once.Do(func() { close(c.done) })
}

// Manager tracks all active stream connections.
type Manager struct {
	clients    map[string]map[*Client]struct{}
	Register   chan *Client
	Unregister chan *Client
	stopped    chan struct{}
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		stopped:    make(chan struct{}),
	}
}

// Start runs the registration loop until ctx is done, then closes every client.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		defer close(m.stopped)
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				if m.clients[client.UserID] == nil {
					m.clients[client.UserID] = make(map[*Client]struct{})
				}
				m.clients[client.UserID][client] = struct{}{}
				m.mutex.Unlock()
				logger.Debug("Stream %s opened for %s", client.Stream, client.UserID)

			case client := <-m.Unregister:
				m.remove(client)
				logger.Debug("Stream %s closed for %s", client.Stream, client.UserID)

			case <-ctx.Done():
				m.mutex.Lock()
				for _, set := range m.clients {
					for client := range set {
						client.Close()
					}
				}
				m.clients = make(map[string]map[*Client]struct{})
				m.mutex.Unlock()
				return
			}
		}
	}()
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if set, ok := m.clients[client.UserID]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(m.clients, client.UserID)
		}
	}
	client.Close()
}

// ActiveStreams returns the number of open streams across all users.
func (m *Manager) ActiveStreams() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	total := 0
	for _, set := range m.clients {
		total += len(set)
	}
	return total
}

// ReadPump only watches for the peer going away; streams are server to client.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		select {
		case m.Unregister <- c:
		case <-m.stopped:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Stream %s read error: %v", c.Stream, err)
			}
			return
		}
	}
}

// WritePump sends queued frames and keepalive pings until the client closes.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				logger.Warn("Stream %s write error: %v", c.Stream, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
