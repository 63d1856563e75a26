package services

import (
	"encoding/json"
	"sync"
	"time"

	"rightssphere/metrics"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

type WSClient struct {
	UserID string
	Conn   *websocket.Conn

	writeMu sync.Mutex
}

// Write sends one text frame. Writes on a websocket connection must not
// run concurrently.
func (c *WSClient) Write(msg []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.Conn.WriteMessage(websocket.TextMessage, msg)
}

func (c *WSClient) Ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// RealtimeHub fans alert events out to each user's open websockets.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[string]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[string]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
	metrics.RealtimeClients.Inc()
}

// Unregister removes and closes the client. It is safe to call twice.
func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	removed := false
	if set := h.clients[c.UserID]; set != nil {
		if _, ok := set[c]; ok {
			delete(set, c)
			removed = true
		}
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	if removed {
		metrics.RealtimeClients.Dec()
	}
	_ = c.Conn.Close()
}

// Count returns the number of open connections for a user.
func (h *RealtimeHub) Count(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *RealtimeHub) Broadcast(userID string, payload any) {
	msg, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	targets := make([]*WSClient, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.Write(msg); err != nil {
			h.Unregister(c)
		}
	}
}
