// internal/handlers/hub.go
package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/sirupsen/logrus"
)

// outBufferSize is how many messages may queue for one client before it is
// considered too slow and dropped.
const outBufferSize = 64

// Connection wraps a single client's WebSocket. Everything sent to the client goes
// through OutChan and is written by that connection's write pump.
type Connection struct {
	PlayerID uuid.UUID
	Cancel   context.CancelFunc // stops the read and write pumps
	OutChan  chan []byte

	overflowed atomic.Bool
}

// NewConnection builds a connection with a buffered outbound queue.
func NewConnection(playerID uuid.UUID, cancel context.CancelFunc) *Connection {
	return &Connection{
		PlayerID: playerID,
		Cancel:   cancel,
		OutChan:  make(chan []byte, outBufferSize),
	}
}

// Write queues msg without blocking. A full queue means the client stopped reading;
// the connection is cancelled and Write reports false.
func (conn *Connection) Write(msg []byte) bool {
	select {
	case conn.OutChan <- msg:
		return true
	default:
		if conn.overflowed.CompareAndSwap(false, true) && conn.Cancel != nil {
			conn.Cancel()
		}
		return false
	}
}

// Overflowed reports whether the connection was dropped for not keeping up.
func (conn *Connection) Overflowed() bool {
	return conn.overflowed.Load()
}

// Hub tracks every live connection, seated or not, so game events can reach them.
// Hub never calls into games, so games may call it while holding their own lock.
type Hub struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]*Connection
	Log   logrus.FieldLogger
}

func NewHub(logger logrus.FieldLogger) *Hub {
	return &Hub{
		conns: make(map[uuid.UUID]*Connection),
		Log:   logger,
	}
}

func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn.PlayerID] = conn
}

func (h *Hub) Unregister(playerID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, playerID)
}

// Count returns the number of live connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// SendToPlayer delivers ev to one player if they are still connected.
func (h *Hub) SendToPlayer(playerID uuid.UUID, ev game.GameEvent) {
	h.mu.RLock()
	conn, ok := h.conns[playerID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if !conn.Write(convertEventToBytes(h.Log, ev)) {
		h.Log.WithField("player", playerID).Warnf("Outbound queue full, dropping %s and disconnecting", ev.Type)
	}
}

// SendToAll delivers ev to every connected client.
func (h *Hub) SendToAll(ev game.GameEvent) {
	data := convertEventToBytes(h.Log, ev)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, conn := range h.conns {
		if !conn.Write(data) {
			h.Log.WithField("player", id).Warnf("Outbound queue full, dropping %s and disconnecting", ev.Type)
		}
	}
}

// convertEventToBytes marshals a GameEvent into JSON bytes.
// Logs a warning and returns empty JSON "{}" on marshalling error.
func convertEventToBytes(logger logrus.FieldLogger, ev game.GameEvent) []byte {
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Warnf("Failed to marshal GameEvent type %s: %v", ev.Type, err)
		return []byte("{}")
	}
	return data
}
