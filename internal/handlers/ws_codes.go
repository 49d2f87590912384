// internal/handlers/ws_codes.go
package handlers

import "github.com/coder/websocket"

// Custom WebSocket close codes used by the game handler.
const (
	SlowConsumerError websocket.StatusCode = 3000 // Outbound queue overflowed; the client was not reading.
)

// Subprotocol clients should request. Clients that request none are still accepted.
const gameSubprotocol = "uno"
