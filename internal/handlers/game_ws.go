// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/jason-s-yu/uno/internal/lobby"
	"github.com/jason-s-yu/uno/internal/middleware"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	eventPong  game.GameEventType = "pong"
	eventError game.GameEventType = "error"

	maxNicknameLen = 24
	pingInterval   = 30 * time.Second
	writeTimeout   = 5 * time.Second
)

// GameMessage is an incoming client frame.
type GameMessage struct {
	Type string `json:"type"`

	// Nickname is set on joinGame.
	Nickname string `json:"nickname,omitempty"`

	// Card names the card to play. Only the id is used; everything else about the
	// card comes from the player's hand.
	Card *cardRef `json:"card,omitempty"`

	// Color is set on chooseColor.
	Color string `json:"color,omitempty"`
}

type cardRef struct {
	ID int64 `json:"id"`
}

// errorPayload is the body of an error frame.
type errorPayload struct {
	Message string `json:"message"`
}

// GameWSHandler upgrades the connection, gives it a fresh player id and routes
// its frames to the player's lobby until it disconnects.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{gameSubprotocol},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if sp := c.Subprotocol(); sp != gameSubprotocol {
			logger.Debugf("Client %s connected without the %q subprotocol", r.RemoteAddr, gameSubprotocol)
		}

		playerID := uuid.New()
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		conn := NewConnection(playerID, cancel)
		gs.Hub.Register(conn)
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		done := make(chan struct{})
		go func() {
			writePump(ctx, c, conn, logger)
			close(done)
		}()

		// Clients show the leaderboard before they join.
		conn.Write(convertEventToBytes(logger, game.GameEvent{
			Type:    game.EventGlobalLeaderboard,
			Payload: gs.Leaderboard.Snapshot(),
		}))

		readErr := readGameMessages(ctx, c, gs, conn, logger)

		gs.Hub.Unregister(playerID)
		gs.Lobbies.HandleDisconnect(playerID)
		cancel()
		<-done
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, readErr)
	}
}

// readGameMessages reads frames until the connection closes or ctx is cancelled.
// It returns nil for a normal close.
func readGameMessages(ctx context.Context, c *websocket.Conn, gs *GameServer, conn *Connection, logger *logrus.Logger) error {
	log := logger.WithField("player", conn.PlayerID)
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			log.Warnf("Ignoring non-text message type %d", msgType)
			continue
		}

		var msg GameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warnf("Invalid JSON received: %v", err)
			sendWsError(logger, conn, "Invalid JSON format.")
			continue
		}
		log.Debugf("Received %q", msg.Type)

		handleGameMessage(gs, conn, msg, log, logger)
	}
}

// handleGameMessage routes one decoded frame. Game actions that are not allowed
// right now are dropped by the game without a reply.
func handleGameMessage(gs *GameServer, conn *Connection, msg GameMessage, log logrus.FieldLogger, logger *logrus.Logger) {
	switch msg.Type {
	case "joinGame":
		nickname := cleanNickname(msg.Nickname, conn.PlayerID)
		g, err := gs.Lobbies.JoinGame(conn.PlayerID, nickname)
		if errors.Is(err, lobby.ErrAlreadySeated) {
			log.Debug("Ignored join: already seated")
			return
		}
		if err != nil {
			log.Warnf("Join failed: %v", err)
			sendWsError(logger, conn, "Could not join a game.")
			return
		}
		log.WithFields(logrus.Fields{"lobby_id": g.ID, "nickname": nickname}).Info("Player joined lobby")

	case "playCard":
		g, ok := gs.Lobbies.LobbyFor(conn.PlayerID)
		if !ok || msg.Card == nil {
			return
		}
		g.PlayCard(conn.PlayerID, msg.Card.ID)

	case "chooseColor":
		g, ok := gs.Lobbies.LobbyFor(conn.PlayerID)
		if !ok {
			return
		}
		color, err := models.ParseColor(msg.Color)
		if err != nil {
			log.Debugf("Ignored color choice: %v", err)
			return
		}
		g.ChooseColor(conn.PlayerID, color)

	case "drawCard":
		g, ok := gs.Lobbies.LobbyFor(conn.PlayerID)
		if !ok {
			return
		}
		g.DrawCard(conn.PlayerID)

	case "ping":
		log.Debug("Received ping, sending pong.")
		conn.Write(convertEventToBytes(logger, game.GameEvent{Type: eventPong}))

	default:
		log.Warnf("Unknown message type %q", msg.Type)
		sendWsError(logger, conn, fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

// cleanNickname trims and bounds a client nickname, falling back to a name derived
// from the player id.
func cleanNickname(raw string, playerID uuid.UUID) string {
	name := strings.TrimSpace(raw)
	if utf8.RuneCountInString(name) > maxNicknameLen {
		name = string([]rune(name)[:maxNicknameLen])
	}
	if name == "" {
		name = "Player-" + playerID.String()[:4]
	}
	return name
}

// writePump is the only goroutine that writes to c. It drains conn.OutChan and
// pings the client until ctx is done.
func writePump(ctx context.Context, c *websocket.Conn, conn *Connection, logger *logrus.Logger) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	log := logger.WithField("player", conn.PlayerID)

	defer func() {
		if conn.Overflowed() {
			_ = c.Close(SlowConsumerError, "client is not reading")
			return
		}
		_ = c.Close(websocket.StatusGoingAway, "connection closing")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case data := <-conn.OutChan:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				log.Warnf("Failed to write to websocket: %v", err)
				conn.Cancel()
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				log.Warnf("Failed to send ping: %v. Assuming disconnect.", err)
				conn.Cancel()
				return
			}
		}
	}
}

// sendWsError queues a protocol error for the client.
func sendWsError(logger *logrus.Logger, conn *Connection, message string) {
	conn.Write(convertEventToBytes(logger, game.GameEvent{
		Type:    eventError,
		Payload: errorPayload{Message: message},
	}))
}
