// internal/handlers/game_server.go
package handlers

import (
	"time"

	"github.com/jason-s-yu/uno/internal/game"
	"github.com/jason-s-yu/uno/internal/lobby"
	"github.com/sirupsen/logrus"
)

// GameServer holds the shared state behind every handler: the lobby registry,
// the leaderboard and the connection hub.
type GameServer struct {
	Lobbies     *lobby.LobbyStore
	Leaderboard *lobby.Leaderboard
	Hub         *Hub

	// Actions receives the action log of every lobby. Nil disables it.
	Actions game.ActionPublisher

	// TickInterval is handed to every new lobby; zero disables the countdown timer.
	TickInterval time.Duration

	// PublicURL is what /qr.png encodes. Empty means derive it from the request.
	PublicURL string

	Logger *logrus.Logger
}

func NewGameServer(logger *logrus.Logger, actions game.ActionPublisher) *GameServer {
	gs := &GameServer{
		Lobbies:      lobby.NewLobbyStore(),
		Leaderboard:  lobby.NewLeaderboard(),
		Hub:          NewHub(logger),
		Actions:      actions,
		TickInterval: time.Second,
		Logger:       logger,
	}
	gs.Lobbies.Log = logger
	gs.Lobbies.NewGame = gs.newGame
	return gs
}

// newGame builds a lobby wired to this server's hub, leaderboard and action log.
func (gs *GameServer) newGame() *game.UnoGame {
	g := game.NewUnoGame()
	g.Log = gs.Logger
	g.TickInterval = gs.TickInterval
	g.Leaderboard = gs.Leaderboard
	g.Actions = gs.Actions
	g.BroadcastFn = gs.Hub.SendToAll
	g.BroadcastToPlayerFn = gs.Hub.SendToPlayer
	return g
}
