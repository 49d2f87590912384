// internal/lobby/lobby_store.go
package lobby

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrAlreadySeated is returned when a connection asks to join while it still holds
// a seat in a round that has not finished.
var ErrAlreadySeated = errors.New("player is already seated in a lobby")

// LobbyStore is the process-wide registry of lobbies. It hands out seats and
// remembers which lobby each player sits in so actions can be routed.
type LobbyStore struct {
	mu      sync.Mutex
	lobbies map[uuid.UUID]*game.UnoGame
	order   []*game.UnoGame // creation order; the first open lobby gets the next player
	seats   map[uuid.UUID]*game.UnoGame

	// NewGame builds each new lobby. Callers use it to attach broadcasters,
	// the leaderboard and the action log.
	NewGame func() *game.UnoGame

	Log logrus.FieldLogger
}

// NewLobbyStore initializes and returns an empty LobbyStore.
func NewLobbyStore() *LobbyStore {
	return &LobbyStore{
		lobbies: make(map[uuid.UUID]*game.UnoGame),
		seats:   make(map[uuid.UUID]*game.UnoGame),
		NewGame: game.NewUnoGame,
		Log:     logrus.StandardLogger(),
	}
}

// JoinGame seats the player in the oldest lobby that is still waiting for players,
// creating a lobby if none is. The fourth seat starts the round.
func (s *LobbyStore) JoinGame(playerID uuid.UUID, nickname string) (*game.UnoGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g, ok := s.seats[playerID]; ok && !g.Finished() {
		return nil, ErrAlreadySeated
	}

	p := &models.Player{ID: playerID, Nickname: nickname}
	for _, g := range s.order {
		if !g.Joinable() {
			continue
		}
		if err := g.AddPlayer(p); err != nil {
			s.Log.WithField("lobby_id", g.ID).Warnf("Join failed on open lobby: %v", err)
			continue
		}
		s.seats[playerID] = g
		return g, nil
	}

	g := s.NewGame()
	s.lobbies[g.ID] = g
	s.order = append(s.order, g)
	s.Log.WithField("lobby_id", g.ID).Info("Created lobby")
	if err := g.AddPlayer(p); err != nil {
		return nil, err
	}
	s.seats[playerID] = g
	return g, nil
}

// LobbyFor returns the lobby the player is seated in, if any.
func (s *LobbyStore) LobbyFor(playerID uuid.UUID) (*game.UnoGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.seats[playerID]
	return g, ok
}

// GetLobby retrieves a lobby by its ID.
func (s *LobbyStore) GetLobby(id uuid.UUID) (*game.UnoGame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.lobbies[id]
	return g, ok
}

// GetLobbies returns every lobby in creation order. The slice is a copy.
func (s *LobbyStore) GetLobbies() []*game.UnoGame {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*game.UnoGame, len(s.order))
	copy(out, s.order)
	return out
}

// HandleDisconnect hands the player's seat to a bot and forgets the connection.
// Finished lobbies with nobody left connected are dropped.
func (s *LobbyStore) HandleDisconnect(playerID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.seats[playerID]
	if !ok {
		return
	}
	delete(s.seats, playerID)
	g.HandleDisconnect(playerID)

	if g.Finished() && g.Abandoned() {
		s.deleteLobby(g)
	}
}

// deleteLobby assumes lock is held.
func (s *LobbyStore) deleteLobby(g *game.UnoGame) {
	delete(s.lobbies, g.ID)
	for i, other := range s.order {
		if other == g {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.Log.WithField("lobby_id", g.ID).Info("Removed finished lobby")
}
