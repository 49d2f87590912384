package lobby

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *LobbyStore {
	s := NewLobbyStore()
	s.NewGame = func() *game.UnoGame {
		g := game.NewUnoGame()
		g.TickInterval = 0
		return g
	}
	return s
}

func fillLobby(t *testing.T, s *LobbyStore) (*game.UnoGame, []uuid.UUID) {
	t.Helper()
	ids := make([]uuid.UUID, game.MaxPlayers)
	var g *game.UnoGame
	for i := range ids {
		ids[i] = uuid.New()
		joined, err := s.JoinGame(ids[i], fmt.Sprintf("p%d", i))
		require.NoError(t, err)
		if g == nil {
			g = joined
		}
		require.Same(t, g, joined, "first four players share a lobby")
	}
	require.True(t, g.Started)
	return g, ids
}

// forceWin lets seat 0 go out on their next play.
func forceWin(t *testing.T, g *game.UnoGame, winner uuid.UUID) {
	t.Helper()
	last := models.NewNumberCard(models.ColorRed, 4)
	g.Players[0].Hand = []*models.Card{last}
	g.Deck = game.NewDeckFrom(nil, []*models.Card{models.NewNumberCard(models.ColorRed, 3)})
	require.True(t, g.PlayCard(winner, last.ID))
	require.True(t, g.Finished())
}

func TestJoinGameFillsLobbiesInOrder(t *testing.T) {
	s := newTestStore()
	first, _ := fillLobby(t, s)

	fifth := uuid.New()
	second, err := s.JoinGame(fifth, "p4")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID, "a full lobby gets a new one")
	assert.False(t, second.Started)

	lobbies := s.GetLobbies()
	require.Len(t, lobbies, 2)
	assert.Same(t, first, lobbies[0])
	assert.Same(t, second, lobbies[1])

	got, ok := s.GetLobby(second.ID)
	require.True(t, ok)
	assert.Same(t, second, got)

	seat, ok := s.LobbyFor(fifth)
	require.True(t, ok)
	assert.Same(t, second, seat)

	_, ok = s.LobbyFor(uuid.New())
	assert.False(t, ok)
}

func TestJoinGameRejectsSeatedPlayer(t *testing.T) {
	s := newTestStore()
	id := uuid.New()
	_, err := s.JoinGame(id, "alice")
	require.NoError(t, err)

	_, err = s.JoinGame(id, "alice")
	assert.ErrorIs(t, err, ErrAlreadySeated)
	assert.Len(t, s.GetLobbies(), 1)
}

func TestFinishedLobbyIsNotReused(t *testing.T) {
	s := newTestStore()
	g, ids := fillLobby(t, s)
	forceWin(t, g, ids[0])

	// The winner may play again, in a new lobby.
	next, err := s.JoinGame(ids[0], "p0")
	require.NoError(t, err)
	assert.NotEqual(t, g.ID, next.ID)
	assert.Len(t, next.Players, 1)
	assert.Len(t, g.Players, game.MaxPlayers)
}

func TestHandleDisconnect(t *testing.T) {
	s := newTestStore()
	g, ids := fillLobby(t, s)

	s.HandleDisconnect(ids[1])
	assert.True(t, g.Players[1].IsBot)
	_, ok := s.LobbyFor(ids[1])
	assert.False(t, ok)
	_, ok = s.GetLobby(g.ID)
	assert.True(t, ok, "a running lobby stays even with bots")

	// Unknown players are ignored.
	s.HandleDisconnect(uuid.New())
}

func TestAbandonedFinishedLobbyIsRemoved(t *testing.T) {
	s := newTestStore()
	g, ids := fillLobby(t, s)
	forceWin(t, g, ids[0])

	for i, id := range ids {
		s.HandleDisconnect(id)
		_, ok := s.GetLobby(g.ID)
		assert.Equal(t, i < len(ids)-1, ok, "lobby kept while anyone is connected")
	}
	assert.Empty(t, s.GetLobbies())
}

func TestConcurrentJoins(t *testing.T) {
	s := newTestStore()
	const n = game.MaxPlayers * 5

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.JoinGame(uuid.New(), fmt.Sprintf("p%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	lobbies := s.GetLobbies()
	require.Len(t, lobbies, 5)
	for _, g := range lobbies {
		assert.Len(t, g.Summary().Players, game.MaxPlayers)
		assert.True(t, g.Summary().Started)
	}
}
