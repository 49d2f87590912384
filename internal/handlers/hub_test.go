package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/game"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubRoutesEvents(t *testing.T) {
	logger, _ := test.NewNullLogger()
	h := NewHub(logger)
	a := NewConnection(uuid.New(), func() {})
	b := NewConnection(uuid.New(), func() {})
	h.Register(a)
	h.Register(b)
	assert.Equal(t, 2, h.Count())

	h.SendToPlayer(a.PlayerID, game.GameEvent{Type: game.EventGameOver, Payload: game.GameOverPayload{Winner: "alice"}})
	require.Len(t, a.OutChan, 1)
	assert.Empty(t, b.OutChan)
	assert.JSONEq(t, `{"type":"gameOver","payload":{"winner":"alice"}}`, string(<-a.OutChan))

	h.SendToAll(game.GameEvent{Type: game.EventGlobalLeaderboard, Payload: map[string]int{"alice": 1}})
	for _, conn := range []*Connection{a, b} {
		var ev map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(<-conn.OutChan, &ev))
		assert.JSONEq(t, `"globalLeaderboard"`, string(ev["type"]))
	}

	h.Unregister(b.PlayerID)
	h.SendToPlayer(b.PlayerID, game.GameEvent{Type: game.EventGameState})
	assert.Empty(t, b.OutChan)
	assert.Equal(t, 1, h.Count())
}

func TestConnectionOverflowCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	conn := NewConnection(uuid.New(), cancel)
	for i := 0; i < outBufferSize; i++ {
		require.True(t, conn.Write([]byte("{}")))
	}
	assert.False(t, conn.Overflowed())

	assert.False(t, conn.Write([]byte("{}")))
	assert.True(t, conn.Overflowed())
	assert.Error(t, ctx.Err(), "a client that stops reading is cut off")
}

func TestCleanNickname(t *testing.T) {
	id := uuid.MustParse("abcd0000-0000-0000-0000-000000000000")
	assert.Equal(t, "alice", cleanNickname("  alice ", id))
	assert.Equal(t, "Player-abcd", cleanNickname("   ", id))
	long := "ééééééééééééééééééééééééééééé"
	assert.Equal(t, maxNicknameLen, len([]rune(cleanNickname(long, id))))
}
