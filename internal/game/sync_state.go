// internal/game/sync_state.go
package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/models"
)

// PlayerSummary is what everyone at the table sees about a seat.
type PlayerSummary struct {
	Nickname  string `json:"nickname"`
	HandCount int    `json:"handCount"`
	IsBot     bool   `json:"isBot"`
}

// HandCard is a card in the viewer's own hand plus whether they may play it right now.
type HandCard struct {
	ID       int64           `json:"id"`
	Type     models.CardType `json:"type"`
	Color    models.Color    `json:"color,omitempty"`
	Value    *int            `json:"value,omitempty"`
	Playable bool            `json:"playable"`
}

func newHandCard(c *models.Card, playable bool) HandCard {
	hc := HandCard{ID: c.ID, Type: c.Type, Color: c.Color, Playable: playable}
	if c.Type == models.CardNumber {
		v := c.Value
		hc.Value = &v
	}
	return hc
}

// GameView is the gameState payload, tailored to one player.
type GameView struct {
	ID            uuid.UUID       `json:"id"`
	Players       []PlayerSummary `json:"players"`
	Hand          []HandCard      `json:"hand"`
	TopCard       *models.Card    `json:"topCard"`
	CurrentPlayer int             `json:"currentPlayer"`
	Direction     int             `json:"direction"`
	Started       bool            `json:"started"`
	Winner        string          `json:"winner,omitempty"`
	AwaitingColor bool            `json:"awaitingColor"`
	Leaderboard   map[string]int  `json:"leaderboard"`
	TurnTime      int             `json:"turnTime"`
}

// View returns the state as forPlayer should see it.
func (g *UnoGame) View(forPlayer uuid.UUID) GameView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.viewFor(forPlayer, g.leaderboardSnapshot())
}

// viewFor assumes lock is held.
func (g *UnoGame) viewFor(forPlayer uuid.UUID, board map[string]int) GameView {
	view := GameView{
		ID:            g.ID,
		Players:       make([]PlayerSummary, 0, len(g.Players)),
		Hand:          []HandCard{},
		CurrentPlayer: g.Turn.Index,
		Direction:     g.Turn.Direction,
		Started:       g.Started,
		Winner:        g.Winner,
		AwaitingColor: g.AwaitingColor,
		Leaderboard:   board,
		TurnTime:      g.TurnTime,
	}
	top := g.Deck.Top()
	if top != nil {
		cp := *top
		view.TopCard = &cp
	}

	for i, p := range g.Players {
		view.Players = append(view.Players, PlayerSummary{
			Nickname:  p.Nickname,
			HandCount: len(p.Hand),
			IsBot:     p.IsBot,
		})
		if p.ID != forPlayer {
			continue
		}
		canAct := g.Started && !g.AwaitingColor && i == g.Turn.Index
		for _, c := range p.Hand {
			view.Hand = append(view.Hand, newHandCard(c, canAct && IsLegalPlay(c, top)))
		}
	}
	return view
}

// leaderboardSnapshot assumes lock is held.
func (g *UnoGame) leaderboardSnapshot() map[string]int {
	if g.Leaderboard == nil {
		return map[string]int{}
	}
	return g.Leaderboard.Snapshot()
}

// broadcastGameState pushes each seated player their own view. Assumes lock is held.
func (g *UnoGame) broadcastGameState() {
	board := g.leaderboardSnapshot()
	for _, p := range g.Players {
		view := g.viewFor(p.ID, board)
		g.fireEventToPlayer(p.ID, GameEvent{Type: EventGameState, Payload: view})
	}
}

// LobbySummary is a public listing entry for a lobby.
type LobbySummary struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Players   []string  `json:"players"`
	Started   bool      `json:"started"`
	Winner    string    `json:"winner,omitempty"`
	TurnTime  int       `json:"turnTime"`
}

// Summary returns a listing entry for this lobby.
func (g *UnoGame) Summary() LobbySummary {
	g.mu.Lock()
	defer g.mu.Unlock()
	names := make([]string, 0, len(g.Players))
	for _, p := range g.Players {
		names = append(names, p.Nickname)
	}
	return LobbySummary{
		ID:        g.ID,
		CreatedAt: g.CreatedAt,
		Players:   names,
		Started:   g.Started,
		Winner:    g.Winner,
		TurnTime:  g.TurnTime,
	}
}
