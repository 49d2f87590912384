// internal/game/game.go
package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/cache"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	MaxPlayers  = 4  // seats per lobby; the round starts when the last one fills
	HandSize    = 7  // cards dealt to each player
	TurnSeconds = 30 // countdown budget per turn
)

var (
	ErrLobbyFull   = errors.New("lobby is full")
	ErrLobbyClosed = errors.New("lobby is no longer accepting players")
)

// Leaderboard counts round wins per nickname across every lobby.
type Leaderboard interface {
	RecordWin(nickname string) map[string]int
	Snapshot() map[string]int
}

// ActionPublisher receives a record of every state change in a lobby.
type ActionPublisher interface {
	PublishGameAction(ctx context.Context, record cache.GameActionRecord) error
}

// UnoGame is one lobby: four seats, one deck, one round.
type UnoGame struct {
	ID        uuid.UUID
	CreatedAt time.Time

	Players []*models.Player
	Deck    *Deck
	Turn    TurnController

	Started       bool
	Winner        string
	AwaitingColor bool // a wild is on top and its player has not picked a color yet
	TurnTime      int  // seconds left on the current turn

	// TickInterval is how often the countdown ticks. Zero disables the background
	// timer; Tick can still be called directly.
	TickInterval time.Duration
	tickTimer    *time.Timer
	timerGen     uint64

	actionIndex int

	Leaderboard Leaderboard
	Actions     ActionPublisher

	// BroadcastFn sends an event to every connected client, seated or not.
	BroadcastFn func(ev GameEvent)

	// BroadcastToPlayerFn sends an event to a single player.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)

	Log logrus.FieldLogger

	mu sync.Mutex
}

// NewUnoGame builds an empty lobby waiting for players.
func NewUnoGame() *UnoGame {
	id, _ := uuid.NewRandom()
	return &UnoGame{
		ID:           id,
		CreatedAt:    time.Now(),
		Players:      make([]*models.Player, 0, MaxPlayers),
		Deck:         NewDeckFrom(nil, nil),
		Turn:         NewTurnController(),
		TurnTime:     TurnSeconds,
		TickInterval: time.Second,
		Log:          logrus.StandardLogger(),
	}
}

func (g *UnoGame) logger() logrus.FieldLogger {
	return g.Log.WithField("lobby_id", g.ID)
}

// Joinable reports whether a new player may take a seat.
func (g *UnoGame) Joinable() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.Started && g.Winner == "" && len(g.Players) < MaxPlayers
}

// Finished reports whether the round has a winner.
func (g *UnoGame) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Winner != ""
}

// AddPlayer seats p. Filling the last seat starts the round.
func (g *UnoGame) AddPlayer(p *models.Player) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Started || g.Winner != "" {
		return ErrLobbyClosed
	}
	if len(g.Players) >= MaxPlayers {
		return ErrLobbyFull
	}
	g.Players = append(g.Players, p)
	g.logger().WithFields(logrus.Fields{"player": p.ID, "nickname": p.Nickname}).Infof("Player seated (%d/%d)", len(g.Players), MaxPlayers)
	g.logAction(p.ID, ActionPlayerJoin, map[string]interface{}{"nickname": p.Nickname, "seat": len(g.Players) - 1})

	if len(g.Players) == MaxPlayers {
		g.start()
	}
	g.broadcastGameState()
	return nil
}

// start shuffles a fresh deck, deals, flips the first card and starts the countdown.
// Assumes lock is held.
func (g *UnoGame) start() {
	g.Deck = NewDeck()
	for _, p := range g.Players {
		p.Hand = make([]*models.Card, 0, HandSize)
		for i := 0; i < HandSize; i++ {
			if _, err := g.drawInto(p); err != nil {
				break
			}
		}
	}
	payload := map[string]interface{}{}
	if top, err := g.Deck.Draw(); err == nil {
		g.Deck.Discard(top)
		payload["topCardId"] = top.ID
	}

	g.Turn = NewTurnController()
	g.Started = true
	g.AwaitingColor = false
	g.logger().Info("Round started")
	payload["drawPile"] = g.Deck.DrawPileSize()
	g.logAction(uuid.Nil, ActionGameStart, payload)
	g.restartCountdown()
}

// seatOf returns the seat index of playerID, or -1. Assumes lock is held.
func (g *UnoGame) seatOf(playerID uuid.UUID) int {
	for i, p := range g.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// Abandoned reports whether every seat has been handed to a bot.
func (g *UnoGame) Abandoned() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range g.Players {
		if !p.IsBot {
			return false
		}
	}
	return len(g.Players) > 0
}

// HasPlayer reports whether playerID holds a seat here.
func (g *UnoGame) HasPlayer(playerID uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seatOf(playerID) >= 0
}

// actingPlayer returns the caller if the round is running and it is their turn.
// Anything else is ignored without telling the caller. Assumes lock is held.
func (g *UnoGame) actingPlayer(playerID uuid.UUID, action string) *models.Player {
	fields := logrus.Fields{"player": playerID, "action": action}
	if !g.Started {
		g.logger().WithFields(fields).Debug("Ignored: round not running")
		return nil
	}
	idx := g.seatOf(playerID)
	if idx < 0 {
		g.logger().WithFields(fields).Debug("Ignored: player not seated")
		return nil
	}
	if idx != g.Turn.Index {
		g.logger().WithFields(fields).Debug("Ignored: out of turn")
		return nil
	}
	return g.Players[idx]
}

// currentPlayer assumes lock is held and the lobby has players.
func (g *UnoGame) currentPlayer() *models.Player {
	return g.Players[g.Turn.Index]
}

// PlayCard plays the card with cardID from the caller's hand. Only the id is trusted;
// the card itself comes from the hand. Returns false if the play was ignored.
func (g *UnoGame) PlayCard(playerID uuid.UUID, cardID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.actingPlayer(playerID, ActionPlayCard)
	if p == nil {
		return false
	}
	if g.AwaitingColor {
		g.logger().WithField("player", playerID).Debug("Ignored play: waiting for a color choice")
		return false
	}
	idx := p.FindCard(cardID)
	if idx < 0 {
		g.logger().WithFields(logrus.Fields{"player": playerID, "cardId": cardID}).Debug("Ignored play: card not in hand")
		return false
	}
	card := p.Hand[idx]
	if !IsLegalPlay(card, g.Deck.Top()) {
		g.logger().WithFields(logrus.Fields{"player": playerID, "cardId": cardID}).Debug("Ignored play: illegal card")
		return false
	}

	p.RemoveCard(idx)
	g.Deck.Discard(card)
	g.logAction(p.ID, ActionPlayCard, map[string]interface{}{
		"cardId": card.ID,
		"type":   card.Type.String(),
		"color":  card.Color.String(),
		"value":  card.Value,
	})

	// An empty hand ends the round before the card's own effect can fire.
	if len(p.Hand) == 0 {
		g.endGame(p)
		return true
	}

	n := len(g.Players)
	switch card.Type {
	case models.CardWild, models.CardWild4:
		// The turn stays with p until a color is chosen.
		g.AwaitingColor = true
		g.broadcastGameState()
		return true
	case models.CardReverse:
		g.Turn.Reverse()
	case models.CardSkip:
		g.Turn.Advance(n)
	case models.CardPlus2:
		g.Turn.Advance(n)
		g.penaltyDraw(g.currentPlayer(), penaltyFor(card.Type))
	}
	g.nextTurn()
	return true
}

// DrawCard draws one card for the caller and passes the turn.
// Not allowed while a color choice is pending.
func (g *UnoGame) DrawCard(playerID uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.actingPlayer(playerID, ActionDrawCard)
	if p == nil {
		return false
	}
	if g.AwaitingColor {
		g.logger().WithField("player", playerID).Debug("Ignored draw: waiting for a color choice")
		return false
	}
	card, err := g.drawInto(p)
	payload := map[string]interface{}{}
	if err == nil {
		payload["cardId"] = card.ID
	}
	g.logAction(p.ID, ActionDrawCard, payload)
	g.nextTurn()
	return true
}

// nextTurn advances one seat, restarts the countdown and pushes the new state.
// Assumes lock is held.
func (g *UnoGame) nextTurn() {
	g.Turn.Advance(len(g.Players))
	g.restartCountdown()
	g.broadcastGameState()
}

// drawInto moves one card from the deck into p's hand. When nothing is left to
// draw the error is logged and p gets nothing. Assumes lock is held.
func (g *UnoGame) drawInto(p *models.Player) (*models.Card, error) {
	if g.Deck.DrawPileSize() == 0 && g.Deck.DiscardPileSize() > 1 {
		g.logger().Debugf("Draw pile empty, recycling %d discards", g.Deck.DiscardPileSize()-1)
		g.logAction(uuid.Nil, ActionDeckRecycle, map[string]interface{}{"cards": g.Deck.DiscardPileSize() - 1})
	}
	card, err := g.Deck.Draw()
	if err != nil {
		g.logger().WithField("player", p.ID).Warnf("Draw failed: %v", err)
		g.logAction(p.ID, ActionDeckExhausted, nil)
		return nil, err
	}
	p.Hand = append(p.Hand, card)
	return card, nil
}

// penaltyDraw gives p up to n cards. Assumes lock is held.
func (g *UnoGame) penaltyDraw(p *models.Player, n int) {
	drawn := 0
	for i := 0; i < n; i++ {
		if _, err := g.drawInto(p); err != nil {
			break
		}
		drawn++
	}
	g.logAction(p.ID, ActionPenaltyDraw, map[string]interface{}{"count": drawn, "total": n})
}

// HandleDisconnect turns the player's seat into an inert bot seat. The hand stays,
// the seat is not skipped, and only the countdown can move past it.
func (g *UnoGame) HandleDisconnect(playerID uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.seatOf(playerID)
	if idx < 0 {
		return
	}
	p := g.Players[idx]
	if p.IsBot {
		return
	}
	p.IsBot = true
	g.logger().WithFields(logrus.Fields{"player": playerID, "nickname": p.Nickname}).Info("Player disconnected, seat kept as bot")
	g.logAction(playerID, ActionDisconnect, nil)
	g.broadcastGameState()
}

// endGame finishes the round in winner's favour. Assumes lock is held.
func (g *UnoGame) endGame(winner *models.Player) {
	g.Winner = winner.Nickname
	g.Started = false
	g.AwaitingColor = false
	g.stopCountdown()

	g.logger().WithField("winner", winner.Nickname).Info("Round over")
	g.logAction(winner.ID, ActionEndGame, map[string]interface{}{"winner": winner.Nickname, "isBot": winner.IsBot})

	if !winner.IsBot && g.Leaderboard != nil {
		board := g.Leaderboard.RecordWin(winner.Nickname)
		g.fireEvent(GameEvent{Type: EventGlobalLeaderboard, Payload: board})
	}
	for _, p := range g.Players {
		g.fireEventToPlayer(p.ID, GameEvent{Type: EventGameOver, Payload: GameOverPayload{Winner: winner.Nickname}})
	}
	g.broadcastGameState()
}

// fireEvent sends ev to every connected client. Assumes lock is held.
func (g *UnoGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn == nil {
		g.logger().Debugf("BroadcastFn is nil, dropping %s", ev.Type)
		return
	}
	g.BroadcastFn(ev)
}

// fireEventToPlayer sends ev to one player. Assumes lock is held.
func (g *UnoGame) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn == nil {
		g.logger().Debugf("BroadcastToPlayerFn is nil, dropping %s for %s", ev.Type, playerID)
		return
	}
	g.BroadcastToPlayerFn(playerID, ev)
}

// logAction publishes an action record without blocking the caller.
// Assumes lock is held.
func (g *UnoGame) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if g.Actions == nil {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.GameActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIndex,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	publisher, log := g.Actions, g.logger()
	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := publisher.PublishGameAction(ctx, rec); err != nil {
			log.Warnf("Failed to publish action %d (%s): %v", rec.ActionIndex, rec.ActionType, err)
		}
	}(record)
}
