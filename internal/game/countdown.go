package game

import (
	"time"

	"github.com/sirupsen/logrus"
)

// restartCountdown cancels any running countdown and starts a fresh one.
// Assumes lock is held.
func (g *UnoGame) restartCountdown() {
	g.stopCountdown()
	g.TurnTime = TurnSeconds
	if g.TickInterval > 0 && g.Started {
		g.scheduleTick(g.timerGen)
	}
}

// stopCountdown cancels the pending tick. Bumping the generation also disarms a
// callback that already fired and is waiting on the lock. Assumes lock is held.
func (g *UnoGame) stopCountdown() {
	g.timerGen++
	if g.tickTimer != nil {
		g.tickTimer.Stop()
		g.tickTimer = nil
	}
}

// scheduleTick arms the next tick for countdown generation gen. Assumes lock is held.
func (g *UnoGame) scheduleTick(gen uint64) {
	g.tickTimer = time.AfterFunc(g.TickInterval, func() {
		g.mu.Lock()
		defer g.mu.Unlock()

		if gen != g.timerGen || !g.Started {
			return
		}
		g.tick()
		// A timeout inside tick restarts the countdown under a new generation.
		if gen == g.timerGen && g.Started {
			g.scheduleTick(gen)
		}
	})
}

// Tick runs one countdown step. The background timer calls this every TickInterval.
func (g *UnoGame) Tick() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tick()
}

// tick assumes lock is held.
func (g *UnoGame) tick() {
	if !g.Started {
		return
	}
	g.TurnTime--
	if g.TurnTime <= 0 {
		g.handleTimeout()
	}
	g.broadcastGameState()
}

// handleTimeout makes the current player draw one card and passes the turn.
// Assumes lock is held.
func (g *UnoGame) handleTimeout() {
	p := g.currentPlayer()
	g.logger().WithFields(logrus.Fields{"player": p.ID, "nickname": p.Nickname}).Info("Turn timed out")

	if g.AwaitingColor {
		g.autoPickColor(p)
	}
	payload := map[string]interface{}{}
	if card, err := g.drawInto(p); err == nil {
		payload["cardId"] = card.ID
	}
	g.logAction(p.ID, ActionTimeoutDraw, payload)

	g.Turn.Advance(len(g.Players))
	g.restartCountdown()
}
