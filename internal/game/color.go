// internal/game/color.go
package game

import (
	"math/rand"
	"slices"

	"github.com/google/uuid"
	"github.com/jason-s-yu/uno/internal/models"
	"github.com/sirupsen/logrus"
)

// ChooseColor resolves the wild on top of the discard pile. Only the player who
// played it may choose, and only while the choice is pending. A wild+4 then makes
// the next player draw four and lose their turn.
func (g *UnoGame) ChooseColor(playerID uuid.UUID, color models.Color) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.actingPlayer(playerID, ActionChooseColor)
	if p == nil {
		return false
	}
	if !g.AwaitingColor {
		g.logger().WithField("player", playerID).Debug("Ignored color choice: nothing to resolve")
		return false
	}
	if !slices.Contains(models.Colors, color) {
		g.logger().WithFields(logrus.Fields{"player": playerID, "color": color}).Debug("Ignored color choice: not a playable color")
		return false
	}

	top := g.Deck.Top()
	top.Color = color
	g.AwaitingColor = false
	g.logAction(p.ID, ActionChooseColor, map[string]interface{}{"cardId": top.ID, "color": color.String()})

	if top.Type == models.CardWild4 {
		g.Turn.Advance(len(g.Players))
		g.penaltyDraw(g.currentPlayer(), penaltyFor(top.Type))
	}
	g.nextTurn()
	return true
}

// autoPickColor settles a pending wild when its player ran out of time. The pick is
// random and carries no wild+4 penalty. Assumes lock is held.
func (g *UnoGame) autoPickColor(actor *models.Player) {
	top := g.Deck.Top()
	top.Color = models.Colors[rand.Intn(len(models.Colors))]
	g.AwaitingColor = false
	g.logger().WithFields(logrus.Fields{"player": actor.ID, "color": top.Color}).Debug("Color picked on timeout")
	g.logAction(actor.ID, ActionAutoColorPick, map[string]interface{}{"cardId": top.ID, "color": top.Color.String()})
}
