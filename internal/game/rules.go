// internal/game/rules.go
package game

import "github.com/jason-s-yu/uno/internal/models"

// IsLegalPlay reports whether card may be played on top of top.
//
// Wilds are always legal. Once a wild on top has a chosen color, only that color
// matches, whatever the wild's own type. A wild without a color can only be on top
// as the opening flip; any card may follow it.
func IsLegalPlay(card, top *models.Card) bool {
	if top == nil {
		return true
	}
	if card.Type.IsWild() {
		return true
	}
	if top.Type.IsWild() {
		if top.Color == models.ColorNone {
			return true
		}
		return card.Color == top.Color
	}
	if card.Color == top.Color {
		return true
	}
	if card.Type == models.CardNumber {
		return top.Type == models.CardNumber && card.Value == top.Value
	}
	return card.Type == top.Type
}

// penaltyFor returns how many cards the next player draws when card resolves.
func penaltyFor(t models.CardType) int {
	switch t {
	case models.CardPlus2:
		return 2
	case models.CardWild4:
		return 4
	default:
		return 0
	}
}
