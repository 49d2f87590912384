// internal/game/deck.go
package game

import (
	"errors"
	"math/rand"

	"github.com/jason-s-yu/uno/internal/models"
)

// DeckSize is the number of cards in a fresh deck.
const DeckSize = 108

// ErrDeckExhausted is returned by Draw when every card is either in a hand or is the top card.
var ErrDeckExhausted = errors.New("no cards left to draw")

// Deck holds the draw pile and the discard pile of one lobby.
// The last element of each slice is its top. The top of the discard pile is the
// card currently in play and is never recycled.
type Deck struct {
	drawPile    []*models.Card
	discardPile []*models.Card
}

// NewDeck builds the 108 card set and shuffles it into a fresh draw pile: per color
// one 0, two of each 1-9, two each of skip, reverse and plus2; then four wild and four wild+4.
func NewDeck() *Deck {
	cards := make([]*models.Card, 0, DeckSize)
	for _, color := range models.Colors {
		cards = append(cards, models.NewNumberCard(color, 0))
		// Every other number and action card comes twice per color.
		for dup := 0; dup < 2; dup++ {
			for v := 1; v <= 9; v++ {
				cards = append(cards, models.NewNumberCard(color, v))
			}
			cards = append(cards,
				models.NewActionCard(color, models.CardSkip),
				models.NewActionCard(color, models.CardReverse),
				models.NewActionCard(color, models.CardPlus2),
			)
		}
	}
	for i := 0; i < 4; i++ {
		cards = append(cards, models.NewWildCard(models.CardWild), models.NewWildCard(models.CardWild4))
	}
	Shuffle(cards)
	return &Deck{drawPile: cards}
}

// NewDeckFrom builds a deck from explicit piles without shuffling. The last
// element of each slice is its top.
func NewDeckFrom(drawPile, discardPile []*models.Card) *Deck {
	return &Deck{drawPile: drawPile, discardPile: discardPile}
}

// Shuffle permutes cards in place (Fisher-Yates).
func Shuffle(cards []*models.Card) {
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// Draw pops the top of the draw pile, recycling the discard pile first if the draw pile is empty.
func (d *Deck) Draw() (*models.Card, error) {
	if len(d.drawPile) == 0 {
		d.recycle()
	}
	if len(d.drawPile) == 0 {
		return nil, ErrDeckExhausted
	}
	last := len(d.drawPile) - 1
	card := d.drawPile[last]
	d.drawPile[last] = nil
	d.drawPile = d.drawPile[:last]
	return card, nil
}

// recycle moves every discard except the top card back into the draw pile and shuffles it.
// Wild cards lose the color that was chosen for them.
func (d *Deck) recycle() int {
	if len(d.discardPile) <= 1 {
		return 0
	}
	top := d.discardPile[len(d.discardPile)-1]
	moved := d.discardPile[:len(d.discardPile)-1]
	for _, c := range moved {
		if c.Type.IsWild() {
			c.Color = models.ColorNone
		}
	}
	d.drawPile = append(d.drawPile, moved...)
	d.discardPile = []*models.Card{top}
	Shuffle(d.drawPile)
	return len(moved)
}

// Discard places a card on top of the discard pile.
func (d *Deck) Discard(c *models.Card) {
	d.discardPile = append(d.discardPile, c)
}

// Top returns the card in play, or nil before the first flip.
func (d *Deck) Top() *models.Card {
	if len(d.discardPile) == 0 {
		return nil
	}
	return d.discardPile[len(d.discardPile)-1]
}

func (d *Deck) DrawPileSize() int    { return len(d.drawPile) }
func (d *Deck) DiscardPileSize() int { return len(d.discardPile) }
