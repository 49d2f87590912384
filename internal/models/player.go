package models

import (
	"github.com/google/uuid"
)

// Player is one seat in a lobby. ID is the identity of the connection that joined.
type Player struct {
	ID       uuid.UUID `json:"id"`
	Nickname string    `json:"nickname"`
	Hand     []*Card   `json:"hand"`

	// IsBot is set when the connection drops. There is no way back: the seat
	// stays occupied and keeps its hand for the rest of the round.
	IsBot bool `json:"isBot"`
}

// FindCard returns the index of the card with the given id in the player's hand, or -1.
func (p *Player) FindCard(cardID int64) int {
	for i, c := range p.Hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

// RemoveCard removes and returns the card at index i, keeping the order of the rest.
func (p *Player) RemoveCard(i int) *Card {
	c := p.Hand[i]
	p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
	return c
}
