// internal/models/card.go
package models

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
)

// CardType is the closed set of card kinds.
type CardType uint8

const (
	CardNumber CardType = iota
	CardSkip
	CardReverse
	CardPlus2
	CardWild
	CardWild4
)

var cardTypeNames = [...]string{
	CardNumber:  "number",
	CardSkip:    "skip",
	CardReverse: "reverse",
	CardPlus2:   "plus2",
	CardWild:    "wild",
	CardWild4:   "wild+4",
}

func (t CardType) String() string {
	if int(t) < len(cardTypeNames) {
		return cardTypeNames[t]
	}
	return fmt.Sprintf("CardType(%d)", t)
}

// IsWild reports whether the type takes its color from a later choice.
func (t CardType) IsWild() bool {
	return t == CardWild || t == CardWild4
}

func (t CardType) MarshalText() ([]byte, error) {
	if int(t) >= len(cardTypeNames) {
		return nil, fmt.Errorf("unknown card type %d", t)
	}
	return []byte(cardTypeNames[t]), nil
}

func (t *CardType) UnmarshalText(b []byte) error {
	for i, name := range cardTypeNames {
		if name == string(b) {
			*t = CardType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown card type %q", b)
}

// Color of a card. ColorNone is only valid on wild cards that have not been resolved.
type Color uint8

const (
	ColorNone Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
)

// Colors lists the four playable colors in deck-building order.
var Colors = []Color{ColorRed, ColorGreen, ColorBlue, ColorYellow}

var colorNames = [...]string{
	ColorNone:   "",
	ColorRed:    "red",
	ColorGreen:  "green",
	ColorBlue:   "blue",
	ColorYellow: "yellow",
}

func (c Color) String() string {
	if c == ColorNone {
		return "none"
	}
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("Color(%d)", c)
}

// ParseColor maps a wire color name to a Color. Only the four real colors are accepted.
func ParseColor(s string) (Color, error) {
	for _, c := range Colors {
		if colorNames[c] == s {
			return c, nil
		}
	}
	return ColorNone, fmt.Errorf("unknown color %q", s)
}

func (c Color) MarshalText() ([]byte, error) {
	if int(c) >= len(colorNames) {
		return nil, fmt.Errorf("unknown color %d", c)
	}
	return []byte(colorNames[c]), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*c = ColorNone
		return nil
	}
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Card is a single card. ID, Type and Value never change after construction;
// Color changes only on wild cards when a color is chosen or the card is recycled.
type Card struct {
	ID    int64
	Type  CardType
	Color Color
	Value int
}

var lastCardID atomic.Int64

// NextCardID hands out process-wide unique, increasing card ids.
func NextCardID() int64 {
	return lastCardID.Add(1) - 1
}

// NewNumberCard builds a colored number card (0..9).
func NewNumberCard(color Color, value int) *Card {
	return &Card{ID: NextCardID(), Type: CardNumber, Color: color, Value: value}
}

// NewActionCard builds a colored skip, reverse or plus2 card.
func NewActionCard(color Color, t CardType) *Card {
	return &Card{ID: NextCardID(), Type: t, Color: color}
}

// NewWildCard builds an uncolored wild or wild+4 card.
func NewWildCard(t CardType) *Card {
	return &Card{ID: NextCardID(), Type: t}
}

// wireCard is the JSON shape: color omitted while absent, value only on number cards.
type wireCard struct {
	ID    int64    `json:"id"`
	Type  CardType `json:"type"`
	Color Color    `json:"color,omitempty"`
	Value *int     `json:"value,omitempty"`
}

func (c Card) toWire() wireCard {
	w := wireCard{ID: c.ID, Type: c.Type, Color: c.Color}
	if c.Type == CardNumber {
		v := c.Value
		w.Value = &v
	}
	return w
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.toWire())
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var w wireCard
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	c.ID, c.Type, c.Color = w.ID, w.Type, w.Color
	c.Value = 0
	if w.Value != nil {
		c.Value = *w.Value
	}
	return nil
}
