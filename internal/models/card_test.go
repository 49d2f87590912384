package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardJSON(t *testing.T) {
	num := &Card{ID: 7, Type: CardNumber, Color: ColorRed, Value: 0}
	b, err := json.Marshal(num)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"type":"number","color":"red","value":0}`, string(b))

	wild := &Card{ID: 8, Type: CardWild4}
	b, err = json.Marshal(wild)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":8,"type":"wild+4"}`, string(b))

	skip := &Card{ID: 9, Type: CardSkip, Color: ColorYellow}
	b, err = json.Marshal(skip)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":9,"type":"skip","color":"yellow"}`, string(b))
}

func TestCardUnmarshal(t *testing.T) {
	var c Card
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"type":"wild","color":"green"}`), &c))
	assert.Equal(t, Card{ID: 3, Type: CardWild, Color: ColorGreen}, c)

	assert.Error(t, json.Unmarshal([]byte(`{"id":3,"type":"joker"}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`{"id":3,"type":"number","color":"purple"}`), &c))
}

func TestParseColor(t *testing.T) {
	for _, c := range Colors {
		got, err := ParseColor(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseColor("")
	assert.Error(t, err)
	_, err = ParseColor("none")
	assert.Error(t, err)
}

func TestCardIDsIncrease(t *testing.T) {
	a := NewNumberCard(ColorBlue, 1)
	b := NewWildCard(CardWild)
	assert.Greater(t, b.ID, a.ID)
	assert.True(t, b.Type.IsWild())
	assert.False(t, a.Type.IsWild())
}

func TestPlayerRemoveCard(t *testing.T) {
	c1, c2, c3 := NewNumberCard(ColorRed, 1), NewNumberCard(ColorRed, 2), NewNumberCard(ColorRed, 3)
	p := &Player{Hand: []*Card{c1, c2, c3}}
	i := p.FindCard(c2.ID)
	require.Equal(t, 1, i)
	assert.Equal(t, c2, p.RemoveCard(i))
	assert.Equal(t, []*Card{c1, c3}, p.Hand)
	assert.Equal(t, -1, p.FindCard(c2.ID))
}
