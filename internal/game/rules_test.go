package game

import (
	"testing"

	"github.com/jason-s-yu/uno/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestIsLegalPlay(t *testing.T) {
	wildRed := models.NewWildCard(models.CardWild)
	wildRed.Color = models.ColorRed
	wild4Blue := models.NewWildCard(models.CardWild4)
	wild4Blue.Color = models.ColorBlue
	redSkip := models.NewActionCard(models.ColorRed, models.CardSkip)
	blueSkip := models.NewActionCard(models.ColorBlue, models.CardSkip)
	bluePlus2 := models.NewActionCard(models.ColorBlue, models.CardPlus2)

	tests := []struct {
		name  string
		card  *models.Card
		top   *models.Card
		legal bool
	}{
		{"no top card", blue(1), nil, true},
		{"same color", red(5), red(3), true},
		{"same value", blue(3), red(3), true},
		{"different color and value", blue(7), red(3), false},
		{"wild on anything", models.NewWildCard(models.CardWild), red(3), true},
		{"wild+4 on anything", models.NewWildCard(models.CardWild4), redSkip, true},
		{"chosen color matches", red(9), wildRed, true},
		{"chosen color mismatch", blue(9), wildRed, false},
		{"skip on chosen wild+4 color", blueSkip, wild4Blue, true},
		{"wild on wild", models.NewWildCard(models.CardWild), wildRed, true},
		{"unresolved wild accepts anything", blue(2), models.NewWildCard(models.CardWild), true},
		{"same action type", blueSkip, redSkip, true},
		{"different action type", bluePlus2, redSkip, false},
		{"number never matches an action by value", blue(0), redSkip, false},
		{"action on same color number", redSkip, red(0), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.legal, IsLegalPlay(tc.card, tc.top))
		})
	}
}

func TestPenaltyFor(t *testing.T) {
	assert.Equal(t, 2, penaltyFor(models.CardPlus2))
	assert.Equal(t, 4, penaltyFor(models.CardWild4))
	assert.Zero(t, penaltyFor(models.CardSkip))
	assert.Zero(t, penaltyFor(models.CardWild))
}
