package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTurnControllerWraps(t *testing.T) {
	tc := NewTurnController()
	for i := 1; i <= 9; i++ {
		tc.Advance(4)
		assert.Equal(t, i%4, tc.Index)
	}
}

func TestTurnControllerReverse(t *testing.T) {
	tc := NewTurnController()
	tc.Reverse()
	assert.Equal(t, -1, tc.Direction)
	tc.Advance(4)
	assert.Equal(t, 3, tc.Index)
	tc.Advance(4)
	tc.Advance(4)
	tc.Advance(4)
	assert.Equal(t, 0, tc.Index)

	tc.Reverse()
	tc.Advance(4)
	assert.Equal(t, 1, tc.Index)
}

func TestTurnControllerNoSeats(t *testing.T) {
	tc := NewTurnController()
	tc.Advance(0)
	assert.Equal(t, 0, tc.Index)
}
