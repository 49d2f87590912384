package game

// TurnController tracks whose turn it is and which way play is going.
type TurnController struct {
	Index     int
	Direction int
}

// NewTurnController starts at seat 0 going clockwise.
func NewTurnController() TurnController {
	return TurnController{Index: 0, Direction: 1}
}

// Advance moves one seat in the current direction, wrapping around n seats.
func (t *TurnController) Advance(n int) {
	if n <= 0 {
		return
	}
	t.Index = ((t.Index+t.Direction)%n + n) % n
}

// Reverse flips the direction of play.
func (t *TurnController) Reverse() {
	t.Direction = -t.Direction
}
