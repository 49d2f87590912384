package lobby

import "sync"

// Leaderboard counts round wins per nickname for the life of the process.
// Counts only ever go up.
type Leaderboard struct {
	mu   sync.Mutex
	wins map[string]int
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{wins: make(map[string]int)}
}

// RecordWin adds a win for nickname and returns the updated board.
func (l *Leaderboard) RecordWin(nickname string) map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.wins[nickname]++
	return l.snapshot()
}

// Snapshot returns a copy of the board.
func (l *Leaderboard) Snapshot() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *Leaderboard) snapshot() map[string]int {
	out := make(map[string]int, len(l.wins))
	for k, v := range l.wins {
		out[k] = v
	}
	return out
}
