// internal/handlers/lobby.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jason-s-yu/uno/internal/game"
)

// ListLobbiesHandler returns a summary of every lobby in memory, oldest first.
func ListLobbiesHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lobbies := gs.Lobbies.GetLobbies()
		out := make([]game.LobbySummary, 0, len(lobbies))
		for _, g := range lobbies {
			out = append(out, g.Summary())
		}
		writeJSON(w, out)
	}
}

// LeaderboardHandler returns the global nickname to wins mapping.
func LeaderboardHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, gs.Leaderboard.Snapshot())
	}
}

// HealthHandler reports liveness and how many clients are connected.
func HealthHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"status":      "ok",
			"connections": gs.Hub.Count(),
			"lobbies":     len(gs.Lobbies.GetLobbies()),
		})
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
