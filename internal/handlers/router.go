package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jason-s-yu/uno/internal/middleware"
)

// NewRouter builds the HTTP surface: the game socket, the JSON endpoints and,
// when staticDir is set, the browser client.
func NewRouter(gs *GameServer, staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.LogMiddleware(gs.Logger))
	r.Use(chimw.Recoverer)

	r.Get("/ws", GameWSHandler(gs.Logger, gs))

	// The socket is long-lived; only plain requests get a deadline.
	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(15 * time.Second))
		r.Get("/healthz", HealthHandler(gs))
		r.Get("/leaderboard", LeaderboardHandler(gs))
		r.Get("/lobbies", ListLobbiesHandler(gs))
		r.Get("/qr.png", QRHandler(gs))
		if staticDir != "" {
			r.Handle("/*", http.FileServer(http.Dir(staticDir)))
		}
	})
	return r
}
