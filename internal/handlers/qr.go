package handlers

import (
	"net/http"

	"github.com/skip2/go-qrcode"
)

const qrSize = 320

// QRHandler serves a PNG QR code of the URL players open to join.
func QRHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		png, err := qrcode.Encode(joinURL(gs, r), qrcode.Medium, qrSize)
		if err != nil {
			gs.Logger.Warnf("QR generation failed: %v", err)
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}

// joinURL is the configured public URL, or the root of the host the request came in on.
func joinURL(gs *GameServer, r *http.Request) string {
	if gs.PublicURL != "" {
		return gs.PublicURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + "/"
}
