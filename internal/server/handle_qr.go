package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/drunksters/gamehub/internal/game"
)

// handleJoinQR renders a QR code pointing a phone at the app with the team
// preselected. Mobile-friendly size, medium error correction.
func handleJoinQR(st *game.Store, publicURL string) http.HandlerFunc {
	const qrSize = 320

	return func(w http.ResponseWriter, r *http.Request) {
		teamName := pathParam(r, "teamName")

		if _, err := st.AuthView(teamName); err != nil {
			writeGameError(w, err)
			return
		}

		joinURL := strings.TrimSuffix(publicURL, "/") + "/?team=" + url.QueryEscape(teamName)
		png, err := qrcode.Encode(joinURL, qrcode.Medium, qrSize)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to generate QR code")
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}
}
