package server

import (
	"net/http"

	"github.com/drunksters/gamehub/internal/game"
)

// ScoreRequest carries a signed delta plus the caller's identity and
// credential. The admin/adminPassword field names are kept from the wire
// format the frontend already speaks.
type ScoreRequest struct {
	TeamName      string `json:"teamName"`
	Delta         int    `json:"delta"`
	Admin         string `json:"admin"`
	AdminPassword string `json:"adminPassword"`
}

type ScoreResponse struct {
	Success  bool `json:"success"`
	NewScore int  `json:"newScore"`
}

func handleScore(st *game.Store, v game.Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScoreRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := requireRole(st, v, req.TeamName, req.AdminPassword, req.Admin, game.RoleMember); err != nil {
			writeGameError(w, err)
			return
		}

		newScore, err := st.UpdateScore(req.TeamName, req.Delta)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, ScoreResponse{Success: true, NewScore: newScore})
	}
}
