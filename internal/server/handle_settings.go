package server

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/drunksters/gamehub/internal/game"
)

// ReplaceSettingsRequest replaces the whole settings document. The caller
// must authorize as an admin of some team (or hold the master password);
// settings are global, not team-scoped.
type ReplaceSettingsRequest struct {
	Settings      game.SettingsDocument `json:"settings"`
	Admin         string                `json:"admin"`
	AdminPassword string                `json:"adminPassword"`
}

type AckResponse struct {
	Success bool `json:"success"`
}

func handleReplaceSettings(st *game.Store, v game.Verifier) http.HandlerFunc {
	validate := validator.New(validator.WithRequiredStructEnabled())

	return func(w http.ResponseWriter, r *http.Request) {
		var req ReplaceSettingsRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if !st.IsGlobalAdmin(v, req.AdminPassword, req.Admin) {
			writeError(w, http.StatusForbidden, "Unauthorized")
			return
		}

		// Field-level validation before the store's structural checks, so a
		// malformed document is rejected without touching any state.
		if err := validate.Struct(req.Settings); err != nil {
			writeError(w, http.StatusBadRequest, "invalid settings: "+err.Error())
			return
		}

		if err := st.ReplaceSettings(req.Settings); err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, AckResponse{Success: true})
	}
}

// handleReset zeroes all scores and clears all completed flags. Kept ungated
// to match the deployed behavior; the frontend only offers it from the
// settings screen.
func handleReset(st *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st.Reset()
		writeJSON(w, http.StatusOK, AckResponse{Success: true})
	}
}
