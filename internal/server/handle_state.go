package server

import (
	"net/http"

	"github.com/drunksters/gamehub/internal/game"
)

// StateResponse is the full state snapshot the polling clients consume.
type StateResponse struct {
	Teams    map[string]game.Team    `json:"teams"`
	Quests   map[string][]game.Quest `json:"quests"`
	Settings game.Settings           `json:"settings"`
}

// SettingsResponse mirrors the shape the settings screen loads. Passwords
// ride along in the clear; the login check happens client-side and the
// shared-secret model is an accepted property of this deployment.
type SettingsResponse struct {
	Teams    map[string]game.Team `json:"teams"`
	Settings game.Settings        `json:"settings"`
}

func handleState(st *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := st.Snapshot()
		writeJSON(w, http.StatusOK, StateResponse{
			Teams:    snap.Teams,
			Quests:   snap.Quests,
			Settings: snap.Settings,
		})
	}
}

func handleGetSettings(st *game.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := st.Snapshot()
		writeJSON(w, http.StatusOK, SettingsResponse{
			Teams:    snap.Teams,
			Settings: snap.Settings,
		})
	}
}
