package server

import (
	"net/http"

	"github.com/drunksters/gamehub/internal/game"
)

// QuestRequest covers all four quest verbs; QuestID is unused for add and
// Text is unused for toggle and delete.
type QuestRequest struct {
	TeamName      string `json:"teamName"`
	QuestID       int    `json:"questId"`
	Text          string `json:"text"`
	Admin         string `json:"admin"`
	AdminPassword string `json:"adminPassword"`
}

type QuestResponse struct {
	Success  bool        `json:"success"`
	Quest    *game.Quest `json:"quest,omitempty"`
	NewScore *int        `json:"newScore,omitempty"`
}

// handleToggleQuest is POST /quest. Any team member may toggle; completion
// moves the score by questPoints in the matching direction.
func handleToggleQuest(st *game.Store, v game.Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QuestRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := requireRole(st, v, req.TeamName, req.AdminPassword, req.Admin, game.RoleMember); err != nil {
			writeGameError(w, err)
			return
		}

		quest, newScore, err := st.ToggleQuest(req.TeamName, req.QuestID)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, QuestResponse{Success: true, Quest: &quest, NewScore: &newScore})
	}
}

// handleAddQuest is PUT /quest. Admin only.
func handleAddQuest(st *game.Store, v game.Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QuestRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := requireRole(st, v, req.TeamName, req.AdminPassword, req.Admin, game.RoleAdmin); err != nil {
			writeGameError(w, err)
			return
		}

		quest, err := st.AddQuest(req.TeamName, req.Text)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, QuestResponse{Success: true, Quest: &quest})
	}
}

// handleEditQuest is PATCH /quest. Admin only; text replacement never touches
// the score.
func handleEditQuest(st *game.Store, v game.Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QuestRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := requireRole(st, v, req.TeamName, req.AdminPassword, req.Admin, game.RoleAdmin); err != nil {
			writeGameError(w, err)
			return
		}

		quest, err := st.EditQuestText(req.TeamName, req.QuestID, req.Text)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, QuestResponse{Success: true, Quest: &quest})
	}
}

// handleDeleteQuest is DELETE /quest. Admin only; a completed quest refunds
// its points before removal.
func handleDeleteQuest(st *game.Store, v game.Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QuestRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := requireRole(st, v, req.TeamName, req.AdminPassword, req.Admin, game.RoleAdmin); err != nil {
			writeGameError(w, err)
			return
		}

		if err := st.DeleteQuest(req.TeamName, req.QuestID); err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, QuestResponse{Success: true})
	}
}
