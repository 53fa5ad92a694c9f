package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/drunksters/gamehub/internal/game"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Drunksters API"
	r.Spec.Info.Version = "1.0.0"
	r.Spec.Info.WithDescription("Backend API for the Drunksters party game: shared game state, team chat, and the media gallery.")

	// GET /api/health
	getHealth, _ := r.NewOperationContext(http.MethodGet, "/api/health")
	getHealth.SetSummary("Health check")
	getHealth.SetDescription("Returns service identity and the health of backend dependencies.")
	getHealth.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealth.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealth)

	// GET /state
	getState, _ := r.NewOperationContext(http.MethodGet, "/state")
	getState.SetSummary("Get full game state")
	getState.SetDescription("Full snapshot of teams, quests, and settings. Polled by clients every couple of seconds.")
	getState.AddRespStructure(StateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getState)

	// GET /settings
	getSettings, _ := r.NewOperationContext(http.MethodGet, "/settings")
	getSettings.SetSummary("Get teams and settings")
	getSettings.AddRespStructure(SettingsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getSettings)

	// POST /settings
	postSettings, _ := r.NewOperationContext(http.MethodPost, "/settings")
	postSettings.SetSummary("Replace settings")
	postSettings.SetDescription("Replaces the whole settings document. Requires an admin credential; surviving teams keep their scores.")
	postSettings.AddReqStructure(ReplaceSettingsRequest{})
	postSettings.AddRespStructure(AckResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSettings.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postSettings.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postSettings)

	// POST /score
	postScore, _ := r.NewOperationContext(http.MethodPost, "/score")
	postScore.SetSummary("Update team score")
	postScore.SetDescription("Applies a signed delta to the team score. Requires a team credential.")
	postScore.AddReqStructure(ScoreRequest{})
	postScore.AddRespStructure(ScoreResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postScore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postScore.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postScore)

	// POST /quest (toggle)
	postQuest, _ := r.NewOperationContext(http.MethodPost, "/quest")
	postQuest.SetSummary("Toggle quest completion")
	postQuest.SetDescription("Flips a quest's completed flag and moves the team score by questPoints.")
	postQuest.AddReqStructure(QuestRequest{})
	postQuest.AddRespStructure(QuestResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postQuest.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postQuest.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postQuest)

	// PUT /quest (add)
	putQuest, _ := r.NewOperationContext(http.MethodPut, "/quest")
	putQuest.SetSummary("Add quest")
	putQuest.SetDescription("Appends a quest with the next id. Admin only.")
	putQuest.AddReqStructure(QuestRequest{})
	putQuest.AddRespStructure(QuestResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	putQuest.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	putQuest.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(putQuest)

	// PATCH /quest (edit)
	patchQuest, _ := r.NewOperationContext(http.MethodPatch, "/quest")
	patchQuest.SetSummary("Edit quest text")
	patchQuest.SetDescription("Replaces a quest's text without touching completion or score. Admin only.")
	patchQuest.AddReqStructure(QuestRequest{})
	patchQuest.AddRespStructure(QuestResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	patchQuest.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	patchQuest.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	patchQuest.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(patchQuest)

	// DELETE /quest
	deleteQuest, _ := r.NewOperationContext(http.MethodDelete, "/quest")
	deleteQuest.SetSummary("Delete quest")
	deleteQuest.SetDescription("Removes a quest, refunding its points if it was completed. Admin only.")
	deleteQuest.AddReqStructure(QuestRequest{})
	deleteQuest.AddRespStructure(QuestResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	deleteQuest.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	deleteQuest.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteQuest)

	// POST /reset
	postReset, _ := r.NewOperationContext(http.MethodPost, "/reset")
	postReset.SetSummary("Hard reset")
	postReset.SetDescription("Zeroes all scores and clears all completed flags, without refunds.")
	postReset.AddRespStructure(AckResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postReset)

	// GET /chat/{teamName}
	getChat, _ := r.NewOperationContext(http.MethodGet, "/chat/{teamName}")
	getChat.SetSummary("Chat history")
	getChat.SetDescription("The team's retained messages (at most 50) in append order.")
	getChat.AddReqStructure(struct {
		TeamName string `path:"teamName"`
	}{})
	getChat.AddRespStructure([]game.ChatMessage{}, openapi.WithHTTPStatus(http.StatusOK))
	getChat.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getChat)

	// POST /chat/{teamName}
	postChat, _ := r.NewOperationContext(http.MethodPost, "/chat/{teamName}")
	postChat.SetSummary("Post chat message")
	postChat.SetDescription("Appends a message and broadcasts it to connected room members.")
	postChat.AddReqStructure(struct {
		ChatPostRequest
		TeamName string `path:"teamName"`
	}{})
	postChat.AddRespStructure(game.ChatMessage{}, openapi.WithHTTPStatus(http.StatusCreated))
	postChat.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postChat.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postChat)

	// GET /ws/chat
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws/chat")
	getWS.SetSummary("Chat websocket")
	getWS.SetDescription("Upgrades to a WebSocket. Client events: join-team, send-message. Server events: chat-history, new-message, error.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// POST /upload
	postUpload, _ := r.NewOperationContext(http.MethodPost, "/upload")
	postUpload.SetSummary("Upload media")
	postUpload.SetDescription("Multipart upload, field name \"media\". Returns the stored file's reference URL.")
	postUpload.AddRespStructure(UploadResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postUpload.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postUpload)

	// GET /gallery
	getGallery, _ := r.NewOperationContext(http.MethodGet, "/gallery")
	getGallery.SetSummary("List gallery")
	getGallery.AddRespStructure(GalleryResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getGallery.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(getGallery)

	// GET /qr/{teamName}
	getQR, _ := r.NewOperationContext(http.MethodGet, "/qr/{teamName}")
	getQR.SetSummary("Team join QR code")
	getQR.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("image/png"))
	getQR.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getQR)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		json.NewEncoder(w).Encode(spec)
	}
}
