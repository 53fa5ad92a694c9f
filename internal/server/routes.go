package server

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/swaggest/swgui/v5emb"

	"github.com/drunksters/gamehub/internal/game"
	"github.com/drunksters/gamehub/internal/media"
)

// Deps is everything the HTTP surface needs, injected so tests can assemble
// a router around in-memory fakes.
type Deps struct {
	Store     *game.Store
	Verifier  game.Verifier
	Media     *media.Store
	Hub       *Hub
	PublicURL string
	SPADir    string
}

func newRouter(logger *slog.Logger, deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newStructuredLogger(logger))
	r.Use(middleware.Recoverer)
	// The SPA is served from GitHub Pages in production, so every browser
	// call is cross-origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	addRoutes(r, logger, deps)
	return r
}

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	relay := NewChatRelay(deps.Store, deps.Hub)

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Drunksters API", "/openapi.json", "/docs"))
	r.Get("/api/health", handleHealth(logger, map[string]Checker{
		"media": deps.Media,
	}))

	r.Get("/state", handleState(deps.Store))
	r.Get("/settings", handleGetSettings(deps.Store))
	r.Post("/settings", handleReplaceSettings(deps.Store, deps.Verifier))
	r.Post("/reset", handleReset(deps.Store))

	r.Post("/score", handleScore(deps.Store, deps.Verifier))
	r.Post("/quest", handleToggleQuest(deps.Store, deps.Verifier))
	r.Put("/quest", handleAddQuest(deps.Store, deps.Verifier))
	r.Patch("/quest", handleEditQuest(deps.Store, deps.Verifier))
	r.Delete("/quest", handleDeleteQuest(deps.Store, deps.Verifier))

	r.Get("/chat/{teamName}", handleChatHistory(deps.Store))
	r.Post("/chat/{teamName}", handleChatPost(relay))
	r.Get("/ws/chat", handleChatSocket(logger, relay))

	r.Post("/upload", handleUpload(logger, deps.Media))
	r.Get("/gallery", handleGallery(logger, deps.Media))
	r.Get("/media/{file}", handleMediaFile(deps.Media))

	r.Get("/qr/{teamName}", handleJoinQR(deps.Store, deps.PublicURL))

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}

// requireRole runs the validate-then-authorize half of every mutation:
// the team must exist and the supplied credential must resolve to at least
// the needed role.
func requireRole(st *game.Store, v game.Verifier, teamName, credential, caller string, need game.Role) error {
	view, err := st.AuthView(teamName)
	if err != nil {
		return err
	}
	if v.Verify(view, credential, caller) < need {
		return game.ErrUnauthorized
	}
	return nil
}

// writeGameError maps store sentinels onto the REST error contract.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "Unauthorized")
	case errors.Is(err, game.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
