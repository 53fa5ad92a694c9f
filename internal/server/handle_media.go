package server

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/drunksters/gamehub/internal/media"
)

// maxUploadBytes bounds one capture; phone videos stay well under this.
const maxUploadBytes = 32 << 20

type UploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

type GalleryResponse struct {
	Files []string `json:"files"`
}

// handleUpload is POST /upload with a multipart "media" field. Player and
// team ride along as form values but only the blob is stored.
func handleUpload(logger *slog.Logger, store *media.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

		file, header, err := r.FormFile("media")
		if err != nil {
			writeError(w, http.StatusBadRequest, "no media file uploaded")
			return
		}
		defer file.Close()

		url, err := store.Write(header.Filename, file)
		if err != nil {
			logger.Error("media write failed", "file", header.Filename, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to store media")
			return
		}

		logger.Info("media stored", "url", url, "player", r.FormValue("player"), "team", r.FormValue("teamName"))
		writeJSON(w, http.StatusOK, UploadResponse{Success: true, URL: url})
	}
}

// handleGallery is GET /gallery: every stored reference path, newest first.
func handleGallery(logger *slog.Logger, store *media.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := store.List()
		if err != nil {
			logger.Error("gallery list failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to read gallery")
			return
		}
		writeJSON(w, http.StatusOK, GalleryResponse{Files: files})
	}
}

// handleMediaFile serves one stored blob back out.
func handleMediaFile(store *media.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := pathParam(r, "file")

		f, err := store.Open(name)
		if err != nil {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		defer f.Close()

		if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		io.Copy(w, f)
	}
}
