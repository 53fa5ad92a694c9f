package server

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func uploadFile(t *testing.T, r http.Handler, field, name, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	io.WriteString(fw, content)
	mw.WriteField("player", "Pita")
	mw.WriteField("teamName", "Team Omri")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadAndServeMedia(t *testing.T) {
	r, _ := newTestRouter(t)

	w := uploadFile(t, r, "media", "victory.png", "not really a png")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[UploadResponse](t, w)
	if !resp.Success || !strings.HasPrefix(resp.URL, "/media/") {
		t.Fatalf("unexpected upload response: %+v", resp)
	}

	w = doJSON(t, r, http.MethodGet, resp.URL, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 serving %s, got %d", resp.URL, w.Code)
	}
	if got := w.Body.String(); got != "not really a png" {
		t.Errorf("served content mismatch: %q", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
}

func TestUploadMissingField(t *testing.T) {
	r, _ := newTestRouter(t)

	w := uploadFile(t, r, "attachment", "victory.png", "data")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without media field, got %d", w.Code)
	}
}

func TestGalleryNewestFirst(t *testing.T) {
	r, _ := newTestRouter(t)

	uploadFile(t, r, "media", "first.jpg", "a")
	uploadFile(t, r, "media", "second.jpg", "b")
	uploadFile(t, r, "media", "notes.txt", "skip me")

	w := doJSON(t, r, http.MethodGet, "/gallery", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode[GalleryResponse](t, w)
	if len(resp.Files) != 2 {
		t.Fatalf("expected 2 gallery files, got %v", resp.Files)
	}
	if !strings.HasSuffix(resp.Files[0], "second.jpg") {
		t.Errorf("expected newest first, got %v", resp.Files)
	}
}

func TestMediaFileNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/media/nope.png", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
