package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"

	"github.com/drunksters/gamehub/internal/game"
	"github.com/drunksters/gamehub/internal/media"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T) (chi.Router, *game.Store) {
	t.Helper()

	store, err := game.Seeded()
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	mediaStore, err := media.NewStore(afero.NewMemMapFs(), "uploads")
	if err != nil {
		t.Fatalf("media store: %v", err)
	}

	r := newRouter(testLogger(), Deps{
		Store:     store,
		Verifier:  game.PasswordVerifier{},
		Media:     mediaStore,
		Hub:       NewHub(),
		PublicURL: "http://localhost:3001",
	})
	return r, store
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, w.Body.String())
	}
	return v
}
