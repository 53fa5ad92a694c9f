package server

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

type checkerFunc func(ctx context.Context) error

func (f checkerFunc) Check(ctx context.Context) error { return f(ctx) }

func TestHealthOK(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[HealthResponse](t, w)
	if resp.Status != "ok" || resp.Service != serviceName {
		t.Errorf("unexpected health payload: %+v", resp)
	}
	if resp.Checks["media"] != "ok" {
		t.Errorf("media check not ok: %+v", resp.Checks)
	}
	if resp.Timestamp == "" {
		t.Error("missing timestamp")
	}
}

func TestHealthDegraded(t *testing.T) {
	h := handleHealth(testLogger(), map[string]Checker{
		"media": checkerFunc(func(ctx context.Context) error { return nil }),
		"disk":  checkerFunc(func(ctx context.Context) error { return errors.New("full") }),
	})

	w := doJSON(t, h, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	resp := decode[HealthResponse](t, w)
	if resp.Status != "degraded" {
		t.Errorf("expected degraded, got %q", resp.Status)
	}
	if resp.Checks["media"] != "ok" || resp.Checks["disk"] != "error" {
		t.Errorf("unexpected checks: %+v", resp.Checks)
	}
}
