package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const serviceName = "drunksters-backend"

// Version is stamped at build time with -ldflags.
var Version = "dev"

// Checker is a health probe for one backend dependency.
type Checker interface {
	Check(ctx context.Context) error
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
}

func handleHealth(logger *slog.Logger, checkers map[string]Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Service:   serviceName,
			Version:   Version,
			Checks:    make(map[string]string, len(checkers)),
		}
		status := http.StatusOK

		for name, c := range checkers {
			if err := c.Check(ctx); err != nil {
				logger.Error("health check failed", "name", name, "error", err)
				resp.Checks[name] = "error"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		writeJSON(w, status, resp)
	}
}
