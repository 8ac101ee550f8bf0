package health

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"
)

// Stats is what the health surface reports on.
type Stats interface {
	PlayerCount() int
	PlayerIDs() []string
	ChunkCount() int
	Uptime() time.Duration
}

type healthResponse struct {
	Status        string  `json:"status"`
	Players       int     `json:"players"`
	Chunks        int     `json:"chunks"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

type playersResponse struct {
	Players []string `json:"players"`
}

// NewRouter returns the health endpoints backed by stats.
func NewRouter(stats Stats) http.Handler {
	r := mux.NewRouter()
	r.Use(recovery)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:        "ok",
			Players:       stats.PlayerCount(),
			Chunks:        stats.ChunkCount(),
			UptimeSeconds: stats.Uptime().Seconds(),
		})
	}).Methods(http.MethodGet)

	r.HandleFunc("/players", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, playersResponse{Players: stats.PlayerIDs()})
	}).Methods(http.MethodGet)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("writing health response", "error", err)
	}
}

func recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(r.Context(), "health handler panicked",
					"path", r.URL.Path, "error", fmt.Sprint(rec), "stack", string(debug.Stack()))
				http.Error(w, `{"status":"error"}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
