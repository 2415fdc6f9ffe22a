// Package httpapi exposes the refbox's read-only HTTP surface: a snapshot
// endpoint, a per-game stats endpoint, and a WebSocket snapshot stream,
// built on chi + middleware.Logger/Recoverer + cors.Handler. There is no
// mutating endpoint here — operator actions go through the physical
// console/remote, not HTTP.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/snapshot"
	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/tournament"
)

// ManagerInterface is the subset of *tournament.Manager the API reads
// from, kept minimal and mockable for tests.
type ManagerInterface interface {
	GenerateSnapshot(now time.Time) snapshot.GameSnapshot
	GameNumber() uint32
}

// EventLogInterface is the subset of *tournament.EventLog the API reads
// from.
type EventLogInterface interface {
	Snapshot(gameNumber uint32) []tournament.Event
}

// RouterConfig carries the router's dependencies.
type RouterConfig struct {
	Manager  ManagerInterface
	Events   EventLogInterface
	Now      func() time.Time
	Hub      *Hub // optional; if nil, /ws/snapshot is not mounted
	CORS     []string
	NoLogger bool
}

// NewRouter builds the HTTP router. Pure: no goroutines, no listeners —
// safe to use directly with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	r := chi.NewRouter()

	if !cfg.NoLogger {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	origins := cfg.CORS
	if origins == nil {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	h := &handlers{manager: cfg.Manager, events: cfg.Events, now: cfg.Now}

	r.Get("/healthz", h.handleHealthz)
	r.Get("/snapshot", h.handleSnapshot)
	r.Get("/games/{number}/stats", h.handleGameStats)

	if cfg.Hub != nil {
		r.Get("/ws/snapshot", cfg.Hub.HandleWebSocket)
	}

	return r
}

type handlers struct {
	manager ManagerInterface
	events  EventLogInterface
	now     func() time.Time
}

func (h *handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *handlers) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s := h.manager.GenerateSnapshot(h.now())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s)
}

func (h *handlers) handleGameStats(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "number")
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		http.Error(w, "invalid game number", http.StatusBadRequest)
		return
	}
	events := h.events.Snapshot(uint32(n))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statsDocuments(events))
}
