package httpapi

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/AtlantisSports/uwh-refbox-rs-sub003/internal/tournament"
)

// Server combines the router with the WebSocket hub and owns the listening
// socket. Construction never starts goroutines or listeners, only Start
// does, so the router remains directly testable via httptest.
type Server struct {
	manager ManagerInterface
	events  EventLogInterface
	now     func() time.Time

	hub    *Hub
	router http.Handler
	srv    *http.Server

	hubStop chan struct{}
}

// NewServer builds a Server. Call Start to actually serve.
func NewServer(manager *tournament.Manager, events *tournament.EventLog, now func() time.Time) *Server {
	if now == nil {
		now = time.Now
	}
	hub := NewHub()
	s := &Server{
		manager: manager,
		events:  events,
		now:     now,
		hub:     hub,
		hubStop: make(chan struct{}),
	}
	s.router = NewRouter(RouterConfig{
		Manager: manager,
		Events:  events,
		Now:     now,
		Hub:     hub,
	})
	return s
}

// Router returns the HTTP handler, for use with httptest.NewServer.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving on addr and starts the hub's goroutine. The only
// method here that starts a goroutine or opens a listener.
func (s *Server) Start(addr string) error {
	go s.hub.Run(s.hubStop)

	s.srv = &http.Server{Addr: addr, Handler: s.router}
	log.Printf("httpapi: serving on %s", addr)
	return s.srv.ListenAndServe()
}

// NotifyChanged pushes a fresh snapshot to every connected WebSocket client.
// Call from the Updater's Changed channel.
func (s *Server) NotifyChanged() {
	s.hub.BroadcastSnapshot(s.manager.GenerateSnapshot(s.now()))
}

// Stop gracefully shuts down the HTTP server and the hub loop.
func (s *Server) Stop(ctx context.Context) error {
	close(s.hubStop)
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
