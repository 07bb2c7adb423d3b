// Package server exposes the feed pipeline over an HTTP JSON API.
package server

import (
	"net/http"

	"github.com/wilzamguerrero/notionfeed/internal/feed"
	"github.com/wilzamguerrero/notionfeed/internal/source"
)

// Server wires the pipeline and board source into HTTP handlers.
type Server struct {
	pipeline *feed.Pipeline
	source   *source.Service
	version  string
}

// New creates a Server.
func New(pipeline *feed.Pipeline, src *source.Service, version string) *Server {
	return &Server{pipeline: pipeline, source: src, version: version}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	mux := &http.ServeMux{}

	mux.Handle("GET /api/health", wrap(s.health))
	mux.Handle("GET /api/boards", wrap(s.listBoards))
	mux.Handle("POST /api/boards", wrap(s.createBoard))
	mux.Handle("GET /api/feed", wrap(s.feedRoot))
	mux.Handle("GET /api/feed/{boardID}", wrap(s.feedBoard))
	mux.Handle("POST /api/feed/{boardID}/reorder", wrap(s.reorder))

	limiter := newRateLimiter(clientRate, clientBurst)
	return withRequestID(withAccessLog(withRateLimit(limiter, mux)))
}
