// Implements the HTTP API handlers.

package server

import (
	"errors"
	"net/http"

	"github.com/wilzamguerrero/notionfeed/internal/feed"
	"github.com/wilzamguerrero/notionfeed/internal/notion"
)

// healthResponse is the body of GET /api/health.
type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: s.version})
}

// boardsResponse is the body of GET /api/boards.
type boardsResponse struct {
	RootID string       `json:"rootId"`
	Boards []feed.Board `json:"boards"`
}

func (s *Server) listBoards(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, boardsResponse{
		RootID: s.pipeline.RootID(),
		Boards: s.pipeline.Catalog().Boards(),
	})
}

// createBoardRequest is the body of POST /api/boards.
type createBoardRequest struct {
	ParentID string `json:"parentId"`
	Title    string `json:"title"`
}

func (s *Server) createBoard(w http.ResponseWriter, r *http.Request) error {
	var req createBoardRequest
	if err := readJSON(r, &req); err != nil {
		return badRequest(err)
	}
	if req.Title == "" {
		return badRequest(errors.New("title is required"))
	}
	if req.ParentID == "" || req.ParentID == "root" {
		req.ParentID = s.pipeline.RootID()
	}

	board, err := s.source.CreateBoard(r.Context(), req.ParentID, req.Title)
	if err != nil {
		return err
	}
	s.pipeline.Catalog().Merge([]feed.Board{board})
	return writeJSON(w, http.StatusCreated, board)
}

func (s *Server) feedRoot(w http.ResponseWriter, r *http.Request) error {
	return s.loadFeed(w, r, "")
}

func (s *Server) feedBoard(w http.ResponseWriter, r *http.Request) error {
	return s.loadFeed(w, r, r.PathValue("boardID"))
}

func (s *Server) loadFeed(w http.ResponseWriter, r *http.Request, boardID string) error {
	force := r.URL.Query().Get("refresh") == "1"
	if force {
		target := boardID
		if target == "" {
			target = s.pipeline.RootID()
		}
		s.source.Invalidate(target)
	}

	res, err := s.pipeline.Load(r.Context(), boardID, force)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// reorderRequest is the body of POST /api/feed/{boardID}/reorder.
type reorderRequest struct {
	MovedID  string `json:"movedId"`
	TargetID string `json:"targetId"`
}

func (s *Server) reorder(w http.ResponseWriter, r *http.Request) error {
	var req reorderRequest
	if err := readJSON(r, &req); err != nil {
		return badRequest(err)
	}
	if req.MovedID == "" || req.TargetID == "" {
		return badRequest(errors.New("movedId and targetId are required"))
	}

	res, err := s.pipeline.Reorder(r.Context(), r.PathValue("boardID"), req.MovedID, req.TargetID)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// statusFor maps pipeline and upstream errors to HTTP status codes.
func statusFor(err error) int {
	var httpErr *handlerError
	if errors.As(err, &httpErr) {
		return httpErr.status
	}
	if errors.Is(err, feed.ErrStale) {
		// A newer load superseded this one; the client should retry
		// against the fresh state.
		return http.StatusConflict
	}
	var apiErr *notion.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusNotFound:
			return http.StatusNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			return http.StatusBadGateway
		case http.StatusTooManyRequests:
			return http.StatusServiceUnavailable
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
