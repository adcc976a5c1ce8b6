// Package httpapi is the small JSON save API used by browser clients that
// keep their own game loop.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"magictrail.dev/internal/persistence/savestore"
	"magictrail.dev/internal/persistence/snapshot"
	"magictrail.dev/internal/sim/trail"
)

const maxBody = 1 << 20

type Server struct {
	store savestore.Store
	log   *log.Logger
	now   func() time.Time

	// Validate rejects snapshots the simulation could not restore. Nil
	// accepts any well-formed snapshot.
	Validate func(trail.Snapshot) error
}

func NewServer(store savestore.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{store: store, log: logger, now: time.Now}
}

// Register mounts the API on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/save", s.save)
	mux.HandleFunc("GET /api/load/{saveId}", s.load)
	mux.HandleFunc("GET /api/exists/{saveId}", s.exists)
	mux.HandleFunc("DELETE /api/save/{saveId}", s.remove)
	mux.HandleFunc("GET /api/health", s.health)
}

type saveRequest struct {
	SaveID    string          `json:"saveId"`
	GameState *trail.Snapshot `json:"gameState"`
}

func (s *Server) save(rw http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&req); err != nil {
		writeError(rw, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.SaveID) == "" || req.GameState == nil {
		writeError(rw, http.StatusBadRequest, "Missing saveId or gameState")
		return
	}
	if s.Validate != nil {
		if err := s.Validate(*req.GameState); err != nil {
			writeError(rw, http.StatusBadRequest, err.Error())
			return
		}
	}
	blob, err := snapshot.Encode(*req.GameState, s.now())
	if err != nil {
		s.log.Printf("encode save %q: %v", req.SaveID, err)
		writeError(rw, http.StatusInternalServerError, "Failed to save game")
		return
	}
	at, err := s.store.Save(r.Context(), req.SaveID, blob)
	if err != nil {
		s.log.Printf("save %q: %v", req.SaveID, err)
		writeError(rw, http.StatusInternalServerError, "Failed to save game")
		return
	}
	writeJSON(rw, http.StatusOK, map[string]any{"success": true, "message": "Game saved!", "lastSaved": at})
}

func (s *Server) load(rw http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Load(r.Context(), r.PathValue("saveId"))
	if errors.Is(err, savestore.ErrNotFound) || errors.Is(err, savestore.ErrEmptyName) {
		writeError(rw, http.StatusNotFound, "Save not found")
		return
	}
	if err != nil {
		s.log.Printf("load %q: %v", r.PathValue("saveId"), err)
		writeError(rw, http.StatusInternalServerError, "Failed to load game")
		return
	}
	_, snap, err := snapshot.Decode(rec.Blob)
	if err != nil {
		s.log.Printf("decode %q: %v", rec.Name, err)
		writeError(rw, http.StatusInternalServerError, "Failed to load game")
		return
	}
	writeJSON(rw, http.StatusOK, map[string]any{"success": true, "gameState": snap, "lastSaved": rec.SavedAt})
}

func (s *Server) exists(rw http.ResponseWriter, r *http.Request) {
	ok, err := s.store.Exists(r.Context(), r.PathValue("saveId"))
	if err != nil && !errors.Is(err, savestore.ErrEmptyName) {
		s.log.Printf("exists %q: %v", r.PathValue("saveId"), err)
		writeError(rw, http.StatusInternalServerError, "Failed to check save")
		return
	}
	writeJSON(rw, http.StatusOK, map[string]any{"exists": ok})
}

func (s *Server) remove(rw http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), r.PathValue("saveId")); err != nil {
		s.log.Printf("delete %q: %v", r.PathValue("saveId"), err)
		writeError(rw, http.StatusInternalServerError, "Failed to delete save")
		return
	}
	writeJSON(rw, http.StatusOK, map[string]any{"success": true, "message": "Save deleted"})
}

func (s *Server) health(rw http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()
	if _, err := s.store.List(ctx); err != nil {
		writeJSON(rw, http.StatusServiceUnavailable, map[string]any{"status": "degraded", "error": err.Error(), "timestamp": s.now().UTC()})
		return
	}
	writeJSON(rw, http.StatusOK, map[string]any{"status": "ok", "timestamp": s.now().UTC()})
}

func writeError(rw http.ResponseWriter, status int, msg string) {
	writeJSON(rw, status, map[string]any{"error": msg})
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}
