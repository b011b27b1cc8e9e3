package server

import (
	"encoding/json"
	"net/http"
	"time"
)

// sendRequest is the wire shape of POST /api/send.
type sendRequest struct {
	ID     string `json:"id,omitempty"`
	Data   any    `json:"data"`
	View   string `json:"view,omitempty"`
	Append bool   `json:"append,omitempty"`
}

// Response helpers
func jsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func errorResponse(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// handleRunning is the liveness probe clients use for discovery.
func (s *Server) handleRunning(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

// handleEntries returns the full current snapshot in insertion order.
// Viewers fetch this once, then subscribe to the push channel for
// deltas.
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, s.store.List())
}

// handleSend upserts one entry and broadcasts the result.
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Data == nil {
		errorResponse(w, http.StatusBadRequest, "data required")
		return
	}

	s.store.Put(req.ID, req.Data, req.View, req.Append)
	w.Write([]byte("ok"))
}

// handleDelete removes an entry by id. Always 200: deleting an unknown
// id is a no-op.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.store.Delete(r.PathValue("id"))
	w.Write([]byte("ok"))
}

// handleClear wipes the store and broadcasts the clear sentinel.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.store.Clear()
	w.Write([]byte("ok"))
}

// handleWait blocks until the broadcast backlog has drained to every
// connected viewer, bounded by a timeout. Clients call this before
// exiting so the last entries have a chance to reach the browser.
func (s *Server) handleWait(w http.ResponseWriter, r *http.Request) {
	s.hub.WaitIdle(r.Context(), 10*time.Second)
	w.Write([]byte("ok"))
}
