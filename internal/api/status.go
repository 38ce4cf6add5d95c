package api

import (
	"net/http"
	"strconv"

	"github.com/nerrad567/showcue-core/internal/outputbridge"
	"github.com/nerrad567/showcue-core/internal/showlog"
)

// handleStatus reports the engine snapshot.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.show.Status(r.Context())
	if err != nil {
		writeShowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleListEvents returns recent show journal entries, newest first.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		writeJSON(w, http.StatusOK, map[string]any{"events": []showlog.Entry{}, "count": 0})
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := s.events.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("listing show events failed", "error", err)
		writeInternalError(w, "failed to list events")
		return
	}
	if entries == nil {
		entries = []showlog.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": entries, "count": len(entries)})
}

// handleListBridges reports output bridge availability.
func (s *Server) handleListBridges(w http.ResponseWriter, _ *http.Request) {
	bridges := []outputbridge.Status{}
	if s.bridges != nil {
		bridges = s.bridges.Statuses()
	}
	writeJSON(w, http.StatusOK, map[string]any{"bridges": bridges})
}
