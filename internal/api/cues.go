package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/showcue-core/internal/cue"
	"github.com/nerrad567/showcue-core/internal/trigger"
)

// Cue row actions accepted by POST /api/v1/cues/{row}/{action}.
const (
	actionPlay    = "play"
	actionPreview = "preview"
	actionPreload = "preload"
	actionStop    = "stop"
)

// CueRow is a cue together with its position in the list.
type CueRow struct {
	Row int `json:"row"`
	cue.Cue
}

// OverlayRequest is the body of PUT /api/v1/overlay.
type OverlayRequest struct {
	Text string `json:"text"`
}

// TimecodeRequest is the body of POST /api/v1/timecode.
type TimecodeRequest struct {
	Timecode string `json:"timecode"`
}

// handleListCues returns the cue list in row order.
func (s *Server) handleListCues(w http.ResponseWriter, _ *http.Request) {
	cues := s.show.Cues()
	rows := make([]CueRow, len(cues))
	for i, c := range cues {
		rows[i] = CueRow{Row: i, Cue: c}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cues":  rows,
		"count": len(rows),
	})
}

// handleCueAction plays, previews, preloads or stops the cue at a row.
func (s *Server) handleCueAction(w http.ResponseWriter, r *http.Request) {
	row, err := strconv.Atoi(chi.URLParam(r, "row"))
	if err != nil {
		writeBadRequest(w, "row must be an integer")
		return
	}

	action := chi.URLParam(r, "action")
	switch action {
	case actionPlay:
		err = s.show.Submit(r.Context(), trigger.Play(row).From(trigger.SourceAPI))
	case actionPreview:
		err = s.show.Submit(r.Context(), trigger.Preview(row).From(trigger.SourceAPI))
	case actionPreload:
		err = s.show.Submit(r.Context(), trigger.Preload(row).From(trigger.SourceAPI))
	case actionStop:
		err = s.show.StopRow(r.Context(), row)
	default:
		writeNotFound(w, "unknown cue action: "+action)
		return
	}
	if err != nil {
		writeShowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"row": row, "action": action})
}

// handleTake promotes the preview cue to program.
func (s *Server) handleTake(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, trigger.TakeEvent())
}

// handleStopAll stops every screen and bridge.
func (s *Server) handleStopAll(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, trigger.StopAllEvent())
}

// handleOverlay sets or clears the overlay text.
func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	var req OverlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	s.submit(w, r, trigger.Overlay(req.Text))
}

// handleTimecode plays the cue whose timecode matches.
func (s *Server) handleTimecode(w http.ResponseWriter, r *http.Request) {
	var req TimecodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Timecode) == "" {
		writeBadRequest(w, "timecode is required")
		return
	}
	s.submit(w, r, trigger.TimecodeEvent(req.Timecode))
}

// handleHotkey plays the cue bound to a hotkey.
func (s *Server) handleHotkey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := s.show.TriggerHotkey(r.Context(), key); err != nil {
		writeShowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hotkey": key})
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request, ev trigger.Event) {
	if err := s.show.Submit(r.Context(), ev.From(trigger.SourceAPI)); err != nil {
		writeShowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"event": ev.Kind.String()})
}
