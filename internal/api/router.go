package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.tokenMiddleware)
		r.Get(s.wsCfg.Path, s.handleWebSocket)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			r.Use(s.tokenMiddleware)

			r.Get("/status", s.handleStatus)
			r.Get("/metrics", s.handleMetrics)
			r.Get("/events", s.handleListEvents)
			r.Get("/bridges", s.handleListBridges)

			r.Route("/cues", func(r chi.Router) {
				r.Get("/", s.handleListCues)
				r.Post("/{row}/{action}", s.handleCueAction)
			})

			r.Post("/take", s.handleTake)
			r.Post("/stop-all", s.handleStopAll)
			r.Put("/overlay", s.handleOverlay)
			r.Post("/timecode", s.handleTimecode)
			r.Post("/hotkeys/{key}", s.handleHotkey)
		})
	})

	return r
}

// handleHealth reports liveness. It never requires a token.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
