// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"net/http"
	"time"

	"github.com/Vijay-Ashley/sltk-ai-agent/internal/core"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server holds the dependencies for our API.
type Server struct {
	app *core.App
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	return &Server{app: app}
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Logs requests to the console
	r.Use(middleware.Recoverer) // Recovers from panics
	r.Use(middleware.Timeout(60 * time.Second))

	// API routes
	r.Get("/", s.handleHealthCheck)
	r.Get("/api/loads", s.handleGetLoads)
	r.Get("/api/status/{groupID}", s.handleGetStatus)
	r.Get("/api/errors/{groupID}", s.handleGetErrors)
	r.Get("/api/history", s.handleGetHistory)
	r.Post("/upload/excel", s.handleUploadExcel)

	// WebSocket route
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.app.Hub().ServeWs(w, r)
	})

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		if !s.app.StoreAvailable() || s.app.DB().Ping() != nil {
			RespondWithError(w, http.StatusServiceUnavailable, "Service degraded", "Database connection failed")
			return
		}
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
