// Package api exposes the master's HTTP control surface: read-only access
// to liveness and telemetry, and write-only triggers for audio commands and
// indicator control. It never talks to the bus directly; everything goes
// through the state store, the dispatcher, and the blink engine.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/eddie772tw/motolink/internal/dispatch"
	"github.com/eddie772tw/motolink/internal/indicator"
	"github.com/eddie772tw/motolink/internal/state"
)

type Server struct {
	store      *state.Store
	dispatcher *dispatch.Dispatcher
	blinker    *indicator.Blinker
	logger     *zerolog.Logger
	router     chi.Router
	server     *http.Server
}

func NewServer(
	store *state.Store,
	dispatcher *dispatch.Dispatcher,
	blinker *indicator.Blinker,
	logger *zerolog.Logger,
) *Server {
	s := &Server{
		store:      store,
		dispatcher: dispatcher,
		blinker:    blinker,
		logger:     logger,
		router:     chi.NewRouter(),
	}

	s.setupRoutes()

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.HandleHealth)
		r.Get("/sensors", s.HandleSensors)
		r.Post("/play", s.HandlePlay)
		r.Post("/volume/up", s.HandleVolumeUp)
		r.Post("/volume/down", s.HandleVolumeDown)
		r.Post("/blink/stop", s.HandleStopBlink)
		r.Post("/blink/{channel}", s.HandleBlink)
		r.Post("/solid/{channel}", s.HandleSolid)
	})
}

// Router exposes the handler tree, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe starts the server and blocks until it stops.
func (s *Server) ListenAndServe(addr string) error {
	s.server.Addr = addr
	s.logger.Info().Str("listen", addr).Msg("HTTP control surface up")
	return s.server.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
