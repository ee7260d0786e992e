package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ChiefWoods/fundraiser-go/fundclient"
)

// Server exposes the fundraiser program over HTTP. Every write endpoint
// returns an unsigned transaction; signing stays on the caller's side.
type Server struct {
	client *fundclient.Client
	log    zerolog.Logger
	router chi.Router
}

// NewServer creates a server with all routes configured.
func NewServer(client *fundclient.Client, log zerolog.Logger) *Server {
	s := &Server{client: client, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api/v1/fund", func(r chi.Router) {
		r.Post("/initialize", s.handleInitialize)
		r.Post("/contribute", s.handleContribute)
		r.Post("/refund", s.handleRefund)
		r.Post("/claim", s.handleClaim)
		r.Post("/transaction/send", s.handleSendTransaction)
		r.Get("/campaign/{maker}", s.handleGetCampaign)
		r.Get("/contribution/{maker}/{contributor}", s.handleGetContribution)
	})
	r.Get("/health", s.handleHealth)

	s.router = r
	return s
}

// Router returns the underlying http.Handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.client.HealthCheck(r.Context()); err != nil {
		http.Error(w, "rpc unreachable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
