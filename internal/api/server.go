// File path: internal/api/server.go
package api

import (
	"context"
	"encoding/json"
	"expvar"
	"fmt"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/catalog"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/common"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/llm"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/match"
)

// Matcher is the engine surface the HTTP layer depends on.
type Matcher interface {
	GetMatches(ctx context.Context, sourceID string, opts match.Options) ([]match.MatchResult, error)
	ExplainMatch(ctx context.Context, sourceID, candidateID string) (string, error)
}

// Catalog is the listing and profile surface the HTTP layer depends on.
type Catalog interface {
	ListingByID(ctx context.Context, id string) (*catalog.Listing, error)
	UpsertListing(ctx context.Context, listing catalog.Listing) error
	ProfileByOwner(ctx context.Context, ownerID string) (*catalog.ProviderProfile, error)
	UpsertProfile(ctx context.Context, profile catalog.ProviderProfile) error
}

type Server struct {
	router   chi.Router
	catalog  Catalog
	matcher  Matcher
	provider llm.Provider
}

func NewServer(store Catalog, matcher Matcher, provider llm.Provider) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	if matcher == nil {
		return nil, fmt.Errorf("match engine required")
	}
	srv := &Server{
		router:   chi.NewRouter(),
		catalog:  store,
		matcher:  matcher,
		provider: provider,
	}
	srv.routes()
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()
			w.Header().Set("X-Request-ID", requestID)
			next.ServeHTTP(w, r)
			logger.Debug("request", "id", requestID, "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Handle("/debug/vars", expvar.Handler())
	s.router.Get("/api/health", s.handleHealth)
	s.router.Get("/api/logs", s.handleLogs)
	s.router.Post("/api/listings", s.handleUpsertListing)
	s.router.Get("/api/listings/{id}", s.handleGetListing)
	s.router.Get("/api/listings/{id}/matches", s.handleMatches)
	s.router.Get("/api/listings/{id}/matches/{candidateID}/explanation", s.handleExplanation)
	s.router.Put("/api/profiles/{ownerID}", s.handleUpsertProfile)
	s.router.Get("/api/profiles/{ownerID}", s.handleGetProfile)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
