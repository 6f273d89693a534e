// File path: internal/api/listings_handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/catalog"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/common"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/match"
)

type listingRequest struct {
	ID           string   `json:"id"`
	OwnerID      string   `json:"owner_id"`
	Side         string   `json:"side"`
	Subjects     []string `json:"subjects"`
	Levels       []string `json:"levels"`
	Price        *float64 `json:"price"`
	PriceMin     *float64 `json:"price_min"`
	PriceMax     *float64 `json:"price_max"`
	Mode         string   `json:"mode"`
	Description  string   `json:"description"`
	Requirements string   `json:"requirements"`
	Status       string   `json:"status"`
	Reputation   float64  `json:"reputation"`
}

type listingResponse struct {
	ID           string   `json:"id"`
	OwnerID      string   `json:"owner_id"`
	Side         string   `json:"side"`
	Subjects     []string `json:"subjects"`
	Levels       []string `json:"levels"`
	Price        *float64 `json:"price,omitempty"`
	PriceMin     *float64 `json:"price_min,omitempty"`
	PriceMax     *float64 `json:"price_max,omitempty"`
	Mode         string   `json:"mode"`
	Description  string   `json:"description,omitempty"`
	Requirements string   `json:"requirements,omitempty"`
	Status       string   `json:"status"`
	Reputation   float64  `json:"reputation"`
	HasEmbedding bool     `json:"has_embedding"`
}

func toListingResponse(listing catalog.Listing) listingResponse {
	return listingResponse{
		ID:           listing.ID,
		OwnerID:      listing.OwnerID,
		Side:         string(listing.Side),
		Subjects:     listing.Subjects,
		Levels:       listing.Levels,
		Price:        listing.Price,
		PriceMin:     listing.PriceMin,
		PriceMax:     listing.PriceMax,
		Mode:         string(listing.Mode),
		Description:  listing.Description,
		Requirements: listing.Requirements,
		Status:       string(listing.Status),
		Reputation:   listing.Reputation,
		HasEmbedding: listing.Embedding != nil,
	}
}

func (s *Server) handleUpsertListing(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode listing: %w", err))
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		req.ID = uuid.NewString()
	}
	listing := catalog.Listing{
		ID:           req.ID,
		OwnerID:      req.OwnerID,
		Side:         catalog.Side(strings.ToLower(strings.TrimSpace(req.Side))),
		Subjects:     req.Subjects,
		Levels:       req.Levels,
		Price:        req.Price,
		PriceMin:     req.PriceMin,
		PriceMax:     req.PriceMax,
		Mode:         catalog.DeliveryMode(strings.ToUpper(strings.TrimSpace(req.Mode))),
		Description:  req.Description,
		Requirements: req.Requirements,
		Status:       catalog.Status(strings.ToLower(strings.TrimSpace(req.Status))),
		Reputation:   req.Reputation,
	}
	if listing.Mode == "" {
		listing.Mode = catalog.ModeBoth
	}
	if listing.Status == "" {
		listing.Status = catalog.StatusDraft
	}
	if err := s.catalog.UpsertListing(r.Context(), listing); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	common.Logger().Info("api: listing upserted", "listing", listing.ID, "side", string(listing.Side))
	writeJSON(w, http.StatusOK, map[string]string{"id": listing.ID})
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	listing, err := s.catalog.ListingByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("listing %s not found", id))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponse(*listing))
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	id := chi.URLParam(r, "id")
	opts := match.Options{}
	query := r.URL.Query()
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		opts.Limit = parsed
	}
	if raw := query.Get("min_score"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid min_score %q", raw))
			return
		}
		opts.MinScore = &parsed
	}
	if raw := query.Get("explain"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid explain %q", raw))
			return
		}
		opts.IncludeExplanations = parsed
	}
	logger.Info("api: match request", "listing", id, "limit", query.Get("limit"), "min_score", query.Get("min_score"), "explain", opts.IncludeExplanations)
	results, err := s.matcher.GetMatches(r.Context(), id, opts)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("listing %s not found", id))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"listing_id": id,
		"matches":    results,
	})
}

func (s *Server) handleExplanation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	candidateID := chi.URLParam(r, "candidateID")
	text, err := s.matcher.ExplainMatch(r.Context(), id, candidateID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("listing pair %s/%s not found", id, candidateID))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"listing_id":   id,
		"candidate_id": candidateID,
		"explanation":  text,
	})
}
