// File path: internal/api/profiles_handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/catalog"
	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/common"
)

type profileRequest struct {
	Headline   string  `json:"headline"`
	Biography  string  `json:"biography"`
	Experience string  `json:"experience"`
	Reputation float64 `json:"reputation"`
}

type profileResponse struct {
	OwnerID      string  `json:"owner_id"`
	Headline     string  `json:"headline,omitempty"`
	Biography    string  `json:"biography,omitempty"`
	Experience   string  `json:"experience,omitempty"`
	Reputation   float64 `json:"reputation"`
	HasEmbedding bool    `json:"has_embedding"`
}

func (s *Server) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	ownerID := strings.TrimSpace(chi.URLParam(r, "ownerID"))
	if ownerID == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("owner id required"))
		return
	}
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode profile: %w", err))
		return
	}
	profile := catalog.ProviderProfile{
		OwnerID:    ownerID,
		Headline:   req.Headline,
		Biography:  req.Biography,
		Experience: req.Experience,
		Reputation: req.Reputation,
	}
	if err := s.catalog.UpsertProfile(r.Context(), profile); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	common.Logger().Info("api: profile upserted", "owner", ownerID)
	writeJSON(w, http.StatusOK, map[string]string{"owner_id": ownerID})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "ownerID")
	profile, err := s.catalog.ProfileByOwner(r.Context(), ownerID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("profile %s not found", ownerID))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		OwnerID:      profile.OwnerID,
		Headline:     profile.Headline,
		Biography:    profile.Biography,
		Experience:   profile.Experience,
		Reputation:   profile.Reputation,
		HasEmbedding: profile.Embedding != nil,
	})
}
