// File path: internal/api/status_handler.go
package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/TrunderHunter/SkillBridgeBE-sub000/internal/common"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	providerName := "none"
	semantic := false
	if s.provider != nil {
		providerName = s.provider.Name()
		semantic = s.provider.Available()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"provider": providerName,
		"semantic": semantic,
	})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	entries := common.LogEntries()
	if component := strings.TrimSpace(r.URL.Query().Get("component")); component != "" {
		filtered := entries[:0]
		for _, entry := range entries {
			if entry.Component == component {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 && limit < len(entries) {
			entries = entries[len(entries)-limit:]
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": entries})
}
