package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

type chatRequest struct {
	Query string `json:"query"`
	// Pointer so an absent field defaults to true.
	UseRAG *bool `json:"use_rag"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return
	}

	useRAG := true
	if req.UseRAG != nil {
		useRAG = *req.UseRAG
	}

	ans, err := s.answerer.Answer(r.Context(), req.Query, useRAG)
	if err != nil {
		s.log.Error("chat failed", "use_rag", useRAG, "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ans)
}
