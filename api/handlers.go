package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/fluxstack/catalog/models"
)

// handleTools handles the public ranked listing and admin direct publish.
func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListTools(w, r)
	case http.MethodPost:
		s.handlePublishTool(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleListTools returns ranked tools for a query/category pair.
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}

	result, err := s.service.Browse(r.Context(), query, category, limit)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	searchesTotal.Inc()
	respondJSON(w, http.StatusOK, result)
}

// handlePublishTool lets an admin publish a listing directly, bypassing
// moderation.
func (s *Server) handlePublishTool(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	var input models.ToolInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tool, err := s.service.Publish(r.Context(), input)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, tool)
}

type editRequest struct {
	models.ToolInput
	Votes *int `json:"votes"`
}

// handleTool handles per-tool operations: vote, edit, delete.
func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/tools/")
	if path == "" {
		respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	if strings.HasSuffix(path, "/vote") {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		s.handleVote(w, r, strings.TrimSuffix(path, "/vote"))
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.handleEditTool(w, r, path)
	case http.MethodDelete:
		s.handleDeleteTool(w, r, path)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleVote adds a single vote to a tool.
func (s *Server) handleVote(w http.ResponseWriter, r *http.Request, id string) {
	votes, err := s.service.Vote(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	votesTotal.Inc()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":    true,
		"votes": votes,
	})
}

// handleEditTool replaces a tool's mutable fields, with an optional vote
// count override.
func (s *Server) handleEditTool(w http.ResponseWriter, r *http.Request, id string) {
	if !s.requireAdmin(w, r) {
		return
	}

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tool, err := s.service.Edit(r.Context(), id, req.ToolInput, req.Votes)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tool)
}

// handleDeleteTool removes a published tool.
func (s *Server) handleDeleteTool(w http.ResponseWriter, r *http.Request, id string) {
	if !s.requireAdmin(w, r) {
		return
	}

	if err := s.service.Delete(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "tool deleted successfully",
	})
}

// handleAssistant returns the top recommendations for a free-text request.
func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	result, err := s.service.Recommend(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// handleSubmissions handles public submission creation and the admin queue.
func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSubmission(w, r)
	case http.MethodGet:
		s.handleListSubmissions(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleCreateSubmission validates and queues a public submission.
func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	var input models.ToolInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := s.service.Submit(r.Context(), input); err != nil {
		respondDomainError(w, err)
		return
	}

	submissionsTotal.Inc()
	respondJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}

// handleListSubmissions returns the pending moderation queue.
func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}

	subs, err := s.service.ListSubmissions(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"submissions": subs,
	})
}

// handleSubmissionDecision handles /api/submissions/{id}/approve and
// /api/submissions/{id}/reject.
func (s *Server) handleSubmissionDecision(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/submissions/")
	id, action, found := strings.Cut(path, "/")
	if !found || id == "" {
		respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	switch action {
	case "approve":
		tool, err := s.service.Approve(r.Context(), id)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		moderationTotal.WithLabelValues("approved").Inc()
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"ok":     true,
			"toolId": tool.ID,
		})
	case "reject":
		if err := s.service.Reject(r.Context(), id); err != nil {
			respondDomainError(w, err)
			return
		}
		moderationTotal.WithLabelValues("rejected").Inc()
		respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
	default:
		respondError(w, http.StatusNotFound, "not found")
	}
}

// handleEnrich returns the best-effort pre-fill record for a target URL.
// Enrichment never fails outright; degraded results carry source "fallback".
func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	target := strings.TrimSpace(r.URL.Query().Get("url"))
	if target == "" {
		respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	respondJSON(w, http.StatusOK, s.enricher.Enrich(r.Context(), target))
}
