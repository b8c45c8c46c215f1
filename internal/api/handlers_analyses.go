package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmoralesc/actalyzer/internal/store"
)

// handleListAnalyses returns stored analyses, newest first, with
// pagination and an optional financial filter.
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	var isFinancial *bool
	if v := r.URL.Query().Get("is_financial"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			isFinancial = &b
		}
	}

	records, err := s.store.List(r.Context(), limit, offset, isFinancial)
	if err != nil {
		s.log.Error("list analyses failed", "error", err)
		jsonError(w, "failed to list analyses", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []store.AnalysisRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"total":   len(records),
		"limit":   limit,
		"offset":  offset,
		"results": records,
	})
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "analysisID")
	record, err := s.store.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "analysis not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("get analysis failed", "analysis_id", id, "error", err)
		jsonError(w, "failed to load analysis", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

// handleLLMStats reports rolling latency statistics for model calls.
func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.llmClient.Stats().Snapshot())
}
