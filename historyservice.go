package main

import (
	"net/http"
	"strconv"

	"logosnap/internal/branding"
)

const defaultHistoryLimit = 20

// HistoryService lists recent palette extractions.
type HistoryService struct {
	extractions *branding.ExtractionRepository
}

func NewHistoryService(extractions *branding.ExtractionRepository) *HistoryService {
	return &HistoryService{extractions: extractions}
}

func (s *HistoryService) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		rw.Header().Set("Allow", "GET, HEAD")
		http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := defaultHistoryLimit
	if rawLimit := req.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 1 {
			http.Error(rw, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := s.extractions.Recent(req.Context(), limit)
	if err != nil {
		http.Error(rw, "failed to list extractions", http.StatusInternalServerError)
		return
	}

	writeJSON(rw, req, records)
}
