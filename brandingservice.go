package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"logosnap/internal/palette"
)

// BrandingService exposes palette derivation over HTTP. The response is the
// flat 8-key palette object; callers theme every generated artifact with it.
type BrandingService struct {
	palettes *PaletteService
}

func NewBrandingService(palettes *PaletteService) *BrandingService {
	return &BrandingService{palettes: palettes}
}

func (s *BrandingService) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		rw.Header().Set("Allow", "GET, HEAD")
		http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	logoPath := req.URL.Query().Get("path")
	if logoPath == "" {
		http.Error(rw, "missing logo path", http.StatusBadRequest)
		return
	}

	derived, err := s.palettes.PreviewFromLogo(req.Context(), logoPath)
	if err != nil {
		if errors.Is(err, ErrLogoNotFound) {
			http.Error(rw, "logo not found", http.StatusNotFound)
			return
		}
		http.Error(rw, "invalid logo path", http.StatusBadRequest)
		return
	}

	writeJSON(rw, req, derived)
}

// DefaultPaletteHandler serves the baseline theme used when no logo was
// supplied.
func (s *BrandingService) DefaultPaletteHandler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet && req.Method != http.MethodHead {
			rw.Header().Set("Allow", "GET, HEAD")
			http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		writeJSON(rw, req, palette.DefaultPalette())
	})
}

func writeJSON(rw http.ResponseWriter, req *http.Request, payload any) {
	rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	if req.Method == http.MethodHead {
		return
	}

	if err := json.NewEncoder(rw).Encode(payload); err != nil {
		log.Printf("write json response: %v", err)
	}
}
