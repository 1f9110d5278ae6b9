package main

import (
	"encoding/json"
	"image/color"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"logosnap/internal/palette"
)

func TestBrandingServiceServesPaletteJSON(t *testing.T) {
	t.Parallel()

	uploadsDir := t.TempDir()
	writeLogoForTest(t, filepath.Join(uploadsDir, "logo.png"), color.NRGBA{R: 255, A: 255})

	service := NewBrandingService(NewPaletteService(uploadsDir, nil))

	recorder := httptest.NewRecorder()
	service.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/palette?path=logo.png", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if contentType := recorder.Header().Get("Content-Type"); contentType != "application/json; charset=utf-8" {
		t.Fatalf("unexpected content type %q", contentType)
	}

	var payload map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode palette response: %v", err)
	}
	if len(payload) != 8 {
		t.Fatalf("expected exactly 8 palette keys, got %d: %v", len(payload), payload)
	}
	if payload["primary"] != "ff0000" {
		t.Fatalf("expected primary ff0000, got %q", payload["primary"])
	}
	if payload["light"] != "F8F9FA" {
		t.Fatalf("expected fixed light F8F9FA, got %q", payload["light"])
	}
}

func TestBrandingServiceRequiresPath(t *testing.T) {
	t.Parallel()

	service := NewBrandingService(NewPaletteService(t.TempDir(), nil))

	recorder := httptest.NewRecorder()
	service.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/palette", nil))

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing path, got %d", recorder.Code)
	}
}

func TestBrandingServiceUnknownLogo(t *testing.T) {
	t.Parallel()

	service := NewBrandingService(NewPaletteService(t.TempDir(), nil))

	recorder := httptest.NewRecorder()
	service.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/palette?path=missing.png", nil))

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown logo, got %d", recorder.Code)
	}
}

func TestBrandingServiceRejectsWrites(t *testing.T) {
	t.Parallel()

	service := NewBrandingService(NewPaletteService(t.TempDir(), nil))

	recorder := httptest.NewRecorder()
	service.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/palette?path=logo.png", nil))

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for POST, got %d", recorder.Code)
	}
	if allow := recorder.Header().Get("Allow"); allow != "GET, HEAD" {
		t.Fatalf("expected Allow header, got %q", allow)
	}
}

func TestDefaultPaletteHandler(t *testing.T) {
	t.Parallel()

	service := NewBrandingService(NewPaletteService(t.TempDir(), nil))

	recorder := httptest.NewRecorder()
	service.DefaultPaletteHandler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/palette/default", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	var payload palette.Palette
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode default palette: %v", err)
	}
	if payload != palette.DefaultPalette() {
		t.Fatalf("expected default palette, got %+v", payload)
	}
}
