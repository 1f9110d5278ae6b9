package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"logosnap/internal/branding"
	"logosnap/internal/db"
	"logosnap/internal/palette"
)

func TestHistoryServiceListsRecentExtractions(t *testing.T) {
	t.Parallel()

	repository := newExtractionRepositoryForTest(t)
	if _, err := repository.Record(context.Background(), "uploads/logo.png", palette.DefaultPalette()); err != nil {
		t.Fatalf("record extraction: %v", err)
	}

	service := NewHistoryService(repository)

	recorder := httptest.NewRecorder()
	service.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/palette/recent", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var records []branding.Extraction
	if err := json.Unmarshal(recorder.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode history response: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].LogoPath != "uploads/logo.png" {
		t.Fatalf("unexpected logo path %q", records[0].LogoPath)
	}
	if records[0].Palette != palette.DefaultPalette() {
		t.Fatalf("unexpected palette %+v", records[0].Palette)
	}
}

func TestHistoryServiceRejectsInvalidLimit(t *testing.T) {
	t.Parallel()

	service := NewHistoryService(newExtractionRepositoryForTest(t))

	recorder := httptest.NewRecorder()
	service.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/palette/recent?limit=abc", nil))

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid limit, got %d", recorder.Code)
	}
}

func TestHistoryServiceRejectsWrites(t *testing.T) {
	t.Parallel()

	service := NewHistoryService(newExtractionRepositoryForTest(t))

	recorder := httptest.NewRecorder()
	service.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/api/palette/recent", nil))

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for DELETE, got %d", recorder.Code)
	}
}

func newExtractionRepositoryForTest(t *testing.T) *branding.ExtractionRepository {
	t.Helper()

	database, err := db.Bootstrap(filepath.Join(t.TempDir(), "logosnap.db"))
	if err != nil {
		t.Fatalf("bootstrap test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return branding.NewExtractionRepository(database)
}
