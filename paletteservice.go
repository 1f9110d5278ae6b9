package main

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"logosnap/internal/branding"
	"logosnap/internal/palette"
)

const maxPaletteCacheEntries = 96

var ErrLogoNotFound = errors.New("logo not found")

type paletteCacheEntry struct {
	palette           palette.Palette
	sourceModUnixNano int64
	cachedAt          time.Time
}

// PaletteService wraps the extraction engine with uploads-dir confinement, a
// per-logo cache, and extraction record keeping. The engine itself is total;
// the only errors this service produces are path-resolution failures.
type PaletteService struct {
	uploadsDir  string
	extractor   *palette.Extractor
	extractions *branding.ExtractionRepository

	cacheMu sync.RWMutex
	cache   map[string]paletteCacheEntry

	watcherMu   sync.Mutex
	watcher     *fsnotify.Watcher
	watcherDone chan struct{}
}

func NewPaletteService(uploadsDir string, extractions *branding.ExtractionRepository) *PaletteService {
	return &PaletteService{
		uploadsDir:  strings.TrimSpace(uploadsDir),
		extractor:   palette.NewExtractor(),
		extractions: extractions,
		cache:       make(map[string]paletteCacheEntry),
	}
}

func (s *PaletteService) DefaultPalette() palette.Palette {
	return palette.DefaultPalette()
}

// PreviewFromLogo resolves logoPath inside the uploads dir and derives its
// palette. Vector logos never reach the raster engine and map straight to the
// default theme. A resolvable raster path always yields a palette.
func (s *PaletteService) PreviewFromLogo(ctx context.Context, logoPath string) (palette.Palette, error) {
	trimmedPath := strings.TrimSpace(logoPath)
	if trimmedPath == "" {
		return palette.Palette{}, errors.New("logo path is required")
	}

	resolvedPath, err := s.resolveLogoPath(trimmedPath)
	if err != nil {
		return palette.Palette{}, ErrLogoNotFound
	}

	if strings.EqualFold(filepath.Ext(resolvedPath), ".svg") {
		return palette.DefaultPalette(), nil
	}

	sourceInfo, err := os.Stat(resolvedPath)
	if err != nil {
		return palette.Palette{}, ErrLogoNotFound
	}
	sourceModUnixNano := sourceInfo.ModTime().UnixNano()

	if cachedPalette, ok := s.loadCachedPalette(resolvedPath, sourceModUnixNano); ok {
		return cachedPalette, nil
	}

	derived := s.extractor.ExtractFromPath(resolvedPath)
	s.storeCachedPalette(resolvedPath, sourceModUnixNano, derived)
	s.recordExtraction(ctx, resolvedPath, derived)

	return derived, nil
}

// StartWatching evicts cached palettes when their source logo changes on
// disk. Watcher failure only disables event-driven invalidation; the mtime
// check in PreviewFromLogo still guards correctness.
func (s *PaletteService) StartWatching() error {
	s.watcherMu.Lock()
	defer s.watcherMu.Unlock()

	if s.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(s.uploadsDir); err != nil {
		watcher.Close()
		return err
	}

	done := make(chan struct{})
	s.watcher = watcher
	s.watcherDone = done

	go func() {
		defer close(done)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename|fsnotify.Create) != 0 {
					s.evictCachedPalette(event.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("uploads watcher error: %v", err)
			}
		}
	}()

	return nil
}

func (s *PaletteService) StopWatching() {
	s.watcherMu.Lock()
	watcher := s.watcher
	done := s.watcherDone
	s.watcher = nil
	s.watcherDone = nil
	s.watcherMu.Unlock()

	if watcher == nil {
		return
	}

	watcher.Close()
	<-done
}

func (s *PaletteService) resolveLogoPath(requestedPath string) (string, error) {
	uploadsDir := strings.TrimSpace(s.uploadsDir)
	if uploadsDir == "" {
		return "", errors.New("uploads dir is not configured")
	}

	uploadsDirAbs, err := filepath.Abs(filepath.Clean(uploadsDir))
	if err != nil {
		return "", err
	}

	cleanRequested := filepath.Clean(requestedPath)
	if !filepath.IsAbs(cleanRequested) {
		cleanRequested = filepath.Join(uploadsDirAbs, cleanRequested)
	}

	resolvedPath, err := filepath.Abs(cleanRequested)
	if err != nil {
		return "", err
	}

	relativeToUploads, err := filepath.Rel(uploadsDirAbs, resolvedPath)
	if err != nil {
		return "", err
	}
	if relativeToUploads == ".." || strings.HasPrefix(relativeToUploads, ".."+string(os.PathSeparator)) || filepath.IsAbs(relativeToUploads) {
		return "", errors.New("requested path is outside uploads dir")
	}

	info, err := os.Stat(resolvedPath)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", errors.New("requested path is a directory")
	}

	return resolvedPath, nil
}

func (s *PaletteService) loadCachedPalette(resolvedPath string, sourceModUnixNano int64) (palette.Palette, bool) {
	s.cacheMu.RLock()
	entry, ok := s.cache[resolvedPath]
	s.cacheMu.RUnlock()
	if !ok || entry.sourceModUnixNano != sourceModUnixNano {
		return palette.Palette{}, false
	}

	return entry.palette, true
}

func (s *PaletteService) storeCachedPalette(resolvedPath string, sourceModUnixNano int64, derived palette.Palette) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.cache[resolvedPath] = paletteCacheEntry{
		palette:           derived,
		sourceModUnixNano: sourceModUnixNano,
		cachedAt:          time.Now(),
	}

	if len(s.cache) <= maxPaletteCacheEntries {
		return
	}

	oldestKey := ""
	oldestAt := time.Now()
	for key, entry := range s.cache {
		if oldestKey == "" || entry.cachedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.cachedAt
		}
	}

	if oldestKey != "" {
		delete(s.cache, oldestKey)
	}
}

func (s *PaletteService) evictCachedPalette(path string) {
	resolvedPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return
	}

	s.cacheMu.Lock()
	delete(s.cache, resolvedPath)
	s.cacheMu.Unlock()
}

func (s *PaletteService) recordExtraction(ctx context.Context, resolvedPath string, derived palette.Palette) {
	if s.extractions == nil {
		return
	}

	if _, err := s.extractions.Record(ctx, resolvedPath, derived); err != nil {
		log.Printf("record palette extraction for %s: %v", resolvedPath, err)
	}
}
