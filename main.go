package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"logosnap/internal/branding"
	"logosnap/internal/config"
	"logosnap/internal/db"
)

func main() {
	if err := command.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func runServer(ctx context.Context, addr string, dataDir string) error {
	paths, err := config.ResolvePaths("logosnap", dataDir)
	if err != nil {
		return err
	}

	sqliteDB, err := db.Bootstrap(paths.DBPath)
	if err != nil {
		return err
	}
	defer sqliteDB.Close()

	extractions := branding.NewExtractionRepository(sqliteDB)
	paletteService := NewPaletteService(paths.UploadsDir, extractions)
	if err := paletteService.StartWatching(); err != nil {
		log.Printf("uploads watcher disabled: %v", err)
	}
	defer paletteService.StopWatching()

	brandingService := NewBrandingService(paletteService)
	historyService := NewHistoryService(extractions)

	mux := http.NewServeMux()
	mux.Handle("/api/palette", brandingService)
	mux.Handle("/api/palette/default", brandingService.DefaultPaletteHandler())
	mux.Handle("/api/palette/recent", historyService)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()
	log.Printf("logosnap listening on %s (data dir: %s)", addr, paths.BaseDir)

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
