package config

import (
	"fmt"
	"os"
	"path/filepath"
)

type Paths struct {
	BaseDir    string
	DBPath     string
	UploadsDir string
	OutputsDir string
}

// ResolvePaths lays out the service data directories under baseDir. An empty
// baseDir falls back to a per-user directory named after the app slug.
func ResolvePaths(appSlug string, baseDir string) (Paths, error) {
	if baseDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return Paths{}, fmt.Errorf("resolve user config dir: %w", err)
		}
		baseDir = filepath.Join(configDir, appSlug)
	}

	uploadsDir := filepath.Join(baseDir, "uploads")
	outputsDir := filepath.Join(baseDir, "outputs")
	dbPath := filepath.Join(baseDir, appSlug+".db")

	for _, dir := range []string{baseDir, uploadsDir, outputsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Paths{}, fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}

	return Paths{
		BaseDir:    baseDir,
		DBPath:     dbPath,
		UploadsDir: uploadsDir,
		OutputsDir: outputsDir,
	}, nil
}
