// Package store persists the playlist collection across sessions.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/podwheel/podwheel/internal/library"
	"github.com/rs/zerolog/log"
)

const (
	// AppDir is the directory under the user config dir holding app state.
	AppDir = "podwheel"
	// FileName is the playlist collection file.
	FileName = "playlists.json"
)

// Store reads and writes the playlist collection as a single JSON document.
type Store struct {
	path string
}

// New creates a Store at the default location under the user config dir.
func New() (*Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user config directory: %w", err)
	}
	return &Store{path: filepath.Join(configDir, AppDir, FileName)}, nil
}

// NewAt creates a Store at an explicit path.
func NewAt(path string) *Store {
	return &Store{path: path}
}

// Load reads the saved playlist collection. A missing, unreadable or corrupt
// file degrades to an empty collection; startup never fails on saved state.
func (s *Store) Load() []library.Playlist {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", s.path).Msg("Failed to read playlists, starting empty")
		}
		return nil
	}

	var playlists []library.Playlist
	if err := json.Unmarshal(data, &playlists); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("Corrupt playlist file, starting empty")
		return nil
	}

	return playlists
}

// Save writes the playlist collection atomically using temp file + rename.
func (s *Store) Save(playlists []library.Playlist) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	if playlists == nil {
		playlists = []library.Playlist{}
	}
	data, err := json.MarshalIndent(playlists, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal playlists: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".playlists-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to rename playlist file: %w", err)
	}

	tmpPath = "" // Prevent defer from removing the final file
	return nil
}
