// Package cache provides disk-based caching of resolved video titles.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultExpiry is how long cached titles are valid (30 days).
	DefaultExpiry = 30 * 24 * time.Hour
	// TitleSubdir is the subdirectory for cached titles.
	TitleSubdir = "titles"
	// AppName is used for the cache directory name.
	AppName = "podwheel"
)

// Cache stores one small text file per video id. Video ids are already
// filesystem-safe ([A-Za-z0-9_-]), so they are used as filenames directly.
type Cache struct {
	baseDir string
	expiry  time.Duration
}

// NewCache creates a new Cache instance with the default expiry.
func NewCache() (*Cache, error) {
	cacheDir, err := GetCacheDir()
	if err != nil {
		return nil, err
	}

	return &Cache{
		baseDir: cacheDir,
		expiry:  DefaultExpiry,
	}, nil
}

// NewCacheAt creates a Cache rooted at an explicit directory.
func NewCacheAt(dir string) *Cache {
	return &Cache{baseDir: dir, expiry: DefaultExpiry}
}

// GetCacheDir returns the platform-specific cache directory for the application.
func GetCacheDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user cache directory: %w", err)
	}
	return filepath.Join(userCacheDir, AppName), nil
}

func (c *Cache) titlePath(videoID string) string {
	return filepath.Join(c.baseDir, TitleSubdir, videoID+".txt")
}

// GetTitle retrieves a cached title by video id. Returns "" if not found or
// expired.
func (c *Cache) GetTitle(videoID string) string {
	path := c.titlePath(videoID)

	info, err := os.Stat(path)
	if err != nil {
		return ""
	}

	if time.Since(info.ModTime()) > c.expiry {
		if err := os.Remove(path); err != nil {
			log.Debug().Err(err).Str("file", path).Msg("Failed to remove expired cache file")
		}
		return ""
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}

// SaveTitle stores a title in the cache, keyed by video id.
func (c *Cache) SaveTitle(videoID, title string) error {
	dir := filepath.Join(c.baseDir, TitleSubdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := os.WriteFile(c.titlePath(videoID), []byte(title), 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// CleanExpired removes cache files older than the expiry duration.
func (c *Cache) CleanExpired() error {
	dir := filepath.Join(c.baseDir, TitleSubdir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	now := time.Now()
	var removed, failed int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			log.Debug().Err(err).Str("file", entry.Name()).Msg("Failed to get file info")
			continue
		}

		if now.Sub(info.ModTime()) > c.expiry {
			filePath := filepath.Join(dir, entry.Name())
			if err := os.Remove(filePath); err != nil {
				log.Debug().Err(err).Str("file", filePath).Msg("Failed to remove expired cache file")
				failed++
			} else {
				removed++
			}
		}
	}

	if removed > 0 || failed > 0 {
		log.Debug().Int("removed", removed).Int("failed", failed).Msg("Cache cleanup completed")
	}

	return nil
}
