package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"gopkg.in/yaml.v3"
)

const (
	AppName        = "PodWheel"
	AppTagline     = "Click-wheel terminal music player"
	AppDescription = "A terminal click-wheel player for YouTube-backed playlists"
	AppProjectURL  = "https://github.com/podwheel/podwheel"

	ConfigDir      = "podwheel"
	ConfigFileName = "config.yml"
	DefaultVolume  = 70
	MinVolume      = 0
	MaxVolume      = 100

	// DefaultStreamGateway is the companion endpoint that transcodes a video
	// id into an MP3 stream. %s is replaced with the id.
	DefaultStreamGateway = "http://127.0.0.1:8766/stream/%s.mp3"

	ThemeDark  = "dark"
	ThemeLight = "light"
)

// AppVersion can be overridden at build time using ldflags:
// go build -ldflags "-X github.com/podwheel/podwheel/internal/config.AppVersion=1.0.0"
var AppVersion = "dev"

// ClampVolume ensures volume is within the valid range [0, 100].
func ClampVolume(volume int) int {
	if volume < MinVolume {
		return MinVolume
	}
	if volume > MaxVolume {
		return MaxVolume
	}
	return volume
}

// Palette is the fixed color set for one theme.
type Palette struct {
	Background string
	Foreground string
	Borders    string
	Highlight  string
	Header     string
	StatusBar  string
	Muted      string
}

var palettes = map[string]Palette{
	ThemeDark: {
		Background: "#1a1b25",
		Foreground: "#a3aacb",
		Borders:    "#40445b",
		Highlight:  "#ff9d65",
		Header:     "#3a3d4f",
		StatusBar:  "#322f45",
		Muted:      "#6a7090",
	},
	ThemeLight: {
		Background: "#f2f1ec",
		Foreground: "#3c3f52",
		Borders:    "#b8b5a9",
		Highlight:  "#c65f2e",
		Header:     "#d9d6c9",
		StatusBar:  "#e4e1d4",
		Muted:      "#8a8878",
	},
}

// PaletteFor returns the palette for the given theme name, falling back to
// the dark theme for unknown names.
func PaletteFor(theme string) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[ThemeDark]
}

// NormalizeTheme maps any stored value onto one of the two valid themes.
func NormalizeTheme(theme string) string {
	if theme == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

type Config struct {
	Theme         string `yaml:"theme"`
	Volume        int    `yaml:"volume"`
	StreamGateway string `yaml:"stream_gateway"`
}

func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, ConfigDir, ConfigFileName), nil
}

func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Volume = ClampVolume(cfg.Volume)
	cfg.Theme = NormalizeTheme(cfg.Theme)
	if cfg.StreamGateway == "" {
		cfg.StreamGateway = DefaultStreamGateway
	}

	return cfg, nil
}

// Save writes the configuration to disk atomically using temp file + rename.
func (c *Config) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpFile, err := os.CreateTemp(configDir, ".config-*.tmp")
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

	if err := os.Rename(tmpPath, configPath); err != nil {
		return fmt.Errorf("failed to rename config file: %w", err)
	}

	tmpPath = "" // Prevent defer from removing the final file
	return nil
}

// ToggleTheme flips between the two themes and returns the new value.
func (c *Config) ToggleTheme() string {
	if c.Theme == ThemeDark {
		c.Theme = ThemeLight
	} else {
		c.Theme = ThemeDark
	}
	return c.Theme
}

func DefaultConfig() *Config {
	return &Config{
		Theme:         ThemeDark,
		Volume:        DefaultVolume,
		StreamGateway: DefaultStreamGateway,
	}
}

func GetColor(colorStr string) tcell.Color {
	if colorStr == "" || colorStr == "default" {
		return tcell.ColorDefault
	}
	return tcell.GetColor(colorStr)
}
