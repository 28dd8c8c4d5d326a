package ui

import (
	"testing"
	"time"

	"github.com/podwheel/podwheel/internal/nav"
	"github.com/podwheel/podwheel/internal/playback"
)

var _ nav.Feedback = (*UI)(nil)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{0, "0:00"},
		{time.Second, "0:01"},
		{59 * time.Second, "0:59"},
		{time.Minute, "1:00"},
		{3*time.Minute + 7*time.Second, "3:07"},
		{61 * time.Minute, "61:00"},
		{1500 * time.Millisecond, "0:02"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := formatDuration(tt.d)
			if result != tt.expected {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.d, result, tt.expected)
			}
		})
	}
}

func TestJoinParts(t *testing.T) {
	tests := []struct {
		name     string
		parts    []string
		expected string
	}{
		{
			name:     "empty slice",
			parts:    []string{},
			expected: "",
		},
		{
			name:     "single part",
			parts:    []string{"▶ Playing"},
			expected: "▶ Playing",
		},
		{
			name:     "two parts",
			parts:    []string{"▶ Playing", "Vol 70%"},
			expected: "▶ Playing │ Vol 70%",
		},
		{
			name:     "nil slice",
			parts:    nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := joinParts(tt.parts)
			if result != tt.expected {
				t.Errorf("joinParts(%v) = %q, want %q", tt.parts, result, tt.expected)
			}
		})
	}
}

func TestStateIndicator(t *testing.T) {
	tests := []struct {
		state    playback.State
		contains string
	}{
		{playback.StatePlaying, "Playing"},
		{playback.StatePaused, "Paused"},
		{playback.StateStopped, "Stopped"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			result := stateIndicator(tt.state)
			if result == "" {
				t.Fatal("stateIndicator returned empty string")
			}
			if !containsString(result, tt.contains) {
				t.Errorf("stateIndicator(%v) = %q, expected to contain %q", tt.state, result, tt.contains)
			}
		})
	}
}

func TestItemLabel(t *testing.T) {
	tests := []struct {
		name     string
		item     nav.Item
		expected string
	}{
		{
			name:     "menu entry",
			item:     nav.Item{Kind: nav.KindMenu, Label: "Playlists"},
			expected: " Playlists",
		},
		{
			name:     "playlist entry",
			item:     nav.Item{Kind: nav.KindPlaylist, Label: "Favorites"},
			expected: " Favorites",
		},
		{
			name:     "song entry is indented",
			item:     nav.Item{Kind: nav.KindSong, Label: "Some Track"},
			expected: "   Some Track",
		},
		{
			name:     "action entry carries a plus",
			item:     nav.Item{Kind: nav.KindAction, Label: "Shuffle"},
			expected: " + Shuffle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := itemLabel(tt.item)
			if result != tt.expected {
				t.Errorf("itemLabel(%+v) = %q, want %q", tt.item, result, tt.expected)
			}
		})
	}
}

func containsString(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
