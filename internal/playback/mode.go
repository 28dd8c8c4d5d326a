// Package playback coordinates track advancement and the external player.
package playback

// State represents the playback state.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// RepeatMode defines the repeat behavior.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

// Next returns the following mode in the off → all → one → off cycle.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatOff
	}
}

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "Off"
	case RepeatAll:
		return "All"
	case RepeatOne:
		return "One"
	default:
		return "Unknown"
	}
}

// PlaybackMode selects between audio-only and video embedding.
type PlaybackMode int

const (
	ModeAudio PlaybackMode = iota
	ModeVideo
)

// Toggle returns the other mode.
func (m PlaybackMode) Toggle() PlaybackMode {
	if m == ModeAudio {
		return ModeVideo
	}
	return ModeAudio
}

// String returns the playback mode name.
func (m PlaybackMode) String() string {
	if m == ModeVideo {
		return "Video"
	}
	return "Audio"
}
