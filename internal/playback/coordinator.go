package playback

import (
	"time"

	"github.com/podwheel/podwheel/internal/library"
	"github.com/rs/zerolog/log"
)

// restartThreshold: a previous-track request this far into a track restarts
// it instead of changing track.
const restartThreshold = 3 * time.Second

// Player is the external media player contract. Implementations must accept
// calls before they are ready; such calls are no-ops apart from Load.
type Player interface {
	Load(videoID string)
	Play()
	Pause()
	Seek(pos time.Duration)
	CurrentTime() time.Duration
	Ready() bool
}

// Event is a lifecycle notification from the external player.
type Event int

const (
	EventReady Event = iota
	EventPlaying
	EventPaused
	EventEnded
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventReady:
		return "ready"
	case EventPlaying:
		return "playing"
	case EventPaused:
		return "paused"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// NowPlaying points at a song by playlist id and index. It is a reference,
// not a copy: it is re-validated against the library on every read.
type NowPlaying struct {
	PlaylistID string
	SongIndex  int
}

// Coordinator owns the now-playing pointer and the track-advance policy.
// All methods run on the single UI event goroutine; player events must be
// delivered there via HandleEvent.
type Coordinator struct {
	lib    *library.Library
	player Player

	state     State
	repeat    RepeatMode
	mode      PlaybackMode
	now       NowPlaying
	hasNow    bool
	wantsPlay bool
}

// New creates a Coordinator. The player may be nil (no audio backend bound).
func New(lib *library.Library, player Player) *Coordinator {
	return &Coordinator{lib: lib, player: player}
}

// Current resolves the now-playing pointer. A dangling pointer (playlist or
// index gone) reads as absent.
func (c *Coordinator) Current() (library.Song, bool) {
	if !c.hasNow {
		return library.Song{}, false
	}
	pl := c.lib.Find(c.now.PlaylistID)
	if pl == nil || c.now.SongIndex < 0 || c.now.SongIndex >= len(pl.Songs) {
		return library.Song{}, false
	}
	return pl.Songs[c.now.SongIndex], true
}

// NowPlaying returns the pointer and whether it currently resolves.
func (c *Coordinator) NowPlaying() (NowPlaying, bool) {
	if _, ok := c.Current(); !ok {
		return NowPlaying{}, false
	}
	return c.now, true
}

func (c *Coordinator) State() State { return c.state }

func (c *Coordinator) Repeat() RepeatMode { return c.repeat }

func (c *Coordinator) Mode() PlaybackMode { return c.mode }

func (c *Coordinator) IsPlaying() bool { return c.state == StatePlaying }

// CycleRepeat advances off → all → one → off and returns the new mode.
func (c *Coordinator) CycleRepeat() RepeatMode {
	c.repeat = c.repeat.Next()
	log.Debug().Str("repeat", c.repeat.String()).Msg("Repeat mode changed")
	return c.repeat
}

// TogglePlaybackMode flips audio/video and returns the new mode.
func (c *Coordinator) TogglePlaybackMode() PlaybackMode {
	c.mode = c.mode.Toggle()
	log.Debug().Str("mode", c.mode.String()).Msg("Playback mode changed")
	return c.mode
}

// PlayAt points playback at (playlistID, index) and loads the track.
func (c *Coordinator) PlayAt(playlistID string, index int) {
	c.now = NowPlaying{PlaylistID: playlistID, SongIndex: index}
	c.hasNow = true
	c.loadCurrent()
}

func (c *Coordinator) loadCurrent() {
	song, ok := c.Current()
	if !ok {
		return
	}
	c.wantsPlay = true
	if c.player != nil {
		c.player.Load(song.ID)
	}
	log.Debug().Str("id", song.ID).Str("title", song.Title).Msg("Track loaded")
}

// PlayPause toggles a bound, ready player; without one it toggles the local
// intent flag when a current song exists. With no song selected at all it
// adopts the first song of the first non-empty playlist and returns true so
// the caller can surface the now-playing screen.
func (c *Coordinator) PlayPause() (adopted bool) {
	if c.player != nil && c.player.Ready() {
		if c.state == StatePlaying {
			c.player.Pause()
		} else {
			c.player.Play()
		}
		return false
	}

	if _, ok := c.Current(); ok {
		c.wantsPlay = !c.wantsPlay
		return false
	}

	for _, pl := range c.lib.All() {
		if len(pl.Songs) > 0 {
			c.PlayAt(pl.ID, 0)
			return true
		}
	}
	return false
}

// NextTrack advances within the now-playing playlist. Past the end it wraps
// only under RepeatAll, otherwise it stays on the last track.
func (c *Coordinator) NextTrack() {
	np, ok := c.NowPlaying()
	if !ok {
		return
	}
	pl := c.lib.Find(np.PlaylistID)

	next := np.SongIndex + 1
	if next >= len(pl.Songs) {
		if c.repeat != RepeatAll {
			return
		}
		next = 0
	}
	c.now.SongIndex = next
	c.loadCurrent()
}

// PrevTrack restarts the track when more than restartThreshold has elapsed;
// otherwise it steps back one song, wrapping to the last under RepeatAll,
// and restarts the first track when there is nowhere to go.
func (c *Coordinator) PrevTrack() {
	np, ok := c.NowPlaying()
	if !ok {
		return
	}

	if c.player != nil && c.player.Ready() && c.player.CurrentTime() > restartThreshold {
		c.player.Seek(0)
		return
	}

	if np.SongIndex > 0 {
		c.now.SongIndex = np.SongIndex - 1
		c.loadCurrent()
		return
	}

	pl := c.lib.Find(np.PlaylistID)
	if c.repeat == RepeatAll && len(pl.Songs) > 1 {
		c.now.SongIndex = len(pl.Songs) - 1
		c.loadCurrent()
		return
	}

	if c.player != nil {
		c.player.Seek(0)
	}
}

// OnTrackEnded applies the repeat policy when the player reports the end of
// a track.
func (c *Coordinator) OnTrackEnded() {
	np, ok := c.NowPlaying()
	if !ok {
		c.state = StateStopped
		return
	}
	pl := c.lib.Find(np.PlaylistID)

	switch c.repeat {
	case RepeatOne:
		if c.player != nil {
			c.player.Seek(0)
			c.player.Play()
		}
	case RepeatAll:
		c.now.SongIndex = (np.SongIndex + 1) % len(pl.Songs)
		c.loadCurrent()
	default:
		if np.SongIndex+1 < len(pl.Songs) {
			c.now.SongIndex = np.SongIndex + 1
			c.loadCurrent()
			return
		}
		c.state = StateStopped
		c.wantsPlay = false
	}
}

// HandleEvent applies an external player lifecycle event.
func (c *Coordinator) HandleEvent(e Event) {
	switch e {
	case EventReady:
		if c.wantsPlay && c.player != nil {
			c.player.Play()
		}
	case EventPlaying:
		c.state = StatePlaying
	case EventPaused:
		c.state = StatePaused
	case EventEnded:
		c.OnTrackEnded()
	}
}

// SongDeleted fixes up the pointer after a song removal: the pointed-at song
// invalidates the pointer, an earlier song shifts the index down.
func (c *Coordinator) SongDeleted(playlistID string, index int) {
	if !c.hasNow || c.now.PlaylistID != playlistID {
		return
	}
	switch {
	case index == c.now.SongIndex:
		c.Invalidate()
	case index < c.now.SongIndex:
		c.now.SongIndex--
	}
}

// PlaylistDeleted invalidates the pointer when its source playlist is gone.
func (c *Coordinator) PlaylistDeleted(playlistID string) {
	if c.hasNow && c.now.PlaylistID == playlistID {
		c.Invalidate()
	}
}

// Invalidate clears the now-playing pointer and stops playback intent.
func (c *Coordinator) Invalidate() {
	c.hasNow = false
	c.wantsPlay = false
	c.state = StateStopped
	log.Debug().Msg("Now-playing pointer invalidated")
}
