package playback

import (
	"testing"
	"time"

	"github.com/podwheel/podwheel/internal/library"
)

// fakePlayer records calls and simulates readiness and elapsed time.
type fakePlayer struct {
	ready   bool
	elapsed time.Duration
	loaded  []string
	plays   int
	pauses  int
	seeks   []time.Duration
}

func (f *fakePlayer) Load(videoID string) { f.loaded = append(f.loaded, videoID) }

func (f *fakePlayer) Play() { f.plays++ }

func (f *fakePlayer) Pause() { f.pauses++ }

func (f *fakePlayer) Seek(pos time.Duration) { f.seeks = append(f.seeks, pos) }

func (f *fakePlayer) CurrentTime() time.Duration { return f.elapsed }

func (f *fakePlayer) Ready() bool { return f.ready }

func threeSongLibrary(t *testing.T) (*library.Library, string) {
	t.Helper()
	lib := library.New(nil)
	id, _, _ := lib.CreatePlaylist("Mix",
		library.Song{ID: "s0"}, library.Song{ID: "s1"}, library.Song{ID: "s2"})
	return lib, id
}

func TestRepeatModeCycle(t *testing.T) {
	m := RepeatOff
	if m = m.Next(); m != RepeatAll {
		t.Errorf("off.Next() = %v, want all", m)
	}
	if m = m.Next(); m != RepeatOne {
		t.Errorf("all.Next() = %v, want one", m)
	}
	if m = m.Next(); m != RepeatOff {
		t.Errorf("one.Next() = %v, want off", m)
	}
}

func TestNextTrackStopsAtEndWithRepeatOff(t *testing.T) {
	lib, pid := threeSongLibrary(t)
	c := New(lib, nil)
	c.PlayAt(pid, 2)

	c.NextTrack()

	np, ok := c.NowPlaying()
	if !ok {
		t.Fatal("now-playing pointer lost")
	}
	if np.SongIndex != 2 {
		t.Errorf("index after NextTrack at end = %d, want 2 (stay)", np.SongIndex)
	}
}

func TestNextTrackWrapsWithRepeatAll(t *testing.T) {
	lib, pid := threeSongLibrary(t)
	c := New(lib, nil)
	c.repeat = RepeatAll
	c.PlayAt(pid, 2)

	c.NextTrack()

	np, _ := c.NowPlaying()
	if np.SongIndex != 0 {
		t.Errorf("index after wrapping NextTrack = %d, want 0", np.SongIndex)
	}
}

func TestPrevTrackRestartsAfterThreshold(t *testing.T) {
	lib, pid := threeSongLibrary(t)
	p := &fakePlayer{ready: true, elapsed: 5 * time.Second}
	c := New(lib, p)
	c.PlayAt(pid, 1)

	c.PrevTrack()

	np, _ := c.NowPlaying()
	if np.SongIndex != 1 {
		t.Errorf("index = %d, want 1 (restart, not track change)", np.SongIndex)
	}
	if len(p.seeks) != 1 || p.seeks[0] != 0 {
		t.Errorf("seeks = %v, want one seek to 0", p.seeks)
	}
}

func TestPrevTrackStepsBackEarlyInTrack(t *testing.T) {
	lib, pid := threeSongLibrary(t)
	p := &fakePlayer{ready: true, elapsed: time.Second}
	c := New(lib, p)
	c.PlayAt(pid, 1)

	c.PrevTrack()

	np, _ := c.NowPlaying()
	if np.SongIndex != 0 {
		t.Errorf("index = %d, want 0", np.SongIndex)
	}
}

func TestPrevTrackAtStart(t *testing.T) {
	t.Run("repeat all wraps to last", func(t *testing.T) {
		lib, pid := threeSongLibrary(t)
		c := New(lib, nil)
		c.repeat = RepeatAll
		c.PlayAt(pid, 0)

		c.PrevTrack()

		np, _ := c.NowPlaying()
		if np.SongIndex != 2 {
			t.Errorf("index = %d, want 2", np.SongIndex)
		}
	})

	t.Run("repeat off restarts", func(t *testing.T) {
		lib, pid := threeSongLibrary(t)
		p := &fakePlayer{ready: true}
		c := New(lib, p)
		c.PlayAt(pid, 0)

		c.PrevTrack()

		np, _ := c.NowPlaying()
		if np.SongIndex != 0 {
			t.Errorf("index = %d, want 0", np.SongIndex)
		}
		if len(p.seeks) == 0 {
			t.Error("expected a seek to 0")
		}
	})
}

func TestOnTrackEnded(t *testing.T) {
	t.Run("repeat off stops past last track", func(t *testing.T) {
		lib, pid := threeSongLibrary(t)
		c := New(lib, nil)
		c.PlayAt(pid, 2)
		c.state = StatePlaying

		c.OnTrackEnded()

		if c.State() != StateStopped {
			t.Errorf("state = %v, want stopped", c.State())
		}
		np, ok := c.NowPlaying()
		if !ok || np.SongIndex != 2 {
			t.Errorf("pointer = %+v ok=%v, want index 2 preserved", np, ok)
		}
		if c.IsPlaying() {
			t.Error("IsPlaying() = true after stop")
		}
	})

	t.Run("repeat off advances mid-playlist", func(t *testing.T) {
		lib, pid := threeSongLibrary(t)
		c := New(lib, nil)
		c.PlayAt(pid, 0)

		c.OnTrackEnded()

		np, _ := c.NowPlaying()
		if np.SongIndex != 1 {
			t.Errorf("index = %d, want 1", np.SongIndex)
		}
	})

	t.Run("repeat all wraps", func(t *testing.T) {
		lib, pid := threeSongLibrary(t)
		c := New(lib, nil)
		c.repeat = RepeatAll
		c.PlayAt(pid, 2)

		c.OnTrackEnded()

		np, _ := c.NowPlaying()
		if np.SongIndex != 0 {
			t.Errorf("index = %d, want 0", np.SongIndex)
		}
	})

	t.Run("repeat one replays", func(t *testing.T) {
		lib, pid := threeSongLibrary(t)
		p := &fakePlayer{ready: true}
		c := New(lib, p)
		c.repeat = RepeatOne
		c.PlayAt(pid, 1)
		loadsBefore := len(p.loaded)

		c.OnTrackEnded()

		np, _ := c.NowPlaying()
		if np.SongIndex != 1 {
			t.Errorf("index = %d, want 1", np.SongIndex)
		}
		if len(p.loaded) != loadsBefore {
			t.Error("repeat one should seek, not reload")
		}
		if len(p.seeks) != 1 || p.plays != 1 {
			t.Errorf("seeks=%v plays=%d, want one seek and one play", p.seeks, p.plays)
		}
	})
}

func TestPlayPause(t *testing.T) {
	t.Run("toggles ready player", func(t *testing.T) {
		lib, pid := threeSongLibrary(t)
		p := &fakePlayer{ready: true}
		c := New(lib, p)
		c.PlayAt(pid, 0)
		c.state = StatePlaying

		c.PlayPause()
		if p.pauses != 1 {
			t.Errorf("pauses = %d, want 1", p.pauses)
		}

		c.state = StatePaused
		c.PlayPause()
		if p.plays != 1 {
			t.Errorf("plays = %d, want 1", p.plays)
		}
	})

	t.Run("adopts first song when nothing selected", func(t *testing.T) {
		lib, pid := threeSongLibrary(t)
		c := New(lib, nil)

		if adopted := c.PlayPause(); !adopted {
			t.Fatal("PlayPause() should adopt the first song")
		}
		np, ok := c.NowPlaying()
		if !ok || np.PlaylistID != pid || np.SongIndex != 0 {
			t.Errorf("pointer = %+v ok=%v", np, ok)
		}
	})

	t.Run("no playlists is a no-op", func(t *testing.T) {
		c := New(library.New(nil), nil)
		if adopted := c.PlayPause(); adopted {
			t.Error("PlayPause() adopted a song from an empty library")
		}
	})
}

func TestSongDeletedPointerFixup(t *testing.T) {
	t.Run("deleting the current song invalidates", func(t *testing.T) {
		lib, pid := threeSongLibrary(t)
		c := New(lib, nil)
		c.PlayAt(pid, 1)

		lib.DeleteSong(pid, 1)
		c.SongDeleted(pid, 1)

		if _, ok := c.Current(); ok {
			t.Error("pointer still resolves after its song was deleted")
		}
	})

	t.Run("deleting an earlier song shifts the index", func(t *testing.T) {
		lib, pid := threeSongLibrary(t)
		c := New(lib, nil)
		c.PlayAt(pid, 2)

		lib.DeleteSong(pid, 0)
		c.SongDeleted(pid, 0)

		song, ok := c.Current()
		if !ok {
			t.Fatal("pointer lost")
		}
		if song.ID != "s2" {
			t.Errorf("current song = %q, want s2", song.ID)
		}
	})

	t.Run("other playlists are unaffected", func(t *testing.T) {
		lib, pid := threeSongLibrary(t)
		c := New(lib, nil)
		c.PlayAt(pid, 1)

		c.SongDeleted("other", 1)

		if _, ok := c.Current(); !ok {
			t.Error("pointer invalidated by unrelated delete")
		}
	})
}

func TestPlaylistDeletedInvalidatesPointer(t *testing.T) {
	lib, pid := threeSongLibrary(t)
	c := New(lib, nil)
	c.PlayAt(pid, 0)

	lib.DeletePlaylist(pid)
	c.PlaylistDeleted(pid)

	if _, ok := c.Current(); ok {
		t.Error("pointer resolves after playlist deletion")
	}
	if c.State() != StateStopped {
		t.Errorf("state = %v, want stopped", c.State())
	}
}

func TestHandleEventReadyStartsWantedPlayback(t *testing.T) {
	lib, pid := threeSongLibrary(t)
	p := &fakePlayer{}
	c := New(lib, p)
	c.PlayAt(pid, 0)

	p.ready = true
	c.HandleEvent(EventReady)

	if p.plays != 1 {
		t.Errorf("plays = %d, want 1 after ready", p.plays)
	}

	c.HandleEvent(EventPlaying)
	if c.State() != StatePlaying {
		t.Errorf("state = %v, want playing", c.State())
	}

	c.HandleEvent(EventPaused)
	if c.State() != StatePaused {
		t.Errorf("state = %v, want paused", c.State())
	}
}
