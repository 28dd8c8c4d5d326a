// Package library defines the playlist data model and its mutations.
package library

import (
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Song is a single playable entry. Identity is the ID (an opaque media
// identifier, e.g. a YouTube video id); the title is display-only.
type Song struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Playlist is a named, ordered sequence of songs.
type Playlist struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Songs []Song `json:"songs"`
}

// Library owns the playlist collection. It is the single source of truth:
// every list shown on screen is derived from it on demand. All methods are
// called from the single UI event goroutine.
type Library struct {
	playlists []Playlist
}

// New creates a Library seeded with the given playlists, sorted by name.
func New(playlists []Playlist) *Library {
	lib := &Library{playlists: playlists}
	lib.sortByName()
	return lib
}

func (l *Library) sortByName() {
	sort.SliceStable(l.playlists, func(i, j int) bool {
		return strings.ToLower(l.playlists[i].Name) < strings.ToLower(l.playlists[j].Name)
	})
}

// CreatePlaylist adds a playlist with the trimmed name and the given songs.
// A name that is empty after trimming is a no-op (ok=false). The collection
// is re-sorted case-insensitively; index is the new playlist's sorted
// position.
func (l *Library) CreatePlaylist(name string, songs ...Song) (id string, index int, ok bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", -1, false
	}

	id = uuid.NewString()
	pl := Playlist{ID: id, Name: name, Songs: append([]Song{}, songs...)}
	l.playlists = append(l.playlists, pl)
	l.sortByName()

	log.Debug().Str("name", name).Int("songs", len(songs)).Msg("Playlist created")
	return id, l.IndexOf(id), true
}

// DeletePlaylist removes the playlist with the given id. Unknown ids are
// ignored.
func (l *Library) DeletePlaylist(id string) {
	for i, pl := range l.playlists {
		if pl.ID == id {
			l.playlists = append(l.playlists[:i], l.playlists[i+1:]...)
			log.Debug().Str("name", pl.Name).Msg("Playlist deleted")
			return
		}
	}
}

// Find returns the playlist with the given id, or nil.
func (l *Library) Find(id string) *Playlist {
	for i := range l.playlists {
		if l.playlists[i].ID == id {
			return &l.playlists[i]
		}
	}
	return nil
}

// IndexOf returns the sorted position of the playlist with the given id,
// or -1.
func (l *Library) IndexOf(id string) int {
	for i := range l.playlists {
		if l.playlists[i].ID == id {
			return i
		}
	}
	return -1
}

// Count returns the number of playlists.
func (l *Library) Count() int {
	return len(l.playlists)
}

// All returns the playlists in sorted order.
func (l *Library) All() []Playlist {
	return l.playlists
}

// First returns the first playlist in sorted order, or nil when empty.
func (l *Library) First() *Playlist {
	if len(l.playlists) == 0 {
		return nil
	}
	return &l.playlists[0]
}

// HasSongs reports whether any playlist contains at least one song.
func (l *Library) HasSongs() bool {
	for i := range l.playlists {
		if len(l.playlists[i].Songs) > 0 {
			return true
		}
	}
	return false
}

// Filter returns the playlists whose names contain the query,
// case-insensitively. An empty query matches everything.
func (l *Library) Filter(query string) []Playlist {
	if query == "" {
		return l.playlists
	}
	query = strings.ToLower(query)

	matched := make([]Playlist, 0, len(l.playlists))
	for _, pl := range l.playlists {
		if strings.Contains(strings.ToLower(pl.Name), query) {
			matched = append(matched, pl)
		}
	}
	return matched
}

// AppendSong adds the song to the end of the playlist and returns its index,
// or -1 if the playlist does not exist.
func (l *Library) AppendSong(playlistID string, s Song) int {
	pl := l.Find(playlistID)
	if pl == nil {
		return -1
	}
	pl.Songs = append(pl.Songs, s)
	return len(pl.Songs) - 1
}

// DeleteSong removes the song at the given index. Out-of-range indexes and
// unknown playlists are ignored.
func (l *Library) DeleteSong(playlistID string, index int) {
	pl := l.Find(playlistID)
	if pl == nil || index < 0 || index >= len(pl.Songs) {
		return
	}
	pl.Songs = append(pl.Songs[:index], pl.Songs[index+1:]...)
}

// Shuffle applies a uniform random permutation to the playlist's stored
// song order (Fisher–Yates).
func (l *Library) Shuffle(playlistID string) {
	pl := l.Find(playlistID)
	if pl == nil {
		return
	}
	rand.Shuffle(len(pl.Songs), func(i, j int) {
		pl.Songs[i], pl.Songs[j] = pl.Songs[j], pl.Songs[i]
	})
	log.Debug().Str("name", pl.Name).Msg("Playlist shuffled")
}

// Move relocates the song at from to position to, preserving the relative
// order of all other songs. Invalid positions are ignored.
func (l *Library) Move(playlistID string, from, to int) {
	pl := l.Find(playlistID)
	if pl == nil {
		return
	}
	n := len(pl.Songs)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return
	}

	s := pl.Songs[from]
	pl.Songs = append(pl.Songs[:from], pl.Songs[from+1:]...)
	pl.Songs = append(pl.Songs[:to], append([]Song{s}, pl.Songs[to:]...)...)
}
