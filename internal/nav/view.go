// Package nav implements the click-wheel menu navigation engine: the
// current screen, the selection index, and the transition tables that map
// wheel inputs onto data mutations and playback commands.
package nav

// View identifies the current screen. Exactly one is active at a time.
type View int

const (
	ViewRootMenu View = iota
	ViewPlaylistList
	ViewPlaylistContents
	ViewSongMenu
	ViewAddSong
	ViewSelectPlaylist
	ViewCreatePlaylist
	ViewNowPlaying
	ViewDeleteSongConfirm
	ViewDeletePlaylistConfirm
	ViewShuffleConfirm
)

// String returns the view name.
func (v View) String() string {
	switch v {
	case ViewRootMenu:
		return "root-menu"
	case ViewPlaylistList:
		return "playlist-list"
	case ViewPlaylistContents:
		return "playlist-contents"
	case ViewSongMenu:
		return "song-menu"
	case ViewAddSong:
		return "add-song"
	case ViewSelectPlaylist:
		return "select-playlist"
	case ViewCreatePlaylist:
		return "create-playlist"
	case ViewNowPlaying:
		return "now-playing"
	case ViewDeleteSongConfirm:
		return "delete-song-confirm"
	case ViewDeletePlaylistConfirm:
		return "delete-playlist-confirm"
	case ViewShuffleConfirm:
		return "shuffle-confirm"
	default:
		return "unknown"
	}
}

// Title returns the screen heading shown above the item list.
func (v View) Title() string {
	switch v {
	case ViewRootMenu:
		return "PodWheel"
	case ViewPlaylistList:
		return "Playlists"
	case ViewPlaylistContents:
		return "Playlist"
	case ViewSongMenu:
		return "Song"
	case ViewAddSong:
		return "Add Song"
	case ViewSelectPlaylist:
		return "Add to Playlist"
	case ViewCreatePlaylist:
		return "New Playlist"
	case ViewNowPlaying:
		return "Now Playing"
	case ViewDeleteSongConfirm:
		return "Delete Song?"
	case ViewDeletePlaylistConfirm:
		return "Delete Playlist?"
	case ViewShuffleConfirm:
		return "Shuffle?"
	default:
		return ""
	}
}

// IsInput reports whether the view reads free text from the user.
func (v View) IsInput() bool {
	return v == ViewAddSong || v == ViewCreatePlaylist
}
