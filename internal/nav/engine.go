package nav

import (
	"github.com/podwheel/podwheel/internal/library"
	"github.com/podwheel/podwheel/internal/playback"
	"github.com/rs/zerolog/log"
)

// Feedback is the host capability for user cues. The engine requests them
// but does not implement them.
type Feedback interface {
	Tick()             // wheel click cue
	Notify(msg string) // transient notice
}

// Resolver turns free-form user text into a Song, or fails.
type Resolver interface {
	Resolve(text string) (library.Song, error)
}

// Engine owns the current view, the selection index and all transient
// selection context. Every input operation is total: inputs that do not
// apply to the current view are silent no-ops. All methods run on the
// single UI event goroutine.
type Engine struct {
	lib      *library.Library
	coord    *playback.Coordinator
	resolver Resolver
	feedback Feedback

	view  View
	index int

	activePlaylistID string
	stagedSongIndex  int // -1 when nothing staged
	stagedPlaylistID string
	tempSong         *library.Song
	searchQuery      string
	input            string

	onChange func()
}

// New creates an Engine. The initial view is the root menu, or the add-song
// screen when no playlist has any songs yet.
func New(lib *library.Library, coord *playback.Coordinator, resolver Resolver, feedback Feedback) *Engine {
	e := &Engine{
		lib:             lib,
		coord:           coord,
		resolver:        resolver,
		feedback:        feedback,
		stagedSongIndex: -1,
	}
	if lib.HasSongs() {
		e.view = ViewRootMenu
	} else {
		e.view = ViewAddSong
	}
	return e
}

// SetOnChange registers the persistence hook invoked after every library
// mutation.
func (e *Engine) SetOnChange(fn func()) {
	e.onChange = fn
}

func (e *Engine) changed() {
	if e.onChange != nil {
		e.onChange()
	}
}

func (e *Engine) View() View { return e.view }

func (e *Engine) SelectedIndex() int { return e.index }

func (e *Engine) SearchQuery() string { return e.searchQuery }

func (e *Engine) Input() string { return e.input }

// SetInput stores the pending text for the input views.
func (e *Engine) SetInput(text string) {
	e.input = text
}

// SetSearchQuery updates the playlist filter. Replacing the active item set
// resets the selection.
func (e *Engine) SetSearchQuery(query string) {
	e.searchQuery = query
	e.index = 0
}

// ActivePlaylist returns the playlist the user navigated into, or nil.
func (e *Engine) ActivePlaylist() *library.Playlist {
	return e.lib.Find(e.activePlaylistID)
}

// StagedSong returns the song staged for a pending action, if it still
// exists.
func (e *Engine) StagedSong() (library.Song, bool) {
	pl := e.ActivePlaylist()
	if pl == nil || e.stagedSongIndex < 0 || e.stagedSongIndex >= len(pl.Songs) {
		return library.Song{}, false
	}
	return pl.Songs[e.stagedSongIndex], true
}

// setView transitions to v and resets the selection.
func (e *Engine) setView(v View) {
	log.Debug().Str("from", e.view.String()).Str("to", v.String()).Msg("View transition")
	e.view = v
	e.index = 0
}

// toRoot navigates to the root menu, except that an empty library cannot
// display a root menu and routes to the add-song screen instead.
func (e *Engine) toRoot() {
	if e.lib.Count() == 0 {
		e.setView(ViewAddSong)
		return
	}
	e.setView(ViewRootMenu)
}

// Next advances the selection circularly through the current item list.
func (e *Engine) Next() {
	n := len(e.Items())
	if n < 1 {
		n = 1
	}
	e.index = (e.index + 1) % n
	e.feedback.Tick()
}

// Prev retreats the selection circularly through the current item list.
func (e *Engine) Prev() {
	n := len(e.Items())
	if n < 1 {
		n = 1
	}
	e.index = (e.index - 1 + n) % n
	e.feedback.Tick()
}

// Select moves the selection directly to the given item position, for
// pointer input. Out-of-range positions are ignored.
func (e *Engine) Select(i int) {
	if i < 0 || i >= len(e.Items()) {
		return
	}
	e.index = i
}

// selectedItem returns the item under the cursor, if any.
func (e *Engine) selectedItem() (Item, bool) {
	items := e.Items()
	if e.index < 0 || e.index >= len(items) {
		return Item{}, false
	}
	return items[e.index], true
}

// selectSong points the selection at the given song index within the
// playlist-contents list (songs sit after the shuffle pseudo-item).
func (e *Engine) selectSong(songIndex int) {
	for i, item := range e.Items() {
		if item.Kind == KindSong && item.Index == songIndex {
			e.index = i
			return
		}
	}
	e.index = 0
}

// Center activates the highlighted item.
func (e *Engine) Center() {
	switch e.view {
	case ViewRootMenu:
		e.activateRootMenu()
	case ViewPlaylistList:
		e.activatePlaylistList()
	case ViewPlaylistContents:
		e.activatePlaylistContents()
	case ViewSongMenu:
		e.activateSongMenu()
	case ViewAddSong:
		e.submitAddSong()
	case ViewSelectPlaylist:
		e.activateSelectPlaylist()
	case ViewCreatePlaylist:
		e.submitCreatePlaylist()
	case ViewNowPlaying:
		e.activateNowPlaying()
	case ViewDeleteSongConfirm:
		e.confirmDeleteSong()
	case ViewDeletePlaylistConfirm:
		e.confirmDeletePlaylist()
	case ViewShuffleConfirm:
		e.confirmShuffle()
	}
}

func (e *Engine) activateRootMenu() {
	item, ok := e.selectedItem()
	if !ok {
		return
	}
	switch item.ID {
	case ItemBrowse:
		e.searchQuery = ""
		e.setView(ViewPlaylistList)
	case ItemAddSong:
		e.input = ""
		e.setView(ViewAddSong)
	case ItemNowPlaying:
		// Only reachable when a current song exists
		if _, ok := e.coord.Current(); ok {
			e.setView(ViewNowPlaying)
		}
	}
}

func (e *Engine) activatePlaylistList() {
	item, ok := e.selectedItem()
	if !ok {
		return
	}
	if item.Kind == KindAction {
		e.input = ""
		e.setView(ViewCreatePlaylist)
		return
	}
	e.activePlaylistID = item.ID
	e.setView(ViewPlaylistContents)
}

func (e *Engine) activatePlaylistContents() {
	item, ok := e.selectedItem()
	if !ok {
		return
	}
	switch {
	case item.ID == ItemShuffle:
		e.setView(ViewShuffleConfirm)
	case item.ID == ItemDeleteList:
		e.stagedPlaylistID = e.activePlaylistID
		e.setView(ViewDeletePlaylistConfirm)
	case item.Kind == KindSong:
		e.stagedSongIndex = item.Index
		e.setView(ViewSongMenu)
	}
}

func (e *Engine) activateSongMenu() {
	item, ok := e.selectedItem()
	if !ok || item.ID != ItemPlay {
		return
	}
	e.coord.PlayAt(e.activePlaylistID, e.stagedSongIndex)
	e.stagedSongIndex = -1
	e.setView(ViewNowPlaying)
}

func (e *Engine) submitAddSong() {
	song, err := e.resolver.Resolve(e.input)
	if err != nil {
		log.Debug().Err(err).Str("input", e.input).Msg("Media resolution failed")
		e.feedback.Notify("Not a valid YouTube link or video id")
		return
	}
	e.tempSong = &song
	e.input = ""
	e.setView(ViewSelectPlaylist)
}

func (e *Engine) activateSelectPlaylist() {
	item, ok := e.selectedItem()
	if !ok {
		return
	}
	if item.Kind == KindAction {
		e.input = ""
		e.setView(ViewCreatePlaylist)
		return
	}
	if e.tempSong == nil {
		return
	}

	songIndex := e.lib.AppendSong(item.ID, *e.tempSong)
	e.tempSong = nil
	e.activePlaylistID = item.ID
	e.setView(ViewPlaylistContents)
	e.selectSong(songIndex)
	e.changed()
}

func (e *Engine) submitCreatePlaylist() {
	staged := e.tempSong

	var songs []library.Song
	if staged != nil {
		songs = append(songs, *staged)
	}

	id, sortedIndex, ok := e.lib.CreatePlaylist(e.input, songs...)
	if !ok {
		// Empty name after trimming: silent no-op
		return
	}
	e.input = ""

	if staged != nil {
		e.tempSong = nil
		e.activePlaylistID = id
		e.setView(ViewPlaylistContents)
		e.selectSong(0)
	} else {
		e.searchQuery = ""
		e.setView(ViewPlaylistList)
		e.index = sortedIndex
	}
	e.changed()
}

func (e *Engine) activateNowPlaying() {
	item, ok := e.selectedItem()
	if !ok {
		return
	}
	switch item.ID {
	case ItemPrev:
		e.coord.PrevTrack()
	case ItemPlayPause:
		e.coord.PlayPause()
	case ItemNext:
		e.coord.NextTrack()
	case ItemMode:
		e.coord.TogglePlaybackMode()
	case ItemRepeat:
		e.coord.CycleRepeat()
	}
}

func (e *Engine) confirmDeleteSong() {
	item, ok := e.selectedItem()
	if !ok {
		return
	}
	if item.ID == ItemYes {
		e.lib.DeleteSong(e.activePlaylistID, e.stagedSongIndex)
		e.coord.SongDeleted(e.activePlaylistID, e.stagedSongIndex)
		e.changed()
	}
	e.stagedSongIndex = -1
	e.setView(ViewPlaylistContents)
}

func (e *Engine) confirmDeletePlaylist() {
	item, ok := e.selectedItem()
	if !ok {
		return
	}
	if item.ID == ItemYes {
		e.lib.DeletePlaylist(e.stagedPlaylistID)
		e.coord.PlaylistDeleted(e.stagedPlaylistID)
		e.stagedPlaylistID = ""
		e.changed()
		e.setView(ViewPlaylistList)
		return
	}
	e.stagedPlaylistID = ""
	e.setView(ViewPlaylistContents)
}

func (e *Engine) confirmShuffle() {
	item, ok := e.selectedItem()
	if !ok {
		return
	}
	if item.ID == ItemYes {
		e.lib.Shuffle(e.activePlaylistID)
		e.coord.PlayAt(e.activePlaylistID, 0)
		e.changed()
		e.setView(ViewNowPlaying)
		return
	}
	e.setView(ViewPlaylistContents)
}

// CenterLongPress stages the highlighted song for deletion. It is defined
// only for songs on the playlist-contents view; anywhere else it is a
// no-op.
func (e *Engine) CenterLongPress() {
	if e.view != ViewPlaylistContents {
		return
	}
	item, ok := e.selectedItem()
	if !ok || item.Kind != KindSong {
		return
	}
	e.stagedSongIndex = item.Index
	e.setView(ViewDeleteSongConfirm)
}

// Menu navigates back, per-view. A back action that would land on the root
// menu routes to add-song while the library is empty.
func (e *Engine) Menu() {
	switch e.view {
	case ViewPlaylistList:
		e.searchQuery = ""
		e.toRoot()
	case ViewPlaylistContents:
		e.setView(ViewPlaylistList)
	case ViewSongMenu:
		e.stagedSongIndex = -1
		e.setView(ViewPlaylistContents)
	case ViewAddSong:
		e.input = ""
		e.toRoot()
	case ViewSelectPlaylist:
		e.tempSong = nil
		e.setView(ViewAddSong)
	case ViewCreatePlaylist:
		e.input = ""
		if e.tempSong != nil {
			e.setView(ViewSelectPlaylist)
		} else {
			e.setView(ViewPlaylistList)
		}
	case ViewNowPlaying:
		e.toRoot()
	case ViewDeleteSongConfirm:
		e.stagedSongIndex = -1
		e.setView(ViewPlaylistContents)
	case ViewDeletePlaylistConfirm:
		e.stagedPlaylistID = ""
		e.setView(ViewPlaylistContents)
	case ViewShuffleConfirm:
		e.setView(ViewPlaylistContents)
	}
	// Root menu: nothing above it
}

// PlayPause forwards the play/pause button to the coordinator. When the
// coordinator adopts a first song, the now-playing screen is shown.
func (e *Engine) PlayPause() {
	if e.coord.PlayPause() {
		e.setView(ViewNowPlaying)
	}
}
