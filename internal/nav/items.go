package nav

// ItemKind classifies a derived list entry.
type ItemKind int

const (
	KindMenu ItemKind = iota // fixed menu entry
	KindPlaylist
	KindSong
	KindAction // synthetic pseudo-item (create new, shuffle, delete)
)

// Fixed entry identifiers used by the activation tables.
const (
	ItemBrowse     = "browse"
	ItemAddSong    = "add-song"
	ItemNowPlaying = "now-playing"
	ItemCreateNew  = "create-new"
	ItemShuffle    = "shuffle"
	ItemDeleteList = "delete-playlist"
	ItemPlay       = "play"
	ItemNo         = "no"
	ItemYes        = "yes"
	ItemPrev       = "prev"
	ItemPlayPause  = "play-pause"
	ItemNext       = "next"
	ItemMode       = "toggle-mode"
	ItemRepeat     = "cycle-repeat"
)

// Item is one selectable slot in the current view's derived list.
type Item struct {
	Kind  ItemKind
	ID    string // fixed identifier, playlist id, or song id
	Index int    // song index within its playlist, -1 otherwise
	Label string
}

func menuItem(id, label string) Item {
	return Item{Kind: KindMenu, ID: id, Index: -1, Label: label}
}

func actionItem(id, label string) Item {
	return Item{Kind: KindAction, ID: id, Index: -1, Label: label}
}

var confirmItems = []Item{
	menuItem(ItemNo, "No"),
	menuItem(ItemYes, "Yes"),
}

var nowPlayingItems = []Item{
	menuItem(ItemPrev, "Previous"),
	menuItem(ItemPlayPause, "Play/Pause"),
	menuItem(ItemNext, "Next"),
	menuItem(ItemMode, "Audio/Video"),
	menuItem(ItemRepeat, "Repeat"),
}

// Items derives the current view's list from the library and transient
// state. It is recomputed on every read and never cached: the library is
// the single source of truth.
func (e *Engine) Items() []Item {
	switch e.view {
	case ViewRootMenu:
		return []Item{
			menuItem(ItemBrowse, "Playlists"),
			menuItem(ItemAddSong, "Add Song"),
			menuItem(ItemNowPlaying, "Now Playing"),
		}

	case ViewPlaylistList:
		playlists := e.lib.Filter(e.searchQuery)
		items := make([]Item, 0, len(playlists)+1)
		for _, pl := range playlists {
			items = append(items, Item{Kind: KindPlaylist, ID: pl.ID, Index: -1, Label: pl.Name})
		}
		return append(items, actionItem(ItemCreateNew, "Create New Playlist"))

	case ViewPlaylistContents:
		pl := e.lib.Find(e.activePlaylistID)
		if pl == nil {
			return []Item{actionItem(ItemDeleteList, "Delete Playlist")}
		}
		items := make([]Item, 0, len(pl.Songs)+2)
		if len(pl.Songs) > 0 {
			items = append(items, actionItem(ItemShuffle, "Shuffle"))
		}
		for i, s := range pl.Songs {
			items = append(items, Item{Kind: KindSong, ID: s.ID, Index: i, Label: s.Title})
		}
		return append(items, actionItem(ItemDeleteList, "Delete Playlist"))

	case ViewSongMenu:
		return []Item{menuItem(ItemPlay, "Play")}

	case ViewSelectPlaylist:
		playlists := e.lib.All()
		items := make([]Item, 0, len(playlists)+1)
		for _, pl := range playlists {
			items = append(items, Item{Kind: KindPlaylist, ID: pl.ID, Index: -1, Label: pl.Name})
		}
		return append(items, actionItem(ItemCreateNew, "Create New Playlist"))

	case ViewNowPlaying:
		return nowPlayingItems

	case ViewDeleteSongConfirm, ViewDeletePlaylistConfirm, ViewShuffleConfirm:
		return confirmItems

	default:
		// Input views have no selectable list
		return nil
	}
}
