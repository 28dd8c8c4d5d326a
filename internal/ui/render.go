package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/podwheel/podwheel/internal/nav"
	"github.com/podwheel/podwheel/internal/playback"
	"github.com/rivo/tview"
)

// render redraws every widget from the engine's current state. It runs on
// the UI event goroutine after each handled input.
func (ui *UI) render() {
	view := ui.engine.View()

	ui.renderHeader(view)
	ui.renderStatus(view)

	if view.IsInput() {
		ui.renderInput(view)
		ui.pages.SwitchToPage("input")
		ui.app.SetFocus(ui.input)
		return
	}

	ui.pages.SwitchToPage("browse")

	if view == nav.ViewNowPlaying {
		ui.nowPanel.SetText(ui.renderNowPlaying())
		ui.browse.ResizeItem(ui.nowPanel, NowPanelHeight, 0)
	} else {
		ui.browse.ResizeItem(ui.nowPanel, 0, 0)
	}

	ui.renderList()
	ui.app.SetFocus(ui.list)
}

func (ui *UI) renderHeader(view nav.View) {
	title := view.Title()
	if view == nav.ViewPlaylistContents || view == nav.ViewSongMenu {
		if pl := ui.engine.ActivePlaylist(); pl != nil {
			title = pl.Name
		}
	}
	ui.header.SetText("\n" + title)
}

func (ui *UI) renderInput(view nav.View) {
	label := " Link or video id: "
	if view == nav.ViewCreatePlaylist {
		label = " Playlist name: "
	}
	ui.input.SetLabel(label)
	if ui.input.GetText() != ui.engine.Input() {
		ui.input.SetText(ui.engine.Input())
	}
}

func (ui *UI) renderList() {
	ui.list.Clear()
	for _, item := range ui.engine.Items() {
		ui.list.AddItem(itemLabel(item), "", 0, nil)
	}
	if ui.list.GetItemCount() > 0 {
		ui.list.SetCurrentItem(ui.engine.SelectedIndex())
	}
}

// itemLabel decorates a derived item for display.
func itemLabel(item nav.Item) string {
	switch item.Kind {
	case nav.KindAction:
		return " + " + item.Label
	case nav.KindSong:
		return "   " + item.Label
	default:
		return " " + item.Label
	}
}

func (ui *UI) renderNowPlaying() string {
	song, ok := ui.coord.Current()
	if !ok {
		return "\n  Nothing playing"
	}

	var elapsed time.Duration
	if ui.audio != nil {
		elapsed = ui.audio.CurrentTime()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  [%s::b]%s[-:-:-]\n", ui.colors.highlight.String(), tview.Escape(song.Title))
	if np, ok := ui.coord.NowPlaying(); ok {
		if pl := ui.lib.Find(np.PlaylistID); pl != nil {
			fmt.Fprintf(&b, "  %s\n", tview.Escape(pl.Name))
		}
	}
	fmt.Fprintf(&b, "\n  %s  %s\n", ui.coord.State(), formatDuration(elapsed))
	fmt.Fprintf(&b, "  Repeat: %s  Mode: %s\n", ui.coord.Repeat(), ui.coord.Mode())
	return b.String()
}

func (ui *UI) renderStatus(view nav.View) {
	ui.mu.Lock()
	notice := ui.notice
	volume := ui.volume
	ui.mu.Unlock()

	if notice != "" {
		ui.status.SetText(fmt.Sprintf(" [%s]%s[-]", ui.colors.highlight.String(), tview.Escape(notice)))
		return
	}

	parts := []string{stateIndicator(ui.coord.State())}
	if ui.coord.Repeat() != playback.RepeatOff {
		parts = append(parts, "Repeat "+ui.coord.Repeat().String())
	}
	parts = append(parts, fmt.Sprintf("Vol %d%%", volume))
	if view == nav.ViewPlaylistList && (ui.searching || ui.engine.SearchQuery() != "") {
		parts = append(parts, "/"+ui.engine.SearchQuery())
	}

	ui.status.SetText(" " + joinParts(parts))
}

func stateIndicator(s playback.State) string {
	switch s {
	case playback.StatePlaying:
		return "▶ Playing"
	case playback.StatePaused:
		return "⏸ Paused"
	default:
		return "■ Stopped"
	}
}

func joinParts(parts []string) string {
	return strings.Join(parts, " │ ")
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
