// Package ui renders the click-wheel interface in the terminal and maps
// keyboard and mouse input onto the navigation engine.
package ui

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/podwheel/podwheel/internal/config"
	"github.com/podwheel/podwheel/internal/library"
	"github.com/podwheel/podwheel/internal/nav"
	"github.com/podwheel/podwheel/internal/playback"
	"github.com/podwheel/podwheel/internal/player"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	VolumeStep             = 5
	HeaderHeight           = 2
	NowPanelHeight         = 7
	NoticeDisplayTime      = 2 * time.Second
	ElapsedRefreshInterval = time.Second
)

type UI struct {
	app    *tview.Application
	engine *nav.Engine
	lib    *library.Library
	coord  *playback.Coordinator
	audio  *player.Player
	cfg    *config.Config

	pages    *tview.Pages
	header   *tview.TextView
	list     *tview.List
	input    *tview.InputField
	nowPanel *tview.TextView
	status   *tview.TextView
	browse   *tview.Flex

	longPress *nav.LongPress
	drag      *nav.Drag

	searching bool

	mu          sync.Mutex
	screen      tcell.Screen
	notice      string
	noticeTimer *time.Timer
	pressIndex  int
	volume      int
	stopUpdates chan struct{}

	colors struct {
		background tcell.Color
		foreground tcell.Color
		borders    tcell.Color
		highlight  tcell.Color
		header     tcell.Color
		statusBar  tcell.Color
		muted      tcell.Color
	}
}

// New builds the UI and its navigation engine. The UI itself serves as the
// engine's feedback sink.
func New(lib *library.Library, coord *playback.Coordinator, resolver nav.Resolver, audio *player.Player, cfg *config.Config) *UI {
	ui := &UI{
		app:         tview.NewApplication(),
		lib:         lib,
		coord:       coord,
		audio:       audio,
		cfg:         cfg,
		pressIndex:  -1,
		volume:      cfg.Volume,
		stopUpdates: make(chan struct{}),
	}

	ui.engine = nav.New(lib, coord, resolver, ui)
	ui.drag = nav.NewDrag(ui.engine)
	ui.longPress = nav.NewLongPress(0, func() {
		ui.app.QueueUpdateDraw(func() {
			ui.engine.CenterLongPress()
			ui.render()
		})
	})

	ui.applyPalette()

	if audio != nil {
		audio.SetVolume(cfg.Volume)
		audio.OnEvent(func(e playback.Event) {
			ui.app.QueueUpdateDraw(func() {
				ui.coord.HandleEvent(e)
				ui.render()
			})
		})
	}
	log.Debug().Msgf("Loaded volume from config: %d%%", cfg.Volume)

	return ui
}

// Engine exposes the navigation engine for wiring persistence hooks.
func (ui *UI) Engine() *nav.Engine {
	return ui.engine
}

func (ui *UI) applyPalette() {
	p := config.PaletteFor(ui.cfg.Theme)
	ui.colors.background = config.GetColor(p.Background)
	ui.colors.foreground = config.GetColor(p.Foreground)
	ui.colors.borders = config.GetColor(p.Borders)
	ui.colors.highlight = config.GetColor(p.Highlight)
	ui.colors.header = config.GetColor(p.Header)
	ui.colors.statusBar = config.GetColor(p.StatusBar)
	ui.colors.muted = config.GetColor(p.Muted)
}

func (ui *UI) SaveConfig() {
	ui.mu.Lock()
	ui.cfg.Volume = ui.volume
	ui.mu.Unlock()

	if err := ui.cfg.Save(); err != nil {
		log.Error().Err(err).Msg("Failed to save config")
	}
}

func (ui *UI) safeCloseChannel() {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	if ui.stopUpdates != nil {
		select {
		case <-ui.stopUpdates:
			// Already closed
		default:
			close(ui.stopUpdates)
		}
		ui.stopUpdates = nil
	}
}

func (ui *UI) stop() {
	if ui.audio != nil {
		ui.audio.Stop()
	}
	ui.SaveConfig()
	ui.safeCloseChannel()
	ui.app.Stop()
}

// Shutdown stops the UI gracefully from external callers (e.g., signal handlers).
func (ui *UI) Shutdown() {
	ui.app.QueueUpdateDraw(func() {
		ui.stop()
	})
}

func (ui *UI) Run() error {
	ui.setupUI()
	ui.configureScreen()
	ui.render()

	go ui.elapsedTickerLoop()

	return ui.app.EnableMouse(true).Run()
}

func (ui *UI) configureScreen() {
	bgStyle := tcell.StyleDefault.Background(ui.colors.background)
	ui.app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		screen.SetStyle(bgStyle)
		screen.Clear()
		return false
	})

	var titleSet sync.Once
	ui.app.SetAfterDrawFunc(func(screen tcell.Screen) {
		ui.mu.Lock()
		ui.screen = screen
		ui.mu.Unlock()
		titleSet.Do(func() { screen.SetTitle(config.AppName) })
	})
}

func (ui *UI) elapsedTickerLoop() {
	ui.mu.Lock()
	stop := ui.stopUpdates
	ui.mu.Unlock()
	if stop == nil {
		return
	}

	ticker := time.NewTicker(ElapsedRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ui.app.QueueUpdateDraw(func() {
				if ui.engine.View() == nav.ViewNowPlaying {
					ui.render()
				}
			})
		}
	}
}

func (ui *UI) setupUI() {
	ui.header = tview.NewTextView()
	ui.header.SetTextAlign(tview.AlignCenter)
	ui.header.SetTextColor(ui.colors.foreground)
	ui.header.SetBackgroundColor(ui.colors.header)

	ui.list = tview.NewList().ShowSecondaryText(false)
	ui.list.SetBackgroundColor(ui.colors.background)
	ui.list.SetMainTextColor(ui.colors.foreground)
	ui.list.SetSelectedTextColor(ui.colors.background)
	ui.list.SetSelectedBackgroundColor(ui.colors.highlight)

	ui.nowPanel = tview.NewTextView()
	ui.nowPanel.SetDynamicColors(true)
	ui.nowPanel.SetTextColor(ui.colors.foreground)
	ui.nowPanel.SetBackgroundColor(ui.colors.background)

	ui.input = tview.NewInputField()
	ui.input.SetFieldBackgroundColor(ui.colors.header)
	ui.input.SetFieldTextColor(ui.colors.foreground)
	ui.input.SetLabelColor(ui.colors.highlight)
	ui.input.SetBackgroundColor(ui.colors.background)
	ui.input.SetChangedFunc(func(text string) {
		ui.engine.SetInput(text)
	})
	ui.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		ui.engine.SetInput(ui.input.GetText())
		ui.engine.Center()
		ui.render()
	})

	ui.status = tview.NewTextView()
	ui.status.SetDynamicColors(true)
	ui.status.SetTextColor(ui.colors.foreground)
	ui.status.SetBackgroundColor(ui.colors.statusBar)

	ui.browse = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.header, HeaderHeight, 0, false).
		AddItem(ui.nowPanel, 0, 0, false).
		AddItem(ui.list, 0, 1, true)
	ui.browse.SetBackgroundColor(ui.colors.background)

	inputLayout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.header, HeaderHeight, 0, false).
		AddItem(nil, 1, 0, false).
		AddItem(ui.input, 1, 0, true).
		AddItem(nil, 0, 1, false)
	inputLayout.SetBackgroundColor(ui.colors.background)

	ui.pages = tview.NewPages().
		AddPage("browse", ui.browse, true, true).
		AddPage("input", inputLayout, true, false)
	ui.pages.SetBackgroundColor(ui.colors.background)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.pages, 0, 1, true).
		AddItem(ui.status, 1, 0, false)
	layout.SetBackgroundColor(ui.colors.background)

	ui.app.SetRoot(layout, true)
	ui.app.SetInputCapture(ui.globalInputHandler)
	ui.app.SetMouseCapture(ui.handleMouse)
}

func (ui *UI) globalInputHandler(event *tcell.EventKey) *tcell.EventKey {
	if ui.engine.View().IsInput() {
		// The input field owns everything except Escape
		if event.Key() == tcell.KeyEscape {
			ui.engine.Menu()
			ui.render()
			return nil
		}
		return event
	}

	if ui.searching && ui.engine.View() != nav.ViewPlaylistList {
		ui.searching = false
	}
	if ui.searching {
		return ui.searchInputHandler(event)
	}

	switch event.Key() {
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q', 'Q':
			ui.stop()
			return nil
		case 'j':
			ui.engine.Next()
			ui.render()
			return nil
		case 'k':
			ui.engine.Prev()
			ui.render()
			return nil
		case ' ':
			ui.engine.PlayPause()
			ui.render()
			return nil
		case 'd', 'D':
			// Keyboard stand-in for holding the center control
			ui.engine.CenterLongPress()
			ui.render()
			return nil
		case 't', 'T':
			ui.toggleTheme()
			return nil
		case '+', '=':
			ui.adjustVolume(VolumeStep)
			return nil
		case '-', '_':
			ui.adjustVolume(-VolumeStep)
			return nil
		case '/':
			if ui.engine.View() == nav.ViewPlaylistList {
				ui.searching = true
				ui.render()
				return nil
			}
		}
	case tcell.KeyDown:
		ui.engine.Next()
		ui.render()
		return nil
	case tcell.KeyUp:
		ui.engine.Prev()
		ui.render()
		return nil
	case tcell.KeyEnter:
		ui.engine.Center()
		ui.render()
		return nil
	case tcell.KeyEscape:
		ui.engine.Menu()
		ui.render()
		return nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ui.engine.Menu()
		ui.render()
		return nil
	}
	return event
}

// searchInputHandler edits the playlist filter while search mode is active.
func (ui *UI) searchInputHandler(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyRune:
		ui.engine.SetSearchQuery(ui.engine.SearchQuery() + string(event.Rune()))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if q := ui.engine.SearchQuery(); q != "" {
			ui.engine.SetSearchQuery(q[:len(q)-1])
		}
	case tcell.KeyEscape:
		ui.searching = false
		ui.engine.SetSearchQuery("")
	case tcell.KeyEnter:
		// Keep the filter, hand the wheel back
		ui.searching = false
	case tcell.KeyDown:
		ui.engine.Next()
	case tcell.KeyUp:
		ui.engine.Prev()
	default:
		return event
	}
	ui.render()
	return nil
}

func (ui *UI) toggleTheme() {
	theme := ui.cfg.ToggleTheme()
	ui.applyPalette()
	ui.setupUI()
	ui.configureScreen()
	ui.render()
	ui.SaveConfig()
	log.Debug().Str("theme", theme).Msg("Theme toggled")
}

func (ui *UI) adjustVolume(delta int) {
	ui.mu.Lock()
	ui.volume = config.ClampVolume(ui.volume + delta)
	volume := ui.volume
	ui.mu.Unlock()

	if ui.audio != nil {
		ui.audio.SetVolume(volume)
	}
	ui.render()
	ui.SaveConfig()
	log.Debug().Msgf("Volume adjusted to %d%%", volume)
}

// Tick implements nav.Feedback: an audible cue per wheel step.
func (ui *UI) Tick() {
	ui.mu.Lock()
	screen := ui.screen
	ui.mu.Unlock()

	if screen != nil {
		screen.Beep()
	}
}

// Notify implements nav.Feedback: a transient status line notice.
func (ui *UI) Notify(msg string) {
	ui.mu.Lock()
	ui.notice = msg
	if ui.noticeTimer != nil {
		ui.noticeTimer.Stop()
	}
	ui.noticeTimer = time.AfterFunc(NoticeDisplayTime, func() {
		ui.mu.Lock()
		ui.notice = ""
		ui.mu.Unlock()
		ui.app.QueueUpdateDraw(func() {
			ui.render()
		})
	})
	ui.mu.Unlock()
}

// listIndexAt maps screen coordinates to an item-list position.
func (ui *UI) listIndexAt(x, y int) (int, bool) {
	rectX, rectY, width, height := ui.list.GetInnerRect()
	if x < rectX || x >= rectX+width || y < rectY || y >= rectY+height {
		return -1, false
	}

	offset, _ := ui.list.GetOffset()
	idx := y - rectY + offset
	if idx < 0 || idx >= len(ui.engine.Items()) {
		return -1, false
	}
	return idx, true
}

func (ui *UI) handleMouse(event *tcell.EventMouse, action tview.MouseAction) (*tcell.EventMouse, tview.MouseAction) {
	if ui.engine.View().IsInput() {
		return event, action
	}

	switch action {
	case tview.MouseScrollUp:
		ui.engine.Prev()
		ui.render()
		return nil, action

	case tview.MouseScrollDown:
		ui.engine.Next()
		ui.render()
		return nil, action

	case tview.MouseLeftDown:
		if idx, ok := ui.listIndexAt(event.Position()); ok {
			ui.engine.Select(idx)
			ui.pressIndex = idx
			ui.longPress.Press()
			ui.render()
		}
		return nil, action

	case tview.MouseMove:
		if event.Buttons()&tcell.Button1 == 0 {
			return event, action
		}
		idx, ok := ui.listIndexAt(event.Position())
		if !ok {
			return nil, action
		}
		items := ui.engine.Items()

		if !ui.drag.Active() {
			if idx == ui.pressIndex {
				return nil, action
			}
			if ui.pressIndex < 0 || ui.pressIndex >= len(items) || items[ui.pressIndex].Kind != nav.KindSong {
				return nil, action
			}
			// Press turned into a drag: the hold no longer counts
			ui.longPress.Cancel()
			ui.drag.Start(items[ui.pressIndex].Index)
		}

		if idx < len(items) && items[idx].Kind == nav.KindSong {
			ui.drag.Enter(items[idx].Index)
			ui.engine.Select(idx)
			ui.pressIndex = idx
			ui.render()
		}
		return nil, action

	case tview.MouseLeftUp:
		if ui.drag.Active() {
			ui.drag.End()
			ui.pressIndex = -1
			ui.render()
			return nil, action
		}
		click := ui.longPress.Release()
		ui.pressIndex = -1
		if click {
			ui.engine.Center()
		}
		ui.render()
		return nil, action
	}

	return event, action
}
