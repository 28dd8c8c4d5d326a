package nav

// Drag tracks an in-progress drag-to-reorder gesture on the active
// playlist. Each Enter moves the dragged song to the hovered position and
// the dragged index follows it, so the list reorders continuously under
// the pointer. End always clears the gesture, whether or not any move
// happened.
type Drag struct {
	engine  *Engine
	active  bool
	moved   bool
	current int // song index the dragged song currently occupies
}

// NewDrag creates a drag tracker bound to the engine.
func NewDrag(e *Engine) *Drag {
	return &Drag{engine: e, current: -1}
}

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool { return d.active }

// Current returns the dragged song's current index, or -1.
func (d *Drag) Current() int {
	if !d.active {
		return -1
	}
	return d.current
}

// Start begins dragging the song at the given index. Out-of-range indexes
// are ignored.
func (d *Drag) Start(songIndex int) {
	pl := d.engine.ActivePlaylist()
	if pl == nil || songIndex < 0 || songIndex >= len(pl.Songs) {
		return
	}
	d.active = true
	d.current = songIndex
}

// Enter moves the dragged song to the hovered position. Usable
// incrementally: the dragged index is updated to the new position.
func (d *Drag) Enter(target int) {
	if !d.active || target == d.current {
		return
	}
	pl := d.engine.ActivePlaylist()
	if pl == nil || target < 0 || target >= len(pl.Songs) {
		return
	}

	d.engine.lib.Move(pl.ID, d.current, target)
	d.current = target
	d.moved = true
}

// End finalizes the gesture. Drag state is always cleared; the reordered
// playlist is persisted only if a move actually happened.
func (d *Drag) End() {
	moved := d.moved
	d.active = false
	d.moved = false
	d.current = -1
	if moved {
		d.engine.changed()
	}
}
