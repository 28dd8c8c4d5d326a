package nav

import (
	"testing"
)

func songOrder(t *testing.T, e *Engine) []string {
	t.Helper()
	pl := e.ActivePlaylist()
	if pl == nil {
		t.Fatal("no active playlist")
	}
	ids := make([]string, len(pl.Songs))
	for i, s := range pl.Songs {
		ids[i] = s.ID
	}
	return ids
}

func newDragEngine(t *testing.T) *Engine {
	e, _, _, _ := newTestEngine(t, withSongs("Mix", "s0", "s1", "s2", "s3"))
	e.activePlaylistID = "pl-Mix"
	e.setView(ViewPlaylistContents)
	return e
}

func TestDragReorder(t *testing.T) {
	e := newDragEngine(t)
	d := NewDrag(e)

	// Drag song 0 down to position 2
	d.Start(0)
	d.Enter(1)
	d.Enter(2)
	d.End()

	got := songOrder(t, e)
	want := []string{"s1", "s2", "s0", "s3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestDragIndexFollowsSong(t *testing.T) {
	e := newDragEngine(t)
	d := NewDrag(e)

	d.Start(3)
	d.Enter(1)

	if d.Current() != 1 {
		t.Errorf("Current() = %d, want 1", d.Current())
	}
	got := songOrder(t, e)
	want := []string{"s0", "s3", "s1", "s2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestDragEndAlwaysClears(t *testing.T) {
	e := newDragEngine(t)
	d := NewDrag(e)

	d.Start(1)
	d.End()

	if d.Active() {
		t.Error("drag still active after End")
	}
	if d.Current() != -1 {
		t.Errorf("Current() = %d, want -1", d.Current())
	}
}

func TestDragPersistsOnlyWhenMoved(t *testing.T) {
	e := newDragEngine(t)
	saves := 0
	e.SetOnChange(func() { saves++ })
	d := NewDrag(e)

	d.Start(1)
	d.End()
	if saves != 0 {
		t.Errorf("saves = %d after no-move drag, want 0", saves)
	}

	d.Start(1)
	d.Enter(2)
	d.End()
	if saves != 1 {
		t.Errorf("saves = %d after real move, want 1", saves)
	}
}

func TestDragIgnoresInvalidTargets(t *testing.T) {
	e := newDragEngine(t)
	d := NewDrag(e)

	d.Start(0)
	d.Enter(-1)
	d.Enter(99)

	if d.Current() != 0 {
		t.Errorf("Current() = %d, want 0 (invalid targets ignored)", d.Current())
	}

	d.End()
	d.Enter(2) // no active drag
	got := songOrder(t, e)
	if got[0] != "s0" {
		t.Errorf("order changed by Enter without active drag: %v", got)
	}
}

func TestDragStartOutOfRange(t *testing.T) {
	e := newDragEngine(t)
	d := NewDrag(e)

	d.Start(-1)
	if d.Active() {
		t.Error("drag active after out-of-range Start")
	}
	d.Start(4)
	if d.Active() {
		t.Error("drag active after out-of-range Start")
	}
}
