package nav

import (
	"sync"
	"time"
)

// DefaultLongPressDelay is how long the center control must be held before
// the press counts as a long press.
const DefaultLongPressDelay = 600 * time.Millisecond

// LongPress disambiguates a click from a long press on a single control.
// Press arms a cancellable timer; releasing before it fires is a click,
// and a fired timer suppresses the click for that gesture. The fire
// callback runs on the timer goroutine and must re-enter the UI event
// loop itself.
type LongPress struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fired bool
	onLP  func()
}

// NewLongPress creates a detector with the given delay (0 means the
// default) firing fn on a long press.
func NewLongPress(delay time.Duration, fn func()) *LongPress {
	if delay <= 0 {
		delay = DefaultLongPressDelay
	}
	return &LongPress{delay: delay, onLP: fn}
}

// Press arms the timer. A second press while armed restarts the gesture.
func (lp *LongPress) Press() {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if lp.timer != nil {
		lp.timer.Stop()
	}
	lp.fired = false
	lp.timer = time.AfterFunc(lp.delay, func() {
		lp.mu.Lock()
		lp.fired = true
		lp.mu.Unlock()
		lp.onLP()
	})
}

// Release ends the gesture and reports whether it was an ordinary click,
// i.e. the timer had not fired. Releasing with no press armed returns
// false.
func (lp *LongPress) Release() (click bool) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if lp.timer == nil {
		return false
	}
	stopped := lp.timer.Stop()
	lp.timer = nil

	// stopped means the timer never ran; fired covers the race where it
	// ran between Stop and taking the lock.
	return stopped && !lp.fired
}

// Cancel abandons the gesture entirely, e.g. when the pointer leaves the
// control before release.
func (lp *LongPress) Cancel() {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if lp.timer != nil {
		lp.timer.Stop()
		lp.timer = nil
	}
	lp.fired = false
}
