package timer

import (
	"fmt"
	"sync"
	"time"
)

// Event is emitted by RoundTimer. Generation identifies the Arm call that
// produced it; events from a cancelled countdown keep their old generation.
type Event struct {
	Generation uint64
	Remaining  int
	Expired    bool
}

// RoundTimer counts down whole seconds for the active round. Ticks are
// scheduled by a time.Ticker; drift is not corrected.
type RoundTimer struct {
	interval time.Duration
	events   chan Event

	mu   sync.Mutex
	gen  uint64
	stop chan struct{}
}

// New creates a timer that ticks every interval (one second in production).
func New(interval time.Duration) *RoundTimer {
	if interval <= 0 {
		interval = time.Second
	}
	return &RoundTimer{
		interval: interval,
		events:   make(chan Event, 4),
	}
}

// Events delivers ticks and expiries. Consumers should drop events for which
// Current returns false.
func (t *RoundTimer) Events() <-chan Event {
	return t.events
}

// Arm cancels any running countdown and starts a new one from seconds.
// Negative values are treated as zero, which expires immediately.
func (t *RoundTimer) Arm(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	t.mu.Lock()
	t.cancelLocked()
	gen := t.gen
	stop := make(chan struct{})
	t.stop = stop
	t.mu.Unlock()

	go t.run(gen, seconds, stop)
}

// Cancel stops the running countdown. It is a no-op when nothing is armed.
func (t *RoundTimer) Cancel() {
	t.mu.Lock()
	t.cancelLocked()
	t.mu.Unlock()
}

// Current reports whether ev belongs to the countdown that is armed right now.
func (t *RoundTimer) Current(ev Event) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil && ev.Generation == t.gen
}

func (t *RoundTimer) cancelLocked() {
	t.gen++
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *RoundTimer) run(gen uint64, remaining int, stop <-chan struct{}) {
	if remaining == 0 {
		t.emit(stop, Event{Generation: gen, Expired: true})
		return
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			remaining--
			if !t.emit(stop, Event{Generation: gen, Remaining: remaining}) {
				return
			}
			if remaining == 0 {
				t.emit(stop, Event{Generation: gen, Expired: true})
				return
			}
		}
	}
}

func (t *RoundTimer) emit(stop <-chan struct{}, ev Event) bool {
	select {
	case t.events <- ev:
		return true
	case <-stop:
		return false
	}
}

// FormatClock renders seconds as MM:SS for countdown displays.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
