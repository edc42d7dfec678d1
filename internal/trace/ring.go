package trace

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// RingTracer keeps the last N events in memory and, separately, every
// resolution that is still open, so a dump after an interrupted or failed
// run shows where the resolver stood even when the ring has wrapped.
type RingTracer struct {
	mu     sync.Mutex
	events []Event
	head   int
	full   bool
	level  Level
	open   openSet
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	stored := *ev
	t.open.observe(&stored)
	t.events[t.head] = stored
	t.head = (t.head + 1) % len(t.events)
	if t.head == 0 {
		t.full = true
	}
}

// Snapshot returns the stored events in chronological order.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		return append([]Event(nil), t.events[:t.head]...)
	}
	out := make([]Event, 0, len(t.events))
	out = append(out, t.events[t.head:]...)
	return append(out, t.events[:t.head]...)
}

// Open returns the begin events of resolutions that have not ended,
// outermost first.
func (t *RingTracer) Open() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.open.snapshot()
}

// History returns the stored events that concern module: its resolution
// span and the cycles that re-entered it.
func (t *RingTracer) History(module string) []Event {
	var out []Event
	for _, ev := range t.Snapshot() {
		if ev.Module == module {
			out = append(out, ev)
		}
	}
	return out
}

// Dump writes the stored events. In text format a trailing line lists the
// resolutions still open.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	if format == FormatChrome {
		return writeChrome(w, events)
	}
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	if open := t.Open(); len(open) > 0 && format == FormatText {
		mods := make([]string, len(open))
		for i, ev := range open {
			mods[i] = ev.Module
		}
		if _, err := fmt.Fprintf(w, "open: %s\n", strings.Join(mods, " > ")); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }
func (t *RingTracer) Level() Level { return t.level }

func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
