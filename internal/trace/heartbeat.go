package trace

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Heartbeat wraps a tracer and, every interval, emits an event naming the
// resolutions still open. A heartbeat that keeps showing the same module
// means its parse or one of its imports never returned.
//
// Heartbeat is itself a Tracer; spans must be opened on it, not on the
// wrapped tracer, for the stack to be seen.
type Heartbeat struct {
	Tracer

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup

	mu      sync.Mutex
	open    openSet
	beats   uint64
	stopped bool
}

// StartHeartbeat starts the ticker goroutine. It returns nil when tracing is
// disabled or interval is not positive.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{Tracer: t, interval: interval, stopCh: make(chan struct{})}
	h.wg.Add(1)
	go h.run()
	return h
}

// Emit forwards ev and tracks resolution spans.
func (h *Heartbeat) Emit(ev *Event) {
	if ev.IsResolution() {
		h.mu.Lock()
		seen := *ev
		h.open.observe(&seen)
		h.mu.Unlock()
	}
	h.Tracer.Emit(ev)
}

// Beat emits one heartbeat now.
func (h *Heartbeat) Beat() {
	h.mu.Lock()
	h.beats++
	n := h.beats
	stack := h.open.stack()
	h.mu.Unlock()

	ev := &Event{
		Time:   time.Now(),
		Seq:    NextSeq(),
		Kind:   KindHeartbeat,
		Scope:  ScopeDriver,
		Name:   "heartbeat",
		Detail: fmt.Sprintf("#%d", n),
		Extra:  map[string]string{"depth": strconv.Itoa(len(stack))},
	}
	if len(stack) > 0 {
		ev.Module = stack[len(stack)-1]
		ev.Extra["stack"] = strings.Join(stack, " > ")
	} else {
		ev.Detail += " idle"
	}
	h.Tracer.Emit(ev)
}

func (h *Heartbeat) run() {
	defer h.wg.Done()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			h.Beat()
		case <-h.stopCh:
			return
		}
	}
}

// Stop ends the ticker goroutine and waits for it. It does not close the
// wrapped tracer.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()
	close(h.stopCh)
	h.wg.Wait()
}
