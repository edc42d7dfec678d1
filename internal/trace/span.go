package trace

import (
	"strings"
	"sync/atomic"
	"time"
)

var (
	globalSeq   atomic.Uint64
	globalSpans atomic.Uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 { return globalSeq.Add(1) }

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 { return globalSpans.Add(1) }

// Span is an open operation. A span of a disabled tracer, or of a scope the
// level filters out, is inert: every method is a no-op and ID is 0.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	scope    Scope
	name     string
	module   string
	path     string
	started  time.Time
	extra    map[string]string
}

// Begin opens a span under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return begin(t, scope, name, "", parent)
}

// BeginModule opens the resolution span of module. Tracers count such spans
// to know the current resolution stack.
func BeginModule(t Tracer, name, module string, parent uint64) *Span {
	return begin(t, ScopeModule, name, module, parent)
}

func begin(t Tracer, scope Scope, name, module string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: Nop}
	}
	s := &Span{
		tracer:   t,
		id:       NextSpanID(),
		parentID: parent,
		scope:    scope,
		name:     name,
		module:   module,
		started:  time.Now(),
	}
	t.Emit(&Event{
		Time:     s.started,
		Seq:      NextSeq(),
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: parent,
		Name:     name,
		Module:   module,
	})
	return s
}

func (s *Span) live() bool {
	return s != nil && s.tracer != nil && s.tracer.Enabled()
}

// At records the file the span works on; it is reported on End.
func (s *Span) At(path string) *Span {
	if s.live() {
		s.path = path
	}
	return s
}

// WithExtra adds a key-value pair to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// End closes the span with an outcome ("resolved", "absent", an error text)
// and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	dur := time.Since(s.started)
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		Name:     s.name,
		Module:   s.module,
		Path:     s.path,
		Elapsed:  dur,
		Detail:   detail,
		Extra:    s.extra,
	})
	return dur
}

// ID returns the span ID.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Cycle records that the resolution of the last module in path reached
// path[0] again while it was still open.
func Cycle(t Tracer, path []string, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(ScopeModule) || len(path) == 0 {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindCycle,
		Scope:    ScopeModule,
		ParentID: parent,
		Name:     "cycle",
		Module:   path[0],
		Detail:   strings.Join(path, " -> "),
	})
}
