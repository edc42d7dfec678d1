package trace

import "slices"

// openSet follows the resolution spans that have begun and not yet ended.
// Callers hold their own lock.
type openSet struct {
	spans []Event // begin events, outermost first
}

// observe updates the set with ev and stamps ev.Depth: the number of
// resolutions open around it.
func (o *openSet) observe(ev *Event) {
	if !ev.IsResolution() {
		ev.Depth = len(o.spans)
		return
	}
	if ev.Kind == KindSpanBegin {
		ev.Depth = len(o.spans)
		o.spans = append(o.spans, *ev)
		return
	}
	if i := slices.IndexFunc(o.spans, func(b Event) bool { return b.SpanID == ev.SpanID }); i >= 0 {
		o.spans = slices.Delete(o.spans, i, i+1)
	}
	ev.Depth = len(o.spans)
}

// stack lists the open modules, outermost first.
func (o *openSet) stack() []string {
	out := make([]string, len(o.spans))
	for i, b := range o.spans {
		out[i] = b.Module
	}
	return out
}

func (o *openSet) snapshot() []Event {
	return slices.Clone(o.spans)
}
