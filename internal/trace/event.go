package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindCycle     // import back-edge cut by the resolver
	KindHeartbeat // periodic liveness signal with the open resolution stack
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindCycle:
		return "cycle"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity level of the event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // CLI command
	ScopePass                    // discover, resolve-all, graph
	ScopeModule                  // one module resolution, one root walk
	ScopeNode                    // parse of one file
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeModule:
		return "module"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event is a single trace record.
//
// Module is set on resolution spans, cycles and heartbeats and names the
// fully-qualified module concerned. Path is the .hal file, once known. Depth
// is the number of resolutions open around the event; tracers fill it in.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string // "resolve", "parse", "walk", ...
	Module   string
	Path     string
	Depth    int
	Elapsed  time.Duration // span end only
	Detail   string
	Extra    map[string]string
}

// IsResolution reports whether ev opens or closes the resolution of a module.
func (ev *Event) IsResolution() bool {
	return ev.Module != "" && (ev.Kind == KindSpanBegin || ev.Kind == KindSpanEnd)
}
