// Package trace records what the module resolver is doing: which module is
// being resolved, which file is parsed, where an import cycle was cut.
//
// Enable tracing from the command line:
//
//	hidl resolve --trace=- --trace-level=detail android.hardware.foo@1.0::IFoo
//
// Resolution spans (BeginModule) carry the module name; tracers count the
// open ones and indent text output by that depth. A RingTracer additionally
// remembers which resolutions are still open, and a Heartbeat periodically
// reports that stack, so a hang or an interrupt points at a module.
//
// Scopes, coarse to fine: ScopeDriver (CLI command), ScopePass (discover,
// resolve-all, graph build), ScopeModule (one module resolution, one root
// walk), ScopeNode (parse of one file).
//
//	span := trace.BeginModule(t, "resolve", name.String(), parentID)
//	defer span.At(path).End("resolved")
package trace
