// Package diag defines the diagnostic model shared by the lexer, the parser
// and the module resolver.
//
// Diagnostic is the central record: Severity, Code (stable ID such as
// "RES3001"), Message, Primary span and optional Notes. Spans may be
// location-less (source.NoSpan) when a finding is not tied to a file, for
// example when no package root matches a requested name.
//
// Producers emit through a Reporter; BagReporter collects into a Bag, which
// supports sorting and deduplication. Rendering lives in internal/diagfmt.
package diag
