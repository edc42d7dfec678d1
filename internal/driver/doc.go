// Package driver resolves fully-qualified HIDL names to parsed modules.
//
// The Coordinator owns a cache of tri-state entries (in progress, resolved,
// absent) keyed by FQName. Resolve parses a module on first request, pulls in
// its package's types.hal and its explicit imports, and validates that the
// file declares what was asked for. LookupType and ForEachModule only read
// the cache.
//
// Around it: Discover lists every module under the package roots, DiskCache
// and CachingParser keep parse results between runs, BuildImportGraph turns
// the cache into an import DAG.
package driver
