package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"hidl/internal/fqname"
)

// ErrNoMatchingRoot is returned when no registered prefix occurs in a package.
var ErrNoMatchingRoot = errors.New("no matching package root")

// RootEntry maps a package prefix ("android.hardware") to a source tree.
type RootEntry struct {
	Prefix string
	Path   string
}

// Roots is the ordered package-root registry. It is filled once at startup
// and read-only afterwards.
type Roots struct {
	entries []RootEntry
}

func NewRoots(entries ...RootEntry) *Roots {
	return &Roots{entries: append([]RootEntry(nil), entries...)}
}

// Add appends an entry; registration order decides ties.
func (r *Roots) Add(prefix, path string) error {
	prefix = strings.TrimSpace(prefix)
	path = strings.TrimSpace(path)
	if prefix == "" {
		return ErrRootPrefixMissing
	}
	if path == "" {
		return fmt.Errorf("root %q: %w", prefix, ErrRootPathMissing)
	}
	r.entries = append(r.entries, RootEntry{Prefix: prefix, Path: path})
	return nil
}

// Entries returns the registry in registration order. Read-only.
func (r *Roots) Entries() []RootEntry {
	if r == nil {
		return nil
	}
	return r.entries
}

func (r *Roots) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Find returns the first entry whose prefix occurs in the package of name.
// Several matching entries are not an error: the earliest registered wins.
func (r *Roots) Find(name fqname.FQName) (RootEntry, error) {
	for _, e := range r.Entries() {
		if strings.Contains(name.Package(), e.Prefix) {
			return e, nil
		}
	}
	return RootEntry{}, fmt.Errorf("%w for package %q", ErrNoMatchingRoot, name.Package())
}

// PackageRoot returns the prefix of the entry Find selects.
func (r *Roots) PackageRoot(name fqname.FQName) (string, error) {
	e, err := r.Find(name)
	if err != nil {
		return "", err
	}
	return e.Prefix, nil
}

// ModulePath resolves name to its source file using the registry.
func (r *Roots) ModulePath(name fqname.FQName) (string, error) {
	e, err := r.Find(name)
	if err != nil {
		return "", err
	}
	return ModulePath(name, e)
}

// PackagePath resolves the package directory of name using the registry.
func (r *Roots) PackagePath(name fqname.FQName, relative bool) (string, error) {
	e, err := r.Find(name)
	if err != nil {
		return "", err
	}
	return PackagePath(name, e, relative)
}

// EntryForPath returns the first entry whose tree contains path.
func (r *Roots) EntryForPath(path string) (RootEntry, bool) {
	clean := filepath.Clean(path)
	for _, e := range r.Entries() {
		if pathWithin(filepath.Clean(e.Path), clean) {
			return e, true
		}
	}
	return RootEntry{}, false
}
