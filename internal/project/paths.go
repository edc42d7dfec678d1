package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"hidl/internal/fqname"
)

// Ext is the source file extension.
const Ext = ".hal"

// ErrMalformedName is returned when a name cannot be mapped to a path.
var ErrMalformedName = errors.New("malformed name")

// normalizePrefix делает так, чтобы префикс заканчивался на '.'
func normalizePrefix(prefix string) string {
	if !strings.HasSuffix(prefix, ".") {
		prefix += "."
	}
	return prefix
}

// normalizeRoot делает так, чтобы корень заканчивался на разделитель
func normalizeRoot(root string) string {
	if !strings.HasSuffix(root, string(filepath.Separator)) && !strings.HasSuffix(root, "/") {
		root += string(filepath.Separator)
	}
	return root
}

// packageSuffix strips the entry prefix: "android.hardware.nfc" with prefix
// "android.hardware" -> ["nfc"].
func packageSuffix(name fqname.FQName, e RootEntry) ([]string, error) {
	prefix := normalizePrefix(e.Prefix)
	pkg := name.Package() + "."
	if !strings.HasPrefix(pkg, prefix) {
		return nil, fmt.Errorf("%w: package %q does not start with root prefix %q", ErrMalformedName, name.Package(), e.Prefix)
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(pkg, prefix), ".")
	if rest == "" {
		return nil, fmt.Errorf("%w: package %q equals its root prefix", ErrMalformedName, name.Package())
	}
	segs := strings.Split(rest, ".")
	for _, s := range segs {
		if s == "" {
			return nil, fmt.Errorf("%w: empty package segment in %q", ErrMalformedName, name.Package())
		}
	}
	return segs, nil
}

// PackagePath returns the package directory with a trailing separator:
// "<root>/nfc/1.0/", or "nfc/1.0/" when relative.
func PackagePath(name fqname.FQName, e RootEntry, relative bool) (string, error) {
	segs, err := packageSuffix(name, e)
	if err != nil {
		return "", err
	}
	if !name.Version().IsSet() {
		return "", fmt.Errorf("%w: %s has no version", ErrMalformedName, name)
	}
	var sb strings.Builder
	if !relative {
		sb.WriteString(normalizeRoot(e.Path))
	}
	for _, s := range segs {
		sb.WriteString(s)
		sb.WriteByte(filepath.Separator)
	}
	sb.WriteString(name.Version().String())
	sb.WriteByte(filepath.Separator)
	return sb.String(), nil
}

// ModulePath returns "<root>/<segments>/<major.minor>/<TopLevelName>.hal".
// Only the top-level part of a dotted local name selects the file.
func ModulePath(name fqname.FQName, e RootEntry) (string, error) {
	top := name.TopLevelName()
	if top == "" {
		return "", fmt.Errorf("%w: %s has no local name", ErrMalformedName, name)
	}
	dir, err := PackagePath(name, e, false)
	if err != nil {
		return "", err
	}
	return dir + top + Ext, nil
}

// NameForPath is the inverse of ModulePath: it maps a file under e.Path back
// to its fully-qualified module name.
func NameForPath(e RootEntry, path string) (fqname.FQName, error) {
	rel, err := filepath.Rel(filepath.Clean(e.Path), filepath.Clean(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fqname.FQName{}, fmt.Errorf("%w: %s is outside %s", ErrMalformedName, path, e.Path)
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 3 || !strings.HasSuffix(parts[len(parts)-1], Ext) {
		return fqname.FQName{}, fmt.Errorf("%w: %s is not <package>/<version>/<Name>%s", ErrMalformedName, rel, Ext)
	}
	file := strings.TrimSuffix(parts[len(parts)-1], Ext)
	ver, err := fqname.ParseVersion(parts[len(parts)-2])
	if err != nil {
		return fqname.FQName{}, fmt.Errorf("%w: %s: %w", ErrMalformedName, rel, err)
	}
	pkgSegs := append([]string{strings.TrimSuffix(e.Prefix, ".")}, parts[:len(parts)-2]...)
	return fqname.Parse(strings.Join(pkgSegs, ".") + ver.Tag() + "::" + file)
}
