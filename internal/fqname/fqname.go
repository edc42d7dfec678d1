// Package fqname implements fully-qualified HIDL names of the form
// "android.hardware.nfc@1.0::INfc".
//
// An FQName is a comparable value: it can be used directly as a map key and
// Compare gives a deterministic total order (package, version, name).
package fqname

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TypesName is the local name of the per-package shared types module.
const TypesName = "types"

// ErrInvalidName is returned for names that do not follow the
// "<package>@<major>.<minor>[::<Name>]" grammar.
var ErrInvalidName = errors.New("invalid fully-qualified name")

// Version is a major.minor interface version.
type Version struct {
	Major uint32
	Minor uint32
	set   bool
}

// NewVersion builds a set version.
func NewVersion(major, minor uint32) Version {
	return Version{Major: major, Minor: minor, set: true}
}

// IsSet reports whether the version was specified.
func (v Version) IsSet() bool { return v.set }

// String returns "major.minor" without the '@' marker.
func (v Version) String() string {
	if !v.set {
		return ""
	}
	return strconv.FormatUint(uint64(v.Major), 10) + "." + strconv.FormatUint(uint64(v.Minor), 10)
}

// Tag returns the version with its leading marker, e.g. "@1.0".
func (v Version) Tag() string {
	if !v.set {
		return ""
	}
	return "@" + v.String()
}

// Compare orders versions by major, then minor. Unset versions sort first.
func (v Version) Compare(other Version) int {
	switch {
	case v.set != other.set:
		if !v.set {
			return -1
		}
		return 1
	case v.Major != other.Major:
		if v.Major < other.Major {
			return -1
		}
		return 1
	case v.Minor != other.Minor:
		if v.Minor < other.Minor {
			return -1
		}
		return 1
	}
	return 0
}

// ParseVersion accepts "1.0" or "@1.0".
func ParseVersion(s string) (Version, error) {
	s = strings.TrimPrefix(s, "@")
	majorStr, minorStr, ok := strings.Cut(s, ".")
	if !ok || majorStr == "" || minorStr == "" {
		return Version{}, fmt.Errorf("%w: version %q must be <major>.<minor>", ErrInvalidName, s)
	}
	major, err := strconv.ParseUint(majorStr, 10, 32)
	if err != nil {
		return Version{}, fmt.Errorf("%w: bad major version %q", ErrInvalidName, majorStr)
	}
	minor, err := strconv.ParseUint(minorStr, 10, 32)
	if err != nil {
		return Version{}, fmt.Errorf("%w: bad minor version %q", ErrInvalidName, minorStr)
	}
	return NewVersion(uint32(major), uint32(minor)), nil
}

// FQName is a package, a version and an optional local name.
type FQName struct {
	pkg     string
	version Version
	name    string
}

// New builds a name from already validated parts.
func New(pkg string, version Version, name string) FQName {
	return FQName{pkg: pkg, version: version, name: name}
}

// Parse parses "pkg@maj.min::Name", "pkg@maj.min" or "pkg@maj.min::Outer.Inner".
func Parse(s string) (FQName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FQName{}, fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	head, name, hasName := strings.Cut(s, "::")
	pkg, ver, hasVersion := strings.Cut(head, "@")
	if !hasVersion {
		return FQName{}, fmt.Errorf("%w: %q has no version", ErrInvalidName, s)
	}
	if err := validatePackage(pkg); err != nil {
		return FQName{}, fmt.Errorf("%w: %q: %w", ErrInvalidName, s, err)
	}
	version, err := ParseVersion(ver)
	if err != nil {
		return FQName{}, err
	}
	if hasName {
		if err := validateDotted(name); err != nil {
			return FQName{}, fmt.Errorf("%w: %q: %w", ErrInvalidName, s, err)
		}
	}
	return FQName{pkg: pkg, version: version, name: name}, nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) FQName {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Package returns the dot-separated package, e.g. "android.hardware.nfc".
func (n FQName) Package() string { return n.pkg }

// Version returns the version component.
func (n FQName) Version() Version { return n.version }

// Name returns the local (possibly dotted) name.
func (n FQName) Name() string { return n.name }

// PackageSegments splits the package at dots.
func (n FQName) PackageSegments() []string {
	if n.pkg == "" {
		return nil
	}
	return strings.Split(n.pkg, ".")
}

// IsFullyQualified reports whether package, version and name are all present.
func (n FQName) IsFullyQualified() bool {
	return n.pkg != "" && n.version.set && n.name != ""
}

// IsTypes reports whether the name addresses the package's shared types module.
func (n FQName) IsTypes() bool { return n.name == TypesName }

// TopLevelName returns the local name up to the first dot.
// "Foo.Inner" -> "Foo".
func (n FQName) TopLevelName() string {
	top, _, _ := strings.Cut(n.name, ".")
	return top
}

// Sibling returns a name in the same package and version.
func (n FQName) Sibling(name string) FQName {
	return FQName{pkg: n.pkg, version: n.version, name: name}
}

// TypesSibling returns (package, version, "types").
func (n FQName) TypesSibling() FQName { return n.Sibling(TypesName) }

// PackageAndVersion drops the local name.
func (n FQName) PackageAndVersion() FQName {
	return FQName{pkg: n.pkg, version: n.version}
}

// SamePackage reports whether both names share package and version.
func (n FQName) SamePackage(other FQName) bool {
	return n.pkg == other.pkg && n.version == other.version
}

// String renders the canonical textual form.
func (n FQName) String() string {
	var sb strings.Builder
	sb.WriteString(n.pkg)
	sb.WriteString(n.version.Tag())
	if n.name != "" {
		sb.WriteString("::")
		sb.WriteString(n.name)
	}
	return sb.String()
}

// Compare orders by package, version, then name.
func Compare(a, b FQName) int {
	if c := strings.Compare(a.pkg, b.pkg); c != 0 {
		return c
	}
	if c := a.version.Compare(b.version); c != 0 {
		return c
	}
	return strings.Compare(a.name, b.name)
}

func validatePackage(pkg string) error {
	if pkg == "" {
		return errors.New("empty package")
	}
	return validateDotted(pkg)
}

func validateDotted(s string) error {
	if s == "" {
		return errors.New("empty name")
	}
	for _, seg := range strings.Split(s, ".") {
		if !IsIdentifier(seg) {
			return fmt.Errorf("bad segment %q", seg)
		}
	}
	return nil
}

// IsIdentifier reports whether s is an ASCII identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
