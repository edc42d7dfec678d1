package ast

import (
	"errors"
	"fmt"
	"strings"

	"hidl/internal/fqname"
	"hidl/internal/source"
)

var (
	ErrDuplicateDecl      = errors.New("duplicate declaration")
	ErrDuplicateInterface = errors.New("more than one interface")
	ErrNestedInterface    = errors.New("interface must be declared at top level")
	ErrBadParent          = errors.New("parent cannot hold nested declarations")
)

// Module is one parsed .hal file: either one interface plus the types nested
// in it, or only shared types (types.hal).
type Module struct {
	Path string
	File source.FileID
	Span source.Span

	pkg         string
	version     fqname.Version
	packageSpan source.Span
	hasPackage  bool

	imports []Import
	types   *Arena[Type]
	handles []*TypeHandle
	root    *Scope
	iface   TypeID
}

func NewModule(path string, file source.FileID) *Module {
	return &Module{
		Path:  path,
		File:  file,
		Span:  source.FileStart(file),
		types: NewArena[Type](8),
		root:  NewScope(),
	}
}

// SetPackage records the `package` declaration.
func (m *Module) SetPackage(pkg string, version fqname.Version, sp source.Span) {
	m.pkg = pkg
	m.version = version
	m.packageSpan = sp
	m.hasPackage = true
}

func (m *Module) HasPackage() bool { return m.hasPackage }

func (m *Module) Package() string { return m.pkg }

func (m *Module) Version() fqname.Version { return m.version }

func (m *Module) PackageSpan() source.Span { return m.packageSpan }

// PackageName returns "pkg@maj.min" as declared by the file.
func (m *Module) PackageName() fqname.FQName {
	return fqname.New(m.pkg, m.version, "")
}

// Name is the identity the file declares: its interface name, or "types".
func (m *Module) Name() fqname.FQName {
	if name, ok := m.Interface(); ok {
		return fqname.New(m.pkg, m.version, name)
	}
	return fqname.New(m.pkg, m.version, fqname.TypesName)
}

// Interface returns the name of the declared interface, if any.
func (m *Module) Interface() (string, bool) {
	t := m.Type(m.iface)
	if t == nil {
		return "", false
	}
	return t.Name, true
}

func (m *Module) InterfaceID() TypeID { return m.iface }

func (m *Module) AddImport(imp Import) {
	m.imports = append(m.imports, imp)
}

// Imports returns explicit imports in source order. Read-only.
func (m *Module) Imports() []Import { return m.imports }

// Declare adds t under parent (NoTypeID for top level).
func (m *Module) Declare(parent TypeID, t Type) (TypeID, error) {
	scope := m.root
	if parent.IsValid() {
		p := m.Type(parent)
		if p == nil || !p.IsScope() {
			return NoTypeID, fmt.Errorf("%w: %d", ErrBadParent, parent)
		}
		scope = p.Scope
	}
	if t.Kind == TypeInterface {
		if parent.IsValid() {
			return NoTypeID, fmt.Errorf("%w: %s", ErrNestedInterface, t.Name)
		}
		if m.iface.IsValid() {
			return NoTypeID, fmt.Errorf("%w: %s and %s", ErrDuplicateInterface, m.Type(m.iface).Name, t.Name)
		}
	}
	if _, exists := scope.Lookup(t.Name); exists {
		return NoTypeID, fmt.Errorf("%w: %s", ErrDuplicateDecl, m.qualify(parent, t.Name))
	}
	t.Parent = parent
	if t.IsScope() && t.Scope == nil {
		t.Scope = NewScope()
	}
	id := TypeID(m.types.Allocate(t))
	scope.bind(t.Name, id)
	m.handles = append(m.handles, newTypeHandle(m, id))
	if t.Kind == TypeInterface {
		m.iface = id
	}
	return id, nil
}

func (m *Module) Type(id TypeID) *Type {
	return m.types.Get(uint32(id))
}

// Types returns every declaration in declaration order. Read-only.
func (m *Module) Types() []Type {
	return m.types.Slice()
}

// Scope returns the top-level scope.
func (m *Module) Scope() *Scope { return m.root }

// QualifiedName returns the dotted local name of id, e.g. "IFoo.Inner".
func (m *Module) QualifiedName(id TypeID) string {
	t := m.Type(id)
	if t == nil {
		return ""
	}
	return m.qualify(t.Parent, t.Name)
}

func (m *Module) qualify(parent TypeID, name string) string {
	parts := []string{name}
	for p := parent; p.IsValid(); {
		t := m.Type(p)
		if t == nil {
			break
		}
		parts = append(parts, t.Name)
		p = t.Parent
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// LookupLocal resolves a possibly dotted local name ("Foo.Inner") against the
// module's declarations. The returned handle is owned by the module; callers
// that keep it must Clone it.
func (m *Module) LookupLocal(name string) (*TypeHandle, bool) {
	if name == "" {
		return nil, false
	}
	scope := m.root
	var id TypeID
	for seg := range strings.SplitSeq(name, ".") {
		next, ok := scope.Lookup(seg)
		if !ok {
			return nil, false
		}
		id = next
		scope = m.Type(id).Scope
	}
	return m.handles[id-1], true
}

// Release drops the module's own references to its types. Handles cloned by
// other modules keep their types alive.
func (m *Module) Release() {
	for _, h := range m.handles {
		h.Release()
	}
}
