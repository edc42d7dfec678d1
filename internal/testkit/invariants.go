// Package testkit holds invariant checks shared by parser tests and fuzz
// harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"hidl/internal/ast"
	"hidl/internal/source"
)

// CheckModuleInvariants runs structural checks on a parsed module:
//  1. mod.Span points into sf and stays within its content;
//  2. every declaration has a non-empty span inside mod.Span and is found
//     again by LookupLocal under its qualified name;
//  3. at most one interface exists and it is top level.
//
// With complete set (the file parsed without errors) it also checks that
// nested declarations and imports lie inside their enclosing spans.
func CheckModuleInvariants(mod *ast.Module, sf *source.File, complete bool) error {
	if mod == nil || sf == nil {
		return fmt.Errorf("nil module or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if mod.Span.File != sf.ID {
		return fmt.Errorf("module span points to different file id: got=%d want=%d", mod.Span.File, sf.ID)
	}
	if mod.Span.Start > mod.Span.End || mod.Span.End > lenContent {
		return fmt.Errorf("module span %v outside content of %d bytes", mod.Span, lenContent)
	}

	ifaces := 0
	for i, decl := range mod.Types() {
		id := ast.TypeID(i + 1) // #nosec G115 -- index of an arena slot
		if decl.Span.Empty() || !within(decl.Span, mod.Span) {
			return fmt.Errorf("%s %q: span %v not inside module %v", decl.Kind, decl.Name, decl.Span, mod.Span)
		}
		qname := mod.QualifiedName(id)
		h, ok := mod.LookupLocal(qname)
		if !ok || h.ID() != id {
			return fmt.Errorf("LookupLocal(%q) does not return declaration %d", qname, id)
		}
		if decl.Kind == ast.TypeInterface {
			ifaces++
			if decl.Parent.IsValid() {
				return fmt.Errorf("interface %q is nested", decl.Name)
			}
		}
		if !decl.Parent.IsValid() {
			continue
		}
		parent := mod.Type(decl.Parent)
		if parent == nil {
			return fmt.Errorf("%q has dangling parent %d", decl.Name, decl.Parent)
		}
		if complete && !within(decl.Span, parent.Span) {
			return fmt.Errorf("%q span %v escapes parent %q span %v", qname, decl.Span, parent.Name, parent.Span)
		}
	}
	if ifaces > 1 {
		return fmt.Errorf("module declares %d interfaces", ifaces)
	}

	if complete {
		for _, imp := range mod.Imports() {
			if imp.Span.Empty() || !within(imp.Span, mod.Span) {
				return fmt.Errorf("import %s: span %v not inside module %v", imp.Name, imp.Span, mod.Span)
			}
		}
	}
	return nil
}

func within(inner, outer source.Span) bool {
	return inner.File == outer.File && inner.Start >= outer.Start && inner.End <= outer.End
}
