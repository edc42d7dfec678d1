package ast

import (
	"hidl/internal/fqname"
	"hidl/internal/source"
)

type TypeKind uint8

const (
	TypeInterface TypeKind = iota
	TypeStruct
	TypeUnion
	TypeSafeUnion
	TypeEnum
	TypeTypedef
)

var typeKindNames = [...]string{
	TypeInterface: "interface",
	TypeStruct:    "struct",
	TypeUnion:     "union",
	TypeSafeUnion: "safe_union",
	TypeEnum:      "enum",
	TypeTypedef:   "typedef",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "unknown"
}

// Type is one named declaration of a module. Nested declarations live in Scope.
type Type struct {
	Kind   TypeKind
	Name   string
	Parent TypeID
	Span   source.Span
	Scope  *Scope

	// Extends is set for interfaces that extend another interface.
	Extends    fqname.FQName
	HasExtends bool
	// Underlying holds the storage type of an enum or the target of a typedef,
	// as written in the source.
	Underlying string
}

// IsScope reports whether declarations may be nested inside this type.
func (t *Type) IsScope() bool {
	switch t.Kind {
	case TypeInterface, TypeStruct, TypeUnion, TypeSafeUnion:
		return true
	}
	return false
}
