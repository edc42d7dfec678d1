package ast

import (
	"hidl/internal/fqname"
	"hidl/internal/source"
)

// Import is an explicit `import` statement. A package import
// (`import android.hardware.nfc@1.0;`) carries an empty local name.
type Import struct {
	Name fqname.FQName
	Span source.Span
}

// IsPackage reports whether the whole package was imported.
func (imp Import) IsPackage() bool {
	return imp.Name.Name() == ""
}

// Target returns the module the import refers to: the named module, or the
// package's types module for package imports.
func (imp Import) Target() fqname.FQName {
	if imp.IsPackage() {
		return imp.Name.TypesSibling()
	}
	return imp.Name.Sibling(imp.Name.TopLevelName())
}
