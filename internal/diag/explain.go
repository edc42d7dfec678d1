package diag

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// codeHelp holds the long form shown by `hidl explain`. Codes without an
// entry fall back to their title.
var codeHelp = map[Code]string{
	SynMissingPackage: "Every .hal file starts with `package <name>@<major>.<minor>;`. " +
		"Without it the file cannot be matched against the module that was requested.",
	SynDuplicateInterface: "A file holds at most one interface. Move the second one into its own `<Name>.hal`.",
	SynNestedInterface:    "Interfaces are top-level declarations; only structs, unions and enums may be nested.",

	ResPackageMismatch: "The file was found at the path computed for the requested module, but its " +
		"`package` line names a different package or version.\n\n" +
		"Paths are `<root>/<package dirs>/<major.minor>/<Name>.hal`, so " +
		"`android.hardware.nfc@1.0::INfc` must live in `nfc/1.0/INfc.hal` under the " +
		"`android.hardware` root and declare `package android.hardware.nfc@1.0;`.",
	ResUnexpectedInterface: "`types.hal` holds the types shared by a package and must not declare an interface.",
	ResInterfaceNameMismatch: "`<Name>.hal` must declare `interface <Name>`. " +
		"Rename the file or the interface so both agree.",
	ResExpectedInterface: "A module other than `types` was requested, but the file declares only types. " +
		"Declare `interface <Name>` or move the types into `types.hal`.",
	ResCircularImport: "Two or more modules import each other. Resolution still succeeds: the module " +
		"reached again is skipped and the chain is reported as a warning.",
	ResImportFailed: "An `import` statement names a module that could not be resolved. " +
		"The note points at the import; the cause is reported separately.",
	ResNoPackageRoot: "No package root prefix occurs in the package name. Add a root with " +
		"`-r <prefix>:<path>` or a `[[root]]` entry in hidl.toml.\n\n" +
		"Roots are tried in the order they were registered and the first match wins.",
	ResMalformedName: "Nothing is left of the package name after removing the root prefix, " +
		"or the name has no version, so no directory can be derived from it.",
	ResFileNotFound: "The computed path does not exist or is not readable. `hidl path <name>` prints the path that was tried.",
	ResTypeNotFound: "A type lookup found neither the named type in its own module nor in the package's `types` module. " +
		"Lookups only consult modules that are already resolved.",

	ProjConfig:      "A configured package root points at a directory that does not exist.",
	ProjImportCycle: "The import graph has a cycle, so no build order exists for the modules on it.",
}

// Explain renders the long description of c as markdown.
func (c Code) Explain() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s: %s\n\n", c.ID(), c.Title())
	if help, ok := codeHelp[c]; ok {
		sb.WriteString(help)
	} else {
		sb.WriteString(c.Title() + ".")
	}
	sb.WriteString("\n")
	return sb.String()
}

// Codes returns every known code in numeric order.
func Codes() []Code {
	out := make([]Code, 0, len(codeDescription))
	for c := range codeDescription {
		if c != UnknownCode {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return out
}

// ParseCode accepts "RES3001", "res3001" or "3001".
func ParseCode(s string) (Code, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	digits := strings.TrimLeft(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	n, err := strconv.ParseUint(digits, 10, 16)
	if err != nil {
		return UnknownCode, false
	}
	c := Code(n)
	if _, ok := codeDescription[c]; !ok || c == UnknownCode {
		return UnknownCode, false
	}
	if digits != s && c.ID() != s {
		return UnknownCode, false
	}
	return c, true
}
