package driver

import (
	"errors"
	"io/fs"
	"strings"

	"hidl/internal/diag"
	"hidl/internal/fqname"
	"hidl/internal/project"
)

// Path configuration errors come from project and are re-exported here so
// callers can match every resolution failure against one package.
var (
	ErrNoMatchingRoot = project.ErrNoMatchingRoot
	ErrMalformedName  = project.ErrMalformedName
)

var (
	ErrCircularImport        = errors.New("circular import")
	ErrPriorFailure          = errors.New("module failed earlier")
	ErrParseFailure          = errors.New("parse failed")
	ErrPackageMismatch       = errors.New("file does not match expected package or version")
	ErrUnexpectedInterface   = errors.New("types file declares an interface")
	ErrInterfaceNameMismatch = errors.New("file does not declare the expected interface")
	ErrExpectedInterface     = errors.New("file declares types instead of an interface")
	ErrNotFound              = errors.New("type not found")
	ErrImportFailure         = errors.New("import failed")
)

// ResolveError is returned by every failing Coordinator operation.
// Kind is one of the sentinels above; Err is the underlying cause, if any.
type ResolveError struct {
	Kind error
	Name fqname.FQName
	Path string
	Err  error
}

func (e *ResolveError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Name.String())
	sb.WriteString(": ")
	// причина, уже содержащая Kind, заменяет его текст, а не повторяет
	detailed := e.Err != nil && e.Kind != nil && errors.Is(e.Err, e.Kind)
	switch {
	case detailed:
		sb.WriteString(e.Err.Error())
	case e.Kind != nil:
		sb.WriteString(e.Kind.Error())
	default:
		sb.WriteString("resolution failed")
	}
	if e.Path != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Path)
		sb.WriteString(")")
	}
	if e.Err != nil && !detailed {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *ResolveError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil && e.Err != e.Kind {
		out = append(out, e.Err)
	}
	return out
}

// KindOf extracts the failure kind from err, or nil.
func KindOf(err error) error {
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Kind
	}
	return nil
}

// DiagCode maps a resolution failure to its diagnostic code. A prior failure
// maps to the code of the original failure.
func DiagCode(err error) diag.Code {
	var re *ResolveError
	for errors.As(err, &re) && re.Kind == ErrPriorFailure && re.Err != nil {
		err = re.Err
	}
	switch KindOf(err) {
	case ErrNoMatchingRoot:
		return diag.ResNoPackageRoot
	case ErrMalformedName:
		return diag.ResMalformedName
	case ErrCircularImport:
		return diag.ResCircularImport
	case ErrParseFailure:
		if errors.Is(err, fs.ErrNotExist) {
			return diag.ResFileNotFound
		}
		return diag.ResParseFailed
	case ErrPackageMismatch:
		return diag.ResPackageMismatch
	case ErrUnexpectedInterface:
		return diag.ResUnexpectedInterface
	case ErrInterfaceNameMismatch:
		return diag.ResInterfaceNameMismatch
	case ErrExpectedInterface:
		return diag.ResExpectedInterface
	case ErrNotFound:
		return diag.ResTypeNotFound
	case ErrImportFailure:
		return diag.ResImportFailed
	}
	return diag.UnknownCode
}
