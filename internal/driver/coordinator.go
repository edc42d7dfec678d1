package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"hidl/internal/ast"
	"hidl/internal/diag"
	"hidl/internal/fqname"
	"hidl/internal/project"
	"hidl/internal/source"
	"hidl/internal/trace"
)

// State is the lifecycle of a cache entry. Entries move from InProgress to
// Resolved or Absent exactly once.
type State uint8

const (
	StateUnknown State = iota
	StateInProgress
	StateResolved
	StateAbsent
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in-progress"
	case StateResolved:
		return "resolved"
	case StateAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

type entry struct {
	state    State
	module   *ast.Module
	path     string
	err      error           // причина для Absent
	parsed   *ast.Module     // проверен, импорты ещё разрешаются (InProgress)
	partners []fqname.FQName // модули, с которыми замкнулся цикл
}

// Options configures optional sinks of a Coordinator. Zero value is valid.
type Options struct {
	Reporter diag.Reporter
	Observer Observer
	Tracer   trace.Tracer
}

// Coordinator resolves fully-qualified HIDL names to parsed modules and keeps
// every module it produced. It is not safe for concurrent use.
type Coordinator struct {
	roots  *project.Roots
	parser Parser
	opts   Options

	entries map[fqname.FQName]*entry
	order   []fqname.FQName
	stack   []fqname.FQName
	spans   []uint64
	cycles  [][]fqname.FQName
}

func NewCoordinator(roots *project.Roots, parser Parser, opts Options) *Coordinator {
	if roots == nil {
		roots = project.NewRoots()
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	return &Coordinator{
		roots:   roots,
		parser:  parser,
		opts:    opts,
		entries: make(map[fqname.FQName]*entry),
	}
}

func (c *Coordinator) Roots() *project.Roots { return c.roots }

// request describes who asked for a module.
type request struct {
	implicit bool        // неявный импорт types: ошибки не сообщаются
	site     source.Span // место импорта
}

func topLevel() request { return request{site: source.NoSpan} }

// Resolve returns the module for name, parsing it (and its imports) on first
// request. Later requests return the cached outcome: the same module, or
// ErrPriorFailure wrapping the first failure. A request that reaches a module
// still being resolved fails with ErrCircularImport without touching its entry.
func (c *Coordinator) Resolve(name fqname.FQName) (*ast.Module, error) {
	return c.resolve(name, topLevel())
}

func (c *Coordinator) resolve(name fqname.FQName, req request) (*ast.Module, error) {
	if !name.IsFullyQualified() {
		return nil, &ResolveError{
			Kind: ErrMalformedName,
			Name: name,
			Err:  fmt.Errorf("%q is not fully qualified", name.String()),
		}
	}
	if e, ok := c.entries[name]; ok {
		return c.existing(name, e, req)
	}

	// Запись появляется до любой рекурсии: так обнаруживаются циклы.
	e := &entry{state: StateInProgress}
	c.entries[name] = e
	c.order = append(c.order, name)

	span := trace.BeginModule(c.opts.Tracer, "resolve", name.String(), c.parentSpan())
	c.emit(Event{Name: name, Status: StatusStarted, Depth: len(c.stack)})
	c.stack = append(c.stack, name)
	c.spans = append(c.spans, span.ID())

	mod, err := c.load(name, e, req)
	e.parsed = nil

	c.stack = c.stack[:len(c.stack)-1]
	c.spans = c.spans[:len(c.spans)-1]

	if err != nil {
		e.state = StateAbsent
		e.err = err
		span.At(e.path).End(StateAbsent.String())
		c.emit(Event{Name: name, Path: e.path, Status: StatusFailed, Depth: len(c.stack), Err: err})
		return nil, err
	}
	e.state = StateResolved
	e.module = mod
	span.At(e.path).End(StateResolved.String())
	c.emit(Event{Name: name, Path: e.path, Status: StatusResolved, Depth: len(c.stack)})
	return mod, nil
}

func (c *Coordinator) existing(name fqname.FQName, e *entry, req request) (*ast.Module, error) {
	switch e.state {
	case StateResolved:
		c.emit(Event{Name: name, Path: e.path, Status: StatusCached, Depth: len(c.stack)})
		return e.module, nil
	case StateInProgress:
		c.observeCycle(name, req)
		return nil, &ResolveError{Kind: ErrCircularImport, Name: name, Path: e.path}
	default:
		err := &ResolveError{Kind: ErrPriorFailure, Name: name, Path: e.path, Err: e.err}
		c.emit(Event{Name: name, Path: e.path, Status: StatusCached, Depth: len(c.stack), Err: err})
		return nil, err
	}
}

// load runs the resolution steps for a fresh entry.
func (c *Coordinator) load(name fqname.FQName, e *entry, req request) (*ast.Module, error) {
	if !name.IsTypes() {
		// Любой интерфейс неявно импортирует types.hal своего пакета;
		// types.hal может отсутствовать, поэтому ошибка игнорируется.
		_, _ = c.resolve(name.TypesSibling(), request{implicit: true, site: req.site})
	}

	root, err := c.roots.Find(name)
	if err != nil {
		if !req.implicit {
			diag.ReportError(c.opts.Reporter, diag.ResNoPackageRoot, req.site,
				fmt.Sprintf("no package root matches %s", name.Package())).Emit()
		}
		return nil, &ResolveError{Kind: ErrNoMatchingRoot, Name: name, Err: err}
	}
	path, err := project.ModulePath(name, root)
	if err != nil {
		if !req.implicit {
			diag.ReportError(c.opts.Reporter, diag.ResMalformedName, req.site,
				fmt.Sprintf("cannot map %s onto root %q", name, root.Prefix)).Emit()
		}
		return nil, &ResolveError{Kind: ErrMalformedName, Name: name, Err: err}
	}
	e.path = path

	mod, err := c.parse(path)
	if err != nil {
		if !req.implicit && errors.Is(err, fs.ErrNotExist) {
			diag.ReportError(c.opts.Reporter, diag.ResFileNotFound, req.site,
				fmt.Sprintf("cannot find %s: no file at %q", name, path)).Emit()
		}
		return nil, &ResolveError{Kind: ErrParseFailure, Name: name, Path: path, Err: err}
	}
	if err := c.validate(name, path, mod); err != nil {
		mod.Release()
		return nil, err
	}
	e.parsed = mod
	if err := c.resolveImports(name, mod); err != nil {
		mod.Release()
		return nil, err
	}
	return mod, nil
}

func (c *Coordinator) parse(path string) (*ast.Module, error) {
	if c.parser == nil {
		return nil, errors.New("no parser configured")
	}
	span := trace.Begin(c.opts.Tracer, trace.ScopeNode, "parse", c.parentSpan()).At(path)
	mod, err := c.parser.Parse(path)
	if err == nil && mod == nil {
		err = errors.New("parser returned no module")
	}
	if err != nil {
		span.End(err.Error())
		return nil, err
	}
	span.End("")
	return mod, nil
}

// validate checks that the file declares the identity it was requested as.
func (c *Coordinator) validate(name fqname.FQName, path string, mod *ast.Module) error {
	fail := func(kind error, code diag.Code, sp source.Span, msg string) error {
		diag.ReportError(c.opts.Reporter, code, sp, msg).Emit()
		return &ResolveError{Kind: kind, Name: name, Path: path}
	}

	if mod.Package() != name.Package() || mod.Version() != name.Version() {
		sp := mod.PackageSpan()
		if !mod.HasPackage() {
			sp = mod.Span
		}
		return fail(ErrPackageMismatch, diag.ResPackageMismatch, sp,
			fmt.Sprintf("file at %q declares package %s, expected %s",
				path, mod.PackageName(), name.PackageAndVersion()))
	}

	iface, isIface := mod.Interface()
	var ifaceSpan source.Span
	if isIface {
		ifaceSpan = mod.Type(mod.InterfaceID()).Span
	}
	switch {
	case isIface && name.IsTypes():
		return fail(ErrUnexpectedInterface, diag.ResUnexpectedInterface, ifaceSpan,
			fmt.Sprintf("file at %q declares an interface %q instead of the types common to the package", path, iface))
	case isIface && iface != name.Name():
		return fail(ErrInterfaceNameMismatch, diag.ResInterfaceNameMismatch, ifaceSpan,
			fmt.Sprintf("file at %q does not declare interface type %q", path, name.Name()))
	case !isIface && !name.IsTypes():
		return fail(ErrExpectedInterface, diag.ResExpectedInterface, mod.Span,
			fmt.Sprintf("file at %q declares types rather than the expected interface type %q", path, name.Name()))
	}
	return nil
}

// resolveImports resolves the explicit imports of mod. Package imports and
// import cycles are tolerated; any other failure fails the importer.
func (c *Coordinator) resolveImports(name fqname.FQName, mod *ast.Module) error {
	for _, imp := range mod.Imports() {
		target := imp.Target()
		if target == name {
			continue
		}
		if imp.IsPackage() {
			_, _ = c.resolve(target, request{implicit: true, site: imp.Span})
			continue
		}
		switch c.declaredInTypes(name, mod, imp.Name) {
		case inTypes:
			continue
		case inPendingTypes:
			// types.hal выше по стеку: это обратное ребро, а не файл Name.hal
			c.observeCycle(imp.Name.TypesSibling(), request{site: imp.Span})
			continue
		}
		_, err := c.resolve(target, request{site: imp.Span})
		if err == nil || errors.Is(err, ErrCircularImport) {
			continue
		}
		diag.ReportError(c.opts.Reporter, diag.ResImportFailed, imp.Span,
			fmt.Sprintf("cannot import %s", imp.Name)).
			WithNote(mod.Span, err.Error()).
			Emit()
		return &ResolveError{Kind: ErrImportFailure, Name: name, Path: mod.Path, Err: err}
	}
	return nil
}

type typesDecl uint8

const (
	notInTypes typesDecl = iota
	inTypes
	inPendingTypes // объявлено в types.hal, который ещё разрешается
)

// declaredInTypes reports whether imported names a declaration of its
// package's types module. A types module still being resolved is searched
// too: its file is already parsed and validated.
func (c *Coordinator) declaredInTypes(self fqname.FQName, mod *ast.Module, imported fqname.FQName) typesDecl {
	typesName := imported.TypesSibling()
	var (
		types   *ast.Module
		pending bool
	)
	if typesName == self {
		types = mod
	} else if e, ok := c.entries[typesName]; ok {
		switch e.state {
		case StateResolved:
			types = e.module
		case StateInProgress:
			types, pending = e.parsed, true
		}
	} else {
		types, _ = c.resolve(typesName, request{implicit: true, site: source.NoSpan})
	}
	if types == nil {
		return notInTypes
	}
	if _, ok := types.LookupLocal(imported.Name()); !ok {
		return notInTypes
	}
	if pending {
		return inPendingTypes
	}
	return inTypes
}

func (c *Coordinator) observeCycle(name fqname.FQName, req request) {
	start := slices.Index(c.stack, name)
	if start < 0 {
		start = len(c.stack)
	}
	cycle := append(slices.Clone(c.stack[start:]), name)
	if !slices.ContainsFunc(c.cycles, func(cy []fqname.FQName) bool { return slices.Equal(cy, cycle) }) {
		c.cycles = append(c.cycles, cycle)
	}

	if len(c.stack) > 0 {
		from := c.stack[len(c.stack)-1]
		c.addPartner(from, name)
		c.addPartner(name, from)
	}

	parts := make([]string, len(cycle))
	for i, n := range cycle {
		parts[i] = n.String()
	}
	trace.Cycle(c.opts.Tracer, parts, c.parentSpan())
	c.emit(Event{Name: name, Status: StatusCycle, Depth: len(c.stack), Err: ErrCircularImport})
	if !req.implicit {
		diag.ReportWarning(c.opts.Reporter, diag.ResCircularImport, req.site,
			fmt.Sprintf("circular import: %s", strings.Join(parts, " -> "))).Emit()
	}
}

func (c *Coordinator) addPartner(name, partner fqname.FQName) {
	e, ok := c.entries[name]
	if !ok || name == partner || slices.Contains(e.partners, partner) {
		return
	}
	e.partners = append(e.partners, partner)
}

func (c *Coordinator) parentSpan() uint64 {
	if len(c.spans) == 0 {
		return 0
	}
	return c.spans[len(c.spans)-1]
}

func (c *Coordinator) emit(ev Event) {
	if c.opts.Observer != nil {
		c.opts.Observer(ev)
	}
}

// LookupType finds a type by fully-qualified name among modules that are
// already resolved: first in the module named by the top-level name, then in
// the package's types module. It never parses and never changes the cache.
// The caller owns the returned handle and must Release it.
func (c *Coordinator) LookupType(name fqname.FQName) (*ast.TypeHandle, error) {
	if !name.IsFullyQualified() {
		return nil, &ResolveError{
			Kind: ErrMalformedName,
			Name: name,
			Err:  fmt.Errorf("%q is not fully qualified", name.String()),
		}
	}
	for _, owner := range []fqname.FQName{name.Sibling(name.TopLevelName()), name.TypesSibling()} {
		mod, ok := c.Lookup(owner)
		if !ok {
			continue
		}
		if h, found := mod.LookupLocal(name.Name()); found {
			return h.Clone(), nil
		}
	}
	return nil, &ResolveError{Kind: ErrNotFound, Name: name}
}

// ForEachModule visits resolved modules in the order their entries were
// created and stops at the first visitor error, which it returns.
func (c *Coordinator) ForEachModule(fn func(*ast.Module) error) error {
	for _, name := range c.order {
		e := c.entries[name]
		if e.state != StateResolved {
			continue
		}
		if err := fn(e.module); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the module for name if it is resolved. It never parses.
func (c *Coordinator) Lookup(name fqname.FQName) (*ast.Module, bool) {
	e, ok := c.entries[name]
	if !ok || e.state != StateResolved {
		return nil, false
	}
	return e.module, true
}

// State reports the entry state of name, StateUnknown if never requested.
func (c *Coordinator) State(name fqname.FQName) State {
	if e, ok := c.entries[name]; ok {
		return e.state
	}
	return StateUnknown
}

// Err returns the failure recorded for an Absent entry.
func (c *Coordinator) Err(name fqname.FQName) error {
	if e, ok := c.entries[name]; ok {
		return e.err
	}
	return nil
}

// Path returns the file path computed for name, if resolution got that far.
func (c *Coordinator) Path(name fqname.FQName) string {
	if e, ok := c.entries[name]; ok {
		return e.path
	}
	return ""
}

// Names lists every requested name in entry creation order.
func (c *Coordinator) Names() []fqname.FQName {
	return slices.Clone(c.order)
}

func (c *Coordinator) Len() int { return len(c.order) }

// Cycles returns every observed import cycle as the resolution path from the
// first repeated module back to itself.
func (c *Coordinator) Cycles() [][]fqname.FQName {
	out := make([][]fqname.FQName, len(c.cycles))
	for i, cy := range c.cycles {
		out[i] = slices.Clone(cy)
	}
	return out
}

// CircularImports returns the modules name was found to form a cycle with.
func (c *Coordinator) CircularImports(name fqname.FQName) []fqname.FQName {
	if e, ok := c.entries[name]; ok {
		return slices.Clone(e.partners)
	}
	return nil
}

// Close releases the type references held by every resolved module.
func (c *Coordinator) Close() {
	for _, name := range c.order {
		if e := c.entries[name]; e.state == StateResolved {
			e.module.Release()
		}
	}
}
