package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"hidl/internal/diag"
	"hidl/internal/diagfmt"
	"hidl/internal/driver"
	"hidl/internal/fqname"
	"hidl/internal/observ"
	"hidl/internal/parser"
	"hidl/internal/prof"
	"hidl/internal/project"
	"hidl/internal/source"
	"hidl/internal/trace"
	"hidl/internal/version"
)

// session holds everything one CLI invocation shares: configuration, the
// package roots, the diagnostics sink and a single Coordinator.
type session struct {
	cmd      *cobra.Command
	color    bool
	pathMode diagfmt.PathMode
	maxDiag  int
	timings  bool

	cfg   *project.Config
	roots *project.Roots
	files *source.FileSet
	bag   *diag.Bag
	coord *driver.Coordinator
	cache *driver.CachingParser // nil без дискового кеша

	timer    *observ.Timer
	tracer   trace.Tracer
	profiler *prof.Profiler
	cmdSpan  *trace.Span
	cleanup  func()
}

// openSession reads the global flags, loads hidl.toml and builds the
// Coordinator. observer receives resolution events in addition to the
// --verbose logger.
func openSession(cmd *cobra.Command, observer driver.Observer) (*session, error) {
	flags := cmd.Root().PersistentFlags()
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, err
	}
	rootFlags, err := flags.GetStringArray("root")
	if err != nil {
		return nil, err
	}
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, err
	}
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return nil, err
	}
	maxDiag, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return nil, err
	}
	diskCache, err := flags.GetBool("disk-cache")
	if err != nil {
		return nil, err
	}
	pathModeFlag, err := flags.GetString("path-mode")
	if err != nil {
		return nil, err
	}

	s := &session{cmd: cmd, timings: timings, maxDiag: maxDiag, timer: observ.NewTimer()}
	if s.color, err = readColor(colorFlag); err != nil {
		return nil, err
	}
	if s.pathMode, err = diagfmt.ParsePathMode(pathModeFlag); err != nil {
		return nil, err
	}

	if s.profiler, err = setupProfiling(cmd); err != nil {
		return nil, err
	}
	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		_ = s.profiler.Stop()
		return nil, err
	}
	s.tracer, s.cleanup = tracer, cleanup
	s.cmdSpan = trace.Begin(tracer, trace.ScopeDriver, "hidl "+cmd.Name(), 0).
		WithExtra("version", version.Current().Version)

	err = s.timer.Measure("config", func() (string, error) {
		return s.loadConfig(configPath, rootFlags)
	})
	if err != nil {
		s.close()
		return nil, err
	}

	limit := maxDiag
	if limit <= 0 {
		limit = 10000
	}
	s.bag = diag.NewBag(limit)
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: s.bag})

	var p driver.Parser = parser.NewFileParser(s.files, reporter)
	if diskCache || s.cfg.Cache.Disk {
		cache, err := openDiskCache(s.cfg)
		if err != nil {
			s.close()
			return nil, err
		}
		s.cache = driver.NewCachingParser(p, cache)
		p = s.cache
	}

	var logObserver driver.Observer
	if verbose {
		logObserver = newResolveLogger(cmd.ErrOrStderr(), s.color).Observe
	}
	s.coord = driver.NewCoordinator(s.roots, p, driver.Options{
		Reporter: reporter,
		Observer: driver.MultiObserver(logObserver, observer),
		Tracer:   tracer,
	})
	reportMissingRoots(s.roots, reporter)
	return s, nil
}

// reportMissingRoots warns about configured roots without a directory; names
// under them resolve to FileNotFound later.
func reportMissingRoots(roots *project.Roots, reporter diag.Reporter) {
	for _, e := range roots.Entries() {
		if info, err := os.Stat(e.Path); err == nil && info.IsDir() {
			continue
		}
		diag.ReportWarning(reporter, diag.ProjConfig, source.NoSpan,
			fmt.Sprintf("package root %s: directory %s does not exist", e.Prefix, e.Path)).Emit()
	}
}

func (s *session) loadConfig(configPath string, rootFlags []string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	s.files = source.NewFileSetWithBase(cwd)

	if configPath != "" {
		s.cfg, err = project.LoadConfig(configPath)
	} else {
		s.cfg, _, err = project.LoadConfigFrom(cwd)
	}
	if err != nil {
		return "", err
	}

	specs := make([]project.RootSpec, 0, len(rootFlags))
	for _, value := range rootFlags {
		spec, err := project.ParseRootFlag(value)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(spec.Path) {
			spec.Path = filepath.Join(cwd, spec.Path)
		}
		specs = append(specs, spec)
	}
	s.roots, err = project.BuildRoots(specs, s.cfg)
	if err != nil {
		return "", err
	}
	if s.roots.Len() == 0 {
		return "", fmt.Errorf("no package roots: pass -r prefix:path or create %s", project.ManifestName)
	}
	note := fmt.Sprintf("%d root(s)", s.roots.Len())
	if s.cfg.Path != "" {
		note += ", " + s.cfg.Path
	}
	return note, nil
}

func openDiskCache(cfg *project.Config) (*driver.DiskCache, error) {
	if cfg != nil && cfg.Cache.Dir != "" {
		return driver.OpenDiskCacheAt(cfg.Cache.Dir)
	}
	return driver.OpenDiskCache("hidl")
}

// targets maps command arguments to module names. An argument is either a
// fully-qualified name or a path to a .hal file under one of the roots.
func (s *session) targets(args []string) ([]fqname.FQName, error) {
	out := make([]fqname.FQName, 0, len(args))
	for _, arg := range args {
		if strings.HasSuffix(arg, project.Ext) {
			abs, err := filepath.Abs(arg)
			if err != nil {
				return nil, err
			}
			entry, ok := s.roots.EntryForPath(abs)
			if !ok {
				return nil, fmt.Errorf("%s is not under any package root", arg)
			}
			name, err := project.NameForPath(entry, abs)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", arg, err)
			}
			out = append(out, name)
			continue
		}
		name, err := fqname.Parse(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

// resolveAll resolves names in order and returns the number of failures.
func (s *session) resolveAll(names []fqname.FQName) int {
	failed := 0
	_ = s.timer.Measure("resolve", func() (string, error) {
		span := trace.Begin(s.tracer, trace.ScopePass, "resolve", s.cmdSpan.ID())
		for _, name := range names {
			if _, err := s.coord.Resolve(name); err != nil {
				failed++
			}
		}
		span.End(fmt.Sprintf("%d failed", failed))
		return fmt.Sprintf("%d module(s), %d entries", len(names), s.coord.Len()), nil
	})
	return failed
}

// finish prints diagnostics and timings. It returns errFailed when any error
// diagnostic was collected.
func (s *session) finish() error {
	s.bag.Sort()
	out := s.cmd.ErrOrStderr()
	diagfmt.Pretty(out, s.bag, s.files, diagfmt.PrettyOpts{
		Color:     s.color,
		Context:   1,
		PathMode:  s.pathMode,
		ShowNotes: true,
	})
	if dropped := s.bag.Dropped(); dropped > 0 {
		fmt.Fprintf(out, "... %d more diagnostic(s) not shown (--max-diagnostics)\n", dropped)
	}
	s.printTimings()
	if s.bag.HasErrors() {
		return errFailed
	}
	return nil
}

func (s *session) printTimings() {
	if !s.timings {
		return
	}
	fmt.Fprint(s.cmd.ErrOrStderr(), s.timer.Summary())
	if s.cache != nil {
		hits, misses := s.cache.Stats()
		fmt.Fprintf(s.cmd.ErrOrStderr(), "disk cache: %d hit(s), %d miss(es)\n", hits, misses)
	}
}

func (s *session) close() {
	if s.coord != nil {
		s.coord.Close()
	}
	if s.cmdSpan != nil {
		s.cmdSpan.End("")
	}
	if s.cleanup != nil {
		s.cleanup()
	}
	if err := s.profiler.Stop(); err != nil {
		fmt.Fprintf(s.cmd.ErrOrStderr(), "profile: %v\n", err)
	}
}
