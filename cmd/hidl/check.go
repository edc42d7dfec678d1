package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"hidl/internal/diag"
	"hidl/internal/diagfmt"
	"hidl/internal/driver"
	"hidl/internal/fqname"
	"hidl/internal/trace"
	"hidl/internal/ui"
	"hidl/internal/version"
)

func newCheckCmd() *cobra.Command {
	var (
		all    bool
		jobs   int
		uiFlag string
		format string
	)
	cmd := &cobra.Command{
		Use:   "check [<fqname|file.hal>...]",
		Short: "Resolve modules and report every diagnostic",
		Long: `check resolves the given modules, or with --all every module found under
the package roots, and exits with status 1 if any diagnostic is an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("nothing to check: pass module names or --all")
			}
			mode, err := readUIMode(uiFlag)
			if err != nil {
				return err
			}
			format = strings.ToLower(format)
			switch format {
			case "pretty", "json", "sarif":
			default:
				return fmt.Errorf("unsupported format %q (must be pretty, json or sarif)", format)
			}
			useUI := format == "pretty" && shouldUseTUI(mode)

			events := make(chan driver.Event, 256)
			var observer driver.Observer
			if useUI {
				observer = func(ev driver.Event) { events <- ev }
			}
			s, err := openSession(cmd, observer)
			if err != nil {
				return err
			}
			defer s.close()

			names, err := s.checkTargets(args, all, jobs)
			if err != nil {
				return err
			}

			if useUI {
				if err := runCheckWithUI(s, names, events); err != nil {
					return err
				}
			} else {
				s.resolveAll(names)
			}

			switch format {
			case "json":
				return s.finishJSON()
			case "sarif":
				return s.finishSarif(os.Args[1:])
			}
			if err := s.finish(); err != nil {
				return err
			}
			s.printVerdict(len(names))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "check every module under the package roots")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "parallel directory walkers for --all (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&uiFlag, "ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().StringVar(&format, "format", "pretty", "diagnostics format (pretty|json|sarif)")
	return cmd
}

// checkTargets maps args to module names and, with all set, appends every
// module discovered under the package roots.
func (s *session) checkTargets(args []string, all bool, jobs int) ([]fqname.FQName, error) {
	names, err := s.targets(args)
	if err != nil || !all {
		return names, err
	}
	err = s.timer.Measure("discover", func() (string, error) {
		span := trace.Begin(s.tracer, trace.ScopePass, "discover", s.cmdSpan.ID())
		found, err := driver.Discover(span.Attach(s.cmd.Context()), s.roots, jobs)
		span.End(fmt.Sprintf("%d module(s)", len(found)))
		names = append(names, found...)
		return fmt.Sprintf("%d module(s)", len(found)), err
	})
	return names, err
}

func (s *session) printVerdict(modules int) {
	verdict := "no errors"
	if s.bag.HasWarnings() {
		verdict = "no errors, with warnings"
	}
	fmt.Fprintf(s.cmd.OutOrStdout(), "checked %d module(s), %d entries, %s\n", modules, s.coord.Len(), verdict)
}

// runCheckWithUI resolves names on a worker goroutine while the progress
// model renders events. The Coordinator is touched only by that goroutine.
func runCheckWithUI(s *session, names []fqname.FQName, events chan driver.Event) error {
	labels := make([]string, len(names))
	for i, n := range names {
		labels[i] = n.String()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.resolveAll(names)
		close(events)
	}()

	model := ui.NewProgressModel("hidl check", labels, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	if uiErr != nil {
		// UI упал: дочитываем события, чтобы резолвер не заблокировался
		for range events {
		}
	}
	<-done
	return uiErr
}

func (s *session) finishJSON() error {
	s.bag.Sort()
	err := diagfmt.JSON(s.cmd.OutOrStdout(), s.bag, s.files, diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         s.pathMode,
		IncludeNotes:     true,
	})
	if err != nil {
		return err
	}
	s.printTimings()
	return failedIfErrors(s.bag)
}

func (s *session) finishSarif(args []string) error {
	s.bag.Sort()
	err := diagfmt.Sarif(s.cmd.OutOrStdout(), s.bag, s.files, diagfmt.SarifRunMeta{
		ToolName:       "hidl",
		ToolVersion:    version.Current().Version,
		InvocationArgs: args,
	})
	if err != nil {
		return err
	}
	s.printTimings()
	return failedIfErrors(s.bag)
}

func failedIfErrors(bag *diag.Bag) error {
	if bag.HasErrors() {
		return errFailed
	}
	return nil
}
