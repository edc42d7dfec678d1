package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"hidl/internal/watch"
)

func newWatchCmd() *cobra.Command {
	var (
		all      bool
		jobs     int
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch [<fqname|file.hal>...]",
		Short: "Re-check modules whenever a .hal file under the roots changes",
		Long: `watch runs check once, then repeats it after every batch of .hal edits.
Each pass starts from an empty module cache. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("nothing to watch: pass module names or --all")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			cmd.SetContext(ctx)

			dirs, err := watchPass(cmd, args, all, jobs)
			if err != nil {
				return err
			}
			w, err := watch.New(dirs, debounce)
			if err != nil {
				return err
			}
			defer w.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "watching %d director(ies) under %d root(s); Ctrl-C to stop\n", len(w.WatchList()), len(dirs))
			changes := w.Run(ctx, func(err error) {
				fmt.Fprintf(cmd.ErrOrStderr(), "watch: %v\n", err)
			})
			for batch := range changes {
				fmt.Fprintf(out, "\n%d file(s) changed: %s\n", len(batch), strings.Join(batch, ", "))
				if _, err := watchPass(cmd, args, all, jobs); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "check every module under the package roots")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "parallel directory walkers for --all (0 = GOMAXPROCS)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before a batch of edits triggers a check")
	return cmd
}

// watchPass runs one check in a fresh session and returns the root
// directories to watch. Diagnostics with errors do not stop watching.
func watchPass(cmd *cobra.Command, args []string, all bool, jobs int) ([]string, error) {
	s, err := openSession(cmd, nil)
	if err != nil {
		return nil, err
	}
	defer s.close()

	names, err := s.checkTargets(args, all, jobs)
	if err != nil {
		return nil, err
	}
	s.resolveAll(names)
	if err := s.finish(); err == nil {
		s.printVerdict(len(names))
	} else if !errors.Is(err, errFailed) {
		return nil, err
	}

	entries := s.roots.Entries()
	dirs := make([]string, len(entries))
	for i, e := range entries {
		dirs[i] = e.Path
	}
	return dirs, nil
}
