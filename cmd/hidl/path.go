package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hidl/internal/fqname"
	"hidl/internal/project"
)

func newPathCmd() *cobra.Command {
	var (
		packageDir bool
		relative   bool
		showRoot   bool
	)
	cmd := &cobra.Command{
		Use:   "path <fqname>...",
		Short: "Print the source path a module name maps to",
		Long: `path prints <root>/<package dirs>/<major.minor>/<Name>.hal for each name
without reading any file. --package prints the package directory instead;
--relative prints it relative to the package root.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, nil)
			if err != nil {
				return err
			}
			defer s.close()

			out := cmd.OutOrStdout()
			failed := false
			for _, arg := range args {
				name, err := fqname.Parse(arg)
				if err != nil {
					return err
				}
				path, prefix, err := modulePath(s.roots, name, packageDir || relative, relative)
				if err != nil {
					failed = true
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", name, err)
					continue
				}
				if showRoot {
					fmt.Fprintf(out, "%s\t%s\t%s\n", name, prefix, path)
				} else {
					fmt.Fprintln(out, path)
				}
			}
			s.printTimings()
			if failed {
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&packageDir, "package", false, "print the package directory")
	cmd.Flags().BoolVar(&relative, "relative", false, "print the package directory relative to its root")
	cmd.Flags().BoolVar(&showRoot, "show-root", false, "also print the name and the matched root prefix")
	return cmd
}

// modulePath maps name to a file, or to its package directory when pkgDir is
// set. Package-only names always map to the directory.
func modulePath(roots *project.Roots, name fqname.FQName, pkgDir, relative bool) (path, prefix string, err error) {
	entry, err := roots.Find(name)
	if err != nil {
		return "", "", err
	}
	if pkgDir || name.Name() == "" {
		path, err = project.PackagePath(name, entry, relative)
	} else {
		path, err = project.ModulePath(name, entry)
	}
	return path, entry.Prefix, err
}
