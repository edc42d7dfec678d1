package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"hidl/internal/ast"
	"hidl/internal/driver"
	"hidl/internal/fqname"
	"hidl/internal/fsutil"
)

func newResolveCmd() *cobra.Command {
	var showTypes bool
	cmd := &cobra.Command{
		Use:   "resolve <fqname|file.hal>...",
		Short: "Resolve modules and their imports, print a summary of each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, nil)
			if err != nil {
				return err
			}
			defer s.close()

			names, err := s.targets(args)
			if err != nil {
				return err
			}
			s.resolveAll(names)

			out := cmd.OutOrStdout()
			for _, name := range names {
				printModule(out, s.coord, name, showTypes)
			}
			for _, cycle := range s.coord.Cycles() {
				fmt.Fprintf(out, "cycle: %s\n", joinNames(cycle, " -> "))
			}
			return s.finish()
		},
	}
	cmd.Flags().BoolVar(&showTypes, "types", false, "list every declared type")
	return cmd
}

func printModule(out io.Writer, c *driver.Coordinator, name fqname.FQName, showTypes bool) {
	mod, ok := c.Lookup(name)
	if !ok {
		fmt.Fprintf(out, "%s: %s\n", name, c.State(name))
		if err := c.Err(name); err != nil {
			fmt.Fprintf(out, "  error: %v\n", err)
		}
		return
	}
	fmt.Fprintf(out, "%s\n", name)
	fmt.Fprintf(out, "  path: %s\n", c.Path(name))
	if id := mod.InterfaceID(); id.IsValid() {
		iface := mod.Type(id)
		if iface.HasExtends {
			fmt.Fprintf(out, "  interface: %s extends %s\n", iface.Name, iface.Extends)
		} else {
			fmt.Fprintf(out, "  interface: %s\n", iface.Name)
		}
	}
	if imports := mod.Imports(); len(imports) > 0 {
		parts := make([]string, len(imports))
		for i, imp := range imports {
			parts[i] = imp.Name.String()
		}
		fmt.Fprintf(out, "  imports: %s\n", strings.Join(parts, ", "))
	}
	if partners := c.CircularImports(name); len(partners) > 0 {
		fmt.Fprintf(out, "  circular with: %s\n", joinNames(partners, ", "))
	}
	fmt.Fprintf(out, "  types: %d\n", len(mod.Types()))
	if showTypes {
		for i, t := range mod.Types() {
			fmt.Fprintf(out, "    %-10s %s", t.Kind, mod.QualifiedName(ast.TypeID(i+1)))
			if t.Underlying != "" {
				fmt.Fprintf(out, " : %s", t.Underlying)
			}
			fmt.Fprintln(out)
		}
	}
}

func joinNames(names []fqname.FQName, sep string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}

func newLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <pkg@ver::Type[.Nested]>...",
		Short: "Find a type declaration across resolved modules",
		Long: `lookup resolves the module named by the top-level type and the package's
types module, then looks the full name up without parsing anything else.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, nil)
			if err != nil {
				return err
			}
			defer s.close()

			names, err := s.targets(args)
			if err != nil {
				return err
			}
			for _, name := range names {
				for _, owner := range lookupOwners(s, name) {
					_, _ = s.coord.Resolve(owner)
				}
			}

			out := cmd.OutOrStdout()
			missing := 0
			for _, name := range names {
				h, err := s.coord.LookupType(name)
				if err != nil {
					missing++
					fmt.Fprintf(out, "%s: %v\n", name, err)
					continue
				}
				t := h.Type()
				fmt.Fprintf(out, "%s: %s", name, t.Kind)
				if t.Underlying != "" {
					fmt.Fprintf(out, " : %s", t.Underlying)
				}
				if t.HasExtends {
					fmt.Fprintf(out, " extends %s", t.Extends)
				}
				fmt.Fprintln(out)
				h.Release()
			}
			if err := s.finish(); err != nil {
				return err
			}
			if missing > 0 {
				return errFailed
			}
			return nil
		},
	}
}

// lookupOwners returns the modules that may declare name: the package's
// types module and the module of the top-level name. Candidates without a
// source file are skipped, since a type lives in only one of them.
func lookupOwners(s *session, name fqname.FQName) []fqname.FQName {
	candidates := []fqname.FQName{name.TypesSibling()}
	if top := name.Sibling(name.TopLevelName()); !top.IsTypes() {
		candidates = append(candidates, top)
	}
	owners := candidates[:0]
	for _, owner := range candidates {
		path, err := s.roots.ModulePath(owner)
		if err == nil && !fsutil.IsReadable(path) {
			continue
		}
		owners = append(owners, owner)
	}
	return owners
}
