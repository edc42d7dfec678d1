package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"hidl/internal/diag"
	"hidl/internal/driver"
	"hidl/internal/fsutil"
	"hidl/internal/trace"
)

type graphModule struct {
	Name    string   `json:"name" yaml:"name"`
	Path    string   `json:"path,omitempty" yaml:"path,omitempty"`
	Broken  bool     `json:"broken,omitempty" yaml:"broken,omitempty"`
	Hash    string   `json:"hash,omitempty" yaml:"hash,omitempty"`
	Imports []string `json:"imports" yaml:"imports"`
}

type graphDoc struct {
	Modules []graphModule `json:"modules" yaml:"modules"`
	Order   []string      `json:"order" yaml:"order"`
	Batches [][]string    `json:"batches" yaml:"batches"`
	Cycles  []string      `json:"cycles,omitempty" yaml:"cycles,omitempty"`
}

func newGraphCmd() *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "graph <fqname|file.hal>...",
		Short: "Print the import graph of the given modules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			switch format {
			case "text", "json", "yaml":
			default:
				return fmt.Errorf("unsupported format %q (must be text, json or yaml)", format)
			}

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

			var ig *driver.ImportGraph
			_ = s.timer.Measure("graph", func() (string, error) {
				span := trace.Begin(s.tracer, trace.ScopePass, "graph", s.cmdSpan.ID())
				ig = driver.BuildImportGraph(s.coord, driver.FileContentHash, diag.BagReporter{Bag: s.bag})
				span.End("")
				return fmt.Sprintf("%d node(s)", len(ig.Slots)), nil
			})
			doc := buildGraphDoc(ig)

			out := cmd.OutOrStdout()
			var file *os.File
			if output != "" && output != "-" {
				if err := fsutil.CreatePathForFile(output); err != nil {
					return err
				}
				file, err = os.Create(output)
				if err != nil {
					return err
				}
				out = file
			}
			if err := writeGraph(out, doc, format); err != nil {
				if file != nil {
					_ = file.Close()
				}
				return err
			}
			if file != nil {
				if err := file.Close(); err != nil {
					return err
				}
			}
			return s.finish()
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format (text|json|yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the graph to a file (parent directories are created)")
	return cmd
}

func buildGraphDoc(ig *driver.ImportGraph) graphDoc {
	doc := graphDoc{Order: ig.Index.Names(ig.Topo.Order)}
	for _, batch := range ig.Topo.Batches {
		doc.Batches = append(doc.Batches, ig.Index.Names(batch))
	}
	if ig.Topo.Cyclic {
		doc.Cycles = ig.Index.Names(ig.Topo.Cycles)
	}
	for _, slot := range ig.Slots {
		if !slot.Present {
			continue
		}
		m := graphModule{
			Name:    slot.Meta.Name,
			Path:    slot.Meta.Path,
			Broken:  slot.Meta.Broken,
			Imports: ig.Dependencies(slot.Meta.Name),
		}
		if m.Imports == nil {
			m.Imports = []string{}
		}
		if !slot.Meta.ModuleHash.IsZero() {
			m.Hash = slot.Meta.ModuleHash.Hex()[:16]
		}
		doc.Modules = append(doc.Modules, m)
	}
	return doc
}

func writeGraph(w io.Writer, doc graphDoc, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}

	var sb strings.Builder
	for _, m := range doc.Modules {
		sb.WriteString(m.Name)
		if m.Broken {
			sb.WriteString(" (broken)")
		}
		sb.WriteString("\n")
		for _, imp := range m.Imports {
			fmt.Fprintf(&sb, "  -> %s\n", imp)
		}
	}
	sb.WriteString("\norder:\n")
	for i, batch := range doc.Batches {
		fmt.Fprintf(&sb, "  %d: %s\n", i+1, strings.Join(batch, ", "))
	}
	if len(doc.Cycles) > 0 {
		fmt.Fprintf(&sb, "\ncycle: %s\n", strings.Join(doc.Cycles, ", "))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
