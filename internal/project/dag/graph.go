package dag

import (
	"fmt"
	"slices"
	"strings"

	"hidl/internal/diag"
	"hidl/internal/project"
)

// Graph хранит рёбра в направлении "зависимость -> импортирующий",
// поэтому Kahn выдаёт зависимости раньше модулей, которые их используют.
type Graph struct {
	Edges   [][]ModuleID // Edges[dep] = модули, импортирующие dep
	Deps    [][]ModuleID // Deps[m] = прямые импорты m
	Indeg   []int        // число присутствующих импортов (для Kahn)
	Present []bool       // модуль реально был разрешён (а не только импортируется)
}

type ModuleNode struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
	FirstErr *diag.Diagnostic
}

type ModuleSlot struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
	Present  bool
	FirstErr *diag.Diagnostic
}

func BuildGraph(idx ModuleIndex, nodes []ModuleNode) (Graph, []ModuleSlot) {
	nodeCount := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]ModuleID, nodeCount),
		Deps:    make([][]ModuleID, nodeCount),
		Indeg:   make([]int, nodeCount),
		Present: make([]bool, nodeCount),
	}
	slots := make([]ModuleSlot, nodeCount)
	for i, name := range idx.IDToName {
		slots[i].Meta.Name = name
	}

	for _, node := range nodes {
		meta := node.Meta
		id, ok := idx.NameToID[meta.Name]
		if meta.Name == "" || !ok {
			continue
		}
		slot := &slots[int(id)]
		if slot.Present {
			if node.Reporter != nil {
				var notes []diag.Note
				if slot.Meta.Span.HasFile() {
					notes = append(notes, diag.Note{
						Span: slot.Meta.Span,
						Msg:  fmt.Sprintf("previous declaration of %q", slot.Meta.Name),
					})
				}
				node.Reporter.Report(diag.ProjDuplicateModule, diag.SevError, meta.Span,
					fmt.Sprintf("duplicate module %q", meta.Name), notes)
			}
			continue
		}
		slot.Meta = meta
		slot.Reporter = node.Reporter
		slot.Present = true
		slot.FirstErr = node.FirstErr
		g.Present[int(id)] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present || len(slot.Meta.Imports) == 0 {
			continue
		}
		seen := make(map[ModuleID]struct{}, len(slot.Meta.Imports))
		for _, dep := range slot.Meta.Imports {
			toID, ok := idx.NameToID[dep.Name]
			if !ok {
				continue
			}
			if ModuleID(from) == toID {
				if slot.Reporter != nil {
					slot.Reporter.Report(diag.ProjSelfImport, diag.SevWarning, dep.Span,
						fmt.Sprintf("module %q imports itself", slot.Meta.Name), nil)
				}
				continue
			}
			if _, dup := seen[toID]; dup {
				continue
			}
			seen[toID] = struct{}{}

			g.Deps[from] = append(g.Deps[from], toID)
			if !g.Present[int(toID)] {
				if slot.Reporter != nil {
					slot.Reporter.Report(diag.ProjMissingModule, diag.SevError, dep.Span,
						fmt.Sprintf("module %q imports %q, which was never resolved", slot.Meta.Name, idx.IDToName[int(toID)]), nil)
				}
				continue
			}
			g.Edges[int(toID)] = append(g.Edges[int(toID)], ModuleID(from))
			g.Indeg[from]++
		}
		slices.Sort(g.Deps[from])
	}
	for i := range g.Edges {
		slices.Sort(g.Edges[i])
	}
	return g, slots
}

// ReportCycles warns every module of a cycle. Circular imports are tolerated
// by the resolver, so this is a warning.
func ReportCycles(idx ModuleIndex, slots []ModuleSlot, topo *Topo) {
	if topo == nil || !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	summary := strings.Join(idx.Names(topo.Cycles), " -> ")
	for _, id := range topo.Cycles {
		slot := slots[int(id)]
		if !slot.Present || slot.Reporter == nil {
			continue
		}
		msg := fmt.Sprintf("module %q participates in an import cycle: %s", slot.Meta.Name, summary)
		slot.Reporter.Report(diag.ProjImportCycle, diag.SevWarning, slot.Meta.Span, msg, nil)
	}
}

// ReportBrokenDeps reports imports of modules that failed to resolve.
func ReportBrokenDeps(idx ModuleIndex, slots []ModuleSlot) {
	for i := range slots {
		slotFrom := &slots[i]
		if !slotFrom.Present || slotFrom.Reporter == nil || len(slotFrom.Meta.Imports) == 0 {
			continue
		}
		emitted := make(map[string]struct{}, len(slotFrom.Meta.Imports))
		for _, imp := range slotFrom.Meta.Imports {
			toID, ok := idx.NameToID[imp.Name]
			if !ok || imp.Implicit {
				continue
			}
			depSlot := slots[int(toID)]
			if !depSlot.Meta.Broken {
				continue
			}
			key := imp.Name + "|" + imp.Span.String()
			if _, seen := emitted[key]; seen {
				continue
			}
			emitted[key] = struct{}{}

			var notes []diag.Note
			if depSlot.FirstErr != nil {
				notes = append(notes, diag.Note{
					Span: depSlot.FirstErr.Primary,
					Msg:  fmt.Sprintf("first error in dependency: %s", depSlot.FirstErr.Message),
				})
			}
			msg := fmt.Sprintf("dependency module %q has errors", imp.Name)
			slotFrom.Reporter.Report(diag.ProjDependencyFailed, diag.SevError, imp.Span, msg, notes)
		}
	}
}
