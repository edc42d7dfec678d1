package driver

import (
	"os"
	"slices"

	"hidl/internal/diag"
	"hidl/internal/fqname"
	"hidl/internal/project"
	"hidl/internal/project/dag"
	"hidl/internal/source"
)

// ContentHasher returns the digest of the file at path.
type ContentHasher func(path string) project.Digest

// FileContentHash reads path from disk; unreadable files hash to zero.
func FileContentHash(path string) project.Digest {
	// #nosec G304 -- path comes from the root registry
	b, err := os.ReadFile(path)
	if err != nil {
		return project.Digest{}
	}
	return project.DigestOf(b)
}

// ModuleMetas summarizes every entry in creation order. Absent entries are
// marked Broken and carry no imports. Import edges point at the module that
// actually provides the imported name.
func (c *Coordinator) ModuleMetas(hash ContentHasher) []project.ModuleMeta {
	metas := make([]project.ModuleMeta, 0, len(c.order))
	for _, name := range c.order {
		e := c.entries[name]
		meta := project.ModuleMeta{Name: name.String(), Path: e.path, Span: source.NoSpan}
		switch e.state {
		case StateResolved:
			mod := e.module
			meta.Span = mod.Span
			if hash != nil && e.path != "" {
				meta.ContentHash = hash(e.path)
			}
			seen := make(map[string]struct{})
			add := func(im project.ImportMeta) {
				if _, dup := seen[im.Name]; dup {
					return
				}
				seen[im.Name] = struct{}{}
				meta.Imports = append(meta.Imports, im)
			}
			if !name.IsTypes() && c.State(name.TypesSibling()) == StateResolved {
				add(project.ImportMeta{Name: name.TypesSibling().String(), Span: mod.Span, Implicit: true})
			}
			for _, imp := range mod.Imports() {
				provider, ok := c.provider(imp.Name, imp.IsPackage())
				if !ok {
					continue
				}
				add(project.ImportMeta{Name: provider.String(), Span: imp.Span, Implicit: imp.IsPackage()})
			}
		case StateAbsent:
			meta.Broken = true
		default:
			continue
		}
		metas = append(metas, meta)
	}
	return metas
}

// provider maps an imported name to the entry that serves it.
func (c *Coordinator) provider(imported fqname.FQName, pkgImport bool) (fqname.FQName, bool) {
	types := imported.TypesSibling()
	if pkgImport {
		return types, c.State(types) == StateResolved
	}
	target := imported.Sibling(imported.TopLevelName())
	if mod, ok := c.Lookup(types); ok && target != types {
		if _, declared := mod.LookupLocal(imported.Name()); declared {
			return types, true
		}
	}
	return target, c.State(target) != StateUnknown
}

// ImportGraph is the import DAG over every entry of a Coordinator.
type ImportGraph struct {
	Index dag.ModuleIndex
	Graph dag.Graph
	Slots []dag.ModuleSlot
	Topo  *dag.Topo
}

// BuildImportGraph indexes the coordinator's modules, reports graph-level
// problems (cycles, imports of broken modules) and computes module hashes.
func BuildImportGraph(c *Coordinator, hash ContentHasher, reporter diag.Reporter) *ImportGraph {
	metas := c.ModuleMetas(hash)
	idx := dag.BuildIndex(metas)
	nodes := make([]dag.ModuleNode, len(metas))
	for i, meta := range metas {
		nodes[i] = dag.ModuleNode{Meta: meta, Reporter: reporter}
		if meta.Broken {
			if name, err := fqname.Parse(meta.Name); err == nil {
				nodes[i].FirstErr = firstError(c.Err(name))
			}
		}
	}
	g, slots := dag.BuildGraph(idx, nodes)
	topo := dag.ToposortKahn(g)
	dag.ReportCycles(idx, slots, topo)
	dag.ReportBrokenDeps(idx, slots)
	ComputeModuleHashes(g, slots, topo)
	return &ImportGraph{Index: idx, Graph: g, Slots: slots, Topo: topo}
}

func firstError(err error) *diag.Diagnostic {
	if err == nil {
		return nil
	}
	d := diag.NewError(DiagCode(err), source.NoSpan, err.Error())
	return &d
}

// ComputeModuleHashes вычисляет ModuleHash в порядке топосортировки:
// зависимости раньше зависимых. Модули в циклах остаются с нулевым хешем.
func ComputeModuleHashes(g dag.Graph, slots []dag.ModuleSlot, topo *dag.Topo) {
	if topo == nil {
		return
	}
	for _, id := range topo.Order {
		slot := &slots[int(id)]
		if !slot.Present {
			continue
		}
		deps := make([]project.Digest, 0, len(g.Deps[int(id)]))
		for _, dep := range g.Deps[int(id)] {
			if !g.Present[int(dep)] {
				continue
			}
			deps = append(deps, slots[int(dep)].Meta.ModuleHash)
		}
		slot.Meta.ModuleHash = project.Combine(slot.Meta.ContentHash, deps...)
	}
}

// Dependencies returns the direct imports of name, sorted.
func (ig *ImportGraph) Dependencies(name string) []string {
	id, ok := ig.Index.ID(name)
	if !ok {
		return nil
	}
	out := ig.Index.Names(ig.Graph.Deps[int(id)])
	slices.Sort(out)
	return out
}
