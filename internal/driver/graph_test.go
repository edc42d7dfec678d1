package driver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hidl/internal/diag"
	"hidl/internal/driver"
	"hidl/internal/fqname"
	"hidl/internal/project"
)

func TestImportGraphOrdersDependenciesFirst(t *testing.T) {
	files := fooFiles()
	files["foo/1.0/IUser.hal"] = "package android.hardware.foo@1.0;\nimport android.hardware.foo@1.0::IFoo;\ninterface IUser {};\n"
	f := newFixture(t, files)
	_, err := f.coord.Resolve(fqname.MustParse("android.hardware.foo@1.0::IUser"))
	require.NoError(t, err)

	ig := driver.BuildImportGraph(f.coord, driver.FileContentHash, diag.BagReporter{Bag: f.bag})
	require.False(t, ig.Topo.Cyclic)

	order := ig.Index.Names(ig.Topo.Order)
	assert.Equal(t, []string{
		"android.hardware.foo@1.0::types",
		"android.hardware.foo@1.0::IFoo",
		"android.hardware.foo@1.0::IUser",
	}, order)
	assert.Equal(t, []string{
		"android.hardware.foo@1.0::IFoo",
		"android.hardware.foo@1.0::types",
	}, ig.Dependencies("android.hardware.foo@1.0::IUser"))

	hashes := make(map[string]project.Digest)
	for _, slot := range ig.Slots {
		require.False(t, slot.Meta.ModuleHash.IsZero(), slot.Meta.Name)
		hashes[slot.Meta.Name] = slot.Meta.ModuleHash
	}
	assert.NotEqual(t, hashes["android.hardware.foo@1.0::IFoo"], hashes["android.hardware.foo@1.0::IUser"])
	assert.False(t, f.bag.HasErrors())
}

func TestImportGraphReportsCycles(t *testing.T) {
	f := newFixture(t, cycleFiles())
	_, err := f.coord.Resolve(fqname.MustParse("android.hardware.cyc@1.0::IA"))
	require.NoError(t, err)

	ig := driver.BuildImportGraph(f.coord, driver.FileContentHash, diag.BagReporter{Bag: f.bag})
	require.True(t, ig.Topo.Cyclic)
	assert.ElementsMatch(t, []string{
		"android.hardware.cyc@1.0::IA",
		"android.hardware.cyc@1.0::IB",
	}, ig.Index.Names(ig.Topo.Cycles))
	assert.Contains(t, f.codes(), diag.ProjImportCycle)
}

func TestImportGraphMarksBrokenModules(t *testing.T) {
	f := newFixture(t, map[string]string{
		"bar/1.0/IBar.hal": "package android.hardware.other@1.0;\ninterface IBar {};\n",
	})
	_, err := f.coord.Resolve(fqname.MustParse("android.hardware.bar@1.0::IBar"))
	require.Error(t, err)

	metas := f.coord.ModuleMetas(nil)
	require.Len(t, metas, 2)
	for _, m := range metas {
		assert.True(t, m.Broken, m.Name)
		assert.Empty(t, m.Imports)
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"foo/1.0/IFoo.hal":      fooIFoo,
		"foo/1.0/types.hal":     fooTypes,
		"foo/2.1/IFoo.hal":      "",
		"nfc/1.0/INfc.hal":      "",
		"nfc/1.0/default/x.hal": "",
		"README.md":             "",
		"stray.hal":             "",
	})
	roots := project.NewRoots(
		project.RootEntry{Prefix: hwPrefix, Path: root},
		project.RootEntry{Prefix: "vendor.missing", Path: root + "/does-not-exist"},
	)

	names, err := driver.Discover(context.Background(), roots, 2)
	require.NoError(t, err)

	got := make([]string, len(names))
	for i, n := range names {
		got[i] = n.String()
	}
	assert.Equal(t, []string{
		"android.hardware.foo@1.0::IFoo",
		"android.hardware.foo@1.0::types",
		"android.hardware.foo@2.1::IFoo",
		"android.hardware.nfc@1.0::INfc",
	}, got)
}
