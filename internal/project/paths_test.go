package project

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hidl/internal/fqname"
)

func TestModulePathNfc(t *testing.T) {
	e := RootEntry{Prefix: "android.hardware.", Path: "hardware/interfaces"}
	name := fqname.MustParse("android.hardware.nfc@1.0::INfc")

	got, err := ModulePath(name, e)
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("hardware/interfaces/nfc/1.0/INfc.hal"), got)
}

func TestModulePathUsesTopLevelName(t *testing.T) {
	e := RootEntry{Prefix: "android.hardware", Path: "interfaces/"}
	got, err := ModulePath(fqname.MustParse("android.hardware.foo.bar@2.1::IFoo.Inner.Deep"), e)
	require.NoError(t, err)
	assert.Equal(t, "interfaces/foo"+string(filepath.Separator)+"bar"+string(filepath.Separator)+
		"2.1"+string(filepath.Separator)+"IFoo.hal", got)
}

func TestPackagePath(t *testing.T) {
	e := RootEntry{Prefix: "android.hardware", Path: "hardware/interfaces"}
	name := fqname.MustParse("android.hardware.nfc@1.0::INfc")

	abs, err := PackagePath(name, e, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("hardware/interfaces/nfc/1.0/"), abs)

	rel, err := PackagePath(name, e, true)
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("nfc/1.0/"), rel)
}

func TestMalformedNames(t *testing.T) {
	e := RootEntry{Prefix: "android.hardware.", Path: "hw"}
	cases := map[string]fqname.FQName{
		"package equals prefix": fqname.MustParse("android.hardware@1.0::IFoo"),
		"prefix not at start":   fqname.MustParse("vendor.android.hardware.nfc@1.0::INfc"),
		"partial segment match": fqname.MustParse("android.hardwarex.nfc@1.0::INfc"),
		"no local name":         fqname.MustParse("android.hardware.nfc@1.0"),
	}
	for label, name := range cases {
		t.Run(label, func(t *testing.T) {
			_, err := ModulePath(name, e)
			require.ErrorIs(t, err, ErrMalformedName)
		})
	}
}

func TestRootsFirstMatchWins(t *testing.T) {
	roots := NewRoots()
	require.NoError(t, roots.Add("android.hardware", "generic"))
	require.NoError(t, roots.Add("android.hardware.nfc", "specific"))

	name := fqname.MustParse("android.hardware.nfc@1.0::INfc")
	e, err := roots.Find(name)
	require.NoError(t, err)
	assert.Equal(t, "generic", e.Path, "registration order breaks ties, not prefix length")

	prefix, err := roots.PackageRoot(name)
	require.NoError(t, err)
	assert.Equal(t, "android.hardware", prefix)

	_, err = roots.Find(fqname.MustParse("vendor.acme.foo@1.0::IFoo"))
	require.ErrorIs(t, err, ErrNoMatchingRoot)
	_, err = roots.ModulePath(fqname.MustParse("vendor.acme.foo@1.0::IFoo"))
	require.ErrorIs(t, err, ErrNoMatchingRoot)

	require.Error(t, roots.Add("", "x"))
	require.Error(t, roots.Add("x", " "))
	assert.Equal(t, 2, roots.Len())
}

func TestRootsSubstringMatch(t *testing.T) {
	roots := NewRoots(RootEntry{Prefix: "hardware", Path: "hw"})
	e, err := roots.Find(fqname.MustParse("android.hardware.nfc@1.0::INfc"))
	require.NoError(t, err, "prefixes match by substring containment")
	assert.Equal(t, "hw", e.Path)

	// найден, но путь построить нельзя: префикс не в начале пакета
	_, err = roots.ModulePath(fqname.MustParse("android.hardware.nfc@1.0::INfc"))
	require.ErrorIs(t, err, ErrMalformedName)
}

func TestNameForPathRoundTrip(t *testing.T) {
	root := t.TempDir()
	e := RootEntry{Prefix: "android.hardware", Path: root}
	name := fqname.MustParse("android.hardware.nfc.ext@1.2::INfcExt")

	path, err := ModulePath(name, e)
	require.NoError(t, err)
	back, err := NameForPath(e, path)
	require.NoError(t, err)
	assert.Equal(t, name, back)

	_, err = NameForPath(e, filepath.Join(root, "1.0", "IFoo.hal"))
	require.ErrorIs(t, err, ErrMalformedName)
	_, err = NameForPath(e, filepath.Join(root, "nfc", "x.y", "IFoo.hal"))
	require.ErrorIs(t, err, ErrMalformedName)
	_, err = NameForPath(e, filepath.Join(filepath.Dir(root), "elsewhere", "nfc", "1.0", "IFoo.hal"))
	require.ErrorIs(t, err, ErrMalformedName)

	got, ok := NewRoots(e).EntryForPath(path)
	require.True(t, ok)
	assert.Equal(t, e, got)
}
