package fqname_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hidl/internal/fqname"
)

func TestParseFullyQualified(t *testing.T) {
	n, err := fqname.Parse("android.hardware.nfc@1.0::INfc")
	require.NoError(t, err)

	assert.Equal(t, "android.hardware.nfc", n.Package())
	assert.Equal(t, "1.0", n.Version().String())
	assert.Equal(t, "@1.0", n.Version().Tag())
	assert.Equal(t, "INfc", n.Name())
	assert.True(t, n.IsFullyQualified())
	assert.Equal(t, "android.hardware.nfc@1.0::INfc", n.String())
}

func TestParsePackageOnly(t *testing.T) {
	n, err := fqname.Parse("android.hardware.nfc@1.2")
	require.NoError(t, err)
	assert.False(t, n.IsFullyQualified())
	assert.Equal(t, "android.hardware.nfc@1.2", n.String())
	assert.Equal(t, []string{"android", "hardware", "nfc"}, n.PackageSegments())
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []string{
		"",
		"android.hardware.nfc",
		"android..nfc@1.0::INfc",
		"android.nfc@1::INfc",
		"android.nfc@a.b::INfc",
		"android.nfc@1.0::",
		"android.nfc@1.0::I-Nfc",
		"1android.nfc@1.0::INfc",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := fqname.Parse(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, fqname.ErrInvalidName), "got %v", err)
		})
	}
}

func TestTopLevelAndSiblings(t *testing.T) {
	n := fqname.MustParse("android.hardware.foo@1.0::IFoo.SomeEnum")

	assert.Equal(t, "IFoo", n.TopLevelName())
	assert.Equal(t, "android.hardware.foo@1.0::IFoo", n.Sibling(n.TopLevelName()).String())
	assert.Equal(t, "android.hardware.foo@1.0::types", n.TypesSibling().String())
	assert.True(t, n.TypesSibling().IsTypes())
	assert.Equal(t, "android.hardware.foo@1.0", n.PackageAndVersion().String())
	assert.True(t, n.SamePackage(n.TypesSibling()))
}

func TestNamesAreMapKeys(t *testing.T) {
	a := fqname.MustParse("a.b@1.0::IFoo")
	b := fqname.New("a.b", fqname.NewVersion(1, 0), "IFoo")

	m := map[fqname.FQName]int{a: 1}
	assert.Equal(t, 1, m[b])
	assert.Equal(t, 0, fqname.Compare(a, b))
}

func TestCompareOrdering(t *testing.T) {
	names := []fqname.FQName{
		fqname.MustParse("b.pkg@1.0::IA"),
		fqname.MustParse("a.pkg@2.0::IA"),
		fqname.MustParse("a.pkg@1.10::IA"),
		fqname.MustParse("a.pkg@1.2::IB"),
		fqname.MustParse("a.pkg@1.2::IA"),
	}
	slices.SortFunc(names, fqname.Compare)

	got := make([]string, len(names))
	for i, n := range names {
		got[i] = n.String()
	}
	assert.Equal(t, []string{
		"a.pkg@1.2::IA",
		"a.pkg@1.2::IB",
		"a.pkg@1.10::IA",
		"a.pkg@2.0::IA",
		"b.pkg@1.0::IA",
	}, got)
}

func TestParseVersion(t *testing.T) {
	v, err := fqname.ParseVersion("@3.14")
	require.NoError(t, err)
	assert.Equal(t, fqname.NewVersion(3, 14), v)

	_, err = fqname.ParseVersion("3")
	require.ErrorIs(t, err, fqname.ErrInvalidName)
}
