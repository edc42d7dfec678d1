package driver_test

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hidl/internal/ast"
	"hidl/internal/driver"
	"hidl/internal/driver/mocks"
	"hidl/internal/fqname"
	"hidl/internal/project"
	"hidl/internal/source"
)

func interfaceModule(t *testing.T, path, pkg, iface string) *ast.Module {
	t.Helper()
	ver, err := fqname.ParseVersion("1.0")
	require.NoError(t, err)
	mod := ast.NewModule(path, source.NoFile)
	mod.SetPackage(pkg, ver, source.NoSpan)
	_, err = mod.Declare(ast.NoTypeID, ast.Type{Kind: ast.TypeInterface, Name: iface})
	require.NoError(t, err)
	return mod
}

func mockCoordinator(t *testing.T) (*driver.Coordinator, *mocks.MockParser, string) {
	t.Helper()
	root := filepath.FromSlash("/hal/interfaces")
	p := mocks.NewMockParser(gomock.NewController(t))
	roots := project.NewRoots(project.RootEntry{Prefix: hwPrefix, Path: root})
	c := driver.NewCoordinator(roots, p, driver.Options{})
	t.Cleanup(c.Close)
	return c, p, filepath.Join(root, "foo", "1.0")
}

func TestResolveParsesEachPathOnce(t *testing.T) {
	c, p, dir := mockCoordinator(t)
	ifoo := filepath.Join(dir, "IFoo.hal")
	p.EXPECT().Parse(filepath.Join(dir, "types.hal")).Return(nil, fs.ErrNotExist).Times(1)
	p.EXPECT().Parse(ifoo).Return(interfaceModule(t, ifoo, "android.hardware.foo", "IFoo"), nil).Times(1)

	name := fqname.MustParse("android.hardware.foo@1.0::IFoo")
	first, err := c.Resolve(name)
	require.NoError(t, err)
	second, err := c.Resolve(name)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = c.Resolve(name.TypesSibling())
	require.ErrorIs(t, err, driver.ErrPriorFailure)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMismatchIsNotRetried(t *testing.T) {
	c, p, dir := mockCoordinator(t)
	ifoo := filepath.Join(dir, "IFoo.hal")
	p.EXPECT().Parse(filepath.Join(dir, "types.hal")).Return(nil, fs.ErrNotExist)
	p.EXPECT().Parse(ifoo).Return(interfaceModule(t, ifoo, "android.hardware.other", "IFoo"), nil).Times(1)

	name := fqname.MustParse("android.hardware.foo@1.0::IFoo")
	_, err := c.Resolve(name)
	require.ErrorIs(t, err, driver.ErrPackageMismatch)

	_, err = c.Resolve(name)
	require.ErrorIs(t, err, driver.ErrPriorFailure)
	assert.Equal(t, driver.StateAbsent, c.State(name))

	_, err = c.LookupType(name)
	require.ErrorIs(t, err, driver.ErrNotFound)
}
