package ast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hidl/internal/fqname"
	"hidl/internal/source"
)

func newFooModule(t *testing.T) *Module {
	t.Helper()
	m := NewModule("interfaces/foo/1.0/IFoo.hal", source.FileID(0))
	m.SetPackage("android.hardware.foo", fqname.NewVersion(1, 0), source.NoSpan)
	iface, err := m.Declare(NoTypeID, Type{Kind: TypeInterface, Name: "IFoo"})
	require.NoError(t, err)
	_, err = m.Declare(iface, Type{Kind: TypeEnum, Name: "SomeEnum", Underlying: "uint32_t"})
	require.NoError(t, err)
	st, err := m.Declare(iface, Type{Kind: TypeStruct, Name: "Outer"})
	require.NoError(t, err)
	_, err = m.Declare(st, Type{Kind: TypeTypedef, Name: "Inner", Underlying: "vec<uint8_t>"})
	require.NoError(t, err)
	return m
}

func TestModuleIdentity(t *testing.T) {
	m := newFooModule(t)

	name, ok := m.Interface()
	require.True(t, ok)
	assert.Equal(t, "IFoo", name)
	assert.Equal(t, "android.hardware.foo@1.0::IFoo", m.Name().String())
	assert.Equal(t, "android.hardware.foo@1.0", m.PackageName().String())
}

func TestTypesModuleName(t *testing.T) {
	m := NewModule("types.hal", source.FileID(1))
	m.SetPackage("a.b", fqname.NewVersion(2, 1), source.NoSpan)
	_, err := m.Declare(NoTypeID, Type{Kind: TypeStruct, Name: "S"})
	require.NoError(t, err)

	_, ok := m.Interface()
	assert.False(t, ok)
	assert.Equal(t, "a.b@2.1::types", m.Name().String())
}

func TestLookupLocalWalksNestedScopes(t *testing.T) {
	m := newFooModule(t)

	h, ok := m.LookupLocal("IFoo.SomeEnum")
	require.True(t, ok)
	assert.Equal(t, TypeEnum, h.Type().Kind)

	h, ok = m.LookupLocal("IFoo.Outer.Inner")
	require.True(t, ok)
	assert.Equal(t, "IFoo.Outer.Inner", m.QualifiedName(h.ID()))

	_, ok = m.LookupLocal("IFoo.SomeEnum.X")
	assert.False(t, ok, "enum has no nested scope")
	_, ok = m.LookupLocal("SomeEnum")
	assert.False(t, ok, "nested names are not visible at top level")
	_, ok = m.LookupLocal("")
	assert.False(t, ok)
}

func TestDeclareRejectsDuplicates(t *testing.T) {
	m := newFooModule(t)

	_, err := m.Declare(m.InterfaceID(), Type{Kind: TypeEnum, Name: "SomeEnum"})
	require.ErrorIs(t, err, ErrDuplicateDecl)
	assert.Contains(t, err.Error(), "IFoo.SomeEnum")

	_, err = m.Declare(NoTypeID, Type{Kind: TypeInterface, Name: "IBar"})
	require.ErrorIs(t, err, ErrDuplicateInterface)

	enum, ok := m.LookupLocal("IFoo.SomeEnum")
	require.True(t, ok)
	_, err = m.Declare(enum.ID(), Type{Kind: TypeStruct, Name: "X"})
	assert.True(t, errors.Is(err, ErrBadParent))

	_, err = m.Declare(m.InterfaceID(), Type{Kind: TypeInterface, Name: "INested"})
	assert.ErrorIs(t, err, ErrNestedInterface)
}

func TestTypeHandleRefCounting(t *testing.T) {
	m := newFooModule(t)
	owned, ok := m.LookupLocal("IFoo.SomeEnum")
	require.True(t, ok)
	require.Equal(t, 1, owned.RefCount())

	a := owned.Clone()
	b := a.Clone()
	assert.Equal(t, 3, owned.RefCount())
	assert.True(t, a.SameType(b))
	assert.Same(t, owned.Type(), b.Type())

	m.Release()
	assert.Nil(t, owned.Type(), "released handle must not expose the type")
	require.NotNil(t, a.Type(), "clones keep the type alive")

	a.Release()
	a.Release()
	assert.Equal(t, 1, b.RefCount())
	require.NotNil(t, b.Type())

	b.Release()
	assert.Equal(t, 0, b.RefCount())
	assert.Nil(t, b.Type())
}

func TestImportTarget(t *testing.T) {
	pkg := Import{Name: fqname.MustParse("android.hardware.nfc@1.0")}
	assert.True(t, pkg.IsPackage())
	assert.Equal(t, "android.hardware.nfc@1.0::types", pkg.Target().String())

	nested := Import{Name: fqname.MustParse("android.hardware.nfc@1.0::INfc.Status")}
	assert.False(t, nested.IsPackage())
	assert.Equal(t, "android.hardware.nfc@1.0::INfc", nested.Target().String())
}
