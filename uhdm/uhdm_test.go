package uhdm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializerAssignsStableIncreasingIds(t *testing.T) {
	s := NewSerializer()
	a := NewRefObj(s, "a")
	b := NewRefObj(s, "b")
	require.NotEqual(t, a.UhdmId(), b.UhdmId())
	require.Equal(t, a, s.Lookup(a.UhdmId()))
}

func TestCloneInstanceIsIndependentPerInstance(t *testing.T) {
	s := NewSerializer()
	design := NewDesign(s)
	def := NewDefinition(s, KindModule, "counter", nil)
	nested := NewDefinition(s, KindModule, "inner_block", def)
	def.Define("inner_block", nested)
	design.Definitions["counter"] = def

	i1 := CloneInstance(s, def, "u1", nil, map[string]ConstValue{"WIDTH": {IsInt: true, Int: 8}})
	i2 := CloneInstance(s, def, "u2", nil, map[string]ConstValue{"WIDTH": {IsInt: true, Int: 16}})

	require.NotEqual(t, i1.Parameters()["WIDTH"].Int, i2.Parameters()["WIDTH"].Int)

	obj1, ok := i1.Lookup("inner_block")
	require.True(t, ok)
	obj2, ok := i2.Lookup("inner_block")
	require.True(t, ok)
	require.NotSame(t, obj1, obj2)
}

func TestTypespecKindsAreClosed(t *testing.T) {
	s := NewSerializer()
	logic := NewLogicTypespec(s, 7, 0, false, false)
	require.Equal(t, LogicTypespecKind, logic.TypespecKind())

	unsupported := NewUnsupportedTypespec(s, "chandle")
	require.Equal(t, UnsupportedTypespecKind, unsupported.TypespecKind())
}
