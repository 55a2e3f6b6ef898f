package bind

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svfront/svfront/elaborate"
	"github.com/svfront/svfront/uhdm"
)

func TestBindResolvesContAssignLhsAgainstDeclaredNet(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	top := uhdm.NewDefinition(ser, uhdm.KindModule, "top", nil)
	top.Nets = append(top.Nets, uhdm.NewNet(ser, "done", false))
	top.ContAssigns = append(top.ContAssigns, uhdm.NewContAssign(ser, uhdm.NewRefObj(ser, "done"), nil))
	design.Definitions["top"] = top

	elaborate.NewElaborator(design).Elaborate()
	NewObjectBinder(design).Bind()

	ref := top.ContAssigns[0].Lhs
	require.NotNil(t, ref.Actual)
	net, ok := ref.Actual.(*uhdm.Net)
	require.True(t, ok)
	require.Equal(t, "done", net.Name)
	require.False(t, net.Implicit)
}

func TestBindSynthesizesImplicitNetOnceForRepeatedReference(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	top := uhdm.NewDefinition(ser, uhdm.KindModule, "top", nil)
	first := uhdm.NewRefObj(ser, "undeclared")
	second := uhdm.NewRefObj(ser, "undeclared")
	top.ContAssigns = append(top.ContAssigns,
		uhdm.NewContAssign(ser, first, nil),
		uhdm.NewContAssign(ser, second, nil),
	)
	design.Definitions["top"] = top

	elaborate.NewElaborator(design).Elaborate()
	NewObjectBinder(design).Bind()

	require.Len(t, top.Nets, 1)
	require.True(t, top.Nets[0].Implicit)
	require.Same(t, first.Actual, second.Actual)
}

func TestBindResolvesReferenceToParentScopeDeclaration(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	leaf := uhdm.NewDefinition(ser, uhdm.KindModule, "leaf", nil)
	leaf.ContAssigns = append(leaf.ContAssigns, uhdm.NewContAssign(ser, uhdm.NewRefObj(ser, "shared"), nil))
	design.Definitions["leaf"] = leaf

	top := uhdm.NewDefinition(ser, uhdm.KindModule, "top", nil)
	top.Nets = append(top.Nets, uhdm.NewNet(ser, "shared", false))
	top.Instantiations = append(top.Instantiations, uhdm.NewInstantiation(ser, "leaf", "u_leaf"))
	design.Definitions["top"] = top

	elaborate.NewElaborator(design).Elaborate()
	NewObjectBinder(design).Bind()

	ref := leaf.ContAssigns[0].Lhs
	net, ok := ref.Actual.(*uhdm.Net)
	require.True(t, ok)
	require.Equal(t, "shared", net.Name)
	require.False(t, net.Implicit, "must resolve to top's declared net, not synthesize a new implicit one")
}

func TestBindResolvesBitsStyleReferenceToClassType(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	cls := uhdm.NewDefinition(ser, uhdm.KindClass, "Packet", nil)
	design.Definitions["Packet"] = cls

	top := uhdm.NewDefinition(ser, uhdm.KindModule, "top", nil)
	ref := uhdm.NewRefObj(ser, "Packet")
	top.ContAssigns = append(top.ContAssigns, uhdm.NewContAssign(ser, ref, nil))
	design.Definitions["top"] = top

	elaborate.NewElaborator(design).Elaborate()
	NewObjectBinder(design).Bind()

	ts, ok := ref.Actual.(*uhdm.ClassTypespec)
	require.True(t, ok)
	require.Equal(t, "Packet", ts.Name)
	require.Empty(t, top.Nets, "a resolvable type name must not also synthesize an implicit net")
}

func TestBindWiresClassExtendsOntoDerivedClasses(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	base := uhdm.NewDefinition(ser, uhdm.KindClass, "Base", nil)
	design.Definitions["Base"] = base

	derived := uhdm.NewDefinition(ser, uhdm.KindClass, "Derived", nil)
	derived.Extends = "Base"
	design.Definitions["Derived"] = derived

	NewObjectBinder(design).Bind()

	require.NotNil(t, base.ClassTypespec)
	require.Len(t, base.ClassTypespec.DerivedClasses, 1)
	require.Equal(t, "Derived", base.ClassTypespec.DerivedClasses[0].Name)
	require.Same(t, derived.ClassTypespec, base.ClassTypespec.DerivedClasses[0])
}
