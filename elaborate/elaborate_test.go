package elaborate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svfront/svfront/uhdm"
)

func TestElaborateDiscoversTopAndAttachesChildInstance(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	leaf := uhdm.NewDefinition(ser, uhdm.KindModule, "leaf", nil)
	design.Definitions["leaf"] = leaf

	top := uhdm.NewDefinition(ser, uhdm.KindModule, "top", nil)
	top.Instantiations = append(top.Instantiations, uhdm.NewInstantiation(ser, "leaf", "u_leaf"))
	design.Definitions["top"] = top

	NewElaborator(design).Elaborate()

	require.Len(t, design.TopInstances, 1)
	require.Equal(t, "top", design.TopInstances[0].Name())

	child, ok := design.TopInstances[0].Lookup("u_leaf")
	require.True(t, ok)
	inst, ok := child.(uhdm.Instance)
	require.True(t, ok)
	require.Equal(t, leaf, inst.Definition())
}

func TestElaborateSkipsInstantiatedDefinitionAsTop(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	leaf := uhdm.NewDefinition(ser, uhdm.KindModule, "leaf", nil)
	design.Definitions["leaf"] = leaf

	top := uhdm.NewDefinition(ser, uhdm.KindModule, "top", nil)
	top.Instantiations = append(top.Instantiations, uhdm.NewInstantiation(ser, "leaf", "u_leaf"))
	design.Definitions["top"] = top

	NewElaborator(design).Elaborate()

	names := make([]string, 0, len(design.TopInstances))
	for _, inst := range design.TopInstances {
		names = append(names, inst.Name())
	}
	require.ElementsMatch(t, []string{"top"}, names)
}

func TestElaborateGenerateForProducesOneGenScope(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	leaf := uhdm.NewDefinition(ser, uhdm.KindModule, "leaf", nil)
	design.Definitions["leaf"] = leaf

	top := uhdm.NewDefinition(ser, uhdm.KindModule, "top", nil)
	region := uhdm.NewGenerateRegion(ser, "g", uhdm.GenerateForKind)
	region.Body = append(region.Body, uhdm.NewInstantiation(ser, "leaf", "u_leaf"))
	top.GenerateRegions = append(top.GenerateRegions, region)
	design.Definitions["top"] = top

	NewElaborator(design).Elaborate()

	require.Len(t, design.TopInstances, 1)
	member, ok := design.TopInstances[0].Lookup("g")
	require.True(t, ok)
	arr, ok := member.(*uhdm.GenScopeArray)
	require.True(t, ok)
	require.Len(t, arr.Scopes, 1)
	require.Equal(t, 0, arr.Scopes[0].Index)

	_, ok = arr.Scopes[0].Lookup("u_leaf")
	require.True(t, ok)
}

func TestElaborateGenerateIfProducesGenScope(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	leaf := uhdm.NewDefinition(ser, uhdm.KindModule, "leaf", nil)
	design.Definitions["leaf"] = leaf

	top := uhdm.NewDefinition(ser, uhdm.KindModule, "top", nil)
	region := uhdm.NewGenerateRegion(ser, "g", uhdm.GenerateIfKind)
	region.Body = append(region.Body, uhdm.NewInstantiation(ser, "leaf", "u_leaf"))
	top.GenerateRegions = append(top.GenerateRegions, region)
	design.Definitions["top"] = top

	NewElaborator(design).Elaborate()

	member, ok := design.TopInstances[0].Lookup("g")
	require.True(t, ok)
	scope, ok := member.(*uhdm.GenScope)
	require.True(t, ok)
	require.Equal(t, -1, scope.Index)
}

func TestResolveParamsFoldsIntegerOverride(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	leaf := uhdm.NewDefinition(ser, uhdm.KindModule, "leaf", nil)
	leaf.Parameters = append(leaf.Parameters, uhdm.NewParameter(ser, "WIDTH", false))
	design.Definitions["leaf"] = leaf

	top := uhdm.NewDefinition(ser, uhdm.KindModule, "top", nil)
	site := uhdm.NewInstantiation(ser, "leaf", "u_leaf")
	site.ParamOverrides["WIDTH"] = uhdm.NewExpr(ser, uhdm.ExprNumberKind, "8")
	top.Instantiations = append(top.Instantiations, site)
	design.Definitions["top"] = top

	NewElaborator(design).Elaborate()

	child, _ := design.TopInstances[0].Lookup("u_leaf")
	inst := child.(uhdm.Instance)
	require.Equal(t, uhdm.ConstValue{IsInt: true, Int: 8}, inst.Parameters()["WIDTH"])
}
