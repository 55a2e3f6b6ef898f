package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svfront/svfront/uhdm"
)

func TestTranslatePlusArgsRewritesLibextIntoRepeatedFlags(t *testing.T) {
	out := translatePlusArgs([]string{"svfront", "+libext+.sv+.v", "top.sv"})
	require.Equal(t, []string{"svfront", "--libext", ".sv", "--libext", ".v", "top.sv"}, out)
}

func TestTranslatePlusArgsRewritesDefine(t *testing.T) {
	out := translatePlusArgs([]string{"svfront", "+define+WIDTH=8", "top.sv"})
	require.Equal(t, []string{"svfront", "--define", "WIDTH=8", "top.sv"}, out)
}

func TestTranslatePlusArgsLeavesOrdinaryFlagsAlone(t *testing.T) {
	out := translatePlusArgs([]string{"svfront", "-y", "lib", "-sv", "top.sv"})
	require.Equal(t, []string{"svfront", "-y", "lib", "-sv", "top.sv"}, out)
}

func TestMissingInstantiationTargetsReportsOnlyUndeclared(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	leaf := uhdm.NewDefinition(ser, uhdm.KindModule, "leaf", nil)
	design.Definitions["leaf"] = leaf

	top := uhdm.NewDefinition(ser, uhdm.KindModule, "top", nil)
	top.Instantiations = append(top.Instantiations,
		uhdm.NewInstantiation(ser, "leaf", "u_leaf"),
		uhdm.NewInstantiation(ser, "counter", "u_counter"),
	)
	design.Definitions["top"] = top

	missing := missingInstantiationTargets(design, map[string]bool{})
	require.Equal(t, []string{"counter"}, missing)
}

func TestMissingInstantiationTargetsSkipsAlreadyTried(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	top := uhdm.NewDefinition(ser, uhdm.KindModule, "top", nil)
	top.Instantiations = append(top.Instantiations, uhdm.NewInstantiation(ser, "counter", "u_counter"))
	design.Definitions["top"] = top

	missing := missingInstantiationTargets(design, map[string]bool{"counter": true})
	require.Empty(t, missing)
}

func TestNewAppDeclaresEverySpecFlag(t *testing.T) {
	app := newApp()
	var names []string
	for _, f := range app.Flags {
		names = append(names, f.Names()...)
	}
	for _, want := range []string{"y", "v", "I", "libext", "define", "sv", "fileunit",
		"parseonly", "nostdout", "mt", "mp", "o", "l", "nohash", "synth", "formal"} {
		require.Contains(t, names, want)
	}
}
