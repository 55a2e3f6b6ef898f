package integrity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svfront/svfront/bind"
	"github.com/svfront/svfront/elaborate"
	"github.com/svfront/svfront/reporter"
	"github.com/svfront/svfront/uhdm"
)

func runPipeline(design *uhdm.Design) *reporter.Handler {
	elaborate.NewElaborator(design).Elaborate()
	bind.NewObjectBinder(design).Bind()
	h := reporter.NewHandler(nil)
	NewChecker(design).Check(h)
	return h
}

func kindsOf(diags []reporter.Diagnostic) []reporter.Kind {
	out := make([]reporter.Kind, len(diags))
	for i, d := range diags {
		out[i] = d.Kind
	}
	return out
}

func TestCheckReportsDuplicateDeclaration(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	top := uhdm.NewDefinition(ser, uhdm.KindModule, "top", nil)
	top.Nets = append(top.Nets, uhdm.NewNet(ser, "a", false))
	top.Variables = append(top.Variables, uhdm.NewVariable(ser, "a"))
	design.Definitions["top"] = top

	h := runPipeline(design)
	require.Contains(t, kindsOf(h.Diagnostics()), reporter.IntegrityCheckDupMember)
}

func TestCheckReportsDuplicateInstanceName(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	leaf := uhdm.NewDefinition(ser, uhdm.KindModule, "leaf", nil)
	design.Definitions["leaf"] = leaf

	top := uhdm.NewDefinition(ser, uhdm.KindModule, "top", nil)
	top.Instantiations = append(top.Instantiations,
		uhdm.NewInstantiation(ser, "leaf", "u0"),
		uhdm.NewInstantiation(ser, "leaf", "u0"),
	)
	design.Definitions["top"] = top

	h := runPipeline(design)
	require.Contains(t, kindsOf(h.Diagnostics()), reporter.IntegrityCheckDupMember)
}

func TestCheckReportsUndeclaredInstantiationTarget(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	top := uhdm.NewDefinition(ser, uhdm.KindModule, "top", nil)
	top.Instantiations = append(top.Instantiations, uhdm.NewInstantiation(ser, "missing", "u0"))
	design.Definitions["top"] = top

	h := runPipeline(design)
	require.Contains(t, kindsOf(h.Diagnostics()), reporter.IntegrityCheckViolation)
	require.Equal(t, 0, h.FatalCount(), "an undeclared instantiation target is an Error, not Fatal")
}

func TestCheckWarnsOnImplicitNet(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	top := uhdm.NewDefinition(ser, uhdm.KindModule, "top", nil)
	ref := uhdm.NewRefObj(ser, "undeclared")
	top.ContAssigns = append(top.ContAssigns, uhdm.NewContAssign(ser, ref, nil))
	design.Definitions["top"] = top

	h := runPipeline(design)
	require.Contains(t, kindsOf(h.Diagnostics()), reporter.ElabIllegalImplicitNet)
	require.Nil(t, h.Error(), "a warning-only diagnostic must not fail the stage")
}

func TestCheckHasNoFailedBindAfterSuccessfulBind(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	top := uhdm.NewDefinition(ser, uhdm.KindModule, "top", nil)
	top.Nets = append(top.Nets, uhdm.NewNet(ser, "done", false))
	top.ContAssigns = append(top.ContAssigns, uhdm.NewContAssign(ser, uhdm.NewRefObj(ser, "done"), nil))
	design.Definitions["top"] = top

	h := runPipeline(design)
	require.NotContains(t, kindsOf(h.Diagnostics()), reporter.UhdmFailedToBind,
		"bind's own fallback chain (lookup, type retry, implicit-net synthesis) always resolves a RefObj")
}

func TestCheckReportsUnsupportedStatementLeaf(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	top := uhdm.NewDefinition(ser, uhdm.KindModule, "top", nil)
	body := uhdm.NewStmt(ser, uhdm.StmtUnsupportedKind)
	body.RawText = "$display(\"hi\");"
	top.Processes = append(top.Processes, uhdm.NewProcess(ser, uhdm.ProcessInitial, body))
	design.Definitions["top"] = top

	h := runPipeline(design)
	require.Contains(t, kindsOf(h.Diagnostics()), reporter.UhdmUnsupportedStmt)
}

func TestCheckDetectsClassInheritanceCycle(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	a := uhdm.NewDefinition(ser, uhdm.KindClass, "A", nil)
	a.Extends = "B"
	design.Definitions["A"] = a

	b := uhdm.NewDefinition(ser, uhdm.KindClass, "B", nil)
	b.Extends = "A"
	design.Definitions["B"] = b

	h := reporter.NewHandler(nil)
	elaborate.NewElaborator(design).Elaborate()
	bind.NewObjectBinder(design).Bind()
	NewChecker(design).Check(h)

	require.Contains(t, kindsOf(h.Diagnostics()), reporter.IntegrityCheckViolation)
	require.Greater(t, h.FatalCount(), 0, "an inheritance cycle must be Fatal, not merely reported")
}

func TestCheckWarnsWhenNoTopInstanceFound(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	a := uhdm.NewDefinition(ser, uhdm.KindModule, "a", nil)
	a.Instantiations = append(a.Instantiations, uhdm.NewInstantiation(ser, "b", "u_b"))
	design.Definitions["a"] = a

	b := uhdm.NewDefinition(ser, uhdm.KindModule, "b", nil)
	b.Instantiations = append(b.Instantiations, uhdm.NewInstantiation(ser, "a", "u_a"))
	design.Definitions["b"] = b

	h := runPipeline(design)
	require.Contains(t, kindsOf(h.Diagnostics()), reporter.IntegrityCheckViolation)
}

func TestCheckCleanDesignReportsNothing(t *testing.T) {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)

	top := uhdm.NewDefinition(ser, uhdm.KindModule, "top", nil)
	top.Ports = append(top.Ports, uhdm.NewPort(ser, "clk", uhdm.DirInput))
	top.Nets = append(top.Nets, uhdm.NewNet(ser, "clk", false))
	design.Definitions["top"] = top

	h := runPipeline(design)
	require.Empty(t, h.Diagnostics())
}
