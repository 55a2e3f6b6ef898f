package preprocess

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svfront/svfront/ids"
	"github.com/svfront/svfront/reporter"
	"github.com/svfront/svfront/symtab"
	"github.com/svfront/svfront/vfs"
)

func newTestPreprocessor(files map[string]string) (*Preprocessor, *symtab.Table, *reporter.Handler) {
	syms := symtab.NewTable()
	h := reporter.NewHandler(nil)
	p := &Preprocessor{
		FS:      vfs.NewMapFileSystem(files),
		Symbols: syms,
		Handler: h,
	}
	return p, syms, h
}

func TestMacroArgumentSubstitutionWithDefault(t *testing.T) {
	p, syms, h := newTestPreprocessor(map[string]string{
		"top.sv": "`define M(x, y=3) x+y\n`M(a)\n",
	})
	file := ids.PathId(syms.RegisterPath("top.sv"))
	unit := NewCompilationUnit(false)

	res, err := p.Preprocess("top.sv", file, unit)
	require.NoError(t, err)
	require.Empty(t, h.Diagnostics())
	require.Contains(t, res.Expanded, "a+3")

	var pushes, pops int
	for _, e := range res.Trace {
		if e.Context != ContextMacro {
			continue
		}
		if e.Action == ActionPush {
			pushes++
		} else {
			pops++
		}
	}
	require.Equal(t, 1, pushes)
	require.Equal(t, 1, pops)
}

func TestRecursiveMacroDetection(t *testing.T) {
	p, syms, h := newTestPreprocessor(map[string]string{
		"top.sv": "`define A `B\n`define B `A\n`A\n",
	})
	file := ids.PathId(syms.RegisterPath("top.sv"))
	unit := NewCompilationUnit(false)

	_, err := p.Preprocess("top.sv", file, unit)
	require.NoError(t, err)

	var recursive int
	for _, d := range h.Diagnostics() {
		if d.Kind == reporter.PPRecursiveMacro {
			recursive++
		}
	}
	require.Equal(t, 1, recursive)
}

func TestIncludeRelativePath(t *testing.T) {
	p, syms, h := newTestPreprocessor(map[string]string{
		"top.sv": "`include \"defs.svh\"\n`X\n",
		"defs.svh": "`define X 42\n",
	})
	file := ids.PathId(syms.RegisterPath("top.sv"))
	unit := NewCompilationUnit(false)

	res, err := p.Preprocess("top.sv", file, unit)
	require.NoError(t, err)
	require.Empty(t, h.Diagnostics())
	require.Contains(t, res.Expanded, "42")

	require.NoError(t, ValidateBalanced(res.Trace))
}

func TestNestedIfdefTwentyDeep(t *testing.T) {
	src := ""
	for i := 0; i < 20; i++ {
		src += "`ifdef D\n"
	}
	src += "deep\n"
	for i := 0; i < 20; i++ {
		src += "`endif\n"
	}

	p, syms, h := newTestPreprocessor(map[string]string{"top.sv": src})
	file := ids.PathId(syms.RegisterPath("top.sv"))
	unit := NewCompilationUnit(false)
	unit.Define(&MacroInfo{Name: "D"})

	res, err := p.Preprocess("top.sv", file, unit)
	require.NoError(t, err)
	require.Empty(t, h.Diagnostics())
	require.Contains(t, res.Expanded, "deep")
}

func TestIfdefUndefinedSuppressesBranch(t *testing.T) {
	p, syms, h := newTestPreprocessor(map[string]string{
		"top.sv": "`ifdef NOTDEF\nhidden\n`else\nvisible\n`endif\n",
	})
	file := ids.PathId(syms.RegisterPath("top.sv"))
	unit := NewCompilationUnit(false)

	res, err := p.Preprocess("top.sv", file, unit)
	require.NoError(t, err)
	require.Empty(t, h.Diagnostics())
	require.NotContains(t, res.Expanded, "hidden")
	require.Contains(t, res.Expanded, "visible")
}

func TestUnterminatedConditionalReportsError(t *testing.T) {
	p, syms, h := newTestPreprocessor(map[string]string{
		"top.sv": "`ifdef D\nbody\n",
	})
	file := ids.PathId(syms.RegisterPath("top.sv"))
	unit := NewCompilationUnit(false)

	_, err := p.Preprocess("top.sv", file, unit)
	require.NoError(t, err)
	require.NotEmpty(t, h.Diagnostics())
	require.Equal(t, reporter.PPSyntax, h.Diagnostics()[0].Kind)
}

func TestUndefineAllRemovesAllMacros(t *testing.T) {
	p, syms, h := newTestPreprocessor(map[string]string{
		"top.sv": "`define A 1\n`define B 2\n`undefineall\n`ifdef A\nstill-defined\n`endif\n",
	})
	file := ids.PathId(syms.RegisterPath("top.sv"))
	unit := NewCompilationUnit(false)

	res, err := p.Preprocess("top.sv", file, unit)
	require.NoError(t, err)
	require.Empty(t, h.Diagnostics())
	require.NotContains(t, res.Expanded, "still-defined")
}
