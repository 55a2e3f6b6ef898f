package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svfront/svfront/vfs"
)

func TestNewCompilationUnitSharesGlobalUnit(t *testing.T) {
	s := New(Options{FS: vfs.NewMapFileSystem(map[string]string{})})

	a := s.NewCompilationUnit("a.sv", false)
	b := s.NewCompilationUnit("b.sv", false)
	require.Same(t, a, b)
}

func TestNewCompilationUnitIsolatesFileUnits(t *testing.T) {
	s := New(Options{FS: vfs.NewMapFileSystem(map[string]string{})})

	a := s.NewCompilationUnit("a.sv", true)
	b := s.NewCompilationUnit("b.sv", true)
	require.NotSame(t, a, b)

	again := s.NewCompilationUnit("a.sv", true)
	require.Same(t, a, again)
}

func TestPreprocessorUsesSessionState(t *testing.T) {
	s := New(Options{FS: vfs.NewMapFileSystem(map[string]string{
		"top.sv": "module top; endmodule\n",
	})})

	unit := s.NewCompilationUnit("top.sv", false)
	pp := s.Preprocessor(nil)
	result, err := pp.Preprocess("top.sv", 1, unit)
	require.NoError(t, err)
	require.Contains(t, result.Expanded, "module top")
}
