package libresolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svfront/svfront/vfs"
)

func TestBuildScansLibDirByExtension(t *testing.T) {
	fs := vfs.NewMapFileSystem(map[string]string{
		"lib/adder.sv":   "module adder; endmodule",
		"lib/adder.vh":   "// not a library extension",
		"lib/sub/mux.sv": "module mux; endmodule",
	})
	ls, err := Build(fs, Options{LibDirs: []string{"lib"}})
	require.NoError(t, err)

	adder := ls.ResolveModule("adder")
	require.Len(t, adder, 1)
	require.Equal(t, "lib/adder.sv", adder[0].Path)

	mux := ls.ResolveModule("mux")
	require.Len(t, mux, 1)

	require.Empty(t, ls.ResolveModule("nonexistent"))
}

func TestBuildRegistersLibFiles(t *testing.T) {
	fs := vfs.NewMapFileSystem(map[string]string{
		"extra/thing.v": "module thing; endmodule",
	})
	ls, err := Build(fs, Options{LibFiles: []string{"extra/thing.v"}})
	require.NoError(t, err)

	thing := ls.ResolveModule("thing")
	require.Len(t, thing, 1)
	require.Equal(t, "extra/thing.v", thing[0].Path)
}

func TestResolveIncludePrefersWhenceDirectory(t *testing.T) {
	fs := vfs.NewMapFileSystem(map[string]string{
		"src/defs.svh":     "// local",
		"include/defs.svh": "// global",
	})
	ls, err := Build(fs, Options{IncludeDirs: []string{"include"}})
	require.NoError(t, err)

	resolved, err := ls.ResolveInclude("defs.svh", "src/top.sv")
	require.NoError(t, err)
	require.Equal(t, "src/defs.svh", resolved)
}

func TestResolveIncludeFallsBackToIncludeDirs(t *testing.T) {
	fs := vfs.NewMapFileSystem(map[string]string{
		"include/defs.svh": "// global",
	})
	ls, err := Build(fs, Options{IncludeDirs: []string{"include"}})
	require.NoError(t, err)

	resolved, err := ls.ResolveInclude("defs.svh", "src/top.sv")
	require.NoError(t, err)
	require.Equal(t, "include/defs.svh", resolved)
}

func TestLoadMapFileParsesArrowAndBareEntries(t *testing.T) {
	fs := vfs.NewMapFileSystem(map[string]string{
		"libs.map": "// comment\nfoo -> vendor/foo.sv\nvendor/bar.sv\n",
	})
	entries, err := LoadMapFile(fs, "libs.map")
	require.NoError(t, err)
	require.Equal(t, "vendor/foo.sv", entries["foo"])
	require.Equal(t, "vendor/bar.sv", entries["bar"])
}

func TestApplyMapFileRegistersEntries(t *testing.T) {
	fs := vfs.NewMapFileSystem(map[string]string{})
	ls, err := Build(fs, Options{})
	require.NoError(t, err)

	ls.ApplyMapFile(map[string]string{"foo": "vendor/foo.sv"})
	foo := ls.ResolveModule("foo")
	require.Len(t, foo, 1)
	require.Equal(t, "vendor/foo.sv", foo[0].Path)
}
