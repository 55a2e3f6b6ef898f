// Package vfs implements the filesystem abstraction contract: open/read,
// open/write, directory listing with glob, path joining, leaf/stem
// extraction, line reading by number, and path canonicalization for id
// interning. Like package symtab, this is an external collaborator kept out
// of the core design; this implementation is the minimal real filesystem
// binding the rest of the pipeline needs to run.
//
// Grounded on the resolver.go SourceResolver, which wraps os.Open
// behind a pluggable Accessor func for testability; FileSystem generalizes
// that same "pluggable os.Open" idiom to the full read/write/list contract.
package vfs

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileSystem is the contract every stage uses to touch persistent storage.
// All persistent paths are addressed as canonicalized strings by callers
// above package ids; conversion to/from ids.PathId happens in symtab at the
// boundary, never inside FileSystem itself.
type FileSystem interface {
	Open(path string) (io.ReadCloser, error)
	Create(path string) (io.WriteCloser, error)
	// Glob lists files under dir matching pattern (a doublestar glob, so
	// "**" matches across directory boundaries).
	Glob(dir, pattern string) ([]string, error)
	// ReadLine returns the 1-indexed lineNb of the file at path, without a
	// trailing newline. Used by diagnostic formatting to show a source
	// snippet alongside file:line:column.
	ReadLine(path string, lineNb uint32) (string, error)
	// Canonicalize resolves path to an absolute, symlink-free form suitable
	// for interning as a PathId so that two spellings of the same file
	// intern to the same id.
	Canonicalize(path string) (string, error)
}

// Leaf returns the final path component, e.g. Leaf("a/b/c.sv") == "c.sv".
func Leaf(path string) string { return filepath.Base(path) }

// Stem returns the final path component without its extension, e.g.
// Stem("a/b/c.sv") == "c".
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Join joins path components using the platform separator, matching
// filepath.Join, but is named to mirror the contract's "path joining" verb.
func Join(elems ...string) string { return filepath.Join(elems...) }

// OSFileSystem is the default FileSystem, backed directly by the host OS.
type OSFileSystem struct{}

var _ FileSystem = OSFileSystem{}

func (OSFileSystem) Open(path string) (io.ReadCloser, error) { return os.Open(path) }

func (OSFileSystem) Create(path string) (io.WriteCloser, error) { return os.Create(path) }

func (OSFileSystem) Glob(dir, pattern string) ([]string, error) {
	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = filepath.Join(dir, m)
	}
	return out, nil
}

func (OSFileSystem) ReadLine(path string, lineNb uint32) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var n uint32
	for scanner.Scan() {
		n++
		if n == lineNb {
			return scanner.Text(), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (OSFileSystem) Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// file may not exist yet (e.g. a -o output path); fall back to the
		// absolute, non-symlink-resolved form.
		return abs, nil
	}
	return resolved, nil
}

// MapFileSystem is an in-memory FileSystem backed by a map, used extensively
// by tests throughout this module in place of OSFileSystem.
type MapFileSystem struct {
	Files map[string]string
}

var _ FileSystem = (*MapFileSystem)(nil)

func NewMapFileSystem(files map[string]string) *MapFileSystem {
	return &MapFileSystem{Files: files}
}

func (m *MapFileSystem) Open(path string) (io.ReadCloser, error) {
	content, ok := m.Files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func (m *MapFileSystem) Create(path string) (io.WriteCloser, error) {
	return &mapWriter{m: m, path: path}, nil
}

type mapWriter struct {
	m    *MapFileSystem
	path string
	buf  strings.Builder
}

func (w *mapWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *mapWriter) Close() error {
	w.m.Files[w.path] = w.buf.String()
	return nil
}

func (m *MapFileSystem) Glob(dir, pattern string) ([]string, error) {
	var out []string
	for path := range m.Files {
		if !strings.HasPrefix(path, dir) {
			continue
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), "/")
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, path)
		}
	}
	return out, nil
}

func (m *MapFileSystem) ReadLine(path string, lineNb uint32) (string, error) {
	content, ok := m.Files[path]
	if !ok {
		return "", os.ErrNotExist
	}
	lines := strings.Split(content, "\n")
	if lineNb == 0 || int(lineNb) > len(lines) {
		return "", io.EOF
	}
	return lines[lineNb-1], nil
}

func (m *MapFileSystem) Canonicalize(path string) (string, error) {
	return path, nil
}
