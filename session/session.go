// Package session wraps the per-invocation shared state every later stage
// reads from: the interned symbol/path table, the filesystem binding, the
// diagnostic handler, and the compilation units macros live in. It is the
// single place that state is constructed and handed down, the same role
// the Compiler struct plays as the shared-state root in compiler.go.
package session

import (
	"github.com/svfront/svfront/preprocess"
	"github.com/svfront/svfront/reporter"
	"github.com/svfront/svfront/symtab"
	"github.com/svfront/svfront/vfs"
)

// Session owns the state shared across every stage of one compilation run.
// A Session is constructed once per invocation of the front end and handed
// down through libresolve, preprocess, splitter, svparser, compile,
// elaborate, bind, and integrity.
type Session struct {
	fs      vfs.FileSystem
	symbols *symtab.Table
	handler *reporter.Handler

	globalUnit *preprocess.CompilationUnit
	fileUnits  map[string]*preprocess.CompilationUnit

	cache *PreprocessCache
}

// Options configures a new Session.
type Options struct {
	FS vfs.FileSystem
	// Handler receives every diagnostic reported during the run. A nil
	// Handler gets a fresh always-continue one.
	Handler *reporter.Handler
	// CacheDir, if non-empty, turns on the in-memory PreprocessCache (see
	// cache.go); the directory itself is never read or written.
	CacheDir string
}

// New constructs a Session from opts, defaulting FS to vfs.OSFileSystem{}
// and Handler to a fresh reporter.Handler if left zero.
func New(opts Options) *Session {
	fs := opts.FS
	if fs == nil {
		fs = vfs.OSFileSystem{}
	}
	handler := opts.Handler
	if handler == nil {
		handler = reporter.NewHandler(nil)
	}
	s := &Session{
		fs:         fs,
		symbols:    symtab.NewTable(),
		handler:    handler,
		globalUnit: preprocess.NewCompilationUnit(false),
		fileUnits:  map[string]*preprocess.CompilationUnit{},
	}
	if opts.CacheDir != "" {
		s.cache = NewPreprocessCache(opts.CacheDir, fs)
	}
	return s
}

func (s *Session) FS() vfs.FileSystem       { return s.fs }
func (s *Session) Symbols() *symtab.Table   { return s.symbols }
func (s *Session) Handler() *reporter.Handler { return s.handler }
func (s *Session) Cache() *PreprocessCache  { return s.cache }

// NewCompilationUnit returns the unit a file should preprocess against:
// a fresh per-file unit when fileUnit is true (mirroring -fileunit), or
// the single process-global unit shared by every non-fileunit file.
func (s *Session) NewCompilationUnit(path string, fileUnit bool) *preprocess.CompilationUnit {
	if !fileUnit {
		return s.globalUnit
	}
	if u, ok := s.fileUnits[path]; ok {
		return u
	}
	u := preprocess.NewCompilationUnit(true)
	s.fileUnits[path] = u
	return u
}

// Preprocessor returns a preprocess.Preprocessor configured against this
// Session's filesystem, symbol table, and diagnostic handler.
func (s *Session) Preprocessor(includeDirs []string) *preprocess.Preprocessor {
	return &preprocess.Preprocessor{
		FS:          s.fs,
		Symbols:     s.symbols,
		IncludeDirs: includeDirs,
		Handler:     s.handler,
	}
}
