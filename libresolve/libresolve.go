// Package libresolve turns -y/-v/-I command-line flags and .map/.cfg
// library-map files into a LibrarySet: the set of files a design may
// reference by module name alone, without an explicit source path, plus
// the ordinary include-directory search used by `include directives and
// bare file arguments.
//
// Grounded on resolver.go's SourceResolver/CompositeResolver/
// WithStandardImports chain-of-resolvers idiom: SourceResolver's "try each
// import path in turn, first hit wins" shape generalizes here to
// LibrarySet.ResolveInclude's "try the including file's directory, then
// each include directory, first hit wins" search, while
// LibrarySet.ResolveModule returns every -y/-v/.map candidate registered
// for a module name, in library-declaration order.
package libresolve

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/svfront/svfront/vfs"
)

// LibraryId identifies which library (a -y directory, a -v file, or a
// .map/.cfg entry) a resolved file came from, so later diagnostics can
// report "found in library N" rather than only a bare path.
type LibraryId uint32

// Resolved is one file LibrarySet located, alongside which library (if any)
// it was found through.
type Resolved struct {
	Path    string
	Library LibraryId
}

// Options configures library resolution, mirroring the -y/-v/-I/+libext+
// command-line surface.
type Options struct {
	// LibDirs are -y directories: scanned recursively for files whose
	// extension matches one of LibExts, each becoming its own library.
	LibDirs []string
	// LibFiles are -v files: each file is its own library, regardless of
	// extension.
	LibFiles []string
	// IncludeDirs are -I directories: plain search paths for `include and
	// bare source arguments, not treated as libraries.
	IncludeDirs []string
	// LibExts are +libext+ suffixes (each including its leading dot, e.g.
	// ".sv", ".v"); a -y directory member must match one of these to be
	// considered part of the library.
	LibExts []string
}

// LibrarySet is the resolved form of Options: a FS-independent lookup table
// from module-like bare name to candidate source files, plus the ordinary
// include-directory search list.
type LibrarySet struct {
	fs vfs.FileSystem

	libDirs     []string
	libFiles    []string
	includeDirs []string
	libExts     []string

	// members maps a bare module name (the file's stem) to every file found
	// for it across every library, in library-declaration order; ambiguity
	// (more than one candidate) is not reported here: ResolveModule returns
	// every candidate and the caller chooses among them.
	members map[string][]Resolved
}

// Build scans every -y directory and registers every -v file, returning a
// ready-to-query LibrarySet. It does not touch IncludeDirs: those are
// consulted lazily by ResolveInclude instead of being scanned up front.
func Build(fs vfs.FileSystem, opts Options) (*LibrarySet, error) {
	ls := &LibrarySet{
		fs:          fs,
		libDirs:     opts.LibDirs,
		libFiles:    opts.LibFiles,
		includeDirs: opts.IncludeDirs,
		libExts:     opts.LibExts,
		members:     map[string][]Resolved{},
	}
	if len(ls.libExts) == 0 {
		ls.libExts = []string{".sv", ".v"}
	}

	for i, dir := range ls.libDirs {
		if err := ls.scanLibDir(LibraryId(i+1), dir); err != nil {
			return nil, err
		}
	}
	base := LibraryId(len(ls.libDirs) + 1)
	for i, f := range ls.libFiles {
		ls.register(vfs.Stem(f), Resolved{Path: f, Library: base + LibraryId(i)})
	}
	return ls, nil
}

// scanLibDir recursively lists dir once via the FS's own glob contract, then
// filters the result against every +libext+ suffix with doublestar.Match
// directly, rather than issuing one glob per extension: a -y directory with
// many +libext+ suffixes should not pay for a redundant directory walk per
// suffix.
func (ls *LibrarySet) scanLibDir(id LibraryId, dir string) error {
	all, err := ls.fs.Glob(dir, "**/*")
	if err != nil {
		return fmt.Errorf("scanning library directory %q: %w", dir, err)
	}
	for _, m := range all {
		base := filepath.Base(m)
		for _, ext := range ls.libExts {
			ok, err := doublestar.Match("*"+ext, base)
			if err != nil {
				return fmt.Errorf("matching +libext+ pattern %q: %w", ext, err)
			}
			if ok {
				ls.register(vfs.Stem(m), Resolved{Path: m, Library: id})
				break
			}
		}
	}
	return nil
}

func (ls *LibrarySet) register(name string, r Resolved) {
	ls.members[name] = append(ls.members[name], r)
}

// ResolveModule looks up name as a library member (the bare module name a
// design instantiated but never explicitly compiled), returning every
// candidate file it was found in. An empty result means no -y/-v library
// claims to define it.
func (ls *LibrarySet) ResolveModule(name string) []Resolved {
	return ls.members[name]
}

// ResolveInclude resolves an `include argument by first treating path as
// relative to the including file's directory (whence), then trying each of
// IncludeDirs in order, mirroring SourceResolver's "try each import path,
// first hit wins" search.
func (ls *LibrarySet) ResolveInclude(path, whence string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	candidates := make([]string, 0, len(ls.includeDirs)+1)
	if whence != "" {
		candidates = append(candidates, filepath.Join(filepath.Dir(whence), path))
	}
	for _, dir := range ls.includeDirs {
		candidates = append(candidates, filepath.Join(dir, path))
	}
	var firstErr error
	for _, c := range candidates {
		if _, err := ls.fs.Open(c); err == nil {
			return c, nil
		} else if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = fmt.Errorf("include file %q not found", path)
	}
	return "", firstErr
}

// LoadMapFile parses a .map or .cfg library-map file: one `name -> path`
// (or plain `path`) per non-blank, non-comment ("//" or "#") line. A bare
// path line registers under its own stem, matching how a -v file is
// registered.
func LoadMapFile(fs vfs.FileSystem, path string) (map[string]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries := map[string]string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
			continue
		}
		if name, rest, ok := strings.Cut(line, "->"); ok {
			entries[strings.TrimSpace(name)] = strings.TrimSpace(rest)
			continue
		}
		entries[vfs.Stem(line)] = line
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ApplyMapFile folds the entries loaded from a .map/.cfg file into ls as an
// additional library, so later ResolveModule calls see those names too.
func (ls *LibrarySet) ApplyMapFile(entries map[string]string) {
	id := LibraryId(len(ls.libDirs) + len(ls.libFiles) + 1)
	for name, path := range entries {
		ls.register(name, Resolved{Path: path, Library: id})
	}
}
