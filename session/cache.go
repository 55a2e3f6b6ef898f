package session

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/svfront/svfront/preprocess"
	"github.com/svfront/svfront/vfs"
)

// PreprocessCache memoizes preprocess.Result values in memory for the life
// of a Session, keyed on the
// source path plus a content-and-macro-state hash, so an unmodified file
// with an unchanged set of active macros is not re-expanded.
//
// The key is the path, the file's own content hash, and the sorted set of
// currently-defined macro names in the CompilationUnit it would be
// preprocessed against (Preprocessor.CompilationUnit.DefinedNames) --
// macro bodies aren't hashed directly, since two runs that define the same
// name differently would already have produced a different expansion the
// first time through and invalidated downstream results, and excluding the
// bodies keeps the key cheap to compute per file per stage-4 bucket.
type PreprocessCache struct {
	dir string
	fs  vfs.FileSystem

	mem map[uint64]*preprocess.Result
}

// NewPreprocessCache returns an empty in-memory cache. dir and fs are stored
// but not used: entries are never written to or read from disk.
func NewPreprocessCache(dir string, fs vfs.FileSystem) *PreprocessCache {
	return &PreprocessCache{dir: dir, fs: fs, mem: map[uint64]*preprocess.Result{}}
}

// Key computes the cache key for path given its raw content and the macro
// names currently active in unit.
func Key(path string, content []byte, definedMacros []string) uint64 {
	names := append([]string(nil), definedMacros...)
	sort.Strings(names)

	h := xxhash.New()
	io.WriteString(h, path)
	h.Write([]byte{0})
	h.Write(content)
	h.Write([]byte{0})
	for _, n := range names {
		io.WriteString(h, n)
		h.Write([]byte{0})
	}
	return h.Sum64()
}

// Get returns the cached Result for key, if present.
func (c *PreprocessCache) Get(key uint64) (*preprocess.Result, bool) {
	r, ok := c.mem[key]
	return r, ok
}

// Put records result under key.
func (c *PreprocessCache) Put(key uint64, result *preprocess.Result) {
	c.mem[key] = result
}

// keyString renders a cache key as a stable hex filename component, for a
// future on-disk backing store (Open Question 2 only requires the in-memory
// keying scheme be content-addressed; persisting entries across process
// runs is left to a caller that wants one, via this helper).
func keyString(key uint64) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], key)
	return fmt.Sprintf("%x", b)
}
