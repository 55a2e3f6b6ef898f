// Package ids defines the opaque, cheap-to-copy handle types shared across
// every stage of the front-end: interned symbols, interned filesystem paths,
// and arena indices into a FileContent's node table.
package ids

// SymbolId is an opaque handle to an interned string, unique per symbol
// table snapshot (see package symtab). Two SymbolIds compare equal if and
// only if they were interned from equal strings in the same table.
type SymbolId uint32

// BadSymbolId is the distinguished sentinel returned when a symbol lookup
// fails or a field was never populated.
const BadSymbolId SymbolId = 0

// IsBad reports whether id is the sentinel value.
func (id SymbolId) IsBad() bool { return id == BadSymbolId }

// PathId is an opaque handle to an interned, canonicalized filesystem path.
// Conversion to a platform path string happens only at the vfs boundary.
type PathId uint32

// BadPathId is the distinguished sentinel for an unresolved or absent path.
const BadPathId PathId = 0

func (id PathId) IsBad() bool { return id == BadPathId }

// NodeId indexes into a FileContent's node arena.
type NodeId uint32

// BadNodeId is the distinguished sentinel for "no such node" (e.g. a missing
// parent, sibling, or child link).
const BadNodeId NodeId = 0

func (id NodeId) IsBad() bool { return id == BadNodeId }

// UhdmId is a monotone identifier assigned to every UHDM object within a
// single Serializer arena (see package uhdm). Ids are never reused within
// the lifetime of the arena, even across clone_tree operations.
type UhdmId uint64

const BadUhdmId UhdmId = 0

func (id UhdmId) IsBad() bool { return id == BadUhdmId }
