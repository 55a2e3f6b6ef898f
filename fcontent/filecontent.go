// Package fcontent implements the arena-backed ordered tree of VObject
// nodes: two FileContent trees exist per source file (the
// preprocessor-directive tree and the parser syntax tree), and the parser
// tree references preprocessor-tree subtrees by sentinel markers resolved
// at tree-walk time ("sentinel merging").
//
// Grounded on the ast package, which also represents a parsed file as a
// tree of position-carrying nodes (ast/node.go's Node/Token), but here the
// tree is a flat arena of structs indexed by NodeId rather than a graph of
// pointers-to-interfaces, matching an arena-backed, single-owner ownership
// model.
package fcontent

import "github.com/svfront/svfront/ids"

// Position is a 1-indexed (line, column) pair in some file's text.
type Position struct {
	Line, Column uint32
}

// VObject is one node in a FileContent arena: a kind tag, the symbol this
// node names (an identifier or literal text), the file it lexically came
// from, its span, and four links into the arena (parent, first child, next
// sibling, and a back-reference used only by PREPROC_END sentinels).
type VObject struct {
	Kind   Kind
	Symbol ids.SymbolId
	File   ids.PathId
	Start  Position
	End    Position

	Parent      ids.NodeId
	FirstChild  ids.NodeId
	NextSibling ids.NodeId

	// SentinelRef is populated only on paPreprocEnd nodes: it names the
	// preprocessor-tree NodeId whose subtree must be deep-copied into the
	// AST at this position.
	SentinelRef ids.NodeId
}

// FileContent is an arena of VObjects representing either the preprocessor
// tree or the parser tree of one source file (or, after stage 4's
// chunking, a synthetic parent stitching several chunk FileContents
// together in source order).
type FileContent struct {
	// File is the interned path of the source file this tree describes.
	File ids.PathId
	// IsPreprocessorTree distinguishes a pp-tree FileContent from a
	// pa-tree FileContent, §3.4's two-trees-per-file model.
	IsPreprocessorTree bool

	nodes []VObject // index 0 is the unused Bad sentinel; root lives at index 1
}

// New creates an empty FileContent for file, pre-seeded with a root node of
// kind rootKind.
func New(file ids.PathId, isPreprocessorTree bool, rootKind Kind) *FileContent {
	fc := &FileContent{File: file, IsPreprocessorTree: isPreprocessorTree}
	fc.nodes = make([]VObject, 1, 64) // reserve index 0 as BadNodeId
	fc.nodes = append(fc.nodes, VObject{Kind: rootKind, File: file})
	return fc
}

// NewPreprocessorTree creates an empty preprocessor-directive FileContent
// for file, rooted at the pp* root kind.
func NewPreprocessorTree(file ids.PathId) *FileContent { return New(file, true, ppRoot) }

// NewParserTree creates an empty parser-syntax FileContent for file, rooted
// at the pa* root kind.
func NewParserTree(file ids.PathId) *FileContent { return New(file, false, paSourceText) }

// Root returns the NodeId of the tree's root, always 1 for a non-empty tree.
func (fc *FileContent) Root() ids.NodeId { return ids.NodeId(1) }

// Node returns a copy of the VObject stored at id. Callers must not assume
// the returned value stays in sync with later mutations; use MutateNode for
// in-place edits.
func (fc *FileContent) Node(id ids.NodeId) VObject {
	if int(id) >= len(fc.nodes) {
		return VObject{}
	}
	return fc.nodes[id]
}

// MutateNode applies fn to the node stored at id in place.
func (fc *FileContent) MutateNode(id ids.NodeId, fn func(*VObject)) {
	if int(id) >= len(fc.nodes) {
		return
	}
	fn(&fc.nodes[id])
}

// Len returns the number of live nodes in the arena, including the root.
func (fc *FileContent) Len() int { return len(fc.nodes) - 1 }

// AddChild appends a new node as the last child of parent, maintaining the
// invariant that preorder traversal yields source order as long as callers
// always append children left-to-right.
func (fc *FileContent) AddChild(parent ids.NodeId, v VObject) ids.NodeId {
	v.Parent = parent
	id := ids.NodeId(len(fc.nodes))
	fc.nodes = append(fc.nodes, v)

	if int(parent) >= len(fc.nodes) {
		return id
	}
	if fc.nodes[parent].FirstChild.IsBad() {
		fc.nodes[parent].FirstChild = id
		return id
	}
	// walk to the last existing child and link id as its next sibling
	last := fc.nodes[parent].FirstChild
	for !fc.nodes[last].NextSibling.IsBad() {
		last = fc.nodes[last].NextSibling
	}
	fc.nodes[last].NextSibling = id
	return id
}

// Children returns the ordered list of id's direct children.
func (fc *FileContent) Children(id ids.NodeId) []ids.NodeId {
	if int(id) >= len(fc.nodes) {
		return nil
	}
	var out []ids.NodeId
	for child := fc.nodes[id].FirstChild; !child.IsBad(); child = fc.nodes[child].NextSibling {
		out = append(out, child)
	}
	return out
}

// Walk performs a depth-first preorder traversal starting at id, invoking
// visit(nodeId) for every node including id itself. Returning false from
// visit skips that node's children but continues the traversal.
func (fc *FileContent) Walk(id ids.NodeId, visit func(ids.NodeId) bool) {
	if int(id) >= len(fc.nodes) || id.IsBad() {
		return
	}
	if !visit(id) {
		return
	}
	for _, child := range fc.Children(id) {
		fc.Walk(child, visit)
	}
}

// CloneSubtree deep-copies the subtree rooted at srcRoot (from src, which
// may be a different FileContent, e.g. the preprocessor tree) into dst as a
// new child of dstParent. It is the mechanism behind sentinel merging
// and parameter-override specialization's clone_tree
//, generalized here to the FileContent/VObject level.
func CloneSubtree(dst *FileContent, dstParent ids.NodeId, src *FileContent, srcRoot ids.NodeId) ids.NodeId {
	if int(srcRoot) >= len(src.nodes) || srcRoot.IsBad() {
		return ids.BadNodeId
	}
	v := src.nodes[srcRoot]
	v.Parent = ids.BadNodeId
	v.FirstChild = ids.BadNodeId
	v.NextSibling = ids.BadNodeId
	newId := dst.AddChild(dstParent, v)
	for _, child := range src.Children(srcRoot) {
		CloneSubtree(dst, newId, src, child)
	}
	return newId
}

// ValidateInvariants checks three structural invariants:
// (a) every non-root node's parent lists it among its children, (c)
// preorder traversal yields non-decreasing start positions, (d) no cycles
// (detected via a visited set during the walk). Invariant (b), that every
// node's span lies within its parent's span, is not checked. It returns
// the first violation found, or nil.
func (fc *FileContent) ValidateInvariants() error {
	visited := make(map[ids.NodeId]bool, len(fc.nodes))
	var lastStart Position
	var err error
	fc.Walk(fc.Root(), func(id ids.NodeId) bool {
		if err != nil {
			return false
		}
		if visited[id] {
			err = &InvariantError{Node: id, Reason: "cycle detected"}
			return false
		}
		visited[id] = true

		n := fc.nodes[id]
		if id != fc.Root() {
			found := false
			for _, sib := range fc.Children(n.Parent) {
				if sib == id {
					found = true
					break
				}
			}
			if !found {
				err = &InvariantError{Node: id, Reason: "parent does not list this node as a child"}
				return false
			}
		}
		if before(n.Start, lastStart) {
			err = &InvariantError{Node: id, Reason: "preorder traversal is not in source order"}
			return false
		}
		lastStart = n.Start
		return true
	})
	return err
}

func before(a, b Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}

// InvariantError reports a FileContent structural-invariant violation.
type InvariantError struct {
	Node   ids.NodeId
	Reason string
}

func (e *InvariantError) Error() string { return e.Reason }
