package fcontent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svfront/svfront/ids"
)

func TestAddChildAndWalkOrder(t *testing.T) {
	fc := New(ids.PathId(1), false, paSourceText)
	root := fc.Root()

	a := fc.AddChild(root, VObject{Kind: paModuleDecl, Start: Position{Line: 1, Column: 1}})
	b := fc.AddChild(root, VObject{Kind: paModuleDecl, Start: Position{Line: 5, Column: 1}})

	assert.Equal(t, []ids.NodeId{a, b}, fc.Children(root))

	var visited []ids.NodeId
	fc.Walk(root, func(id ids.NodeId) bool {
		visited = append(visited, id)
		return true
	})
	assert.Equal(t, []ids.NodeId{root, a, b}, visited)

	require.NoError(t, fc.ValidateInvariants())
}

func TestCloneSubtreeIsIndependent(t *testing.T) {
	src := New(ids.PathId(1), true, ppRoot)
	def := src.AddChild(src.Root(), VObject{Kind: ppDefine, Symbol: ids.SymbolId(7)})
	src.AddChild(def, VObject{Kind: ppMacroBodyToken, Symbol: ids.SymbolId(8)})

	dst := New(ids.PathId(2), false, paSourceText)
	cloned := CloneSubtree(dst, dst.Root(), src, def)

	require.False(t, cloned.IsBad())
	assert.Equal(t, ppDefine, dst.Node(cloned).Kind)
	assert.Len(t, dst.Children(cloned), 1)

	// mutating the clone must not affect the source tree
	dst.MutateNode(cloned, func(v *VObject) { v.Symbol = ids.SymbolId(99) })
	assert.Equal(t, ids.SymbolId(7), src.Node(def).Symbol)
}

func TestValidateInvariantsDetectsOutOfOrderSpans(t *testing.T) {
	fc := New(ids.PathId(1), false, paSourceText)
	fc.AddChild(fc.Root(), VObject{Kind: paModuleDecl, Start: Position{Line: 5, Column: 1}})
	fc.AddChild(fc.Root(), VObject{Kind: paModuleDecl, Start: Position{Line: 1, Column: 1}})

	err := fc.ValidateInvariants()
	require.Error(t, err)
	var invErr *InvariantError
	assert.ErrorAs(t, err, &invErr)
}
