package svparser

import (
	"github.com/svfront/svfront/fcontent"
	"github.com/svfront/svfront/ids"
	"github.com/svfront/svfront/locmap"
	"github.com/svfront/svfront/symtab"
)

// Parse runs the two-pass strategy described on ParseSLL/ParseLL: it
// tokenizes expanded once and first attempts the strict pass. If that
// fails, it reruns the same tokens through the tolerant pass and returns
// every accumulated syntax error instead of just the first one. cache may be
// nil, in which case reported positions stay in expanded-text coordinates.
func Parse(expanded []byte, file ids.PathId, symbols *symtab.Table, cache *locmap.Cache) (*fcontent.FileContent, []*ParseError) {
	toks := NewLexer(expanded).Tokenize()

	if tree, err := ParseSLL(toks, file, symbols); err == nil {
		return tree, nil
	}

	tree, listener := ParseLL(toks, file, symbols, cache)
	return tree, listener.Errors
}

// MergeSentinels walks tree looking for PreprocEndKind nodes tagged with a
// SentinelRef, deep-copying the referenced preprocessor-tree subtree from pp
// into tree at that position. This is sentinel merging: the parser tree
// defers to the preprocessor tree for the directive text it spans instead
// of re-lexing it, so a later consumer walking the parser tree sees both
// the code the preprocessor emitted and the directives that produced it.
func MergeSentinels(tree, pp *fcontent.FileContent) {
	var sentinels []ids.NodeId
	tree.Walk(tree.Root(), func(id ids.NodeId) bool {
		n := tree.Node(id)
		if n.Kind == fcontent.PreprocEndKind && !n.SentinelRef.IsBad() {
			sentinels = append(sentinels, id)
		}
		return true
	})
	for _, id := range sentinels {
		n := tree.Node(id)
		fcontent.CloneSubtree(tree, n.Parent, pp, n.SentinelRef)
	}
}
