package svparser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svfront/svfront/fcontent"
	"github.com/svfront/svfront/ids"
	"github.com/svfront/svfront/symtab"
)

func TestParseSLLModuleDecl(t *testing.T) {
	src := []byte(`
module counter #(parameter WIDTH = 8) (input clk, input rst, output logic [WIDTH-1:0] q);
  logic [WIDTH-1:0] q;
  always_ff @(posedge clk) begin
    if (rst) begin
      q <= 0;
    end else begin
      q <= q + 1;
    end
  end
endmodule
`)
	toks := NewLexer(src).Tokenize()
	symbols := symtab.NewTable()
	tree, err := ParseSLL(toks, ids.PathId(1), symbols)
	require.NoError(t, err)
	require.NotNil(t, tree)

	var moduleCount int
	tree.Walk(tree.Root(), func(id ids.NodeId) bool {
		if tree.Node(id).Kind == fcontent.ModuleDeclKind {
			moduleCount++
		}
		return true
	})
	require.Equal(t, 1, moduleCount)
}

func TestParseLLRecoversFromSyntaxError(t *testing.T) {
	src := []byte(`
module broken(
  logic a
endmodule

module ok;
  assign x = 1;
endmodule
`)
	toks := NewLexer(src).Tokenize()
	symbols := symtab.NewTable()

	_, sllErr := ParseSLL(toks, ids.PathId(1), symbols)
	require.Error(t, sllErr)

	tree, listener := ParseLL(toks, ids.PathId(1), symbols, nil)
	require.NotNil(t, tree)
	require.NotEmpty(t, listener.Errors)

	var moduleCount int
	tree.Walk(tree.Root(), func(id ids.NodeId) bool {
		if tree.Node(id).Kind == fcontent.ModuleDeclKind {
			moduleCount++
		}
		return true
	})
	require.GreaterOrEqual(t, moduleCount, 1)
}

func TestParseGenerateAndInstantiation(t *testing.T) {
	src := []byte(`
module top;
  generate
    if (1) begin : g
      adder u_adder(.a(a), .b(b));
    end
  endgenerate
endmodule
`)
	toks := NewLexer(src).Tokenize()
	symbols := symtab.NewTable()
	tree, err := ParseSLL(toks, ids.PathId(1), symbols)
	require.NoError(t, err)

	var sawGenIf, sawInst bool
	tree.Walk(tree.Root(), func(id ids.NodeId) bool {
		switch tree.Node(id).Kind {
		case fcontent.GenerateIfKind:
			sawGenIf = true
		case fcontent.InstantiationKind:
			sawInst = true
		}
		return true
	})
	require.True(t, sawGenIf)
	require.True(t, sawInst)
}

func TestMergeSentinelsCopiesPreprocessorSubtree(t *testing.T) {
	pp := fcontent.NewPreprocessorTree(ids.PathId(1))
	defNode := pp.AddChild(pp.Root(), fcontent.VObject{Kind: fcontent.DefineKind, File: ids.PathId(1)})

	tree := fcontent.NewParserTree(ids.PathId(1))
	moduleNode := tree.AddChild(tree.Root(), fcontent.VObject{Kind: fcontent.ModuleDeclKind, File: ids.PathId(1)})
	tree.AddChild(moduleNode, fcontent.VObject{
		Kind:        fcontent.PreprocEndKind,
		File:        ids.PathId(1),
		SentinelRef: defNode,
	})

	MergeSentinels(tree, pp)

	var sawDefine bool
	tree.Walk(tree.Root(), func(id ids.NodeId) bool {
		if tree.Node(id).Kind == fcontent.DefineKind {
			sawDefine = true
		}
		return true
	})
	require.True(t, sawDefine)
}
