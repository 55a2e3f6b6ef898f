package compile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/svfront/svfront/fcontent"
	"github.com/svfront/svfront/ids"
	"github.com/svfront/svfront/symtab"
	"github.com/svfront/svfront/uhdm"
)

// buildNode registers name (if non-empty) and appends a child of kind under
// parent, returning its NodeId. It mirrors svparser's own addNode, since
// these tests build a parser tree by hand rather than going through
// svparser itself.
func buildNode(tree *fcontent.FileContent, symbols *symtab.Table, parent ids.NodeId, kind fcontent.Kind, name string) ids.NodeId {
	var sym ids.SymbolId
	if name != "" {
		sym = ids.SymbolId(symbols.RegisterSymbol(name))
	}
	return tree.AddChild(parent, fcontent.VObject{Kind: kind, Symbol: sym})
}

// newCounterModule builds the parser-tree shape svparser would produce for:
//
//	module counter #(parameter WIDTH) (input clk, output count);
//	  wire done;
//	  assign done = clk;
//	  always_ff begin : body
//	    count <= clk;
//	  end
//	  generate
//	    if (WIDTH) begin
//	      adder u_adder;
//	    end
//	  endgenerate
//	  task incr;
//	  endtask
//	endmodule
func newCounterModule(symbols *symtab.Table) (*fcontent.FileContent, ids.NodeId) {
	tree := fcontent.NewParserTree(ids.PathId(1))
	mod := buildNode(tree, symbols, tree.Root(), fcontent.ModuleDeclKind, "counter")

	params := buildNode(tree, symbols, mod, fcontent.ParameterDeclKind, "")
	buildNode(tree, symbols, params, fcontent.ParamAssignmentKind, "WIDTH")

	ports := buildNode(tree, symbols, mod, fcontent.PortListKind, "")
	clkPort := buildNode(tree, symbols, ports, fcontent.PortDeclKind, "clk")
	buildNode(tree, symbols, clkPort, fcontent.KeywordTerminalKind, "input")
	countPort := buildNode(tree, symbols, ports, fcontent.PortDeclKind, "count")
	buildNode(tree, symbols, countPort, fcontent.KeywordTerminalKind, "output")

	buildNode(tree, symbols, mod, fcontent.NetDeclKind, "done")

	assign := buildNode(tree, symbols, mod, fcontent.ContinuousAssignKind, "assign")
	buildNode(tree, symbols, assign, fcontent.IdentifierKind, "done")

	always := buildNode(tree, symbols, mod, fcontent.AlwaysBlockKind, "always_ff")
	block := buildNode(tree, symbols, always, fcontent.SeqBlockKind, "begin")
	buildNode(tree, symbols, block, fcontent.IdentifierKind, "body")
	nb := buildNode(tree, symbols, block, fcontent.NonblockingAssignKind, "count")
	buildNode(tree, symbols, nb, fcontent.IdentifierKind, "count")

	gen := buildNode(tree, symbols, mod, fcontent.GenerateBlockKind, "generate")
	genIf := buildNode(tree, symbols, gen, fcontent.GenerateIfKind, "if")
	genIfBody := buildNode(tree, symbols, genIf, fcontent.SeqBlockKind, "begin")
	inst := buildNode(tree, symbols, genIfBody, fcontent.InstantiationKind, "adder")
	buildNode(tree, symbols, inst, fcontent.IdentifierKind, "u_adder")

	task := buildNode(tree, symbols, mod, fcontent.TaskDeclKind, "incr")
	_ = task

	return tree, mod
}

func TestCompileDesignPopulatesModuleBody(t *testing.T) {
	symbols := symtab.NewTable()
	tree, _ := newCounterModule(symbols)
	design := uhdm.NewDesign(uhdm.NewSerializer())

	NewCompileDesign(symbols, design).Compile(tree)

	def, ok := design.Definitions["counter"]
	require.True(t, ok)
	require.Equal(t, uhdm.KindModule, def.Kind())

	require.Len(t, def.Parameters, 1)
	require.Equal(t, "WIDTH", def.Parameters[0].Name)
	require.False(t, def.Parameters[0].IsLocal)

	require.Len(t, def.Ports, 2)
	require.Equal(t, "clk", def.Ports[0].Name)
	require.Equal(t, uhdm.DirInput, def.Ports[0].Direction)
	require.Equal(t, "count", def.Ports[1].Name)
	require.Equal(t, uhdm.DirOutput, def.Ports[1].Direction)

	require.Len(t, def.Nets, 1)
	require.Equal(t, "done", def.Nets[0].Name)

	require.Len(t, def.ContAssigns, 1)
	require.Equal(t, "done", def.ContAssigns[0].Lhs.Name)

	require.Len(t, def.Processes, 1)
	require.Equal(t, uhdm.ProcessAlwaysFF, def.Processes[0].ProcessKind())
	require.NotNil(t, def.Processes[0].Body)
	require.Equal(t, uhdm.StmtBlockKind, def.Processes[0].Body.StmtKind)
	require.Equal(t, "body", def.Processes[0].Body.Label)
	require.Len(t, def.Processes[0].Body.Children, 1)
	require.Equal(t, uhdm.StmtNonblockingAssignKind, def.Processes[0].Body.Children[0].StmtKind)
	require.Equal(t, "count", def.Processes[0].Body.Children[0].Lhs.Name)

	require.Len(t, def.GenerateRegions, 1)
	require.Equal(t, uhdm.GenerateIfKind, def.GenerateRegions[0].RegionKind())
	require.Len(t, def.GenerateRegions[0].Body, 1)
	require.Equal(t, "adder", def.GenerateRegions[0].Body[0].TypeName)
	require.Equal(t, "u_adder", def.GenerateRegions[0].Body[0].Name)

	require.Len(t, def.TaskFuncs, 1)
	require.Equal(t, "incr", def.TaskFuncs[0].Name)
	require.True(t, def.TaskFuncs[0].IsTask)
}

func TestCompileDesignSkipsNonDeclTopLevelNodes(t *testing.T) {
	symbols := symtab.NewTable()
	tree := fcontent.NewParserTree(ids.PathId(1))
	buildNode(tree, symbols, tree.Root(), fcontent.CommentTerminalKind, "// stray")

	design := uhdm.NewDesign(uhdm.NewSerializer())
	NewCompileDesign(symbols, design).Compile(tree)

	require.Empty(t, design.Definitions)
}

func TestCompileDesignLastDefinitionWinsAcrossFiles(t *testing.T) {
	symbols := symtab.NewTable()
	design := uhdm.NewDesign(uhdm.NewSerializer())
	compiler := NewCompileDesign(symbols, design)

	first := fcontent.NewParserTree(ids.PathId(1))
	buildNode(first, symbols, first.Root(), fcontent.ModuleDeclKind, "top")
	compiler.Compile(first)

	second := fcontent.NewParserTree(ids.PathId(2))
	topAgain := buildNode(second, symbols, second.Root(), fcontent.ModuleDeclKind, "top")
	buildNode(second, symbols, topAgain, fcontent.NetDeclKind, "extra")
	compiler.Compile(second)

	require.Len(t, design.Definitions["top"].Nets, 1)
}
