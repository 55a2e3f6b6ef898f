// Package compile walks a parser-tree fcontent.FileContent (after
// svparser.MergeSentinels has spliced back any preprocessor-only subtrees)
// and populates a uhdm.Design with one uhdm.Definition per top-level
// module/interface/program/package/class/udp/checker declaration.
//
// Grounded on the corpus's own descriptor-building walk: a single recursive
// switch over node/element kinds, building a typed result tree one node at
// a time. compile generalizes that shape from building descriptorpb
// messages to building uhdm objects, and keeps the same "anything outside
// the modeled subset becomes an explicit Unsupported leaf rather than
// aborting the file" posture svparser itself already uses for statements it
// doesn't recognize.
package compile

import (
	"github.com/svfront/svfront/fcontent"
	"github.com/svfront/svfront/ids"
	"github.com/svfront/svfront/symtab"
	"github.com/svfront/svfront/uhdm"
)

var declKind = map[fcontent.Kind]uhdm.ObjectKind{
	fcontent.ModuleDeclKind:    uhdm.KindModule,
	fcontent.InterfaceDeclKind: uhdm.KindInterface,
	fcontent.ProgramDeclKind:   uhdm.KindProgram,
	fcontent.PackageDeclKind:   uhdm.KindPackage,
	fcontent.ClassDeclKind:     uhdm.KindClass,
	fcontent.UdpDeclKind:       uhdm.KindUdp,
	fcontent.CheckerDeclKind:   uhdm.KindChecker,
}

// CompileDesign compiles one parser tree into design, adding its top-level
// declarations to design.Definitions. Multiple trees (one per compiled file)
// may be compiled into the same design; later declarations with a name
// already present overwrite the earlier one, matching the corpus's own
// "last definition wins" multi-file compilation unit behavior rather than
// reporting a redefinition error here (integrity is where that check
// belongs).
type CompileDesign struct {
	symbols *symtab.Table
	design  *uhdm.Design
	ser     *uhdm.Serializer
}

// NewCompileDesign returns a compiler that adds every Definition it builds
// to design.
func NewCompileDesign(symbols *symtab.Table, design *uhdm.Design) *CompileDesign {
	return &CompileDesign{symbols: symbols, design: design, ser: design.Serializer}
}

// Compile walks every top-level declaration in tree and records it in the
// design. It never returns an error: an unrecognized top-level node is
// simply skipped, since svparser's own tolerant pass is where malformed
// input is already reported as a diagnostic.
func (c *CompileDesign) Compile(tree *fcontent.FileContent) {
	for _, child := range tree.Children(tree.Root()) {
		c.compileTopLevel(tree, child)
	}
}

func (c *CompileDesign) text(tree *fcontent.FileContent, id ids.NodeId) string {
	n := tree.Node(id)
	return c.symbols.Symbol(uint32(n.Symbol))
}

func (c *CompileDesign) compileTopLevel(tree *fcontent.FileContent, id ids.NodeId) {
	n := tree.Node(id)
	kind, ok := declKind[n.Kind]
	if !ok {
		return
	}

	name := c.text(tree, id)
	def := uhdm.NewDefinition(c.ser, kind, name, nil)
	for _, child := range tree.Children(id) {
		c.compileMember(tree, def, child)
	}
	c.design.Definitions[name] = def
}

// compileMember dispatches one direct child of a module/interface/.../
// checker declaration (or, recursively, of a generate region's plain-item
// children) into the owning Definition's body-item lists.
func (c *CompileDesign) compileMember(tree *fcontent.FileContent, def *uhdm.Definition, id ids.NodeId) {
	n := tree.Node(id)
	switch n.Kind {
	case fcontent.ParameterDeclKind:
		// the `#(...)` parameter port list: every child is an overridable
		// parameter, never a localparam (parseLocalParamDecl emits its
		// ParamAssignmentKind nodes directly under the declaration instead of
		// wrapped in a ParameterDeclKind, see the case below).
		for _, pc := range tree.Children(id) {
			def.Parameters = append(def.Parameters, uhdm.NewParameter(c.ser, c.text(tree, pc), false))
		}

	case fcontent.ParamAssignmentKind:
		// a body-level `parameter`/`localparam` declaration. svparser does
		// not keep which of the two keywords introduced it, so this is
		// conservatively recorded as overridable; elaborate applies an
		// override naming an actual localparam like any other override.
		def.Parameters = append(def.Parameters, uhdm.NewParameter(c.ser, c.text(tree, id), false))

	case fcontent.PortListKind:
		for _, pc := range tree.Children(id) {
			def.Ports = append(def.Ports, c.compilePort(tree, pc))
		}

	case fcontent.NetDeclKind:
		def.Nets = append(def.Nets, uhdm.NewNet(c.ser, c.text(tree, id), false))

	case fcontent.VarDeclKind:
		def.Variables = append(def.Variables, uhdm.NewVariable(c.ser, c.text(tree, id)))

	case fcontent.ContinuousAssignKind:
		def.ContAssigns = append(def.ContAssigns, c.compileContAssign(tree, id))

	case fcontent.AlwaysBlockKind, fcontent.InitialBlockKind:
		def.Processes = append(def.Processes, c.compileProcess(tree, id))

	case fcontent.GenerateBlockKind:
		for _, gc := range tree.Children(id) {
			c.compileGenerateMember(tree, def, gc)
		}

	case fcontent.TaskDeclKind, fcontent.FunctionDeclKind:
		def.TaskFuncs = append(def.TaskFuncs, c.compileTaskFunc(tree, id))

	case fcontent.InstantiationKind:
		def.Instantiations = append(def.Instantiations, c.compileInstantiation(tree, id))

	case fcontent.HierPathKind:
		// only meaningful directly under a ClassDeclKind: the base class
		// named by its `extends` clause.
		def.Extends = c.text(tree, id)

	case fcontent.TypedefDeclKind, fcontent.UnsupportedStmtKind:
		// typedef carries no recoverable name (svparser tags the node with
		// the `typedef` keyword itself, not the type name) and an
		// unsupported item has nothing structured to record; both are
		// intentionally dropped rather than faked into a placeholder.

	default:
	}
}

// compileGenerateMember handles one child of a `generate...endgenerate`
// block: a nested generate-if/generate-for becomes a GenerateRegion
// template for elaborate to expand, and anything else is an ordinary item
// that happens to live directly inside the generate block (SystemVerilog
// permits plain declarations and instantiations there unconditionally).
func (c *CompileDesign) compileGenerateMember(tree *fcontent.FileContent, def *uhdm.Definition, id ids.NodeId) {
	n := tree.Node(id)
	switch n.Kind {
	case fcontent.GenerateIfKind:
		def.GenerateRegions = append(def.GenerateRegions, c.compileGenerateIf(tree, id))
	case fcontent.GenerateForKind:
		def.GenerateRegions = append(def.GenerateRegions, c.compileGenerateFor(tree, id))
	default:
		c.compileMember(tree, def, id)
	}
}

func (c *CompileDesign) compileGenerateIf(tree *fcontent.FileContent, id ids.NodeId) *uhdm.GenerateRegion {
	region := uhdm.NewGenerateRegion(c.ser, "", uhdm.GenerateIfKind)
	children := tree.Children(id)
	if len(children) > 0 {
		region.Body = c.collectInstantiations(tree, children[0])
	}
	if len(children) > 1 {
		region.Else = c.collectInstantiations(tree, children[1])
	}
	return region
}

func (c *CompileDesign) compileGenerateFor(tree *fcontent.FileContent, id ids.NodeId) *uhdm.GenerateRegion {
	region := uhdm.NewGenerateRegion(c.ser, "", uhdm.GenerateForKind)
	// the `for (...)` header's genvar/init/condition/step is discarded by
	// svparser's skipExprUntil, so Genvar/Init/Cond2/Step stay zero-valued
	// here; elaborate cannot const-fold a loop bound it was never given, so
	// it expands a GenerateForKind region to exactly one GenScope at index 0.
	children := tree.Children(id)
	if len(children) > 0 {
		region.Body = c.collectInstantiations(tree, children[0])
	}
	return region
}

// collectInstantiations walks id's subtree (a single item, or a SeqBlockKind
// wrapping several) and returns every InstantiationKind node found, in
// source order.
func (c *CompileDesign) collectInstantiations(tree *fcontent.FileContent, id ids.NodeId) []*uhdm.Instantiation {
	var out []*uhdm.Instantiation
	tree.Walk(id, func(wid ids.NodeId) bool {
		if tree.Node(wid).Kind == fcontent.InstantiationKind {
			out = append(out, c.compileInstantiation(tree, wid))
		}
		return true
	})
	return out
}

var portDirection = map[string]uhdm.Direction{
	"input": uhdm.DirInput,
	"output": uhdm.DirOutput,
	"inout":  uhdm.DirInout,
}

func (c *CompileDesign) compilePort(tree *fcontent.FileContent, id ids.NodeId) *uhdm.Port {
	dir := uhdm.DirInput
	for _, dc := range tree.Children(id) {
		if tree.Node(dc).Kind == fcontent.KeywordTerminalKind {
			if d, ok := portDirection[c.text(tree, dc)]; ok {
				dir = d
			}
		}
	}
	return uhdm.NewPort(c.ser, c.text(tree, id), dir)
}

func (c *CompileDesign) compileContAssign(tree *fcontent.FileContent, id ids.NodeId) *uhdm.ContAssign {
	var lhs *uhdm.RefObj
	for _, ch := range tree.Children(id) {
		if tree.Node(ch).Kind == fcontent.IdentifierKind {
			lhs = uhdm.NewRefObj(c.ser, c.text(tree, ch))
			break
		}
	}
	// the assignment's right-hand expression is discarded by svparser's
	// skipExprUntil, so Rhs stays nil; compile has nothing to build it from
	// until svparser grows an expression grammar.
	return uhdm.NewContAssign(c.ser, lhs, nil)
}

var processKind = map[string]uhdm.ProcessKind{
	"always":       uhdm.ProcessAlways,
	"always_comb":  uhdm.ProcessAlwaysComb,
	"always_ff":    uhdm.ProcessAlwaysFF,
	"always_latch": uhdm.ProcessAlwaysLatch,
	"initial":      uhdm.ProcessInitial,
}

func (c *CompileDesign) compileProcess(tree *fcontent.FileContent, id ids.NodeId) *uhdm.Process {
	kind := processKind[c.text(tree, id)] // zero value ProcessAlways if unmatched
	var body *uhdm.Stmt
	if children := tree.Children(id); len(children) > 0 {
		body = c.compileStmt(tree, children[0])
	}
	return uhdm.NewProcess(c.ser, kind, body)
}

func (c *CompileDesign) compileTaskFunc(tree *fcontent.FileContent, id ids.NodeId) *uhdm.TaskFunc {
	tf := uhdm.NewTaskFunc(c.ser, c.text(tree, id), tree.Node(id).Kind == fcontent.TaskDeclKind)
	for _, ch := range tree.Children(id) {
		tf.Body = append(tf.Body, c.compileStmt(tree, ch))
	}
	return tf
}

func (c *CompileDesign) compileInstantiation(tree *fcontent.FileContent, id ids.NodeId) *uhdm.Instantiation {
	name := ""
	for _, ch := range tree.Children(id) {
		if tree.Node(ch).Kind == fcontent.IdentifierKind {
			name = c.text(tree, ch)
			break
		}
	}
	return uhdm.NewInstantiation(c.ser, c.text(tree, id), name)
}

// compileStmt builds one node of a procedural statement tree. Anything
// outside the modeled subset (including statement shapes whose own body was
// itself left as an UnsupportedStmtKind leaf by svparser) compiles to a
// StmtUnsupportedKind leaf carrying whatever text the node's own Symbol
// happens to hold, matching Typespec's and svparser's own escape-hatch
// convention rather than dropping the node.
func (c *CompileDesign) compileStmt(tree *fcontent.FileContent, id ids.NodeId) *uhdm.Stmt {
	n := tree.Node(id)
	switch n.Kind {
	case fcontent.SeqBlockKind, fcontent.ParBlockKind:
		stmt := uhdm.NewStmt(c.ser, uhdm.StmtBlockKind)
		for _, ch := range tree.Children(id) {
			if tree.Node(ch).Kind == fcontent.IdentifierKind {
				if stmt.Label == "" {
					stmt.Label = c.text(tree, ch)
				}
				continue
			}
			stmt.Children = append(stmt.Children, c.compileStmt(tree, ch))
		}
		return stmt

	case fcontent.IfStmtKind, fcontent.IfElseStmtKind:
		stmt := uhdm.NewStmt(c.ser, uhdm.StmtIfKind)
		// the `(...)` guard expression is discarded by svparser's
		// skipExprUntil, so Cond stays nil.
		children := tree.Children(id)
		if len(children) > 0 {
			stmt.Children = append(stmt.Children, c.compileStmt(tree, children[0]))
		}
		if n.Kind == fcontent.IfElseStmtKind && len(children) > 1 {
			stmt.Else = c.compileStmt(tree, children[1])
		}
		return stmt

	case fcontent.CaseStmtKind:
		stmt := uhdm.NewStmt(c.ser, uhdm.StmtCaseKind)
		for _, ch := range tree.Children(id) {
			stmt.Children = append(stmt.Children, c.compileStmt(tree, ch))
		}
		return stmt

	case fcontent.CaseItemKind:
		stmt := uhdm.NewStmt(c.ser, uhdm.StmtCaseItemKind)
		for _, ch := range tree.Children(id) {
			stmt.Children = append(stmt.Children, c.compileStmt(tree, ch))
		}
		return stmt

	case fcontent.BlockingAssignKind, fcontent.NonblockingAssignKind:
		kind := uhdm.StmtBlockingAssignKind
		if n.Kind == fcontent.NonblockingAssignKind {
			kind = uhdm.StmtNonblockingAssignKind
		}
		stmt := uhdm.NewStmt(c.ser, kind)
		for _, ch := range tree.Children(id) {
			if tree.Node(ch).Kind == fcontent.IdentifierKind {
				stmt.Lhs = uhdm.NewRefObj(c.ser, c.text(tree, ch))
				break
			}
		}
		return stmt

	case fcontent.InstantiationKind:
		stmt := uhdm.NewStmt(c.ser, uhdm.StmtInstanceKind)
		stmt.RawText = c.text(tree, id)
		return stmt

	default:
		stmt := uhdm.NewStmt(c.ser, uhdm.StmtUnsupportedKind)
		stmt.RawText = c.text(tree, id)
		return stmt
	}
}
