package uhdm

import "github.com/svfront/svfront/ids"

// Direction classifies a Port's signal direction.
type Direction int

const (
	DirInput Direction = iota
	DirOutput
	DirInout
)

// Parameter is a `parameter`/`localparam` declaration: its elaborated value
// once bind/elaborate fold it, or zero-value ConstValue before that.
type Parameter struct {
	id       ids.UhdmId
	Name     string
	Typespec *RefTypespec
	Value    ConstValue
	IsLocal  bool
}

func (p *Parameter) UhdmId() ids.UhdmId { return p.id }
func (p *Parameter) Kind() ObjectKind   { return KindParameter }

func NewParameter(s *Serializer, name string, isLocal bool) *Parameter {
	return Alloc(s, func(id ids.UhdmId) *Parameter {
		return &Parameter{id: id, Name: name, IsLocal: isLocal}
	})
}

// Port is a module/interface port declaration.
type Port struct {
	id        ids.UhdmId
	Name      string
	Direction Direction
	Typespec  *RefTypespec
}

func (p *Port) UhdmId() ids.UhdmId { return p.id }
func (p *Port) Kind() ObjectKind   { return KindPort }

func NewPort(s *Serializer, name string, dir Direction) *Port {
	return Alloc(s, func(id ids.UhdmId) *Port {
		return &Port{id: id, Name: name, Direction: dir}
	})
}

// Net is a `wire`/... continuous-assignment-driven signal, as opposed to a
// Variable, which may be procedurally assigned.
type Net struct {
	id       ids.UhdmId
	Name     string
	Typespec *RefTypespec
	// Implicit records that this net was never explicitly declared: bind's
	// default-net synthesis step creates it the first time the name is
	// referenced in a context requiring a net.
	Implicit bool
}

func (n *Net) UhdmId() ids.UhdmId { return n.id }
func (n *Net) Kind() ObjectKind   { return KindNet }

func NewNet(s *Serializer, name string, implicit bool) *Net {
	return Alloc(s, func(id ids.UhdmId) *Net {
		return &Net{id: id, Name: name, Implicit: implicit}
	})
}

// Variable is a `logic`/`reg`/`int`/... procedurally-assignable storage
// location.
type Variable struct {
	id       ids.UhdmId
	Name     string
	Typespec *RefTypespec
}

func (v *Variable) UhdmId() ids.UhdmId { return v.id }
func (v *Variable) Kind() ObjectKind   { return KindVariable }

func NewVariable(s *Serializer, name string) *Variable {
	return Alloc(s, func(id ids.UhdmId) *Variable {
		return &Variable{id: id, Name: name}
	})
}

// ProcessKind classifies a Process's triggering discipline.
type ProcessKind int

const (
	ProcessAlways ProcessKind = iota
	ProcessAlwaysComb
	ProcessAlwaysFF
	ProcessAlwaysLatch
	ProcessInitial
)

// Process is one `always*`/`initial` block.
type Process struct {
	id       ids.UhdmId
	ProcKind ProcessKind
	Body     *Stmt
}

func (p *Process) UhdmId() ids.UhdmId      { return p.id }
func (p *Process) Kind() ObjectKind        { return KindProcess }
func (p *Process) ProcessKind() ProcessKind { return p.ProcKind }

func NewProcess(s *Serializer, kind ProcessKind, body *Stmt) *Process {
	return Alloc(s, func(id ids.UhdmId) *Process {
		return &Process{id: id, ProcKind: kind, Body: body}
	})
}

// ContAssign is a continuous `assign` statement, modeled separately from a
// procedural Stmt since it has no enclosing Process.
type ContAssign struct {
	id   ids.UhdmId
	Lhs  *RefObj
	Rhs  *Expr
}

func (c *ContAssign) UhdmId() ids.UhdmId { return c.id }
func (c *ContAssign) Kind() ObjectKind   { return KindStmt }

func NewContAssign(s *Serializer, lhs *RefObj, rhs *Expr) *ContAssign {
	return Alloc(s, func(id ids.UhdmId) *ContAssign {
		return &ContAssign{id: id, Lhs: lhs, Rhs: rhs}
	})
}

// StmtKind enumerates the closed set of procedural statement shapes the
// schema models. A statement outside this set compiles to a StmtUnsupported
// leaf carrying its raw source text, the same escape hatch Typespec uses.
type StmtKind int

const (
	StmtBlockKind StmtKind = iota
	StmtIfKind
	StmtCaseKind
	StmtCaseItemKind
	StmtBlockingAssignKind
	StmtNonblockingAssignKind
	StmtInstanceKind
	StmtUnsupportedKind
)

// Stmt is one node of a procedural statement tree: a begin/end or fork/join
// block, an if/if-else, a case/casex/casez with its items, a blocking or
// nonblocking assignment, a module instantiation appearing at item scope,
// or an unsupported leaf.
type Stmt struct {
	id       ids.UhdmId
	StmtKind StmtKind
	Label    string
	Lhs      *RefObj
	Rhs      *Expr
	Cond     *Expr
	Children []*Stmt
	Else     *Stmt
	RawText  string
}

func (s *Stmt) UhdmId() ids.UhdmId { return s.id }
func (s *Stmt) Kind() ObjectKind   { return KindStmt }

func NewStmt(s *Serializer, kind StmtKind) *Stmt {
	return Alloc(s, func(id ids.UhdmId) *Stmt {
		return &Stmt{id: id, StmtKind: kind}
	})
}

// ExprKind enumerates the closed set of expression shapes the schema
// models.
type ExprKind int

const (
	ExprRefKind ExprKind = iota
	ExprNumberKind
	ExprBinaryKind
	ExprUnaryKind
	ExprSystemCallKind
	ExprUnsupportedKind
)

// Expr is one node of an expression tree. Binary/unary operator text and
// system-call names are kept as raw strings rather than a closed operator
// enum, since neither bind nor integrity need to evaluate expressions
// beyond constant-folding a handful of parameter/genvar cases (handled
// separately via ConstValue), only to represent them faithfully.
type Expr struct {
	id       ids.UhdmId
	ExprKind ExprKind
	Text     string
	Ref      *RefObj
	Operands []*Expr
}

func (e *Expr) UhdmId() ids.UhdmId { return e.id }
func (e *Expr) Kind() ObjectKind   { return KindExpr }

func NewExpr(s *Serializer, kind ExprKind, text string) *Expr {
	return Alloc(s, func(id ids.UhdmId) *Expr {
		return &Expr{id: id, ExprKind: kind, Text: text}
	})
}

// GenerateRegionKind classifies which generate construct produced a
// GenerateRegion: elaborate expands each into GenScope/GenScopeArray
// children of the owning Instance, driven by this unexpanded template.
type GenerateRegionKind int

const (
	GenerateIfKind GenerateRegionKind = iota
	GenerateForKind
	GenerateCaseKind
)

// GenerateRegion is an unexpanded generate-if/generate-for/generate-case
// construct as compiled from source, carrying its guard/loop expressions and
// body item lists verbatim; elaborate is what walks these to produce the
// actual GenScope/GenScopeArray instances, constant-folding Cond/Init/Step
// against the owning Instance's Parameters.
type GenerateRegion struct {
	id    ids.UhdmId
	Label string
	Kind_ GenerateRegionKind

	// Cond is the generate-if guard or generate-case selector.
	Cond *Expr
	// Body is the region's body for generate-if/generate-case: a single
	// instantiation template, matching the teacher's "one nested scope" generate
	// shape rather than modeling arbitrary declaration lists.
	Body []*Instantiation
	Else []*Instantiation

	// Genvar/Init/Cond2/Step describe a generate-for header: `for (genvar
	// Genvar = Init; Cond2; Genvar = Step)`. Cond above is left unused for
	// GenerateForKind; Cond2 holds the loop condition instead so a
	// GenerateCaseKind region can reuse Cond for its selector without a
	// naming clash.
	Genvar string
	Init   *Expr
	Cond2  *Expr
	Step   *Expr
}

func (g *GenerateRegion) UhdmId() ids.UhdmId           { return g.id }
func (g *GenerateRegion) Kind() ObjectKind             { return KindStmt }
func (g *GenerateRegion) RegionKind() GenerateRegionKind { return g.Kind_ }

func NewGenerateRegion(s *Serializer, label string, kind GenerateRegionKind) *GenerateRegion {
	return Alloc(s, func(id ids.UhdmId) *GenerateRegion {
		return &GenerateRegion{id: id, Label: label, Kind_: kind}
	})
}

// Instantiation is a pending module/interface/program instantiation site as
// compiled from source: the instantiated type name and per-instance name(s)
// and parameter/port connections, not yet resolved to a Definition or cloned
// into an Instance. elaborate consumes these to build the design hierarchy.
type Instantiation struct {
	id       ids.UhdmId
	TypeName string
	Name     string
	// ParamOverrides holds `#(...)` named or positional parameter-override
	// expressions, keyed by parameter name for named overrides or by a
	// synthetic "#N" key (N the 0-based position) for positional ones.
	ParamOverrides map[string]*Expr
	// PortConnections holds port-connection expressions, keyed the same way
	// as ParamOverrides.
	PortConnections map[string]*Expr
	ArrayBound      *Expr // non-nil for `name [ArrayBound] (...)` instance arrays
}

func (i *Instantiation) UhdmId() ids.UhdmId { return i.id }
func (i *Instantiation) Kind() ObjectKind   { return KindStmt }

func NewInstantiation(s *Serializer, typeName, name string) *Instantiation {
	return Alloc(s, func(id ids.UhdmId) *Instantiation {
		return &Instantiation{
			id:              id,
			TypeName:        typeName,
			Name:            name,
			ParamOverrides:  map[string]*Expr{},
			PortConnections: map[string]*Expr{},
		}
	})
}

// TaskFunc is a `task`/`function` declaration.
type TaskFunc struct {
	id     ids.UhdmId
	Name   string
	IsTask bool
	Body   []*Stmt
}

func (t *TaskFunc) UhdmId() ids.UhdmId { return t.id }
func (t *TaskFunc) Kind() ObjectKind   { return KindTaskFunc }

func NewTaskFunc(s *Serializer, name string, isTask bool) *TaskFunc {
	return Alloc(s, func(id ids.UhdmId) *TaskFunc {
		return &TaskFunc{id: id, Name: name, IsTask: isTask}
	})
}
