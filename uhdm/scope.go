package uhdm

import "github.com/svfront/svfront/ids"

// Scope is implemented by every UHDM object that can own named members and
// participate in the scope-chain walk used by package bind. A module, interface, program,
// package, class, generate scope, task, or function body is a Scope.
type Scope interface {
	Object
	Name() string
	Parent() Scope
	Lookup(name string) (Object, bool)
	Define(name string, obj Object)
	// Members returns a snapshot of every name directly defined on this
	// scope (not its parent's), used by package bind to walk every
	// attached child instance/generate scope without exposing the
	// underlying map to mutation.
	Members() map[string]Object
}

// baseScope is embedded by every concrete Scope implementation to provide
// the member map and parent-chain walk once.
type baseScope struct {
	id      ids.UhdmId
	name    string
	parent  Scope
	members map[string]Object
}

func newBaseScope(id ids.UhdmId, name string, parent Scope) baseScope {
	return baseScope{id: id, name: name, parent: parent, members: map[string]Object{}}
}

func (b *baseScope) UhdmId() ids.UhdmId { return b.id }
func (b *baseScope) Name() string       { return b.name }
func (b *baseScope) Parent() Scope      { return b.parent }

func (b *baseScope) Define(name string, obj Object) { b.members[name] = obj }

func (b *baseScope) Members() map[string]Object {
	out := make(map[string]Object, len(b.members))
	for k, v := range b.members {
		out[k] = v
	}
	return out
}

// Lookup resolves name in this scope only (no parent walk); package bind
// performs the parent walk itself (lookupChain), checking a scope's
// Definition body before its attached children at each hop.
func (b *baseScope) Lookup(name string) (Object, bool) {
	obj, ok := b.members[name]
	return obj, ok
}

// Instance is a Scope that additionally carries the module/interface/program
// definition it instantiates and its parameter bindings, the result of
// elaboration's per-child-instance clone+override step.
type Instance interface {
	Scope
	Definition() Scope
	Parameters() map[string]ConstValue
}

// ConstValue is an elaborated, constant-folded parameter or genvar value.
// Only integer-valued parameters are modeled; real/string parameters fold to
// a Raw string left uninterpreted, matching the analogous "defer to a typed
// value only where behavior depends on it" texture.
type ConstValue struct {
	IsInt bool
	Int   int64
	Raw   string
}

type instance struct {
	baseScope
	definition Scope
	params     map[string]ConstValue
}

var _ Instance = (*instance)(nil)

func (i *instance) Kind() ObjectKind             { return KindInstance }
func (i *instance) Definition() Scope            { return i.definition }
func (i *instance) Parameters() map[string]ConstValue { return i.params }

// NewInstance allocates a module/interface/program instance under s, bound
// to definition with the given elaborated parameter values.
func NewInstance(s *Serializer, name string, parent Scope, definition Scope, params map[string]ConstValue) Instance {
	return Alloc(s, func(id ids.UhdmId) *instance {
		if params == nil {
			params = map[string]ConstValue{}
		}
		return &instance{baseScope: newBaseScope(id, name, parent), definition: definition, params: params}
	})
}

// Definition is a module/interface/program/package/class/udp/checker
// top-level declaration: a Scope with no Instance-specific parameter
// binding, serving as the template Instance.Definition points to.
//
// Body content (ports, parameter declarations, processes, continuous
// assignments, generate regions) lives here rather than per-Instance: an
// instantiation's elaborated state is only its parameter overrides
// (Instance.Parameters) and its own cloned member scope for nested
// generate blocks, not a copy of the statement tree itself. compile
// (stage 7) populates these fields; elaborate (stage 8) only reads them,
// and bind (stage 9) appends the implicit nets it synthesizes to Nets.
type Definition struct {
	baseScope
	kind ObjectKind

	Ports           []*Port
	Parameters      []*Parameter
	Nets            []*Net
	Variables       []*Variable
	ContAssigns     []*ContAssign
	Processes       []*Process
	TaskFuncs       []*TaskFunc
	GenerateRegions []*GenerateRegion
	Instantiations  []*Instantiation

	// Extends names the base class of a `class ... extends Base` declaration
	// (empty for every other Definition kind, and for a class with no
	// extends clause). bind resolves this into the matching ClassTypespec's
	// DerivedClasses.
	Extends string

	// ClassTypespec is the (lazily allocated, cached) type-reference view of
	// this Definition when it is a class, so that every reference to the
	// same class name shares one ClassTypespec and bind's inheritance
	// wiring onto DerivedClasses is visible to every caller holding the
	// Definition, not just the one that happened to allocate it first.
	ClassTypespec *ClassTypespec
}

var _ Scope = (*Definition)(nil)

func (d *Definition) Kind() ObjectKind { return d.kind }

// NewDefinition allocates a module/interface/program/package/class/udp/checker
// declaration scope.
func NewDefinition(s *Serializer, kind ObjectKind, name string, parent Scope) *Definition {
	return Alloc(s, func(id ids.UhdmId) *Definition {
		return &Definition{baseScope: newBaseScope(id, name, parent), kind: kind}
	})
}

// GenScope is one elaborated iteration of a generate-for/generate-if/
// generate-case block.
type GenScope struct {
	baseScope
	Index int // -1 for a non-array (if-gen/case-gen) scope
}

var _ Scope = (*GenScope)(nil)

func (g *GenScope) Kind() ObjectKind { return KindGenScope }

func NewGenScope(s *Serializer, name string, parent Scope, index int) *GenScope {
	return Alloc(s, func(id ids.UhdmId) *GenScope {
		return &GenScope{baseScope: newBaseScope(id, name, parent), Index: index}
	})
}

// GenScopeArray collects the GenScope elaborations produced by one
// generate-for statement, one element per loop iteration.
type GenScopeArray struct {
	baseScope
	Scopes []*GenScope
}

var _ Scope = (*GenScopeArray)(nil)

func (g *GenScopeArray) Kind() ObjectKind { return KindGenScopeArray }

func NewGenScopeArray(s *Serializer, name string, parent Scope) *GenScopeArray {
	return Alloc(s, func(id ids.UhdmId) *GenScopeArray {
		return &GenScopeArray{baseScope: newBaseScope(id, name, parent)}
	})
}
