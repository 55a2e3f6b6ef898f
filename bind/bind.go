// Package bind resolves the uhdm.RefObj references compile left
// unresolved (Actual == nil) against the elaborated instance tree's scope
// chain, synthesizes an implicit net the first time an undeclared name is
// used where a net is required, and wires a class Definition's `extends`
// clause onto the matching ClassTypespec's DerivedClasses.
//
// Grounded on linker.Symbols's scope-chain/trie lookup: the corpus's own
// symbol table is queried by fully-qualified name with no implicit parent
// walk, same as uhdm.baseScope.Lookup only ever checking its own member
// map — bind is the layer the corpus pushes that walk up to, generalized
// here from a flat symbol trie to a nested lexical scope chain.
package bind

import (
	"github.com/svfront/svfront/uhdm"
)

// ObjectBinder resolves references across every elaborated instance of
// design.
type ObjectBinder struct {
	design *uhdm.Design
	ser    *uhdm.Serializer
}

func NewObjectBinder(design *uhdm.Design) *ObjectBinder {
	return &ObjectBinder{design: design, ser: design.Serializer}
}

// Bind walks every top instance's body, resolving references, then wires
// the design's class-inheritance chains.
func (b *ObjectBinder) Bind() {
	for _, top := range b.design.TopInstances {
		b.bindScope(top)
	}
	b.bindClassHierarchy()
}

// bindScope resolves every reference owned directly by scope (when it is
// an Instance; a GenScope/GenScopeArray owns no body items of its own) and
// recurses into every named child scope it or its definition attached.
func (b *ObjectBinder) bindScope(scope uhdm.Scope) {
	if inst, ok := scope.(uhdm.Instance); ok {
		if def, ok := inst.Definition().(*uhdm.Definition); ok {
			b.bindDefinitionBody(scope, def)
		}
	}
	for _, member := range scope.Members() {
		if child, ok := member.(uhdm.Scope); ok {
			b.bindScope(child)
		}
	}
}

func (b *ObjectBinder) bindDefinitionBody(scope uhdm.Scope, def *uhdm.Definition) {
	for _, ca := range def.ContAssigns {
		b.bindRefObj(ca.Lhs, scope, def)
		b.bindExpr(ca.Rhs, scope, def)
	}
	for _, p := range def.Processes {
		b.bindStmt(p.Body, scope, def)
	}
	for _, tf := range def.TaskFuncs {
		for _, s := range tf.Body {
			b.bindStmt(s, scope, def)
		}
	}
}

func (b *ObjectBinder) bindStmt(stmt *uhdm.Stmt, scope uhdm.Scope, def *uhdm.Definition) {
	if stmt == nil {
		return
	}
	b.bindRefObj(stmt.Lhs, scope, def)
	b.bindExpr(stmt.Rhs, scope, def)
	b.bindExpr(stmt.Cond, scope, def)
	for _, child := range stmt.Children {
		b.bindStmt(child, scope, def)
	}
	b.bindStmt(stmt.Else, scope, def)
}

func (b *ObjectBinder) bindExpr(expr *uhdm.Expr, scope uhdm.Scope, def *uhdm.Definition) {
	if expr == nil {
		return
	}
	b.bindRefObj(expr.Ref, scope, def)
	for _, operand := range expr.Operands {
		b.bindExpr(operand, scope, def)
	}
}

// bindRefObj resolves ref.Name against scope's lexical chain, retries it as
// a class/interface type name (the `$bits(...)`-on-a-type-name case), and
// finally falls back to synthesizing an implicit 1-bit net on def, the
// same three-step fallback real elaboration applies in order.
func (b *ObjectBinder) bindRefObj(ref *uhdm.RefObj, scope uhdm.Scope, def *uhdm.Definition) {
	if ref == nil || ref.Actual != nil {
		return
	}
	if obj, ok := b.lookupChain(scope, ref.Name); ok {
		ref.Actual = obj
		return
	}
	if ts, ok := b.resolveAsType(ref.Name); ok {
		ref.Actual = ts
		return
	}
	ref.Actual = b.synthesizeNet(def, ref.Name)
}

// lookupChain walks scope and every ancestor, checking the owning
// Definition's own ports/nets/variables/parameters/task-functions before
// the scope's attached named children, matching ordinary lexical shadowing
// (an instance's own declarations win over a sibling instance sharing its
// parent's scope).
func (b *ObjectBinder) lookupChain(scope uhdm.Scope, name string) (uhdm.Object, bool) {
	for s := scope; s != nil; s = s.Parent() {
		if inst, ok := s.(uhdm.Instance); ok {
			if def, ok := inst.Definition().(*uhdm.Definition); ok {
				if obj, ok := lookupDefinitionBody(def, name); ok {
					return obj, true
				}
			}
		}
		if obj, ok := s.Lookup(name); ok {
			return obj, true
		}
	}
	return nil, false
}

func lookupDefinitionBody(def *uhdm.Definition, name string) (uhdm.Object, bool) {
	for _, p := range def.Ports {
		if p.Name == name {
			return p, true
		}
	}
	for _, n := range def.Nets {
		if n.Name == name {
			return n, true
		}
	}
	for _, v := range def.Variables {
		if v.Name == name {
			return v, true
		}
	}
	for _, p := range def.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	for _, tf := range def.TaskFuncs {
		if tf.Name == name {
			return tf, true
		}
	}
	return nil, false
}

func (b *ObjectBinder) resolveAsType(name string) (uhdm.Typespec, bool) {
	def, ok := b.design.Definitions[name]
	if !ok {
		return nil, false
	}
	switch def.Kind() {
	case uhdm.KindClass:
		return b.classTypespec(name, def), true
	case uhdm.KindInterface:
		ts := uhdm.NewInterfaceTypespec(b.ser, name)
		ts.Definition = def
		return ts, true
	default:
		return nil, false
	}
}

// classTypespec returns def's cached ClassTypespec, allocating it on first
// request so every caller resolving the same class name converges on one
// shared object rather than each minting its own.
func (b *ObjectBinder) classTypespec(name string, def *uhdm.Definition) *uhdm.ClassTypespec {
	if def.ClassTypespec == nil {
		def.ClassTypespec = uhdm.NewClassTypespec(b.ser, name)
		def.ClassTypespec.Definition = def
	}
	return def.ClassTypespec
}

// synthesizeNet returns def's existing net/implicit-net named name,
// allocating and recording a fresh implicit one on first use so that a
// second undeclared reference to the same name resolves to the same
// object rather than creating a duplicate.
func (b *ObjectBinder) synthesizeNet(def *uhdm.Definition, name string) *uhdm.Net {
	for _, n := range def.Nets {
		if n.Name == name {
			return n
		}
	}
	net := uhdm.NewNet(b.ser, name, true)
	def.Nets = append(def.Nets, net)
	return net
}

// bindClassHierarchy resolves every class Definition's Extends name (from
// an `extends` clause) into a ClassTypespec pair, recording the derived
// class on the base's DerivedClasses.
func (b *ObjectBinder) bindClassHierarchy() {
	for name, def := range b.design.Definitions {
		if def.Kind() != uhdm.KindClass || def.Extends == "" {
			continue
		}
		base, ok := b.design.Definitions[def.Extends]
		if !ok || base.Kind() != uhdm.KindClass {
			continue
		}
		baseTs := b.classTypespec(def.Extends, base)
		derivedTs := b.classTypespec(name, def)
		baseTs.DerivedClasses = append(baseTs.DerivedClasses, derivedTs)
	}
}
