package uhdm

import "github.com/svfront/svfront/ids"

// RefObj is an unresolved (pre-bind) or resolved (post-bind) reference to a
// named object: a variable, net, parameter, function, or task. Actual is nil
// until package bind resolves Name against the enclosing
// scope chain.
type RefObj struct {
	id     ids.UhdmId
	Name   string
	Actual Object
}

func (r *RefObj) UhdmId() ids.UhdmId { return r.id }
func (r *RefObj) Kind() ObjectKind   { return KindRefObj }

func NewRefObj(s *Serializer, name string) *RefObj {
	return Alloc(s, func(id ids.UhdmId) *RefObj { return &RefObj{id: id, Name: name} })
}

// RefTypespec is an unresolved reference to a named type (a typedef, struct,
// enum, class, or interface used as a data type). compile (stage 7)
// allocates these eagerly with Actual nil for any type name it cannot
// resolve locally; bind (stage 9) fills Actual in, including via the
// `$bits(...)` RefObj->RefTypespec conversion retry.
type RefTypespec struct {
	id     ids.UhdmId
	Name   string
	Actual Typespec
}

func (r *RefTypespec) UhdmId() ids.UhdmId { return r.id }
func (r *RefTypespec) Kind() ObjectKind   { return KindRefTypespec }

func NewRefTypespec(s *Serializer, name string) *RefTypespec {
	return Alloc(s, func(id ids.UhdmId) *RefTypespec { return &RefTypespec{id: id, Name: name} })
}

// RefModule is an unresolved reference to a module/interface/program
// definition used at an instantiation site; elaborate (stage 8) resolves
// Actual to the matching Definition before cloning an Instance from it.
type RefModule struct {
	id     ids.UhdmId
	Name   string
	Actual *Definition
}

func (r *RefModule) UhdmId() ids.UhdmId { return r.id }
func (r *RefModule) Kind() ObjectKind   { return KindRefModule }

func NewRefModule(s *Serializer, name string) *RefModule {
	return Alloc(s, func(id ids.UhdmId) *RefModule { return &RefModule{id: id, Name: name} })
}
