package uhdm

// CloneInstance implements clone_tree: elaborate (stage 8) calls this once
// per child instantiation to produce a private copy of definition's member
// scope, so that per-instance parameter overrides never alias between
// sibling instances of the same module.
//
// Only the member-name set is copied; each member Object is deep-copied only
// if it is a nested *Definition (any other Scope kind is shared like the
// rest), so that
// scalar members (nets, variables, typespec refs) are shared structurally
// but never mutated in place -- elaborate always replaces, never edits, a
// cloned member when applying a parameter-dependent fold.
func CloneInstance(s *Serializer, definition *Definition, instanceName string, parent Scope, params map[string]ConstValue) Instance {
	inst := NewInstance(s, instanceName, parent, definition, params).(*instance)
	cloneMembersInto(s, &definition.baseScope, inst)
	return inst
}

// cloneMembersInto copies every member of src into dstOwner, allocating a
// fresh UhdmId (via NewDefinition) for any member that is itself a nested
// Definition, so that no id is ever shared between two instances' cloned
// subtrees.
func cloneMembersInto(s *Serializer, src *baseScope, dstOwner Scope) {
	for name, obj := range src.members {
		if nested, ok := obj.(*Definition); ok {
			cloned := NewDefinition(s, nested.kind, nested.name, dstOwner)
			cloneMembersInto(s, &nested.baseScope, cloned)
			dstOwner.Define(name, cloned)
			continue
		}
		dstOwner.Define(name, obj)
	}
}

// CloneGenScope deep-copies a generate block's member scope for one loop
// iteration, used by elaborate's for-gen unrolling.
func CloneGenScope(s *Serializer, template *GenScope, index int, parent Scope) *GenScope {
	clone := NewGenScope(s, template.Name(), parent, index)
	cloneMembersInto(s, &template.baseScope, clone)
	return clone
}
