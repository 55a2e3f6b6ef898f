package uhdm

import "github.com/svfront/svfront/ids"

// Design is the arena root: every top-level module/interface/program/
// package/class/udp/checker definition discovered by compile (stage 7),
// every elaborated top instance created by elaborate (stage 8), and the
// Serializer that owns them all.
type Design struct {
	id ids.UhdmId

	Serializer *Serializer

	// Definitions holds every top-level declaration, keyed by name, as
	// compiled from source before elaboration picks top instances.
	Definitions map[string]*Definition

	// TopInstances holds the elaborated instance tree roots: modules with no
	// instantiating parent within the design, discovered by elaborate's
	// top-instance-discovery step.
	TopInstances []Instance
}

func (d *Design) UhdmId() ids.UhdmId { return d.id }
func (d *Design) Kind() ObjectKind   { return KindDesign }

// NewDesign allocates an empty Design owned by s.
func NewDesign(s *Serializer) *Design {
	return Alloc(s, func(id ids.UhdmId) *Design {
		return &Design{id: id, Serializer: s, Definitions: map[string]*Definition{}}
	})
}
