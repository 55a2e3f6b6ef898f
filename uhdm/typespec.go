package uhdm

import "github.com/svfront/svfront/ids"

// TypespecKind enumerates the closed set of typespec variants the schema
// models: no other variant may appear in a compiled design, and compile/bind
// fall back to UnsupportedTypespec rather than inventing a new kind for a
// construct outside this set.
type TypespecKind int

const (
	LogicTypespecKind TypespecKind = iota
	BitTypespecKind
	IntTypespecKind
	StructTypespecKind
	UnionTypespecKind
	EnumTypespecKind
	ArrayTypespecKind
	PackedArrayTypespecKind
	ClassTypespecKind
	InterfaceTypespecKind
	UnsupportedTypespecKind
)

// Typespec is implemented by every concrete typespec variant. Width/packed
// information lives on the concrete struct, not this interface, since only
// a few variants (Logic/Bit/Int/Array/PackedArray) have it.
type Typespec interface {
	Object
	TypespecKind() TypespecKind
}

type typespecBase struct {
	id   ids.UhdmId
	kind TypespecKind
}

func (t *typespecBase) UhdmId() ids.UhdmId         { return t.id }
func (t *typespecBase) Kind() ObjectKind           { return KindTypespec }
func (t *typespecBase) TypespecKind() TypespecKind { return t.kind }

// LogicTypespec/BitTypespec model `logic [msb:lsb]` / `bit [msb:lsb]`
// vectors; Msb==Lsb==0 and SingleBit==true for a scalar declaration.
type LogicTypespec struct {
	typespecBase
	Msb, Lsb  int
	SingleBit bool
	Signed    bool
}

func NewLogicTypespec(s *Serializer, msb, lsb int, singleBit, signed bool) *LogicTypespec {
	return Alloc(s, func(id ids.UhdmId) *LogicTypespec {
		return &LogicTypespec{typespecBase: typespecBase{id: id, kind: LogicTypespecKind}, Msb: msb, Lsb: lsb, SingleBit: singleBit, Signed: signed}
	})
}

type BitTypespec struct {
	typespecBase
	Msb, Lsb  int
	SingleBit bool
	Signed    bool
}

func NewBitTypespec(s *Serializer, msb, lsb int, singleBit, signed bool) *BitTypespec {
	return Alloc(s, func(id ids.UhdmId) *BitTypespec {
		return &BitTypespec{typespecBase: typespecBase{id: id, kind: BitTypespecKind}, Msb: msb, Lsb: lsb, SingleBit: singleBit, Signed: signed}
	})
}

// IntTypespec models `int`/`integer`/`shortint`/`longint`/`byte`.
type IntTypespec struct {
	typespecBase
	BitSize int
	Signed  bool
}

func NewIntTypespec(s *Serializer, bitSize int, signed bool) *IntTypespec {
	return Alloc(s, func(id ids.UhdmId) *IntTypespec {
		return &IntTypespec{typespecBase: typespecBase{id: id, kind: IntTypespecKind}, BitSize: bitSize, Signed: signed}
	})
}

// StructMember is one named, typed field of a struct or union typespec.
type StructMember struct {
	Name     string
	Typespec *RefTypespec
}

type StructTypespec struct {
	typespecBase
	Name    string
	Members []StructMember
	Packed  bool
}

func NewStructTypespec(s *Serializer, name string, packed bool) *StructTypespec {
	return Alloc(s, func(id ids.UhdmId) *StructTypespec {
		return &StructTypespec{typespecBase: typespecBase{id: id, kind: StructTypespecKind}, Name: name, Packed: packed}
	})
}

type UnionTypespec struct {
	typespecBase
	Name    string
	Members []StructMember
	Packed  bool
}

func NewUnionTypespec(s *Serializer, name string, packed bool) *UnionTypespec {
	return Alloc(s, func(id ids.UhdmId) *UnionTypespec {
		return &UnionTypespec{typespecBase: typespecBase{id: id, kind: UnionTypespecKind}, Name: name, Packed: packed}
	})
}

// EnumConstant is one named value of an enum typespec.
type EnumConstant struct {
	Name  string
	Value ConstValue
}

type EnumTypespec struct {
	typespecBase
	Name      string
	BaseType  *RefTypespec
	Constants []EnumConstant
}

func NewEnumTypespec(s *Serializer, name string) *EnumTypespec {
	return Alloc(s, func(id ids.UhdmId) *EnumTypespec {
		return &EnumTypespec{typespecBase: typespecBase{id: id, kind: EnumTypespecKind}, Name: name}
	})
}

// ArrayTypespec/PackedArrayTypespec model an unpacked/packed dimension
// applied to an ElementType, e.g. `logic [7:0] mem [0:255]`.
type ArrayTypespec struct {
	typespecBase
	ElementType *RefTypespec
	Msb, Lsb    int
}

func NewArrayTypespec(s *Serializer, elem *RefTypespec, msb, lsb int) *ArrayTypespec {
	return Alloc(s, func(id ids.UhdmId) *ArrayTypespec {
		return &ArrayTypespec{typespecBase: typespecBase{id: id, kind: ArrayTypespecKind}, ElementType: elem, Msb: msb, Lsb: lsb}
	})
}

type PackedArrayTypespec struct {
	typespecBase
	ElementType *RefTypespec
	Msb, Lsb    int
}

func NewPackedArrayTypespec(s *Serializer, elem *RefTypespec, msb, lsb int) *PackedArrayTypespec {
	return Alloc(s, func(id ids.UhdmId) *PackedArrayTypespec {
		return &PackedArrayTypespec{typespecBase: typespecBase{id: id, kind: PackedArrayTypespecKind}, ElementType: elem, Msb: msb, Lsb: lsb}
	})
}

// ClassTypespec/InterfaceTypespec reference a class/interface Definition
// used as a data type, e.g. a handle variable's declared type.
type ClassTypespec struct {
	typespecBase
	Name           string
	Definition     *Definition
	DerivedClasses []*ClassTypespec
}

func NewClassTypespec(s *Serializer, name string) *ClassTypespec {
	return Alloc(s, func(id ids.UhdmId) *ClassTypespec {
		return &ClassTypespec{typespecBase: typespecBase{id: id, kind: ClassTypespecKind}, Name: name}
	})
}

type InterfaceTypespec struct {
	typespecBase
	Name       string
	Definition *Definition
}

func NewInterfaceTypespec(s *Serializer, name string) *InterfaceTypespec {
	return Alloc(s, func(id ids.UhdmId) *InterfaceTypespec {
		return &InterfaceTypespec{typespecBase: typespecBase{id: id, kind: InterfaceTypespecKind}, Name: name}
	})
}

// UnsupportedTypespec is compile's explicit escape hatch for
// a data type outside the closed set above: it carries the raw source text
// so a diagnostic or best-effort integrity check can still refer to it.
type UnsupportedTypespec struct {
	typespecBase
	RawText string
}

func NewUnsupportedTypespec(s *Serializer, rawText string) *UnsupportedTypespec {
	return Alloc(s, func(id ids.UhdmId) *UnsupportedTypespec {
		return &UnsupportedTypespec{typespecBase: typespecBase{id: id, kind: UnsupportedTypespecKind}, RawText: rawText}
	})
}
