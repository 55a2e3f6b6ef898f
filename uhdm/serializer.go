// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package uhdm implements the uniform hardware description model arena: the
// single-owner object table every compiled/elaborated design lives in, plus
// the scope-chain, reference, and typespec shapes
// §3.6-§3.7.
//
// Grounded on the analogous linker.Symbols: one struct, guarded by a single
// mutex, that is the sole owner of every interned entity across a whole
// link operation. Serializer generalizes that "one table, whole program"
// shape from protobuf symbols to arbitrary UHDM objects, addressed by
// ids.UhdmId instead of a fully-qualified name.
package uhdm

import (
	"sync"

	"github.com/svfront/svfront/ids"
)

// Object is satisfied by every concrete UHDM node (Module, Instance,
// Typespec variant, RefObj, ...). Kind lets generic arena code distinguish
// variants without a type switch on every access.
type Object interface {
	UhdmId() ids.UhdmId
	Kind() ObjectKind
}

type ObjectKind int

const (
	KindModule ObjectKind = iota
	KindInterface
	KindProgram
	KindPackage
	KindClass
	KindUdp
	KindChecker
	KindInstance
	KindGenScope
	KindGenScopeArray
	KindRefObj
	KindRefTypespec
	KindRefModule
	KindTypespec
	KindParameter
	KindPort
	KindNet
	KindVariable
	KindProcess
	KindStmt
	KindExpr
	KindTaskFunc
	KindDesign
)

// Serializer is the single-owner arena every elaborated Design's objects are
// allocated from. It assigns every object a process-unique, monotonically
// increasing UhdmId, never reused even across clone_tree, matching this package
// §3.7's "ids are never reused within the lifetime of the arena" invariant.
type Serializer struct {
	mu      sync.Mutex
	nextID  ids.UhdmId
	objects map[ids.UhdmId]Object
}

func NewSerializer() *Serializer {
	return &Serializer{nextID: 1, objects: map[ids.UhdmId]Object{}}
}

// Alloc assigns the next UhdmId and records obj under it. Callers pass a
// constructor func so the id can be baked into the object before it is
// registered, avoiding a two-phase "allocate then fix up" dance.
func Alloc[T Object](s *Serializer, make func(ids.UhdmId) T) T {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.mu.Unlock()

	obj := make(id)
	s.mu.Lock()
	s.objects[id] = obj
	s.mu.Unlock()
	return obj
}

// Lookup returns the object registered under id, or nil if id is unknown or
// BadUhdmId.
func (s *Serializer) Lookup(id ids.UhdmId) Object {
	if id.IsBad() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects[id]
}

// Count returns how many objects are currently registered.
func (s *Serializer) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// All returns a snapshot slice of every registered object. Order is
// unspecified; callers that need determinism should sort by UhdmId.
func (s *Serializer) All() []Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Object, 0, len(s.objects))
	for _, o := range s.objects {
		out = append(out, o)
	}
	return out
}

// Reregister overwrites the object stored at id. Nothing in this module
// calls it; CloneInstance gives every cloned object a fresh id through Alloc.
func (s *Serializer) Reregister(id ids.UhdmId, obj Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[id] = obj
}
