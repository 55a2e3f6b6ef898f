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

// Package preprocess implements the SystemVerilog-compliant macro expander
// and conditional-compilation engine §4.1: given a
// source file, it produces expanded text with line-count preserved per
// directive, an IncludeFileInfo trace, a preprocessor FileContent tree, and
// updated CompilationUnit macro state.
package preprocess

import "github.com/svfront/svfront/ids"

// MacroToken is one token of a macro body, carrying its own position so
// that `__LINE__`/`__FILE__` substitution and error reporting can recover
// the definition-site coordinates of any part of the body.
type MacroToken struct {
	Text string
	Line, Column uint32
}

// MacroArg is one formal parameter of a function-like macro: a name and an
// optional default (used when an actual argument is empty or omitted).
type MacroArg struct {
	Name         string
	HasDefault   bool
	DefaultValue string
}

// MacroInfo describes one `define. It is created on `define, revoked on
// `undef/`undefineall, and belongs to a CompilationUnit.
type MacroInfo struct {
	Name string

	OriginFile   ids.PathId
	OriginLine   uint32
	OriginColumn uint32

	// Args is nil for an object-like macro (no parens) and non-nil
	// (possibly empty) for a function-like macro.
	Args []MacroArg
	Body []MacroToken
}

// IsFunctionLike reports whether the macro takes a parenthesized argument
// list, as opposed to a plain object-like `define NAME value.
func (m *MacroInfo) IsFunctionLike() bool { return m.Args != nil }

// RequiredArgCount returns the number of formals with no default value.
func (m *MacroInfo) RequiredArgCount() int {
	n := 0
	for _, a := range m.Args {
		if !a.HasDefault {
			n++
		}
	}
	return n
}
