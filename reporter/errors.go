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

// Package reporter implements the diagnostic taxonomy and collection
// container described by the error-handling design: every stage appends
// typed diagnostics to a Handler instead of returning (or panicking with)
// a bare error, and a fatal diagnostic only stops the pipeline after the
// current work bucket completes.
package reporter

import (
	"errors"
	"fmt"
)

// ErrInvalidSource is returned by a pipeline stage when one or more errors
// were reported but no individual error is appropriate to return on its
// own; the caller should inspect the Handler for details.
var ErrInvalidSource = errors.New("compilation failed: invalid source")

// Severity classifies a diagnostic's effect on the pipeline.
type Severity int

const (
	Note Severity = iota
	Warning
	Syntax
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Note:
		return "note"
	case Warning:
		return "warning"
	case Syntax:
		return "syntax error"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Kind identifies a diagnostic's ErrorDefinition, e.g. "PP_RECURSIVE_MACRO_DEFINITION"
// or "UHDM_FAILED_TO_BIND". Kinds are plain strings rather than an enum so
// new stages can introduce kinds without a central registry.
type Kind string

// Representative kinds from the error taxonomy. Not exhaustive: stages may
// report other kinds following the same "STAGE_CONDITION" naming convention.
const (
	PPSyntax                Kind = "PP_SYNTAX_ERROR"
	PPRecursiveMacro        Kind = "PP_RECURSIVE_MACRO_DEFINITION"
	PPCannotOpenInclude     Kind = "PP_CANNOT_OPEN_INCLUDE_FILE"
	PPRecursiveInclude      Kind = "PP_RECURSIVE_INCLUDE_DIRECTIVE"
	PPMacroNoDefaultValue   Kind = "PP_MACRO_NO_DEFAULT_VALUE"
	PPMacroTooManyArgs      Kind = "PP_MACRO_TOO_MANY_ARGS"
	PPUnescapedCharInString Kind = "PP_UNESCAPED_CHARACTER_IN_STRING"
	PPNonASCIIContent       Kind = "PP_NON_ASCII_CONTENT"
	PASyntaxError           Kind = "PA_SYNTAX_ERROR"
	CompUnmatchedLabel      Kind = "COMP_UNMATCHED_LABEL"
	ElabUnknownInterfaceMem Kind = "ELAB_UNKNOWN_INTERFACE_MEMBER"
	ElabIllegalImplicitNet  Kind = "ELAB_ILLEGAL_IMPLICIT_NET"
	UhdmFailedToBind        Kind = "UHDM_FAILED_TO_BIND"
	UhdmUnsupportedStmt     Kind = "UHDM_UNSUPPORTED_STMT"
	UhdmUnsupportedType     Kind = "UHDM_UNSUPPORTED_TYPE"
	IntegrityCheckViolation Kind = "INTEGRITY_CHECK_VIOLATION"
	IntegrityCheckDupMember Kind = "INTEGRITY_CHECK_DUPLICATE_MEMBER"
	IntegrityCheckBadSpan   Kind = "INTEGRITY_CHECK_BAD_SPAN"
)

// Diagnostic is one reported condition: a kind, a severity, a human-readable
// message, a primary location, and zero or more cross-referenced extra
// locations (e.g. "previously defined here").
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Message  string
	Primary  Location
	Extra    []Location
}

func (d Diagnostic) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", d.Primary, d.Severity, d.Message)
	for _, extra := range d.Extra {
		msg += fmt.Sprintf("\n\t%s: see also", extra)
	}
	return msg
}

// ErrorWithPos is satisfied by any error that can report the source position
// responsible for it. Diagnostic does not implement it (it has no
// GetPosition or Unwrap method); Error and Errorf build one.
type ErrorWithPos interface {
	error
	GetPosition() Location
	Unwrap() error
}

func Error(pos Location, err error) ErrorWithPos {
	return errorWithPos{pos: pos, underlying: err}
}

func Errorf(pos Location, format string, args ...interface{}) ErrorWithPos {
	return errorWithPos{pos: pos, underlying: fmt.Errorf(format, args...)}
}

type errorWithPos struct {
	underlying error
	pos        Location
}

func (e errorWithPos) Error() string        { return fmt.Sprintf("%s: %v", e.pos, e.underlying) }
func (e errorWithPos) GetPosition() Location { return e.pos }
func (e errorWithPos) Unwrap() error         { return e.underlying }

var _ ErrorWithPos = errorWithPos{}

// AlreadyDefinedError reports a duplicate declaration, cross-referencing the
// location of the previous definition.
type AlreadyDefinedError struct {
	Name               string
	PreviousDefinition Location
}

func (e AlreadyDefinedError) Error() string {
	return fmt.Sprintf("%q already defined at %s", e.Name, e.PreviousDefinition)
}

// RecursiveMacroError reports a macro-expansion cycle, naming every macro in
// the cycle in invocation order.
type RecursiveMacroError struct {
	Cycle []string
}

func (e RecursiveMacroError) Error() string {
	msg := "recursive macro expansion: "
	for i, name := range e.Cycle {
		if i > 0 {
			msg += " -> "
		}
		msg += name
	}
	return msg
}

// FailedToBindError reports a RefObj/RefTypespec/RefModule that the binder
// could not resolve to any actual.
type FailedToBindError struct {
	Name string
}

func (e FailedToBindError) Error() string {
	return fmt.Sprintf("failed to bind reference %q to a declaration", e.Name)
}
