package svparser

import (
	"errors"
	"fmt"

	"github.com/svfront/svfront/ids"
	"github.com/svfront/svfront/locmap"
)

// Category constants for a ParseError, mirroring parser/errors.go's
// extendedSyntaxError category scheme: svparser's ParseLL pass reports one
// of these per offending token instead of a bare error string, so a caller
// can decide how to format or filter a diagnostic by its shape.
const (
	CategoryEmptyDecl      = "empty_decl"
	CategoryIncompleteDecl = "incomplete_decl"
	CategoryExtraTokens    = "extra_tokens"
	CategoryIncorrectToken = "wrong_token"
	CategoryMissingToken   = "missing_token"
	CategoryUnexpectedEOF  = "unexpected_eof"
)

// ParseError is one syntax error produced by ParseLL, already translated
// back through a locmap.Cache from its expanded-text position to the
// original source position the user would recognize.
type ParseError struct {
	Category     string
	Message      string
	File         ids.PathId
	Line, Column uint32
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

var errUnexpectedEOF = errors.New("unexpected end of file")

// DescriptiveErrorListener accumulates ParseErrors during a ParseLL pass,
// translating each reported expanded-text position back to its original
// source position via cache before storing it. Grounded on parser/errors.go's
// category-tagged error types, generalized from a single bail-out error
// (protocompile's single-pass grammar has no recovery mode) into an
// accumulating listener, since ParseLL's whole purpose is to keep going
// after an error so every syntax mistake in a chunk is reported at once.
type DescriptiveErrorListener struct {
	cache  *locmap.Cache
	file   ids.PathId
	Errors []*ParseError
}

func NewDescriptiveErrorListener(file ids.PathId, cache *locmap.Cache) *DescriptiveErrorListener {
	return &DescriptiveErrorListener{cache: cache, file: file}
}

func (l *DescriptiveErrorListener) Report(category string, tok Token, message string) {
	file, line, col := l.file, tok.Line, tok.Col
	if l.cache != nil {
		file, line, col = l.cache.MapLocation(tok.Line, tok.Col)
	}
	l.Errors = append(l.Errors, &ParseError{
		Category: category,
		Message:  message,
		File:     file,
		Line:     line,
		Column:   col,
	})
}
