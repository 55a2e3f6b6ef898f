package preprocess

import (
	"strings"
	"unicode/utf8"
)

// scanner is the low-level character cursor the preprocessor lexes
// directives with. It is grounded on the runeReader in parser/lexer.go: a
// mark/save/restore/unread-rune scanner over an in-memory byte slice,
// generalized here into the preprocessor's own scanner since the existing
// lexer already implements exactly the primitives a macro tokenizer needs.
type scanner struct {
	data []byte
	pos  int

	line, col uint32 // 1-indexed position of data[pos]

	savedPos              int
	savedLine, savedCol    uint32
}

func newScanner(data []byte) *scanner {
	return &scanner{data: data, pos: 0, line: 1, col: 1}
}

func (s *scanner) eof() bool { return s.pos >= len(s.data) }

func (s *scanner) peek() (rune, int) {
	if s.eof() {
		return 0, 0
	}
	r, sz := utf8.DecodeRune(s.data[s.pos:])
	return r, sz
}

func (s *scanner) peekAt(offset int) (rune, int) {
	p := s.pos + offset
	if p >= len(s.data) {
		return 0, 0
	}
	r, sz := utf8.DecodeRune(s.data[p:])
	return r, sz
}

func (s *scanner) next() (rune, bool) {
	if s.eof() {
		return 0, false
	}
	r, sz := utf8.DecodeRune(s.data[s.pos:])
	s.pos += sz
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r, true
}

func (s *scanner) save() {
	s.savedPos, s.savedLine, s.savedCol = s.pos, s.line, s.col
}

func (s *scanner) restore() {
	s.pos, s.line, s.col = s.savedPos, s.savedLine, s.savedCol
}

// consumeLiteral reports whether the unconsumed input begins with lit and,
// if so, consumes it.
func (s *scanner) consumeLiteral(lit string) bool {
	if s.pos+len(lit) > len(s.data) {
		return false
	}
	if string(s.data[s.pos:s.pos+len(lit)]) != lit {
		return false
	}
	for range lit {
		s.next()
	}
	return true
}

func (s *scanner) skipSpacesAndTabs() {
	for {
		r, _ := s.peek()
		if r == ' ' || r == '\t' {
			s.next()
			continue
		}
		break
	}
}

// readIdentifier consumes a C-style identifier ([A-Za-z_][A-Za-z0-9_$]*).
func (s *scanner) readIdentifier() string {
	var b strings.Builder
	first := true
	for {
		r, sz := s.peek()
		if sz == 0 {
			break
		}
		if first {
			if !isIdentStart(r) {
				break
			}
		} else if !isIdentCont(r) {
			break
		}
		first = false
		b.WriteRune(r)
		s.next()
	}
	return b.String()
}

// readToEndOfLine consumes and returns the rest of the current line,
// honoring backslash-newline continuation (so a `define body spanning
// several physical lines collapses into one logical line), without
// consuming the terminating newline itself.
func (s *scanner) readToEndOfLine() string {
	var b strings.Builder
	for {
		r, sz := s.peek()
		if sz == 0 {
			break
		}
		if r == '\\' {
			if r2, sz2 := s.peekAt(sz); sz2 != 0 && r2 == '\n' {
				s.next()
				s.next()
				b.WriteByte(' ')
				continue
			}
		}
		if r == '\n' {
			break
		}
		b.WriteRune(r)
		s.next()
	}
	return b.String()
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9') || r == '$'
}
