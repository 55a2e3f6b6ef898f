package preprocess

import (
	"strconv"
	"strings"

	"github.com/svfront/svfront/ids"
	"github.com/svfront/svfront/reporter"
)

// readBalancedParens consumes a parenthesized, possibly nested, argument
// list starting at the current '(' and returns its inner text (without the
// outer parens), respecting nested parens/brackets/braces and string
// literals so that commas and parens inside a string actual don't confuse
// the balance count.
func readBalancedParens(s *scanner) string {
	s.next() // consume '('
	depth := 1
	var b strings.Builder
	inString := false
	for !s.eof() {
		c, _ := s.peek()
		if inString {
			ch, _ := s.next()
			b.WriteRune(ch)
			if ch == '\\' {
				if !s.eof() {
					esc, _ := s.next()
					b.WriteRune(esc)
				}
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 && c == ')' {
				s.next()
				return b.String()
			}
		}
		ch, _ := s.next()
		b.WriteRune(ch)
	}
	return b.String()
}

func (r *run) handleDefine(s *scanner, file ids.PathId) {
	s.skipSpacesAndTabs()
	nameLine, nameCol := s.line, s.col
	name := s.readIdentifier()
	if name == "" {
		r.p.Handler.HandleErrorf(reporter.Location{File: file, StartLine: nameLine, StartColumn: nameCol},
			reporter.PPSyntax, "malformed `define: expected macro name")
		s.readToEndOfLine()
		return
	}

	var args []MacroArg
	if c, _ := s.peek(); c == '(' {
		argsText := readBalancedParens(s)
		args = []MacroArg{}
		for _, a := range splitTopLevelArgs(argsText) {
			a = strings.TrimSpace(a)
			if a == "" {
				continue
			}
			if eq := strings.IndexByte(a, '='); eq >= 0 {
				args = append(args, MacroArg{Name: strings.TrimSpace(a[:eq]), HasDefault: true, DefaultValue: strings.TrimSpace(a[eq+1:])})
			} else {
				args = append(args, MacroArg{Name: a})
			}
		}
	}

	s.skipSpacesAndTabs()
	bodyLine, bodyCol := s.line, s.col
	body := s.readToEndOfLine()

	info := &MacroInfo{
		Name:         name,
		OriginFile:   file,
		OriginLine:   nameLine,
		OriginColumn: nameCol,
		Args:         args,
		Body:         []MacroToken{{Text: body, Line: bodyLine, Column: bodyCol}},
	}
	r.unit.Define(info)
}

func (r *run) handleUndef(s *scanner) {
	s.skipSpacesAndTabs()
	name := s.readIdentifier()
	s.readToEndOfLine()
	if name != "" {
		r.unit.Undef(name)
	}
}

func (r *run) handleIf(s *scanner, negate bool) {
	s.skipSpacesAndTabs()
	name := s.readIdentifier()
	s.readToEndOfLine()
	_, defined := r.unit.Lookup(name)
	if negate {
		defined = !defined
	}
	r.cond.PushIf(defined)
}

func (r *run) handleElsif(s *scanner, file ids.PathId, startLine uint32) {
	s.skipSpacesAndTabs()
	name := s.readIdentifier()
	s.readToEndOfLine()
	_, defined := r.unit.Lookup(name)
	if !r.cond.Elsif(defined) {
		r.p.Handler.HandleErrorf(reporter.Location{File: file, StartLine: startLine}, reporter.PPSyntax,
			"`elsif with no matching `ifdef/`ifndef")
	}
}

// handleLine consumes a `` `line `` directive and its arguments. No line
// translation is recorded: nothing is added to the IncludeFileInfo trace,
// so locations after the directive still map to the file's real lines.
func (r *run) handleLine(s *scanner) {
	s.skipSpacesAndTabs()
	numTok := s.readIdentifier()
	for {
		c, _ := s.peek()
		if c == ' ' || c == '\t' {
			s.next()
			continue
		}
		break
	}
	_ = numTok // the numeric argument; level argument after the filename is unused here
	s.readToEndOfLine()
	_, _ = strconv.Atoi(numTok)
}
