package preprocess

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/svfront/svfront/fcontent"
	"github.com/svfront/svfront/ids"
	"github.com/svfront/svfront/reporter"
	"github.com/svfront/svfront/symtab"
	"github.com/svfront/svfront/vfs"
)

// Preprocessor is configured once and reused across many files within a
// session; all mutable per-file state lives in the unexported run type so
// that a Preprocessor value itself is safe to share across the worker pool
// §5.
type Preprocessor struct {
	FS          vfs.FileSystem
	Symbols     *symtab.Table
	IncludeDirs []string
	Handler     *reporter.Handler
}

// Result is the four-part output of preprocessing a file:
// preprocess(file) -> {expanded_text, FileContent_pp, trace}.
// The fourth part, updated CompilationUnit macros, is a side effect on the
// CompilationUnit passed into Preprocess rather than a return value, matching
// the common pattern of threading shared mutable state through an explicit
// parameter.
type Result struct {
	Expanded       string
	Tree           *fcontent.FileContent
	Trace          []IncludeFileInfo
	DefaultNettype string
}

// Preprocess implements the stage-3 operation contract. path is used only
// for diagnostics and include resolution; file is its interned PathId.
func (p *Preprocessor) Preprocess(path string, file ids.PathId, unit *CompilationUnit) (*Result, error) {
	data, err := p.readFile(path)
	if err != nil {
		return nil, err
	}
	r := &run{
		p:              p,
		unit:           unit,
		loop:           NewLoopCheck(),
		activeIncludes: map[string]bool{path: true},
		tree:           fcontent.NewPreprocessorTree(file),
		defaultNettype: "wire",
		outermostFile:  file,
	}
	out, err := r.process(data, file, path, 0)
	if err != nil {
		return nil, err
	}
	if r.cond.Depth() != 0 {
		p.Handler.HandleErrorf(reporter.Location{File: file}, reporter.PPSyntax,
			"unterminated conditional: %d `ifdef/`ifndef block(s) still open at end of file", r.cond.Depth())
	}
	return &Result{Expanded: out, Tree: r.tree, Trace: r.trace, DefaultNettype: r.defaultNettype}, nil
}

func (p *Preprocessor) readFile(path string) ([]byte, error) {
	f, err := p.FS.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// run holds all mutable state for one top-level Preprocess call and its
// recursively preprocessed includes and nested macro-body expansions.
type run struct {
	p    *Preprocessor
	unit *CompilationUnit

	loop           *LoopCheck
	activeIncludes map[string]bool

	cond  CondStack
	tree  *fcontent.FileContent
	trace []IncludeFileInfo

	defaultNettype string

	// outermostFile/outermostLine are updated only when scanning a source
	// file's own text (the top-level file, or an included file while its
	// nested run is active), never while inside a macro body or argument
	// fragment, so that `__LINE__`/`__FILE__` resolve
	// to the outermost caller §4.1 and the Open Question
	// decision recorded in SPEC_FULL.md.
	outermostFile ids.PathId
	outermostLine uint32
}

// process scans data (the contents of file, found at path) and returns its
// expanded text. depth guards against runaway include/macro nesting
// unrelated to true cycles.
func (r *run) process(data []byte, file ids.PathId, path string, depth int) (string, error) {
	if depth > 256 {
		return "", fmt.Errorf("preprocessor nesting too deep in %s", path)
	}
	s := newScanner(data)
	var out strings.Builder

	for !s.eof() {
		if file == r.outermostFile && path != "<macro-text>" {
			r.outermostLine = s.line
		}
		c, _ := s.peek()

		switch {
		case c == '`':
			if err := r.handleBacktick(s, file, path, depth, &out); err != nil {
				return "", err
			}
		case c == '"':
			r.copyStringLiteral(s, &out)
		case c == '/' && peekIs(s, 1, '/'):
			r.copyLineComment(s, &out)
		case c == '/' && peekIs(s, 1, '*'):
			r.copyBlockComment(s, &out)
		default:
			ch, _ := s.next()
			if r.cond.InActiveBranch() {
				out.WriteRune(ch)
			} else if ch == '\n' {
				out.WriteByte('\n')
			}
		}
	}
	return out.String(), nil
}

func peekIs(s *scanner, offset int, want rune) bool {
	r, _ := s.peekAt(offset)
	return r == want
}

func (r *run) copyStringLiteral(s *scanner, out *strings.Builder) {
	active := r.cond.InActiveBranch()
	quote, _ := s.next()
	if active {
		out.WriteRune(quote)
	}
	for !s.eof() {
		c, _ := s.peek()
		if c == '\\' {
			esc, _ := s.next()
			if active {
				out.WriteRune(esc)
			}
			if !s.eof() {
				esc2, _ := s.next()
				if active {
					out.WriteRune(esc2)
				}
			}
			continue
		}
		ch, _ := s.next()
		if active {
			out.WriteRune(ch)
		}
		if ch == '"' {
			return
		}
		if ch == '\n' {
			if !active {
				out.WriteByte('\n')
			}
			return
		}
	}
}

func (r *run) copyLineComment(s *scanner, out *strings.Builder) {
	active := r.cond.InActiveBranch()
	for !s.eof() {
		c, _ := s.peek()
		if c == '\n' {
			return
		}
		ch, _ := s.next()
		if active {
			out.WriteRune(ch)
		}
	}
}

func (r *run) copyBlockComment(s *scanner, out *strings.Builder) {
	active := r.cond.InActiveBranch()
	s.next() // '/'
	s.next() // '*'
	if active {
		out.WriteString("/*")
	}
	for !s.eof() {
		c, _ := s.peek()
		if c == '*' && peekIs(s, 1, '/') {
			s.next()
			s.next()
			if active {
				out.WriteString("*/")
			}
			return
		}
		ch, _ := s.next()
		if active {
			out.WriteRune(ch)
		} else if ch == '\n' {
			out.WriteByte('\n')
		}
	}
}

// handleBacktick dispatches a backtick-introduced construct: a compiler
// directive, `__LINE__`/`__FILE__`, or a macro invocation.
func (r *run) handleBacktick(s *scanner, file ids.PathId, path string, depth int, out *strings.Builder) error {
	startLine, startCol := s.line, s.col
	s.next() // consume '`'
	name := s.readIdentifier()

	switch name {
	case "define":
		r.handleDefine(s, file)
		return nil
	case "undef":
		r.handleUndef(s)
		return nil
	case "undefineall":
		s.readToEndOfLine()
		r.unit.UndefineAll()
		return nil
	case "ifdef", "ifndef":
		r.handleIf(s, name == "ifndef")
		return nil
	case "elsif":
		r.handleElsif(s, file, startLine)
		return nil
	case "else":
		if !r.cond.Else() {
			r.p.Handler.HandleErrorf(reporter.Location{File: file, StartLine: startLine}, reporter.PPSyntax, "`else with no matching `ifdef/`ifndef")
		}
		return nil
	case "endif":
		if !r.cond.Endif() {
			r.p.Handler.HandleErrorf(reporter.Location{File: file, StartLine: startLine}, reporter.PPSyntax, "`endif with no matching `ifdef/`ifndef")
		}
		return nil
	case "include":
		if !r.cond.InActiveBranch() {
			s.readToEndOfLine()
			return nil
		}
		return r.handleInclude(s, file, path, depth, out)
	case "line":
		r.handleLine(s)
		return nil
	case "default_nettype":
		s.skipSpacesAndTabs()
		r.defaultNettype = strings.TrimSpace(s.readToEndOfLine())
		return nil
	case "timescale", "resetall", "celldefine", "endcelldefine", "pragma", "nounconnected_drive", "unconnected_drive":
		s.readToEndOfLine()
		return nil
	case "__LINE__":
		if r.cond.InActiveBranch() {
			out.WriteString(strconv.FormatUint(uint64(r.outermostLine), 10))
		}
		return nil
	case "__FILE__":
		if r.cond.InActiveBranch() {
			out.WriteString(strconv.Quote(r.p.Symbols.Path(uint32(r.outermostFile))))
		}
		return nil
	case "":
		// lone backtick with no identifier following; copy verbatim.
		if r.cond.InActiveBranch() {
			out.WriteByte('`')
		}
		return nil
	default:
		if !r.cond.InActiveBranch() {
			// still consume a possible argument list so parens stay balanced
			// for subsequent if/endif nesting tracking.
			s.skipSpacesAndTabs()
			if r2, _ := s.peek(); r2 == '(' {
				readBalancedParens(s)
			}
			return nil
		}
		return r.expandMacroInvocation(s, name, file, startLine, startCol, out, depth)
	}
}
