package preprocess

import (
	"strconv"
	"strings"

	"github.com/svfront/svfront/fcontent"
	"github.com/svfront/svfront/ids"
	"github.com/svfront/svfront/reporter"
)

// outLineCount returns the 1-indexed line of the next character that would
// be appended to out, used to stamp IncludeFileInfo expanded-coordinate
// fields as text is assembled.
func outLineCount(out *strings.Builder) uint32 {
	return uint32(1 + strings.Count(out.String(), "\n"))
}

// expandMacroInvocation handles a `NAME or `NAME(actual, actual, ...)
// occurrence in active-branch text: argument binding, recursive expansion
// of actual-argument text, loop-checked body substitution, and a nested
// re-preprocessing pass if the substituted body still contains a backtick
//.
func (r *run) expandMacroInvocation(s *scanner, name string, file ids.PathId, startLine, startCol uint32, out *strings.Builder, depth int) error {
	macro, ok := r.unit.Lookup(name)
	if !ok {
		r.p.Handler.HandleErrorf(reporter.Location{File: file, StartLine: startLine, StartColumn: startCol},
			reporter.PPSyntax, "unresolved macro `%s", name)
		return nil
	}

	var actuals []string
	if macro.IsFunctionLike() {
		s.skipSpacesAndTabs()
		if c, _ := s.peek(); c != '(' {
			r.p.Handler.HandleErrorf(reporter.Location{File: file, StartLine: startLine, StartColumn: startCol},
				reporter.PPSyntax, "macro `%s expects an argument list", name)
			return nil
		}
		argText := readBalancedParens(s)
		actuals = splitTopLevelArgs(argText)
	}

	formals, err := r.bindFormals(macro, actuals, file, startLine, startCol)
	if err != nil {
		return nil // diagnostics already reported; abort this instance only
	}

	// Recursively expand macro calls embedded in argument text before
	// substituting them into the body.
	for fname, actual := range formals {
		if strings.ContainsRune(actual, '`') {
			expanded, err := r.expandFragment(actual, file, depth+1)
			if err != nil {
				return err
			}
			formals[fname] = expanded
		}
	}

	cycle, okEnter := r.loop.Enter(name)
	if !okEnter {
		r.p.Handler.Report(reporter.Diagnostic{
			Kind: reporter.PPRecursiveMacro, Severity: reporter.Error,
			Message: (reporter.RecursiveMacroError{Cycle: cycle}).Error(),
			Primary: reporter.Location{File: file, StartLine: startLine, StartColumn: startCol},
		})
		return nil
	}
	defer r.loop.Exit(name)

	body := macro.Body[0].Text
	substituted := substituteBody(body, formals)

	pushLine := outLineCount(out)
	pushIdx := len(r.trace)
	r.trace = append(r.trace, IncludeFileInfo{
		Context: ContextMacro, Action: ActionPush,
		SectionFile:         macro.OriginFile,
		OriginalFile:        file,
		OriginalStartLine:   startLine,
		OriginalStartColumn: startCol,
		ExpandedStartLine:   pushLine,
		IndexOpposite:       -1,
	})
	r.tree.AddChild(r.tree.Root(), fcontent.VObject{
		Kind:   fcontent.MacroInstanceKind,
		Symbol: ids.SymbolId(r.p.Symbols.RegisterSymbol(name)),
		File:   file,
		Start:  fcontent.Position{Line: startLine, Column: startCol},
		End:    fcontent.Position{Line: startLine, Column: startCol},
	})

	if strings.ContainsRune(substituted, '`') {
		nested, err := r.expandFragment(substituted, file, depth+1)
		if err != nil {
			return err
		}
		out.WriteString(nested)
	} else {
		out.WriteString(substituted)
	}

	popLine := outLineCount(out)
	popIdx := len(r.trace)
	r.trace = append(r.trace, IncludeFileInfo{
		Context: ContextMacro, Action: ActionPop,
		SectionFile:       macro.OriginFile,
		OriginalFile:      file,
		ExpandedStartLine: popLine,
		ExpandedEndLine:   popLine,
		IndexOpposite:     pushIdx,
	})
	r.trace[pushIdx].IndexOpposite = popIdx
	r.trace[pushIdx].ExpandedEndLine = popLine
	return nil
}

// bindFormals binds actual arguments to macro's formals, applying defaults
// for missing or empty actuals and reporting PP_MACRO_NO_DEFAULT_VALUE /
// PP_MACRO_TOO_MANY_ARGS as appropriate.
func (r *run) bindFormals(macro *MacroInfo, actuals []string, file ids.PathId, line, col uint32) (map[string]string, error) {
	formals := make(map[string]string, len(macro.Args))
	for i, arg := range macro.Args {
		var actual string
		has := i < len(actuals)
		if has {
			actual = actuals[i]
		}
		if (!has || actual == "") && arg.HasDefault {
			actual = arg.DefaultValue
		} else if !has && !arg.HasDefault {
			r.p.Handler.HandleErrorf(reporter.Location{File: file, StartLine: line, StartColumn: col},
				reporter.PPMacroNoDefaultValue, "macro `%s missing required argument %q", macro.Name, arg.Name)
			return nil, errMissingArg
		}
		formals[arg.Name] = actual
	}
	if len(actuals) > len(macro.Args) {
		r.p.Handler.HandleWarningf(reporter.Location{File: file, StartLine: line, StartColumn: col},
			reporter.PPMacroTooManyArgs, "macro `%s given %d actual arguments but only %d formals",
			macro.Name, len(actuals), len(macro.Args))
	}
	return formals, nil
}

var errMissingArg = &missingArgError{}

type missingArgError struct{}

func (*missingArgError) Error() string { return "missing macro argument with no default" }

// expandFragment re-enters the scan loop over an independent text fragment
// (an actual argument or a substituted macro body), with conditional
// compilation forced active, so macro calls nested inside it are resolved.
func (r *run) expandFragment(text string, file ids.PathId, depth int) (string, error) {
	saved := r.cond
	r.cond = CondStack{}
	out, err := r.process([]byte(text), file, "<macro-text>", depth+1)
	r.cond = saved
	return out, err
}

// handleInclude implements `` `include "file" `` / `` `include <file> ``:
// resolves along IncludeDirs, detects cyclic inclusion, recursively
// preprocesses the child, brackets the child's output with a PUSH/POP
// IncludeFileInfo pair (context=Include), and inlines the result.
func (r *run) handleInclude(s *scanner, file ids.PathId, _ string, depth int, out *strings.Builder) error {
	startLine, startCol := s.line, s.col
	s.skipSpacesAndTabs()
	raw, angled := readIncludeTarget(s)
	s.readToEndOfLine()

	resolved, data, err := r.p.resolveInclude(raw, angled)
	if err != nil {
		r.p.Handler.HandleErrorf(reporter.Location{File: file, StartLine: startLine, StartColumn: startCol},
			reporter.PPCannotOpenInclude, "cannot open include file %q: %v", raw, err)
		return nil
	}

	canon, _ := r.p.FS.Canonicalize(resolved)
	if r.activeIncludes[canon] {
		r.p.Handler.HandleErrorf(reporter.Location{File: file, StartLine: startLine, StartColumn: startCol},
			reporter.PPRecursiveInclude, "recursive inclusion of %q", resolved)
		return nil
	}

	includedFile := ids.PathId(r.p.Symbols.RegisterPath(resolved))

	pushLine := outLineCount(out)
	pushIdx := len(r.trace)
	r.trace = append(r.trace, IncludeFileInfo{
		Context: ContextInclude, Action: ActionPush,
		SectionFile:         includedFile,
		OriginalFile:        file,
		OriginalStartLine:   startLine,
		OriginalStartColumn: startCol,
		ExpandedStartLine:   pushLine,
		IndexOpposite:       -1,
	})

	r.tree.AddChild(r.tree.Root(), fcontent.VObject{
		Kind:   fcontent.IncludeKind,
		Symbol: ids.SymbolId(r.p.Symbols.RegisterSymbol(raw)),
		File:   file,
		Start:  fcontent.Position{Line: startLine, Column: startCol},
		End:    fcontent.Position{Line: startLine, Column: startCol},
	})

	r.activeIncludes[canon] = true
	savedCond, savedLoop, savedOutermost := r.cond, r.loop, r.outermostFile
	r.cond = CondStack{}
	r.loop = NewLoopCheck()
	r.outermostFile = includedFile

	childOut, err := r.process(data, includedFile, resolved, depth+1)

	r.cond, r.loop, r.outermostFile = savedCond, savedLoop, savedOutermost
	delete(r.activeIncludes, canon)

	if err != nil {
		return err
	}
	out.WriteString(childOut)

	popLine := outLineCount(out)
	popIdx := len(r.trace)
	r.trace = append(r.trace, IncludeFileInfo{
		Context: ContextInclude, Action: ActionPop,
		SectionFile:       includedFile,
		OriginalFile:      file,
		ExpandedStartLine: popLine,
		ExpandedEndLine:   popLine,
		IndexOpposite:     pushIdx,
	})
	r.trace[pushIdx].IndexOpposite = popIdx
	r.trace[pushIdx].ExpandedEndLine = popLine
	return nil
}

func readIncludeTarget(s *scanner) (target string, angled bool) {
	c, _ := s.peek()
	if c == '"' {
		s.next()
		var b strings.Builder
		for !s.eof() {
			ch, _ := s.next()
			if ch == '"' {
				break
			}
			b.WriteRune(ch)
		}
		return b.String(), false
	}
	if c == '<' {
		s.next()
		var b strings.Builder
		for !s.eof() {
			ch, _ := s.next()
			if ch == '>' {
				break
			}
			b.WriteRune(ch)
		}
		return b.String(), true
	}
	return strings.TrimSpace(s.readToEndOfLine()), false
}

func (p *Preprocessor) resolveInclude(name string, _ bool) (resolvedPath string, data []byte, err error) {
	candidates := []string{name}
	for _, dir := range p.IncludeDirs {
		candidates = append(candidates, strings.TrimRight(dir, "/")+"/"+name)
	}
	var lastErr error
	for _, c := range candidates {
		f, openErr := p.FS.Open(c)
		if openErr != nil {
			lastErr = openErr
			continue
		}
		defer f.Close()
		buf := make([]byte, 0, 4096)
		tmp := make([]byte, 4096)
		for {
			n, rErr := f.Read(tmp)
			buf = append(buf, tmp[:n]...)
			if rErr != nil {
				break
			}
		}
		return c, buf, nil
	}
	if lastErr == nil {
		lastErr = strconv.ErrSyntax
	}
	return "", nil, lastErr
}
