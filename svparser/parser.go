// Package svparser turns expanded SystemVerilog text into a
// fcontent.FileContent parser tree. It runs a two-pass strategy: ParseSLL
// first, a strict single-pass recursive-descent walk that bails on the
// first unexpected token (grounded on parser/parser.go's own single-pass,
// no-recovery grammar); if that fails, ParseLL re-parses the same token
// stream in error-tolerant mode, recording every problem it finds via a
// DescriptiveErrorListener instead of stopping at the first one, so a
// caller gets a full list of syntax errors per chunk rather than one at a
// time.
package svparser

import (
	"fmt"

	"github.com/svfront/svfront/fcontent"
	"github.com/svfront/svfront/ids"
	"github.com/svfront/svfront/locmap"
	"github.com/svfront/svfront/symtab"
)

// parser walks a token stream and builds a fcontent.FileContent. tolerant
// controls whether a wrong/missing token aborts the parse (ParseSLL) or is
// recorded on errs while parsing continues (ParseLL).
type parser struct {
	toks    []Token
	pos     int
	file    ids.PathId
	symbols *symtab.Table
	tree    *fcontent.FileContent
	tolerant bool
	errs    *DescriptiveErrorListener
}

// ParseSLL attempts a strict, bail-on-first-error parse of toks, returning
// the built tree or an error identifying the offending token.
func ParseSLL(toks []Token, file ids.PathId, symbols *symtab.Table) (*fcontent.FileContent, error) {
	p := &parser{toks: toks, file: file, symbols: symbols, tree: fcontent.NewParserTree(file)}
	err := p.parseSourceText(p.tree.Root())
	if err != nil {
		return nil, err
	}
	return p.tree, nil
}

// ParseLL re-parses toks in error-tolerant mode, collecting every syntax
// problem into a DescriptiveErrorListener (whose positions are translated
// back to original source coordinates via cache, when non-nil) rather than
// stopping at the first one.
func ParseLL(toks []Token, file ids.PathId, symbols *symtab.Table, cache *locmap.Cache) (*fcontent.FileContent, *DescriptiveErrorListener) {
	listener := NewDescriptiveErrorListener(file, cache)
	p := &parser{toks: toks, file: file, symbols: symbols, tree: fcontent.NewParserTree(file), tolerant: true, errs: listener}
	_ = p.parseSourceText(p.tree.Root())
	return p.tree, listener
}

func (p *parser) cur() Token {
	if p.pos >= len(p.toks) {
		return Token{Kind: TokEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) at(kind TokenKind, text string) bool {
	t := p.cur()
	return t.Kind == kind && (text == "" || t.Text == text)
}

func (p *parser) advance() Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

// expect consumes the current token if it matches, otherwise either aborts
// (strict mode) or records the mismatch and leaves the token in place
// (tolerant mode), so the caller carries on as if the expected token had
// been present.
func (p *parser) expect(kind TokenKind, text string) (Token, error) {
	if p.at(kind, text) {
		return p.advance(), nil
	}
	got := p.cur()
	msg := fmt.Sprintf("expected %q, found %q", text, got.Text)
	if !p.tolerant {
		return got, fmt.Errorf("%d:%d: %s", got.Line, got.Col, msg)
	}
	if p.errs != nil {
		p.errs.Report(CategoryIncorrectToken, got, msg)
	}
	return got, nil
}

func (p *parser) addNode(parent ids.NodeId, kind fcontent.Kind, tok Token) ids.NodeId {
	var sym ids.SymbolId
	if tok.Text != "" {
		sym = ids.SymbolId(p.symbols.RegisterSymbol(tok.Text))
	}
	return p.tree.AddChild(parent, fcontent.VObject{
		Kind:   kind,
		Symbol: sym,
		File:   p.file,
		Start:  fcontent.Position{Line: tok.Line, Column: tok.Col},
		End:    fcontent.Position{Line: tok.EndLine, Column: tok.EndCol},
	})
}

// parseSourceText walks top-level declarations until EOF, recovering in
// tolerant mode by skipping to the next token that can plausibly start a
// new top-level declaration.
func (p *parser) parseSourceText(root ids.NodeId) error {
	for !p.at(TokEOF, "") {
		if err := p.parseTopLevelDecl(root); err != nil {
			if !p.tolerant {
				return err
			}
			p.advance()
		}
	}
	return nil
}

func (p *parser) parseTopLevelDecl(parent ids.NodeId) error {
	t := p.cur()
	if t.Kind != TokKeyword {
		msg := fmt.Sprintf("expected a declaration keyword, found %q", t.Text)
		if !p.tolerant {
			return fmt.Errorf("%d:%d: %s", t.Line, t.Col, msg)
		}
		if p.errs != nil {
			p.errs.Report(CategoryIncorrectToken, t, msg)
		}
		p.advance()
		return nil
	}

	switch t.Text {
	case "module", "interface", "program", "package", "class", "primitive", "checker":
		return p.parseModuleLikeDecl(parent, t.Text)
	default:
		msg := fmt.Sprintf("unexpected top-level keyword %q", t.Text)
		if !p.tolerant {
			return fmt.Errorf("%d:%d: %s", t.Line, t.Col, msg)
		}
		if p.errs != nil {
			p.errs.Report(CategoryIncorrectToken, t, msg)
		}
		p.advance()
		return nil
	}
}

var moduleLikeKind = map[string]fcontent.Kind{
	"module":    fcontent.ModuleDeclKind,
	"interface": fcontent.InterfaceDeclKind,
	"program":   fcontent.ProgramDeclKind,
	"package":   fcontent.PackageDeclKind,
	"class":     fcontent.ClassDeclKind,
	"primitive": fcontent.UdpDeclKind,
	"checker":   fcontent.CheckerDeclKind,
}

// parseModuleLikeDecl parses `keyword name [#(params)] [(ports)] ; items...
// end<keyword>`, the shape shared by module/interface/program/package/
// class/primitive/checker declarations.
func (p *parser) parseModuleLikeDecl(parent ids.NodeId, keyword string) error {
	kind := moduleLikeKind[keyword]
	p.advance() // keyword

	nameTok := p.cur()
	if nameTok.Kind != TokIdent {
		return p.errAt(nameTok, CategoryMissingToken, "expected declaration name")
	}
	p.advance()
	declNode := p.addNode(parent, kind, nameTok)

	if keyword == "class" && p.at(TokKeyword, "extends") {
		p.advance()
		baseTok := p.cur()
		if baseTok.Kind == TokIdent {
			p.advance()
			p.addNode(declNode, fcontent.HierPathKind, baseTok)
			if p.at(TokPunct, "(") {
				p.advance()
				p.skipExprUntil(")", "")
				if _, err := p.expect(TokPunct, ")"); err != nil {
					return err
				}
			}
		}
	}

	if p.at(TokPunct, "#") {
		p.advance()
		if _, err := p.expect(TokPunct, "("); err != nil {
			return err
		}
		if err := p.parseParameterPortList(declNode); err != nil {
			return err
		}
		if _, err := p.expect(TokPunct, ")"); err != nil {
			return err
		}
	}

	if p.at(TokPunct, "(") {
		p.advance()
		if err := p.parsePortList(declNode); err != nil {
			return err
		}
		if _, err := p.expect(TokPunct, ")"); err != nil {
			return err
		}
	}
	if _, err := p.expect(TokPunct, ";"); err != nil {
		return err
	}

	endKeyword := "end" + keyword
	for !p.at(TokKeyword, endKeyword) && !p.at(TokEOF, "") {
		if err := p.parseItem(declNode); err != nil {
			if !p.tolerant {
				return err
			}
			p.advance()
		}
	}
	_, err := p.expect(TokKeyword, endKeyword)
	return err
}

func (p *parser) errAt(tok Token, category, msg string) error {
	if !p.tolerant {
		return fmt.Errorf("%d:%d: %s", tok.Line, tok.Col, msg)
	}
	if p.errs != nil {
		p.errs.Report(category, tok, msg)
	}
	return nil
}

func (p *parser) parseParameterPortList(parent ids.NodeId) error {
	list := p.addNode(parent, fcontent.ParameterDeclKind, Token{})
	for !p.at(TokPunct, ")") && !p.at(TokEOF, "") {
		if p.at(TokKeyword, "parameter") || p.at(TokKeyword, "localparam") {
			p.advance()
		}
		nameTok := p.advance()
		p.addNode(list, fcontent.ParamAssignmentKind, nameTok)
		if p.at(TokOperator, "=") {
			p.advance()
			p.skipExprUntil(")", ",")
		}
		if p.at(TokPunct, ",") {
			p.advance()
			continue
		}
		break
	}
	return nil
}

func (p *parser) parsePortList(parent ids.NodeId) error {
	list := p.addNode(parent, fcontent.PortListKind, Token{})
	for !p.at(TokPunct, ")") && !p.at(TokEOF, "") {
		var dirTok Token
		hasDir := p.at(TokKeyword, "input") || p.at(TokKeyword, "output") || p.at(TokKeyword, "inout")
		if hasDir {
			dirTok = p.advance()
		}
		p.skipTypeTokens()
		nameTok := p.cur()
		if nameTok.Kind == TokIdent {
			p.advance()
			port := p.addNode(list, fcontent.PortDeclKind, nameTok)
			if hasDir {
				// recorded as a child terminal rather than folded into
				// PortDeclKind's own Symbol, so the port's name stays the
				// node's Symbol and compile can read direction separately.
				p.addNode(port, fcontent.KeywordTerminalKind, dirTok)
			}
		}
		if p.at(TokPunct, ",") {
			p.advance()
			continue
		}
		break
	}
	return nil
}

func (p *parser) skipTypeTokens() {
	for p.at(TokKeyword, "wire") || p.at(TokKeyword, "logic") || p.at(TokKeyword, "reg") ||
		p.at(TokKeyword, "bit") || p.at(TokKeyword, "signed") || p.at(TokKeyword, "unsigned") {
		p.advance()
	}
	if p.at(TokPunct, "[") {
		p.advance()
		p.skipExprUntil("]", "")
		p.advance()
	}
}

// skipExprUntil consumes tokens, tracking bracket/paren nesting, until it
// sees stop (at depth 0) or, if stop2 is non-empty, either stop or stop2.
// It does not consume the terminator itself.
func (p *parser) skipExprUntil(stop, stop2 string) {
	depth := 0
	for !p.at(TokEOF, "") {
		t := p.cur()
		if depth == 0 && (t.Text == stop || (stop2 != "" && t.Text == stop2)) {
			return
		}
		if t.Kind == TokPunct && (t.Text == "(" || t.Text == "[" || t.Text == "{") {
			depth++
		}
		if t.Kind == TokPunct && (t.Text == ")" || t.Text == "]" || t.Text == "}") {
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}
