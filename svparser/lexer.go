package svparser

import (
	"strings"
	"unicode/utf8"
)

// TokenKind classifies one lexical token of expanded SystemVerilog source.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokIdent
	TokKeyword
	TokNumber
	TokString
	TokSystemCall // $display, $bits, ...
	TokOperator
	TokPunct // ( ) [ ] { } ; , . :
)

// Token is one lexed unit with its source span (1-indexed line/column).
type Token struct {
	Kind                         TokenKind
	Text                         string
	Line, Col, EndLine, EndCol   uint32
}

var keywords = map[string]bool{}

func init() {
	for _, kw := range []string{
		"module", "endmodule", "interface", "endinterface", "program", "endprogram",
		"package", "endpackage", "class", "endclass", "primitive", "endprimitive",
		"checker", "endchecker", "input", "output", "inout", "wire", "logic", "reg",
		"bit", "int", "integer", "parameter", "localparam", "begin", "end", "if",
		"else", "case", "casex", "casez", "endcase", "for", "generate", "endgenerate",
		"genvar", "assign", "always", "always_comb", "always_ff", "always_latch",
		"initial", "function", "endfunction", "task", "endtask", "typedef", "struct",
		"union", "enum", "packed", "signed", "unsigned", "posedge", "negedge", "default",
		"fork", "join", "return", "defparam", "extends", "implements", "virtual",
	} {
		keywords[kw] = true
	}
}

// runeReader is the low-level mark/save/restore cursor svparser's lexer
// scans with, grounded on parser/lexer.go's runeReader: a byte slice
// cursor supporting save/restore around lookahead and a stable mark for
// slicing out the text a token spans.
type runeReader struct {
	data []byte
	pos  int
	line uint32
	col  uint32

	savedPos, savedLine, savedCol int
	mark                          int
}

func newRuneReader(data []byte) *runeReader {
	return &runeReader{data: data, pos: 0, line: 1, col: 1}
}

func (rr *runeReader) save() {
	rr.savedPos, rr.savedLine, rr.savedCol = rr.pos, int(rr.line), int(rr.col)
}

func (rr *runeReader) restore() {
	rr.pos, rr.line, rr.col = rr.savedPos, uint32(rr.savedLine), uint32(rr.savedCol)
}

func (rr *runeReader) setMark() { rr.mark = rr.pos }

func (rr *runeReader) sinceMark() string { return string(rr.data[rr.mark:rr.pos]) }

func (rr *runeReader) eof() bool { return rr.pos >= len(rr.data) }

func (rr *runeReader) peek() (rune, int) {
	if rr.eof() {
		return 0, 0
	}
	r, size := utf8.DecodeRune(rr.data[rr.pos:])
	return r, size
}

func (rr *runeReader) next() rune {
	r, size := rr.peek()
	if size == 0 {
		return 0
	}
	rr.pos += size
	if r == '\n' {
		rr.line++
		rr.col = 1
	} else {
		rr.col++
	}
	return r
}

// Lexer tokenizes expanded (preprocessed) SystemVerilog text into a flat
// token stream, deliberately not producing a parse tree itself: svparser's
// two-pass strategy runs the same token stream through ParseSLL and, on
// failure, ParseLL, so tokenizing is a one-time cost shared by both passes.
type Lexer struct {
	rr *runeReader
}

func NewLexer(data []byte) *Lexer { return &Lexer{rr: newRuneReader(data)} }

// Tokenize returns every token in the input, skipping whitespace and
// comments (already free of directive text, since the preprocessor has
// run first).
func (lx *Lexer) Tokenize() []Token {
	var toks []Token
	for {
		lx.skipTrivia()
		if lx.rr.eof() {
			break
		}
		toks = append(toks, lx.lexOne())
	}
	toks = append(toks, Token{Kind: TokEOF, Line: lx.rr.line, Col: lx.rr.col})
	return toks
}

func (lx *Lexer) skipTrivia() {
	for !lx.rr.eof() {
		r, _ := lx.rr.peek()
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			lx.rr.next()
		case r == '/' && lx.peekAt(1) == '/':
			for !lx.rr.eof() {
				if lx.rr.next() == '\n' {
					break
				}
			}
		case r == '/' && lx.peekAt(1) == '*':
			lx.rr.next()
			lx.rr.next()
			for !lx.rr.eof() {
				if lx.rr.next() == '*' {
					if r2, _ := lx.rr.peek(); r2 == '/' {
						lx.rr.next()
						break
					}
				}
			}
		default:
			return
		}
	}
}

func (lx *Lexer) peekAt(offset int) rune {
	lx.rr.save()
	defer lx.rr.restore()
	var r rune
	for i := 0; i <= offset; i++ {
		var size int
		r, size = lx.rr.peek()
		if size == 0 {
			return 0
		}
		if i < offset {
			lx.rr.next()
		}
	}
	return r
}

func (lx *Lexer) lexOne() Token {
	startLine, startCol := lx.rr.line, lx.rr.col
	lx.rr.setMark()
	r, _ := lx.rr.peek()

	switch {
	case r == '"':
		return lx.lexString(startLine, startCol)
	case r == '$':
		lx.rr.next()
		lx.consumeIdentTail()
		return lx.finish(TokSystemCall, startLine, startCol)
	case isIdentStart(r):
		lx.rr.next()
		lx.consumeIdentTail()
		text := lx.rr.sinceMark()
		if keywords[text] {
			return lx.finishText(TokKeyword, text, startLine, startCol)
		}
		return lx.finishText(TokIdent, text, startLine, startCol)
	case r >= '0' && r <= '9':
		lx.rr.next()
		for {
			r2, _ := lx.rr.peek()
			if r2 >= '0' && r2 <= '9' || r2 == '\'' || r2 == '_' || r2 == 'x' || r2 == 'X' ||
				r2 == 'z' || r2 == 'Z' || (r2 >= 'a' && r2 <= 'f') || (r2 >= 'A' && r2 <= 'F') ||
				r2 == 'b' || r2 == 'B' || r2 == 'd' || r2 == 'D' || r2 == 'o' || r2 == 'O' ||
				r2 == 'h' || r2 == 'H' || r2 == 's' || r2 == 'S' || r2 == '.' {
				lx.rr.next()
				continue
			}
			break
		}
		return lx.finish(TokNumber, startLine, startCol)
	case strings.ContainsRune("=!<>&|+-*/%^~", r):
		lx.rr.next()
		for {
			r2, _ := lx.rr.peek()
			if strings.ContainsRune("=<>&|", r2) {
				lx.rr.next()
				continue
			}
			break
		}
		return lx.finish(TokOperator, startLine, startCol)
	default:
		lx.rr.next()
		return lx.finish(TokPunct, startLine, startCol)
	}
}

func (lx *Lexer) consumeIdentTail() {
	for {
		r, _ := lx.rr.peek()
		if isIdentStart(r) || (r >= '0' && r <= '9') {
			lx.rr.next()
			continue
		}
		break
	}
}

func (lx *Lexer) lexString(startLine, startCol uint32) Token {
	lx.rr.next() // opening quote
	var b strings.Builder
	for !lx.rr.eof() {
		r := lx.rr.next()
		if r == '"' {
			break
		}
		if r == '\\' {
			b.WriteRune(r)
			b.WriteRune(lx.rr.next())
			continue
		}
		b.WriteRune(r)
	}
	return Token{Kind: TokString, Text: b.String(), Line: startLine, Col: startCol, EndLine: lx.rr.line, EndCol: lx.rr.col}
}

func (lx *Lexer) finish(kind TokenKind, startLine, startCol uint32) Token {
	return lx.finishText(kind, lx.rr.sinceMark(), startLine, startCol)
}

func (lx *Lexer) finishText(kind TokenKind, text string, startLine, startCol uint32) Token {
	return Token{Kind: kind, Text: text, Line: startLine, Col: startCol, EndLine: lx.rr.line, EndCol: lx.rr.col}
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
