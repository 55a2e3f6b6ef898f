package svparser

import (
	"fmt"

	"github.com/svfront/svfront/fcontent"
	"github.com/svfront/svfront/ids"
)

// parseItem parses one module/interface/program/class item: a net or
// variable declaration, a continuous assignment, a procedural block, a
// module instantiation, a generate construct, a task/function, or a
// typedef. Any item it does not recognize is recorded as an
// UnsupportedStmtKind leaf spanning the single lookahead token, mirroring
// compile's own documented escape hatch for constructs outside the modeled
// subset, rather than aborting the whole declaration.
func (p *parser) parseItem(parent ids.NodeId) error {
	t := p.cur()
	switch {
	case t.Kind == TokKeyword && (t.Text == "wire" || t.Text == "logic" || t.Text == "reg" || t.Text == "bit"):
		return p.parseNetOrVarDecl(parent)
	case t.Kind == TokKeyword && (t.Text == "parameter" || t.Text == "localparam"):
		return p.parseLocalParamDecl(parent)
	case t.Kind == TokKeyword && t.Text == "assign":
		return p.parseContinuousAssign(parent)
	case t.Kind == TokKeyword && (t.Text == "always" || t.Text == "always_comb" || t.Text == "always_ff" || t.Text == "always_latch"):
		return p.parseAlwaysBlock(parent)
	case t.Kind == TokKeyword && t.Text == "initial":
		return p.parseInitialBlock(parent)
	case t.Kind == TokKeyword && t.Text == "generate":
		return p.parseGenerateRegion(parent)
	case t.Kind == TokKeyword && t.Text == "typedef":
		return p.parseTypedef(parent)
	case t.Kind == TokKeyword && t.Text == "task":
		return p.parseTaskOrFunction(parent, true)
	case t.Kind == TokKeyword && t.Text == "function":
		return p.parseTaskOrFunction(parent, false)
	case t.Kind == TokKeyword && t.Text == "defparam":
		return p.parseDefparam(parent)
	case t.Kind == TokIdent:
		return p.parseInstantiationOrUnsupported(parent)
	default:
		p.addNode(parent, fcontent.UnsupportedStmtKind, t)
		p.advance()
		return nil
	}
}

func (p *parser) parseNetOrVarDecl(parent ids.NodeId) error {
	kw := p.advance() // wire/logic/reg/bit
	kind := fcontent.VarDeclKind
	if kw.Text == "wire" {
		kind = fcontent.NetDeclKind
	}
	if p.at(TokKeyword, "signed") || p.at(TokKeyword, "unsigned") {
		p.advance()
	}
	if p.at(TokPunct, "[") {
		p.advance()
		p.skipExprUntil("]", "")
		p.advance()
	}
	for {
		nameTok := p.cur()
		if nameTok.Kind != TokIdent {
			return p.errAt(nameTok, CategoryMissingToken, "expected a net/variable name")
		}
		p.advance()
		p.addNode(parent, kind, nameTok)
		if p.at(TokOperator, "=") {
			p.advance()
			p.skipExprUntil(";", ",")
		}
		if p.at(TokPunct, ",") {
			p.advance()
			continue
		}
		break
	}
	_, err := p.expect(TokPunct, ";")
	return err
}

func (p *parser) parseLocalParamDecl(parent ids.NodeId) error {
	p.advance()
	for {
		nameTok := p.cur()
		if nameTok.Kind != TokIdent {
			return p.errAt(nameTok, CategoryMissingToken, "expected a parameter name")
		}
		p.advance()
		p.addNode(parent, fcontent.ParamAssignmentKind, nameTok)
		if p.at(TokOperator, "=") {
			p.advance()
			p.skipExprUntil(";", ",")
		}
		if p.at(TokPunct, ",") {
			p.advance()
			continue
		}
		break
	}
	_, err := p.expect(TokPunct, ";")
	return err
}

func (p *parser) parseContinuousAssign(parent ids.NodeId) error {
	kwTok := p.advance() // assign
	node := p.addNode(parent, fcontent.ContinuousAssignKind, kwTok)
	lhs := p.cur()
	if lhs.Kind == TokIdent {
		p.advance()
		p.addNode(node, fcontent.IdentifierKind, lhs)
	}
	if _, err := p.expect(TokOperator, "="); err != nil {
		return err
	}
	p.skipExprUntil(";", "")
	_, err := p.expect(TokPunct, ";")
	return err
}

func (p *parser) parseAlwaysBlock(parent ids.NodeId) error {
	kwTok := p.advance()
	node := p.addNode(parent, fcontent.AlwaysBlockKind, kwTok)
	if p.at(TokPunct, "@") {
		p.advance()
		p.skipExprUntil(";", "begin")
	}
	return p.parseStatementOrBlock(node)
}

func (p *parser) parseInitialBlock(parent ids.NodeId) error {
	kwTok := p.advance()
	node := p.addNode(parent, fcontent.InitialBlockKind, kwTok)
	return p.parseStatementOrBlock(node)
}

// parseStatementOrBlock parses a single statement or a begin...end /
// fork...join block, treating any statement kind it does not model as an
// UnsupportedStmtKind leaf at its first token, skipping the rest of it up
// to the terminating semicolon.
func (p *parser) parseStatementOrBlock(parent ids.NodeId) error {
	if p.at(TokKeyword, "begin") || p.at(TokKeyword, "fork") {
		return p.parseSeqOrParBlock(parent, false)
	}
	if p.at(TokKeyword, "if") {
		return p.parseIfStmt(parent)
	}
	if p.at(TokKeyword, "case") || p.at(TokKeyword, "casex") || p.at(TokKeyword, "casez") {
		return p.parseCaseStmt(parent)
	}
	return p.parseSimpleStmt(parent)
}

// parseSeqOrParBlock implements begin[:label] ... end and fork[:label] ...
// join, recording both labels as child identifiers. Nothing compares them:
// compile keeps the first as the block's Label, and no COMP_UNMATCHED_LABEL
// diagnostic is reported. When items is true (a generate block body) the
// block's contents are parsed as module items rather than statements.
func (p *parser) parseSeqOrParBlock(parent ids.NodeId, items bool) error {
	openTok := p.advance() // begin/fork
	kind := fcontent.SeqBlockKind
	endKeyword := "end"
	if openTok.Text == "fork" {
		kind = fcontent.ParBlockKind
		endKeyword = "join"
	}
	node := p.addNode(parent, kind, openTok)
	if p.at(TokPunct, ":") {
		p.advance()
		labelTok := p.cur()
		if labelTok.Kind == TokIdent {
			p.advance()
			p.addNode(node, fcontent.IdentifierKind, labelTok)
		}
	}
	for !p.at(TokKeyword, endKeyword) && !p.at(TokEOF, "") {
		parseOne := p.parseStatementOrBlock
		if items {
			parseOne = p.parseItem
		}
		if err := parseOne(node); err != nil {
			if !p.tolerant {
				return err
			}
			p.advance()
		}
	}
	_, err := p.expect(TokKeyword, endKeyword)
	if err != nil {
		return err
	}
	if p.at(TokPunct, ":") {
		p.advance()
		labelTok := p.cur()
		if labelTok.Kind == TokIdent {
			p.advance()
			p.addNode(node, fcontent.IdentifierKind, labelTok)
		}
	}
	return nil
}

func (p *parser) parseIfStmt(parent ids.NodeId) error {
	ifTok := p.advance()
	if _, err := p.expect(TokPunct, "("); err != nil {
		return err
	}
	p.skipExprUntil(")", "")
	if _, err := p.expect(TokPunct, ")"); err != nil {
		return err
	}
	kind := fcontent.IfStmtKind
	node := p.addNode(parent, kind, ifTok)
	if err := p.parseStatementOrBlock(node); err != nil {
		return err
	}
	if p.at(TokKeyword, "else") {
		p.advance()
		p.tree.MutateNode(node, func(v *fcontent.VObject) { v.Kind = fcontent.IfElseStmtKind })
		return p.parseStatementOrBlock(node)
	}
	return nil
}

func (p *parser) parseCaseStmt(parent ids.NodeId) error {
	caseTok := p.advance()
	node := p.addNode(parent, fcontent.CaseStmtKind, caseTok)
	if _, err := p.expect(TokPunct, "("); err != nil {
		return err
	}
	p.skipExprUntil(")", "")
	if _, err := p.expect(TokPunct, ")"); err != nil {
		return err
	}
	for !p.at(TokKeyword, "endcase") && !p.at(TokEOF, "") {
		itemTok := p.cur()
		item := p.addNode(node, fcontent.CaseItemKind, itemTok)
		p.skipExprUntil(":", "")
		if _, err := p.expect(TokPunct, ":"); err != nil {
			return err
		}
		if err := p.parseStatementOrBlock(item); err != nil {
			return err
		}
	}
	_, err := p.expect(TokKeyword, "endcase")
	return err
}

func (p *parser) parseSimpleStmt(parent ids.NodeId) error {
	start := p.cur()
	lhs := p.cur()
	if lhs.Kind != TokIdent {
		p.addNode(parent, fcontent.UnsupportedStmtKind, start)
		p.skipExprUntil(";", "")
		if p.at(TokPunct, ";") {
			p.advance()
		}
		return nil
	}
	p.advance()
	if p.at(TokOperator, "<=") {
		p.advance()
		node := p.addNode(parent, fcontent.NonblockingAssignKind, lhs)
		p.addNode(node, fcontent.IdentifierKind, lhs)
		p.skipExprUntil(";", "")
		_, err := p.expect(TokPunct, ";")
		return err
	}
	if p.at(TokOperator, "=") {
		p.advance()
		node := p.addNode(parent, fcontent.BlockingAssignKind, lhs)
		p.addNode(node, fcontent.IdentifierKind, lhs)
		p.skipExprUntil(";", "")
		_, err := p.expect(TokPunct, ";")
		return err
	}
	// not an assignment after all (e.g. a task call or instantiation without
	// a port list): treat the identifier itself as the unsupported span.
	p.addNode(parent, fcontent.UnsupportedStmtKind, lhs)
	p.skipExprUntil(";", "")
	if p.at(TokPunct, ";") {
		p.advance()
	}
	return nil
}

// parseInstantiationOrUnsupported handles `Ident Ident(...);` (a module
// instantiation) at item scope, distinguishing it from a bare identifier
// statement by requiring two identifiers in a row.
func (p *parser) parseInstantiationOrUnsupported(parent ids.NodeId) error {
	typeTok := p.advance()
	if p.at(TokPunct, "#") {
		p.advance()
		if _, err := p.expect(TokPunct, "("); err != nil {
			return err
		}
		p.skipExprUntil(")", "")
		if _, err := p.expect(TokPunct, ")"); err != nil {
			return err
		}
	}
	nameTok := p.cur()
	if nameTok.Kind != TokIdent {
		p.addNode(parent, fcontent.UnsupportedStmtKind, typeTok)
		p.skipExprUntil(";", "")
		if p.at(TokPunct, ";") {
			p.advance()
		}
		return nil
	}
	p.advance()
	node := p.addNode(parent, fcontent.InstantiationKind, typeTok)
	p.addNode(node, fcontent.IdentifierKind, nameTok)
	if p.at(TokPunct, "(") {
		p.advance()
		p.skipExprUntil(")", "")
		if _, err := p.expect(TokPunct, ")"); err != nil {
			return err
		}
	}
	_, err := p.expect(TokPunct, ";")
	return err
}

func (p *parser) parseTypedef(parent ids.NodeId) error {
	kwTok := p.advance()
	p.addNode(parent, fcontent.TypedefDeclKind, kwTok)
	p.skipExprUntil(";", "")
	_, err := p.expect(TokPunct, ";")
	return err
}

func (p *parser) parseDefparam(parent ids.NodeId) error {
	kwTok := p.advance()
	p.addNode(parent, fcontent.UnsupportedStmtKind, kwTok)
	p.skipExprUntil(";", "")
	_, err := p.expect(TokPunct, ";")
	return err
}

func (p *parser) parseTaskOrFunction(parent ids.NodeId, isTask bool) error {
	kwTok := p.advance()
	kind := fcontent.FunctionDeclKind
	endKeyword := "endfunction"
	if isTask {
		kind = fcontent.TaskDeclKind
		endKeyword = "endtask"
	}
	if isTask {
		// a task has no return type; its name follows the keyword
	} else {
		p.skipTypeTokens()
	}
	nameTok := p.cur()
	if nameTok.Kind != TokIdent {
		return p.errAt(nameTok, CategoryMissingToken, fmt.Sprintf("expected %s name", kwTok.Text))
	}
	p.advance()
	node := p.addNode(parent, kind, nameTok)
	if p.at(TokPunct, "(") {
		p.advance()
		p.skipExprUntil(")", "")
		if _, err := p.expect(TokPunct, ")"); err != nil {
			return err
		}
	}
	if _, err := p.expect(TokPunct, ";"); err != nil {
		return err
	}
	for !p.at(TokKeyword, endKeyword) && !p.at(TokEOF, "") {
		if err := p.parseItem(node); err != nil {
			if !p.tolerant {
				return err
			}
			p.advance()
		}
	}
	_, err := p.expect(TokKeyword, endKeyword)
	return err
}

// parseGenerateRegion parses `generate ... endgenerate`, a thin wrapper
// whose items are ordinary generate-if/generate-for constructs or plain
// items (SystemVerilog allows generate to be omitted entirely; when present
// it is purely a grouping keyword).
func (p *parser) parseGenerateRegion(parent ids.NodeId) error {
	kwTok := p.advance()
	node := p.addNode(parent, fcontent.GenerateBlockKind, kwTok)
	for !p.at(TokKeyword, "endgenerate") && !p.at(TokEOF, "") {
		if p.at(TokKeyword, "if") {
			if err := p.parseGenerateIf(node); err != nil {
				return err
			}
			continue
		}
		if p.at(TokKeyword, "for") {
			if err := p.parseGenerateFor(node); err != nil {
				return err
			}
			continue
		}
		if err := p.parseItem(node); err != nil {
			if !p.tolerant {
				return err
			}
			p.advance()
		}
	}
	_, err := p.expect(TokKeyword, "endgenerate")
	return err
}

func (p *parser) parseGenerateIf(parent ids.NodeId) error {
	ifTok := p.advance()
	node := p.addNode(parent, fcontent.GenerateIfKind, ifTok)
	if _, err := p.expect(TokPunct, "("); err != nil {
		return err
	}
	p.skipExprUntil(")", "")
	if _, err := p.expect(TokPunct, ")"); err != nil {
		return err
	}
	if err := p.parseGenerateBody(node); err != nil {
		return err
	}
	if p.at(TokKeyword, "else") {
		p.advance()
		return p.parseGenerateBody(node)
	}
	return nil
}

func (p *parser) parseGenerateFor(parent ids.NodeId) error {
	forTok := p.advance()
	node := p.addNode(parent, fcontent.GenerateForKind, forTok)
	if _, err := p.expect(TokPunct, "("); err != nil {
		return err
	}
	p.skipExprUntil(")", "")
	if _, err := p.expect(TokPunct, ")"); err != nil {
		return err
	}
	return p.parseGenerateBody(node)
}

// parseGenerateBody parses the `begin[:label] ... end` or single-item body
// of a generate-if/generate-for branch.
func (p *parser) parseGenerateBody(parent ids.NodeId) error {
	if p.at(TokKeyword, "begin") {
		return p.parseSeqOrParBlock(parent, true)
	}
	return p.parseItem(parent)
}
