package parser

import (
	"github.com/vellumlang/vellum/lang/ast"
	"github.com/vellumlang/vellum/lang/diagnostic"
	"github.com/vellumlang/vellum/lang/scanner"
)

// Parser consumes a Lexeme stream from a single file and builds an
// ast.Module, accumulating diagnostics rather than stopping at the first
// syntax error (matching the teacher's lang/parser posture of collecting
// into an ErrorList).
type Parser struct {
	sc    *scanner.Scanner
	diags *diagnostic.List

	cur  scanner.Lexeme
	next scanner.Lexeme
}

// New returns a parser reading from sc.
func New(sc *scanner.Scanner, diags *diagnostic.List) *Parser {
	p := &Parser{sc: sc, diags: diags}
	p.cur = p.sc.Next()
	p.next = p.sc.Next()
	return p
}

func (p *Parser) advance() scanner.Lexeme {
	cur := p.cur
	p.cur = p.next
	p.next = p.sc.Next()
	return cur
}

func (p *Parser) check(t scanner.Token) bool { return p.cur.Token == t }

func (p *Parser) expect(t scanner.Token, context string) scanner.Lexeme {
	if p.cur.Token != t {
		p.diags.Addf(p.cur.Position, "unexpected token", "expected %s %s, found %s", t, context, p.cur.Token)
		return p.cur
	}
	return p.advance()
}

// ParseModule parses the entire token stream as a sequence of top-level
// statements.
func (p *Parser) ParseModule() *ast.Module {
	m := &ast.Module{}
	for !p.check(scanner.EOF) {
		m.Statements = append(m.Statements, p.parseStatement())
	}
	return m
}

func (p *Parser) parseStatement() *ast.Node {
	switch p.cur.Token {
	case scanner.KW_LET:
		return p.parseLet()
	case scanner.KW_FN:
		return p.parseFunction()
	case scanner.KW_IF:
		return p.parseIf()
	case scanner.KW_WHILE:
		return p.parseWhile()
	case scanner.KW_LOOP:
		return p.parseLoop()
	case scanner.KW_BREAK:
		return p.parseBreakContinue(ast.KindBreak)
	case scanner.KW_CONTINUE:
		return p.parseBreakContinue(ast.KindContinue)
	case scanner.KW_RETURN:
		return p.parseReturn()
	case scanner.LBRACE:
		return p.parseBlock()
	default:
		return p.parseExprStatement()
	}
}

func (p *Parser) parseLet() *ast.Node {
	start := p.advance().Position
	mutable := false
	if p.check(scanner.KW_MUT) {
		p.advance()
		mutable = true
	}
	name := p.expect(scanner.IDENT, "after let")
	var typ *ast.TypeExpr
	if p.check(scanner.COLON) {
		p.advance()
		t := p.parseTypeExpr()
		typ = &t
	}
	p.expect(scanner.EQ, "in let binding")
	value := p.parseExpression(PrecAssignment)
	p.consumeSemi()
	return &ast.Node{
		Kind:       ast.KindLet,
		Position:   start,
		Name:       name.Text,
		Mutable:    mutable,
		Children:   []*ast.Node{value},
		ReturnType: typ,
	}
}

func (p *Parser) parseTypeExpr() ast.TypeExpr {
	if p.check(scanner.LBRACKET) {
		p.advance()
		elem := p.parseTypeExpr()
		p.expect(scanner.RBRACKET, "closing list type")
		return ast.TypeExpr{Name: "list", Elem: &elem}
	}
	name := p.expect(scanner.IDENT, "in type annotation")
	return ast.TypeExpr{Name: name.Text}
}

func (p *Parser) parseFunction() *ast.Node {
	start := p.advance().Position
	name := p.expect(scanner.IDENT, "after fn")
	p.expect(scanner.LPAREN, "after function name")
	var params []ast.Param
	for !p.check(scanner.RPAREN) && !p.check(scanner.EOF) {
		pname := p.expect(scanner.IDENT, "in parameter list")
		p.expect(scanner.COLON, "after parameter name")
		ptyp := p.parseTypeExpr()
		params = append(params, ast.Param{Name: pname.Text, Type: ptyp})
		if p.check(scanner.COMMA) {
			p.advance()
		}
	}
	p.expect(scanner.RPAREN, "closing parameter list")
	var ret *ast.TypeExpr
	if p.check(scanner.ARROW) {
		p.advance()
		t := p.parseTypeExpr()
		ret = &t
	}
	body := p.parseBlock()
	return &ast.Node{
		Kind:       ast.KindFunction,
		Position:   start,
		Name:       name.Text,
		Params:     params,
		ReturnType: ret,
		Children:   []*ast.Node{body},
	}
}

func (p *Parser) parseBlock() *ast.Node {
	start := p.expect(scanner.LBRACE, "to start block").Position
	var stmts []*ast.Node
	for !p.check(scanner.RBRACE) && !p.check(scanner.EOF) {
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(scanner.RBRACE, "to close block")
	return &ast.Node{Kind: ast.KindBlock, Position: start, Children: stmts}
}

func (p *Parser) parseIf() *ast.Node {
	start := p.advance().Position
	cond := p.parseExpression(PrecAssignment)
	then := p.parseBlock()
	children := []*ast.Node{cond, then}
	if p.check(scanner.KW_ELSE) {
		p.advance()
		var els *ast.Node
		if p.check(scanner.KW_IF) {
			els = p.parseIf()
		} else {
			els = p.parseBlock()
		}
		children = append(children, els)
	}
	return &ast.Node{Kind: ast.KindIf, Position: start, Children: children}
}

func (p *Parser) parseWhile() *ast.Node {
	start := p.advance().Position
	cond := p.parseExpression(PrecAssignment)
	body := p.parseBlock()
	return &ast.Node{Kind: ast.KindWhile, Position: start, Children: []*ast.Node{cond, body}}
}

func (p *Parser) parseLoop() *ast.Node {
	start := p.advance().Position
	body := p.parseBlock()
	return &ast.Node{Kind: ast.KindLoop, Position: start, Children: []*ast.Node{body}}
}

func (p *Parser) parseBreakContinue(kind ast.NodeKind) *ast.Node {
	start := p.advance().Position
	n := &ast.Node{Kind: kind, Position: start}
	p.consumeSemi()
	return n
}

func (p *Parser) parseReturn() *ast.Node {
	start := p.advance().Position
	var children []*ast.Node
	if !p.check(scanner.SEMI) && !p.check(scanner.RBRACE) {
		children = append(children, p.parseExpression(PrecAssignment))
	}
	p.consumeSemi()
	return &ast.Node{Kind: ast.KindReturn, Position: start, Children: children}
}

func (p *Parser) parseExprStatement() *ast.Node {
	pos := p.cur.Position
	e := p.parseExpression(PrecAssignment)
	p.consumeSemi()
	return &ast.Node{Kind: ast.KindExprStmt, Position: pos, Children: []*ast.Node{e}}
}

func (p *Parser) consumeSemi() {
	if p.check(scanner.SEMI) {
		p.advance()
	}
}

// parseExpression implements precedence-climbing: it parses a prefix
// expression, then repeatedly consumes infix operators whose precedence is
// at least minPrec, exactly mirroring the loop shape
// original_source/dust-lang/src/compiler/parse_rule.rs's table is designed
// to drive.
func (p *Parser) parseExpression(minPrec Precedence) *ast.Node {
	rule := p.ruleFor(p.cur.Token)
	if rule.prefix == nil {
		p.diags.Addf(p.cur.Position, "unexpected token", "expected an expression, found %s", p.cur.Token)
		pos := p.advance().Position
		return &ast.Node{Kind: ast.KindIntegerLiteral, Position: pos}
	}
	left := rule.prefix(p)

	for {
		r := p.ruleFor(p.cur.Token)
		if r.infix == nil || r.precedence < minPrec {
			break
		}
		left = r.infix(p, left)
	}
	return left
}

func (p *Parser) parseLiteral() *ast.Node {
	l := p.advance()
	pos := l.Position
	switch l.Token {
	case scanner.INTEGER:
		return &ast.Node{Kind: ast.KindIntegerLiteral, Position: pos, IntValue: l.IntValue}
	case scanner.FLOAT:
		return &ast.Node{Kind: ast.KindFloatLiteral, Position: pos, FloatValue: l.FloatValue}
	case scanner.STRING:
		return &ast.Node{Kind: ast.KindStringLiteral, Position: pos, StringValue: l.StringValue}
	case scanner.CHARACTER:
		return &ast.Node{Kind: ast.KindCharacterLiteral, Position: pos, RuneValue: l.RuneValue}
	case scanner.BYTE_LITERAL:
		return &ast.Node{Kind: ast.KindByteLiteral, Position: pos, ByteValue: l.ByteValue}
	case scanner.TRUE:
		return &ast.Node{Kind: ast.KindBooleanLiteral, Position: pos, BoolValue: true}
	case scanner.FALSE:
		return &ast.Node{Kind: ast.KindBooleanLiteral, Position: pos, BoolValue: false}
	default:
		return &ast.Node{Kind: ast.KindIntegerLiteral, Position: pos}
	}
}

func (p *Parser) parseIdentifier() *ast.Node {
	l := p.advance()
	return &ast.Node{Kind: ast.KindIdentifier, Position: l.Position, Name: l.Text}
}

func (p *Parser) parseGrouping() *ast.Node {
	p.advance() // (
	e := p.parseExpression(PrecAssignment)
	p.expect(scanner.RPAREN, "closing grouped expression")
	return e
}

func (p *Parser) parseUnary() *ast.Node {
	op := p.advance()
	operand := p.parseExpression(PrecUnary)
	return &ast.Node{Kind: ast.KindUnary, Position: op.Position, Operator: int8(op.Token), Children: []*ast.Node{operand}}
}

func (p *Parser) parseBinary(left *ast.Node) *ast.Node {
	op := p.advance()
	rule := p.ruleFor(op.Token)
	right := p.parseExpression(rule.precedence + 1)
	return &ast.Node{Kind: ast.KindBinary, Position: op.Position, Operator: int8(op.Token), Children: []*ast.Node{left, right}}
}

func (p *Parser) parseLogical(left *ast.Node) *ast.Node {
	op := p.advance()
	rule := p.ruleFor(op.Token)
	right := p.parseExpression(rule.precedence + 1)
	return &ast.Node{Kind: ast.KindLogical, Position: op.Position, Operator: int8(op.Token), Children: []*ast.Node{left, right}}
}

func (p *Parser) parseAssign(left *ast.Node) *ast.Node {
	op := p.advance()
	right := p.parseExpression(PrecAssignment)
	return &ast.Node{Kind: ast.KindAssign, Position: op.Position, Operator: int8(op.Token), Children: []*ast.Node{left, right}}
}

func (p *Parser) parseCall(callee *ast.Node) *ast.Node {
	start := p.advance().Position // (
	args := []*ast.Node{callee}
	for !p.check(scanner.RPAREN) && !p.check(scanner.EOF) {
		args = append(args, p.parseExpression(PrecAssignment))
		if p.check(scanner.COMMA) {
			p.advance()
		}
	}
	p.expect(scanner.RPAREN, "closing call arguments")
	return &ast.Node{Kind: ast.KindCall, Position: start, Children: args}
}

func (p *Parser) parseIndex(receiver *ast.Node) *ast.Node {
	start := p.advance().Position // [
	idx := p.parseExpression(PrecAssignment)
	p.expect(scanner.RBRACKET, "closing index expression")
	return &ast.Node{Kind: ast.KindIndex, Position: start, Children: []*ast.Node{receiver, idx}}
}

func (p *Parser) parseListLiteral() *ast.Node {
	start := p.advance().Position // [
	var elems []*ast.Node
	for !p.check(scanner.RBRACKET) && !p.check(scanner.EOF) {
		elems = append(elems, p.parseExpression(PrecAssignment))
		if p.check(scanner.COMMA) {
			p.advance()
		}
	}
	p.expect(scanner.RBRACKET, "closing list literal")
	return &ast.Node{Kind: ast.KindListLiteral, Position: start, Children: elems}
}
