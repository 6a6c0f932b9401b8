// Package parser builds an ast.Module from a scanner.Lexeme stream using a
// single-pass Pratt expression parser plus recursive-descent statements.
//
// The precedence ladder and prefix/infix table are grounded directly in
// original_source/dust-lang/src/compiler/parse_rule.rs's ParseRule table
// and Precedence enum (None < Assignment < Logic < Comparison < Term <
// Factor < Unary < Call < Primary), reworked from the original's
// per-token match expression into a Go table indexed by scanner.Token.
package parser

import (
	"github.com/vellumlang/vellum/lang/ast"
	"github.com/vellumlang/vellum/lang/scanner"
)

// Precedence levels, matching original_source's Precedence enum ordering.
type Precedence uint8

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecLogic
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

// rule describes how a token behaves as a prefix operator (the prefix
// field), an infix operator (the infix field, invoked with the
// already-parsed left operand), and at what precedence it binds as infix.
type rule struct {
	prefix     func(p *Parser) *ast.Node
	infix      func(p *Parser, left *ast.Node) *ast.Node
	precedence Precedence
}

func (p *Parser) ruleFor(t scanner.Token) rule {
	switch t {
	case scanner.INTEGER, scanner.FLOAT, scanner.STRING, scanner.CHARACTER,
		scanner.BYTE_LITERAL, scanner.TRUE, scanner.FALSE:
		return rule{prefix: (*Parser).parseLiteral, precedence: PrecNone}
	case scanner.IDENT:
		return rule{prefix: (*Parser).parseIdentifier, precedence: PrecNone}
	case scanner.LPAREN:
		return rule{prefix: (*Parser).parseGrouping, infix: (*Parser).parseCall, precedence: PrecCall}
	case scanner.LBRACKET:
		return rule{prefix: (*Parser).parseListLiteral, infix: (*Parser).parseIndex, precedence: PrecCall}
	case scanner.MINUS:
		return rule{prefix: (*Parser).parseUnary, infix: (*Parser).parseBinary, precedence: PrecTerm}
	case scanner.BANG, scanner.TILDE:
		return rule{prefix: (*Parser).parseUnary, precedence: PrecNone}
	case scanner.PLUS:
		return rule{infix: (*Parser).parseBinary, precedence: PrecTerm}
	case scanner.STAR, scanner.SLASH, scanner.PERCENT:
		return rule{infix: (*Parser).parseBinary, precedence: PrecFactor}
	case scanner.CARET:
		return rule{infix: (*Parser).parseBinary, precedence: PrecFactor}
	case scanner.AMP, scanner.PIPE, scanner.XOR, scanner.SHL, scanner.SHR:
		return rule{infix: (*Parser).parseBinary, precedence: PrecFactor}
	case scanner.EQ_EQ, scanner.BANG_EQ, scanner.LT, scanner.LT_EQ, scanner.GT, scanner.GT_EQ:
		return rule{infix: (*Parser).parseBinary, precedence: PrecComparison}
	case scanner.AMP_AMP, scanner.PIPE_PIPE:
		return rule{infix: (*Parser).parseLogical, precedence: PrecLogic}
	case scanner.EQ, scanner.PLUS_EQ, scanner.MINUS_EQ, scanner.STAR_EQ, scanner.SLASH_EQ:
		return rule{infix: (*Parser).parseAssign, precedence: PrecAssignment}
	default:
		return rule{precedence: PrecNone}
	}
}
