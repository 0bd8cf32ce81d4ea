package parser

import (
	"strconv"

	"github.com/svgpathturtle/svgpathturtle/ast"
	"github.com/svgpathturtle/svgpathturtle/nameenv"
	"github.com/svgpathturtle/svgpathturtle/token"
	"github.com/svgpathturtle/svgpathturtle/turtle"
)

// parseExpr parses a full expression starting at the weakest possible
// outer precedence: the entry point every statement-level expression
// production uses.
func (p *Parser) parseExpr() ast.Value {
	return p.parseExpression(token.WeakestPrecedence)
}

// parseExpression parses a prefix_expr and then repeatedly folds in
// postfix/infix operators that bind more tightly than outer (or equally
// tightly, for a right-associative operator), implementing Pratt
// precedence climbing via
// token.PostfixBindsMoreTightly.
func (p *Parser) parseExpression(outer int) ast.Value {
	lhs := p.parsePrefixExpr()
	for {
		info, ok := token.PostfixInfo(p.curr.Code)
		if !ok || !token.PostfixBindsMoreTightly(info, outer) {
			break
		}
		lhs = p.parsePostfixOp(info, lhs)
	}
	return lhs
}

func (p *Parser) enterExpr(pos token.Position) func() {
	p.exprDepth++
	if p.exprDepth > maxExprDepth {
		p.panicf(pos, "expression too complex to parse")
	}
	return func() { p.exprDepth-- }
}

// parsePostfixOp consumes one postfix/infix operator already peeked as
// info and combines it with lhs: '?' reads the special ternary shape
// (middle parsed at the weakest precedence, ':' required, the else
// branch parsed at the operator's own precedence); every other operator
// is an ordinary binary form.
func (p *Parser) parsePostfixOp(info token.Info, lhs ast.Value) ast.Value {
	defer p.enterExpr(p.curr.Span.Start)()
	op := info.Code
	if op == token.Code('?') {
		p.advance()
		thenVal := p.parseExpression(token.WeakestPrecedence)
		p.mustAdvance(token.Code(':'))
		elseVal := p.parseExpression(info.PostfixPrecedence)
		return ast.Ternary(lhs, thenVal, elseVal)
	}
	p.advance()
	rhs := p.parseExpression(info.PostfixPrecedence)
	return ast.Binary(op, lhs, rhs)
}

// parsePrefixExpr parses one prefix_expr: a parenthesized expression, a
// number literal, a name reference, turtle.x/y/dir, unique, or a unary
// +/-/! applied to a nested expression parsed at unary precedence.
func (p *Parser) parsePrefixExpr() ast.Value {
	defer p.enterExpr(p.curr.Span.Start)()

	switch p.curr.Code {
	case token.Code('('):
		p.advance()
		val := p.parseExpr()
		p.mustAdvance(token.Code(')'))
		return val

	case token.Number, token.Integer:
		text := p.curr.Text
		pos := p.curr.Span.Start
		p.advance()
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			p.errorf(pos, "invalid number literal %q", text)
			return ast.InvalidValue
		}
		return ast.NewConstant(v)

	case token.KwUnique:
		p.advance()
		return p.unique.Value()

	case token.KwTurtle:
		return p.parseTurtleProperty()

	case token.Identifier:
		return p.parseNameValue()

	case token.Code('+'), token.Code('-'), token.Code('!'):
		op := p.curr.Code
		info, _ := token.PrefixInfo(op)
		p.advance()
		rhs := p.parseExpression(info.PrefixPrecedence)
		return ast.Prefix(op, rhs)

	default:
		p.panicf(p.curr.Span.Start, "expected an expression, found %s", p.curr.Code)
		return ast.InvalidValue
	}
}

func (p *Parser) parseTurtleProperty() ast.Value {
	p.advance()
	p.mustAdvance(token.Code('.'))
	fieldTok := p.mustAdvance(token.Identifier)
	switch fieldTok.Text {
	case "x":
		return turtle.ReadX(p.turtle)
	case "y":
		return turtle.ReadY(p.turtle)
	case "dir":
		return turtle.ReadDir(p.turtle)
	default:
		p.errorf(fieldTok.Span.Start, "turtle has no property %q", fieldTok.Text)
		return ast.InvalidValue
	}
}

// parseNameValue reads an identifier in expression position: it must
// resolve to an already-initialized Value, never to a function (those
// only appear as call targets or lambda arguments), an undefined name,
// or a value still mid-way through its own defining expression.
func (p *Parser) parseNameValue() ast.Value {
	nameTok := p.curr
	p.advance()
	def, ok := p.env.Lookup(nameTok.Text)
	if !ok {
		p.errorf(nameTok.Span.Start, "undefined name %q", nameTok.Text)
		return ast.InvalidValue
	}
	if def.Kind != nameenv.Value {
		p.errorf(nameTok.Span.Start, "%q is a function, not a value", nameTok.Text)
		return ast.InvalidValue
	}
	if def.Uninitialized {
		p.errorf(nameTok.Span.Start, "%q cannot be used while it is still being defined", nameTok.Text)
		return ast.InvalidValue
	}
	if def.IsConstant {
		return ast.NewConstant(def.Constant)
	}
	domain, offset := p.resolveDomain(def)
	return p.builder.ReadValue(domain, offset)
}
