package parser

import (
	"fmt"
	"strings"

	"github.com/svgpathturtle/svgpathturtle/engine"
	"github.com/svgpathturtle/svgpathturtle/nameenv"
	"github.com/svgpathturtle/svgpathturtle/token"
)

// parseCmdCall parses a cmd_call statement: IDENT followed by one
// argument for every entry of the callee's signature. It dispatches on
// the callee's kind since a lambda parameter compiles through a
// different pair of engine.Builder calls than a builtin or a user def,
// but all three share the same argument-list grammar.
func (p *Parser) parseCmdCall() {
	pos := p.curr.Span.Start
	p.disallowStatementsInImportedModule(pos)

	nameTok := p.mustAdvance(token.Identifier)
	def, ok := p.env.Lookup(nameTok.Text)
	if !ok {
		p.panicf(nameTok.Span.Start, "%q is not a command or lambda function", nameTok.Text)
	}
	if def.Kind == nameenv.Value {
		p.panicf(nameTok.Span.Start, "%q is a value, not something you can call", nameTok.Text)
	}

	if def.Kind == nameenv.LambdaParameter {
		domain, offset := p.resolveDomain(def)
		p.builder.CompileStartLambdaCall(domain, offset)
		argsSize := p.parseCallArgs(def.Signature, nameTok.Text)
		p.builder.CompileCallLambdaFn(domain, offset, argsSize)
		return
	}

	self := def == p.currentFuncDef()
	p.builder.CompileStartFnCall(def.ChunkIndex, self)
	argsSize := p.parseCallArgs(def.Signature, nameTok.Text)
	p.builder.CompileCallFn(def.ChunkIndex, argsSize)
}

// parseCallArgs walks sig one top-level parameter at a time, parsing a
// value expression for each "v" entry and a lambda argument for each
// "(...)" entry, and returns the total number of Locals slots the
// arguments occupied (1 per value, 2 per lambda).
func (p *Parser) parseCallArgs(sig, calleeName string) int {
	size := 0
	for _, param := range splitTopLevelSignature(sig) {
		if param == "v" {
			val := p.parseExpr()
			if val.IsConstant() {
				p.builder.CompilePushConstant(engine.LocalStack, val.ConstantValue())
			} else {
				p.builder.CompilePushValue(engine.LocalStack, val)
			}
			size++
			continue
		}
		p.parseLambdaArgument(innerSignature(param), calleeName)
		size += 2
	}
	return size
}

// parseLambdaArgument parses one lambda-shaped call argument: either a
// reference to an already-defined function whose own signature must be
// a prefix of expectedSig, or an inline lambda literal declaring (at
// most) that many parameters itself.
func (p *Parser) parseLambdaArgument(expectedSig, calleeName string) {
	switch p.curr.Code {
	case token.Identifier:
		nameTok := p.curr
		p.advance()
		def, ok := p.env.Lookup(nameTok.Text)
		if !ok {
			p.errorf(nameTok.Span.Start, "undefined name %q", nameTok.Text)
			return
		}
		if def.Kind == nameenv.Value {
			p.errorf(nameTok.Span.Start, "%q is a value, not a function", nameTok.Text)
			return
		}
		if !strings.HasPrefix(expectedSig, def.Signature) {
			p.errorf(nameTok.Span.Start, "%q does not match the expected signature for a parameter of %s()", nameTok.Text, calleeName)
		}
		p.pushFunctionValue(engine.LocalStack, def)

	case token.Code('{'):
		p.parseInlineLambda(expectedSig)

	default:
		p.errorf(p.curr.Span.Start, "expected a function name or an inline lambda for a parameter of %s()", calleeName)
	}
}

// parseInlineLambda parses an anonymous lambda literal: '{' ['=>' '('
// lambda_sig ')'] stmt_list '}'. It opens its own function scope (so
// self-recursion and closures work exactly as they do for a named def),
// closes it through the same closeFunctionScope path, and pushes the
// resulting chunk as a LocalStack value with a freshly created closure.
func (p *Parser) parseInlineLambda(expectedSig string) {
	loc := p.curr.Span.Start
	p.mustAdvance(token.Code('{'))

	depth := p.currentDepth()
	name := fmt.Sprintf("<lambda@%d:%d>", loc.Line, loc.Column)
	chunkIdx := p.builder.PushUserChunk(name)
	fnDef := nameenv.NewFunction(name, loc, depth, nameenv.UserFunction, "", nil, chunkIdx)

	p.env.PushContext()
	p.funcStack = append(p.funcStack, funcScope{def: fnDef, depth: depth})

	argSig := ""
	if p.curr.Code == token.Arrow {
		p.advance()
		p.mustAdvance(token.Code('('))
		argSig = p.parseLambdaSig()
		p.mustAdvance(token.Code(')'))
	}
	fnDef.Signature = argSig
	if !strings.HasPrefix(expectedSig, argSig) {
		p.errorf(loc, "this inline lambda declares more parameters than expected here")
	}

	p.parseStmtList(true)
	p.mustAdvance(token.Code('}'))

	p.closeFunctionScope()
	p.builder.CompilePushLambda(engine.LocalStack, chunkIdx, false)
}
