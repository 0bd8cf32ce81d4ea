package parser

import (
	"strings"

	"github.com/svgpathturtle/svgpathturtle/engine"
	"github.com/svgpathturtle/svgpathturtle/nameenv"
	"github.com/svgpathturtle/svgpathturtle/token"
)

// resolveDomain classifies a name reference relative to the function
// currently being compiled: a depth of 1 or less is always Global (0 is
// builtins, 1 is the file's own top-level scope); a name owned by the
// current function itself, or declared strictly deeper than it, is
// Local; anything else lives in an enclosing function's frame and must
// be captured. Captures cascade: referencing an outer-outer local from
// two functions deep adds it to the immediate enclosing function's own
// capture list too, the same way the reference original walks its
// context chain one function at a time.
func (p *Parser) resolveDomain(def *nameenv.Def) (engine.Domain, int) {
	if def.Depth <= 1 {
		return engine.DomainGlobal, def.Offset
	}
	cur := p.currentFuncScope()
	if def == cur.def || def.Depth > cur.depth {
		return engine.DomainLocal, def.Offset
	}
	offset := cur.def.AddCapture(def)
	return engine.DomainCapture, offset
}

// isStaticFunction reports whether def's callee is known at compile
// time, which is only true for a named def/builtin (its chunk index is
// fixed the moment it's declared). A lambda parameter's callee is only
// known once its slot is read at run time, even though it too satisfies
// nameenv.Def.IsFunction for slot-sizing purposes.
func isStaticFunction(def *nameenv.Def) bool {
	return def.Kind == nameenv.UserFunction || def.Kind == nameenv.BuiltinFunction
}

// pushFunctionValue compiles a reference to def (a UserFunction,
// BuiltinFunction, or LambdaParameter) as a value onto dest: a static
// function not captured from an outer scope gets the cheap
// known-chunk-index form; everything else falls back to a two-word copy
// resolved through its domain, exactly like an ordinary Value read.
func (p *Parser) pushFunctionValue(dest engine.StackKind, def *nameenv.Def) {
	domain, offset := p.resolveDomain(def)
	if isStaticFunction(def) && domain != engine.DomainCapture {
		self := domain == engine.DomainLocal && def == p.currentFuncDef()
		p.builder.CompilePushLambda(dest, def.ChunkIndex, self)
		return
	}
	p.builder.CompilePushCopy(dest, domain, offset, nameenv.SlotSize(def))
}

// closeFunctionScope pops the innermost function-nesting entry, its
// name context, and its chunk, then — if it captured anything — creates
// its closure and cascades a CompilePushCopy for every capture,
// resolved against the function that now becomes current. Shared by
// def_stmt and inline lambda-literal parsing, the two places a function
// body's scope opens and closes.
func (p *Parser) closeFunctionScope() {
	top := p.currentFuncScope()
	p.funcStack = p.funcStack[:len(p.funcStack)-1]
	p.env.PopContext()
	p.builder.PopUserChunk()

	if top.def == nil || len(top.def.Captures) == 0 {
		return
	}
	size := 0
	for _, c := range top.def.Captures {
		size += nameenv.SlotSize(c)
	}
	p.builder.CreateClosure(top.def.ChunkIndex, size)
	for _, c := range top.def.Captures {
		domain, offset := p.resolveDomain(c)
		p.builder.CompilePushCopy(engine.CaptureStack, domain, offset, nameenv.SlotSize(c))
	}
}

// splitTopLevelSignature breaks a Signature string into its top-level
// parameter tokens: each is either "v" or a balanced "(...)" run. Used
// to walk a callee's declared parameters one at a time while compiling
// a call's arguments.
func splitTopLevelSignature(sig string) []string {
	var out []string
	for i := 0; i < len(sig); {
		if sig[i] == 'v' {
			out = append(out, "v")
			i++
			continue
		}
		depth := 0
		j := i
		for ; j < len(sig); j++ {
			switch sig[j] {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 {
				j++
				break
			}
		}
		out = append(out, sig[i:j])
		i = j
	}
	return out
}

// innerSignature strips one layer of enclosing parens from a "(...)"
// signature token, as produced by splitTopLevelSignature.
func innerSignature(paramSig string) string {
	return strings.TrimSuffix(strings.TrimPrefix(paramSig, "("), ")")
}

// parseLambdaSig parses a lambda_sig := (IDENT ('(' lambda_sig ')')?)*
// production, binding each parameter as a real name (with a real
// engine.Builder param slot) in the current function scope while
// simultaneously building the v/(/) signature string that describes it.
// Names inside a lambda parameter's own nested signature are not bound:
// they only contribute to that parameter's signature string.
func (p *Parser) parseLambdaSig() string {
	var sigOnly func() string
	sigOnly = func() string {
		var s strings.Builder
		for p.curr.Code == token.Identifier {
			p.advance()
			if p.curr.Code != token.Code('(') {
				s.WriteByte('v')
				continue
			}
			p.advance()
			s.WriteString("(" + sigOnly() + ")")
			p.mustAdvance(token.Code(')'))
		}
		return s.String()
	}

	var sig strings.Builder
	for p.curr.Code == token.Identifier {
		nameTok := p.curr
		p.advance()
		depth := p.currentDepth()
		if p.curr.Code == token.Code('(') {
			p.advance()
			inner := sigOnly()
			p.mustAdvance(token.Code(')'))
			offset := p.builder.CompileAddParam(2)
			def := nameenv.NewLambdaParameter(nameTok.Text, nameTok.Span.Start, depth, inner, offset)
			p.defineOrError(def, nameTok)
			sig.WriteByte('(')
			sig.WriteString(inner)
			sig.WriteByte(')')
		} else {
			offset := p.builder.CompileAddParam(1)
			def := nameenv.NewValue(nameTok.Text, nameTok.Span.Start, depth)
			def.Offset = offset
			p.defineOrError(def, nameTok)
			sig.WriteByte('v')
		}
	}
	return sig.String()
}

func (p *Parser) defineOrError(def *nameenv.Def, nameTok token.Token) {
	if p.env.Define(def, false) == nil {
		p.errorf(nameTok.Span.Start, "%q is already defined in this scope", nameTok.Text)
	}
}

// disallowStatementsInImportedModule reports (but does not stop
// parsing) an if/for/cmd_call statement found at global scope of an
// imported module: import, def, and value definitions are always
// allowed there, but control flow and commands only make sense inside a
// function body, which any module may still define freely.
func (p *Parser) disallowStatementsInImportedModule(pos token.Position) {
	if p.isImportedModule && p.currentDepth() == 1 {
		p.errorf(pos, "statements are not allowed at the top level of an imported module")
	}
}
