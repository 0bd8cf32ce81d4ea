package parser

import (
	"github.com/svgpathturtle/svgpathturtle/engine"
	"github.com/svgpathturtle/svgpathturtle/lexer"
	"github.com/svgpathturtle/svgpathturtle/nameenv"
	"github.com/svgpathturtle/svgpathturtle/token"
)

// parseStmtList parses zero or more statements until it sees a token
// that cannot start one: '}' when inBlock (the caller consumes the
// closing brace itself), or EOF at top level. Each statement is parsed
// under its own recover so a single malformed statement reports its
// error and resynchronizes instead of aborting the whole file.
func (p *Parser) parseStmtList(inBlock bool) {
	for {
		if p.curr.Code == token.EOF {
			return
		}
		if inBlock && p.curr.Code == token.Code('}') {
			return
		}
		p.parseStmtRecovering()
	}
}

func (p *Parser) parseStmtRecovering() {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parsePanic); !ok {
				panic(r)
			}
			p.synchronize()
		}
	}()
	p.parseStmt()
}

// synchronize advances past tokens until one that can start a fresh
// statement (or close the enclosing block), so parsing can resume after
// a panic instead of looping forever on the same malformed token.
func (p *Parser) synchronize() {
	for p.curr.Code != token.EOF {
		switch p.curr.Code {
		case token.KwImport, token.KwDef, token.KwIf, token.KwFor, token.KwBreakpoint, token.Code('}'):
			return
		}
		p.advance()
	}
}

func (p *Parser) parseStmt() {
	switch p.curr.Code {
	case token.KwImport:
		p.parseImportStmt()
	case token.KwDef:
		p.parseDefStmt()
	case token.KwIf:
		p.parseIfStmt()
	case token.KwFor:
		p.parseForStmt()
	case token.KwBreakpoint:
		p.parseBreakpointStmt()
	case token.Identifier:
		if p.next.Code == token.Code('=') {
			p.parseValueDef()
		} else {
			p.parseCmdCall()
		}
	default:
		p.panicf(p.curr.Span.Start, "expected a statement, found %s", p.curr.Code)
	}
}

// parseValueDef parses "name = prefix_expr": the name is defined before
// its right-hand side is parsed (marked Uninitialized so a reference to
// itself inside that expression is diagnosed), then folded to a
// compile-time constant or compiled as a runtime push.
func (p *Parser) parseValueDef() {
	nameTok := p.mustAdvance(token.Identifier)
	depth := p.currentDepth()
	def := nameenv.NewValue(nameTok.Text, nameTok.Span.Start, depth)
	def.Uninitialized = true
	p.defineOrError(def, nameTok)

	p.mustAdvance(token.Code('='))
	val := p.parsePrefixExpr()
	def.Uninitialized = false

	if val.IsInvalid() {
		return
	}
	if val.IsConstant() {
		def.IsConstant = true
		def.Constant = val.ConstantValue()
		return
	}
	def.Offset = p.builder.CompilePushValue(engine.LocalStack, val)
}

// parseDefStmt parses "def NAME fn_params block": the name is defined
// (with a placeholder chunk index) before its body opens, so a
// self-recursive call inside the body resolves; the real chunk index is
// patched in immediately after PushUserChunk assigns it.
func (p *Parser) parseDefStmt() {
	p.mustAdvance(token.KwDef)
	nameTok := p.mustAdvance(token.Identifier)
	depth := p.currentDepth()

	def := nameenv.NewFunction(nameTok.Text, nameTok.Span.Start, depth, nameenv.UserFunction, "", nil, 0)
	p.defineOrError(def, nameTok)

	chunkIdx := p.builder.PushUserChunk(nameTok.Text)
	def.ChunkIndex = chunkIdx

	p.env.PushContext()
	p.funcStack = append(p.funcStack, funcScope{def: def, depth: depth})

	p.mustAdvance(token.Code('('))
	def.Signature = p.parseLambdaSig()
	p.mustAdvance(token.Code(')'))

	p.mustAdvance(token.Code('{'))
	p.parseStmtList(true)
	p.mustAdvance(token.Code('}'))

	p.closeFunctionScope()
}

// parseIfStmt parses "if cond block [else (if_stmt|block)]" and emits
// the compiled branch directly into the currently open chunk. A nested
// "else if" is wrapped in its own local-block chunk (exactly one
// statement: the recursive if) so CompileIfStatement's elseIdx is
// always a chunk index like any other branch.
func (p *Parser) parseIfStmt() {
	pos := p.curr.Span.Start
	p.disallowStatementsInImportedModule(pos)
	p.mustAdvance(token.KwIf)

	cond := p.parseExpr()
	thenIdx := p.parseBlock()

	elseIdx := 0
	if p.curr.Code == token.KwElse {
		p.advance()
		if p.curr.Code == token.KwIf {
			idx, _ := p.builder.PushLocalBlockChunk(false)
			p.parseIfStmt()
			p.builder.PopLocalBlockChunk()
			elseIdx = idx
		} else {
			elseIdx = p.parseBlock()
		}
	}
	p.builder.CompileIfStatement(cond, thenIdx, elseIdx)
}

// parseBlock parses block := '{' stmt_list '}' | stmt into a fresh
// local-block chunk, returning its index.
func (p *Parser) parseBlock() int {
	idx, _ := p.builder.PushLocalBlockChunk(false)
	p.env.PushContext()
	if p.curr.Code == token.Code('{') {
		p.advance()
		p.parseStmtList(true)
		p.mustAdvance(token.Code('}'))
	} else {
		p.parseStmtRecovering()
	}
	p.env.PopContext()
	p.builder.PopLocalBlockChunk()
	return idx
}

// parseForStmt parses the three for-loop shapes: a bare count ("for
// N"), a two-point range ("for A..B"), and a three-point range with an
// explicit step ("for A..S..B"), each optionally naming its loop
// variable ("for i = ..."). Naming a variable without a range is
// diagnosed but still parsed as a bare count so the rest of the file
// keeps resynchronizing cleanly.
func (p *Parser) parseForStmt() {
	pos := p.curr.Span.Start
	p.disallowStatementsInImportedModule(pos)
	p.mustAdvance(token.KwFor)

	var loopVar string
	var loopVarPos token.Position
	if p.curr.Code == token.Identifier && p.next.Code == token.Code('=') {
		loopVar = p.curr.Text
		loopVarPos = p.curr.Span.Start
		p.advance()
		p.advance()
	}

	start := p.parseExpr()
	spec := engine.ForLoopSpec{Start: start}
	if p.curr.Code == token.TwoDot {
		p.advance()
		first := p.parseExpr()
		if p.curr.Code == token.TwoDot {
			p.advance()
			spec.Step = first
			spec.HasStep = true
			spec.End = p.parseExpr()
			spec.HasEnd = true
		} else {
			spec.End = first
			spec.HasEnd = true
		}
	} else if loopVar != "" {
		p.errorf(loopVarPos, "when naming a loop variable, the loop must use '..', as in 'for i = 1..8'")
	}
	spec.HasNamedVar = loopVar != ""

	chunkIdx, varOffset := p.builder.PushLocalBlockChunk(spec.HasNamedVar)
	p.env.PushContext()
	if spec.HasNamedVar {
		def := nameenv.NewValue(loopVar, loopVarPos, p.currentDepth())
		def.Offset = varOffset
		p.defineOrError(def, token.Token{Text: loopVar, Span: token.Span{Start: loopVarPos}})
	}
	if p.curr.Code == token.Code('{') {
		p.advance()
		p.parseStmtList(true)
		p.mustAdvance(token.Code('}'))
	} else {
		p.parseStmtRecovering()
	}
	p.env.PopContext()
	p.builder.PopLocalBlockChunk()

	p.builder.CompileForLoop(spec, chunkIdx)
}

// parseBreakpointStmt parses "breakpoint" and compiles a call into the
// debug sink installed via SetBreakpointSink.
func (p *Parser) parseBreakpointStmt() {
	p.mustAdvance(token.KwBreakpoint)
	p.builder.CompileBreakpoint(p.breakpointSink)
}

// parseImportStmt parses `import "path"`, only valid at a file's own
// global scope. The named file is parsed once per whole run (the shared
// fileMap dedupes by path) and its exported top-level names are merged
// into the importing scope, with any collision reported.
func (p *Parser) parseImportStmt() {
	kwPos := p.curr.Span.Start
	p.mustAdvance(token.KwImport)
	pathTok := p.mustAdvance(token.String)
	path := unquoteString(pathTok.Text)

	if p.currentDepth() != 1 {
		p.errorf(kwPos, "import is only allowed at the top level of a file")
	}

	exported, ok := p.files.entries[path]
	if !ok {
		src, err := p.files.load(path)
		if err != nil {
			p.errorf(pathTok.Span.Start, "cannot import %q: %v", path, err)
			return
		}
		child := &Parser{
			filename:         path,
			lx:               lexer.New(src),
			env:              nameenv.NewChild(p.env.Builtins()),
			builder:          p.builder,
			turtle:           p.turtle,
			unique:           p.unique,
			files:            p.files,
			isImportedModule: true,
			diags:            p.diags,
			breakpointSink:   p.breakpointSink,
		}
		child.primeTokens()
		_, exported = child.parseFile(path)
		p.files.entries[path] = exported
	}

	for _, dup := range p.env.Merge(exported) {
		p.errorf(pathTok.Span.Start, "import of %q redefines %q", path, dup)
	}
}

// unquoteString strips the surrounding quote characters and resolves
// backslash escapes from a token.String's raw text (which still carries
// its quotes, as scanString leaves them).
func unquoteString(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	body := raw[1 : len(raw)-1]
	var out []byte
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			default:
				out = append(out, body[i])
			}
			continue
		}
		out = append(out, body[i])
	}
	return string(out)
}
