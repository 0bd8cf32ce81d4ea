// Package parser compiles SvgPathTurtle source text into an
// engine.Program: a hand-written recursive-descent parser for
// statements and imports, with a Pratt expression parser (see expr.go)
// for prefix_expr, name resolution and closure capture cascading (see
// names.go), and function-call/lambda-argument handling (see calls.go).
package parser

import (
	"fmt"

	"github.com/svgpathturtle/svgpathturtle/engine"
	"github.com/svgpathturtle/svgpathturtle/lexer"
	"github.com/svgpathturtle/svgpathturtle/nameenv"
	"github.com/svgpathturtle/svgpathturtle/token"
	"github.com/svgpathturtle/svgpathturtle/turtle"
)

// maxExprDepth bounds recursive-descent expression parsing so a
// pathologically nested input fails cleanly instead of exhausting the
// goroutine stack.
const maxExprDepth = 2000

// funcScope tracks one entry of the function-nesting stack the parser
// keeps while compiling a def body or an inline lambda literal: which
// name definition owns the scope (nil for the top-level file scope) and
// the depth at which that name itself lives, both needed by
// resolveDomain to classify every other name reference against it.
type funcScope struct {
	def   *nameenv.Def
	depth int
}

// Parser turns one file's source into compiled chunks in a shared
// engine.Builder, sharing its Diagnostics collector, turtle.UniqueCounter,
// and the builtin context of its nameenv.Env with every sub-parser
// spawned for an import; each sub-parser has its own nameenv.Env above
// that builtin layer.
type Parser struct {
	lx         *lexer.Lexer
	curr, next token.Token
	filename   string

	env     *nameenv.Env
	builder *engine.Builder
	turtle  turtle.Turtle
	unique  *turtle.UniqueCounter

	files            *fileMap
	isImportedModule bool
	diags            *Diagnostics

	funcStack []funcScope
	exprDepth int

	breakpointSink func()
}

// Parse compiles src as the top-level program named filename, wiring t
// as the turtle collaborator every builtin call and turtle.x/y/dir read
// reaches, and loader to resolve any import statements it contains. It
// returns the compiled program, the chunk index of its "main" top-level
// chunk (pass this to engine.Engine.ExecuteMain), and every diagnostic
// recorded across the file and everything it imports.
func Parse(filename, src string, t turtle.Turtle, loader SourceLoader) (*engine.Program, int, *Diagnostics) {
	b := engine.NewBuilder()
	env := nameenv.New()
	turtle.Register(env, b, t)

	diags := &Diagnostics{}
	p := &Parser{
		filename: filename,
		lx:       lexer.New(src),
		env:      env,
		builder:  b,
		turtle:   t,
		unique:   turtle.NewUniqueCounter(),
		files:    newFileMap(loader),
		diags:    diags,
	}
	mainIdx := p.run("main")
	return b.Program(), mainIdx, diags
}

// SetBreakpointSink installs the callback CompileBreakpoint statements
// invoke; nil (the default) makes breakpoint statements no-ops.
func (p *Parser) SetBreakpointSink(sink func()) {
	p.breakpointSink = sink
}

// run parses the whole file as one global-scope chunk named chunkName
// and returns its chunk index.
func (p *Parser) run(chunkName string) int {
	p.primeTokens()
	idx, _ := p.parseFile(chunkName)
	return idx
}

func (p *Parser) primeTokens() {
	p.curr = p.readToken()
	p.next = p.readToken()
}

func (p *Parser) readToken() token.Token {
	tok, err := p.lx.NextToken(true)
	if err != nil {
		panic(parsePanic{pos: tok.Span.Start, msg: err.Error()})
	}
	return tok
}

// parseFile parses the entire token stream as a sequence of top-level
// statements inside a fresh global scope, returning the chunk index
// that scope compiled into and the names it exported (for an importer
// to merge into its own scope).
func (p *Parser) parseFile(chunkName string) (chunkIdx int, exported nameenv.Context) {
	p.env.PushContext()
	idx := p.builder.PushUserChunk(chunkName)
	p.funcStack = append(p.funcStack, funcScope{depth: p.currentDepth()})

	p.parseStmtList(false)
	if p.curr.Code != token.EOF {
		p.errorf(p.curr.Span.Start, "unexpected %s at top level", p.curr.Code)
	}

	p.funcStack = p.funcStack[:len(p.funcStack)-1]
	p.builder.PopUserChunk()
	exported = p.env.ExtractInnermost()
	p.env.PopContext()
	return idx, exported
}

func (p *Parser) currentDepth() int {
	return p.env.Depth() - 1
}

func (p *Parser) currentFuncScope() funcScope {
	return p.funcStack[len(p.funcStack)-1]
}

func (p *Parser) currentFuncDef() *nameenv.Def {
	return p.currentFuncScope().def
}

// advance consumes p.curr and pulls the next token into p.next.
func (p *Parser) advance() {
	p.curr = p.next
	p.next = p.readToken()
}

// mustAdvance requires p.curr to carry code, consuming it and returning
// the consumed token; otherwise it panics to trigger resynchronization.
func (p *Parser) mustAdvance(code token.Code) token.Token {
	if p.curr.Code != code {
		p.panicf(p.curr.Span.Start, "expected %s, found %s", code, p.curr.Code)
	}
	tok := p.curr
	p.advance()
	return tok
}

func (p *Parser) errorf(pos token.Position, format string, args ...interface{}) {
	p.diags.Add(&Diagnostic{Filename: p.filename, Pos: pos, Label: Error, Message: fmt.Sprintf(format, args...)})
}

// parsePanic unwinds the recursive-descent call stack back to the
// nearest parseStmtRecovering frame, mirroring the reference parser's
// use of a lightweight exception for the same purpose: most parse
// errors are detected many stack frames below the statement boundary
// that knows how to resynchronize, and threading a sentinel error
// return through every intermediate call would obscure the grammar the
// functions otherwise mirror one-for-one.
type parsePanic struct {
	pos token.Position
	msg string
}

func (p *Parser) panicf(pos token.Position, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.errorf(pos, "%s", msg)
	panic(parsePanic{pos: pos, msg: msg})
}
