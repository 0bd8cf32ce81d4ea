package engine

import "github.com/svgpathturtle/svgpathturtle/ast"

// Builder assembles a Program one chunk at a time as the parser walks
// the source. It keeps its own pair of compile-time frame stacks,
// reusing Stack's push/pop bookkeeping with placeholder zero values so
// that every offset it hands back to the parser matches the offset the
// corresponding runtime statement will see when it actually executes.
type Builder struct {
	prog *Program

	chunkStack []int // currently-open chunk indices, innermost last

	compileLocals   *Stack
	compileCaptures *Stack

	// blockEntry records, for each currently-open local block, the
	// compile-time stack sizes observed on entry, so popping the block
	// can compute how many slots to unwind.
	blockEntry []blockMark

	// pendingClosure is a LIFO of "did this in-flight call's start step
	// push a closure word" flags, one per call currently being compiled;
	// calls nest when an argument expression is itself a call.
	pendingClosure []bool
}

type blockMark struct {
	locals, captures int
}

// NewBuilder constructs an empty builder over a fresh program.
func NewBuilder() *Builder {
	return &Builder{
		prog:            NewProgram(),
		compileLocals:   NewStack(),
		compileCaptures: NewStack(),
	}
}

// Program returns the program assembled so far.
func (b *Builder) Program() *Program {
	return b.prog
}

func (b *Builder) currentChunk() *Chunk {
	return b.prog.Chunk(b.chunkStack[len(b.chunkStack)-1])
}

func (b *Builder) emit(stmt Statement) {
	c := b.currentChunk()
	c.Stmts = append(c.Stmts, stmt)
}

func (b *Builder) compileStack(kind StackKind) *Stack {
	if kind == CaptureStack {
		return b.compileCaptures
	}
	return b.compileLocals
}

// PushUserChunk opens a new user-function chunk (named after its def, or
// a synthesized "<lambda@LINE:COLUMN>" label for an inline lambda
// literal) and makes it current, returning its index.
// A fresh locals frame is opened for it.
func (b *Builder) PushUserChunk(name string) int {
	idx := b.prog.Add(NewChunk(UserFunctionChunk, name))
	b.chunkStack = append(b.chunkStack, idx)
	b.compileLocals.PushFrame()
	b.compileCaptures.PushFrame()
	return idx
}

// PopUserChunk closes the current user-function chunk.
func (b *Builder) PopUserChunk() {
	b.compileLocals.PopFrame()
	b.compileCaptures.PopFrame()
	b.chunkStack = b.chunkStack[:len(b.chunkStack)-1]
}

// PushLocalBlockChunk opens a local-block chunk nested in the current
// chunk (the body of an if/else branch or a for loop) and makes it
// current. Unlike a function, it does not open a new frame: its locals
// and captures live in the enclosing frame and are unwound, not popped,
// when the block ends.
//
// When withVar is true (a named for-loop variable), one local slot is
// reserved for it right after the entry mark's stack sizes are recorded
// for block-exit bookkeeping, so the variable is included in the unwind size
// the loop driver pops at the end of every iteration. varOffset is -1
// when withVar is false.
func (b *Builder) PushLocalBlockChunk(withVar bool) (idx, varOffset int) {
	idx = b.prog.Add(NewChunk(LocalBlockChunk, ""))
	b.chunkStack = append(b.chunkStack, idx)
	b.blockEntry = append(b.blockEntry, blockMark{
		locals:   b.compileLocals.Size(),
		captures: b.compileCaptures.Size(),
	})
	varOffset = -1
	if withVar {
		varOffset = b.compileLocals.FrameSize()
		b.compileLocals.Push(0)
	}
	return idx, varOffset
}

// PopLocalBlockChunk closes the current local-block chunk, recording how
// many locals and captures it produced and truncating the compile-time
// stacks back down so later statements in the enclosing chunk reuse
// those slots.
func (b *Builder) PopLocalBlockChunk() {
	mark := b.blockEntry[len(b.blockEntry)-1]
	b.blockEntry = b.blockEntry[:len(b.blockEntry)-1]

	chunk := b.currentChunk()
	chunk.UnwindLocals = b.compileLocals.Size() - mark.locals
	chunk.UnwindCaptures = b.compileCaptures.Size() - mark.captures

	b.compileLocals.Pop(chunk.UnwindLocals)
	b.compileCaptures.Pop(chunk.UnwindCaptures)
	b.chunkStack = b.chunkStack[:len(b.chunkStack)-1]
}

// PushBuiltinChunk registers a fixed-arity builtin chunk and makes it
// current; its single statement is appended by the caller via
// CompileBuiltinCall.
func (b *Builder) PushBuiltinChunk(name string, paramsSize int) int {
	chunk := NewChunk(BuiltinChunk, name)
	chunk.ParamsSize = paramsSize
	idx := b.prog.Add(chunk)
	b.chunkStack = append(b.chunkStack, idx)
	return idx
}

// PopBuiltinChunk closes the current builtin chunk.
func (b *Builder) PopBuiltinChunk() {
	b.chunkStack = b.chunkStack[:len(b.chunkStack)-1]
}

// CompileBuiltinBody installs stmt as the single statement of the
// currently-open builtin chunk. Called once, right after
// PushBuiltinChunk, with a statement that reads its parameters off
// Locals by offset and forwards them to the turtle collaborator.
func (b *Builder) CompileBuiltinBody(stmt Statement) {
	b.emit(stmt)
}

// CompileAddParam reserves size local slots for a new parameter of the
// chunk currently being built, growing its declared params_size, and
// returns the local offset the parameter was assigned.
func (b *Builder) CompileAddParam(size int) int {
	offset := b.compileLocals.FrameSize()
	for i := 0; i < size; i++ {
		b.compileLocals.Push(0)
	}
	b.currentChunk().ParamsSize += size
	return offset
}

// CompilePushValue emits a statement that evaluates expr at run time and
// pushes the result onto dest, returning the offset within dest's
// current frame the pushed value will occupy.
func (b *Builder) CompilePushValue(dest StackKind, expr ast.Value) int {
	offset := b.compileStack(dest).FrameSize()
	b.compileStack(dest).Push(0)
	fn := expr.AsFn()
	b.emit(func(rt *Runtime) error {
		rt.Stack(dest).Push(fn())
		return nil
	})
	return offset
}

// CompilePushConstant emits a statement that pushes the fixed value v
// onto dest, returning the assigned offset.
func (b *Builder) CompilePushConstant(dest StackKind, v float64) int {
	offset := b.compileStack(dest).FrameSize()
	b.compileStack(dest).Push(0)
	b.emit(func(rt *Runtime) error {
		rt.Stack(dest).Push(v)
		return nil
	})
	return offset
}

// CompilePushCopy emits a statement that copies size slots, starting at
// sourceOffset in the given domain, onto dest. Used both for ordinary
// name reads (domain and offset describing where the name's value
// lives) and to seed a closure's captures by copying from the enclosing
// function's own locals/captures/globals.
func (b *Builder) CompilePushCopy(dest StackKind, domain Domain, sourceOffset, size int) int {
	destOffset := b.compileStack(dest).FrameSize()
	for i := 0; i < size; i++ {
		b.compileStack(dest).Push(0)
	}
	b.emit(func(rt *Runtime) error {
		for k := 0; k < size; k++ {
			var v float64
			switch domain {
			case DomainGlobal:
				v = rt.Locals.ReadGlobal(sourceOffset + k)
			case DomainCapture:
				v = rt.Captures.At(sourceOffset + k)
			default:
				v = rt.Locals.At(sourceOffset + k)
			}
			rt.Stack(dest).Push(v)
		}
		return nil
	})
	return destOffset
}

// CompilePushLambda emits a statement that pushes a two-word lambda
// reference (chunk index, closure position) onto dest. When
// selfRecursion is true, the closure position is taken from the
// currently executing function's own slot (Locals.At(-1)) rather than
// computed from fnIndex's recorded offset, letting a function refer to
// itself before its own closure has finished being assembled.
func (b *Builder) CompilePushLambda(dest StackKind, fnIndex int, selfRecursion bool) int {
	offset := b.compileStack(dest).FrameSize()
	b.compileStack(dest).Push(0)
	b.compileStack(dest).Push(0)
	prog := b.prog
	b.emit(func(rt *Runtime) error {
		target := prog.Chunk(fnIndex)
		var closurePos float64
		if selfRecursion {
			closurePos = rt.Locals.At(-1)
		} else {
			closurePos = float64(target.ClosureOffset + rt.Captures.FrameStart())
		}
		rt.Stack(dest).Push(float64(fnIndex))
		rt.Stack(dest).Push(closurePos)
		return nil
	})
	return offset
}

// CreateClosure records that the chunk at fnIndex captures captureSize
// slots worth of outer values, fixing its ClosureOffset at the current
// size of the enclosing function's captures frame. Call it once, right
// after popping fnIndex's own chunk and before emitting the
// CompilePushCopy calls that seed its captures: those copies land at
// ClosureOffset onward, so the offset must be taken before they grow the
// frame, not after.
func (b *Builder) CreateClosure(fnIndex, captureSize int) {
	target := b.prog.Chunk(fnIndex)
	target.ClosureOffset = b.compileCaptures.FrameSize()
	target.CaptureSize = captureSize
}
