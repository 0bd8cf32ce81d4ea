package engine

// ChunkKind distinguishes the three shapes a Chunk can take.
type ChunkKind int

const (
	// BuiltinChunk's body is a single statement that forwards its
	// parameters to a registered turtle collaborator call.
	BuiltinChunk ChunkKind = iota
	// UserFunctionChunk is a function introduced by a def statement or an
	// inline lambda literal: it pushes its own locals frame on entry.
	UserFunctionChunk
	// LocalBlockChunk is the body of an if/else branch or a for loop:
	// it shares its enclosing function's frame and is unwound, not
	// popped, when it finishes.
	LocalBlockChunk
)

// Statement is one deferred, zero-argument action appended to a Chunk's
// body. It mutates the runtime stacks (and, for turtle builtins, the
// Turtle collaborator) as a side effect.
type Statement func(rt *Runtime) error

// Chunk is one compiled unit of the program: a builtin forwarder, a
// user-defined function, or a local block nested inside one.
type Chunk struct {
	Kind ChunkKind
	Name string // for diagnostics and backtraces only

	ParamsSize int // total local slots consumed by declared parameters

	// ClosureOffset is the offset, within the *enclosing* function's
	// captures frame, at which this chunk's own captured values begin.
	// -1 means "this chunk captures nothing and is not itself a closure".
	ClosureOffset int

	// CaptureSize is the number of slots this chunk's own captured
	// values occupy (1 per value, 2 per function), valid when IsClosure.
	CaptureSize int

	// UnwindLocals/UnwindCaptures record how many slots a local block
	// added to each stack while it ran, so running it again pops exactly
	// what it pushed without needing a full frame boundary.
	UnwindLocals   int
	UnwindCaptures int

	Stmts []Statement
}

// NewChunk constructs an empty chunk of the given kind.
func NewChunk(kind ChunkKind, name string) *Chunk {
	return &Chunk{Kind: kind, Name: name, ClosureOffset: -1}
}

// IsClosure reports whether calling this chunk requires threading a
// closure position alongside its arguments.
func (c *Chunk) IsClosure() bool {
	return c.ClosureOffset >= 0
}

// Program is the compiled output: an ordered vector of chunks. Index 0
// is reserved and never resolves to a real chunk, so that the zero value
// of a chunk-index field reads as "no chunk" rather than aliasing a
// legitimate one.
type Program struct {
	Chunks []*Chunk
}

// NewProgram constructs a program with its reserved zero slot.
func NewProgram() *Program {
	return &Program{Chunks: []*Chunk{nil}}
}

// Add appends c to the program, returning its chunk index.
func (p *Program) Add(c *Chunk) int {
	p.Chunks = append(p.Chunks, c)
	return len(p.Chunks) - 1
}

// Chunk returns the chunk at index i.
func (p *Program) Chunk(i int) *Chunk {
	return p.Chunks[i]
}
