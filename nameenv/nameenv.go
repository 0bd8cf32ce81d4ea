// Package nameenv implements the lexical scope stack used while
// resolving names: a stack of contexts mapping name to definition, with
// inner/outer lookup, global-only lookup, export of the innermost
// context, and duplicate-reporting merge.
package nameenv

import "github.com/svgpathturtle/svgpathturtle/token"

// Kind distinguishes the polymorphic variants of a name definition.
type Kind int

const (
	Value Kind = iota
	UserFunction
	LambdaParameter
	BuiltinFunction
)

// Def is a single name definition. Common fields are always populated;
// the rest apply only to the variant named by Kind, mirroring the
// source's inheritance chain collapsed into one tagged struct.
type Def struct {
	Name  string
	Kind  Kind
	Pos   token.Position
	Depth int // 0 = builtins, 1 = global, >1 = deeper
	Offset int // stack slot, assigned when bound to a runtime slot

	// Value
	IsConstant bool
	Constant   float64
	Uninitialized bool // disables self-referential folding during its own defining expression

	// UserFunction / LambdaParameter / BuiltinFunction
	Signature  string // alphabet v ( )
	ParamNames []string
	ChunkIndex int
	Captures   []*Def // cascaded list of captured outer name-definitions
	ClosureOffset int // -1 until create_closure assigns it
}

// NewValue constructs an un-bound Value definition.
func NewValue(name string, pos token.Position, depth int) *Def {
	return &Def{Name: name, Kind: Value, Pos: pos, Depth: depth, ClosureOffset: -1}
}

// NewFunction constructs a UserFunction or BuiltinFunction definition.
func NewFunction(name string, pos token.Position, depth int, kind Kind, sig string, params []string, chunkIndex int) *Def {
	return &Def{
		Name: name, Kind: kind, Pos: pos, Depth: depth,
		Signature: sig, ParamNames: params, ChunkIndex: chunkIndex,
		ClosureOffset: -1,
	}
}

// NewLambdaParameter constructs a lambda-parameter definition bound at a
// given local offset.
func NewLambdaParameter(name string, pos token.Position, depth int, sig string, offset int) *Def {
	return &Def{
		Name: name, Kind: LambdaParameter, Pos: pos, Depth: depth,
		Signature: sig, Offset: offset, ChunkIndex: -1, ClosureOffset: -1,
	}
}

// IsFunction reports whether d can be called (UserFunction, BuiltinFunction,
// or LambdaParameter).
func (d *Def) IsFunction() bool {
	return d.Kind == UserFunction || d.Kind == BuiltinFunction || d.Kind == LambdaParameter
}

// AddCapture appends def to the function's capture list, returning the
// capture-relative offset it was assigned. Re-adding an already-captured
// def returns its existing offset without mutating the list (capture
// lists are de-duplicated).
func (d *Def) AddCapture(def *Def) int {
	for i, c := range d.Captures {
		if c == def {
			return captureOffset(d.Captures[:i])
		}
	}
	offset := captureOffset(d.Captures)
	d.Captures = append(d.Captures, def)
	return offset
}

func captureOffset(captures []*Def) int {
	n := 0
	for _, c := range captures {
		n += slotSize(c)
	}
	return n
}

// slotSize is 1 for a value capture, 2 for a function capture (chunk
// index + closure position).
func slotSize(d *Def) int {
	if d.IsFunction() {
		return 2
	}
	return 1
}

// SlotSize exposes slotSize to callers outside the package (the parser
// needs it to size a closure's capture list before emitting the copies
// that seed it).
func SlotSize(d *Def) int {
	return slotSize(d)
}

// Context is one lexical scope: a flat map of name to definition.
type Context map[string]*Def

// Env is the stack of lexical contexts, innermost last.
type Env struct {
	stack []Context
}

// New creates an environment with a single builtin (depth-0) context.
func New() *Env {
	return &Env{stack: []Context{{}}}
}

// NewChild creates an environment that starts from an already-populated
// builtin context instead of an empty one. An imported module's own
// parser gets its own name stack this way, sharing the same builtin
// definitions (same *Def pointers, so chunk indices stay valid) without
// re-registering them and without seeing the importing file's globals.
func NewChild(builtins Context) *Env {
	return &Env{stack: []Context{builtins}}
}

// Builtins returns the outermost (depth-0) context, for handing to
// NewChild when spawning a sub-parser for an imported module.
func (e *Env) Builtins() Context {
	return e.stack[0]
}

// PushContext opens a new innermost scope.
func (e *Env) PushContext() {
	e.stack = append(e.stack, Context{})
}

// PopContext closes the innermost scope.
func (e *Env) PopContext() {
	e.stack = e.stack[:len(e.stack)-1]
}

// Depth returns the current number of contexts, counting the builtin
// context; a name declared right now receives depth Depth()-1.
func (e *Env) Depth() int {
	return len(e.stack)
}

// Define binds name in the innermost context. It fails (returning nil)
// if the innermost context already has name and allowRedefine is false.
func (e *Env) Define(def *Def, allowRedefine bool) *Def {
	ctx := e.stack[len(e.stack)-1]
	if _, exists := ctx[def.Name]; exists && !allowRedefine {
		return nil
	}
	ctx[def.Name] = def
	return def
}

// Lookup searches innermost-out, falling back to the outermost
// (builtin, depth 0) context last.
func (e *Env) Lookup(name string) (*Def, bool) {
	for i := len(e.stack) - 1; i >= 0; i-- {
		if def, ok := e.stack[i][name]; ok {
			return def, true
		}
	}
	return nil, false
}

// LookupGlobal searches only the outermost user context (depth 1).
func (e *Env) LookupGlobal(name string) (*Def, bool) {
	if len(e.stack) < 2 {
		return nil, false
	}
	def, ok := e.stack[1][name]
	return def, ok
}

// ExtractInnermost returns the innermost context, for module export.
func (e *Env) ExtractInnermost() Context {
	return e.stack[len(e.stack)-1]
}

// Merge copies every non-conflicting entry from other into the innermost
// context, returning the list of names that collided. Used when an
// import brings a module's top-level names into the importing scope. A
// name already bound to the very same definition (the same module
// reached through two imports) is not a collision.
func (e *Env) Merge(other Context) []string {
	ctx := e.stack[len(e.stack)-1]
	var duplicates []string
	for name, def := range other {
		if existing, exists := ctx[name]; exists {
			if existing != def {
				duplicates = append(duplicates, name)
			}
			continue
		}
		ctx[name] = def
	}
	return duplicates
}
