package engine

import "fmt"

// PenHeightChecker is implemented by the turtle collaborator: it tracks
// whether the pen height ever went negative during execution, which is
// downgraded from an execution error to a post-hoc warning.
type PenHeightChecker interface {
	HasPenHeightError() bool
}

// Result is the outcome of running a program's main chunk.
type Result struct {
	Err              error
	Backtrace        []string
	PenHeightWarning bool
}

// Engine ties a compiled Program to the runtime stacks that execute it.
type Engine struct {
	Program *Program
}

// NewEngine wraps prog for execution.
func NewEngine(prog *Program) *Engine {
	return &Engine{Program: prog}
}

// ExecuteMain resets both runtime stacks and calls the chunk at
// chunkIndex (the file's top-level "global" chunk) with no arguments.
// turtle, if it implements PenHeightChecker, is consulted after a
// successful run to downgrade a pen-height excursion to a warning
// instead of treating it as an execution error.
func (e *Engine) ExecuteMain(chunkIndex int, turtle interface{}) Result {
	rt := NewRuntime(e.Program)
	defer setActive(rt)()
	err := invoke(rt, e.Program.Chunk(chunkIndex), 0)
	if err != nil {
		return Result{Err: err, Backtrace: rt.Backtrace}
	}
	penWarning := false
	if checker, ok := turtle.(PenHeightChecker); ok {
		penWarning = checker.HasPenHeightError()
	}
	return Result{PenHeightWarning: penWarning}
}

// StackOverflowError is returned by CheckOverflow; kept as a distinct
// type so callers can recognize it with errors.As without string
// matching.
type StackOverflowError struct{}

func (StackOverflowError) Error() string { return "stack overflow" }

// TurtleError wraps a failure reported by the turtle collaborator,
// preserving the triggering builtin's name for diagnostics.
type TurtleError struct {
	Builtin string
	Err     error
}

func (e *TurtleError) Error() string {
	return fmt.Sprintf("%s: %v", e.Builtin, e.Err)
}

func (e *TurtleError) Unwrap() error { return e.Err }
