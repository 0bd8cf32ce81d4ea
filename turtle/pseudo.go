package turtle

import "github.com/svgpathturtle/svgpathturtle/ast"

// ReadX, ReadY, and ReadDir build the turtle.x / turtle.y / turtle.dir
// pseudo-builtins: unlike every entry in Builtins, these read the
// collaborator's current pose rather than invoking a command, so they
// appear in expression position only and never go through Register or
// the nameenv name table at all — the parser recognizes the `turtle.`
// prefix syntactically and calls straight through to here.
func ReadX(t Turtle) ast.Value   { return ast.NewDeferred(func() float64 { return t.GetX() }) }
func ReadY(t Turtle) ast.Value   { return ast.NewDeferred(func() float64 { return t.GetY() }) }
func ReadDir(t Turtle) ast.Value { return ast.NewDeferred(func() float64 { return t.GetDir() }) }

// UniqueCounter backs the "unique" pseudo-builtin: every evaluation
// yields the next integer starting at 1 and advances the counter. One
// counter is shared across an entire top-level parse, including every
// file it imports, the same way the reference engine owns a single
// counter for the life of a program rather than one per file.
type UniqueCounter struct {
	next int
}

// NewUniqueCounter starts a counter at 1.
func NewUniqueCounter() *UniqueCounter {
	return &UniqueCounter{next: 1}
}

// Value returns a fresh ast.Value; every call site gets its own
// deferred closure, but all of them advance the same counter.
func (c *UniqueCounter) Value() ast.Value {
	return ast.NewDeferred(func() float64 {
		v := c.next
		c.next++
		return float64(v)
	})
}
