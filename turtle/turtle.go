// Package turtle defines the collaborator interface the core compiles
// builtin commands against, and the fixed table of builtins the parser
// registers at depth 0. Geometry, path-state bookkeeping, and SVG text
// generation are someone else's problem: this package only describes the
// shape of the calls the compiled program makes, and wires that shape
// into an engine.Builder.
package turtle

import (
	"strings"

	"github.com/svgpathturtle/svgpathturtle/engine"
	"github.com/svgpathturtle/svgpathturtle/nameenv"
	"github.com/svgpathturtle/svgpathturtle/token"
)

// Turtle is implemented by whatever turns a compiled command stream into
// a drawing: the excluded geometry/SVG-emission subsystem in production,
// a Recorder in tests, or a REPL's call-trace printer. Every method here
// corresponds to one row of Builtins; GetX/GetY/GetDir back the
// turtle.x/turtle.y/turtle.dir pseudo-builtins in pseudo.go, which read
// pose rather than invoking a command.
type Turtle interface {
	Rotation(angle float64)
	Scaling(x, y float64)
	Shearing(x, y float64)
	Reflection(x, y float64)
	Translation(x, y float64)
	PushMatrix()
	PopMatrix()

	ClosePath()

	MoveRel(dx, dy float64)
	MoveAbs(x, y float64)
	TurnRight(angle float64)
	TurnLeft(angle float64)
	TurnTo(angle float64)
	Forward(distance float64)
	Jump(distance float64)
	Arc(radius, angle float64)
	QuadRel(dx, dy, angle float64)
	QuadAbs(x, y, angle float64)
	SmoothQuad(distance float64)
	CurveRel(len1, angle1, len2, angle2, dx, dy float64)
	CurveAbs(len1, angle1, len2, angle2, x, y float64)
	SmoothRel(len2, angle2, dx, dy float64)
	SmoothAbs(len2, angle2, x, y float64)

	AdjacentForHypotenuse(angle, hypotenuse float64)
	AdjacentForOpposite(angle, opposite float64)
	HypotenuseForAdjacent(angle, adjacent float64)
	HypotenuseForOpposite(angle, opposite float64)
	HypotenuseForBoth(adjacent, opposite float64)

	Aim(dx, dy float64)
	Orbit(x, y, angle float64)
	Ellipse(rx, ry float64)

	PenUp()
	PenDown()
	Push()
	Pop()
	Newline()
	Space()

	GetX() float64
	GetY() float64
	GetDir() float64
}

// BuiltinSpec names one registered command, its parameter names (for
// diagnostics and signature bookkeeping), and how to forward an
// already-evaluated argument list to a Turtle.
type BuiltinSpec struct {
	Name   string
	Params []string
	Call   func(t Turtle, args []float64)
}

// Builtins is the fixed command table, in the order the reference
// engine declares it. Every name, arity, and parameter name here is
// load-bearing: a parser that resolves `r` to anything but a one-
// argument command named "r" no longer runs the same programs.
var Builtins = []BuiltinSpec{
	{"rotation", []string{"angle"}, func(t Turtle, a []float64) { t.Rotation(a[0]) }},
	{"scaling", []string{"x", "y"}, func(t Turtle, a []float64) { t.Scaling(a[0], a[1]) }},
	{"shearing", []string{"x", "y"}, func(t Turtle, a []float64) { t.Shearing(a[0], a[1]) }},
	{"reflection", []string{"x", "y"}, func(t Turtle, a []float64) { t.Reflection(a[0], a[1]) }},
	{"translation", []string{"x", "y"}, func(t Turtle, a []float64) { t.Translation(a[0], a[1]) }},

	{"push_matrix", nil, func(t Turtle, a []float64) { t.PushMatrix() }},
	{"pop_matrix", nil, func(t Turtle, a []float64) { t.PopMatrix() }},

	{"z", nil, func(t Turtle, a []float64) { t.ClosePath() }},

	{"m", []string{"dx", "dy"}, func(t Turtle, a []float64) { t.MoveRel(a[0], a[1]) }},
	{"M", []string{"x", "y"}, func(t Turtle, a []float64) { t.MoveAbs(a[0], a[1]) }},
	{"r", []string{"angle"}, func(t Turtle, a []float64) { t.TurnRight(a[0]) }},
	{"l", []string{"angle"}, func(t Turtle, a []float64) { t.TurnLeft(a[0]) }},
	{"d", []string{"angle"}, func(t Turtle, a []float64) { t.TurnTo(a[0]) }},
	{"f", []string{"distance"}, func(t Turtle, a []float64) { t.Forward(a[0]) }},
	{"j", []string{"distance"}, func(t Turtle, a []float64) { t.Jump(a[0]) }},
	{"a", []string{"radius", "angle"}, func(t Turtle, a []float64) { t.Arc(a[0], a[1]) }},

	{"q", []string{"dx", "dy", "angle"}, func(t Turtle, a []float64) { t.QuadRel(a[0], a[1], a[2]) }},
	{"Q", []string{"x", "y", "angle"}, func(t Turtle, a []float64) { t.QuadAbs(a[0], a[1], a[2]) }},
	{"t", []string{"distance"}, func(t Turtle, a []float64) { t.SmoothQuad(a[0]) }},

	{"c", []string{"len1", "angle1", "len2", "angle2", "dx", "dy"}, func(t Turtle, a []float64) {
		t.CurveRel(a[0], a[1], a[2], a[3], a[4], a[5])
	}},
	{"C", []string{"len1", "angle1", "len2", "angle2", "x", "y"}, func(t Turtle, a []float64) {
		t.CurveAbs(a[0], a[1], a[2], a[3], a[4], a[5])
	}},
	{"s", []string{"len2", "angle2", "dx", "dy"}, func(t Turtle, a []float64) { t.SmoothRel(a[0], a[1], a[2], a[3]) }},
	{"S", []string{"len2", "angle2", "x", "y"}, func(t Turtle, a []float64) { t.SmoothAbs(a[0], a[1], a[2], a[3]) }},

	{"ah", []string{"angle", "hypotenuse"}, func(t Turtle, a []float64) { t.AdjacentForHypotenuse(a[0], a[1]) }},
	{"ao", []string{"angle", "opposite"}, func(t Turtle, a []float64) { t.AdjacentForOpposite(a[0], a[1]) }},
	{"ha", []string{"angle", "adjacent"}, func(t Turtle, a []float64) { t.HypotenuseForAdjacent(a[0], a[1]) }},
	{"ho", []string{"angle", "opposite"}, func(t Turtle, a []float64) { t.HypotenuseForOpposite(a[0], a[1]) }},
	{"hb", []string{"adjacent", "opposite"}, func(t Turtle, a []float64) { t.HypotenuseForBoth(a[0], a[1]) }},

	{"aim", []string{"dx", "dy"}, func(t Turtle, a []float64) { t.Aim(a[0], a[1]) }},
	{"orbit", []string{"x", "y", "angle"}, func(t Turtle, a []float64) { t.Orbit(a[0], a[1], a[2]) }},
	{"ellipse", []string{"rx", "ry"}, func(t Turtle, a []float64) { t.Ellipse(a[0], a[1]) }},

	{"up", nil, func(t Turtle, a []float64) { t.PenUp() }},
	{"down", nil, func(t Turtle, a []float64) { t.PenDown() }},
	{"push", nil, func(t Turtle, a []float64) { t.Push() }},
	{"pop", nil, func(t Turtle, a []float64) { t.Pop() }},
	{"nl", nil, func(t Turtle, a []float64) { t.Newline() }},
	{"sp", nil, func(t Turtle, a []float64) { t.Space() }},
}

// Register installs every entry of Builtins as a depth-0 BuiltinFunction
// name bound to a builtin chunk in b, forwarding each call's already-
// compiled arguments to t. Call it once per parse, before opening the
// top-level user chunk, so every builtin resolves at depth 0 the way
// spec's name-resolution rules expect.
func Register(env *nameenv.Env, b *engine.Builder, t Turtle) map[string]*nameenv.Def {
	defs := make(map[string]*nameenv.Def, len(Builtins))
	for _, spec := range Builtins {
		arity := len(spec.Params)
		chunkIdx := b.PushBuiltinChunk(spec.Name, arity)
		call := spec.Call
		b.CompileBuiltinBody(func(rt *engine.Runtime) error {
			args := make([]float64, arity)
			for i := range args {
				args[i] = rt.Locals.At(i)
			}
			call(t, args)
			return nil
		})
		b.PopBuiltinChunk()

		def := nameenv.NewFunction(spec.Name, token.Position{}, 0, nameenv.BuiltinFunction,
			strings.Repeat("v", arity), spec.Params, chunkIdx)
		env.Define(def, false)
		defs[spec.Name] = def
	}
	return defs
}
