package turtle

import "fmt"

// Recorder is the minimal Turtle collaborator used by tests and the
// REPL: every command appends its formatted call to Calls instead of
// doing any geometry, which is exactly enough to make a program's
// observable behavior assertable without the excluded geometry/SVG
// subsystem. GetX/GetY/GetDir always read back 0 since Recorder tracks
// no real pose; it exists to observe what was called, not to compute
// where the pen ends up.
type Recorder struct {
	Calls []string

	penHeight       int
	penWentNegative bool
}

// NewRecorder constructs an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(format string, args ...interface{}) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) Rotation(angle float64)    { r.record("rotation(%g)", angle) }
func (r *Recorder) Scaling(x, y float64)      { r.record("scaling(%g, %g)", x, y) }
func (r *Recorder) Shearing(x, y float64)     { r.record("shearing(%g, %g)", x, y) }
func (r *Recorder) Reflection(x, y float64)   { r.record("reflection(%g, %g)", x, y) }
func (r *Recorder) Translation(x, y float64)  { r.record("translation(%g, %g)", x, y) }
func (r *Recorder) PushMatrix()               { r.record("push_matrix()") }
func (r *Recorder) PopMatrix()                { r.record("pop_matrix()") }

func (r *Recorder) ClosePath() { r.record("z()") }

func (r *Recorder) MoveRel(dx, dy float64)   { r.record("m(%g, %g)", dx, dy) }
func (r *Recorder) MoveAbs(x, y float64)     { r.record("M(%g, %g)", x, y) }
func (r *Recorder) TurnRight(angle float64)  { r.record("r(%g)", angle) }
func (r *Recorder) TurnLeft(angle float64)   { r.record("l(%g)", angle) }
func (r *Recorder) TurnTo(angle float64)     { r.record("d(%g)", angle) }
func (r *Recorder) Forward(distance float64) { r.record("f(%g)", distance) }
func (r *Recorder) Jump(distance float64)    { r.record("j(%g)", distance) }
func (r *Recorder) Arc(radius, angle float64) { r.record("a(%g, %g)", radius, angle) }

func (r *Recorder) QuadRel(dx, dy, angle float64) { r.record("q(%g, %g, %g)", dx, dy, angle) }
func (r *Recorder) QuadAbs(x, y, angle float64)   { r.record("Q(%g, %g, %g)", x, y, angle) }
func (r *Recorder) SmoothQuad(distance float64)   { r.record("t(%g)", distance) }

func (r *Recorder) CurveRel(len1, angle1, len2, angle2, dx, dy float64) {
	r.record("c(%g, %g, %g, %g, %g, %g)", len1, angle1, len2, angle2, dx, dy)
}
func (r *Recorder) CurveAbs(len1, angle1, len2, angle2, x, y float64) {
	r.record("C(%g, %g, %g, %g, %g, %g)", len1, angle1, len2, angle2, x, y)
}
func (r *Recorder) SmoothRel(len2, angle2, dx, dy float64) {
	r.record("s(%g, %g, %g, %g)", len2, angle2, dx, dy)
}
func (r *Recorder) SmoothAbs(len2, angle2, x, y float64) {
	r.record("S(%g, %g, %g, %g)", len2, angle2, x, y)
}

func (r *Recorder) AdjacentForHypotenuse(angle, hypotenuse float64) {
	r.record("ah(%g, %g)", angle, hypotenuse)
}
func (r *Recorder) AdjacentForOpposite(angle, opposite float64) {
	r.record("ao(%g, %g)", angle, opposite)
}
func (r *Recorder) HypotenuseForAdjacent(angle, adjacent float64) {
	r.record("ha(%g, %g)", angle, adjacent)
}
func (r *Recorder) HypotenuseForOpposite(angle, opposite float64) {
	r.record("ho(%g, %g)", angle, opposite)
}
func (r *Recorder) HypotenuseForBoth(adjacent, opposite float64) {
	r.record("hb(%g, %g)", adjacent, opposite)
}

func (r *Recorder) Aim(dx, dy float64)         { r.record("aim(%g, %g)", dx, dy) }
func (r *Recorder) Orbit(x, y, angle float64)  { r.record("orbit(%g, %g, %g)", x, y, angle) }
func (r *Recorder) Ellipse(rx, ry float64)     { r.record("ellipse(%g, %g)", rx, ry) }

// PenUp and PenDown track pen height the way the reference turtle does
// (++/-- on every call) so HasPenHeightError can reproduce the
// downgrade-to-warning rule without a real geometry engine underneath.
func (r *Recorder) PenUp() {
	r.penHeight++
	r.record("up()")
}

func (r *Recorder) PenDown() {
	r.penHeight--
	if r.penHeight < 0 {
		r.penWentNegative = true
	}
	r.record("down()")
}

func (r *Recorder) Push()    { r.record("push()") }
func (r *Recorder) Pop()     { r.record("pop()") }
func (r *Recorder) Newline() { r.record("nl()") }
func (r *Recorder) Space()   { r.record("sp()") }

func (r *Recorder) GetX() float64   { return 0 }
func (r *Recorder) GetY() float64   { return 0 }
func (r *Recorder) GetDir() float64 { return 0 }

// HasPenHeightError implements engine.PenHeightChecker: true once a
// pen_down call ever drove the pen height negative during this run.
func (r *Recorder) HasPenHeightError() bool { return r.penWentNegative }
