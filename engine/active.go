package engine

import "github.com/svgpathturtle/svgpathturtle/ast"

// active is the single Runtime currently executing. Parsing and
// execution never overlap and execution itself is strictly
// single-threaded, so a name-read expression built during parsing can
// safely close over this shared pointer instead of threading a runtime
// parameter through ast.Value's nullary Fn signature.
var active *Runtime

func setActive(rt *Runtime) (restore func()) {
	prev := active
	active = rt
	return func() { active = prev }
}

// ReadValue returns an ast.Value that, when evaluated during execution,
// reads a single double out of the given domain and offset. This is how
// a name lookup that resolved to a Value definition becomes an
// expression: compile-time-constant values are folded away by the
// parser before ever reaching here, so every call site is a genuine
// runtime read.
func (b *Builder) ReadValue(domain Domain, offset int) ast.Value {
	return ast.NewDeferred(func() float64 {
		switch domain {
		case DomainGlobal:
			return active.Locals.ReadGlobal(offset)
		case DomainCapture:
			return active.Captures.At(offset)
		default:
			return active.Locals.At(offset)
		}
	})
}
