// Package ast implements the expression representation used while
// parsing: a small sum type holding either a constant double, a deferred
// expression (a nullary function returning a double), or "invalid" —
// plus the constant-folding combinators that build it.
package ast

// Kind tags which variant a Value holds.
type Kind int

const (
	Invalid Kind = iota
	Constant
	Deferred
)

// Fn is a zero-argument evaluator: a deferred expression, built out of
// closures of closures, evaluated against the runtime stacks at
// execution time rather than at parse time.
type Fn func() float64

// Value is the AST node produced by expression parsing.
type Value struct {
	kind     Kind
	constant float64
	deferred Fn
}

// InvalidValue is the zero/error Value, used when parsing recovers from
// an error but must still return something to its caller.
var InvalidValue = Value{kind: Invalid}

// NewConstant wraps a compile-time-constant double.
func NewConstant(v float64) Value {
	return Value{kind: Constant, constant: v}
}

// NewDeferred wraps a nullary closure evaluated at run time.
func NewDeferred(fn Fn) Value {
	return Value{kind: Deferred, deferred: fn}
}

// IsInvalid reports whether v carries no usable value.
func (v Value) IsInvalid() bool { return v.kind == Invalid }

// IsConstant reports whether v folded to a compile-time constant.
func (v Value) IsConstant() bool { return v.kind == Constant }

// ConstantValue returns the folded constant. Only valid when IsConstant.
func (v Value) ConstantValue() float64 { return v.constant }

// Eval returns v's numeric value, evaluating the deferred closure if
// needed. Invalid values evaluate to 0, so that parse-error recovery
// can keep evaluating a statement list instead of aborting outright.
func (v Value) Eval() float64 {
	switch v.kind {
	case Constant:
		return v.constant
	case Deferred:
		return v.deferred()
	default:
		return 0
	}
}

// AsFn returns a nullary closure equivalent to v regardless of variant,
// for callers (the engine) that always want a deferred statement body.
func (v Value) AsFn() Fn {
	switch v.kind {
	case Constant:
		c := v.constant
		return func() float64 { return c }
	case Deferred:
		return v.deferred
	default:
		return func() float64 { return 0 }
	}
}
