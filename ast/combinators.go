package ast

import (
	"math"

	"github.com/svgpathturtle/svgpathturtle/token"
)

// truthy treats 0 as false and any non-zero double as true.
func truthy(v float64) bool { return v != 0 }

func boolDouble(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func applyUnary(op token.Code, v float64) float64 {
	switch op {
	case token.Code('-'):
		return -v
	case token.Code('+'):
		return v
	case token.Code('!'):
		return boolDouble(!truthy(v))
	default:
		return v
	}
}

func applyBinary(op token.Code, l, r float64) float64 {
	switch op {
	case token.Code('+'):
		return l + r
	case token.Code('-'):
		return l - r
	case token.Code('*'):
		return l * r
	case token.Code('/'):
		return l / r
	case token.StarStar:
		return math.Pow(l, r)
	case token.Code('<'):
		return boolDouble(l < r)
	case token.Code('>'):
		return boolDouble(l > r)
	case token.LtEq:
		return boolDouble(l <= r)
	case token.GtEq:
		return boolDouble(l >= r)
	case token.EqEq:
		return boolDouble(l == r)
	case token.NotEq:
		return boolDouble(l != r)
	case token.AndAnd:
		if truthy(l) && truthy(r) {
			return r
		}
		return 0
	case token.OrOr:
		if truthy(l) {
			return l
		}
		if truthy(r) {
			return r
		}
		return 0
	default:
		return 0
	}
}

// Prefix builds a unary-operator node: if rhs is constant, fold
// immediately; otherwise compose a deferred closure.
func Prefix(op token.Code, rhs Value) Value {
	if rhs.IsInvalid() {
		return InvalidValue
	}
	if rhs.IsConstant() {
		return NewConstant(applyUnary(op, rhs.constant))
	}
	fn := rhs.deferred
	return NewDeferred(func() float64 { return applyUnary(op, fn()) })
}

// Binary builds a binary-operator node with a four-way dispatch on
// whether each operand is constant, folding eagerly whenever it can.
func Binary(op token.Code, lhs, rhs Value) Value {
	if lhs.IsInvalid() || rhs.IsInvalid() {
		return InvalidValue
	}
	switch {
	case lhs.IsConstant() && rhs.IsConstant():
		return NewConstant(applyBinary(op, lhs.constant, rhs.constant))
	case lhs.IsConstant() && !rhs.IsConstant():
		l := lhs.constant
		rf := rhs.deferred
		return NewDeferred(func() float64 { return applyBinary(op, l, rf()) })
	case !lhs.IsConstant() && rhs.IsConstant():
		lf := lhs.deferred
		r := rhs.constant
		return NewDeferred(func() float64 { return applyBinary(op, lf(), r) })
	default:
		lf := lhs.deferred
		rf := rhs.deferred
		return NewDeferred(func() float64 { return applyBinary(op, lf(), rf()) })
	}
}

// Ternary builds a `cond ? then : else` node. When cond is constant, the
// untaken branch's closure is never built into the result at all — the
// chosen branch's own Value (constant or deferred) is returned directly
// instead of enumerating every combination of operand kinds.
func Ternary(cond, then, els Value) Value {
	if cond.IsInvalid() || then.IsInvalid() || els.IsInvalid() {
		return InvalidValue
	}
	if cond.IsConstant() {
		if truthy(cond.constant) {
			return then
		}
		return els
	}
	condFn := cond.deferred
	thenFn := then.AsFn()
	elseFn := els.AsFn()
	return NewDeferred(func() float64 {
		if truthy(condFn()) {
			return thenFn()
		}
		return elseFn()
	})
}
