package ast

import (
	"testing"

	"github.com/svgpathturtle/svgpathturtle/token"
)

func TestBinaryConstantFoldsEagerly(t *testing.T) {
	v := Binary(token.Code('+'), NewConstant(3.14159), NewConstant(0))
	if !v.IsConstant() {
		t.Fatalf("expected constant fold")
	}
	if v.ConstantValue() != 3.14159 {
		t.Fatalf("got %v, want 3.14159", v.ConstantValue())
	}
}

func TestBinaryMixedDefers(t *testing.T) {
	calls := 0
	deferred := NewDeferred(func() float64 { calls++; return 4 })
	v := Binary(token.Code('*'), NewConstant(2), deferred)
	if v.IsConstant() {
		t.Fatalf("expected deferred result since one operand is deferred")
	}
	if got := v.Eval(); got != 8 {
		t.Fatalf("got %v, want 8", got)
	}
	if calls != 1 {
		t.Fatalf("deferred operand evaluated %d times, want 1", calls)
	}
}

func TestLogicalAndOr(t *testing.T) {
	if Binary(token.AndAnd, NewConstant(1), NewConstant(5)).ConstantValue() != 5 {
		t.Fatalf("&& should return right operand when both truthy")
	}
	if Binary(token.AndAnd, NewConstant(0), NewConstant(5)).ConstantValue() != 0 {
		t.Fatalf("&& should return 0 when left falsy")
	}
	if Binary(token.OrOr, NewConstant(3), NewConstant(5)).ConstantValue() != 3 {
		t.Fatalf("|| should return left operand when truthy")
	}
	if Binary(token.OrOr, NewConstant(0), NewConstant(5)).ConstantValue() != 5 {
		t.Fatalf("|| should fall through to right operand")
	}
}

func TestTernaryDoesNotEvaluateUntakenBranch(t *testing.T) {
	takenCalls, untakenCalls := 0, 0
	then := NewDeferred(func() float64 { takenCalls++; return 1 })
	els := NewDeferred(func() float64 { untakenCalls++; return 2 })
	v := Ternary(NewConstant(1), then, els)
	if v.Eval() != 1 {
		t.Fatalf("expected then branch")
	}
	if untakenCalls != 0 {
		t.Fatalf("else branch evaluated eagerly during folding")
	}
}

func TestTernaryDeferredCondition(t *testing.T) {
	cond := NewDeferred(func() float64 { return 0 })
	v := Ternary(cond, NewConstant(1), NewConstant(2))
	if v.IsConstant() {
		t.Fatalf("expected deferred result for non-constant condition")
	}
	if v.Eval() != 2 {
		t.Fatalf("got %v, want 2 (else branch)", v.Eval())
	}
}

func TestUnaryFold(t *testing.T) {
	if Prefix(token.Code('-'), NewConstant(5)).ConstantValue() != -5 {
		t.Fatalf("unary minus failed")
	}
	if Prefix(token.Code('!'), NewConstant(0)).ConstantValue() != 1 {
		t.Fatalf("unary ! of 0 should be 1")
	}
	if Prefix(token.Code('+'), NewConstant(5)).ConstantValue() != 5 {
		t.Fatalf("unary + should be identity")
	}
}
