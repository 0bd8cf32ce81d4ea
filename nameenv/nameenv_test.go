package nameenv

import (
	"testing"

	"github.com/svgpathturtle/svgpathturtle/token"
)

func TestDefineAndLookup(t *testing.T) {
	env := New()
	env.PushContext() // global, depth 1
	def := NewValue("a", token.Position{Line: 1, Column: 1}, env.Depth())
	if env.Define(def, false) == nil {
		t.Fatalf("expected define to succeed")
	}
	got, ok := env.Lookup("a")
	if !ok || got != def {
		t.Fatalf("lookup failed: %v %v", got, ok)
	}
}

func TestDefineDuplicateRejected(t *testing.T) {
	env := New()
	env.PushContext()
	pos := token.Position{Line: 1, Column: 1}
	env.Define(NewValue("a", pos, env.Depth()), false)
	if env.Define(NewValue("a", pos, env.Depth()), false) != nil {
		t.Fatalf("expected duplicate define to fail")
	}
}

func TestLookupFallsBackToBuiltins(t *testing.T) {
	env := New()
	builtin := NewFunction("r", token.Position{}, 0, BuiltinFunction, "v", []string{"angle"}, 1)
	env.stack[0]["r"] = builtin
	env.PushContext()
	env.PushContext()
	got, ok := env.Lookup("r")
	if !ok || got != builtin {
		t.Fatalf("expected to find builtin from nested scope")
	}
}

func TestLookupGlobalOnlySearchesOutermostUserContext(t *testing.T) {
	env := New()
	env.PushContext() // global
	env.Define(NewValue("a", token.Position{}, env.Depth()), false)
	env.PushContext() // inner
	env.Define(NewValue("b", token.Position{}, env.Depth()), false)

	if _, ok := env.LookupGlobal("a"); !ok {
		t.Fatalf("expected to find global a")
	}
	if _, ok := env.LookupGlobal("b"); ok {
		t.Fatalf("did not expect to find inner-scoped b via LookupGlobal")
	}
}

func TestMergeReportsDuplicates(t *testing.T) {
	env := New()
	env.PushContext()
	env.Define(NewValue("a", token.Position{}, env.Depth()), false)

	other := Context{
		"a": NewValue("a", token.Position{}, 1),
		"b": NewValue("b", token.Position{}, 1),
	}
	dups := env.Merge(other)
	if len(dups) != 1 || dups[0] != "a" {
		t.Fatalf("got duplicates %v, want [a]", dups)
	}
	if _, ok := env.Lookup("b"); !ok {
		t.Fatalf("expected b to be merged in")
	}
}

func TestAddCaptureDedupesAndSizesBySlot(t *testing.T) {
	fn := NewFunction("outer", token.Position{}, 1, UserFunction, "", nil, 2)
	value := NewValue("x", token.Position{}, 1)
	lambdaCapture := NewFunction("g", token.Position{}, 1, UserFunction, "", nil, 3)

	off1 := fn.AddCapture(value)
	off2 := fn.AddCapture(lambdaCapture)
	off3 := fn.AddCapture(value) // re-added: must not duplicate, must return original offset

	if off1 != 0 {
		t.Fatalf("first capture offset = %d, want 0", off1)
	}
	if off2 != 1 {
		t.Fatalf("second capture offset = %d, want 1 (value took 1 slot)", off2)
	}
	if off3 != off1 {
		t.Fatalf("re-adding existing capture changed offset: %d vs %d", off3, off1)
	}
	if len(fn.Captures) != 2 {
		t.Fatalf("captures = %v, want 2 deduplicated entries", fn.Captures)
	}
}
