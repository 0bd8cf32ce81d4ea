package turtle

import (
	"testing"

	"github.com/svgpathturtle/svgpathturtle/ast"
	"github.com/svgpathturtle/svgpathturtle/engine"
	"github.com/svgpathturtle/svgpathturtle/nameenv"
)

func TestRegisterBindsEveryBuiltinAtDepthZero(t *testing.T) {
	env := nameenv.New()
	b := engine.NewBuilder()
	rec := NewRecorder()

	defs := Register(env, b, rec)

	if len(defs) != len(Builtins) {
		t.Fatalf("Register() bound %d names, want %d", len(defs), len(Builtins))
	}
	for _, spec := range Builtins {
		def, ok := env.Lookup(spec.Name)
		if !ok {
			t.Fatalf("Lookup(%q) not found after Register", spec.Name)
		}
		if def.Kind != nameenv.BuiltinFunction {
			t.Fatalf("%q def.Kind = %v, want BuiltinFunction", spec.Name, def.Kind)
		}
		if def.Depth != 0 {
			t.Fatalf("%q def.Depth = %d, want 0", spec.Name, def.Depth)
		}
		if len(def.ParamNames) != len(spec.Params) {
			t.Fatalf("%q def.ParamNames = %v, want %v", spec.Name, def.ParamNames, spec.Params)
		}
	}
}

// Calling the compiled chunk for "r" must invoke Recorder.TurnRight with
// the argument that was pushed onto Locals, exactly as a cmd_call does
// for any value-signature builtin.
func TestRegisteredBuiltinForwardsArguments(t *testing.T) {
	env := nameenv.New()
	b := engine.NewBuilder()
	rec := NewRecorder()
	Register(env, b, rec)

	rDef, ok := env.Lookup("r")
	if !ok {
		t.Fatal(`Lookup("r") not found`)
	}

	mainIdx := b.PushUserChunk("main")
	b.CompileStartFnCall(rDef.ChunkIndex, false)
	b.CompilePushValue(engine.LocalStack, ast.NewConstant(30))
	b.CompileCallFn(rDef.ChunkIndex, 1)
	b.PopUserChunk()

	eng := engine.NewEngine(b.Program())
	result := eng.ExecuteMain(mainIdx, rec)
	if result.Err != nil {
		t.Fatalf("ExecuteMain() error = %v, backtrace %v", result.Err, result.Backtrace)
	}
	want := []string{"r(30)"}
	if len(rec.Calls) != 1 || rec.Calls[0] != want[0] {
		t.Fatalf("Calls = %v, want %v", rec.Calls, want)
	}
}

func TestUniqueCounterAdvancesFromOne(t *testing.T) {
	c := NewUniqueCounter()
	want := []float64{1, 2, 3}
	for i, w := range want {
		if got := c.Value().Eval(); got != w {
			t.Fatalf("Value().Eval() call %d = %v, want %v", i, got, w)
		}
	}
}

func TestReadPoseReflectsCollaborator(t *testing.T) {
	rec := NewRecorder()
	if x := ReadX(rec).Eval(); x != 0 {
		t.Fatalf("ReadX() = %v, want 0", x)
	}
	if y := ReadY(rec).Eval(); y != 0 {
		t.Fatalf("ReadY() = %v, want 0", y)
	}
	if d := ReadDir(rec).Eval(); d != 0 {
		t.Fatalf("ReadDir() = %v, want 0", d)
	}
}
