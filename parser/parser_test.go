package parser

import (
	"strings"
	"testing"

	"github.com/svgpathturtle/svgpathturtle/engine"
	"github.com/svgpathturtle/svgpathturtle/turtle"
)

// run parses src and executes it against a fresh Recorder, failing the
// test immediately on any diagnostic or execution error so individual
// test bodies only need to assert on the resulting call trace.
func run(t *testing.T, src string) *turtle.Recorder {
	t.Helper()
	rec := turtle.NewRecorder()
	prog, mainIdx, diags := Parse("test.svgpt", src, rec, nil)
	if diags.HasError() {
		t.Fatalf("unexpected diagnostics:\n%s", diags.String())
	}
	result := engine.NewEngine(prog).ExecuteMain(mainIdx, rec)
	if result.Err != nil {
		t.Fatalf("execution error: %v (backtrace %v)", result.Err, result.Backtrace)
	}
	return rec
}

// parseOnly parses src without executing it, for tests that only care
// about diagnostics.
func parseOnly(t *testing.T, src string) *Diagnostics {
	t.Helper()
	_, _, diags := Parse("test.svgpt", src, turtle.NewRecorder(), nil)
	return diags
}

func TestCmdCallForwardsLiteralArgument(t *testing.T) {
	rec := run(t, `f 10`)
	want := []string{"f(10)"}
	if !equalCalls(rec.Calls, want) {
		t.Fatalf("Calls = %v, want %v", rec.Calls, want)
	}
}

func TestValueDefinitionFoldsConstantArithmetic(t *testing.T) {
	rec := run(t, "n = (3 + 4)\nf n\n")
	want := []string{"f(7)"}
	if !equalCalls(rec.Calls, want) {
		t.Fatalf("Calls = %v, want %v", rec.Calls, want)
	}
}

func TestIfStatementTakesTrueBranch(t *testing.T) {
	rec := run(t, `
n = 1
if n {
  f 1
} else {
  f 2
}
`)
	want := []string{"f(1)"}
	if !equalCalls(rec.Calls, want) {
		t.Fatalf("Calls = %v, want %v", rec.Calls, want)
	}
}

func TestIfStatementTakesElseBranch(t *testing.T) {
	rec := run(t, `
n = 0
if n {
  f 1
} else {
  f 2
}
`)
	want := []string{"f(2)"}
	if !equalCalls(rec.Calls, want) {
		t.Fatalf("Calls = %v, want %v", rec.Calls, want)
	}
}

func TestElseIfChainPicksMatchingBranch(t *testing.T) {
	rec := run(t, `
n = 2
if n == 1 {
  f 1
} else if n == 2 {
  f 2
} else {
  f 3
}
`)
	want := []string{"f(2)"}
	if !equalCalls(rec.Calls, want) {
		t.Fatalf("Calls = %v, want %v", rec.Calls, want)
	}
}

func TestForLoopBareCountRunsNTimes(t *testing.T) {
	rec := run(t, `for 3 { f 1 }`)
	want := []string{"f(1)", "f(1)", "f(1)"}
	if !equalCalls(rec.Calls, want) {
		t.Fatalf("Calls = %v, want %v", rec.Calls, want)
	}
}

func TestForLoopRangeWithNamedVar(t *testing.T) {
	rec := run(t, `for i = 1..3 { f i }`)
	want := []string{"f(1)", "f(2)", "f(3)"}
	if !equalCalls(rec.Calls, want) {
		t.Fatalf("Calls = %v, want %v", rec.Calls, want)
	}
}

func TestForLoopRangeWithStep(t *testing.T) {
	rec := run(t, `for i = 0..2..10 { f i }`)
	want := []string{"f(0)", "f(2)", "f(4)", "f(6)", "f(8)", "f(10)"}
	if !equalCalls(rec.Calls, want) {
		t.Fatalf("Calls = %v, want %v", rec.Calls, want)
	}
}

func TestNamedLoopVarWithoutRangeIsDiagnosed(t *testing.T) {
	diags := parseOnly(t, `for i = 3 { f 1 }`)
	if !diags.HasError() {
		t.Fatalf("expected a diagnostic for a named loop variable with no range")
	}
}

func TestUserFunctionSelfRecursion(t *testing.T) {
	rec := run(t, `
def countdown(n) {
  f n
  if n {
    countdown n - 1
  }
}
countdown 2
`)
	want := []string{"f(2)", "f(1)", "f(0)"}
	if !equalCalls(rec.Calls, want) {
		t.Fatalf("Calls = %v, want %v", rec.Calls, want)
	}
}

func TestHigherOrderFunctionCallsNamedFunctionParameter(t *testing.T) {
	rec := run(t, `
def twice(g()) {
  g
  g
}
def tick() {
  f 9
}
twice tick
`)
	want := []string{"f(9)", "f(9)"}
	if !equalCalls(rec.Calls, want) {
		t.Fatalf("Calls = %v, want %v", rec.Calls, want)
	}
}

func TestInlineLambdaArgument(t *testing.T) {
	rec := run(t, `
def run(g(v)) {
  g 5
}
run { => (x)
  f x
}
`)
	want := []string{"f(5)"}
	if !equalCalls(rec.Calls, want) {
		t.Fatalf("Calls = %v, want %v", rec.Calls, want)
	}
}

func TestClosureCapturesEnclosingValue(t *testing.T) {
	rec := run(t, `
def makeCaller(k) {
  def inner() {
    f k
  }
  inner
}
makeCaller 42
`)
	want := []string{"f(42)"}
	if !equalCalls(rec.Calls, want) {
		t.Fatalf("Calls = %v, want %v", rec.Calls, want)
	}
}

func TestUndefinedNameIsDiagnosed(t *testing.T) {
	diags := parseOnly(t, `f missing`)
	if !diags.HasError() {
		t.Fatalf("expected a diagnostic for an undefined name")
	}
}

// A panic on one malformed statement must not stop the parser from
// resynchronizing at the next keyword-led statement and recording
// exactly one diagnostic for the failure in between.
func TestUndefinedCommandIsDiagnosedAndResynchronizes(t *testing.T) {
	diags := parseOnly(t, "bogus 1\ndef tick() {\n  f 2\n}\n")
	if len(diags.All()) != 1 {
		t.Fatalf("diagnostic count = %d, want 1; got:\n%s", len(diags.All()), diags.String())
	}
	if !strings.Contains(diags.All()[0].Message, "bogus") {
		t.Fatalf("expected a diagnostic naming the undefined command, got:\n%s", diags.String())
	}
}

func TestValueCannotBeCalled(t *testing.T) {
	diags := parseOnly(t, "n = 1\nn 2\n")
	if !diags.HasError() {
		t.Fatalf("expected a diagnostic for calling a value as a command")
	}
}

func TestRedefiningNameInSameScopeIsDiagnosed(t *testing.T) {
	diags := parseOnly(t, "n = 1\nn = 2\n")
	if !diags.HasError() {
		t.Fatalf("expected a diagnostic for redefining a name already bound in this scope")
	}
}

func TestUniqueCounterAdvancesAcrossCalls(t *testing.T) {
	rec := run(t, "f unique\nf unique\nf unique\n")
	want := []string{"f(1)", "f(2)", "f(3)"}
	if !equalCalls(rec.Calls, want) {
		t.Fatalf("Calls = %v, want %v", rec.Calls, want)
	}
}

func TestTurtlePropertyReadsCurrentPose(t *testing.T) {
	// Recorder always reports 0 for x/y/dir, so this only pins down
	// that turtle.x/y/dir parse and evaluate without error.
	rec := run(t, "f turtle.x\nf turtle.y\nf turtle.dir\n")
	want := []string{"f(0)", "f(0)", "f(0)"}
	if !equalCalls(rec.Calls, want) {
		t.Fatalf("Calls = %v, want %v", rec.Calls, want)
	}
}

type fakeLoader map[string]string

func (f fakeLoader) LoadSource(path string) (string, error) {
	src, ok := f[path]
	if !ok {
		return "", errNoLoader
	}
	return src, nil
}

func TestImportMergesTopLevelDefinitions(t *testing.T) {
	loader := fakeLoader{
		"shapes.svgpt": "def tick() {\n  f 9\n}\n",
	}
	rec := turtle.NewRecorder()
	prog, mainIdx, diags := Parse("main.svgpt", "import \"shapes.svgpt\"\ntick\n", rec, loader)
	if diags.HasError() {
		t.Fatalf("unexpected diagnostics:\n%s", diags.String())
	}
	result := engine.NewEngine(prog).ExecuteMain(mainIdx, rec)
	if result.Err != nil {
		t.Fatalf("execution error: %v", result.Err)
	}
	want := []string{"f(9)"}
	if !equalCalls(rec.Calls, want) {
		t.Fatalf("Calls = %v, want %v", rec.Calls, want)
	}
}

func TestImportingSamePathTwiceDoesNotRedefine(t *testing.T) {
	loader := fakeLoader{
		"a.svgpt": "import \"shared.svgpt\"\n",
		"b.svgpt": "import \"shared.svgpt\"\n",
		"shared.svgpt": "def tick() {\n  f 1\n}\n",
	}
	_, _, diags := Parse("main.svgpt", "import \"a.svgpt\"\nimport \"b.svgpt\"\ntick\n", turtle.NewRecorder(), loader)
	if diags.HasError() {
		t.Fatalf("unexpected diagnostics:\n%s", diags.String())
	}
}

func TestStatementAtTopLevelOfImportedModuleIsDiagnosed(t *testing.T) {
	loader := fakeLoader{
		"bad.svgpt": "f 1\n",
	}
	_, _, diags := Parse("main.svgpt", "import \"bad.svgpt\"\n", turtle.NewRecorder(), loader)
	if !diags.HasError() {
		t.Fatalf("expected a diagnostic for a command at the top level of an imported module")
	}
}

func TestLambdaArgumentSignatureMismatchIsDiagnosed(t *testing.T) {
	diags := parseOnly(t, `
def run(g(v)) {
  g 5
}
def addBoth(x y) {
  f x
}
run addBoth
`)
	if !diags.HasError() {
		t.Fatalf("expected a diagnostic for passing addBoth(x y) where g(v) is expected")
	}
}

func equalCalls(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
