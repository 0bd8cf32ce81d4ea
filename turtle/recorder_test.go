package turtle

import "testing"

func TestRecorderPenHeightNeverNegativeOnBalancedUpDown(t *testing.T) {
	r := NewRecorder()
	r.PenUp()
	r.PenDown()
	if r.HasPenHeightError() {
		t.Fatalf("HasPenHeightError() = true after balanced up/down")
	}
}

func TestRecorderPenHeightErrorLatchesOnFirstNegativeExcursion(t *testing.T) {
	r := NewRecorder()
	r.PenDown() // height goes to -1 with no matching up first
	if !r.HasPenHeightError() {
		t.Fatal("HasPenHeightError() = false, want true after an unmatched pen_down")
	}
	r.PenUp() // recovers to 0, but the excursion already happened
	if !r.HasPenHeightError() {
		t.Fatal("HasPenHeightError() should stay true once it has ever gone negative")
	}
}

func TestRecorderFormatsCallsPositionally(t *testing.T) {
	r := NewRecorder()
	r.Rotation(90)
	r.MoveRel(1, 2)
	r.CurveAbs(1, 2, 3, 4, 5, 6)

	want := []string{
		"rotation(90)",
		"m(1, 2)",
		"C(1, 2, 3, 4, 5, 6)",
	}
	if len(r.Calls) != len(want) {
		t.Fatalf("Calls = %v, want %v", r.Calls, want)
	}
	for i, w := range want {
		if r.Calls[i] != w {
			t.Fatalf("Calls[%d] = %q, want %q", i, r.Calls[i], w)
		}
	}
}
