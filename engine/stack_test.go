package engine

import (
	"errors"
	"testing"
)

func TestStackPushFrameSizedTruncatesExcessArgs(t *testing.T) {
	s := NewStack()
	s.Push(1)
	s.Push(2)
	s.Push(3)
	s.PushFrameSized(3, 1)
	if got := s.FrameSize(); got != 1 {
		t.Fatalf("FrameSize() = %d, want 1", got)
	}
	if got := s.At(0); got != 1 {
		t.Fatalf("At(0) = %v, want 1", got)
	}
}

func TestStackPushFrameSizedKeepsShortArgList(t *testing.T) {
	s := NewStack()
	s.Push(1)
	s.PushFrameSized(1, 3)
	if got := s.FrameSize(); got != 1 {
		t.Fatalf("FrameSize() = %d, want 1 (never grows to fill params)", got)
	}
}

func TestStackAtMinusOnePeeksBelowFrame(t *testing.T) {
	s := NewStack()
	s.Push(42)
	s.Push(7)
	s.PushFrameSized(1, 1)
	if got := s.At(-1); got != 42 {
		t.Fatalf("At(-1) = %v, want 42", got)
	}
}

func TestStackPopFrameRestoresNesting(t *testing.T) {
	s := NewStack()
	s.PushFrame()
	s.Push(1)
	s.Push(2)
	s.PushFrame()
	s.Push(3)
	if size := s.PopFrame(); size != 1 {
		t.Fatalf("PopFrame() = %d, want 1", size)
	}
	if got := s.FrameSize(); got != 2 {
		t.Fatalf("FrameSize() after inner pop = %d, want 2", got)
	}
	if size := s.PopFrame(); size != 2 {
		t.Fatalf("PopFrame() = %d, want 2", size)
	}
	if got := s.Size(); got != 0 {
		t.Fatalf("Size() after final pop = %d, want 0", got)
	}
}

func TestRuntimeCheckOverflow(t *testing.T) {
	rt := NewRuntime(NewProgram())
	for i := 0; i < MaxStackSlots; i++ {
		rt.Locals.Push(0)
	}
	if err := rt.CheckOverflow(); err != nil {
		t.Fatalf("CheckOverflow() at exactly the limit = %v, want nil", err)
	}
	rt.Locals.Push(0)
	var overflow StackOverflowError
	if err := rt.CheckOverflow(); !errors.As(err, &overflow) {
		t.Fatalf("CheckOverflow() past the limit = %v, want StackOverflowError", err)
	}
}
