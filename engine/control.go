package engine

import "github.com/svgpathturtle/svgpathturtle/ast"

// runLocalBlockOnce runs a local block's statements without pushing a
// frame, then unwinds exactly the locals and captures it produced.
func runLocalBlockOnce(rt *Runtime, block *Chunk) error {
	for _, stmt := range block.Stmts {
		if err := stmt(rt); err != nil {
			return err
		}
	}
	rt.Locals.Pop(block.UnwindLocals)
	rt.Captures.Pop(block.UnwindCaptures)
	return nil
}

// CompileIfStatement emits an if/else statement: evaluate cond, run
// thenIdx's block when truthy, else run elseIdx's block if elseIdx is
// nonzero (0 means "no else branch" since chunk index 0 is reserved).
func (b *Builder) CompileIfStatement(cond ast.Value, thenIdx, elseIdx int) {
	condFn := cond.AsFn()
	prog := b.prog
	b.emit(func(rt *Runtime) error {
		if truthyFloat(condFn()) {
			return runLocalBlockOnce(rt, prog.Chunk(thenIdx))
		}
		if elseIdx != 0 {
			return runLocalBlockOnce(rt, prog.Chunk(elseIdx))
		}
		return nil
	})
}

func truthyFloat(v float64) bool { return v != 0 }

// CompileBreakpoint emits a statement that invokes the debug sink with
// no other observable effect.
func (b *Builder) CompileBreakpoint(sink func()) {
	b.emit(func(rt *Runtime) error {
		if sink != nil {
			sink()
		}
		return nil
	})
}

// ForLoopSpec describes which of the three for-loop forms to compile:
// count-only (HasEnd=false), range-with-default-step (HasEnd=true,
// HasStep=false), or range-with-step (both true).
type ForLoopSpec struct {
	Start       ast.Value
	Step        ast.Value
	End         ast.Value
	HasStep     bool
	HasEnd      bool
	HasNamedVar bool
}

// CompileForLoop emits the loop driver statement for bodyIdx, a local
// block previously built with PushLocalBlockChunk(spec.HasNamedVar).
// Iteration bounds and direction follow the bit-exact rules: a bare
// count iterates 0..N-1; a two-point range steps by 1 (or -1) in
// whichever direction its endpoints imply; a three-point range steps by
// the given magnitude in that same implied direction.
func (b *Builder) CompileForLoop(spec ForLoopSpec, bodyIdx int) {
	startFn := spec.Start.AsFn()
	var stepFn, endFn ast.Fn
	if spec.HasStep {
		stepFn = spec.Step.AsFn()
	}
	if spec.HasEnd {
		endFn = spec.End.AsFn()
	}
	prog := b.prog
	hasVar := spec.HasNamedVar

	b.emit(func(rt *Runtime) error {
		body := prog.Chunk(bodyIdx)
		runIter := func(v float64) error {
			if hasVar {
				rt.Locals.Push(v)
			}
			if err := runLocalBlockOnce(rt, body); err != nil {
				return err
			}
			return rt.CheckOverflow()
		}

		start := startFn()
		switch {
		case !spec.HasEnd:
			n := int(start)
			for i := 0; i < n; i++ {
				if err := runIter(float64(i)); err != nil {
					return err
				}
			}
		case !spec.HasStep:
			end := endFn()
			if start <= end {
				for v := start; v <= end; v++ {
					if err := runIter(v); err != nil {
						return err
					}
				}
			} else {
				for v := start; v >= end; v-- {
					if err := runIter(v); err != nil {
						return err
					}
				}
			}
		default:
			end := endFn()
			step := stepFn()
			if step < 0 {
				step = -step
			}
			if start <= end {
				for v := start; v <= end; v += step {
					if err := runIter(v); err != nil {
						return err
					}
				}
			} else {
				for v := start; v >= end; v -= step {
					if err := runIter(v); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}
