package engine

// runClosureSetup pushes the closure-position word onto Locals
// (available to the callee at offset -1) and copies target's own
// captured values, if any, into a fresh frame at the top of Captures,
// ready for PushFrameSized. closurePos, the absolute index into
// Captures where the values currently live, is resolved by getPos.
// Called for every user-function call, closures and plain functions
// alike: a plain function has CaptureSize 0, so the copy loop below
// simply does nothing, and the pushed position is never used to read
// captures.
func runClosureSetup(rt *Runtime, target *Chunk, getPos func(rt *Runtime) float64) {
	pos := getPos(rt)
	rt.Locals.Push(pos)
	for k := 0; k < target.CaptureSize; k++ {
		rt.Captures.Push(rt.Captures.ReadGlobal(int(pos) + k))
	}
}

// invoke runs target with argsSize value-argument slots already pushed
// onto Locals (and, if target is a closure, its captured values already
// copied to the top of Captures by runClosureSetup). It establishes the
// callee's frames, runs its statements, and unwinds everything on every
// return path, including an error return.
//
// A Captures frame is opened for every user-function call, not only
// closures: even a non-closure function may define nested closures and
// push capture anchors for them while it runs, and those anchors need
// to be unwound when it returns exactly like ordinary locals are. A
// non-closure callee simply receives zero captures, so the frame is
// sized zero and PopFrame drops whatever it grew to in the meantime.
func invoke(rt *Runtime, target *Chunk, argsSize int) error {
	rt.CallStack = append(rt.CallStack, target.Name)

	rt.Locals.PushFrameSized(argsSize, target.ParamsSize)
	rt.Captures.PushFrameSized(target.CaptureSize, target.CaptureSize)

	var runErr error
	for _, stmt := range target.Stmts {
		if err := stmt(rt); err != nil {
			runErr = err
			break
		}
	}
	if runErr != nil && rt.Backtrace == nil {
		rt.Backtrace = append([]string(nil), rt.CallStack...)
	}
	rt.Locals.PopFrame()
	rt.Captures.PopFrame()
	rt.CallStack = rt.CallStack[:len(rt.CallStack)-1]
	if runErr != nil {
		return runErr
	}
	return rt.CheckOverflow()
}

// CompileStartFnCall emits the "push closure position" half of a direct
// call to fnIndex. Must be followed by compiling the call's arguments
// and then CompileCallFn.
//
// Whether to push a word at all is decided from fnIndex's chunk kind,
// not from whether it currently IsClosure(): a function's own
// self-recursive call sites are compiled while its body is still being
// built, before the parser has finished discovering everything it
// captures and called CreateClosure on it. Chunk kind never changes
// after PushUserChunk, so it is safe to decide on at compile time;
// ClosureOffset and CaptureSize are read back out of the chunk fresh at
// call time, by which point CreateClosure has long since run.
func (b *Builder) CompileStartFnCall(fnIndex int, selfRecursion bool) {
	prog := b.prog
	target := prog.Chunk(fnIndex)
	isUserFn := target.Kind == UserFunctionChunk
	b.pendingClosure = append(b.pendingClosure, isUserFn)
	if !isUserFn {
		return
	}
	b.compileLocals.Push(0)
	b.emit(func(rt *Runtime) error {
		target := prog.Chunk(fnIndex)
		runClosureSetup(rt, target, func(rt *Runtime) float64 {
			if selfRecursion {
				return rt.Locals.At(-1)
			}
			return float64(target.ClosureOffset + rt.Captures.FrameStart())
		})
		return nil
	})
}

// CompileCallFn emits the actual call to fnIndex, whose arguments (value
// and lambda parameters alike) have already been compiled onto Locals,
// totaling argsSize slots.
func (b *Builder) CompileCallFn(fnIndex, argsSize int) {
	closure := b.pendingClosure[len(b.pendingClosure)-1]
	b.pendingClosure = b.pendingClosure[:len(b.pendingClosure)-1]
	total := argsSize
	if closure {
		total++
	}
	b.compileLocals.Pop(total)

	prog := b.prog
	b.emit(func(rt *Runtime) error {
		err := invoke(rt, prog.Chunk(fnIndex), argsSize)
		// The closure-position word CompileStartFnCall pushed, if any,
		// lives just below the callee's own frame and survives the
		// callee's PopFrame untouched; it's the caller's to drop.
		if closure {
			rt.Locals.Pop(1)
		}
		return err
	})
}

// CompileStartLambdaCall emits the closure-position half of calling a
// lambda value stored at [domain, offset]: a two-word (chunk index,
// closure position) slot previously written by CompilePushLambda or
// CompilePushCopy. Must be followed by compiling arguments and then
// CompileCallLambdaFn.
func (b *Builder) CompileStartLambdaCall(domain Domain, offset int) {
	prog := b.prog
	b.pendingClosure = append(b.pendingClosure, true)
	b.compileLocals.Push(0)
	b.emit(func(rt *Runtime) error {
		pos := readLambdaSlot(rt, domain, offset)
		target := prog.Chunk(int(pos.chunkIndex))
		runClosureSetup(rt, target, func(rt *Runtime) float64 { return pos.closurePos })
		return nil
	})
}

// CompileCallLambdaFn emits the actual call through the lambda value
// stored at [domain, offset], fetching its chunk index dynamically.
func (b *Builder) CompileCallLambdaFn(domain Domain, offset, argsSize int) {
	b.pendingClosure = b.pendingClosure[:len(b.pendingClosure)-1]
	b.compileLocals.Pop(argsSize + 1)

	b.emit(func(rt *Runtime) error {
		pos := readLambdaSlot(rt, domain, offset)
		err := invoke(rt, rt.Program.Chunk(int(pos.chunkIndex)), argsSize)
		// A lambda call always pushes a closure-position word; it's
		// the caller's to drop once the callee's own frame is gone.
		rt.Locals.Pop(1)
		return err
	})
}

type lambdaSlot struct {
	chunkIndex float64
	closurePos float64
}

func readLambdaSlot(rt *Runtime, domain Domain, offset int) lambdaSlot {
	read := func(i int) float64 {
		switch domain {
		case DomainGlobal:
			return rt.Locals.ReadGlobal(i)
		case DomainCapture:
			return rt.Captures.At(i)
		default:
			return rt.Locals.At(i)
		}
	}
	return lambdaSlot{chunkIndex: read(offset), closurePos: read(offset + 1)}
}
