package lox

type callFrame struct {
	Function string
	Pos      Position
}

func (exec *Execution) pushFrame(function string, pos Position) error {
	if exec.recursionCap > 0 && len(exec.callStack) >= exec.recursionCap {
		return exec.wrapError(errRecursionLimit(exec.recursionCap), pos)
	}
	exec.callStack = append(exec.callStack, callFrame{Function: function, Pos: pos})
	if trace := exec.engine.config.Trace; trace != nil {
		trace.Printf("%*senter %s (%s)", 2*(len(exec.callStack)-1), "", function, pos)
	}
	return nil
}

func (exec *Execution) popFrame() {
	if len(exec.callStack) == 0 {
		return
	}
	top := exec.callStack[len(exec.callStack)-1]
	exec.callStack = exec.callStack[:len(exec.callStack)-1]
	if trace := exec.engine.config.Trace; trace != nil {
		trace.Printf("%*sleave %s", 2*len(exec.callStack), "", top.Function)
	}
}

// Depth is the number of calls currently in progress.
func (exec *Execution) Depth() int { return len(exec.callStack) }
