package runtime

// LoopAction collects requests a handler makes of the UI loop outside the
// event channel. The loop owns it and lends it to one handler call at a time;
// handlers must not keep the pointer.
type LoopAction struct {
	render bool
}

// Render asks the loop for a render pass after the current input.
func (a *LoopAction) Render() {
	a.render = true
}

// RenderRequested reports whether Render was called since the last Reset.
func (a *LoopAction) RenderRequested() bool {
	return a.render
}

// Reset clears all requests. The loop calls it after acting on them.
func (a *LoopAction) Reset() {
	*a = LoopAction{}
}
