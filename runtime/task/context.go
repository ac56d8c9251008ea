package task

// Context is the saved kernel-mode execution state of a suspended flow of
// control: the callee-saved registers plus the continuation that resumes it.
// On the goroutine platform the live register file stays on the parked
// goroutine's stack, so RA and S are left zero and SP records the kernel
// stack top the flow owns.
type Context struct {
	RA uint64
	SP uint64
	S  [12]uint64

	entry   func()
	started bool
	resume  chan struct{}
}

// NewIdleContext returns the context of a flow that is already executing,
// such as the processor's idle loop.
func NewIdleContext() *Context {
	return &Context{started: true, resume: make(chan struct{}, 1)}
}

// NewContext returns a context that runs entry on its first resumption.
func NewContext(sp uint64, entry func()) *Context {
	return &Context{SP: sp, entry: entry, resume: make(chan struct{}, 1)}
}

// Started reports whether the context has ever been resumed.
func (c *Context) Started() bool {
	return c.started
}

// Switcher transfers control between saved contexts.
type Switcher interface {
	// Switch saves the caller into save and resumes next. It returns when
	// some later switch resumes save.
	Switch(save, next *Context)
	// Exit resumes next and discards the caller; it never returns.
	Exit(next *Context)
}
