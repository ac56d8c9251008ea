package trap

import (
	"context"

	"github.com/viant/taskos/runtime/task"
	"github.com/viant/taskos/service/mm"
	"github.com/viant/taskos/user"
)

// Handler serves trapped syscalls.
type Handler interface {
	// Dispatch runs syscall id for the current task.
	Dispatch(ctx context.Context, id int, args [3]uint64) int64
	// Preempt reports whether the current task used up its time slice.
	Preempt() bool
	// Suspend moves the current task back to the ready queue.
	Suspend()
}

// Env is the user environment of a single task.
type Env struct {
	ctx     context.Context
	task    *task.ControlBlock
	handler Handler
	scratch uint64
}

// NewEnv creates the environment t runs in.
func NewEnv(ctx context.Context, t *task.ControlBlock, handler Handler) *Env {
	env := &Env{ctx: ctx, task: t, handler: handler}
	t.With(func(inner *task.Inner) {
		env.scratch = inner.Layout.Scratch
	})
	return env
}

// Syscall implements user.Env
func (e *Env) Syscall(id int, a0, a1, a2 uint64) int64 {
	cx := e.task.TrapContext()
	cx.SetSyscall(id, [3]uint64{a0, a1, a2})
	// resume after ecall
	cx.Sepc += 4
	id, args := cx.SyscallArgs()
	ret := e.handler.Dispatch(e.ctx, id, args)
	cx.SetReturn(ret)
	if e.handler.Preempt() {
		e.handler.Suspend()
	}
	return cx.Return()
}

// Load implements user.Env
func (e *Env) Load(ptr, n uint64) ([]byte, error) {
	return mm.ReadBytes(e.task.Space(), ptr, n)
}

// Store implements user.Env
func (e *Env) Store(ptr uint64, data []byte) error {
	return mm.WriteBytes(e.task.Space(), ptr, data)
}

// Scratch implements user.Env
func (e *Env) Scratch() uint64 {
	return e.scratch
}

var _ user.Env = (*Env)(nil)
