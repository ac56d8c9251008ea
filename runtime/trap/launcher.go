package trap

import (
	"context"

	"github.com/viant/taskos/runtime/task"
	"github.com/viant/taskos/service/loader"
	"github.com/viant/taskos/user"
)

// Launcher builds the first continuation of every task. The handler is bound
// after construction since the syscall layer depends on the task lifecycle
// that needs the launcher.
type Launcher struct {
	ctx     context.Context
	handler Handler
}

// NewLauncher creates an unbound launcher.
func NewLauncher() *Launcher {
	return &Launcher{ctx: context.Background()}
}

// Bind sets the handler tasks trap into and the context syscalls run with.
func (l *Launcher) Bind(ctx context.Context, handler Handler) {
	l.ctx = ctx
	l.handler = handler
}

// Launch returns the continuation running image as t. A program that returns
// exits with its return value.
func (l *Launcher) Launch(t *task.ControlBlock, image *loader.Image) func() {
	return func() {
		env := NewEnv(l.ctx, t, l.handler)
		code := image.Entry(env)
		user.Exit(env, code)
	}
}
