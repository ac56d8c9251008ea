package syscall

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/viant/taskos/internal/clock"
	"github.com/viant/taskos/model"
	"github.com/viant/taskos/progress"
	"github.com/viant/taskos/runtime/task"
	"github.com/viant/taskos/service/event"
	"github.com/viant/taskos/service/lifecycle"
	"github.com/viant/taskos/service/loader"
	"github.com/viant/taskos/service/processor"
	"github.com/viant/taskos/service/scheduler"
	"github.com/viant/taskos/tracing"
)

type handler func(ctx context.Context, t *task.ControlBlock, args [3]uint64) int64

// Service dispatches syscalls of the running task.
type Service struct {
	processor *processor.Service
	scheduler *scheduler.Service
	lifecycle *lifecycle.Service
	loader    *loader.Service
	progress  *progress.Progress
	events    *event.Service
	console   io.Writer
	bootTime  time.Time
	handlers  map[int]handler
}

// New creates the syscall service.
func New(proc *processor.Service, sched *scheduler.Service, tasks *lifecycle.Service, apps *loader.Service, options ...Option) *Service {
	s := &Service{
		processor: proc,
		scheduler: sched,
		lifecycle: tasks,
		loader:    apps,
		console:   os.Stdout,
		bootTime:  clock.Now(),
	}
	for _, opt := range options {
		opt(s)
	}
	s.handlers = map[int]handler{
		model.SyscallWrite:       s.write,
		model.SyscallExit:        s.exit,
		model.SyscallYield:       s.yield,
		model.SyscallSetPriority: s.setPriority,
		model.SyscallGetTime:     s.getTime,
		model.SyscallGetPID:      s.getPID,
		model.SyscallSbrk:        s.sbrk,
		model.SyscallMunmap:      s.munmap,
		model.SyscallMmap:        s.mmap,
		model.SyscallWaitPID:     s.waitPID,
		model.SyscallSpawn:       s.spawn,
		model.SyscallTaskInfo:    s.taskInfo,
		model.SyscallHalt:        s.halt,
	}
	return s
}

// Dispatch serves syscall id for the running task and returns its result.
// exit does not return.
func (s *Service) Dispatch(ctx context.Context, id int, args [3]uint64) int64 {
	current := s.processor.Current()
	if current == nil {
		panic("syscall: no running task")
	}
	current.IncrementSyscall(id)
	s.progress.Update(progress.Delta{Syscalls: 1})
	fn, ok := s.handlers[id]
	if !ok {
		log.Printf("syscall: task %d: unsupported syscall %d", current.PID, id)
		return -1
	}
	ctx, span := tracing.StartSpan(ctx, "syscall."+model.SyscallName(id), tracing.KindServer)
	span.WithInt("task.pid", int64(current.PID))
	defer tracing.EndSpan(span, nil)
	ret := fn(ctx, current, args)
	span.WithInt("syscall.ret", ret)
	return ret
}

// Suspend puts the running task back on the ready queue and switches to the
// idle loop; it returns when the task is dispatched again.
func (s *Service) Suspend() {
	current := s.processor.TakeCurrent()
	current.SetStatus(model.TaskStatusReady)
	s.scheduler.Add(current)
	s.processor.Schedule(current.TaskContext())
}

// Elapsed returns the time since boot.
func (s *Service) Elapsed() time.Duration {
	return clock.Now().Sub(s.bootTime)
}

// Preempt reports whether the running task used up its time slice.
func (s *Service) Preempt() bool {
	return s.processor.Preempt()
}
