package syscall

import (
	"context"
	"log"

	"github.com/viant/taskos/model"
	"github.com/viant/taskos/policy"
	"github.com/viant/taskos/runtime/task"
	"github.com/viant/taskos/service/event"
	"github.com/viant/taskos/service/mm"
)

// maxPathLen bounds the program name spawn reads from user memory.
const maxPathLen = 256

func (s *Service) exit(ctx context.Context, t *task.ControlBlock, args [3]uint64) int64 {
	code := int(int32(args[0]))
	current := s.processor.TakeCurrent()
	s.lifecycle.Exit(ctx, current, code)
	s.processor.Exit()
	return 0
}

func (s *Service) yield(_ context.Context, _ *task.ControlBlock, _ [3]uint64) int64 {
	s.Suspend()
	return 0
}

func (s *Service) getPID(_ context.Context, t *task.ControlBlock, _ [3]uint64) int64 {
	return int64(t.PID)
}

func (s *Service) setPriority(_ context.Context, t *task.ControlBlock, args [3]uint64) int64 {
	priority := int64(args[0])
	if !policy.ValidPriority(priority) {
		return -1
	}
	t.SetPriority(uint64(priority), s.scheduler.Policy())
	return priority
}

func (s *Service) spawn(ctx context.Context, t *task.ControlBlock, args [3]uint64) int64 {
	name, err := mm.ReadString(t.Space(), args[0], maxPathLen)
	if err != nil {
		return -1
	}
	image, err := s.loader.AppDataByName(name)
	if err != nil {
		return -1
	}
	child, err := s.lifecycle.Spawn(ctx, image, t)
	if err != nil {
		log.Printf("syscall: task %d: failed to spawn %v: %v", t.PID, name, err)
		return -1
	}
	return int64(child.PID)
}

func (s *Service) waitPID(ctx context.Context, t *task.ControlBlock, args [3]uint64) int64 {
	ptr := args[1]
	if ptr != 0 {
		// a child is only reaped once its exit code can be stored
		if _, err := t.Space().Translate(ptr, 4, model.PermU|model.PermW); err != nil {
			return -1
		}
	}
	pid, code := s.lifecycle.Reap(ctx, t, int(int64(args[0])))
	if pid < 0 {
		return int64(pid)
	}
	if ptr != 0 {
		if err := mm.WriteBytes(t.Space(), ptr, model.Encode(int32(code))); err != nil {
			log.Printf("syscall: task %d: failed to store exit code of %d: %v", t.PID, pid, err)
		}
	}
	return int64(pid)
}

func (s *Service) halt(ctx context.Context, t *task.ControlBlock, _ [3]uint64) int64 {
	if t != s.lifecycle.Init() {
		return -1
	}
	s.processor.Halt()
	info := t.Info()
	if err := event.Emit(ctx, s.events, event.TypeHalted, t.PID, info.ParentPID, t.Name, info); err != nil {
		log.Printf("syscall: failed to publish halt: %v", err)
	}
	s.Suspend()
	return 0
}
