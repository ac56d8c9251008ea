package syscall

import (
	"context"

	"github.com/viant/taskos/model"
	"github.com/viant/taskos/runtime/task"
	"github.com/viant/taskos/service/mm"
)

func (s *Service) write(_ context.Context, t *task.ControlBlock, args [3]uint64) int64 {
	fd, buf, length := args[0], args[1], args[2]
	if fd != model.FdStdout {
		return -1
	}
	data, err := mm.ReadBytes(t.Space(), buf, length)
	if err != nil {
		return -1
	}
	n, err := s.console.Write(data)
	if err != nil {
		return -1
	}
	return int64(n)
}

func (s *Service) getTime(_ context.Context, t *task.ControlBlock, args [3]uint64) int64 {
	us := uint64(s.Elapsed().Microseconds())
	tv := model.TimeVal{Sec: us / 1_000_000, Usec: us % 1_000_000}
	if err := mm.WriteBytes(t.Space(), args[0], model.Encode(tv)); err != nil {
		return -1
	}
	return 0
}

func (s *Service) taskInfo(_ context.Context, t *task.ControlBlock, args [3]uint64) int64 {
	info := model.TaskInfo{Time: uint64(s.Elapsed().Milliseconds())}
	t.With(func(inner *task.Inner) {
		info.Status = inner.Status.Code()
		info.SyscallTimes = inner.SyscallTimes
	})
	if err := mm.WriteBytes(t.Space(), args[0], model.Encode(info)); err != nil {
		return -1
	}
	return 0
}
