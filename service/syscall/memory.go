package syscall

import (
	"context"

	"github.com/viant/taskos/model"
	"github.com/viant/taskos/runtime/task"
)

func (s *Service) mmap(_ context.Context, t *task.ControlBlock, args [3]uint64) int64 {
	start, length, prot := args[0], args[1], args[2]
	if !model.IsPageAligned(start) || length == 0 {
		return -1
	}
	perm, ok := model.PermissionFromProt(prot)
	if !ok {
		return -1
	}
	end, ok := userEnd(start, length)
	if !ok {
		return -1
	}
	space := t.Space()
	if space.IsConflict(start, end) || !space.CanMap(start, end) {
		return -1
	}
	space.InsertFramedArea(start, end, perm)
	return 0
}

func (s *Service) munmap(_ context.Context, t *task.ControlBlock, args [3]uint64) int64 {
	start, length := args[0], args[1]
	if !model.IsPageAligned(start) || length == 0 {
		return -1
	}
	end, ok := userEnd(start, length)
	if !ok {
		return -1
	}
	if !t.Space().RecycleMapArea(start, end) {
		return -1
	}
	return 0
}

func (s *Service) sbrk(_ context.Context, t *task.ControlBlock, args [3]uint64) int64 {
	old, ok := t.ChangeProgramBrk(int64(args[0]))
	if !ok {
		return -1
	}
	return int64(old)
}

// userEnd returns the page-rounded end of [start, start+length) when it does
// not wrap around the address space.
func userEnd(start, length uint64) (uint64, bool) {
	end := start + length
	if end < start || model.PageCeil(end) < end {
		return 0, false
	}
	return model.PageCeil(end), true
}
