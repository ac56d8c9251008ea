package memory

import (
	"github.com/viant/taskos/runtime/task"
	"github.com/viant/taskos/service/dao"
	"github.com/viant/taskos/service/dao/criteria"
	"github.com/viant/taskos/service/dao/store"
)

// Service is the in-memory process table keyed by pid.
type Service struct {
	*store.MemoryStore[int, task.ControlBlock]
}

var _ dao.Service[int, task.ControlBlock] = (*Service)(nil)

// New creates an empty process table.
func New() *Service {
	return &Service{MemoryStore: store.NewMemoryStore[int, task.ControlBlock](
		func(t *task.ControlBlock) int { return t.PID },
		func(t *task.ControlBlock, parameters []*dao.Parameter) bool {
			return criteria.FilterByStatus(string(t.Status()), parameters)
		},
	)}
}
