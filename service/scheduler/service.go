package scheduler

import (
	"fmt"

	"github.com/viant/taskos/model"
	"github.com/viant/taskos/policy"
	"github.com/viant/taskos/runtime/task"
)

// Service is the ready queue. It is only touched by the single running flow
// of control and therefore holds no lock.
type Service struct {
	policy policy.Config
	queue  []*task.ControlBlock
	queued map[*task.ControlBlock]bool
}

// New creates an empty ready queue.
func New(options ...Option) *Service {
	s := &Service{
		policy: policy.DefaultConfig(),
		queued: make(map[*task.ControlBlock]bool),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Policy returns the dispatch policy.
func (s *Service) Policy() policy.Config {
	return s.policy
}

// Add appends a Ready task to the queue.
func (s *Service) Add(t *task.ControlBlock) {
	if s.queued[t] {
		panic(fmt.Sprintf("scheduler: task %d is already queued", t.PID))
	}
	if status := t.Status(); status != model.TaskStatusReady {
		panic(fmt.Sprintf("scheduler: task %d is %v, expected %v", t.PID, status, model.TaskStatusReady))
	}
	s.queued[t] = true
	s.queue = append(s.queue, t)
}

// Fetch removes and returns the earliest enqueued task, nil when empty.
func (s *Service) Fetch() *task.ControlBlock {
	if len(s.queue) == 0 {
		return nil
	}
	return s.removeAt(0)
}

// FetchMinStride removes and returns the task with the smallest stride; ties
// go to the earliest enqueued.
func (s *Service) FetchMinStride() *task.ControlBlock {
	if len(s.queue) == 0 {
		return nil
	}
	index := 0
	minStride := s.queue[0].Stride()
	for i := 1; i < len(s.queue); i++ {
		if stride := s.queue[i].Stride(); stride < minStride {
			index, minStride = i, stride
		}
	}
	return s.removeAt(index)
}

// Next dispatches according to the configured mode.
func (s *Service) Next() *task.ControlBlock {
	if s.policy.IsStride() {
		return s.FetchMinStride()
	}
	return s.Fetch()
}

// Len returns the number of queued tasks.
func (s *Service) Len() int {
	return len(s.queue)
}

// Snapshot returns the queued pids in queue order.
func (s *Service) Snapshot() []int {
	pids := make([]int, len(s.queue))
	for i, t := range s.queue {
		pids[i] = t.PID
	}
	return pids
}

func (s *Service) removeAt(index int) *task.ControlBlock {
	t := s.queue[index]
	copy(s.queue[index:], s.queue[index+1:])
	s.queue[len(s.queue)-1] = nil
	s.queue = s.queue[:len(s.queue)-1]
	delete(s.queued, t)
	return t
}
