package event

import (
	"time"

	"github.com/viant/taskos/internal/clock"
)

// Event types emitted by the kernel.
const (
	TypeTaskCreated = "task.created"
	TypeTaskExited  = "task.exited"
	TypeTaskReaped  = "task.reaped"
	TypeHalted      = "kernel.halted"
)

// Context identifies what an event is about.
type Context struct {
	BootID    string `json:"bootID"`
	PID       int    `json:"pid"`
	ParentPID int    `json:"parentPid"`
	EventType string `json:"eventType"`
	Name      string `json:"name,omitempty"`
}

// Event carries a typed payload.
type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
