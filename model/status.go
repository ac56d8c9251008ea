package model

// TaskStatus represents the life-cycle state of a task control block.
type TaskStatus string

const (
	// TaskStatusReady marks a task sitting in the ready queue.
	TaskStatusReady TaskStatus = "ready"
	// TaskStatusRunning marks the single task that owns the hart.
	TaskStatusRunning TaskStatus = "running"
	// TaskStatusZombie marks an exited task that has not been reaped yet.
	TaskStatusZombie TaskStatus = "zombie"
)

// Code returns the numeric value used when the status crosses the user boundary.
func (s TaskStatus) Code() uint64 {
	switch s {
	case TaskStatusReady:
		return 1
	case TaskStatusRunning:
		return 2
	case TaskStatusZombie:
		return 3
	}
	return 0
}

// TaskStatusOf maps a numeric status back to TaskStatus, empty when unknown.
func TaskStatusOf(code uint64) TaskStatus {
	switch code {
	case 1:
		return TaskStatusReady
	case 2:
		return TaskStatusRunning
	case 3:
		return TaskStatusZombie
	}
	return ""
}
