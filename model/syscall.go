package model

// MaxSyscallNum bounds the per-task syscall counter array.
const MaxSyscallNum = 500

// Syscall identifiers.
const (
	SyscallWrite       = 64
	SyscallExit        = 93
	SyscallYield       = 124
	SyscallSetPriority = 140
	SyscallGetTime     = 169
	SyscallGetPID      = 172
	SyscallSbrk        = 214
	SyscallMunmap      = 215
	SyscallMmap        = 222
	SyscallWaitPID     = 260
	SyscallSpawn       = 400
	SyscallTaskInfo    = 410
	SyscallHalt        = 480
)

var syscallNames = map[int]string{
	SyscallWrite:       "write",
	SyscallExit:        "exit",
	SyscallYield:       "yield",
	SyscallSetPriority: "set_priority",
	SyscallGetTime:     "get_time",
	SyscallGetPID:      "getpid",
	SyscallSbrk:        "sbrk",
	SyscallMunmap:      "munmap",
	SyscallMmap:        "mmap",
	SyscallWaitPID:     "waitpid",
	SyscallSpawn:       "spawn",
	SyscallTaskInfo:    "task_info",
	SyscallHalt:        "halt",
}

// SyscallName returns a printable syscall name, "unknown" for unsupported ids.
func SyscallName(id int) string {
	if name, ok := syscallNames[id]; ok {
		return name
	}
	return "unknown"
}

// Standard file descriptors understood by write.
const (
	FdStdin  = 0
	FdStdout = 1
)
