package user

import (
	"fmt"

	"github.com/viant/taskos/model"
)

// Write writes data to fd and returns the number of bytes written or -1.
func Write(env Env, fd int, data []byte) int64 {
	var written int64
	for len(data) > 0 {
		chunk := data
		if len(chunk) > model.PageSize {
			chunk = chunk[:model.PageSize]
		}
		if err := env.Store(env.Scratch(), chunk); err != nil {
			return -1
		}
		ret := env.Syscall(model.SyscallWrite, uint64(fd), env.Scratch(), uint64(len(chunk)))
		if ret < 0 {
			return ret
		}
		written += ret
		data = data[len(chunk):]
	}
	return written
}

// Printf formats to standard output.
func Printf(env Env, format string, args ...interface{}) {
	Write(env, model.FdStdout, []byte(fmt.Sprintf(format, args...)))
}

// Exit terminates the calling task; it does not return.
func Exit(env Env, code int) {
	env.Syscall(model.SyscallExit, uint64(int64(code)), 0, 0)
	panic("user: exit returned")
}

// Yield gives up the processor.
func Yield(env Env) int64 {
	return env.Syscall(model.SyscallYield, 0, 0, 0)
}

// GetTime returns milliseconds since boot, or -1.
func GetTime(env Env) int64 {
	var tv model.TimeVal
	if ret := env.Syscall(model.SyscallGetTime, env.Scratch(), 0, 0); ret != 0 {
		return -1
	}
	if err := load(env, &tv); err != nil {
		return -1
	}
	return int64(tv.Sec*1000 + tv.Usec/1000)
}

// GetPID returns the caller's pid.
func GetPID(env Env) int64 {
	return env.Syscall(model.SyscallGetPID, 0, 0, 0)
}

// Sbrk moves the program break by delta and returns the previous break, or -1.
func Sbrk(env Env, delta int64) int64 {
	return env.Syscall(model.SyscallSbrk, uint64(delta), 0, 0)
}

// Mmap maps [start, start+length) with prot; 0 on success, -1 on failure.
func Mmap(env Env, start, length, prot uint64) int64 {
	return env.Syscall(model.SyscallMmap, start, length, prot)
}

// Munmap unmaps [start, start+length); 0 on success, -1 on failure.
func Munmap(env Env, start, length uint64) int64 {
	return env.Syscall(model.SyscallMunmap, start, length, 0)
}

// SetPriority sets the caller's priority and returns it, or -1.
func SetPriority(env Env, priority int64) int64 {
	return env.Syscall(model.SyscallSetPriority, uint64(priority), 0, 0)
}

// Spawn starts the named program as a child and returns its pid, or -1.
func Spawn(env Env, name string) int64 {
	path := append([]byte(name), 0)
	if len(path) > model.PageSize {
		return -1
	}
	if err := env.Store(env.Scratch(), path); err != nil {
		return -1
	}
	return env.Syscall(model.SyscallSpawn, env.Scratch(), 0, 0)
}

// WaitPID waits for child pid (-1 for any) to exit, yielding while it runs.
// It returns the reaped pid and its exit code, or -1 when there is no such child.
func WaitPID(env Env, pid int64) (int64, int) {
	for {
		ret := env.Syscall(model.SyscallWaitPID, uint64(pid), env.Scratch(), 0)
		switch ret {
		case -2:
			Yield(env)
			continue
		case -1:
			return -1, 0
		}
		var code int32
		if err := load(env, &code); err != nil {
			return ret, 0
		}
		return ret, int(code)
	}
}

// Wait waits for any child.
func Wait(env Env) (int64, int) {
	return WaitPID(env, -1)
}

// TaskInfo returns the caller's status, syscall counters and run time.
func TaskInfo(env Env) (*model.TaskInfo, int64) {
	if ret := env.Syscall(model.SyscallTaskInfo, env.Scratch(), 0, 0); ret != 0 {
		return nil, ret
	}
	info := &model.TaskInfo{}
	if err := load(env, info); err != nil {
		return nil, -1
	}
	return info, 0
}

// Halt asks the kernel to stop; only init may do so.
func Halt(env Env) int64 {
	return env.Syscall(model.SyscallHalt, 0, 0, 0)
}

func load(env Env, target interface{}) error {
	data, err := env.Load(env.Scratch(), uint64(model.SizeOf(target)))
	if err != nil {
		return err
	}
	return model.Decode(data, target)
}
