package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/taskos/model"
)

const scratch = 0x1000

type call struct {
	id   int
	args [3]uint64
}

type fakeEnv struct {
	memory  []byte
	calls   []call
	handler func(env *fakeEnv, id int, args [3]uint64) int64
}

func newFakeEnv(handler func(env *fakeEnv, id int, args [3]uint64) int64) *fakeEnv {
	return &fakeEnv{memory: make([]byte, 2*model.PageSize), handler: handler}
}

func (f *fakeEnv) Syscall(id int, a0, a1, a2 uint64) int64 {
	args := [3]uint64{a0, a1, a2}
	f.calls = append(f.calls, call{id: id, args: args})
	return f.handler(f, id, args)
}

func (f *fakeEnv) Load(ptr, n uint64) ([]byte, error) {
	return append([]byte(nil), f.memory[ptr:ptr+n]...), nil
}

func (f *fakeEnv) Store(ptr uint64, data []byte) error {
	copy(f.memory[ptr:], data)
	return nil
}

func (f *fakeEnv) Scratch() uint64 {
	return scratch
}

func TestWrite(t *testing.T) {
	var out []byte
	env := newFakeEnv(func(env *fakeEnv, id int, args [3]uint64) int64 {
		data, _ := env.Load(args[1], args[2])
		out = append(out, data...)
		return int64(args[2])
	})
	payload := make([]byte, model.PageSize+10)
	for i := range payload {
		payload[i] = byte('a' + i%26)
	}
	assert.EqualValues(t, len(payload), Write(env, model.FdStdout, payload))
	assert.Equal(t, payload, out)
	assert.Len(t, env.calls, 2)

	failing := newFakeEnv(func(*fakeEnv, int, [3]uint64) int64 { return -1 })
	assert.EqualValues(t, -1, Write(failing, 3, []byte("x")))
}

func TestGetTime(t *testing.T) {
	env := newFakeEnv(func(env *fakeEnv, id int, args [3]uint64) int64 {
		require.Equal(t, model.SyscallGetTime, id)
		_ = env.Store(args[0], model.Encode(model.TimeVal{Sec: 2, Usec: 500_000}))
		return 0
	})
	assert.EqualValues(t, 2500, GetTime(env))
}

func TestWaitPID(t *testing.T) {
	attempts := 0
	env := newFakeEnv(func(env *fakeEnv, id int, args [3]uint64) int64 {
		switch id {
		case model.SyscallYield:
			return 0
		case model.SyscallWaitPID:
			attempts++
			if attempts < 3 {
				return -2
			}
			_ = env.Store(args[1], model.Encode(int32(-7)))
			return 4
		}
		return -1
	})
	pid, code := Wait(env)
	assert.EqualValues(t, 4, pid)
	assert.Equal(t, -7, code)
	assert.Equal(t, 3, attempts)
	assert.Len(t, env.calls, 5)
}

func TestSpawnAndTaskInfo(t *testing.T) {
	env := newFakeEnv(func(env *fakeEnv, id int, args [3]uint64) int64 {
		switch id {
		case model.SyscallSpawn:
			data, _ := env.Load(args[0], 6)
			assert.Equal(t, []byte("hello\x00"), data)
			return 2
		case model.SyscallTaskInfo:
			info := model.TaskInfo{Status: model.TaskStatusRunning.Code(), Time: 12}
			info.SyscallTimes[model.SyscallTaskInfo] = 1
			_ = env.Store(args[0], model.Encode(info))
			return 0
		}
		return -1
	})
	assert.EqualValues(t, 2, Spawn(env, "hello"))
	info, ret := TaskInfo(env)
	require.EqualValues(t, 0, ret)
	assert.Equal(t, model.TaskStatusRunning, model.TaskStatusOf(info.Status))
	assert.EqualValues(t, 1, info.SyscallTimes[model.SyscallTaskInfo])
	assert.EqualValues(t, 12, info.Time)
}

func TestPassThrough(t *testing.T) {
	env := newFakeEnv(func(_ *fakeEnv, id int, args [3]uint64) int64 { return int64(id) })
	testCases := []struct {
		name   string
		call   func() int64
		expect call
	}{
		{name: "mmap", call: func() int64 { return Mmap(env, 0x1000, 0x2000, 3) }, expect: call{id: model.SyscallMmap, args: [3]uint64{0x1000, 0x2000, 3}}},
		{name: "munmap", call: func() int64 { return Munmap(env, 0x1000, 0x2000) }, expect: call{id: model.SyscallMunmap, args: [3]uint64{0x1000, 0x2000, 0}}},
		{name: "sbrk", call: func() int64 { return Sbrk(env, -4096) }, expect: call{id: model.SyscallSbrk, args: [3]uint64{uint64(0xfffffffffffff000), 0, 0}}},
		{name: "set priority", call: func() int64 { return SetPriority(env, 8) }, expect: call{id: model.SyscallSetPriority, args: [3]uint64{8, 0, 0}}},
		{name: "getpid", call: func() int64 { return GetPID(env) }, expect: call{id: model.SyscallGetPID}},
		{name: "halt", call: func() int64 { return Halt(env) }, expect: call{id: model.SyscallHalt}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.EqualValues(t, tc.expect.id, tc.call())
			assert.Equal(t, tc.expect, env.calls[len(env.calls)-1])
		})
	}
}
