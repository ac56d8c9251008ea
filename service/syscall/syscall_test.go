package syscall

import (
	"bytes"
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/taskos/internal/clock"
	"github.com/viant/taskos/model"
	"github.com/viant/taskos/progress"
	"github.com/viant/taskos/runtime/trap"
	"github.com/viant/taskos/service/lifecycle"
	"github.com/viant/taskos/service/loader"
	"github.com/viant/taskos/service/mm/memset"
	"github.com/viant/taskos/service/processor"
	"github.com/viant/taskos/service/scheduler"
	"github.com/viant/taskos/user"
)

type machine struct {
	proc    *processor.Service
	tasks   *lifecycle.Service
	apps    *loader.Service
	sys     *Service
	console *bytes.Buffer
}

func newMachine(t *testing.T, options ...Option) *machine {
	frames := memset.NewFrames(memset.Config{Frames: 512})
	sched := scheduler.New()
	proc := processor.New(sched)
	launcher := trap.NewLauncher()
	tasks, err := lifecycle.New(sched, launcher.Launch, lifecycle.WithBuilder(memset.NewBuilder(frames)))
	require.NoError(t, err)
	apps := loader.New()
	console := new(bytes.Buffer)
	options = append([]Option{WithConsole(console)}, options...)
	sys := New(proc, sched, tasks, apps, options...)
	launcher.Bind(context.Background(), sys)
	return &machine{proc: proc, tasks: tasks, apps: apps, sys: sys, console: console}
}

// run boots program as init and runs the hart until init halts.
func (m *machine) run(t *testing.T, program user.Program) {
	m.apps.Register("init", func(env user.Env) int {
		program(env)
		user.Halt(env)
		return 0
	}, nil)
	image, err := m.apps.AppDataByName("init")
	require.NoError(t, err)
	_, err = m.tasks.Boot(context.Background(), image)
	require.NoError(t, err)
	require.NoError(t, m.proc.RunTasks(context.Background()))
}

func TestService_Mmap(t *testing.T) {
	const base = uint64(0x10000000)
	const rw = model.ProtRead | model.ProtWrite
	testCases := []struct {
		name   string
		start  uint64
		length uint64
		prot   uint64
		expect int64
	}{
		{name: "misaligned start", start: base + 1, length: model.PageSize, prot: rw, expect: -1},
		{name: "zero length", start: base, length: 0, prot: rw, expect: -1},
		{name: "no permission", start: base, length: model.PageSize, prot: 0, expect: -1},
		{name: "unknown prot bits", start: base, length: model.PageSize, prot: 0x8 | rw, expect: -1},
		{name: "wraps around", start: model.PageFloor(math.MaxUint64), length: 2 * model.PageSize, prot: rw, expect: -1},
		{name: "valid", start: base, length: model.PageSize, prot: rw, expect: 0},
		{name: "partial page", start: base + 4*model.PageSize, length: 10, prot: model.ProtRead, expect: 0},
		{name: "more than free frames", start: base, length: 1 << 40, prot: rw, expect: -1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := newMachine(t)
			var ret int64
			m.run(t, func(env user.Env) int {
				ret = user.Mmap(env, tc.start, tc.length, tc.prot)
				return 0
			})
			assert.Equal(t, tc.expect, ret)
		})
	}
}

func TestService_MmapMunmap(t *testing.T) {
	const base = uint64(0x10000000)
	m := newMachine(t)
	results := map[string]int64{}
	var storeErr, afterErr error
	var loaded []byte
	m.run(t, func(env user.Env) int {
		results["map"] = user.Mmap(env, base, 2*model.PageSize, model.ProtRead|model.ProtWrite)
		results["overlap"] = user.Mmap(env, base+model.PageSize, model.PageSize, model.ProtRead)
		storeErr = env.Store(base+model.PageSize-2, []byte("span"))
		loaded, _ = env.Load(base+model.PageSize-2, 4)
		results["partial unmap"] = user.Munmap(env, base, model.PageSize)
		results["unmap"] = user.Munmap(env, base, 2*model.PageSize)
		results["unmap twice"] = user.Munmap(env, base, 2*model.PageSize)
		results["unmap misaligned"] = user.Munmap(env, base+1, model.PageSize)
		afterErr = env.Store(base, []byte("x"))
		return 0
	})
	assert.Equal(t, map[string]int64{
		"map":              0,
		"overlap":          -1,
		"partial unmap":    -1,
		"unmap":            0,
		"unmap twice":      -1,
		"unmap misaligned": -1,
	}, results)
	assert.NoError(t, storeErr)
	assert.Equal(t, []byte("span"), loaded)
	assert.Error(t, afterErr)
}

func TestService_Sbrk(t *testing.T) {
	m := newMachine(t)
	var bottom, huge, grown, shrunkTooFar, shrunk, brk int64
	var storeErr error
	m.run(t, func(env user.Env) int {
		bottom = user.Sbrk(env, 0)
		huge = user.Sbrk(env, 1<<40)
		grown = user.Sbrk(env, model.PageSize)
		storeErr = env.Store(uint64(bottom), []byte("heap"))
		shrunkTooFar = user.Sbrk(env, -2*model.PageSize)
		shrunk = user.Sbrk(env, -model.PageSize)
		brk = user.Sbrk(env, 0)
		return 0
	})
	assert.Greater(t, bottom, int64(0))
	assert.EqualValues(t, -1, huge)
	assert.Equal(t, bottom, grown)
	assert.NoError(t, storeErr)
	assert.EqualValues(t, -1, shrunkTooFar)
	assert.Equal(t, bottom+model.PageSize, shrunk)
	assert.Equal(t, bottom, brk)
}

func TestService_Process(t *testing.T) {
	m := newMachine(t)
	m.apps.Register("child", func(env user.Env) int {
		if user.Halt(env) != -1 {
			return 1
		}
		return int(user.GetPID(env)) + 40
	}, nil)
	results := map[string]int64{}
	var code int
	m.run(t, func(env user.Env) int {
		results["getpid"] = user.GetPID(env)
		results["priority too low"] = user.SetPriority(env, 1)
		results["priority"] = user.SetPriority(env, 5)
		results["spawn missing"] = user.Spawn(env, "missing")
		results["spawn"] = user.Spawn(env, "child")
		results["wait other"], _ = user.WaitPID(env, 99)
		var pid int64
		pid, code = user.WaitPID(env, results["spawn"])
		results["wait"] = pid
		results["wait again"], _ = user.Wait(env)
		return 0
	})
	assert.Equal(t, map[string]int64{
		"getpid":           0,
		"priority too low": -1,
		"priority":         5,
		"spawn missing":    -1,
		"spawn":            1,
		"wait other":       -1,
		"wait":             1,
		"wait again":       -1,
	}, results)
	assert.Equal(t, 41, code)
	live, err := m.tasks.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, live, 1)
}

func TestService_WaitPIDBadPointer(t *testing.T) {
	m := newMachine(t)
	m.apps.Register("child", func(env user.Env) int {
		return 7
	}, nil)
	results := map[string]int64{}
	var code int
	m.run(t, func(env user.Env) int {
		pid := user.Spawn(env, "child")
		user.Yield(env)
		user.Yield(env)
		results["read-only status"] = env.Syscall(model.SyscallWaitPID, uint64(pid), model.TextBase, 0)
		results["unmapped status"] = env.Syscall(model.SyscallWaitPID, uint64(pid), 0x7000_0000, 0)
		results["wait"], code = user.WaitPID(env, pid)
		return 0
	})
	assert.Equal(t, map[string]int64{
		"read-only status": -1,
		"unmapped status":  -1,
		"wait":             1,
	}, results)
	assert.Equal(t, 7, code)
}

func TestService_Info(t *testing.T) {
	boot := time.Unix(1000, 0)
	now := boot.Add(1500 * time.Millisecond)
	clock.NowFunc = func() time.Time { return now }
	defer func() { clock.NowFunc = time.Now }()

	tracker := progress.New("boot", boot, nil)
	m := newMachine(t, WithBootTime(boot), WithProgress(tracker))
	var ms, stderr int64
	var info *model.TaskInfo
	var ret int64
	m.run(t, func(env user.Env) int {
		user.Printf(env, "hello %d", 7)
		stderr = user.Write(env, 2, []byte("x"))
		ms = user.GetTime(env)
		info, ret = user.TaskInfo(env)
		return 0
	})
	assert.Equal(t, "hello 7", m.console.String())
	assert.EqualValues(t, -1, stderr)
	assert.EqualValues(t, 1500, ms)
	require.EqualValues(t, 0, ret)
	require.NotNil(t, info)
	assert.Equal(t, model.TaskStatusRunning.Code(), info.Status)
	assert.EqualValues(t, 2, info.SyscallTimes[model.SyscallWrite])
	assert.EqualValues(t, 1, info.SyscallTimes[model.SyscallGetTime])
	assert.EqualValues(t, 1, info.SyscallTimes[model.SyscallTaskInfo])
	assert.EqualValues(t, 0, info.SyscallTimes[model.SyscallYield])
	assert.EqualValues(t, 1500, info.Time)
	// write x2, get_time, task_info, halt
	assert.Equal(t, 5, tracker.Snapshot().Syscalls)
}

func TestService_Dispatch(t *testing.T) {
	m := newMachine(t)
	assert.Panics(t, func() { m.sys.Dispatch(context.Background(), model.SyscallGetPID, [3]uint64{}) })

	var unknown, outOfRange int64
	m.run(t, func(env user.Env) int {
		unknown = env.Syscall(7, 0, 0, 0)
		outOfRange = env.Syscall(model.MaxSyscallNum+1, 0, 0, 0)
		return 0
	})
	assert.EqualValues(t, -1, unknown)
	assert.EqualValues(t, -1, outOfRange)
}
