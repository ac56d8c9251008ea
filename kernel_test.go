package taskos

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/taskos/model"
	"github.com/viant/taskos/policy"
	"github.com/viant/taskos/service/dao/task/fs"
	"github.com/viant/taskos/service/event"
	"github.com/viant/taskos/service/loader"
	"github.com/viant/taskos/user"
)

// waitAll reaps every child of the caller and returns the pid/code pairs.
func waitAll(env user.Env) [][2]int {
	var reaped [][2]int
	for {
		pid, code := user.Wait(env)
		if pid < 0 {
			return reaped
		}
		reaped = append(reaped, [2]int{int(pid), code})
	}
}

func newKernel(t *testing.T, apps *loader.Service, options ...Option) (*Kernel, *bytes.Buffer) {
	console := new(bytes.Buffer)
	options = append([]Option{WithLoader(apps), WithConsole(console)}, options...)
	k, err := New(options...)
	require.NoError(t, err)
	return k, console
}

func TestKernel_Run(t *testing.T) {
	apps := loader.New()
	var reaped [][2]int
	apps.Register("init", func(env user.Env) int {
		user.Spawn(env, "worker")
		user.Spawn(env, "worker")
		reaped = waitAll(env)
		user.Printf(env, "init done\n")
		user.Halt(env)
		return 0
	}, nil)
	apps.Register("worker", func(env user.Env) int {
		pid := user.GetPID(env)
		user.Printf(env, "worker %d\n", pid)
		user.Yield(env)
		return int(pid) * 10
	}, nil)
	k, console := newKernel(t, apps)
	ctx := context.Background()
	require.NoError(t, k.Boot(ctx, "init"))
	require.NoError(t, k.Run(ctx))

	assert.Equal(t, "worker 1\nworker 2\ninit done\n", console.String())
	assert.Equal(t, [][2]int{{1, 10}, {2, 20}}, reaped)
	counters := k.Progress()
	assert.Equal(t, k.BootID(), counters.BootID)
	assert.Equal(t, 3, counters.CreatedTasks)
	assert.Equal(t, 2, counters.ExitedTasks)
	assert.Equal(t, 2, counters.ReapedTasks)
	assert.Equal(t, 1, counters.LiveTasks)

	tasks, err := k.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "init", tasks[0].Name)
	assert.Equal(t, model.TaskStatusReady, tasks[0].Status)
}

func TestKernel_Orphans(t *testing.T) {
	apps := loader.New()
	var reaped [][2]int
	apps.Register("init", func(env user.Env) int {
		user.Spawn(env, "parent")
		reaped = waitAll(env)
		user.Halt(env)
		return 0
	}, nil)
	apps.Register("parent", func(env user.Env) int {
		user.Spawn(env, "orphan")
		return 1
	}, nil)
	apps.Register("orphan", func(env user.Env) int {
		for i := 0; i < 3; i++ {
			user.Yield(env)
		}
		return 5
	}, nil)
	const journalURL = "mem://localhost/taskos/kernel/orphans"
	config := DefaultConfig()
	config.Journal.URL = journalURL
	k, _ := newKernel(t, apps, WithConfig(config))
	ctx := context.Background()
	require.NoError(t, k.Boot(ctx, "init"))
	require.NoError(t, k.Run(ctx))
	assert.Equal(t, [][2]int{{1, 1}, {2, 5}}, reaped)

	journal, err := fs.New(ctx, afs.New(), journalURL)
	require.NoError(t, err)
	orphan, err := journal.Load(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "orphan", orphan.Name)
	assert.Equal(t, 0, orphan.ParentPID)
	assert.Equal(t, model.TaskStatusZombie, orphan.Status)
	assert.Equal(t, 5, orphan.ExitCode)
}

func TestKernel_Stride(t *testing.T) {
	apps := loader.New()
	apps.Register("init", func(env user.Env) int {
		user.Spawn(env, "fast")
		user.Spawn(env, "slow")
		waitAll(env)
		user.Halt(env)
		return 0
	}, nil)
	worker := func(name string, priority int64) user.Program {
		return func(env user.Env) int {
			user.SetPriority(env, priority)
			for i := 0; i < 10; i++ {
				user.Yield(env)
			}
			user.Printf(env, "%v\n", name)
			return 0
		}
	}
	apps.Register("fast", worker("fast", 32), nil)
	apps.Register("slow", worker("slow", 2), nil)
	config := DefaultConfig()
	config.Policy.Mode = policy.ModeStride
	k, console := newKernel(t, apps, WithConfig(config))
	ctx := context.Background()
	require.NoError(t, k.Boot(ctx, "init"))
	require.NoError(t, k.Run(ctx))
	assert.Equal(t, "fast\nslow\n", console.String())
}

func TestKernel_Spawn(t *testing.T) {
	apps := loader.New()
	var reaped [][2]int
	apps.Register("init", func(env user.Env) int {
		reaped = waitAll(env)
		user.Halt(env)
		return 0
	}, nil)
	apps.Register("job", func(env user.Env) int { return 3 }, nil)
	k, _ := newKernel(t, apps)
	ctx := context.Background()

	_, err := k.Spawn(ctx, "job")
	assert.Error(t, err)
	assert.Error(t, k.Run(ctx))
	assert.ErrorIs(t, k.Boot(ctx, "missing"), loader.ErrNotFound)

	require.NoError(t, k.Boot(ctx, "init"))
	pid, err := k.Spawn(ctx, "job")
	require.NoError(t, err)
	assert.Equal(t, 1, pid)
	_, err = k.Spawn(ctx, "missing")
	assert.ErrorIs(t, err, loader.ErrNotFound)
	ready, err := k.Tasks(ctx, model.TaskStatusReady)
	require.NoError(t, err)
	assert.Len(t, ready, 2)

	require.NoError(t, k.Run(ctx))
	assert.Equal(t, [][2]int{{1, 3}}, reaped)
}

func TestKernel_InitExit(t *testing.T) {
	apps := loader.New()
	apps.Register("init", func(env user.Env) int { return 3 }, nil)
	k, _ := newKernel(t, apps)
	require.NoError(t, k.Boot(context.Background(), "init"))
	assert.Panics(t, func() { _ = k.Run(context.Background()) })
}

func TestKernel_Events(t *testing.T) {
	apps := loader.New()
	apps.Register("init", func(env user.Env) int {
		user.Spawn(env, "job")
		waitAll(env)
		user.Halt(env)
		return 0
	}, nil)
	apps.Register("job", func(env user.Env) int { return 0 }, nil)
	config := DefaultConfig()
	config.Events.Enabled = true
	k, _ := newKernel(t, apps, WithConfig(config))
	defer k.Close()

	var mux sync.Mutex
	var types []string
	require.NotNil(t, k.Events())
	k.Events().SetListener(func(e *event.Event[any]) {
		assert.Equal(t, k.BootID(), e.Context.BootID)
		mux.Lock()
		types = append(types, e.Context.EventType)
		mux.Unlock()
	})
	ctx := context.Background()
	require.NoError(t, k.Boot(ctx, "init"))
	require.NoError(t, k.Run(ctx))
	expect := []string{
		event.TypeTaskCreated,
		event.TypeTaskCreated,
		event.TypeTaskExited,
		event.TypeTaskReaped,
		event.TypeHalted,
	}
	assert.Eventually(t, func() bool {
		mux.Lock()
		defer mux.Unlock()
		return len(types) == len(expect)
	}, time.Second, 10*time.Millisecond)
	mux.Lock()
	defer mux.Unlock()
	assert.ElementsMatch(t, expect, types)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("TASKOS_MODE", "stride")
	fileService := afs.New()
	ctx := context.Background()
	testCases := []struct {
		name      string
		content   string
		expectErr bool
		check     func(t *testing.T, config *Config)
	}{
		{
			name: "overrides defaults",
			content: `policy:
  mode: ${env.TASKOS_MODE}
  bigStride: 1000
processor:
  timeSlice: 10ms
lifecycle:
  maxTasks: 8
journal:
  url: mem://localhost/journal
events:
  maxRetries: 1
  retryDelay: 5ms
  blocking: true
`,
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, policy.ModeStride, config.Policy.Mode)
				assert.EqualValues(t, 1000, config.Policy.BigStride)
				assert.EqualValues(t, policy.DefaultPriority, config.Policy.DefaultPriority)
				assert.Equal(t, 10*time.Millisecond, config.Processor.TimeSlice)
				assert.Equal(t, 8, config.Lifecycle.MaxTasks)
				assert.Equal(t, 4096, config.Memory.Frames)
				assert.Equal(t, "mem://localhost/journal", config.Journal.URL)
				queue := config.Events.QueueConfig()
				assert.Equal(t, 1, queue.MaxRetries)
				assert.Equal(t, 5*time.Millisecond, queue.RetryDelay)
				assert.True(t, queue.Blocking)
				assert.True(t, queue.DeadLetter)
				assert.Equal(t, 256, queue.QueueBuffer)
			},
		},
		{
			name:      "invalid mode",
			content:   "policy:\n  mode: lottery\n",
			expectErr: true,
		},
		{
			name:      "invalid priority",
			content:   "policy:\n  defaultPriority: 1\n",
			expectErr: true,
		},
		{
			name:      "malformed",
			content:   "policy: [",
			expectErr: true,
		},
	}
	for i, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			URL := "mem://localhost/taskos/config/" + strings.ReplaceAll(tc.name, " ", "_") + ".yaml"
			require.NoError(t, fileService.Upload(ctx, URL, file.DefaultFileOsMode, strings.NewReader(tc.content)), i)
			config, err := LoadConfig(ctx, URL)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tc.check(t, config)
		})
	}
	_, err := LoadConfig(ctx, "mem://localhost/taskos/config/missing.yaml")
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		mutate    func(c *Config)
		expectErr bool
	}{
		{name: "default", mutate: func(c *Config) {}},
		{name: "negative frames", mutate: func(c *Config) { c.Memory.Frames = -1 }, expectErr: true},
		{name: "negative max tasks", mutate: func(c *Config) { c.Lifecycle.MaxTasks = -1 }, expectErr: true},
		{name: "negative time slice", mutate: func(c *Config) { c.Processor.TimeSlice = -time.Second }, expectErr: true},
		{name: "events without buffer", mutate: func(c *Config) { c.Events = EventsConfig{Enabled: true} }, expectErr: true},
		{name: "negative retries", mutate: func(c *Config) { c.Events.MaxRetries = -1 }, expectErr: true},
		{name: "negative retry delay", mutate: func(c *Config) { c.Events.RetryDelay = -time.Millisecond }, expectErr: true},
		{name: "blocking events", mutate: func(c *Config) { c.Events.Enabled, c.Events.Blocking = true, true }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.mutate(config)
			err := config.Validate()
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			_, err = New(WithConfig(config))
			assert.NoError(t, err)
		})
	}
}
