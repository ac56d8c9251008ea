package taskos

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/viant/afs"
	"github.com/viant/taskos/internal/clock"
	"github.com/viant/taskos/internal/idgen"
	"github.com/viant/taskos/model"
	"github.com/viant/taskos/progress"
	"github.com/viant/taskos/runtime/task"
	"github.com/viant/taskos/runtime/trap"
	"github.com/viant/taskos/service/dao"
	"github.com/viant/taskos/service/dao/task/fs"
	"github.com/viant/taskos/service/event"
	"github.com/viant/taskos/service/lifecycle"
	"github.com/viant/taskos/service/loader"
	"github.com/viant/taskos/service/messaging"
	"github.com/viant/taskos/service/messaging/memory"
	"github.com/viant/taskos/service/mm"
	"github.com/viant/taskos/service/mm/memset"
	"github.com/viant/taskos/service/processor"
	"github.com/viant/taskos/service/scheduler"
	"github.com/viant/taskos/service/syscall"
	"github.com/viant/taskos/tracing"
)

// Kernel wires the task services of one hart together.
type Kernel struct {
	config     *Config
	bootID     string
	bootTime   time.Time
	console    io.Writer
	loader     *loader.Service
	builder    mm.Builder
	events     *event.Service
	ownEvents  bool
	journal    dao.Service[int, task.Info]
	onProgress func(progress.Progress)

	progress  *progress.Progress
	scheduler *scheduler.Service
	processor *processor.Service
	lifecycle *lifecycle.Service
	syscall   *syscall.Service
	launcher  *trap.Launcher
}

// New creates a kernel; call Boot then Run.
func New(options ...Option) (*Kernel, error) {
	k := &Kernel{
		bootID:   idgen.New(),
		bootTime: clock.Now(),
		console:  os.Stdout,
	}
	for _, opt := range options {
		opt(k)
	}
	if k.config == nil {
		k.config = DefaultConfig()
	}
	if err := k.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := k.ensureBaseSetup(context.Background()); err != nil {
		return nil, err
	}
	k.progress = progress.New(k.bootID, k.bootTime, k.onProgress)
	k.scheduler = scheduler.New(scheduler.WithPolicy(k.config.Policy))
	k.processor = processor.New(k.scheduler,
		processor.WithConfig(k.config.Processor),
		processor.WithProgress(k.progress))
	k.launcher = trap.NewLauncher()
	lifecycleOptions := []lifecycle.Option{
		lifecycle.WithConfig(k.config.Lifecycle),
		lifecycle.WithBuilder(k.builder),
		lifecycle.WithEventService(k.events),
		lifecycle.WithProgress(k.progress),
	}
	if k.journal != nil {
		lifecycleOptions = append(lifecycleOptions, lifecycle.WithJournal(k.journal))
	}
	var err error
	if k.lifecycle, err = lifecycle.New(k.scheduler, k.launcher.Launch, lifecycleOptions...); err != nil {
		return nil, err
	}
	k.syscall = syscall.New(k.processor, k.scheduler, k.lifecycle, k.loader,
		syscall.WithConsole(k.console),
		syscall.WithBootTime(k.bootTime),
		syscall.WithProgress(k.progress),
		syscall.WithEventService(k.events))
	k.launcher.Bind(context.Background(), k.syscall)
	return k, nil
}

func (k *Kernel) ensureBaseSetup(ctx context.Context) error {
	if k.loader == nil {
		k.loader = loader.New()
	}
	if k.config.Manifest != "" {
		if err := k.loader.LoadManifest(ctx, k.config.Manifest); err != nil {
			return err
		}
	}
	if k.builder == nil {
		k.builder = memset.NewBuilder(memset.NewFrames(k.config.Memory))
	}
	if k.events == nil && k.config.Events.Enabled {
		queue := k.config.Events.QueueConfig()
		events, err := event.New(messaging.VendorMemory,
			event.WithBootID(k.bootID),
			event.WithNewMemoryQueueConfig(func(string) memory.Config { return queue }))
		if err != nil {
			return fmt.Errorf("failed to create event service: %w", err)
		}
		k.events, k.ownEvents = events, true
	}
	if k.journal == nil && k.config.Journal.URL != "" {
		journal, err := fs.New(ctx, afs.New(), k.config.Journal.URL)
		if err != nil {
			return err
		}
		k.journal = journal
	}
	return nil
}

// BootID returns the identifier of this kernel instance.
func (k *Kernel) BootID() string {
	return k.bootID
}

// Loader returns the application table.
func (k *Kernel) Loader() *loader.Service {
	return k.loader
}

// Events returns the lifecycle event service, nil when events are disabled.
func (k *Kernel) Events() *event.Service {
	return k.events
}

// Boot creates init (pid 0) from the application called initName.
func (k *Kernel) Boot(ctx context.Context, initName string) error {
	image, err := k.loader.AppDataByName(initName)
	if err != nil {
		return err
	}
	initTask, err := k.lifecycle.Boot(ctx, image)
	if err != nil {
		return err
	}
	log.Printf("kernel: %v booted %v as pid %d", k.bootID, initName, initTask.PID)
	return nil
}

// Spawn starts the application called name as a child of init and returns
// its pid. It must not be called while Run is in progress.
func (k *Kernel) Spawn(ctx context.Context, name string) (int, error) {
	initTask := k.lifecycle.Init()
	if initTask == nil {
		return 0, fmt.Errorf("kernel is not booted")
	}
	image, err := k.loader.AppDataByName(name)
	if err != nil {
		return 0, err
	}
	child, err := k.lifecycle.Spawn(ctx, image, initTask)
	if err != nil {
		return 0, err
	}
	return child.PID, nil
}

// Run drives the idle loop until init halts or ctx is done. Panics raised by
// tasks, such as init exiting, propagate to the caller.
func (k *Kernel) Run(ctx context.Context) (err error) {
	if k.lifecycle.Init() == nil {
		return fmt.Errorf("kernel is not booted")
	}
	ctx, span := tracing.StartSpan(ctx, "kernel.run", tracing.KindInternal)
	span.WithAttributes(map[string]string{"kernel.boot_id": k.bootID})
	defer func() { tracing.EndSpan(span, err) }()
	k.launcher.Bind(ctx, k.syscall)
	return k.processor.RunTasks(ctx)
}

// Tasks returns the process table, optionally filtered by status.
func (k *Kernel) Tasks(ctx context.Context, statuses ...model.TaskStatus) ([]task.Info, error) {
	tasks, err := k.lifecycle.List(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	infos := make([]task.Info, 0, len(tasks))
	for _, t := range tasks {
		infos = append(infos, t.Info())
	}
	return infos, nil
}

// Progress returns a snapshot of the kernel counters.
func (k *Kernel) Progress() progress.Progress {
	return k.progress.Snapshot()
}

// Close stops the event listeners of an event service created by the kernel.
func (k *Kernel) Close() {
	if k.ownEvents {
		k.events.Close()
	}
}
