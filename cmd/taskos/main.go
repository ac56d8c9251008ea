// taskos boots the task kernel with a handful of built-in user programs.
//
// Usage:
//
//	taskos [options]
//
// Options:
//
//	-config URL     YAML kernel configuration
//	-apps list      comma separated programs init starts (default "hello,counter,heap,pager")
//	-stride         use the stride scheduler
//	-trace file     write OpenTelemetry spans to file
//	-events         log lifecycle events
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/viant/taskos"
	"github.com/viant/taskos/policy"
	"github.com/viant/taskos/service/event"
	"github.com/viant/taskos/service/loader"
)

func main() {
	configURL := flag.String("config", "", "YAML kernel configuration")
	appList := flag.String("apps", "hello,counter,heap,pager", "programs started by init")
	stride := flag.Bool("stride", false, "use the stride scheduler")
	traceFile := flag.String("trace", "", "write spans to file")
	events := flag.Bool("events", false, "log lifecycle events")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	config := taskos.DefaultConfig()
	if *configURL != "" {
		var err error
		if config, err = taskos.LoadConfig(ctx, *configURL); err != nil {
			fmt.Fprintf(os.Stderr, "taskos: %s\n", err)
			os.Exit(1)
		}
	}
	if *stride {
		config.Policy.Mode = policy.ModeStride
	}
	config.Events.Enabled = config.Events.Enabled || *events

	apps := loader.New()
	registerPrograms(apps, splitApps(*appList))
	options := []taskos.Option{taskos.WithConfig(config), taskos.WithLoader(apps)}
	if *traceFile != "" {
		options = append(options, taskos.WithTracing("taskos", "0.1.0", *traceFile))
	}
	kernel, err := taskos.New(options...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "taskos: %s\n", err)
		os.Exit(1)
	}
	defer kernel.Close()
	if service := kernel.Events(); service != nil {
		service.SetListener(func(e *event.Event[any]) {
			log.Printf("event: %v pid=%d parent=%d name=%v", e.Context.EventType, e.Context.PID, e.Context.ParentPID, e.Context.Name)
		})
	}
	if err = kernel.Boot(ctx, "init"); err != nil {
		fmt.Fprintf(os.Stderr, "taskos: %s\n", err)
		os.Exit(1)
	}
	if err = kernel.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "taskos: %s\n", err)
		os.Exit(1)
	}
	counters := kernel.Progress()
	log.Printf("taskos: boot %v created=%d exited=%d reaped=%d dispatched=%d syscalls=%d",
		counters.BootID, counters.CreatedTasks, counters.ExitedTasks, counters.ReapedTasks,
		counters.DispatchedTasks, counters.Syscalls)
}

func splitApps(list string) []string {
	var names []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
