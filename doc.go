// Package taskos is the process and task management core of a small
// teaching kernel running on a single simulated hart.
//
// Programs are registered with a loader and started as tasks. Each task owns
// an address space, a kernel stack slot and a pid; the processor idle loop
// dispatches Ready tasks in FIFO or stride order and every task gives the hart
// back cooperatively through syscalls:
//
//	apps := loader.New()
//	apps.Register("init", initProgram, nil)
//	k, _ := taskos.New(taskos.WithLoader(apps))
//	_ = k.Boot(ctx, "init")
//	err := k.Run(ctx)
//
// Run returns once init issues halt.
package taskos
