// Package processor owns the hart: it tracks the running task and hosts the
// idle loop that repeatedly takes the next Ready task from the scheduler and
// switches to it. Tasks give the hart back through Schedule or Exit.
package processor
