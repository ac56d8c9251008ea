// Package progress provides a lightweight tracker that keeps aggregated
// kernel counters for one boot. Components receive the tracker from the kernel
// and update it via the Delta helper.

package progress

import (
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the processor,
// the lifecycle service or the syscall dispatcher.
type Delta struct {
	Created    int
	Dispatched int
	Exited     int
	Reaped     int
	Syscalls   int
	Live       int
}

// Progress keeps aggregated counters. It is safe for concurrent use so that
// the host can read it while the kernel runs.
type Progress struct {
	// Identification – informative only, filled at boot.
	BootID    string
	StartedAt time.Time

	// Counters – modified via Update().
	CreatedTasks    int
	DispatchedTasks int
	ExitedTasks     int
	ReapedTasks     int
	Syscalls        int
	LiveTasks       int

	sync.Mutex
	onChange func(Progress)
}

// New creates a tracker for the given boot.
func New(bootID string, startedAt time.Time, onChange func(Progress)) *Progress {
	return &Progress{BootID: bootID, StartedAt: startedAt, onChange: onChange}
}

// Update applies the supplied delta. If an onChange callback has been
// registered it is invoked with a copy of the tracker outside the critical
// section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.Lock()

	p.CreatedTasks += d.Created
	p.DispatchedTasks += d.Dispatched
	p.ExitedTasks += d.Exited
	p.ReapedTasks += d.Reaped
	p.Syscalls += d.Syscalls
	p.LiveTasks += d.Live

	snapshot := p.copy()
	cb := p.onChange

	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copy()
}

// OnChange registers a callback invoked after every Update; nil disables it.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

func (p *Progress) copy() Progress {
	return Progress{
		BootID:          p.BootID,
		StartedAt:       p.StartedAt,
		CreatedTasks:    p.CreatedTasks,
		DispatchedTasks: p.DispatchedTasks,
		ExitedTasks:     p.ExitedTasks,
		ReapedTasks:     p.ReapedTasks,
		Syscalls:        p.Syscalls,
		LiveTasks:       p.LiveTasks,
	}
}
