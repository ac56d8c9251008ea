package main

import (
	"github.com/viant/taskos/model"
	"github.com/viant/taskos/service/loader"
	"github.com/viant/taskos/user"
)

// pagerBase is where the pager program maps its pages.
const pagerBase = 0x10000000

func registerPrograms(apps *loader.Service, children []string) {
	apps.Register("init", func(env user.Env) int {
		for _, name := range children {
			if user.Spawn(env, name) < 0 {
				user.Printf(env, "init: cannot start %v\n", name)
			}
		}
		for {
			pid, code := user.Wait(env)
			if pid < 0 {
				break
			}
			user.Printf(env, "init: task %d exited with %d\n", pid, code)
		}
		user.Printf(env, "init: halting after %d ms\n", user.GetTime(env))
		user.Halt(env)
		return 0
	}, nil)

	apps.Register("hello", func(env user.Env) int {
		user.Printf(env, "hello from task %d\n", user.GetPID(env))
		return 0
	}, []byte("hello"))

	apps.Register("counter", func(env user.Env) int {
		user.SetPriority(env, 8)
		sum := 0
		for i := 1; i <= 5; i++ {
			sum += i
			user.Yield(env)
		}
		info, ret := user.TaskInfo(env)
		if ret == 0 {
			user.Printf(env, "counter: sum=%d yields=%d\n", sum, info.SyscallTimes[model.SyscallYield])
		}
		return sum
	}, nil)

	apps.Register("heap", func(env user.Env) int {
		bottom := user.Sbrk(env, 0)
		if user.Sbrk(env, 2*model.PageSize) < 0 {
			return 1
		}
		if err := env.Store(uint64(bottom), []byte("heap")); err != nil {
			return 2
		}
		user.Sbrk(env, -2*model.PageSize)
		user.Printf(env, "heap: grew and shrank at %#x\n", bottom)
		return 0
	}, nil)

	apps.Register("pager", func(env user.Env) int {
		if user.Mmap(env, pagerBase, 4*model.PageSize, model.ProtRead|model.ProtWrite) != 0 {
			return 1
		}
		for i := uint64(0); i < 4; i++ {
			if err := env.Store(pagerBase+i*model.PageSize, []byte{byte(i)}); err != nil {
				return 2
			}
		}
		if user.Munmap(env, pagerBase, 4*model.PageSize) != 0 {
			return 3
		}
		user.Printf(env, "pager: mapped and released 4 pages\n")
		return 0
	}, nil)
}
