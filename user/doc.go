// Package user is the library that task programs link against. Every
// function issues a syscall through Env; out-parameters are exchanged through
// the task's scratch page, so programs only ever see plain Go values.
package user
