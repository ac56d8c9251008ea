package user

// Env is the user-mode view of the machine a program runs on.
type Env interface {
	// Syscall traps into the kernel with id and three arguments and returns a0.
	Syscall(id int, a0, a1, a2 uint64) int64
	// Load copies n bytes of user memory starting at ptr.
	Load(ptr, n uint64) ([]byte, error)
	// Store copies data into user memory starting at ptr.
	Store(ptr uint64, data []byte) error
	// Scratch returns the address of a writable user page reserved for the library.
	Scratch() uint64
}

// Program is the entry point of a task image. Its return value is the exit
// code passed to exit.
type Program func(env Env) int
