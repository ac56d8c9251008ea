package policy

import (
	"fmt"
	"strings"
)

// Dispatch modes recognised by the scheduler.
const (
	ModeFIFO   = "fifo"   // earliest enqueued first (default)
	ModeStride = "stride" // smallest stride first
)

const (
	// DefaultBigStride is the numerator of the pass computation.
	DefaultBigStride = 1 << 20
	// DefaultPriority is assigned to every new task.
	DefaultPriority = 16
	// MinPriority is the smallest priority set_priority accepts.
	MinPriority = 2
)

// Config represents the dispatch policy.
type Config struct {
	Mode            string `json:"mode,omitempty" yaml:"mode,omitempty"`
	BigStride       uint64 `json:"bigStride,omitempty" yaml:"bigStride,omitempty"`
	DefaultPriority uint64 `json:"defaultPriority,omitempty" yaml:"defaultPriority,omitempty"`
}

// DefaultConfig returns the FIFO policy with the default stride constants.
func DefaultConfig() Config {
	return Config{
		Mode:            ModeFIFO,
		BigStride:       DefaultBigStride,
		DefaultPriority: DefaultPriority,
	}
}

// Validate checks that the policy can be applied.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Mode) {
	case ModeFIFO, ModeStride:
	default:
		return fmt.Errorf("policy: unsupported mode %q", c.Mode)
	}
	if c.BigStride == 0 {
		return fmt.Errorf("policy: bigStride must be positive")
	}
	if c.DefaultPriority < MinPriority {
		return fmt.Errorf("policy: defaultPriority must be at least %d", MinPriority)
	}
	return nil
}

// IsStride reports whether the stride discipline is selected.
func (c Config) IsStride() bool {
	return strings.ToLower(c.Mode) == ModeStride
}

// Pass returns the stride increment of a task with the given priority.
func (c Config) Pass(priority uint64) uint64 {
	return c.BigStride / priority
}

// ValidPriority reports whether set_priority accepts priority.
func ValidPriority(priority int64) bool {
	return priority >= MinPriority
}
