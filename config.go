package taskos

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/taskos/policy"
	"github.com/viant/taskos/service/lifecycle"
	"github.com/viant/taskos/service/messaging/memory"
	"github.com/viant/taskos/service/meta"
	"github.com/viant/taskos/service/mm/memset"
	"github.com/viant/taskos/service/processor"
)

// Config is a serialisable representation of the kernel configuration. It
// can be populated from YAML or JSON; the zero value of nested fields keeps
// the package defaults after DefaultConfig.
type Config struct {
	Policy    policy.Config    `json:"policy" yaml:"policy"`
	Processor processor.Config `json:"processor" yaml:"processor"`
	Lifecycle lifecycle.Config `json:"lifecycle" yaml:"lifecycle"`
	Memory    memset.Config    `json:"memory" yaml:"memory"`
	Events    EventsConfig     `json:"events" yaml:"events"`
	Journal   JournalConfig    `json:"journal" yaml:"journal"`
	// Manifest is an optional application manifest location loaded at New.
	Manifest string `json:"manifest,omitempty" yaml:"manifest,omitempty"`
}

// EventsConfig controls the built-in lifecycle event service. An event whose
// listener panics is redelivered after RetryDelay up to MaxRetries times and
// then dead-lettered when DeadLetter is set.
type EventsConfig struct {
	Enabled     bool          `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	QueueBuffer int           `json:"queueBuffer,omitempty" yaml:"queueBuffer,omitempty"`
	MaxRetries  int           `json:"maxRetries,omitempty" yaml:"maxRetries,omitempty"`
	RetryDelay  time.Duration `json:"retryDelay,omitempty" yaml:"retryDelay,omitempty"`
	DeadLetter  bool          `json:"deadLetter,omitempty" yaml:"deadLetter,omitempty"`
	// Blocking makes lifecycle transitions wait for queue space instead of
	// dropping events.
	Blocking bool `json:"blocking,omitempty" yaml:"blocking,omitempty"`
}

// QueueConfig returns the memory queue configuration backing every event queue.
func (c EventsConfig) QueueConfig() memory.Config {
	return memory.Config{
		MaxRetries:  c.MaxRetries,
		RetryDelay:  c.RetryDelay,
		DeadLetter:  c.DeadLetter,
		QueueBuffer: c.QueueBuffer,
		Blocking:    c.Blocking,
	}
}

// JournalConfig controls the task journal.
type JournalConfig struct {
	// URL is an afs location; empty disables the journal.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// DefaultConfig returns the default kernel configuration.
func DefaultConfig() *Config {
	return &Config{
		Policy:    policy.DefaultConfig(),
		Processor: processor.DefaultConfig(),
		Lifecycle: lifecycle.DefaultConfig(),
		Memory:    memset.DefaultConfig(),
		Events:    defaultEventsConfig(),
	}
}

func defaultEventsConfig() EventsConfig {
	queue := memory.DefaultConfig()
	return EventsConfig{
		QueueBuffer: queue.QueueBuffer,
		MaxRetries:  queue.MaxRetries,
		RetryDelay:  queue.RetryDelay,
		DeadLetter:  queue.DeadLetter,
	}
}

// Validate returns an error describing the first invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	if c.Memory.Frames < 0 {
		return fmt.Errorf("memory.frames must be >= 0")
	}
	if c.Lifecycle.MaxTasks < 0 {
		return fmt.Errorf("lifecycle.maxTasks must be >= 0")
	}
	if c.Processor.TimeSlice < 0 {
		return fmt.Errorf("processor.timeSlice must be >= 0")
	}
	if c.Events.Enabled && c.Events.QueueBuffer <= 0 {
		return fmt.Errorf("events.queueBuffer must be > 0")
	}
	if c.Events.MaxRetries < 0 {
		return fmt.Errorf("events.maxRetries must be >= 0")
	}
	if c.Events.RetryDelay < 0 {
		return fmt.Errorf("events.retryDelay must be >= 0")
	}
	return nil
}

// LoadConfig reads a YAML configuration from URL on top of DefaultConfig.
// ${env.NAME} references are expanded before decoding.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	config := DefaultConfig()
	if err := meta.New(afs.New(), "").Load(ctx, URL, config); err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return config, nil
}
