package event

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/viant/taskos/service/messaging"
	"github.com/viant/taskos/service/messaging/memory"
)

// Service owns the event queues: one untyped queue receiving every event and
// one typed queue per payload type.
type Service struct {
	publisher         *Publisher[any]
	listener          *Listener[any]
	typedPublishers   map[reflect.Type]any
	typedListener     map[reflect.Type]any
	mux               *sync.RWMutex
	queueVendor       messaging.Vendor
	memNewQueueConfig func(name string) memory.Config
	bootID            string
}

// New creates an event service backed by queueVendor.
func New(queueVendor messaging.Vendor, opts ...Option) (*Service, error) {
	ret := &Service{
		queueVendor:     queueVendor,
		typedPublishers: make(map[reflect.Type]any),
		typedListener:   make(map[reflect.Type]any),
		mux:             &sync.RWMutex{},
	}
	for _, opt := range opts {
		opt(ret)
	}
	switch queueVendor {
	case messaging.VendorMemory:
		if ret.memNewQueueConfig == nil {
			ret.memNewQueueConfig = func(string) memory.Config { return memory.DefaultConfig() }
		}
	default:
		return nil, fmt.Errorf("unsupported queue vendor: %s", queueVendor)
	}
	queue, err := QueueOf[Event[any]](ret, "any")
	if err != nil {
		return nil, err
	}
	ret.publisher = NewPublisher[any](queue)
	return ret, nil
}

// BootID returns the boot identifier stamped on events.
func (s *Service) BootID() string {
	return s.bootID
}

// SetListener consumes every event regardless of payload type.
func (s *Service) SetListener(handler func(*Event[any])) {
	if s.listener != nil {
		s.listener.Stop()
	}
	s.listener = NewListener[any](s.publisher, handler)
	s.listener.Start()
}

// Close stops all listeners.
func (s *Service) Close() {
	if s.listener != nil {
		s.listener.Stop()
		s.listener = nil
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	for key, listener := range s.typedListener {
		listener.(interface{ Stop() }).Stop()
		delete(s.typedListener, key)
	}
}

// QueueOf creates a queue of the service vendor.
func QueueOf[T any](s *Service, name string) (messaging.Queue[T], error) {
	switch s.queueVendor {
	case messaging.VendorMemory:
		return memory.NewQueue[T](s.memNewQueueConfig(name)), nil
	}
	return nil, fmt.Errorf("unsupported queue vendor: %s", s.queueVendor)
}

func keyOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// SetListenerOf consumes events carrying a T payload.
func SetListenerOf[T any](s *Service, handler func(*Event[T])) error {
	key := keyOf[T]()
	s.mux.RLock()
	ret, ok := s.typedListener[key]
	s.mux.RUnlock()
	if ok {
		ret.(*Listener[T]).Stop()
	}
	publisher, err := PublisherOf[T](s)
	if err != nil {
		return err
	}
	listener := NewListener[T](publisher, handler)
	s.mux.Lock()
	s.typedListener[key] = listener
	listener.Start()
	s.mux.Unlock()
	return nil
}

// PublisherOf returns the publisher for payload type T.
func PublisherOf[T any](s *Service) (*Publisher[T], error) {
	key := keyOf[T]()
	s.mux.Lock()
	defer s.mux.Unlock()
	if ret, ok := s.typedPublishers[key]; ok {
		return ret.(*Publisher[T]), nil
	}
	queue, err := QueueOf[Event[T]](s, key.String())
	if err != nil {
		return nil, err
	}
	publisher := NewPublisher[T](queue)
	publisher.anyQueue = s.publisher.queue
	s.typedPublishers[key] = publisher
	return publisher, nil
}

// Emit publishes data as an event of type eventType. Queue overflow drops
// the event and is reported as messaging.ErrQueueFull.
func Emit[T any](ctx context.Context, s *Service, eventType string, pid, parentPID int, name string, data T) error {
	if s == nil {
		return nil
	}
	publisher, err := PublisherOf[T](s)
	if err != nil {
		return err
	}
	return publisher.Publish(ctx, NewEvent(&Context{
		BootID:    s.bootID,
		PID:       pid,
		ParentPID: parentPID,
		EventType: eventType,
		Name:      name,
	}, data))
}
