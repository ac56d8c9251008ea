package event

import (
	"context"

	"github.com/viant/taskos/service/messaging"
)

// Publisher sends events of one payload type; every event is mirrored to the
// untyped queue when one is attached.
type Publisher[T any] struct {
	queue    messaging.Queue[Event[T]]
	anyQueue messaging.Queue[Event[any]]
}

// NewPublisher creates a publisher over queue.
func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{
		queue: queue,
	}
}

// Publish sends event to the typed queue and mirrors it to the untyped one.
func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	if p.anyQueue != nil {
		if err := p.anyQueue.Publish(ctx, &Event[any]{
			Context:   event.Context,
			CreatedAt: event.CreatedAt,
			Metadata:  event.Metadata,
			Data:      event.Data,
		}); err != nil {
			return err
		}
	}
	return p.queue.Publish(ctx, event)
}

// Receive waits for the next event message; the caller acknowledges it.
func (p *Publisher[T]) Receive(ctx context.Context) (messaging.Message[Event[T]], error) {
	return p.queue.Consume(ctx)
}
