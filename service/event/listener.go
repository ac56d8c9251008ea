package event

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/viant/taskos/service/messaging"
)

// Listener hands every consumed event to handler on its own goroutine. An
// event whose handler panics is nacked so the queue can redeliver it.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewListener creates a stopped listener.
func NewListener[T any](publisher *Publisher[T], handler func(*Event[T])) *Listener[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Stop ends the listener and waits for its goroutine to return.
func (l *Listener[T]) Stop() {
	l.cancel()
	<-l.done
}

// Start begins consuming.
func (l *Listener[T]) Start() {
	go func() {
		defer close(l.done)
		for {
			msg, err := l.publisher.Receive(l.ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				log.Printf("event: failed to consume: %v", err)
				continue
			}
			if msg == nil {
				continue
			}
			if err = l.handle(msg); err != nil {
				log.Printf("event: %v: %v", msg.ID(), err)
				if nackErr := msg.Nack(err); nackErr != nil {
					log.Printf("event: failed to nack %v: %v", msg.ID(), nackErr)
				}
				continue
			}
			if err = msg.Ack(); err != nil {
				log.Printf("event: failed to ack %v: %v", msg.ID(), err)
			}
		}
	}()
}

func (l *Listener[T]) handle(msg messaging.Message[Event[T]]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	l.handler(msg.T())
	return nil
}
