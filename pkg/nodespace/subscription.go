package nodespace

import (
	"context"
	"fmt"
	"sync"

	"github.com/tagbridge/tagbridge-go/pkg/bridge"
	"github.com/tagbridge/tagbridge-go/pkg/payload"
)

// notifyQueueSize bounds the values waiting for a slow handler. A full
// queue blocks the writer.
const notifyQueueSize = 64

// subscription delivers values for one variable on its own goroutine so
// writers never run the handler.
type subscription struct {
	space   *Space
	id      uint64
	nodeID  string
	handler bridge.DataChangeHandler

	queue    chan payload.Value
	done     chan struct{}
	finished chan struct{}
	stopOnce sync.Once
}

func newSubscription(space *Space, id uint64, nodeID string, handler bridge.DataChangeHandler) *subscription {
	sub := &subscription{
		space:    space,
		id:       id,
		nodeID:   nodeID,
		handler:  handler,
		queue:    make(chan payload.Value, notifyQueueSize),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	go sub.pump()
	return sub
}

func (s *subscription) pump() {
	defer close(s.finished)
	for {
		select {
		case <-s.done:
			return
		case value := <-s.queue:
			s.handler(s.nodeID, value)
		}
	}
}

func (s *subscription) deliver(value payload.Value) {
	select {
	case s.queue <- value:
	case <-s.done:
	}
}

func (s *subscription) stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// Unsubscribe implements bridge.Subscription. It waits for a running handler
// to return.
func (s *subscription) Unsubscribe(ctx context.Context) error {
	if !s.space.unsubscribe(s.id) {
		return fmt.Errorf("%w: %s", ErrNotSubscribed, s.nodeID)
	}
	s.stop()
	select {
	case <-s.finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
