package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/devlinkhq/devlink-backend/src/models"
)

// Handler persists one notification event.
type Handler func(ctx context.Context, n models.Notification) error

// Dispatcher decouples notification writes from the operations that
// trigger them. Publish never blocks and never reports failure to the
// caller; a worker goroutine drains the queue and logs write errors.
type Dispatcher struct {
	ch      chan models.Notification
	handler Handler
	log     *zap.Logger
	timeout time.Duration

	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewDispatcher(handler Handler, buffer int, log *zap.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}

	d := &Dispatcher{
		ch:      make(chan models.Notification, buffer),
		handler: handler,
		log:     log,
		timeout: 5 * time.Second,
	}

	d.wg.Add(1)
	go d.run()

	return d
}

// Publish enqueues a notification event. When the queue is full the event
// is dropped with a log line; delivery is strictly best-effort.
func (d *Dispatcher) Publish(n models.Notification) {
	select {
	case d.ch <- n:
	default:
		d.log.Warn("notification queue full, dropping event",
			zap.String("type", string(n.Type)),
			zap.String("recipient", n.Recipient.Hex()))
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.ch)
	})
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for n := range d.ch {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.handler(ctx, n); err != nil {
			d.log.Error("failed to write notification",
				zap.String("type", string(n.Type)),
				zap.String("recipient", n.Recipient.Hex()),
				zap.Error(err))
		}
		cancel()
	}
}
