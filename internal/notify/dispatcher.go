package notify

import (
	"context"
	"sync"

	"github.com/abira1/Toi-Task/internal/logger"
)

// job is one queued fan-out request.
type job struct {
	ExcludedIDs []string
	Title       string
	Body        string
	Data        map[string]string
}

// Dispatcher runs fan-outs detached from the user action that
// triggered them. Detachment is an explicit queue, not an unawaited
// call: the originating write returns immediately, a worker drains the
// queue, and anything that cannot be processed lands in the
// dead-letter log. A notification failure can never fail or roll back
// the originating write.
type Dispatcher struct {
	fanout *Fanout
	queue  chan job
	log    *logger.Logger

	startOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(fanout *Fanout, queueSize int, log *logger.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher{
		fanout: fanout,
		queue:  make(chan job, queueSize),
		log:    log,
		done:   make(chan struct{}),
	}
}

// Start launches the worker. Subsequent calls are no-ops.
func (d *Dispatcher) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		go d.run(ctx)
	})
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			// Drain what is already queued so accepted work is not lost
			// silently.
			for {
				select {
				case j := <-d.queue:
					d.log.Warn("dead-letter: dispatcher stopping, dropping notification", "title", j.Title)
				default:
					return
				}
			}
		case j := <-d.queue:
			d.fanout.NotifyTeamExcept(ctx, j.ExcludedIDs, j.Title, j.Body, j.Data)
		}
	}
}

// Enqueue hands a fan-out to the background worker without blocking.
// If the queue is full the notification goes to the dead-letter log;
// push delivery is an enhancement, never a correctness requirement.
func (d *Dispatcher) Enqueue(excludedIDs []string, title, body string, data map[string]string) {
	j := job{
		ExcludedIDs: excludedIDs,
		Title:       title,
		Body:        body,
		Data:        data,
	}
	select {
	case d.queue <- j:
	default:
		d.log.Warn("dead-letter: notification queue full", "title", title)
	}
}

// Wait blocks until the worker has exited after context cancellation.
func (d *Dispatcher) Wait() {
	<-d.done
}
