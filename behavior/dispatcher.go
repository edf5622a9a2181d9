package behavior

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrDispatcherClosed is returned by Enqueue after Close.
var ErrDispatcherClosed = errors.New("dispatcher closed")

// Event is a queued press or release.
type Event struct {
	Binding BindingEvent
	Pressed bool
}

// Dispatcher delivers events to the registry one at a time from a single
// goroutine. An event queued while a driver is still running (e.g. a
// release during a tap sequence) waits until the driver returns.
type Dispatcher struct {
	reg    *Registry
	logger *slog.Logger
	queue  chan Event

	closeOnce sync.Once
	closing   chan struct{}

	// OnResult, if set, is called on the dispatch goroutine after each event.
	OnResult func(ev Event, res Result, err error)
}

// NewDispatcher creates a dispatcher with a queue of the given size.
func NewDispatcher(reg *Registry, logger *slog.Logger, size int) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if size < 1 {
		size = 1
	}
	return &Dispatcher{
		reg:     reg,
		logger:  logger,
		queue:   make(chan Event, size),
		closing: make(chan struct{}),
	}
}

// Enqueue queues ev, blocking while the queue is full.
func (d *Dispatcher) Enqueue(ctx context.Context, ev Event) error {
	select {
	case <-d.closing:
		return ErrDispatcherClosed
	default:
	}
	select {
	case d.queue <- ev:
		return nil
	case <-d.closing:
		return ErrDispatcherClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting events. Run drains what is already queued and returns.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() { close(d.closing) })
}

// Run processes events until Close has been called and the queue is empty,
// or until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-d.queue:
			d.handle(ev)
		case <-d.closing:
			for {
				select {
				case ev := <-d.queue:
					d.handle(ev)
				default:
					return nil
				}
			}
		}
	}
}

func (d *Dispatcher) handle(ev Event) {
	b := ev.Binding
	res, err := d.reg.Dispatch(b, ev.Pressed)
	switch {
	case err != nil:
		d.logger.Warn("dropping binding event", "instance", b.Instance, "position", b.Position, "error", err)
	case res == NotHandled:
		d.logger.Warn("binding event not handled", "instance", b.Instance, "param1", b.Param1, "pressed", ev.Pressed)
	default:
		d.logger.Debug("binding event handled", "instance", b.Instance, "param1", b.Param1, "pressed", ev.Pressed, "state", b.State)
	}
	if d.OnResult != nil {
		d.OnResult(ev, res, err)
	}
}
