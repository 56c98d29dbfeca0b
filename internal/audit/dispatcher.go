package audit

import (
	"context"
	"sync"
)

// Options controls how a Dispatcher buffers events.
type Options struct {
	BufferSize int
	// DropIfFull discards events on a full buffer instead of blocking the
	// emitting request.
	DropIfFull bool
	// OnDrop runs for every event that was not queued, either because the
	// buffer was full or because the emitting context ended while waiting.
	OnDrop func(Event)
}

// Dispatcher relays events to a Sink from a single goroutine, so a slow sink
// never runs on a login path. A nil Dispatcher ignores every call.
type Dispatcher struct {
	sink Sink
	opts Options

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

// NewDispatcher starts the relay goroutine. It returns nil for a nil sink.
func NewDispatcher(sink Sink, opts Options) *Dispatcher {
	if sink == nil {
		return nil
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1
	}

	d := &Dispatcher{
		sink:  sink,
		opts:  opts,
		queue: make(chan Event, opts.BufferSize),
		done:  make(chan struct{}),
	}
	go d.relay()

	return d
}

func (d *Dispatcher) relay() {
	defer close(d.done)
	for event := range d.queue {
		d.sink.Emit(context.Background(), event)
	}
}

// Emit queues event and reports whether it was accepted. Events emitted
// after Close are ignored without calling OnDrop.
func (d *Dispatcher) Emit(ctx context.Context, event Event) bool {
	if d == nil {
		return false
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}

	if d.opts.DropIfFull {
		select {
		case d.queue <- event:
			return true
		default:
			d.drop(event)
			return false
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case d.queue <- event:
		return true
	case <-ctx.Done():
		d.drop(event)
		return false
	}
}

func (d *Dispatcher) drop(event Event) {
	if d.opts.OnDrop != nil {
		d.opts.OnDrop(event)
	}
}

// Close stops accepting events and returns once the sink has received every
// queued one. Emitters blocked on a full buffer finish first. Close is
// idempotent.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}
