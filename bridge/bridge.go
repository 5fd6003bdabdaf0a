// Package bridge carries global key-downs from the hook goroutines to the UI
// surface. One producer side, one consumer goroutine, unbounded queue: the
// producer never blocks and nothing is reordered. Events that arrive while
// no surface is attached are dropped.
package bridge

import (
	"errors"
	"sync"
	"sync/atomic"

	"keybeat/keyhook"
)

// Handler receives each forwarded event on the delivery goroutine.
type Handler func(ev keyhook.Event)

var ErrClosed = errors.New("bridge closed")

type Bridge struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []keyhook.Event
	handler Handler
	gen     uint64
	closed  bool

	startOnce sync.Once
	startErr  error
	hook      keyhook.Hook

	done      chan struct{}
	stopped   chan struct{}
	forwarded atomic.Uint64
	dropped   atomic.Uint64
}

func New() *Bridge {
	b := &Bridge{
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	b.cond = sync.NewCond(&b.mu)
	go b.deliver()
	return b
}

// OnGlobalKeyDown attaches h as the current surface, replacing any previous
// one. The returned func detaches it; events still queued for it are dropped.
func (b *Bridge) OnGlobalKeyDown(h Handler) (detach func()) {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.handler = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if b.gen != gen {
				return
			}
			b.handler = nil
			b.dropped.Add(uint64(len(b.queue)))
			b.queue = nil
		})
	}
}

// Publish enqueues ev for the attached surface. It never blocks.
func (b *Bridge) Publish(ev keyhook.Event) {
	b.mu.Lock()
	if b.closed || b.handler == nil {
		b.mu.Unlock()
		b.dropped.Add(1)
		return
	}
	b.queue = append(b.queue, ev)
	b.cond.Signal()
	b.mu.Unlock()
}

func (b *Bridge) deliver() {
	defer close(b.stopped)
	for {
		b.mu.Lock()
		for len(b.queue) == 0 && !b.closed {
			b.cond.Wait()
		}
		if b.closed {
			b.dropped.Add(uint64(len(b.queue)))
			b.queue = nil
			b.mu.Unlock()
			return
		}
		ev := b.queue[0]
		b.queue[0] = keyhook.Event{}
		b.queue = b.queue[1:]
		h := b.handler
		b.mu.Unlock()

		if h == nil {
			b.dropped.Add(1)
			continue
		}
		h(ev)
		b.forwarded.Add(1)
	}
}

// Start registers hook and pumps its events into the bridge. Only the first
// call registers; later calls return the first call's result.
func (b *Bridge) Start(hook keyhook.Hook) error {
	b.startOnce.Do(func() {
		select {
		case <-b.done:
			b.startErr = ErrClosed
			return
		default:
		}
		if err := hook.Register(); err != nil {
			b.startErr = err
			return
		}
		b.mu.Lock()
		b.hook = hook
		b.mu.Unlock()
		go b.pump(hook.Events())
	})
	return b.startErr
}

func (b *Bridge) pump(events <-chan keyhook.Event) {
	for {
		select {
		case <-b.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			b.Publish(ev)
		}
	}
}

// Close unregisters the hook and stops delivery. Queued events are dropped.
func (b *Bridge) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	hook := b.hook
	close(b.done)
	b.cond.Broadcast()
	b.mu.Unlock()

	if hook != nil {
		hook.Unregister()
	}
	<-b.stopped
}

// Forwarded counts events handed to a surface.
func (b *Bridge) Forwarded() uint64 { return b.forwarded.Load() }

// Dropped counts events discarded because no surface was attached.
func (b *Bridge) Dropped() uint64 { return b.dropped.Load() }
