package event

import (
	"reflect"
	"sync"
)

// Bus carries game notifications (new game, level loaded, saved, load
// failed, shapes culled) from the simulation to its observers, such as
// game.Stats. It is double-buffered: an event emitted in tick N reaches
// subscribers in tick N+1, after the event system swaps buffers.
type Bus struct {
	mu     sync.Mutex // guards Subscribe only; Emit and dispatch run on the tick goroutine
	queues map[reflect.Type]*queue
}

// queue holds one event type's buffers and subscribers.
type queue struct {
	next     []any // emitted this tick
	ready    []any // delivered by the next DispatchAll
	handlers []func(any)
}

func NewBus() *Bus {
	return &Bus{queues: make(map[reflect.Type]*queue)}
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (b *Bus) queue(t reflect.Type) *queue {
	q, ok := b.queues[t]
	if !ok {
		q = &queue{}
		b.queues[t] = q
	}
	return q
}

// Emit queues an event for the next tick.
func Emit[T any](b *Bus, event T) {
	q := b.queue(typeKey[T]())
	q.next = append(q.next, event)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := b.queue(typeKey[T]())
	q.handlers = append(q.handlers, func(ev any) { fn(ev.(T)) })
}

// SwapBuffers makes this tick's events ready for delivery. Events that were
// ready but never dispatched are dropped.
func (b *Bus) SwapBuffers() {
	for _, q := range b.queues {
		q.next, q.ready = q.ready[:0], q.next
	}
}

// DispatchAll delivers every ready event to the subscribers of its type,
// in emission order per type.
func (b *Bus) DispatchAll() {
	for _, q := range b.queues {
		for _, ev := range q.ready {
			for _, h := range q.handlers {
				h(ev)
			}
		}
		q.ready = q.ready[:0]
	}
}

// Pending returns the number of events emitted this tick.
func (b *Bus) Pending() int {
	n := 0
	for _, q := range b.queues {
		n += len(q.next)
	}
	return n
}
