package ecs

// Deferred buffers structural requests raised while a tick is iterating and
// replays them in arrival order once the tick is over. The backing array is
// reused across ticks.
type Deferred[T any] struct {
	queue []T
}

func NewDeferred[T any](capacity int) *Deferred[T] {
	return &Deferred[T]{queue: make([]T, 0, capacity)}
}

// Push queues a request for the next Flush.
func (d *Deferred[T]) Push(v T) {
	d.queue = append(d.queue, v)
}

func (d *Deferred[T]) Len() int {
	return len(d.queue)
}

// Flush hands every queued request to fn, FIFO, then clears the queue.
// Requests pushed by fn itself are processed in the same flush.
func (d *Deferred[T]) Flush(fn func(T)) {
	for i := 0; i < len(d.queue); i++ {
		fn(d.queue[i])
	}
	clear(d.queue)
	d.queue = d.queue[:0]
}

// Reset drops every queued request without running it.
func (d *Deferred[T]) Reset() {
	clear(d.queue)
	d.queue = d.queue[:0]
}
