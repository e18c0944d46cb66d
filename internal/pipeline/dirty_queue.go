package pipeline

import "voxmesh/internal/world"

// DoubleQueue is a pair of FIFO queues. Producers append to the next queue
// while the consumer drains the current one; Swap flips them. Items still
// in the current queue at Swap time are kept ahead of the next queue's
// items so nothing loses its position.
type DoubleQueue[T any] struct {
	current []T
	next    []T
}

// Enqueue appends v to the next queue.
func (q *DoubleQueue[T]) Enqueue(v T) {
	q.next = append(q.next, v)
}

// Dequeue removes the head of the current queue.
func (q *DoubleQueue[T]) Dequeue() (T, bool) {
	var zero T
	if len(q.current) == 0 {
		return zero, false
	}
	v := q.current[0]
	q.current[0] = zero
	q.current = q.current[1:]
	return v, true
}

// Peek returns the head of the current queue without removing it.
func (q *DoubleQueue[T]) Peek() (T, bool) {
	if len(q.current) == 0 {
		var zero T
		return zero, false
	}
	return q.current[0], true
}

// Swap makes the next queue current.
func (q *DoubleQueue[T]) Swap() {
	if len(q.current) == 0 {
		q.current, q.next = q.next, q.current[:0]
		return
	}
	q.current = append(q.current, q.next...)
	clear(q.next)
	q.next = q.next[:0]
}

// CurrentLen returns the number of items waiting in the current queue.
func (q *DoubleQueue[T]) CurrentLen() int { return len(q.current) }

// NextLen returns the number of items waiting in the next queue.
func (q *DoubleQueue[T]) NextLen() int { return len(q.next) }

// Len returns the number of items across both queues.
func (q *DoubleQueue[T]) Len() int { return len(q.current) + len(q.next) }

// ClearCurrent drops everything in the current queue.
func (q *DoubleQueue[T]) ClearCurrent() {
	clear(q.current)
	q.current = q.current[:0]
}

// Clear drops everything.
func (q *DoubleQueue[T]) Clear() {
	q.ClearCurrent()
	clear(q.next)
	q.next = q.next[:0]
}

// DirtyQueue is a DoubleQueue of chunk ids in which an id is pending at
// most once across both queues.
type DirtyQueue struct {
	q       DoubleQueue[world.ChunkID]
	pending map[world.ChunkID]struct{}
}

// NewDirtyQueue creates an empty queue.
func NewDirtyQueue() *DirtyQueue {
	return &DirtyQueue{pending: make(map[world.ChunkID]struct{})}
}

// Enqueue adds id to the next queue. It returns false if id is already
// pending in either queue.
func (d *DirtyQueue) Enqueue(id world.ChunkID) bool {
	if _, ok := d.pending[id]; ok {
		return false
	}
	d.pending[id] = struct{}{}
	d.q.Enqueue(id)
	return true
}

// Dequeue removes the head of the current queue. Once dequeued the id may
// be enqueued again.
func (d *DirtyQueue) Dequeue() (world.ChunkID, bool) {
	id, ok := d.q.Dequeue()
	if ok {
		delete(d.pending, id)
	}
	return id, ok
}

// Contains reports whether id is pending in either queue.
func (d *DirtyQueue) Contains(id world.ChunkID) bool {
	_, ok := d.pending[id]
	return ok
}

func (d *DirtyQueue) Swap()           { d.q.Swap() }
func (d *DirtyQueue) CurrentLen() int { return d.q.CurrentLen() }
func (d *DirtyQueue) Len() int        { return d.q.Len() }

// ClearCurrent drops the current queue.
func (d *DirtyQueue) ClearCurrent() {
	for _, id := range d.q.current {
		delete(d.pending, id)
	}
	d.q.ClearCurrent()
}

// Clear drops everything.
func (d *DirtyQueue) Clear() {
	d.q.Clear()
	clear(d.pending)
}
