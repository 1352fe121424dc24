package queue

// sliceQueue implements the Queue interface using a slice.
//
// It is not safe for concurrent use.
type sliceQueue[T any] struct {
	items []T
	head  int
}

var _ Queue[int] = (*sliceQueue[int])(nil)

// NewSliceQueue creates a new slice backed queue with room for prealloc items.
func NewSliceQueue[T any](prealloc int) Queue[T] {
	return &sliceQueue[T]{items: make([]T, 0, prealloc)}
}

// NewSliceQueueOf creates a slice backed queue holding items in order.
// The items slice is copied.
func NewSliceQueueOf[T any](items ...T) Queue[T] {
	q := &sliceQueue[T]{items: make([]T, len(items))}
	copy(q.items, items)

	return q
}

// Enqueue adds an item to the tail of the queue.
func (q *sliceQueue[T]) Enqueue(item T) {
	q.items = append(q.items, item)
}

// Dequeue removes and returns the item at the head of the queue.
func (q *sliceQueue[T]) Dequeue() (T, bool) {
	var zero T
	if q.head >= len(q.items) {
		return zero, false
	}
	item := q.items[q.head]
	q.items[q.head] = zero // drop the reference held by the backing array
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}

	return item, true
}

// Peek returns the item at the head of the queue without removing it.
func (q *sliceQueue[T]) Peek() (T, bool) {
	if q.head >= len(q.items) {
		var zero T
		return zero, false
	}

	return q.items[q.head], true
}

// Reset resets the queue to an empty state.
func (q *sliceQueue[T]) Reset() {
	clear(q.items)
	q.items = q.items[:0] // Reslice to 0 length to reuse the underlying array
	q.head = 0
}

// IsEmpty returns true if the queue is empty, false otherwise.
func (q *sliceQueue[T]) IsEmpty() bool {
	return q.head >= len(q.items)
}

// Length returns the number of items in the queue.
func (q *sliceQueue[T]) Length() int {
	return len(q.items) - q.head
}
