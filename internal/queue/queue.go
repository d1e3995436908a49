// Package queue contains a generic FIFO used as a worklist.
package queue

// Queue is a ring buffer growing on demand. Zero value is not usable, use New.
type Queue[T any] struct {
	items      []T
	head, size int
}

func New[T any](items ...T) *Queue[T] {
	n := 4
	for n < len(items) {
		n <<= 1
	}
	q := &Queue[T]{items: make([]T, n)}
	for _, item := range items {
		q.Append(item)
	}
	return q
}

func (q *Queue[T]) IsEmpty() bool {
	return q.size == 0
}

func (q *Queue[T]) Len() int {
	return q.size
}

// Items returns queued items in FIFO order.
func (q *Queue[T]) Items() []T {
	result := make([]T, q.size)
	for i := range result {
		result[i] = q.items[(q.head+i)%len(q.items)]
	}
	return result
}

func (q *Queue[T]) Append(item T) *Queue[T] {
	if q.size == len(q.items) {
		q.items = append(q.Items(), make([]T, len(q.items))...)
		q.head = 0
	}
	q.items[(q.head+q.size)%len(q.items)] = item
	q.size++
	return q
}

// First removes and returns the oldest item. It returns false if q is empty.
func (q *Queue[T]) First() (T, bool) {
	var zero T
	if q.size == 0 {
		return zero, false
	}

	result := q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.size--
	return result, true
}
