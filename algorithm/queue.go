package algorithm

import "github.com/delaneyj/reactor/arena"

// Queue is a FIFO of handles backed by a growable ring buffer.
type Queue struct {
	buf  []arena.Handle
	head int
	n    int
}

// NewQueue returns a queue with room for capacity handles before growing.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{buf: make([]arena.Handle, capacity)}
}

func (q *Queue) Len() int {
	return q.n
}

func (q *Queue) PushBack(h arena.Handle) {
	if q.n == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.n)%len(q.buf)] = h
	q.n++
}

// PopFront removes and returns the oldest handle. It panics on an empty queue.
func (q *Queue) PopFront() arena.Handle {
	if q.n == 0 {
		panic("algorithm: pop from empty queue")
	}
	h := q.buf[q.head]
	q.buf[q.head] = arena.Handle{}
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	return h
}

func (q *Queue) Reset() {
	for i := range q.buf {
		q.buf[i] = arena.Handle{}
	}
	q.head, q.n = 0, 0
}

func (q *Queue) grow() {
	size := len(q.buf) * 2
	if size == 0 {
		size = initialBufferCap
	}
	grown := make([]arena.Handle, size)
	for i := 0; i < q.n; i++ {
		grown[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = grown
	q.head = 0
}
