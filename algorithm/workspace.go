package algorithm

import "github.com/delaneyj/reactor/arena"

const (
	// DefaultWorkspaceLimit caps how many buffers of each kind are pooled.
	DefaultWorkspaceLimit = 32
	initialBufferCap      = 16
)

// Workspace pools the scratch buffers used by Propagate and Evaluate so that
// steady-state updates do not allocate. Evaluate can re-enter itself through
// RunComputation, so every call takes its own buffers from the pool.
type Workspace struct {
	buffers [][]arena.Handle
	queues  []*Queue
	limit   int
}

// NewWorkspace returns a workspace that keeps at most limit buffers of each
// kind. A non-positive limit selects DefaultWorkspaceLimit.
func NewWorkspace(limit int) *Workspace {
	if limit <= 0 {
		limit = DefaultWorkspaceLimit
	}
	return &Workspace{limit: limit}
}

// Buffer returns an empty handle slice.
func (w *Workspace) Buffer() []arena.Handle {
	if n := len(w.buffers); n > 0 {
		b := w.buffers[n-1]
		w.buffers[n-1] = nil
		w.buffers = w.buffers[:n-1]
		return b[:0]
	}
	return make([]arena.Handle, 0, initialBufferCap)
}

// ReleaseBuffer returns b to the pool, dropping it if the pool is full.
func (w *Workspace) ReleaseBuffer(b []arena.Handle) {
	if b == nil || len(w.buffers) >= w.limit {
		return
	}
	w.buffers = append(w.buffers, b[:0])
}

// Queue returns an empty queue.
func (w *Workspace) Queue() *Queue {
	if n := len(w.queues); n > 0 {
		q := w.queues[n-1]
		w.queues[n-1] = nil
		w.queues = w.queues[:n-1]
		return q
	}
	return NewQueue(initialBufferCap)
}

// ReleaseQueue resets q and returns it to the pool.
func (w *Workspace) ReleaseQueue(q *Queue) {
	if q == nil || len(w.queues) >= w.limit {
		return
	}
	q.Reset()
	w.queues = append(w.queues, q)
}

// Pooled returns the number of idle buffers and queues.
func (w *Workspace) Pooled() (buffers, queues int) {
	return len(w.buffers), len(w.queues)
}
