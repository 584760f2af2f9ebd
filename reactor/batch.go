package reactor

// StartBatch defers effects until the matching EndBatch.
func (rt *Runtime) StartBatch() {
	rt.batchDepth++
}

// EndBatch closes a batch. Closing the outermost batch runs the effects
// queued while it was open.
func (rt *Runtime) EndBatch() {
	if rt.batchDepth == 0 {
		return
	}
	rt.batchDepth--
	if rt.batchDepth == 0 {
		rt.runQueue()
	}
}

// Batch runs cb with effects deferred until it returns. Batches nest; only
// the outermost one flushes. When cb panics the depth is restored but queued
// effects wait for the next write.
func (rt *Runtime) Batch(cb func()) {
	rt.StartBatch()
	completed := false
	defer func() {
		if completed {
			rt.EndBatch()
			return
		}
		rt.batchDepth--
	}()
	cb()
	completed = true
}

// Batch is Runtime.Batch for callbacks that return a value.
func Batch[R any](rt *Runtime, cb func() R) R {
	var out R
	rt.Batch(func() {
		out = cb()
	})
	return out
}

// PauseTracking stops subscribing the running computation to what it reads
// until ResumeTracking.
func (rt *Runtime) PauseTracking() {
	rt.pauseStack = append(rt.pauseStack, rt.observer)
	rt.observer = NodeID{}
}

func (rt *Runtime) ResumeTracking() {
	last := len(rt.pauseStack) - 1
	if last < 0 {
		return
	}
	rt.observer = rt.pauseStack[last]
	rt.pauseStack = rt.pauseStack[:last]
}

// Untrack runs fn without subscribing the running computation to what fn
// reads. Nodes created inside fn keep the current owner.
func (rt *Runtime) Untrack(fn func()) {
	prev := rt.observer
	rt.observer = NodeID{}
	defer func() {
		rt.observer = prev
	}()
	fn()
}

// Untrack is Runtime.Untrack for functions that return a value.
func Untrack[T any](rt *Runtime, fn func() T) T {
	var out T
	rt.Untrack(func() {
		out = fn()
	})
	return out
}
