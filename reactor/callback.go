package reactor

import "github.com/delaneyj/reactor/value"

// Callback is an owned function handle that can be passed around by value and
// stops working once its owner is disposed.
type Callback[A any] struct {
	rt *Runtime
	id NodeID
}

func NewCallback[A any](rt *Runtime, fn func(A)) Callback[A] {
	id := rt.registerNode()
	rt.callbacks.Insert(id, value.New(fn))
	return Callback[A]{rt: rt, id: id}
}

func (c Callback[A]) ID() NodeID {
	return c.id
}

func (c Callback[A]) IsDisposed() bool {
	return c.rt.IsDisposed(c.id)
}

func (c Callback[A]) Dispose() {
	c.rt.Dispose(c.id)
}

// Call runs the function untracked. It reports false when the callback has
// been disposed.
func (c Callback[A]) Call(arg A) bool {
	c.rt.checkGoroutine()
	if !c.rt.graph.Contains(c.id) {
		return false
	}
	v, ok := c.rt.callbacks.Get(c.id)
	if !ok {
		return false
	}
	fn, ok := value.Get[func(A)](v)
	if !ok || fn == nil {
		return false
	}
	c.rt.Untrack(func() {
		fn(arg)
	})
	return true
}
