package reactor

import "github.com/delaneyj/reactor/value"

// StoredValue keeps a non-reactive value alive for as long as its owner.
// Reading it never subscribes and writing it never notifies.
type StoredValue[T any] struct {
	rt *Runtime
	id NodeID
}

func NewStoredValue[T any](rt *Runtime, v T) StoredValue[T] {
	id := rt.registerNode()
	rt.stored.Insert(id, value.New(v))
	return StoredValue[T]{rt: rt, id: id}
}

func (s StoredValue[T]) ref() (*T, error) {
	s.rt.checkGoroutine()
	if !s.rt.graph.Contains(s.id) {
		return nil, ErrDisposed
	}
	v, ok := s.rt.stored.Get(s.id)
	if !ok {
		return nil, ErrNotReadable
	}
	p, ok := value.Ref[T](v)
	if !ok {
		s.rt.logMismatch(s.id, v)
		return nil, ErrTypeMismatch
	}
	return p, nil
}

func (s StoredValue[T]) ID() NodeID {
	return s.id
}

func (s StoredValue[T]) IsDisposed() bool {
	return s.rt.IsDisposed(s.id)
}

func (s StoredValue[T]) Dispose() {
	s.rt.Dispose(s.id)
}

// Value panics with a *NodeError when the value is disposed.
func (s StoredValue[T]) Value() T {
	p, err := s.ref()
	if err != nil {
		panic(s.rt.nodeError(s.id, err))
	}
	return *p
}

func (s StoredValue[T]) TryValue() (T, bool) {
	p, err := s.ref()
	if err != nil {
		var zero T
		return zero, false
	}
	return *p, true
}

func (s StoredValue[T]) SetValue(v T) bool {
	return s.Update(func(p *T) { *p = v })
}

// Update mutates the value in place.
func (s StoredValue[T]) Update(fn func(*T)) bool {
	p, err := s.ref()
	if err != nil {
		return false
	}
	fn(p)
	return true
}
