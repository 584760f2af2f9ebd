package reactor

import "github.com/delaneyj/reactor/value"

// Readable is implemented by every handle that exposes a reactive value.
type Readable[T any] interface {
	ID() NodeID
	Value() T
	Peek() T
	With(fn func(*T))
	PeekWith(fn func(*T))
}

type reader[T any] struct {
	rt *Runtime
	id NodeID
}

func (r reader[T]) ID() NodeID {
	return r.id
}

func (r reader[T]) IsDisposed() bool {
	return r.rt.IsDisposed(r.id)
}

// Value returns the current value and subscribes the running computation. It
// panics with a *NodeError when the node is disposed.
func (r reader[T]) Value() T {
	v, err := Read[T](r.rt, r.id)
	return must(r.rt, r.id, v, err)
}

func (r reader[T]) TryValue() (T, bool) {
	v, err := Read[T](r.rt, r.id)
	return v, err == nil
}

// Peek returns the current value without subscribing.
func (r reader[T]) Peek() T {
	v, err := ReadUntracked[T](r.rt, r.id)
	return must(r.rt, r.id, v, err)
}

func (r reader[T]) TryPeek() (T, bool) {
	v, err := ReadUntracked[T](r.rt, r.id)
	return v, err == nil
}

// With calls fn with a pointer to the value and subscribes the running
// computation. fn must not write through the pointer.
func (r reader[T]) With(fn func(*T)) {
	_, err := With(r.rt, r.id, true, func(p *T) struct{} {
		fn(p)
		return struct{}{}
	})
	must(r.rt, r.id, struct{}{}, err)
}

func (r reader[T]) TryWith(fn func(*T)) bool {
	_, err := With(r.rt, r.id, true, func(p *T) struct{} {
		fn(p)
		return struct{}{}
	})
	return err == nil
}

func (r reader[T]) PeekWith(fn func(*T)) {
	_, err := With(r.rt, r.id, false, func(p *T) struct{} {
		fn(p)
		return struct{}{}
	})
	must(r.rt, r.id, struct{}{}, err)
}

// Track subscribes the running computation without reading the value.
func (r reader[T]) Track() {
	if r.rt.graph.Contains(r.id) {
		r.rt.evaluate(r.id)
		r.rt.track(r.id)
	}
}

type writer[T any] struct {
	rt *Runtime
	id NodeID
}

// SetValue replaces the value and reruns everything that depends on it.
// Writing to a disposed signal is a logged no-op.
func (w writer[T]) SetValue(v T) {
	w.TrySetValue(v)
}

func (w writer[T]) TrySetValue(v T) bool {
	return Write(w.rt, w.id, true, func(p *T) { *p = v }) == nil
}

// Update mutates the value in place and reruns everything that depends on
// it.
func (w writer[T]) Update(fn func(*T)) {
	w.TryUpdate(fn)
}

func (w writer[T]) TryUpdate(fn func(*T)) bool {
	return Write(w.rt, w.id, true, fn) == nil
}

// SetUntracked replaces the value without notifying dependents.
func (w writer[T]) SetUntracked(v T) {
	_ = Write(w.rt, w.id, false, func(p *T) { *p = v })
}

func (w writer[T]) UpdateUntracked(fn func(*T)) {
	_ = Write(w.rt, w.id, false, fn)
}

// ReadSignal is the read half of a signal.
type ReadSignal[T any] struct {
	reader[T]
}

// WriteSignal is the write half of a signal.
type WriteSignal[T any] struct {
	writer[T]
}

func (w WriteSignal[T]) ID() NodeID {
	return w.id
}

func (w WriteSignal[T]) IsDisposed() bool {
	return w.rt.IsDisposed(w.id)
}

// RWSignal is a signal that can be both read and written.
type RWSignal[T any] struct {
	reader[T]
	writer[T]
}

func (s RWSignal[T]) ID() NodeID {
	return s.reader.id
}

func (s RWSignal[T]) Read() ReadSignal[T] {
	return ReadSignal[T]{s.reader}
}

func (s RWSignal[T]) Write() WriteSignal[T] {
	return WriteSignal[T]{s.writer}
}

func (s RWSignal[T]) Split() (ReadSignal[T], WriteSignal[T]) {
	return s.Read(), s.Write()
}

func (s RWSignal[T]) Dispose() {
	s.reader.rt.Dispose(s.reader.id)
}

// WithName attaches a debug label.
func (s RWSignal[T]) WithName(label string) RWSignal[T] {
	s.reader.rt.SetDebugLabel(s.reader.id, label)
	return s
}

func (s ReadSignal[T]) WithName(label string) ReadSignal[T] {
	s.rt.SetDebugLabel(s.id, label)
	return s
}

// Signal creates a signal holding v and returns its read and write halves.
func Signal[T any](rt *Runtime, v T) (ReadSignal[T], WriteSignal[T]) {
	return NewSignal(rt, v).Split()
}

// NewSignal creates a signal holding v.
func NewSignal[T any](rt *Runtime, v T) RWSignal[T] {
	id := rt.registerNode()
	rt.signals.Insert(id, signalData{value: value.New(v)})
	return RWSignal[T]{
		reader: reader[T]{rt: rt, id: id},
		writer: writer[T]{rt: rt, id: id},
	}
}
