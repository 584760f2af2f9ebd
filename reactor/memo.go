package reactor

import (
	"github.com/delaneyj/reactor/algorithm"
	"github.com/delaneyj/reactor/value"
)

// Memo is a cached derived value. It computes lazily on first read and
// recomputes only when something it read has changed.
type Memo[T any] struct {
	reader[T]
}

func (m Memo[T]) Dispose() {
	m.rt.Dispose(m.id)
}

func (m Memo[T]) WithName(label string) Memo[T] {
	m.rt.SetDebugLabel(m.id, label)
	return m
}

// Computed creates a memo from getter. getter receives the previous value,
// nil on the first run. Readers of the memo rerun only when the new value
// differs from the previous one.
func Computed[T comparable](rt *Runtime, getter func(prev *T) T) Memo[T] {
	return ComputedFunc(rt, getter, func(a, b T) bool {
		return a == b
	})
}

// ComputedFunc is Computed with a caller supplied equality for types that are
// not comparable.
func ComputedFunc[T any](rt *Runtime, getter func(prev *T) T, equal func(a, b T) bool) Memo[T] {
	id := rt.registerNode()
	var zero T
	rt.signals.Insert(id, signalData{value: value.New(zero)})

	initialized := false
	compute := func() bool {
		var (
			old  T
			prev *T
		)
		if initialized {
			sig, ok := rt.signals.Get(id)
			if !ok {
				return false
			}
			p, ok := value.Ref[T](&sig.value)
			if !ok {
				return false
			}
			old = *p
			prev = &old
		}

		next := getter(prev)

		if !rt.graph.Contains(id) {
			return false
		}
		if initialized && equal(old, next) {
			return false
		}
		sig, ok := rt.signals.Get(id)
		if !ok || !value.Set(&sig.value, next) {
			return false
		}
		initialized = true
		sig.version++
		return true
	}

	rt.effects.Insert(id, effectData{computation: compute})
	rt.states.Insert(id, algorithm.Dirty)
	return Memo[T]{reader[T]{rt: rt, id: id}}
}
