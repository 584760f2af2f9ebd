package reactor

import "github.com/delaneyj/reactor/algorithm"

type ErrFn func() error

// EffectHandle refers to a running effect.
type EffectHandle struct {
	rt *Runtime
	id NodeID
}

func (e EffectHandle) ID() NodeID {
	return e.id
}

func (e EffectHandle) IsDisposed() bool {
	return e.rt.IsDisposed(e.id)
}

// Dispose stops the effect, runs its cleanups and disposes what it owns.
func (e EffectHandle) Dispose() {
	e.rt.Dispose(e.id)
}

func (e EffectHandle) WithName(label string) EffectHandle {
	e.rt.SetDebugLabel(e.id, label)
	return e
}

// Effect runs fn now and again whenever something it read changes. Errors
// returned by fn go to the runtime's error handler.
func Effect(rt *Runtime, fn ErrFn) EffectHandle {
	id := rt.registerNode()
	rt.effects.Insert(id, effectData{computation: func() bool {
		if err := fn(); err != nil {
			rt.reportError(id, err)
		}
		return true
	}})
	rt.states.Insert(id, algorithm.Dirty)
	rt.evaluate(id)
	return EffectHandle{rt: rt, id: id}
}

// Watch runs callback whenever the value produced by source changes. source
// is tracked, callback is not. The previous value is nil on the first call.
// With immediate false the first value is only recorded.
func Watch[T comparable](rt *Runtime, source func() T, callback func(next T, prev *T), immediate bool) EffectHandle {
	return WatchFunc(rt, source, callback, immediate, func(a, b T) bool {
		return a == b
	})
}

// WatchFunc is Watch with a caller supplied equality for types that are not
// comparable.
func WatchFunc[T any](rt *Runtime, source func() T, callback func(next T, prev *T), immediate bool, equal func(a, b T) bool) EffectHandle {
	var (
		prev    T
		hasPrev bool
	)
	return Effect(rt, func() error {
		next := source()
		if hasPrev && equal(prev, next) {
			return nil
		}
		rt.Untrack(func() {
			switch {
			case hasPrev:
				old := prev
				callback(next, &old)
			case immediate:
				callback(next, nil)
			}
		})
		prev, hasPrev = next, true
		return nil
	})
}
