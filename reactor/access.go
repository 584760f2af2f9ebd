package reactor

import (
	"github.com/delaneyj/reactor/value"
	"go.uber.org/zap"
)

// ref resolves the value of a signal or memo, bringing memos up to date
// first. The returned pointer is valid until the node is written or
// disposed.
func ref[T any](rt *Runtime, id NodeID, tracked bool) (*T, error) {
	rt.checkGoroutine()
	if !rt.graph.Contains(id) {
		return nil, ErrDisposed
	}
	rt.evaluate(id)
	sig, ok := rt.signals.Get(id)
	if !ok || !rt.graph.Contains(id) {
		return nil, ErrNotReadable
	}
	p, ok := value.Ref[T](&sig.value)
	if !ok {
		rt.logMismatch(id, &sig.value)
		return nil, ErrTypeMismatch
	}
	if tracked {
		rt.track(id)
	}
	return p, nil
}

func (rt *Runtime) logMismatch(id NodeID, v *value.Value) {
	rt.log.Debug("signal accessed with the wrong type",
		zap.Stringer("node", id),
		zap.Stringer("held", v.Type()),
	)
}

// Read returns the value of the signal or memo id and subscribes the running
// computation to it.
func Read[T any](rt *Runtime, id NodeID) (T, error) {
	p, err := ref[T](rt, id, true)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// ReadUntracked is Read without the subscription.
func ReadUntracked[T any](rt *Runtime, id NodeID) (T, error) {
	p, err := ref[T](rt, id, false)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// With calls fn with a pointer to the value of id without copying it. fn
// must not retain the pointer or write through it.
func With[T, U any](rt *Runtime, id NodeID, tracked bool, fn func(*T) U) (U, error) {
	p, err := ref[T](rt, id, tracked)
	if err != nil {
		var zero U
		return zero, err
	}
	return fn(p), nil
}

// Write mutates the signal id in place and bumps its version. A notifying
// write also reruns everything downstream; a silent one leaves dependents
// alone until something else makes them check.
func Write[T any](rt *Runtime, id NodeID, notify bool, fn func(*T)) error {
	rt.checkGoroutine()
	if !rt.graph.Contains(id) {
		rt.log.Debug("write to disposed signal ignored", zap.Stringer("node", id))
		return ErrDisposed
	}
	sig, ok := rt.signals.Get(id)
	if !ok {
		return ErrNotReadable
	}
	p, ok := value.Ref[T](&sig.value)
	if !ok {
		rt.logMismatch(id, &sig.value)
		return ErrTypeMismatch
	}
	fn(p)
	if !rt.graph.Contains(id) {
		return nil
	}
	sig.version++
	if notify {
		rt.notify(id)
	}
	return nil
}

// Version returns how many writes the signal id has seen, or for a memo how
// many times its value changed.
func (rt *Runtime) Version(id NodeID) (uint32, bool) {
	if !rt.graph.Contains(id) {
		return 0, false
	}
	sig, ok := rt.signals.Get(id)
	if !ok {
		return 0, false
	}
	return sig.version, true
}

func must[T any](rt *Runtime, id NodeID, v T, err error) T {
	if err != nil {
		panic(rt.nodeError(id, err))
	}
	return v
}
