package reactor

import (
	"fmt"
	"reflect"

	"github.com/delaneyj/reactor/value"
	"go.uber.org/zap"
)

// ProvideContext makes v visible to UseContext calls made by the current owner
// and everything below it. A later value of the same type on the same owner
// replaces the earlier one.
func ProvideContext[T any](rt *Runtime, v T) error {
	owner := rt.owner
	if owner.IsZero() || !rt.graph.Contains(owner) {
		rt.log.Debug("context provided without an owner is ignored",
			zap.Stringer("type", reflect.TypeOf((*T)(nil)).Elem()),
		)
		return ErrNoOwner
	}
	aux := rt.auxOf(owner)
	if aux.context == nil {
		aux.context = make(map[reflect.Type]value.Value, 1)
	}
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if old, ok := aux.context[typ]; ok {
		old.Drop()
	}
	aux.context[typ] = value.New(v)
	return nil
}

// UseContext returns the nearest value of type T provided by the current
// owner or one of its ancestors.
func UseContext[T any](rt *Runtime) (T, bool) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	for current := rt.owner; !current.IsZero(); {
		n, ok := rt.graph.Get(current)
		if !ok {
			break
		}
		if aux, ok := rt.aux.Get(current); ok && aux.context != nil {
			if v, ok := aux.context[typ]; ok {
				return value.Get[T](&v)
			}
		}
		current = n.parent
	}
	rt.log.Debug("context not found", zap.Stringer("type", typ))
	var zero T
	return zero, false
}

// ExpectContext is UseContext for values that must exist. It panics with a
// *NodeError wrapping ErrMissingContext otherwise.
func ExpectContext[T any](rt *Runtime) T {
	v, ok := UseContext[T](rt)
	if !ok {
		panic(rt.nodeError(rt.owner, fmt.Errorf("%w: %s", ErrMissingContext, reflect.TypeOf((*T)(nil)).Elem())))
	}
	return v
}
