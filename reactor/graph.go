package reactor

import (
	"github.com/delaneyj/reactor/algorithm"
	"github.com/delaneyj/reactor/arena"
)

// graphAdapter exposes the runtime stores to the algorithm package.
type graphAdapter struct {
	rt *Runtime
}

var _ algorithm.Graph = (*graphAdapter)(nil)

func (g *graphAdapter) State(id arena.Handle) algorithm.NodeState {
	if !g.rt.graph.Contains(id) {
		return algorithm.Clean
	}
	if s, ok := g.rt.states.Get(id); ok {
		return *s
	}
	return algorithm.Clean
}

func (g *graphAdapter) SetState(id arena.Handle, state algorithm.NodeState) {
	if !g.rt.graph.Contains(id) {
		return
	}
	if s, ok := g.rt.states.Get(id); ok {
		*s = state
	}
}

func (g *graphAdapter) AppendSubscribers(id arena.Handle, dst []arena.Handle) []arena.Handle {
	if sig, ok := g.rt.signals.Get(id); ok {
		return sig.subscribers.AppendTo(dst)
	}
	return dst
}

func (g *graphAdapter) AppendDependencies(id arena.Handle, dst []arena.Handle) []arena.Handle {
	eff, ok := g.rt.effects.Get(id)
	if !ok {
		return dst
	}
	for i := 0; i < eff.dependencies.Len(); i++ {
		dst = append(dst, eff.dependencies.At(i).id)
	}
	return dst
}

func (g *graphAdapter) IsEffect(id arena.Handle) bool {
	return g.rt.effects.Contains(id) && !g.rt.signals.Contains(id)
}

func (g *graphAdapter) QueueEffect(id arena.Handle) {
	if g.rt.queued.Contains(id) {
		return
	}
	g.rt.queued.Insert(id, struct{}{})
	g.rt.observers.PushBack(id)
}

func (g *graphAdapter) RunComputation(id arena.Handle) bool {
	return g.rt.runComputation(id)
}

func (g *graphAdapter) DependenciesChanged(id arena.Handle) bool {
	eff, ok := g.rt.effects.Get(id)
	if !ok {
		return false
	}
	for i := 0; i < eff.dependencies.Len(); i++ {
		dep := eff.dependencies.At(i)
		if !g.rt.graph.Contains(dep.id) {
			return true
		}
		sig, ok := g.rt.signals.Get(dep.id)
		if !ok || sig.version != dep.version {
			return true
		}
	}
	return false
}
