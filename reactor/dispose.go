package reactor

import "slices"

// Dispose destroys id and everything it owns. Disposing an already disposed
// node is a no-op.
//
// All cleanups of the subtree run first, parents before children, while
// every node in it is still alive. Only then are the nodes unlinked from the
// graph and their storage released.
func (rt *Runtime) Dispose(id NodeID) {
	rt.checkGoroutine()
	n, ok := rt.graph.Get(id)
	if !ok {
		return
	}
	if parent := n.parent; !parent.IsZero() && rt.graph.Contains(parent) {
		if aux, ok := rt.aux.Get(parent); ok {
			if i := slices.Index(aux.children, id); i >= 0 {
				aux.children = slices.Delete(aux.children, i, i+1)
			}
		}
	}
	rt.disposeTrees(id)
}

// OnCleanup registers fn to run when the current owner reruns or is
// disposed. Without an owner fn is dropped.
func (rt *Runtime) OnCleanup(fn func()) {
	if rt.owner.IsZero() || !rt.graph.Contains(rt.owner) {
		rt.log.Debug("cleanup registered without an owner is ignored")
		return
	}
	rt.auxOf(rt.owner).cleanups.Push(fn)
}

func (rt *Runtime) disposeTrees(roots ...NodeID) {
	order := rt.workspace.Buffer()
	defer func() {
		rt.workspace.ReleaseBuffer(order)
	}()

	for _, root := range roots {
		if rt.graph.Contains(root) {
			order = append(order, root)
		}
	}
	for i := 0; i < len(order); i++ {
		aux, ok := rt.aux.Get(order[i])
		if !ok {
			continue
		}
		for _, child := range aux.children {
			if rt.graph.Contains(child) {
				order = append(order, child)
			}
		}
	}

	for _, id := range order {
		if !rt.graph.Contains(id) {
			continue
		}
		if aux, ok := rt.aux.Get(id); ok && aux.cleanups.Len() > 0 {
			cleanups := aux.cleanups.Take()
			rt.runCleanups(&cleanups)
		}
	}

	for _, id := range order {
		rt.release(id)
	}
}

// release unlinks id from both sides of the dependency graph and frees its
// slot and every store entry.
func (rt *Runtime) release(id NodeID) {
	n, ok := rt.graph.Get(id)
	if !ok {
		return
	}

	if eff, ok := rt.effects.Get(id); ok {
		deps := eff.dependencies.Take()
		rt.unsubscribe(id, &deps)
	}
	if sig, ok := rt.signals.Get(id); ok {
		for i := 0; i < sig.subscribers.Len(); i++ {
			sub := sig.subscribers.At(i)
			if !rt.graph.Contains(sub) {
				continue
			}
			if eff, ok := rt.effects.Get(sub); ok {
				eff.dependencies.RemoveFunc(func(d dependency) bool {
					return d.id == id
				})
			}
		}
		sig.subscribers.Clear()
		sig.value.Drop()
	}
	if v, ok := rt.stored.Get(id); ok {
		v.Drop()
	}
	if v, ok := rt.callbacks.Get(id); ok {
		v.Drop()
	}

	aux, _ := rt.aux.Remove(id)
	for _, v := range aux.context {
		v.Drop()
	}
	if rt.debug {
		rt.deadLabels.Insert(id, deadLabel{
			generation: id.Generation,
			label:      aux.label,
			definedAt:  n.definedAt,
		})
	}

	rt.signals.Remove(id)
	rt.effects.Remove(id)
	rt.states.Remove(id)
	rt.stored.Remove(id)
	rt.callbacks.Remove(id)
	rt.queued.Remove(id)
	rt.graph.Remove(id)
	rt.stats.disposals++
}
