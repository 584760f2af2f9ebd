package reactor

import (
	"github.com/delaneyj/reactor/algorithm"
	"github.com/delaneyj/reactor/arena"
	"github.com/delaneyj/reactor/list"
	"github.com/delaneyj/reactor/value"
	"go.uber.org/zap"
)

// dedupScanLimit is the number of dependencies a computation may have before
// repeated reads are detected with a set instead of a linear scan.
const dedupScanLimit = 32

// Runtime owns every node of one reactive graph. A Runtime is confined to the
// goroutine that uses it; create one per goroutine instead of sharing.
type Runtime struct {
	graph      arena.Arena[node]
	aux        arena.SparseMap[nodeAux]
	signals    arena.SparseMap[signalData]
	effects    arena.SparseMap[effectData]
	states     arena.SparseMap[algorithm.NodeState]
	stored     arena.SparseMap[value.Value]
	callbacks  arena.SparseMap[value.Value]
	queued     arena.SparseMap[struct{}]
	deadLabels arena.SparseMap[deadLabel]

	workspace *algorithm.Workspace
	observers algorithm.Queue
	adapter   *graphAdapter

	owner      NodeID
	observer   NodeID
	pauseStack []NodeID
	batchDepth int
	running    bool

	debug          bool
	goroutine      uint64
	log            *zap.Logger
	onError        OnErrorFunc
	workspaceLimit int
	stats          counters
}

// New creates an empty runtime.
func New(opts ...Option) *Runtime {
	rt := &Runtime{log: Logger()}
	for _, opt := range opts {
		opt(rt)
	}
	rt.workspace = algorithm.NewWorkspace(rt.workspaceLimit)
	rt.adapter = &graphAdapter{rt: rt}
	if rt.debug {
		rt.goroutine = goroutineID()
	}
	return rt
}

// registerNode allocates a node owned by the current owner.
func (rt *Runtime) registerNode() NodeID {
	rt.checkGoroutine()
	n := node{}
	if !rt.owner.IsZero() && rt.graph.Contains(rt.owner) {
		n.parent = rt.owner
	}
	if rt.debug {
		n.definedAt = callerOutsidePackage()
	}
	id := rt.graph.Insert(n)
	if !n.parent.IsZero() {
		aux := rt.auxOf(n.parent)
		aux.children = append(aux.children, id)
	}
	return id
}

func (rt *Runtime) auxOf(id NodeID) *nodeAux {
	if aux, ok := rt.aux.Get(id); ok {
		return aux
	}
	rt.aux.Insert(id, nodeAux{})
	aux, _ := rt.aux.Get(id)
	return aux
}

// IsDisposed reports whether id no longer refers to a live node.
func (rt *Runtime) IsDisposed(id NodeID) bool {
	return !rt.graph.Contains(id)
}

// Owner returns the node that currently owns newly created nodes.
func (rt *Runtime) Owner() NodeID {
	return rt.owner
}

// RunWithOwner runs fn untracked with owner as the current owner, so nodes it
// creates are disposed together with owner.
func (rt *Runtime) RunWithOwner(owner NodeID, fn func()) error {
	if !rt.graph.Contains(owner) {
		return rt.nodeError(owner, ErrDisposed)
	}
	prevOwner, prevObserver := rt.owner, rt.observer
	rt.owner, rt.observer = owner, NodeID{}
	defer func() {
		rt.owner, rt.observer = prevOwner, prevObserver
	}()
	fn()
	return nil
}

// track subscribes the running computation to target.
func (rt *Runtime) track(target NodeID) {
	observer := rt.observer
	if observer.IsZero() || observer == target || !rt.graph.Contains(observer) {
		return
	}
	eff, ok := rt.effects.Get(observer)
	if !ok {
		return
	}
	sig, ok := rt.signals.Get(target)
	if !ok {
		return
	}
	if sig.trackedBy == observer && sig.trackedRun == eff.version {
		return
	}
	sig.trackedBy, sig.trackedRun = observer, eff.version
	if eff.dependsOn(target) {
		return
	}
	sig.subscribers.Push(observer)
	eff.dependencies.Push(dependency{id: target, version: sig.version})
	if eff.tracked != nil {
		eff.tracked[target] = struct{}{}
	}
}

// dependsOn reports whether target was already tracked in the current run.
// The per-signal cache misses when a nested computation read the same signal
// in between.
func (eff *effectData) dependsOn(target NodeID) bool {
	n := eff.dependencies.Len()
	if n <= dedupScanLimit {
		for i := 0; i < n; i++ {
			if eff.dependencies.At(i).id == target {
				return true
			}
		}
		return false
	}
	if eff.tracked == nil {
		eff.tracked = make(map[NodeID]struct{}, n)
		for i := 0; i < n; i++ {
			eff.tracked[eff.dependencies.At(i).id] = struct{}{}
		}
	}
	_, ok := eff.tracked[target]
	return ok
}

// notify marks everything downstream of id and flushes queued effects unless
// a batch is open.
func (rt *Runtime) notify(id NodeID) {
	rt.stats.propagations++
	algorithm.Propagate(rt.adapter, id, rt.workspace)
	if rt.batchDepth == 0 {
		rt.runQueue()
	}
}

func (rt *Runtime) evaluate(id NodeID) {
	if rt.isRunning(id) {
		return
	}
	algorithm.Evaluate(rt.adapter, id, rt.workspace)
}

// isRunning reports whether the computation of id is executing.
func (rt *Runtime) isRunning(id NodeID) bool {
	eff, ok := rt.effects.Get(id)
	return ok && eff.computation == nil
}

// runQueue drains queued effects in FIFO order. Nested calls return at once
// and leave the work to the outermost loop.
func (rt *Runtime) runQueue() {
	if rt.running {
		return
	}
	rt.running = true
	defer func() {
		rt.running = false
	}()

	for rt.observers.Len() > 0 {
		id := rt.observers.PopFront()
		if !rt.graph.Contains(id) {
			continue
		}
		rt.queued.Remove(id)

		// an owning effect that reruns disposes id, so it goes first
		if owner := rt.staleOwnerEffect(id); !owner.IsZero() {
			rt.evaluate(owner)
			if !rt.graph.Contains(id) {
				continue
			}
		}
		rt.evaluate(id)
	}
	rt.stats.queueFlushes++
}

// staleOwnerEffect returns the outermost effect above id that is not Clean.
func (rt *Runtime) staleOwnerEffect(id NodeID) NodeID {
	var outermost NodeID
	n, ok := rt.graph.Get(id)
	for ok && !n.parent.IsZero() {
		parent := n.parent
		if rt.adapter.IsEffect(parent) && rt.adapter.State(parent) != algorithm.Clean && !rt.isRunning(parent) {
			outermost = parent
		}
		n, ok = rt.graph.Get(parent)
	}
	return outermost
}

// runComputation re-executes a memo or effect. Before running, the node's
// cleanups run, its children are disposed and its old dependencies are
// dropped so the new run records a fresh set.
func (rt *Runtime) runComputation(id NodeID) bool {
	if !rt.graph.Contains(id) {
		return false
	}
	eff, ok := rt.effects.Get(id)
	if !ok || eff.computation == nil {
		return false
	}
	fn := eff.computation
	eff.computation = nil
	eff.version++
	deps := eff.dependencies.Take()
	clear(eff.tracked)

	if rt.signals.Contains(id) {
		rt.stats.memoRuns++
	} else {
		rt.stats.effectRuns++
	}

	prevOwner, prevObserver := rt.owner, rt.observer
	completed := false
	defer func() {
		rt.owner, rt.observer = prevOwner, prevObserver
		if !rt.graph.Contains(id) {
			return
		}
		eff, ok := rt.effects.Get(id)
		if !ok {
			return
		}
		eff.computation = fn
		if !completed {
			rt.adapter.SetState(id, algorithm.Dirty)
			return
		}
		rt.rerunIfMarked(id)
	}()

	rt.resetNode(id, &deps)
	rt.owner, rt.observer = id, id
	changed := fn()
	completed = true
	return changed
}

// rerunIfMarked queues an effect that was marked again by a write made while
// it ran.
func (rt *Runtime) rerunIfMarked(id NodeID) {
	if !rt.adapter.IsEffect(id) || rt.adapter.State(id) == algorithm.Clean {
		return
	}
	rt.adapter.QueueEffect(id)
	if rt.batchDepth == 0 {
		rt.runQueue()
	}
}

// resetNode runs the cleanups of id, disposes its children and unsubscribes
// it from deps.
func (rt *Runtime) resetNode(id NodeID, deps *list.List[dependency]) {
	if aux, ok := rt.aux.Get(id); ok {
		cleanups := aux.cleanups.Take()
		children := aux.children
		aux.children = nil
		rt.runCleanups(&cleanups)
		if len(children) > 0 {
			rt.disposeTrees(children...)
		}
	}
	rt.unsubscribe(id, deps)
}

func (rt *Runtime) runCleanups(cleanups *list.List[func()]) {
	if cleanups.Len() == 0 {
		return
	}
	prevOwner, prevObserver := rt.owner, rt.observer
	rt.owner, rt.observer = NodeID{}, NodeID{}
	defer func() {
		rt.owner, rt.observer = prevOwner, prevObserver
	}()
	for i := 0; i < cleanups.Len(); i++ {
		cleanups.At(i)()
	}
}

func (rt *Runtime) unsubscribe(id NodeID, deps *list.List[dependency]) {
	for i := 0; i < deps.Len(); i++ {
		dep := deps.At(i).id
		if !rt.graph.Contains(dep) {
			continue
		}
		if sig, ok := rt.signals.Get(dep); ok {
			list.Remove(&sig.subscribers, id)
		}
	}
}

func (rt *Runtime) reportError(id NodeID, err error) {
	if rt.onError != nil {
		rt.onError(id, err)
		return
	}
	rt.log.Warn("effect returned an error",
		zap.Stringer("node", id),
		zap.String("label", rt.DebugLabel(id)),
		zap.Error(err),
	)
}
