package reactor

import "github.com/delaneyj/reactor/value"

// Trigger is a signal without a value, used to rerun computations when some
// state outside the runtime changes.
type Trigger struct {
	rt *Runtime
	id NodeID
}

func NewTrigger(rt *Runtime) Trigger {
	id := rt.registerNode()
	rt.signals.Insert(id, signalData{value: value.New(struct{}{})})
	return Trigger{rt: rt, id: id}
}

func (t Trigger) ID() NodeID {
	return t.id
}

func (t Trigger) IsDisposed() bool {
	return t.rt.IsDisposed(t.id)
}

func (t Trigger) Dispose() {
	t.rt.Dispose(t.id)
}

// Track subscribes the running computation.
func (t Trigger) Track() {
	if t.rt.graph.Contains(t.id) {
		t.rt.track(t.id)
	}
}

// Notify reruns everything that tracked the trigger.
func (t Trigger) Notify() bool {
	return Write(t.rt, t.id, true, func(*struct{}) {}) == nil
}
