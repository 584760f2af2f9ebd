package reactor

// Scope owns the nodes created while its function ran.
type Scope struct {
	rt *Runtime
	id NodeID
}

// CreateScope runs fn with a new owner node and returns it. Reads inside fn
// are untracked, even when the scope is created by a running effect.
// Disposing the scope disposes everything created inside fn.
func CreateScope(rt *Runtime, fn func()) Scope {
	id := rt.registerNode()
	prevOwner, prevObserver := rt.owner, rt.observer
	rt.owner, rt.observer = id, NodeID{}
	defer func() {
		rt.owner, rt.observer = prevOwner, prevObserver
	}()
	fn()
	return Scope{rt: rt, id: id}
}

func (s Scope) ID() NodeID {
	return s.id
}

func (s Scope) IsDisposed() bool {
	return s.rt.IsDisposed(s.id)
}

func (s Scope) Dispose() {
	s.rt.Dispose(s.id)
}

// Run runs fn with the scope as owner.
func (s Scope) Run(fn func()) error {
	return s.rt.RunWithOwner(s.id, fn)
}

func (s Scope) WithName(label string) Scope {
	s.rt.SetDebugLabel(s.id, label)
	return s
}
