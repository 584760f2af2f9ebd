package algorithm

import "github.com/delaneyj/reactor/arena"

// Graph is the view of a dependency graph that Propagate and Evaluate work
// against. Handles that no longer exist must read as Clean with no edges.
type Graph interface {
	// State returns the node's state. Nodes without a state are Clean.
	State(id arena.Handle) NodeState
	SetState(id arena.Handle, state NodeState)

	// AppendSubscribers appends the nodes that read id.
	AppendSubscribers(id arena.Handle, dst []arena.Handle) []arena.Handle
	// AppendDependencies appends the nodes id read during its last run.
	AppendDependencies(id arena.Handle, dst []arena.Handle) []arena.Handle

	// IsEffect reports whether id is a side-effecting computation with no
	// value of its own.
	IsEffect(id arena.Handle) bool
	// QueueEffect schedules an effect. Repeated calls before the effect runs
	// must not schedule it twice.
	QueueEffect(id arena.Handle)

	// RunComputation re-executes id and reports whether its value changed.
	RunComputation(id arena.Handle) bool
	// DependenciesChanged reports whether any dependency's version differs
	// from the one recorded when id last ran.
	DependenciesChanged(id arena.Handle) bool
}
