package reactor

import (
	"reflect"

	"github.com/delaneyj/reactor/arena"
	"github.com/delaneyj/reactor/list"
	"github.com/delaneyj/reactor/value"
)

// NodeID identifies a node of a Runtime. IDs of disposed nodes stay invalid
// even after their slot is reused.
type NodeID = arena.Handle

type node struct {
	parent    NodeID
	definedAt string
}

type nodeAux struct {
	children []NodeID
	cleanups list.List[func()]
	context  map[reflect.Type]value.Value
	label    string
}

type dependency struct {
	id      NodeID
	version uint32
}

type signalData struct {
	value       value.Value
	subscribers list.List[NodeID]
	// version counts writes, or value changes for memos.
	version uint32
	// trackedBy and trackedRun remember the last computation run that
	// subscribed, so repeated reads in one run subscribe once.
	trackedBy  NodeID
	trackedRun uint32
}

type effectData struct {
	// computation is nil while it runs.
	computation  func() bool
	dependencies list.List[dependency]
	// tracked mirrors dependencies once there are more than dedupScanLimit.
	tracked map[NodeID]struct{}
	// version counts runs.
	version uint32
}

type deadLabel struct {
	generation uint32
	label      string
	definedAt  string
}

// NodeKind is the role of a node, derived from the stores it has entries in.
type NodeKind uint8

const (
	KindScope NodeKind = iota
	KindSignal
	KindMemo
	KindEffect
	KindStoredValue
	KindCallback
)

func (k NodeKind) String() string {
	switch k {
	case KindScope:
		return "scope"
	case KindSignal:
		return "signal"
	case KindMemo:
		return "memo"
	case KindEffect:
		return "effect"
	case KindStoredValue:
		return "stored"
	case KindCallback:
		return "callback"
	default:
		return "unknown"
	}
}

func (rt *Runtime) kindOf(id NodeID) NodeKind {
	signal, effect := rt.signals.Contains(id), rt.effects.Contains(id)
	switch {
	case signal && effect:
		return KindMemo
	case signal:
		return KindSignal
	case effect:
		return KindEffect
	case rt.stored.Contains(id):
		return KindStoredValue
	case rt.callbacks.Contains(id):
		return KindCallback
	default:
		return KindScope
	}
}
