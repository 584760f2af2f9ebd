package reactor

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/reactor/algorithm"
)

// NodeInfo describes one node of a Snapshot.
type NodeInfo struct {
	ID           NodeID
	Parent       NodeID
	Kind         NodeKind
	Label        string
	DefinedAt    string
	State        algorithm.NodeState
	Version      uint32
	Value        any
	Children     []NodeID
	Subscribers  []NodeID
	Dependencies []NodeID
}

// Snapshot is a copy of the graph structure, ordered by node index.
type Snapshot struct {
	Nodes []NodeInfo
}

// Snapshot copies the current graph.
func (rt *Runtime) Snapshot() Snapshot {
	snap := Snapshot{Nodes: make([]NodeInfo, 0, rt.graph.Len())}
	rt.graph.Each(func(id NodeID, n *node) bool {
		info := NodeInfo{
			ID:        id,
			Parent:    n.parent,
			Kind:      rt.kindOf(id),
			DefinedAt: n.definedAt,
			State:     rt.adapter.State(id),
		}
		if aux, ok := rt.aux.Get(id); ok {
			info.Label = aux.label
			info.Children = append([]NodeID(nil), aux.children...)
		}
		if sig, ok := rt.signals.Get(id); ok {
			info.Version = sig.version
			info.Value = sig.value.Any()
			info.Subscribers = sig.subscribers.AppendTo(nil)
		}
		info.Dependencies = rt.adapter.AppendDependencies(id, nil)
		snap.Nodes = append(snap.Nodes, info)
		return true
	})
	return snap
}

// Fingerprint hashes the shape of the graph: node ids, kinds, ownership and
// dependency edges. Values, versions and states are left out, so two
// snapshots of the same structure match regardless of the data flowing
// through it.
func (s Snapshot) Fingerprint() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 64)
	putID := func(id NodeID) {
		buf = binary.LittleEndian.AppendUint32(buf, id.Index)
		buf = binary.LittleEndian.AppendUint32(buf, id.Generation)
	}
	for _, n := range s.Nodes {
		buf = buf[:0]
		putID(n.ID)
		putID(n.Parent)
		buf = append(buf, byte(n.Kind))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(n.Dependencies)))
		d.Write(buf)
		for _, dep := range n.Dependencies {
			buf = buf[:0]
			putID(dep)
			d.Write(buf)
		}
	}
	return d.Sum64()
}

type edge struct {
	from, to NodeID
}

// CheckInvariants verifies that the graph is consistent: both directions of
// every dependency edge are recorded, every referenced node is alive and
// parent and child links agree. It returns all violations joined.
func (rt *Runtime) CheckInvariants() error {
	snap := rt.Snapshot()
	live := mapset.NewThreadUnsafeSet[NodeID]()
	for _, n := range snap.Nodes {
		live.Add(n.ID)
	}

	var errs []error
	bySubscribers := mapset.NewThreadUnsafeSet[edge]()
	byDependencies := mapset.NewThreadUnsafeSet[edge]()
	for _, n := range snap.Nodes {
		for _, sub := range n.Subscribers {
			if !bySubscribers.Add(edge{from: n.ID, to: sub}) {
				errs = append(errs, fmt.Errorf("%s lists subscriber %s twice", n.ID, sub))
			}
		}
		for _, dep := range n.Dependencies {
			if !byDependencies.Add(edge{from: dep, to: n.ID}) {
				errs = append(errs, fmt.Errorf("%s lists dependency %s twice", n.ID, dep))
			}
		}
		for _, child := range n.Children {
			if !live.Contains(child) {
				errs = append(errs, fmt.Errorf("%s owns disposed child %s", n.ID, child))
			}
		}
		if !n.Parent.IsZero() && !live.Contains(n.Parent) {
			errs = append(errs, fmt.Errorf("%s has disposed parent %s", n.ID, n.Parent))
		}
	}

	bySubscribers.SymmetricDifference(byDependencies).Each(func(e edge) bool {
		errs = append(errs, fmt.Errorf("edge %s -> %s is recorded on one side only", e.from, e.to))
		return false
	})
	for _, e := range bySubscribers.ToSlice() {
		if !live.Contains(e.from) || !live.Contains(e.to) {
			errs = append(errs, fmt.Errorf("edge %s -> %s references a disposed node", e.from, e.to))
		}
	}

	children := mapset.NewThreadUnsafeSet[edge]()
	for _, n := range snap.Nodes {
		for _, child := range n.Children {
			children.Add(edge{from: n.ID, to: child})
		}
	}
	for _, n := range snap.Nodes {
		if !n.Parent.IsZero() && !children.Contains(edge{from: n.Parent, to: n.ID}) {
			errs = append(errs, fmt.Errorf("%s is missing from the children of %s", n.ID, n.Parent))
		}
	}
	return errors.Join(errs...)
}
