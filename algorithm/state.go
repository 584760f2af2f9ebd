package algorithm

// NodeState is the freshness of a computation's cached result.
type NodeState uint8

const (
	Clean NodeState = iota // cached value is valid, no need to recompute
	Check                  // cached value might be stale, check dependencies to decide whether to recompute
	Dirty                  // a direct dependency changed, value needs to be recomputed
)

func (s NodeState) String() string {
	switch s {
	case Clean:
		return "clean"
	case Check:
		return "check"
	case Dirty:
		return "dirty"
	default:
		return "unknown"
	}
}
