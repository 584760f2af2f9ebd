package reactor

import (
	"errors"
	"strings"
)

var (
	ErrDisposed       = errors.New("reactor: node is disposed")
	ErrTypeMismatch   = errors.New("reactor: value has a different type")
	ErrNotReadable    = errors.New("reactor: node holds no readable value")
	ErrMissingContext = errors.New("reactor: context not provided")
	ErrNoOwner        = errors.New("reactor: no owner")
	ErrWrongGoroutine = errors.New("reactor: runtime used from another goroutine")
)

// OnErrorFunc receives errors returned by effect functions.
type OnErrorFunc func(id NodeID, err error)

// NodeError describes a failed operation on a node. It is the panic value of
// the panicking accessors such as Value and ExpectContext.
type NodeError struct {
	ID        NodeID
	Label     string
	DefinedAt string
	Err       error
}

func (e *NodeError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Err.Error())
	sb.WriteString(" (node ")
	sb.WriteString(e.ID.String())
	if e.Label != "" {
		sb.WriteString(` "`)
		sb.WriteString(e.Label)
		sb.WriteString(`"`)
	}
	if e.DefinedAt != "" {
		sb.WriteString(" defined at ")
		sb.WriteString(e.DefinedAt)
	}
	sb.WriteString(")")
	return sb.String()
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

func (rt *Runtime) nodeError(id NodeID, err error) *NodeError {
	return &NodeError{
		ID:        id,
		Label:     rt.DebugLabel(id),
		DefinedAt: rt.DefinedAt(id),
		Err:       err,
	}
}
