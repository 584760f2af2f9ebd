package reactor

import (
	"bytes"
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"
)

var packagePrefix = reflect.TypeOf(node{}).PkgPath() + "."

// SetDebugLabel names id in error messages, snapshots and graphs.
func (rt *Runtime) SetDebugLabel(id NodeID, label string) {
	if rt.graph.Contains(id) {
		rt.auxOf(id).label = label
	}
}

// DebugLabel returns the label of id. Labels of disposed nodes are only kept
// in debug mode.
func (rt *Runtime) DebugLabel(id NodeID) string {
	if rt.graph.Contains(id) {
		if aux, ok := rt.aux.Get(id); ok {
			return aux.label
		}
		return ""
	}
	if dead, ok := rt.deadLabels.Get(id); ok && dead.generation == id.Generation {
		return dead.label
	}
	return ""
}

// DefinedAt returns the file and line that created id. It is empty unless
// the runtime runs in debug mode.
func (rt *Runtime) DefinedAt(id NodeID) string {
	if n, ok := rt.graph.Get(id); ok {
		return n.definedAt
	}
	if dead, ok := rt.deadLabels.Get(id); ok && dead.generation == id.Generation {
		return dead.definedAt
	}
	return ""
}

// callerOutsidePackage returns the first frame on the stack that is not part
// of this package.
func callerOutsidePackage() string {
	var pcs [16]uintptr
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, packagePrefix) {
			return fmt.Sprintf("%s:%d", frame.File, frame.Line)
		}
		if !more {
			return ""
		}
	}
}

func (rt *Runtime) checkGoroutine() {
	if !rt.debug {
		return
	}
	if id := goroutineID(); id != rt.goroutine {
		panic(fmt.Errorf("%w: created on %d, used on %d", ErrWrongGoroutine, rt.goroutine, id))
	}
}

// goroutineID parses the id out of the "goroutine N [running]:" header that
// runtime.Stack writes.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	field := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(field, ' '); i >= 0 {
		field = field[:i]
	}
	id, _ := strconv.ParseUint(string(field), 10, 64)
	return id
}
