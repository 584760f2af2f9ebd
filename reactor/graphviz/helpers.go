package graphviz

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/delaneyj/reactor/algorithm"
	"github.com/delaneyj/reactor/reactor"
)

const maxValueLen = 32

func nodeName(id reactor.NodeID) string {
	var sb strings.Builder
	sb.WriteString("n")
	sb.WriteString(strconv.FormatUint(uint64(id.Index), 10))
	sb.WriteString("v")
	sb.WriteString(strconv.FormatUint(uint64(id.Generation), 10))
	return sb.String()
}

// nodeLabel is the label, then kind and id, then the value for nodes that
// hold one, one per line.
func nodeLabel(n reactor.NodeInfo) string {
	var sb strings.Builder
	if n.Label != "" {
		sb.WriteString(n.Label)
		sb.WriteString("\n")
	}
	sb.WriteString(n.Kind.String())
	sb.WriteString(" ")
	sb.WriteString(n.ID.String())
	if n.Kind == reactor.KindSignal || n.Kind == reactor.KindMemo {
		v := fmt.Sprint(n.Value)
		if utf8.RuneCountInString(v) > maxValueLen {
			v = string([]rune(v)[:maxValueLen]) + "…"
		}
		sb.WriteString("\n= ")
		sb.WriteString(v)
	}
	return sb.String()
}

func nodeShape(kind reactor.NodeKind) string {
	switch kind {
	case reactor.KindSignal:
		return "ellipse"
	case reactor.KindMemo:
		return "box"
	case reactor.KindEffect:
		return "doubleoctagon"
	case reactor.KindScope:
		return "folder"
	default:
		return "note"
	}
}

func stateColor(state algorithm.NodeState) string {
	if state == algorithm.Dirty {
		return "salmon"
	}
	return "khaki"
}
