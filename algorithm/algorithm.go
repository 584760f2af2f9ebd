package algorithm

import "github.com/delaneyj/reactor/arena"

// Propagate marks everything downstream of a changed source.
//
// Direct subscribers become Dirty and the rest of the reachable graph becomes
// Check, walked breadth first. Nodes that are already Check or Dirty stop the
// walk since their own subscribers were marked when they were. Effects are
// handed to QueueEffect instead of being walked.
func Propagate(g Graph, source arena.Handle, ws *Workspace) {
	queue := ws.Queue()
	subs := ws.Buffer()
	defer func() {
		ws.ReleaseBuffer(subs)
		ws.ReleaseQueue(queue)
	}()

	subs = g.AppendSubscribers(source, subs[:0])
	for _, sub := range subs {
		effect := g.IsEffect(sub)
		if g.State(sub) != Dirty {
			g.SetState(sub, Dirty)
			if !effect {
				queue.PushBack(sub)
			}
		}
		if effect {
			g.QueueEffect(sub)
		}
	}

	for queue.Len() > 0 {
		current := queue.PopFront()
		subs = g.AppendSubscribers(current, subs[:0])
		for _, sub := range subs {
			if g.State(sub) != Clean {
				continue
			}
			g.SetState(sub, Check)
			if g.IsEffect(sub) {
				g.QueueEffect(sub)
			} else {
				queue.PushBack(sub)
			}
		}
	}
}

// Evaluate brings target up to date.
//
// It walks dependencies depth first with an explicit stack so that every
// non-Clean dependency is settled before the node that reads it. A Check node
// whose dependencies all kept their versions is marked Clean without running.
// A node marked while its computation runs is left marked for the caller to
// schedule again.
func Evaluate(g Graph, target arena.Handle, ws *Workspace) {
	if g.State(target) == Clean {
		return
	}

	stack := ws.Buffer()
	deps := ws.Buffer()
	defer func() {
		ws.ReleaseBuffer(deps)
		ws.ReleaseBuffer(stack)
	}()

	stack = append(stack[:0], target)
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		state := g.State(current)
		if state == Clean {
			stack = stack[:len(stack)-1]
			continue
		}

		pending := false
		deps = g.AppendDependencies(current, deps[:0])
		for _, dep := range deps {
			if g.State(dep) != Clean {
				stack = append(stack, dep)
				pending = true
				break
			}
		}
		if pending {
			continue
		}

		stack = stack[:len(stack)-1]
		if state == Check && !g.DependenciesChanged(current) {
			g.SetState(current, Clean)
			continue
		}
		// Clean before running, so a write the computation makes to one of
		// its own dependencies marks it again.
		g.SetState(current, Clean)
		g.RunComputation(current)
	}
}
