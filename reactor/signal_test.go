package reactor_test

import (
	"testing"

	"github.com/delaneyj/reactor/reactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterScenario(t *testing.T) {
	rt := newRuntime(t)

	count := reactor.NewSignal(rt, 0)
	var log []int
	reactor.Effect(rt, func() error {
		log = append(log, count.Value())
		return nil
	})
	count.SetValue(1)
	assert.Equal(t, []int{0, 1}, log)

	rt.Batch(func() {
		count.SetValue(2)
		count.SetValue(3)
	})
	assert.Equal(t, []int{0, 1, 3}, log)
}

func TestUnchangedMemoStopsEffects(t *testing.T) {
	rt := newRuntime(t)

	count := reactor.NewSignal(rt, 0)
	memoRuns := 0
	double := reactor.Computed(rt, func(prev *int) int {
		memoRuns++
		return count.Value() * 2
	})
	effectRuns := 0
	reactor.Effect(rt, func() error {
		double.Value()
		effectRuns++
		return nil
	})
	require.Equal(t, 1, memoRuns)
	require.Equal(t, 1, effectRuns)

	count.Update(func(n *int) { *n = *n })
	assert.Equal(t, 2, memoRuns, "every write reruns the memo")
	assert.Equal(t, 1, effectRuns, "an equal result does not reach the effect")

	count.SetValue(4)
	assert.Equal(t, 3, memoRuns)
	assert.Equal(t, 2, effectRuns)
	assert.Equal(t, 8, double.Peek())
}

func TestBatchCoalescesWrites(t *testing.T) {
	rt := newRuntime(t)

	a := reactor.NewSignal(rt, 0)
	b := reactor.NewSignal(rt, 0)
	runs := 0
	reactor.Effect(rt, func() error {
		a.Value()
		b.Value()
		runs++
		return nil
	})

	rt.Batch(func() {
		a.SetValue(1)
		b.SetValue(2)
		assert.Equal(t, 1, runs, "writes stay invisible until the batch closes")
	})
	assert.Equal(t, 2, runs)

	got := reactor.Batch(rt, func() int {
		rt.Batch(func() {
			a.SetValue(3)
		})
		assert.Equal(t, 2, runs, "only the outermost batch flushes")
		b.SetValue(4)
		return a.Peek() + b.Peek()
	})
	assert.Equal(t, 7, got)
	assert.Equal(t, 3, runs)
}

func TestBatchPanicRestoresDepth(t *testing.T) {
	rt := newRuntime(t)

	a := reactor.NewSignal(rt, 0)
	runs := 0
	reactor.Effect(rt, func() error {
		a.Value()
		runs++
		return nil
	})

	assert.Panics(t, func() {
		rt.Batch(func() {
			a.SetValue(1)
			panic("boom")
		})
	})
	assert.Equal(t, 1, runs)

	a.SetValue(2)
	assert.Equal(t, 2, runs, "the next write flushes normally")
}

func TestVersionCountsWrites(t *testing.T) {
	rt := newRuntime(t)

	s := reactor.NewSignal(rt, "x")
	v, ok := rt.Version(s.ID())
	require.True(t, ok)
	assert.Equal(t, uint32(0), v)

	const k = 5
	for i := 0; i < k; i++ {
		s.SetValue("x")
	}
	s.SetUntracked("y")
	s.UpdateUntracked(func(p *string) { *p += "z" })

	v, _ = rt.Version(s.ID())
	assert.Equal(t, uint32(k+2), v)
	assert.Equal(t, "yz", s.Peek())
}

func TestSilentWriteDoesNotNotify(t *testing.T) {
	rt := newRuntime(t)

	s := reactor.NewSignal(rt, 1)
	runs := 0
	reactor.Effect(rt, func() error {
		s.Value()
		runs++
		return nil
	})

	s.SetUntracked(2)
	assert.Equal(t, 1, runs)
	assert.Equal(t, 2, s.Peek())
}

func TestRepeatedReadsSubscribeOnce(t *testing.T) {
	rt := newRuntime(t)

	s := reactor.NewSignal(rt, 1)
	m := reactor.Computed(rt, func(prev *int) int {
		return s.Value() + 1
	})
	effect := reactor.Effect(rt, func() error {
		for i := 0; i < 10; i++ {
			s.Value()
		}
		m.Value()
		s.Value()
		return nil
	})

	s.SetValue(2)

	snap := rt.Snapshot()
	for _, n := range snap.Nodes {
		if n.ID != s.ID() {
			continue
		}
		assert.ElementsMatch(t, []reactor.NodeID{effect.ID(), m.ID()}, n.Subscribers)
	}
}

func TestRepeatedReadsSubscribeOnceWithManyDependencies(t *testing.T) {
	rt := newRuntime(t)

	others := make([]reactor.RWSignal[int], 40)
	for i := range others {
		others[i] = reactor.NewSignal(rt, i)
	}
	s := reactor.NewSignal(rt, 1)
	m := reactor.Computed(rt, func(prev *int) int {
		return s.Value() + 1
	})
	effect := reactor.Effect(rt, func() error {
		for _, o := range others {
			o.Value()
		}
		s.Value()
		m.Value()
		s.Value()
		return nil
	})

	assertSubscribers := func() {
		t.Helper()
		for _, n := range rt.Snapshot().Nodes {
			if n.ID == s.ID() {
				assert.ElementsMatch(t, []reactor.NodeID{effect.ID(), m.ID()}, n.Subscribers)
			}
		}
		assert.NoError(t, rt.CheckInvariants())
	}
	assertSubscribers()

	s.SetValue(2)
	assertSubscribers()
}

func TestSplitHalvesShareState(t *testing.T) {
	rt := newRuntime(t)

	read, write := reactor.Signal(rt, []string{"a"})
	assert.Equal(t, read.ID(), write.ID())

	write.Update(func(s *[]string) {
		*s = append(*s, "b")
	})
	assert.Equal(t, []string{"a", "b"}, read.Value())

	var n int
	read.With(func(s *[]string) {
		n = len(*s)
	})
	assert.Equal(t, 2, n)
}

func TestDisposedSignalAccess(t *testing.T) {
	rt := newRuntime(t)

	s := reactor.NewSignal(rt, 1).WithName("count")
	s.Dispose()

	_, ok := s.TryValue()
	assert.False(t, ok)
	_, ok = s.TryPeek()
	assert.False(t, ok)
	assert.False(t, s.TrySetValue(2))
	assert.False(t, s.TryWith(func(*int) {}))
	assert.True(t, s.IsDisposed())

	func() {
		defer func() {
			var nodeErr *reactor.NodeError
			require.ErrorAs(t, recover().(error), &nodeErr)
			assert.ErrorIs(t, nodeErr, reactor.ErrDisposed)
			assert.Equal(t, s.ID(), nodeErr.ID)
		}()
		s.Value()
	}()

	// writes through the convenience setter are ignored
	s.SetValue(3)
	_, err := reactor.Read[int](rt, s.ID())
	assert.ErrorIs(t, err, reactor.ErrDisposed)
}

func TestStaleHandleNeverAliases(t *testing.T) {
	rt := newRuntime(t)

	old := reactor.NewSignal(rt, 1)
	old.Dispose()
	fresh := reactor.NewSignal(rt, 2)
	require.Equal(t, old.ID().Index, fresh.ID().Index, "slot is reused")

	_, ok := old.TryValue()
	assert.False(t, ok)
	assert.Equal(t, 2, fresh.Value())
}

func TestTypeMismatch(t *testing.T) {
	rt := newRuntime(t)

	s := reactor.NewSignal(rt, 1)
	_, err := reactor.Read[string](rt, s.ID())
	assert.ErrorIs(t, err, reactor.ErrTypeMismatch)

	err = reactor.Write(rt, s.ID(), true, func(p *string) { *p = "x" })
	assert.ErrorIs(t, err, reactor.ErrTypeMismatch)

	scope := reactor.CreateScope(rt, func() {})
	_, err = reactor.ReadUntracked[int](rt, scope.ID())
	assert.ErrorIs(t, err, reactor.ErrNotReadable)
}

func TestLowLevelWith(t *testing.T) {
	rt := newRuntime(t)

	s := reactor.NewSignal(rt, map[string]int{"a": 1, "b": 2})
	n, err := reactor.With(rt, s.ID(), false, func(m *map[string]int) int {
		return len(*m)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSlice(t *testing.T) {
	rt := newRuntime(t)

	type user struct {
		Name string
		Age  int
	}
	u := reactor.NewSignal(rt, user{Name: "ada", Age: 36})
	name := reactor.Slice(u, func(u *user) string { return u.Name })

	var seen []string
	reactor.Effect(rt, func() error {
		seen = append(seen, name.Value())
		return nil
	})
	u.Update(func(u *user) { u.Name = "grace" })

	assert.Equal(t, []string{"ada", "grace"}, seen)
	assert.Equal(t, "grace", name.Peek())
	assert.Equal(t, u.ID(), name.ID())
}

func TestTrigger(t *testing.T) {
	rt := newRuntime(t)

	external := 0
	trigger := reactor.NewTrigger(rt)
	var seen []int
	reactor.Effect(rt, func() error {
		trigger.Track()
		seen = append(seen, external)
		return nil
	})

	external = 5
	assert.True(t, trigger.Notify())
	assert.Equal(t, []int{0, 5}, seen)

	trigger.Dispose()
	assert.False(t, trigger.Notify())
}
