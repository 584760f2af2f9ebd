package reactor_test

import (
	"testing"

	"github.com/delaneyj/reactor/reactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisposeReleasesWholeSubtree(t *testing.T) {
	rt := newRuntime(t)

	outside := reactor.NewSignal(rt, 1)
	var (
		sig    reactor.RWSignal[int]
		memo   reactor.Memo[int]
		effect reactor.EffectHandle
		inner  reactor.Scope
		stored reactor.StoredValue[string]
		cb     reactor.Callback[int]
	)
	scope := reactor.CreateScope(rt, func() {
		sig = reactor.NewSignal(rt, 2)
		memo = reactor.Computed(rt, func(prev *int) int {
			return sig.Value() + outside.Value()
		})
		effect = reactor.Effect(rt, func() error {
			memo.Value()
			return nil
		})
		inner = reactor.CreateScope(rt, func() {
			stored = reactor.NewStoredValue(rt, "kept")
			cb = reactor.NewCallback(rt, func(int) {})
		})
	})
	require.Equal(t, 8, rt.Stats().LiveNodes)

	scope.Dispose()

	for _, disposed := range []bool{
		scope.IsDisposed(),
		sig.IsDisposed(),
		memo.IsDisposed(),
		effect.IsDisposed(),
		inner.IsDisposed(),
		stored.IsDisposed(),
		cb.IsDisposed(),
	} {
		assert.True(t, disposed)
	}

	stats := rt.Stats()
	assert.Equal(t, 1, stats.LiveNodes)
	assert.Equal(t, 1, stats.Signals)
	assert.Zero(t, stats.Computations)
	assert.Zero(t, stats.StoredValues)
	assert.Zero(t, stats.Callbacks)
	assert.Equal(t, uint64(7), stats.Disposals)

	// the surviving signal no longer lists the disposed memo
	outside.SetValue(3)
	snap := rt.Snapshot()
	require.Len(t, snap.Nodes, 1)
	assert.Empty(t, snap.Nodes[0].Subscribers)
}

func TestCleanupsRunParentFirst(t *testing.T) {
	rt := newRuntime(t)

	var order []string
	scope := reactor.CreateScope(rt, func() {
		rt.OnCleanup(func() { order = append(order, "root") })
		reactor.CreateScope(rt, func() {
			rt.OnCleanup(func() { order = append(order, "first") })
			reactor.CreateScope(rt, func() {
				rt.OnCleanup(func() { order = append(order, "grandchild") })
			})
		})
		reactor.CreateScope(rt, func() {
			rt.OnCleanup(func() { order = append(order, "second") })
		})
		rt.OnCleanup(func() { order = append(order, "root again") })
	})

	scope.Dispose()
	assert.Equal(t, []string{"root", "root again", "first", "second", "grandchild"}, order)
}

func TestCleanupsSeeLiveSubtree(t *testing.T) {
	rt := newRuntime(t)

	var seen []int
	scope := reactor.CreateScope(rt, func() {
		parentSignal := reactor.NewSignal(rt, 1)
		reactor.CreateScope(rt, func() {
			childSignal := reactor.NewSignal(rt, 2)
			rt.OnCleanup(func() {
				seen = append(seen, parentSignal.Peek(), childSignal.Peek())
			})
		})
		rt.OnCleanup(func() {
			seen = append(seen, parentSignal.Peek())
		})
	})

	scope.Dispose()
	assert.Equal(t, []int{1, 1, 2}, seen)
}

func TestEffectRerunResetsOwnedState(t *testing.T) {
	rt := newRuntime(t)

	trigger := reactor.NewSignal(rt, 0)
	var (
		cleanups int
		owned    []reactor.RWSignal[int]
	)
	reactor.Effect(rt, func() error {
		trigger.Value()
		owned = append(owned, reactor.NewSignal(rt, len(owned)))
		rt.OnCleanup(func() { cleanups++ })
		return nil
	})

	trigger.SetValue(1)
	trigger.SetValue(2)
	assert.Equal(t, 2, cleanups)
	require.Len(t, owned, 3)
	assert.True(t, owned[0].IsDisposed())
	assert.True(t, owned[1].IsDisposed())
	assert.False(t, owned[2].IsDisposed())
}

func TestDisposeIsIdempotent(t *testing.T) {
	rt := newRuntime(t)

	cleanups := 0
	scope := reactor.CreateScope(rt, func() {
		rt.OnCleanup(func() { cleanups++ })
	})
	scope.Dispose()
	scope.Dispose()
	assert.Equal(t, 1, cleanups)

	// a stale id must not reach the node that took over its slot
	fresh := reactor.NewSignal(rt, 1)
	require.Equal(t, scope.ID().Index, fresh.ID().Index)
	rt.Dispose(scope.ID())
	assert.False(t, fresh.IsDisposed())
}

func TestDisposeMemoUnlinksReaders(t *testing.T) {
	rt := newRuntime(t)

	src := reactor.NewSignal(rt, 1)
	memo := reactor.Computed(rt, func(prev *int) int {
		return src.Value() * 10
	})
	runs := 0
	reactor.Effect(rt, func() error {
		runs++
		memo.TryValue()
		return nil
	})
	require.Equal(t, 1, runs)

	memo.Dispose()
	src.SetValue(2)
	assert.Equal(t, 1, runs)
	_, ok := memo.TryValue()
	assert.False(t, ok)
}

func TestOnCleanupWithoutOwner(t *testing.T) {
	rt := newRuntime(t)

	called := false
	rt.OnCleanup(func() { called = true })
	assert.False(t, called)
}

func TestRunWithOwner(t *testing.T) {
	rt := newRuntime(t)

	scope := reactor.CreateScope(rt, func() {})
	var late reactor.RWSignal[int]
	require.NoError(t, scope.Run(func() {
		late = reactor.NewSignal(rt, 1)
	}))
	assert.True(t, rt.Owner().IsZero())

	scope.Dispose()
	assert.True(t, late.IsDisposed())
	assert.ErrorIs(t, scope.Run(func() {}), reactor.ErrDisposed)
}

func TestStoredValue(t *testing.T) {
	rt := newRuntime(t)

	var stored reactor.StoredValue[[]int]
	scope := reactor.CreateScope(rt, func() {
		stored = reactor.NewStoredValue(rt, []int{1})
	})

	runs := 0
	reactor.Effect(rt, func() error {
		runs++
		stored.TryValue()
		return nil
	})

	assert.True(t, stored.Update(func(s *[]int) { *s = append(*s, 2) }))
	assert.Equal(t, []int{1, 2}, stored.Value())
	assert.True(t, stored.SetValue(nil))
	assert.Equal(t, 1, runs, "stored values never notify")

	scope.Dispose()
	assert.False(t, stored.SetValue([]int{3}))
	_, ok := stored.TryValue()
	assert.False(t, ok)
	assert.Panics(t, func() { stored.Value() })
}

func TestCallback(t *testing.T) {
	rt := newRuntime(t)

	src := reactor.NewSignal(rt, 0)
	var got []int
	cb := reactor.NewCallback(rt, func(n int) {
		got = append(got, n+src.Value())
	})

	runs := 0
	reactor.Effect(rt, func() error {
		runs++
		cb.Call(1)
		return nil
	})
	src.SetValue(10)
	assert.Equal(t, 1, runs, "callbacks run untracked")
	assert.Equal(t, []int{1}, got)

	assert.True(t, cb.Call(2))
	assert.Equal(t, []int{1, 12}, got)

	cb.Dispose()
	assert.False(t, cb.Call(3))
	assert.Len(t, got, 2)
}
