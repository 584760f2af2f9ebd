package reactor_test

import (
	"testing"

	"github.com/delaneyj/reactor/reactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRuntime(t *testing.T, opts ...reactor.Option) *reactor.Runtime {
	t.Helper()
	opts = append([]reactor.Option{
		reactor.WithErrorHandler(func(id reactor.NodeID, err error) {
			assert.FailNow(t, err.Error())
		}),
	}, opts...)
	rt := reactor.New(opts...)
	t.Cleanup(func() {
		require.NoError(t, rt.CheckInvariants())
	})
	return rt
}
