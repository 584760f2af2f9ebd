package reactor

import "go.uber.org/zap"

type Option func(*Runtime)

// WithDebug records where every node was created, keeps the labels of
// disposed nodes for error messages and panics when the runtime is used from
// a goroutine other than the one that created it.
func WithDebug() Option {
	return func(rt *Runtime) {
		rt.debug = true
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(rt *Runtime) {
		if l != nil {
			rt.log = l
		}
	}
}

// WithWorkspaceLimit caps the number of scratch buffers kept for reuse.
func WithWorkspaceLimit(n int) Option {
	return func(rt *Runtime) {
		rt.workspaceLimit = n
	}
}

// WithErrorHandler routes errors returned by effects to fn instead of the
// logger.
func WithErrorHandler(fn OnErrorFunc) Option {
	return func(rt *Runtime) {
		rt.onError = fn
	}
}
