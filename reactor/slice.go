package reactor

// SignalSlice projects part of a signal's value without copying the whole
// value on every read.
type SignalSlice[T, U any] struct {
	source Readable[T]
	get    func(*T) U
}

// Slice returns a projection of source through get.
func Slice[T, U any](source Readable[T], get func(*T) U) SignalSlice[T, U] {
	return SignalSlice[T, U]{source: source, get: get}
}

func (s SignalSlice[T, U]) ID() NodeID {
	return s.source.ID()
}

// Value reads the projection and subscribes the running computation to the
// whole source.
func (s SignalSlice[T, U]) Value() U {
	var out U
	s.source.With(func(p *T) {
		out = s.get(p)
	})
	return out
}

func (s SignalSlice[T, U]) Peek() U {
	var out U
	s.source.PeekWith(func(p *T) {
		out = s.get(p)
	})
	return out
}
