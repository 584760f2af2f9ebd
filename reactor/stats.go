package reactor

type counters struct {
	effectRuns   uint64
	memoRuns     uint64
	propagations uint64
	queueFlushes uint64
	disposals    uint64
}

// Stats is a point in time view of a runtime's size and activity.
type Stats struct {
	LiveNodes    int
	Signals      int // signals and memos
	Computations int // effects and memos
	StoredValues int
	Callbacks    int
	Queued       int

	EffectRuns   uint64
	MemoRuns     uint64
	Propagations uint64
	QueueFlushes uint64
	Disposals    uint64
}

func (rt *Runtime) Stats() Stats {
	return Stats{
		LiveNodes:    rt.graph.Len(),
		Signals:      rt.signals.Len(),
		Computations: rt.effects.Len(),
		StoredValues: rt.stored.Len(),
		Callbacks:    rt.callbacks.Len(),
		Queued:       rt.queued.Len(),
		EffectRuns:   rt.stats.effectRuns,
		MemoRuns:     rt.stats.memoRuns,
		Propagations: rt.stats.propagations,
		QueueFlushes: rt.stats.queueFlushes,
		Disposals:    rt.stats.disposals,
	}
}
